package rlebits

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrShortFrame is returned by Unpack when the input is not a whole number of
// frames.
var ErrShortFrame = errors.New("rlebits: truncated frame")

// PackBits packs bits eight to a byte, most significant bit first:
//   bits[0] -> 0b1000_0000
//   bits[7] -> 0b0000_0001
// A trailing partial group is padded with zero bits.
func PackBits(bits []bool) []byte {
	packed := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit {
			packed[i/8] |= 1 << uint(7-i%8)
		}
	}
	return packed
}

// UnpackBits is the inverse of PackBits, returning the first n bits of data.
func UnpackBits(data []byte, n int) []bool {
	if limit := len(data) * 8; n > limit {
		n = limit
	}
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = data[i/8]&(1<<uint(7-i%8)) != 0
	}
	return bits
}

// Unpack splits a packed stream back into frames. Lit cells are set to On.
func Unpack(data []byte) ([]*Frame, error) {
	if len(data)%FrameBytes != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrShortFrame, len(data), FrameBytes)
	}
	frames := make([]*Frame, 0, len(data)/FrameBytes)
	for off := 0; off < len(data); off += FrameBytes {
		f := NewFrame()
		for i, bit := range UnpackBits(data[off:off+FrameBytes], Rows*Cols) {
			if bit {
				f[i/Cols][i%Cols] = On
			}
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// Encoder writes packed frames to an output stream.
type Encoder struct {
	w io.Writer
	n int
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes FrameBytes bytes per frame, in order. There is no header.
func (enc *Encoder) Encode(frames ...*Frame) error {
	for _, f := range frames {
		n, err := enc.w.Write(f.Pack())
		enc.n += n
		if err != nil {
			return err
		}
	}
	return nil
}

// Written returns the number of bytes written so far.
func (enc *Encoder) Written() int {
	return enc.n
}

// FirstMismatch returns the index of the first frame whose packed bytes differ
// from data, or -1 if data is exactly the packed frames. When one side is a
// prefix of the other, the index is the length of the shorter side.
func FirstMismatch(frames []*Frame, data []byte) int {
	for i, f := range frames {
		off := i * FrameBytes
		if off+FrameBytes > len(data) || !bytes.Equal(f.Pack(), data[off:off+FrameBytes]) {
			return i
		}
	}
	if len(data) != len(frames)*FrameBytes {
		return len(frames)
	}
	return -1
}
