package rlebits

import (
	"bufio"
	"bytes"
	"image/jpeg"
	"io"
)

// MJPEGReader splits a stream of concatenated jpeg images (as written by
// `ffmpeg -f mjpeg`) at each end-of-image marker.
type MJPEGReader struct {
	r   *bufio.Reader
	buf bytes.Buffer
}

func NewMJPEGReader(r io.Reader) *MJPEGReader {
	return &MJPEGReader{r: bufio.NewReader(r)}
}

// Next returns the next converted frame, or io.EOF after the last complete
// image. Trailing bytes that never reach an end-of-image marker are ignored.
func (mjpeg *MJPEGReader) Next(opts ...ImageOpt) (*Frame, error) {
	mjpeg.buf.Reset()
	var prev byte
	for {
		c, err := mjpeg.r.ReadByte()
		if err != nil {
			return nil, err
		}
		mjpeg.buf.WriteByte(c)
		if prev == 0xff && c == 0xd9 {
			break
		}
		prev = c
	}

	img, err := jpeg.Decode(&mjpeg.buf)
	if err != nil {
		return nil, err
	}
	return FrameFromImage(img, opts...), nil
}

// DecodeMJPEG converts every image in an mjpeg stream.
func DecodeMJPEG(r io.Reader, opts ...ImageOpt) ([]*Frame, error) {
	mjpeg := NewMJPEGReader(r)
	var frames []*Frame
	for {
		f, err := mjpeg.Next(opts...)
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
	}
}
