package rlebits

import (
	"bufio"
	"io"
	"strconv"
)

// RLEEncoder writes frames in the text format read by Decoder.
type RLEEncoder struct {
	w *bufio.Writer
}

func NewRLEEncoder(w io.Writer) *RLEEncoder {
	return &RLEEncoder{w: bufio.NewWriter(w)}
}

/*
Encode writes each frame as an F line, one row line per row that has at least
one lit cell, and an E line. A row line starts at the first lit column and
stops at the last one, so leading and trailing blanks are never written:

	F
	0:39 1%
	3:10 4#2 4#
	E

Digits cannot follow a count in the format, and line breaks would end the
row line early, so digit, '\r' and '\n' cells are written as On.
Decoding the output yields frames that pack to the same bytes.
*/
func (enc *RLEEncoder) Encode(frames ...*Frame) error {
	for _, f := range frames {
		enc.w.WriteString(FrameStart + "\n")
		for y := 0; y < Rows; y++ {
			if line := rowLine(f, y); line != nil {
				enc.w.Write(line)
			}
		}
		enc.w.WriteString(FrameEnd + "\n")
	}
	return enc.w.Flush()
}

func rowLine(f *Frame, y int) []byte {
	first, last := -1, -1
	for x := 0; x < Cols; x++ {
		if f[y][x] != Blank {
			if first < 0 {
				first = x
			}
			last = x
		}
	}
	if first < 0 {
		return nil
	}

	line := strconv.AppendInt(nil, int64(y), 10)
	line = append(line, Separator)
	line = strconv.AppendInt(line, int64(first), 10)
	line = append(line, ' ')
	for x := first; x <= last; {
		c := encodable(f[y][x])
		n := 1
		for x+n <= last && encodable(f[y][x+n]) == c {
			n++
		}
		line = strconv.AppendInt(line, int64(n), 10)
		line = append(line, string(c)...)
		x += n
	}
	return append(line, '\n')
}

func encodable(c rune) rune {
	if isDigit(c) || c == '\r' || c == '\n' {
		return On
	}
	return c
}
