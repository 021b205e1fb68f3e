package rlebits

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Result is a finished conversion. Data holds the whole packed stream.
type Result struct {
	Data   []byte
	Frames int
	Stats  Stats
}

// BytesPerFrame is zero when there are no frames.
func (r Result) BytesPerFrame() int {
	if r.Frames == 0 {
		return 0
	}
	return len(r.Data) / r.Frames
}

// Convert decodes the text in r and packs every frame, in order, into one
// in-memory buffer.
func Convert(r io.Reader, opts ...Option) (Result, error) {
	o := newOptions(opts)
	dec := NewDecoder(r, opts...)
	frames, err := dec.Decode()
	if err != nil {
		return Result{}, err
	}

	var buf bytes.Buffer
	buf.Grow(len(frames) * FrameBytes)
	enc := NewEncoder(&buf)
	for i, f := range frames {
		if err := enc.Encode(f); err != nil {
			return Result{}, err
		}
		if o.progress > 0 && (i+1)%o.progress == 0 {
			o.logger.Info("processed frames", "frames", i+1)
		}
	}

	return Result{
		Data:   buf.Bytes(),
		Frames: len(frames),
		Stats:  dec.Stats(),
	}, nil
}

// ConvertFile reads the text file at in and writes the packed stream to out.
// Nothing is written unless the input was read completely.
func ConvertFile(in, out string, opts ...Option) (Result, error) {
	o := newOptions(opts)

	f, err := os.Open(in)
	if err != nil {
		return Result{}, fmt.Errorf("read input: %w", err)
	}
	defer f.Close()

	o.logger.Info("reading", "path", in)
	res, err := Convert(f, opts...)
	if err != nil {
		return Result{}, fmt.Errorf("read input: %w", err)
	}

	o.logger.Info("writing", "path", out, "frames", res.Frames)
	if err := os.WriteFile(out, res.Data, 0o644); err != nil {
		return res, fmt.Errorf("write output: %w", err)
	}
	return res, nil
}
