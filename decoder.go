package rlebits

import (
	"bufio"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// Line markers of the text format.
const (
	FrameStart = "F"
	FrameEnd   = "E"
	Separator  = ':'
)

const maxLineSize = 1 << 20

// Option configures a Decoder or a conversion.
type Option func(o *options)

type options struct {
	logger   *slog.Logger
	progress int
}

func newOptions(opts []Option) options {
	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger routes diagnostics to l. Discarded rows are logged at debug
// level, conversion progress at info level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithProgress logs a progress line every n packed frames. Zero disables it.
func WithProgress(n int) Option {
	return func(o *options) {
		o.progress = n
	}
}

// Stats counts what the decoder did with its input.
type Stats struct {
	Lines     int // lines read
	Frames    int // frames emitted
	Ignored   int // lines that were neither markers nor row data
	Discarded int // row lines dropped for a bad or out of range row index
	Implicit  int // frames started by row data without a preceding F
	Dropped   int // count tokens with no character after them
}

// Decoder reads the RLE text format. It is lenient: malformed content is
// absorbed, only errors from the underlying reader are returned.
type Decoder struct {
	r       io.Reader
	log     *slog.Logger
	stats   Stats
	current *Frame
	frames  []*Frame
}

func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	o := newOptions(opts)
	return &Decoder{
		r:   r,
		log: o.logger,
	}
}

// Decode reads r until EOF and returns every frame in input order.
func Decode(r io.Reader, opts ...Option) ([]*Frame, error) {
	return NewDecoder(r, opts...).Decode()
}

// Decode consumes the whole input. A frame still open at EOF is kept.
func (dec *Decoder) Decode() ([]*Frame, error) {
	scanner := bufio.NewScanner(dec.r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	for scanner.Scan() {
		dec.stats.Lines++
		dec.line(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	dec.flush()
	frames := dec.frames
	dec.frames = nil
	return frames, nil
}

// Stats returns the counters accumulated so far.
func (dec *Decoder) Stats() Stats {
	return dec.stats
}

func (dec *Decoder) line(line string) {
	switch {
	case line == FrameStart:
		dec.flush()
		dec.current = NewFrame()
	case line == FrameEnd:
		dec.flush()
	case strings.IndexByte(line, Separator) >= 0:
		if dec.current == nil {
			dec.current = NewFrame()
			dec.stats.Implicit++
		}
		dec.row(line)
	default:
		dec.stats.Ignored++
	}
}

func (dec *Decoder) flush() {
	if dec.current == nil {
		return
	}
	dec.frames = append(dec.frames, dec.current)
	dec.current = nil
	dec.stats.Frames++
}

// row applies "<row>:<col>[ ...]<runs>" to the current frame.
func (dec *Decoder) row(line string) {
	i := strings.IndexByte(line, Separator)
	row, err := strconv.Atoi(strings.TrimSpace(line[:i]))
	if err != nil || row < 0 || row >= Rows {
		dec.stats.Discarded++
		dec.log.Debug("discarding row", "line", dec.stats.Lines, "text", line)
		return
	}

	rest := []rune(line[i+1:])
	col, j := number(rest, 0)
	for j < len(rest) && rest[j] == ' ' {
		j++
	}

	for j < len(rest) && col < Cols {
		if !isDigit(rest[j]) {
			dec.current[row][col] = rest[j]
			col++
			j++
			continue
		}
		var count int
		count, j = number(rest, j)
		if j >= len(rest) {
			dec.stats.Dropped++
			return
		}
		c := rest[j]
		j++
		for n := 0; n < count && col < Cols; n++ {
			dec.current[row][col] = c
			col++
		}
	}
}

// number reads a run of decimal digits starting at s[i]. Values saturate
// just past Cols, which is enough to exhaust any row.
func number(s []rune, i int) (int, int) {
	var n int
	for i < len(s) && isDigit(s[i]) {
		if n <= Cols {
			n = n*10 + int(s[i]-'0')
		}
		i++
	}
	return n, i
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
