package rlebits

import "strings"

// Frame geometry is fixed. Consumers of the packed stream know it out of band.
const (
	Rows = 24
	Cols = 64

	// FrameBytes is the packed size of a single frame.
	FrameBytes = (Rows*Cols + 7) / 8
)

const (
	// Blank is the only character that packs to an unset bit.
	Blank rune = ' '
	// On is the character Unpack and the image importer use for lit cells.
	On rune = '#'
)

// Frame is one animation tick: a grid of Rows x Cols characters. The cell at
// (row, col) is f[row][col].
type Frame [Rows][Cols]rune

// NewFrame returns a frame with every cell set to Blank.
func NewFrame() *Frame {
	var f Frame
	f.Clear()
	return &f
}

// Clear sets every cell to Blank.
func (f *Frame) Clear() {
	for y := range f {
		for x := range f[y] {
			f[y][x] = Blank
		}
	}
}

// Set writes c at (row, col). Out of range coordinates are ignored and
// reported as false.
func (f *Frame) Set(row, col int, c rune) bool {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return false
	}
	f[row][col] = c
	return true
}

// At returns the character at (row, col), or Blank when out of range.
func (f *Frame) At(row, col int) rune {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return Blank
	}
	return f[row][col]
}

// Lit reports whether the cell at (row, col) is anything but Blank.
func (f *Frame) Lit(row, col int) bool {
	return f.At(row, col) != Blank
}

// Bits flattens the frame row-major into one bool per cell.
func (f *Frame) Bits() []bool {
	bits := make([]bool, 0, Rows*Cols)
	for y := 0; y < Rows; y++ {
		for x := 0; x < Cols; x++ {
			bits = append(bits, f[y][x] != Blank)
		}
	}
	return bits
}

// Pack returns the frame's FrameBytes long bit-packed representation.
func (f *Frame) Pack() []byte {
	return PackBits(f.Bits())
}

// Equal reports whether both frames hold the same characters.
func (f *Frame) Equal(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	return *f == *other
}

// String renders the frame as Rows newline terminated lines.
func (f *Frame) String() string {
	var sb strings.Builder
	for y := 0; y < Rows; y++ {
		sb.WriteString(string(f[y][:]))
		sb.WriteByte('\n')
	}
	return sb.String()
}
