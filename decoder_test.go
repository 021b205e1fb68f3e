package rlebits

import (
	"errors"
	"strings"
	"testing/iotest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Decoder", func() {
	Describe("frame markers", func() {
		It("produces no frames from empty input", func() {
			Expect(decode("")).To(BeEmpty())
		})

		It("produces a blank frame for an F/E pair with no rows", func() {
			frames := decode("F\nE\n")
			Expect(frames).To(HaveLen(1))
			Expect(frames[0].Equal(NewFrame())).To(BeTrue())
		})

		It("closes the open frame when a new F arrives", func() {
			frames := decode("F\n0:0 1#\nF\n0:1 1#\nE\n")
			Expect(frames).To(HaveLen(2))
			Expect(frames[0].At(0, 0)).To(Equal('#'))
			Expect(frames[0].At(0, 1)).To(Equal(Blank))
			Expect(frames[1].At(0, 0)).To(Equal(Blank))
			Expect(frames[1].At(0, 1)).To(Equal('#'))
		})

		It("ignores an E with no open frame", func() {
			Expect(decode("E\nE\n")).To(BeEmpty())
		})

		It("keeps a frame still open at end of input", func() {
			frames := decode("F\n3:3 2@")
			Expect(frames).To(HaveLen(1))
			Expect(frames[0].At(3, 3)).To(Equal('@'))
			Expect(frames[0].At(3, 4)).To(Equal('@'))
		})

		It("starts a frame implicitly on headerless row data", func() {
			dec := NewDecoder(strings.NewReader("0:0 3#\n1:0 3#\n"))
			frames, err := dec.Decode()
			Expect(err).NotTo(HaveOccurred())
			Expect(frames).To(HaveLen(1))
			Expect(frames[0].At(1, 2)).To(Equal('#'))
			Expect(dec.Stats().Implicit).To(Equal(1))
		})

		It("starts a new implicit frame for rows after an E", func() {
			frames := decode("F\n0:0 1a\nE\n0:0 1b\n")
			Expect(frames).To(HaveLen(2))
			Expect(frames[1].At(0, 0)).To(Equal('b'))
		})

		It("ignores lines that are neither markers nor rows", func() {
			dec := NewDecoder(strings.NewReader("# comment\n\nF\nframe 1\n f\nE\n"))
			frames, err := dec.Decode()
			Expect(err).NotTo(HaveOccurred())
			Expect(frames).To(HaveLen(1))
			Expect(frames[0].Equal(NewFrame())).To(BeTrue())
			Expect(dec.Stats().Ignored).To(Equal(4))
		})

		It("accepts CRLF line endings", func() {
			frames := decode("F\r\n0:0 1#\r\nE\r\n")
			Expect(frames).To(HaveLen(1))
			Expect(frames[0].At(0, 0)).To(Equal('#'))
		})
	})

	Describe("row data", func() {
		It("places a single run at the start column", func() {
			f := decode("F\n0:39 1%\nE\n")[0]
			for x := 0; x < Cols; x++ {
				if x == 39 {
					Expect(f.At(0, x)).To(Equal('%'))
				} else {
					Expect(f.At(0, x)).To(Equal(Blank), "column %d", x)
				}
			}
		})

		It("fills a whole row", func() {
			f := decode("F\n0:0 64#\nE\n")[0]
			Expect(string(f[0][:])).To(Equal(strings.Repeat("#", Cols)))
			Expect(string(f[1][:])).To(Equal(strings.Repeat(" ", Cols)))
		})

		It("reads literal characters without counts", func() {
			f := decode("2:3 ab\n")[0]
			Expect(f.At(2, 3)).To(Equal('a'))
			Expect(f.At(2, 4)).To(Equal('b'))
			Expect(f.At(2, 5)).To(Equal(Blank))
		})

		It("mixes counted runs, blank runs and literals", func() {
			f := decode("5:1 2#3 %\n")[0]
			Expect(string(f[5][:8])).To(Equal(" ##   % "))
		})

		It("skips every space between the start column and the runs", func() {
			f := decode("0:2    3#\n")[0]
			Expect(string(f[0][:6])).To(Equal("  ### "))
		})

		It("defaults the start column to zero when it is missing", func() {
			f := decode("0: 2#\n")[0]
			Expect(string(f[0][:3])).To(Equal("## "))
		})

		It("treats a zero count as a no-op", func() {
			f := decode("0:5 0#1%\n")[0]
			Expect(f.At(0, 5)).To(Equal('%'))
			Expect(f.At(0, 6)).To(Equal(Blank))
		})

		It("truncates runs at the last column", func() {
			f := decode("0:60 10#1%\n1:62 3#2@\n")[0]
			Expect(string(f[0][58:])).To(Equal("  ####"))
			Expect(string(f[1][60:])).To(Equal("  ##"))
		})

		It("never writes when the start column is past the row", func() {
			f := decode("0:64 5#\n1:1000 #\n")[0]
			Expect(f.Equal(NewFrame())).To(BeTrue())
		})

		It("survives counts too large for an int", func() {
			f := decode("0:0 99999999999999999999999#\n")[0]
			Expect(string(f[0][:])).To(Equal(strings.Repeat("#", Cols)))
		})

		It("drops a trailing count with no character", func() {
			dec := NewDecoder(strings.NewReader("0:0 2#3\n"))
			frames, err := dec.Decode()
			Expect(err).NotTo(HaveOccurred())
			Expect(string(frames[0][0][:4])).To(Equal("##  "))
			Expect(dec.Stats().Dropped).To(Equal(1))
		})

		It("keeps multibyte characters whole", func() {
			f := decode("0:0 2é▒\n")[0]
			Expect(string(f[0][:4])).To(Equal("éé▒ "))
		})

		It("splits on the first separator only", func() {
			f := decode("0:0 1:2:\n")[0]
			Expect(string(f[0][:4])).To(Equal("::: "))
		})
	})

	Describe("out of range rows", func() {
		It("leaves the frame untouched", func() {
			dec := NewDecoder(strings.NewReader("F\n24:0 64#\n99:0 1#\n-1:0 1#\nx:0 1#\nE\n"))
			frames, err := dec.Decode()
			Expect(err).NotTo(HaveOccurred())
			Expect(frames).To(HaveLen(1))
			Expect(frames[0].Equal(NewFrame())).To(BeTrue())
			Expect(dec.Stats().Discarded).To(Equal(4))
		})

		It("still opens an implicit frame for a discarded row", func() {
			Expect(decode("30:0 1#\n")).To(HaveLen(1))
		})

		It("accepts the last row", func() {
			f := decode("23:63 1#\n")[0]
			Expect(f.At(23, 63)).To(Equal('#'))
		})
	})

	It("counts lines and frames", func() {
		dec := NewDecoder(strings.NewReader("F\n0:0 1#\nE\nF\nE\n"))
		_, err := dec.Decode()
		Expect(err).NotTo(HaveOccurred())
		Expect(dec.Stats()).To(Equal(Stats{Lines: 5, Frames: 2}))
	})

	It("returns reader errors", func() {
		boom := errors.New("boom")
		_, err := Decode(iotest.ErrReader(boom))
		Expect(err).To(MatchError(boom))
	})
})
