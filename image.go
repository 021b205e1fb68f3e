package rlebits

import (
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
)

type ImageOpt func(imp *importer)

// WithGamma adjusts gamma before thresholding. 1.0 leaves the image as is.
func WithGamma(gamma float64) ImageOpt {
	return func(imp *importer) {
		imp.gamma = gamma
	}
}

// WithContrast adjusts contrast in the range -100..100 before thresholding.
func WithContrast(contrast float64) ImageOpt {
	return func(imp *importer) {
		imp.contrast = contrast
	}
}

// If used, light pixels become lit cells instead of dark ones.
func WithInvertedColors() ImageOpt {
	return func(imp *importer) {
		imp.invert = true
	}
}

// WithDrawer replaces the Floyd-Steinberg drawer used to reduce the image to
// black and white. draw.Src gives a plain threshold.
func WithDrawer(d draw.Drawer) ImageOpt {
	return func(imp *importer) {
		imp.drawer = d
	}
}

type importer struct {
	gamma    float64
	contrast float64
	invert   bool
	drawer   draw.Drawer
}

func newImporter(opts []ImageOpt) *importer {
	imp := importer{
		gamma:  1.0,
		drawer: draw.FloydSteinberg,
	}
	for _, opt := range opts {
		opt(&imp)
	}
	return &imp
}

// DecodeImage decodes a gif, jpeg, png or bmp image and converts it to a frame.
func DecodeImage(r io.Reader, opts ...ImageOpt) (*Frame, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return FrameFromImage(img, opts...), nil
}

/*
FrameFromImage scales img to Cols x Rows pixels, one pixel per cell, and sets
a cell to On wherever the scaled pixel comes out black. The image is stretched
to fit; terminal cells are roughly twice as tall as they are wide, so a 4:3
source keeps its look on a 64x24 character screen.

Each pixel is converted to either black or white by redrawing the scaled image
with the importer's drawer (Floyd Steinberg diffusion, by default) into a
3-color palette of black, white, and transparent. Transparent pixels stay
blank.
*/
func FrameFromImage(img image.Image, opts ...ImageOpt) *Frame {
	return newImporter(opts).frame(img)
}

var defaultPalette = []color.Color{color.Black, color.White, color.Transparent}

func (imp *importer) frame(img image.Image) *Frame {
	paletted := imp.redraw(img)
	bounds := paletted.Bounds()

	f := NewFrame()
	for y := 0; y < Rows && bounds.Min.Y+y < bounds.Max.Y; y++ {
		for x := 0; x < Cols && bounds.Min.X+x < bounds.Max.X; x++ {
			// Always bet on black
			if paletted.ColorIndexAt(bounds.Min.X+x, bounds.Min.Y+y) == 0 {
				f[y][x] = On
			}
		}
	}
	return f
}

func (imp *importer) redraw(img image.Image) *image.Paletted {
	img = resize.Resize(Cols, Rows, img, resize.Bilinear)
	if imp.gamma != 1.0 {
		img = imaging.AdjustGamma(img, imp.gamma)
	}
	if imp.contrast != 0 {
		img = imaging.AdjustContrast(img, imp.contrast)
	}
	if imp.invert {
		img = imaging.Invert(img)
	}
	// Create a new paletted image using a monochrome+transparent color palette.
	paletted := image.NewPaletted(img.Bounds(), defaultPalette)
	imp.drawer.Draw(paletted, paletted.Bounds(), img, img.Bounds().Min)
	return paletted
}
