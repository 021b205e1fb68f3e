package rlebits

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
)

// DecodeGIF reads every frame of an animated gif and converts it.
func DecodeGIF(r io.Reader, opts ...ImageOpt) ([]*Frame, error) {
	giff, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	return FramesFromGIF(giff, opts...), nil
}

/*
FramesFromGIF converts each image of giff to a frame. Gif frames are often
partial updates, so every image is composited onto a canvas first, respecting
disposal methods, and the canvas is what gets converted. Delays and loop
counts are ignored; the output has one frame per gif image.
*/
func FramesFromGIF(giff *gif.GIF, opts ...ImageOpt) []*Frame {
	imp := newImporter(opts)
	canvas := image.NewRGBA(canvasBounds(giff))

	frames := make([]*Frame, 0, len(giff.Image))
	for i, img := range giff.Image {
		var disposal byte
		if i < len(giff.Disposal) {
			disposal = giff.Disposal[i]
		}

		switch disposal {
		// Dispose previous essentially means draw then undo
		case gif.DisposalPrevious:
			previous := image.NewRGBA(canvas.Bounds())
			copy(previous.Pix, canvas.Pix)
			drawFrame(canvas, img)
			frames = append(frames, imp.frame(canvas))
			canvas = previous
		// Dispose background clears the area just drawn once it has been shown
		case gif.DisposalBackground:
			drawFrame(canvas, img)
			frames = append(frames, imp.frame(canvas))
			draw.Draw(canvas, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
		// Dispose none or undefined means we just draw what we got over top
		default:
			drawFrame(canvas, img)
			frames = append(frames, imp.frame(canvas))
		}
	}
	return frames
}

func canvasBounds(giff *gif.GIF) image.Rectangle {
	if giff.Config.Width > 0 && giff.Config.Height > 0 {
		return image.Rect(0, 0, giff.Config.Width, giff.Config.Height)
	}
	var r image.Rectangle
	for _, img := range giff.Image {
		r = r.Union(img.Bounds())
	}
	return r
}

func drawFrame(target draw.Image, source image.Image) {
	bounds := source.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := source.At(x, y)
			if _, _, _, a := c.RGBA(); a == 0 {
				continue
			}
			target.Set(x, y, color.RGBAModel.Convert(c))
		}
	}
}
