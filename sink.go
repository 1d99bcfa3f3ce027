package xcf

import (
	"image"
	"image/color"
)

// RGBAImageSink is the library's ready-made ImageSink/DirectBufferSink,
// backed by a stdlib *image.NRGBA (straight, not premultiplied, alpha —
// the same representation the compositor's Pixel uses).
type RGBAImageSink struct {
	img *image.NRGBA
}

// NewRGBAImageSink allocates a sink of the given size, fully transparent.
func NewRGBAImageSink(width, height int) *RGBAImageSink {
	return &RGBAImageSink{img: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

func (s *RGBAImageSink) Width() int  { return s.img.Rect.Dx() }
func (s *RGBAImageSink) Height() int { return s.img.Rect.Dy() }

func (s *RGBAImageSink) At(x, y int) color.RGBA {
	c := s.img.NRGBAAt(x, y)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (s *RGBAImageSink) Set(x, y int, c color.RGBA) {
	s.img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
}

// DirectBuffer exposes the sink's backing pixels, row-major RGBA, 4 bytes
// per pixel, enabling the compositor's fast paths. Only valid when Stride
// equals Width()*4, true for any sink created by NewRGBAImageSink.
func (s *RGBAImageSink) DirectBuffer() []byte { return s.img.Pix }

// Image returns the underlying *image.NRGBA, e.g. to hand to png.Encode.
func (s *RGBAImageSink) Image() *image.NRGBA { return s.img }
