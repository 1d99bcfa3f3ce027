package xcf

import (
	"image/color"
	"testing"
)

// plainSink wraps an RGBAImageSink but deliberately does not expose
// DirectBuffer, so renderInto can never take the fast path through it —
// used to get the general path's output for a bit-exact comparison against
// the fast path's output on the same sink backing.
type plainSink struct {
	inner *RGBAImageSink
}

func (s *plainSink) Width() int                 { return s.inner.Width() }
func (s *plainSink) Height() int                { return s.inner.Height() }
func (s *plainSink) At(x, y int) color.RGBA     { return s.inner.At(x, y) }
func (s *plainSink) Set(x, y int, c color.RGBA) { s.inner.Set(x, y, c) }

// rleConstantChannelPlanes encodes planeLen pixels' worth of R,G,B,A channel
// data, each channel split into bytesPerChannel big-endian byte-planes (most
// significant byte first, matching compositor.ChannelToUnit's big-endian
// read), each byte-plane RLE-encoded as a single constant run.
func rleConstantChannelPlanes(planeLen, bytesPerChannel int, r, g, b, a uint64) []byte {
	var out []byte
	for _, v := range []uint64{r, g, b, a} {
		for i := bytesPerChannel - 1; i >= 0; i-- {
			out = append(out, rleConstantPlane(planeLen, byte(v>>(uint(i)*8)))...)
		}
	}
	return out
}

func patchOffsetAt(layout []byte, pos int, v int64, isV11 bool) {
	if !isV11 {
		patchU32At(layout, pos, uint32(v))
		return
	}
	patchU32At(layout, pos, uint32(v>>32))
	patchU32At(layout, pos+4, uint32(v))
}

// buildSingleLayerXCFPrecision assembles a v011 RGBA file at an arbitrary
// integer precision (gamma, not float) with one fully-opaque layer filling
// one tile, every pixel the given per-channel constant values.
func buildSingleLayerXCFPrecision(w, h uint32, precision Precision, bytesPerChannel int, r, g, b, a uint64, layerName string) []byte {
	const isV11 = true
	planeLen := int(w * h)
	tileData := rleConstantChannelPlanes(planeLen, bytesPerChannel, r, g, b, a)

	var layout []byte
	layout = append(layout, []byte(magic)...)
	layout = append(layout, []byte("v011")...)
	layout = append(layout, 0)
	layout = appendU32(layout, w)
	layout = appendU32(layout, h)
	layout = appendU32(layout, uint32(BaseTypeRGB))
	layout = appendU32(layout, uint32(precision))
	layout = appendU32(layout, uint32(PropEnd)) // image property list: empty
	layout = appendU32(layout, 0)               // END's zero length word

	layerOffsetPos := len(layout)
	layout = appendOffset(layout, 0, isV11) // layer offset placeholder
	layout = appendOffset(layout, 0, isV11) // layer table terminator
	layout = appendOffset(layout, 0, isV11) // channel table terminator

	layerPos := len(layout)
	layout = appendU32(layout, w)
	layout = appendU32(layout, h)
	layout = appendU32(layout, 1) // color_type 1 = RGB + alpha
	layout = appendU32(layout, uint32(len(layerName)+1))
	layout = append(layout, []byte(layerName)...)
	layout = append(layout, 0)
	layout = appendU32(layout, uint32(PropEnd))
	layout = appendU32(layout, 0) // END's zero length word

	hierOffsetPos := len(layout)
	layout = appendOffset(layout, 0, isV11) // hierarchy offset placeholder
	layout = appendOffset(layout, 0, isV11) // mask offset (none)

	hierPos := len(layout)
	layout = appendU32(layout, w)
	layout = appendU32(layout, h)
	layout = appendU32(layout, uint32(4*bytesPerChannel)) // bpp: RGBA at this precision's width
	levelOffsetPos := len(layout)
	layout = appendOffset(layout, 0, isV11) // level offset placeholder
	layout = appendOffset(layout, 0, isV11) // hierarchy level-table terminator

	levelPos := len(layout)
	layout = appendU32(layout, w)
	layout = appendU32(layout, h)
	tileOffsetPos := len(layout)
	layout = appendOffset(layout, 0, isV11) // tile offset placeholder
	layout = appendOffset(layout, 0, isV11) // level tile-table terminator

	tilePos := len(layout)
	layout = append(layout, tileData...)

	patchOffsetAt(layout, layerOffsetPos, int64(layerPos), isV11)
	patchOffsetAt(layout, hierOffsetPos, int64(hierPos), isV11)
	patchOffsetAt(layout, levelOffsetPos, int64(levelPos), isV11)
	patchOffsetAt(layout, tileOffsetPos, int64(tilePos), isV11)

	return layout
}

// TestRenderFastPathMatchesGeneralPath is the differential test SPEC_FULL.md
// §8 requires: at every integer precision eligible for the fast path (8, 16,
// 32-bit RGB/RGBA), the fast path's DirectBuffer byte copy must produce
// exactly the same pixels as the general per-pixel compositor path.
func TestRenderFastPathMatchesGeneralPath(t *testing.T) {
	cases := []struct {
		name            string
		precision       Precision
		bytesPerChannel int
		r, g, b, a      uint64
	}{
		{"8bit", Precision8BitGamma, 1, 10, 20, 30, 255},
		{"16bit", Precision16BitGamma, 2, 4660, 10000, 60000, 65535},
		{"32bit", Precision32BitGamma, 4, 1000000, 2000000, 3000000000, 4294967295},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			buf := buildSingleLayerXCFPrecision(4, 4, c.precision, c.bytesPerChannel, c.r, c.g, c.b, c.a, "Layer")

			img, err := ParseBytes(buf)
			if err != nil {
				t.Fatalf("ParseBytes failed: %v", err)
			}

			fast := NewRGBAImageSink(4, 4)
			if err := img.RenderComposite(fast); err != nil {
				t.Fatalf("fast-path RenderComposite failed: %v", err)
			}

			general := &plainSink{inner: NewRGBAImageSink(4, 4)}
			if err := img.RenderComposite(general); err != nil {
				t.Fatalf("general-path RenderComposite failed: %v", err)
			}

			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					fc, gc := fast.At(x, y), general.At(x, y)
					if fc != gc {
						t.Fatalf("pixel (%d,%d) differs: fast=%+v general=%+v", x, y, fc, gc)
					}
				}
			}
		})
	}
}
