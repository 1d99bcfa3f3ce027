package xcf

import (
	"image/color"
	"math/rand"

	"github.com/gimpxcf/xcfcore/internal/binreader"
	"github.com/gimpxcf/xcfcore/internal/compositor"
	"github.com/gimpxcf/xcfcore/internal/rle"
	"github.com/gimpxcf/xcfcore/internal/tilecache"
)

// ImageSink is the minimal interface between the decoder and a host's pixel
// buffer (spec §6). Reads and writes outside [0,Width())×[0,Height()) are
// no-ops; reads return fully transparent black.
type ImageSink interface {
	Width() int
	Height() int
	At(x, y int) color.RGBA
	Set(x, y int, c color.RGBA)
}

// DirectBufferSink is an ImageSink that additionally exposes its backing
// store as a flat, row-major, 4-bytes-per-pixel RGBA buffer. Its presence
// enables the compositor's fast paths; its absence just forces the general
// per-pixel path, which is always correct.
type DirectBufferSink interface {
	ImageSink
	DirectBuffer() []byte
}

// RenderOption configures a single render_composite/render_layers/Layer
// render call.
type RenderOption func(*renderConfig)

type renderConfig struct {
	rng *rand.Rand
}

func defaultRenderConfig() renderConfig { return renderConfig{} }

// WithDissolveRNG supplies the pseudo-random source used by Dissolve-mode
// layers. Omit it to use the package's fixed-seed default, which keeps
// renders reproducible across runs (spec §9 "Dissolve RNG").
func WithDissolveRNG(rng *rand.Rand) RenderOption {
	return func(c *renderConfig) { c.rng = rng }
}

// RenderComposite renders every visible, non-group layer into sink, in
// file's bottom-to-top order (the file lists layers top-most first).
func (img *Image) RenderComposite(sink ImageSink, opts ...RenderOption) error {
	cfg := defaultRenderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	isBottom := true
	for i := len(img.layers) - 1; i >= 0; i-- {
		l := img.layers[i]
		if l.IsGroup() || !l.Visible() {
			continue
		}
		if err := l.renderInto(sink, true, cfg, isBottom); err != nil {
			return err
		}
		isBottom = false
	}
	return nil
}

// RenderLayers renders exactly the named layers, in the given order (first
// is bottom), ignoring layer visibility when ignoreVisibility is true.
func (img *Image) RenderLayers(sink ImageSink, names []string, ignoreVisibility bool, opts ...RenderOption) error {
	cfg := defaultRenderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	for i, name := range names {
		l := img.LayerByName(name)
		if l == nil {
			return newErrAt(KindValidation, "no layer with this name", "name", -1)
		}
		if l.IsGroup() {
			continue
		}
		if !ignoreVisibility && !l.Visible() {
			continue
		}
		if err := l.renderInto(sink, true, cfg, i == 0); err != nil {
			return err
		}
	}
	return nil
}

// Render decodes this layer's tiles and blends them into sink at
// (dx+tile_x, dy+tile_y) when useOffset, or (tile_x, tile_y) otherwise. A
// group layer never renders (groups are structural, spec §4.7).
func (l *Layer) Render(sink ImageSink, useOffset bool, opts ...RenderOption) error {
	cfg := defaultRenderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return l.renderInto(sink, useOffset, cfg, false)
}

func (l *Layer) renderInto(sink ImageSink, useOffset bool, cfg renderConfig, overTransparent bool) error {
	if l.IsGroup() {
		return nil
	}
	if l.hierarchyOffset == 0 {
		return nil
	}

	if l.HasMask() {
		l.img.log.Info("layer has a mask; masks are parsed but not applied", "layer", l.Name())
	}
	if !l.mode.known() {
		l.img.log.Warn("unknown blend mode, falling back to Normal", "layer", l.Name(), "mode", uint32(l.mode))
	}

	guard := newValidator(l.img.validation, int64(len(l.img.buf)))
	if err := guard.enterChain(l.hierarchyOffset); err != nil {
		return err
	}
	hier, err := parseHierarchy(l.img.buf, l.hierarchyOffset, l.img.isV11)
	if err != nil {
		return err
	}
	if err := checkBpp(hier.bpp, l.img.baseType, l.HasAlpha(), l.img.precision); err != nil {
		return err
	}

	if err := guard.enterChain(hier.levelOffset); err != nil {
		return err
	}
	lvl, err := parseLevel(l.img.buf, hier.levelOffset, l.img.isV11)
	if err != nil {
		return err
	}

	bytesPerChannel := l.img.precision.BytesPerChannel()
	channels := expectedChannels(l.img.baseType, l.HasAlpha())
	bpp := int(hier.bpp)

	opacity := l.EffectiveOpacity()
	mode := compositor.Mode(l.mode)
	fastSink, fastOK := sink.(DirectBufferSink)
	fastEligible := overTransparent && fastOK &&
		opacity == 1.0 && mode == compositor.ModeNormal &&
		l.img.baseType == BaseTypeRGB && !l.img.precision.IsFloat() &&
		(bytesPerChannel == 1 || bytesPerChannel == 2 || bytesPerChannel == 4)

	ox, oy := 0, 0
	if useOffset {
		ox, oy = int(l.dx), int(l.dy)
	}

	for tileIdx := range lvl.tileOffsets {
		tileOff := lvl.tileOffsets[tileIdx]
		tx, ty, tw, th := tileRect(tileIdx, lvl.width, lvl.height)
		if err := guard.enterChain(tileOff); err != nil {
			return err
		}

		tile, err := l.decodeTile(tileIdx, tileOff, tw, th, bpp)
		if err != nil {
			return err
		}

		if fastEligible {
			switch bytesPerChannel {
			case 1:
				renderTileFastRGB8(fastSink, tile, l.HasAlpha(), bpp, tw, th, ox+tx, oy+ty)
			case 2:
				renderTileFastRGB16(fastSink, tile, l.HasAlpha(), bpp, tw, th, ox+tx, oy+ty)
			case 4:
				renderTileFastRGB32(fastSink, tile, l.HasAlpha(), bpp, tw, th, ox+tx, oy+ty)
			}
			continue
		}

		renderTileGeneral(sink, tile, l.img.baseType, l.HasAlpha(), bytesPerChannel, channels,
			l.img.precision.IsFloat(), l.img.colormap, mode, opacity, cfg.rng, tw, th, ox+tx, oy+ty)
	}

	return nil
}

func (l *Layer) decodeTile(tileIdx int, offset int64, tw, th, bpp int) ([]byte, error) {
	key := tilecache.Key{HierarchyOffset: l.hierarchyOffset, TileIndex: tileIdx}
	if l.img.cache != nil {
		if cached, ok := l.img.cache.Get(key); ok {
			return cached, nil
		}
	}

	if offset < 0 || offset >= int64(len(l.img.buf)) {
		return nil, newErrAt(KindValidation, "tile offset out of bounds", "tile_offset", offset)
	}
	src := l.img.buf[offset:]
	tile, err := rle.DecodeTile(src, tw, th, bpp)
	if err != nil {
		return nil, wrapErr(KindMalformed, "decoding tile", err)
	}

	if l.img.cache != nil {
		l.img.cache.Put(key, tile)
	}
	return tile, nil
}

// EffectiveOpacity returns the layer's opacity as a [0,1] float, preferring
// the FLOAT_OPACITY property over the integer OPACITY property when present.
func (l *Layer) EffectiveOpacity() float64 {
	if p, ok := l.props.get(PropFloatOpacity); ok && len(p.Payload) >= 4 {
		r := binreader.New(p.Payload)
		v, err := r.ReadF32BE()
		if err == nil {
			return float64(v)
		}
	}
	return float64(l.opacity) / 255.0
}

func renderTileFastRGB8(sink DirectBufferSink, tile []byte, hasAlpha bool, bpp, w, h, destX, destY int) {
	out := sink.DirectBuffer()
	stride := sink.Width() * 4
	for ty := 0; ty < h; ty++ {
		dy := destY + ty
		if dy < 0 || dy >= sink.Height() {
			continue
		}
		rowBase := dy * stride
		for tx := 0; tx < w; tx++ {
			dx := destX + tx
			if dx < 0 || dx >= sink.Width() {
				continue
			}
			srcBase := (ty*w + tx) * bpp
			o := rowBase + dx*4
			if o+3 >= len(out) || srcBase+2 >= len(tile) {
				continue
			}
			out[o] = tile[srcBase]
			out[o+1] = tile[srcBase+1]
			out[o+2] = tile[srcBase+2]
			if hasAlpha && srcBase+3 < len(tile) {
				out[o+3] = tile[srcBase+3]
			} else {
				out[o+3] = 255
			}
		}
	}
}

// renderTileFastRGB16 is renderTileFastRGB8's analogue for 16-bit integer
// RGB(A): each big-endian uint16 sample is narrowed to its 8-bit equivalent
// by the same integer division (v/257) the general path's ChannelToUnit +
// ToRGBA8 round-trip reduces to, so fast and general paths agree exactly
// (spec §4.6, §8 "fast path differential").
func renderTileFastRGB16(sink DirectBufferSink, tile []byte, hasAlpha bool, bpp, w, h, destX, destY int) {
	out := sink.DirectBuffer()
	stride := sink.Width() * 4
	const sampleBytes = 2
	for ty := 0; ty < h; ty++ {
		dy := destY + ty
		if dy < 0 || dy >= sink.Height() {
			continue
		}
		rowBase := dy * stride
		for tx := 0; tx < w; tx++ {
			dx := destX + tx
			if dx < 0 || dx >= sink.Width() {
				continue
			}
			srcBase := (ty*w + tx) * bpp
			o := rowBase + dx*4
			if o+3 >= len(out) || srcBase+3*sampleBytes > len(tile) {
				continue
			}
			out[o] = narrow16(tile[srcBase : srcBase+2])
			out[o+1] = narrow16(tile[srcBase+sampleBytes : srcBase+sampleBytes+2])
			out[o+2] = narrow16(tile[srcBase+2*sampleBytes : srcBase+2*sampleBytes+2])
			if hasAlpha && srcBase+4*sampleBytes <= len(tile) {
				out[o+3] = narrow16(tile[srcBase+3*sampleBytes : srcBase+3*sampleBytes+2])
			} else {
				out[o+3] = 255
			}
		}
	}
}

// renderTileFastRGB32 is renderTileFastRGB8's analogue for 32-bit integer
// RGB(A); see renderTileFastRGB16.
func renderTileFastRGB32(sink DirectBufferSink, tile []byte, hasAlpha bool, bpp, w, h, destX, destY int) {
	out := sink.DirectBuffer()
	stride := sink.Width() * 4
	const sampleBytes = 4
	for ty := 0; ty < h; ty++ {
		dy := destY + ty
		if dy < 0 || dy >= sink.Height() {
			continue
		}
		rowBase := dy * stride
		for tx := 0; tx < w; tx++ {
			dx := destX + tx
			if dx < 0 || dx >= sink.Width() {
				continue
			}
			srcBase := (ty*w + tx) * bpp
			o := rowBase + dx*4
			if o+3 >= len(out) || srcBase+3*sampleBytes > len(tile) {
				continue
			}
			out[o] = narrow32(tile[srcBase : srcBase+4])
			out[o+1] = narrow32(tile[srcBase+sampleBytes : srcBase+sampleBytes+4])
			out[o+2] = narrow32(tile[srcBase+2*sampleBytes : srcBase+2*sampleBytes+4])
			if hasAlpha && srcBase+4*sampleBytes <= len(tile) {
				out[o+3] = narrow32(tile[srcBase+3*sampleBytes : srcBase+3*sampleBytes+4])
			} else {
				out[o+3] = 255
			}
		}
	}
}

// narrow16 and narrow32 reduce a big-endian integer channel sample to its
// 8-bit equivalent via exact integer division (65535/257==255,
// 4294967295/16843009==255), matching compositor.ChannelToUnit's scaling
// followed by Pixel.ToRGBA8's round-to-nearest exactly, not approximately.
func narrow16(b []byte) uint8 {
	v := uint16(b[0])<<8 | uint16(b[1])
	return uint8(v / 257)
}

func narrow32(b []byte) uint8 {
	v := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	return uint8(v / 16843009)
}

func renderTileGeneral(sink ImageSink, tile []byte, baseType BaseType, hasAlpha bool, bytesPerChannel, channels int,
	isFloat bool, colormap []RGB888, mode compositor.Mode, opacity float64, rng *rand.Rand, w, h, destX, destY int) {

	bpp := channels * bytesPerChannel
	for ty := 0; ty < h; ty++ {
		dy := destY + ty
		for tx := 0; tx < w; tx++ {
			dx := destX + tx
			base := (ty*w + tx) * bpp
			if base+bpp > len(tile) {
				continue
			}

			src := pixelFromChannels(tile[base:base+bpp], baseType, hasAlpha, bytesPerChannel, isFloat, colormap)

			dstColor := sink.At(dx, dy)
			dst := compositor.FromRGBA8(dstColor.R, dstColor.G, dstColor.B, dstColor.A)

			out := compositor.Compose(dst, src, mode, opacity, rng)
			r, g, b, a := out.ToRGBA8()
			sink.Set(dx, dy, color.RGBA{R: r, G: g, B: b, A: a})
		}
	}
}

func pixelFromChannels(px []byte, baseType BaseType, hasAlpha bool, bytesPerChannel int, isFloat bool, colormap []RGB888) compositor.Pixel {
	switch baseType {
	case BaseTypeIndexed:
		idx := int(px[0])
		var rgb RGB888
		if idx < len(colormap) {
			rgb = colormap[idx]
		}
		a := uint8(255)
		if hasAlpha && len(px) > bytesPerChannel {
			a = px[bytesPerChannel]
		}
		return compositor.FromRGBA8(rgb.Red, rgb.Green, rgb.Blue, a)

	case BaseTypeGrayscale:
		g := compositor.ChannelToUnit(px[0:bytesPerChannel], bytesPerChannel, isFloat)
		a := 1.0
		if hasAlpha {
			a = compositor.ChannelToUnit(px[bytesPerChannel:2*bytesPerChannel], bytesPerChannel, isFloat)
		}
		return compositor.Pixel{R: g, G: g, B: g, A: a}

	default: // RGB
		r := compositor.ChannelToUnit(px[0:bytesPerChannel], bytesPerChannel, isFloat)
		g := compositor.ChannelToUnit(px[bytesPerChannel:2*bytesPerChannel], bytesPerChannel, isFloat)
		b := compositor.ChannelToUnit(px[2*bytesPerChannel:3*bytesPerChannel], bytesPerChannel, isFloat)
		a := 1.0
		if hasAlpha {
			a = compositor.ChannelToUnit(px[3*bytesPerChannel:4*bytesPerChannel], bytesPerChannel, isFloat)
		}
		return compositor.Pixel{R: r, G: g, B: b, A: a}
	}
}
