package xcf

import (
	"io"
	"log/slog"
	"regexp"

	"github.com/gimpxcf/xcfcore/internal/binreader"
	"github.com/gimpxcf/xcfcore/internal/tilecache"
)

// Image is the immutable, parsed representation of one XCF file. It owns
// the file's byte buffer for its whole lifetime; every Layer and Property
// holds offsets or borrowed sub-slices into that buffer rather than copies.
type Image struct {
	buf       []byte
	version   int
	isV11     bool
	width     uint32
	height    uint32
	baseType  BaseType
	precision Precision
	props     propertyList
	colormap  []RGB888

	layers     []*Layer
	groupRoots []*GroupNode

	validation ValidationConfig
	log        *slog.Logger
	cache      *tilecache.Cache
}

// ParseOption configures an optional aspect of ParseBytes/ParsePath. The
// zero set of options is always valid and matches DefaultValidationConfig
// with no tile cache and diagnostics discarded.
type ParseOption func(*parseConfig)

type parseConfig struct {
	validation   ValidationConfig
	cacheCap     int
	logger       *slog.Logger
}

func defaultParseConfig() parseConfig {
	return parseConfig{validation: DefaultValidationConfig(), cacheCap: 0, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithValidation overrides the default bounds/shape checks (dimension caps,
// path depth, and so on; see ValidationConfig).
func WithValidation(cfg ValidationConfig) ParseOption {
	return func(c *parseConfig) { c.validation = cfg }
}

// WithTileCache enables a bounded LRU cache of decoded tile buffers, holding
// at most capacity tiles. Disabled (capacity 0, the default) unless
// requested; see SPEC_FULL.md §5 on tile cache transparency — enabling it
// never changes rendered output, only repeat-decode cost.
func WithTileCache(capacity int) ParseOption {
	return func(c *parseConfig) { c.cacheCap = capacity }
}

// WithLogger routes the decoder's diagnostics (unknown blend modes,
// ignored mask/composite-mode properties, and similar) through logger.
// Without this option, or with a nil logger, diagnostics are discarded.
func WithLogger(logger *slog.Logger) ParseOption {
	return func(c *parseConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// ParseBytes decodes an XCF file already resident in memory. buf is
// retained for the returned Image's lifetime (not copied); the caller must
// not mutate it afterward.
func ParseBytes(buf []byte, opts ...ParseOption) (*Image, error) {
	cfg := defaultParseConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	r := binreader.New(buf)
	hdr, err := parseFileHeader(r)
	if err != nil {
		return nil, err
	}

	v := newValidator(cfg.validation, int64(len(buf)))
	if err := v.checkDimensions(hdr.width, hdr.height, "image"); err != nil {
		return nil, err
	}
	if err := v.checkBaseType(hdr.baseType); err != nil {
		return nil, err
	}

	props, err := parsePropertyList(r)
	if err != nil {
		return nil, err
	}
	pl := newPropertyList(props)

	if p, ok := pl.get(PropCompression); ok && (len(p.Payload) == 0 || p.Payload[0] != CompressionRLE) {
		return nil, newErrAt(KindUnsupported, "unsupported compression (only RLE is decoded)", "COMPRESSION", -1)
	}

	var colormap []RGB888
	if p, ok := pl.get(PropColormap); ok {
		colormap, err = parseColormap(p.Payload)
		if err != nil {
			return nil, err
		}
	}

	layerOffsets, err := readOffsetTable(r, hdr.isV11)
	if err != nil {
		return nil, wrapErr(KindUnexpectedEOF, "reading layer offset table", err)
	}
	layerOffsets = layerOffsets[:len(layerOffsets)-1]

	channelOffsets, err := readOffsetTable(r, hdr.isV11)
	if err != nil {
		return nil, wrapErr(KindUnexpectedEOF, "reading channel offset table", err)
	}
	channelOffsets = channelOffsets[:len(channelOffsets)-1]

	for _, off := range channelOffsets {
		if err := v.checkOffset(off, "channel_offset"); err != nil {
			return nil, err
		}
	}

	img := &Image{
		buf:        buf,
		version:    hdr.version,
		isV11:      hdr.isV11,
		width:      hdr.width,
		height:     hdr.height,
		baseType:   hdr.baseType,
		precision:  hdr.precision,
		props:      pl,
		colormap:   colormap,
		validation: cfg.validation,
		log:        cfg.logger,
	}

	if cfg.cacheCap > 0 {
		cache, err := tilecache.New(cfg.cacheCap)
		if err != nil {
			return nil, wrapErr(KindValidation, "constructing tile cache", err)
		}
		img.cache = cache
	}

	layers := make([]*Layer, 0, len(layerOffsets))
	for _, off := range layerOffsets {
		if err := v.checkOffset(off, "layer_offset"); err != nil {
			return nil, err
		}
		lr := binreader.New(buf).ReaderAt(off)
		layer, err := parseLayer(lr, hdr.isV11, v)
		if err != nil {
			return nil, err
		}
		layer.img = img
		layer.index = len(layers)
		layers = append(layers, layer)
	}
	img.layers = layers

	roots, err := buildGroupTree(layers)
	if err != nil {
		return nil, err
	}
	img.groupRoots = roots
	for _, l := range layers {
		l.groupName = groupNameForPath(roots, layers, l.itemPath)
	}

	if mode, ok := pl.get(PropCompositeMode); ok {
		img.log.Info("ignoring COMPOSITE_MODE property", "value", decodeU32(mode.Payload))
	}

	return img, nil
}

func parseColormap(payload []byte) ([]RGB888, error) {
	r := binreader.New(payload)
	n, err := r.ReadU32BE()
	if err != nil {
		return nil, wrapErr(KindMalformed, "reading colormap count", err)
	}
	out := make([]RGB888, 0, n)
	for i := uint32(0); i < n; i++ {
		var rgb RGB888
		red, err := r.ReadU8()
		if err != nil {
			return nil, wrapErr(KindMalformed, "reading colormap entry", err)
		}
		green, err := r.ReadU8()
		if err != nil {
			return nil, wrapErr(KindMalformed, "reading colormap entry", err)
		}
		blue, err := r.ReadU8()
		if err != nil {
			return nil, wrapErr(KindMalformed, "reading colormap entry", err)
		}
		rgb.Red, rgb.Green, rgb.Blue = red, green, blue
		out = append(out, rgb)
	}
	return out, nil
}

func (img *Image) Width() uint32        { return img.width }
func (img *Image) Height() uint32       { return img.height }
func (img *Image) BaseType() BaseType   { return img.baseType }
func (img *Image) Precision() Precision { return img.precision }
func (img *Image) Version() int         { return img.version }
func (img *Image) IsV11() bool          { return img.isV11 }
func (img *Image) Colormap() []RGB888   { return img.colormap }
func (img *Image) Layers() []*Layer     { return img.layers }
func (img *Image) GroupTree() []*GroupNode { return img.groupRoots }

// Property returns the first occurrence of tag in the image header's
// property list.
func (img *Image) Property(tag PropertyTag) (Property, bool) { return img.props.get(tag) }

// LayerByName returns the first layer (in file order) whose Name() matches,
// or nil.
func (img *Image) LayerByName(name string) *Layer {
	for _, l := range img.layers {
		if l.Name() == name {
			return l
		}
	}
	return nil
}

// FindLayersByPattern returns every layer whose Name() matches the regular
// expression pattern, in file order.
func (img *Image) FindLayersByPattern(pattern string) ([]*Layer, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, wrapErr(KindValidation, "compiling layer name pattern", err)
	}
	var out []*Layer
	for _, l := range img.layers {
		if re.MatchString(l.Name()) {
			out = append(out, l)
		}
	}
	return out, nil
}

// FilterLayers returns every layer for which pred reports true, in file
// order.
func (img *Image) FilterLayers(pred func(*Layer) bool) []*Layer {
	var out []*Layer
	for _, l := range img.layers {
		if pred(l) {
			out = append(out, l)
		}
	}
	return out
}

// LayersInGroup returns every non-group layer whose GroupName equals
// groupName, in file order.
func (img *Image) LayersInGroup(groupName string) []*Layer {
	return img.FilterLayers(func(l *Layer) bool {
		return !l.IsGroup() && l.GroupName() == groupName
	})
}

// VisibleLayers returns every layer with Visible() true, in file order.
func (img *Image) VisibleLayers() []*Layer {
	return img.FilterLayers((*Layer).Visible)
}
