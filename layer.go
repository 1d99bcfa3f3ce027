package xcf

import (
	"regexp"
	"strings"

	"github.com/gimpxcf/xcfcore/internal/binreader"
)

// Layer is one layer record: its header fields, its property list, and the
// offsets of its pixel data (hierarchy) and mask. Layers are decoded eagerly
// for headers/properties/group structure; tile pixels are decoded lazily
// when Render is called (spec §3 lifecycle).
type Layer struct {
	img   *Image
	index int

	width, height uint32
	colorType     uint32
	rawName       string
	props         propertyList
	parasites     []Parasite

	hierarchyOffset int64
	maskOffset      int64

	itemPath  []uint32
	groupName string

	dx, dy  int32
	visible bool
	opacity uint8
	mode    BlendMode
	isGroup bool
}

var layerNameTrailingNumber = regexp.MustCompile(`\s#\d+$`)

// stripLayerNameSuffixes removes GIMP's historical duplicate-layer suffixes:
// a trailing " #N" and/or a trailing " copy".
func stripLayerNameSuffixes(name string) string {
	name = layerNameTrailingNumber.ReplaceAllString(name, "")
	name = strings.TrimSuffix(name, " copy")
	return name
}

// parseLayer reads one layer record from r, which must already be
// positioned at the record's start (the caller seeks there via the layer
// offset table).
func parseLayer(r *binreader.Reader, isV11 bool, v *validator) (*Layer, error) {
	l := &Layer{opacity: 255, visible: true, mode: BlendNormal}

	width, err := r.ReadU32BE()
	if err != nil {
		return nil, wrapErr(KindUnexpectedEOF, "reading layer width", err)
	}
	height, err := r.ReadU32BE()
	if err != nil {
		return nil, wrapErr(KindUnexpectedEOF, "reading layer height", err)
	}
	if err := v.checkDimensions(width, height, "layer"); err != nil {
		return nil, err
	}
	l.width, l.height = width, height

	colorType, err := r.ReadU32BE()
	if err != nil {
		return nil, wrapErr(KindUnexpectedEOF, "reading layer color type", err)
	}
	l.colorType = colorType

	nameLen, err := r.ReadU32BE()
	if err != nil {
		return nil, wrapErr(KindUnexpectedEOF, "reading layer name length", err)
	}
	name, err := r.ReadString(int(nameLen))
	if err != nil {
		return nil, wrapErr(KindUnexpectedEOF, "reading layer name", err)
	}
	l.rawName = name

	props, err := parsePropertyList(r)
	if err != nil {
		return nil, err
	}
	l.props = newPropertyList(props)

	if err := l.applyProperties(v); err != nil {
		return nil, err
	}

	hierOff, err := readOffset(r, isV11)
	if err != nil {
		return nil, wrapErr(KindUnexpectedEOF, "reading hierarchy offset", err)
	}
	maskOff, err := readOffset(r, isV11)
	if err != nil {
		return nil, wrapErr(KindUnexpectedEOF, "reading mask offset", err)
	}
	l.hierarchyOffset = hierOff
	l.maskOffset = maskOff

	if hierOff != 0 {
		if err := v.checkOffset(hierOff, "layer.hierarchy_offset"); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// applyProperties extracts the convenience fields (visibility, opacity,
// mode, offsets, item path, group flag) from the already-parsed property
// list. Parasites are decoded here too since they're cheap and used by
// several accessors.
func (l *Layer) applyProperties(v *validator) error {
	if p, ok := l.props.get(PropVisible); ok {
		l.visible = decodeBool32(p.Payload)
	}
	if p, ok := l.props.get(PropOpacity); ok {
		l.opacity = decodeOpacity(p.Payload)
	}
	if p, ok := l.props.get(PropMode); ok {
		l.mode = BlendMode(decodeU32(p.Payload))
	}
	if p, ok := l.props.get(PropOffsets); ok && len(p.Payload) >= 8 {
		dr := binreader.New(p.Payload)
		dx, _ := dr.ReadI32BE()
		dy, _ := dr.ReadI32BE()
		if err := v.checkLayerOffsets(dx, dy); err != nil {
			return err
		}
		l.dx, l.dy = dx, dy
	}
	if _, ok := l.props.get(PropGroupItem); ok {
		l.isGroup = true
	}
	if p, ok := l.props.get(PropItemPath); ok {
		path := decodeU32Array(p.Payload)
		if err := v.checkItemPath(path); err != nil {
			return err
		}
		l.itemPath = path
	}
	if p, ok := l.props.get(PropParasites); ok {
		parasites, err := parseParasites(p.Payload)
		if err != nil {
			return err
		}
		l.parasites = parasites
	}
	return nil
}

func decodeBool32(payload []byte) bool {
	return decodeU32(payload) != 0
}

func decodeU32(payload []byte) uint32 {
	if len(payload) < 4 {
		return 0
	}
	r := binreader.New(payload)
	v, _ := r.ReadU32BE()
	return v
}

// decodeOpacity narrows the OPACITY property's u32 (0-255 documented range)
// to a byte, clamping out-of-range writer bugs rather than wrapping.
func decodeOpacity(payload []byte) uint8 {
	v := decodeU32(payload)
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func decodeU32Array(payload []byte) []uint32 {
	n := len(payload) / 4
	out := make([]uint32, 0, n)
	r := binreader.New(payload)
	for i := 0; i < n; i++ {
		v, err := r.ReadU32BE()
		if err != nil {
			break
		}
		out = append(out, v)
	}
	return out
}

// Name returns the layer's name with GIMP's historical duplicate-layer
// suffixes (" copy", " #N") stripped.
func (l *Layer) Name() string { return stripLayerNameSuffixes(l.rawName) }

// RawName returns the layer's name exactly as stored, suffixes included.
func (l *Layer) RawName() string { return l.rawName }

func (l *Layer) Width() uint32    { return l.width }
func (l *Layer) Height() uint32   { return l.height }
func (l *Layer) Dx() int32        { return l.dx }
func (l *Layer) Dy() int32        { return l.dy }
func (l *Layer) Visible() bool    { return l.visible }
func (l *Layer) Opacity() uint8   { return l.opacity }
func (l *Layer) Mode() BlendMode  { return l.mode }
func (l *Layer) IsGroup() bool    { return l.isGroup }
func (l *Layer) ItemPath() []uint32 {
	out := make([]uint32, len(l.itemPath))
	copy(out, l.itemPath)
	return out
}

// HasAlpha reports whether the layer's color_type carries an alpha channel
// (an odd color_type value, per spec §4.3 hierarchy bpp rule).
func (l *Layer) HasAlpha() bool { return l.colorType%2 == 1 }

// GroupName returns the "/"-joined names of this layer's ancestors in the
// group tree, as formed by walking its ITEM_PATH. Empty for a root-level
// layer.
func (l *Layer) GroupName() string { return l.groupName }

// Property returns the first occurrence of tag in this layer's property
// list.
func (l *Layer) Property(tag PropertyTag) (Property, bool) { return l.props.get(tag) }

// Parasites returns the parasite with the given name, if present.
func (l *Layer) Parasites(name string) (Parasite, bool) {
	for _, p := range l.parasites {
		if p.Name == name {
			return p, true
		}
	}
	return Parasite{}, false
}

// TextLayerAttrs returns the decoded key/value pairs of the "gimp-text-layer"
// parasite, if this layer carries one.
func (l *Layer) TextLayerAttrs() (map[string]string, bool) {
	p, ok := l.Parasites("gimp-text-layer")
	if !ok {
		return nil, false
	}
	return parseTextLayerAttrs(p.Payload), true
}

// HasMask reports whether the layer declares a non-zero mask offset. Masks
// are parsed (offset retained) but never applied to rendering — see
// SPEC_FULL.md §9 open questions.
func (l *Layer) HasMask() bool { return l.maskOffset != 0 }
