package xcf

// Property is one (tag, payload) record attached to the image header or a
// layer. Payload is a sub-slice of the Image's owned byte buffer, not a
// copy; it stays valid for the Image's lifetime. Tags the parser does not
// interpret keep their payload opaque and verbatim.
type Property struct {
	Tag     PropertyTag
	Payload []byte
}

// Parasite is one named blob carried inside a PARASITES property.
type Parasite struct {
	Name    string
	Flags   uint32
	Payload []byte
}

// propertyList is the shared ordered-plus-indexed storage used by both the
// image header and every layer record: a parallel ordered list (for dumping
// properties back out in file order) and a map to the first occurrence of
// each tag (accessors return the first match, per SPEC_FULL.md / spec §4.3).
type propertyList struct {
	ordered []Property
	first   map[PropertyTag]int // tag -> index into ordered
}

func newPropertyList(props []Property) propertyList {
	pl := propertyList{ordered: props, first: make(map[PropertyTag]int, len(props))}
	for i, p := range props {
		if _, ok := pl.first[p.Tag]; !ok {
			pl.first[p.Tag] = i
		}
	}
	return pl
}

func (pl propertyList) get(tag PropertyTag) (Property, bool) {
	i, ok := pl.first[tag]
	if !ok {
		return Property{}, false
	}
	return pl.ordered[i], true
}

func (pl propertyList) has(tag PropertyTag) bool {
	_, ok := pl.first[tag]
	return ok
}

// GroupNode is one node of the layer group tree. LayerIndex is the node's
// layer, as an index into Image.Layers(); every node in a parsed Image has
// one. Children may hold nil entries at indices no layer's ITEM_PATH named.
type GroupNode struct {
	LayerIndex int
	Children   []*GroupNode
}

// RGB888 is one entry of an Indexed image's colormap. The field is named
// Green, not the historical "greed" typo the original parser carries — see
// SPEC_FULL.md §9.
type RGB888 struct {
	Red, Green, Blue uint8
}
