package xcf

import "strings"

// buildGroupTree assembles the forest of GroupNodes from layers' ITEM_PATH
// properties, in file order, per spec §9 "Group tree construction": a layer
// without a path becomes a new root; a layer with path p attaches at the
// terminal position of p, and only that terminal node is created. Every
// intermediate component of p must already name a node made by an earlier
// layer (GIMP writes each group's own layer record before its children); if
// one doesn't, the referenced group was encountered later (or never), which
// is a validation error per spec §5 ordering guarantees. Indices a path
// skips over are left as nil entries among the parent's children.
func buildGroupTree(layers []*Layer) ([]*GroupNode, error) {
	var roots []*GroupNode

	for i, l := range layers {
		path := l.itemPath
		if len(path) == 0 {
			roots = append(roots, &GroupNode{LayerIndex: i})
			continue
		}

		children := &roots
		var node *GroupNode
		for depth, idx := range path {
			for len(*children) <= int(idx) {
				*children = append(*children, nil)
			}
			if (*children)[idx] == nil {
				if depth < len(path)-1 {
					return nil, newErrAt(KindValidation, "item path references a group not yet defined", "ITEM_PATH", -1)
				}
				(*children)[idx] = &GroupNode{LayerIndex: -1}
			}
			node = (*children)[idx]
			children = &node.Children
		}
		node.LayerIndex = i
	}

	return roots, nil
}

// groupNameForPath joins the Name() of every ancestor named by path[:len-1]
// (the layer's own trailing path component is its position among its
// parent's children, not an ancestor).
func groupNameForPath(roots []*GroupNode, layers []*Layer, path []uint32) string {
	if len(path) <= 1 {
		return ""
	}
	names := make([]string, 0, len(path)-1)
	children := roots
	for depth := 0; depth < len(path)-1; depth++ {
		idx := path[depth]
		if int(idx) >= len(children) || children[idx] == nil {
			break
		}
		node := children[idx]
		if node.LayerIndex >= 0 && node.LayerIndex < len(layers) {
			names = append(names, layers[node.LayerIndex].Name())
		}
		children = node.Children
	}
	return strings.Join(names, "/")
}
