// Package xcffile is the thin file-system adapter mentioned in spec §4.8:
// its only contribution over xcf.ParseBytes is mapping I/O failures to
// xcf.Error{Kind: KindIO} and reading a path's full contents before
// handing them to the core parser (XCF tile offsets can point anywhere in
// the file, so no streaming decode is possible).
//
// It is grounded on the teacher's texture/tiff package, which opens its
// TIFF files the same way (golang.org/x/exp/mmap.Open) before parsing.
package xcffile

import (
	"fmt"

	"golang.org/x/exp/mmap"

	xcf "github.com/gimpxcf/xcfcore"
)

// ParsePath reads path in full and parses it as an XCF file.
func ParsePath(path string, opts ...xcf.ParseOption) (*xcf.Image, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, xcf.NewIOError(fmt.Sprintf("opening %s", path), err)
	}
	defer r.Close()

	buf := make([]byte, r.Len())
	if _, err := r.ReadAt(buf, 0); err != nil {
		return nil, xcf.NewIOError(fmt.Sprintf("reading %s", path), err)
	}

	return xcf.ParseBytes(buf, opts...)
}
