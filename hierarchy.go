package xcf

import (
	"fmt"

	"github.com/gimpxcf/xcfcore/internal/binreader"
)

const tileSize = 64

// hierarchy is the pixel-data container of one layer: it points at the top
// mip level (the only one the decoder reads) and declares the per-pixel
// byte stride.
type hierarchy struct {
	width, height uint32
	bpp           uint32
	levelOffset   int64
}

// parseHierarchy reads a hierarchy record positioned at offset. Only the
// first level-offset entry is used; additional mip levels in the table are
// read (to advance past them validly) but otherwise ignored, per spec §4.3.
func parseHierarchy(buf []byte, offset int64, isV11 bool) (*hierarchy, error) {
	r := binreader.New(buf).ReaderAt(offset)

	width, err := r.ReadU32BE()
	if err != nil {
		return nil, wrapErr(KindUnexpectedEOF, "reading hierarchy width", err)
	}
	height, err := r.ReadU32BE()
	if err != nil {
		return nil, wrapErr(KindUnexpectedEOF, "reading hierarchy height", err)
	}
	bpp, err := r.ReadU32BE()
	if err != nil {
		return nil, wrapErr(KindUnexpectedEOF, "reading hierarchy bpp", err)
	}

	levelOffsets, err := readOffsetTable(r, isV11)
	if err != nil {
		return nil, wrapErr(KindUnexpectedEOF, "reading hierarchy level offsets", err)
	}
	if len(levelOffsets) == 0 || levelOffsets[0] == 0 {
		return nil, newErr(KindMalformed, "hierarchy has no levels")
	}

	return &hierarchy{width: width, height: height, bpp: bpp, levelOffset: levelOffsets[0]}, nil
}

// expectedChannels returns the channel count spec §4.3 requires for the
// given base type and alpha presence: RGB is 3 or 4, Grayscale and Indexed
// are 1 or 2.
func expectedChannels(bt BaseType, hasAlpha bool) int {
	switch bt {
	case BaseTypeRGB:
		if hasAlpha {
			return 4
		}
		return 3
	default: // Grayscale, Indexed
		if hasAlpha {
			return 2
		}
		return 1
	}
}

// checkBpp validates a hierarchy's declared bpp against base_type, the
// owning layer's alpha flag, and the image's precision.
func checkBpp(bpp uint32, bt BaseType, hasAlpha bool, prec Precision) error {
	want := uint32(expectedChannels(bt, hasAlpha) * prec.BytesPerChannel())
	if bpp != want {
		return newErrAt(KindValidation, fmt.Sprintf("hierarchy bpp %d does not match expected %d", bpp, want), "hierarchy.bpp", -1)
	}
	return nil
}

// level is one resolution tier's tile-offset table. The decoder reads only
// the top level (level_offset from the hierarchy).
type level struct {
	width, height uint32
	tileOffsets   []int64 // terminator dropped
}

func parseLevel(buf []byte, offset int64, isV11 bool) (*level, error) {
	r := binreader.New(buf).ReaderAt(offset)

	width, err := r.ReadU32BE()
	if err != nil {
		return nil, wrapErr(KindUnexpectedEOF, "reading level width", err)
	}
	height, err := r.ReadU32BE()
	if err != nil {
		return nil, wrapErr(KindUnexpectedEOF, "reading level height", err)
	}

	table, err := readOffsetTable(r, isV11)
	if err != nil {
		return nil, wrapErr(KindUnexpectedEOF, "reading level tile offsets", err)
	}
	tileOffsets := table[:len(table)-1] // drop terminator

	wantTiles := tilesAcross(width) * tilesDown(height)
	if len(tileOffsets) != wantTiles {
		return nil, newErrAt(KindValidation, fmt.Sprintf("level declares %d tiles, want %d for %dx%d", len(tileOffsets), wantTiles, width, height), "level.tile_offsets", -1)
	}

	return &level{width: width, height: height, tileOffsets: tileOffsets}, nil
}

func tilesAcross(width uint32) int { return int((width + tileSize - 1) / tileSize) }
func tilesDown(height uint32) int  { return int((height + tileSize - 1) / tileSize) }

// tileRect returns the pixel-space origin and clipped size of tile index i
// within a level of the given width/height, per spec §4.3 tile location.
func tileRect(i int, width, height uint32) (ox, oy, w, h int) {
	across := tilesAcross(width)
	tx, ty := i%across, i/across
	ox, oy = tx*tileSize, ty*tileSize
	w = tileSize
	if rem := int(width) - ox; rem < w {
		w = rem
	}
	h = tileSize
	if rem := int(height) - oy; rem < h {
		h = rem
	}
	return
}
