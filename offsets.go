package xcf

import "github.com/gimpxcf/xcfcore/internal/binreader"

// readOffset reads one file offset: a plain u32 in v10, or a (hi,lo) u32
// pair combined as hi*2^32+lo in v11+. Per SPEC_FULL.md / spec §9 design
// notes, the two encodings are not unified behind a shared wire type — this
// helper just resolves either wire shape to the numeric value callers need;
// every call site still knows and states which version it's decoding.
func readOffset(r *binreader.Reader, isV11 bool) (int64, error) {
	if !isV11 {
		v, err := r.ReadU32BE()
		if err != nil {
			return 0, err
		}
		return int64(v), nil
	}
	hi, err := r.ReadU32BE()
	if err != nil {
		return 0, err
	}
	lo, err := r.ReadU32BE()
	if err != nil {
		return 0, err
	}
	return int64(hi)<<32 | int64(lo), nil
}

// readOffsetTable reads successive offsets until a zero terminator, which is
// included in the returned slice (callers typically drop it before use).
func readOffsetTable(r *binreader.Reader, isV11 bool) ([]int64, error) {
	var out []int64
	for {
		off, err := readOffset(r, isV11)
		if err != nil {
			return nil, err
		}
		out = append(out, off)
		if off == 0 {
			return out, nil
		}
	}
}
