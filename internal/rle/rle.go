// Package rle implements the XCF tile run-length encoding: a byte-granularity
// scheme applied independently to each channel plane of a tile, then
// interleaved back into a channel-planar pixel buffer.
//
// The opcode thresholds mirror the sibling GIMP-XCF reader in the retrieval
// pack (ajzaff-xcf's decodeRLE) and the PackBits family used by Adobe's PSD
// format (same literal-run/repeat-run split, different thresholds), adapted
// here to read from a byte cursor with explicit capacity checks instead of an
// io.Reader, so a truncated or hostile stream fails instead of looping.
package rle

import "fmt"

// ErrOverflow is returned when a decoded run would write past the plane's
// declared capacity.
var ErrOverflow = fmt.Errorf("rle: run overflows plane capacity")

// ErrTruncated is returned when the compressed stream ends before a plane is
// fully decoded.
var ErrTruncated = fmt.Errorf("rle: compressed stream truncated")

// DecodePlane decodes one RLE-compressed channel plane from src, writing
// exactly len(dst) bytes into dst. It returns the number of src bytes
// consumed.
func DecodePlane(src []byte, dst []byte) (consumed int, err error) {
	si := 0
	di := 0
	n := len(dst)

	readByte := func() (byte, bool) {
		if si >= len(src) {
			return 0, false
		}
		b := src[si]
		si++
		return b, true
	}

	for di < n {
		op, ok := readByte()
		if !ok {
			return si, ErrTruncated
		}

		switch {
		case op < 127:
			value, ok := readByte()
			if !ok {
				return si, ErrTruncated
			}
			count := int(op) + 1
			if di+count > n {
				return si, ErrOverflow
			}
			for i := 0; i < count; i++ {
				dst[di] = value
				di++
			}

		case op == 127:
			hi, ok1 := readByte()
			lo, ok2 := readByte()
			if !ok1 || !ok2 {
				return si, ErrTruncated
			}
			value, ok := readByte()
			if !ok {
				return si, ErrTruncated
			}
			count := int(hi)*256 + int(lo)
			if di+count > n {
				return si, ErrOverflow
			}
			for i := 0; i < count; i++ {
				dst[di] = value
				di++
			}

		case op == 128:
			hi, ok1 := readByte()
			lo, ok2 := readByte()
			if !ok1 || !ok2 {
				return si, ErrTruncated
			}
			count := int(hi)*256 + int(lo)
			if di+count > n {
				return si, ErrOverflow
			}
			if si+count > len(src) {
				return si, ErrTruncated
			}
			copy(dst[di:di+count], src[si:si+count])
			di += count
			si += count

		default: // op > 128
			count := 256 - int(op)
			if di+count > n {
				return si, ErrOverflow
			}
			if si+count > len(src) {
				return si, ErrTruncated
			}
			copy(dst[di:di+count], src[si:si+count])
			di += count
			si += count
		}
	}
	return si, nil
}

// DecodeTile decodes a full tile's compressed byte stream into a newly
// allocated buffer of xpoints*ypoints*bpp bytes and returns it. The stream holds bpp
// consecutive planes of xpoints*ypoints bytes each; DecodeTile decodes each
// plane into a scratch buffer then interleaves it into dst at stride bpp,
// starting at byte offset equal to the plane index (channel-planar layout).
func DecodeTile(src []byte, xpoints, ypoints, bpp int) ([]byte, error) {
	planeLen := xpoints * ypoints
	dst := make([]byte, planeLen*bpp)
	plane := make([]byte, planeLen)

	off := 0
	for p := 0; p < bpp; p++ {
		consumed, err := DecodePlane(src[off:], plane)
		if err != nil {
			return nil, fmt.Errorf("rle: plane %d: %w", p, err)
		}
		off += consumed

		for i := 0; i < planeLen; i++ {
			dst[i*bpp+p] = plane[i]
		}
	}
	return dst, nil
}
