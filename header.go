package xcf

import (
	"fmt"
	"strconv"

	"github.com/gimpxcf/xcfcore/internal/binreader"
)

const magic = "gimp xcf "

// fileHeader holds the fixed-layout fields at the start of the file, before
// the property list and offset tables.
type fileHeader struct {
	version  int // 0 for the "file" token, else the numeric v-suffix
	isV11    bool
	width    uint32
	height   uint32
	baseType BaseType
	precision Precision // read from the file when isV11, else Precision8BitGamma
}

// parseVersionToken validates and decodes the 4-byte version token that
// follows the magic bytes: either the literal "file" (oldest variant,
// version 0) or "v0XX" where XX are ASCII digits.
func parseVersionToken(tok string) (int, error) {
	if tok == "file" {
		return 0, nil
	}
	if len(tok) == 4 && tok[0] == 'v' && tok[1] == '0' &&
		tok[2] >= '0' && tok[2] <= '9' && tok[3] >= '0' && tok[3] <= '9' {
		n, err := strconv.Atoi(tok[2:])
		if err == nil {
			return n, nil
		}
	}
	return 0, newErrAt(KindUnsupported, fmt.Sprintf("unrecognized version token %q", tok), "version", 9)
}

// parseFileHeader reads the 14-byte fixed header plus width/height/base_type
// (and precision in v11+), per spec §4.3.
func parseFileHeader(r *binreader.Reader) (fileHeader, error) {
	var hdr fileHeader

	magicBytes, err := r.ReadBytes(9)
	if err != nil {
		return hdr, wrapErr(KindUnexpectedEOF, "reading magic", err)
	}
	if string(magicBytes) != magic {
		return hdr, newErrAt(KindUnsupported, fmt.Sprintf("bad magic %q", magicBytes), "magic", 0)
	}

	versionTok, err := r.ReadString(4)
	if err != nil {
		return hdr, wrapErr(KindUnexpectedEOF, "reading version token", err)
	}
	version, err := parseVersionToken(versionTok)
	if err != nil {
		return hdr, err
	}
	hdr.version = version
	hdr.isV11 = version >= 11

	if _, err := r.ReadU8(); err != nil { // the zero byte terminating the header
		return hdr, wrapErr(KindUnexpectedEOF, "reading header terminator", err)
	}

	width, err := r.ReadU32BE()
	if err != nil {
		return hdr, wrapErr(KindUnexpectedEOF, "reading width", err)
	}
	height, err := r.ReadU32BE()
	if err != nil {
		return hdr, wrapErr(KindUnexpectedEOF, "reading height", err)
	}
	baseTypeRaw, err := r.ReadU32BE()
	if err != nil {
		return hdr, wrapErr(KindUnexpectedEOF, "reading base type", err)
	}
	hdr.width = width
	hdr.height = height
	hdr.baseType = BaseType(baseTypeRaw)

	if hdr.isV11 {
		precisionRaw, err := r.ReadU32BE()
		if err != nil {
			return hdr, wrapErr(KindUnexpectedEOF, "reading precision", err)
		}
		hdr.precision = Precision(precisionRaw)
		if !hdr.precision.valid() {
			return hdr, newErrAt(KindValidation, fmt.Sprintf("unknown precision %d", precisionRaw), "precision", r.Tell())
		}
	} else {
		hdr.precision = Precision8BitGamma
	}

	return hdr, nil
}
