package xcf

import (
	"testing"

	"github.com/gimpxcf/xcfcore/internal/binreader"
)

func TestParseVersionTokenFile(t *testing.T) {
	v, err := parseVersionToken("file")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0 {
		t.Fatalf("want version 0, got %d", v)
	}
}

func TestParseVersionTokenNumbered(t *testing.T) {
	cases := map[string]int{"v001": 1, "v010": 10, "v011": 11, "v012": 12}
	for tok, want := range cases {
		v, err := parseVersionToken(tok)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tok, err)
		}
		if v != want {
			t.Fatalf("%s: want %d, got %d", tok, want, v)
		}
	}
}

func TestParseVersionTokenRejectsGarbage(t *testing.T) {
	for _, tok := range []string{"zzzz", "v0xx", "v1ab"} {
		if _, err := parseVersionToken(tok); err == nil {
			t.Fatalf("%q: expected error, got nil", tok)
		} else if !IsKind(err, KindUnsupported) {
			t.Fatalf("%q: want KindUnsupported, got %v", tok, err)
		}
	}
}

func buildHeaderBytes(version string, width, height, baseType uint32, precision uint32) []byte {
	buf := []byte(magic)
	buf = append(buf, []byte(version)...)
	buf = append(buf, 0)
	buf = appendU32(buf, width)
	buf = appendU32(buf, height)
	buf = appendU32(buf, baseType)
	if len(version) == 4 && version[0] == 'v' {
		n := version[2:]
		if n != "10" {
			buf = appendU32(buf, precision)
		}
	}
	return buf
}

func appendU32(buf []byte, v uint32) []byte {
	return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func TestParseFileHeaderV10(t *testing.T) {
	buf := buildHeaderBytes("v010", 100, 200, uint32(BaseTypeRGB), 0)
	hdr, err := parseFileHeader(binreader.New(buf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hdr.version != 10 || hdr.isV11 {
		t.Fatalf("want version 10, isV11=false; got version=%d isV11=%v", hdr.version, hdr.isV11)
	}
	if hdr.width != 100 || hdr.height != 200 {
		t.Fatalf("want 100x200, got %dx%d", hdr.width, hdr.height)
	}
	if hdr.precision != Precision8BitGamma {
		t.Fatalf("v10 must default to 8-bit gamma precision, got %v", hdr.precision)
	}
}

func TestParseFileHeaderV11HasPrecision(t *testing.T) {
	buf := buildHeaderBytes("v011", 4, 4, uint32(BaseTypeGrayscale), uint32(Precision32BitFloatL))
	hdr, err := parseFileHeader(binreader.New(buf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hdr.isV11 {
		t.Fatal("want isV11=true for v011")
	}
	if hdr.precision != Precision32BitFloatL {
		t.Fatalf("want Precision32BitFloatL, got %v", hdr.precision)
	}
}

func TestParseFileHeaderBadMagic(t *testing.T) {
	buf := []byte("not an xcf file at all")
	if _, err := parseFileHeader(binreader.New(buf)); err == nil {
		t.Fatal("expected error for bad magic")
	} else if !IsKind(err, KindUnsupported) {
		t.Fatalf("want KindUnsupported, got %v", err)
	}
}

func TestParseFileHeaderTruncated(t *testing.T) {
	buf := []byte(magic)[:5]
	if _, err := parseFileHeader(binreader.New(buf)); err == nil {
		t.Fatal("expected error for truncated header")
	} else if !IsKind(err, KindUnexpectedEOF) {
		t.Fatalf("want KindUnexpectedEOF, got %v", err)
	}
}

func TestParseFileHeaderRejectsUnknownPrecision(t *testing.T) {
	buf := buildHeaderBytes("v011", 4, 4, uint32(BaseTypeRGB), 0xDEADBEEF)
	if _, err := parseFileHeader(binreader.New(buf)); err == nil {
		t.Fatal("expected error for unknown precision")
	} else if !IsKind(err, KindValidation) {
		t.Fatalf("want KindValidation, got %v", err)
	}
}
