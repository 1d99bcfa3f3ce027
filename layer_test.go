package xcf

import (
	"testing"

	"github.com/gimpxcf/xcfcore/internal/binreader"
)

func TestStripLayerNameSuffixes(t *testing.T) {
	cases := map[string]string{
		"Background":        "Background",
		"Background #1":     "Background",
		"Background copy":   "Background",
		"Background copy #3": "Background",
	}
	for in, want := range cases {
		if got := stripLayerNameSuffixes(in); got != want {
			t.Errorf("stripLayerNameSuffixes(%q) = %q, want %q", in, got, want)
		}
	}
}

func buildLayerBytes(name string, width, height, colorType uint32, props []byte, isV11 bool) []byte {
	buf := appendU32(nil, width)
	buf = appendU32(buf, height)
	buf = appendU32(buf, colorType)
	buf = appendU32(buf, uint32(len(name)+1))
	buf = append(buf, []byte(name)...)
	buf = append(buf, 0)
	buf = append(buf, props...)
	buf = appendU32(buf, uint32(PropEnd))
	buf = appendU32(buf, 0) // END's zero length word
	if isV11 {
		buf = appendU32(buf, 0) // hierarchy offset hi
		buf = appendU32(buf, 0) // hierarchy offset lo
		buf = appendU32(buf, 0) // mask offset hi
		buf = appendU32(buf, 0) // mask offset lo
	} else {
		buf = appendU32(buf, 0) // hierarchy offset
		buf = appendU32(buf, 0) // mask offset
	}
	return buf
}

func TestParseLayerBasicFields(t *testing.T) {
	var props []byte
	props = append(props, buildProperty(PropVisible, []byte{0, 0, 0, 1})...)
	props = append(props, buildProperty(PropOpacity, []byte{0, 0, 0, 128})...)
	props = append(props, buildProperty(PropMode, []byte{0, 0, 0, byte(BlendMultiply)})...)
	props = append(props, buildProperty(PropOffsets, []byte{0, 0, 0, 5, 0, 0, 0, 7})...)

	buf := buildLayerBytes("Layer 1 copy", 64, 32, 1, props, false)
	v := newValidator(DefaultValidationConfig(), int64(len(buf))+1000)

	l, err := parseLayer(binreader.New(buf), false, v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Width() != 64 || l.Height() != 32 {
		t.Fatalf("want 64x32, got %dx%d", l.Width(), l.Height())
	}
	if l.Name() != "Layer 1" {
		t.Fatalf("want stripped name %q, got %q", "Layer 1", l.Name())
	}
	if l.RawName() != "Layer 1 copy" {
		t.Fatalf("want raw name preserved, got %q", l.RawName())
	}
	if !l.Visible() {
		t.Fatal("want visible=true")
	}
	if l.Opacity() != 128 {
		t.Fatalf("want opacity 128, got %d", l.Opacity())
	}
	if l.Mode() != BlendMultiply {
		t.Fatalf("want BlendMultiply, got %v", l.Mode())
	}
	if l.Dx() != 5 || l.Dy() != 7 {
		t.Fatalf("want dx=5 dy=7, got dx=%d dy=%d", l.Dx(), l.Dy())
	}
	if !l.HasAlpha() {
		t.Fatal("color_type=1 (RGB+alpha) should report HasAlpha=true")
	}
}

func TestParseLayerRejectsOversizedDimensions(t *testing.T) {
	buf := buildLayerBytes("huge", 1<<30, 1<<30, 0, nil, false)
	cfg := DefaultValidationConfig()
	v := newValidator(cfg, int64(len(buf))+1000)

	if _, err := parseLayer(binreader.New(buf), false, v); err == nil {
		t.Fatal("expected validation error for oversized layer dimensions")
	} else if !IsKind(err, KindValidation) {
		t.Fatalf("want KindValidation, got %v", err)
	}
}

func TestParseLayerDefaultsWhenPropertiesAbsent(t *testing.T) {
	buf := buildLayerBytes("plain", 8, 8, 0, nil, false)
	v := newValidator(DefaultValidationConfig(), int64(len(buf))+1000)

	l, err := parseLayer(binreader.New(buf), false, v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.Visible() || l.Opacity() != 255 || l.Mode() != BlendNormal {
		t.Fatalf("want default visible/opacity/mode, got visible=%v opacity=%d mode=%v", l.Visible(), l.Opacity(), l.Mode())
	}
}

func TestDecodeOpacityClampsOutOfRange(t *testing.T) {
	payload := appendU32(nil, 99999)
	if got := decodeOpacity(payload); got != 255 {
		t.Fatalf("want clamped opacity 255, got %d", got)
	}
}
