package compositor

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestRgbToHSVGrayIsZeroSaturation(t *testing.T) {
	c := rgbToHSV(0.5, 0.5, 0.5)
	if c.S != 0 {
		t.Fatalf("gray saturation = %v, want 0", c.S)
	}
	if !approxEqual(c.V, 0.5, 1e-9) {
		t.Fatalf("gray value = %v, want 0.5", c.V)
	}
}

func TestRgbToHSVValueIsMidpointNotMax(t *testing.T) {
	// GIMP's historical quirk: value is (min+max)/2, not max as classical
	// HSV defines it. Pure red (1,0,0) has max=1, min=0, so value must be
	// 0.5, not 1.
	c := rgbToHSV(1, 0, 0)
	if !approxEqual(c.V, 0.5, 1e-9) {
		t.Fatalf("red value = %v, want 0.5 (GIMP midpoint, not classical max=1)", c.V)
	}
	if !approxEqual(c.H, 0, 1e-6) {
		t.Fatalf("red hue = %v, want 0", c.H)
	}
}

func TestHSVRoundTrip(t *testing.T) {
	cases := [][3]float64{
		{0.2, 0.6, 0.9},
		{0.9, 0.1, 0.1},
		{0.3, 0.3, 0.3},
		{0, 0, 0},
		{1, 1, 1},
	}
	for _, rgb := range cases {
		c := rgbToHSV(rgb[0], rgb[1], rgb[2])
		r, g, b := hsvToRGB(c)
		if !approxEqual(r, rgb[0], 1e-6) || !approxEqual(g, rgb[1], 1e-6) || !approxEqual(b, rgb[2], 1e-6) {
			t.Errorf("round trip %v -> %+v -> (%v,%v,%v)", rgb, c, r, g, b)
		}
	}
}
