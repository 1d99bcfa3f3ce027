package compositor

import "testing"

func TestFromRGBA8ToRGBA8RoundTrip(t *testing.T) {
	cases := []struct{ r, g, b, a uint8 }{
		{0, 0, 0, 0},
		{255, 255, 255, 255},
		{10, 20, 30, 255},
		{128, 64, 200, 1},
	}
	for _, c := range cases {
		p := FromRGBA8(c.r, c.g, c.b, c.a)
		r, g, b, a := p.ToRGBA8()
		if r != c.r || g != c.g || b != c.b || a != c.a {
			t.Errorf("RGBA8(%d,%d,%d,%d) round trip = (%d,%d,%d,%d)", c.r, c.g, c.b, c.a, r, g, b, a)
		}
	}
}

func TestPixelAddAndScale(t *testing.T) {
	a := Pixel{R: 0.1, G: 0.2, B: 0.3, A: 0.4}
	b := Pixel{R: 0.1, G: 0.1, B: 0.1, A: 0.1}
	sum := a.Add(b)
	if !almostEqual(sum.R, 0.2) || !almostEqual(sum.G, 0.3) || !almostEqual(sum.B, 0.4) || !almostEqual(sum.A, 0.5) {
		t.Fatalf("Add = %+v, want {0.2 0.3 0.4 0.5}", sum)
	}

	scaled := a.Scale(2)
	if scaled.R != 0.2 || scaled.A != 0.8 {
		t.Fatalf("Scale(2) = %+v", scaled)
	}
}

func TestPixelClamp01(t *testing.T) {
	p := Pixel{R: -0.5, G: 1.5, B: 0.5, A: 2}
	c := p.Clamp01()
	if c.R != 0 || c.G != 1 || c.B != 0.5 || c.A != 1 {
		t.Fatalf("Clamp01 = %+v, want {0 1 0.5 1}", c)
	}
}

func TestToRGBA8ClampsOutOfRange(t *testing.T) {
	p := Pixel{R: -1, G: 2, B: 0.5, A: 0}
	r, g, b, a := p.ToRGBA8()
	if r != 0 || g != 255 || a != 0 {
		t.Fatalf("ToRGBA8 = (%d,%d,%d,%d), want (0,255,?,0)", r, g, b, a)
	}
}
