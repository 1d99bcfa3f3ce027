package compositor

import "math"

// hsv is hue (degrees, [0,360)), saturation and value both in [0,1].
//
// This replicates a GIMP-historical quirk called out in SPEC_FULL.md §9: the
// "value" channel is computed as (min+max)/2 (HSL lightness, not classical
// HSV value) and saturation is defined piecewise around value=0.5. It
// deliberately does not reuse the teacher's colors.Color4 rgbToHSV/hsvToRGB
// (those implement classical HSV, v=max) because the two models disagree on
// saturation and would silently produce the wrong Hue/Saturation/Value blend
// results.
type hsv struct {
	H, S, V float64
}

func rgbToHSV(r, g, b float64) hsv {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	v := (max + min) / 2.0
	d := max - min

	if d == 0 {
		return hsv{H: 0, S: 0, V: v}
	}

	var s float64
	if v <= 0.5 {
		s = d / (max + min)
	} else {
		s = d / (2.0 - max - min)
	}

	var h float64
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default: // b
		h = (r-g)/d + 4
	}
	h *= 60.0
	if h < 0 {
		h += 360.0
	}
	return hsv{H: h, S: s, V: v}
}

func hsvToRGB(c hsv) (r, g, b float64) {
	if c.S == 0 {
		return c.V, c.V, c.V
	}

	var q float64
	if c.V < 0.5 {
		q = c.V * (1 + c.S)
	} else {
		q = c.V + c.S - c.V*c.S
	}
	p := 2*c.V - q

	h := math.Mod(c.H, 360) / 360.0
	if h < 0 {
		h += 1
	}

	hueToRGB := func(p, q, t float64) float64 {
		if t < 0 {
			t += 1
		}
		if t > 1 {
			t -= 1
		}
		switch {
		case t < 1.0/6.0:
			return p + (q-p)*6*t
		case t < 1.0/2.0:
			return q
		case t < 2.0/3.0:
			return p + (q-p)*(2.0/3.0-t)*6
		default:
			return p
		}
	}

	r = hueToRGB(p, q, h+1.0/3.0)
	g = hueToRGB(p, q, h)
	b = hueToRGB(p, q, h-1.0/3.0)
	return
}
