package compositor

import (
	"math"
	"math/rand"
)

// Mode mirrors the numeric ids GIMP stores in the MODE property. It is
// redeclared here (rather than imported from the xcf package) so this
// package has no dependency on the parser/model types — it is pure pixel
// math, reusable and independently testable.
type Mode uint32

const (
	ModeNormal       Mode = 0
	ModeDissolve     Mode = 1
	ModeBehind       Mode = 2
	ModeMultiply     Mode = 3
	ModeScreen       Mode = 4
	ModeOverlay      Mode = 5
	ModeDifference   Mode = 6
	ModeAddition     Mode = 7
	ModeSubtract     Mode = 8
	ModeDarkenOnly   Mode = 9
	ModeLightenOnly  Mode = 10
	ModeHue          Mode = 11
	ModeSaturation   Mode = 12
	ModeColor        Mode = 13
	ModeValue        Mode = 14
	ModeDivide       Mode = 15
	ModeDodge        Mode = 16
	ModeBurn         Mode = 17
	ModeHardLight    Mode = 18
	ModeSoftLight    Mode = 19
	ModeGrainExtract Mode = 20
	ModeGrainMerge   Mode = 21
)

// separable holds the per-channel blend function for modes whose RGB
// handling reduces to applying the same f(x1,x2) independently to R, G, B.
// Formulas preserved verbatim from GIMP, including the historical Overlay
// and Burn quirks called out in SPEC_FULL.md §4.6/§9 — do not "correct" them.
var separable = map[Mode]func(x1, x2 float64) float64{
	ModeMultiply: func(x1, x2 float64) float64 { return x1 * x2 },
	ModeScreen:   func(x1, x2 float64) float64 { return 1 - (1-x1)*(1-x2) },
	ModeOverlay: func(x1, x2 float64) float64 {
		term1 := (1 - x2) * x1 * x1
		inner := x2 * (1 - (1 - x2))
		term2 := inner * inner
		return term1 + term2
	},
	ModeDifference: func(x1, x2 float64) float64 { return math.Abs(x1 - x2) },
	ModeAddition:   func(x1, x2 float64) float64 { return clamp01(x1 + x2) },
	ModeSubtract:   func(x1, x2 float64) float64 { return clamp01(x1 - x2) },
	ModeDarkenOnly: func(x1, x2 float64) float64 {
		if x1 < x2 {
			return x1
		}
		return x2
	},
	ModeLightenOnly: func(x1, x2 float64) float64 {
		if x1 > x2 {
			return x1
		}
		return x2
	},
	ModeDivide: func(x1, x2 float64) float64 {
		if x2 == 0 {
			if x1 == 0 {
				return 0
			}
			return 1
		}
		return clamp01(x1 / x2)
	},
	ModeDodge: func(x1, x2 float64) float64 {
		if x2 >= 1 {
			if x1 == 0 {
				return 0
			}
			return 1
		}
		return clamp01(x1 / (1 - x2))
	},
	ModeBurn: func(x1, x2 float64) float64 {
		if x2 == 0 {
			if x1 == 0 {
				return 0
			}
			return 1
		}
		return clamp01((1 - (1 - x1)) / x2)
	},
	ModeHardLight: func(x1, x2 float64) float64 {
		if x2 < 0.5 {
			return 2 * x1 * x2
		}
		return 1 - 2*(1-x1)*(1-x2)
	},
	ModeSoftLight: func(x1, x2 float64) float64 {
		return (1-x2)*x1*x1 + x2*(1-(1-x1)*(1-x1))
	},
	ModeGrainExtract: func(x1, x2 float64) float64 { return clamp01(x1 - x2 + 0.5) },
	ModeGrainMerge:   func(x1, x2 float64) float64 { return clamp01(x1 + x2 - 0.5) },
}

// isHSVMode reports whether mode is one of the Hue/Saturation/Color/Value modes,
// which blend through the HSV (GIMP lightness-quirk) model instead of
// per-channel RGB math.
func isHSVMode(m Mode) bool {
	return m == ModeHue || m == ModeSaturation || m == ModeColor || m == ModeValue
}

// Compose alpha-blends src over dst using mode at the given layer opacity
// (0..1). rng supplies the per-pixel draw for Dissolve; pass nil to use a
// package-default deterministic source (callers needing reproducibility
// across runs should supply their own seeded *rand.Rand, see
// SPEC_FULL.md §9 "Dissolve RNG").
func Compose(dst, src Pixel, mode Mode, opacity float64, rng *rand.Rand) Pixel {
	a1 := dst.A
	a2 := src.A * opacity

	if mode == ModeDissolve {
		return composeDissolve(dst, src, a2, rng)
	}

	if isHSVMode(mode) {
		return composeHSV(dst, src, mode, a1, a2, opacity)
	}

	if fn, ok := separable[mode]; ok {
		return composeGeneral(dst, src, a1, a2, fn)
	}

	// Normal (and Behind / unknown ids, which fall back to Normal per
	// SPEC_FULL.md §7).
	return composeNormal(dst, src, a1, a2)
}

func composeNormal(dst, src Pixel, a1, a2 float64) Pixel {
	aOut := 1 - (1-a1)*(1-a2)
	if aOut <= 0 {
		return Pixel{}
	}
	wSrc := a2 / aOut
	return Pixel{
		R: (1-wSrc)*dst.R + wSrc*src.R,
		G: (1-wSrc)*dst.G + wSrc*src.G,
		B: (1-wSrc)*dst.B + wSrc*src.B,
		A: aOut,
	}
}

func composeGeneral(dst, src Pixel, a1, a2 float64, fn func(x1, x2 float64) float64) Pixel {
	f := Pixel{
		R: fn(dst.R, src.R),
		G: fn(dst.G, src.G),
		B: fn(dst.B, src.B),
	}
	aBlend := a1
	if a2 < a1 {
		aBlend = a2
	}
	return blendChannels(a1, dst, aBlend, f, a1)
}

// blendChannels applies the §4.6 "Normal compositing" blend() formula with an
// explicit output alpha (used by the general-blend branch, which retains
// destination alpha rather than recomputing it from a1,a2).
func blendChannels(a1 float64, x1 Pixel, a2 float64, x2 Pixel, outA float64) Pixel {
	aOut := 1 - (1-a1)*(1-a2)
	if aOut <= 0 {
		return Pixel{A: outA}
	}
	wSrc := a2 / aOut
	return Pixel{
		R: (1-wSrc)*x1.R + wSrc*x2.R,
		G: (1-wSrc)*x1.G + wSrc*x2.G,
		B: (1-wSrc)*x1.B + wSrc*x2.B,
		A: outA,
	}
}

func composeHSV(dst, src Pixel, mode Mode, a1, a2, opacity float64) Pixel {
	dh := rgbToHSV(dst.R, dst.G, dst.B)
	sh := rgbToHSV(src.R, src.G, src.B)

	out := dh
	switch mode {
	case ModeHue:
		if sh.S != 0 {
			out.H = sh.H
		}
	case ModeSaturation:
		out.S = sh.S
	case ModeColor:
		out.H = sh.H
		out.S = sh.S
	case ModeValue:
		out.V = sh.V
	}

	r, g, b := hsvToRGB(out)

	compA := a1
	if a2 < a1 {
		compA = a2
	}
	compA *= opacity
	outA := a1 + (1-a1)*compA

	var ratio float64
	if outA > 0 {
		ratio = compA / outA
	}

	return Pixel{
		R: (1-ratio)*dst.R + ratio*r,
		G: (1-ratio)*dst.G + ratio*g,
		B: (1-ratio)*dst.B + ratio*b,
		A: outA,
	}
}

func composeDissolve(dst, src Pixel, a2 float64, rng *rand.Rand) Pixel {
	var r float64
	if rng != nil {
		r = rng.Float64()
	} else {
		r = defaultDissolveRNG.Float64()
	}
	if r < a2 {
		return Pixel{R: src.R, G: src.G, B: src.B, A: 1}
	}
	return dst
}

// defaultDissolveRNG is fixed-seed so a caller who never supplies their own
// rand.Source still gets deterministic, reproducible renders (SPEC_FULL.md
// §9 "Dissolve RNG"); it must never be the platform/crypto RNG.
var defaultDissolveRNG = rand.New(rand.NewSource(1))
