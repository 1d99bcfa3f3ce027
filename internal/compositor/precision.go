package compositor

import "math"

// ChannelToUnit converts one raw channel sample (already extracted from the
// tile's channel-planar buffer as bytesPerChannel big-endian bytes) to a
// normalized float in [0,1], per SPEC_FULL.md §4.5. Gamma and linear
// precisions of the same width/float-ness convert identically; no tone-curve
// conversion is applied (see the package's non-goal on color management).
func ChannelToUnit(raw []byte, bytesPerChannel int, isFloat bool) float64 {
	switch {
	case bytesPerChannel == 1:
		return float64(raw[0]) / 255.0

	case bytesPerChannel == 2 && !isFloat:
		v := beUint16(raw)
		return float64(v / 257) / 255.0

	case bytesPerChannel == 2 && isFloat:
		return clamp01(float64(decodeFloat16(beUint16(raw))))

	case bytesPerChannel == 4 && !isFloat:
		v := beUint32(raw)
		return float64(v / 16843009) / 255.0

	case bytesPerChannel == 4 && isFloat:
		return clamp01(float64(math.Float32frombits(beUint32(raw))))

	case bytesPerChannel == 8 && isFloat:
		return clamp01(math.Float64frombits(beUint64(raw)))

	default:
		return 0
	}
}

func beUint16(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func beUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// decodeFloat16 decodes an IEEE-754 binary16 value per the standard bit
// layout: 1 sign bit, 5 exponent bits (bias 15), 10 fraction bits. Subnormals
// and Inf/NaN follow hardware conversion semantics.
func decodeFloat16(bits uint16) float32 {
	sign := uint32(bits>>15) & 0x1
	exp := uint32(bits>>10) & 0x1F
	frac := uint32(bits) & 0x3FF

	var f32bits uint32
	switch exp {
	case 0:
		if frac == 0 {
			f32bits = sign << 31
		} else {
			// subnormal: value = frac/1024 * 2^-14
			e := -14
			for frac&0x400 == 0 {
				frac <<= 1
				e--
			}
			frac &= 0x3FF
			exp32 := uint32(e + 127)
			f32bits = sign<<31 | exp32<<23 | frac<<13
		}
	case 0x1F:
		f32bits = sign<<31 | 0xFF<<23 | frac<<13
	default:
		exp32 := exp - 15 + 127
		f32bits = sign<<31 | exp32<<23 | frac<<13
	}
	return math.Float32frombits(f32bits)
}
