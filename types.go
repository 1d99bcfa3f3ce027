// Package xcf decodes GIMP's native XCF image format: it parses the chunked
// binary layout into a Image/Layer model and composites layers into a
// caller-supplied ImageSink.
//
// The package never writes XCF, never rasterizes text or path layers, and
// never applies layer masks (they are parsed and exposed, not applied). See
// SPEC_FULL.md for the full component design.
package xcf

import "fmt"

// BaseType is the image's color model, fixed for the whole file.
type BaseType uint32

const (
	BaseTypeRGB       BaseType = 0
	BaseTypeGrayscale BaseType = 1
	BaseTypeIndexed   BaseType = 2
)

func (b BaseType) String() string {
	switch b {
	case BaseTypeRGB:
		return "RGB"
	case BaseTypeGrayscale:
		return "Grayscale"
	case BaseTypeIndexed:
		return "Indexed"
	default:
		return fmt.Sprintf("BaseType(%d)", uint32(b))
	}
}

func (b BaseType) valid() bool {
	return b == BaseTypeRGB || b == BaseTypeGrayscale || b == BaseTypeIndexed
}

// Precision is the numeric encoding of a channel value: integer or float,
// width, and gamma vs. linear tone response. Only present in v11+ files; v10
// files are always 8-bit gamma integer.
type Precision uint32

const (
	Precision8BitGamma    Precision = 100
	Precision16BitGamma   Precision = 150
	Precision32BitGamma   Precision = 200
	Precision16BitFloat   Precision = 250
	Precision32BitFloat   Precision = 300
	Precision64BitFloat   Precision = 350
	Precision8BitLinear   Precision = 500
	Precision16BitLinear  Precision = 550
	Precision32BitLinear  Precision = 600
	Precision16BitFloatL  Precision = 650
	Precision32BitFloatL  Precision = 700
	Precision64BitFloatL  Precision = 750
)

func (p Precision) valid() bool {
	switch p {
	case Precision8BitGamma, Precision16BitGamma, Precision32BitGamma,
		Precision16BitFloat, Precision32BitFloat, Precision64BitFloat,
		Precision8BitLinear, Precision16BitLinear, Precision32BitLinear,
		Precision16BitFloatL, Precision32BitFloatL, Precision64BitFloatL:
		return true
	default:
		return false
	}
}

// BytesPerChannel returns the wire width of one channel sample.
func (p Precision) BytesPerChannel() int {
	switch p {
	case Precision8BitGamma, Precision8BitLinear:
		return 1
	case Precision16BitGamma, Precision16BitFloat, Precision16BitLinear, Precision16BitFloatL:
		return 2
	case Precision32BitGamma, Precision32BitFloat, Precision32BitLinear, Precision32BitFloatL:
		return 4
	case Precision64BitFloat, Precision64BitFloatL:
		return 8
	default:
		return 0
	}
}

// IsFloat reports whether channel samples are IEEE-754 floats in [0,1]
// rather than integers.
func (p Precision) IsFloat() bool {
	switch p {
	case Precision16BitFloat, Precision32BitFloat, Precision64BitFloat,
		Precision16BitFloatL, Precision32BitFloatL, Precision64BitFloatL:
		return true
	default:
		return false
	}
}

// IsLinear reports whether the precision stores linear-light values rather
// than gamma-encoded ones. The compositor does not convert between the two;
// this is exposed purely as metadata (see SPEC_FULL.md §1 non-goals).
func (p Precision) IsLinear() bool {
	switch p {
	case Precision8BitLinear, Precision16BitLinear, Precision32BitLinear,
		Precision16BitFloatL, Precision32BitFloatL, Precision64BitFloatL:
		return true
	default:
		return false
	}
}

// PropertyTag identifies a property record's meaning.
type PropertyTag uint32

const (
	PropEnd               PropertyTag = 0
	PropColormap          PropertyTag = 1
	PropActiveLayer       PropertyTag = 2
	PropActiveChannel     PropertyTag = 3
	PropSelection         PropertyTag = 4
	PropFloatingSelection PropertyTag = 5
	PropOpacity           PropertyTag = 6
	PropMode              PropertyTag = 7
	PropVisible           PropertyTag = 8
	PropLinked            PropertyTag = 9
	PropLockAlpha         PropertyTag = 10
	PropApplyMask         PropertyTag = 11
	PropEditMask          PropertyTag = 12
	PropShowMask          PropertyTag = 13
	PropShowMasked        PropertyTag = 14
	PropOffsets           PropertyTag = 15
	PropColor             PropertyTag = 16
	PropCompression       PropertyTag = 17
	PropGuides            PropertyTag = 18
	PropResolution        PropertyTag = 19
	PropTattoo            PropertyTag = 20
	PropParasites         PropertyTag = 21
	PropUnit              PropertyTag = 22
	PropPaths             PropertyTag = 23
	PropUserUnit          PropertyTag = 24
	PropVectors           PropertyTag = 25
	PropTextLayerFlags    PropertyTag = 26
	PropSamplePoints      PropertyTag = 27
	PropLockContent       PropertyTag = 28
	PropGroupItem         PropertyTag = 29
	PropItemPath          PropertyTag = 30
	PropGroupItemFlags    PropertyTag = 31
	PropColorTag          PropertyTag = 32
	PropFloatOpacity      PropertyTag = 33
	PropCompositeMode     PropertyTag = 34
	PropCompositeSpace    PropertyTag = 35
	PropBlendSpace        PropertyTag = 36
	PropFloatColor        PropertyTag = 37
	PropSamplePointsV2    PropertyTag = 38
)

// CompressionRLE is the only Compression property value the decoder accepts.
const CompressionRLE = 1

// BlendMode is the numeric id stored in the MODE property.
type BlendMode uint32

const (
	BlendNormal       BlendMode = 0
	BlendDissolve     BlendMode = 1
	BlendBehind       BlendMode = 2
	BlendMultiply     BlendMode = 3
	BlendScreen       BlendMode = 4
	BlendOverlay      BlendMode = 5
	BlendDifference   BlendMode = 6
	BlendAddition     BlendMode = 7
	BlendSubtract     BlendMode = 8
	BlendDarkenOnly   BlendMode = 9
	BlendLightenOnly  BlendMode = 10
	BlendHue          BlendMode = 11
	BlendSaturation   BlendMode = 12
	BlendColor        BlendMode = 13
	BlendValue        BlendMode = 14
	BlendDivide       BlendMode = 15
	BlendDodge        BlendMode = 16
	BlendBurn         BlendMode = 17
	BlendHardLight    BlendMode = 18
	BlendSoftLight    BlendMode = 19
	BlendGrainExtract BlendMode = 20
	BlendGrainMerge   BlendMode = 21
)

func (m BlendMode) known() bool {
	return m <= BlendGrainMerge
}

func (m BlendMode) String() string {
	switch m {
	case BlendNormal:
		return "Normal"
	case BlendDissolve:
		return "Dissolve"
	case BlendBehind:
		return "Behind"
	case BlendMultiply:
		return "Multiply"
	case BlendScreen:
		return "Screen"
	case BlendOverlay:
		return "Overlay"
	case BlendDifference:
		return "Difference"
	case BlendAddition:
		return "Addition"
	case BlendSubtract:
		return "Subtract"
	case BlendDarkenOnly:
		return "DarkenOnly"
	case BlendLightenOnly:
		return "LightenOnly"
	case BlendHue:
		return "Hue"
	case BlendSaturation:
		return "Saturation"
	case BlendColor:
		return "Color"
	case BlendValue:
		return "Value"
	case BlendDivide:
		return "Divide"
	case BlendDodge:
		return "Dodge"
	case BlendBurn:
		return "Burn"
	case BlendHardLight:
		return "HardLight"
	case BlendSoftLight:
		return "SoftLight"
	case BlendGrainExtract:
		return "GrainExtract"
	case BlendGrainMerge:
		return "GrainMerge"
	default:
		return fmt.Sprintf("BlendMode(%d)", uint32(m))
	}
}
