package xcf

import "fmt"

// ValidationConfig tunes the Validator's bounds checks. The zero value is
// not valid on its own; use DefaultValidationConfig.
type ValidationConfig struct {
	MaxDim            uint32 // max image/layer width or height
	MaxPathDepth      int    // max ITEM_PATH length
	MaxPathIndex      uint32 // max value of any single ITEM_PATH component
	MaxOffsetAbs      int64  // max |dx|, |dy| for a layer's OFFSETS property
	GuardCircularRefs bool   // at render time, reject a repeated offset on a layer's hierarchy→level→tile chain
}

// DefaultValidationConfig matches the bounds spec §4.2 names as defaults.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		MaxDim:            524288,
		MaxPathDepth:      100,
		MaxPathIndex:      10000,
		MaxOffsetAbs:      1_000_000_000,
		GuardCircularRefs: false,
	}
}

// validator carries ValidationConfig plus the running state needed to
// detect duplicate/out-of-bounds offsets across a single parse.
type validator struct {
	cfg      ValidationConfig
	bufLen   int64
	seenOff  map[int64]struct{} // offsets already claimed by the channel table, layer table or a layer's hierarchy offset
	visiting map[int64]struct{} // offsets on the current hierarchy→level→tile chain
}

func newValidator(cfg ValidationConfig, bufLen int64) *validator {
	return &validator{
		cfg:     cfg,
		bufLen:  bufLen,
		seenOff: make(map[int64]struct{}),
	}
}

func (v *validator) checkDimensions(width, height uint32, field string) error {
	if width == 0 || height == 0 {
		return newErrAt(KindValidation, fmt.Sprintf("%s dimensions must be nonzero (got %dx%d)", field, width, height), field, -1)
	}
	if width > v.cfg.MaxDim || height > v.cfg.MaxDim {
		return newErrAt(KindValidation, fmt.Sprintf("%s dimensions exceed max %d (got %dx%d)", field, v.cfg.MaxDim, width, height), field, -1)
	}
	return nil
}

func (v *validator) checkBaseType(bt BaseType) error {
	if !bt.valid() {
		return newErrAt(KindValidation, fmt.Sprintf("unknown base type %d", uint32(bt)), "base_type", -1)
	}
	return nil
}

// checkOffset verifies a non-zero offset lies inside the buffer and has not
// already been claimed by any offset this validator checked before (channel
// table, layer table, or a layer's hierarchy offset). Zero offsets
// (terminators) are never checked or recorded.
func (v *validator) checkOffset(offset int64, field string) error {
	if offset == 0 {
		return nil
	}
	if offset < 0 || offset >= v.bufLen {
		return newErrAt(KindValidation, fmt.Sprintf("offset %d out of bounds [0,%d)", offset, v.bufLen), field, offset)
	}
	if _, dup := v.seenOff[offset]; dup {
		return newErrAt(KindValidation, "duplicate offset in table", field, offset)
	}
	v.seenOff[offset] = struct{}{}
	return nil
}

func (v *validator) checkItemPath(path []uint32) error {
	if len(path) > v.cfg.MaxPathDepth {
		return newErrAt(KindValidation, fmt.Sprintf("item path depth %d exceeds max %d", len(path), v.cfg.MaxPathDepth), "ITEM_PATH", -1)
	}
	for _, idx := range path {
		if idx > v.cfg.MaxPathIndex {
			return newErrAt(KindValidation, fmt.Sprintf("item path index %d exceeds max %d", idx, v.cfg.MaxPathIndex), "ITEM_PATH", -1)
		}
	}
	return nil
}

func (v *validator) checkLayerOffsets(dx, dy int32) error {
	if abs32(dx) > v.cfg.MaxOffsetAbs || abs32(dy) > v.cfg.MaxOffsetAbs {
		return newErrAt(KindValidation, fmt.Sprintf("layer offset (%d,%d) exceeds max abs %d", dx, dy, v.cfg.MaxOffsetAbs), "OFFSETS", -1)
	}
	return nil
}

func abs32(v int32) int64 {
	if v < 0 {
		return -int64(v)
	}
	return int64(v)
}

// enterChain records offset as visited on the current hierarchy→level→tile
// chain and fails if it was already visited (a cycle). It is a no-op unless
// GuardCircularRefs is enabled. The visited set lives as long as the
// validator, so the renderer uses a fresh validator for each layer's chain.
func (v *validator) enterChain(offset int64) error {
	if !v.cfg.GuardCircularRefs {
		return nil
	}
	if v.visiting == nil {
		v.visiting = make(map[int64]struct{})
	}
	if _, cyc := v.visiting[offset]; cyc {
		return newErrAt(KindValidation, "circular reference in hierarchy/level/tile chain", "offset", offset)
	}
	v.visiting[offset] = struct{}{}
	return nil
}
