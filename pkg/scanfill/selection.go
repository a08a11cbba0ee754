package scanfill

// SelectionPolicy turns a pixel into a 0..255 opacity: "not selected" (0)
// through "fully selected" (255), per spec.md §4.4.
type SelectionPolicy interface {
	Opacity(pixel []byte) uint8
}

const (
	minSelected uint8 = 0
	maxSelected uint8 = 255
)

// HardSimilar selects pixels whose difference from the seed is within
// threshold.
type HardSimilar struct {
	Diff      DifferencePolicy
	Threshold int
}

func (p HardSimilar) Opacity(pixel []byte) uint8 {
	if int(p.Diff.Difference(pixel)) <= p.Threshold {
		return maxSelected
	}
	return minSelected
}

// SoftSimilar is HardSimilar with a soft (semi-transparent) falloff
// between the seed and the threshold boundary, controlled by softness
// (100 - opacity spread).
type SoftSimilar struct {
	Diff      DifferencePolicy
	Threshold int
	Softness  int
}

func (p SoftSimilar) Opacity(pixel []byte) uint8 {
	if p.Threshold == 0 {
		return minSelected
	}
	d := int(p.Diff.Difference(pixel))
	if d >= p.Threshold {
		return minSelected
	}
	v := (p.Threshold - d) * int(maxSelected) * 100 / (p.Threshold * p.Softness)
	if v > int(maxSelected) {
		return maxSelected
	}
	return uint8(v)
}

// HardUntilColor selects every pixel that is NOT similar to the
// reference ("boundary") color baked into Diff — used by
// fillUntilColor (spec.md §4.1, §4.4).
type HardUntilColor struct {
	Diff      DifferencePolicy
	Threshold int
}

func (p HardUntilColor) Opacity(pixel []byte) uint8 {
	if int(p.Diff.Difference(pixel)) > p.Threshold {
		return maxSelected
	}
	return minSelected
}

// SoftUntilColor is HardUntilColor with a soft falloff as the candidate
// pixel approaches the boundary color.
type SoftUntilColor struct {
	Diff      DifferencePolicy
	Threshold int
	Softness  int
}

func (p SoftUntilColor) Opacity(pixel []byte) uint8 {
	if p.Threshold == 0 {
		return maxSelected
	}
	d := int(p.Diff.Difference(pixel))
	if d >= p.Threshold {
		return maxSelected
	}
	v := int(maxSelected) - (p.Threshold-d)*int(maxSelected)*100/(p.Threshold*p.Softness)
	if v < int(minSelected) {
		return minSelected
	}
	return uint8(v)
}

// GroupSplit is the watershed-initialization selection policy: it reads
// the reference device as a 1-byte value raster and selects pixels
// within Threshold of ReferenceValue (spec.md §4.1 fillContiguousGroup,
// §4.4).
type GroupSplit struct {
	ReferenceValue uint8
	Threshold      int
}

func (p GroupSplit) Opacity(pixel []byte) uint8 {
	d := int(pixel[0]) - int(p.ReferenceValue)
	if d < 0 {
		d = -d
	}
	if d <= p.Threshold {
		return maxSelected
	}
	return minSelected
}

// Softness converts the user-facing opacity spread (0..100) into the
// selection formulas' softness term (spec.md §4.4 glossary: "softness =
// 100 - opacity spread").
func Softness(opacitySpread int) int {
	return 100 - opacitySpread
}
