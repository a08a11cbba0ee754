package scanfill

import (
	"bytes"
	"encoding/binary"

	"github.com/nordlicht/tilefill/pkg/colorspace"
)

// DifferencePolicy computes a 0..255 difference scalar between a fixed
// reference pixel (baked in at construction) and a candidate pixel
// (spec.md §4.4). The facade's SelectionPolicy factories construct a
// fresh DifferencePolicy on every call, and a Factory (tilepolicy.go) is
// invoked once per tile job, so any memoization cache below is
// thread-local by construction: no two concurrent goroutines ever touch
// the same cache (spec.md §5).
type DifferencePolicy interface {
	Difference(pixel []byte) uint8
}

// SlowDifference calls straight into a colorspace.ColorSpace, short-
// circuiting to exact byte equality when threshold == 1 (spec.md §4.4).
type SlowDifference struct {
	cs        colorspace.ColorSpace
	ref       []byte
	exactOnly bool
}

func NewSlowDifference(cs colorspace.ColorSpace, ref []byte, threshold int) *SlowDifference {
	return &SlowDifference{cs: cs, ref: ref, exactOnly: threshold == 1}
}

func (d *SlowDifference) Difference(pixel []byte) uint8 {
	if d.exactOnly {
		return exactDifference(d.ref, pixel)
	}
	return d.cs.Difference(d.ref, pixel)
}

func exactDifference(ref, pixel []byte) uint8 {
	if bytes.Equal(ref, pixel) {
		return 0
	}
	return 255
}

// intKey constrains the hash-map key types the optimized difference
// policies use: the pixel's own raw integer value, for pixel widths
// where that's a meaningful, comparable key (1, 2, 4, or 8 bytes).
type intKey interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// DecodeUint8, DecodeUint16LE, DecodeUint32LE, and DecodeUint64LE read a
// pixel's raw bytes as an unsigned integer of the matching width, for use
// as an OptimizedDifference key.
func DecodeUint8(p []byte) uint8    { return p[0] }
func DecodeUint16LE(p []byte) uint16 { return binary.LittleEndian.Uint16(p) }
func DecodeUint32LE(p []byte) uint32 { return binary.LittleEndian.Uint32(p) }
func DecodeUint64LE(p []byte) uint64 { return binary.LittleEndian.Uint64(p) }

// OptimizedDifference memoizes calculateDifference results in a map keyed
// by the pixel's raw integer value (spec.md §4.4 "Optimized (small
// integer)"). K is chosen per the device's pixel byte width by the
// facade's dispatch switch (facade.go), which is the one place in this
// package where Go generics buy a genuine compile-time specialization:
// the cache never boxes its key through `any`.
type OptimizedDifference[K intKey] struct {
	cs        colorspace.ColorSpace
	ref       []byte
	exactOnly bool
	decode    func([]byte) K
	cache     map[K]uint8
}

func NewOptimizedDifference[K intKey](decode func([]byte) K, cs colorspace.ColorSpace, ref []byte, threshold int) *OptimizedDifference[K] {
	return &OptimizedDifference[K]{
		cs:        cs,
		ref:       ref,
		exactOnly: threshold == 1,
		decode:    decode,
		cache:     make(map[K]uint8),
	}
}

func (d *OptimizedDifference[K]) Difference(pixel []byte) uint8 {
	key := d.decode(pixel)
	if v, ok := d.cache[key]; ok {
		return v
	}
	var v uint8
	if d.exactOnly {
		v = exactDifference(d.ref, pixel)
	} else {
		v = d.cs.Difference(d.ref, pixel)
	}
	d.cache[key] = v
	return v
}

// ColorOrTransparentDifference is the "color-or-transparent" policy: a
// candidate also counts as matching the boundary if it is fully
// transparent, not only if its color is similar (spec.md §4.4,
// used by FillSelectionUntilColorOrTransparent).
type ColorOrTransparentDifference struct {
	cs        colorspace.ColorSpace
	ref       []byte
	exactOnly bool
}

func NewColorOrTransparentDifference(cs colorspace.ColorSpace, ref []byte, threshold int) *ColorOrTransparentDifference {
	return &ColorOrTransparentDifference{cs: cs, ref: ref, exactOnly: threshold == 1}
}

func (d *ColorOrTransparentDifference) Difference(pixel []byte) uint8 {
	if d.exactOnly {
		if bytes.Equal(d.ref, pixel) || d.cs.Opacity(pixel) == 0 {
			return 0
		}
		return 255
	}
	return d.cs.DifferenceWithAlpha(d.ref, pixel)
}

// OptimizedColorOrTransparentDifference is the memoized counterpart of
// ColorOrTransparentDifference.
type OptimizedColorOrTransparentDifference[K intKey] struct {
	cs        colorspace.ColorSpace
	ref       []byte
	exactOnly bool
	decode    func([]byte) K
	cache     map[K]uint8
}

func NewOptimizedColorOrTransparentDifference[K intKey](decode func([]byte) K, cs colorspace.ColorSpace, ref []byte, threshold int) *OptimizedColorOrTransparentDifference[K] {
	return &OptimizedColorOrTransparentDifference[K]{
		cs:        cs,
		ref:       ref,
		exactOnly: threshold == 1,
		decode:    decode,
		cache:     make(map[K]uint8),
	}
}

func (d *OptimizedColorOrTransparentDifference[K]) Difference(pixel []byte) uint8 {
	key := d.decode(pixel)
	if v, ok := d.cache[key]; ok {
		return v
	}
	var v uint8
	if d.exactOnly {
		if bytes.Equal(d.ref, pixel) || d.cs.Opacity(pixel) == 0 {
			v = 0
		} else {
			v = 255
		}
	} else {
		v = d.cs.DifferenceWithAlpha(d.ref, pixel)
	}
	d.cache[key] = v
	return v
}

// NonNullDifference returns 0 iff the pixel is the all-zero pixel, else
// 255; the threshold is never consulted (spec.md §4.4, and see
// DESIGN.md's Open Question #1 — this matches the original's
// IsNonNullPolicyOptimized, which also ignores threshold). Because the
// check is a cheap O(pixelSize) byte scan either way, there is no
// meaningful "slow vs optimized" split in Go the way there is in the
// original's pointer-reinterpretation trick; one implementation serves
// both roles.
type NonNullDifference struct{}

func (NonNullDifference) Difference(pixel []byte) uint8 {
	for _, b := range pixel {
		if b != 0 {
			return 255
		}
	}
	return 0
}
