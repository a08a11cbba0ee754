// Package scanfill is documented in types.go; this file is the public
// entry point.
package scanfill

import (
	"fmt"

	"github.com/nordlicht/tilefill/pkg/colorspace"
	"github.com/nordlicht/tilefill/pkg/jobqueue"
	"github.com/nordlicht/tilefill/pkg/raster"
)

// Fill is the public flood-fill facade (spec.md §4.1). Configure it once
// with a reference device, a color space for interpreting that device's
// pixels, a seed point, a working rectangle, and an executor; then call
// exactly one of its terminal operations. Every operation blocks until
// the whole fill has completed.
type Fill struct {
	refDevice   raster.Device
	cs          colorspace.ColorSpace
	seed        Point
	workingRect raster.Rect
	executor    jobqueue.Executor

	threshold     int // 0..255
	opacitySpread int // 0..100, meaningful only for mask/selection outputs
}

// New builds a Fill. It panics (a fatal contract violation, not a
// recoverable error — spec.md §7) if refDevice is nil or seed falls
// outside workingRect.
func New(refDevice raster.Device, cs colorspace.ColorSpace, seed Point, workingRect raster.Rect, executor jobqueue.Executor) *Fill {
	if refDevice == nil {
		panic(raster.ErrNilDevice{Which: "reference"})
	}
	if !workingRect.Contains(seed.X, seed.Y) {
		panic(fmt.Sprintf("scanfill: working rectangle %+v does not contain seed %+v", workingRect, seed))
	}
	return &Fill{
		refDevice:     refDevice,
		cs:            cs,
		seed:          seed,
		workingRect:   workingRect,
		executor:      executor,
		threshold:     1,
		opacitySpread: 0,
	}
}

// SetThreshold sets the difference threshold used by every subsequent
// operation, clamped silently to 0..255 (spec.md §7). threshold == 1
// takes the exact-match fast path in the difference policies (spec.md
// §4.4).
func (f *Fill) SetThreshold(threshold int) {
	f.threshold = clampIntRange(threshold, 0, 255)
}

// SetOpacitySpread sets the soft-selection falloff width, clamped
// silently to 0..100 (spec.md §7). Meaningful only for the
// FillSelection* family.
func (f *Fill) SetOpacitySpread(spread int) {
	f.opacitySpread = clampIntRange(spread, 0, 100)
}

func clampIntRange(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func requireDevice(dev raster.Device, which string) {
	if dev == nil {
		panic(raster.ErrNilDevice{Which: which})
	}
}

// readPixelCopy reads and copies the pixel at (x, y) out of dev — a copy
// because raster.Accessor.Pixel's result aliases device storage that a
// later Bind/SetRow call may invalidate, and this value is retained for
// the lifetime of the whole fill.
func readPixelCopy(dev raster.Device, x, y int32) []byte {
	ox, oy := dev.Offset()
	tile := raster.TileIDAt(x, y, ox, oy)
	rect := raster.TileRect(tile, ox, oy)
	acc := dev.ReadAccessor()
	acc.Bind(dev, rect)
	acc.SetRow(y - rect.MinY)
	src := acc.Pixel(x - rect.MinX)
	out := make([]byte, len(src))
	copy(out, src)
	return out
}

// newDifferenceFactory returns a constructor that builds a fresh
// DifferencePolicy against refPixel, specialized by pixel byte width per
// the facade's dispatch rule (spec.md §4.1 "Dispatch logic"): 1/2/4/8
// byte pixels get the generic-memoized OptimizedDifference, any other
// width falls back to SlowDifference.
func newDifferenceFactory(cs colorspace.ColorSpace, refPixel []byte, threshold int) func() DifferencePolicy {
	switch cs.PixelSize() {
	case 1:
		return func() DifferencePolicy { return NewOptimizedDifference[uint8](DecodeUint8, cs, refPixel, threshold) }
	case 2:
		return func() DifferencePolicy { return NewOptimizedDifference[uint16](DecodeUint16LE, cs, refPixel, threshold) }
	case 4:
		return func() DifferencePolicy { return NewOptimizedDifference[uint32](DecodeUint32LE, cs, refPixel, threshold) }
	case 8:
		return func() DifferencePolicy { return NewOptimizedDifference[uint64](DecodeUint64LE, cs, refPixel, threshold) }
	default:
		return func() DifferencePolicy { return NewSlowDifference(cs, refPixel, threshold) }
	}
}

// newColorOrTransparentFactory is newDifferenceFactory's counterpart for
// FillSelectionUntilColorOrTransparent.
func newColorOrTransparentFactory(cs colorspace.ColorSpace, refPixel []byte, threshold int) func() DifferencePolicy {
	switch cs.PixelSize() {
	case 1:
		return func() DifferencePolicy {
			return NewOptimizedColorOrTransparentDifference[uint8](DecodeUint8, cs, refPixel, threshold)
		}
	case 2:
		return func() DifferencePolicy {
			return NewOptimizedColorOrTransparentDifference[uint16](DecodeUint16LE, cs, refPixel, threshold)
		}
	case 4:
		return func() DifferencePolicy {
			return NewOptimizedColorOrTransparentDifference[uint32](DecodeUint32LE, cs, refPixel, threshold)
		}
	case 8:
		return func() DifferencePolicy {
			return NewOptimizedColorOrTransparentDifference[uint64](DecodeUint64LE, cs, refPixel, threshold)
		}
	default:
		return func() DifferencePolicy { return NewColorOrTransparentDifference(cs, refPixel, threshold) }
	}
}

// Fill writes fillColor into the reference device over the connected
// region similar to the seed color (spec.md §4.1 "fill").
func (f *Fill) Fill(fillColor []byte) {
	seedPixel := readPixelCopy(f.refDevice, f.seed.X, f.seed.Y)
	newDiff := newDifferenceFactory(f.cs, seedPixel, f.threshold)
	maskDevice := raster.NewMemDeviceLike(f.refDevice)
	threshold := f.threshold
	selFactory := func() SelectionPolicy {
		return HardSimilar{Diff: newDiff(), Threshold: threshold}
	}
	factory := NewReferenceFactory(f.refDevice, maskDevice, selFactory, fillColor)
	run(f.executor, f.seed, f.refDevice, f.workingRect, factory)
}

// FillUntilColor writes fillColor over every pixel reachable from the
// seed without crossing a pixel similar to boundaryColor (spec.md §4.1
// "fill_until_color").
func (f *Fill) FillUntilColor(fillColor, boundaryColor []byte) {
	newDiff := newDifferenceFactory(f.cs, boundaryColor, f.threshold)
	maskDevice := raster.NewMemDeviceLike(f.refDevice)
	threshold := f.threshold
	selFactory := func() SelectionPolicy {
		return HardUntilColor{Diff: newDiff(), Threshold: threshold}
	}
	factory := NewReferenceFactory(f.refDevice, maskDevice, selFactory, fillColor)
	run(f.executor, f.seed, f.refDevice, f.workingRect, factory)
}

// FillExternal writes fillColor into externalDevice over the region
// similar to the seed, leaving the reference unchanged. externalDevice
// may be grid-misaligned with the reference (spec.md §4.1 "fill(…,
// external_device)").
func (f *Fill) FillExternal(fillColor []byte, externalDevice raster.Device) {
	requireDevice(externalDevice, "external")
	seedPixel := readPixelCopy(f.refDevice, f.seed.X, f.seed.Y)
	newDiff := newDifferenceFactory(f.cs, seedPixel, f.threshold)
	maskDevice := raster.NewMemDeviceLike(f.refDevice)
	threshold := f.threshold
	selFactory := func() SelectionPolicy {
		return HardSimilar{Diff: newDiff(), Threshold: threshold}
	}
	factory := NewExternalFactory(f.refDevice, externalDevice, maskDevice, selFactory, fillColor)
	run(f.executor, f.seed, f.refDevice, f.workingRect, factory)
}

// FillUntilColorExternal combines FillUntilColor and FillExternal
// (spec.md §4.1).
func (f *Fill) FillUntilColorExternal(fillColor, boundaryColor []byte, externalDevice raster.Device) {
	requireDevice(externalDevice, "external")
	newDiff := newDifferenceFactory(f.cs, boundaryColor, f.threshold)
	maskDevice := raster.NewMemDeviceLike(f.refDevice)
	threshold := f.threshold
	selFactory := func() SelectionPolicy {
		return HardUntilColor{Diff: newDiff(), Threshold: threshold}
	}
	factory := NewExternalFactory(f.refDevice, externalDevice, maskDevice, selFactory, fillColor)
	run(f.executor, f.seed, f.refDevice, f.workingRect, factory)
}

// FillSelection writes the hard-or-soft opacity of the seed's connected
// region into pixelSelection. If boundarySelection is non-nil, only
// pixels where it reads nonzero are reachable (spec.md §4.1
// "fill_selection").
func (f *Fill) FillSelection(pixelSelection, boundarySelection raster.Device) {
	requireDevice(pixelSelection, "pixel selection")
	seedPixel := readPixelCopy(f.refDevice, f.seed.X, f.seed.Y)
	newDiff := newDifferenceFactory(f.cs, seedPixel, f.threshold)
	threshold, softness := f.threshold, Softness(f.opacitySpread)
	selFactory := func() SelectionPolicy {
		diff := newDiff()
		if softness == 0 {
			return HardSimilar{Diff: diff, Threshold: threshold}
		}
		return SoftSimilar{Diff: diff, Threshold: threshold, Softness: softness}
	}
	factory := NewSelectionMaskFactory(f.refDevice, pixelSelection, boundarySelection, selFactory)
	run(f.executor, f.seed, f.refDevice, f.workingRect, factory)
}

// FillSelectionUntilColor is FillSelection's "until color" counterpart
// (spec.md §4.1 "fill_selection_until_color").
func (f *Fill) FillSelectionUntilColor(pixelSelection raster.Device, referenceColor []byte, boundarySelection raster.Device) {
	requireDevice(pixelSelection, "pixel selection")
	newDiff := newDifferenceFactory(f.cs, referenceColor, f.threshold)
	threshold, softness := f.threshold, Softness(f.opacitySpread)
	selFactory := func() SelectionPolicy {
		diff := newDiff()
		if softness == 0 {
			return HardUntilColor{Diff: diff, Threshold: threshold}
		}
		return SoftUntilColor{Diff: diff, Threshold: threshold, Softness: softness}
	}
	factory := NewSelectionMaskFactory(f.refDevice, pixelSelection, boundarySelection, selFactory)
	run(f.executor, f.seed, f.refDevice, f.workingRect, factory)
}

// FillSelectionUntilColorOrTransparent is FillSelectionUntilColor, but a
// fully transparent candidate pixel also counts as reaching the boundary
// (spec.md §4.1).
func (f *Fill) FillSelectionUntilColorOrTransparent(pixelSelection raster.Device, referenceColor []byte, boundarySelection raster.Device) {
	requireDevice(pixelSelection, "pixel selection")
	newDiff := newColorOrTransparentFactory(f.cs, referenceColor, f.threshold)
	threshold, softness := f.threshold, Softness(f.opacitySpread)
	selFactory := func() SelectionPolicy {
		diff := newDiff()
		if softness == 0 {
			return HardUntilColor{Diff: diff, Threshold: threshold}
		}
		return SoftUntilColor{Diff: diff, Threshold: threshold, Softness: softness}
	}
	factory := NewSelectionMaskFactory(f.refDevice, pixelSelection, boundarySelection, selFactory)
	run(f.executor, f.seed, f.refDevice, f.workingRect, factory)
}

// ClearNonZero sets every pixel in the seed's connected region of
// non-zero pixels to the all-zero value. The threshold is ignored
// (spec.md §4.1 "clear_non_zero").
//
// Selection is phrased as "select everything NOT similar to the
// all-zero pixel" (HardUntilColor against NonNullDifference, threshold
// 0) rather than HardSimilar: HardSimilar would select the already-zero
// pixels, the opposite of what clear_non_zero needs.
func (f *Fill) ClearNonZero() {
	maskDevice := raster.NewMemDeviceLike(f.refDevice)
	zero := make([]byte, f.refDevice.PixelBytes())
	selFactory := func() SelectionPolicy {
		return HardUntilColor{Diff: NonNullDifference{}, Threshold: 0}
	}
	factory := NewReferenceFactory(f.refDevice, maskDevice, selFactory, zero)
	run(f.executor, f.seed, f.refDevice, f.workingRect, factory)
}

// FillContiguousGroup is the watershed-initialization mode: the
// reference is treated as an 8-bit value raster, pixels within threshold
// of the seed value are cleared in the reference and stamped with
// groupIndex in groupMap (spec.md §4.1 "fill_contiguous_group"). It
// panics unless the reference has 1-byte pixels and groupMap 4-byte ones.
func (f *Fill) FillContiguousGroup(groupMap raster.Device, groupIndex uint32) {
	requireDevice(groupMap, "group map")
	if f.refDevice.PixelBytes() != 1 || groupMap.PixelBytes() != 4 {
		panic(fmt.Sprintf("scanfill: group split needs a 1-byte reference and a 4-byte group map, got %d and %d",
			f.refDevice.PixelBytes(), groupMap.PixelBytes()))
	}
	seedPixel := readPixelCopy(f.refDevice, f.seed.X, f.seed.Y)
	maskDevice := raster.NewMemDeviceLike(f.refDevice)
	threshold := f.threshold
	referenceValue := seedPixel[0]
	selFactory := func() SelectionPolicy {
		return GroupSplit{ReferenceValue: referenceValue, Threshold: threshold}
	}
	factory := NewGroupSplitFactory(f.refDevice, groupMap, maskDevice, selFactory, groupIndex)
	run(f.executor, f.seed, f.refDevice, f.workingRect, factory)
}
