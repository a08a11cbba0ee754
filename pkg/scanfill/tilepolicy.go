package scanfill

import (
	"encoding/binary"

	"github.com/nordlicht/tilefill/pkg/raster"
)

// TilePolicy is the per-tile write-target strategy the scanline kernel
// drives (spec.md §4.5, §4.2). A fresh instance is bound to exactly one
// tile for the lifetime of one processTile call via BeginProcessing /
// EndProcessing; it is not safe to share across tiles or goroutines.
//
// All coordinates passed to these methods are absolute device-space
// coordinates, exactly like the spans the kernel works with — each
// concrete implementation converts to tile-relative offsets internally
// against the rectangle returned by TileSubRect.
type TilePolicy interface {
	BeginProcessing(tile raster.TileID, workingRect raster.Rect)
	EndProcessing()
	TileSubRect() raster.Rect
	SetWorkingRow(y int32)
	IsAlreadySet(x int32) bool
	IsInsideBoundary(x int32) bool
	OpacityAt(x int32) uint8
	Write(x int32, opacity uint8)
}

// Factory creates a fresh TilePolicy for one tile job. Every fill call
// builds exactly one Factory (in facade.go's dispatch) and the driver
// invokes it once per tile per round, which is what keeps any
// difference-policy memoization cache thread-local (spec.md §5).
//
// The original distinguishes aligned and unaligned tile-access variants
// as separate policy classes per write target; here the choice between
// raster.NewAligned and raster.NewMisaligned is made inside the Factory,
// when the accessor for a non-reference device is built. Both return the
// same raster.Accessor/MutableAccessor interface, so the policy body below
// never branches on alignment per pixel — it is decided once per tile
// job, which is what the original's split is actually protecting against
// (see DESIGN.md).
type Factory func() TilePolicy

// base holds the tile-relative coordinate bookkeeping shared by every
// TilePolicy below. The reference device's own grid is always the
// partitioning grid: TileID values the driver works with are defined in
// the reference device's tile space, and every device reachable from a
// TilePolicy is bound against the same absolute sub-rectangle.
type base struct {
	refDevice raster.Device
	subRect   raster.Rect
}

func (b *base) bind(refDevice raster.Device, tile raster.TileID, workingRect raster.Rect) raster.Rect {
	b.refDevice = refDevice
	ox, oy := refDevice.Offset()
	b.subRect = raster.TileRect(tile, ox, oy).Intersect(workingRect)
	return b.subRect
}

func (b *base) TileSubRect() raster.Rect { return b.subRect }
func (b *base) relCol(x int32) int32     { return x - b.subRect.MinX }
func (b *base) relRow(y int32) int32     { return y - b.subRect.MinY }

// ReferencePolicy implements "write-to-reference": fillColor is written
// directly into the reference device, and an internal mask device tracks
// fill progress (spec.md §4.5).
type ReferencePolicy struct {
	base
	maskDevice raster.Device

	ref       raster.MutableAccessor
	mask      raster.MutableAccessor
	selection SelectionPolicy
	fillColor []byte
}

// NewReferenceFactory builds a Factory for write-to-reference fills.
// selection is itself a factory since some selection policies wrap a
// DifferencePolicy that may carry per-job memoization state.
func NewReferenceFactory(refDevice, maskDevice raster.Device, selection func() SelectionPolicy, fillColor []byte) Factory {
	return func() TilePolicy {
		return &ReferencePolicy{
			base:       base{refDevice: refDevice},
			maskDevice: maskDevice,
			ref:        raster.NewAligned(refDevice, true),
			mask:       raster.NewAligned(maskDevice, true),
			selection:  selection(),
			fillColor:  fillColor,
		}
	}
}

func (p *ReferencePolicy) BeginProcessing(tile raster.TileID, workingRect raster.Rect) {
	r := p.bind(p.refDevice, tile, workingRect)
	p.ref.Bind(p.refDevice, r)
	p.mask.Bind(p.maskDevice, r)
}

func (p *ReferencePolicy) EndProcessing() {}

func (p *ReferencePolicy) SetWorkingRow(y int32) {
	r := p.relRow(y)
	p.ref.SetRow(r)
	p.mask.SetRow(r)
}

func (p *ReferencePolicy) IsAlreadySet(x int32) bool {
	return p.mask.Pixel(p.relCol(x))[0] != 0
}

func (p *ReferencePolicy) IsInsideBoundary(int32) bool { return true }

func (p *ReferencePolicy) OpacityAt(x int32) uint8 {
	return p.selection.Opacity(p.ref.Pixel(p.relCol(x)))
}

func (p *ReferencePolicy) Write(x int32, opacity uint8) {
	c := p.relCol(x)
	p.ref.SetPixel(c, p.fillColor)
	p.mask.SetPixel(c, []byte{opacity})
}

// ExternalPolicy implements "write-to-external": the reference device is
// read-only (it supplies the candidate pixel for the selection/difference
// formula), fillColor is written into a caller-supplied external device
// that may sit on a different tile grid, and an internal mask tracks fill
// progress on the reference grid (spec.md §4.5).
type ExternalPolicy struct {
	base
	extDevice  raster.Device
	maskDevice raster.Device

	ref       raster.Accessor
	ext       raster.MutableAccessor
	mask      raster.MutableAccessor
	selection SelectionPolicy
	fillColor []byte
}

func NewExternalFactory(refDevice, extDevice, maskDevice raster.Device, selection func() SelectionPolicy, fillColor []byte) Factory {
	return func() TilePolicy {
		return &ExternalPolicy{
			base:       base{refDevice: refDevice},
			extDevice:  extDevice,
			maskDevice: maskDevice,
			ref:        raster.NewAligned(refDevice, false),
			ext:        raster.NewTarget(refDevice, extDevice, true),
			mask:       raster.NewAligned(maskDevice, true),
			selection:  selection(),
			fillColor:  fillColor,
		}
	}
}

func (p *ExternalPolicy) BeginProcessing(tile raster.TileID, workingRect raster.Rect) {
	r := p.bind(p.refDevice, tile, workingRect)
	p.ref.Bind(p.refDevice, r)
	p.ext.Bind(p.extDevice, r)
	p.mask.Bind(p.maskDevice, r)
}

func (p *ExternalPolicy) EndProcessing() {}

func (p *ExternalPolicy) SetWorkingRow(y int32) {
	r := p.relRow(y)
	p.ref.SetRow(r)
	p.ext.SetRow(r)
	p.mask.SetRow(r)
}

func (p *ExternalPolicy) IsAlreadySet(x int32) bool {
	return p.mask.Pixel(p.relCol(x))[0] != 0
}

func (p *ExternalPolicy) IsInsideBoundary(int32) bool { return true }

func (p *ExternalPolicy) OpacityAt(x int32) uint8 {
	return p.selection.Opacity(p.ref.Pixel(p.relCol(x)))
}

func (p *ExternalPolicy) Write(x int32, opacity uint8) {
	c := p.relCol(x)
	p.ext.SetPixel(c, p.fillColor)
	p.mask.SetPixel(c, []byte{opacity})
}

// SelectionMaskPolicy implements "write-to-mask": the reference device is
// read-only, and the computed opacity is written straight into the
// caller's selection/mask device, which therefore doubles as both the
// visible output and the internal progress memo — there is no separate
// internal mask in this mode (spec.md §4.5, §4.6 step 1).
type SelectionMaskPolicy struct {
	base
	maskDevice     raster.Device
	boundaryDevice raster.Device // nil when there is no boundary constraint

	ref       raster.Accessor
	sel       raster.MutableAccessor
	boundary  raster.Accessor // nil when there is no boundary constraint
	selection SelectionPolicy
}

// NewSelectionMaskFactory builds a Factory for write-to-mask fills.
// boundaryDevice may be nil, giving the write-to-mask-with-boundary
// variant when non-nil (spec.md §4.5).
func NewSelectionMaskFactory(refDevice, maskDevice, boundaryDevice raster.Device, selection func() SelectionPolicy) Factory {
	return func() TilePolicy {
		p := &SelectionMaskPolicy{
			base:           base{refDevice: refDevice},
			maskDevice:     maskDevice,
			boundaryDevice: boundaryDevice,
			ref:            raster.NewAligned(refDevice, false),
			sel:            raster.NewTarget(refDevice, maskDevice, true),
			selection:      selection(),
		}
		if boundaryDevice != nil {
			p.boundary = raster.NewReadTarget(refDevice, boundaryDevice)
		}
		return p
	}
}

func (p *SelectionMaskPolicy) BeginProcessing(tile raster.TileID, workingRect raster.Rect) {
	r := p.bind(p.refDevice, tile, workingRect)
	p.ref.Bind(p.refDevice, r)
	p.sel.Bind(p.maskDevice, r)
	if p.boundary != nil {
		p.boundary.Bind(p.boundaryDevice, r)
	}
}

func (p *SelectionMaskPolicy) EndProcessing() {}

func (p *SelectionMaskPolicy) SetWorkingRow(y int32) {
	r := p.relRow(y)
	p.ref.SetRow(r)
	p.sel.SetRow(r)
	if p.boundary != nil {
		p.boundary.SetRow(r)
	}
}

func (p *SelectionMaskPolicy) IsAlreadySet(x int32) bool {
	return p.sel.Pixel(p.relCol(x))[0] != 0
}

func (p *SelectionMaskPolicy) IsInsideBoundary(x int32) bool {
	if p.boundary == nil {
		return true
	}
	return p.boundary.Pixel(p.relCol(x))[0] != 0
}

func (p *SelectionMaskPolicy) OpacityAt(x int32) uint8 {
	return p.selection.Opacity(p.ref.Pixel(p.relCol(x)))
}

func (p *SelectionMaskPolicy) Write(x int32, opacity uint8) {
	p.sel.SetPixel(p.relCol(x), []byte{opacity})
}

// GroupSplitPolicy implements watershed group-splitting: it consumes a
// 1-byte reference (the seed/group raster), clears each claimed reference
// pixel back to 0 so other groups' fills cannot re-claim it, stamps the
// 4-byte group index into the caller's group map, and tracks progress in
// an internal mask (spec.md §4.1 fillContiguousGroup, §4.5).
type GroupSplitPolicy struct {
	base
	groupDevice raster.Device
	maskDevice  raster.Device

	ref        raster.MutableAccessor
	group      raster.MutableAccessor
	mask       raster.MutableAccessor
	selection  SelectionPolicy
	groupBytes []byte
}

func NewGroupSplitFactory(refDevice, groupDevice, maskDevice raster.Device, selection func() SelectionPolicy, groupIndex uint32) Factory {
	groupBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(groupBytes, groupIndex)
	return func() TilePolicy {
		return &GroupSplitPolicy{
			base:        base{refDevice: refDevice},
			groupDevice: groupDevice,
			maskDevice:  maskDevice,
			ref:         raster.NewAligned(refDevice, true),
			group:       raster.NewTarget(refDevice, groupDevice, true),
			mask:        raster.NewAligned(maskDevice, true),
			selection:   selection(),
			groupBytes:  groupBytes,
		}
	}
}

func (p *GroupSplitPolicy) BeginProcessing(tile raster.TileID, workingRect raster.Rect) {
	r := p.bind(p.refDevice, tile, workingRect)
	p.ref.Bind(p.refDevice, r)
	p.group.Bind(p.groupDevice, r)
	p.mask.Bind(p.maskDevice, r)
}

func (p *GroupSplitPolicy) EndProcessing() {}

func (p *GroupSplitPolicy) SetWorkingRow(y int32) {
	r := p.relRow(y)
	p.ref.SetRow(r)
	p.group.SetRow(r)
	p.mask.SetRow(r)
}

func (p *GroupSplitPolicy) IsAlreadySet(x int32) bool {
	return p.mask.Pixel(p.relCol(x))[0] != 0
}

func (p *GroupSplitPolicy) IsInsideBoundary(int32) bool { return true }

func (p *GroupSplitPolicy) OpacityAt(x int32) uint8 {
	return p.selection.Opacity(p.ref.Pixel(p.relCol(x)))
}

func (p *GroupSplitPolicy) Write(x int32, opacity uint8) {
	c := p.relCol(x)
	p.group.SetPixel(c, p.groupBytes)
	p.ref.SetPixel(c, []byte{0})
	p.mask.SetPixel(c, []byte{opacity})
}
