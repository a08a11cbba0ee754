// Package rasterio bridges scanfill's raster.Device tiles to standard
// image.Image values and to files on disk, grounded in the teacher's own
// pkg/stdimg/imgutils.go conversion helpers (ToNRGBA, CloneNRGBA) but
// writing into a tiled raster.MemDevice instead of a flat image.NRGBA.
package rasterio

import (
	"encoding/binary"
	"image"

	"github.com/nordlicht/tilefill/pkg/raster"
)

// eachTileRow walks bounds one tile-row-chunk at a time, calling fn with a
// rectangle that is guaranteed to lie within a single tile of a device
// offset by (offsetX, offsetY) — the precondition raster.Accessor.Bind
// requires of its caller.
func eachTileRow(bounds image.Rectangle, offsetX, offsetY int32, fn func(rowRect raster.Rect, y int32)) {
	minX, minY := int32(bounds.Min.X), int32(bounds.Min.Y)
	maxX, maxY := int32(bounds.Max.X), int32(bounds.Max.Y)
	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; {
			tileID := raster.TileIDAt(x, y, offsetX, offsetY)
			tileRect := raster.TileRect(tileID, offsetX, offsetY)
			chunkEnd := tileRect.MaxX
			if chunkEnd > maxX {
				chunkEnd = maxX
			}
			fn(raster.Rect{MinX: x, MinY: y, MaxX: chunkEnd, MaxY: y + 1}, y)
			x = chunkEnd
		}
	}
}

// FromNRGBA copies img into a fresh raster.MemDevice, offset to img's
// bounds origin, with a 4-byte (R, G, B, A) pixel layout.
func FromNRGBA(img *image.NRGBA) *raster.MemDevice {
	b := img.Bounds()
	dev := raster.NewMemDevice(4, int32(b.Min.X), int32(b.Min.Y))
	acc := dev.WriteAccessor()
	eachTileRow(b, int32(b.Min.X), int32(b.Min.Y), func(rowRect raster.Rect, y int32) {
		acc.Bind(dev, rowRect)
		acc.SetRow(0)
		off := img.PixOffset(int(rowRect.MinX), int(y))
		for x := rowRect.MinX; x < rowRect.MaxX; x++ {
			acc.SetPixel(x-rowRect.MinX, img.Pix[off:off+4])
			off += 4
		}
	})
	return dev
}

// ToNRGBA reads bounds out of dev into a new image.NRGBA.
func ToNRGBA(dev raster.Device, bounds image.Rectangle) *image.NRGBA {
	out := image.NewNRGBA(bounds)
	acc := dev.ReadAccessor()
	ox, oy := dev.Offset()
	eachTileRow(bounds, ox, oy, func(rowRect raster.Rect, y int32) {
		acc.Bind(dev, rowRect)
		acc.SetRow(0)
		off := out.PixOffset(int(rowRect.MinX), int(y))
		for x := rowRect.MinX; x < rowRect.MaxX; x++ {
			copy(out.Pix[off:off+4], acc.Pixel(x-rowRect.MinX))
			off += 4
		}
	})
	return out
}

// NewMaskDevice allocates a 1-byte-per-pixel device over bounds, the
// layout scanfill's FillSelection family writes opacity into.
func NewMaskDevice(bounds image.Rectangle) *raster.MemDevice {
	return raster.NewMemDevice(1, int32(bounds.Min.X), int32(bounds.Min.Y))
}

// MaskToAlpha reads a 1-byte mask device out as a grayscale image.NRGBA
// (opacity replicated into R, G, B and A), for previewing a selection.
func MaskToAlpha(mask raster.Device, bounds image.Rectangle) *image.NRGBA {
	out := image.NewNRGBA(bounds)
	acc := mask.ReadAccessor()
	ox, oy := mask.Offset()
	eachTileRow(bounds, ox, oy, func(rowRect raster.Rect, y int32) {
		acc.Bind(mask, rowRect)
		acc.SetRow(0)
		off := out.PixOffset(int(rowRect.MinX), int(y))
		for x := rowRect.MinX; x < rowRect.MaxX; x++ {
			v := acc.Pixel(x - rowRect.MinX)[0]
			out.Pix[off+0], out.Pix[off+1], out.Pix[off+2], out.Pix[off+3] = v, v, v, 255
			off += 4
		}
	})
	return out
}

// CompositeMasked returns a copy of src with fillColor written over every
// pixel where mask reads nonzero (or, if invert is set, every pixel where
// it reads zero) — the compositing step pkg/stdimg.FloodfillPaint uses to
// turn a scanfill selection mask into a painted image.
func CompositeMasked(src *image.NRGBA, mask raster.Device, bounds image.Rectangle, fillColor [4]byte, invert bool) *image.NRGBA {
	out := image.NewNRGBA(src.Rect)
	copy(out.Pix, src.Pix)
	acc := mask.ReadAccessor()
	ox, oy := mask.Offset()
	eachTileRow(bounds, ox, oy, func(rowRect raster.Rect, y int32) {
		acc.Bind(mask, rowRect)
		acc.SetRow(0)
		off := out.PixOffset(int(rowRect.MinX), int(y))
		for x := rowRect.MinX; x < rowRect.MaxX; x++ {
			selected := acc.Pixel(x-rowRect.MinX)[0] != 0
			if selected != invert {
				copy(out.Pix[off:off+4], fillColor[:])
			}
			off += 4
		}
	})
	return out
}

// GrayFromNRGBA converts img to a 1-byte-per-pixel raster.MemDevice using
// Rec.709 luminance weights, rounded to the nearest byte. This is the
// reference device watershedGroup reads its seed value raster from
// (spec.md §4.1 fillContiguousGroup, colorspace.Gray8).
func GrayFromNRGBA(img *image.NRGBA) *raster.MemDevice {
	b := img.Bounds()
	dev := raster.NewMemDevice(1, int32(b.Min.X), int32(b.Min.Y))
	acc := dev.WriteAccessor()
	eachTileRow(b, int32(b.Min.X), int32(b.Min.Y), func(rowRect raster.Rect, y int32) {
		acc.Bind(dev, rowRect)
		acc.SetRow(0)
		off := img.PixOffset(int(rowRect.MinX), int(y))
		for x := rowRect.MinX; x < rowRect.MaxX; x++ {
			r, g, bl := img.Pix[off], img.Pix[off+1], img.Pix[off+2]
			lum := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(bl)
			acc.SetPixel(x-rowRect.MinX, []byte{clampByte(lum)})
			off += 4
		}
	})
	return dev
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v + 0.5)
}

// NewGroupDevice allocates a 4-byte-per-pixel device over bounds, the
// layout scanfill.GroupSplitPolicy stamps a little-endian uint32 group
// index into.
func NewGroupDevice(bounds image.Rectangle) *raster.MemDevice {
	return raster.NewMemDevice(4, int32(bounds.Min.X), int32(bounds.Min.Y))
}

// GroupMapToNRGBA renders a group map as a preview image: untouched
// pixels (group index 0, never claimed) are black, claimed pixels are
// white. Distinguishing between several groups' indices is a job for the
// caller reading the raw device directly; this is only a single-fill
// preview.
func GroupMapToNRGBA(groupMap raster.Device, bounds image.Rectangle) *image.NRGBA {
	out := image.NewNRGBA(bounds)
	acc := groupMap.ReadAccessor()
	ox, oy := groupMap.Offset()
	eachTileRow(bounds, ox, oy, func(rowRect raster.Rect, y int32) {
		acc.Bind(groupMap, rowRect)
		acc.SetRow(0)
		off := out.PixOffset(int(rowRect.MinX), int(y))
		for x := rowRect.MinX; x < rowRect.MaxX; x++ {
			claimed := binary.LittleEndian.Uint32(acc.Pixel(x-rowRect.MinX)) != 0
			v := byte(0)
			if claimed {
				v = 255
			}
			out.Pix[off+0], out.Pix[off+1], out.Pix[off+2], out.Pix[off+3] = v, v, v, 255
			off += 4
		}
	})
	return out
}
