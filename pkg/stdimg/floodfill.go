package stdimg

import (
	"image"
	"image/color"

	"github.com/nordlicht/tilefill/pkg/colorspace"
	"github.com/nordlicht/tilefill/pkg/jobqueue"
	"github.com/nordlicht/tilefill/pkg/raster"
	"github.com/nordlicht/tilefill/pkg/rasterio"
	"github.com/nordlicht/tilefill/pkg/scanfill"
)

// FloodfillPaint flood-fills the connected region touching (x, y) with
// fillColor. fuzz is a Lab delta-E tolerance (0..200) deciding which
// neighboring pixels belong to the region (see fuzzToThreshold). If
// borderColor is non-zero, the region instead grows until it meets a
// pixel similar to borderColor, ignoring the seed's own color. If invert
// is set and no borderColor is given, the result is flipped into "every
// pixel in the image whose color does not match the seed" — a global
// recolor, not a flood fill, since there is no boundary to bound a
// connected region against.
//
// This is a thin wrapper over pkg/scanfill: the tile-parallel scanline
// propagation and Lab difference math it needs both live there already
// (see pkg/colorspace.NRGBA, grounded the same way scanFill is).
func FloodfillPaint(src *image.NRGBA, fillColor color.NRGBA, fuzz float64, borderColor color.NRGBA, x, y int, invert bool) *image.NRGBA {
	if src == nil {
		return nil
	}
	bounds := src.Bounds()
	x = clampInt(x, bounds.Min.X, bounds.Max.X-1)
	y = clampInt(y, bounds.Min.Y, bounds.Max.Y-1)

	useBorder := borderColor != (color.NRGBA{})
	threshold := fuzzToThreshold(fuzz)
	fillBytes := [4]byte{fillColor.R, fillColor.G, fillColor.B, fillColor.A}

	if !useBorder && invert {
		return floodfillGlobalRecolor(src, fillBytes, threshold, x, y)
	}

	dev := rasterio.FromNRGBA(src)
	mask := rasterio.NewMaskDevice(bounds)
	seed := scanfill.Point{X: int32(x), Y: int32(y)}
	workingRect := raster.Rect{MinX: int32(bounds.Min.X), MinY: int32(bounds.Min.Y), MaxX: int32(bounds.Max.X), MaxY: int32(bounds.Max.Y)}
	f := scanfill.New(dev, colorspace.NRGBA{}, seed, workingRect, jobqueue.NewLocal())
	f.SetThreshold(threshold)
	f.SetOpacitySpread(100) // hard edges: floodfillPaint never exposed a soft falloff

	if useBorder {
		border := []byte{borderColor.R, borderColor.G, borderColor.B, borderColor.A}
		f.FillSelectionUntilColor(mask, border, nil)
	} else {
		f.FillSelection(mask, nil)
	}
	return rasterio.CompositeMasked(src, mask, bounds, fillBytes, invert)
}

// floodfillGlobalRecolor handles the !useBorder && invert case: paint
// every pixel whose color is NOT within fuzz of the seed color, without
// regard to connectivity.
func floodfillGlobalRecolor(src *image.NRGBA, fillBytes [4]byte, threshold, x, y int) *image.NRGBA {
	cs := colorspace.NRGBA{}
	start := samplePixelClamped(src, x, y)
	startBytes := []byte{start.R, start.G, start.B, start.A}

	out := image.NewNRGBA(src.Rect)
	copy(out.Pix, src.Pix)
	bounds := src.Bounds()
	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			i := src.PixOffset(px, py)
			pixBytes := src.Pix[i : i+4]
			if int(cs.Difference(startBytes, pixBytes)) > threshold {
				copy(out.Pix[i:i+4], fillBytes[:])
			}
		}
	}
	return out
}
