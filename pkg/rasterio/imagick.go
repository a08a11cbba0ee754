package rasterio

import (
	"fmt"
	"image"
	"sync"

	"github.com/nordlicht/tilefill/pkg/raster"
	"gopkg.in/gographics/imagick.v3/imagick"
)

// imagickOnce guards imagick.Initialize, which the library requires be
// called exactly once per process before any MagickWand is created.
var imagickOnce sync.Once

func ensureImagick() {
	imagickOnce.Do(imagick.Initialize)
}

// LoadDevice decodes the image at path — in whatever format ImageMagick's
// delegate libraries support (PNG, JPEG, TIFF, PSD layered documents,
// raw camera formats, and so on) — into a 4-byte RGBA raster.MemDevice,
// giving the tile-parallel fill engine a real-world ingestion path beyond
// the stdlib-only image.NRGBA bridge in nrgba.go.
func LoadDevice(path string) (dev *raster.MemDevice, bounds image.Rectangle, err error) {
	ensureImagick()

	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	if err := mw.ReadImage(path); err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("rasterio: reading %s: %w", path, err)
	}

	width := int(mw.GetImageWidth())
	height := int(mw.GetImageHeight())
	bounds = image.Rect(0, 0, width, height)

	dev = raster.NewMemDevice(4, 0, 0)
	acc := dev.WriteAccessor()

	eachTileRow(bounds, 0, 0, func(rowRect raster.Rect, y int32) {
		cols := uint(rowRect.MaxX - rowRect.MinX)
		raw, pixErr := mw.ExportImagePixels(int(rowRect.MinX), int(y), cols, 1, "RGBA", imagick.PIXEL_CHAR)
		if pixErr != nil {
			err = fmt.Errorf("rasterio: exporting row %d of %s: %w", y, path, pixErr)
			return
		}
		row, ok := raw.([]byte)
		if !ok || len(row) < int(cols)*4 {
			err = fmt.Errorf("rasterio: unexpected pixel buffer shape for %s", path)
			return
		}
		acc.Bind(dev, rowRect)
		acc.SetRow(0)
		for i := int32(0); i < int32(cols); i++ {
			acc.SetPixel(i, row[i*4:i*4+4])
		}
	})
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	return dev, bounds, nil
}

// SaveDevice encodes the RGBA contents of dev over bounds to path, letting
// ImageMagick pick the codec from the file extension.
func SaveDevice(dev raster.Device, bounds image.Rectangle, path string) error {
	ensureImagick()

	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	width := uint(bounds.Dx())
	height := uint(bounds.Dy())
	if err := mw.NewImage(width, height, imagick.NewPixelWand()); err != nil {
		return fmt.Errorf("rasterio: allocating canvas for %s: %w", path, err)
	}
	if err := mw.SetImageFormat(formatFromPath(path)); err != nil {
		return fmt.Errorf("rasterio: setting format for %s: %w", path, err)
	}

	acc := dev.ReadAccessor()
	ox, oy := dev.Offset()
	var err error
	eachTileRow(bounds, ox, oy, func(rowRect raster.Rect, y int32) {
		cols := int32(rowRect.MaxX - rowRect.MinX)
		row := make([]byte, cols*4)
		acc.Bind(dev, rowRect)
		acc.SetRow(0)
		for i := int32(0); i < cols; i++ {
			copy(row[i*4:i*4+4], acc.Pixel(i))
		}
		relY := int(y) - bounds.Min.Y
		relX := int(rowRect.MinX) - bounds.Min.X
		if impErr := mw.ImportImagePixels(relX, relY, uint(cols), 1, "RGBA", imagick.PIXEL_CHAR, row); impErr != nil {
			err = fmt.Errorf("rasterio: importing row %d into canvas for %s: %w", y, path, impErr)
		}
	})
	if err != nil {
		return err
	}

	if err := mw.WriteImage(path); err != nil {
		return fmt.Errorf("rasterio: writing %s: %w", path, err)
	}
	return nil
}

// formatFromPath maps a handful of common extensions to ImageMagick format
// names; ImageMagick falls back to content sniffing for anything else when
// reading, and defaults to PNG when writing an unrecognized extension.
func formatFromPath(path string) string {
	switch ext := lowerExt(path); ext {
	case "jpg", "jpeg":
		return "JPEG"
	case "tif", "tiff":
		return "TIFF"
	case "bmp":
		return "BMP"
	case "webp":
		return "WEBP"
	default:
		return "PNG"
	}
}

func lowerExt(path string) string {
	i := len(path) - 1
	for i >= 0 && path[i] != '.' && path[i] != '/' {
		i--
	}
	if i < 0 || path[i] != '.' {
		return ""
	}
	ext := path[i+1:]
	out := make([]byte, len(ext))
	for j := 0; j < len(ext); j++ {
		c := ext[j]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[j] = c
	}
	return string(out)
}
