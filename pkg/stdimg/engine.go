package stdimg

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nordlicht/tilefill/pkg/colorspace"
	"github.com/nordlicht/tilefill/pkg/jobqueue"
	"github.com/nordlicht/tilefill/pkg/raster"
	"github.com/nordlicht/tilefill/pkg/rasterio"
	"github.com/nordlicht/tilefill/pkg/scanfill"
)

// ApplyCommandStdlib applies one of the commands registered in Commands
// (pkg/stdimg/commands.go) to an image.NRGBA and returns a new image.
func ApplyCommandStdlib(img image.Image, commandName string, args []string) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	src := ToNRGBA(img)
	switch commandName {
	case "floodfillPaint":
		// floodfillPaint fillColor fuzz borderColor x y [invert]
		if len(args) < 5 {
			return nil, fmt.Errorf("floodfillPaint requires at least 5 args: fillColor fuzz borderColor x y [invert]")
		}
		fillStr := args[0]
		fuzzStr := args[1]
		borderStr := args[2]
		xStr := args[3]
		yStr := args[4]
		inv := false
		if len(args) >= 6 && args[5] != "" {
			b, err := strconv.ParseBool(args[5])
			if err != nil {
				return nil, fmt.Errorf("invalid invert flag: %w", err)
			}
			inv = b
		}
		fillCol, err := parseHexColor(fillStr)
		if err != nil {
			return nil, fmt.Errorf("invalid fill color: %w", err)
		}
		borderCol := color.NRGBA{0, 0, 0, 0}
		if borderStr != "" {
			bc, err := parseHexColor(borderStr)
			if err != nil {
				return nil, fmt.Errorf("invalid border color: %w", err)
			}
			borderCol = toNRGBAColor(bc)
		}
		fillColNRGBA := toNRGBAColor(fillCol)
		// fuzz (Lab delta-E). Support percent like "50%" or a bare numeric deltaE.
		fuzz := 0.0
		if len(fuzzStr) > 0 && fuzzStr[len(fuzzStr)-1] == '%' {
			v, err := strconv.ParseFloat(fuzzStr[:len(fuzzStr)-1], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid fuzz percent: %w", err)
			}
			fuzz = v
		} else {
			v, err := strconv.ParseFloat(fuzzStr, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid fuzz: %w", err)
			}
			fuzz = v
		}
		if fuzz < 0 {
			fuzz = 0
		}
		if fuzz > 200 {
			fuzz = 200
		}
		x0, err := strconv.Atoi(xStr)
		if err != nil {
			return nil, fmt.Errorf("invalid x: %w", err)
		}
		y0, err := strconv.Atoi(yStr)
		if err != nil {
			return nil, fmt.Errorf("invalid y: %w", err)
		}
		out := FloodfillPaint(src, fillColNRGBA, fuzz, borderCol, x0, y0, inv)
		return out, nil

	case "identify":
		return nil, nil

	case "strip":
		// No-op for stdlib: re-encoding will drop metadata at save time if this isn't run
		return src, nil

	case "scanFill":
		// scanFill fillColor fuzz x y
		if len(args) != 4 {
			return nil, fmt.Errorf("scanFill requires 4 args: fillColor fuzz x y")
		}
		fillCol, err := parseHexColor(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid fill color: %w", err)
		}
		fillColNRGBA := toNRGBAColor(fillCol)
		threshold, err := parseFuzzThreshold(args[1])
		if err != nil {
			return nil, err
		}
		x0, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("invalid x: %w", err)
		}
		y0, err := strconv.Atoi(args[3])
		if err != nil {
			return nil, fmt.Errorf("invalid y: %w", err)
		}
		bounds := src.Bounds()
		dev := rasterio.FromNRGBA(src)
		seed := scanfill.Point{X: int32(x0), Y: int32(y0)}
		workingRect := raster.Rect{MinX: int32(bounds.Min.X), MinY: int32(bounds.Min.Y), MaxX: int32(bounds.Max.X), MaxY: int32(bounds.Max.Y)}
		f := scanfill.New(dev, colorspace.NRGBA{}, seed, workingRect, jobqueue.NewLocal())
		f.SetThreshold(threshold)
		f.Fill([]byte{fillColNRGBA.R, fillColNRGBA.G, fillColNRGBA.B, fillColNRGBA.A})
		return rasterio.ToNRGBA(dev, bounds), nil

	case "scanFillSelection":
		// scanFillSelection fuzz x y [opacitySpread]
		if len(args) < 3 {
			return nil, fmt.Errorf("scanFillSelection requires at least 3 args: fuzz x y [opacitySpread]")
		}
		threshold, err := parseFuzzThreshold(args[0])
		if err != nil {
			return nil, err
		}
		x0, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid x: %w", err)
		}
		y0, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("invalid y: %w", err)
		}
		spread := 0
		if len(args) >= 4 && args[3] != "" {
			spread, err = strconv.Atoi(args[3])
			if err != nil {
				return nil, fmt.Errorf("invalid opacitySpread: %w", err)
			}
		}
		bounds := src.Bounds()
		dev := rasterio.FromNRGBA(src)
		mask := rasterio.NewMaskDevice(bounds)
		seed := scanfill.Point{X: int32(x0), Y: int32(y0)}
		workingRect := raster.Rect{MinX: int32(bounds.Min.X), MinY: int32(bounds.Min.Y), MaxX: int32(bounds.Max.X), MaxY: int32(bounds.Max.Y)}
		f := scanfill.New(dev, colorspace.NRGBA{}, seed, workingRect, jobqueue.NewLocal())
		f.SetThreshold(threshold)
		f.SetOpacitySpread(spread)
		f.FillSelection(mask, nil)
		return rasterio.MaskToAlpha(mask, bounds), nil

	case "watershedGroup":
		// watershedGroup fuzz x y [groupIndex]
		if len(args) < 3 {
			return nil, fmt.Errorf("watershedGroup requires at least 3 args: fuzz x y [groupIndex]")
		}
		threshold, err := parseFuzzThreshold(args[0])
		if err != nil {
			return nil, err
		}
		x0, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid x: %w", err)
		}
		y0, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("invalid y: %w", err)
		}
		groupIndex := 1
		if len(args) >= 4 && args[3] != "" {
			groupIndex, err = strconv.Atoi(args[3])
			if err != nil {
				return nil, fmt.Errorf("invalid groupIndex: %w", err)
			}
		}
		bounds := src.Bounds()
		dev := rasterio.GrayFromNRGBA(src)
		groupMap := rasterio.NewGroupDevice(bounds)
		seed := scanfill.Point{X: int32(x0), Y: int32(y0)}
		workingRect := raster.Rect{MinX: int32(bounds.Min.X), MinY: int32(bounds.Min.Y), MaxX: int32(bounds.Max.X), MaxY: int32(bounds.Max.Y)}
		f := scanfill.New(dev, colorspace.Gray8{}, seed, workingRect, jobqueue.NewLocal())
		f.SetThreshold(threshold)
		f.FillContiguousGroup(groupMap, uint32(groupIndex))
		return rasterio.GroupMapToNRGBA(groupMap, bounds), nil

	default:
		return nil, fmt.Errorf("unsupported command in stdlib engine: %s", commandName)
	}
}

// parseFuzzThreshold parses a fuzz argument (a bare Lab delta-E/luminance
// number, or a "N%" percentage of it) the same way floodfillPaint does,
// and rescales it into the 0..255 difference scale
// scanfill.Fill.SetThreshold expects (see fuzzToThreshold; spec.md §4.4).
func parseFuzzThreshold(s string) (int, error) {
	fuzz := 0.0
	if len(s) > 0 && s[len(s)-1] == '%' {
		v, err := strconv.ParseFloat(s[:len(s)-1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid fuzz percent: %w", err)
		}
		fuzz = v
	} else {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid fuzz: %w", err)
		}
		fuzz = v
	}
	return fuzzToThreshold(fuzz), nil
}

// fuzzToThreshold rescales a raw Lab delta-E fuzz value (clamped to the
// engine's conventional 0..200 range) into the 0..255 difference scale
// scanfill.Fill.SetThreshold and colorspace.NRGBA.Difference share: like
// that Difference, it maps delta-E 0..100 onto 0..255, so any fuzz of 100
// or more yields 255.
func fuzzToThreshold(fuzz float64) int {
	if fuzz < 0 {
		fuzz = 0
	}
	if fuzz > 200 {
		fuzz = 200
	}
	threshold := int(fuzz / 100.0 * 255.0)
	if threshold > 255 {
		threshold = 255
	}
	return threshold
}

// toNRGBAColor normalizes any color.Color into color.NRGBA.
func toNRGBAColor(c color.Color) color.NRGBA {
	if n, ok := c.(color.NRGBA); ok {
		return n
	}
	r, g, b, a := c.RGBA()
	return color.NRGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}
