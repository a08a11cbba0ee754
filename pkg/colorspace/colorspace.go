// Package colorspace provides the pluggable color-difference collaborator
// the scanfill engine calls into (spec.md §6): a ColorSpace knows how to
// turn two raw pixel byte slices into a 0..255 difference/opacity scalar,
// and nothing else about the device that holds them.
package colorspace

import "math"

// ColorSpace is the narrow contract scanfill's "slow" difference policies
// call through.
type ColorSpace interface {
	// PixelSize is the number of bytes this color space expects per pixel.
	PixelSize() int32
	// Difference returns a 0..255 scalar describing how dissimilar a and
	// b are. Both slices have length PixelSize().
	Difference(a, b []byte) uint8
	// DifferenceWithAlpha additionally factors in b's opacity, per the
	// "color-or-transparent" policy (spec.md §4.4): it must return
	// min(Difference(a, b), alphaFraction(b)*100).
	DifferenceWithAlpha(a, b []byte) uint8
	// Opacity returns b's own alpha/coverage as a 0..255 value (0 =
	// fully transparent).
	Opacity(b []byte) uint8
}

// NRGBA is a 4-byte-per-pixel (R, G, B, A) color space using perceptual
// Lab ΔE distance (srgbToLinear / linearToXyz / xyzToLab / rgbToLab /
// labDeltaE below, the conversion math carried over from the teacher's
// floodfill command) instead of a naive per-channel difference.
type NRGBA struct{}

func (NRGBA) PixelSize() int32 { return 4 }

func srgbToLinear(c uint8) float64 {
	v := float64(c) / 255.0
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func linearToXyz(r, g, b float64) (x, y, z float64) {
	x = 0.4124564*r + 0.3575761*g + 0.1804375*b
	y = 0.2126729*r + 0.7151522*g + 0.0721750*b
	z = 0.0193339*r + 0.1191920*g + 0.9503041*b
	return
}

func xyzToLab(x, y, z float64) (l, a, b float64) {
	xr := x / 0.95047
	yr := y / 1.00000
	zr := z / 1.08883
	f := func(t float64) float64 {
		if t > 0.008856 {
			return math.Pow(t, 1.0/3.0)
		}
		return 7.787037*t + 16.0/116.0
	}
	fx, fy, fz := f(xr), f(yr), f(zr)
	l = 116.0*fy - 16.0
	a = 500.0 * (fx - fy)
	b = 200.0 * (fy - fz)
	return
}

func rgbToLab(r, g, b uint8) (l, a, bb float64) {
	rl := srgbToLinear(r)
	gl := srgbToLinear(g)
	bl := srgbToLinear(b)
	x, y, z := linearToXyz(rl, gl, bl)
	return xyzToLab(x, y, z)
}

// labDeltaE returns the perceptual Lab distance between two sRGB colors.
func labDeltaE(a, b []byte) float64 {
	l1, a1, b1 := rgbToLab(a[0], a[1], a[2])
	l2, a2, b2 := rgbToLab(b[0], b[1], b[2])
	dl, da, db := l1-l2, a1-a2, b1-b2
	return math.Sqrt(dl*dl + da*da + db*db)
}

// maxLabDeltaE is the (generous) upper bound used to rescale ΔE into the
// engine's 0..255 scale; beyond it, pixels are simply "maximally
// different".
const maxLabDeltaE = 100.0

func (NRGBA) Difference(a, b []byte) uint8 {
	d := labDeltaE(a, b) / maxLabDeltaE * 255.0
	if d > 255 {
		return 255
	}
	if d < 0 {
		return 0
	}
	return uint8(d)
}

func (c NRGBA) DifferenceWithAlpha(a, b []byte) uint8 {
	colorDiff := c.Difference(a, b)
	alphaDiff := uint8(uint32(b[3]) * 100 / 255)
	if alphaDiff < colorDiff {
		return alphaDiff
	}
	return colorDiff
}

func (NRGBA) Opacity(b []byte) uint8 { return b[3] }

// Gray8 is a 1-byte-per-pixel color space using plain absolute
// difference; it backs the watershed group-split mode (spec.md §4.1
// fillContiguousGroup), where the reference raster is an 8-bit value
// map rather than a color.
type Gray8 struct{}

func (Gray8) PixelSize() int32 { return 1 }

func (Gray8) Difference(a, b []byte) uint8 {
	d := int(a[0]) - int(b[0])
	if d < 0 {
		d = -d
	}
	return uint8(d)
}

func (g Gray8) DifferenceWithAlpha(a, b []byte) uint8 {
	// Gray8 has no alpha channel; treat every pixel as fully opaque.
	return g.Difference(a, b)
}

func (Gray8) Opacity([]byte) uint8 { return 255 }
