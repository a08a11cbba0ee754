package stdimg

import "image"

// AutoOrient applies EXIF orientation to a decoded image so that seed
// coordinates passed to scanFill/scanFillSelection/watershedGroup line up
// with what the user sees, not with the sensor's raw pixel grid. orientation
// follows the EXIF spec (1..8); 1 or an out-of-range value is a no-op.
func AutoOrient(img image.Image, orientation int) image.Image {
	if img == nil {
		return nil
	}
	if orientation <= 1 || orientation > 8 {
		return img
	}
	src := ToNRGBA(img)
	switch orientation {
	case 2:
		return flopNRGBA(src)
	case 3:
		return rotate180NRGBA(src)
	case 4:
		return flipNRGBA(src)
	case 5:
		return flopNRGBA(rotate90CWNRGBA(src))
	case 6:
		return rotate90CWNRGBA(src)
	case 7:
		return flopNRGBA(rotate90CCWNRGBA(src))
	case 8:
		return rotate90CCWNRGBA(src)
	default:
		return img
	}
}

func flipNRGBA(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(b)
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			srcIdx := src.PixOffset(x, y)
			dstIdx := out.PixOffset(x, h-1-y)
			copy(out.Pix[dstIdx:dstIdx+4], src.Pix[srcIdx:srcIdx+4])
		}
	}
	return out
}

func flopNRGBA(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(b)
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			srcIdx := src.PixOffset(x, y)
			dstIdx := out.PixOffset(w-1-x, y)
			copy(out.Pix[dstIdx:dstIdx+4], src.Pix[srcIdx:srcIdx+4])
		}
	}
	return out
}

func rotate180NRGBA(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(b)
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			srcIdx := src.PixOffset(x, y)
			dstIdx := out.PixOffset(w-1-x, h-1-y)
			copy(out.Pix[dstIdx:dstIdx+4], src.Pix[srcIdx:srcIdx+4])
		}
	}
	return out
}

func rotate90CWNRGBA(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			srcIdx := src.PixOffset(x, y)
			dstIdx := out.PixOffset(h-1-y, x)
			copy(out.Pix[dstIdx:dstIdx+4], src.Pix[srcIdx:srcIdx+4])
		}
	}
	return out
}

func rotate90CCWNRGBA(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			srcIdx := src.PixOffset(x, y)
			dstIdx := out.PixOffset(y, w-1-x)
			copy(out.Pix[dstIdx:dstIdx+4], src.Pix[srcIdx:srcIdx+4])
		}
	}
	return out
}
