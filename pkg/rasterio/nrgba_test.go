package rasterio

import (
	"image"
	"testing"

	"github.com/nordlicht/tilefill/pkg/raster"
)

// checkerboardNRGBA builds a w x h image where pixel (x,y) is
// (x%256, y%256, 255-x%256, 255).
func checkerboardNRGBA(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := img.PixOffset(x, y)
			img.Pix[off+0] = byte(x % 256)
			img.Pix[off+1] = byte(y % 256)
			img.Pix[off+2] = byte(255 - x%256)
			img.Pix[off+3] = 255
		}
	}
	return img
}

func TestFromNRGBAToNRGBARoundTrip(t *testing.T) {
	src := checkerboardNRGBA(5, 5)
	dev := FromNRGBA(src)
	out := ToNRGBA(dev, src.Bounds())
	if len(out.Pix) != len(src.Pix) {
		t.Fatalf("length mismatch: got %d, want %d", len(out.Pix), len(src.Pix))
	}
	for i := range src.Pix {
		if out.Pix[i] != src.Pix[i] {
			t.Fatalf("byte %d = %d, want %d", i, out.Pix[i], src.Pix[i])
		}
	}
}

// TestFromNRGBACrossesTileBoundary exercises eachTileRow's chunking logic
// with an image wider and taller than one raster tile.
func TestFromNRGBACrossesTileBoundary(t *testing.T) {
	w, h := int(raster.TileSize)+10, int(raster.TileSize)+3
	src := checkerboardNRGBA(w, h)
	dev := FromNRGBA(src)
	out := ToNRGBA(dev, src.Bounds())
	for i := range src.Pix {
		if out.Pix[i] != src.Pix[i] {
			t.Fatalf("byte %d = %d, want %d (tile-crossing round trip)", i, out.Pix[i], src.Pix[i])
		}
	}
}

func TestGrayFromNRGBALuminance(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	// Pure white and pure black: luminance should land at the extremes.
	copy(img.Pix[0:4], []byte{255, 255, 255, 255})
	copy(img.Pix[4:8], []byte{0, 0, 0, 255})

	dev := GrayFromNRGBA(img)
	acc := dev.ReadAccessor()
	acc.Bind(dev, raster.Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 1})
	acc.SetRow(0)
	white := acc.Pixel(0)[0]
	black := acc.Pixel(1)[0]
	if white != 255 {
		t.Errorf("white luminance = %d, want 255", white)
	}
	if black != 0 {
		t.Errorf("black luminance = %d, want 0", black)
	}
}

func TestMaskToAlphaReplicatesOpacity(t *testing.T) {
	bounds := image.Rect(0, 0, 2, 1)
	mask := NewMaskDevice(bounds)
	w := mask.WriteAccessor()
	w.Bind(mask, raster.Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 1})
	w.SetRow(0)
	w.SetPixel(0, []byte{0})
	w.SetPixel(1, []byte{200})

	out := MaskToAlpha(mask, bounds)
	if out.Pix[3] != 255 || out.Pix[0] != 0 {
		t.Errorf("transparent mask pixel rendered as %v, want RGB=0 A=255", out.Pix[0:4])
	}
	off := out.PixOffset(1, 0)
	if out.Pix[off] != 200 || out.Pix[off+3] != 255 {
		t.Errorf("mask pixel 200 rendered as %v, want RGB=200 A=255", out.Pix[off:off+4])
	}
}

func TestGroupMapToNRGBADistinguishesClaimed(t *testing.T) {
	bounds := image.Rect(0, 0, 2, 1)
	group := NewGroupDevice(bounds)
	w := group.WriteAccessor()
	w.Bind(group, raster.Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 1})
	w.SetRow(0)
	w.SetPixel(0, []byte{0, 0, 0, 0})
	w.SetPixel(1, []byte{3, 0, 0, 0})

	out := GroupMapToNRGBA(group, bounds)
	if out.Pix[0] != 0 {
		t.Errorf("unclaimed group pixel = %d, want 0", out.Pix[0])
	}
	off := out.PixOffset(1, 0)
	if out.Pix[off] != 255 {
		t.Errorf("claimed group pixel = %d, want 255", out.Pix[off])
	}
}
