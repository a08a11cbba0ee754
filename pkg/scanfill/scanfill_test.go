package scanfill

import (
	"testing"

	"github.com/nordlicht/tilefill/pkg/colorspace"
	"github.com/nordlicht/tilefill/pkg/jobqueue"
	"github.com/nordlicht/tilefill/pkg/raster"
)

// grayDevice stamps value into every pixel of a freshly created 1-byte
// device over [0,w)x[0,h); tests then place "obstacle" pixels with
// setPixel.
func grayDevice(w, h int32, value byte) *raster.MemDevice {
	dev := raster.NewMemDevice(1, 0, 0)
	acc := dev.WriteAccessor()
	for y := int32(0); y < h; y++ {
		tileY := raster.TileIDAt(0, y, 0, 0).TY
		for x := int32(0); x < w; {
			tile := raster.TileID{TX: raster.TileIDAt(x, y, 0, 0).TX, TY: tileY}
			rect := raster.TileRect(tile, 0, 0)
			end := rect.MaxX
			if end > w {
				end = w
			}
			acc.Bind(dev, raster.Rect{MinX: x, MinY: y, MaxX: end, MaxY: y + 1})
			acc.SetRow(0)
			for i := x; i < end; i++ {
				acc.SetPixel(i-x, []byte{value})
			}
			x = end
		}
	}
	return dev
}

func getPixel(dev raster.Device, x, y int32) byte {
	ox, oy := dev.Offset()
	tile := raster.TileIDAt(x, y, ox, oy)
	rect := raster.TileRect(tile, ox, oy)
	acc := dev.ReadAccessor()
	acc.Bind(dev, rect)
	acc.SetRow(y - rect.MinY)
	return acc.Pixel(x - rect.MinX)[0]
}

func setPixel(dev raster.Device, x, y int32, v byte) {
	ox, oy := dev.Offset()
	tile := raster.TileIDAt(x, y, ox, oy)
	rect := raster.TileRect(tile, ox, oy)
	acc := dev.WriteAccessor()
	acc.Bind(dev, rect)
	acc.SetRow(y - rect.MinY)
	acc.SetPixel(x-rect.MinX, []byte{v})
}

func fullRect(w, h int32) raster.Rect {
	return raster.Rect{MinX: 0, MinY: 0, MaxX: w, MaxY: h}
}

// TestFillRectangularRegion is spec.md §8's simplest scenario: a uniform
// field bounded by a differently-valued border, filled from a seed well
// inside it. Everything fits in a single tile (8x8 against TileSize 64).
func TestFillRectangularRegion(t *testing.T) {
	dev := grayDevice(8, 8, 10)
	for x := int32(0); x < 8; x++ {
		setPixel(dev, x, 0, 200)
		setPixel(dev, x, 7, 200)
	}
	for y := int32(0); y < 8; y++ {
		setPixel(dev, 0, y, 200)
		setPixel(dev, 7, y, 200)
	}

	f := New(dev, colorspace.Gray8{}, Point{X: 4, Y: 4}, fullRect(8, 8), jobqueue.NewLocal())
	f.SetThreshold(0)
	f.Fill([]byte{99})

	for y := int32(1); y < 7; y++ {
		for x := int32(1); x < 7; x++ {
			if got := getPixel(dev, x, y); got != 99 {
				t.Errorf("interior pixel (%d,%d) = %d, want 99", x, y, got)
			}
		}
	}
	for x := int32(0); x < 8; x++ {
		if got := getPixel(dev, x, 0); got != 200 {
			t.Errorf("border pixel (%d,0) = %d, want untouched 200", x, got)
		}
	}
}

// TestFillCrossesTileBoundary is a direct regression test for the driver's
// BeginProcessing omission: a uniform region two tiles wide only fills
// completely if the second round's tile job actually binds its working
// rectangle before the kernel reads/writes through it.
func TestFillCrossesTileBoundary(t *testing.T) {
	w, h := raster.TileSize*2, raster.TileSize
	dev := grayDevice(w, h, 5)

	f := New(dev, colorspace.Gray8{}, Point{X: 0, Y: 0}, fullRect(w, h), jobqueue.NewLocal())
	f.SetThreshold(0)
	f.Fill([]byte{255})

	for y := int32(0); y < h; y += 7 {
		for x := int32(0); x < w; x += 7 {
			if got := getPixel(dev, x, y); got != 255 {
				t.Fatalf("pixel (%d,%d) = %d, want 255 (fill did not cross tile boundary)", x, y, got)
			}
		}
	}
	// Spot-check the far corner, deep in the second tile.
	if got := getPixel(dev, w-1, h-1); got != 255 {
		t.Fatalf("far corner (%d,%d) = %d, want 255", w-1, h-1, got)
	}
}

// TestFillUntilColor checks that a boundary color, not the seed color,
// stops the fill, and that pixels matching the boundary are left alone.
func TestFillUntilColor(t *testing.T) {
	dev := grayDevice(10, 1, 1)
	setPixel(dev, 0, 0, 50)
	setPixel(dev, 9, 0, 50)

	f := New(dev, colorspace.Gray8{}, Point{X: 5, Y: 0}, fullRect(10, 1), jobqueue.NewLocal())
	f.SetThreshold(0)
	f.FillUntilColor([]byte{7}, []byte{50})

	for x := int32(1); x < 9; x++ {
		if got := getPixel(dev, x, 0); got != 7 {
			t.Errorf("interior pixel %d = %d, want 7", x, got)
		}
	}
	if got := getPixel(dev, 0, 0); got != 50 {
		t.Errorf("boundary pixel (0,0) = %d, want untouched 50", got)
	}
	if got := getPixel(dev, 9, 0); got != 50 {
		t.Errorf("boundary pixel (9,0) = %d, want untouched 50", got)
	}
	if got := getPixel(dev, 5, 0); got != 7 {
		t.Errorf("seed pixel (5,0) = %d, want 7", got)
	}
}

// TestFillExternalMisaligned writes into an external device whose tile
// grid is shifted relative to the reference, exercising raster.Misaligned.
func TestFillExternalMisaligned(t *testing.T) {
	w, h := raster.TileSize, raster.TileSize
	ref := grayDevice(w, h, 3)
	ext := raster.NewMemDevice(1, raster.TileSize/2, raster.TileSize/2)

	f := New(ref, colorspace.Gray8{}, Point{X: 0, Y: 0}, fullRect(w, h), jobqueue.NewLocal())
	f.SetThreshold(0)
	f.FillExternal([]byte{42}, ext)

	if got := getPixel(ref, 0, 0); got != 3 {
		t.Errorf("reference pixel mutated by FillExternal: got %d, want untouched 3", got)
	}
	for _, p := range [][2]int32{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}} {
		if got := getPixel(ext, p[0], p[1]); got != 42 {
			t.Errorf("external pixel (%d,%d) = %d, want 42", p[0], p[1], got)
		}
	}
}

// TestFillSelectionHard checks a hard selection mask: fully selected (255)
// inside the matching region, zero outside it.
func TestFillSelectionHard(t *testing.T) {
	dev := grayDevice(6, 6, 1)
	for x := int32(0); x < 6; x++ {
		setPixel(dev, x, 0, 250)
		setPixel(dev, x, 5, 250)
	}

	sel := raster.NewMemDevice(1, 0, 0)
	f := New(dev, colorspace.Gray8{}, Point{X: 3, Y: 3}, fullRect(6, 6), jobqueue.NewLocal())
	f.SetThreshold(0)
	f.SetOpacitySpread(100) // hard edge
	f.FillSelection(sel, nil)

	if got := getPixel(sel, 3, 3); got != 255 {
		t.Errorf("seed opacity = %d, want 255", got)
	}
	if got := getPixel(sel, 0, 0); got != 0 {
		t.Errorf("excluded corner opacity = %d, want 0", got)
	}
	if got := getPixel(dev, 3, 3); got != 1 {
		t.Errorf("FillSelection must not mutate the reference device; got %d", got)
	}
}

// TestFillSelectionSoftBounds verifies a soft selection mask never exceeds
// the hard mask's footprint and stays within 0..255 (spec.md §4.4).
func TestFillSelectionSoftBounds(t *testing.T) {
	dev := grayDevice(20, 1, 0)
	for x := int32(0); x < 20; x++ {
		setPixel(dev, x, 0, byte(x*10))
	}

	sel := raster.NewMemDevice(1, 0, 0)
	f := New(dev, colorspace.Gray8{}, Point{X: 0, Y: 0}, fullRect(20, 1), jobqueue.NewLocal())
	f.SetThreshold(80)
	f.SetOpacitySpread(30)
	f.FillSelection(sel, nil)

	hard := raster.NewMemDevice(1, 0, 0)
	fh := New(dev, colorspace.Gray8{}, Point{X: 0, Y: 0}, fullRect(20, 1), jobqueue.NewLocal())
	fh.SetThreshold(80)
	fh.SetOpacitySpread(100)
	fh.FillSelection(hard, nil)

	if got := getPixel(sel, 0, 0); got != 255 {
		t.Errorf("seed opacity = %d, want 255 (fully selected at distance 0)", got)
	}
	for x := int32(0); x < 20; x++ {
		v := getPixel(sel, x, 0)
		if v > 255 {
			t.Fatalf("opacity %d at x=%d exceeds uint8 range", v, x)
		}
		if v != 0 && getPixel(hard, x, 0) == 0 {
			t.Errorf("soft opacity %d at x=%d lies outside the hard mask", v, x)
		}
	}
}

// TestFillContiguousGroup is spec.md §4.1's watershed-initialization mode:
// the reference is consumed (cleared) as it is claimed, and the claimed
// area is stamped into groupMap with the requested little-endian uint32
// group index.
func TestFillContiguousGroup(t *testing.T) {
	dev := grayDevice(6, 1, 40)
	setPixel(dev, 5, 0, 200) // out of threshold, stops the group at x=4

	group := raster.NewMemDevice(4, 0, 0)
	f := New(dev, colorspace.Gray8{}, Point{X: 0, Y: 0}, fullRect(6, 1), jobqueue.NewLocal())
	f.SetThreshold(0)
	f.FillContiguousGroup(group, 7)

	acc := group.ReadAccessor()
	acc.Bind(group, raster.Rect{MinX: 0, MinY: 0, MaxX: 6, MaxY: 1})
	acc.SetRow(0)
	for x := int32(0); x < 5; x++ {
		px := acc.Pixel(x)
		got := uint32(px[0]) | uint32(px[1])<<8 | uint32(px[2])<<16 | uint32(px[3])<<24
		if got != 7 {
			t.Errorf("group map at x=%d = %d, want 7", x, got)
		}
	}
	px := acc.Pixel(5)
	if px[0] != 0 || px[1] != 0 || px[2] != 0 || px[3] != 0 {
		t.Errorf("group map at x=5 should be untouched (out of threshold)")
	}
	// The reference raster is consumed as it's claimed: claimed pixels read
	// back as 0 so a second watershed seed can't re-claim them.
	for x := int32(0); x < 5; x++ {
		if got := getPixel(dev, x, 0); got != 0 {
			t.Errorf("reference at x=%d = %d, want cleared to 0 after claiming", x, got)
		}
	}
	if got := getPixel(dev, 5, 0); got != 200 {
		t.Errorf("unclaimed reference pixel at x=5 = %d, want untouched 200", got)
	}
}

// TestClearNonZero exercises the clear_non_zero operation's inverted
// selection (HardUntilColor against the all-zero pixel, not HardSimilar).
func TestClearNonZero(t *testing.T) {
	dev := grayDevice(5, 1, 9)
	setPixel(dev, 2, 0, 0) // a zero pixel splits the run

	f := New(dev, colorspace.Gray8{}, Point{X: 0, Y: 0}, fullRect(5, 1), jobqueue.NewLocal())
	f.ClearNonZero()

	for x := int32(0); x < 2; x++ {
		if got := getPixel(dev, x, 0); got != 0 {
			t.Errorf("pixel %d = %d, want cleared to 0", x, got)
		}
	}
	// The zero pixel at x=2 was never selected (it's already zero), so the
	// contiguous run on the far side (x=3,4) is never reached.
	if got := getPixel(dev, 3, 0); got != 9 {
		t.Errorf("unreached pixel 3 = %d, want untouched 9", got)
	}
}

// TestFillIdempotent checks that filling an already-uniform region with its
// own color is a no-op in effect: running Fill twice produces the same
// device contents as running it once.
func TestFillIdempotent(t *testing.T) {
	dev1 := grayDevice(8, 8, 10)
	f1 := New(dev1, colorspace.Gray8{}, Point{X: 4, Y: 4}, fullRect(8, 8), jobqueue.NewLocal())
	f1.SetThreshold(0)
	f1.Fill([]byte{77})

	f1b := New(dev1, colorspace.Gray8{}, Point{X: 4, Y: 4}, fullRect(8, 8), jobqueue.NewLocal())
	f1b.SetThreshold(0)
	f1b.Fill([]byte{77})

	for y := int32(0); y < 8; y++ {
		for x := int32(0); x < 8; x++ {
			if got := getPixel(dev1, x, y); got != 77 {
				t.Errorf("after double fill, (%d,%d) = %d, want 77", x, y, got)
			}
		}
	}
}

// TestNewPanicsOnSeedOutsideWorkingRect confirms the facade treats an
// out-of-bounds seed as a fatal contract violation (spec.md §7), not a
// recoverable error.
func TestNewPanicsOnSeedOutsideWorkingRect(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("New did not panic for a seed outside workingRect")
		}
	}()
	dev := grayDevice(4, 4, 0)
	New(dev, colorspace.Gray8{}, Point{X: 10, Y: 10}, fullRect(4, 4), jobqueue.NewLocal())
}
