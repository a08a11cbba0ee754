package raster

import "testing"

func TestTileIDAtNegativeCoordinates(t *testing.T) {
	cases := []struct {
		x, y, offsetX, offsetY int32
		want                   TileID
	}{
		{0, 0, 0, 0, TileID{0, 0}},
		{63, 63, 0, 0, TileID{0, 0}},
		{64, 0, 0, 0, TileID{1, 0}},
		{-1, 0, 0, 0, TileID{-1, 0}},
		{-64, 0, 0, 0, TileID{-1, 0}},
		{-65, 0, 0, 0, TileID{-2, 0}},
		{0, 0, 32, 0, TileID{-1, 0}}, // offset shifts the grid, not the pixel
		{32, 0, 32, 0, TileID{0, 0}},
	}
	for _, c := range cases {
		got := TileIDAt(c.x, c.y, c.offsetX, c.offsetY)
		if got != c.want {
			t.Errorf("TileIDAt(%d,%d,%d,%d) = %+v, want %+v", c.x, c.y, c.offsetX, c.offsetY, got, c.want)
		}
	}
}

func TestTileRectRoundTrip(t *testing.T) {
	id := TileID{TX: -2, TY: 3}
	r := TileRect(id, 10, -5)
	if !r.Contains(r.MinX, r.MinY) {
		t.Fatalf("tile rect %+v does not contain its own min corner", r)
	}
	if got := TileIDAt(r.MinX, r.MinY, 10, -5); got != id {
		t.Errorf("TileIDAt(rect.Min) = %+v, want %+v", got, id)
	}
	if got := TileIDAt(r.MaxX-1, r.MaxY-1, 10, -5); got != id {
		t.Errorf("TileIDAt(rect.Max-1) = %+v, want %+v", got, id)
	}
	if r.MaxX-r.MinX != TileSize || r.MaxY-r.MinY != TileSize {
		t.Errorf("tile rect %+v is not TileSize square", r)
	}
}

func TestRectIntersectEmpty(t *testing.T) {
	a := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	b := Rect{MinX: 20, MinY: 20, MaxX: 30, MaxY: 30}
	got := a.Intersect(b)
	if !got.Empty() {
		t.Errorf("disjoint rects intersected to %+v, want empty", got)
	}
}

func TestRectIntersectOverlap(t *testing.T) {
	a := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	b := Rect{MinX: 5, MinY: 5, MaxX: 15, MaxY: 15}
	got := a.Intersect(b)
	want := Rect{MinX: 5, MinY: 5, MaxX: 10, MaxY: 10}
	if got != want {
		t.Errorf("Intersect = %+v, want %+v", got, want)
	}
}

func TestAlignedSameOffset(t *testing.T) {
	a := NewMemDevice(1, 0, 0)
	b := NewMemDevice(4, 64, 128)
	if !Aligned(a, b) {
		t.Error("devices offset by whole tile multiples should be Aligned")
	}
}

func TestAlignedDifferentOffset(t *testing.T) {
	a := NewMemDevice(1, 0, 0)
	b := NewMemDevice(1, 32, 0)
	if Aligned(a, b) {
		t.Error("devices offset by a half tile should not be Aligned")
	}
}

func TestMemDeviceReadsZeroBeforeWrite(t *testing.T) {
	dev := NewMemDevice(4, 0, 0)
	acc := dev.ReadAccessor()
	acc.Bind(dev, Rect{MinX: 0, MinY: 0, MaxX: 64, MaxY: 64})
	acc.SetRow(0)
	px := acc.Pixel(0)
	for i, b := range px {
		if b != 0 {
			t.Fatalf("untouched pixel byte %d = %d, want 0", i, b)
		}
	}
}

func TestMemDeviceWriteReadRoundTrip(t *testing.T) {
	dev := NewMemDevice(4, 0, 0)
	w := dev.WriteAccessor()
	w.Bind(dev, Rect{MinX: 0, MinY: 0, MaxX: 64, MaxY: 64})
	w.SetRow(10)
	w.SetPixel(20, []byte{1, 2, 3, 4})

	r := dev.ReadAccessor()
	r.Bind(dev, Rect{MinX: 0, MinY: 0, MaxX: 64, MaxY: 64})
	r.SetRow(10)
	got := r.Pixel(20)
	want := []byte{1, 2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("round-tripped pixel = %v, want %v", got, want)
		}
	}
}

func TestMemDeviceTilesAreIndependent(t *testing.T) {
	dev := NewMemDevice(1, 0, 0)
	w := dev.WriteAccessor()
	w.Bind(dev, Rect{MinX: 0, MinY: 0, MaxX: 64, MaxY: 64})
	w.SetRow(0)
	w.SetPixel(0, []byte{9})

	// A neighboring, never-written tile must still read as all zero.
	r := dev.ReadAccessor()
	r.Bind(dev, Rect{MinX: 64, MinY: 0, MaxX: 128, MaxY: 64})
	r.SetRow(0)
	if got := r.Pixel(0)[0]; got != 0 {
		t.Errorf("neighboring untouched tile read %d, want 0", got)
	}
}

func TestNewMemDeviceLikeCopiesShape(t *testing.T) {
	src := NewMemDevice(4, 12, -7)
	like := NewMemDeviceLike(src)
	if like.PixelBytes() != src.PixelBytes() {
		t.Errorf("PixelBytes = %d, want %d", like.PixelBytes(), src.PixelBytes())
	}
	lx, ly := like.Offset()
	sx, sy := src.Offset()
	if lx != sx || ly != sy {
		t.Errorf("Offset = (%d,%d), want (%d,%d)", lx, ly, sx, sy)
	}
}

func TestMisalignedQuadrantWriteReadRoundTrip(t *testing.T) {
	dev := NewMemDevice(1, 32, 32)
	m := NewMisaligned(dev, true)
	rect := Rect{MinX: 0, MinY: 0, MaxX: 64, MaxY: 64}
	m.Bind(dev, rect)

	for _, p := range [][2]int32{{0, 0}, {63, 0}, {0, 63}, {63, 63}} {
		m.SetRow(p[1])
		m.SetPixel(p[0], []byte{byte(p[0]+p[1]) + 1})
	}

	m2 := NewMisaligned(dev, false)
	m2.Bind(dev, rect)
	for _, p := range [][2]int32{{0, 0}, {63, 0}, {0, 63}, {63, 63}} {
		m2.SetRow(p[1])
		want := byte(p[0]+p[1]) + 1
		if got := m2.Pixel(p[0])[0]; got != want {
			t.Errorf("pixel (%d,%d) = %d, want %d", p[0], p[1], got, want)
		}
	}
}

func TestNewTargetPicksAlignedOrMisaligned(t *testing.T) {
	ref := NewMemDevice(1, 0, 0)
	alignedTarget := NewMemDevice(1, 64, 0)
	misalignedTarget := NewMemDevice(1, 32, 0)

	if _, ok := NewTarget(ref, alignedTarget, true).(*Misaligned); ok {
		t.Error("aligned devices should not produce a Misaligned accessor")
	}
	if _, ok := NewTarget(ref, misalignedTarget, true).(*Misaligned); !ok {
		t.Error("misaligned devices should produce a Misaligned accessor")
	}
}
