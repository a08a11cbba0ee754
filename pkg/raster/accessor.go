package raster

// NewAligned returns an accessor that assumes rect lies within a single
// tile of dev (grids are aligned, so a reference tile maps onto exactly
// one destination tile). It is a thin pass-through to dev's own
// accessor — the "one tile pointer, pointer arithmetic" case of
// spec.md §4.3.
func NewAligned(dev Device, mutable bool) MutableAccessor {
	if mutable {
		return dev.WriteAccessor()
	}
	// Read-only callers still get a MutableAccessor-shaped value so the
	// facade can use one adapter type regardless of mode; SetPixel is
	// simply never called on it.
	return readOnlyAsMutable{dev.ReadAccessor()}
}

type readOnlyAsMutable struct{ Accessor }

func (readOnlyAsMutable) SetPixel(int32, []byte) {
	panic("raster: SetPixel called on a read-only accessor")
}

// NewTarget returns a MutableAccessor over targetDevice for use alongside
// rectangles defined in refDevice's tile grid: Aligned when the two
// devices' grids share the same modular offset, Misaligned otherwise
// (spec.md §4.3). The choice is made here, once per call (scanfill's tile
// policies call it once per tile job) — never per pixel.
func NewTarget(refDevice, targetDevice Device, mutable bool) MutableAccessor {
	if Aligned(refDevice, targetDevice) {
		return NewAligned(targetDevice, mutable)
	}
	return NewMisaligned(targetDevice, mutable)
}

// NewReadTarget is NewTarget's read-only counterpart.
func NewReadTarget(refDevice, targetDevice Device) Accessor {
	return NewTarget(refDevice, targetDevice, false)
}

// Misaligned is the tile-access adapter used when the destination
// device's tile grid is shifted relative to the rectangle being visited
// (spec.md §4.3). A single reference-tile rectangle can then span up to
// four destination tiles in a 2x2 pattern; Misaligned holds one
// sub-accessor per quadrant and retargets on crossing a quadrant
// boundary. The crossing check is a simple comparison against a
// precomputed split column/row, so it is cheap and predictable — it does
// not turn into a per-pixel branch on tile geometry, only a per-pixel
// comparison against two ints fixed for the whole Bind call.
type Misaligned struct {
	dev     Device
	mutable bool

	splitCol int32 // relCol < splitCol => west quadrants
	splitRow int32 // relRow < splitRow => north quadrants

	quad [4]quadrant // index: (row>=splitRow)*2 + (col>=splitCol) -> NW=0 NE=1 SW=2 SE=3
	row  int32
}

type quadrant struct {
	acc    Accessor
	colOff int32 // quadrant's own column 0 corresponds to this relCol in the parent rect
}

func NewMisaligned(dev Device, mutable bool) *Misaligned {
	return &Misaligned{dev: dev, mutable: mutable}
}

func colsToTileEdge(x, offsetX int32) int32 {
	return TileSize - mod32(x-offsetX, TileSize)
}

func (m *Misaligned) Bind(_ Device, rect Rect) {
	ox, oy := m.dev.Offset()
	width := rect.MaxX - rect.MinX
	height := rect.MaxY - rect.MinY

	m.splitCol = min32(colsToTileEdge(rect.MinX, ox), width)
	m.splitRow = min32(colsToTileEdge(rect.MinY, oy), height)

	subRects := [4]Rect{
		{rect.MinX, rect.MinY, rect.MinX + m.splitCol, rect.MinY + m.splitRow},                 // NW
		{rect.MinX + m.splitCol, rect.MinY, rect.MaxX, rect.MinY + m.splitRow},                  // NE
		{rect.MinX, rect.MinY + m.splitRow, rect.MinX + m.splitCol, rect.MaxY},                  // SW
		{rect.MinX + m.splitCol, rect.MinY + m.splitRow, rect.MaxX, rect.MaxY},                  // SE
	}
	colOffs := [4]int32{0, m.splitCol, 0, m.splitCol}

	for i, sr := range subRects {
		m.quad[i].colOff = colOffs[i]
		if sr.Empty() {
			m.quad[i].acc = nil
			continue
		}
		var a Accessor
		if m.mutable {
			a = m.dev.WriteAccessor()
		} else {
			a = m.dev.ReadAccessor()
		}
		a.Bind(m.dev, sr)
		m.quad[i].acc = a
	}
}

func (m *Misaligned) quadIndex(relCol int32) int {
	idx := 0
	if relCol >= m.splitCol {
		idx |= 1
	}
	if m.row >= m.splitRow {
		idx |= 2
	}
	return idx
}

func (m *Misaligned) SetRow(relRow int32) {
	m.row = relRow
	for i := range m.quad {
		if m.quad[i].acc != nil {
			localRow := relRow
			if i >= 2 {
				localRow = relRow - m.splitRow
			}
			m.quad[i].acc.SetRow(localRow)
		}
	}
}

func (m *Misaligned) Pixel(relCol int32) []byte {
	i := m.quadIndex(relCol)
	q := m.quad[i]
	return q.acc.Pixel(relCol - q.colOff)
}

func (m *Misaligned) SetPixel(relCol int32, value []byte) {
	i := m.quadIndex(relCol)
	q := m.quad[i]
	q.acc.(MutableAccessor).SetPixel(relCol-q.colOff, value)
}
