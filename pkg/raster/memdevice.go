package raster

import "sync"

// MemDevice is a simple in-memory tiled raster device. Tiles are
// allocated lazily on first mutable access (the copy-on-write semantics
// spec.md §3 attributes to the external storage engine, reduced to their
// essential property: reading an untouched tile never observes another
// goroutine's not-yet-committed write). Tile directory mutations are
// guarded by a mutex; once a tile's backing slice exists, concurrent
// access to *different* tiles needs no further synchronization, which is
// exactly the guarantee the fill driver relies on (spec.md §5).
type MemDevice struct {
	pixelBytes   int32
	offsetX      int32
	offsetY      int32
	mu           sync.Mutex
	tiles        map[TileID][]byte
	zeroTileTmpl []byte
}

// NewMemDevice creates an empty device (all pixels read as zero bytes)
// with the given pixel width and global offset.
func NewMemDevice(pixelBytes, offsetX, offsetY int32) *MemDevice {
	if pixelBytes <= 0 {
		panic("raster: pixelBytes must be positive")
	}
	return &MemDevice{
		pixelBytes: pixelBytes,
		offsetX:    offsetX,
		offsetY:    offsetY,
		tiles:      make(map[TileID][]byte),
	}
}

// NewMemDeviceLike creates an empty device sharing another device's pixel
// width and offset — the pattern the fill driver uses to allocate the
// mask device (spec.md §4.6 step 1).
func NewMemDeviceLike(d Device) *MemDevice {
	ox, oy := d.Offset()
	return NewMemDevice(d.PixelBytes(), ox, oy)
}

func (d *MemDevice) PixelBytes() int32     { return d.pixelBytes }
func (d *MemDevice) Offset() (int32, int32) { return d.offsetX, d.offsetY }

func (d *MemDevice) tileBytes() int {
	return int(TileSize) * int(TileSize) * int(d.pixelBytes)
}

// tile returns the backing slice for id, allocating it if create is true
// and it doesn't exist yet. A nil return with create=false means "read as
// all zero".
func (d *MemDevice) tile(id TileID, create bool) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.tiles[id]; ok {
		return t
	}
	if !create {
		return nil
	}
	t := make([]byte, d.tileBytes())
	d.tiles[id] = t
	return t
}

// ReadAccessor returns a read-only cursor over d.
func (d *MemDevice) ReadAccessor() Accessor {
	return &memAccessor{dev: d, mutable: false}
}

// WriteAccessor returns a mutable cursor over d.
func (d *MemDevice) WriteAccessor() MutableAccessor {
	return &memAccessor{dev: d, mutable: true}
}

// memAccessor implements both Accessor and MutableAccessor. It is the
// "aligned" case by construction: it is only ever bound to a rectangle
// that lies within one tile of its own device, which the caller
// guarantees (raster.Accessor.Bind's contract). Cross-device alignment
// mismatches are handled one level up, by the Aligned/Misaligned adapters
// in accessor.go.
type memAccessor struct {
	dev     *MemDevice
	mutable bool

	tileID   TileID
	tileData []byte
	stride   int32

	rowBase       int32 // byte offset of the bound rect's MinX within the tile row
	rowOriginY    int32 // bound rect's MinY, relative to the tile's origin
	curRowByteOff int32 // byte offset of the current row within the tile
	pixSize       int32
}

func (a *memAccessor) Bind(dev Device, rect Rect) {
	md, ok := dev.(*MemDevice)
	if !ok {
		panic("raster: memAccessor.Bind called with a non-MemDevice device")
	}
	a.dev = md
	a.pixSize = a.dev.pixelBytes
	a.tileID = TileIDAt(rect.MinX, rect.MinY, a.dev.offsetX, a.dev.offsetY)
	a.tileData = a.dev.tile(a.tileID, a.mutable)
	a.stride = TileSize * a.pixSize
	tileRect := TileRect(a.tileID, a.dev.offsetX, a.dev.offsetY)
	a.rowBase = (rect.MinX - tileRect.MinX) * a.pixSize
	a.rowOriginY = rect.MinY - tileRect.MinY
}

func (a *memAccessor) SetRow(relRow int32) {
	a.curRowByteOff = (a.rowOriginY + relRow) * a.stride
}

func (a *memAccessor) Pixel(relCol int32) []byte {
	if a.tileData == nil {
		// Untouched tile: synthesize a zero pixel. Allocate lazily so
		// read-only scans over sparse devices stay cheap.
		if a.dev.zeroTileTmpl == nil {
			a.dev.zeroTileTmpl = make([]byte, a.pixSize)
		}
		return a.dev.zeroTileTmpl
	}
	off := a.curRowByteOff + a.rowBase + relCol*a.pixSize
	return a.tileData[off : off+a.pixSize]
}

func (a *memAccessor) SetPixel(relCol int32, value []byte) {
	if a.tileData == nil {
		a.tileData = a.dev.tile(a.tileID, true)
	}
	off := a.curRowByteOff + a.rowBase + relCol*a.pixSize
	copy(a.tileData[off:off+a.pixSize], value)
}
