// Package scanfill implements the tile-parallel scanline flood-fill
// engine: a public Fill facade (facade.go), a round-based driver
// (driver.go) built on the scanline kernel (kernel.go), and the
// difference/selection/tile policies that compose into it
// (difference.go, selection.go, tilepolicy.go).
package scanfill

import "github.com/nordlicht/tilefill/pkg/raster"

// Point is a device-space pixel coordinate.
type Point struct {
	X, Y int32
}

// Span is a run of horizontally adjacent pixels on one row scheduled for
// processing, tagged with the row direction it propagated from
// (spec.md §3).
type Span struct {
	X1, X2 int32 // inclusive column bounds, X1 <= X2
	Y      int32
	Dy     int32 // -1 or +1
}

// Packet is a tile and its pending spans. The engine passes these around
// as plain (TileID, []Span) pairs rather than a named struct, since the
// driver only ever needs a tile's spans keyed by its id — see
// PropagationMap.
type Packet struct {
	Tile  raster.TileID
	Spans []Span
}

// PropagationMap collects the spans produced for each tile during one
// round of kernel processing. Keys are unique; merging two
// PropagationMaps coalesces by appending span slices for shared keys
// (spec.md §3 "Propagation info").
type PropagationMap map[raster.TileID][]Span

// merge folds src into dst in place and returns dst.
func (dst PropagationMap) merge(src PropagationMap) PropagationMap {
	if dst == nil {
		dst = make(PropagationMap, len(src))
	}
	for id, spans := range src {
		dst[id] = append(dst[id], spans...)
	}
	return dst
}
