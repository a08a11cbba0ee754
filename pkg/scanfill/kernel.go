package scanfill

import "github.com/nordlicht/tilefill/pkg/raster"

const opacityTransparent uint8 = 0

// processTile drains a tile-local span stack against policy, expanding
// each span left and right while policy says a pixel is fillable and
// writing through policy as it goes. Spans that would cross into a
// neighboring tile are recorded in the returned PropagationMap instead of
// being followed directly — tile boundaries are the only synchronization
// point between concurrent processTile calls (spec.md §4.2, §5).
//
// The control flow below is a close port of the scanline fill in the
// original distillation: seed spans are a LIFO stack (so a tile explores
// depth-first before yielding to propagation), and the "skip
// non-selectable pixels" inner loop is what lets one scanline fill
// multiple disjoint sub-spans without revisiting pixels policy has
// already ruled out.
func processTile(tileID raster.TileID, seedSpans []Span, policy TilePolicy, workingRect raster.Rect) PropagationMap {
	prop := make(PropagationMap)
	sub := policy.TileSubRect()

	stack := append([]Span(nil), seedSpans...)

	for len(stack) > 0 {
		span := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		policy.SetWorkingRow(span.Y)

		x1 := span.X1
		x2 := span.X1

		// Expand left from the seed column, filling on the way, and
		// find the left extreme of the first sub-span.
		if !policy.IsAlreadySet(span.X1) && policy.IsInsideBoundary(span.X1) {
			opacity := policy.OpacityAt(span.X1)
			if opacity != opacityTransparent {
				x2++
				policy.Write(span.X1, opacity)
				for {
					x := x1 - 1
					if x < workingRect.MinX {
						break
					}
					if x < sub.MinX {
						nb := tileID.Neighbor(-1, 0)
						prop[nb] = append(prop[nb], Span{X1: x, X2: x, Y: span.Y, Dy: 1})
						break
					}
					if policy.IsAlreadySet(x) || !policy.IsInsideBoundary(x) {
						break
					}
					opacity = policy.OpacityAt(x)
					if opacity == opacityTransparent {
						break
					}
					policy.Write(x, opacity)
					x1--
				}
			}
		}

		// Walk right, filling each fillable sub-span and propagating it
		// to the row above/below (or the neighboring tile) before
		// skipping to the next sub-span.
		for {
			for {
				if x2 >= workingRect.MaxX {
					break
				}
				if x2 >= sub.MaxX {
					nb := tileID.Neighbor(1, 0)
					prop[nb] = append(prop[nb], Span{X1: x2, X2: x2, Y: span.Y, Dy: 1})
					break
				}
				if policy.IsAlreadySet(x2) || !policy.IsInsideBoundary(x2) {
					break
				}
				opacity := policy.OpacityAt(x2)
				if opacity == opacityTransparent {
					break
				}
				policy.Write(x2, opacity)
				x2++
			}

			if x2 > x1 {
				spanY1 := span.Y - span.Dy
				spanY2 := span.Y + span.Dy
				if spanY1 >= workingRect.MinY && spanY1 < workingRect.MaxY {
					propagateRow(prop, tileID, sub, x1, x2-1, spanY1, -span.Dy, &stack)
				}
				if spanY2 >= workingRect.MinY && spanY2 < workingRect.MaxY {
					propagateRow(prop, tileID, sub, x1, x2-1, spanY2, span.Dy, &stack)
				}
			}

			x2++
			for x2 <= span.X2 {
				if !policy.IsAlreadySet(x2) || !policy.IsInsideBoundary(x2) {
					break
				}
				if policy.OpacityAt(x2) > opacityTransparent {
					break
				}
				x2++
			}
			x1 = x2
			if x2 > span.X2 {
				break
			}
		}
	}

	return prop
}

// propagateRow hands a filled sub-span to the row above/below it: either
// straight back onto this tile's stack (same tile), or into prop keyed by
// the neighboring tile, depending on whether y still falls within this
// tile's sub-rectangle. dy is the direction the resulting span should
// continue propagating in (the caller picks -span.Dy for the row behind
// the scan and span.Dy for the row ahead of it, matching the original's
// two symmetric propagation sites).
func propagateRow(prop PropagationMap, tileID raster.TileID, sub raster.Rect, x1, x2, y, dy int32, stack *[]Span) {
	switch {
	case y < sub.MinY:
		nb := tileID.Neighbor(0, -1)
		prop[nb] = append(prop[nb], Span{X1: x1, X2: x2, Y: y, Dy: 1})
	case y >= sub.MaxY:
		nb := tileID.Neighbor(0, 1)
		prop[nb] = append(prop[nb], Span{X1: x1, X2: x2, Y: y, Dy: -1})
	default:
		*stack = append(*stack, Span{X1: x1, X2: x2, Y: y, Dy: dy})
	}
}
