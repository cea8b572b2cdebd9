package nav

import (
	"gonum.org/v1/gonum/spatial/r2"

	"shopnav/server/internal/layout"
)

const (
	// approachOffset pushes the render endpoint off the physical face line
	// by the walking clearance plus a small epsilon.
	approachOffset = 0.8

	goalMarchStep  = 0.5
	goalMarchLimit = 12
)

// Approach is the face-selection half of goal resolution. It is computed from
// layout geometry alone, before rasterization, because the rasterizer needs
// the chosen endpoint as its exemption hint.
type Approach struct {
	Face   layout.Face
	Point  Vec
	Shelf  layout.ShelfUnit
	normal Vec
}

// GoalResolution is the outcome of resolving a shelf target: the search-safe
// grid cell plus the exact geometric endpoint the rendered path terminates at.
// Degraded marks the best-effort fallback when no walkable cell was found
// while marching outward; searches against it are expected to fail and
// propagate emptiness.
type GoalResolution struct {
	Cell     Cell
	Endpoint Vec
	Face     layout.Face
	Degraded bool
}

type candidate struct {
	face   layout.Face
	point  Vec
	normal Vec
}

// SelectApproach picks the face of the target shelf a shopper should walk up
// to. When shelfID is empty the slot nearest the desired point is used. Open
// faces whose approach point lands in aisle space outside the bay's outer
// rectangle qualify, so the search is not forced back across the penalized bay
// floor; among qualifying faces the enumeration order front, back, right, left
// decides (arbitrary but kept for route compatibility). When no face
// qualifies, a fixed precedence based on the slot's aspect applies.
func SelectApproach(bay layout.Bay, shelfID string, desired Vec) Approach {
	shelf, ok := findSlot(bay, shelfID, desired)
	if !ok {
		shelf = layout.ShelfUnit{}
	}
	slot := bay.SlotRect(shelf)
	foot := bay.Footprint()

	candidates := approachCandidates(slot, desired)
	chosen, found := pickFace(candidates, shelf, foot)
	if !found {
		chosen = fallbackFace(candidates, shelf, slot)
	}
	return Approach{Face: chosen.face, Point: chosen.point, Shelf: shelf, normal: chosen.normal}
}

// ResolveGoal completes an approach against the rasterized grid: marching
// outward along the face normal in fixed steps until a walkable cell is found.
// On success the cost around the goal cell is reset to 1 so the search is
// never trapped by the bay-floor penalty at its own destination.
func ResolveGoal(g *Grid, app Approach) GoalResolution {
	res := GoalResolution{Endpoint: app.Point, Face: app.Face}
	res.Cell, res.Degraded = marchToWalkable(g, app.Point, app.normal)
	if !res.Degraded {
		g.ResetCost(res.Cell, 1)
	}
	return res
}

func findSlot(bay layout.Bay, shelfID string, desired Vec) (layout.ShelfUnit, bool) {
	if shelfID != "" {
		for _, shelf := range bay.Shelves {
			if shelf.ID == shelfID {
				return shelf, true
			}
		}
	}
	return bay.NearestSlot(desired.X, desired.Y)
}

func approachCandidates(slot layout.Rect, desired Vec) []candidate {
	clampX := clampf(desired.X, slot.MinX, slot.MaxX)
	clampZ := clampf(desired.Y, slot.MinZ, slot.MaxZ)
	return []candidate{
		{face: layout.FaceFront, point: Vec{X: clampX, Y: slot.MaxZ + approachOffset}, normal: Vec{Y: 1}},
		{face: layout.FaceBack, point: Vec{X: clampX, Y: slot.MinZ - approachOffset}, normal: Vec{Y: -1}},
		{face: layout.FaceRight, point: Vec{X: slot.MaxX + approachOffset, Y: clampZ}, normal: Vec{X: 1}},
		{face: layout.FaceLeft, point: Vec{X: slot.MinX - approachOffset, Y: clampZ}, normal: Vec{X: -1}},
	}
}

func pickFace(candidates []candidate, shelf layout.ShelfUnit, foot layout.Rect) (candidate, bool) {
	for _, cand := range candidates {
		if shelf.Closed(cand.face) {
			continue
		}
		if foot.Contains(cand.point.X, cand.point.Y) {
			continue
		}
		return cand, true
	}
	return candidate{}, false
}

// fallbackFace applies the fixed precedence when no open face lands in aisle
// space: wide slots try front, back, right, left; narrow slots right, left,
// front, back. A fully closed shelf still yields its first precedence face so
// the degraded chain stays intact.
func fallbackFace(candidates []candidate, shelf layout.ShelfUnit, slot layout.Rect) candidate {
	wide := (slot.MaxX - slot.MinX) > (slot.MaxZ - slot.MinZ)
	order := []layout.Face{layout.FaceRight, layout.FaceLeft, layout.FaceFront, layout.FaceBack}
	if wide {
		order = []layout.Face{layout.FaceFront, layout.FaceBack, layout.FaceRight, layout.FaceLeft}
	}
	byFace := make(map[layout.Face]candidate, len(candidates))
	for _, cand := range candidates {
		byFace[cand.face] = cand
	}
	for _, face := range order {
		if !shelf.Closed(face) {
			return byFace[face]
		}
	}
	return byFace[order[0]]
}

// marchToWalkable steps outward from the approach point along the face normal
// until it lands on a walkable cell. When the bounded march exhausts, the last
// sampled cell is returned as a degraded best effort.
func marchToWalkable(g *Grid, point Vec, normal Vec) (Cell, bool) {
	cell := g.Locate(point)
	for step := 0; step <= goalMarchLimit; step++ {
		sample := r2.Add(point, r2.Scale(float64(step)*goalMarchStep, normal))
		cell = g.Locate(sample)
		if g.Walkable(cell.Col, cell.Row) {
			return cell, false
		}
	}
	return cell, true
}
