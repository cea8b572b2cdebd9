package nav

import (
	"math"

	"shopnav/server/internal/layout"
)

// Grid cells are one world unit square; col indexes X, row indexes Z.
const (
	bayFloorCost       = 6.0
	clearanceCells     = 1
	shelfBuffer        = 0.5
	faceStripDepth     = 1.0
	hintExemptRadius   = 2.0
	DefaultAisleMargin = 2.0
)

// Cell addresses one grid square.
type Cell struct {
	Col int
	Row int
}

// Grid pairs the occupancy mask with the traversal cost field for one floor.
// Both are flat row-major arrays; a grid is rebuilt for every query and never
// shared between requests.
type Grid struct {
	cols, rows int
	walkable   []bool
	cost       []float64
}

// NewGrid returns a fully walkable grid of uniform cost.
func NewGrid(cols, rows int) *Grid {
	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 {
		rows = 1
	}
	g := &Grid{
		cols:     cols,
		rows:     rows,
		walkable: make([]bool, cols*rows),
		cost:     make([]float64, cols*rows),
	}
	for i := range g.walkable {
		g.walkable[i] = true
		g.cost[i] = 1
	}
	return g
}

func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

func (g *Grid) InBounds(col, row int) bool {
	return g != nil && col >= 0 && row >= 0 && col < g.cols && row < g.rows
}

func (g *Grid) index(col, row int) int {
	return row*g.cols + col
}

func (g *Grid) Walkable(col, row int) bool {
	if !g.InBounds(col, row) {
		return false
	}
	return g.walkable[g.index(col, row)]
}

// WalkableAt reports walkability for a world position. Out-of-grid positions
// are not walkable.
func (g *Grid) WalkableAt(x, z float64) bool {
	return g.Walkable(int(math.Floor(x)), int(math.Floor(z)))
}

func (g *Grid) Cost(col, row int) float64 {
	if !g.InBounds(col, row) {
		return 1
	}
	return g.cost[g.index(col, row)]
}

func (g *Grid) setWalkable(col, row int, value bool) {
	if g.InBounds(col, row) {
		g.walkable[g.index(col, row)] = value
	}
}

func (g *Grid) setCost(col, row int, value float64) {
	if g.InBounds(col, row) {
		g.cost[g.index(col, row)] = value
	}
}

// Locate maps a world position to its grid cell, clamped to the grid bounds.
func (g *Grid) Locate(p Vec) Cell {
	col := int(math.Floor(clampf(p.X, 0, float64(g.cols)-1)))
	row := int(math.Floor(clampf(p.Y, 0, float64(g.rows)-1)))
	return Cell{Col: col, Row: row}
}

// CellCenter maps a cell back to the world position of its center.
func (g *Grid) CellCenter(c Cell) Vec {
	return Vec{X: float64(c.Col) + 0.5, Y: float64(c.Row) + 0.5}
}

// ForceOpen makes the (2r+1)x(2r+1) neighbourhood around center walkable at
// unit cost. Used for the entrance and resolved goal so rasterization
// artifacts can never strand an endpoint.
func (g *Grid) ForceOpen(center Cell, radius int) {
	for row := center.Row - radius; row <= center.Row+radius; row++ {
		for col := center.Col - radius; col <= center.Col+radius; col++ {
			g.setWalkable(col, row, true)
			g.setCost(col, row, 1)
		}
	}
}

// ResetCost restores unit cost in the neighbourhood around center without
// touching occupancy.
func (g *Grid) ResetCost(center Cell, radius int) {
	for row := center.Row - radius; row <= center.Row+radius; row++ {
		for col := center.Col - radius; col <= center.Col+radius; col++ {
			g.setCost(col, row, 1)
		}
	}
}

// eachCellIn visits every cell whose center lies inside rect, clamped to the
// grid. Malformed rectangles visit nothing.
func (g *Grid) eachCellIn(rect layout.Rect, visit func(col, row int, center Vec)) {
	if !rect.Valid() {
		return
	}
	minCol := int(math.Floor(rect.MinX))
	maxCol := int(math.Ceil(rect.MaxX))
	minRow := int(math.Floor(rect.MinZ))
	maxRow := int(math.Ceil(rect.MaxZ))
	if minCol < 0 {
		minCol = 0
	}
	if minRow < 0 {
		minRow = 0
	}
	if maxCol > g.cols {
		maxCol = g.cols
	}
	if maxRow > g.rows {
		maxRow = g.rows
	}
	for row := minRow; row < maxRow; row++ {
		for col := minCol; col < maxCol; col++ {
			center := Vec{X: float64(col) + 0.5, Y: float64(row) + 0.5}
			if rect.Contains(center.X, center.Y) {
				visit(col, row, center)
			}
		}
	}
}

// RasterOptions parameterize one rasterization pass. Hint marks the resolved
// goal position whose surrounding aisle space must stay open; the target shelf
// is exempt from closed-face strips so it cannot block its own goal.
type RasterOptions struct {
	AisleMargin   float64
	Hint          *Vec
	TargetBayID   string
	TargetShelfID string
}

// Rasterize builds the occupancy and cost grids for a floor plan. Passes are
// applied in order over the same grid so later passes win: shelf interiors
// block, closed-face strips block, aisle margins force open, bay floors get
// the traversal penalty, and finally blocked cells inflate by the clearance
// radius.
func Rasterize(plan layout.FloorPlan, opt RasterOptions) *Grid {
	g := NewGrid(plan.GridWidth, plan.GridDepth)

	margin := opt.AisleMargin
	if margin < 1 {
		margin = DefaultAisleMargin
	}

	// Pass 1: shelf interiors, with the near-goal aisle exemption.
	for _, bay := range plan.Bays {
		for _, shelf := range bay.Shelves {
			slot := bay.SlotRect(shelf)
			if !slot.Valid() {
				continue
			}
			g.eachCellIn(slot.Expand(shelfBuffer), func(col, row int, center Vec) {
				if opt.Hint != nil &&
					dist(center, *opt.Hint) <= hintExemptRadius &&
					!slot.Contains(center.X, center.Y) {
					return
				}
				g.setWalkable(col, row, false)
			})
		}
	}

	// Pass 2: closed-face strips just outside each shelf, skipping the
	// target shelf.
	for _, bay := range plan.Bays {
		for _, shelf := range bay.Shelves {
			if bay.ID == opt.TargetBayID && shelf.ID == opt.TargetShelfID {
				continue
			}
			slot := bay.SlotRect(shelf)
			if !slot.Valid() {
				continue
			}
			for _, face := range []layout.Face{layout.FaceFront, layout.FaceBack, layout.FaceLeft, layout.FaceRight} {
				if !shelf.Closed(face) {
					continue
				}
				g.eachCellIn(faceStrip(slot, face), func(col, row int, _ Vec) {
					g.setWalkable(col, row, false)
				})
			}
		}
	}

	// Pass 3: force-open aisle margins so every bay stays circumnavigable.
	for _, bay := range plan.Bays {
		foot := bay.Footprint()
		if !foot.Valid() {
			continue
		}
		g.eachCellIn(foot.Expand(margin), func(col, row int, center Vec) {
			if foot.Contains(center.X, center.Y) {
				return
			}
			g.setWalkable(col, row, true)
		})
	}

	// Pass 4: bay-floor traversal penalty on cells that stayed walkable.
	for _, bay := range plan.Bays {
		foot := bay.Footprint()
		g.eachCellIn(foot, func(col, row int, _ Vec) {
			if g.walkable[g.index(col, row)] {
				g.setCost(col, row, bayFloorCost)
			}
		})
	}

	// Pass 5: inflate blocked cells by the clearance radius. The hint
	// exemption survives inflation, keeping the resolved goal reachable.
	g.inflate(clearanceCells, opt.Hint)

	return g
}

func faceStrip(slot layout.Rect, face layout.Face) layout.Rect {
	switch face {
	case layout.FaceFront:
		return layout.Rect{MinX: slot.MinX, MinZ: slot.MaxZ, MaxX: slot.MaxX, MaxZ: slot.MaxZ + faceStripDepth}
	case layout.FaceBack:
		return layout.Rect{MinX: slot.MinX, MinZ: slot.MinZ - faceStripDepth, MaxX: slot.MaxX, MaxZ: slot.MinZ}
	case layout.FaceLeft:
		return layout.Rect{MinX: slot.MinX - faceStripDepth, MinZ: slot.MinZ, MaxX: slot.MinX, MaxZ: slot.MaxZ}
	case layout.FaceRight:
		return layout.Rect{MinX: slot.MaxX, MinZ: slot.MinZ, MaxX: slot.MaxX + faceStripDepth, MaxZ: slot.MaxZ}
	}
	return layout.Rect{}
}

func (g *Grid) inflate(radius int, hint *Vec) {
	if radius <= 0 {
		return
	}
	blocked := make([]bool, len(g.walkable))
	for i, open := range g.walkable {
		blocked[i] = !open
	}
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			if !blocked[g.index(col, row)] {
				continue
			}
			for dr := -radius; dr <= radius; dr++ {
				for dc := -radius; dc <= radius; dc++ {
					nc, nr := col+dc, row+dr
					if !g.InBounds(nc, nr) {
						continue
					}
					if hint != nil {
						center := Vec{X: float64(nc) + 0.5, Y: float64(nr) + 0.5}
						if dist(center, *hint) <= hintExemptRadius {
							continue
						}
					}
					g.setWalkable(nc, nr, false)
				}
			}
		}
	}
}
