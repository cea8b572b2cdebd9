package nav

import (
	"math"

	"shopnav/server/internal/layout"
)

// Target describes a route destination: either a shelf slot (BayID, optional
// ShelfID, with the product's world position as the desired-point hint) or a
// bare point on a floor when BayID is empty.
type Target struct {
	BayID   string
	ShelfID string
	Floor   int
	Point   Vec
}

// FindPath computes the walkable route from start to the target. It is a pure
// function of its inputs: grids are rebuilt per call and no state survives the
// return. An empty result means no route exists; callers degrade (for example
// to a straight fallback segment) instead of treating it as an error.
func FindPath(store *layout.Store, start PathNode, target Target) []PathNode {
	if store == nil {
		return nil
	}
	site := store.Normalized()
	startPoint := start.Point()

	endFloor := target.Floor
	var bay layout.Bay
	toShelf := false
	if target.BayID != "" {
		ref, ok := site.FindBay(target.BayID)
		if !ok {
			return nil
		}
		bay = ref.Bay
		endFloor = ref.Floor
		toShelf = true
	}

	if start.Floor == endFloor {
		if toShelf {
			return shelfLeg(&site, endFloor, startPoint, bay, target)
		}
		return pointLeg(&site, endFloor, startPoint, target.Point)
	}

	// Cross-floor trips transfer through the elevator nearest the start.
	elevator, ok := nearestElevator(&site, startPoint)
	if !ok {
		return nil
	}
	leg1 := pointLeg(&site, start.Floor, startPoint, elevator)
	if len(leg1) == 0 {
		return nil
	}
	var leg2 []PathNode
	if toShelf {
		leg2 = shelfLeg(&site, endFloor, elevator, bay, target)
	} else {
		leg2 = pointLeg(&site, endFloor, elevator, target.Point)
	}
	if len(leg2) == 0 {
		return nil
	}
	return append(leg1, leg2...)
}

// shelfLeg runs the full engine pipeline for one floor segment ending at a
// shelf face: approach selection, rasterization with the endpoint exemption,
// goal completion, search and post-processing.
func shelfLeg(site *layout.Store, floor int, start Vec, bay layout.Bay, target Target) []PathNode {
	app := SelectApproach(bay, target.ShelfID, target.Point)
	plan := site.FloorPlan(floor)
	grid := Rasterize(plan, RasterOptions{
		Hint:          &app.Point,
		TargetBayID:   bay.ID,
		TargetShelfID: app.Shelf.ID,
	})
	goal := ResolveGoal(grid, app)
	return runLeg(grid, start, goal.Endpoint, goal.Cell, floor)
}

// pointLeg routes to a bare position (elevator, entrance, checkout) on one
// floor.
func pointLeg(site *layout.Store, floor int, start, end Vec) []PathNode {
	plan := site.FloorPlan(floor)
	grid := Rasterize(plan, RasterOptions{Hint: &end})
	goalCell := grid.Locate(end)
	grid.ResetCost(goalCell, 1)
	return runLeg(grid, start, end, goalCell, floor)
}

func runLeg(grid *Grid, start, endpoint Vec, goal Cell, floor int) []PathNode {
	startCell := grid.Locate(start)
	grid.ForceOpen(startCell, 1)

	cells := Search(grid, startCell, goal)
	if len(cells) == 0 {
		return nil
	}

	points := make([]Vec, 0, len(cells)+1)
	for _, c := range cells {
		points = append(points, grid.CellCenter(c))
	}
	points[0] = start
	if len(points) == 1 {
		points = append(points, endpoint)
	} else {
		points[len(points)-1] = endpoint
	}

	points = PostProcess(grid, points)

	path := make([]PathNode, 0, len(points))
	for _, p := range points {
		path = append(path, node(p, floor))
	}
	return path
}

func nearestElevator(site *layout.Store, from Vec) (Vec, bool) {
	best := Vec{}
	bestDist := math.MaxFloat64
	found := false
	for _, e := range site.Elevators {
		p := Vec{X: e.X, Y: e.Z}
		if d := dist(p, from); d < bestDist {
			bestDist = d
			best = p
			found = true
		}
	}
	return best, found
}
