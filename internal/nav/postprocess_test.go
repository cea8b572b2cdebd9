package nav

import (
	"math"
	"testing"
)

func TestSimplifyDropsCollinearPoints(t *testing.T) {
	points := []Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}}

	kept := Simplify(points)
	if len(kept) != 3 {
		t.Fatalf("expected 3 points after simplify, got %d: %+v", len(kept), kept)
	}
	if kept[0] != points[0] || kept[len(kept)-1] != points[len(points)-1] {
		t.Fatalf("simplify moved an endpoint: %+v", kept)
	}

	short := []Vec{{X: 0, Y: 0}, {X: 1, Y: 1}}
	if got := Simplify(short); len(got) != 2 {
		t.Fatalf("two-point paths pass through unchanged, got %+v", got)
	}
}

func TestShortcutCollapsesOnOpenGrid(t *testing.T) {
	g := NewGrid(10, 10)
	points := []Vec{{X: 1, Y: 1}, {X: 2, Y: 3}, {X: 3, Y: 1}, {X: 5, Y: 5}}

	cut := Shortcut(g, points)
	if len(cut) != 2 {
		t.Fatalf("open grid zigzag should collapse to its endpoints, got %+v", cut)
	}
	if cut[0] != points[0] || cut[1] != points[3] {
		t.Fatalf("shortcut endpoints wrong: %+v", cut)
	}
}

func TestShortcutRespectsObstacles(t *testing.T) {
	g := NewGrid(10, 10)
	for row := 0; row < 9; row++ {
		g.setWalkable(3, row, false)
	}
	points := []Vec{{X: 1, Y: 1}, {X: 3.5, Y: 9.5}, {X: 6, Y: 1}}

	cut := Shortcut(g, points)
	if len(cut) != 3 {
		t.Fatalf("shortcut must not cross the wall, got %+v", cut)
	}
}

func TestSmoothRelaxesCorner(t *testing.T) {
	g := NewGrid(10, 10)
	points := []Vec{{X: 1, Y: 1}, {X: 5, Y: 1}, {X: 5, Y: 5}}

	smoothed := Smooth(g, points)
	if smoothed[0] != points[0] || smoothed[len(smoothed)-1] != points[len(points)-1] {
		t.Fatalf("smooth moved an endpoint: %+v", smoothed)
	}
	if smoothed[1] == points[1] {
		t.Fatalf("interior corner should have relaxed toward the midpoint")
	}
	if pathLength(smoothed) >= pathLength(points) {
		t.Fatalf("relaxation should not lengthen the path")
	}
}

func TestCenterInAisleMovesOffWall(t *testing.T) {
	g := NewGrid(9, 9)
	for col := 0; col < 9; col++ {
		g.setWalkable(col, 0, false)
		g.setWalkable(col, 1, false)
		for row := 6; row < 9; row++ {
			g.setWalkable(col, row, false)
		}
	}
	points := []Vec{{X: 1, Y: 2.3}, {X: 4, Y: 2.3}, {X: 7, Y: 2.3}}

	centered := CenterInAisle(g, points)
	if centered[0] != points[0] || centered[2] != points[2] {
		t.Fatalf("centering moved an endpoint: %+v", centered)
	}
	if centered[1].Y <= points[1].Y {
		t.Fatalf("interior point should shift away from the wall, got %+v", centered[1])
	}
	if centered[1].Y > points[1].Y+centerMaxShift+1e-9 {
		t.Fatalf("shift exceeded the per-point clamp: %+v", centered[1])
	}
}

func TestSegmentClear(t *testing.T) {
	g := NewGrid(10, 10)
	g.setWalkable(5, 5, false)

	if segmentClear(g, Vec{X: 4.5, Y: 5.5}, Vec{X: 6.5, Y: 5.5}, 0) {
		t.Fatalf("segment through a blocked cell should not be clear")
	}
	if !segmentClear(g, Vec{X: 1.5, Y: 1.5}, Vec{X: 8.5, Y: 1.5}, segmentClearance) {
		t.Fatalf("open segment should be clear")
	}
	if segmentClear(g, Vec{X: 5.5, Y: 4.6}, Vec{X: 5.5, Y: 4.9}, segmentClearance) {
		t.Fatalf("clearance offsets should detect the adjacent blocked cell")
	}
}

func TestPostProcessIdempotent(t *testing.T) {
	g := NewGrid(12, 12)
	for row := 0; row < 10; row++ {
		g.setWalkable(6, row, false)
	}

	cells := Search(g, Cell{1, 1}, Cell{10, 1})
	if len(cells) == 0 {
		t.Fatalf("expected a route for the fixture")
	}
	points := make([]Vec, 0, len(cells))
	for _, c := range cells {
		points = append(points, g.CellCenter(c))
	}

	once := PostProcess(g, points)
	twice := PostProcess(g, once)
	if len(twice) > len(once) {
		t.Fatalf("second pass grew the path: %d -> %d", len(once), len(twice))
	}
	if !almostEqual(once[0], twice[0], 1e-6) || !almostEqual(once[len(once)-1], twice[len(twice)-1], 1e-6) {
		t.Fatalf("second pass drifted an endpoint")
	}
	for i := 1; i < len(twice); i++ {
		if !segmentClear(g, twice[i-1], twice[i], segmentClearance) {
			t.Fatalf("post-processed segment %d crosses an obstacle", i)
		}
	}
}

func TestPathLength(t *testing.T) {
	points := []Vec{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 3, Y: 6}}
	if got := pathLength(points); math.Abs(got-7) > 1e-9 {
		t.Fatalf("pathLength = %v, want 7", got)
	}
}
