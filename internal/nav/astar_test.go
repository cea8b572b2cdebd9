package nav

import (
	"reflect"
	"testing"
)

func TestSearchDiagonalOnOpenGrid(t *testing.T) {
	g := NewGrid(10, 10)

	cells := Search(g, Cell{0, 0}, Cell{9, 9})
	if len(cells) != 10 {
		t.Fatalf("expected 10 cells on the pure diagonal, got %d", len(cells))
	}
	if cells[0] != (Cell{0, 0}) || cells[len(cells)-1] != (Cell{9, 9}) {
		t.Fatalf("path endpoints wrong: %+v", cells)
	}
}

func TestSearchRoutesThroughGap(t *testing.T) {
	g := NewGrid(10, 10)
	for row := 0; row < 9; row++ {
		g.setWalkable(5, row, false)
	}

	cells := Search(g, Cell{1, 1}, Cell{8, 1})
	if len(cells) == 0 {
		t.Fatalf("expected a route through the gap")
	}
	sawGap := false
	for _, c := range cells {
		if c.Col == 5 {
			if c.Row != 9 {
				t.Fatalf("path crossed the wall at %+v", c)
			}
			sawGap = true
		}
	}
	if !sawGap {
		t.Fatalf("path never crossed column 5: %+v", cells)
	}
}

func TestSearchUnreachableReturnsEmpty(t *testing.T) {
	g := NewGrid(10, 10)
	for row := 0; row < 10; row++ {
		g.setWalkable(5, row, false)
	}
	if cells := Search(g, Cell{1, 1}, Cell{8, 1}); len(cells) != 0 {
		t.Fatalf("expected no route, got %+v", cells)
	}
	if cells := Search(g, Cell{1, 1}, Cell{5, 5}); len(cells) != 0 {
		t.Fatalf("blocked goal should yield no route")
	}
	if cells := Search(g, Cell{-1, 0}, Cell{2, 2}); len(cells) != 0 {
		t.Fatalf("out-of-bounds start should yield no route")
	}
}

func TestSearchNoCornerCutting(t *testing.T) {
	g := NewGrid(3, 3)
	g.setWalkable(1, 0, false)
	g.setWalkable(0, 1, false)

	if cells := Search(g, Cell{0, 0}, Cell{1, 1}); len(cells) != 0 {
		t.Fatalf("diagonal between two blocked orthogonals must be illegal, got %+v", cells)
	}
}

func TestSearchDiagonalStepsHaveOpenOrthogonals(t *testing.T) {
	g := NewGrid(10, 10)
	for row := 0; row < 9; row++ {
		g.setWalkable(5, row, false)
	}

	cells := Search(g, Cell{1, 1}, Cell{8, 1})
	for i := 1; i < len(cells); i++ {
		dc := cells[i].Col - cells[i-1].Col
		dr := cells[i].Row - cells[i-1].Row
		if dc == 0 || dr == 0 {
			continue
		}
		if !g.Walkable(cells[i-1].Col+dc, cells[i-1].Row) || !g.Walkable(cells[i-1].Col, cells[i-1].Row+dr) {
			t.Fatalf("corner cut between %+v and %+v", cells[i-1], cells[i])
		}
	}
}

func TestSearchAvoidsPenalizedCells(t *testing.T) {
	g := NewGrid(7, 5)
	for row := 1; row < 5; row++ {
		g.setCost(3, row, bayFloorCost)
	}

	cells := Search(g, Cell{0, 2}, Cell{6, 2})
	if len(cells) == 0 {
		t.Fatalf("expected a route")
	}
	for _, c := range cells {
		if c.Col == 3 && c.Row != 0 {
			t.Fatalf("path crossed the penalized column at %+v instead of detouring", c)
		}
	}
}

func TestSearchDeterministic(t *testing.T) {
	g := NewGrid(20, 20)
	for row := 3; row < 17; row++ {
		g.setWalkable(9, row, false)
	}

	first := Search(g, Cell{2, 10}, Cell{17, 10})
	second := Search(g, Cell{2, 10}, Cell{17, 10})
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical searches diverged:\n%+v\n%+v", first, second)
	}
}
