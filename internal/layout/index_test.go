package layout

import (
	"math"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestSlotRectUniformSubdivision(t *testing.T) {
	bay := Bay{
		ID: "bay-1", Column: 10, Row: 10, Width: 6, Depth: 4,
		Shelves: []ShelfUnit{
			{ID: "s0", Index: 0},
			{ID: "s1", Index: 1},
			{ID: "s2", Index: 2},
		},
	}

	rect := bay.SlotRect(bay.Shelves[1])
	if rect.MinX != 12 || rect.MaxX != 14 {
		t.Fatalf("expected middle slot [12,14), got [%v,%v)", rect.MinX, rect.MaxX)
	}
	if rect.MinZ != 10 || rect.MaxZ != 14 {
		t.Fatalf("expected slot depth [10,14), got [%v,%v)", rect.MinZ, rect.MaxZ)
	}
}

func TestSlotRectSpacingOverride(t *testing.T) {
	bay := Bay{
		ID: "bay-1", Column: 0, Row: 0, Width: 10, Depth: 2,
		Spacing: floatPtr(3),
		Shelves: []ShelfUnit{{ID: "s0", Index: 0}, {ID: "s1", Index: 1}},
	}
	rect := bay.SlotRect(bay.Shelves[1])
	if rect.MinX != 3 || rect.MaxX != 6 {
		t.Fatalf("expected spaced slot [3,6), got [%v,%v)", rect.MinX, rect.MaxX)
	}
}

func TestSlotRectExplicitOffsetClampedToFootprint(t *testing.T) {
	bay := Bay{
		ID: "bay-1", Column: 0, Row: 0, Width: 5, Depth: 2,
		Shelves: []ShelfUnit{{ID: "s0", Index: 0, Offset: floatPtr(4), Width: floatPtr(3)}},
	}
	rect := bay.SlotRect(bay.Shelves[0])
	if rect.MinX != 4 || rect.MaxX != 5 {
		t.Fatalf("expected clamped slot [4,5), got [%v,%v)", rect.MinX, rect.MaxX)
	}
}

func TestShelfClosedDefaultsToBack(t *testing.T) {
	shelf := ShelfUnit{ID: "s0"}
	if !shelf.Closed(FaceBack) {
		t.Fatalf("back face should default to closed")
	}
	for _, face := range []Face{FaceFront, FaceLeft, FaceRight} {
		if shelf.Closed(face) {
			t.Fatalf("face %s should default to open", face)
		}
	}

	open := ShelfUnit{ID: "s1", ClosedFaces: &[]Face{}}
	if open.Closed(FaceBack) {
		t.Fatalf("explicit empty closed set should open the back face")
	}

	sealed := ShelfUnit{ID: "s2", ClosedFaces: &[]Face{FaceFront, FaceLeft}}
	if !sealed.Closed(FaceFront) || !sealed.Closed(FaceLeft) || sealed.Closed(FaceRight) {
		t.Fatalf("explicit closed set not honored")
	}
}

func testStore() Store {
	return Store{
		Name: "Test Store", GridWidth: 50, GridDepth: 60,
		Floors: []Floor{
			{
				Number: 0,
				Zones: []Zone{{
					ID: "z1",
					Aisles: []Aisle{{
						ID: "a1",
						Bays: []Bay{{
							ID: "bay-1", Column: 10, Row: 10, Width: 6, Depth: 4,
							Shelves: []ShelfUnit{{ID: "shelf-1", Index: 0}},
						}},
					}},
				}},
			},
			{
				Number: 1,
				Zones: []Zone{{
					ID: "z2",
					Aisles: []Aisle{{
						ID: "a2",
						Bays: []Bay{{
							ID: "bay-2", Column: 20, Row: 20, Width: 4, Depth: 2,
							Shelves: []ShelfUnit{{ID: "shelf-2", Index: 0}},
						}},
					}},
				}},
			},
		},
	}
}

func TestFloorPlanFlattensHierarchy(t *testing.T) {
	store := testStore()

	plan := store.FloorPlan(0)
	if len(plan.Bays) != 1 || plan.Bays[0].ID != "bay-1" {
		t.Fatalf("expected bay-1 on floor 0, got %+v", plan.Bays)
	}
	if plan.GridWidth != 50 || plan.GridDepth != 60 {
		t.Fatalf("plan should carry the site extent, got %dx%d", plan.GridWidth, plan.GridDepth)
	}

	empty := store.FloorPlan(7)
	if len(empty.Bays) != 0 {
		t.Fatalf("unknown floor should yield an empty plan")
	}
	if empty.GridWidth != 50 {
		t.Fatalf("empty plan should still carry the site extent")
	}
}

func TestFindBayAndShelfAcrossFloors(t *testing.T) {
	store := testStore()

	ref, ok := store.FindBay("bay-2")
	if !ok || ref.Floor != 1 {
		t.Fatalf("expected bay-2 on floor 1, got %+v ok=%v", ref, ok)
	}

	shelfRef, ok := store.FindShelf("bay-1", "shelf-1")
	if !ok || shelfRef.Floor != 0 || shelfRef.Shelf.ID != "shelf-1" {
		t.Fatalf("expected shelf-1 on floor 0, got %+v ok=%v", shelfRef, ok)
	}

	if _, ok := store.FindBay("nope"); ok {
		t.Fatalf("unknown bay should not resolve")
	}
	if _, ok := store.FindShelf("bay-1", "nope"); ok {
		t.Fatalf("unknown shelf should not resolve")
	}
}

func TestNearestSlot(t *testing.T) {
	bay := Bay{
		ID: "bay-1", Column: 0, Row: 0, Width: 9, Depth: 2,
		Shelves: []ShelfUnit{
			{ID: "s0", Index: 0},
			{ID: "s1", Index: 1},
			{ID: "s2", Index: 2},
		},
	}

	shelf, ok := bay.NearestSlot(8.5, 1)
	if !ok || shelf.ID != "s2" {
		t.Fatalf("expected rightmost slot, got %+v ok=%v", shelf, ok)
	}

	shelf, ok = bay.NearestSlot(0, 0)
	if !ok || shelf.ID != "s0" {
		t.Fatalf("expected leftmost slot, got %+v ok=%v", shelf, ok)
	}

	if _, ok := (Bay{}).NearestSlot(0, 0); ok {
		t.Fatalf("bay without shelves has no nearest slot")
	}
}

func TestNormalizedClampsExtents(t *testing.T) {
	doc := Store{Name: "  padded  "}.Normalized()
	if doc.GridWidth != DefaultGridWidth || doc.GridDepth != DefaultGridDepth {
		t.Fatalf("expected default extents, got %dx%d", doc.GridWidth, doc.GridDepth)
	}
	if doc.Name != "padded" {
		t.Fatalf("expected trimmed name, got %q", doc.Name)
	}
}

func TestRectContainsHalfOpen(t *testing.T) {
	rect := Rect{MinX: 1, MinZ: 2, MaxX: 3, MaxZ: 4}
	if !rect.Contains(1, 2) {
		t.Fatalf("min corner is inclusive")
	}
	if rect.Contains(3, 2) || rect.Contains(1, 4) {
		t.Fatalf("max edges are exclusive")
	}
	if !rect.Valid() || (Rect{}).Valid() {
		t.Fatalf("validity check wrong")
	}

	grown := rect.Expand(0.5)
	if math.Abs(grown.MinX-0.5) > 1e-9 || math.Abs(grown.MaxZ-4.5) > 1e-9 {
		t.Fatalf("expand wrong: %+v", grown)
	}
}
