package layout

import "math"

// Rect is an axis-aligned rectangle in world units. Min is inclusive, Max
// exclusive along both axes.
type Rect struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
}

func (r Rect) Contains(x, z float64) bool {
	return x >= r.MinX && x < r.MaxX && z >= r.MinZ && z < r.MaxZ
}

func (r Rect) Expand(margin float64) Rect {
	return Rect{
		MinX: r.MinX - margin,
		MinZ: r.MinZ - margin,
		MaxX: r.MaxX + margin,
		MaxZ: r.MaxZ + margin,
	}
}

func (r Rect) Valid() bool {
	return r.MaxX > r.MinX && r.MaxZ > r.MinZ
}

// FloorPlan is the flattened, per-floor view of the layout the engine
// rasterizes: every placed bay regardless of zone or aisle grouping, plus the
// site grid extent.
type FloorPlan struct {
	Number    int
	GridWidth int
	GridDepth int
	Bays      []Bay
}

// FloorPlan flattens the zone/aisle hierarchy of the requested floor. A floor
// number with no matching entry yields an empty plan with the site extent, so
// routing on an unknown floor degrades to an open grid.
func (s *Store) FloorPlan(number int) FloorPlan {
	plan := FloorPlan{
		Number:    number,
		GridWidth: s.GridWidth,
		GridDepth: s.GridDepth,
	}
	for _, floor := range s.Floors {
		if floor.Number != number {
			continue
		}
		for _, zone := range floor.Zones {
			for _, aisle := range zone.Aisles {
				plan.Bays = append(plan.Bays, aisle.Bays...)
			}
		}
	}
	return plan
}

// Footprint is the world rectangle occupied by the whole bay.
func (b Bay) Footprint() Rect {
	return Rect{
		MinX: b.Column,
		MinZ: b.Row,
		MaxX: b.Column + b.Width,
		MaxZ: b.Row + b.Depth,
	}
}

// SlotRect computes the world rectangle of one shelf slot. Slots subdivide the
// bay width; an explicit bay spacing or per-shelf offset/width overrides the
// uniform subdivision. The result is clamped to the bay footprint.
func (b Bay) SlotRect(shelf ShelfUnit) Rect {
	count := len(b.Shelves)
	if count <= 0 {
		count = 1
	}
	slotWidth := b.Width / float64(count)
	if b.Spacing != nil && *b.Spacing > 0 {
		slotWidth = *b.Spacing
	}
	offset := float64(shelf.Index) * slotWidth
	if shelf.Offset != nil {
		offset = *shelf.Offset
	}
	width := slotWidth
	if shelf.Width != nil && *shelf.Width > 0 {
		width = *shelf.Width
	}
	rect := Rect{
		MinX: b.Column + offset,
		MinZ: b.Row,
		MaxX: b.Column + offset + width,
		MaxZ: b.Row + b.Depth,
	}
	foot := b.Footprint()
	rect.MinX = math.Max(rect.MinX, foot.MinX)
	rect.MaxX = math.Min(rect.MaxX, foot.MaxX)
	return rect
}

// ShelfRef addresses one shelf slot within the whole site.
type ShelfRef struct {
	Floor int
	Bay   Bay
	Shelf ShelfUnit
}

// FindShelf locates a shelf slot by bay and shelf identifier across every
// floor.
func (s *Store) FindShelf(bayID, shelfID string) (ShelfRef, bool) {
	for _, floor := range s.Floors {
		for _, zone := range floor.Zones {
			for _, aisle := range zone.Aisles {
				for _, bay := range aisle.Bays {
					if bay.ID != bayID {
						continue
					}
					for _, shelf := range bay.Shelves {
						if shelf.ID == shelfID {
							return ShelfRef{Floor: floor.Number, Bay: bay, Shelf: shelf}, true
						}
					}
				}
			}
		}
	}
	return ShelfRef{}, false
}

// BayRef addresses one placed bay within the whole site.
type BayRef struct {
	Floor int
	Bay   Bay
}

// FindBay locates a bay by identifier across every floor.
func (s *Store) FindBay(bayID string) (BayRef, bool) {
	for _, floor := range s.Floors {
		for _, zone := range floor.Zones {
			for _, aisle := range zone.Aisles {
				for _, bay := range aisle.Bays {
					if bay.ID == bayID {
						return BayRef{Floor: floor.Number, Bay: bay}, true
					}
				}
			}
		}
	}
	return BayRef{}, false
}

// NearestSlot picks the shelf slot of the bay whose rectangle center is
// closest to the desired point. Used when a target names a bay but the shelf
// hint is ambiguous.
func (b Bay) NearestSlot(x, z float64) (ShelfUnit, bool) {
	if len(b.Shelves) == 0 {
		return ShelfUnit{}, false
	}
	best := b.Shelves[0]
	bestDist := math.MaxFloat64
	for _, shelf := range b.Shelves {
		rect := b.SlotRect(shelf)
		cx := (rect.MinX + rect.MaxX) / 2
		cz := (rect.MinZ + rect.MaxZ) / 2
		dist := math.Hypot(cx-x, cz-z)
		if dist < bestDist {
			bestDist = dist
			best = shelf
		}
	}
	return best, true
}
