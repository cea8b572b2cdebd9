package layout

import "strings"

const (
	DefaultGridWidth = 50
	DefaultGridDepth = 50
)

// Face identifies one side of a shelf slot. Front is the side at the far end
// of the bay's depth axis (larger Z), back the near end.
type Face string

const (
	FaceFront Face = "front"
	FaceBack  Face = "back"
	FaceLeft  Face = "left"
	FaceRight Face = "right"
)

// ShelfUnit is one addressable section of a bay. When ClosedFaces is absent
// the back face is treated as closed; an empty list means fully open.
type ShelfUnit struct {
	ID          string   `json:"id"`
	Index       int      `json:"index"`
	ClosedFaces *[]Face  `json:"closedFaces,omitempty"`
	Offset      *float64 `json:"offset,omitempty"`
	Width       *float64 `json:"width,omitempty"`
}

// Closed reports whether the given face of the shelf is closed.
func (s ShelfUnit) Closed(face Face) bool {
	if s.ClosedFaces == nil {
		return face == FaceBack
	}
	for _, f := range *s.ClosedFaces {
		if f == face {
			return true
		}
	}
	return false
}

// Bay is a rectangular fixture footprint placed on a floor grid. Column/Row
// address the min corner in grid units; shelves subdivide the width axis.
type Bay struct {
	ID      string      `json:"id"`
	Column  float64     `json:"column"`
	Row     float64     `json:"row"`
	Width   float64     `json:"width"`
	Depth   float64     `json:"depth"`
	Spacing *float64    `json:"spacing,omitempty"`
	Shelves []ShelfUnit `json:"shelves"`
}

type Aisle struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Bays []Bay  `json:"bays"`
}

type Zone struct {
	ID     string  `json:"id"`
	Name   string  `json:"name,omitempty"`
	Aisles []Aisle `json:"aisles"`
}

type Floor struct {
	Number int    `json:"number"`
	Zones  []Zone `json:"zones"`
}

// Elevator is a transfer point assumed to exist at the same position on every
// floor.
type Elevator struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Store is the full layout document supplied by the editor front-end.
type Store struct {
	Name      string     `json:"name,omitempty"`
	GridWidth int        `json:"gridWidth"`
	GridDepth int        `json:"gridDepth"`
	Floors    []Floor    `json:"floors"`
	Elevators []Elevator `json:"elevators,omitempty"`
}

// Product is placement metadata linking a catalog item to a shelf slot.
type Product struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	BayID   string  `json:"bayId"`
	ShelfID string  `json:"shelfId"`
	Floor   int     `json:"floor"`
	X       float64 `json:"x"`
	Z       float64 `json:"z"`
}

// Normalized returns a copy with malformed fields clamped to usable values.
// The engine never rejects a layout; it rasterizes what it is given.
func (s Store) Normalized() Store {
	normalized := s
	normalized.Name = strings.TrimSpace(normalized.Name)
	if normalized.GridWidth <= 0 {
		normalized.GridWidth = DefaultGridWidth
	}
	if normalized.GridDepth <= 0 {
		normalized.GridDepth = DefaultGridDepth
	}
	floors := make([]Floor, len(s.Floors))
	copy(floors, s.Floors)
	normalized.Floors = floors
	return normalized
}
