package nav

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a point on the walkable plane. The vector Y component carries the
// store's Z axis (depth); floors are tracked separately.
type Vec = r2.Vec

// PathNode is one waypoint of a rendered route.
type PathNode struct {
	X     float64 `json:"x"`
	Z     float64 `json:"z"`
	Floor int     `json:"floor"`
}

// Point returns the planar position of the node.
func (n PathNode) Point() Vec {
	return Vec{X: n.X, Y: n.Z}
}

func node(p Vec, floor int) PathNode {
	return PathNode{X: p.X, Z: p.Y, Floor: floor}
}

func clampf(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func dist(a, b Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// normalize returns the unit vector of v, or the zero vector when v has no
// length.
func normalize(v Vec) Vec {
	n := r2.Norm(v)
	if n == 0 {
		return Vec{}
	}
	return r2.Scale(1/n, v)
}

// perpendicular rotates v a quarter turn counter-clockwise.
func perpendicular(v Vec) Vec {
	return Vec{X: -v.Y, Y: v.X}
}

// pathLength sums the Euclidean segment lengths of the polyline.
func pathLength(points []Vec) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += dist(points[i-1], points[i])
	}
	return total
}

func almostEqual(a, b Vec, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance && math.Abs(a.Y-b.Y) <= tolerance
}
