package nav

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	collinearThreshold = 0.95
	segmentSampleStep  = 0.2
	segmentClearance   = 0.3
	smoothClearance    = 0.45
	smoothIterations   = 3
	smoothDamping      = 0.5
	centerRayStep      = 0.1
	centerMaxRange     = 3.0
	centerMaxShift     = 0.35
)

// PostProcess turns a raw cell-centered path into a minimal collision-free
// polyline: simplify, shortcut, smooth, center-in-aisle, then a final shortcut
// to drop redundancy introduced by smoothing. Every stage is a pure function
// of its input; endpoints are never moved.
func PostProcess(g *Grid, points []Vec) []Vec {
	points = Simplify(points)
	points = Shortcut(g, points)
	points = Smooth(g, points)
	points = CenterInAisle(g, points)
	return Shortcut(g, points)
}

// Simplify drops interior points whose incoming and outgoing directions are
// nearly collinear.
func Simplify(points []Vec) []Vec {
	if len(points) <= 2 {
		return append([]Vec(nil), points...)
	}
	kept := make([]Vec, 0, len(points))
	kept = append(kept, points[0])
	for i := 1; i < len(points)-1; i++ {
		in := normalize(r2.Sub(points[i], kept[len(kept)-1]))
		out := normalize(r2.Sub(points[i+1], points[i]))
		if in.X*out.X+in.Y*out.Y > collinearThreshold {
			continue
		}
		kept = append(kept, points[i])
	}
	kept = append(kept, points[len(points)-1])
	return kept
}

// Shortcut greedily skips to the farthest later point reachable by an
// obstacle-free straight segment.
func Shortcut(g *Grid, points []Vec) []Vec {
	if len(points) <= 2 {
		return append([]Vec(nil), points...)
	}
	result := make([]Vec, 0, len(points))
	result = append(result, points[0])
	current := 0
	for current < len(points)-1 {
		farthest := current + 1
		for i := len(points) - 1; i > current+1; i-- {
			if segmentClear(g, points[current], points[i], segmentClearance) {
				farthest = i
				break
			}
		}
		result = append(result, points[farthest])
		current = farthest
	}
	return result
}

// Smooth relaxes interior points toward the midpoint of their neighbours,
// keeping a move only when both adjacent segments stay clear at the wider
// clearance.
func Smooth(g *Grid, points []Vec) []Vec {
	if len(points) <= 2 {
		return append([]Vec(nil), points...)
	}
	smoothed := append([]Vec(nil), points...)
	for iter := 0; iter < smoothIterations; iter++ {
		for i := 1; i < len(smoothed)-1; i++ {
			mid := r2.Scale(0.5, r2.Add(smoothed[i-1], smoothed[i+1]))
			candidate := r2.Add(smoothed[i], r2.Scale(smoothDamping, r2.Sub(mid, smoothed[i])))
			if segmentClear(g, smoothed[i-1], candidate, smoothClearance) &&
				segmentClear(g, candidate, smoothed[i+1], smoothClearance) {
				smoothed[i] = candidate
			}
		}
	}
	return smoothed
}

// CenterInAisle nudges interior points toward the midpoint between the
// obstacles on either side of the local travel direction, clamped per point,
// so routes run down the middle of aisles instead of hugging shelf edges.
func CenterInAisle(g *Grid, points []Vec) []Vec {
	if len(points) <= 2 {
		return append([]Vec(nil), points...)
	}
	centered := append([]Vec(nil), points...)
	for i := 1; i < len(centered)-1; i++ {
		dir := normalize(r2.Sub(centered[i+1], centered[i-1]))
		if dir == (Vec{}) {
			continue
		}
		normal := perpendicular(dir)
		dPlus := castRay(g, centered[i], normal)
		dMinus := castRay(g, centered[i], r2.Scale(-1, normal))
		offset := clampf((dPlus-dMinus)/2, -centerMaxShift, centerMaxShift)
		if offset == 0 {
			continue
		}
		candidate := r2.Add(centered[i], r2.Scale(offset, normal))
		if !g.WalkableAt(candidate.X, candidate.Y) {
			continue
		}
		if segmentClear(g, centered[i-1], candidate, segmentClearance) &&
			segmentClear(g, candidate, centered[i+1], segmentClearance) {
			centered[i] = candidate
		}
	}
	return centered
}

// castRay walks from origin along dir until it hits a blocked cell or the max
// range, returning the travelled distance.
func castRay(g *Grid, origin, dir Vec) float64 {
	for d := centerRayStep; d <= centerMaxRange; d += centerRayStep {
		p := r2.Add(origin, r2.Scale(d, dir))
		if !g.WalkableAt(p.X, p.Y) {
			return d - centerRayStep
		}
	}
	return centerMaxRange
}

// segmentClear densely samples the segment and requires every sample, plus the
// four orthogonal offsets at the clearance radius, to land on walkable cells.
func segmentClear(g *Grid, a, b Vec, clearance float64) bool {
	length := dist(a, b)
	steps := int(math.Ceil(length / segmentSampleStep))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
		if !pointClear(g, p, clearance) {
			return false
		}
	}
	return true
}

func pointClear(g *Grid, p Vec, clearance float64) bool {
	if !g.WalkableAt(p.X, p.Y) {
		return false
	}
	if clearance <= 0 {
		return true
	}
	offsets := [...]Vec{{X: clearance}, {X: -clearance}, {Y: clearance}, {Y: -clearance}}
	for _, off := range offsets {
		q := r2.Add(p, off)
		if !g.WalkableAt(q.X, q.Y) {
			return false
		}
	}
	return true
}
