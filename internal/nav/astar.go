package nav

import (
	"container/heap"
	"math"
)

type searchNeighbor struct {
	col      int
	row      int
	diagonal bool
}

var searchNeighborOffsets = [...]searchNeighbor{
	{col: 0, row: -1},
	{col: 1, row: 0},
	{col: 0, row: 1},
	{col: -1, row: 0},
	{col: 1, row: -1, diagonal: true},
	{col: 1, row: 1, diagonal: true},
	{col: -1, row: 1, diagonal: true},
	{col: -1, row: -1, diagonal: true},
}

type searchNode struct {
	cell   Cell
	g      float64
	f      float64
	seq    uint64
	index  int
	parent *searchNode
}

// searchQueue orders by f, then by insertion sequence so equal-f ties resolve
// first-found-first. Reproducible paths depend on this ordering.
type searchQueue []*searchNode

func (pq searchQueue) Len() int { return len(pq) }

func (pq searchQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq searchQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *searchQueue) Push(x any) {
	n := len(*pq)
	item := x.(*searchNode)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *searchQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

func heuristic(a, b Cell) float64 {
	return math.Hypot(float64(a.Col-b.Col), float64(a.Row-b.Row))
}

// canTraverseDiagonal enforces the corner-cutting rule: a diagonal step is
// legal only when both orthogonal cells adjacent to it are walkable.
func (g *Grid) canTraverseDiagonal(from Cell, delta searchNeighbor) bool {
	if !delta.diagonal {
		return true
	}
	return g.Walkable(from.Col+delta.col, from.Row) && g.Walkable(from.Col, from.Row+delta.row)
}

// Search runs cost-weighted 8-connected A* from start to goal and returns the
// cell path inclusive of both ends. An empty result means no route; callers
// degrade rather than error.
func Search(g *Grid, start, goal Cell) []Cell {
	if g == nil || !g.InBounds(start.Col, start.Row) || !g.InBounds(goal.Col, goal.Row) {
		return nil
	}
	if !g.Walkable(goal.Col, goal.Row) {
		return nil
	}

	open := &searchQueue{}
	heap.Init(open)
	var seq uint64
	heap.Push(open, &searchNode{cell: start, g: 0, f: heuristic(start, goal), seq: seq})
	seq++

	gScore := map[int]float64{g.index(start.Col, start.Row): 0}
	closed := make(map[int]struct{})

	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)
		currIdx := g.index(current.cell.Col, current.cell.Row)
		if _, seen := closed[currIdx]; seen {
			continue
		}
		closed[currIdx] = struct{}{}
		if current.cell == goal {
			return reconstructCells(current)
		}

		for _, delta := range searchNeighborOffsets {
			if delta.diagonal && !g.canTraverseDiagonal(current.cell, delta) {
				continue
			}
			nc := current.cell.Col + delta.col
			nr := current.cell.Row + delta.row
			if !g.Walkable(nc, nr) {
				continue
			}
			idx := g.index(nc, nr)
			if _, seen := closed[idx]; seen {
				continue
			}
			stepCost := g.Cost(nc, nr)
			if delta.diagonal {
				stepCost *= math.Sqrt2
			}
			tentativeG := current.g + stepCost
			if prev, ok := gScore[idx]; ok && tentativeG >= prev {
				continue
			}
			gScore[idx] = tentativeG
			next := Cell{Col: nc, Row: nr}
			heap.Push(open, &searchNode{
				cell:   next,
				g:      tentativeG,
				f:      tentativeG + heuristic(next, goal),
				seq:    seq,
				parent: current,
			})
			seq++
		}
	}
	return nil
}

func reconstructCells(end *searchNode) []Cell {
	if end == nil {
		return nil
	}
	cells := make([]Cell, 0)
	for node := end; node != nil; node = node.parent {
		cells = append(cells, node.cell)
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}
