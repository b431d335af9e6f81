// Package navigation finds routes through the open cells of a tile grid.
// Tiles are solid; empty cells are walkable.
package navigation

import (
	"container/heap"

	"github.com/Faultbox/arena/pkg/tilemap"
)

// Cost of one straight and one diagonal step.
const (
	straightCost = float32(1.0)
	diagonalCost = float32(1.41421356)
)

// Cell is a grid coordinate.
type Cell struct {
	X, Y int
}

// Walkable reports which cells of a rectangular area can be entered.
type Walkable interface {
	Width() int
	Height() int
	Walkable(x, y int) bool
}

// gridWalkable treats every empty cell of a grid as open floor.
type gridWalkable struct {
	grid *tilemap.Grid
}

func (g gridWalkable) Width() int  { return g.grid.Width() }
func (g gridWalkable) Height() int { return g.grid.Height() }

func (g gridWalkable) Walkable(x, y int) bool {
	if !g.grid.InBounds(x, y) {
		return false
	}
	_, solid := g.grid.At(x, y)
	return !solid
}

// FromGrid adapts a tile grid: occupied cells block, empty cells are open.
func FromGrid(grid *tilemap.Grid) Walkable {
	return gridWalkable{grid: grid}
}

type node struct {
	cell   Cell
	g, f   float32
	parent int // index into the dense node table, -1 for the start
	index  int // heap position, -1 once popped
	open   bool
	closed bool
}

type openSet struct {
	nodes []node
	items []int
}

func (h *openSet) Len() int           { return len(h.items) }
func (h *openSet) Less(i, j int) bool { return h.nodes[h.items[i]].f < h.nodes[h.items[j]].f }
func (h *openSet) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.nodes[h.items[i]].index = i
	h.nodes[h.items[j]].index = j
}

func (h *openSet) Push(x any) {
	id := x.(int)
	h.nodes[id].index = len(h.items)
	h.items = append(h.items, id)
}

func (h *openSet) Pop() any {
	n := len(h.items)
	id := h.items[n-1]
	h.items = h.items[:n-1]
	h.nodes[id].index = -1
	return id
}

// PathFinder runs A* over a Walkable area.
type PathFinder struct {
	area     Walkable
	diagonal bool
}

// NewPathFinder creates a pathfinder. With diagonal set, moves may cut
// across a corner only when both side cells are open.
func NewPathFinder(area Walkable, diagonal bool) *PathFinder {
	if area == nil {
		return nil
	}
	return &PathFinder{area: area, diagonal: diagonal}
}

// directions lists straight moves first, then diagonals.
var directions = [8]Cell{
	{0, 1}, {-1, 0}, {0, -1}, {1, 0},
	{-1, 1}, {-1, -1}, {1, -1}, {1, 1},
}

// FindPath returns the cells from start to goal inclusive, or nil when
// either end is blocked or no route exists.
func (pf *PathFinder) FindPath(start, goal Cell) []Cell {
	if pf == nil || !pf.IsWalkable(start) || !pf.IsWalkable(goal) {
		return nil
	}
	if start == goal {
		return []Cell{start}
	}

	w, h := pf.area.Width(), pf.area.Height()
	set := &openSet{nodes: make([]node, w*h)}
	key := func(c Cell) int { return c.Y*w + c.X }

	moves := directions[:4]
	if pf.diagonal {
		moves = directions[:]
	}

	startID := key(start)
	set.nodes[startID] = node{cell: start, f: pf.heuristic(start, goal), parent: -1, open: true}
	heap.Push(set, startID)

	for set.Len() > 0 {
		curID := heap.Pop(set).(int)
		cur := &set.nodes[curID]
		cur.open = false
		cur.closed = true

		if cur.cell == goal {
			return pf.reconstruct(set.nodes, curID)
		}

		for i, d := range moves {
			next := Cell{cur.cell.X + d.X, cur.cell.Y + d.Y}
			if !pf.IsWalkable(next) {
				continue
			}

			cost := straightCost
			if i >= 4 {
				if !pf.IsWalkable(Cell{cur.cell.X + d.X, cur.cell.Y}) ||
					!pf.IsWalkable(Cell{cur.cell.X, cur.cell.Y + d.Y}) {
					continue
				}
				cost = diagonalCost
			}

			nextID := key(next)
			n := &set.nodes[nextID]
			if n.closed {
				continue
			}

			g := cur.g + cost
			switch {
			case !n.open:
				*n = node{cell: next, g: g, f: g + pf.heuristic(next, goal), parent: curID, open: true}
				heap.Push(set, nextID)
			case g < n.g:
				n.f += g - n.g
				n.g = g
				n.parent = curID
				heap.Fix(set, n.index)
			}
		}
	}

	return nil
}

// IsWalkable reports whether c is inside the area and open.
func (pf *PathFinder) IsWalkable(c Cell) bool {
	if pf == nil {
		return false
	}
	if c.X < 0 || c.Y < 0 || c.X >= pf.area.Width() || c.Y >= pf.area.Height() {
		return false
	}
	return pf.area.Walkable(c.X, c.Y)
}

// heuristic is Manhattan distance for 4-way search and octile distance
// for 8-way search; both never overestimate.
func (pf *PathFinder) heuristic(a, b Cell) float32 {
	dx := float32(abs(b.X - a.X))
	dy := float32(abs(b.Y - a.Y))
	if !pf.diagonal {
		return dx + dy
	}
	lo, hi := min(dx, dy), max(dx, dy)
	return lo*diagonalCost + (hi - lo)
}

func (pf *PathFinder) reconstruct(nodes []node, id int) []Cell {
	var path []Cell
	for ; id >= 0; id = nodes[id].parent {
		path = append(path, nodes[id].cell)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Cost returns the travel cost of a path produced by FindPath.
func Cost(path []Cell) float32 {
	var total float32
	for i := 1; i < len(path); i++ {
		if path[i].X != path[i-1].X && path[i].Y != path[i-1].Y {
			total += diagonalCost
		} else {
			total += straightCost
		}
	}
	return total
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
