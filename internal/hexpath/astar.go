package hexpath

import (
	"container/heap"

	"github.com/gravitas-games/hexworld/internal/hex"
)

// AStar computes a shortest path over the six-neighbor hex graph.
// - start, goal: axial coordinates
// - h: admissible heuristic (hex distance to goal)
// - neighbors: returns adjacent axial coordinates to explore
// Edge cost is uniform. Returns the path including start and goal, or nil if
// no path exists.
func AStar(start, goal hex.Axial,
	h func(a hex.Axial) int,
	neighbors func(a hex.Axial) []hex.Axial,
) []hex.Axial {
	if start == goal {
		return []hex.Axial{start}
	}
	open := &nodePQ{}
	heap.Init(open)
	push := func(a hex.Axial, f int) { heap.Push(open, &pqNode{a: a, f: f}) }

	g := map[hex.Axial]int{start: 0}
	came := map[hex.Axial]hex.Axial{}
	push(start, h(start))

	closed := map[hex.Axial]bool{}

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pqNode).a
		if closed[cur] {
			continue
		}
		closed[cur] = true
		if cur == goal {
			path := []hex.Axial{goal}
			k := goal
			for k != start {
				k = came[k]
				path = append(path, k)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}
		for _, nb := range neighbors(cur) {
			if closed[nb] {
				continue
			}
			tentative := g[cur] + 1
			old, ok := g[nb]
			if !ok || tentative < old {
				g[nb] = tentative
				came[nb] = cur
				push(nb, tentative+h(nb))
			}
		}
	}
	return nil
}

// FindPath runs AStar with the hex-distance heuristic over the neighbors
// allowed by valid. start and goal must themselves satisfy valid.
func FindPath(start, goal hex.Axial, valid func(a hex.Axial) bool) []hex.Axial {
	if !valid(start) || !valid(goal) {
		return nil
	}
	return AStar(start, goal,
		func(a hex.Axial) int { return hex.Distance(a, goal) },
		func(a hex.Axial) []hex.Axial {
			out := make([]hex.Axial, 0, 6)
			for _, d := range hex.Directions {
				b := a.Add(d)
				if valid(b) {
					out = append(out, b)
				}
			}
			return out
		})
}

type pqNode struct {
	a hex.Axial
	f int
}

type nodePQ []*pqNode

func (p nodePQ) Len() int           { return len(p) }
func (p nodePQ) Less(i, j int) bool { return p[i].f < p[j].f }
func (p nodePQ) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
func (p *nodePQ) Push(x any)        { *p = append(*p, x.(*pqNode)) }
func (p *nodePQ) Pop() any          { old := *p; n := len(old); x := old[n-1]; *p = old[:n-1]; return x }
