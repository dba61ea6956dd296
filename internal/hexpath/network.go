package hexpath

import (
	"math/rand"

	"github.com/gravitas-games/hexworld/internal/hex"
)

// GrowRoadNetwork builds a connected road network over the hexes allowed by
// valid. The first valid seed anchors the network; every further seed is
// spliced in by pathfinding to its nearest existing member, falling back to
// direct insertion when no path exists. Random frontier hexes adjacent to the
// network are then appended until target is reached or the frontier is
// exhausted. The result is connected whenever the splice paths succeed, and
// always non-empty given at least one valid seed.
func GrowRoadNetwork(seeds []hex.Axial, valid func(hex.Axial) bool, target int, rng *rand.Rand) []hex.Axial {
	network := make([]hex.Axial, 0, target)
	member := make(map[hex.Axial]bool)
	add := func(a hex.Axial) {
		if !member[a] {
			member[a] = true
			network = append(network, a)
		}
	}

	for _, seed := range seeds {
		if !valid(seed) {
			continue
		}
		if len(network) == 0 {
			add(seed)
			continue
		}
		// splice to the nearest existing member
		nearest := network[0]
		for _, m := range network[1:] {
			if hex.Distance(seed, m) < hex.Distance(seed, nearest) {
				nearest = m
			}
		}
		path := FindPath(seed, nearest, valid)
		if path == nil {
			// unreachable seed: insert directly rather than abort
			add(seed)
			continue
		}
		for _, a := range path {
			add(a)
		}
	}

	// frontier growth up to the target count
	for len(network) < target {
		frontier := make([]hex.Axial, 0)
		frontierSeen := make(map[hex.Axial]bool)
		for _, m := range network {
			for _, d := range hex.Directions {
				b := m.Add(d)
				if member[b] || frontierSeen[b] || !valid(b) {
					continue
				}
				frontierSeen[b] = true
				frontier = append(frontier, b)
			}
		}
		if len(frontier) == 0 {
			break
		}
		add(frontier[rng.Intn(len(frontier))])
	}

	return network
}

// Connected reports whether the road set forms a single connected component
// under six-neighbor adjacency. An empty set is considered connected.
func Connected(roads []hex.Axial) bool {
	if len(roads) == 0 {
		return true
	}
	set := make(map[hex.Axial]bool, len(roads))
	for _, r := range roads {
		set[r] = true
	}
	visited := map[hex.Axial]bool{roads[0]: true}
	queue := []hex.Axial{roads[0]}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range hex.Directions {
			b := cur.Add(d)
			if set[b] && !visited[b] {
				visited[b] = true
				queue = append(queue, b)
			}
		}
	}
	return len(visited) == len(set)
}
