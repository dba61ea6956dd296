package resolve

import (
	"encoding/json"
	"fmt"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/gravitas-games/hexworld/internal/hex"
	"github.com/gravitas-games/hexworld/internal/hexpath"
	"github.com/gravitas-games/hexworld/internal/world"
)

const localVersion = "local-1.0"

// noise frequency and strength for voronoi border jitter
const (
	jitterFreq  = 0.35
	jitterScale = 1.6
)

// LocalEngine is the in-process default tile resolution engine. Region
// seeding assigns each hex to its nearest seed with a simplex-noise distance
// jitter so borders come out organic instead of straight; pathfinding and
// network growth delegate to hexpath. Layout application is last-write-wins
// over the submitted constraints; unconstrained hexes resolve to grass.
// Everything is deterministic for a fixed world seed.
type LocalEngine struct {
	seed  int64
	noise opensimplex.Noise

	constraints map[hex.Axial]world.TileType
	layout      map[hex.Axial]world.TileType

	regionCalls int
	pathCalls   int
	layoutCalls int
}

// NewLocalEngine creates a local engine for the given world seed.
func NewLocalEngine(seed int64) *LocalEngine {
	return &LocalEngine{
		seed:        seed,
		noise:       opensimplex.NewNormalized(seed),
		constraints: make(map[hex.Axial]world.TileType),
	}
}

// GenerateVoronoiRegions implements RawEngine.
func (e *LocalEngine) GenerateVoronoiRegions(rings, centerQ, centerR, forestSeeds, waterSeeds, grassSeeds int) (string, error) {
	center := hex.Axial{Q: centerQ, R: centerR}
	grid := hex.Grid(center, rings)
	rng := rand.New(rand.NewSource(MixSeed(e.seed, center)))
	e.regionCalls++

	type seedPoint struct {
		pos hex.Axial
		tt  world.TileType
	}
	var seeds []seedPoint
	pick := func(n int, tt world.TileType) {
		for i := 0; i < n; i++ {
			seeds = append(seeds, seedPoint{pos: grid[rng.Intn(len(grid))], tt: tt})
		}
	}
	pick(forestSeeds, world.TileForest)
	pick(waterSeeds, world.TileWater)
	pick(grassSeeds, world.TileGrass)

	entries := make([]regionEntry, 0, len(grid))
	if len(seeds) > 0 {
		for _, h := range grid {
			x, y := hex.ToWorld(h, 1.0)
			best := seeds[0]
			bestDist := e.jitteredDistance(h, seeds[0].pos, x, y, 0)
			for si, s := range seeds[1:] {
				d := e.jitteredDistance(h, s.pos, x, y, si+1)
				if d < bestDist {
					best = s
					bestDist = d
				}
			}
			entries = append(entries, regionEntry{Q: h.Q, R: h.R, TileType: int(best.tt)})
		}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// jitteredDistance perturbs the hex distance to a seed with noise sampled
// per seed index, so region borders wander instead of running straight.
func (e *LocalEngine) jitteredDistance(h, seed hex.Axial, x, y float64, seedIndex int) float64 {
	n := e.noise.Eval2(x*jitterFreq+float64(seedIndex)*17.0, y*jitterFreq-float64(seedIndex)*11.0)
	return float64(hex.Distance(h, seed)) + (n-0.5)*jitterScale
}

// HexAStar implements RawEngine.
func (e *LocalEngine) HexAStar(startQ, startR, goalQ, goalR int, validTerrainJSON string) (string, error) {
	valid, err := parseHexSet(validTerrainJSON)
	if err != nil {
		return "", fmt.Errorf("valid terrain: %w", err)
	}
	e.pathCalls++
	start := hex.Axial{Q: startQ, R: startR}
	goal := hex.Axial{Q: goalQ, R: goalR}
	path := hexpath.FindPath(start, goal, func(a hex.Axial) bool { return valid[a] })
	return marshalPath(path)
}

// BuildPathBetweenRoads implements RawEngine.
func (e *LocalEngine) BuildPathBetweenRoads(startQ, startR, goalQ, goalR int, validTerrainJSON, occupiedJSON string) (string, error) {
	valid, err := parseHexSet(validTerrainJSON)
	if err != nil {
		return "", fmt.Errorf("valid terrain: %w", err)
	}
	occupied, err := parseHexSet(occupiedJSON)
	if err != nil {
		return "", fmt.Errorf("occupied set: %w", err)
	}
	e.pathCalls++
	start := hex.Axial{Q: startQ, R: startR}
	goal := hex.Axial{Q: goalQ, R: goalR}
	path := hexpath.FindPath(start, goal, func(a hex.Axial) bool { return valid[a] && !occupied[a] })
	return marshalPath(path)
}

// GenerateRoadNetworkGrowingTree implements RawEngine.
func (e *LocalEngine) GenerateRoadNetworkGrowingTree(seedsJSON, validTerrainJSON, occupiedJSON string, targetCount int) (string, error) {
	var seeds []hex.Axial
	if err := json.Unmarshal([]byte(seedsJSON), &seeds); err != nil {
		return "", fmt.Errorf("seeds: %w", err)
	}
	valid, err := parseHexSet(validTerrainJSON)
	if err != nil {
		return "", fmt.Errorf("valid terrain: %w", err)
	}
	occupied, err := parseHexSet(occupiedJSON)
	if err != nil {
		return "", fmt.Errorf("occupied set: %w", err)
	}

	rngSeed := e.seed
	for _, s := range seeds {
		rngSeed = MixSeed(rngSeed, s)
	}
	rng := rand.New(rand.NewSource(rngSeed))
	roads := hexpath.GrowRoadNetwork(seeds, func(a hex.Axial) bool {
		return valid[a] && !occupied[a]
	}, targetCount, rng)

	data, err := json.Marshal(roads)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ValidateRoadConnectivity implements RawEngine.
func (e *LocalEngine) ValidateRoadConnectivity(roadsJSON string) (bool, error) {
	var roads []hex.Axial
	if err := json.Unmarshal([]byte(roadsJSON), &roads); err != nil {
		return false, fmt.Errorf("roads: %w", err)
	}
	return hexpath.Connected(roads), nil
}

// SetPreConstraint implements RawEngine.
func (e *LocalEngine) SetPreConstraint(q, r, tileType int) (bool, error) {
	tt, err := world.ParseTileType(tileType)
	if err != nil {
		return false, err
	}
	e.constraints[hex.Axial{Q: q, R: r}] = tt
	return true, nil
}

// ClearPreConstraints implements RawEngine.
func (e *LocalEngine) ClearPreConstraints() error {
	e.constraints = make(map[hex.Axial]world.TileType)
	return nil
}

// GenerateLayout implements RawEngine. The local engine applies the
// submitted constraints as-is; solving proper is the business of an external
// engine.
func (e *LocalEngine) GenerateLayout() error {
	e.layout = make(map[hex.Axial]world.TileType, len(e.constraints))
	for h, tt := range e.constraints {
		e.layout[h] = tt
	}
	e.layoutCalls++
	return nil
}

// TileAt implements RawEngine. Unconstrained hexes resolve to grass.
func (e *LocalEngine) TileAt(q, r int) (int, error) {
	if e.layout == nil {
		return 0, fmt.Errorf("no layout generated")
	}
	if tt, ok := e.layout[hex.Axial{Q: q, R: r}]; ok {
		return int(tt), nil
	}
	return int(world.TileGrass), nil
}

// ClearLayout implements RawEngine.
func (e *LocalEngine) ClearLayout() error {
	e.layout = nil
	return nil
}

// Stats implements RawEngine.
func (e *LocalEngine) Stats() (string, error) {
	data, err := json.Marshal(map[string]any{
		"version":      localVersion,
		"region_calls": e.regionCalls,
		"path_calls":   e.pathCalls,
		"layout_calls": e.layoutCalls,
		"constraints":  len(e.constraints),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Version implements RawEngine.
func (e *LocalEngine) Version() string { return localVersion }

func parseHexSet(data string) (map[hex.Axial]bool, error) {
	var hexes []hex.Axial
	if err := json.Unmarshal([]byte(data), &hexes); err != nil {
		return nil, err
	}
	set := make(map[hex.Axial]bool, len(hexes))
	for _, h := range hexes {
		set[h] = true
	}
	return set, nil
}

func marshalPath(path []hex.Axial) (string, error) {
	if path == nil {
		return "null", nil
	}
	data, err := json.Marshal(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MixSeed folds an axial coordinate into a seed with splitmix-style integer
// hashing so nearby chunks get unrelated random streams.
func MixSeed(seed int64, a hex.Axial) int64 {
	x := uint64(seed)
	x ^= uint64(uint32(a.Q)) * 0x9E3779B97F4A7C15
	x ^= uint64(uint32(a.R)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	x ^= x >> 31
	return int64(x)
}
