package layout

import (
	"context"
	"errors"
	"testing"

	"github.com/gravitas-games/hexworld/internal/hex"
	"github.com/gravitas-games/hexworld/internal/resolve"
	"github.com/gravitas-games/hexworld/internal/world"
)

func newTestGenerator(t *testing.T, seed int64, params Params, opts ...Option) *Generator {
	t.Helper()
	adapter, err := resolve.NewAdapter(resolve.NewLocalEngine(seed))
	if err != nil {
		t.Fatalf("unexpected adapter error: %v", err)
	}
	g, err := NewGenerator(adapter, seed, params, opts...)
	if err != nil {
		t.Fatalf("unexpected generator error: %v", err)
	}
	return g
}

func constraintsByStage(cs []resolve.Constraint) map[hex.Axial]world.TileType {
	// later entries win, mirroring how the engine applies them
	out := make(map[hex.Axial]world.TileType, len(cs))
	for _, c := range cs {
		out[c.Hex] = c.Type
	}
	return out
}

func TestGenerateConstraintsFullCoverage(t *testing.T) {
	g := newTestGenerator(t, 11, DefaultParams())
	hexes := hex.Grid(hex.Axial{}, 3)
	cs := g.GenerateConstraints(hex.Axial{}, 3, hexes)
	final := constraintsByStage(cs)
	if len(final) != len(hexes) {
		t.Fatalf("constraints cover %d hexes, want %d", len(final), len(hexes))
	}
	for _, h := range hexes {
		if _, ok := final[h]; !ok {
			t.Fatalf("hex %v has no constraint", h)
		}
	}
}

func TestGenerateConstraintsWaterNeverOverridden(t *testing.T) {
	params := DefaultParams()
	params.PrimaryType = world.TileWater
	params.RoadDensity = 0.4
	params.BuildingDensity = DensityDense
	g := newTestGenerator(t, 23, params)
	hexes := hex.Grid(hex.Axial{}, 4)
	cs := g.GenerateConstraints(hex.Axial{}, 4, hexes)

	water := map[hex.Axial]bool{}
	for _, c := range cs {
		if c.Type == world.TileWater {
			water[c.Hex] = true
		}
	}
	if len(water) == 0 {
		t.Fatalf("water emphasis should produce water hexes")
	}
	for _, c := range cs {
		if water[c.Hex] && (c.Type == world.TileRoad || c.Type == world.TileBuilding) {
			t.Fatalf("water hex %v overridden by %v", c.Hex, c.Type)
		}
	}
}

func TestGenerateConstraintsBuildingAdjacency(t *testing.T) {
	for _, minAdj := range []int{1, 2} {
		params := DefaultParams()
		params.MinAdjacentRoads = minAdj
		params.BuildingDensity = DensityDense
		g := newTestGenerator(t, 31, params)
		hexes := hex.Grid(hex.Axial{}, 4)
		cs := g.GenerateConstraints(hex.Axial{}, 4, hexes)
		final := constraintsByStage(cs)

		for h, tt := range final {
			if tt != world.TileBuilding {
				continue
			}
			adjacent := 0
			for _, n := range hex.Neighbors(h) {
				if final[n] == world.TileRoad {
					adjacent++
				}
			}
			if adjacent < minAdj {
				t.Fatalf("minAdj=%d: building at %v has only %d adjacent roads", minAdj, h, adjacent)
			}
		}
	}
}

func TestGenerateConstraintsRoadsConnected(t *testing.T) {
	g := newTestGenerator(t, 47, DefaultParams())
	hexes := hex.Grid(hex.Axial{}, 4)
	cs := g.GenerateConstraints(hex.Axial{}, 4, hexes)
	final := constraintsByStage(cs)
	var roads []hex.Axial
	for h, tt := range final {
		if tt == world.TileRoad {
			roads = append(roads, h)
		}
	}
	adapter, _ := resolve.NewAdapter(resolve.NewLocalEngine(47))
	ok, err := adapter.ValidateConnectivity(roads)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("placed roads are not connected")
	}
}

func TestGenerateConstraintsDeterministic(t *testing.T) {
	hexes := hex.Grid(hex.Axial{Q: 2, R: -1}, 3)
	a := newTestGenerator(t, 99, DefaultParams()).GenerateConstraints(hex.Axial{Q: 2, R: -1}, 3, hexes)
	b := newTestGenerator(t, 99, DefaultParams()).GenerateConstraints(hex.Axial{Q: 2, R: -1}, 3, hexes)
	if len(a) != len(b) {
		t.Fatalf("constraint counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("constraint %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestExplicitBuildingCount(t *testing.T) {
	params := DefaultParams()
	params.BuildingCount = 3
	g := newTestGenerator(t, 7, params)
	hexes := hex.Grid(hex.Axial{}, 4)
	final := constraintsByStage(g.GenerateConstraints(hex.Axial{}, 4, hexes))
	buildings := 0
	for _, tt := range final {
		if tt == world.TileBuilding {
			buildings++
		}
	}
	if buildings > 3 {
		t.Fatalf("expected at most 3 buildings, got %d", buildings)
	}
}

// failingEngine breaks every query so generation has to degrade.
type failingEngine struct{ resolve.LocalEngine }

func (f *failingEngine) GenerateVoronoiRegions(rings, cq, cr, fs, ws, gs int) (string, error) {
	return "", errors.New("engine gone")
}

func (f *failingEngine) GenerateLayout() error {
	return errors.New("engine gone")
}

func TestEnsureChunkTilesDegradesToGrass(t *testing.T) {
	adapter, err := resolve.NewAdapter(&failingEngine{})
	if err != nil {
		t.Fatalf("unexpected adapter error: %v", err)
	}
	g, err := NewGenerator(adapter, 1, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected generator error: %v", err)
	}
	chunk := world.NewChunk(hex.Axial{}, 2, 1.0)
	if err := g.EnsureChunkTiles(context.Background(), chunk); err != nil {
		t.Fatalf("engine failure must not propagate: %v", err)
	}
	if !chunk.RenderReady() {
		t.Fatalf("chunk should be render-ready after grass fill")
	}
	for _, tile := range chunk.Tiles() {
		if tile.Type != world.TileGrass {
			t.Fatalf("degraded fill should be all grass, got %v at %v", tile.Type, tile.Hex)
		}
	}
}

func TestEnsureChunkTilesRespectsLatch(t *testing.T) {
	g := newTestGenerator(t, 3, DefaultParams())
	chunk := world.NewChunk(hex.Axial{}, 1, 1.0)
	types := map[hex.Axial]world.TileType{}
	for _, h := range chunk.Hexes() {
		types[h] = world.TileForest
	}
	if err := chunk.CacheTileTypes(types); err != nil {
		t.Fatalf("unexpected cache error: %v", err)
	}
	if err := g.EnsureChunkTiles(context.Background(), chunk); err != nil {
		t.Fatalf("generated chunk should be a no-op: %v", err)
	}
	for _, tile := range chunk.Tiles() {
		if tile.Type != world.TileForest {
			t.Fatalf("latched composition was regenerated")
		}
	}
}

// memoryCache is a ChunkCache backed by a plain map.
type memoryCache struct {
	entries map[hex.Axial]map[hex.Axial]world.TileType
	stores  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[hex.Axial]map[hex.Axial]world.TileType)}
}

func (m *memoryCache) Load(_ context.Context, center hex.Axial) (map[hex.Axial]world.TileType, bool) {
	types, ok := m.entries[center]
	return types, ok
}

func (m *memoryCache) Store(_ context.Context, center hex.Axial, types map[hex.Axial]world.TileType) {
	m.entries[center] = types
	m.stores++
}

func TestEnsureChunkTilesUsesCache(t *testing.T) {
	cache := newMemoryCache()
	g := newTestGenerator(t, 13, DefaultParams(), WithCache(cache))

	first := world.NewChunk(hex.Axial{}, 2, 1.0)
	if err := g.EnsureChunkTiles(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.stores != 1 {
		t.Fatalf("expected one cache store, got %d", cache.stores)
	}

	// a fresh chunk at the same center restores the cached composition
	second := world.NewChunk(hex.Axial{}, 2, 1.0)
	if err := g.EnsureChunkTiles(context.Background(), second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.stores != 1 {
		t.Fatalf("cache hit should not store again, got %d stores", cache.stores)
	}
	firstTiles := first.Tiles()
	for i, tile := range second.Tiles() {
		if tile.Type != firstTiles[i].Type {
			t.Fatalf("restored composition differs at %v", tile.Hex)
		}
	}
}

func TestParamsValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Params)
		ok     bool
	}{
		{"defaults", func(p *Params) {}, true},
		{"road density negative", func(p *Params) { p.RoadDensity = -0.1 }, false},
		{"road density above one", func(p *Params) { p.RoadDensity = 1.5 }, false},
		{"min adjacent roads too high", func(p *Params) { p.MinAdjacentRoads = 7 }, false},
		{"zero base seeds", func(p *Params) { p.BaseSeeds = 0 }, false},
		{"building primary type", func(p *Params) { p.PrimaryType = world.TileBuilding }, false},
		{"water primary type", func(p *Params) { p.PrimaryType = world.TileWater }, true},
	}
	for _, tc := range cases {
		p := DefaultParams()
		tc.mutate(&p)
		err := p.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestSeedCountsEmphasis(t *testing.T) {
	p := DefaultParams()
	p.BaseSeeds = 4
	p.MinSeeds = 1
	p.PrimaryType = world.TileForest
	f, w, g := p.seedCounts()
	if f != 8 || w != 2 || g != 2 {
		t.Fatalf("forest emphasis gave %d/%d/%d, want 8/2/2", f, w, g)
	}
	p.BaseSeeds = 1
	p.MinSeeds = 1
	f, w, g = p.seedCounts()
	if f != 2 || w != 1 || g != 1 {
		t.Fatalf("halving must floor at MinSeeds, got %d/%d/%d", f, w, g)
	}
}
