package layout

import (
	"context"
	"errors"
	"log"
	"math"
	"math/rand"

	"github.com/gravitas-games/hexworld/internal/hex"
	"github.com/gravitas-games/hexworld/internal/resolve"
	"github.com/gravitas-games/hexworld/internal/world"
)

// ChunkCache persists resolved chunk compositions across runs. Load returns
// false on a miss; implementations absorb backend failures themselves (a
// cache being down must not break generation).
type ChunkCache interface {
	Load(ctx context.Context, center hex.Axial) (map[hex.Axial]world.TileType, bool)
	Store(ctx context.Context, center hex.Axial, types map[hex.Axial]world.TileType)
}

// Generator turns layout parameters into a concrete per-hex constraint list
// for a chunk and drives the tile resolution engine to a final composition.
// Generation is deterministic per chunk: the random stream is derived from
// the world seed and the chunk center.
type Generator struct {
	engine *resolve.Adapter
	seed   int64
	params Params
	cache  ChunkCache
}

// Option configures a Generator.
type Option func(*Generator)

// WithCache attaches a chunk composition cache.
func WithCache(c ChunkCache) Option {
	return func(g *Generator) { g.cache = c }
}

// NewGenerator creates a constraint generator bound to an engine adapter.
func NewGenerator(engine *resolve.Adapter, seed int64, params Params, opts ...Option) (*Generator, error) {
	if engine == nil {
		return nil, errors.New("layout: nil engine adapter")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	g := &Generator{engine: engine, seed: seed, params: params}
	for _, o := range opts {
		o(g)
	}
	return g, nil
}

// EnsureChunkTiles resolves the chunk's tile composition if it is not
// already generated. A cached composition is restored without touching the
// engine; otherwise the full pipeline runs and the result is offered to the
// cache. Never re-submits constraints for a generated chunk.
func (g *Generator) EnsureChunkTiles(ctx context.Context, chunk *world.Chunk) error {
	if chunk.TilesGenerated() {
		return nil
	}
	if g.cache != nil {
		if types, ok := g.cache.Load(ctx, chunk.Position); ok {
			log.Printf("layout: restored chunk %v composition from cache", chunk.Position)
			return chunk.CacheTileTypes(types)
		}
	}

	hexes := chunk.Hexes()
	constraints := g.GenerateConstraints(chunk.Position, chunk.Rings, hexes)
	types, err := g.engine.Resolve(constraints, hexes)
	if err != nil {
		// degrade to an all-grass fill rather than propagate
		log.Printf("layout: engine resolve failed for chunk %v: %v", chunk.Position, err)
		types = make(map[hex.Axial]world.TileType, len(hexes))
		for _, h := range hexes {
			types[h] = world.TileGrass
		}
	}
	if err := chunk.CacheTileTypes(types); err != nil {
		return err
	}
	if g.cache != nil {
		g.cache.Store(ctx, chunk.Position, types)
	}
	return nil
}

// GenerateConstraints runs the region/road/building pipeline over the hex
// set and returns one constraint per hex. Output order is regions, then
// buildings, then roads, then the grass fill; later entries for the same hex
// take precedence when the engine applies them.
func (g *Generator) GenerateConstraints(center hex.Axial, rings int, hexes []hex.Axial) []resolve.Constraint {
	rng := rand.New(rand.NewSource(resolve.MixSeed(g.seed, center)))

	// stage 1: region seeding
	forestSeeds, waterSeeds, grassSeeds := g.params.seedCounts()
	regions, err := g.engine.Regions(rings, center, forestSeeds, waterSeeds, grassSeeds)
	if err != nil {
		// zero results: the pipeline below degrades to an all-grass fill
		log.Printf("layout: region seeding failed for chunk %v: %v", center, err)
		regions = nil
	}
	regionType := make(map[hex.Axial]world.TileType, len(regions))
	for _, c := range regions {
		regionType[c.Hex] = c.Type
	}

	// stage 2: occupancy. Only water blocks later stages; grass and forest
	// stay overridable.
	var occupied, validTerrain []hex.Axial
	for _, h := range hexes {
		tt, ok := regionType[h]
		if !ok {
			continue
		}
		switch tt {
		case world.TileWater:
			occupied = append(occupied, h)
		case world.TileGrass, world.TileForest:
			validTerrain = append(validTerrain, h)
		}
	}

	// stage 3: road network
	roads := g.growRoads(center, validTerrain, occupied, rng)
	roadSet := make(map[hex.Axial]bool, len(roads))
	for _, r := range roads {
		roadSet[r] = true
	}

	// stage 4: buildings
	buildings := g.placeBuildings(validTerrain, roadSet, rng)

	// stage 5: assemble with the grass fill for anything untouched
	out := make([]resolve.Constraint, 0, len(hexes)+len(roads)+len(buildings))
	assigned := make(map[hex.Axial]bool, len(hexes))
	for _, c := range regions {
		out = append(out, c)
		assigned[c.Hex] = true
	}
	for _, b := range buildings {
		out = append(out, resolve.Constraint{Hex: b, Type: world.TileBuilding})
		assigned[b] = true
	}
	for _, r := range roads {
		out = append(out, resolve.Constraint{Hex: r, Type: world.TileRoad})
		assigned[r] = true
	}
	for _, h := range hexes {
		if !assigned[h] {
			out = append(out, resolve.Constraint{Hex: h, Type: world.TileGrass})
		}
	}
	return out
}

// growRoads picks seed hexes on valid terrain and asks the engine for a
// growing-tree network, then re-validates connectivity.
func (g *Generator) growRoads(center hex.Axial, validTerrain, occupied []hex.Axial, rng *rand.Rand) []hex.Axial {
	target := int(float64(len(validTerrain)) * g.params.RoadDensity)
	if target <= 0 {
		return nil
	}
	seedCount := int(math.Ceil(0.25 * float64(target)))
	seeds := make([]hex.Axial, 0, seedCount)
	perm := rng.Perm(len(validTerrain))
	for i := 0; i < seedCount && i < len(validTerrain); i++ {
		seeds = append(seeds, validTerrain[perm[i]])
	}

	roads, err := g.engine.RoadNetwork(seeds, validTerrain, occupied, target)
	if err != nil {
		log.Printf("layout: road network failed for chunk %v: %v", center, err)
		return nil
	}
	ok, err := g.engine.ValidateConnectivity(roads)
	if err != nil {
		log.Printf("layout: road validation failed for chunk %v: %v", center, err)
	} else if !ok {
		// should not occur given construction; non-fatal
		log.Printf("layout: ERROR road network for chunk %v is not connected", center)
	}
	return roads
}

// placeBuildings shuffles the candidate hexes that touch enough roads and
// takes the first targetCount of them.
func (g *Generator) placeBuildings(validTerrain []hex.Axial, roadSet map[hex.Axial]bool, rng *rand.Rand) []hex.Axial {
	var candidates []hex.Axial
	for _, h := range validTerrain {
		if roadSet[h] {
			continue
		}
		adjacent := 0
		for _, n := range hex.Neighbors(h) {
			if roadSet[n] {
				adjacent++
			}
		}
		if adjacent >= g.params.MinAdjacentRoads {
			candidates = append(candidates, h)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	target := g.params.BuildingCount
	if target <= 0 {
		target = int(float64(len(candidates)) * g.params.BuildingDensity.Ratio())
	}
	if target > len(candidates) {
		target = len(candidates)
	}
	return candidates[:target]
}
