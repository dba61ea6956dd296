package layout

import (
	"fmt"

	"github.com/gravitas-games/hexworld/internal/world"
)

// BuildingDensity selects how much of the buildable terrain gets a building.
type BuildingDensity int

const (
	DensitySparse BuildingDensity = iota
	DensityMedium
	DensityDense
)

// Ratio returns the fraction of candidate hexes that receive a building.
func (d BuildingDensity) Ratio() float64 {
	switch d {
	case DensitySparse:
		return 0.05
	case DensityMedium:
		return 0.10
	case DensityDense:
		return 0.15
	default:
		return 0.10
	}
}

// String returns the density name.
func (d BuildingDensity) String() string {
	switch d {
	case DensitySparse:
		return "sparse"
	case DensityMedium:
		return "medium"
	case DensityDense:
		return "dense"
	default:
		return fmt.Sprintf("density(%d)", int(d))
	}
}

// Params are the high-level layout parameters the generator turns into
// per-hex constraints.
type Params struct {
	// RoadDensity is the fraction of valid terrain that becomes road.
	RoadDensity float64

	// BuildingDensity picks the placement ratio when BuildingCount is 0.
	BuildingDensity BuildingDensity

	// BuildingCount, when positive, overrides the density-derived target.
	BuildingCount int

	// MinAdjacentRoads is the adjacency requirement for building candidates.
	MinAdjacentRoads int

	// PrimaryType emphasizes one biome: its region seed count doubles and
	// the other two halve, floored at MinSeeds. TileUnset means no emphasis.
	PrimaryType world.TileType

	// BaseSeeds is the per-type region seed count before emphasis.
	BaseSeeds int

	// MinSeeds floors every per-type seed count.
	MinSeeds int
}

// DefaultParams returns the generation defaults.
func DefaultParams() Params {
	return Params{
		RoadDensity:      0.15,
		BuildingDensity:  DensityMedium,
		MinAdjacentRoads: 1,
		PrimaryType:      world.TileUnset,
		BaseSeeds:        3,
		MinSeeds:         1,
	}
}

// Validate rejects parameter combinations the pipeline cannot honor.
func (p Params) Validate() error {
	if p.RoadDensity < 0 || p.RoadDensity > 1 {
		return fmt.Errorf("road density %v out of range [0,1]", p.RoadDensity)
	}
	if p.MinAdjacentRoads < 0 || p.MinAdjacentRoads > 6 {
		return fmt.Errorf("min adjacent roads %d out of range [0,6]", p.MinAdjacentRoads)
	}
	if p.BaseSeeds < 1 {
		return fmt.Errorf("base seeds must be at least 1, got %d", p.BaseSeeds)
	}
	if p.MinSeeds < 0 {
		return fmt.Errorf("min seeds must not be negative, got %d", p.MinSeeds)
	}
	switch p.PrimaryType {
	case world.TileUnset, world.TileGrass, world.TileForest, world.TileWater:
	default:
		return fmt.Errorf("primary type %v is not a region type", p.PrimaryType)
	}
	return nil
}

// seedCounts derives the per-type region seed counts, applying the
// primary-type emphasis.
func (p Params) seedCounts() (forest, water, grass int) {
	forest, water, grass = p.BaseSeeds, p.BaseSeeds, p.BaseSeeds
	double := func(n int) int { return n * 2 }
	halve := func(n int) int {
		n /= 2
		if n < p.MinSeeds {
			n = p.MinSeeds
		}
		return n
	}
	switch p.PrimaryType {
	case world.TileForest:
		forest, water, grass = double(forest), halve(water), halve(grass)
	case world.TileWater:
		forest, water, grass = halve(forest), double(water), halve(grass)
	case world.TileGrass:
		forest, water, grass = halve(forest), halve(water), double(grass)
	}
	return forest, water, grass
}
