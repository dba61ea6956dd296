package resolve

import (
	"github.com/gravitas-games/hexworld/internal/hex"
	"github.com/gravitas-games/hexworld/internal/world"
)

// RawEngine is the tile resolution engine exactly as the external component
// exposes it: primitives in, JSON-encoded hex coordinate arrays in and out.
// Implementations are synchronous and non-reentrant; callers drive them from
// a single goroutine.
type RawEngine interface {
	// GenerateVoronoiRegions seeds forest/water/grass regions over the hex
	// grid of the given radius around (centerQ, centerR) and returns a JSON
	// array of {q, r, tileType} entries.
	GenerateVoronoiRegions(rings, centerQ, centerR, forestSeeds, waterSeeds, grassSeeds int) (string, error)

	// HexAStar returns a JSON path between start and goal over the valid
	// terrain set, or the literal string "null" when no path exists.
	HexAStar(startQ, startR, goalQ, goalR int, validTerrainJSON string) (string, error)

	// BuildPathBetweenRoads is HexAStar restricted further by an occupied
	// set.
	BuildPathBetweenRoads(startQ, startR, goalQ, goalR int, validTerrainJSON, occupiedJSON string) (string, error)

	// GenerateRoadNetworkGrowingTree grows a connected road network from the
	// seed set and returns the JSON list of road hexes.
	GenerateRoadNetworkGrowingTree(seedsJSON, validTerrainJSON, occupiedJSON string, targetCount int) (string, error)

	// ValidateRoadConnectivity reports whether the road set is a single
	// connected component.
	ValidateRoadConnectivity(roadsJSON string) (bool, error)

	SetPreConstraint(q, r, tileType int) (bool, error)
	ClearPreConstraints() error
	GenerateLayout() error
	TileAt(q, r int) (int, error)
	ClearLayout() error

	Stats() (string, error)
	Version() string
}

// Constraint is one pre-constraint handed to the engine: the given hex
// should resolve to the given tile type.
type Constraint struct {
	Hex  hex.Axial
	Type world.TileType
}
