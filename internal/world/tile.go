package world

import (
	"fmt"

	"github.com/gravitas-games/hexworld/internal/hex"
)

// TileType identifies the resolved terrain of a tile. The numeric values are
// the wire encoding shared with the tile resolution engine.
type TileType int

const (
	TileGrass    TileType = 0
	TileBuilding TileType = 1
	TileRoad     TileType = 2
	TileForest   TileType = 3
	TileWater    TileType = 4

	// TileUnset marks a tile whose owning chunk has not been resolved yet.
	TileUnset TileType = -1
)

// String returns the tile type name.
func (t TileType) String() string {
	switch t {
	case TileGrass:
		return "grass"
	case TileBuilding:
		return "building"
	case TileRoad:
		return "road"
	case TileForest:
		return "forest"
	case TileWater:
		return "water"
	case TileUnset:
		return "unset"
	default:
		return fmt.Sprintf("tiletype(%d)", int(t))
	}
}

// ParseTileType converts the engine's numeric encoding to a TileType.
func ParseTileType(n int) (TileType, error) {
	t := TileType(n)
	switch t {
	case TileGrass, TileBuilding, TileRoad, TileForest, TileWater:
		return t, nil
	}
	return TileUnset, fmt.Errorf("unknown tile type %d", n)
}

// ChunkTile is a single tile owned by a chunk. InstanceID is a stable
// identifier renderers use to address the tile's visual; it is assigned by
// the owning chunk and never changes.
type ChunkTile struct {
	Hex        hex.Axial `json:"hex"`
	Type       TileType  `json:"type"`
	Enabled    bool      `json:"enabled"`
	InstanceID string    `json:"instance_id"`
}
