package world

import (
	"errors"
	"fmt"

	"github.com/gravitas-games/hexworld/internal/hex"
)

// ErrTilesLocked is returned when a caller tries to cache tile types into a
// chunk whose composition is already generated.
var ErrTilesLocked = errors.New("chunk tiles already generated")

// Chunk is a fixed hexagonal cluster of tiles, the unit of streaming and
// caching. A chunk is created exactly once per center coordinate, toggled
// enabled/disabled by the streamer, and has its tile composition cached
// exactly once after resolution.
type Chunk struct {
	Position hex.Axial
	Rings    int
	HexSize  float64

	// Neighbors are the six sibling chunk centers, computed once at
	// construction.
	Neighbors []hex.Axial

	tiles   []ChunkTile
	byHex   map[hex.Axial]int
	enabled bool

	// tilesGenerated is a one-way latch: once true the composition never
	// changes again.
	tilesGenerated bool
}

// NewChunk constructs a chunk centered at pos covering every hex within
// rings distance. A grid size that disagrees with 3*rings*(rings+1)+1 is a
// programmer error and panics.
func NewChunk(pos hex.Axial, rings int, hexSize float64) *Chunk {
	grid := hex.Grid(pos, rings)
	if len(grid) != hex.GridSize(rings) {
		panic(fmt.Sprintf("chunk grid at %v has %d hexes, want %d", pos, len(grid), hex.GridSize(rings)))
	}

	c := &Chunk{
		Position:  pos,
		Rings:     rings,
		HexSize:   hexSize,
		Neighbors: hex.ChunkNeighbors(pos, rings),
		tiles:     make([]ChunkTile, len(grid)),
		byHex:     make(map[hex.Axial]int, len(grid)),
		enabled:   true,
	}
	for i, h := range grid {
		c.tiles[i] = ChunkTile{
			Hex:        h,
			Type:       TileUnset,
			Enabled:    true,
			InstanceID: fmt.Sprintf("%d:%d/%d:%d", pos.Q, pos.R, h.Q, h.R),
		}
		c.byHex[h] = i
	}
	return c
}

// Enabled reports whether the chunk is currently enabled.
func (c *Chunk) Enabled() bool { return c.enabled }

// SetEnabled toggles the chunk and all of its tiles. Disabling never
// destroys cached tile types, so re-enabling is free and preserves the
// composition.
func (c *Chunk) SetEnabled(enabled bool) {
	c.enabled = enabled
	for i := range c.tiles {
		c.tiles[i].Enabled = enabled
	}
}

// Contains reports whether the chunk owns the given hex.
func (c *Chunk) Contains(h hex.Axial) bool {
	_, ok := c.byHex[h]
	return ok
}

// TileAt returns the tile at the given hex, or false if the chunk does not
// own it.
func (c *Chunk) TileAt(h hex.Axial) (ChunkTile, bool) {
	i, ok := c.byHex[h]
	if !ok {
		return ChunkTile{}, false
	}
	return c.tiles[i], true
}

// Tiles returns a copy of the chunk's tile grid.
func (c *Chunk) Tiles() []ChunkTile {
	out := make([]ChunkTile, len(c.tiles))
	copy(out, c.tiles)
	return out
}

// Hexes returns the hex coordinates covered by the chunk.
func (c *Chunk) Hexes() []hex.Axial {
	out := make([]hex.Axial, len(c.tiles))
	for i, t := range c.tiles {
		out[i] = t.Hex
	}
	return out
}

// TilesGenerated reports whether the composition latch is set.
func (c *Chunk) TilesGenerated() bool { return c.tilesGenerated }

// HasAllTileTypes reports whether every tile has a resolved type.
func (c *Chunk) HasAllTileTypes() bool {
	for _, t := range c.tiles {
		if t.Type == TileUnset {
			return false
		}
	}
	return true
}

// RenderReady reports whether the chunk can be handed to a renderer:
// generated and fully typed.
func (c *Chunk) RenderReady() bool {
	return c.tilesGenerated && c.HasAllTileTypes()
}

// CacheTileTypes applies a resolved composition and sets the generation
// latch. It is refused once the latch is set; hexes missing from types keep
// TileUnset.
func (c *Chunk) CacheTileTypes(types map[hex.Axial]TileType) error {
	if c.tilesGenerated {
		return ErrTilesLocked
	}
	for i := range c.tiles {
		if tt, ok := types[c.tiles[i].Hex]; ok {
			c.tiles[i].Type = tt
		}
	}
	c.tilesGenerated = true
	return nil
}

// Composition returns per-type tile counts. Useful for logs and the offline
// generation probe.
func (c *Chunk) Composition() map[TileType]int {
	out := make(map[TileType]int)
	for _, t := range c.tiles {
		out[t.Type]++
	}
	return out
}
