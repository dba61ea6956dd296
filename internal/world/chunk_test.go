package world

import (
	"testing"

	"github.com/gravitas-games/hexworld/internal/hex"
)

func TestNewChunkTileCount(t *testing.T) {
	for rings := 0; rings <= 4; rings++ {
		c := NewChunk(hex.Axial{}, rings, 1.0)
		want := 3*rings*(rings+1) + 1
		if len(c.Tiles()) != want {
			t.Fatalf("rings=%d: chunk has %d tiles, want %d", rings, len(c.Tiles()), want)
		}
		if len(c.Neighbors) != 6 {
			t.Fatalf("rings=%d: chunk has %d neighbors, want 6", rings, len(c.Neighbors))
		}
	}
}

func TestChunkRingsOneScenario(t *testing.T) {
	c := NewChunk(hex.Axial{}, 1, 1.0)
	if len(c.Tiles()) != 7 {
		t.Fatalf("rings=1 chunk should have 7 tiles, got %d", len(c.Tiles()))
	}
	for _, n := range c.Neighbors {
		if hex.Distance(c.Position, n) != 3 {
			t.Fatalf("neighbor %v at distance %d, want 3", n, hex.Distance(c.Position, n))
		}
	}
}

func TestChunkEnableDisablePreservesTypes(t *testing.T) {
	c := NewChunk(hex.Axial{}, 1, 1.0)
	types := map[hex.Axial]TileType{}
	for _, h := range c.Hexes() {
		types[h] = TileRoad
	}
	if err := c.CacheTileTypes(types); err != nil {
		t.Fatalf("unexpected cache error: %v", err)
	}
	c.SetEnabled(false)
	for _, tile := range c.Tiles() {
		if tile.Enabled {
			t.Fatalf("tile %v still enabled after disable", tile.Hex)
		}
		if tile.Type != TileRoad {
			t.Fatalf("tile %v lost its type on disable", tile.Hex)
		}
	}
	c.SetEnabled(true)
	for _, tile := range c.Tiles() {
		if !tile.Enabled || tile.Type != TileRoad {
			t.Fatalf("re-enable did not preserve composition for %v", tile.Hex)
		}
	}
}

func TestChunkGenerationLatch(t *testing.T) {
	c := NewChunk(hex.Axial{}, 1, 1.0)
	if c.TilesGenerated() || c.RenderReady() {
		t.Fatalf("fresh chunk should not be generated")
	}
	types := map[hex.Axial]TileType{}
	for _, h := range c.Hexes() {
		types[h] = TileGrass
	}
	if err := c.CacheTileTypes(types); err != nil {
		t.Fatalf("unexpected cache error: %v", err)
	}
	if !c.TilesGenerated() || !c.RenderReady() {
		t.Fatalf("chunk should be render-ready after caching")
	}
	// the latch is one-way: a second submission is refused
	override := map[hex.Axial]TileType{c.Position: TileWater}
	if err := c.CacheTileTypes(override); err != ErrTilesLocked {
		t.Fatalf("expected ErrTilesLocked, got %v", err)
	}
	if tile, _ := c.TileAt(c.Position); tile.Type != TileGrass {
		t.Fatalf("locked composition was mutated")
	}
}

func TestChunkPartialCacheNotRenderReady(t *testing.T) {
	c := NewChunk(hex.Axial{}, 1, 1.0)
	if err := c.CacheTileTypes(map[hex.Axial]TileType{c.Position: TileGrass}); err != nil {
		t.Fatalf("unexpected cache error: %v", err)
	}
	if !c.TilesGenerated() {
		t.Fatalf("latch should be set even for partial composition")
	}
	if c.RenderReady() {
		t.Fatalf("chunk with unset tiles must not be render-ready")
	}
}

func TestTileTypeStrings(t *testing.T) {
	cases := map[TileType]string{
		TileGrass:    "grass",
		TileBuilding: "building",
		TileRoad:     "road",
		TileForest:   "forest",
		TileWater:    "water",
		TileUnset:    "unset",
	}
	for tt, want := range cases {
		if tt.String() != want {
			t.Fatalf("String(%d) = %q, want %q", int(tt), tt.String(), want)
		}
	}
	if _, err := ParseTileType(9); err == nil {
		t.Fatalf("expected error for unknown tile type")
	}
	if tt, err := ParseTileType(2); err != nil || tt != TileRoad {
		t.Fatalf("ParseTileType(2) = %v, %v", tt, err)
	}
}
