package world

import (
	"testing"

	"github.com/gravitas-games/hexworld/internal/hex"
)

func TestCreateChunkIdempotent(t *testing.T) {
	w := NewWorldMap(2, 1.0)
	a := w.CreateChunk(hex.Axial{})
	types := map[hex.Axial]TileType{a.Position: TileForest}
	if err := a.CacheTileTypes(types); err != nil {
		t.Fatalf("unexpected cache error: %v", err)
	}
	b := w.CreateChunk(hex.Axial{})
	if a != b {
		t.Fatalf("re-creating a chunk must return the same chunk")
	}
	if !b.TilesGenerated() {
		t.Fatalf("re-creation must not reset chunk state")
	}
	if w.ChunkCount() != 1 {
		t.Fatalf("expected 1 chunk, got %d", w.ChunkCount())
	}
}

func TestChunkForTileIndexed(t *testing.T) {
	w := NewWorldMap(2, 1.0)
	c := w.CreateChunk(hex.Axial{})
	for _, h := range c.Hexes() {
		got := w.ChunkForTile(h)
		if got != c {
			t.Fatalf("tile %v resolved to %v, want origin chunk", h, got)
		}
	}
}

func TestChunkForTileDistanceBound(t *testing.T) {
	w := NewWorldMap(1, 1.0)
	w.CreateChunk(hex.Axial{})
	// a tile with no covering chunk resolves to nil
	if got := w.ChunkForTile(hex.Axial{Q: 5, R: 5}); got != nil {
		t.Fatalf("uncovered tile resolved to chunk at %v", got.Position)
	}
	// the returned chunk center is never farther than rings from the tile
	for _, n := range hex.ChunkNeighbors(hex.Axial{}, 1) {
		w.CreateChunk(n)
	}
	for _, h := range hex.Grid(hex.Axial{}, 2) {
		c := w.ChunkForTile(h)
		if c == nil {
			t.Fatalf("tile %v should be covered", h)
		}
		if hex.Distance(h, c.Position) > 1 {
			t.Fatalf("tile %v resolved to center %v at distance %d", h, c.Position, hex.Distance(h, c.Position))
		}
	}
}

func TestChunkForTileSelfHealing(t *testing.T) {
	w := NewWorldMap(1, 1.0)
	c := w.CreateChunk(hex.Axial{})
	// corrupt the index to point at a missing chunk
	w.tileIndex[c.Position] = hex.Axial{Q: 99, R: 99}
	got := w.ChunkForTile(c.Position)
	if got != c {
		t.Fatalf("stale entry should fall back to linear scan, got %v", got)
	}
	if center, ok := w.tileIndex[c.Position]; !ok || center != c.Position {
		t.Fatalf("index not healed after fallback: %v %v", center, ok)
	}
}

func TestRemoveChunkPrunesIndex(t *testing.T) {
	w := NewWorldMap(1, 1.0)
	c := w.CreateChunk(hex.Axial{})
	hexes := c.Hexes()
	w.RemoveChunk(c.Position)
	if w.ChunkCount() != 0 {
		t.Fatalf("chunk not removed")
	}
	for _, h := range hexes {
		if got := w.ChunkForTile(h); got != nil {
			t.Fatalf("tile %v still resolves after removal", h)
		}
	}
}

func TestEnabledChunks(t *testing.T) {
	w := NewWorldMap(1, 1.0)
	a := w.CreateChunk(hex.Axial{})
	b := w.CreateChunk(hex.ChunkNeighbors(hex.Axial{}, 1)[0])
	b.SetEnabled(false)
	enabled := w.EnabledChunks()
	if len(enabled) != 1 || enabled[0] != a {
		t.Fatalf("expected only the origin chunk enabled, got %d", len(enabled))
	}
}
