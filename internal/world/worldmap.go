package world

import (
	"log"

	"github.com/gravitas-games/hexworld/internal/hex"
)

// WorldMap owns every chunk, keyed by chunk center, plus a spatial index
// mapping each tile hex to its owning chunk center for O(1) containment
// lookup. The index is populated eagerly on chunk creation and purged on
// removal; stale entries are healed lazily on lookup.
type WorldMap struct {
	rings   int
	hexSize float64

	chunks    map[hex.Axial]*Chunk
	tileIndex map[hex.Axial]hex.Axial
}

// NewWorldMap creates an empty world for chunks of the given radius and hex
// size.
func NewWorldMap(rings int, hexSize float64) *WorldMap {
	return &WorldMap{
		rings:     rings,
		hexSize:   hexSize,
		chunks:    make(map[hex.Axial]*Chunk),
		tileIndex: make(map[hex.Axial]hex.Axial),
	}
}

// Rings returns the chunk radius used by this world.
func (w *WorldMap) Rings() int { return w.rings }

// HexSize returns the hex radius in world units.
func (w *WorldMap) HexSize() float64 { return w.hexSize }

// CreateChunk returns the chunk centered at pos, constructing it on first
// request. Creation is idempotent: an existing chunk is returned unchanged.
func (w *WorldMap) CreateChunk(pos hex.Axial) *Chunk {
	if c, ok := w.chunks[pos]; ok {
		return c
	}
	c := NewChunk(pos, w.rings, w.hexSize)
	w.chunks[pos] = c
	for _, h := range c.Hexes() {
		w.tileIndex[h] = pos
	}
	return c
}

// ChunkAt returns the chunk centered at pos, if any.
func (w *WorldMap) ChunkAt(pos hex.Axial) (*Chunk, bool) {
	c, ok := w.chunks[pos]
	return c, ok
}

// RemoveChunk destroys the chunk at pos and prunes its spatial index
// entries.
func (w *WorldMap) RemoveChunk(pos hex.Axial) {
	c, ok := w.chunks[pos]
	if !ok {
		return
	}
	for _, h := range c.Hexes() {
		if w.tileIndex[h] == pos {
			delete(w.tileIndex, h)
		}
	}
	delete(w.chunks, pos)
}

// ChunkForTile returns the chunk owning the given tile hex, or nil if no
// chunk contains it. The spatial index gives O(1) lookup; a stale entry is
// deleted and the lookup falls back to a linear scan choosing the closest
// qualifying center.
func (w *WorldMap) ChunkForTile(tile hex.Axial) *Chunk {
	if center, ok := w.tileIndex[tile]; ok {
		if c, ok := w.chunks[center]; ok && c.Contains(tile) {
			return c
		}
		// self-heal: the chunk is gone or no longer owns the tile
		log.Printf("worldmap: stale spatial index entry %v -> %v", tile, center)
		delete(w.tileIndex, tile)
	}

	var best *Chunk
	bestDist := 0
	for center, c := range w.chunks {
		d := hex.Distance(tile, center)
		if d > w.rings {
			continue
		}
		if best == nil || d < bestDist {
			best = c
			bestDist = d
		}
	}
	if best != nil {
		w.tileIndex[tile] = best.Position
	}
	return best
}

// Chunks returns every chunk in the world. The slice is a snapshot; the
// chunks themselves are shared.
func (w *WorldMap) Chunks() []*Chunk {
	out := make([]*Chunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		out = append(out, c)
	}
	return out
}

// EnabledChunks returns the chunks currently enabled for rendering.
func (w *WorldMap) EnabledChunks() []*Chunk {
	out := make([]*Chunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		if c.Enabled() {
			out = append(out, c)
		}
	}
	return out
}

// ChunkCount returns the number of chunks in the world.
func (w *WorldMap) ChunkCount() int { return len(w.chunks) }
