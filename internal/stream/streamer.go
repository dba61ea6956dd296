package stream

import (
	"context"
	"log"
	"math"

	"github.com/gravitas-games/hexworld/internal/hex"
	"github.com/gravitas-games/hexworld/internal/world"
)

// Observer is the collaborator whose position drives streaming.
type Observer interface {
	// CurrentTileHex returns the tile the observer currently stands on.
	CurrentTileHex(hexSize float64) hex.Axial
	// IsEnabled reports whether the observer is interactive; a disabled
	// observer makes streaming a no-op.
	IsEnabled() bool
}

// TileGenerator resolves tile compositions for chunks that lack them.
type TileGenerator interface {
	EnsureChunkTiles(ctx context.Context, chunk *world.Chunk) error
}

// Streamer decides which chunks exist and are visible based on observer
// movement: distant chunks are disabled, the nearest missing neighbor chunk
// is lazily created when the observer approaches it. Driven by an explicit
// scheduler tick, not a frame callback; all work happens on the caller's
// goroutine.
type Streamer struct {
	world     *world.WorldMap
	observer  Observer
	generator TileGenerator
	onRender  func()

	hasTile  bool
	lastTile hex.Axial

	hasChunk     bool
	currentChunk hex.Axial

	// disable-pass cache: the pass is skipped when chunk, threshold, and
	// chunk count all match the previous tick. Timing only, never behavior.
	disableValid bool
	disableChunk hex.Axial
	disableMax   int
	disableCount int
}

// Option configures a Streamer.
type Option func(*Streamer)

// WithRenderCallback registers a callback fired whenever the chunk set or
// visibility changes.
func WithRenderCallback(fn func()) Option {
	return func(s *Streamer) { s.onRender = fn }
}

// NewStreamer creates a streamer over the given world.
func NewStreamer(w *world.WorldMap, observer Observer, generator TileGenerator, opts ...Option) *Streamer {
	s := &Streamer{world: w, observer: observer, generator: generator}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Tick runs one streaming check. Cheap when the observer has not changed
// tile since the previous call.
func (s *Streamer) Tick(ctx context.Context) error {
	if !s.observer.IsEnabled() {
		return nil
	}

	tile := s.observer.CurrentTileHex(s.world.HexSize())
	if s.hasTile && tile == s.lastTile {
		return nil
	}
	s.hasTile = true
	s.lastTile = tile

	current := s.world.ChunkForTile(tile)
	if current == nil {
		log.Printf("stream: observer tile %v has no covering chunk", tile)
		return nil
	}
	if !s.hasChunk || current.Position != s.currentChunk {
		log.Printf("stream: observer entered chunk %v", current.Position)
		s.hasChunk = true
		s.currentChunk = current.Position
	}

	changed := false
	if s.disablePass(current) {
		changed = true
	}
	if s.expandPass(ctx, current, tile) {
		changed = true
	}
	if err := s.generator.EnsureChunkTiles(ctx, current); err != nil {
		return err
	}

	if changed && s.onRender != nil {
		s.onRender()
	}
	return nil
}

// disablePass disables chunks whose center is farther than 4*rings from the
// current chunk center and re-enables the ones back in range. Returns true
// when any chunk toggled.
func (s *Streamer) disablePass(current *world.Chunk) bool {
	maxDistance := 4 * s.world.Rings()
	count := s.world.ChunkCount()
	if s.disableValid && s.disableChunk == current.Position &&
		s.disableMax == maxDistance && s.disableCount == count {
		return false
	}
	s.disableValid = true
	s.disableChunk = current.Position
	s.disableMax = maxDistance
	s.disableCount = count

	changed := false
	for _, c := range s.world.Chunks() {
		inRange := hex.Distance(c.Position, current.Position) <= maxDistance
		if inRange != c.Enabled() {
			c.SetEnabled(inRange)
			changed = true
		}
	}
	return changed
}

// expandPass lazily creates and enables the neighbor chunk nearest to the
// observer's tile, if the observer is close enough in world units. Only the
// current chunk's six neighbors are considered, so the world never grows
// unboundedly ahead of the observer.
func (s *Streamer) expandPass(ctx context.Context, current *world.Chunk, tile hex.Axial) bool {
	nearest := current.Neighbors[0]
	for _, n := range current.Neighbors[1:] {
		if hex.Distance(n, tile) < hex.Distance(nearest, tile) {
			nearest = n
		}
	}

	size := s.world.HexSize()
	nx, ny := hex.ToWorld(nearest, size)
	ox, oy := hex.ToWorld(tile, size)
	threshold := 3.0 * float64(s.world.Rings()) * size * 1.5
	if math.Hypot(nx-ox, ny-oy) > threshold {
		return false
	}

	changed := false
	chunk, existed := s.world.ChunkAt(nearest)
	if !existed {
		chunk = s.world.CreateChunk(nearest)
		changed = true
	}
	if !chunk.Enabled() {
		chunk.SetEnabled(true)
		changed = true
	}
	if err := s.generator.EnsureChunkTiles(ctx, chunk); err != nil {
		log.Printf("stream: tile generation failed for chunk %v: %v", chunk.Position, err)
	}
	return changed
}
