package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gravitas-games/hexworld/internal/config"
	"github.com/gravitas-games/hexworld/internal/hex"
	"github.com/gravitas-games/hexworld/internal/layout"
	"github.com/gravitas-games/hexworld/internal/network"
	"github.com/gravitas-games/hexworld/internal/resolve"
	"github.com/gravitas-games/hexworld/internal/stream"
	"github.com/gravitas-games/hexworld/internal/world"
	"github.com/gravitas-games/hexworld/pkg/models"
)

// MessageSender delivers server messages to one client. Connections
// implement it; tests substitute stubs.
type MessageSender interface {
	SendMessage(msg *network.ServerMessage)
}

// viewer couples an observer with its streamer and outbound channel. Each
// connected client gets one.
type viewer struct {
	observer *models.Observer
	streamer *stream.Streamer
	sender   MessageSender

	// dirty is set by the streamer's render callback and cleared after a
	// chunk update goes out. Written only on the tick goroutine.
	dirty bool

	// sentSnapshot flips after the initial world snapshot.
	sentSnapshot bool
}

// Session owns the world and everything that mutates it: the engine
// adapter, the constraint generator, and one streamer per observer. All
// world access happens on the session's tick goroutine; observer position
// writes from connections are the only cross-goroutine interaction and are
// synchronized inside the model.
type Session struct {
	ID        string
	CreatedAt time.Time

	config    *config.Config
	world     *world.WorldMap
	engine    *resolve.Adapter
	generator *layout.Generator

	mu      sync.Mutex
	viewers map[string]*viewer

	tickInterval time.Duration
	ticks        int64
}

// NewSession builds the world stack from config: local engine, adapter,
// generator (with the optional chunk cache), and the origin chunk.
func NewSession(id string, cfg *config.Config, chunkCache layout.ChunkCache) (*Session, error) {
	log.Printf("Creating session: %s (seed %d, rings %d)", id, cfg.World.Seed, cfg.World.Rings)

	adapter, err := resolve.NewAdapter(resolve.NewLocalEngine(cfg.World.Seed))
	if err != nil {
		return nil, err
	}
	params, err := cfg.LayoutParams()
	if err != nil {
		return nil, err
	}
	var opts []layout.Option
	if chunkCache != nil {
		opts = append(opts, layout.WithCache(chunkCache))
	}
	generator, err := layout.NewGenerator(adapter, cfg.World.Seed, params, opts...)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:           id,
		CreatedAt:    time.Now(),
		config:       cfg,
		world:        world.NewWorldMap(cfg.World.Rings, cfg.World.HexSize),
		engine:       adapter,
		generator:    generator,
		viewers:      make(map[string]*viewer),
		tickInterval: cfg.Stream.CheckInterval(),
	}

	// bootstrap the origin chunk so the first observer lands on solid ground
	origin := s.world.CreateChunk(hex.Axial{})
	if err := generator.EnsureChunkTiles(context.Background(), origin); err != nil {
		return nil, err
	}

	log.Printf("Session %s created, engine %s", id, adapter.Version())
	return s, nil
}

// Run drives the streaming tick loop until the context is cancelled.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	log.Printf("Session %s tick loop started (interval %v)", s.ID, s.tickInterval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("Session %s tick loop stopped", s.ID)
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs one streaming check for every viewer and flushes chunk updates.
func (s *Session) tick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ticks++
	for _, v := range s.viewers {
		if err := v.streamer.Tick(ctx); err != nil {
			log.Printf("Session %s: streamer tick for %s failed: %v", s.ID, v.observer.ID, err)
		}
		if !v.dirty {
			continue
		}
		v.dirty = false
		chunks := s.enabledChunkStates()
		if !v.sentSnapshot {
			v.sentSnapshot = true
			v.sender.SendMessage(&network.ServerMessage{
				Type:    network.MsgTypeWorldSnapshot,
				Payload: network.WorldSnapshotPayload{Chunks: chunks},
			})
			continue
		}
		v.sender.SendMessage(&network.ServerMessage{
			Type:    network.MsgTypeChunkUpdate,
			Payload: network.ChunkUpdatePayload{Chunks: chunks},
		})
	}
}

// AddObserver registers a new observer at the world origin and returns it.
// The initial snapshot goes out on the next tick.
func (s *Session) AddObserver(name string, sender MessageSender) *models.Observer {
	obs := models.NewObserver(uuid.NewString(), name)

	v := &viewer{observer: obs, sender: sender, dirty: true}
	v.streamer = stream.NewStreamer(s.world, obs, s.generator,
		stream.WithRenderCallback(func() { v.dirty = true }))

	s.mu.Lock()
	s.viewers[obs.ID] = v
	s.mu.Unlock()

	log.Printf("Observer %s (%s) joined session %s", name, obs.ID, s.ID)
	return obs
}

// RemoveObserver unregisters an observer.
func (s *Session) RemoveObserver(observerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, exists := s.viewers[observerID]; exists {
		log.Printf("Observer %s (%s) left session %s", v.observer.Name, observerID, s.ID)
		delete(s.viewers, observerID)
	}
}

// MoveObserver updates an observer's world position. The position write is
// thread-safe; the world reacts on the next tick.
func (s *Session) MoveObserver(observerID string, x, y float64) bool {
	s.mu.Lock()
	v, exists := s.viewers[observerID]
	s.mu.Unlock()
	if !exists {
		return false
	}
	v.observer.SetPosition(x, y)
	return true
}

// ObserverCount returns the number of connected observers.
func (s *Session) ObserverCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.viewers)
}

// EngineVersion exposes the tile resolution engine version for welcomes.
func (s *Session) EngineVersion() string { return s.engine.Version() }

// enabledChunkStates snapshots every enabled chunk for the wire. Callers
// hold s.mu (tick goroutine).
func (s *Session) enabledChunkStates() []network.ChunkState {
	chunks := s.world.EnabledChunks()
	out := make([]network.ChunkState, 0, len(chunks))
	for _, c := range chunks {
		tiles := c.Tiles()
		states := make([]network.TileState, len(tiles))
		for i, t := range tiles {
			states[i] = network.TileState{Q: t.Hex.Q, R: t.Hex.R, Type: int(t.Type), Enabled: t.Enabled}
		}
		out = append(out, network.ChunkState{
			Q:         c.Position.Q,
			R:         c.Position.R,
			Enabled:   c.Enabled(),
			Generated: c.TilesGenerated(),
			Tiles:     states,
		})
	}
	return out
}
