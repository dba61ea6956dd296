package server

import (
	"context"
	"testing"

	"github.com/gravitas-games/hexworld/internal/config"
	"github.com/gravitas-games/hexworld/internal/hex"
	"github.com/gravitas-games/hexworld/internal/network"
)

// stubSender records messages instead of writing to a socket.
type stubSender struct {
	messages []*network.ServerMessage
}

func (s *stubSender) SendMessage(msg *network.ServerMessage) {
	s.messages = append(s.messages, msg)
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	cfg := config.Default()
	cfg.World.Rings = 2
	s, err := NewSession("test", cfg, nil)
	if err != nil {
		t.Fatalf("unexpected session error: %v", err)
	}
	return s
}

func TestSessionBootstrapsOriginChunk(t *testing.T) {
	s := newTestSession(t)
	origin, ok := s.world.ChunkAt(hex.Axial{})
	if !ok {
		t.Fatalf("session should create the origin chunk")
	}
	if !origin.RenderReady() {
		t.Fatalf("origin chunk should be generated at startup")
	}
}

func TestSessionSnapshotThenUpdates(t *testing.T) {
	s := newTestSession(t)
	sender := &stubSender{}
	obs := s.AddObserver("scout", sender)
	if s.ObserverCount() != 1 {
		t.Fatalf("observer count = %d", s.ObserverCount())
	}

	s.tick(context.Background())
	if len(sender.messages) == 0 {
		t.Fatalf("first tick should send the initial snapshot")
	}
	first := sender.messages[0]
	if first.Type != network.MsgTypeWorldSnapshot {
		t.Fatalf("first message type = %q", first.Type)
	}
	snapshot, ok := first.Payload.(network.WorldSnapshotPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", first.Payload)
	}
	if len(snapshot.Chunks) == 0 {
		t.Fatalf("snapshot should carry the origin chunk")
	}
	for _, c := range snapshot.Chunks {
		if c.Generated && len(c.Tiles) != 3*2*3+1 {
			t.Fatalf("chunk (%d,%d) has %d tiles, want 19", c.Q, c.R, len(c.Tiles))
		}
	}

	// an idle observer produces no further traffic
	before := len(sender.messages)
	s.tick(context.Background())
	if len(sender.messages) != before {
		t.Fatalf("idle tick should not send messages")
	}

	// moving across tiles eventually changes the chunk set
	x, y := hex.ToWorld(hex.Axial{Q: 2, R: 0}, s.world.HexSize())
	if !s.MoveObserver(obs.ID, x, y) {
		t.Fatalf("move rejected")
	}
	s.tick(context.Background())
	if len(sender.messages) <= before {
		t.Fatalf("chunk-set change should send an update")
	}
	if sender.messages[len(sender.messages)-1].Type != network.MsgTypeChunkUpdate {
		t.Fatalf("later messages should be chunk updates")
	}
}

func TestSessionRemoveObserver(t *testing.T) {
	s := newTestSession(t)
	obs := s.AddObserver("scout", &stubSender{})
	s.RemoveObserver(obs.ID)
	if s.ObserverCount() != 0 {
		t.Fatalf("observer count after removal = %d", s.ObserverCount())
	}
	if s.MoveObserver(obs.ID, 1, 1) {
		t.Fatalf("moving a removed observer should fail")
	}
}

func TestSessionEngineVersion(t *testing.T) {
	s := newTestSession(t)
	if s.EngineVersion() == "" {
		t.Fatalf("engine version should not be empty")
	}
}
