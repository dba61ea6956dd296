package models

import (
	"sync"

	"github.com/gravitas-games/hexworld/internal/hex"
)

// Observer is the moving entity whose position drives chunk streaming.
// Position writes come from connection goroutines while the session tick
// loop reads them, so access is synchronized internally.
type Observer struct {
	ID   string
	Name string

	mu      sync.RWMutex
	x, y    float64
	enabled bool
}

// NewObserver creates an enabled observer at the world origin.
func NewObserver(id, name string) *Observer {
	return &Observer{ID: id, Name: name, enabled: true}
}

// SetPosition updates the observer's world position.
func (o *Observer) SetPosition(x, y float64) {
	o.mu.Lock()
	o.x, o.y = x, y
	o.mu.Unlock()
}

// Position returns the observer's world position.
func (o *Observer) Position() (x, y float64) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.x, o.y
}

// SetEnabled toggles interactivity. A disabled observer stops driving
// streaming.
func (o *Observer) SetEnabled(enabled bool) {
	o.mu.Lock()
	o.enabled = enabled
	o.mu.Unlock()
}

// IsEnabled reports whether the observer is interactive.
func (o *Observer) IsEnabled() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.enabled
}

// CurrentTileHex returns the tile the observer currently stands on.
func (o *Observer) CurrentTileHex(hexSize float64) hex.Axial {
	x, y := o.Position()
	return hex.FromWorld(x, y, hexSize)
}
