package models

import (
	"testing"

	"github.com/gravitas-games/hexworld/internal/hex"
)

func TestObserverTileHex(t *testing.T) {
	o := NewObserver("obs-1", "scout")
	if !o.IsEnabled() {
		t.Fatalf("new observer should be enabled")
	}
	if got := o.CurrentTileHex(1.0); got != (hex.Axial{Q: 0, R: 0}) {
		t.Fatalf("observer at origin should stand on (0,0), got %v", got)
	}
	x, y := hex.ToWorld(hex.Axial{Q: 3, R: -2}, 2.0)
	o.SetPosition(x, y)
	if got := o.CurrentTileHex(2.0); got != (hex.Axial{Q: 3, R: -2}) {
		t.Fatalf("observer tile = %v, want (3,-2)", got)
	}
	o.SetEnabled(false)
	if o.IsEnabled() {
		t.Fatalf("observer should be disabled")
	}
}
