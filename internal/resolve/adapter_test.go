package resolve

import (
	"errors"
	"strings"
	"testing"

	"github.com/gravitas-games/hexworld/internal/hex"
)

// brokenEngine returns malformed JSON from every query, standing in for an
// engine whose wire format drifted.
type brokenEngine struct{ LocalEngine }

func (b *brokenEngine) GenerateVoronoiRegions(rings, cq, cr, f, w, g int) (string, error) {
	return "{not json", nil
}

func (b *brokenEngine) HexAStar(sq, sr, gq, gr int, terrain string) (string, error) {
	return "", errors.New("missing export hex_astar")
}

func TestAdapterNilEngine(t *testing.T) {
	if _, err := NewAdapter(nil); err == nil {
		t.Fatalf("expected error for nil engine")
	}
}

func TestAdapterMalformedRegionJSON(t *testing.T) {
	a, err := NewAdapter(&brokenEngine{})
	if err != nil {
		t.Fatalf("unexpected adapter error: %v", err)
	}
	if _, err := a.Regions(1, hex.Axial{}, 1, 1, 1); err == nil {
		t.Fatalf("expected parse error for malformed region JSON")
	}
}

func TestAdapterEngineCallError(t *testing.T) {
	a, _ := NewAdapter(&brokenEngine{})
	_, err := a.Path(hex.Axial{}, hex.Axial{Q: 1, R: 0}, hex.Grid(hex.Axial{}, 2))
	if err == nil {
		t.Fatalf("expected error from failing engine call")
	}
	if !strings.Contains(err.Error(), "hex astar") {
		t.Fatalf("error should carry call context, got %v", err)
	}
}
