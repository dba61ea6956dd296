package resolve

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gravitas-games/hexworld/internal/hex"
	"github.com/gravitas-games/hexworld/internal/world"
)

// Adapter is the typed boundary over a RawEngine. It is constructed once at
// startup, validates the raw surface then, and handles all JSON
// marshalling so callers only ever see hex coordinates and tile types.
type Adapter struct {
	raw RawEngine
}

// NewAdapter validates and wraps the raw engine surface. A nil engine is a
// fatal initialization error for callers.
func NewAdapter(raw RawEngine) (*Adapter, error) {
	if raw == nil {
		return nil, errors.New("resolve: nil engine")
	}
	return &Adapter{raw: raw}, nil
}

type regionEntry struct {
	Q        int `json:"q"`
	R        int `json:"r"`
	TileType int `json:"tileType"`
}

// Regions requests voronoi region seeding over the chunk grid and returns
// one constraint per assigned hex.
func (a *Adapter) Regions(rings int, center hex.Axial, forestSeeds, waterSeeds, grassSeeds int) ([]Constraint, error) {
	out, err := a.raw.GenerateVoronoiRegions(rings, center.Q, center.R, forestSeeds, waterSeeds, grassSeeds)
	if err != nil {
		return nil, fmt.Errorf("generate voronoi regions: %w", err)
	}
	var entries []regionEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		return nil, fmt.Errorf("parse region result: %w", err)
	}
	constraints := make([]Constraint, 0, len(entries))
	for _, e := range entries {
		tt, err := world.ParseTileType(e.TileType)
		if err != nil {
			return nil, fmt.Errorf("region entry (%d,%d): %w", e.Q, e.R, err)
		}
		constraints = append(constraints, Constraint{Hex: hex.Axial{Q: e.Q, R: e.R}, Type: tt})
	}
	return constraints, nil
}

// Path runs the engine's hex A* over the valid terrain set. A nil slice with
// nil error means no path exists.
func (a *Adapter) Path(start, goal hex.Axial, validTerrain []hex.Axial) ([]hex.Axial, error) {
	terrain, err := marshalHexes(validTerrain)
	if err != nil {
		return nil, err
	}
	out, err := a.raw.HexAStar(start.Q, start.R, goal.Q, goal.R, terrain)
	if err != nil {
		return nil, fmt.Errorf("hex astar: %w", err)
	}
	return unmarshalPath(out)
}

// PathBetweenRoads is Path restricted further by an occupied set, used when
// splicing a new road into an existing network.
func (a *Adapter) PathBetweenRoads(start, goal hex.Axial, validTerrain, occupied []hex.Axial) ([]hex.Axial, error) {
	terrain, err := marshalHexes(validTerrain)
	if err != nil {
		return nil, err
	}
	occupiedJSON, err := marshalHexes(occupied)
	if err != nil {
		return nil, err
	}
	out, err := a.raw.BuildPathBetweenRoads(start.Q, start.R, goal.Q, goal.R, terrain, occupiedJSON)
	if err != nil {
		return nil, fmt.Errorf("build path between roads: %w", err)
	}
	return unmarshalPath(out)
}

// RoadNetwork grows a connected road network via the engine.
func (a *Adapter) RoadNetwork(seeds, validTerrain, occupied []hex.Axial, target int) ([]hex.Axial, error) {
	seedsJSON, err := marshalHexes(seeds)
	if err != nil {
		return nil, err
	}
	terrainJSON, err := marshalHexes(validTerrain)
	if err != nil {
		return nil, err
	}
	occupiedJSON, err := marshalHexes(occupied)
	if err != nil {
		return nil, err
	}
	out, err := a.raw.GenerateRoadNetworkGrowingTree(seedsJSON, terrainJSON, occupiedJSON, target)
	if err != nil {
		return nil, fmt.Errorf("generate road network: %w", err)
	}
	var roads []hex.Axial
	if err := json.Unmarshal([]byte(out), &roads); err != nil {
		return nil, fmt.Errorf("parse road network result: %w", err)
	}
	return roads, nil
}

// ValidateConnectivity checks the road set through the engine.
func (a *Adapter) ValidateConnectivity(roads []hex.Axial) (bool, error) {
	roadsJSON, err := marshalHexes(roads)
	if err != nil {
		return false, err
	}
	ok, err := a.raw.ValidateRoadConnectivity(roadsJSON)
	if err != nil {
		return false, fmt.Errorf("validate road connectivity: %w", err)
	}
	return ok, nil
}

// Resolve submits the constraints, generates the layout, and reads back the
// final tile type for every hex in the target set. The engine's layout is
// cleared afterwards so the call leaves no state behind.
func (a *Adapter) Resolve(constraints []Constraint, hexes []hex.Axial) (map[hex.Axial]world.TileType, error) {
	if err := a.raw.ClearPreConstraints(); err != nil {
		return nil, fmt.Errorf("clear pre-constraints: %w", err)
	}
	for _, c := range constraints {
		if _, err := a.raw.SetPreConstraint(c.Hex.Q, c.Hex.R, int(c.Type)); err != nil {
			return nil, fmt.Errorf("set pre-constraint at %v: %w", c.Hex, err)
		}
	}
	if err := a.raw.GenerateLayout(); err != nil {
		return nil, fmt.Errorf("generate layout: %w", err)
	}
	defer a.raw.ClearLayout()

	types := make(map[hex.Axial]world.TileType, len(hexes))
	for _, h := range hexes {
		n, err := a.raw.TileAt(h.Q, h.R)
		if err != nil {
			return nil, fmt.Errorf("tile at %v: %w", h, err)
		}
		tt, err := world.ParseTileType(n)
		if err != nil {
			return nil, fmt.Errorf("tile at %v: %w", h, err)
		}
		types[h] = tt
	}
	return types, nil
}

// Stats returns the engine's statistics blob.
func (a *Adapter) Stats() (string, error) { return a.raw.Stats() }

// Version returns the engine's version string.
func (a *Adapter) Version() string { return a.raw.Version() }

func marshalHexes(hexes []hex.Axial) (string, error) {
	if hexes == nil {
		hexes = []hex.Axial{}
	}
	data, err := json.Marshal(hexes)
	if err != nil {
		return "", fmt.Errorf("marshal hex list: %w", err)
	}
	return string(data), nil
}

func unmarshalPath(out string) ([]hex.Axial, error) {
	if out == "null" {
		return nil, nil
	}
	var path []hex.Axial
	if err := json.Unmarshal([]byte(out), &path); err != nil {
		return nil, fmt.Errorf("parse path result: %w", err)
	}
	return path, nil
}
