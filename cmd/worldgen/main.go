// Command worldgen generates chunks offline and prints their tile
// composition. Useful for eyeballing generation parameters without
// running the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/gravitas-games/hexworld/internal/config"
	"github.com/gravitas-games/hexworld/internal/hex"
	"github.com/gravitas-games/hexworld/internal/layout"
	"github.com/gravitas-games/hexworld/internal/resolve"
	"github.com/gravitas-games/hexworld/internal/world"
)

func main() {
	configPath := flag.String("config", "", "path to server.yaml (defaults to built-in config)")
	seed := flag.Int64("seed", 0, "world seed override (0 = use config)")
	depth := flag.Int("depth", 1, "neighbor depth to generate around the origin chunk")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		cfg = loaded
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}
	if *depth < 0 {
		log.Fatalf("depth must not be negative, got %d", *depth)
	}

	if err := run(cfg, *depth); err != nil {
		log.Fatalf("Generation failed: %v", err)
	}
}

func run(cfg *config.Config, depth int) error {
	engine := resolve.NewLocalEngine(cfg.World.Seed)
	adapter, err := resolve.NewAdapter(engine)
	if err != nil {
		return err
	}
	params, err := cfg.LayoutParams()
	if err != nil {
		return err
	}
	generator, err := layout.NewGenerator(adapter, cfg.World.Seed, params)
	if err != nil {
		return err
	}

	fmt.Printf("engine %s, seed %d, rings %d, depth %d\n",
		adapter.Version(), cfg.World.Seed, cfg.World.Rings, depth)

	w := world.NewWorldMap(cfg.World.Rings, cfg.World.HexSize)
	centers := chunkCenters(cfg.World.Rings, depth)

	ctx := context.Background()
	totals := make(map[world.TileType]int)
	for _, center := range centers {
		chunk := w.CreateChunk(center)
		if err := generator.EnsureChunkTiles(ctx, chunk); err != nil {
			return fmt.Errorf("chunk (%d,%d): %w", center.Q, center.R, err)
		}
		printComposition(chunk)
		for tt, n := range chunk.Composition() {
			totals[tt] += n
		}
	}

	fmt.Printf("\n%d chunks, %d tiles total\n", len(centers), w.ChunkCount()*hex.GridSize(cfg.World.Rings))
	printCounts(totals)

	stats, err := adapter.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("engine stats: %s\n", stats)
	return nil
}

// chunkCenters walks the chunk adjacency graph breadth-first from the
// origin up to the given depth.
func chunkCenters(rings, depth int) []hex.Axial {
	visited := map[hex.Axial]bool{{}: true}
	order := []hex.Axial{{}}
	frontier := []hex.Axial{{}}
	for d := 0; d < depth; d++ {
		var next []hex.Axial
		for _, c := range frontier {
			for _, n := range hex.ChunkNeighbors(c, rings) {
				if visited[n] {
					continue
				}
				visited[n] = true
				order = append(order, n)
				next = append(next, n)
			}
		}
		frontier = next
	}
	return order
}

func printComposition(chunk *world.Chunk) {
	fmt.Printf("chunk (%d,%d):\n", chunk.Position.Q, chunk.Position.R)
	printCounts(chunk.Composition())
}

func printCounts(counts map[world.TileType]int) {
	types := make([]world.TileType, 0, len(counts))
	for tt := range counts {
		types = append(types, tt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	tw := 0
	for _, n := range counts {
		tw += n
	}
	for _, tt := range types {
		fmt.Fprintf(os.Stdout, "  %-8s %5d (%.1f%%)\n",
			tt.String(), counts[tt], 100*float64(counts[tt])/float64(tw))
	}
}
