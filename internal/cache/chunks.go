// Package cache persists resolved chunk compositions in Redis so a restarted
// server serves the same world without re-running generation. The cache is
// strictly best-effort: Redis being down degrades to in-memory generation
// with a logged warning.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/gravitas-games/hexworld/internal/hex"
	"github.com/gravitas-games/hexworld/internal/world"
)

// ChunkCache stores chunk compositions keyed by chunk center. It implements
// layout.ChunkCache. A nil client disables the cache entirely.
type ChunkCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New creates a chunk cache on the given Redis client. ttl of zero means no
// expiry.
func New(client *redis.Client, prefix string, ttl time.Duration) *ChunkCache {
	return &ChunkCache{client: client, prefix: prefix, ttl: ttl}
}

type tileEntry struct {
	Q int `json:"q"`
	R int `json:"r"`
	T int `json:"t"`
}

// Key returns the Redis key for a chunk center.
func (c *ChunkCache) Key(center hex.Axial) string {
	return fmt.Sprintf("%schunk:%d:%d", c.prefix, center.Q, center.R)
}

// Load returns the cached composition for a chunk center, or false on a
// miss. Backend and decode failures are logged and treated as misses.
func (c *ChunkCache) Load(ctx context.Context, center hex.Axial) (map[hex.Axial]world.TileType, bool) {
	if c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, c.Key(center)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("cache: load %v failed: %v", center, err)
		return nil, false
	}
	types, err := DecodeComposition(data)
	if err != nil {
		log.Printf("cache: decode %v failed: %v", center, err)
		return nil, false
	}
	return types, true
}

// Store writes a chunk composition. Failures are logged and swallowed.
func (c *ChunkCache) Store(ctx context.Context, center hex.Axial, types map[hex.Axial]world.TileType) {
	if c.client == nil {
		return
	}
	data, err := EncodeComposition(types)
	if err != nil {
		log.Printf("cache: encode %v failed: %v", center, err)
		return
	}
	if err := c.client.Set(ctx, c.Key(center), data, c.ttl).Err(); err != nil {
		log.Printf("cache: store %v failed: %v", center, err)
	}
}

// EncodeComposition serializes a composition as a JSON array of
// {q, r, t} entries using the engine's numeric tile encoding.
func EncodeComposition(types map[hex.Axial]world.TileType) ([]byte, error) {
	entries := make([]tileEntry, 0, len(types))
	for h, tt := range types {
		entries = append(entries, tileEntry{Q: h.Q, R: h.R, T: int(tt)})
	}
	return json.Marshal(entries)
}

// DecodeComposition parses what EncodeComposition wrote, rejecting unknown
// tile types.
func DecodeComposition(data []byte) (map[hex.Axial]world.TileType, error) {
	var entries []tileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	types := make(map[hex.Axial]world.TileType, len(entries))
	for _, e := range entries {
		tt, err := world.ParseTileType(e.T)
		if err != nil {
			return nil, err
		}
		types[hex.Axial{Q: e.Q, R: e.R}] = tt
	}
	return types, nil
}
