package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gravitas-games/hexworld/internal/layout"
	"github.com/gravitas-games/hexworld/internal/world"
)

// Config holds all server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	World  WorldConfig  `yaml:"world"`
	Stream StreamConfig `yaml:"stream"`
	Layout LayoutConfig `yaml:"layout"`
	Redis  RedisConfig  `yaml:"redis"`
	Auth   AuthConfig   `yaml:"auth"`
}

// ServerConfig holds gateway settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// WorldConfig holds the hex world parameters.
type WorldConfig struct {
	Seed    int64   `yaml:"seed"`
	Rings   int     `yaml:"rings"`    // chunk radius in hexes
	HexSize float64 `yaml:"hex_size"` // hex radius in world units
}

// StreamConfig holds the streaming tick settings.
type StreamConfig struct {
	CheckIntervalMS int `yaml:"check_interval_ms"`
}

// CheckInterval returns the streaming check interval as a duration.
func (s StreamConfig) CheckInterval() time.Duration {
	return time.Duration(s.CheckIntervalMS) * time.Millisecond
}

// LayoutConfig holds constraint generation parameters.
type LayoutConfig struct {
	RoadDensity      float64 `yaml:"road_density"`
	BuildingDensity  string  `yaml:"building_density"` // sparse, medium, dense
	BuildingCount    int     `yaml:"building_count"`   // 0 = derive from density
	MinAdjacentRoads int     `yaml:"min_adjacent_roads"`
	PrimaryType      string  `yaml:"primary_type"` // "", grass, forest, water
	BaseSeeds        int     `yaml:"base_seeds"`
	MinSeeds         int     `yaml:"min_seeds"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Address         string `yaml:"address"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	BlacklistPrefix string `yaml:"blacklist_prefix"`
	ChunkPrefix     string `yaml:"chunk_prefix"`
	ChunkTTLMinutes int    `yaml:"chunk_ttl_minutes"`
}

// ChunkTTL returns the chunk cache expiry as a duration; zero means no
// expiry.
func (r RedisConfig) ChunkTTL() time.Duration {
	return time.Duration(r.ChunkTTLMinutes) * time.Minute
}

// AuthConfig holds gateway authentication settings. An empty secret disables
// authentication (development mode).
type AuthConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

// Load reads configuration from a YAML file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.World.Seed == 0 {
		c.World.Seed = 1
	}
	if c.World.Rings == 0 {
		c.World.Rings = 4
	}
	if c.World.HexSize == 0 {
		c.World.HexSize = 1.0
	}
	if c.Stream.CheckIntervalMS == 0 {
		c.Stream.CheckIntervalMS = 250
	}
	if c.Layout.RoadDensity == 0 {
		c.Layout.RoadDensity = 0.15
	}
	if c.Layout.BuildingDensity == "" {
		c.Layout.BuildingDensity = "medium"
	}
	if c.Layout.MinAdjacentRoads == 0 {
		c.Layout.MinAdjacentRoads = 1
	}
	if c.Layout.BaseSeeds == 0 {
		c.Layout.BaseSeeds = 3
	}
	if c.Layout.MinSeeds == 0 {
		c.Layout.MinSeeds = 1
	}
	if c.Redis.BlacklistPrefix == "" {
		c.Redis.BlacklistPrefix = "hexworld:blacklist:"
	}
	if c.Redis.ChunkPrefix == "" {
		c.Redis.ChunkPrefix = "hexworld:"
	}
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.World.Rings < 0 {
		return fmt.Errorf("world rings must not be negative, got %d", c.World.Rings)
	}
	if c.World.HexSize <= 0 {
		return fmt.Errorf("hex size must be positive, got %v", c.World.HexSize)
	}
	if c.Stream.CheckIntervalMS < 0 {
		return fmt.Errorf("check interval must not be negative, got %d", c.Stream.CheckIntervalMS)
	}
	if _, err := c.LayoutParams(); err != nil {
		return err
	}
	return nil
}

// LayoutParams converts the layout section into generator parameters.
func (c *Config) LayoutParams() (layout.Params, error) {
	p := layout.DefaultParams()
	p.RoadDensity = c.Layout.RoadDensity
	p.BuildingCount = c.Layout.BuildingCount
	p.MinAdjacentRoads = c.Layout.MinAdjacentRoads
	p.BaseSeeds = c.Layout.BaseSeeds
	p.MinSeeds = c.Layout.MinSeeds

	switch c.Layout.BuildingDensity {
	case "sparse":
		p.BuildingDensity = layout.DensitySparse
	case "medium":
		p.BuildingDensity = layout.DensityMedium
	case "dense":
		p.BuildingDensity = layout.DensityDense
	default:
		return p, fmt.Errorf("unknown building density %q", c.Layout.BuildingDensity)
	}

	switch c.Layout.PrimaryType {
	case "":
		p.PrimaryType = world.TileUnset
	case "grass":
		p.PrimaryType = world.TileGrass
	case "forest":
		p.PrimaryType = world.TileForest
	case "water":
		p.PrimaryType = world.TileWater
	default:
		return p, fmt.Errorf("unknown primary type %q", c.Layout.PrimaryType)
	}

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
