package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// Config is the full runtime configuration for the demo host. Values
// come from defaults, then an optional TOML file, then SCENECTL_*
// environment overrides, in that order.
type Config struct {
	Name           string `toml:"name" env:"SCENECTL_NAME"`
	ControlPort    uint16 `toml:"control_port" env:"SCENECTL_CONTROL_PORT"`
	TickRate       int    `toml:"tick_rate" env:"SCENECTL_TICK_RATE"`
	ReadChunkBytes int    `toml:"read_chunk_bytes" env:"SCENECTL_READ_CHUNK_BYTES"`
	MaxBufferBytes int    `toml:"max_buffer_bytes" env:"SCENECTL_MAX_BUFFER_BYTES"`
	PollWindowUS   int64  `toml:"poll_window_us" env:"SCENECTL_POLL_WINDOW_US"`

	Classes []string `toml:"classes" env:"SCENECTL_CLASSES"`

	Admin AdminConfig `toml:"admin"`
}

// AdminConfig configures the optional ops HTTP surface.
type AdminConfig struct {
	Enabled     bool     `toml:"enabled" env:"SCENECTL_ADMIN_ENABLED"`
	Addr        string   `toml:"addr" env:"SCENECTL_ADMIN_ADDR"`
	CorsOrigins []string `toml:"cors_origins" env:"SCENECTL_ADMIN_CORS_ORIGINS"`
}

func Default() Config {
	return Config{
		Name:           "scenectl",
		ControlPort:    7000,
		TickRate:       60,
		ReadChunkBytes: 65507,
		MaxBufferBytes: 1 << 20,
		PollWindowUS:   500,
		Classes:        []string{"Box", "Sphere", "Wall", "PointLight"},
		Admin: AdminConfig{
			Enabled: false,
			Addr:    ":7001",
		},
	}
}

// PollWindow returns the per-poll deadline as a duration.
func (c Config) PollWindow() time.Duration {
	return time.Duration(c.PollWindowUS) * time.Microsecond
}

// TickInterval returns the frame period of the demo host loop.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config env overrides failed: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("config missing name")
	}
	if cfg.TickRate <= 0 || cfg.TickRate > 1000 {
		return fmt.Errorf("config tick_rate out of range: %d", cfg.TickRate)
	}
	if cfg.ReadChunkBytes <= 0 {
		return fmt.Errorf("config read_chunk_bytes must be positive: %d", cfg.ReadChunkBytes)
	}
	if cfg.MaxBufferBytes < cfg.ReadChunkBytes {
		return fmt.Errorf("config max_buffer_bytes %d smaller than read_chunk_bytes %d",
			cfg.MaxBufferBytes, cfg.ReadChunkBytes)
	}
	if cfg.PollWindowUS <= 0 {
		return fmt.Errorf("config poll_window_us must be positive: %d", cfg.PollWindowUS)
	}
	if cfg.Admin.Enabled && strings.TrimSpace(cfg.Admin.Addr) == "" {
		return fmt.Errorf("config admin enabled but addr empty")
	}
	return nil
}
