// Package config loads runtime configuration through viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/epic-tm/completionist/internal/achievements"
	"github.com/epic-tm/completionist/internal/camera"
	"github.com/epic-tm/completionist/internal/layout"
)

// Config holds all runtime configuration.
// Values are populated from .completionist.toml, COMPLETIONIST_* env vars, and CLI flags.
type Config struct {
	Data          string             `mapstructure:"data"`
	DB            string             `mapstructure:"db"`
	Ephemeral     bool               `mapstructure:"ephemeral"`
	LogLevel      string             `mapstructure:"log_level"`
	LogFile       string             `mapstructure:"log_file"`
	AdminPassword string             `mapstructure:"admin_password"`
	Watch         bool               `mapstructure:"watch"`
	FrameInterval time.Duration      `mapstructure:"frame_interval"`
	FetchTimeout  time.Duration      `mapstructure:"fetch_timeout"`
	Layout        layout.Config      `mapstructure:"layout"`
	Camera        camera.Config      `mapstructure:"camera"`
	Shape         achievements.Shape `mapstructure:"shape"`
}

// DefaultDBPath is the progress database under the user config dir.
func DefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".completionist.db"
	}
	return filepath.Join(dir, "completionist", "progress.db")
}

func setDefaults() {
	viper.SetDefault("data", "achievements.json")
	viper.SetDefault("db", DefaultDBPath())
	viper.SetDefault("ephemeral", false)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_file", "")
	viper.SetDefault("admin_password", "admin")
	viper.SetDefault("watch", true)
	viper.SetDefault("frame_interval", 33*time.Millisecond)
	viper.SetDefault("fetch_timeout", 15*time.Second)

	lc := layout.DefaultConfig()
	viper.SetDefault("layout.core_radius", lc.CoreRadius)
	viper.SetDefault("layout.tier_base_offset", lc.TierBaseOffset)
	viper.SetDefault("layout.tier_spacing", lc.TierSpacing)
	viper.SetDefault("layout.domain_stagger", lc.DomainStagger)
	viper.SetDefault("layout.core_visual", lc.CoreVisual)
	viper.SetDefault("layout.tier_visual", lc.TierVisual)
	viper.SetDefault("layout.node_icon", lc.NodeIcon)
	viper.SetDefault("layout.node_min_rf", lc.NodeMinRF)
	viper.SetDefault("layout.node_max_rf", lc.NodeMaxRF)

	cc := camera.DefaultConfig()
	viper.SetDefault("camera.initial_scale", cc.InitialScale)
	viper.SetDefault("camera.min_scale", cc.MinScale)
	viper.SetDefault("camera.max_scale", cc.MaxScale)
	viper.SetDefault("camera.smoothing", cc.Smoothing)
	viper.SetDefault("camera.zoom_step", cc.ZoomStep)
	viper.SetDefault("camera.unlock_scale", cc.UnlockScale)
	viper.SetDefault("camera.zoom_fill_pct", cc.ZoomFillPct)
	viper.SetDefault("camera.pan_step", cc.PanStep)
	viper.SetDefault("camera.tap_slop", cc.TapSlop)
	viper.SetDefault("camera.tap_timeout", cc.TapTimeout)

	sh := achievements.DefaultShape()
	viper.SetDefault("shape.domains", sh.Domains)
	viper.SetDefault("shape.tiers", sh.Tiers)
	viper.SetDefault("shape.nodes_per_tier", sh.NodesPerTier)
	viper.SetDefault("shape.names", sh.Names)
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the chart cannot render.
func (c Config) Validate() error {
	switch {
	case c.Shape.Domains < 1:
		return fmt.Errorf("config: shape.domains must be at least 1, got %d", c.Shape.Domains)
	case c.Shape.Tiers < 1:
		return fmt.Errorf("config: shape.tiers must be at least 1, got %d", c.Shape.Tiers)
	case c.Shape.NodesPerTier < 0:
		return fmt.Errorf("config: shape.nodes_per_tier must not be negative")
	case c.Camera.MinScale <= 0 || c.Camera.MaxScale < c.Camera.MinScale:
		return fmt.Errorf("config: camera scale range [%v, %v] is invalid", c.Camera.MinScale, c.Camera.MaxScale)
	case c.FrameInterval <= 0:
		return fmt.Errorf("config: frame_interval must be positive")
	case c.FetchTimeout <= 0:
		return fmt.Errorf("config: fetch_timeout must be positive")
	}
	return nil
}
