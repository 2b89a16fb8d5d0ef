package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"

	"github.com/epic-tm/completionist/internal/achievements"
	"github.com/epic-tm/completionist/internal/camera"
	"github.com/epic-tm/completionist/internal/layout"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Data", cfg.Data, "achievements.json"},
		{"LogLevel", cfg.LogLevel, "info"},
		{"AdminPassword", cfg.AdminPassword, "admin"},
		{"Watch", cfg.Watch, true},
		{"Ephemeral", cfg.Ephemeral, false},
		{"FrameInterval", cfg.FrameInterval, 33 * time.Millisecond},
		{"FetchTimeout", cfg.FetchTimeout, 15 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if diff := cmp.Diff(layout.DefaultConfig(), cfg.Layout); diff != "" {
		t.Errorf("layout defaults (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(camera.DefaultConfig(), cfg.Camera); diff != "" {
		t.Errorf("camera defaults (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(achievements.DefaultShape(), cfg.Shape); diff != "" {
		t.Errorf("shape defaults (-want +got):\n%s", diff)
	}
	if cfg.DB == "" {
		t.Error("DB should not be empty")
	}
}

func TestLoad_CountsComeFromShapeOnly(t *testing.T) {
	resetViper()
	if _, err := Load(); err != nil {
		t.Fatal(err)
	}
	keys := map[string]bool{}
	for _, k := range viper.AllKeys() {
		keys[k] = true
	}
	for _, k := range []string{"layout.domains", "layout.tiers_per_domain"} {
		if keys[k] {
			t.Errorf("%s is registered but nothing reads it; counts belong to shape.*", k)
		}
	}
	for _, k := range []string{"shape.domains", "shape.tiers", "layout.core_radius"} {
		if !keys[k] {
			t.Errorf("expected %s to be registered", k)
		}
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "data",
			envKey: "COMPLETIONIST_DATA",
			envVal: "https://example.com/a.json",
			field:  func(c Config) any { return c.Data },
			want:   "https://example.com/a.json",
		},
		{
			name:   "admin_password",
			envKey: "COMPLETIONIST_ADMIN_PASSWORD",
			envVal: "hunter2",
			field:  func(c Config) any { return c.AdminPassword },
			want:   "hunter2",
		},
		{
			name:   "camera.max_scale",
			envKey: "COMPLETIONIST_CAMERA_MAX_SCALE",
			envVal: "12",
			field:  func(c Config) any { return c.Camera.MaxScale },
			want:   12.0,
		},
		{
			name:   "shape.nodes_per_tier",
			envKey: "COMPLETIONIST_SHAPE_NODES_PER_TIER",
			envVal: "4",
			field:  func(c Config) any { return c.Shape.NodesPerTier },
			want:   4,
		},
		{
			name:   "shape.domains",
			envKey: "COMPLETIONIST_SHAPE_DOMAINS",
			envVal: "7",
			field:  func(c Config) any { return c.Shape.Domains },
			want:   7,
		},
		{
			name:   "watch",
			envKey: "COMPLETIONIST_WATCH",
			envVal: "false",
			field:  func(c Config) any { return c.Watch },
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			viper.SetEnvPrefix("COMPLETIONIST")
			viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
			viper.AutomaticEnv()

			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			if got := tt.field(cfg); got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	resetViper()

	path := filepath.Join(t.TempDir(), ".completionist.toml")
	content := `
data = "mine.json"
log_level = "debug"

[shape]
names = ["Body", "Mind", "Craft"]
domains = 3

[camera]
tap_timeout = "250ms"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data != "mine.json" || cfg.LogLevel != "debug" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Shape.Domains != 3 || len(cfg.Shape.Names) != 3 || cfg.Shape.Names[2] != "Craft" {
		t.Errorf("shape = %+v", cfg.Shape)
	}
	if cfg.Camera.TapTimeout != 250*time.Millisecond {
		t.Errorf("tap_timeout = %v, want 250ms", cfg.Camera.TapTimeout)
	}
	if cfg.Shape.Tiers != 5 {
		t.Errorf("unset key lost its default: tiers = %d", cfg.Shape.Tiers)
	}
}

func TestValidate(t *testing.T) {
	resetViper()
	base, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no domains", func(c *Config) { c.Shape.Domains = 0 }},
		{"no tiers", func(c *Config) { c.Shape.Tiers = 0 }},
		{"negative nodes", func(c *Config) { c.Shape.NodesPerTier = -1 }},
		{"inverted scale", func(c *Config) { c.Camera.MaxScale = 0.1 }},
		{"zero frame interval", func(c *Config) { c.FrameInterval = 0 }},
		{"zero fetch timeout", func(c *Config) { c.FetchTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := base.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}
