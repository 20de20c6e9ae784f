package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "rk4" {
		t.Errorf("expected integrator rk4, got %s", cfg.Integrator)
	}
	if len(cfg.Scenario.Bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(cfg.Scenario.Bodies))
	}
	earth := cfg.Scenario.Bodies[1]
	if earth.Mass != 3e-6 || earth.Position[1] != -0.98329 || earth.Velocity[0] != 6.38966 {
		t.Errorf("unexpected earth %+v", earth)
	}
	if cfg.Slowdown != 12 {
		t.Errorf("expected slowdown 12, got %g", cfg.Slowdown)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("circular")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.G != 1 {
		t.Errorf("expected G 1, got %g", cfg.G)
	}
	if cfg.Gradient != DefaultGradient {
		t.Errorf("expected default gradient, got %q", cfg.Gradient)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestGetPreset_ReturnsCopy(t *testing.T) {
	a := GetPreset("binary")
	a.Scenario.Bodies[0].Mass = 42

	b := GetPreset("binary")
	if b.Scenario.Bodies[0].Mass != 1 {
		t.Errorf("preset mutated through returned config: mass %g", b.Scenario.Bodies[0].Mass)
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	want := []string{"binary", "circular", "figure-eight", "sun-earth"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("index %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no bodies", func(c *Config) { c.Scenario.Bodies = nil }},
		{"negative mass", func(c *Config) { c.Scenario.Bodies[0].Mass = -1 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"unknown integrator", func(c *Config) { c.Integrator = "rk45" }},
		{"unknown gradient", func(c *Config) { c.Gradient = "jet" }},
		{"negative softening", func(c *Config) { c.Softening = -0.1 }},
		{"zero slowdown", func(c *Config) { c.Slowdown = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"nan dt", func(c *Config) { c.Dt = math.NaN() }},
		{"inf dt", func(c *Config) { c.Dt = math.Inf(1) }},
		{"nan duration", func(c *Config) { c.Duration = math.NaN() }},
		{"inf duration", func(c *Config) { c.Duration = math.Inf(1) }},
		{"nan softening", func(c *Config) { c.Softening = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	cfg := GetPreset("figure-eight")
	cfg.Softening = 0.01

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Scenario.Name != "figure-eight" || len(got.Scenario.Bodies) != 3 {
		t.Errorf("unexpected scenario %+v", got.Scenario)
	}
	if got.Scenario.Bodies[2].Velocity != cfg.Scenario.Bodies[2].Velocity {
		t.Errorf("velocity lost: %v", got.Scenario.Bodies[2].Velocity)
	}
	if got.Softening != 0.01 {
		t.Errorf("expected softening 0.01, got %g", got.Softening)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	if err := os.WriteFile(path, []byte("dt: 0.005\nintegrator: leapfrog\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dt != 0.005 || cfg.Integrator != "leapfrog" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Scenario.Name != "sun-earth" || cfg.Slowdown != DefaultSlowdown {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Integrator != "rk4" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("model: pendulum\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestLoadInto_OverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "over.yaml")
	if err := os.WriteFile(path, []byte("duration: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := GetPreset("binary")
	if err := LoadInto(path, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Duration != 3 || cfg.Scenario.Name != "binary" || cfg.Integrator != "leapfrog" {
		t.Errorf("expected binary preset with duration 3, got %+v", cfg)
	}
}

func TestLoad_NonFiniteDt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nan.yaml")
	if err := os.WriteFile(path, []byte("dt: .nan\nduration: .inf\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
