package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != ModeDES {
		t.Errorf("expected mode des, got %s", cfg.Mode)
	}
	if cfg.Logistic.R != 3.99 {
		t.Errorf("expected r 3.99, got %f", cfg.Logistic.R)
	}
	if len(cfg.Block.Key) != 8 {
		t.Errorf("default key should be 8 bytes, got %d", len(cfg.Block.Key))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("des-rgb")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Channels() != 3 {
		t.Errorf("expected 3 channels, got %d", cfg.Channels())
	}

	cfg.Logistic.X0 = 0.9
	if Presets["des-rgb"].Logistic.X0 != 0.6 {
		t.Error("modifying a returned preset changed the shared table")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	want := []string{"des", "des-rgb", "henon", "hybrid"}
	if len(presets) != len(want) {
		t.Fatalf("expected %v, got %v", want, presets)
	}
	for i := range want {
		if presets[i] != want[i] {
			t.Errorf("expected %v, got %v", want, presets)
		}
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"mode", func(c *Config) { c.Mode = "aes" }},
		{"color", func(c *Config) { c.Color = "cmyk" }},
		{"format", func(c *Config) { c.Format = "tiff" }},
		{"gray container for rgb", func(c *Config) { c.Color = ColorRGB; c.Format = "gray" }},
		{"iterations", func(c *Config) { c.Block.Iterations = -1 }},
		{"kdf", func(c *Config) { c.Block.KDF = "scrypt" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")

	cfg := GetPreset("hybrid")
	cfg.Henon.X0 = 0.125
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("expected %+v, got %+v", cfg, loaded)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("mode: henon-xor\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != ModeHenon {
		t.Errorf("expected henon-xor, got %s", cfg.Mode)
	}
	if cfg.Logistic.R != DefaultR || cfg.Henon.A != DefaultHenonA {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}
