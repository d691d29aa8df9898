package config

import "sort"

var Presets = map[string]*Config{
	"des": {
		Mode: ModeDES, Color: ColorGray, Permute: true,
		Logistic: LogisticConfig{X0: 0.6, R: 3.99, ChannelStep: 0.01},
		Henon:    HenonConfig{A: 1.4, B: 0.3, X0: 0.1, Y0: 0.2, Z0: 0.3},
		Block:    BlockConfig{Key: "12345678", Iterations: DefaultIterations},
		RunsDir:  DefaultRunsDir,
	},
	"des-rgb": {
		Mode: ModeDES, Color: ColorRGB, Format: "color", Permute: true,
		Logistic: LogisticConfig{X0: 0.6, R: 3.99, ChannelStep: 0.01},
		Henon:    HenonConfig{A: 1.4, B: 0.3, X0: 0.1, Y0: 0.2, Z0: 0.3},
		Block:    BlockConfig{Key: "12345678", Iterations: DefaultIterations},
		RunsDir:  DefaultRunsDir,
	},
	"henon": {
		Mode: ModeHenon, Color: ColorGray, Permute: false,
		Logistic: LogisticConfig{X0: 0.6, R: 3.99, ChannelStep: 0.01},
		Henon:    HenonConfig{A: 1.4, B: 0.3, X0: 0.1, Y0: 0.2, Z0: 0.3},
		Block:    BlockConfig{Iterations: DefaultIterations},
		RunsDir:  DefaultRunsDir,
	},
	"hybrid": {
		Mode: ModeHenon, Color: ColorRGB, Format: "color", Permute: true,
		Logistic: LogisticConfig{X0: 0.37, R: 3.99, ChannelStep: 0.01},
		Henon:    HenonConfig{A: 1.4, B: 0.3, X0: 0.1, Y0: 0.2, Z0: 0.3},
		Block:    BlockConfig{Iterations: DefaultIterations},
		RunsDir:  DefaultRunsDir,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
