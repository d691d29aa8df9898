package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultX0          = 0.6
	DefaultR           = 3.99
	DefaultChannelStep = 0.01
	DefaultHenonA      = 1.4
	DefaultHenonB      = 0.3
	DefaultKey         = "12345678"
	DefaultIterations  = 100000
	DefaultRunsDir     = ".chaoscipher/runs"
)

const (
	ModeDES   = "des"
	ModeHenon = "henon-xor"

	ColorGray = "gray"
	ColorRGB  = "rgb"

	KDFPBKDF2 = "pbkdf2"
	KDFArgon2 = "argon2id"
)

var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Mode     string         `yaml:"mode"`
	Color    string         `yaml:"color"`
	Format   string         `yaml:"format,omitempty"`
	Permute  bool           `yaml:"permute"`
	Logistic LogisticConfig `yaml:"logistic"`
	Henon    HenonConfig    `yaml:"henon"`
	Block    BlockConfig    `yaml:"block"`
	RunsDir  string         `yaml:"runs_dir"`
}

// LogisticConfig seeds the permutation. Channel c of a multi-channel image
// starts from X0 + c*ChannelStep.
type LogisticConfig struct {
	X0          float64 `yaml:"x0"`
	R           float64 `yaml:"r"`
	ChannelStep float64 `yaml:"channel_step"`
}

type HenonConfig struct {
	A  float64 `yaml:"a"`
	B  float64 `yaml:"b"`
	X0 float64 `yaml:"x0"`
	Y0 float64 `yaml:"y0"`
	Z0 float64 `yaml:"z0"`
}

// BlockConfig holds the DES key. When Salt is set the key is derived from a
// passphrase with KDF (pbkdf2 unless set to argon2id) instead of being read
// from Key.
type BlockConfig struct {
	Key         string `yaml:"key"`
	TruncateKey bool   `yaml:"truncate_key"`
	Salt        string `yaml:"salt,omitempty"`
	KDF         string `yaml:"kdf,omitempty"`
	Iterations  int    `yaml:"iterations,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:    ModeDES,
		Color:   ColorGray,
		Permute: true,
		Logistic: LogisticConfig{
			X0:          DefaultX0,
			R:           DefaultR,
			ChannelStep: DefaultChannelStep,
		},
		Henon: HenonConfig{
			A:  DefaultHenonA,
			B:  DefaultHenonB,
			X0: 0.1,
			Y0: 0.2,
			Z0: 0.3,
		},
		Block: BlockConfig{
			Key:        DefaultKey,
			Iterations: DefaultIterations,
		},
		RunsDir: DefaultRunsDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Clone returns a copy that can be modified without touching presets.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Channels is the channel count implied by Color.
func (c *Config) Channels() int {
	if c.Color == ColorRGB {
		return 3
	}
	return 1
}

// Validate checks the fields that have a closed set of values. Map
// parameters are not range-checked; a non-chaotic r is legal but weak.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeDES, ModeHenon:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalid, c.Mode)
	}
	switch c.Color {
	case ColorGray, ColorRGB:
	default:
		return fmt.Errorf("%w: unknown color model %q", ErrInvalid, c.Color)
	}
	switch c.Format {
	case "", "gray", "color", "color-legacy", "legacy":
	default:
		return fmt.Errorf("%w: unknown container format %q", ErrInvalid, c.Format)
	}
	if c.Format == "gray" && c.Color == ColorRGB {
		return fmt.Errorf("%w: gray container cannot hold rgb images", ErrInvalid)
	}
	switch c.Block.KDF {
	case "", KDFPBKDF2, KDFArgon2:
	default:
		return fmt.Errorf("%w: unknown kdf %q", ErrInvalid, c.Block.KDF)
	}
	if c.Block.Iterations < 0 {
		return fmt.Errorf("%w: negative pbkdf2 iterations", ErrInvalid)
	}
	return nil
}
