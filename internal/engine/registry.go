package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/chaoscipher/internal/config"
	"github.com/san-kum/chaoscipher/internal/container"
	"github.com/san-kum/chaoscipher/internal/substitute"
)

var ErrUnknownMode = errors.New("engine: unknown mode")

// ModeFactory builds a substitution mode from a configuration and the
// resolved block key (ignored by keyless modes).
type ModeFactory func(cfg *config.Config, key []byte) (substitute.Mode, error)

type Registry struct {
	modes map[string]ModeFactory
}

func NewRegistry() *Registry {
	r := &Registry{modes: make(map[string]ModeFactory)}

	r.modes[config.ModeDES] = func(cfg *config.Config, key []byte) (substitute.Mode, error) {
		return substitute.NewBlock(key, cfg.Block.TruncateKey)
	}
	r.modes[config.ModeHenon] = func(cfg *config.Config, _ []byte) (substitute.Mode, error) {
		return substitute.NewStream(substitute.HenonSeed{
			A:  cfg.Henon.A,
			B:  cfg.Henon.B,
			X0: cfg.Henon.X0,
			Y0: cfg.Henon.Y0,
			Z0: cfg.Henon.Z0,
		}), nil
	}

	return r
}

func (r *Registry) Register(name string, f ModeFactory) {
	r.modes[name] = f
}

func (r *Registry) GetMode(name string, cfg *config.Config, key []byte) (substitute.Mode, error) {
	fn, ok := r.modes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, name)
	}
	return fn(cfg, key)
}

func (r *Registry) ListModes() []string {
	names := make([]string, 0, len(r.modes))
	for name := range r.modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build validates cfg and assembles an engine for it.
func (r *Registry) Build(cfg *config.Config, key []byte, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params, err := ParamsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	mode, err := r.GetMode(cfg.Mode, cfg, key)
	if err != nil {
		return nil, err
	}
	return New(params, mode, opts...), nil
}

// ParamsFromConfig resolves the container format: an empty Format picks the
// default layout for the configured color model.
func ParamsFromConfig(cfg *config.Config) (Params, error) {
	format := container.ForChannels(cfg.Channels())
	if cfg.Format != "" {
		f, err := container.ParseFormat(cfg.Format)
		if err != nil {
			return Params{}, err
		}
		format = f
	}
	return Params{
		X0:          cfg.Logistic.X0,
		R:           cfg.Logistic.R,
		ChannelStep: cfg.Logistic.ChannelStep,
		Permute:     cfg.Permute,
		Format:      format,
	}, nil
}

// ResolveKey returns the DES key for cfg. With a salt configured the key is
// derived from passphrase; otherwise the literal Block.Key is used.
func ResolveKey(cfg *config.Config, passphrase []byte) []byte {
	if cfg.Block.Salt != "" && len(passphrase) > 0 {
		salt := []byte(cfg.Block.Salt)
		if cfg.Block.KDF == config.KDFArgon2 {
			return substitute.DeriveKeyArgon2(passphrase, salt)
		}
		return substitute.DeriveKey(passphrase, salt, cfg.Block.Iterations)
	}
	return []byte(cfg.Block.Key)
}
