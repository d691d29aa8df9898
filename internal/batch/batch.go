// Package batch encrypts and decrypts many images from a YAML manifest.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/chaoscipher/internal/config"
	"github.com/san-kum/chaoscipher/internal/engine"
	"github.com/san-kum/chaoscipher/internal/imageio"
	"github.com/san-kum/chaoscipher/internal/quality"
	"github.com/san-kum/chaoscipher/internal/storage"
)

var ErrNoJobs = errors.New("batch: manifest has no jobs")

// Manifest is a named list of jobs.
type Manifest struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Concurrency int    `yaml:"concurrency"`
	Jobs        []Job  `yaml:"jobs"`
}

// Job is one file to encrypt or decrypt. Config names a YAML config file;
// when empty, Preset selects a named preset ("des" by default).
type Job struct {
	Input   string `yaml:"input"`
	Output  string `yaml:"output"`
	Preset  string `yaml:"preset"`
	Config  string `yaml:"config"`
	Decrypt bool   `yaml:"decrypt"`
	Save    bool   `yaml:"save"`
	Preview string `yaml:"preview"`
}

type Result struct {
	Job     Job
	RunID   string
	Report  *quality.Report
	Elapsed time.Duration
}

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if len(m.Jobs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoJobs, path)
	}
	return &m, nil
}

// Runner executes jobs. It is safe to run jobs concurrently: every job
// builds its own engine and buffers.
type Runner struct {
	Registry   *engine.Registry
	Store      *storage.Store
	Log        *logrus.Logger
	Passphrase []byte
}

func NewRunner(store *storage.Store, log *logrus.Logger) *Runner {
	if log == nil {
		log = logrus.New()
	}
	return &Runner{Registry: engine.NewRegistry(), Store: store, Log: log}
}

// ResolveConfig loads the job's config file or preset.
func (j Job) ResolveConfig() (*config.Config, error) {
	if j.Config != "" {
		return config.Load(j.Config)
	}
	name := j.Preset
	if name == "" {
		name = "des"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	return cfg, nil
}

// RunJob encrypts or decrypts a single file with an explicit config.
func (r *Runner) RunJob(ctx context.Context, job Job, cfg *config.Config) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	e, err := r.Registry.Build(cfg, engine.ResolveKey(cfg, r.Passphrase), engine.WithLogger(r.Log))
	if err != nil {
		return nil, err
	}

	res := &Result{Job: job}
	if job.Decrypt {
		err = r.decrypt(e, job)
	} else {
		err = r.encrypt(e, job, cfg, res)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", job.Input, err)
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

func (r *Runner) decrypt(e *engine.Engine, job Job) error {
	data, err := os.ReadFile(job.Input)
	if err != nil {
		return err
	}
	buf, err := e.Open(data)
	if err != nil {
		return err
	}
	return imageio.Save(job.Output, buf)
}

func (r *Runner) encrypt(e *engine.Engine, job Job, cfg *config.Config, res *Result) error {
	model, err := imageio.ParseColorModel(cfg.Color)
	if err != nil {
		return err
	}
	plain, err := imageio.Load(job.Input, model)
	if err != nil {
		return err
	}

	sealed, err := e.Seal(plain)
	if err != nil {
		return err
	}
	if err := os.WriteFile(job.Output, sealed.Data, 0644); err != nil {
		return err
	}
	if job.Preview != "" {
		if err := imageio.Save(job.Preview, sealed.Preview); err != nil {
			return err
		}
	}

	report, err := quality.Evaluate(plain, sealed.Preview)
	if err != nil {
		return err
	}
	res.Report = &report

	if !job.Save || r.Store == nil {
		return nil
	}
	if err := r.Store.Init(); err != nil {
		return err
	}
	p := e.Params()
	run := &storage.Run{
		Meta: storage.RunMetadata{
			Mode:     cfg.Mode,
			Preset:   job.Preset,
			Source:   job.Input,
			Height:   plain.Height,
			Width:    plain.Width,
			Channels: plain.Channels,
			Format:   p.Format.String(),
			Permute:  p.Permute,
			Params: map[string]float64{
				"x0":           p.X0,
				"r":            p.R,
				"channel_step": p.ChannelStep,
				"henon_a":      cfg.Henon.A,
				"henon_b":      cfg.Henon.B,
			},
			ElapsedMs: float64(sealed.Elapsed().Microseconds()) / 1000,
			Metrics:   report.Metrics(),
		},
		Container:  sealed.Data,
		PlainHist:  report.PlainHist,
		CipherHist: report.CipherHist,
	}
	res.RunID, err = r.Store.Save(run)
	return err
}

// Run executes every job of m with at most m.Concurrency jobs in flight
// (one per job when unset). The first failure cancels jobs not yet started
// and is returned; results of finished jobs are kept in manifest order.
func (r *Runner) Run(ctx context.Context, m *Manifest) ([]*Result, error) {
	if len(m.Jobs) == 0 {
		return nil, ErrNoJobs
	}

	results := make([]*Result, len(m.Jobs))
	g, ctx := errgroup.WithContext(ctx)
	if m.Concurrency > 0 {
		g.SetLimit(m.Concurrency)
	}

	for i, job := range m.Jobs {
		i, job := i, job
		g.Go(func() error {
			cfg, err := job.ResolveConfig()
			if err != nil {
				return fmt.Errorf("job %d: %w", i+1, err)
			}
			res, err := r.RunJob(ctx, job, cfg)
			if err != nil {
				return fmt.Errorf("job %d: %w", i+1, err)
			}
			r.Log.WithFields(logrus.Fields{
				"job":     i + 1,
				"input":   job.Input,
				"elapsed": res.Elapsed,
			}).Info("job finished")
			results[i] = res
			return nil
		})
	}

	err := g.Wait()
	return results, err
}
