package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/chaoscipher/internal/chaos"
	"github.com/san-kum/chaoscipher/internal/container"
	"github.com/san-kum/chaoscipher/internal/permute"
	"github.com/san-kum/chaoscipher/internal/pixbuf"
	"github.com/san-kum/chaoscipher/internal/substitute"
)

var ErrShapeMismatch = errors.New("engine: recovered data does not match image shape")

// Params are the non-secret pipeline settings.
type Params struct {
	X0          float64
	R           float64
	ChannelStep float64
	Permute     bool
	Format      container.Format
}

func DefaultParams() Params {
	return Params{
		X0:          0.6,
		R:           chaos.DefaultLogisticR,
		ChannelStep: 0.01,
		Permute:     true,
		Format:      container.FormatGray,
	}
}

type Engine struct {
	params Params
	mode   substitute.Mode
	log    *logrus.Logger
}

type Option func(*Engine)

func WithLogger(l *logrus.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func New(p Params, mode substitute.Mode, opts ...Option) *Engine {
	e := &Engine{params: p, mode: mode}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logrus.New()
	}
	return e
}

func (e *Engine) Params() Params        { return e.params }
func (e *Engine) Mode() substitute.Mode { return e.mode }

// Stage is the wall time spent in one pipeline step.
type Stage struct {
	Name    string        `json:"name"`
	Elapsed time.Duration `json:"elapsed"`
}

// Sealed is the result of encrypting one buffer.
type Sealed struct {
	Data []byte
	// Preview is an image-shaped view of the ciphertext: the XORed samples in
	// stream mode, the scrambled samples in block mode (whose output is longer
	// than the image).
	Preview pixbuf.Buffer
	Stages  []Stage
}

func (s *Sealed) Elapsed() time.Duration {
	var total time.Duration
	for _, st := range s.Stages {
		total += st.Elapsed
	}
	return total
}

// sequence returns the permutation sequence for channel c.
func (e *Engine) sequence(c, n int) chaos.Sequence {
	l := chaos.Logistic{R: e.params.R}
	return l.Sequence(e.params.X0+float64(c)*e.params.ChannelStep, n)
}

func (e *Engine) checkFormat(channels int) error {
	if e.params.Format == container.FormatGray && channels != 1 {
		return fmt.Errorf("%w: gray container cannot hold %d channels", ErrShapeMismatch, channels)
	}
	return nil
}

func (e *Engine) Seal(buf pixbuf.Buffer) (*Sealed, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if err := e.checkFormat(buf.Channels); err != nil {
		return nil, err
	}

	out := &Sealed{}
	timed := func(name string, fn func() error) error {
		start := time.Now()
		err := fn()
		out.Stages = append(out.Stages, Stage{Name: name, Elapsed: time.Since(start)})
		e.log.WithFields(logrus.Fields{"stage": name, "elapsed": time.Since(start)}).Debug("seal stage done")
		return err
	}

	n := buf.PlaneLen()
	shape := substitute.Shape{Height: buf.Height, Width: buf.Width, Channels: buf.Channels}
	planes := buf.Planes()

	if e.params.Permute {
		err := timed("permute", func() error {
			for c, p := range planes {
				scrambled, err := permute.Scramble(p, e.sequence(c, n))
				if err != nil {
					return err
				}
				planes[c] = scrambled
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("permute: %w", err)
		}
	}

	var parts [][]byte
	err := timed("substitute", func() error {
		var err error
		parts, err = e.mode.Seal(planes, shape)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("substitute: %w", err)
	}

	err = timed("encode", func() error {
		h := container.Header{Height: buf.Height, Width: buf.Width, Channels: buf.Channels}
		var err error
		out.Data, err = container.Encode(parts, h, e.params.Format)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("encode container: %w", err)
	}

	previewPlanes := planes
	if e.mode.Kind() == substitute.KindStream {
		previewPlanes = parts
	}
	out.Preview, err = pixbuf.FromPlanes(buf.Height, buf.Width, previewPlanes)
	if err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"mode":     e.mode.Kind(),
		"shape":    fmt.Sprintf("%dx%dx%d", buf.Height, buf.Width, buf.Channels),
		"bytes":    len(out.Data),
		"elapsed":  out.Elapsed(),
		"permuted": e.params.Permute,
	}).Info("image sealed")
	return out, nil
}

func (e *Engine) Open(data []byte) (pixbuf.Buffer, error) {
	c, err := container.Decode(data, e.params.Format)
	if err != nil {
		return pixbuf.Buffer{}, fmt.Errorf("decode container: %w", err)
	}
	if c.Height <= 0 || c.Width <= 0 {
		return pixbuf.Buffer{}, fmt.Errorf("%w: %dx%d", ErrShapeMismatch, c.Height, c.Width)
	}
	e.log.Debugf("decoded container %dx%dx%d (%s)", c.Height, c.Width, c.Channels, e.params.Format)

	shape := substitute.Shape{Height: c.Height, Width: c.Width, Channels: c.Channels}
	planes, err := e.mode.Open(c.Parts, shape)
	if err != nil {
		if errors.Is(err, substitute.ErrPartLength) {
			return pixbuf.Buffer{}, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
		}
		return pixbuf.Buffer{}, fmt.Errorf("substitute: %w", err)
	}

	n := shape.PlaneLen()
	for i, p := range planes {
		if len(p) != n {
			return pixbuf.Buffer{}, fmt.Errorf("%w: channel %d has %d samples, want %d", ErrShapeMismatch, i, len(p), n)
		}
	}

	if e.params.Permute {
		for i, p := range planes {
			restored, err := permute.Unscramble(p, e.sequence(i, n))
			if err != nil {
				return pixbuf.Buffer{}, err
			}
			planes[i] = restored
		}
	}

	buf, err := pixbuf.FromPlanes(c.Height, c.Width, planes)
	if err != nil {
		return pixbuf.Buffer{}, err
	}
	e.log.WithFields(logrus.Fields{
		"mode":  e.mode.Kind(),
		"shape": fmt.Sprintf("%dx%dx%d", buf.Height, buf.Width, buf.Channels),
	}).Info("image opened")
	return buf, nil
}
