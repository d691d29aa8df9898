// Package tui is an interactive seed explorer: tune the chaotic map
// parameters and watch the permutation, keystream and cipher metrics react.
package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/chaoscipher/internal/chaos"
	"github.com/san-kum/chaoscipher/internal/config"
	"github.com/san-kum/chaoscipher/internal/engine"
	"github.com/san-kum/chaoscipher/internal/permute"
	"github.com/san-kum/chaoscipher/internal/pixbuf"
	"github.com/san-kum/chaoscipher/internal/quality"
	"github.com/san-kum/chaoscipher/internal/viz"
)

type param struct {
	name string
	step float64
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
}

var params = []param{
	{"x0", 0.001, func(c *config.Config) float64 { return c.Logistic.X0 }, func(c *config.Config, v float64) { c.Logistic.X0 = v }},
	{"r", 0.01, func(c *config.Config) float64 { return c.Logistic.R }, func(c *config.Config, v float64) { c.Logistic.R = v }},
	{"henon a", 0.01, func(c *config.Config) float64 { return c.Henon.A }, func(c *config.Config, v float64) { c.Henon.A = v }},
	{"henon b", 0.01, func(c *config.Config) float64 { return c.Henon.B }, func(c *config.Config, v float64) { c.Henon.B = v }},
	{"henon x0", 0.001, func(c *config.Config) float64 { return c.Henon.X0 }, func(c *config.Config, v float64) { c.Henon.X0 = v }},
	{"henon y0", 0.001, func(c *config.Config) float64 { return c.Henon.Y0 }, func(c *config.Config, v float64) { c.Henon.Y0 = v }},
	{"henon z0", 0.001, func(c *config.Config) float64 { return c.Henon.Z0 }, func(c *config.Config, v float64) { c.Henon.Z0 = v }},
}

// perturbation is the seed offset used to measure sensitivity.
const perturbation = 1e-9

type stats struct {
	report     quality.Report
	preview    pixbuf.Buffer
	sequence   chaos.Sequence
	keystream  []byte
	lyapunov   float64
	divergence float64
	err        error
}

type model struct {
	cfg     *config.Config
	image   pixbuf.Buffer
	cursor  int
	editing bool
	editBuf string
	stats   stats

	registry *engine.Registry
	log      *logrus.Logger

	width  int
	height int
}

// NewExplorer starts from cfg (which is copied) and encrypts img on every
// change. A zero img is replaced by a synthetic gradient.
func NewExplorer(cfg *config.Config, img pixbuf.Buffer) *model {
	if img.Len() == 0 {
		img = gradient(48, 48, cfg.Channels())
	}
	log := logrus.New()
	log.SetOutput(io.Discard)

	m := &model{
		cfg:      cfg.Clone(),
		image:    img,
		registry: engine.NewRegistry(),
		log:      log,
		width:    100,
		height:   32,
	}
	m.recompute()
	return m
}

func gradient(h, w, c int) pixbuf.Buffer {
	b := pixbuf.New(h, w, c)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for ch := 0; ch < c; ch++ {
				b.Pix[(y*w+x)*c+ch] = byte((x*255/w + y*255/h) / 2)
			}
		}
	}
	return b
}

func (m *model) recompute() {
	st := stats{}
	n := m.image.PlaneLen()

	l := chaos.Logistic{R: m.cfg.Logistic.R}
	st.sequence = l.Sequence(m.cfg.Logistic.X0, n)
	st.lyapunov = chaos.LogisticLyapunov(m.cfg.Logistic.R, m.cfg.Logistic.X0, 100, 1000)

	base := permute.Argsort(st.sequence)
	moved := permute.Argsort(l.Sequence(m.cfg.Logistic.X0+perturbation, n))
	st.divergence = base.Diff(moved)

	h := chaos.Henon3D{A: m.cfg.Henon.A, B: m.cfg.Henon.B}
	st.keystream = chaos.HenonKeystream(&h, m.cfg.Henon.X0, m.cfg.Henon.Y0, m.cfg.Henon.Z0, 64)

	e, err := m.registry.Build(m.cfg, engine.ResolveKey(m.cfg, nil), engine.WithLogger(m.log))
	if err == nil {
		var sealed *engine.Sealed
		sealed, err = e.Seal(m.image)
		if err == nil {
			st.preview = sealed.Preview
			st.report, err = quality.Evaluate(m.image, sealed.Preview)
		}
	}
	st.err = err
	m.stats = st
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		return m.editKey(msg)
	}

	p := params[m.cursor]
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(params)-1 {
			m.cursor++
		}
	case "left", "h":
		p.set(m.cfg, p.get(m.cfg)-p.step)
		m.recompute()
	case "right", "l":
		p.set(m.cfg, p.get(m.cfg)+p.step)
		m.recompute()
	case "enter":
		m.editing = true
		m.editBuf = strconv.FormatFloat(p.get(m.cfg), 'g', -1, 64)
	case "m":
		if m.cfg.Mode == config.ModeDES {
			m.cfg.Mode = config.ModeHenon
		} else {
			m.cfg.Mode = config.ModeDES
		}
		m.recompute()
	case "p":
		m.cfg.Permute = !m.cfg.Permute
		m.recompute()
	case "t":
		viz.NextTheme()
	}
	return m, nil
}

func (m model) editKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
			params[m.cursor].set(m.cfg, v)
			m.recompute()
		}
		m.editing = false
		m.editBuf = ""
	case "esc":
		m.editing = false
		m.editBuf = ""
	case "backspace":
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	default:
		if s := msg.String(); len(s) == 1 {
			c := s[0]
			if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
				m.editBuf += s
			}
		}
	}
	return m, nil
}

func (m model) View() string {
	left := m.viewParams()
	right := m.viewResults()
	return lipgloss.JoinHorizontal(lipgloss.Top, viz.Panel.Render(left), " ", viz.Panel.Render(right)) + "\n" +
		viz.KeyHint.Render("  ↑↓ select  ←→ adjust  enter edit  m mode  p permute  t theme  q quit") + "\n"
}

func (m model) viewParams() string {
	var b strings.Builder
	b.WriteString(viz.Title.Render("seed explorer") + "\n")
	b.WriteString(viz.Subtle.Render(fmt.Sprintf("mode %s  permute %v", m.cfg.Mode, m.cfg.Permute)) + "\n\n")

	for i, p := range params {
		val := fmt.Sprintf("%12.6f", p.get(m.cfg))
		if m.editing && i == m.cursor {
			val = fmt.Sprintf("%12s", m.editBuf+"▋")
		}
		if i == m.cursor {
			b.WriteString(viz.Selected.Render("▸ "+fmt.Sprintf("%-10s", p.name)) + viz.MetricValue.Render(val) + "\n")
		} else {
			b.WriteString("  " + viz.Subtle.Render(fmt.Sprintf("%-10s", p.name)+val) + "\n")
		}
	}

	b.WriteString("\n")
	lyap := viz.Pass.Render(fmt.Sprintf("%+.4f", m.stats.lyapunov))
	if m.stats.lyapunov <= 0 {
		lyap = viz.Fail.Render(fmt.Sprintf("%+.4f", m.stats.lyapunov))
	}
	b.WriteString(viz.MetricLabel.Render("lyapunov") + lyap + "\n")
	b.WriteString(viz.MetricLabel.Render("divergence") + viz.MetricValue.Render(fmt.Sprintf("%.2f %%", m.stats.divergence*100)) + "\n")
	b.WriteString(viz.Subtle.Render(fmt.Sprintf("  positions moved by x0%+g", perturbation)) + "\n")
	return b.String()
}

func (m model) viewResults() string {
	var b strings.Builder
	if m.stats.err != nil {
		b.WriteString(viz.Fail.Render("error: "+m.stats.err.Error()) + "\n")
		return b.String()
	}

	r := m.stats.report
	b.WriteString(viz.Title.Render("cipher preview") + "\n")
	b.WriteString(viz.RenderImage(m.stats.preview, 24, 12))
	b.WriteString(viz.MetricLabel.Render("NPCR") + viz.MetricValue.Render(fmt.Sprintf("%8.4f %%", r.NPCR)) + "\n")
	b.WriteString(viz.MetricLabel.Render("UACI") + viz.MetricValue.Render(fmt.Sprintf("%8.4f %%", r.UACI)) + "\n")
	b.WriteString(viz.MetricLabel.Render("entropy") + viz.MetricValue.Render(fmt.Sprintf("%8.4f", r.Entropy)) + "\n")

	seq := m.stats.sequence
	if len(seq) > 48 {
		seq = seq[:48]
	}
	b.WriteString("\n" + viz.Subtle.Render("logistic") + "  " + viz.Sparkline(seq, 48) + "\n")

	ks := make([]float64, len(m.stats.keystream))
	for i, v := range m.stats.keystream {
		ks[i] = float64(v)
	}
	b.WriteString(viz.Subtle.Render("keystream") + " " + viz.Sparkline(ks, 48) + "\n")
	return b.String()
}

func Run(cfg *config.Config, img pixbuf.Buffer) error {
	p := tea.NewProgram(NewExplorer(cfg, img), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
