package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/chaoscipher/internal/config"
	"github.com/san-kum/chaoscipher/internal/pixbuf"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		m, _ = m.Update(key(k))
	}
	return m
}

func TestExplorerInitialStats(t *testing.T) {
	m := NewExplorer(config.GetPreset("des"), pixbuf.Buffer{})

	if m.stats.err != nil {
		t.Fatalf("unexpected error: %v", m.stats.err)
	}
	if m.stats.lyapunov <= 0 {
		t.Errorf("expected positive lyapunov at r=3.99, got %v", m.stats.lyapunov)
	}
	if m.stats.divergence < 0.5 {
		t.Errorf("expected most positions to move, got %v", m.stats.divergence)
	}
	if !m.stats.preview.SameShape(m.image) {
		t.Error("preview shape differs from image")
	}
}

func TestExplorerAdjust(t *testing.T) {
	m := send(*NewExplorer(config.GetPreset("des"), pixbuf.Buffer{}), "down", "right").(model)

	if m.cursor != 1 {
		t.Fatalf("expected cursor on r, got %d", m.cursor)
	}
	if got := m.cfg.Logistic.R; got < 3.999 || got > 4.001 {
		t.Errorf("expected r near 4.0, got %v", got)
	}
}

func TestExplorerEdit(t *testing.T) {
	m := send(*NewExplorer(config.GetPreset("des"), pixbuf.Buffer{}), "enter").(model)
	if !m.editing {
		t.Fatal("expected edit mode")
	}
	for i := 0; i < 10; i++ {
		m = send(m, "backspace").(model)
	}
	m = send(m, "0", ".", "2", "5", "enter").(model)

	if m.editing {
		t.Error("expected edit mode to end")
	}
	if m.cfg.Logistic.X0 != 0.25 {
		t.Errorf("expected x0 0.25, got %v", m.cfg.Logistic.X0)
	}
}

func TestExplorerToggles(t *testing.T) {
	cfg := config.GetPreset("des")
	m := send(*NewExplorer(cfg, pixbuf.Buffer{}), "m", "p").(model)

	if m.cfg.Mode != config.ModeHenon {
		t.Errorf("expected henon mode, got %s", m.cfg.Mode)
	}
	if m.cfg.Permute {
		t.Error("expected permutation off")
	}
	if cfg.Mode != config.ModeDES {
		t.Error("explorer modified the caller's config")
	}
	if m.stats.err != nil {
		t.Errorf("unexpected error: %v", m.stats.err)
	}
}

func TestExplorerView(t *testing.T) {
	m := NewExplorer(config.GetPreset("hybrid"), pixbuf.Buffer{})
	out := m.View()

	for _, want := range []string{"seed explorer", "lyapunov", "NPCR", "keystream", "henon x0"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestExplorerQuit(t *testing.T) {
	_, cmd := NewExplorer(config.GetPreset("des"), pixbuf.Buffer{}).Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
