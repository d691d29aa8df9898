package batch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/chaoscipher/internal/imageio"
	"github.com/san-kum/chaoscipher/internal/pixbuf"
	"github.com/san-kum/chaoscipher/internal/storage"
)

func quietRunner(store *storage.Store) *Runner {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewRunner(store, l)
}

func writeImage(t *testing.T, dir, name string, channels int) string {
	t.Helper()
	b := pixbuf.New(12, 10, channels)
	for i := range b.Pix {
		b.Pix[i] = byte(i * 3)
	}
	path := filepath.Join(dir, name)
	if err := imageio.Save(path, b); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.yaml")
	manifest := `name: nightly
concurrency: 2
jobs:
  - input: a.png
    output: a.bin
    preset: des
  - input: a.bin
    output: a.out.png
    decrypt: true
`
	if err := os.WriteFile(path, []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Name != "nightly" || m.Concurrency != 2 || len(m.Jobs) != 2 {
		t.Errorf("unexpected manifest %+v", m)
	}
	if !m.Jobs[1].Decrypt {
		t.Error("expected second job to decrypt")
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("name: nothing\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(empty); !errors.Is(err, ErrNoJobs) {
		t.Errorf("expected ErrNoJobs, got %v", err)
	}
}

func TestRunEncryptThenDecrypt(t *testing.T) {
	dir := t.TempDir()
	store := storage.New(filepath.Join(dir, "runs"))
	r := quietRunner(store)

	gray := writeImage(t, dir, "gray.png", 1)
	rgb := writeImage(t, dir, "rgb.png", 3)

	enc := &Manifest{
		Concurrency: 2,
		Jobs: []Job{
			{Input: gray, Output: filepath.Join(dir, "gray.bin"), Preset: "des", Save: true},
			{Input: rgb, Output: filepath.Join(dir, "rgb.bin"), Preset: "hybrid", Preview: filepath.Join(dir, "rgb.preview.png")},
		},
	}
	results, err := r.Run(context.Background(), enc)
	if err != nil {
		t.Fatalf("encrypt batch: %v", err)
	}
	if results[0].RunID == "" {
		t.Error("expected saved run id for first job")
	}
	if results[1].Report == nil || results[1].Report.NPCR < 90 {
		t.Errorf("unexpected report for keystream job: %+v", results[1].Report)
	}
	if _, err := os.Stat(filepath.Join(dir, "rgb.preview.png")); err != nil {
		t.Errorf("preview not written: %v", err)
	}

	dec := &Manifest{
		Jobs: []Job{
			{Input: filepath.Join(dir, "gray.bin"), Output: filepath.Join(dir, "gray.out.png"), Preset: "des", Decrypt: true},
			{Input: filepath.Join(dir, "rgb.bin"), Output: filepath.Join(dir, "rgb.out.png"), Preset: "hybrid", Decrypt: true},
		},
	}
	if _, err := r.Run(context.Background(), dec); err != nil {
		t.Fatalf("decrypt batch: %v", err)
	}

	for _, pair := range [][2]string{{gray, "gray.out.png"}, {rgb, "rgb.out.png"}} {
		model := imageio.Gray
		if pair[0] == rgb {
			model = imageio.RGB
		}
		want, err := imageio.Load(pair[0], model)
		if err != nil {
			t.Fatal(err)
		}
		got, err := imageio.Load(filepath.Join(dir, pair[1]), model)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got.Pix, want.Pix) {
			t.Errorf("%s: decrypted image differs from original", pair[1])
		}
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 stored run, got %d", len(runs))
	}
}

func TestRunStopsOnError(t *testing.T) {
	dir := t.TempDir()
	r := quietRunner(nil)

	m := &Manifest{
		Concurrency: 1,
		Jobs: []Job{
			{Input: filepath.Join(dir, "missing.png"), Output: filepath.Join(dir, "x.bin")},
			{Input: writeImage(t, dir, "ok.png", 1), Output: filepath.Join(dir, "ok.bin")},
		},
	}
	if _, err := r.Run(context.Background(), m); err == nil {
		t.Error("expected error for missing input")
	}
}

func TestUnknownPreset(t *testing.T) {
	if _, err := (Job{Preset: "rot13"}).ResolveConfig(); err == nil {
		t.Error("expected error for unknown preset")
	}
	cfg, err := (Job{}).ResolveConfig()
	if err != nil || cfg.Mode != "des" {
		t.Errorf("expected default des preset, got %+v %v", cfg, err)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg, _ := (Job{}).ResolveConfig()
	if _, err := quietRunner(nil).RunJob(ctx, Job{}, cfg); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
