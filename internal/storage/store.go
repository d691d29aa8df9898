package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
)

const (
	metadataFile  = "metadata.json"
	histogramFile = "histogram.csv"
	containerFile = "container.bin.zst"
)

var ErrDigest = errors.New("storage: container does not match its digest")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one encryption. Keys and passphrases are never
// stored.
type RunMetadata struct {
	ID             string             `json:"id"`
	Mode           string             `json:"mode"`
	Preset         string             `json:"preset,omitempty"`
	Source         string             `json:"source,omitempty"`
	Timestamp      time.Time          `json:"timestamp"`
	Height         int                `json:"height"`
	Width          int                `json:"width"`
	Channels       int                `json:"channels"`
	Format         string             `json:"format"`
	Permute        bool               `json:"permute"`
	Params         map[string]float64 `json:"params"`
	ContainerBytes int                `json:"container_bytes"`
	Digest         string             `json:"digest"`
	ElapsedMs      float64            `json:"elapsed_ms"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Run is everything Save persists for one encryption.
type Run struct {
	Meta       RunMetadata
	Container  []byte
	PlainHist  [256]int
	CipherHist [256]int
}

// Save writes run into a new directory and returns its id. Meta.ID and
// Meta.Timestamp are filled in by the store.
func (s *Store) Save(run *Run) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", run.Meta.Mode, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := run.Meta
	meta.ID = runID
	meta.Timestamp = now
	meta.ContainerBytes = len(run.Container)
	meta.Digest = digest(run.Container)

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeHistogram(filepath.Join(runDir, histogramFile), run.PlainHist, run.CipherHist); err != nil {
		return "", err
	}

	packed, err := compress(run.Container)
	if err != nil {
		return "", fmt.Errorf("compress container: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, containerFile), packed, 0644); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeHistogram(path string, plain, cipher [256]int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"value", "plain", "cipher"}); err != nil {
		return err
	}
	for v := 0; v < 256; v++ {
		row := []string{strconv.Itoa(v), strconv.Itoa(plain[v]), strconv.Itoa(cipher[v])}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadHistogram(runID string) (plain, cipher [256]int, err error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, histogramFile))
	if err != nil {
		return plain, cipher, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return plain, cipher, err
	}

	for i, record := range records {
		if i == 0 || len(record) != 3 {
			continue
		}
		v, err := strconv.Atoi(record[0])
		if err != nil || v < 0 || v > 255 {
			continue
		}
		if plain[v], err = strconv.Atoi(record[1]); err != nil {
			return plain, cipher, fmt.Errorf("histogram row %d: %w", i, err)
		}
		if cipher[v], err = strconv.Atoi(record[2]); err != nil {
			return plain, cipher, fmt.Errorf("histogram row %d: %w", i, err)
		}
	}

	return plain, cipher, nil
}

// LoadContainer returns the decompressed container bytes of a run, checked
// against the BLAKE3 digest recorded at save time.
func (s *Store) LoadContainer(runID string) ([]byte, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	packed, err := os.ReadFile(filepath.Join(s.baseDir, runID, containerFile))
	if err != nil {
		return nil, err
	}
	data, err := decompress(packed)
	if err != nil {
		return nil, fmt.Errorf("decompress container: %w", err)
	}
	if meta.Digest != "" && digest(data) != meta.Digest {
		return nil, fmt.Errorf("%w: run %s", ErrDigest, runID)
	}
	return data, nil
}

func digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err = enc.Write(data); err != nil {
		return nil, err
	}
	if err = enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var buf bytes.Buffer
	if _, err = io.Copy(&buf, dec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
