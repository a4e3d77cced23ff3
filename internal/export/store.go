package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/harmonik/internal/logging"
	"github.com/san-kum/harmonik/internal/params"
	"github.com/san-kum/harmonik/internal/raster"
)

const (
	metadataFile = "metadata.json"
	imageFile    = "frame.png"
)

// Store keeps exported frames under baseDir, one directory per export.
type Store struct {
	baseDir string
	now     func() time.Time
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Metadata struct {
	ID        string            `json:"id"`
	Created   time.Time         `json:"created"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Timestamp float64           `json:"timestamp_ms"`
	Params    params.Parameters `json:"params"`
	Preset    string            `json:"preset,omitempty"`
	File      string            `json:"file"`
}

// Save writes f as PNG plus a metadata sidecar and returns the export id.
func (s *Store) Save(f *raster.Frame, preset string, factor int) (Metadata, error) {
	if f.Empty() {
		return Metadata{}, ErrEmptyFrame
	}
	if err := s.Init(); err != nil {
		return Metadata{}, err
	}

	created := s.now()
	id := fmt.Sprintf("%s_%d", f.Params.Effect, created.UnixNano())
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Metadata{}, err
	}

	meta := Metadata{
		ID:        id,
		Created:   created,
		Width:     f.Width,
		Height:    f.Height,
		Timestamp: f.Timestamp,
		Params:    f.Params,
		Preset:    preset,
		File:      filepath.Join(dir, imageFile),
	}
	if factor > 1 {
		meta.Width *= factor
		meta.Height *= factor
	}

	if err := SavePNG(meta.File, f, factor); err != nil {
		return Metadata{}, err
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return Metadata{}, err
	}
	if err := os.WriteFile(filepath.Join(dir, metadataFile), data, 0644); err != nil {
		return Metadata{}, err
	}

	logging.Logger().Info("export saved", "id", id, "file", meta.File)
	return meta, nil
}

// SaveGIF encodes rec into the data directory and returns the file path.
func (s *Store) SaveGIF(rec *GIFRecorder, effect string) (string, error) {
	if rec.Len() == 0 {
		return "", ErrEmptyFrame
	}
	if err := s.Init(); err != nil {
		return "", err
	}
	path := filepath.Join(s.baseDir, fmt.Sprintf("%s_%d.gif", effect, s.now().UnixNano()))
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := rec.Encode(out); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	logging.Logger().Info("recording saved", "file", path, "frames", rec.Len())
	return path, nil
}

// List returns every export, newest first. A missing directory is empty.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	out := make([]Metadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			logging.Logger().Warn("skipping export", "dir", entry.Name(), "err", err)
			continue
		}
		out = append(out, meta)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Created.After(out[j].Created) })
	return out, nil
}

func (s *Store) Load(id string) (Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Metadata{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Metadata{}, err
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("export %s: %w", id, err)
	}
	return meta, nil
}
