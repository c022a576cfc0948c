package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"climate-data-platform/internal/climate"
)

// shortNames maps variable identifiers to the short names used in file
// names, matching the naming of real reanalysis extracts.
var shortNames = map[string]string{
	climate.Var2mTemperature: "t2m",
}

// FileStore persists field documents as JSON files under a data directory,
// one file per (variable, date). Documents are immutable once written.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store: empty data directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the on-disk location for a (variable, date) document, e.g.
// <dir>/era5_t2m_20240101.json.
func (s *FileStore) Path(variable, date string) string {
	short, ok := shortNames[variable]
	if !ok {
		short = variable
	}
	compact := strings.ReplaceAll(date, "-", "")
	return filepath.Join(s.dir, fmt.Sprintf("era5_%s_%s.json", short, compact))
}

// Save writes the document to disk. The write goes through a temp file and
// rename so readers never observe a partial document.
func (s *FileStore) Save(doc climate.FieldDocument) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("file store: encode %s %s: %w", doc.Variable, doc.Date, err)
	}

	path := s.Path(doc.Variable, doc.Date)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("file store: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("file store: rename %s: %w", path, err)
	}
	return nil
}

// Get reads a document back from disk.
func (s *FileStore) Get(variable, date string) (climate.FieldDocument, error) {
	data, err := os.ReadFile(s.Path(variable, date))
	if err != nil {
		if os.IsNotExist(err) {
			return climate.FieldDocument{}, ErrNotFound
		}
		return climate.FieldDocument{}, fmt.Errorf("file store: read %s %s: %w", variable, date, err)
	}

	var doc climate.FieldDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return climate.FieldDocument{}, fmt.Errorf("file store: decode %s %s: %w", variable, date, err)
	}
	if err := doc.Validate(); err != nil {
		return climate.FieldDocument{}, fmt.Errorf("file store: %s %s: %w", variable, date, err)
	}
	return doc, nil
}

// List returns the names of all persisted documents, sorted.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("file store: list %s: %w", s.dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
