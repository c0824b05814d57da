// Package store persists monitor snapshots as JSON files and serves reads
// through a modtime-keyed LRU cache, so the API never re-parses a snapshot
// that has not changed on disk.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/marketgrid/nsewatch/models"
)

// Store reads and writes snapshot files under a base directory.
type Store struct {
	dir   string
	cache *lru.Cache[string, *models.Snapshot]
}

// New creates a Store rooted at dir with an LRU of cacheSize parsed
// snapshots.
func New(dir string, cacheSize int) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = 32
	}
	cache, err := lru.New[string, *models.Snapshot](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Store{dir: dir, cache: cache}, nil
}

// Path resolves a snapshot-relative path under the base directory.
func (s *Store) Path(rel string) string {
	return filepath.Join(s.dir, rel)
}

// Write atomically replaces the snapshot at rel: marshal to a temp file in
// the same directory, then rename over the target. Readers only ever see a
// complete file. Stale sibling JSON files left by earlier runs are removed.
func (s *Store) Write(rel string, snap *models.Snapshot) error {
	path := s.Path(rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: replace %s: %w", path, err)
	}

	s.removeStale(dir)
	return nil
}

// removeStale deletes old per-cycle JSON files (earlier versions of the
// pipeline wrote one file per scrape) so the data directories stay flat.
func (s *Store) removeStale(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, "latest") {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			slog.Warn("failed to remove stale snapshot", "file", name, "error", err)
		}
	}
}

// Read returns the snapshot at rel, from cache when the file has not changed
// since it was last parsed. A missing file maps to ErrCodeSnapshotMissing.
func (s *Store) Read(rel string) (*models.Snapshot, error) {
	path := s.Path(rel)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.NewScrapeError(models.ErrCodeSnapshotMissing,
				"no snapshot yet for "+rel, err)
		}
		return nil, fmt.Errorf("store: stat %s: %w", path, err)
	}

	key := fmt.Sprintf("%s@%d", path, info.ModTime().UnixNano())
	if snap, ok := s.cache.Get(key); ok {
		return snap, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("store: parse %s: %w", path, err)
	}
	s.cache.Add(key, &snap)
	return &snap, nil
}

// Exists reports whether a snapshot file is present at rel.
func (s *Store) Exists(rel string) bool {
	_, err := os.Stat(s.Path(rel))
	return err == nil
}
