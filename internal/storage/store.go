package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/rafau/kiwi-rates/internal/rates"
)

// Store persists one append-only history file per source under a data
// directory. Writes are whole-file: marshal to a temp file, then rename over
// the target. No locking is performed; run at most one instance per data
// directory at a time.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// NewStore wires a data directory into a Store.
func NewStore(dir string, logger zerolog.Logger) *Store {
	return &Store{dir: dir, logger: logger.With().Str("component", "storage").Logger()}
}

// Path returns the history file path for a source.
func (s *Store) Path(source string) string {
	return filepath.Join(s.dir, source+"_rates.json")
}

// Load reads a source's history. A missing file is a legitimate empty
// history; an unreadable or unparsable file is an error naming the path.
func (s *Store) Load(source string) (rates.History, error) {
	path := s.Path(source)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug().Str("path", path).Msg("no history file, starting empty")
		return rates.History{}, nil
	}
	if err != nil {
		return rates.History{}, fmt.Errorf("read history %s: %w", path, err)
	}

	var history rates.History
	if err := json.Unmarshal(data, &history); err != nil {
		return rates.History{}, fmt.Errorf("parse history %s: %w", path, err)
	}
	return history, nil
}

// Save overwrites a source's history file atomically.
func (s *Store) Save(source string, history rates.History) error {
	path := s.Path(source)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace history %s: %w", path, err)
	}

	s.logger.Debug().Str("path", path).Int("observations", len(history.Observations)).Msg("history saved")
	return nil
}
