package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"survilav/lib/sl"
)

// CorruptDataError reports a backing file that exists but could not be
// read or decoded. Callers treat it as an empty collection; the typed
// error keeps the condition distinguishable from a genuinely empty file.
type CorruptDataError struct {
	Path string
	Err  error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt data file %s: %v", e.Path, e.Err)
}

func (e *CorruptDataError) Unwrap() error {
	return e.Err
}

// Store persists one ordered collection of records as a JSON array in a
// flat file. Each instance carries its own mutex, so stores for
// different entity types never block each other. Every mutation goes
// through Update, which holds the lock across the whole
// load-modify-save cycle.
type Store[T any] struct {
	path string
	mu   sync.Mutex
	log  *slog.Logger
}

func New[T any](path string, log *slog.Logger) *Store[T] {
	return &Store[T]{
		path: path,
		log:  log.With(sl.Module("storage"), slog.String("file", filepath.Base(path))),
	}
}

// Load returns the stored collection. A missing file is an empty
// collection. An unreadable or malformed file is logged and also
// returned as empty, together with a *CorruptDataError.
func (s *Store[T]) Load() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Save atomically replaces the full contents of the backing file.
func (s *Store[T]) Save(records []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(records)
}

// Update runs one exclusive load-modify-save cycle. The mutator
// receives the current collection and returns the collection to
// persist; returning an error aborts the cycle with nothing written.
// A corrupt read fails open: the mutator sees an empty collection.
func (s *Store[T]) Update(mutate func(records []T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, _ := s.read()
	updated, err := mutate(records)
	if err != nil {
		return err
	}
	return s.write(updated)
}

func (s *Store[T]) read() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}
		corrupt := &CorruptDataError{Path: s.path, Err: err}
		s.log.Error("reading data file", sl.Err(corrupt))
		return []T{}, corrupt
	}

	var records []T
	if err = json.Unmarshal(data, &records); err != nil {
		corrupt := &CorruptDataError{Path: s.path, Err: err}
		s.log.Error("decoding data file", sl.Err(corrupt))
		return []T{}, corrupt
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// write goes through a temp file and rename, so a concurrent reader
// never observes a partially written file.
func (s *Store[T]) write(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err = os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing records: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replacing data file: %w", err)
	}
	return nil
}
