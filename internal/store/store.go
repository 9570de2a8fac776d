// Package store owns the on-disk representation of a task collection:
// loading, atomic saving, single-record appends, format detection, the
// one-time line-to-document migration, and prefix-based id resolution.
// Every distinct path is an independently consistent store; nothing here
// caches state across calls.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mesh-intelligence/readyq/internal/codec"
	"github.com/mesh-intelligence/readyq/internal/lockfile"
	"github.com/mesh-intelligence/readyq/pkg/task"
)

// Store reads and writes one task collection at a fixed path. Writes are
// serialized behind the sidecar lock; reads are lock-free and rely on
// writers being atomic.
type Store struct {
	path        string
	codec       codec.Codec
	lockTimeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithLockTimeout sets how long Save and Append wait for the sidecar lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// Open binds a store to path. The active codec follows the file content
// when the file exists; for a new file the extension decides, with the
// document form as the default.
func Open(path string, opts ...Option) *Store {
	s := &Store{path: path, lockTimeout: lockfile.DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}
	switch Detect(path) {
	case FormatLine:
		s.codec = codec.Line()
	case FormatDocument:
		s.codec = codec.Document()
	default:
		if strings.HasSuffix(path, ".jsonl") {
			s.codec = codec.Line()
		} else {
			s.codec = codec.Document()
		}
	}
	return s
}

// Path returns the store file path.
func (s *Store) Path() string { return s.path }

// CodecName identifies the active serialization.
func (s *Store) CodecName() string { return s.codec.Name() }

// Load reads the whole collection. A missing file is an empty collection,
// not an error. Malformed records are skipped with a warning.
func (s *Store) Load() ([]task.Task, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []task.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store %s: %w", s.path, err)
	}
	return s.codec.Decode(data)
}

// Save overwrites the whole collection atomically under the exclusive
// lock. This is the only operation that can persist edits to more than
// one task, so every multi-task mutation goes through it.
func (s *Store) Save(tasks []task.Task) error {
	lock, err := lockfile.Acquire(s.path, s.lockTimeout)
	if err != nil {
		return err
	}
	defer lock.Release()

	data, err := s.codec.Encode(tasks)
	if err != nil {
		return err
	}
	if err := writeAtomic(s.path, data); err != nil {
		return err
	}
	slog.Debug("saved store", "path", s.path, "tasks", len(tasks))
	return nil
}

// Append persists one new task under the exclusive lock without rewriting
// or reparsing the rest of the file.
func (s *Store) Append(t task.Task) error {
	lock, err := lockfile.Acquire(s.path, s.lockTimeout)
	if err != nil {
		return err
	}
	defer lock.Release()

	first := true
	if fi, err := os.Stat(s.path); err == nil && fi.Size() > 0 {
		first = false
	}
	rec, err := s.codec.AppendRecord(t, first)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening store %s: %w", s.path, err)
	}
	if _, err := f.Write(rec); err != nil {
		f.Close()
		return fmt.Errorf("appending to store %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing store %s: %w", s.path, err)
	}
	slog.Debug("appended task", "path", s.path, "id", t.ID)
	return nil
}

// writeAtomic replaces path all-or-nothing via the temp-file, fsync,
// rename pattern so lock-free readers never observe partial content.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".readyq-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
