package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/samber/oops"
)

const filePerm = 0644

// ArrayLog is a JSON array file that only ever grows by one entry at a time.
type ArrayLog[T any] struct {
	path string
	lock *flock.Flock

	mu sync.Mutex
}

// NewArrayLog returns a log stored at path. With locked set every append holds an
// advisory lock on "<path>.lock" so several processes can share the file.
func NewArrayLog[T any](path string, locked bool) *ArrayLog[T] {
	l := &ArrayLog[T]{path: path}
	if locked {
		l.lock = flock.New(path + ".lock")
	}

	return l
}

func (l *ArrayLog[T]) Path() string {
	return l.path
}

// Load returns every entry in file order. A missing or malformed file reads as an
// empty log.
func (l *ArrayLog[T]) Load() []T {
	entries, err := l.read()
	if err != nil {
		slog.Warn("Could not load journal, treating as empty",
			"path", l.path,
			"error", err,
		)
		return []T{}
	}

	return entries
}

// Append adds entry to the end of the log and returns the new length.
func (l *ArrayLog[T]) Append(entry T) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	errb := oops.In("journal").With("path", l.path)

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return 0, errb.Wrapf(err, "failed to create journal directory")
	}

	if l.lock != nil {
		if err := l.lock.Lock(); err != nil {
			return 0, errb.Wrapf(err, "failed to lock journal")
		}
		defer l.lock.Unlock()
	}

	entries, err := l.read()
	if err != nil {
		slog.Warn("Journal is malformed, starting a new one",
			"path", l.path,
			"error", err,
		)
		l.setAside()
		entries = []T{}
	}

	entries = append(entries, entry)

	if err = l.write(entries); err != nil {
		return 0, errb.Wrap(err)
	}

	return len(entries), nil
}

func (l *ArrayLog[T]) read() ([]T, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	var entries []T
	if err = json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse journal: %w", err)
	}
	if entries == nil {
		entries = []T{}
	}

	return entries, nil
}

func (l *ArrayLog[T]) write(entries []T) error {
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}

	file, err := os.CreateTemp(filepath.Dir(l.path), filepath.Base(l.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := file.Name()
	defer os.Remove(tmpPath)

	if _, err = file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("failed to write journal: %w", err)
	}

	if err = file.Chmod(filePerm); err != nil {
		file.Close()
		return fmt.Errorf("failed to chmod journal: %w", err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close journal: %w", err)
	}

	if err = os.Rename(tmpPath, l.path); err != nil {
		return fmt.Errorf("failed to replace journal: %w", err)
	}

	return nil
}

// setAside keeps an unreadable journal next to the new one instead of overwriting it.
func (l *ArrayLog[T]) setAside() {
	if _, err := os.Stat(l.path); err != nil {
		return
	}

	target := fmt.Sprintf("%s.corrupt-%s", l.path, time.Now().Format("20060102-150405"))
	if err := os.Rename(l.path, target); err != nil {
		slog.Error("Failed to set aside malformed journal",
			"path", l.path,
			"error", err,
		)
		return
	}

	slog.Warn("Malformed journal moved", "path", l.path, "target", target)
}
