package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/oops"
)

// EntryDir stores one JSON file per entry. Files are never overwritten.
type EntryDir[T any] struct {
	dir string
}

func NewEntryDir[T any](dir string) *EntryDir[T] {
	return &EntryDir[T]{dir: dir}
}

func (d *EntryDir[T]) Dir() string {
	return d.dir
}

// Write creates dir/name and returns its path. It fails if the file already exists.
func (d *EntryDir[T]) Write(name string, entry T) (string, error) {
	errb := oops.In("journal").With("dir", d.dir, "name", name)

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return "", errb.Wrapf(err, "failed to create entry directory")
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", errb.Wrapf(err, "failed to marshal entry")
	}

	path := filepath.Join(d.dir, name)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return "", errb.Wrapf(err, "failed to create entry file")
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		return "", errb.Wrapf(err, "failed to write entry")
	}

	if err = file.Close(); err != nil {
		return "", errb.Wrapf(err, "failed to close entry")
	}

	return path, nil
}

// List returns all parsable entries ordered by file name. Unparsable files are skipped.
func (d *EntryDir[T]) List() ([]T, error) {
	items, err := os.ReadDir(d.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, oops.In("journal").With("dir", d.dir).Wrapf(err, "failed to list entries")
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		if item.IsDir() || !strings.HasSuffix(item.Name(), ".json") {
			continue
		}
		names = append(names, item.Name())
	}
	sort.Strings(names)

	result := make([]T, 0, len(names))
	for _, name := range names {
		entry, err := d.read(filepath.Join(d.dir, name))
		if err != nil {
			slog.Warn("Skipping unreadable entry", "name", name, "error", err)
			continue
		}
		result = append(result, entry)
	}

	return result, nil
}

func (d *EntryDir[T]) read(path string) (T, error) {
	var entry T

	data, err := os.ReadFile(path)
	if err != nil {
		return entry, fmt.Errorf("failed to read entry: %w", err)
	}

	if err = json.Unmarshal(data, &entry); err != nil {
		return entry, fmt.Errorf("failed to parse entry: %w", err)
	}

	return entry, nil
}
