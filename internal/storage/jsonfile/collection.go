package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hongminglow/telecon-hub-be/internal/storage"
)

// LoadCollection reads a whole collection file. A missing or empty file is
// an empty collection; undecodable content is storage.ErrCorrupt.
func LoadCollection[T any](path string) ([]T, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", storage.ErrCorrupt, filepath.Base(path), err)
	}
	return items, nil
}

// SaveCollection overwrites the collection file atomically.
func SaveCollection[T any](path string, items []T) error {
	tmp, err := stageCollection(path, items)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// stageCollection writes items next to path and returns the temp file name.
func stageCollection[T any](path string, items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", filepath.Base(path), err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("sync %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return f.Name(), nil
}

// collection caches one file for the lifetime of a Tx.
type collection[T any] struct {
	file   string
	items  []T
	loaded bool
	dirty  bool
}

func (c *collection[T]) all(dir string) ([]T, error) {
	if c.loaded {
		return c.items, nil
	}
	items, err := LoadCollection[T](filepath.Join(dir, c.file))
	if err != nil {
		return nil, err
	}
	c.items = items
	c.loaded = true
	return c.items, nil
}

func (c *collection[T]) append(dir string, v T) error {
	if _, err := c.all(dir); err != nil {
		return err
	}
	c.items = append(c.items, v)
	c.dirty = true
	return nil
}

func (c *collection[T]) stage(dir string) (staged, bool, error) {
	if !c.dirty {
		return staged{}, false, nil
	}
	final := filepath.Join(dir, c.file)
	tmp, err := stageCollection(final, c.items)
	if err != nil {
		return staged{}, false, err
	}
	return staged{tmp: tmp, final: final}, true, nil
}

type staged struct {
	tmp   string
	final string
}
