package etable

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// CachePath returns the cache artifact location for an input file: the
// input's stem with a _cache.gob suffix, beside the input.
func CachePath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "_cache.gob"
}

// LoadCache decodes a previously stored table snapshot.
func LoadCache(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var t Table
	if err := gob.NewDecoder(file).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// StoreCache writes a table snapshot for later runs.
func StoreCache(path string, t *Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return gob.NewEncoder(file).Encode(t)
}

// ReadFileCached is the read-through entry point: use the cache beside the
// input when enabled and readable, otherwise parse the input and refresh
// the cache. Presence is the only validity signal; an unreadable artifact
// is re-parsed and overwritten.
func ReadFileCached(path, sheet string, useCache bool, log *zap.Logger) (*Table, error) {
	cachePath := CachePath(path)
	if useCache {
		t, err := LoadCache(cachePath)
		if err == nil {
			log.Debug("parsed-table cache hit", zap.String("cache", cachePath))
			return t, nil
		}
		if !os.IsNotExist(err) {
			log.Warn("parsed-table cache unreadable, re-parsing input",
				zap.String("cache", cachePath), zap.Error(err))
		}
	}

	t, err := ReadFile(path, sheet)
	if err != nil {
		return nil, err
	}
	if useCache {
		if err := StoreCache(cachePath, t); err != nil {
			log.Warn("parsed-table cache not written",
				zap.String("cache", cachePath), zap.Error(err))
		}
	}
	return t, nil
}
