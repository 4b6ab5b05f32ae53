package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DiskStore keeps each artifact as a JSON file in one directory.
type DiskStore struct {
	dir string
}

// NewDiskStore returns a store rooted at dir. The directory is created on Save.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

// Location returns the artifact directory.
func (d *DiskStore) Location() string {
	return d.dir
}

// Paths returns the two artifact file paths.
func (d *DiskStore) Paths() []string {
	return []string{
		filepath.Join(d.dir, VectorizerName),
		filepath.Join(d.dir, ModelName),
	}
}

// Save writes both artifact files, replacing existing ones.
func (d *DiskStore) Save(ctx context.Context, a *Artifacts) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	if err := writeJSON(filepath.Join(d.dir, VectorizerName), vectorizerFile{Meta: a.Meta, Pipeline: a.Pipeline}); err != nil {
		return err
	}
	return writeJSON(filepath.Join(d.dir, ModelName), modelFile{Meta: a.Meta, Classifier: a.Classifier})
}

// Load reads both artifact files.
func (d *DiskStore) Load(ctx context.Context) (*Artifacts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var vf vectorizerFile
	if err := readJSON(filepath.Join(d.dir, VectorizerName), &vf); err != nil {
		return nil, err
	}
	var mf modelFile
	if err := readJSON(filepath.Join(d.dir, ModelName), &mf); err != nil {
		return nil, err
	}
	return assemble(vf, mf)
}

// Close is a no-op.
func (d *DiskStore) Close() error {
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, ErrArtifactNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// DiskUsageBytes returns the total size in bytes of the given paths.
// Each path may be a file or a directory (recursively summed).
// Missing paths are skipped; errors during walk are returned.
func DiskUsageBytes(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		if !info.IsDir() {
			total += info.Size()
			continue
		}
		err = filepath.WalkDir(p, func(_ string, entry os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				return nil
			}
			fi, err := entry.Info()
			if err != nil {
				return err
			}
			total += fi.Size()
			return nil
		})
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}
