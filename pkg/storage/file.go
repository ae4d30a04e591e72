package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/smartstep/pkg/errors"
	"github.com/matzehuels/smartstep/pkg/scene"
)

// FileStore keeps each scene as <dir>/<id>.json.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file-based store. An empty dir defaults to
// ~/.config/smartstep/scenes.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "smartstep", "scenes")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scene dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory scenes are stored in.
func (f *FileStore) Dir() string { return f.dir }

func (f *FileStore) path(id string) string {
	return filepath.Join(f.dir, id+".json")
}

// Get implements [Store].
func (f *FileStore) Get(ctx context.Context, id string) (*scene.Scene, error) {
	if err := errors.ValidateID(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return scene.ReadFile(f.path(id))
}

// Put implements [Store]. The file is replaced atomically.
func (f *FileStore) Put(ctx context.Context, s *scene.Scene) error {
	if err := errors.ValidateID(s.ID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := scene.Write(&buf, s); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	tmp, err := os.CreateTemp(f.dir, ".scene-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write scene: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return os.Rename(tmp.Name(), f.path(s.ID))
}

// Delete implements [Store].
func (f *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateID(id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete scene: %w", err)
	}
	return nil
}

// List implements [Store]. Files that fail to parse are skipped.
func (f *FileStore) List(ctx context.Context) ([]Info, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("read scene dir: %w", err)
	}
	infos := make([]Info, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		s, err := scene.ReadFile(filepath.Join(f.dir, name))
		if err != nil {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, infoOf(s, fi.ModTime()))
	}
	sortInfos(infos)
	return infos, nil
}

// Close implements [Store].
func (f *FileStore) Close() error { return nil }
