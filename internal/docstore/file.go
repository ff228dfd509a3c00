package docstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/signdesk/signdesk/internal/common"
)

// FileSnapshot stores the collection in a single file at a fixed path.
// Saves go through a temp file plus rename so a crash mid-write never leaves
// a torn slot behind.
type FileSnapshot struct {
	path string
}

func NewFileSnapshot(path string) (*FileSnapshot, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &FileSnapshot{path: path}, nil
}

func (f *FileSnapshot) Save(ctx context.Context, data []byte) error {
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o660); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

func (f *FileSnapshot) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return data, nil
}
