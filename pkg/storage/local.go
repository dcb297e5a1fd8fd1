package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/voidshard/archivist/internal/utils"
	ie "github.com/voidshard/archivist/pkg/errors"
)

// Local stores archives as files in a directory.
type Local struct {
	dir string
}

// NewLocal returns storage writing to the given directory, creating it if needed.
func NewLocal(dir string) (*Local, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, err
	}
	return &Local{dir: dir}, nil
}

// Put writes to a temp file in the same directory then renames it into place,
// so the final path only ever holds a complete archive.
func (l *Local) Put(ctx context.Context, id string, data []byte) error {
	if !utils.IsValidID(id) {
		return fmt.Errorf("%w %s", ie.ErrInvalidArg, id)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(l.dir, "."+id+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	_, err = tmp.Write(data)
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Sync()
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}

	err = os.Rename(tmp.Name(), l.path(id))
	if err != nil {
		return err
	}
	return l.syncDir()
}

// syncDir flushes directory entries (ie. a rename) to disk
func (l *Local) syncDir() error {
	d, err := os.Open(l.dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}

func (l *Local) Get(ctx context.Context, id string) ([]byte, error) {
	if !utils.IsValidID(id) {
		return nil, fmt.Errorf("%w %s", ie.ErrInvalidArg, id)
	}
	data, err := os.ReadFile(l.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w archive %s", ie.ErrNotFound, id)
	}
	return data, err
}

func (l *Local) Delete(ctx context.Context, id string) error {
	if !utils.IsValidID(id) {
		return fmt.Errorf("%w %s", ie.ErrInvalidArg, id)
	}
	err := os.Remove(l.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (l *Local) Close() error {
	return nil
}

func (l *Local) path(id string) string {
	return filepath.Join(l.dir, fileName(id))
}

