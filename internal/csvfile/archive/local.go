package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var errInvalidKey = errors.New("invalid archive key")

// Local writes each object as a file under dir.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("archive directory is empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	return &Local{dir: dir}, nil
}

// Put writes content to a temporary file and renames it into place, so a
// reader never sees a partial object.
func (l *Local) Put(ctx context.Context, key string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", errInvalidKey, key)
	}

	tmp, err := os.CreateTemp(l.dir, "."+key+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after rename

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), filepath.Join(l.dir, key))
}
