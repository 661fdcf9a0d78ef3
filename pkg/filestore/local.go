// Package filestore keeps uploaded images on the local disk under the public root.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// ErrInvalidPath indicates a stored path that escapes the images directory.
var ErrInvalidPath = errors.New("invalid image path")

const imagesDir = "images"

// Local writes images to <root>/images/<dir>/<name> and serves them as /images/<dir>/<name>.
type Local struct {
	root   string
	logger zerolog.Logger
}

// NewLocal constructs the store rooted at root (the directory served as the site root).
func NewLocal(root string, logger zerolog.Logger) (*Local, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("upload root must be provided")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload root: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(abs, imagesDir), 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &Local{
		root:   abs,
		logger: logger.With().Str("component", "local_filestore").Logger(),
	}, nil
}

// Save copies reader into the resource directory and returns the public path.
func (l *Local) Save(ctx context.Context, dir, name string, reader io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir = strings.Trim(filepath.ToSlash(dir), "/")
	if dir == "" || strings.Contains(dir, "..") || name == "" || name != filepath.Base(name) {
		return "", ErrInvalidPath
	}

	target := filepath.Join(l.root, imagesDir, filepath.FromSlash(dir))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("create image directory: %w", err)
	}

	file, err := os.OpenFile(filepath.Join(target, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}

	return "/" + imagesDir + "/" + dir + "/" + name, nil
}

// Remove deletes the file behind a public path. Missing files are not an error.
func (l *Local) Remove(ctx context.Context, stored string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := l.resolve(stored)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug().Str("path", stored).Msg("image already removed")
			return nil
		}
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

func (l *Local) resolve(stored string) (string, error) {
	clean := filepath.Clean("/" + strings.TrimSpace(stored))
	prefix := string(filepath.Separator) + imagesDir + string(filepath.Separator)
	if !strings.HasPrefix(clean, prefix) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, stored)
	}
	target := filepath.Join(l.root, clean)
	rel, err := filepath.Rel(filepath.Join(l.root, imagesDir), target)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, stored)
	}
	return target, nil
}
