// Package filestore stores uploaded bytes under a name and serves them back.
package filestore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/content-publishing-api/internal/config"
	"github.com/content-publishing-api/internal/errs"
)

// Store writes and reads objects by name
type Store interface {
	// Put stores r under name and returns the public URL of the object
	Put(ctx context.Context, name string, r io.Reader) (string, error)
	// Open returns the object stored under name. Missing objects are errs.ErrNotFound.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// New selects the backend configured in cfg
func New(ctx context.Context, cfg *config.FilesConfig) (Store, error) {
	switch cfg.Backend {
	case config.FileBackendLocal:
		return NewLocal(cfg.Dir, cfg.PublicURL)
	case config.FileBackendS3:
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown file backend: %s", cfg.Backend)
	}
}

// CleanName reduces name to its base name. Names that reduce to nothing
// usable are rejected.
func CleanName(name string) (string, error) {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	switch base {
	case "", ".", "..", "/":
		return "", errs.NewValidation("name", "file name is required")
	}
	return base, nil
}

// publicURL joins a URL prefix and an object name
func publicURL(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return strings.TrimRight(prefix, "/") + "/" + name
}
