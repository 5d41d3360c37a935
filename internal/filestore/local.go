package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/content-publishing-api/internal/errs"
)

// Local keeps files in one directory on disk
type Local struct {
	dir       string
	publicURL string
}

// NewLocal creates the directory if needed
func NewLocal(dir, publicURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create file directory: %w", err)
	}
	return &Local{dir: dir, publicURL: publicURL}, nil
}

func (l *Local) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	name, err := CleanName(name)
	if err != nil {
		return "", err
	}

	// Write to a temp file first so readers never see a partial object
	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return "", errs.Upstream("create file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", errs.Upstream("write file", err)
	}
	if err := tmp.Close(); err != nil {
		return "", errs.Upstream("write file", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(l.dir, name)); err != nil {
		return "", errs.Upstream("store file", err)
	}

	return publicURL(l.publicURL, name), nil
}

func (l *Local) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	name, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(l.dir, name))
	if os.IsNotExist(err) {
		return nil, errs.NewNotFound("file", name)
	}
	if err != nil {
		return nil, errs.Upstream("open file", err)
	}
	return f, nil
}
