package service

import (
	"context"
	"io"

	"github.com/content-publishing-api/internal/errs"
	"github.com/content-publishing-api/internal/filestore"
	"github.com/rs/zerolog"
)

// UploadedFile describes a stored upload
type UploadedFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// fileService stores uploads in the configured file store
type fileService struct {
	store filestore.Store
	log   zerolog.Logger
}

func newFileService(store filestore.Store, log zerolog.Logger) *fileService {
	return &fileService{
		store: store,
		log:   log.With().Str("service", "file").Logger(),
	}
}

func (s *fileService) Upload(ctx context.Context, name string, r io.Reader) (*UploadedFile, error) {
	if s.store == nil {
		return nil, errs.NewUpstreamUnavailable("store file", nil)
	}
	clean, err := filestore.CleanName(name)
	if err != nil {
		return nil, err
	}

	url, err := s.store.Put(ctx, clean, r)
	if err != nil {
		s.log.Error().Err(err).Str("name", clean).Msg("Upload failed")
		return nil, errs.Upstream("store file", err)
	}

	s.log.Info().Str("name", clean).Str("url", url).Msg("File uploaded")
	return &UploadedFile{Name: clean, URL: url}, nil
}

func (s *fileService) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if s.store == nil {
		return nil, errs.NewUpstreamUnavailable("open file", nil)
	}
	return s.store.Open(ctx, name)
}
