package service

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/content-publishing-api/internal/errs"
	"github.com/content-publishing-api/internal/models"
	"github.com/content-publishing-api/internal/repository"
	"github.com/rs/zerolog"
)

// Export formats
const (
	FormatNDJSON = "ndjson"
	FormatJSON   = "json"
)

// flushEvery is the number of records written between flushes
const flushEvery = 100

// exportService is the concrete implementation of ExportService
type exportService struct {
	articles repository.ArticleRepository
	log      zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(articles repository.ArticleRepository, log zerolog.Logger) *exportService {
	return &exportService{
		articles: articles,
		log:      log.With().Str("service", "export").Logger(),
	}
}

// StreamArticles streams every published article in the specified format
func (s *exportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error {
	if format == "" {
		format = FormatNDJSON
	}
	s.log.Info().Str("format", format).Msg("Starting articles export")

	switch format {
	case FormatNDJSON:
		return s.streamArticlesNDJSON(ctx, w)
	case FormatJSON:
		return s.streamArticlesJSON(ctx, w)
	default:
		return errs.NewValidation("format", "unsupported format, must be one of: ndjson, json")
	}
}

func (s *exportService) streamArticlesNDJSON(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename=articles.ndjson")

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	count := 0

	err := s.articles.StreamByState(ctx, models.StatePublished, func(article *models.Article) error {
		// Encode terminates each record with a newline
		if err := enc.Encode(article); err != nil {
			return err
		}
		count++

		// Flush every 100 records for streaming
		if count%flushEvery == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})

	s.log.Info().Int("count", count).Msg("Articles export completed")
	return errs.Upstream("stream articles", err)
}

func (s *exportService) streamArticlesJSON(ctx context.Context, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=articles.json")

	w.Write([]byte("["))
	first := true
	count := 0

	err := s.articles.StreamByState(ctx, models.StatePublished, func(article *models.Article) error {
		if !first {
			w.Write([]byte(","))
		}
		first = false

		data, err := json.Marshal(article)
		if err != nil {
			return err
		}
		w.Write(data)
		count++
		return nil
	})

	w.Write([]byte("]"))
	s.log.Info().Int("count", count).Msg("Articles export completed")
	return errs.Upstream("stream articles", err)
}
