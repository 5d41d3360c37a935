package service

import (
	"context"
	"time"

	"github.com/content-publishing-api/internal/cache"
	"github.com/content-publishing-api/internal/errs"
	"github.com/content-publishing-api/internal/models"
	"github.com/content-publishing-api/internal/repository"
	"github.com/rs/zerolog"
)

// pageViewService aggregates the visit log
type pageViewService struct {
	events repository.ViewEventRepository
	window int
	cache  *cache.Cache
	log    zerolog.Logger
}

func newPageViewService(events repository.ViewEventRepository, window int, c *cache.Cache, log zerolog.Logger) *pageViewService {
	return &pageViewService{
		events: events,
		window: window,
		cache:  c,
		log:    log.With().Str("service", "pageview").Logger(),
	}
}

// RecentViewSeries returns the counts of the most recent window dates that
// have any visit, oldest first. Missing days are not filled in.
func (s *pageViewService) RecentViewSeries(ctx context.Context) (*models.PageViewSeries, error) {
	key := cache.Key(pageViewsKeyPrefix+"recent", s.window)
	return cache.GetOrLoad(ctx, s.cache, key, func(ctx context.Context) (*models.PageViewSeries, error) {
		groups, err := s.events.DailyCounts(ctx, s.window)
		if err != nil {
			return nil, errs.Upstream("aggregate page views", err)
		}
		return newestFirstToSeries(groups, s.window), nil
	})
}

// newestFirstToSeries keeps the first window groups and reverses dates and
// counts together
func newestFirstToSeries(groups []models.DailyCount, window int) *models.PageViewSeries {
	if len(groups) > window {
		groups = groups[:window]
	}

	series := &models.PageViewSeries{
		Dates:  make([]string, len(groups)),
		Counts: make([]int, len(groups)),
	}
	for i, g := range groups {
		j := len(groups) - 1 - i
		series.Dates[j] = g.Date
		series.Counts[j] = g.Count
	}
	return series
}

// RecordVisit appends one visit on the UTC day of at. The series cache is
// left to expire on its own.
func (s *pageViewService) RecordVisit(ctx context.Context, at time.Time) error {
	event := models.ViewEvent{Date: at.UTC().Format(models.DayLayout)}
	if err := s.events.Record(ctx, event); err != nil {
		return errs.Upstream("record visit", err)
	}
	return nil
}
