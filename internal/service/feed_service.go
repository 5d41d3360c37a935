package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/content-publishing-api/internal/config"
	"github.com/gorilla/feeds"
	"github.com/rs/zerolog"
)

// maxFeedItems bounds the number of items in the feed
const maxFeedItems = 50

// feedService renders published articles as RSS
type feedService struct {
	articles ArticleService
	cfg      *config.FeedConfig
	log      zerolog.Logger
}

func newFeedService(articles ArticleService, cfg *config.FeedConfig, log zerolog.Logger) *feedService {
	return &feedService{
		articles: articles,
		cfg:      cfg,
		log:      log.With().Str("service", "feed").Logger(),
	}
}

// RSS returns an RSS 2.0 document with the most recent published articles
func (s *feedService) RSS(ctx context.Context) (string, error) {
	articles, err := s.articles.ListAll(ctx)
	if err != nil {
		return "", err
	}

	base := strings.TrimRight(s.cfg.Link, "/")
	feed := &feeds.Feed{
		Title:       s.cfg.Title,
		Link:        &feeds.Link{Href: base},
		Description: s.cfg.Description,
		Created:     time.Now().UTC(),
	}
	if s.cfg.Author != "" {
		feed.Author = &feeds.Author{Name: s.cfg.Author}
	}

	for i, a := range articles {
		if i == maxFeedItems {
			break
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          a.ID,
			Title:       a.Title,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/articles/%s", base, a.ID)},
			Description: a.Summary,
			Author:      &feeds.Author{Name: a.Nickname},
			Created:     a.PublishDate,
			Updated:     a.EditTime,
		})
	}
	if len(articles) > 0 {
		feed.Created = articles[0].PublishDate
	}

	rss, err := feed.ToRss()
	if err != nil {
		return "", fmt.Errorf("failed to render feed: %w", err)
	}
	return rss, nil
}
