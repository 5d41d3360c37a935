package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/content-publishing-api/internal/models"
	"github.com/content-publishing-api/internal/repository"
	"gopkg.in/yaml.v3"
)

// seedFile lists the authors and categories the content lifecycle
// references but does not own
type seedFile struct {
	Users      []models.User     `yaml:"users"`
	Categories []models.Category `yaml:"categories"`
}

func loadSeed(r io.Reader) (*seedFile, error) {
	var seed seedFile
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	if err := seed.validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

func (s *seedFile) validate() error {
	for i, u := range s.Users {
		if strings.TrimSpace(u.Username) == "" {
			return fmt.Errorf("users[%d]: username is required", i)
		}
	}
	seen := make(map[string]bool, len(s.Categories))
	for i, c := range s.Categories {
		if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.CateName) == "" {
			return fmt.Errorf("categories[%d]: id and name are required", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("categories[%d]: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// apply upserts every record in one transaction
func (s *seedFile) apply(ctx context.Context, repos *repository.Repositories) error {
	return repos.Tx.WithinTx(ctx, func(tx *repository.Repositories) error {
		for i := range s.Users {
			if err := tx.User.Upsert(ctx, &s.Users[i]); err != nil {
				return fmt.Errorf("failed to upsert user %q: %w", s.Users[i].Username, err)
			}
		}
		for i := range s.Categories {
			if err := tx.Category.Upsert(ctx, &s.Categories[i]); err != nil {
				return fmt.Errorf("failed to upsert category %q: %w", s.Categories[i].ID, err)
			}
		}
		return nil
	})
}
