package catalog

import (
	"context"
	"strings"

	"github.com/reelbase/reelbase/internal/database"
	apperr "github.com/reelbase/reelbase/internal/errors"
)

// Service orchestrates the catalog use cases. It is deliberately thin: beyond
// the two input guards below it performs no business validation — empty
// titles, negative ratings and odd dates are accepted as-is.
type Service struct {
	repo Repository
}

// NewService builds the service around the given repository; pass the cached
// repository so reads and write invalidation go through the cache-aside layer.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListAll returns every catalog entry.
func (s *Service) ListAll(ctx context.Context) ([]database.CatalogEntry, error) {
	return s.repo.ListAll(ctx)
}

// Get returns the entry or a NotFound error.
func (s *Service) Get(ctx context.Context, id string) (*database.CatalogEntry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperr.NewNotFound("entry", id)
	}
	return entry, nil
}

// ListByKind returns entries of the given media kind.
func (s *Service) ListByKind(ctx context.Context, kind database.MediaKind) ([]database.CatalogEntry, error) {
	return s.repo.ListByKind(ctx, kind)
}

// SearchTitle returns entries whose title contains the given text. Blank
// input yields an empty result, not an error.
func (s *Service) SearchTitle(ctx context.Context, title string) ([]database.CatalogEntry, error) {
	return s.repo.SearchTitle(ctx, title)
}

// FilterByAnyGenre returns entries matching at least one of the requested
// genres. Values are trimmed and blanks dropped; an empty filter is rejected
// before any store access.
func (s *Service) FilterByAnyGenre(ctx context.Context, genres []string) ([]database.CatalogEntry, error) {
	cleaned := make([]string, 0, len(genres))
	for _, g := range genres {
		if g = strings.TrimSpace(g); g != "" {
			cleaned = append(cleaned, g)
		}
	}
	if len(cleaned) == 0 {
		return nil, apperr.NewInvalidInput("at least one genre is required")
	}
	return s.repo.ListByAnyGenre(ctx, cleaned)
}

// Create persists a new entry; id and timestamps are assigned by the store
// layer and visible on the entry afterwards.
func (s *Service) Create(ctx context.Context, entry *database.CatalogEntry) error {
	return s.repo.Create(ctx, entry)
}

// CreateMany persists a batch. An empty batch is rejected before any store
// access.
func (s *Service) CreateMany(ctx context.Context, entries []*database.CatalogEntry) error {
	if len(entries) == 0 {
		return apperr.NewInvalidInput("entry list must not be empty")
	}
	return s.repo.CreateMany(ctx, entries)
}

// Update replaces the entry's mutable fields, carrying the original
// CreatedAt forward. Returns NotFound when the id has no entry.
func (s *Service) Update(ctx context.Context, id string, entry *database.CatalogEntry) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NewNotFound("entry", id)
	}

	entry.CreatedAt = existing.CreatedAt
	return s.repo.Update(ctx, id, entry)
}

// Delete removes the entry. Returns NotFound when the id has no entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NewNotFound("entry", id)
	}

	_, err = s.repo.Delete(ctx, id)
	return err
}
