// Package catalog implements the catalog core: the record store adapter, the
// cache-aside layer decorating it, and the service orchestrating both.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelbase/reelbase/internal/database"
	apperr "github.com/reelbase/reelbase/internal/errors"
)

// Repository is the record store contract. Absent entries are reported as a
// nil result, not an error; collaborators are injected through constructors.
type Repository interface {
	ListAll(ctx context.Context) ([]database.CatalogEntry, error)
	GetByID(ctx context.Context, id string) (*database.CatalogEntry, error)
	ListByKind(ctx context.Context, kind database.MediaKind) ([]database.CatalogEntry, error)
	SearchTitle(ctx context.Context, title string) ([]database.CatalogEntry, error)
	ListByAnyGenre(ctx context.Context, genres []string) ([]database.CatalogEntry, error)
	Create(ctx context.Context, entry *database.CatalogEntry) error
	CreateMany(ctx context.Context, entries []*database.CatalogEntry) error
	Update(ctx context.Context, id string, entry *database.CatalogEntry) error
	Delete(ctx context.Context, id string) (int64, error)
}

// entryRepository is the gorm-backed record store adapter.
type entryRepository struct {
	db *gorm.DB
}

// NewRepository creates the record store adapter over the given connection.
func NewRepository(db *gorm.DB) Repository {
	return &entryRepository{db: db}
}

// ListAll returns every entry in store-natural order. An empty store yields
// an empty slice, never an error.
func (r *entryRepository) ListAll(ctx context.Context) ([]database.CatalogEntry, error) {
	var entries []database.CatalogEntry
	if err := r.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, apperr.NewDatabaseError("list entries", err)
	}
	return entries, nil
}

// GetByID returns the entry or nil when absent; absence is a valid outcome.
func (r *entryRepository) GetByID(ctx context.Context, id string) (*database.CatalogEntry, error) {
	var entry database.CatalogEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.NewDatabaseError("get entry", err)
	}
	return &entry, nil
}

func (r *entryRepository) ListByKind(ctx context.Context, kind database.MediaKind) ([]database.CatalogEntry, error) {
	var entries []database.CatalogEntry
	if err := r.db.WithContext(ctx).Where("media_kind = ?", kind).Find(&entries).Error; err != nil {
		return nil, apperr.NewDatabaseError("list entries by kind", err)
	}
	return entries, nil
}

// SearchTitle matches titles containing the given text, case-insensitive.
// Blank input short-circuits to an empty result without touching the store;
// an empty search is not a match-everything query.
func (r *entryRepository) SearchTitle(ctx context.Context, title string) ([]database.CatalogEntry, error) {
	if strings.TrimSpace(title) == "" {
		return []database.CatalogEntry{}, nil
	}

	pattern := "%" + strings.ToLower(title) + "%"
	var entries []database.CatalogEntry
	if err := r.db.WithContext(ctx).Where("LOWER(title) LIKE ?", pattern).Find(&entries).Error; err != nil {
		return nil, apperr.NewDatabaseError("search entries", err)
	}
	return entries, nil
}

// ListByAnyGenre returns entries whose genre set intersects the requested
// genres (OR across genres). Genres are stored as a JSON text column; a LIKE
// prefilter narrows the scan and exact membership is then checked on the
// decoded rows, because LIKE alone would treat metacharacters in requested
// genres as wildcards and is case-insensitive on sqlite.
func (r *entryRepository) ListByAnyGenre(ctx context.Context, genres []string) ([]database.CatalogEntry, error) {
	if len(genres) == 0 {
		return []database.CatalogEntry{}, nil
	}

	cond := r.db.Where(`genres LIKE ? ESCAPE '\'`, genreLikePattern(genres[0]))
	for _, g := range genres[1:] {
		cond = cond.Or(`genres LIKE ? ESCAPE '\'`, genreLikePattern(g))
	}

	var candidates []database.CatalogEntry
	if err := r.db.WithContext(ctx).Where(cond).Find(&candidates).Error; err != nil {
		return nil, apperr.NewDatabaseError("list entries by genre", err)
	}

	entries := make([]database.CatalogEntry, 0, len(candidates))
	for _, entry := range candidates {
		if containsAnyGenre(entry.Genres, genres) {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

var genreEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func genreLikePattern(genre string) string {
	return `%"` + genreEscaper.Replace(genre) + `"%`
}

func containsAnyGenre(have database.StringList, want []string) bool {
	for _, g := range want {
		if have.Contains(g) {
			return true
		}
	}
	return false
}

// Create assigns a fresh id and stamps both timestamps before inserting. The
// caller's entry is mutated in place so it holds the stored identity.
func (r *entryRepository) Create(ctx context.Context, entry *database.CatalogEntry) error {
	stampNew(entry)
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return apperr.NewDatabaseError("create entry", err)
	}
	return nil
}

// CreateMany persists a batch. Rollback on partial failure is whatever the
// store natively provides; surviving rows are not compensated here.
func (r *entryRepository) CreateMany(ctx context.Context, entries []*database.CatalogEntry) error {
	for _, entry := range entries {
		stampNew(entry)
	}
	if err := r.db.WithContext(ctx).Create(entries).Error; err != nil {
		return apperr.NewDatabaseError("create entries", err)
	}
	return nil
}

// Update replaces the full row keyed by id and re-stamps UpdatedAt. The
// caller is responsible for carrying the original CreatedAt forward; the
// adapter does not read the old row.
func (r *entryRepository) Update(ctx context.Context, id string, entry *database.CatalogEntry) error {
	entry.ID = id
	entry.UpdatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Save(entry).Error; err != nil {
		return apperr.NewDatabaseError("update entry", err)
	}
	return nil
}

// Delete removes the entry keyed by id. A missing id is a no-op reported as
// zero rows affected, not an error.
func (r *entryRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&database.CatalogEntry{})
	if res.Error != nil {
		return 0, apperr.NewDatabaseError("delete entry", res.Error)
	}
	return res.RowsAffected, nil
}

func stampNew(entry *database.CatalogEntry) {
	now := time.Now().UTC()
	entry.ID = uuid.NewString()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	if entry.MediaKind == "" {
		entry.MediaKind = database.MediaKindMovie
	}
}
