package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/reelbase/reelbase/internal/database"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&database.CatalogEntry{}))
	return db
}

func TestCreateStampsIdentityAndTimestamps(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	entry := &database.CatalogEntry{Title: "Dune", Rating: 8.0}
	before := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, entry))
	after := time.Now().UTC()

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, database.MediaKindMovie, entry.MediaKind)
	assert.False(t, entry.CreatedAt.Before(before))
	assert.False(t, entry.CreatedAt.After(after))
	assert.Equal(t, entry.CreatedAt, entry.UpdatedAt)

	stored, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Dune", stored.Title)
	assert.Equal(t, 8.0, stored.Rating)
}

func TestGetByIDAbsentIsNotAnError(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	entry, err := repo.GetByID(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestUpdateRestampsUpdatedAtOnly(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	entry := &database.CatalogEntry{Title: "Original"}
	require.NoError(t, repo.Create(ctx, entry))
	originalCreatedAt := entry.CreatedAt
	originalUpdatedAt := entry.UpdatedAt

	time.Sleep(10 * time.Millisecond)

	replacement := &database.CatalogEntry{
		Title:     "Replaced",
		CreatedAt: originalCreatedAt,
	}
	require.NoError(t, repo.Update(ctx, entry.ID, replacement))

	stored, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Replaced", stored.Title)
	assert.Equal(t, originalCreatedAt.Unix(), stored.CreatedAt.Unix())
	assert.True(t, stored.UpdatedAt.After(originalUpdatedAt))
}

func TestDeleteMissingIsANoop(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	affected, err := repo.Delete(ctx, "nothing-here")
	require.NoError(t, err)
	assert.Zero(t, affected)

	entry := &database.CatalogEntry{Title: "Ephemeral"}
	require.NoError(t, repo.Create(ctx, entry))

	affected, err = repo.Delete(ctx, entry.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	// Second delete of the same id is still not an error.
	affected, err = repo.Delete(ctx, entry.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)

	stored, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSearchTitleIsCaseInsensitiveSubstring(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &database.CatalogEntry{Title: "Dune"}))
	require.NoError(t, repo.Create(ctx, &database.CatalogEntry{Title: "The Dark Knight"}))

	results, err := repo.SearchTitle(ctx, "dun")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Dune", results[0].Title)

	results, err = repo.SearchTitle(ctx, "DARK")
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, err = repo.SearchTitle(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchTitleBlankSkipsTheStore(t *testing.T) {
	// A mocked connection with zero expectations proves no query is issued.
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	repo := NewRepository(db)

	for _, title := range []string{"", "   ", "\t\n"} {
		results, err := repo.SearchTitle(context.Background(), title)
		require.NoError(t, err)
		assert.Empty(t, results)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByKind(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	seasons := 3
	require.NoError(t, repo.Create(ctx, &database.CatalogEntry{Title: "Dune"}))
	require.NoError(t, repo.Create(ctx, &database.CatalogEntry{
		Title:       "Severance",
		MediaKind:   database.MediaKindSeries,
		SeasonCount: &seasons,
	}))

	movies, err := repo.ListByKind(ctx, database.MediaKindMovie)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Dune", movies[0].Title)

	series, err := repo.ListByKind(ctx, database.MediaKindSeries)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "Severance", series[0].Title)
	require.NotNil(t, series[0].SeasonCount)
	assert.Equal(t, 3, *series[0].SeasonCount)
}

func TestListByAnyGenreMatchesIntersection(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &database.CatalogEntry{
		Title:  "Heat",
		Genres: database.StringList{"Action", "Crime"},
	}))
	require.NoError(t, repo.Create(ctx, &database.CatalogEntry{
		Title:  "Arrival",
		Genres: database.StringList{"Sci-Fi", "Drama"},
	}))

	results, err := repo.ListByAnyGenre(ctx, []string{"Action", "Drama"})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = repo.ListByAnyGenre(ctx, []string{"Crime"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Heat", results[0].Title)

	results, err = repo.ListByAnyGenre(ctx, []string{"Horror"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestListByAnyGenreMatchesExactValues(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &database.CatalogEntry{
		Title:  "Heat",
		Genres: database.StringList{"Action"},
	}))
	require.NoError(t, repo.Create(ctx, &database.CatalogEntry{
		Title:  "Fresh",
		Genres: database.StringList{"100% Fresh"},
	}))

	// LIKE metacharacters in a requested genre are literals, not wildcards.
	for _, filter := range []string{"%", "_", "Act_on", "Actio_", `\`} {
		results, err := repo.ListByAnyGenre(ctx, []string{filter})
		require.NoError(t, err, filter)
		assert.Empty(t, results, filter)
	}

	// Matching is exact, including case.
	results, err := repo.ListByAnyGenre(ctx, []string{"action"})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = repo.ListByAnyGenre(ctx, []string{"Action"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Heat", results[0].Title)

	// A stored genre containing a metacharacter is still reachable.
	results, err = repo.ListByAnyGenre(ctx, []string{"100% Fresh"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Fresh", results[0].Title)
}

func TestCreateManyStampsEveryEntry(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	batch := []*database.CatalogEntry{
		{Title: "Movie 1"},
		{Title: "Movie 2"},
		{Title: "Movie 3"},
	}
	require.NoError(t, repo.CreateMany(ctx, batch))

	seen := map[string]bool{}
	for _, entry := range batch {
		assert.NotEmpty(t, entry.ID)
		assert.False(t, seen[entry.ID], "ids must be unique")
		seen[entry.ID] = true
		assert.False(t, entry.CreatedAt.IsZero())
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListAllOnEmptyStore(t *testing.T) {
	repo := NewRepository(openTestDB(t))

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
