package catalogmodule

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reelbase/reelbase/internal/database"
	apperr "github.com/reelbase/reelbase/internal/errors"
)

// RegisterRoutes registers the catalog module API routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	entries := router.Group("/api/entries")
	{
		entries.GET("", m.listEntries)
		entries.GET("/search", m.searchEntries)
		entries.GET("/genres", m.listEntriesByGenres)
		entries.GET("/kind/:kind", m.listEntriesByKind)
		entries.GET("/:id", m.getEntry)
		entries.POST("", m.createEntry)
		entries.POST("/bulk", m.createEntries)
		entries.PUT("/:id", m.updateEntry)
		entries.DELETE("/:id", m.deleteEntry)
	}
}

// entryRequest carries the client-supplied fields of a catalog entry. No
// field is validated beyond JSON shape: empty titles, negative ratings and
// season counts on movies are all accepted.
type entryRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Rating       float64   `json:"rating"`
	ReleaseDate  time.Time `json:"release_date"`
	Genres       []string  `json:"genres"`
	PosterURL    string    `json:"poster_url"`
	WatchURL     string    `json:"watch_url"`
	MediaKind    string    `json:"media_kind"`
	SeasonCount  *int      `json:"season_count"`
	EpisodeCount *int      `json:"episode_count"`
}

func (r *entryRequest) toEntry() (*database.CatalogEntry, error) {
	kind := database.MediaKindMovie
	if r.MediaKind != "" {
		parsed, err := database.ParseMediaKind(r.MediaKind)
		if err != nil {
			return nil, apperr.NewInvalidInput(err.Error())
		}
		kind = parsed
	}

	return &database.CatalogEntry{
		Title:        r.Title,
		Description:  r.Description,
		Rating:       r.Rating,
		ReleaseDate:  r.ReleaseDate,
		Genres:       database.StringList(r.Genres),
		PosterURL:    r.PosterURL,
		WatchURL:     r.WatchURL,
		MediaKind:    kind,
		SeasonCount:  r.SeasonCount,
		EpisodeCount: r.EpisodeCount,
	}, nil
}

func (m *Module) listEntries(c *gin.Context) {
	entries, err := m.service.ListAll(c.Request.Context())
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (m *Module) getEntry(c *gin.Context) {
	entry, err := m.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (m *Module) searchEntries(c *gin.Context) {
	entries, err := m.service.SearchTitle(c.Request.Context(), c.Query("title"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (m *Module) listEntriesByKind(c *gin.Context) {
	kind, err := database.ParseMediaKind(c.Param("kind"))
	if err != nil {
		apperr.HandleInvalidInput(c, err.Error())
		return
	}

	entries, err := m.service.ListByKind(c.Request.Context(), kind)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (m *Module) listEntriesByGenres(c *gin.Context) {
	genres := strings.Split(c.Query("genres"), ",")

	entries, err := m.service.FilterByAnyGenre(c.Request.Context(), genres)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (m *Module) createEntry(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.HandleInvalidInput(c, "invalid request body: "+err.Error())
		return
	}

	entry, err := req.toEntry()
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	if err := m.service.Create(c.Request.Context(), entry); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (m *Module) createEntries(c *gin.Context) {
	var reqs []entryRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		apperr.HandleInvalidInput(c, "invalid request body: "+err.Error())
		return
	}

	entries := make([]*database.CatalogEntry, 0, len(reqs))
	for _, req := range reqs {
		entry, err := req.toEntry()
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		entries = append(entries, entry)
	}

	if err := m.service.CreateMany(c.Request.Context(), entries); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, entries)
}

func (m *Module) updateEntry(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.HandleInvalidInput(c, "invalid request body: "+err.Error())
		return
	}

	entry, err := req.toEntry()
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	if err := m.service.Update(c.Request.Context(), c.Param("id"), entry); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (m *Module) deleteEntry(c *gin.Context) {
	if err := m.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
