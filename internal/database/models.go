package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// MediaKind distinguishes movies from series.
type MediaKind string

const (
	MediaKindMovie  MediaKind = "movie"
	MediaKindSeries MediaKind = "series"
)

// ParseMediaKind normalizes a user-supplied kind string.
func ParseMediaKind(s string) (MediaKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie":
		return MediaKindMovie, nil
	case "series":
		return MediaKindSeries, nil
	default:
		return "", fmt.Errorf("unknown media kind: %q", s)
	}
}

// StringList stores a list of strings as a JSON text column so the same
// schema works on sqlite and postgres.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// Contains reports whether the list holds the given value. Duplicates in
// storage are allowed; filtering treats the list as a membership set.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// CatalogEntry is the movie/series record, the system's only domain entity.
//
// SeasonCount and EpisodeCount are only meaningful for series but are kept
// optional rather than enforced against MediaKind: legacy payloads carry them
// on movies too, and rejecting those would break wire compatibility.
type CatalogEntry struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Title        string     `gorm:"index" json:"title"`
	Description  string     `json:"description"`
	Rating       float64    `json:"rating"`
	ReleaseDate  time.Time  `json:"release_date"`
	Genres       StringList `gorm:"type:text" json:"genres"`
	PosterURL    string     `json:"poster_url"`
	WatchURL     string     `json:"watch_url"`
	MediaKind    MediaKind  `gorm:"index;size:16" json:"media_kind"`
	SeasonCount  *int       `json:"season_count,omitempty"`
	EpisodeCount *int       `json:"episode_count,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName sets the collection name for catalog entries.
func (CatalogEntry) TableName() string {
	return "catalog_entries"
}
