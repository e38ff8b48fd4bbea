package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// ShowType tells movies and TV shows apart. On the wire it is the string
// "Movie" or "TvShow"; in the database it is stored the same way.
type ShowType int

const (
	ShowTypeMovie ShowType = iota
	ShowTypeTvShow
)

func (t ShowType) String() string {
	switch t {
	case ShowTypeMovie:
		return "Movie"
	case ShowTypeTvShow:
		return "TvShow"
	default:
		return fmt.Sprintf("ShowType(%d)", int(t))
	}
}

// ParseShowType is the inverse of String.
func ParseShowType(s string) (ShowType, error) {
	switch s {
	case "Movie":
		return ShowTypeMovie, nil
	case "TvShow":
		return ShowTypeTvShow, nil
	}
	return 0, fmt.Errorf("model: unknown show type %q", s)
}

func (t ShowType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ShowType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseShowType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Show is locally cached metadata for a title somebody has watchlisted.
//
// One row per external (TMDB) id, shared by every user who watchlists it;
// membership lives in the user_shows join table. Watched is a property of
// the row, not of the membership.
type Show struct {
	ID          string    `json:"id"          db:"id"`
	ShowAPIID   int       `json:"showApiId"   db:"show_api_id"`
	Title       string    `json:"title"       db:"title"`
	Overview    string    `json:"overview"    db:"overview"`
	PosterPath  string    `json:"posterPath"  db:"poster_path"`
	ReleaseDate *string   `json:"releaseDate" db:"release_date"`
	Type        ShowType  `json:"type"        db:"type"`
	Watched     bool      `json:"watched"     db:"watched"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
}

// Bookmark marks an external show id as saved by a user. It does not need
// a cached Show row; metadata is fetched live when bookmarks are listed.
type Bookmark struct {
	ID        string    `json:"id"        db:"id"`
	ShowID    int       `json:"showId"    db:"show_id"`
	UserID    string    `json:"userId"    db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ShowDto is the single show representation returned by every list and
// mutation endpoint. The three flags are computed for the requesting user
// and are all false for anonymous requests.
type ShowDto struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Overview      string   `json:"overview"`
	PosterPath    *string  `json:"posterPath"`
	Rating        float64  `json:"rating"`
	ReleaseDate   *string  `json:"releaseDate"`
	Type          ShowType `json:"type"`
	IsWatchlisted bool     `json:"isWatchlisted"`
	IsWatched     bool     `json:"isWatched"`
	IsBookmarked  bool     `json:"isBookmarked"`
}

// ShowDtoFromShow builds the DTO for a cached Show row. Rating is not
// cached, so it is zero.
func ShowDtoFromShow(s *Show) ShowDto {
	dto := ShowDto{
		ID:          s.ShowAPIID,
		Title:       s.Title,
		Overview:    s.Overview,
		ReleaseDate: s.ReleaseDate,
		Type:        s.Type,
		IsWatched:   s.Watched,
	}
	if s.PosterPath != "" {
		p := s.PosterPath
		dto.PosterPath = &p
	}
	return dto
}
