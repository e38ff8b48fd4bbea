package service

import (
	"fmt"
	"time"

	"github.com/sakif/plotpocket/internal/model"
	"github.com/sakif/plotpocket/internal/tmdb"
)

// toShowDto converts any provider result into the canonical DTO. The flags
// are left false; annotate fills them for a logged-in user.
//
// tmdb.Item is sealed, so the three cases below are every case.
func toShowDto(item tmdb.Item) model.ShowDto {
	switch v := item.(type) {
	case tmdb.Movie:
		return model.ShowDto{
			ID:          v.ID,
			Title:       v.Title,
			Overview:    v.Overview,
			PosterPath:  optional(v.PosterPath),
			Rating:      v.VoteAverage,
			ReleaseDate: releaseDate(v.ReleaseDate),
			Type:        model.ShowTypeMovie,
		}
	case tmdb.TVShow:
		return model.ShowDto{
			ID:          v.ID,
			Title:       v.Name,
			Overview:    v.Overview,
			PosterPath:  optional(v.PosterPath),
			Rating:      v.VoteAverage,
			ReleaseDate: releaseDate(v.FirstAirDate),
			Type:        model.ShowTypeTvShow,
		}
	case tmdb.TrendingItem:
		dto := model.ShowDto{
			ID:         v.ID,
			Overview:   v.Overview,
			PosterPath: optional(v.PosterPath),
			Rating:     v.VoteAverage,
		}
		if v.IsMovie() {
			dto.Type = model.ShowTypeMovie
			dto.Title = firstNonEmpty(v.Title, v.Name)
			dto.ReleaseDate = releaseDate(firstNonEmpty(v.ReleaseDate, v.FirstAirDate))
		} else {
			dto.Type = model.ShowTypeTvShow
			dto.Title = firstNonEmpty(v.Name, v.Title)
			dto.ReleaseDate = releaseDate(firstNonEmpty(v.FirstAirDate, v.ReleaseDate))
		}
		return dto
	default:
		panic(fmt.Sprintf("service: unhandled tmdb.Item %T", item))
	}
}

func toShowDtos[T tmdb.Item](items []T) []model.ShowDto {
	out := make([]model.ShowDto, 0, len(items))
	for _, it := range items {
		out = append(out, toShowDto(it))
	}
	return out
}

// toShow builds the row cached when a title is first watchlisted.
func toShow(item tmdb.Item) *model.Show {
	dto := toShowDto(item)
	show := &model.Show{
		ShowAPIID:   dto.ID,
		Title:       dto.Title,
		Overview:    dto.Overview,
		ReleaseDate: dto.ReleaseDate,
		Type:        dto.Type,
	}
	if dto.PosterPath != nil {
		show.PosterPath = *dto.PosterPath
	}
	return show
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// releaseDate keeps TMDB's YYYY-MM-DD dates and drops anything else,
// including the empty string TMDB sends for unreleased titles.
func releaseDate(s string) *string {
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return nil
	}
	return &s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
