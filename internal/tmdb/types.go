package tmdb

// Page is the envelope every TMDB list endpoint returns.
type Page[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// Item is one of the three result shapes TMDB returns: Movie, TVShow or
// TrendingItem. The unexported method seals the set so a type switch over
// Item only ever has to handle those three.
type Item interface {
	ExternalID() int
	item()
}

// Movie is a result from the /movie/* and /search/movie endpoints, and the
// body of /movie/{id}.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

// TVShow is a result from the /tv/* and /search/tv endpoints, and the body
// of /tv/{id}. TMDB calls the title "name" and the date "first_air_date".
type TVShow struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
}

// TrendingItem is a result from /trending/{window}/day. It carries both
// naming schemes; which one is filled depends on MediaType.
type TrendingItem struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
}

func (m Movie) ExternalID() int        { return m.ID }
func (s TVShow) ExternalID() int       { return s.ID }
func (t TrendingItem) ExternalID() int { return t.ID }

func (Movie) item()        {}
func (TVShow) item()       {}
func (TrendingItem) item() {}

// IsMovie reports whether a trending item is a movie. Anything else that
// is not a person is treated as a TV show.
func (t TrendingItem) IsMovie() bool {
	return t.MediaType == "movie"
}

// IsPerson reports whether a trending item is a cast or crew member.
// /trending/all mixes these in; they are not shows.
func (t TrendingItem) IsPerson() bool {
	return t.MediaType == "person"
}

// TrendingWindow selects the media type segment of /trending/{window}/day.
type TrendingWindow string

const (
	TrendingAll   TrendingWindow = "all"
	TrendingMovie TrendingWindow = "movie"
	TrendingTV    TrendingWindow = "tv"
)
