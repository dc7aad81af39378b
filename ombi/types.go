package ombi

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// MediaType represents the type of media
type MediaType string

const (
	// MediaTypeMovie represents a movie
	MediaTypeMovie MediaType = "movie"
	// MediaTypeTV represents a TV show
	MediaTypeTV MediaType = "tv"
)

// ParseMediaType parses a user-supplied media type, ignoring case and
// surrounding whitespace. "show" is accepted as a synonym for "tv".
func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie":
		return MediaTypeMovie, nil
	case "tv", "show":
		return MediaTypeTV, nil
	default:
		return "", fmt.Errorf("invalid media type %q", s)
	}
}

// IsMovie checks if the media type is a movie
func (mt MediaType) IsMovie() bool {
	return mt == MediaTypeMovie
}

// Label returns the human-readable name used in messages
func (mt MediaType) Label() string {
	if mt.IsMovie() {
		return "Movie"
	}
	return "TV Show"
}

// Time wraps time.Time with tolerant JSON parsing. Ombi emits timestamps both
// with and without a timezone offset, and occasionally bare dates.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON implements json.Marshaler
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format("2006-01-02T15:04:05") + `"`), nil
}

// RequestedUser identifies who placed a request
type RequestedUser struct {
	UserAlias string `json:"userAlias,omitempty"`
}

// MediaRequest represents a top-level movie or show request in Ombi.
//
// Movie requests carry the approved/available/denied booleans directly; show
// requests leave them unset and shadow them through the child request's
// season/episode tree. Optional booleans are pointers so absence stays
// distinguishable from false.
type MediaRequest struct {
	ID                 int            `json:"id"`
	Title              string         `json:"title"`
	Status             string         `json:"status,omitempty"`
	RequestedDate      *Time          `json:"requestedDate,omitempty"`
	RequestedUser      *RequestedUser `json:"requestedUser,omitempty"`
	ReleaseDate        *Time          `json:"releaseDate,omitempty"`
	DigitalReleaseDate *Time          `json:"digitalReleaseDate,omitempty"`
	DigitalRelease     *bool          `json:"digitalRelease,omitempty"`
	Approved           *bool          `json:"approved,omitempty"`
	Available          *bool          `json:"available,omitempty"`
	Denied             *bool          `json:"denied,omitempty"`
	ImdbID             string         `json:"imdbId,omitempty"`
	TheMovieDbID       int            `json:"theMovieDbId,omitempty"`
	TvDbID             int            `json:"tvDbId,omitempty"`
	TheTvDbID          int            `json:"theTvDbId,omitempty"`
	TotalSeasons       int            `json:"totalSeasons,omitempty"`
	Overview           string         `json:"overview,omitempty"`
	PlexURL            string         `json:"plexUrl,omitempty"`
	ChildRequests      []ChildRequest `json:"childRequests,omitempty"`
}

// Child returns the single child request, or nil. The Ombi payload structurally
// allows several child requests per show, but only the first is ever populated
// the way the bot consumes them, so the tree is treated as an optional single
// value everywhere.
func (r *MediaRequest) Child() *ChildRequest {
	if len(r.ChildRequests) == 0 {
		return nil
	}
	return &r.ChildRequests[0]
}

// TheTVDBID returns whichever TVDB identifier the payload carried.
func (r *MediaRequest) TheTVDBID() int {
	if r.TheTvDbID != 0 {
		return r.TheTvDbID
	}
	return r.TvDbID
}

// ChildRequest is the season-request container nested under a show request.
// Its status booleans shadow the parent's when the parent lacks them.
type ChildRequest struct {
	Approved       *bool           `json:"approved,omitempty"`
	Available      *bool           `json:"available,omitempty"`
	Denied         *bool           `json:"denied,omitempty"`
	RequestedDate  *Time           `json:"requestedDate,omitempty"`
	RequestedUser  *RequestedUser  `json:"requestedUser,omitempty"`
	SeasonRequests []SeasonRequest `json:"seasonRequests,omitempty"`
}

// SeasonRequest groups the requested episodes of one season
type SeasonRequest struct {
	ID           int       `json:"id"`
	SeasonNumber int       `json:"seasonNumber"`
	AirDate      *Time     `json:"airDate,omitempty"`
	Episodes     []Episode `json:"episodes,omitempty"`
}

// Episode is a single requested episode
type Episode struct {
	ID            int    `json:"id"`
	EpisodeNumber int    `json:"episodeNumber"`
	Title         string `json:"title"`
	URL           string `json:"url,omitempty"`
	Approved      bool   `json:"approved"`
	Available     bool   `json:"available"`
	AirDate       *Time  `json:"airDate,omitempty"`
	SeasonID      int    `json:"seasonId"`
}

// SearchResult is a candidate media item returned by an Ombi search. It shares
// the request shape minus the request-specific fields, plus discovery metadata.
type SearchResult struct {
	ID                 int            `json:"id"`
	Title              string         `json:"title"`
	Status             string         `json:"status,omitempty"`
	RequestedDate      *Time          `json:"requestedDate,omitempty"`
	RequestedUser      *RequestedUser `json:"requestedUser,omitempty"`
	ReleaseDate        *Time          `json:"releaseDate,omitempty"`
	DigitalReleaseDate *Time          `json:"digitalReleaseDate,omitempty"`
	Available          *bool          `json:"available,omitempty"`
	ImdbID             string         `json:"imdbId,omitempty"`
	TheMovieDbID       int            `json:"theMovieDbId,omitempty"`
	TvDbID             int            `json:"tvDbId,omitempty"`
	TheTvDbID          int            `json:"theTvDbId,omitempty"`
	TotalSeasons       int            `json:"totalSeasons,omitempty"`
	Overview           string         `json:"overview,omitempty"`
	PlexURL            string         `json:"plexUrl,omitempty"`
	ChildRequests      []ChildRequest `json:"childRequests,omitempty"`
	Rating             float64        `json:"rating,omitempty"`
	VoteAverage        float64        `json:"voteAverage,omitempty"`
	VoteCount          int            `json:"voteCount,omitempty"`
	Network            string         `json:"network,omitempty"`
	Runtime            int            `json:"runtime,omitempty"`
	OriginalLanguage   string         `json:"originalLanguage,omitempty"`
	FirstAired         *Time          `json:"firstAired,omitempty"`
}

// Child returns the single child request, or nil.
func (r *SearchResult) Child() *ChildRequest {
	if len(r.ChildRequests) == 0 {
		return nil
	}
	return &r.ChildRequests[0]
}

// TheTVDBID returns whichever TVDB identifier the payload carried.
func (r *SearchResult) TheTVDBID() int {
	if r.TheTvDbID != 0 {
		return r.TheTvDbID
	}
	return r.TvDbID
}

// SeasonScope selects which seasons a TV request covers
type SeasonScope string

const (
	// SeasonScopeFirst requests only the first season
	SeasonScopeFirst SeasonScope = "first"
	// SeasonScopeLatest requests only the latest season
	SeasonScopeLatest SeasonScope = "latest"
	// SeasonScopeAll requests every season
	SeasonScopeAll SeasonScope = "all"
)

// ParseSeasonScope validates a user-supplied season specifier
func ParseSeasonScope(s string) (SeasonScope, error) {
	switch SeasonScope(s) {
	case SeasonScopeFirst, SeasonScopeLatest, SeasonScopeAll:
		return SeasonScope(s), nil
	default:
		return "", fmt.Errorf("invalid season specifier %q", s)
	}
}

// LoginResponse is the body returned by POST /api/v1/Token
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Expiration  string `json:"expiration"`
}

// ActionResult is the body Ombi returns for state-changing request operations
type ActionResult struct {
	Message      string `json:"message,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	IsError      bool   `json:"isError,omitempty"`
}

// Err returns the backend's error message if the action failed
func (ar *ActionResult) Err() error {
	if ar.IsError {
		return fmt.Errorf("%s", ar.ErrorMessage)
	}
	return nil
}
