package catalog

import (
	"sort"
	"strconv"
	"strings"

	"tapecrate-api/internal/resolve"
)

// Sort orders accepted by the list endpoint.
const (
	SortNewest      = "newest"
	SortOldest      = "oldest"
	SortMostPlayed  = "most_played"
	SortLeastPlayed = "least_played"
	SortLongest     = "longest"
	SortShortest    = "shortest"
)

// ListRequest is the parsed filter state of one list call.
type ListRequest struct {
	Page       int
	Years      []string
	Continents []string
	ShowTypes  []string
	Query      string
	Sort       string
}

// normalized renders the request as a stable string for cache keying:
// filters sorted, query trimmed and lowercased.
func (r ListRequest) normalized() string {
	years := append([]string(nil), r.Years...)
	continents := append([]string(nil), r.Continents...)
	showTypes := append([]string(nil), r.ShowTypes...)
	sort.Strings(years)
	sort.Strings(continents)
	sort.Strings(showTypes)

	var b strings.Builder
	b.WriteString("p=")
	b.WriteString(strconv.Itoa(r.Page))
	b.WriteString("|y=")
	b.WriteString(strings.Join(years, ","))
	b.WriteString("|c=")
	b.WriteString(strings.Join(continents, ","))
	b.WriteString("|t=")
	b.WriteString(strings.Join(showTypes, ","))
	b.WriteString("|q=")
	b.WriteString(strings.ToLower(strings.TrimSpace(r.Query)))
	b.WriteString("|s=")
	b.WriteString(r.Sort)
	return b.String()
}

// ShowItem is one show in a list page: the resolved show plus its derived
// presentation fields.
type ShowItem struct {
	resolve.Show
	SourcesCount    int      `json:"sourcesCount"`
	DefaultID       string   `json:"defaultId"`
	DurationSeconds *float64 `json:"durationSeconds,omitempty"`
}

// SongMatch is one show surfaced by full-text song search. MatchedSongURL
// stays null for candidates past the enrichment cap.
type SongMatch struct {
	ShowItem
	MatchedSongURL *string `json:"matchedSongUrl"`
}

// SongBlock is the song-search result attached to a list response when a
// free-text query is present.
type SongBlock struct {
	Query string      `json:"query"`
	Total int         `json:"total"`
	Items []SongMatch `json:"items"`
}

type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets are frequency counts over the post-filter, pre-pagination show
// set. A selected year still filters the year facet's own counts; that is
// accepted for a descriptive UI facet.
type Facets struct {
	Years      []FacetCount `json:"years"`
	Continents []FacetCount `json:"continents"`
}

type ListResponse struct {
	Page       int        `json:"page"`
	Items      []ShowItem `json:"items"`
	HasMore    bool       `json:"hasMore"`
	VenueTotal int        `json:"venueTotal"`
	Song       *SongBlock `json:"song,omitempty"`
	Facets     Facets     `json:"facets"`
	Err        string     `json:"error,omitempty"`
}

// ShowDetail is the detail endpoint payload: one show's ranked sources.
type ShowDetail struct {
	Key       string              `json:"key"`
	ShowDate  string              `json:"showDate"`
	DefaultID string              `json:"defaultId"`
	Sources   []resolve.Recording `json:"sources"`
}

// RecordingStats is the cached computed playback summary of one recording.
type RecordingStats struct {
	TotalSeconds float64 `json:"totalSeconds"`
	Tracks       int     `json:"tracks"`
}

