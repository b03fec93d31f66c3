package resolve

import (
	"strings"

	"tapecrate-api/internal/archive"
)

const artworkBaseURL = "https://archive.org/services/img/"

// Engine turns raw search documents into recordings and shows for one
// artist profile. It is pure computation; all methods are safe for
// concurrent use.
type Engine struct {
	profile ArtistProfile
	stop    map[string]struct{}
}

func NewEngine(profile ArtistProfile) *Engine {
	return &Engine{
		profile: profile,
		stop:    stopWordSet(profile),
	}
}

// IsRelevant reports whether a document belongs to the target artist.
// A matching collection field is decisive; otherwise identifier, title and
// creator are scanned for alias phrases. Deliberately conservative: a miss
// here loses one noisy upload, a false positive pollutes the catalog with
// openers and tributes.
func (e *Engine) IsRelevant(doc archive.Document) bool {
	slug := strings.ToLower(e.profile.CollectionSlug)
	for _, coll := range doc.Collection {
		if strings.Contains(strings.ToLower(coll), slug) {
			return true
		}
	}

	haystack := strings.ToLower(doc.Identifier + " " + doc.Title + " " + doc.Creator.Joined())
	for _, alias := range e.profile.Aliases {
		if strings.Contains(haystack, strings.ToLower(alias)) {
			return true
		}
	}
	return false
}

// RecordingFrom classifies and date-resolves one document. Returns false
// when no show date can be extracted; such documents cannot be grouped and
// are dropped, which is normal operation for this corpus, not an error.
func (e *Engine) RecordingFrom(doc archive.Document) (Recording, bool) {
	showDate, ok := ExtractShowDate(doc)
	if !ok {
		return Recording{}, false
	}

	slug := VenueSlug(doc.Title)
	hint := SourceHintFrom(doc.Identifier, doc.Title)

	return Recording{
		Identifier: doc.Identifier,
		Title:      doc.Title,
		ShowDate:   showDate,
		ShowKey:    showDate + "|" + slug,
		Continent:  ContinentOf(doc.Venue, doc.Coverage, doc.Title),
		ArtworkURL: artworkBaseURL + doc.Identifier,
		Coverage:   firstNonEmpty(doc.Coverage, doc.Venue),
		Downloads:  doc.Downloads,
		AvgRating:  float64(doc.AvgRating),
		NumReviews: doc.NumReviews,
		Hint:       hint,
		Score:      Score(doc, hint),
	}, true
}

// Recordings runs classification and date resolution over a document
// batch, keeping input order.
func (e *Engine) Recordings(docs []archive.Document) []Recording {
	recs := make([]Recording, 0, len(docs))
	for _, doc := range docs {
		if !e.IsRelevant(doc) {
			continue
		}
		if rec, ok := e.RecordingFrom(doc); ok {
			recs = append(recs, rec)
		}
	}
	return recs
}

// titleTokens exposes the venue token set for a display title under this
// profile's stop words.
func (e *Engine) titleTokens(title string) tokenSet {
	return venueTokens(title, e.stop)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Profile returns the artist profile this engine resolves for.
func (e *Engine) Profile() ArtistProfile {
	return e.profile
}
