package resolve

// ExternalShow is one row from the secondary setlist database: a loosely
// keyed date plus free-text venue/city/location fields.
type ExternalShow struct {
	Date     string
	Venue    string
	City     string
	Location string
}

// tagEntry is one external show reduced to a venue-candidate token set.
type tagEntry struct {
	candidates tokenSet
}

// TagCorrelator attaches special-event tags to resolved shows by
// cross-referencing dates and venues against externally sourced show
// lists. Tag categories are registered up front; Apply is then pure
// lookup.
type TagCorrelator struct {
	stop   map[string]struct{}
	tags   []SpecialTag
	byDate map[SpecialTag]map[string][]tagEntry
}

// NewTagCorrelator builds an empty correlator sharing the engine's
// stop-word set, so venue matching behaves identically to show merging.
func (e *Engine) NewTagCorrelator() *TagCorrelator {
	return &TagCorrelator{
		stop:   e.stop,
		byDate: make(map[SpecialTag]map[string][]tagEntry),
	}
}

// Register adds one tag category's external rows. Rows without a
// resolvable date are skipped. Registration order decides tag priority
// when a show somehow matches more than one category.
func (c *TagCorrelator) Register(tag SpecialTag, rows []ExternalShow) {
	entries := make(map[string][]tagEntry)
	for _, row := range rows {
		date, ok := scanDate(row.Date)
		if !ok {
			continue
		}
		candidates := tokenSet{}
		for _, field := range []string{row.Venue, row.City, row.Location} {
			for tok := range venueTokens(field, c.stop) {
				candidates[tok] = struct{}{}
			}
		}
		entries[date] = append(entries[date], tagEntry{candidates: candidates})
	}

	if _, seen := c.byDate[tag]; !seen {
		c.tags = append(c.tags, tag)
	}
	c.byDate[tag] = entries
}

// Apply annotates each show with at most one special tag. A date with a
// single external entry tags unconditionally; a date with several entries
// (two tagged events the same night) requires the show's venue to
// fuzzy-match one entry's candidate set, so the wrong event is never
// tagged.
func (c *TagCorrelator) Apply(shows []*Show) {
	for _, show := range shows {
		for _, tag := range c.tags {
			if c.matches(tag, show) {
				show.SpecialTag = tag
				break
			}
		}
	}
}

func (c *TagCorrelator) matches(tag SpecialTag, show *Show) bool {
	entries := c.byDate[tag][show.Date]
	switch len(entries) {
	case 0:
		return false
	case 1:
		return true
	}

	showTokens := venueTokens(show.Title, c.stop)
	for _, entry := range entries {
		if tokensSimilar(showTokens, entry.candidates) {
			return true
		}
	}
	return false
}
