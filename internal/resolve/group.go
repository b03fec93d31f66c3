package resolve

import "sort"

// GroupShows aggregates recordings into shows with a two-pass merge.
//
// Pass one groups exactly by showKey (date + venue slug). Pass two walks
// the groups in insertion order and merges any group into the first
// earlier group on the same date whose display-title venue tokens pass the
// similarity test. First-match-wins is not globally optimal clustering,
// but it is stable and cheap, and its occasional mis-merge on dates with
// three similarly named venues is an accepted trade.
//
// The whole pipeline is deterministic for a given input order, so running
// it twice over the same documents yields identical keys and source
// counts.
func (e *Engine) GroupShows(recs []Recording) []*Show {
	byKey := make(map[string]*Show, len(recs))
	var order []string

	for _, rec := range recs {
		s, ok := byKey[rec.ShowKey]
		if !ok {
			s = &Show{
				Key:       rec.ShowKey,
				Date:      rec.ShowDate,
				Title:     rec.Title,
				Continent: rec.Continent,
			}
			byKey[rec.ShowKey] = s
			order = append(order, rec.ShowKey)
		}
		s.absorb(rec)
	}

	var kept []*Show
	byDate := make(map[string][]*Show)

	for _, key := range order {
		s := byKey[key]
		merged := false
		for _, prev := range byDate[s.Date] {
			if tokensSimilar(e.titleTokens(prev.Title), e.titleTokens(s.Title)) {
				prev.merge(s)
				merged = true
				break
			}
		}
		if !merged {
			kept = append(kept, s)
			byDate[s.Date] = append(byDate[s.Date], s)
		}
	}

	for _, s := range kept {
		s.finalize()
	}
	return kept
}

// absorb adds one recording to the show, keeping the longest title as the
// display title (longer titles tend to carry more venue/date detail) and
// the first known continent.
func (s *Show) absorb(rec Recording) {
	s.Recordings = append(s.Recordings, rec)
	s.Plays += rec.Downloads
	if len(rec.Title) > len(s.Title) {
		s.Title = rec.Title
	}
	if s.Continent == ContinentUnknown || s.Continent == "" {
		if rec.Continent != ContinentUnknown && rec.Continent != "" {
			s.Continent = rec.Continent
		}
	}
}

// merge folds other's recordings into s. The merged group keeps s's key.
func (s *Show) merge(other *Show) {
	s.Recordings = append(s.Recordings, other.Recordings...)
	s.Plays += other.Plays
	if len(other.Title) > len(s.Title) {
		s.Title = other.Title
	}
	if (s.Continent == ContinentUnknown || s.Continent == "") &&
		other.Continent != ContinentUnknown && other.Continent != "" {
		s.Continent = other.Continent
	}
}

// finalize orders recordings by score, best first, and fills the location
// breakdown from the first recording that carries coverage text.
func (s *Show) finalize() {
	sort.SliceStable(s.Recordings, func(i, j int) bool {
		return s.Recordings[i].Score > s.Recordings[j].Score
	})
	for _, rec := range s.Recordings {
		if rec.Coverage == "" {
			continue
		}
		loc := LocationFrom(rec.Coverage)
		s.City, s.State, s.Country = loc.City, loc.State, loc.Country
		break
	}
}
