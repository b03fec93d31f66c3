package resolve

import (
	"reflect"
	"testing"

	"tapecrate-api/internal/archive"
)

func testDocs() []archive.Document {
	return []archive.Document{
		{
			Identifier: "kglw2023-04-01.sbd",
			Title:      "King Gizzard Live at The Tivoli on 2023-04-01",
			Date:       "2023-04-01",
			Downloads:  5000,
			Coverage:   "Brisbane, Australia",
		},
		{
			Identifier: "kglw2023-04-01.aud.schoeps",
			Title:      "2023-04-01 - Live at Tivoli Theatre",
			Date:       "2023-04-01",
			Downloads:  12000,
		},
		{
			Identifier: "kglw2023-04-01.redrocks.aud",
			Title:      "King Gizzard Live at Red Rocks on 2023-04-01",
			Date:       "2023-04-01",
			Downloads:  300,
			Coverage:   "Morrison, CO",
		},
		{
			Identifier: "kglw2021-10-08",
			Title:      "King Gizzard Live at The Forum on 2021-10-08",
			Date:       "2021-10-08",
			Downloads:  900,
			Coverage:   "Melbourne, Australia",
		},
	}
}

func TestGroupShowsFuzzyMerge(t *testing.T) {
	e := NewEngine(DefaultProfile())
	shows := e.GroupShows(e.Recordings(testDocs()))

	// Tivoli + Tivoli Theatre merge; Red Rocks and The Forum stay apart.
	if len(shows) != 3 {
		t.Fatalf("expected 3 shows, got %d", len(shows))
	}

	var tivoli *Show
	for _, s := range shows {
		if s.Date == "2023-04-01" && len(s.Recordings) == 2 {
			tivoli = s
		}
	}
	if tivoli == nil {
		t.Fatalf("tivoli uploads did not merge into one show")
	}

	if tivoli.Plays != 17000 {
		t.Fatalf("plays = %d, want 17000", tivoli.Plays)
	}
	// Longest title wins the display slot.
	if tivoli.Title != "King Gizzard Live at The Tivoli on 2023-04-01" {
		t.Fatalf("unexpected display title %q", tivoli.Title)
	}
	// Soundboard first despite fewer downloads.
	if tivoli.Best().Identifier != "kglw2023-04-01.sbd" {
		t.Fatalf("default source = %s, want the soundboard", tivoli.Best().Identifier)
	}
}

func TestGroupShowsDistinctVenuesSameDate(t *testing.T) {
	e := NewEngine(DefaultProfile())
	shows := e.GroupShows(e.Recordings(testDocs()))

	count := 0
	for _, s := range shows {
		if s.Date == "2023-04-01" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected 2 distinct shows on 2023-04-01, got %d", count)
	}
}

func TestGroupShowsIdempotent(t *testing.T) {
	e := NewEngine(DefaultProfile())
	docs := testDocs()

	run := func() (keys []string, counts []int) {
		for _, s := range e.GroupShows(e.Recordings(docs)) {
			keys = append(keys, s.Key)
			counts = append(counts, len(s.Recordings))
		}
		return
	}

	keys1, counts1 := run()
	keys2, counts2 := run()

	if !reflect.DeepEqual(keys1, keys2) {
		t.Fatalf("show keys differ between runs: %v vs %v", keys1, keys2)
	}
	if !reflect.DeepEqual(counts1, counts2) {
		t.Fatalf("source counts differ between runs: %v vs %v", counts1, counts2)
	}
}

func TestGroupShowsLocation(t *testing.T) {
	e := NewEngine(DefaultProfile())
	shows := e.GroupShows(e.Recordings(testDocs()))

	for _, s := range shows {
		if s.Key == "2023-04-01|king-gizzard" || s.Continent == ContinentOceania {
			continue
		}
		if s.Date == "2023-04-01" && len(s.Recordings) == 1 {
			if s.State != "Colorado" || s.Country != "United States" {
				t.Fatalf("red rocks location = %q/%q, want Colorado/United States", s.State, s.Country)
			}
		}
	}
}

func TestShowWithoutRecordingsCannotExist(t *testing.T) {
	e := NewEngine(DefaultProfile())
	shows := e.GroupShows(nil)
	if len(shows) != 0 {
		t.Fatalf("expected no shows from no recordings, got %d", len(shows))
	}
	for _, s := range e.GroupShows(e.Recordings(testDocs())) {
		if len(s.Recordings) == 0 {
			t.Fatalf("show %s has zero recordings", s.Key)
		}
	}
}
