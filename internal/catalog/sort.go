package catalog

import (
	"sort"
	"strings"

	"tapecrate-api/internal/resolve"
)

// sortShows orders the filtered show set with a stable comparator. Play
// sorts tie-break on newest date so identical counts keep a deterministic,
// useful order.
func sortShows(shows []*resolve.Show, sortOrder string) {
	var less func(a, b *resolve.Show) bool

	switch sortOrder {
	case SortOldest:
		less = func(a, b *resolve.Show) bool { return a.Date < b.Date }
	case SortMostPlayed:
		less = func(a, b *resolve.Show) bool {
			if a.Plays != b.Plays {
				return a.Plays > b.Plays
			}
			return a.Date > b.Date
		}
	case SortLeastPlayed:
		less = func(a, b *resolve.Show) bool {
			if a.Plays != b.Plays {
				return a.Plays < b.Plays
			}
			return a.Date > b.Date
		}
	case SortNewest, SortLongest, SortShortest, "":
		// Length sorts pre-order by newest; the page is reordered after
		// duration enrichment.
		less = func(a, b *resolve.Show) bool { return a.Date > b.Date }
	default:
		less = func(a, b *resolve.Show) bool { return a.Date > b.Date }
	}

	sort.SliceStable(shows, func(i, j int) bool { return less(shows[i], shows[j]) })
}

// sortItemsByDuration reorders an enriched page by total show length.
// Shows whose duration could not be fetched sink to the end either way.
func sortItemsByDuration(items []ShowItem, longest bool) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].DurationSeconds, items[j].DurationSeconds
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		case longest:
			return *a > *b
		default:
			return *a < *b
		}
	})
}

// computeFacets counts shows per year and continent over the post-filter,
// pre-pagination set. Each show lands in at most one bucket per dimension.
func computeFacets(shows []*resolve.Show) Facets {
	years := make(map[string]int)
	continents := make(map[string]int)

	for _, show := range shows {
		if y := show.Year(); y != "" {
			years[y]++
		}
		if show.Continent != "" && show.Continent != resolve.ContinentUnknown {
			continents[string(show.Continent)]++
		}
	}

	return Facets{
		Years:      facetCounts(years, true),
		Continents: facetCounts(continents, false),
	}
}

// facetCounts renders a count map as a sorted slice: years newest first,
// continents by descending count.
func facetCounts(m map[string]int, byValueDesc bool) []FacetCount {
	out := make([]FacetCount, 0, len(m))
	for v, n := range m {
		out = append(out, FacetCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if byValueDesc {
			return out[i].Value > out[j].Value
		}
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func trimQuery(q string) string {
	return strings.TrimSpace(q)
}
