package catalog

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"tapecrate-api/internal/archive"
	"tapecrate-api/internal/metrics"
)

// songSearch runs the second, independent full-text search: the archive
// indexes uploaded track listings, so `text:` surfaces shows where the
// query names a song even though no show title matches. Results go
// through the same resolution pipeline as the main list.
func (s *Service) songSearch(ctx context.Context, query string, req ListRequest) (*SongBlock, error) {
	expr := s.baseExpression(s.engine.Profile())
	expr.AndRaw(archive.TextClause(query))

	docs, _, err := s.searchPages(ctx, expr.String(), "downloads desc", s.opts.SongMaxPages, s.opts.SongDocCap)
	if err != nil {
		return nil, err
	}

	shows := s.resolveShows(ctx, docs)
	filtered := filterShows(shows, ListRequest{
		Years:      req.Years,
		Continents: req.Continents,
		ShowTypes:  req.ShowTypes,
	})
	sortShows(filtered, SortMostPlayed)

	matches := make([]SongMatch, 0, len(filtered))
	for _, show := range filtered {
		matches = append(matches, SongMatch{ShowItem: itemFrom(show)})
	}

	// Per-show metadata fetches are expensive; only the first few
	// candidates get the matched-file lookup, through the bounded pool.
	limit := s.opts.SongEnrichCap
	if limit > len(matches) {
		limit = len(matches)
	}

	g, poolCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	seconds := make([]float64, limit)
	for i := range matches[:limit] {
		i := i
		g.Go(func() error {
			id := matches[i].DefaultID
			meta, err := s.fetchMetadata(poolCtx, id)
			if err != nil {
				metrics.EnrichDroppedTotal.Inc()
				return nil
			}
			if best, ok := matchSongFile(id, meta, query); ok {
				url := best.URL
				matches[i].MatchedSongURL = &url
				seconds[i] = best.Seconds
			}
			return nil
		})
	}
	_ = g.Wait()

	// Longest matching version first among the enriched candidates; the
	// un-enriched tail keeps its play-count order behind them.
	enriched := matches[:limit]
	order := make([]int, len(enriched))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return seconds[order[a]] > seconds[order[b]] })

	reordered := make([]SongMatch, 0, len(matches))
	for _, idx := range order {
		reordered = append(reordered, enriched[idx])
	}
	reordered = append(reordered, matches[limit:]...)

	return &SongBlock{
		Query: query,
		Total: len(filtered),
		Items: reordered,
	}, nil
}
