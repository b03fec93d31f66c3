package catalog

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"tapecrate-api/internal/archive"
	"tapecrate-api/internal/cache"
	"tapecrate-api/internal/resolve"
)

// List serves one page of the show catalog for the given filter state.
// The full response is cached per normalized request; on a miss the view
// is re-derived from the archive.
func (s *Service) List(ctx context.Context, req ListRequest) (*ListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}

	listKey := cache.ListKey(req.normalized())
	if raw, hit, err := s.store.Get(ctx, listKey); err == nil && hit {
		var resp ListResponse
		if err := json.Unmarshal(raw, &resp); err == nil {
			return &resp, nil
		}
	}

	expr := s.baseExpression(s.engine.Profile())
	if q := trimQuery(req.Query); q != "" {
		expr.AndRaw(archive.TitleClause(q))
	}

	docs, _, err := s.searchPages(ctx, expr.String(), "downloads desc", s.opts.MaxPages, s.opts.ListDocCap)
	if err != nil {
		return nil, err
	}

	shows := s.resolveShows(ctx, docs)
	filtered := filterShows(shows, req)
	facets := computeFacets(filtered)
	sortShows(filtered, req.Sort)

	total := len(filtered)
	start := (req.Page - 1) * s.opts.PageSize
	end := start + s.opts.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	pageShows := filtered[start:end]

	items := make([]ShowItem, 0, len(pageShows))
	for _, show := range pageShows {
		items = append(items, itemFrom(show))
	}

	// Show-length sorts need a duration statistic, which costs one metadata
	// fetch per show. Only the current page is enriched, then reordered.
	if req.Sort == SortLongest || req.Sort == SortShortest {
		s.enrichDurations(ctx, items)
		sortItemsByDuration(items, req.Sort == SortLongest)
	}

	resp := &ListResponse{
		Page:       req.Page,
		Items:      items,
		HasMore:    end < total,
		VenueTotal: total,
		Facets:     facets,
	}

	degraded := false
	if q := trimQuery(req.Query); q != "" {
		song, err := s.songSearch(ctx, q, req)
		if err != nil {
			// Degraded: the main block stands on its own, but the response
			// is incomplete and must not occupy the cache for a full TTL.
			degraded = true
			s.logger.Warn("song search failed", zap.String("query", q), zap.Error(err))
		} else {
			resp.Song = song
		}
	}

	if !degraded {
		if raw, err := json.Marshal(resp); err == nil {
			_ = s.store.Set(ctx, listKey, raw, cache.ListTTL)
		}
	}

	s.logger.Info("list resolved",
		zap.Int("docs", len(docs)),
		zap.Int("shows", len(shows)),
		zap.Int("filtered", total),
		zap.Int("page", req.Page),
		zap.String("sort", req.Sort),
	)

	return resp, nil
}

// filterShows applies the year/continent/show-type filter dimensions.
func filterShows(shows []*resolve.Show, req ListRequest) []*resolve.Show {
	years := toSet(req.Years)
	continents := toSet(req.Continents)
	showTypes := toSet(req.ShowTypes)

	out := make([]*resolve.Show, 0, len(shows))
	for _, show := range shows {
		if len(years) > 0 {
			if _, ok := years[show.Year()]; !ok {
				continue
			}
		}
		if len(continents) > 0 {
			if _, ok := continents[string(show.Continent)]; !ok {
				continue
			}
		}
		if len(showTypes) > 0 {
			if _, ok := showTypes[string(show.SpecialTag)]; !ok {
				continue
			}
		}
		out = append(out, show)
	}
	return out
}

func toSet(vals []string) map[string]struct{} {
	if len(vals) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		set[v] = struct{}{}
	}
	return set
}
