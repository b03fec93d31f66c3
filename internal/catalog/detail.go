package catalog

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"tapecrate-api/internal/archive"
	"tapecrate-api/internal/cache"
	"tapecrate-api/internal/resolve"
)

// Detail resolves one show's ranked sources from its showDate|venueSlug
// composite key. The key is validated before any upstream call; a
// malformed key is a client error, not a degraded response.
func (s *Service) Detail(ctx context.Context, key string) (*ShowDetail, error) {
	date, _, err := splitShowKey(key)
	if err != nil {
		return nil, err
	}

	cacheKey := cache.ShowKey(key)
	if raw, hit, err := s.store.Get(ctx, cacheKey); err == nil && hit {
		var detail ShowDetail
		if err := json.Unmarshal(raw, &detail); err == nil {
			return &detail, nil
		}
	}

	// One date-constrained search page resolves every upload for that
	// night; show counts per date are tiny compared to the row limit.
	expr := s.baseExpression(s.engine.Profile())
	expr.AndRaw(archive.DateClause(date))

	result, err := s.archive.Search(ctx, archive.Query{
		Expression: expr.String(),
		Rows:       s.opts.SearchRows,
		Page:       1,
		Sort:       "downloads desc",
	})
	if err != nil {
		return nil, ErrUpstream
	}

	shows := s.resolveShows(ctx, result.Docs)

	for _, show := range shows {
		// A merged group keeps its first member's key, but every absorbed
		// recording still carries its own showKey, so a key minted during
		// a differently-ordered list resolution is found too.
		if show.Key != key && !containsKey(show.Recordings, key) {
			continue
		}
		detail := &ShowDetail{
			Key:       show.Key,
			ShowDate:  show.Date,
			DefaultID: show.Best().Identifier,
			Sources:   show.Recordings,
		}
		if raw, err := json.Marshal(detail); err == nil {
			_ = s.store.Set(ctx, cacheKey, raw, cache.ShowTTL)
		}
		return detail, nil
	}

	s.logger.Debug("detail key not resolved",
		zap.String("key", key),
		zap.Int("shows_on_date", len(shows)),
	)
	return nil, ErrNotFound
}

func containsKey(recs []resolve.Recording, key string) bool {
	for _, rec := range recs {
		if rec.ShowKey == key {
			return true
		}
	}
	return false
}
