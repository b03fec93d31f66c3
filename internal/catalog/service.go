// Package catalog is the request pipeline: it pages the archive search,
// feeds documents through the resolution engine, annotates, filters,
// facets, sorts and paginates shows, and enriches the returned page with
// bounded concurrency.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tapecrate-api/internal/archive"
	"tapecrate-api/internal/cache"
	"tapecrate-api/internal/resolve"
	"tapecrate-api/internal/setlist"
)

var (
	// ErrBadKey means the detail key is missing or not date|slug shaped.
	ErrBadKey = errors.New("catalog: malformed show key")

	// ErrNotFound means no resolved show matched the requested key.
	ErrNotFound = errors.New("catalog: show not found")

	// ErrUpstream wraps a fatal primary-search failure: no partial result
	// is meaningful without the first page.
	ErrUpstream = errors.New("catalog: upstream search failed")
)

// Options tune pipeline limits. Zero values take the defaults below.
type Options struct {
	PageSize      int // shows per response page (default: 20)
	SearchRows    int // docs per upstream search page (default: 250)
	MaxPages      int // main search page cap (default: 6)
	ListDocCap    int // main search document cap (default: 1500)
	SongDocCap    int // song search document cap (default: 1500)
	SongMaxPages  int // song search page cap (default: 6)
	Workers       int // enrichment pool size (default: 8)
	SongEnrichCap int // song candidates enriched per request (default: 20)
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = 20
	}
	if o.SearchRows <= 0 {
		o.SearchRows = 250
	}
	if o.MaxPages <= 0 {
		o.MaxPages = 6
	}
	if o.ListDocCap <= 0 {
		o.ListDocCap = 1500
	}
	if o.SongDocCap <= 0 {
		o.SongDocCap = 1500
	}
	if o.SongMaxPages <= 0 {
		o.SongMaxPages = 6
	}
	if o.Workers <= 0 {
		o.Workers = 8
	}
	if o.SongEnrichCap <= 0 {
		o.SongEnrichCap = 20
	}
	return o
}

// tagTitles maps setlist-database show titles to the internal tag enum, in
// correlation priority order.
var tagTitles = []struct {
	Title string
	Tag   resolve.SpecialTag
}{
	{"Orchestra Show", resolve.TagOrchestra},
	{"Rave Show", resolve.TagRave},
	{"Acoustic Show", resolve.TagAcoustic},
}

// Service is the stateless request handler core. Every request re-derives
// its view from the upstream services, subject to the TTL cache.
type Service struct {
	archive archive.Client
	setlist setlist.Source
	engine  *resolve.Engine
	store   cache.Store
	opts    Options
	logger  *zap.Logger
}

func NewService(
	archiveClient archive.Client,
	setlistSource setlist.Source,
	engine *resolve.Engine,
	store cache.Store,
	opts Options,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		archive: archiveClient,
		setlist: setlistSource,
		engine:  engine,
		store:   store,
		opts:    opts.withDefaults(),
		logger:  logger.Named("catalog"),
	}
}

// baseExpression is the artist-scoped boolean query every search starts
// from. It is broad on purpose; the document classifier does the precise
// filtering.
func (s *Service) baseExpression(profile resolve.ArtistProfile) *archive.ExpressionBuilder {
	b := &archive.ExpressionBuilder{}
	b.Or("collection", profile.CollectionSlug)
	for _, alias := range profile.Aliases {
		b.Or("creator", alias)
		b.Or("title", alias)
	}
	b.And("mediatype", "etree")
	return b
}

// searchPages pages one search expression until the document cap, page
// cap, or a short page. The first page failing is fatal; a later page
// failing stops pagination with what was already accumulated.
func (s *Service) searchPages(ctx context.Context, expression, sortOrder string, maxPages, docCap int) ([]archive.Document, int64, error) {
	var (
		docs     []archive.Document
		numFound int64
	)

	for page := 1; page <= maxPages; page++ {
		result, err := s.archive.Search(ctx, archive.Query{
			Expression: expression,
			Rows:       s.opts.SearchRows,
			Page:       page,
			Sort:       sortOrder,
		})
		if err != nil {
			if page == 1 {
				return nil, 0, fmt.Errorf("%w: %v", ErrUpstream, err)
			}
			s.logger.Warn("search page failed, stopping pagination early",
				zap.Int("page", page),
				zap.Error(err),
			)
			break
		}

		numFound = result.NumFound
		docs = append(docs, result.Docs...)

		if len(result.Docs) < s.opts.SearchRows || len(docs) >= docCap {
			break
		}
	}

	if len(docs) > docCap {
		docs = docs[:docCap]
	}
	return docs, numFound, nil
}

// resolveShows runs the document set through the full resolution pipeline:
// classify, date-resolve, group, annotate with special tags.
func (s *Service) resolveShows(ctx context.Context, docs []archive.Document) []*resolve.Show {
	recs := s.engine.Recordings(docs)
	shows := s.engine.GroupShows(recs)
	s.applyTags(ctx, shows)
	return shows
}

// applyTags correlates special-event tags onto shows. Tag data is fetched
// per category with a long TTL; a failed category is skipped, never fatal.
func (s *Service) applyTags(ctx context.Context, shows []*resolve.Show) {
	correlator := s.engine.NewTagCorrelator()
	for _, tt := range tagTitles {
		rows, err := s.tagRows(ctx, tt.Title)
		if err != nil {
			s.logger.Warn("tag category unavailable",
				zap.String("title_tag", tt.Title),
				zap.Error(err),
			)
			continue
		}
		external := make([]resolve.ExternalShow, 0, len(rows))
		for _, row := range rows {
			external = append(external, resolve.ExternalShow{
				Date:     row.ShowDate,
				Venue:    row.VenueName,
				City:     row.City,
				Location: row.Location,
			})
		}
		correlator.Register(tt.Tag, external)
	}
	correlator.Apply(shows)
}

// tagRows returns one tag category's external show list, cached for hours.
func (s *Service) tagRows(ctx context.Context, titleTag string) ([]setlist.Show, error) {
	key := cache.TagsKey(titleTag)

	if raw, hit, err := s.store.Get(ctx, key); err == nil && hit {
		var rows []setlist.Show
		if err := json.Unmarshal(raw, &rows); err == nil {
			return rows, nil
		}
	}

	rows, err := s.setlist.ShowsByTitle(ctx, titleTag)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(rows); err == nil {
		_ = s.store.Set(ctx, key, raw, cache.TagsTTL)
	}
	return rows, nil
}

// WarmTagCache refreshes every tag category, keeping the long-TTL entries
// hot so the request path never waits for the setlist database. Run from
// the cron scheduler in main.
func (s *Service) WarmTagCache(ctx context.Context) {
	for _, tt := range tagTitles {
		rows, err := s.setlist.ShowsByTitle(ctx, tt.Title)
		if err != nil {
			s.logger.Warn("tag cache warm failed",
				zap.String("title_tag", tt.Title),
				zap.Error(err),
			)
			continue
		}
		if raw, err := json.Marshal(rows); err == nil {
			_ = s.store.Set(ctx, cache.TagsKey(tt.Title), raw, cache.TagsTTL)
		}
	}
}

// itemFrom derives the presentation fields for one resolved show.
func itemFrom(show *resolve.Show) ShowItem {
	return ShowItem{
		Show:         *show,
		SourcesCount: len(show.Recordings),
		DefaultID:    show.Best().Identifier,
	}
}

const keySeparator = "|"

// splitShowKey validates and splits a showDate|venueSlug composite key.
func splitShowKey(key string) (date, slug string, err error) {
	parts := strings.SplitN(key, keySeparator, 2)
	if len(parts) != 2 || len(parts[0]) != len("2006-01-02") || parts[1] == "" {
		return "", "", ErrBadKey
	}
	if _, parseErr := time.Parse("2006-01-02", parts[0]); parseErr != nil {
		return "", "", ErrBadKey
	}
	return parts[0], parts[1], nil
}
