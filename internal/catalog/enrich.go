package catalog

import (
	"context"
	"encoding/json"
	"strings"

	"golang.org/x/sync/errgroup"

	"tapecrate-api/internal/archive"
	"tapecrate-api/internal/cache"
	"tapecrate-api/internal/metrics"
)

const downloadBaseURL = "https://archive.org/download/"

// fetchMetadata returns one item's metadata blob, cached for an hour.
func (s *Service) fetchMetadata(ctx context.Context, identifier string) (*archive.ItemMetadata, error) {
	key := cache.MetaKey(identifier)

	if raw, hit, err := s.store.Get(ctx, key); err == nil && hit {
		var meta archive.ItemMetadata
		if err := json.Unmarshal(raw, &meta); err == nil {
			return &meta, nil
		}
	}

	meta, err := s.archive.Metadata(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(meta); err == nil {
		_ = s.store.Set(ctx, key, raw, cache.MetaTTL)
	}
	return meta, nil
}

// recordingStats computes (or recalls) the playback summary of one
// recording: total audio runtime and track count.
func (s *Service) recordingStats(ctx context.Context, identifier string) (*RecordingStats, error) {
	key := cache.StatsKey(identifier)

	if raw, hit, err := s.store.Get(ctx, key); err == nil && hit {
		var stats RecordingStats
		if err := json.Unmarshal(raw, &stats); err == nil {
			return &stats, nil
		}
	}

	meta, err := s.fetchMetadata(ctx, identifier)
	if err != nil {
		return nil, err
	}

	stats := statsFrom(meta)

	if raw, err := json.Marshal(stats); err == nil {
		_ = s.store.Set(ctx, key, raw, cache.StatsTTL)
	}
	return &stats, nil
}

func statsFrom(meta *archive.ItemMetadata) RecordingStats {
	var stats RecordingStats
	for _, f := range meta.Files {
		if !f.IsAudio() {
			continue
		}
		stats.Tracks++
		stats.TotalSeconds += f.DurationSeconds()
	}
	return stats
}

// enrichDurations fills DurationSeconds for a page of items using the
// fixed-size worker pool. Results land by index, so final ordering comes
// from the input list, never fetch-completion order. A failed fetch leaves
// that one item's stat null; partial enrichment is a degraded outcome, not
// an error.
func (s *Service) enrichDurations(ctx context.Context, items []ShowItem) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i := range items {
		i := i
		g.Go(func() error {
			stats, err := s.recordingStats(ctx, items[i].DefaultID)
			if err != nil {
				metrics.EnrichDroppedTotal.Inc()
				return nil
			}
			seconds := stats.TotalSeconds
			items[i].DurationSeconds = &seconds
			return nil
		})
	}
	_ = g.Wait()
}

// songFileMatch is the best in-item hit for a song query: the audio file
// whose name or title contains the query with the greatest runtime.
type songFileMatch struct {
	URL     string
	Seconds float64
}

func matchSongFile(identifier string, meta *archive.ItemMetadata, query string) (songFileMatch, bool) {
	needle := strings.ToLower(query)
	var best songFileMatch
	found := false

	for _, f := range meta.Files {
		if !f.IsAudio() {
			continue
		}
		if !strings.Contains(strings.ToLower(f.Name), needle) &&
			!strings.Contains(strings.ToLower(f.Title), needle) {
			continue
		}
		if seconds := f.DurationSeconds(); !found || seconds > best.Seconds {
			best = songFileMatch{
				URL:     downloadBaseURL + identifier + "/" + f.Name,
				Seconds: seconds,
			}
			found = true
		}
	}
	return best, found
}
