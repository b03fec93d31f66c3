package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"tapecrate-api/internal/metrics"
)

// Client is the narrow surface the catalog pipeline consumes.
type Client interface {
	// Search runs one page of an advanced search. Search is never retried;
	// a failed page stops pagination with whatever was already accumulated.
	Search(ctx context.Context, q Query) (*SearchResult, error)

	// Metadata fetches one item's files and metadata blob. It makes a short
	// first attempt and at most one retry at a longer timeout.
	Metadata(ctx context.Context, identifier string) (*ItemMetadata, error)
}

type client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an archive client with the given configuration.
func NewClient(cfg Config, logger *zap.Logger) (Client, error) {
	cfg = cfg.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: defaultTransport(cfg),
		}
	}

	return &client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger.Named("archive"),
	}, nil
}

// Close releases resources held by the client.
func (c *client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// searchEnvelope matches the advancedsearch.php response wrapper.
type searchEnvelope struct {
	Response SearchResult `json:"response"`
}

func (c *client) Search(parentCtx context.Context, q Query) (*SearchResult, error) {
	start := time.Now()

	if q.Expression == "" {
		return nil, fmt.Errorf("archive: empty search expression")
	}

	ctx, cancel := context.WithTimeout(parentCtx, c.cfg.SearchTimeout)
	defer cancel()

	u := c.cfg.BaseURL + "/advancedsearch.php?" + q.Encode().Encode()

	resp, err := c.get(ctx, u)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("archive_search", "error").Inc()
		c.logger.Error("search request failed",
			zap.Error(err),
			zap.Int("page", q.Page),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, fmt.Errorf("archive: search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.UpstreamRequestsTotal.WithLabelValues("archive_search", "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("search upstream error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, fmt.Errorf("archive: search upstream %d", resp.StatusCode)
	}

	var envelope searchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("archive_search", "error").Inc()
		return nil, fmt.Errorf("archive: decode search response: %w", err)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues("archive_search", "ok").Inc()
	c.logger.Debug("search page fetched",
		zap.Int("page", q.Page),
		zap.Int("docs", len(envelope.Response.Docs)),
		zap.Int64("num_found", envelope.Response.NumFound),
		zap.Duration("duration", time.Since(start)),
	)

	return &envelope.Response, nil
}

func (c *client) Metadata(parentCtx context.Context, identifier string) (*ItemMetadata, error) {
	if identifier == "" {
		return nil, fmt.Errorf("archive: empty identifier")
	}

	u := c.cfg.BaseURL + "/metadata/" + url.PathEscape(identifier)

	attempt := func(timeout time.Duration) (*ItemMetadata, error) {
		ctx, cancel := context.WithTimeout(parentCtx, timeout)
		defer cancel()

		resp, err := c.get(ctx, u)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &statusError{
				code:       resp.StatusCode,
				retryAfter: parseRetryAfter(resp.Header),
			}
		}

		var meta ItemMetadata
		if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
		return &meta, nil
	}

	meta, err := attempt(c.cfg.MetadataTimeout)
	if err == nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("archive_metadata", "ok").Inc()
		return meta, nil
	}

	if parentCtx.Err() != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("archive_metadata", "error").Inc()
		return nil, parentCtx.Err()
	}
	if !retryableFetchError(err) {
		metrics.UpstreamRequestsTotal.WithLabelValues("archive_metadata", "error").Inc()
		return nil, fmt.Errorf("archive: metadata %s: %w", identifier, err)
	}

	c.logger.Debug("metadata fetch retrying at longer timeout",
		zap.String("identifier", identifier),
		zap.Error(err),
	)

	// Brief pause so racing retries do not land together; a Retry-After
	// from the server overrides the jittered backoff.
	select {
	case <-parentCtx.Done():
		return nil, parentCtx.Err()
	case <-time.After(retryPause(err, c.cfg.BaseBackoff)):
	}

	meta, err = attempt(c.cfg.MetadataRetryTimeout)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("archive_metadata", "error").Inc()
		return nil, fmt.Errorf("archive: metadata %s: %w", identifier, err)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues("archive_metadata", "ok").Inc()
	return meta, nil
}

func (c *client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.httpClient.Do(req)
}
