// Package setlist talks to the artist's dedicated setlist database, the
// secondary cross-reference source for special-event show tags.
package setlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"tapecrate-api/internal/metrics"
)

// Show is one external show row, loosely keyed by date/venue/city text.
type Show struct {
	ShowDate  string `json:"showdate"`
	VenueName string `json:"venuename"`
	City      string `json:"city"`
	Location  string `json:"location"`
	ShowTitle string `json:"showtitle"`
}

// Source is the narrow surface the tag correlator consumes.
type Source interface {
	// ShowsByTitle lists all external shows carrying the given title tag,
	// e.g. "Orchestra Show".
	ShowsByTitle(ctx context.Context, titleTag string) ([]Show, error)
}

type Config struct {
	BaseURL string
	Timeout time.Duration // default: 15s

	HTTPClient *http.Client
}

func (c *Config) withDefaults() (Config, error) {
	cfg := *c
	if cfg.BaseURL == "" {
		return cfg, errors.New("BaseURL is required")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return cfg, nil
}

type client struct {
	cfg    Config
	logger *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) (Source, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &client{cfg: cfg, logger: logger.Named("setlist")}, nil
}

type showsEnvelope struct {
	Shows []Show `json:"shows"`
}

func (c *client) ShowsByTitle(parentCtx context.Context, titleTag string) ([]Show, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(parentCtx, c.cfg.Timeout)
	defer cancel()

	u := c.cfg.BaseURL + "/shows?" + url.Values{"title": {titleTag}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("setlist: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("setlist", "error").Inc()
		return nil, fmt.Errorf("setlist: shows by title: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.UpstreamRequestsTotal.WithLabelValues("setlist", "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("setlist: upstream %d: %s", resp.StatusCode, string(body))
	}

	var envelope showsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("setlist", "error").Inc()
		return nil, fmt.Errorf("setlist: decode response: %w", err)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues("setlist", "ok").Inc()
	c.logger.Debug("external shows fetched",
		zap.String("title_tag", titleTag),
		zap.Int("rows", len(envelope.Shows)),
		zap.Duration("duration", time.Since(start)),
	)

	return envelope.Shows, nil
}
