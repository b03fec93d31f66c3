package archive

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"
)

type Config struct {
	// BaseURL is required, e.g. https://archive.org
	BaseURL string

	SearchTimeout time.Duration // per search page (default: 20s)

	// Metadata fetches are cheap to drop: one short attempt, then a single
	// retry at a longer timeout before giving up.
	MetadataTimeout      time.Duration // first attempt (default: 4s)
	MetadataRetryTimeout time.Duration // second attempt (default: 10s)

	BaseBackoff time.Duration // initial retry backoff (default: 100ms)

	// Optional connection pool settings
	MaxIdleConns        int // default: 100
	MaxIdleConnsPerHost int // default: 100

	// Custom HTTP client (for testing or special configs)
	HTTPClient *http.Client
}

// Validate checks required fields only.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("BaseURL is required")
	}
	return nil
}

// WithDefaults returns a copy of Config with sane defaults applied.
func (c *Config) WithDefaults() Config {
	cfg := *c

	// Normalize BaseURL: trim trailing slashes so we can safely append paths.
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = 20 * time.Second
	}
	if cfg.MetadataTimeout <= 0 {
		cfg.MetadataTimeout = 4 * time.Second
	}
	if cfg.MetadataRetryTimeout <= 0 {
		cfg.MetadataRetryTimeout = 10 * time.Second
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 100 * time.Millisecond
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = 100
	}
	if cfg.MaxIdleConnsPerHost <= 0 {
		cfg.MaxIdleConnsPerHost = 100
	}

	return cfg
}

// defaultTransport creates an HTTP transport with connection pooling and
// reasonable timeouts.
func defaultTransport(cfg Config) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
