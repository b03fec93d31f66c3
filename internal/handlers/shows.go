package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"tapecrate-api/internal/catalog"
	"tapecrate-api/pkg/logging/logging"
)

// ShowsHandler serves the show catalog endpoints.
type ShowsHandler struct {
	Catalog *catalog.Service
}

func NewShowsHandler(svc *catalog.Service) *ShowsHandler {
	return &ShowsHandler{Catalog: svc}
}

// List handles GET /v1/shows.
func (h *ShowsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)
	start := time.Now()

	q := r.URL.Query()
	req := catalog.ListRequest{
		Page:       parsePage(q.Get("page")),
		Years:      q["year"],
		Continents: q["continent"],
		ShowTypes:  q["showType"],
		Query:      q.Get("query"),
		Sort:       q.Get("sort"),
	}

	resp, err := h.Catalog.List(ctx, req)
	if err != nil {
		// The primary search's first page failing is fatal: no partial
		// result is meaningful without it.
		logger.Error("list failed", zap.Error(err), zap.Duration("latency", time.Since(start)))
		writeJSON(w, http.StatusBadGateway, catalog.ListResponse{
			Page:    req.Page,
			Items:   []catalog.ShowItem{},
			HasMore: false,
			Err:     "upstream search unavailable",
		})
		return
	}

	logger.Info("list served",
		zap.Int("page", resp.Page),
		zap.Int("items", len(resp.Items)),
		zap.Int("venue_total", resp.VenueTotal),
		zap.Bool("song_block", resp.Song != nil),
		zap.Duration("latency", time.Since(start)),
	)

	writeJSON(w, http.StatusOK, resp)
}

// Detail handles GET /v1/shows/detail.
func (h *ShowsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)

	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing required query key")
		return
	}

	detail, err := h.Catalog.Detail(ctx, key)
	switch {
	case errors.Is(err, catalog.ErrBadKey):
		writeError(w, http.StatusBadRequest, "malformed show key")
		return
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "show not found")
		return
	case err != nil:
		logger.Error("detail failed", zap.String("key", key), zap.Error(err))
		writeError(w, http.StatusBadGateway, "upstream search unavailable")
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// writeJSON is a small helper to send JSON responses consistently.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
