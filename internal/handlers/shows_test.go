package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"tapecrate-api/internal/archive"
	"tapecrate-api/internal/cache"
	"tapecrate-api/internal/catalog"
	"tapecrate-api/internal/resolve"
	"tapecrate-api/internal/setlist"
)

type stubArchive struct {
	result *archive.SearchResult
	err    error
}

func (s *stubArchive) Search(context.Context, archive.Query) (*archive.SearchResult, error) {
	return s.result, s.err
}

func (s *stubArchive) Metadata(context.Context, string) (*archive.ItemMetadata, error) {
	return nil, errors.New("not stubbed")
}

type stubSetlist struct{}

func (stubSetlist) ShowsByTitle(context.Context, string) ([]setlist.Show, error) {
	return nil, nil
}

func stubDocs() []archive.Document {
	return []archive.Document{{
		Identifier: "kglw2023-06-07.sbd",
		Title:      "King Gizzard & The Lizard Wizard Live at Red Rocks Amphitheatre on 2023-06-07",
		Date:       "2023-06-07T00:00:00Z",
		Collection: archive.StringList{"KingGizzardAndTheLizardWizard"},
		Coverage:   "Morrison, CO, USA",
		Downloads:  9000,
	}}
}

func newHandler(t *testing.T, upstream *stubArchive) *ShowsHandler {
	t.Helper()

	store := cache.NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	engine := resolve.NewEngine(resolve.DefaultProfile())
	svc := catalog.NewService(upstream, stubSetlist{}, engine, store, catalog.Options{}, zaptest.NewLogger(t))
	return NewShowsHandler(svc)
}

func TestListOK(t *testing.T) {
	t.Parallel()

	h := newHandler(t, &stubArchive{result: &archive.SearchResult{Docs: stubDocs(), NumFound: 1}})

	req := httptest.NewRequest(http.MethodGet, "/v1/shows?year=2023&sort=most_played", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %s", ct)
	}

	var resp catalog.ListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Page != 1 || len(resp.Items) != 1 || resp.Err != "" {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Items[0].Key != "2023-06-07|red-rocks-amphitheatre" {
		t.Fatalf("item key = %s", resp.Items[0].Key)
	}
}

func TestListUpstreamFailure(t *testing.T) {
	t.Parallel()

	h := newHandler(t, &stubArchive{err: errors.New("boom")})

	req := httptest.NewRequest(http.MethodGet, "/v1/shows", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp catalog.ListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Err == "" || len(resp.Items) != 0 {
		t.Fatalf("error envelope = %+v", resp)
	}
}

func TestListPageParsing(t *testing.T) {
	t.Parallel()

	h := newHandler(t, &stubArchive{result: &archive.SearchResult{Docs: stubDocs(), NumFound: 1}})

	for _, raw := range []string{"", "0", "-3", "notanumber"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/shows?page="+raw, nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		var resp catalog.ListResponse
		_ = json.NewDecoder(rec.Body).Decode(&resp)
		if resp.Page != 1 {
			t.Errorf("page=%q parsed to %d, want 1", raw, resp.Page)
		}
	}
}

func TestDetailStatusCodes(t *testing.T) {
	t.Parallel()

	h := newHandler(t, &stubArchive{result: &archive.SearchResult{Docs: stubDocs(), NumFound: 1}})

	cases := []struct {
		name   string
		target string
		status int
	}{
		{"missing key", "/v1/shows/detail", http.StatusBadRequest},
		{"malformed key", "/v1/shows/detail?key=red-rocks", http.StatusBadRequest},
		{"unknown show", "/v1/shows/detail?key=2023-06-07%7Cnowhere-hall", http.StatusNotFound},
		{"found", "/v1/shows/detail?key=2023-06-07%7Cred-rocks-amphitheatre", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			rec := httptest.NewRecorder()
			h.Detail(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestDetailPayload(t *testing.T) {
	t.Parallel()

	h := newHandler(t, &stubArchive{result: &archive.SearchResult{Docs: stubDocs(), NumFound: 1}})

	req := httptest.NewRequest(http.MethodGet, "/v1/shows/detail?key=2023-06-07%7Cred-rocks-amphitheatre", nil)
	rec := httptest.NewRecorder()
	h.Detail(rec, req)

	var detail catalog.ShowDetail
	if err := json.NewDecoder(rec.Body).Decode(&detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.DefaultID != "kglw2023-06-07.sbd" || len(detail.Sources) != 1 {
		t.Fatalf("detail = %+v", detail)
	}
}
