package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/marketgrid/nsewatch/models"
	"github.com/marketgrid/nsewatch/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(t.TempDir(), 8)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return st
}

func writeSnapshot(t *testing.T, st *store.Store, rel string, records int, market string) {
	t.Helper()
	rows := make([]models.Row, records)
	for i := range rows {
		rows[i] = models.Row{"Symbol": models.TextCell("SYM")}
	}
	err := st.Write(rel, &models.Snapshot{
		Metadata: models.SnapshotMetadata{
			ScrapeTimestamp: "2026-08-31T09:15:00Z",
			TotalRecords:    records,
			TotalPages:      2,
			MarketType:      market,
			SourceURL:       "https://www.nseindia.com/x",
			Headers:         []string{"Symbol"},
		},
		Data: rows,
	})
	if err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
}

func doRequest(h gin.HandlerFunc, url string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/data", h)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestDataPagination(t *testing.T) {
	st := newTestStore(t)
	writeSnapshot(t, st, "ann/latest.json", 120, "equity")
	h := Data(st, "ann", nil)

	cases := []struct {
		name     string
		url      string
		wantLen  int
		wantPage int
		hasNext  bool
	}{
		{"defaults", "/data", 50, 1, true},
		{"second page", "/data?page=2", 50, 2, true},
		{"last page", "/data?page=3&per_page=50", 20, 3, false},
		{"small pages", "/data?page=1&per_page=10", 10, 1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(h, tc.url)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", w.Code, w.Body.String())
			}
			var resp models.DataResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("bad JSON: %v", err)
			}
			if !resp.Success {
				t.Error("success = false")
			}
			if len(resp.Data) != tc.wantLen {
				t.Errorf("len(data) = %d, want %d", len(resp.Data), tc.wantLen)
			}
			if resp.Pagination.Page != tc.wantPage || resp.Pagination.HasNext != tc.hasNext {
				t.Errorf("pagination = %+v", resp.Pagination)
			}
			if resp.Metadata.TotalRecords != 120 || resp.Metadata.TotalPagesScraped != 2 {
				t.Errorf("metadata = %+v", resp.Metadata)
			}
		})
	}
}

func TestDataInvalidParams(t *testing.T) {
	st := newTestStore(t)
	writeSnapshot(t, st, "ann/latest.json", 10, "equity")
	h := Data(st, "ann", nil)

	for _, url := range []string{"/data?page=0", "/data?page=abc", "/data?per_page=-5"} {
		w := doRequest(h, url)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", url, w.Code)
		}
	}
}

func TestDataPerPageCapped(t *testing.T) {
	st := newTestStore(t)
	writeSnapshot(t, st, "ann/latest.json", 1500, "equity")
	h := Data(st, "ann", nil)

	w := doRequest(h, "/data?per_page=5000")
	var resp models.DataResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Pagination.PerPage != maxPerPage || len(resp.Data) != maxPerPage {
		t.Errorf("per_page not capped: %+v", resp.Pagination)
	}
}

func TestDataMissingSnapshot(t *testing.T) {
	st := newTestStore(t)
	h := Data(st, "ann", nil)

	w := doRequest(h, "/data")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Success || resp.Code != models.ErrCodeSnapshotMissing {
		t.Errorf("response = %+v", resp)
	}
}

func TestDataMarketSelection(t *testing.T) {
	st := newTestStore(t)
	writeSnapshot(t, st, "ann/latest_equity.json", 5, "equity")
	writeSnapshot(t, st, "ann/latest_sme.json", 7, "sme")
	h := Data(st, "ann", []string{"equity", "sme"})

	w := doRequest(h, "/data?market=sme")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp models.DataResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Metadata.MarketType != "sme" || resp.Metadata.TotalRecords != 7 {
		t.Errorf("metadata = %+v", resp.Metadata)
	}

	// Default market is the first configured one.
	w = doRequest(h, "/data")
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Metadata.MarketType != "equity" {
		t.Errorf("default market = %q", resp.Metadata.MarketType)
	}

	// Unknown market is a client error.
	if w := doRequest(h, "/data?market=bogus"); w.Code != http.StatusBadRequest {
		t.Errorf("unknown market status = %d, want 400", w.Code)
	}
}
