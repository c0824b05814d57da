package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketgrid/nsewatch/models"
	"github.com/marketgrid/nsewatch/monitor"
	"github.com/marketgrid/nsewatch/store"
)

type fakeMonitor struct {
	name  string
	files []string
}

func (f fakeMonitor) Name() string                   { return f.name }
func (f fakeMonitor) SnapshotFiles() []string        { return f.files }
func (f fakeMonitor) Scrape(_ context.Context) error { return nil }

type fakeBrowser struct {
	pages  int
	uptime time.Duration
}

func (f fakeBrowser) ActivePages() int      { return f.pages }
func (f fakeBrowser) Uptime() time.Duration { return f.uptime }

func healthRequest(st *store.Store, monitors []monitor.Monitor) models.HealthResponse {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", Health(st, monitors, fakeBrowser{pages: 2, uptime: 90 * time.Second}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp models.HealthResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func TestHealthStatuses(t *testing.T) {
	st := newTestStore(t)
	monitors := []monitor.Monitor{
		fakeMonitor{name: "event_calendar", files: []string{"event_calendar_data/latest.json"}},
		fakeMonitor{name: "announcements", files: []string{"announcements_data/latest.json"}},
	}

	if resp := healthRequest(st, monitors); resp.Status != "initializing" || resp.Ready != "0/2" {
		t.Errorf("no snapshots: %+v", resp)
	}

	writeSnapshot(t, st, "event_calendar_data/latest.json", 1, "")
	if resp := healthRequest(st, monitors); resp.Status != "starting" || resp.Ready != "1/2" {
		t.Errorf("partial snapshots: %+v", resp)
	}
	if resp := healthRequest(st, monitors); !resp.Monitors["event_calendar"] || resp.Monitors["announcements"] {
		t.Errorf("monitor map wrong: %+v", resp.Monitors)
	}

	writeSnapshot(t, st, "announcements_data/latest.json", 1, "")
	if resp := healthRequest(st, monitors); resp.Status != "healthy" || resp.Ready != "2/2" {
		t.Errorf("all snapshots: %+v", resp)
	}
}

func TestHealthBrowserStats(t *testing.T) {
	resp := healthRequest(newTestStore(t), nil)
	if resp.Browser.ActivePages != 2 {
		t.Errorf("active_pages = %d, want 2", resp.Browser.ActivePages)
	}
	if resp.Browser.Uptime != "1m30s" {
		t.Errorf("uptime = %q, want %q", resp.Browser.Uptime, "1m30s")
	}
}

func TestHealthAlwaysOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st := newTestStore(t)
	r := gin.New()
	r.GET("/health", Health(st, []monitor.Monitor{fakeMonitor{name: "x", files: []string{"x/latest.json"}}}, fakeBrowser{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even while initializing", w.Code)
	}
}
