package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/marketgrid/nsewatch/models"
)

func testSnapshot(records int) *models.Snapshot {
	rows := make([]models.Row, records)
	for i := range rows {
		rows[i] = models.Row{"Symbol": models.TextCell("TCS")}
	}
	return &models.Snapshot{
		Metadata: models.SnapshotMetadata{
			ScrapeTimestamp: "2026-08-31T10:00:00Z",
			TotalRecords:    records,
			TotalPages:      1,
			SourceURL:       "https://www.nseindia.com/test",
			Headers:         []string{"Symbol"},
		},
		Data: rows,
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	st, err := New(t.TempDir(), 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := st.Write("ann/latest.json", testSnapshot(3)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	snap, err := st.Read("ann/latest.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if snap.Metadata.TotalRecords != 3 || len(snap.Data) != 3 {
		t.Errorf("snapshot = %+v", snap.Metadata)
	}
	if snap.Data[0]["Symbol"].Text != "TCS" {
		t.Errorf("row = %v", snap.Data[0])
	}
}

func TestWriteOverwrites(t *testing.T) {
	st, _ := New(t.TempDir(), 4)

	if err := st.Write("crd/latest.json", testSnapshot(5)); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := st.Write("crd/latest.json", testSnapshot(1)); err != nil {
		t.Fatalf("second write: %v", err)
	}

	snap, err := st.Read("crd/latest.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if snap.Metadata.TotalRecords != 1 {
		t.Errorf("read stale snapshot: %d records", snap.Metadata.TotalRecords)
	}
}

func TestWriteRemovesStaleFiles(t *testing.T) {
	dir := t.TempDir()
	st, _ := New(dir, 4)

	sub := filepath.Join(dir, "events")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(sub, "events_20260830_120000.json")
	if err := os.WriteFile(stale, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := st.Write("events/latest.json", testSnapshot(1)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale per-cycle file survived the write")
	}
	if !st.Exists("events/latest.json") {
		t.Error("latest.json missing after write")
	}
}

func TestReadMissingSnapshot(t *testing.T) {
	st, _ := New(t.TempDir(), 4)

	_, err := st.Read("nothing/latest.json")
	if err == nil {
		t.Fatal("expected error for missing snapshot")
	}
	var se *models.ScrapeError
	if !errors.As(err, &se) || se.Code != models.ErrCodeSnapshotMissing {
		t.Errorf("error = %v, want code %s", err, models.ErrCodeSnapshotMissing)
	}
}

func TestReadServesFromCache(t *testing.T) {
	st, _ := New(t.TempDir(), 4)
	if err := st.Write("a/latest.json", testSnapshot(2)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	first, err := st.Read("a/latest.json")
	if err != nil {
		t.Fatalf("first Read: %v", err)
	}
	second, err := st.Read("a/latest.json")
	if err != nil {
		t.Fatalf("second Read: %v", err)
	}
	// Unchanged file, same cache entry.
	if first != second {
		t.Error("second read re-parsed an unchanged snapshot")
	}
}
