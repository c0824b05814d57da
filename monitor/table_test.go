package monitor

import (
	"testing"

	"github.com/marketgrid/nsewatch/models"
)

func TestSnapshotName(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"", "latest.json"},
		{"equity", "latest_equity.json"},
		{"sme", "latest_sme.json"},
		{"mf", "latest_mf.json"},
	}
	for _, tc := range cases {
		if got := snapshotName(tc.key); got != tc.want {
			t.Errorf("snapshotName(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestSnapshotFiles(t *testing.T) {
	m := NewTableMonitor(TableConfig{
		Name:    "announcements",
		Dir:     "announcements_data",
		Markets: []Market{{Key: "equity"}, {Key: "sme", TabText: "SME"}},
	}, nil, nil, nil)

	files := m.SnapshotFiles()
	if len(files) != 2 {
		t.Fatalf("files = %v", files)
	}
	if files[0] != "announcements_data/latest_equity.json" || files[1] != "announcements_data/latest_sme.json" {
		t.Errorf("files = %v", files)
	}

	single := NewTableMonitor(TableConfig{Name: "crd", Dir: "crd_data"}, nil, nil, nil)
	if got := single.SnapshotFiles(); len(got) != 1 || got[0] != "crd_data/latest.json" {
		t.Errorf("single files = %v", got)
	}
}

func TestPageFingerprint(t *testing.T) {
	pageA := [][]models.Cell{
		{models.TextCell("TCS"), models.TextCell("Results")},
		{models.TextCell("INFY"), models.TextCell("AGM")},
	}
	pageASameFirst := [][]models.Cell{
		{models.TextCell("TCS"), models.TextCell("Results")},
	}
	pageB := [][]models.Cell{
		{models.TextCell("WIPRO"), models.TextCell("Results")},
	}

	if pageFingerprint(pageA) != pageFingerprint(pageASameFirst) {
		t.Error("same first row, different fingerprints")
	}
	if pageFingerprint(pageA) == pageFingerprint(pageB) {
		t.Error("different first rows, same fingerprint")
	}
	if pageFingerprint(nil) != "" {
		t.Error("empty page should have empty fingerprint")
	}
}
