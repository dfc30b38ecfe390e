package statefile_test

import (
	"os"
	"path/filepath"
	"testing"

	"wlrmode/internal/model"
	"wlrmode/internal/statefile"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	heads := []*model.Head{
		{ID: 1, Name: "eDP-1", CurrentID: 10, Modes: []*model.Mode{
			{ID: 10, Width: 1920, Height: 1080, Refresh: 60000},
		}},
	}
	if err := statefile.Save(path, heads); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := statefile.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := statefile.Entry{Name: "eDP-1", Width: 1920, Height: 1080, Refresh: 60000}
	if len(entries) != 1 || entries[0] != want {
		t.Fatalf("expected exactly %+v, got %+v", want, entries)
	}
}

func TestSaveSkipsHeadsWithoutNameOrCurrentMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	heads := []*model.Head{
		{ID: 1, Name: "", CurrentID: 10, Modes: []*model.Mode{{ID: 10, Width: 800, Height: 600, Refresh: 60000}}},
		{ID: 2, Name: "HDMI-1", Modes: []*model.Mode{{ID: 20, Width: 1920, Height: 1080, Refresh: 60000}}},
		{ID: 3, Name: "DP-1", CurrentID: 30, Modes: []*model.Mode{{ID: 30, Width: 2560, Height: 1440, Refresh: 144000}}},
	}
	if err := statefile.Save(path, heads); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := statefile.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "DP-1" {
		t.Fatalf("expected only DP-1 saved, got %+v", entries)
	}
}

func TestLoadStopsAtTruncatedTrailingLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	content := "eDP-1 1920 1080 60000\nHDMI-1 1920 1080\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, err := statefile.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "eDP-1" {
		t.Fatalf("expected one entry before the truncated line, got %+v", entries)
	}
}

func TestLoadStopsAtNonNumericField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	content := "eDP-1 1920 1080 60000\nHDMI-1 wide 1080 60000\nDP-1 2560 1440 144000\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, err := statefile.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "eDP-1" {
		t.Fatalf("expected parsing to stop at the malformed line, got %+v", entries)
	}
}

func TestLoadMissingFileIsEmptyNotError(t *testing.T) {
	entries, err := statefile.Load(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty entry set, got %+v", entries)
	}
}

func TestSaveUnwritablePathFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "state")
	err := statefile.Save(path, nil)
	if err == nil {
		t.Fatalf("expected write failure for unwritable path")
	}
}

func TestFindFirstMatchWins(t *testing.T) {
	entries := []statefile.Entry{
		{Name: "eDP-1", Width: 1920, Height: 1080, Refresh: 60000},
		{Name: "eDP-1", Width: 1280, Height: 720, Refresh: 60000},
	}
	e, ok := statefile.Find(entries, "eDP-1")
	if !ok || e.Width != 1920 {
		t.Fatalf("expected first eDP-1 entry, got %+v ok=%v", e, ok)
	}
	if _, ok := statefile.Find(entries, "HDMI-1"); ok {
		t.Fatalf("expected no match for unknown name")
	}
}
