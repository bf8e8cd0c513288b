package replay

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// #region fixture-tests

// TestLoadFixture_NotFound verifies error on missing file.
func TestLoadFixture_NotFound(t *testing.T) {
	_, err := LoadFixture("testdata/nonexistent.json")
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

// TestLoadFixture_Malformed verifies error on invalid JSON.
func TestLoadFixture_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not valid json}"), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	_, err := LoadFixture(path)
	if err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

// TestLoadFixture_RoundTrip writes a small fixture to disk, loads it, and
// drives it through Run via ToTick.
func TestLoadFixture_RoundTrip(t *testing.T) {
	fixture := Fixture{
		Description: "single tick, clear winner",
		Ticks: []FixtureTick{
			{TickID: "t1", RaisedEvents: []string{"tick"}, Readings: map[string]float64{"threat": 0.9}},
		},
		ExpectedResults: []FixtureExpectedResult{
			{TickID: "t1", Outcome: "executed", WinningName: "retreat"},
		},
	}

	data, err := json.Marshal(fixture)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	loaded, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if len(loaded.Ticks) != 1 {
		t.Fatalf("expected 1 tick, got %d", len(loaded.Ticks))
	}

	tick := loaded.Ticks[0].ToTick()
	if tick.TickID != "t1" || tick.Readings["threat"] != 0.9 {
		t.Fatalf("unexpected tick conversion: %+v", tick)
	}
	if loaded.ExpectedResults[0].WinningName != "retreat" {
		t.Fatalf("unexpected expected result: %+v", loaded.ExpectedResults[0])
	}
}

// #endregion fixture-tests
