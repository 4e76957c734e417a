package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/officerage/config"
)

func TestNewOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// Methods on a nil manager are no-ops.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManager_WritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: i * 300, Phase: "stealth", Score: i * 10}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteEvent(NewPhaseEvent(120, "stealth", "beatdown", 0, 100)); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteEvent(NewTerminalEvent(900, "allies", "unionized", 30, -12)); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteAllyLifetimes([]AllyLifetime{{ID: 1, Kind: "intern", Outcome: OutcomeKilled}}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var rows []*WindowStats
	readCSV(t, filepath.Join(dir, "telemetry.csv"), &rows)
	if len(rows) != 3 {
		t.Fatalf("telemetry.csv has %d rows, want 3 (header written once)", len(rows))
	}
	if rows[2].WindowEndTick != 900 || rows[2].Score != 30 || rows[2].Phase != "stealth" {
		t.Errorf("last row = %+v", rows[2])
	}

	var events []*Event
	readCSV(t, filepath.Join(dir, "events.csv"), &events)
	if len(events) != 2 || events[1].Type != EventTerminal || events[1].Detail != "unionized" {
		t.Errorf("events = %+v", events)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml missing: %v", err)
	}
}

func readCSV(t *testing.T, path string, out any) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := gocsv.UnmarshalFile(f, out); err != nil {
		t.Fatalf("reading %s: %v", filepath.Base(path), err)
	}
}
