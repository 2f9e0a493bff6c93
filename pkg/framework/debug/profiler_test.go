package debug

import (
	"strings"
	"testing"
	"time"
)

func TestProfiler(t *testing.T) {
	t.Run("DisabledRecordsNothing", func(t *testing.T) {
		p := NewProfiler()

		stop := p.Start("on_message")
		stop()

		if _, ok := p.Measurement("on_message"); ok {
			t.Error("Disabled profiler recorded a measurement")
		}
	})

	t.Run("BasicProfiling", func(t *testing.T) {
		p := NewProfiler()
		p.SetEnabled(true)

		stop := p.Start("on_message")
		time.Sleep(5 * time.Millisecond)
		stop()

		m, ok := p.Measurement("on_message")
		if !ok {
			t.Fatal("Measurement not found")
		}
		if m.Count != 1 {
			t.Errorf("Expected count 1, got %d", m.Count)
		}
		if m.Last < 5*time.Millisecond {
			t.Errorf("Timing seems too short: %v", m.Last)
		}
	})

	t.Run("MultipleRuns", func(t *testing.T) {
		p := NewProfiler()
		p.SetEnabled(true)

		for i := 0; i < 5; i++ {
			stop := p.Start("render")
			time.Sleep(time.Millisecond)
			stop()
		}

		m, _ := p.Measurement("render")
		if m.Count != 5 {
			t.Errorf("Expected count 5, got %d", m.Count)
		}
		if avg := m.Average(); m.Min > avg || avg > m.Max {
			t.Errorf("Invalid min/avg/max: %v/%v/%v", m.Min, avg, m.Max)
		}
	})

	t.Run("SnapshotSorted", func(t *testing.T) {
		p := NewProfiler()
		p.SetEnabled(true)

		for _, name := range []string{"tick", "on_message", "render"} {
			p.Start(name)()
		}

		snap := p.Snapshot()
		if len(snap) != 3 {
			t.Fatalf("Snapshot has %d entries, want 3", len(snap))
		}
		if snap[0].Name != "on_message" || snap[1].Name != "render" || snap[2].Name != "tick" {
			t.Errorf("Snapshot not sorted: %v", snap)
		}
	})

	t.Run("Report", func(t *testing.T) {
		p := NewProfiler()
		if got := p.Report(); got != "No measurements recorded" {
			t.Errorf("Empty report = %q", got)
		}

		p.SetEnabled(true)
		p.Start("save_state")()
		report := p.Report()
		if !strings.Contains(report, "save_state") || !strings.Contains(report, "count=1") {
			t.Errorf("Report missing measurement: %s", report)
		}

		p.Reset()
		if len(p.Snapshot()) != 0 {
			t.Error("Reset did not clear measurements")
		}
	})
}
