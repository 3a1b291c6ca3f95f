package bot

import (
	"fmt"
	"testing"
)

func TestSession_PushPopHistory(t *testing.T) {
	s := newSession("user1")
	s.ServiceType = ServiceFilmWrap
	s.pushHistory(StepServiceSelection)

	s.VehicleClass = VehicleCompact
	s.pushHistory(StepVehicleSelection)

	s.FilmCoverage = CoverageExterior

	step, ok := s.popHistory()
	if !ok {
		t.Fatal("popHistory reported empty stack")
	}
	if step != StepVehicleSelection {
		t.Errorf("popped step = %q, expected %q", step, StepVehicleSelection)
	}
	// Fields revert to their values at the moment vehicle_selection was
	// left: class chosen, coverage not yet.
	if s.VehicleClass != VehicleCompact {
		t.Errorf("VehicleClass = %q, expected restored %q", s.VehicleClass, VehicleCompact)
	}
	if s.FilmCoverage != "" {
		t.Errorf("FilmCoverage = %q, expected cleared", s.FilmCoverage)
	}

	step, ok = s.popHistory()
	if !ok || step != StepServiceSelection {
		t.Fatalf("second pop = %q, %v", step, ok)
	}
	if s.VehicleClass != "" {
		t.Errorf("VehicleClass = %q, expected cleared after second pop", s.VehicleClass)
	}

	if _, ok := s.popHistory(); ok {
		t.Error("expected empty stack after popping everything")
	}
}

func TestSession_PushHistoryDedup(t *testing.T) {
	s := newSession("user1")
	s.pushHistory(StepServiceSelection)
	s.pushHistory(StepServiceSelection)
	s.pushHistory(StepServiceSelection)

	if got := len(s.HistorySteps()); got != 1 {
		t.Errorf("history length = %d, expected 1 after repeated pushes", got)
	}

	// A different step in between allows the same step again.
	s.pushHistory(StepVehicleSelection)
	s.pushHistory(StepServiceSelection)
	if got := len(s.HistorySteps()); got != 3 {
		t.Errorf("history length = %d, expected 3", got)
	}
}

func TestSession_HistoryEviction(t *testing.T) {
	s := newSession("user1")

	// Alternate two steps to defeat dedup, overfilling the stack.
	for i := 0; i < 15; i++ {
		s.Location = fmt.Sprintf("marker-%d", i)
		if i%2 == 0 {
			s.pushHistory(StepServiceSelection)
		} else {
			s.pushHistory(StepVehicleSelection)
		}
	}

	steps := s.HistorySteps()
	if len(steps) != historyLimit {
		t.Fatalf("history length = %d, expected %d", len(steps), historyLimit)
	}

	// The oldest entries were evicted; the newest survives at the top and
	// restores the snapshot taken when it was pushed.
	step, ok := s.popHistory()
	if !ok || step != StepServiceSelection {
		t.Fatalf("top pop = %q, %v", step, ok)
	}
	if s.Location != "marker-14" {
		t.Errorf("restored Location = %q, expected marker-14", s.Location)
	}
}

func TestSession_Reset(t *testing.T) {
	s := newSession("user1")
	s.ServiceType = ServiceCeramic
	s.VehicleClass = VehicleLuxury
	s.ProtectionDuration = Duration5Year
	s.Location = "Sector 56, Gurgaon"
	s.ExpertRequested = true
	s.Log = append(s.Log, LogEntry{Speaker: SpeakerUser, Text: "hi"})
	s.pushHistory(StepServiceSelection)
	s.Step = StepLocationInput

	s.reset()

	if s.Step != StepInitial {
		t.Errorf("Step = %q, expected %q", s.Step, StepInitial)
	}
	if s.ServiceType != "" || s.VehicleClass != "" || s.ProtectionDuration != "" ||
		s.Location != "" || s.ExpertRequested {
		t.Errorf("selection fields not cleared: %+v", s)
	}
	if len(s.HistorySteps()) != 0 {
		t.Error("history not cleared")
	}
	if len(s.Log) != 1 {
		t.Errorf("transcript length = %d, expected preserved", len(s.Log))
	}
}

func TestSession_Clone(t *testing.T) {
	s := newSession("user1")
	s.Log = append(s.Log, LogEntry{Speaker: SpeakerUser, Text: "hi"})
	s.pushHistory(StepServiceSelection)

	c := s.clone()
	c.Log[0].Text = "changed"
	c.pushHistory(StepVehicleSelection)

	if s.Log[0].Text != "hi" {
		t.Error("clone shares transcript backing array")
	}
	if len(s.HistorySteps()) != 1 {
		t.Error("clone shares history backing array")
	}
}
