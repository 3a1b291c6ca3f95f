package bot

import "time"

// historyLimit bounds the navigation stack; the oldest entry and its
// snapshot are evicted together when an eleventh step is pushed.
const historyLimit = 10

// Speaker identifies who produced a conversation log entry.
type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerBot  Speaker = "bot"
)

// LogEntry is one line of the per-session conversation transcript.
// The transcript is kept for observability only; no routing or pricing
// decision ever reads it.
type LogEntry struct {
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	Time    time.Time `json:"time"`
}

// Session is the per-user conversation state. It is created lazily on first
// contact and lives for the process lifetime unless explicitly deleted.
// All mutation happens under the Store's per-user lock.
type Session struct {
	UserID             string       `json:"user_id"`
	Step               Step         `json:"step"`
	ServiceType        ServiceType  `json:"service_type,omitempty"`
	VehicleClass       VehicleClass `json:"vehicle_class,omitempty"`
	FilmCoverage       Coverage     `json:"film_coverage,omitempty"`
	SelectedPackage    string       `json:"selected_package,omitempty"`
	ProtectionDuration Duration     `json:"protection_duration,omitempty"`
	FilmInteriorAddon  bool         `json:"film_interior_addon"`
	Location           string       `json:"location,omitempty"`
	ExpertRequested    bool         `json:"expert_requested"`
	Log                []LogEntry   `json:"log,omitempty"`

	history []historyEntry
}

// fieldSnapshot is a point-in-time copy of the mutable selection fields,
// captured immediately before leaving a step. It is an explicit struct so
// the compiler keeps it in lock-step with Session's field set.
type fieldSnapshot struct {
	serviceType        ServiceType
	vehicleClass       VehicleClass
	filmCoverage       Coverage
	selectedPackage    string
	protectionDuration Duration
	filmInteriorAddon  bool
	location           string
	expertRequested    bool
}

// historyEntry pairs a departed step with the field values the session had
// at the moment it was left.
type historyEntry struct {
	step     Step
	snapshot fieldSnapshot
}

func newSession(userID string) *Session {
	return &Session{
		UserID: userID,
		Step:   StepInitial,
	}
}

func (s *Session) snapshot() fieldSnapshot {
	return fieldSnapshot{
		serviceType:        s.ServiceType,
		vehicleClass:       s.VehicleClass,
		filmCoverage:       s.FilmCoverage,
		selectedPackage:    s.SelectedPackage,
		protectionDuration: s.ProtectionDuration,
		filmInteriorAddon:  s.FilmInteriorAddon,
		location:           s.Location,
		expertRequested:    s.ExpertRequested,
	}
}

func (s *Session) restore(fs fieldSnapshot) {
	s.ServiceType = fs.serviceType
	s.VehicleClass = fs.vehicleClass
	s.FilmCoverage = fs.filmCoverage
	s.SelectedPackage = fs.selectedPackage
	s.ProtectionDuration = fs.protectionDuration
	s.FilmInteriorAddon = fs.filmInteriorAddon
	s.Location = fs.location
	s.ExpertRequested = fs.expertRequested
}

// pushHistory records the step being departed together with a snapshot of
// the current fields. Pushing the step already on top is a no-op so that
// re-rendering a prompt never duplicates an entry.
func (s *Session) pushHistory(step Step) {
	if n := len(s.history); n > 0 && s.history[n-1].step == step {
		return
	}
	s.history = append(s.history, historyEntry{step: step, snapshot: s.snapshot()})
	if len(s.history) > historyLimit {
		copy(s.history, s.history[1:])
		s.history = s.history[:historyLimit]
	}
}

// popHistory removes the most recent entry, restores its field snapshot
// onto the session, and returns the step to return to. Reports false when
// there is nothing to go back to; the session is untouched in that case.
func (s *Session) popHistory() (Step, bool) {
	n := len(s.history)
	if n == 0 {
		return "", false
	}
	e := s.history[n-1]
	s.history = s.history[:n-1]
	s.restore(e.snapshot)
	return e.step, true
}

// HistorySteps returns the navigation stack, oldest first. Exposed for
// introspection and tests; the slice is a copy.
func (s *Session) HistorySteps() []Step {
	steps := make([]Step, len(s.history))
	for i, e := range s.history {
		steps[i] = e.step
	}
	return steps
}

// reset clears every selection field and the navigation stack, keeping only
// the conversation transcript. Partial clears are a bug class here: a stale
// package or duration from an abandoned flow must never price a different
// service line.
func (s *Session) reset() {
	s.Step = StepInitial
	s.ServiceType = ""
	s.VehicleClass = ""
	s.FilmCoverage = ""
	s.SelectedPackage = ""
	s.ProtectionDuration = ""
	s.FilmInteriorAddon = false
	s.Location = ""
	s.ExpertRequested = false
	s.history = nil
}

// clone returns a deep copy safe to hand out after the per-user lock is
// released.
func (s *Session) clone() *Session {
	c := *s
	c.Log = append([]LogEntry(nil), s.Log...)
	c.history = append([]historyEntry(nil), s.history...)
	return &c
}
