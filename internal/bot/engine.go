package bot

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/AniketThakur-404/chatapp/internal/audit"
	"github.com/AniketThakur-404/chatapp/internal/clock"
	"github.com/AniketThakur-404/chatapp/internal/metrics"
	"github.com/AniketThakur-404/chatapp/internal/sanitize"
)

// Engine routes inbound messages through the conversation state machine.
// It is transport-agnostic; callers hand it a user identifier and the raw
// message text and deliver the returned Response however they like.
type Engine struct {
	store   *Store
	prices  *PriceBook
	clock   clock.Clock
	logger  *zap.Logger
	metrics *metrics.Metrics
	audit   *audit.Logger
}

// NewEngine constructs an engine over the given session store and price
// book.
func NewEngine(store *Store, prices *PriceBook, clk clock.Clock, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:  store,
		prices: prices,
		clock:  clk,
		logger: logger,
	}
}

// WithMetrics attaches a metrics recorder. Without one the engine runs
// unobserved, which is what the console harness and tests want.
func (e *Engine) WithMetrics(m *metrics.Metrics) *Engine {
	e.metrics = m
	return e
}

// WithAudit attaches an audit logger for business events (bookings,
// expert handoffs).
func (e *Engine) WithAudit(a *audit.Logger) *Engine {
	e.audit = a
	return e
}

// input carries one inbound utterance in both its original form and the
// lowercased form used for matching. Handlers match on norm but must store
// user-provided values (the location address) from raw.
type input struct {
	raw  string
	norm string
}

// Global command keywords, matched by substring against the whole message
// before any step handler runs. A button label that happens to contain one
// of these words is intercepted too; button texts are chosen with that in
// mind.
var globalKeywords = []string{
	"start over", "previous", "back", "menu", "expert",
	"start", "services", "prices", "help", "location",
}

func isGlobalCommand(norm string) bool {
	for _, kw := range globalKeywords {
		if strings.Contains(norm, kw) {
			return true
		}
	}
	return false
}

// stepHandlers dispatches the per-step input handlers. Every Step constant
// has an entry; a miss means the session carries a step this build does not
// know, which only happens across incompatible deploys.
var stepHandlers = map[Step]func(*Engine, *Session, input) Response{
	StepInitial:            (*Engine).handleInitial,
	StepServiceSelection:   (*Engine).handleServiceSelection,
	StepVehicleSelection:   (*Engine).handleVehicleSelection,
	StepFilmCoverage:       (*Engine).handleFilmCoverage,
	StepFilmPackage:        (*Engine).handleFilmPackage,
	StepFilmInteriorUpsell: (*Engine).handleFilmInteriorUpsell,
	StepGraphenePackage:    (*Engine).handleGraphenePackage,
	StepCeramicDuration:    (*Engine).handleCeramicDuration,
	StepLocationInput:      (*Engine).handleLocationInput,
	StepExpertContact:      (*Engine).handleExpertContact,
	StepConfirmation:       (*Engine).handleConfirmation,
}

// ProcessMessage runs one inbound message through the state machine and
// returns the reply. Messages from the same user are processed strictly one
// at a time; the per-user lock is held for the whole call.
func (e *Engine) ProcessMessage(userID, text string) Response {
	started := e.clock.Now()

	sess, release := e.store.Acquire(userID)
	defer release()

	raw := strings.TrimSpace(text)
	in := input{raw: raw, norm: strings.ToLower(raw)}

	sess.Log = append(sess.Log, LogEntry{Speaker: SpeakerUser, Text: raw, Time: e.clock.NowUTC()})

	before := sess.Step
	expertBefore := sess.ExpertRequested
	var resp Response
	if isGlobalCommand(in.norm) {
		resp = e.handleGlobalCommand(sess, in)
	} else if h, ok := stepHandlers[sess.Step]; ok {
		resp = h(e, sess, in)
	} else {
		e.logger.Error("session at unknown step, resetting",
			zap.String("user", sanitize.Phone(userID)),
			zap.String("step", string(sess.Step)))
		resp = e.startOver(sess, in)
	}

	sess.Log = append(sess.Log, LogEntry{Speaker: SpeakerBot, Text: resp.Text, Time: e.clock.NowUTC()})

	if e.metrics != nil {
		e.metrics.RecordMessageProcessed(string(before), e.clock.Since(started))
		if !expertBefore && sess.ExpertRequested {
			e.metrics.RecordExpertRequest()
		}
		e.metrics.SetActiveSessions(e.store.Len())
	}
	if e.audit != nil && !expertBefore && sess.ExpertRequested {
		e.audit.ExpertRequested(sanitize.Phone(userID))
	}

	e.logger.Debug("message processed",
		zap.String("user", sanitize.Phone(userID)),
		zap.String("from_step", string(before)),
		zap.String("to_step", string(sess.Step)))

	return resp
}

// handleGlobalCommand resolves a message that matched the global keyword
// gate. The cases are ordered; "expert" wins over everything, and "help"
// and "location" pass the gate but have no branch here, landing on the
// fallback.
func (e *Engine) handleGlobalCommand(s *Session, in input) Response {
	switch {
	case strings.Contains(in.norm, "expert"):
		e.recordGlobalCommand("expert")
		return e.expertRequest(s)
	case strings.Contains(in.norm, "start over"):
		e.recordGlobalCommand("start_over")
		return e.startOver(s, in)
	case strings.Contains(in.norm, "previous"), strings.Contains(in.norm, "back"):
		e.recordGlobalCommand("previous")
		return e.previous(s)
	case strings.Contains(in.norm, "menu"):
		e.recordGlobalCommand("menu")
		return menuResponse()
	case strings.Contains(in.norm, "start"):
		e.recordGlobalCommand("start")
		return e.startConsultation(s)
	case strings.Contains(in.norm, "services"):
		e.recordGlobalCommand("services")
		return servicesResponse()
	case strings.Contains(in.norm, "prices"):
		e.recordGlobalCommand("prices")
		return pricesResponse()
	default:
		return unknownResponse()
	}
}

func (e *Engine) recordGlobalCommand(command string) {
	if e.metrics != nil {
		e.metrics.RecordGlobalCommand(command)
	}
}

// expertRequest flags the session for expert follow-up and moves to the
// contact-preference step. The flag is set before the history push so that
// navigating back does not unset it.
func (e *Engine) expertRequest(s *Session) Response {
	s.ExpertRequested = true
	s.pushHistory(s.Step)
	s.Step = StepExpertContact
	return expertPrompt()
}

// startOver wipes every selection and restarts the conversation from the
// top. The transcript survives the reset.
func (e *Engine) startOver(s *Session, in input) Response {
	s.reset()
	return e.handleInitial(s, in)
}

// startConsultation re-enters service selection with every collected field
// intact. Only the explicit "start over" phrase resets the session.
func (e *Engine) startConsultation(s *Session) Response {
	s.pushHistory(StepServiceSelection)
	s.Step = StepServiceSelection
	return welcomeResponse()
}

// previous pops the navigation stack, restoring both the step and the
// field values the session had when that step was left, then re-renders
// that step's prompt.
func (e *Engine) previous(s *Session) Response {
	step, ok := s.popHistory()
	if !ok {
		return previousEmptyResponse()
	}
	s.Step = step
	return e.promptFor(s)
}

// promptFor re-renders the entry prompt for the session's current step.
// Used when navigation lands on a step without a fresh selection driving
// the transition.
func (e *Engine) promptFor(s *Session) Response {
	switch s.Step {
	case StepInitial:
		return welcomeResponse()
	case StepServiceSelection:
		return servicePrompt()
	case StepVehicleSelection:
		return vehiclePrompt()
	case StepFilmCoverage:
		return coveragePrompt()
	case StepFilmPackage:
		return e.render(s, func() (Response, error) { return filmPackagePrompt(e.prices, s) })
	case StepFilmInteriorUpsell:
		return e.render(s, func() (Response, error) { return upsellPrompt(e.prices, s) })
	case StepGraphenePackage:
		return e.render(s, func() (Response, error) { return graphenePrompt(e.prices, s) })
	case StepCeramicDuration:
		return e.render(s, func() (Response, error) { return ceramicPrompt(e.prices, s) })
	case StepLocationInput:
		return locationPrompt()
	case StepExpertContact:
		return expertPrompt()
	case StepConfirmation:
		return e.render(s, func() (Response, error) { return confirmationSummary(e.prices, s) })
	}
	return unknownResponse()
}

// render unwraps a price-dependent prompt. A lookup failure here is a
// programming or table error; the user gets the generic guidance message
// and the real cause goes to the log.
func (e *Engine) render(s *Session, f func() (Response, error)) Response {
	resp, err := f()
	if err != nil {
		e.logger.Error("prompt render failed",
			zap.String("step", string(s.Step)),
			zap.Error(err))
		return unknownResponse()
	}
	return resp
}

func (e *Engine) handleInitial(s *Session, _ input) Response {
	s.pushHistory(StepInitial)
	s.Step = StepServiceSelection
	return welcomeResponse()
}

// Selection handlers push the departing step onto the history stack before
// applying the selection, so that navigating back re-asks the question with
// the answer cleared.

func (e *Engine) handleServiceSelection(s *Session, in input) Response {
	var svc ServiceType
	switch {
	case containsAny(in.norm, "ppf", "pre cut", "pre-cut", "film", "paint protection"):
		svc = ServiceFilmWrap
	case strings.Contains(in.norm, "ceramic"):
		svc = ServiceCeramic
	case strings.Contains(in.norm, "graphene"):
		svc = ServiceGraphene
	case strings.Contains(in.norm, "custom"):
		return e.expertRequest(s)
	default:
		return servicePrompt()
	}

	s.pushHistory(StepServiceSelection)
	s.ServiceType = svc
	s.Step = StepVehicleSelection
	return vehiclePrompt()
}

func (e *Engine) handleVehicleSelection(s *Session, in input) Response {
	var vc VehicleClass
	switch {
	case strings.Contains(in.norm, "compact"):
		vc = VehicleCompact
	case strings.Contains(in.norm, "full-size"):
		vc = VehicleLargeSUV
	case strings.Contains(in.norm, "luxury"):
		vc = VehicleLuxury
	case strings.Contains(in.norm, "bike"):
		vc = VehicleBike
	default:
		return vehicleReprompt()
	}

	s.pushHistory(StepVehicleSelection)
	s.VehicleClass = vc
	switch s.ServiceType {
	case ServiceFilmWrap:
		s.Step = StepFilmCoverage
		return coveragePrompt()
	case ServiceCeramic:
		s.Step = StepCeramicDuration
		return e.render(s, func() (Response, error) { return ceramicPrompt(e.prices, s) })
	case ServiceGraphene:
		s.Step = StepGraphenePackage
		return e.render(s, func() (Response, error) { return graphenePrompt(e.prices, s) })
	default:
		s.Step = StepServiceSelection
		return servicePrompt()
	}
}

func (e *Engine) handleFilmCoverage(s *Session, in input) Response {
	// "both" first: its button label names all three surfaces.
	var cov Coverage
	switch {
	case strings.Contains(in.norm, "both"):
		cov = CoverageBoth
	case strings.Contains(in.norm, "exterior"):
		cov = CoverageExterior
	case strings.Contains(in.norm, "interior"):
		cov = CoverageInterior
	default:
		return coverageReprompt()
	}

	s.pushHistory(StepFilmCoverage)
	s.FilmCoverage = cov
	s.Step = StepFilmPackage
	return e.render(s, func() (Response, error) { return filmPackagePrompt(e.prices, s) })
}

func (e *Engine) handleFilmPackage(s *Session, in input) Response {
	// "matte" before "essential": both strings appear in the matte label.
	var tier string
	switch {
	case strings.Contains(in.norm, "matte"):
		tier = TierEssentialMatte
	case strings.Contains(in.norm, "essential"):
		tier = TierEssential
	case strings.Contains(in.norm, "core"):
		tier = TierCore
	case strings.Contains(in.norm, "titanium"):
		tier = TierTitanium
	case containsAny(in.norm, "call", "technical", "dossier"):
		return e.expertRequest(s)
	default:
		return filmPackageReprompt()
	}

	s.pushHistory(StepFilmPackage)
	s.SelectedPackage = tier
	if s.FilmCoverage == CoverageExterior {
		s.Step = StepFilmInteriorUpsell
		return e.render(s, func() (Response, error) { return upsellPrompt(e.prices, s) })
	}
	s.Step = StepLocationInput
	return locationPrompt()
}

func (e *Engine) handleFilmInteriorUpsell(s *Session, in input) Response {
	var addon bool
	switch {
	case containsAny(in.norm, "add interior", "yes"):
		addon = true
	case containsAny(in.norm, "exterior only", "continue", "no"):
		addon = false
	default:
		return upsellReprompt()
	}

	s.pushHistory(StepFilmInteriorUpsell)
	s.FilmInteriorAddon = addon
	s.Step = StepLocationInput
	return locationPrompt()
}

func (e *Engine) handleGraphenePackage(s *Session, in input) Response {
	var tier string
	switch {
	case strings.Contains(in.norm, "premium"):
		tier = TierPremium
	case strings.Contains(in.norm, "standard"):
		tier = TierStandard
	case containsAny(in.norm, "call", "technical", "dossier"):
		return e.expertRequest(s)
	default:
		return grapheneReprompt()
	}

	s.pushHistory(StepGraphenePackage)
	s.SelectedPackage = tier
	s.Step = StepLocationInput
	return locationPrompt()
}

func (e *Engine) handleCeramicDuration(s *Session, in input) Response {
	var d Duration
	switch {
	case containsAny(in.norm, "1-yr", "1 year"):
		d = Duration1Year
	case containsAny(in.norm, "3-yr", "3 year"):
		d = Duration3Year
	case containsAny(in.norm, "5-yr", "5 year"):
		d = Duration5Year
	case containsAny(in.norm, "7-yr", "7 year"):
		d = Duration7Year
	case strings.Contains(in.norm, "about maintenance"):
		return maintenanceInfo()
	default:
		return ceramicReprompt()
	}

	s.pushHistory(StepCeramicDuration)
	s.ProtectionDuration = d
	s.Step = StepLocationInput
	return locationPrompt()
}

// serviceableAreas are the Delhi NCR markers an address must mention to be
// accepted at the location step.
var serviceableAreas = []string{
	"delhi", "new delhi", "noida", "greater noida",
	"gurgaon", "gurugram", "faridabad", "ghaziabad", "ncr",
}

func (e *Engine) handleLocationInput(s *Session, in input) Response {
	if utf8.RuneCountInString(in.raw) < 5 {
		return locationShortReprompt()
	}
	if !containsAny(in.norm, serviceableAreas...) {
		return locationAreaReprompt()
	}

	s.pushHistory(StepLocationInput)
	s.Location = in.raw
	s.Step = StepExpertContact
	return e.render(s, func() (Response, error) { return locationSummary(e.prices, s) })
}

func (e *Engine) handleExpertContact(s *Session, in input) Response {
	switch {
	case containsAny(in.norm, "callback", "call"):
		s.ExpertRequested = true
		return callbackConfirmed()
	case containsAny(in.norm, "continue", "chat", "booking"):
		s.pushHistory(StepExpertContact)
		s.Step = e.resumeStep(s)
		return e.promptFor(s)
	default:
		return expertContactReprompt()
	}
}

// resumeStep picks where a chat booking continues after the expert-contact
// detour: the confirmation summary when every selection is already made,
// otherwise the step that collects the first missing one, checked in the
// fixed order service, vehicle, package, location. Ceramic sessions never
// carry a package tier, so continuing always re-enters the duration picker.
func (e *Engine) resumeStep(s *Session) Step {
	switch {
	case s.ServiceType == "":
		return StepServiceSelection
	case s.VehicleClass == "":
		return StepVehicleSelection
	case s.SelectedPackage == "":
		switch s.ServiceType {
		case ServiceGraphene:
			return StepGraphenePackage
		case ServiceCeramic:
			return StepCeramicDuration
		default:
			if s.FilmCoverage == "" {
				return StepFilmCoverage
			}
			return StepFilmPackage
		}
	case s.Location == "":
		return StepLocationInput
	}
	return StepConfirmation
}

func (e *Engine) handleConfirmation(s *Session, in input) Response {
	switch {
	case strings.Contains(in.norm, "confirm"):
		if e.metrics != nil {
			e.metrics.RecordBookingConfirmed()
		}
		if e.audit != nil {
			e.audit.BookingConfirmed(sanitize.Phone(s.UserID), string(s.ServiceType))
		}
		return bookingConfirmed()
	case strings.Contains(in.norm, "call"):
		return e.expertRequest(s)
	case containsAny(in.norm, "modify", "details"):
		return e.startOver(s, in)
	default:
		return confirmationReprompt()
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
