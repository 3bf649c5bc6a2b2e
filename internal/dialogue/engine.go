package dialogue

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

var ErrInvalidTurn = errors.New("dialogue: invalid turn")

// Turn is one inbound caller utterance. The first turn of a call carries an
// empty utterance (the call was just answered).
type Turn struct {
	CallID     string
	From       string
	Utterance  string
	ReceivedAt time.Time
}

// Reply is what the system speaks back, and whether the call should end
// after it is delivered.
type Reply struct {
	Say     string
	EndCall bool
}

// Options tune the dialogue policy.
type Options struct {
	// MaxTurns bounds back-and-forth; exceeding it abandons the call.
	MaxTurns int

	// MinConfidence gates candidate acceptance.
	MinConfidence float64

	// DisputedFields are cleared when the caller disconfirms without naming
	// a field. Date and time are the usual suspects on a phone line.
	DisputedFields []Field
}

func (o Options) withDefaults() Options {
	out := o
	if out.MaxTurns <= 0 {
		out.MaxTurns = 20
	}
	if out.MinConfidence <= 0 {
		out.MinConfidence = 0.5
	}
	if len(out.DisputedFields) == 0 {
		out.DisputedFields = []Field{FieldDate, FieldTime}
	}
	return out
}

// EngineConfig wires the engine's collaborators. Registry, Extractor and
// Persister are required; Recorder is optional.
type EngineConfig struct {
	Registry  *Registry
	Extractor Extractor
	Persister Persister
	Recorder  Recorder
	Prompts   Prompts
	Options   Options
	Log       *slog.Logger
}

// Engine is the dialogue policy: a state machine over the call session that
// merges extractor candidates, decides the next prompt, and drives the
// confirm/persist step. It holds no per-call state of its own; everything
// call-scoped lives in the session.
type Engine struct {
	registry  *Registry
	extractor Extractor
	persister Persister
	recorder  Recorder
	prompts   Prompts
	opts      Options
	log       *slog.Logger
}

func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Registry == nil {
		return nil, errors.New("dialogue: registry is required")
	}
	if cfg.Extractor == nil {
		return nil, errors.New("dialogue: extractor is required")
	}
	if cfg.Persister == nil {
		return nil, errors.New("dialogue: persister is required")
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		registry:  cfg.Registry,
		extractor: cfg.Extractor,
		persister: cfg.Persister,
		recorder:  cfg.Recorder,
		prompts:   cfg.Prompts,
		opts:      cfg.Options.withDefaults(),
		log:       log,
	}, nil
}

// HandleTurn processes one caller utterance and returns the system reply.
// Sessions that reach a terminal status are evicted before this returns, on
// every exit path.
func (e *Engine) HandleTurn(ctx context.Context, t Turn) (Reply, error) {
	if t.CallID == "" {
		return Reply{}, ErrInvalidTurn
	}
	now := t.ReceivedAt
	if now.IsZero() {
		now = time.Now()
	}

	s, release := e.registry.Acquire(t.CallID, t.From, now)
	defer release()

	var reservationID int64
	defer func() {
		if s.Status.Terminal() {
			e.registry.Remove(t.CallID)
			e.record(ctx, s, now, string(s.Status), reservationID)
		}
	}()

	s.TurnCount++
	log := e.log.With("call_id", t.CallID, "turn", s.TurnCount)

	if s.Status != StatusNotStarted && s.TurnCount > e.opts.MaxTurns {
		log.Warn("turn limit exceeded, abandoning call")
		s.Status = StatusAbandoned
		return Reply{Say: e.prompts.TurnLimit(), EndCall: true}, nil
	}

	switch s.Status {
	case StatusNotStarted:
		s.Status = StatusCollecting
		// The opening utterance may already carry details ("hi, table for
		// two tomorrow at seven"); merge before choosing what to ask.
		e.merge(ctx, log, s, t.Utterance, now)
		return Reply{Say: e.prompts.Greeting() + " " + e.nextPrompt(s)}, nil

	case StatusCollecting:
		e.merge(ctx, log, s, t.Utterance, now)
		return Reply{Say: e.nextPrompt(s)}, nil

	case StatusReadyToConfirm:
		return e.handleConfirmation(ctx, log, s, t.Utterance, &reservationID)

	default:
		// Terminal sessions are evicted on transition, so this is only
		// reachable through a provider retry racing the hangup.
		return Reply{Say: e.prompts.Goodbye(), EndCall: true}, nil
	}
}

// CallEnded handles the provider's end-of-call signal: it evicts whatever
// session is left and records the outcome. Calls that already finished
// through the dialogue were evicted by HandleTurn and are ignored here.
func (e *Engine) CallEnded(ctx context.Context, callID string, failed bool, duration time.Duration) {
	s, ok := e.registry.Take(callID)
	if !ok {
		return
	}
	if s.Status.Terminal() {
		// A turn racing this callback just finished the call and recorded
		// its outcome.
		return
	}

	outcome := OutcomeEarlyHangup
	if failed {
		outcome = OutcomeFailed
	}
	end := CallEnd{
		CallID:   s.CallID,
		From:     s.From,
		Outcome:  outcome,
		Turns:    s.TurnCount,
		Duration: duration,
	}
	if end.Duration <= 0 {
		end.Duration = time.Since(s.StartedAt)
	}
	e.emit(ctx, end)
}

func (e *Engine) handleConfirmation(ctx context.Context, log *slog.Logger, s *Session, utterance string, reservationID *int64) (Reply, error) {
	switch classifyYesNo(utterance) {
	case answerYes:
		id, err := e.persister.Save(ctx, s.Booking())
		if err != nil {
			// Never confirm a reservation that was not written. The call
			// ends apologetically and nothing is committed.
			log.Error("reservation save failed", "err", err)
			s.Status = StatusAbandoned
			return Reply{Say: e.prompts.PersistFailure(), EndCall: true}, nil
		}
		*reservationID = id
		s.Status = StatusConfirmed
		log.Info("reservation confirmed", "reservation_id", id)
		return Reply{Say: e.prompts.Confirmed(s), EndCall: true}, nil

	case answerNo:
		fields := disputedFields(utterance)
		if len(fields) == 0 {
			fields = e.opts.DisputedFields
		}
		for _, f := range fields {
			s.Clear(f)
		}
		s.Status = StatusCollecting
		log.Info("reservation disputed", "cleared", fields)
		return Reply{Say: e.prompts.Correction() + " " + e.nextPrompt(s)}, nil

	default:
		// Unclear reply: repeat the confirmation question. The turn counter
		// still advances, so a looping caller ends in Abandoned.
		return Reply{Say: e.prompts.Clarify() + " " + e.prompts.Confirm(s)}, nil
	}
}

// merge runs extraction and folds accepted candidates into the session.
// Extraction problems mean nothing was captured this turn; the field stays
// unset and will be re-asked.
func (e *Engine) merge(ctx context.Context, log *slog.Logger, s *Session, utterance string, now time.Time) {
	if utterance == "" {
		return
	}
	cands, err := e.extractor.Extract(ctx, ExtractRequest{
		Utterance: utterance,
		Known:     s.Known(),
		Now:       now,
	})
	if err != nil {
		log.Warn("extraction failed", "err", err)
		return
	}

	best := make(map[Field]Candidate)
	for _, c := range cands {
		if s.Has(c.Field) {
			// A set field is never overwritten later in the call.
			continue
		}
		if c.Confidence < e.opts.MinConfidence {
			continue
		}
		if cur, ok := best[c.Field]; !ok || c.Confidence > cur.Confidence {
			best[c.Field] = c
		}
	}
	for f, c := range best {
		s.Fields[f] = c.Value
		log.Debug("field captured", "field", f, "confidence", c.Confidence)
	}
}

// nextPrompt applies the field transition and returns the next question.
// All candidates from the turn are merged before this runs, so a field the
// caller supplied in the same breath is never asked for.
func (e *Engine) nextPrompt(s *Session) string {
	if s.Complete() {
		s.Status = StatusReadyToConfirm
		return e.prompts.Confirm(s)
	}

	for _, f := range askOrder {
		if !s.Has(f) && !s.Asked[f] {
			s.Asked[f] = true
			return e.prompts.Ask(f)
		}
	}

	// Every missing field was already asked and answered ambiguously;
	// re-ask the highest-precedence one with a clarification.
	for _, f := range askOrder {
		if !s.Has(f) {
			return e.prompts.Clarify() + " " + e.prompts.Ask(f)
		}
	}
	return e.prompts.Clarify()
}

func (e *Engine) record(ctx context.Context, s *Session, now time.Time, outcome string, reservationID int64) {
	e.emit(ctx, CallEnd{
		CallID:        s.CallID,
		From:          s.From,
		Outcome:       outcome,
		Turns:         s.TurnCount,
		Duration:      now.Sub(s.StartedAt),
		ReservationID: reservationID,
	})
}

func (e *Engine) emit(ctx context.Context, end CallEnd) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.CallEnded(ctx, end); err != nil {
		e.log.Warn("call record failed", "call_id", end.CallID, "err", err)
	}
}
