package dialogue

import "time"

// Status is the lifecycle state of one call session.
type Status string

const (
	StatusNotStarted     Status = "not_started"
	StatusCollecting     Status = "collecting"
	StatusReadyToConfirm Status = "ready_to_confirm"
	StatusConfirmed      Status = "confirmed"
	StatusAbandoned      Status = "abandoned"
)

// Terminal reports whether the status ends the call.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusAbandoned
}

// Session is the mutable state of one active call. It lives only for the
// duration of the call; the registry evicts it on hangup, confirmation or
// abandonment, and it is never persisted.
//
// Fields and Asked are distinct on purpose: a field can be asked for but
// answered ambiguously (asked, still unset), or answered before it was ever
// asked (set, never asked). Asked gates prompt selection only; completeness
// is judged on Fields alone.
type Session struct {
	CallID    string
	From      string
	StartedAt time.Time

	Fields map[Field]Value
	Asked  map[Field]bool

	TurnCount int
	Status    Status
}

func NewSession(callID, from string, at time.Time) *Session {
	return &Session{
		CallID:    callID,
		From:      from,
		StartedAt: at,
		Fields:    make(map[Field]Value),
		Asked:     make(map[Field]bool),
		Status:    StatusNotStarted,
	}
}

// Has reports whether a field holds a captured value.
func (s *Session) Has(f Field) bool {
	_, ok := s.Fields[f]
	return ok
}

// Known returns a copy of the set-field marks for extractor suppression.
func (s *Session) Known() map[Field]bool {
	out := make(map[Field]bool, len(s.Fields))
	for f := range s.Fields {
		out[f] = true
	}
	return out
}

// Complete reports whether every required field is captured.
func (s *Session) Complete() bool {
	for _, f := range askOrder {
		if !s.Has(f) {
			return false
		}
	}
	return true
}

// Clear drops a captured value and its asked mark so the field is prompted
// for again.
func (s *Session) Clear(f Field) {
	delete(s.Fields, f)
	delete(s.Asked, f)
}

// Booking assembles the persister input from the captured fields.
func (s *Session) Booking() Booking {
	b := Booking{
		CallID: s.CallID,
		Phone:  s.From,
	}
	if v, ok := s.Fields[FieldName]; ok {
		b.Name = v.Text
	}
	if v, ok := s.Fields[FieldDate]; ok {
		b.Date = v.Date
	}
	if v, ok := s.Fields[FieldTime]; ok {
		b.Time = v.Clock
	}
	if v, ok := s.Fields[FieldPartySize]; ok {
		b.PartySize = v.Count
	}
	if v, ok := s.Fields[FieldSpecialRequests]; ok {
		b.SpecialRequests = v.Text
	}
	return b
}
