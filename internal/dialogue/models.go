package dialogue

import (
	"context"
	"fmt"
	"time"
)

// Field identifies one reservation slot collected during a call.
type Field string

const (
	FieldName            Field = "name"
	FieldDate            Field = "date"
	FieldTime            Field = "time"
	FieldPartySize       Field = "party_size"
	FieldSpecialRequests Field = "special_requests"
)

// askOrder is the prompting precedence. Only the required fields are ever
// prompted for; party size and special requests are captured when the caller
// volunteers them and never block confirmation.
var askOrder = [...]Field{FieldName, FieldDate, FieldTime}

// RequiredFields returns the fields that must be captured before a
// reservation can be confirmed.
func RequiredFields() []Field {
	out := make([]Field, len(askOrder))
	copy(out, askOrder[:])
	return out
}

// Clock is a time of day with minute precision.
type Clock struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Speakable renders the clock for a spoken confirmation, e.g. "7:00 PM".
func (c Clock) Speakable() string {
	h := c.Hour % 12
	if h == 0 {
		h = 12
	}
	meridiem := "AM"
	if c.Hour >= 12 {
		meridiem = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h, c.Minute, meridiem)
}

// ParseClock parses "HH:MM" in 24-hour form.
func ParseClock(s string) (Clock, error) {
	var c Clock
	if _, err := fmt.Sscanf(s, "%d:%d", &c.Hour, &c.Minute); err != nil {
		return Clock{}, fmt.Errorf("dialogue: invalid clock %q: %w", s, err)
	}
	if c.Hour < 0 || c.Hour > 23 || c.Minute < 0 || c.Minute > 59 {
		return Clock{}, fmt.Errorf("dialogue: clock %q out of range", s)
	}
	return c, nil
}

// Value is one captured field value. Only the member matching the field kind
// is meaningful: Text for name and special requests, Date for the calendar
// date, Clock for the time of day, Count for the party size.
type Value struct {
	Text  string
	Date  time.Time
	Clock Clock
	Count int
}

// Candidate is a proposed field value from an extractor strategy.
type Candidate struct {
	Field      Field
	Value      Value
	Confidence float64
}

// ExtractRequest carries one utterance to an extractor strategy.
type ExtractRequest struct {
	Utterance string

	// Known marks fields already captured this call. Extractors must not
	// propose values for them; an earlier answer is never overwritten by a
	// restated intent later in the call.
	Known map[Field]bool

	// Now anchors relative date phrases ("tomorrow", weekday names).
	Now time.Time
}

// Extractor proposes field values for a single utterance.
// Implementations must be safe for concurrent use across calls.
type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest) ([]Candidate, error)
}

// Booking is the accumulated reservation handed to the persister when the
// caller confirms. PartySize of zero means the caller never stated one and
// the storage default applies.
type Booking struct {
	CallID          string
	Name            string
	Phone           string
	Date            time.Time
	Time            Clock
	PartySize       int
	SpecialRequests string
}

// Persister stores one confirmed reservation. The save must be atomic: a
// confirmed call yields exactly one customer lookup-or-create and one
// reservation row, or nothing at all.
type Persister interface {
	Save(ctx context.Context, b Booking) (reservationID int64, err error)
}

// Call outcomes reported to the Recorder.
const (
	OutcomeConfirmed   = "confirmed"
	OutcomeAbandoned   = "abandoned"
	OutcomeEarlyHangup = "early_hangup"
	OutcomeFailed      = "failed"
)

// CallEnd summarizes a finished call for bookkeeping.
type CallEnd struct {
	CallID        string
	From          string
	Outcome       string
	Turns         int
	Duration      time.Duration
	ReservationID int64
}

// Recorder receives call-end records. Recording is best-effort; errors are
// logged by the engine and never affect the caller.
type Recorder interface {
	CallEnded(ctx context.Context, end CallEnd) error
}

// DateOf truncates t to a calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
