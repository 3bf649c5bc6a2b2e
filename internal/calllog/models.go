package calllog

import "time"

// Record is one finished call. Records are append-only; a call that never
// produced a reservation still leaves a row so staff can see drop-off.
type Record struct {
	ID              string    `json:"id"`
	CallID          string    `json:"call_id"`
	From            string    `json:"from,omitempty"`
	Outcome         string    `json:"outcome"`
	Turns           int       `json:"turns"`
	DurationSeconds int       `json:"duration_seconds"`
	ReservationID   int64     `json:"reservation_id,omitempty"`
	EndedAt         time.Time `json:"ended_at"`
}

// Stats summarizes call outcomes for the staff dashboard.
type Stats struct {
	TotalCalls      int `json:"total_calls"`
	ConfirmedCalls  int `json:"confirmed_calls"`
	AbandonedCalls  int `json:"abandoned_calls"`
	FailedCalls     int `json:"failed_calls"`
	EarlyHangups    int `json:"early_hangups"`
	EarlyHangupRate float64 `json:"early_hangup_rate"`

	// AverageEarlyHangupSeconds is how long early-hangup callers stayed on
	// the line before giving up, a tuning signal for the greeting.
	AverageEarlyHangupSeconds float64  `json:"average_early_hangup_seconds"`
	EarlyHangupCallIDs        []string `json:"early_hangup_call_ids,omitempty"`
}
