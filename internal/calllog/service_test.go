package calllog

import (
	"context"
	"testing"
	"time"

	"voice-reservations/internal/dialogue"
)

func TestServiceCallEndedAppendsRecord(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 14, 19, 30, 0, 0, time.UTC) }

	err := svc.CallEnded(context.Background(), dialogue.CallEnd{
		CallID:        "CA1",
		From:          "+442071234567",
		Outcome:       dialogue.OutcomeConfirmed,
		Turns:         4,
		Duration:      95 * time.Second,
		ReservationID: 7,
	})
	if err != nil {
		t.Fatalf("CallEnded returned error: %v", err)
	}

	records, _ := repo.List(context.Background())
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	rec := records[0]
	if rec.ID == "" {
		t.Fatal("expected a generated record id")
	}
	if rec.Outcome != dialogue.OutcomeConfirmed || rec.DurationSeconds != 95 || rec.ReservationID != 7 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if !rec.EndedAt.Equal(time.Date(2024, 3, 14, 19, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected ended_at %v", rec.EndedAt)
	}
}

func TestServiceStats(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)

	ends := []dialogue.CallEnd{
		{CallID: "CA1", Outcome: dialogue.OutcomeConfirmed, Duration: 90 * time.Second},
		{CallID: "CA2", Outcome: dialogue.OutcomeConfirmed, Duration: 80 * time.Second},
		{CallID: "CA3", Outcome: dialogue.OutcomeAbandoned, Duration: 200 * time.Second},
		{CallID: "CA4", Outcome: dialogue.OutcomeEarlyHangup, Duration: 4 * time.Second},
		{CallID: "CA5", Outcome: dialogue.OutcomeEarlyHangup, Duration: 8 * time.Second},
		{CallID: "CA6", Outcome: dialogue.OutcomeFailed, Duration: 60 * time.Second},
	}
	for _, end := range ends {
		if err := svc.CallEnded(context.Background(), end); err != nil {
			t.Fatalf("CallEnded(%s) returned error: %v", end.CallID, err)
		}
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.TotalCalls != 6 || stats.ConfirmedCalls != 2 || stats.AbandonedCalls != 1 || stats.FailedCalls != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.EarlyHangups != 2 {
		t.Fatalf("expected 2 early hangups, got %d", stats.EarlyHangups)
	}
	if stats.AverageEarlyHangupSeconds != 6 {
		t.Fatalf("expected average early hangup 6s, got %v", stats.AverageEarlyHangupSeconds)
	}
	if len(stats.EarlyHangupCallIDs) != 2 || stats.EarlyHangupCallIDs[0] != "CA4" {
		t.Fatalf("unexpected early hangup call ids %v", stats.EarlyHangupCallIDs)
	}
	wantRate := 2.0 / 6.0
	if stats.EarlyHangupRate != wantRate {
		t.Fatalf("expected early hangup rate %v, got %v", wantRate, stats.EarlyHangupRate)
	}
}

func TestServiceStatsEmptyLog(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.TotalCalls != 0 || stats.EarlyHangupRate != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}
