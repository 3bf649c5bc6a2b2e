package calllog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"voice-reservations/internal/dialogue"

	"github.com/google/uuid"
)

// Service records finished calls and answers stats queries. It satisfies the
// dialogue engine's recorder boundary.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, log: log, now: time.Now}
}

func (s *Service) CallEnded(ctx context.Context, end dialogue.CallEnd) error {
	rec := Record{
		ID:              uuid.NewString(),
		CallID:          end.CallID,
		From:            end.From,
		Outcome:         end.Outcome,
		Turns:           end.Turns,
		DurationSeconds: int(end.Duration / time.Second),
		ReservationID:   end.ReservationID,
		EndedAt:         s.now().UTC(),
	}
	if err := s.repo.Append(ctx, rec); err != nil {
		return fmt.Errorf("calllog: record call end: %w", err)
	}
	s.log.Info("call ended",
		"call_id", end.CallID,
		"outcome", end.Outcome,
		"turns", end.Turns,
		"duration_s", rec.DurationSeconds,
	)
	return nil
}

// Stats aggregates the full log. Early hangups get extra detail: callers who
// bail before saying anything are the main signal the greeting needs work.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	var out Stats
	var earlySeconds int
	for _, rec := range records {
		out.TotalCalls++
		switch rec.Outcome {
		case dialogue.OutcomeConfirmed:
			out.ConfirmedCalls++
		case dialogue.OutcomeAbandoned:
			out.AbandonedCalls++
		case dialogue.OutcomeFailed:
			out.FailedCalls++
		case dialogue.OutcomeEarlyHangup:
			out.EarlyHangups++
			earlySeconds += rec.DurationSeconds
			out.EarlyHangupCallIDs = append(out.EarlyHangupCallIDs, rec.CallID)
		}
	}
	if out.TotalCalls > 0 {
		out.EarlyHangupRate = float64(out.EarlyHangups) / float64(out.TotalCalls)
	}
	if out.EarlyHangups > 0 {
		out.AverageEarlyHangupSeconds = float64(earlySeconds) / float64(out.EarlyHangups)
	}
	return out, nil
}
