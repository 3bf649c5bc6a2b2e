package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"voice-reservations/internal/dialogue"
)

var ErrInvalidBooking = errors.New("reservation: invalid booking")

const defaultPartySize = 2

// idempotencyLimit bounds the remembered call IDs so a long-running process
// does not grow without limit. Oldest entries are dropped first.
const idempotencyLimit = 1024

// Service turns a completed call into stored rows. It satisfies the dialogue
// engine's persister boundary.
type Service struct {
	repo Repository
	log  *slog.Logger

	mu    sync.Mutex
	saved map[string]int64 // call ID -> reservation ID
	order []string
}

func NewService(repo Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, log: log, saved: make(map[string]int64)}
}

// Save validates and stores a confirmed booking. Saving the same call twice
// returns the first reservation ID without writing again; provider webhooks
// retry and must not double-book.
func (s *Service) Save(ctx context.Context, b dialogue.Booking) (int64, error) {
	if b.Name == "" || b.Date.IsZero() {
		return 0, ErrInvalidBooking
	}
	if b.PartySize < 0 || b.PartySize > 50 {
		return 0, ErrInvalidBooking
	}
	if b.PartySize == 0 {
		b.PartySize = defaultPartySize
	}

	if b.CallID != "" {
		s.mu.Lock()
		if id, ok := s.saved[b.CallID]; ok {
			s.mu.Unlock()
			return id, nil
		}
		s.mu.Unlock()
	}

	customerID, reservationID, err := s.repo.Save(ctx,
		Customer{Name: b.Name, Phone: b.Phone},
		Reservation{
			Date:            b.Date,
			Time:            b.Time.String(),
			PartySize:       b.PartySize,
			SpecialRequests: b.SpecialRequests,
		},
	)
	if err != nil {
		return 0, fmt.Errorf("reservation: save booking: %w", err)
	}

	if b.CallID != "" {
		s.remember(b.CallID, reservationID)
	}
	s.log.Info("reservation saved",
		"call_id", b.CallID,
		"customer_id", customerID,
		"reservation_id", reservationID,
		"date", b.Date.Format("2006-01-02"),
		"time", b.Time.String(),
		"party_size", b.PartySize,
	)
	return reservationID, nil
}

func (s *Service) remember(callID string, reservationID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.saved[callID]; ok {
		return
	}
	s.saved[callID] = reservationID
	s.order = append(s.order, callID)
	for len(s.order) > idempotencyLimit {
		delete(s.saved, s.order[0])
		s.order = s.order[1:]
	}
}
