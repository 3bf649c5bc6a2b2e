package reporting

import (
	"context"
	"errors"
	"time"

	"voice-reservations/internal/reservation"
)

// Repository is the read side of reservation storage. Both reservation repos
// satisfy it.
type Repository interface {
	ListCustomers(ctx context.Context) ([]reservation.Customer, error)
	ListReservations(ctx context.Context) ([]reservation.Detail, error)
	ListReservationsOn(ctx context.Context, date time.Time) ([]reservation.Detail, error)
}

// DaySummary is one day's bookings plus headline numbers for the front desk.
type DaySummary struct {
	Date         string               `json:"date"`
	Count        int                  `json:"count"`
	TotalGuests  int                  `json:"total_guests"`
	Reservations []reservation.Detail `json:"reservations"`
}

// Service answers staff queries over stored reservations.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Customers(ctx context.Context) ([]reservation.Customer, error) {
	if s.repo == nil {
		return nil, errors.New("reporting: repository not configured")
	}
	return s.repo.ListCustomers(ctx)
}

func (s *Service) Reservations(ctx context.Context) ([]reservation.Detail, error) {
	if s.repo == nil {
		return nil, errors.New("reporting: repository not configured")
	}
	return s.repo.ListReservations(ctx)
}

// TodaysReservations summarizes the current service day.
func (s *Service) TodaysReservations(ctx context.Context) (DaySummary, error) {
	if s.repo == nil {
		return DaySummary{}, errors.New("reporting: repository not configured")
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	rows, err := s.repo.ListReservationsOn(ctx, today)
	if err != nil {
		return DaySummary{}, err
	}
	out := DaySummary{Date: today.Format("2006-01-02"), Reservations: rows}
	for _, d := range rows {
		out.Count++
		out.TotalGuests += d.PartySize
	}
	return out, nil
}
