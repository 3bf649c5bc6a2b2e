package reporting

import (
	"context"
	"testing"
	"time"

	"voice-reservations/internal/reservation"
)

func seedRepo(t *testing.T) *reservation.MemoryRepo {
	t.Helper()
	repo := reservation.NewMemoryRepo()
	seed := []struct {
		name string
		date time.Time
		size int
	}{
		{"Sarah", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), 2},
		{"David", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), 4},
		{"Maria", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), 3},
	}
	for _, s := range seed {
		_, _, err := repo.Save(context.Background(),
			reservation.Customer{Name: s.name},
			reservation.Reservation{Date: s.date, Time: "19:00", PartySize: s.size})
		if err != nil {
			t.Fatalf("seed Save returned error: %v", err)
		}
	}
	return repo
}

func TestReporting_TodaysReservations(t *testing.T) {
	svc := NewService(seedRepo(t))
	svc.now = func() time.Time { return time.Date(2024, 3, 14, 18, 30, 0, 0, time.UTC) }

	out, err := svc.TodaysReservations(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Date != "2024-03-14" {
		t.Fatalf("expected date 2024-03-14, got %s", out.Date)
	}
	if out.Count != 2 || out.TotalGuests != 6 {
		t.Fatalf("unexpected summary: %+v", out)
	}
}

func TestReporting_TodaysReservationsEmptyDay(t *testing.T) {
	svc := NewService(seedRepo(t))
	svc.now = func() time.Time { return time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC) }

	out, err := svc.TodaysReservations(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Count != 0 || len(out.Reservations) != 0 {
		t.Fatalf("expected empty day, got %+v", out)
	}
}

func TestReporting_Listings(t *testing.T) {
	svc := NewService(seedRepo(t))

	customers, err := svc.Customers(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(customers) != 3 {
		t.Fatalf("expected 3 customers, got %d", len(customers))
	}

	reservations, err := svc.Reservations(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(reservations) != 3 {
		t.Fatalf("expected 3 reservations, got %d", len(reservations))
	}
	if reservations[0].CustomerName == "" {
		t.Fatal("expected customer names joined onto reservations")
	}
}
