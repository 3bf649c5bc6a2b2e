package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"voice-reservations/internal/dialogue"
)

func testBooking(callID string) dialogue.Booking {
	return dialogue.Booking{
		CallID:    callID,
		Name:      "Sarah",
		Phone:     "+442071234567",
		Date:      time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Time:      dialogue.Clock{Hour: 19},
		PartySize: 2,
	}
}

func TestServiceSaveStoresCustomerAndReservation(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)

	id, err := svc.Save(context.Background(), testBooking("CA1"))
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected reservation id 1, got %d", id)
	}

	c, err := repo.GetCustomerByName(context.Background(), "Sarah")
	if err != nil {
		t.Fatalf("GetCustomerByName returned error: %v", err)
	}
	if c.Phone != "+442071234567" {
		t.Fatalf("unexpected customer phone %q", c.Phone)
	}

	details, err := repo.ListReservations(context.Background())
	if err != nil {
		t.Fatalf("ListReservations returned error: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected one reservation, got %d", len(details))
	}
	if details[0].Time != "19:00" || details[0].CustomerName != "Sarah" {
		t.Fatalf("unexpected detail %+v", details[0])
	}
}

func TestServiceSaveReusesCustomerByName(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)

	if _, err := svc.Save(context.Background(), testBooking("CA1")); err != nil {
		t.Fatalf("first Save returned error: %v", err)
	}
	b := testBooking("CA2")
	b.Date = b.Date.AddDate(0, 0, 1)
	if _, err := svc.Save(context.Background(), b); err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}

	customers, _ := repo.ListCustomers(context.Background())
	if len(customers) != 1 {
		t.Fatalf("expected one customer row, got %d", len(customers))
	}
	reservations, _ := repo.ListReservations(context.Background())
	if len(reservations) != 2 {
		t.Fatalf("expected two reservations, got %d", len(reservations))
	}
}

func TestServiceSaveIsIdempotentPerCall(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)

	first, err := svc.Save(context.Background(), testBooking("CA1"))
	if err != nil {
		t.Fatalf("first Save returned error: %v", err)
	}
	second, err := svc.Save(context.Background(), testBooking("CA1"))
	if err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}
	if first != second {
		t.Fatalf("expected same reservation id, got %d then %d", first, second)
	}
	reservations, _ := repo.ListReservations(context.Background())
	if len(reservations) != 1 {
		t.Fatalf("expected a single reservation, got %d", len(reservations))
	}
}

func TestServiceSaveDefaultsPartySize(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)

	b := testBooking("CA1")
	b.PartySize = 0
	if _, err := svc.Save(context.Background(), b); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	details, _ := repo.ListReservations(context.Background())
	if details[0].PartySize != 2 {
		t.Fatalf("expected default party size 2, got %d", details[0].PartySize)
	}
}

func TestServiceSaveRejectsInvalidBooking(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)

	cases := []dialogue.Booking{
		{},
		{Name: "Sarah"},
		{Name: "Sarah", Date: time.Now(), PartySize: 51},
	}
	for _, b := range cases {
		if _, err := svc.Save(context.Background(), b); !errors.Is(err, ErrInvalidBooking) {
			t.Fatalf("Save(%+v): expected ErrInvalidBooking, got %v", b, err)
		}
	}
}

func TestServiceSaveWrapsRepositoryError(t *testing.T) {
	svc := NewService(failingRepo{}, nil)

	if _, err := svc.Save(context.Background(), testBooking("CA1")); err == nil {
		t.Fatal("expected an error from the repository")
	}
}

type failingRepo struct{}

func (failingRepo) Save(context.Context, Customer, Reservation) (int64, int64, error) {
	return 0, 0, errors.New("db down")
}
func (failingRepo) GetCustomerByName(context.Context, string) (Customer, error) {
	return Customer{}, ErrNotFound
}
func (failingRepo) ListCustomers(context.Context) ([]Customer, error) { return nil, nil }
func (failingRepo) ListReservations(context.Context) ([]Detail, error) {
	return nil, nil
}
func (failingRepo) ListReservationsOn(context.Context, time.Time) ([]Detail, error) {
	return nil, nil
}
