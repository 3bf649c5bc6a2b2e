package reservation

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory repository for tests and early development.
// Save mirrors the Postgres implementation: customer reuse by name, both
// writes land together.
type MemoryRepo struct {
	mu sync.Mutex

	nextCustomerID    int64
	nextReservationID int64

	Customers    []Customer
	Reservations []Reservation
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextCustomerID: 1, nextReservationID: 1}
}

func (r *MemoryRepo) Save(_ context.Context, c Customer, res Reservation) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var customerID int64
	for _, existing := range r.Customers {
		if existing.Name == c.Name {
			customerID = existing.ID
			break
		}
	}
	if customerID == 0 {
		c.ID = r.nextCustomerID
		r.nextCustomerID++
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now().UTC()
		}
		r.Customers = append(r.Customers, c)
		customerID = c.ID
	}

	res.ID = r.nextReservationID
	r.nextReservationID++
	res.CustomerID = customerID
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}
	r.Reservations = append(r.Reservations, res)
	return customerID, res.ID, nil
}

func (r *MemoryRepo) GetCustomerByName(_ context.Context, name string) (Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Customers {
		if c.Name == name {
			return c, nil
		}
	}
	return Customer{}, ErrNotFound
}

func (r *MemoryRepo) ListCustomers(_ context.Context) ([]Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Customer, len(r.Customers))
	copy(out, r.Customers)
	return out, nil
}

func (r *MemoryRepo) ListReservations(_ context.Context) ([]Detail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.details(func(Reservation) bool { return true }), nil
}

func (r *MemoryRepo) ListReservationsOn(_ context.Context, date time.Time) ([]Detail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	y, m, d := date.Date()
	return r.details(func(res Reservation) bool {
		ry, rm, rd := res.Date.Date()
		return ry == y && rm == m && rd == d
	}), nil
}

func (r *MemoryRepo) details(keep func(Reservation) bool) []Detail {
	names := make(map[int64]string, len(r.Customers))
	for _, c := range r.Customers {
		names[c.ID] = c.Name
	}
	out := make([]Detail, 0)
	for _, res := range r.Reservations {
		if !keep(res) {
			continue
		}
		out = append(out, Detail{Reservation: res, CustomerName: names[res.CustomerID]})
	}
	return out
}
