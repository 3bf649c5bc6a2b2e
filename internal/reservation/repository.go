package reservation

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("reservation: not found")

// Repository abstracts reservation storage.
//
// Save must be atomic: either the customer row (existing or newly created)
// and the reservation row both land, or neither does.
type Repository interface {
	// Save reuses an existing customer with the same name or creates one,
	// then inserts the reservation against it.
	Save(ctx context.Context, c Customer, r Reservation) (customerID, reservationID int64, err error)

	GetCustomerByName(ctx context.Context, name string) (Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	ListReservations(ctx context.Context) ([]Detail, error)
	ListReservationsOn(ctx context.Context, date time.Time) ([]Detail, error)
}
