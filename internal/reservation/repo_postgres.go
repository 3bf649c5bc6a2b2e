package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"voice-reservations/pkg/utils"
)

// PostgresRepo stores customers and reservations in Postgres via database/sql
// (pgx stdlib driver).
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

// Migrate creates the schema if it does not exist. Idempotent; run at startup.
func (r *PostgresRepo) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id          BIGSERIAL PRIMARY KEY,
			name        TEXT NOT NULL,
			phone       TEXT NOT NULL DEFAULT '',
			email       TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_customers_name ON customers (name)`,
		`CREATE TABLE IF NOT EXISTS reservations (
			id               BIGSERIAL PRIMARY KEY,
			customer_id      BIGINT NOT NULL REFERENCES customers(id),
			reservation_date DATE NOT NULL,
			reservation_time TIME NOT NULL,
			party_size       INT NOT NULL DEFAULT 2,
			special_requests TEXT NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_date ON reservations (reservation_date)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reservation: migrate: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepo) Save(ctx context.Context, c Customer, res Reservation) (int64, int64, error) {
	var customerID, reservationID int64
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM customers WHERE name = $1 ORDER BY id LIMIT 1`, c.Name,
		).Scan(&customerID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			err = tx.QueryRowContext(ctx,
				`INSERT INTO customers (name, phone, email) VALUES ($1, $2, $3) RETURNING id`,
				c.Name, c.Phone, c.Email,
			).Scan(&customerID)
			if err != nil {
				return fmt.Errorf("insert customer: %w", err)
			}
		case err != nil:
			return fmt.Errorf("lookup customer: %w", err)
		}

		err = tx.QueryRowContext(ctx,
			`INSERT INTO reservations (customer_id, reservation_date, reservation_time, party_size, special_requests)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			customerID, res.Date, res.Time, res.PartySize, res.SpecialRequests,
		).Scan(&reservationID)
		if err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("reservation: save: %w", err)
	}
	return customerID, reservationID, nil
}

func (r *PostgresRepo) GetCustomerByName(ctx context.Context, name string) (Customer, error) {
	var c Customer
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, phone, email, created_at FROM customers WHERE name = $1 ORDER BY id LIMIT 1`,
		name,
	).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	if err != nil {
		return Customer{}, fmt.Errorf("reservation: get customer: %w", err)
	}
	return c, nil
}

func (r *PostgresRepo) ListCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, phone, email, created_at FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("reservation: list customers: %w", err)
	}
	defer rows.Close()

	out := make([]Customer, 0)
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("reservation: scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const detailSelect = `
	SELECT r.id, r.customer_id, r.reservation_date, r.reservation_time::text,
	       r.party_size, r.special_requests, r.created_at, c.name
	FROM reservations r
	JOIN customers c ON c.id = r.customer_id`

func (r *PostgresRepo) ListReservations(ctx context.Context) ([]Detail, error) {
	rows, err := r.db.QueryContext(ctx, detailSelect+` ORDER BY r.reservation_date, r.reservation_time`)
	if err != nil {
		return nil, fmt.Errorf("reservation: list reservations: %w", err)
	}
	return scanDetails(rows)
}

func (r *PostgresRepo) ListReservationsOn(ctx context.Context, date time.Time) ([]Detail, error) {
	rows, err := r.db.QueryContext(ctx,
		detailSelect+` WHERE r.reservation_date = $1 ORDER BY r.reservation_time`, date)
	if err != nil {
		return nil, fmt.Errorf("reservation: list reservations on date: %w", err)
	}
	return scanDetails(rows)
}

func scanDetails(rows *sql.Rows) ([]Detail, error) {
	defer rows.Close()
	out := make([]Detail, 0)
	for rows.Next() {
		var d Detail
		var clock string
		if err := rows.Scan(&d.ID, &d.CustomerID, &d.Date, &clock,
			&d.PartySize, &d.SpecialRequests, &d.CreatedAt, &d.CustomerName); err != nil {
			return nil, fmt.Errorf("reservation: scan reservation: %w", err)
		}
		// TIME renders as HH:MM:SS; keep the API shape at HH:MM.
		if len(clock) > 5 {
			clock = clock[:5]
		}
		d.Time = clock
		out = append(out, d)
	}
	return out, rows.Err()
}
