package reservation

import "time"

// Customer is one caller, deduplicated by name. The phone number is whatever
// caller ID the telephony provider handed us and may be empty.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Reservation is a confirmed booking. Time is stored as "HH:MM" 24-hour; the
// restaurant operates in one timezone so no offset is carried.
type Reservation struct {
	ID              int64     `json:"id"`
	CustomerID      int64     `json:"customer_id"`
	Date            time.Time `json:"date"`
	Time            string    `json:"time"`
	PartySize       int       `json:"party_size"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Detail is a reservation joined with its customer, the shape staff listings
// return.
type Detail struct {
	Reservation
	CustomerName string `json:"customer_name"`
}
