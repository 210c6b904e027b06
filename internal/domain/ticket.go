package domain

import "time"

// Ticket binds a customer to an event. Both references are nullable in the
// schema even though a ticket without them carries no meaning.
type Ticket struct {
	ID         int64
	CustomerID *int64
	EventID    *int64
	Seat       *string
	Section    *string
	Cost       *float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
