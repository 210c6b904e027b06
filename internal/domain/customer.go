package domain

import "time"

// Customer is a person who may hold tickets.
type Customer struct {
	ID        int64
	Name      *string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
