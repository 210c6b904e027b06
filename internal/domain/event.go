package domain

import "time"

// Event is an occurrence tickets are sold against.
type Event struct {
	ID        int64
	Name      *string
	StartTime time.Time
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
