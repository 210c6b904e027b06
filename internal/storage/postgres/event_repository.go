package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexMasonAM/TicketBlaster/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) (int64, error) {
	const stmt = `
INSERT INTO events (name, start_time, archived, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

	var id int64
	err := executorFor(ctx, r.pool).
		QueryRow(ctx, stmt, event.Name, event.StartTime, event.Archived, event.CreatedAt, event.UpdatedAt).
		Scan(&id)
	if err != nil {
		if cerr := constraintError(err, "events"); cerr != nil {
			return 0, cerr
		}
		return 0, fmt.Errorf("create event: %w", err)
	}
	return id, nil
}

func (r *EventRepository) FindEvent(ctx context.Context, id int64) (*domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1`

	e, err := scanEvent(executorFor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &e, nil
}

func (r *EventRepository) GetEventForUpdate(ctx context.Context, id int64) (domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1 FOR UPDATE`

	e, err := scanEvent(executorFor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events e ORDER BY e.id ASC`

	rows, err := executorFor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
UPDATE events
SET name = $2, start_time = $3, archived = $4, updated_at = $5
WHERE id = $1`

	tag, err := executorFor(ctx, r.pool).Exec(ctx, stmt, event.ID, event.Name, event.StartTime, event.Archived, event.UpdatedAt)
	if err != nil {
		if cerr := constraintError(err, "events"); cerr != nil {
			return cerr
		}
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// DeleteEvent fails with a foreign key ConstraintError while tickets still
// reference the event.
func (r *EventRepository) DeleteEvent(ctx context.Context, id int64) error {
	tag, err := executorFor(ctx, r.pool).Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		if cerr := constraintError(err, "events"); cerr != nil {
			return cerr
		}
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) ListTicketsByEvent(ctx context.Context, eventID int64) ([]domain.Ticket, error) {
	const query = `
SELECT ` + ticketColumns + `
FROM tickets t
WHERE t.event_id = $1
ORDER BY t.id ASC`

	rows, err := executorFor(ctx, r.pool).Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event tickets: %w", err)
	}
	tickets, err := collectTickets(rows)
	if err != nil {
		return nil, fmt.Errorf("scan event tickets: %w", err)
	}
	return tickets, nil
}

// ListCustomersByEvent returns one customer per ticket, in ticket order.
func (r *EventRepository) ListCustomersByEvent(ctx context.Context, eventID int64) ([]domain.Customer, error) {
	const query = `
SELECT ` + customerColumns + `
FROM tickets t
JOIN customers c ON c.id = t.customer_id
WHERE t.event_id = $1
ORDER BY t.id ASC`

	rows, err := executorFor(ctx, r.pool).Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event customers: %w", err)
	}
	customers, err := collectCustomers(rows)
	if err != nil {
		return nil, fmt.Errorf("scan event customers: %w", err)
	}
	return customers, nil
}
