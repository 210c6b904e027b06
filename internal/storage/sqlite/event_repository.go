package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AlexMasonAM/TicketBlaster/internal/domain"
)

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) (int64, error) {
	const stmt = `
INSERT INTO events (name, start_time, archived, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`

	res, err := executorFor(ctx, r.db).ExecContext(ctx, stmt, event.Name, event.StartTime, event.Archived, event.CreatedAt, event.UpdatedAt)
	if err != nil {
		if cerr := constraintError(err, "events"); cerr != nil {
			return 0, cerr
		}
		return 0, fmt.Errorf("create event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create event: %w", err)
	}
	return id, nil
}

func (r *EventRepository) FindEvent(ctx context.Context, id int64) (*domain.Event, error) {
	e, err := r.getEvent(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &e, nil
}

func (r *EventRepository) GetEventForUpdate(ctx context.Context, id int64) (domain.Event, error) {
	e, err := r.getEvent(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) getEvent(ctx context.Context, id int64) (domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events e WHERE e.id = ?`
	return scanEvent(executorFor(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *EventRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events e ORDER BY e.id ASC`

	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query)
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
SET name = ?, start_time = ?, archived = ?, updated_at = ?
WHERE id = ?`

	res, err := executorFor(ctx, r.db).ExecContext(ctx, stmt, event.Name, event.StartTime, event.Archived, event.UpdatedAt, event.ID)
	if err != nil {
		if cerr := constraintError(err, "events"); cerr != nil {
			return cerr
		}
		return fmt.Errorf("update event: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if !ok {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, id int64) error {
	res, err := executorFor(ctx, r.db).ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		if cerr := constraintError(err, "events"); cerr != nil {
			return cerr
		}
		return fmt.Errorf("delete event: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if !ok {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) ListTicketsByEvent(ctx context.Context, eventID int64) ([]domain.Ticket, error) {
	const query = `
SELECT ` + ticketColumns + `
FROM tickets t
WHERE t.event_id = ?
ORDER BY t.id ASC`

	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event tickets: %w", err)
	}
	tickets, err := collectTickets(rows)
	if err != nil {
		return nil, fmt.Errorf("scan event tickets: %w", err)
	}
	return tickets, nil
}

func (r *EventRepository) ListCustomersByEvent(ctx context.Context, eventID int64) ([]domain.Customer, error) {
	const query = `
SELECT ` + customerColumns + `
FROM tickets t
JOIN customers c ON c.id = t.customer_id
WHERE t.event_id = ?
ORDER BY t.id ASC`

	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event customers: %w", err)
	}
	customers, err := collectCustomers(rows)
	if err != nil {
		return nil, fmt.Errorf("scan event customers: %w", err)
	}
	return customers, nil
}
