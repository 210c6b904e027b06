package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AlexMasonAM/TicketBlaster/internal/domain"
)

type TicketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

func (r *TicketRepository) CreateTicket(ctx context.Context, ticket domain.Ticket) (int64, error) {
	const stmt = `
INSERT INTO tickets (customer_id, event_id, seat, section, cost, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	res, err := executorFor(ctx, r.db).ExecContext(ctx, stmt,
		ticket.CustomerID,
		ticket.EventID,
		ticket.Seat,
		ticket.Section,
		ticket.Cost,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	if err != nil {
		if cerr := constraintError(err, "tickets"); cerr != nil {
			return 0, cerr
		}
		return 0, fmt.Errorf("create ticket: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create ticket: %w", err)
	}
	return id, nil
}

func (r *TicketRepository) FindTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	t, err := r.getTicket(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	return &t, nil
}

func (r *TicketRepository) GetTicketForUpdate(ctx context.Context, id int64) (domain.Ticket, error) {
	t, err := r.getTicket(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Ticket{}, domain.ErrTicketNotFound
		}
		return domain.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

func (r *TicketRepository) getTicket(ctx context.Context, id int64) (domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets t WHERE t.id = ?`
	return scanTicket(executorFor(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *TicketRepository) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets t ORDER BY t.id ASC`

	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	tickets, err := collectTickets(rows)
	if err != nil {
		return nil, fmt.Errorf("scan tickets: %w", err)
	}
	return tickets, nil
}

func (r *TicketRepository) UpdateTicket(ctx context.Context, ticket domain.Ticket) error {
	const stmt = `
UPDATE tickets
SET customer_id = ?, event_id = ?, seat = ?, section = ?, cost = ?, updated_at = ?
WHERE id = ?`

	res, err := executorFor(ctx, r.db).ExecContext(ctx, stmt,
		ticket.CustomerID,
		ticket.EventID,
		ticket.Seat,
		ticket.Section,
		ticket.Cost,
		ticket.UpdatedAt,
		ticket.ID,
	)
	if err != nil {
		if cerr := constraintError(err, "tickets"); cerr != nil {
			return cerr
		}
		return fmt.Errorf("update ticket: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if !ok {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) DeleteTicket(ctx context.Context, id int64) error {
	res, err := executorFor(ctx, r.db).ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	if !ok {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) FindCustomerByTicket(ctx context.Context, ticketID int64) (*domain.Customer, error) {
	const query = `
SELECT ` + customerColumns + `
FROM tickets t
JOIN customers c ON c.id = t.customer_id
WHERE t.id = ?`

	c, err := scanCustomer(executorFor(ctx, r.db).QueryRowContext(ctx, query, ticketID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find ticket customer: %w", err)
	}
	return &c, nil
}

func (r *TicketRepository) FindEventByTicket(ctx context.Context, ticketID int64) (*domain.Event, error) {
	const query = `
SELECT ` + eventColumns + `
FROM tickets t
JOIN events e ON e.id = t.event_id
WHERE t.id = ?`

	e, err := scanEvent(executorFor(ctx, r.db).QueryRowContext(ctx, query, ticketID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find ticket event: %w", err)
	}
	return &e, nil
}
