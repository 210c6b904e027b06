package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexMasonAM/TicketBlaster/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

func (r *TicketRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// CreateTicket inserts a ticket. A customer_id or event_id that matches no
// row is rejected by the database with a foreign key ConstraintError.
func (r *TicketRepository) CreateTicket(ctx context.Context, ticket domain.Ticket) (int64, error) {
	const stmt = `
INSERT INTO tickets (customer_id, event_id, seat, section, cost, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

	var id int64
	err := executorFor(ctx, r.pool).QueryRow(ctx, stmt,
		ticket.CustomerID,
		ticket.EventID,
		ticket.Seat,
		ticket.Section,
		ticket.Cost,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if cerr := constraintError(err, "tickets"); cerr != nil {
			return 0, cerr
		}
		return 0, fmt.Errorf("create ticket: %w", err)
	}
	return id, nil
}

func (r *TicketRepository) FindTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets t WHERE t.id = $1`

	t, err := scanTicket(executorFor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	return &t, nil
}

func (r *TicketRepository) GetTicketForUpdate(ctx context.Context, id int64) (domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets t WHERE t.id = $1 FOR UPDATE`

	t, err := scanTicket(executorFor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Ticket{}, domain.ErrTicketNotFound
		}
		return domain.Ticket{}, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

func (r *TicketRepository) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets t ORDER BY t.id ASC`

	rows, err := executorFor(ctx, r.pool).Query(ctx, query)
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
SET customer_id = $2, event_id = $3, seat = $4, section = $5, cost = $6, updated_at = $7
WHERE id = $1`

	tag, err := executorFor(ctx, r.pool).Exec(ctx, stmt,
		ticket.ID,
		ticket.CustomerID,
		ticket.EventID,
		ticket.Seat,
		ticket.Section,
		ticket.Cost,
		ticket.UpdatedAt,
	)
	if err != nil {
		if cerr := constraintError(err, "tickets"); cerr != nil {
			return cerr
		}
		return fmt.Errorf("update ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) DeleteTicket(ctx context.Context, id int64) error {
	tag, err := executorFor(ctx, r.pool).Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

// FindCustomerByTicket follows tickets.customer_id; nil when the ticket is
// missing or has no customer.
func (r *TicketRepository) FindCustomerByTicket(ctx context.Context, ticketID int64) (*domain.Customer, error) {
	const query = `
SELECT ` + customerColumns + `
FROM tickets t
JOIN customers c ON c.id = t.customer_id
WHERE t.id = $1`

	c, err := scanCustomer(executorFor(ctx, r.pool).QueryRow(ctx, query, ticketID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find ticket customer: %w", err)
	}
	return &c, nil
}

// FindEventByTicket follows tickets.event_id; nil when the ticket is missing
// or has no event.
func (r *TicketRepository) FindEventByTicket(ctx context.Context, ticketID int64) (*domain.Event, error) {
	const query = `
SELECT ` + eventColumns + `
FROM tickets t
JOIN events e ON e.id = t.event_id
WHERE t.id = $1`

	e, err := scanEvent(executorFor(ctx, r.pool).QueryRow(ctx, query, ticketID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find ticket event: %w", err)
	}
	return &e, nil
}
