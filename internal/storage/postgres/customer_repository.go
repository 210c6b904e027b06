package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexMasonAM/TicketBlaster/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

func (r *CustomerRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *CustomerRepository) CreateCustomer(ctx context.Context, customer domain.Customer) (int64, error) {
	const stmt = `
INSERT INTO customers (name, email, created_at, updated_at)
VALUES ($1, $2, $3, $4)
RETURNING id`

	var id int64
	err := executorFor(ctx, r.pool).
		QueryRow(ctx, stmt, customer.Name, customer.Email, customer.CreatedAt, customer.UpdatedAt).
		Scan(&id)
	if err != nil {
		if cerr := constraintError(err, "customers"); cerr != nil {
			return 0, cerr
		}
		return 0, fmt.Errorf("create customer: %w", err)
	}
	return id, nil
}

func (r *CustomerRepository) FindCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers c WHERE c.id = $1`

	c, err := scanCustomer(executorFor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepository) GetCustomerForUpdate(ctx context.Context, id int64) (domain.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers c WHERE c.id = $1 FOR UPDATE`

	c, err := scanCustomer(executorFor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers c ORDER BY c.id ASC`

	rows, err := executorFor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	customers, err := collectCustomers(rows)
	if err != nil {
		return nil, fmt.Errorf("scan customers: %w", err)
	}
	return customers, nil
}

func (r *CustomerRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	const stmt = `UPDATE customers SET name = $2, email = $3, updated_at = $4 WHERE id = $1`

	tag, err := executorFor(ctx, r.pool).Exec(ctx, stmt, customer.ID, customer.Name, customer.Email, customer.UpdatedAt)
	if err != nil {
		if cerr := constraintError(err, "customers"); cerr != nil {
			return cerr
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// DeleteCustomer fails with a foreign key ConstraintError while tickets
// still reference the customer.
func (r *CustomerRepository) DeleteCustomer(ctx context.Context, id int64) error {
	tag, err := executorFor(ctx, r.pool).Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		if cerr := constraintError(err, "customers"); cerr != nil {
			return cerr
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) ListTicketsByCustomer(ctx context.Context, customerID int64) ([]domain.Ticket, error) {
	const query = `
SELECT ` + ticketColumns + `
FROM tickets t
WHERE t.customer_id = $1
ORDER BY t.id ASC`

	rows, err := executorFor(ctx, r.pool).Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list customer tickets: %w", err)
	}
	tickets, err := collectTickets(rows)
	if err != nil {
		return nil, fmt.Errorf("scan customer tickets: %w", err)
	}
	return tickets, nil
}

// ListEventsByCustomer returns one event per ticket, in ticket order; an
// event the customer holds several tickets for repeats.
func (r *CustomerRepository) ListEventsByCustomer(ctx context.Context, customerID int64) ([]domain.Event, error) {
	const query = `
SELECT ` + eventColumns + `
FROM tickets t
JOIN events e ON e.id = t.event_id
WHERE t.customer_id = $1
ORDER BY t.id ASC`

	rows, err := executorFor(ctx, r.pool).Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list customer events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("scan customer events: %w", err)
	}
	return events, nil
}
