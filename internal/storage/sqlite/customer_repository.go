package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AlexMasonAM/TicketBlaster/internal/domain"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

func (r *CustomerRepository) CreateCustomer(ctx context.Context, customer domain.Customer) (int64, error) {
	const stmt = `INSERT INTO customers (name, email, created_at, updated_at) VALUES (?, ?, ?, ?)`

	res, err := executorFor(ctx, r.db).ExecContext(ctx, stmt, customer.Name, customer.Email, customer.CreatedAt, customer.UpdatedAt)
	if err != nil {
		if cerr := constraintError(err, "customers"); cerr != nil {
			return 0, cerr
		}
		return 0, fmt.Errorf("create customer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create customer: %w", err)
	}
	return id, nil
}

func (r *CustomerRepository) FindCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	c, err := r.getCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &c, nil
}

// GetCustomerForUpdate has no row lock to take; the surrounding transaction
// already holds SQLite's single writer slot once it writes.
func (r *CustomerRepository) GetCustomerForUpdate(ctx context.Context, id int64) (domain.Customer, error) {
	c, err := r.getCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) getCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers c WHERE c.id = ?`
	return scanCustomer(executorFor(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *CustomerRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers c ORDER BY c.id ASC`

	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query)
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
	const stmt = `UPDATE customers SET name = ?, email = ?, updated_at = ? WHERE id = ?`

	res, err := executorFor(ctx, r.db).ExecContext(ctx, stmt, customer.Name, customer.Email, customer.UpdatedAt, customer.ID)
	if err != nil {
		if cerr := constraintError(err, "customers"); cerr != nil {
			return cerr
		}
		return fmt.Errorf("update customer: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if !ok {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) DeleteCustomer(ctx context.Context, id int64) error {
	res, err := executorFor(ctx, r.db).ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		if cerr := constraintError(err, "customers"); cerr != nil {
			return cerr
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	ok, err := rowsAffected(res)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if !ok {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) ListTicketsByCustomer(ctx context.Context, customerID int64) ([]domain.Ticket, error) {
	const query = `
SELECT ` + ticketColumns + `
FROM tickets t
WHERE t.customer_id = ?
ORDER BY t.id ASC`

	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list customer tickets: %w", err)
	}
	tickets, err := collectTickets(rows)
	if err != nil {
		return nil, fmt.Errorf("scan customer tickets: %w", err)
	}
	return tickets, nil
}

func (r *CustomerRepository) ListEventsByCustomer(ctx context.Context, customerID int64) ([]domain.Event, error) {
	const query = `
SELECT ` + eventColumns + `
FROM tickets t
JOIN events e ON e.id = t.event_id
WHERE t.customer_id = ?
ORDER BY t.id ASC`

	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list customer events: %w", err)
	}
	events, err := collectEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("scan customer events: %w", err)
	}
	return events, nil
}
