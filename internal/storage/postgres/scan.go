package postgres

import (
	"github.com/AlexMasonAM/TicketBlaster/internal/domain"
	"github.com/jackc/pgx/v5"
)

const (
	customerColumns = `c.id, c.name, c.email, c.created_at, c.updated_at`
	eventColumns    = `e.id, e.name, e.start_time, e.archived, e.created_at, e.updated_at`
	ticketColumns   = `t.id, t.customer_id, t.event_id, t.seat, t.section, t.cost, t.created_at, t.updated_at`
)

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var c domain.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.Customer{}, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var e domain.Event
	if err := row.Scan(&e.ID, &e.Name, &e.StartTime, &e.Archived, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return domain.Event{}, err
	}
	e.StartTime = e.StartTime.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return e, nil
}

func scanTicket(row pgx.Row) (domain.Ticket, error) {
	var t domain.Ticket
	if err := row.Scan(&t.ID, &t.CustomerID, &t.EventID, &t.Seat, &t.Section, &t.Cost, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return domain.Ticket{}, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

func collectCustomers(rows pgx.Rows) ([]domain.Customer, error) {
	defer rows.Close()
	out := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func collectEvents(rows pgx.Rows) ([]domain.Event, error) {
	defer rows.Close()
	out := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func collectTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	defer rows.Close()
	out := []domain.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
