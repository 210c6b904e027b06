package app

import (
	"context"

	"github.com/AlexMasonAM/TicketBlaster/internal/domain"
)

// fakeStore keeps rows in maps and implements every repository interface.
type fakeStore struct {
	nextID    int64
	customers map[int64]domain.Customer
	events    map[int64]domain.Event
	tickets   map[int64]domain.Ticket

	txCount   int
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers: make(map[int64]domain.Customer),
		events:    make(map[int64]domain.Event),
		tickets:   make(map[int64]domain.Ticket),
	}
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txCount++
	return fn(ctx)
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) CreateCustomer(ctx context.Context, customer domain.Customer) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	customer.ID = f.id()
	f.customers[customer.ID] = customer
	return customer.ID, nil
}

func (f *fakeStore) FindCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeStore) GetCustomerForUpdate(ctx context.Context, id int64) (domain.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return c, nil
}

func (f *fakeStore) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	out := []domain.Customer{}
	for id := int64(1); id <= f.nextID; id++ {
		if c, ok := f.customers[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	if _, ok := f.customers[customer.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	f.customers[customer.ID] = customer
	return nil
}

func (f *fakeStore) DeleteCustomer(ctx context.Context, id int64) error {
	if _, ok := f.customers[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	for _, t := range f.tickets {
		if t.CustomerID != nil && *t.CustomerID == id {
			return &domain.ConstraintError{Kind: domain.ErrForeignKeyViolation, Table: "tickets", Constraint: "fk_tickets_customers"}
		}
	}
	delete(f.customers, id)
	return nil
}

func (f *fakeStore) ListTicketsByCustomer(ctx context.Context, customerID int64) ([]domain.Ticket, error) {
	out := []domain.Ticket{}
	for _, t := range f.orderedTickets() {
		if t.CustomerID != nil && *t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) ListEventsByCustomer(ctx context.Context, customerID int64) ([]domain.Event, error) {
	out := []domain.Event{}
	for _, t := range f.orderedTickets() {
		if t.CustomerID == nil || *t.CustomerID != customerID || t.EventID == nil {
			continue
		}
		if e, ok := f.events[*t.EventID]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateEvent(ctx context.Context, event domain.Event) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	event.ID = f.id()
	f.events[event.ID] = event
	return event.ID, nil
}

func (f *fakeStore) FindEvent(ctx context.Context, id int64) (*domain.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (f *fakeStore) GetEventForUpdate(ctx context.Context, id int64) (domain.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeStore) ListEvents(ctx context.Context) ([]domain.Event, error) {
	out := []domain.Event{}
	for id := int64(1); id <= f.nextID; id++ {
		if e, ok := f.events[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateEvent(ctx context.Context, event domain.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return domain.ErrEventNotFound
	}
	f.events[event.ID] = event
	return nil
}

func (f *fakeStore) DeleteEvent(ctx context.Context, id int64) error {
	if _, ok := f.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	for _, t := range f.tickets {
		if t.EventID != nil && *t.EventID == id {
			return &domain.ConstraintError{Kind: domain.ErrForeignKeyViolation, Table: "tickets", Constraint: "fk_tickets_events"}
		}
	}
	delete(f.events, id)
	return nil
}

func (f *fakeStore) ListTicketsByEvent(ctx context.Context, eventID int64) ([]domain.Ticket, error) {
	out := []domain.Ticket{}
	for _, t := range f.orderedTickets() {
		if t.EventID != nil && *t.EventID == eventID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) ListCustomersByEvent(ctx context.Context, eventID int64) ([]domain.Customer, error) {
	out := []domain.Customer{}
	for _, t := range f.orderedTickets() {
		if t.EventID == nil || *t.EventID != eventID || t.CustomerID == nil {
			continue
		}
		if c, ok := f.customers[*t.CustomerID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateTicket(ctx context.Context, ticket domain.Ticket) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	if ticket.CustomerID != nil {
		if _, ok := f.customers[*ticket.CustomerID]; !ok {
			return 0, &domain.ConstraintError{Kind: domain.ErrForeignKeyViolation, Table: "tickets", Constraint: "fk_tickets_customers"}
		}
	}
	if ticket.EventID != nil {
		if _, ok := f.events[*ticket.EventID]; !ok {
			return 0, &domain.ConstraintError{Kind: domain.ErrForeignKeyViolation, Table: "tickets", Constraint: "fk_tickets_events"}
		}
	}
	ticket.ID = f.id()
	f.tickets[ticket.ID] = ticket
	return ticket.ID, nil
}

func (f *fakeStore) FindTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeStore) GetTicketForUpdate(ctx context.Context, id int64) (domain.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	return t, nil
}

func (f *fakeStore) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	return f.orderedTickets(), nil
}

func (f *fakeStore) UpdateTicket(ctx context.Context, ticket domain.Ticket) error {
	if _, ok := f.tickets[ticket.ID]; !ok {
		return domain.ErrTicketNotFound
	}
	f.tickets[ticket.ID] = ticket
	return nil
}

func (f *fakeStore) DeleteTicket(ctx context.Context, id int64) error {
	if _, ok := f.tickets[id]; !ok {
		return domain.ErrTicketNotFound
	}
	delete(f.tickets, id)
	return nil
}

func (f *fakeStore) FindCustomerByTicket(ctx context.Context, ticketID int64) (*domain.Customer, error) {
	t, ok := f.tickets[ticketID]
	if !ok || t.CustomerID == nil {
		return nil, nil
	}
	return f.FindCustomer(ctx, *t.CustomerID)
}

func (f *fakeStore) FindEventByTicket(ctx context.Context, ticketID int64) (*domain.Event, error) {
	t, ok := f.tickets[ticketID]
	if !ok || t.EventID == nil {
		return nil, nil
	}
	return f.FindEvent(ctx, *t.EventID)
}

func (f *fakeStore) orderedTickets() []domain.Ticket {
	out := []domain.Ticket{}
	for id := int64(1); id <= f.nextID; id++ {
		if t, ok := f.tickets[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

func strPtr(s string) *string       { return &s }
func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool          { return &v }
