package app

import (
	"context"

	"github.com/AlexMasonAM/TicketBlaster/internal/clock"
	"github.com/AlexMasonAM/TicketBlaster/internal/domain"
)

type TicketRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateTicket(ctx context.Context, ticket domain.Ticket) (int64, error)
	FindTicket(ctx context.Context, id int64) (*domain.Ticket, error)
	GetTicketForUpdate(ctx context.Context, id int64) (domain.Ticket, error)
	ListTickets(ctx context.Context) ([]domain.Ticket, error)
	UpdateTicket(ctx context.Context, ticket domain.Ticket) error
	DeleteTicket(ctx context.Context, id int64) error
	FindCustomerByTicket(ctx context.Context, ticketID int64) (*domain.Customer, error)
	FindEventByTicket(ctx context.Context, ticketID int64) (*domain.Event, error)
}

type TicketService struct {
	repo  TicketRepository
	clock clock.Clock
}

func NewTicketService(repo TicketRepository, clk clock.Clock) *TicketService {
	return &TicketService{
		repo:  repo,
		clock: clk,
	}
}

type CreateTicketInput struct {
	CustomerID *int64
	EventID    *int64
	Seat       *string
	Section    *string
	Cost       *float64
}

// Create links a customer to an event. References to missing rows are
// rejected by the database with a foreign key ConstraintError.
func (s *TicketService) Create(ctx context.Context, in CreateTicketInput) (domain.Ticket, error) {
	now := s.clock.Now()
	ticket := domain.Ticket{
		CustomerID: in.CustomerID,
		EventID:    in.EventID,
		Seat:       in.Seat,
		Section:    in.Section,
		Cost:       in.Cost,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	id, err := s.repo.CreateTicket(ctx, ticket)
	if err != nil {
		return domain.Ticket{}, err
	}
	ticket.ID = id
	return ticket, nil
}

func (s *TicketService) Find(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.repo.FindTicket(ctx, id)
}

func (s *TicketService) List(ctx context.Context) ([]domain.Ticket, error) {
	return s.repo.ListTickets(ctx)
}

// UpdateTicketInput is a partial update: nil fields keep their value. A column
// cannot be set back to NULL through it.
type UpdateTicketInput struct {
	ID         int64
	CustomerID *int64
	EventID    *int64
	Seat       *string
	Section    *string
	Cost       *float64
}

func (s *TicketService) Update(ctx context.Context, in UpdateTicketInput) (domain.Ticket, error) {
	var updated domain.Ticket
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		ticket, err := s.repo.GetTicketForUpdate(txCtx, in.ID)
		if err != nil {
			return err
		}
		if in.CustomerID != nil {
			ticket.CustomerID = in.CustomerID
		}
		if in.EventID != nil {
			ticket.EventID = in.EventID
		}
		if in.Seat != nil {
			ticket.Seat = in.Seat
		}
		if in.Section != nil {
			ticket.Section = in.Section
		}
		if in.Cost != nil {
			ticket.Cost = in.Cost
		}
		ticket.UpdatedAt = touch(ticket.UpdatedAt, s.clock.Now())

		if err := s.repo.UpdateTicket(txCtx, ticket); err != nil {
			return err
		}
		updated = ticket
		return nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	return updated, nil
}

func (s *TicketService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteTicket(ctx, id)
}

// Customer returns the ticket's customer, or nil when the ticket is missing
// or unassigned.
func (s *TicketService) Customer(ctx context.Context, ticketID int64) (*domain.Customer, error) {
	return s.repo.FindCustomerByTicket(ctx, ticketID)
}

// Event returns the ticket's event, or nil when the ticket is missing or
// unassigned.
func (s *TicketService) Event(ctx context.Context, ticketID int64) (*domain.Event, error) {
	return s.repo.FindEventByTicket(ctx, ticketID)
}
