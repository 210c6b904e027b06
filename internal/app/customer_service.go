package app

import (
	"context"

	"github.com/AlexMasonAM/TicketBlaster/internal/clock"
	"github.com/AlexMasonAM/TicketBlaster/internal/domain"
)

type CustomerRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateCustomer(ctx context.Context, customer domain.Customer) (int64, error)
	FindCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	GetCustomerForUpdate(ctx context.Context, id int64) (domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer domain.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
	ListTicketsByCustomer(ctx context.Context, customerID int64) ([]domain.Ticket, error)
	ListEventsByCustomer(ctx context.Context, customerID int64) ([]domain.Event, error)
}

type CustomerService struct {
	repo  CustomerRepository
	clock clock.Clock
}

func NewCustomerService(repo CustomerRepository, clk clock.Clock) *CustomerService {
	return &CustomerService{
		repo:  repo,
		clock: clk,
	}
}

type CreateCustomerInput struct {
	Name  *string
	Email *string
}

func (s *CustomerService) Create(ctx context.Context, in CreateCustomerInput) (domain.Customer, error) {
	now := s.clock.Now()
	customer := domain.Customer{
		Name:      in.Name,
		Email:     in.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.repo.CreateCustomer(ctx, customer)
	if err != nil {
		return domain.Customer{}, err
	}
	customer.ID = id
	return customer, nil
}

// Find returns nil without error when no customer has the id.
func (s *CustomerService) Find(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.repo.FindCustomer(ctx, id)
}

func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

// UpdateCustomerInput is a partial update: nil fields keep their value. A column
// cannot be set back to NULL through it.
type UpdateCustomerInput struct {
	ID    int64
	Name  *string
	Email *string
}

func (s *CustomerService) Update(ctx context.Context, in UpdateCustomerInput) (domain.Customer, error) {
	var updated domain.Customer
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		customer, err := s.repo.GetCustomerForUpdate(txCtx, in.ID)
		if err != nil {
			return err
		}
		if in.Name != nil {
			customer.Name = in.Name
		}
		if in.Email != nil {
			customer.Email = in.Email
		}
		customer.UpdatedAt = touch(customer.UpdatedAt, s.clock.Now())

		if err := s.repo.UpdateCustomer(txCtx, customer); err != nil {
			return err
		}
		updated = customer
		return nil
	})
	if err != nil {
		return domain.Customer{}, err
	}
	return updated, nil
}

// Delete is rejected with a foreign key ConstraintError while the customer
// still holds tickets.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteCustomer(ctx, id)
}

// Tickets lists the customer's tickets in insertion order. An unknown
// customer has no tickets.
func (s *CustomerService) Tickets(ctx context.Context, customerID int64) ([]domain.Ticket, error) {
	return s.repo.ListTicketsByCustomer(ctx, customerID)
}

// Events lists the events reached through the customer's tickets, one entry
// per ticket, so an event with two of the customer's tickets appears twice.
func (s *CustomerService) Events(ctx context.Context, customerID int64) ([]domain.Event, error) {
	return s.repo.ListEventsByCustomer(ctx, customerID)
}
