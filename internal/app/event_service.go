package app

import (
	"context"
	"time"

	"github.com/AlexMasonAM/TicketBlaster/internal/clock"
	"github.com/AlexMasonAM/TicketBlaster/internal/domain"
)

type EventRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateEvent(ctx context.Context, event domain.Event) (int64, error)
	FindEvent(ctx context.Context, id int64) (*domain.Event, error)
	GetEventForUpdate(ctx context.Context, id int64) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) error
	DeleteEvent(ctx context.Context, id int64) error
	ListTicketsByEvent(ctx context.Context, eventID int64) ([]domain.Ticket, error)
	ListCustomersByEvent(ctx context.Context, eventID int64) ([]domain.Customer, error)
}

type EventService struct {
	repo  EventRepository
	clock clock.Clock
}

func NewEventService(repo EventRepository, clk clock.Clock) *EventService {
	return &EventService{
		repo:  repo,
		clock: clk,
	}
}

type CreateEventInput struct {
	Name *string
	// StartTime defaults to the creation time.
	StartTime *time.Time
	Archived  bool
}

func (s *EventService) Create(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	now := s.clock.Now()
	startTime := now
	if in.StartTime != nil {
		startTime = in.StartTime.UTC()
	}

	event := domain.Event{
		Name:      in.Name,
		StartTime: startTime,
		Archived:  in.Archived,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return domain.Event{}, err
	}
	event.ID = id
	return event, nil
}

// Find returns nil without error when no event has the id.
func (s *EventService) Find(ctx context.Context, id int64) (*domain.Event, error) {
	return s.repo.FindEvent(ctx, id)
}

func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx)
}

// UpdateEventInput is a partial update: nil fields keep their value. A column
// cannot be set back to NULL through it.
type UpdateEventInput struct {
	ID        int64
	Name      *string
	StartTime *time.Time
	Archived  *bool
}

func (s *EventService) Update(ctx context.Context, in UpdateEventInput) (domain.Event, error) {
	var updated domain.Event
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEventForUpdate(txCtx, in.ID)
		if err != nil {
			return err
		}
		if in.Name != nil {
			event.Name = in.Name
		}
		if in.StartTime != nil {
			event.StartTime = in.StartTime.UTC()
		}
		if in.Archived != nil {
			event.Archived = *in.Archived
		}
		event.UpdatedAt = touch(event.UpdatedAt, s.clock.Now())

		if err := s.repo.UpdateEvent(txCtx, event); err != nil {
			return err
		}
		updated = event
		return nil
	})
	if err != nil {
		return domain.Event{}, err
	}
	return updated, nil
}

// Delete is rejected with a foreign key ConstraintError while tickets still
// reference the event.
func (s *EventService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteEvent(ctx, id)
}

func (s *EventService) Tickets(ctx context.Context, eventID int64) ([]domain.Ticket, error) {
	return s.repo.ListTicketsByEvent(ctx, eventID)
}

// Customers lists ticket holders, one entry per ticket.
func (s *EventService) Customers(ctx context.Context, eventID int64) ([]domain.Customer, error) {
	return s.repo.ListCustomersByEvent(ctx, eventID)
}
