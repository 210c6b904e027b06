package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/AlexMasonAM/TicketBlaster/internal/domain"
	"github.com/AlexMasonAM/TicketBlaster/internal/testutil"
)

func TestEventRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewEventRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("CreateEvent stores start_time and archived", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		start := time.Date(2015, 3, 1, 20, 0, 0, 0, time.UTC)
		now := time.Date(2015, 1, 29, 0, 0, 0, 0, time.UTC)

		id, err := repo.CreateEvent(ctx, domain.Event{Name: strPtr("Show"), StartTime: start, Archived: true, CreatedAt: now, UpdatedAt: now})
		if err != nil {
			t.Fatalf("create event: %v", err)
		}
		got, err := repo.FindEvent(ctx, id)
		if err != nil {
			t.Fatalf("find event: %v", err)
		}
		if got == nil || !got.StartTime.Equal(start) || !got.Archived {
			t.Fatalf("unexpected event: %+v", got)
		}
	})

	t.Run("database defaults fill start_time and archived", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		id := testutil.InsertEvent(t, ctx, pool, "Show")

		got, err := repo.FindEvent(ctx, id)
		if err != nil {
			t.Fatalf("find event: %v", err)
		}
		if got.StartTime.IsZero() || got.Archived {
			t.Fatalf("expected defaulted start_time and archived=false, got %+v", got)
		}
	})

	t.Run("UpdateEvent and ErrEventNotFound", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		id := testutil.InsertEvent(t, ctx, pool, "Show")

		err := repo.WithTx(ctx, func(txCtx context.Context) error {
			e, err := repo.GetEventForUpdate(txCtx, id)
			if err != nil {
				return err
			}
			e.Archived = true
			return repo.UpdateEvent(txCtx, e)
		})
		if err != nil {
			t.Fatalf("update event: %v", err)
		}
		got, _ := repo.FindEvent(ctx, id)
		if got == nil || !got.Archived {
			t.Fatalf("expected archived event, got %+v", got)
		}

		if err := repo.UpdateEvent(ctx, domain.Event{ID: id + 1000}); err != domain.ErrEventNotFound {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
	})

	t.Run("ListCustomersByEvent and ListTicketsByEvent", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		ada := testutil.InsertCustomer(t, ctx, pool, "Ada")
		grace := testutil.InsertCustomer(t, ctx, pool, "Grace")
		show := testutil.InsertEvent(t, ctx, pool, "Show")
		t1 := testutil.InsertTicket(t, ctx, pool, grace, show, "A1")
		t2 := testutil.InsertTicket(t, ctx, pool, ada, show, "A2")

		customers, err := repo.ListCustomersByEvent(ctx, show)
		if err != nil {
			t.Fatalf("list customers: %v", err)
		}
		if len(customers) != 2 || customers[0].ID != grace || customers[1].ID != ada {
			t.Fatalf("unexpected customers: %+v", customers)
		}

		tickets, err := repo.ListTicketsByEvent(ctx, show)
		if err != nil {
			t.Fatalf("list tickets: %v", err)
		}
		if len(tickets) != 2 || tickets[0].ID != t1 || tickets[1].ID != t2 {
			t.Fatalf("unexpected tickets: %+v", tickets)
		}

		if err := repo.DeleteEvent(ctx, show); err == nil {
			t.Fatalf("expected delete of referenced event to fail")
		}
	})
}
