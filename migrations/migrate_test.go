package migrations_test

import (
	"context"
	"testing"

	"github.com/AlexMasonAM/TicketBlaster/internal/schema"
	"github.com/AlexMasonAM/TicketBlaster/internal/testutil"
	"github.com/AlexMasonAM/TicketBlaster/migrations"
)

func TestApply_RecordsMigrations(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ResetSchema(t, ctx, pool)

	before, err := migrations.Status(ctx, pool)
	if err != nil {
		t.Fatalf("status before apply: %v", err)
	}
	for _, s := range before {
		if s.Applied {
			t.Fatalf("expected %d pending before apply", s.Version)
		}
	}

	if err := migrations.Apply(ctx, pool, nil); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 migrations, got %d", count)
	}

	if err := migrations.Apply(ctx, pool, nil); err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}

	var count2 int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count2); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count2 != count {
		t.Fatalf("expected migration count unchanged, got %d vs %d", count2, count)
	}

	after, err := migrations.Status(ctx, pool)
	if err != nil {
		t.Fatalf("status after apply: %v", err)
	}
	for _, s := range after {
		if !s.Applied || s.AppliedAt == nil {
			t.Fatalf("expected %d applied, got %+v", s.Version, s)
		}
	}
}

func TestApply_PostgresSchema(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)

	s, err := schema.NewPostgresInspector(pool).Inspect(ctx, "customers", "events", "tickets")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	events := s.Table("events")
	if events == nil {
		t.Fatalf("expected events table")
	}
	for _, name := range []string{"start_time", "archived"} {
		if n := events.ColumnCount(name); n != 1 {
			t.Fatalf("expected exactly one %s column, got %d", name, n)
		}
		if c := events.Column(name); c.Nullable || c.Default == nil {
			t.Fatalf("expected %s NOT NULL with a default, got %+v", name, c)
		}
	}
	if got := *events.Column("archived").Default; got != "false" {
		t.Fatalf("expected archived default false, got %s", got)
	}

	tickets := s.Table("tickets")
	if tickets == nil {
		t.Fatalf("expected tickets table")
	}
	if fk := tickets.ForeignKey("event_id"); fk == nil || fk.TargetTable != "events" || fk.Name != "fk_tickets_events" {
		t.Fatalf("unexpected event_id reference: %+v", fk)
	}
	if fk := tickets.ForeignKey("customer_id"); fk == nil || fk.TargetTable != "customers" || fk.Name != "fk_tickets_customers" {
		t.Fatalf("unexpected customer_id reference: %+v", fk)
	}
	for _, name := range []string{"index_tickets_on_customer_id", "index_tickets_on_event_id"} {
		if tickets.Index(name) == nil {
			t.Fatalf("expected index %s", name)
		}
	}
}
