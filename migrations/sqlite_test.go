package migrations_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexMasonAM/TicketBlaster/internal/schema"
	"github.com/AlexMasonAM/TicketBlaster/internal/storage/sqlite"
	"github.com/AlexMasonAM/TicketBlaster/internal/testutil"
	"github.com/AlexMasonAM/TicketBlaster/migrations"
)

func TestApplySQLite_Idempotent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	require.NoError(t, migrations.ApplySQLite(ctx, db, nil))

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, 2, count)

	statuses, err := migrations.StatusSQLite(ctx, db)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, int64(20150129231224), statuses[0].Version)
	assert.Equal(t, int64(20150129234117), statuses[1].Version)
	for _, s := range statuses {
		assert.True(t, s.Applied, "version %d", s.Version)
		assert.NotNil(t, s.AppliedAt)
	}
}

func TestApplySQLite_Schema(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	s, err := schema.NewSQLiteInspector(db).Inspect(ctx)
	require.NoError(t, err)

	for _, name := range []string{"customers", "events", "tickets", "schema_migrations"} {
		assert.NotNil(t, s.Table(name), "table %s", name)
	}

	events := s.Table("events")
	require.NotNil(t, events)
	assert.Equal(t, []string{"id"}, events.PrimaryKey)
	assert.Equal(t, 1, events.ColumnCount("start_time"))
	assert.Equal(t, 1, events.ColumnCount("archived"))

	archived := events.Column("archived")
	require.NotNil(t, archived)
	assert.False(t, archived.Nullable)
	require.NotNil(t, archived.Default)
	assert.Equal(t, "0", *archived.Default)

	startTime := events.Column("start_time")
	require.NotNil(t, startTime)
	assert.False(t, startTime.Nullable)
	assert.NotNil(t, startTime.Default)

	tickets := s.Table("tickets")
	require.NotNil(t, tickets)
	for _, col := range []string{"seat", "section", "cost", "customer_id", "event_id"} {
		c := tickets.Column(col)
		require.NotNil(t, c, "column %s", col)
		assert.True(t, c.Nullable, "column %s", col)
	}
	fk := tickets.ForeignKey("event_id")
	require.NotNil(t, fk)
	assert.Equal(t, "events", fk.TargetTable)
	assert.Equal(t, "id", fk.TargetColumn)
	assert.NotNil(t, tickets.Index("index_tickets_on_customer_id"))
	assert.NotNil(t, tickets.Index("index_tickets_on_event_id"))
}

func TestStatusSQLite_BeforeApply(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `DROP TABLE schema_migrations`)
	require.NoError(t, err)

	statuses, err := migrations.StatusSQLite(ctx, db)
	require.NoError(t, err)
	for _, s := range statuses {
		assert.False(t, s.Applied)
		assert.Nil(t, s.AppliedAt)
	}
}

func TestApplySQLite_ConcurrentMigratorsOnOneFile(t *testing.T) {
	ctx := context.Background()
	const migrators = 2

	for round := 0; round < 20; round++ {
		path := filepath.Join(t.TempDir(), fmt.Sprintf("round%d.db", round))

		var wg sync.WaitGroup
		errs := make(chan error, migrators)
		for i := 0; i < migrators; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				db, err := sqlite.Open(ctx, path)
				if err != nil {
					errs <- err
					return
				}
				defer db.Close()
				errs <- migrations.ApplySQLite(ctx, db, nil)
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err, "round %d", round)
		}

		db, err := sqlite.Open(ctx, path)
		require.NoError(t, err)
		var count int
		require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
		require.NoError(t, db.Close())
		assert.Equal(t, 2, count, "round %d", round)
	}
}
