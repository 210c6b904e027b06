package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexMasonAM/TicketBlaster/internal/app"
	"github.com/AlexMasonAM/TicketBlaster/internal/clock"
	"github.com/AlexMasonAM/TicketBlaster/internal/domain"
	"github.com/AlexMasonAM/TicketBlaster/internal/storage/sqlite"
	"github.com/AlexMasonAM/TicketBlaster/internal/testutil"
)

// The services run unchanged on top of the SQLite repositories.
func TestServices_TicketLifecycle(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	clk := clock.NewTicking(time.Date(2015, 1, 29, 23, 41, 17, 0, time.UTC), time.Second)
	customers := app.NewCustomerService(sqlite.NewCustomerRepository(db), clk)
	events := app.NewEventService(sqlite.NewEventRepository(db), clk)
	tickets := app.NewTicketService(sqlite.NewTicketRepository(db), clk)
	ctx := context.Background()

	ada, err := customers.Create(ctx, app.CreateCustomerInput{Name: strPtr("Ada")})
	require.NoError(t, err)
	show, err := events.Create(ctx, app.CreateEventInput{Name: strPtr("Show")})
	require.NoError(t, err)

	ticket, err := tickets.Create(ctx, app.CreateTicketInput{CustomerID: &ada.ID, EventID: &show.ID, Seat: strPtr("A1")})
	require.NoError(t, err)

	stored, err := events.Find(ctx, show.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.StartTime.Equal(show.CreatedAt))

	archived := true
	updated, err := events.Update(ctx, app.UpdateEventInput{ID: show.ID, Archived: &archived})
	require.NoError(t, err)
	assert.True(t, updated.Archived)
	assert.True(t, updated.UpdatedAt.After(show.UpdatedAt))

	holder, err := tickets.Customer(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, holder)
	assert.Equal(t, ada.ID, holder.ID)

	attended, err := customers.Events(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, attended, 1)
	assert.True(t, attended[0].Archived)

	assert.ErrorIs(t, customers.Delete(ctx, ada.ID), domain.ErrForeignKeyViolation)
	require.NoError(t, tickets.Delete(ctx, ticket.ID))
	require.NoError(t, customers.Delete(ctx, ada.ID))
}
