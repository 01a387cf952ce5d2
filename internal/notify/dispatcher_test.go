package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/fieldcrew/maintenance-api/internal/events"
	"github.com/fieldcrew/maintenance-api/internal/mocks"
	"github.com/fieldcrew/maintenance-api/internal/notify"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performedTask(t *testing.T) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(uuid.New(), "Fix pump", "leak in bay 3")
	require.NoError(t, err)
	at := time.Date(2026, 3, 1, 8, 15, 0, 0, time.UTC)
	task.PerformedAt = &at
	return task
}

func mustUser(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	u, err := domain.NewUser(email, "Someone", role, "hash")
	require.NoError(t, err)
	return u
}

func TestDispatcher_Notify(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserStore(
		mustUser(t, "manager@example.com", domain.RoleManager),
		mustUser(t, "boss@example.com", domain.RoleManager),
		mustUser(t, "technician@example.com", domain.RoleTechnician),
	)
	emitter := &mocks.MockEventEmitter{}
	d, err := notify.NewDispatcher(users, emitter, nil)
	require.NoError(t, err)

	task := performedTask(t)
	require.NoError(t, d.Notify(ctx, task))

	emitted := emitter.Events()
	require.Len(t, emitted, 1)
	assert.Equal(t, events.TypeTaskPerformed, emitted[0].Type)

	var payload notify.PerformedPayload
	require.NoError(t, emitted[0].UnmarshalPayload(&payload))
	assert.Equal(t, task.ID, payload.Task.ID)
	assert.ElementsMatch(t, []string{"manager@example.com", "boss@example.com"}, payload.Managers)
}

func TestDispatcher_NoManagers(t *testing.T) {
	emitter := &mocks.MockEventEmitter{}
	d, err := notify.NewDispatcher(mocks.NewMockUserStore(), emitter, nil)
	require.NoError(t, err)

	require.NoError(t, d.Notify(context.Background(), performedTask(t)))

	var payload notify.PerformedPayload
	require.NoError(t, emitter.Events()[0].UnmarshalPayload(&payload))
	assert.NotNil(t, payload.Managers)
	assert.Empty(t, payload.Managers)
}

func TestDispatcher_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("manager lookup", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		lookupErr := errors.New("db down")
		users.ListByRoleFn = func(ctx context.Context, role domain.Role) ([]*domain.User, error) {
			return nil, lookupErr
		}
		emitter := &mocks.MockEventEmitter{}
		d, err := notify.NewDispatcher(users, emitter, nil)
		require.NoError(t, err)

		assert.ErrorIs(t, d.Notify(ctx, performedTask(t)), lookupErr)
		assert.Empty(t, emitter.Events())
	})

	t.Run("broker", func(t *testing.T) {
		brokerErr := errors.New("connection refused")
		emitter := &mocks.MockEventEmitter{EmitEventFn: func(ctx context.Context, e *events.Event) error {
			return brokerErr
		}}
		d, err := notify.NewDispatcher(mocks.NewMockUserStore(), emitter, nil)
		require.NoError(t, err)

		assert.ErrorIs(t, d.Notify(ctx, performedTask(t)), brokerErr)
	})
}

func TestNewDispatcher_RequiresDependencies(t *testing.T) {
	_, err := notify.NewDispatcher(nil, &mocks.MockEventEmitter{}, nil)
	assert.Error(t, err)
	_, err = notify.NewDispatcher(mocks.NewMockUserStore(), nil, nil)
	assert.Error(t, err)
}
