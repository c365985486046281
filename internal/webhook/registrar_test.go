package webhook

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/transient"
)

func TestRegistrar_Register(t *testing.T) {
	f := setupRegistrar(t)
	ctx := context.Background()
	require.NoError(t, f.events.Save(ctx, &entity.WebhookEvent{ID: "WH-OLD-EVENT", EventType: EventCaptureCompleted}))

	f.pp.On("ListWebhooks", mock.Anything).
		Return([]entity.Webhook{{ID: "WH-1"}, {ID: "WH-2"}}, nil).Once()
	f.pp.On("DeleteWebhook", mock.Anything, "WH-1").Return(errors.New("not found")).Once()
	f.pp.On("DeleteWebhook", mock.Anything, "WH-2").Return(nil).Once()
	f.pp.On("CreateWebhook", mock.Anything, "https://shop.test/paypal/webhook",
		[]string{EventCaptureCompleted, EventCheckoutOrderApproved}).
		Return(&entity.Webhook{ID: "WH-3", URL: "https://shop.test/paypal/webhook",
			EventTypes: []string{EventCaptureCompleted, EventCheckoutOrderApproved}}, nil).Once()
	f.pp.On("SimulateEvent", mock.Anything, "WH-3", SimulationEventType).
		Return(&entity.WebhookEvent{ID: "WH-SIM-1"}, nil).Once()

	assert.True(t, f.registrar.Register(ctx))

	rec, err := f.registrar.Registered(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "WH-3", rec.ID)

	last, err := f.events.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	sim, err := f.simulation.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, SimulationWaiting, sim.State)
	assert.Equal(t, "WH-SIM-1", sim.EventID)
}

func TestRegistrar_RegisterWhileLocked(t *testing.T) {
	f := setupRegistrar(t)
	ctx := context.Background()

	release, ok, err := transient.TryLock(ctx, f.store, OperationLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	defer release()

	assert.False(t, f.registrar.Register(ctx))
	assert.False(t, f.registrar.Unregister(ctx))

	rec, err := f.registrar.Registered(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec)
	sim, err := f.simulation.Status(ctx)
	require.NoError(t, err)
	assert.Nil(t, sim)
	f.pp.AssertNotCalled(t, "ListWebhooks", mock.Anything)
	f.pp.AssertNotCalled(t, "CreateWebhook", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegistrar_RegisterFails(t *testing.T) {
	f := setupRegistrar(t)
	ctx := context.Background()

	f.pp.On("ListWebhooks", mock.Anything).Return(nil, nil).Once()
	f.pp.On("CreateWebhook", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("paypal 400 INVALID_REQUEST")).Once()

	assert.False(t, f.registrar.Register(ctx))
	rec, err := f.registrar.Registered(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec)

	// The lock is free again.
	f.pp.On("ListWebhooks", mock.Anything).Return(nil, nil).Once()
	assert.True(t, f.registrar.Unregister(ctx))
}

func TestRegistrar_SimulationFailureStillRegisters(t *testing.T) {
	f := setupRegistrar(t)
	ctx := context.Background()

	f.pp.On("ListWebhooks", mock.Anything).Return(nil, nil).Once()
	f.pp.On("CreateWebhook", mock.Anything, mock.Anything, mock.Anything).
		Return(&entity.Webhook{ID: "WH-3"}, nil).Once()
	f.pp.On("SimulateEvent", mock.Anything, "WH-3", SimulationEventType).
		Return(nil, errors.New("simulation unavailable")).Once()

	assert.True(t, f.registrar.Register(ctx))
	sim, err := f.simulation.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, SimulationFailed, sim.State)
	assert.Equal(t, "simulation unavailable", sim.Error)
}

func TestRegistrar_UnregisterIsBestEffort(t *testing.T) {
	f := setupRegistrar(t)
	ctx := context.Background()
	require.NoError(t, setJSON(ctx, f.options, optionWebhook, Record{ID: "WH-1"}))
	require.NoError(t, f.events.Save(ctx, &entity.WebhookEvent{ID: "WH-EVT-1", EventType: EventCaptureCompleted}))

	f.pp.On("ListWebhooks", mock.Anything).Return(nil, errors.New("timeout")).Once()

	assert.True(t, f.registrar.Unregister(ctx))
	rec, err := f.registrar.Registered(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec)

	last, err := f.events.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestRegistrar_RegisterRejectsEmptyID(t *testing.T) {
	f := setupRegistrar(t)
	ctx := context.Background()

	f.pp.On("ListWebhooks", mock.Anything).Return(nil, nil).Once()
	f.pp.On("CreateWebhook", mock.Anything, mock.Anything, mock.Anything).
		Return(&entity.Webhook{URL: "https://shop.test/paypal/webhook"}, nil).Once()

	assert.False(t, f.registrar.Register(ctx))

	rec, err := f.registrar.Registered(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec)
	sim, err := f.simulation.Status(ctx)
	require.NoError(t, err)
	assert.Nil(t, sim)
	f.pp.AssertNotCalled(t, "SimulateEvent", mock.Anything, mock.Anything, mock.Anything)
}
