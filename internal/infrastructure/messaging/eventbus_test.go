package messaging

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/admission-workflow/internal/domain/shared"
	"github.com/alem-hub/admission-workflow/pkg/logger"
)

type observerEnregistreur struct {
	mu      sync.Mutex
	succes  int
	erreurs int
}

func (o *observerEnregistreur) ObserveHandler(_ string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.erreurs++
		return
	}
	o.succes++
}

func soumise() shared.Event {
	return shared.NewPropositionEvent(shared.EventPropositionSoumise, "p-1", "0123456", "0123456", "CONFIRMEE")
}

func TestInMemoryEventBus_Sync(t *testing.T) {
	obs := &observerEnregistreur{}
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{Logger: logger.Discard(), Observer: obs})

	var typed, all []shared.EventType
	require.NoError(t, bus.Subscribe(shared.EventPropositionSoumise, func(e shared.Event) error {
		typed = append(typed, e.EventType())
		return nil
	}))
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		all = append(all, e.EventType())
		return errors.New("history store down")
	}))

	require.NoError(t, bus.Publish(soumise()))
	require.NoError(t, bus.Publish(shared.NewPropositionEvent(shared.EventFraisDossierPayes, "p-1", "0123456", "0123456", "CONFIRMEE")))

	assert.Equal(t, []shared.EventType{shared.EventPropositionSoumise}, typed)
	assert.Equal(t, []shared.EventType{shared.EventPropositionSoumise, shared.EventFraisDossierPayes}, all)
	assert.Equal(t, 1, obs.succes)
	assert.Equal(t, 2, obs.erreurs)
}

func TestInMemoryEventBus_PanicIsRecovered(t *testing.T) {
	obs := &observerEnregistreur{}
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{Logger: logger.Discard(), Observer: obs})

	require.NoError(t, bus.SubscribeAll(func(shared.Event) error { panic("boom") }))

	assert.NotPanics(t, func() { _ = bus.Publish(soumise()) })
	assert.Equal(t, 1, obs.erreurs)
}

func TestInMemoryEventBus_AsyncDrainsOnClose(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: true, WorkerPoolSize: 2, Logger: logger.Discard()})

	var count atomic.Int32
	require.NoError(t, bus.SubscribeAll(func(shared.Event) error {
		time.Sleep(5 * time.Millisecond)
		count.Add(1)
		return nil
	}))

	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Publish(soumise()))
	}
	require.NoError(t, bus.Close())

	assert.Equal(t, int32(10), count.Load())
	assert.ErrorIs(t, bus.Publish(soumise()), ErrEventBusClosed)
	assert.ErrorIs(t, bus.SubscribeAll(func(shared.Event) error { return nil }), ErrEventBusClosed)
}

func TestInMemoryEventBus_RejectsNil(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{Logger: logger.Discard()})

	assert.Error(t, bus.Publish(nil))
	assert.Error(t, bus.Subscribe(shared.EventPropositionSoumise, nil))
}
