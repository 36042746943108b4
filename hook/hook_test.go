package hook

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/perfgo/faultdump/model"
)

func TestBus_PublishOrder(t *testing.T) {
	bus := NewBus()
	var got []string
	sub := bus.Subscribe(func(ev model.DiagnosticEvent) {
		got = append(got, ev.Message)
	})
	defer sub.Cancel()

	for _, msg := range []string{"a", "b", "c"} {
		bus.Publish(model.DiagnosticEvent{Message: msg})
	}
	require.Equal(t, []string{"a", "b", "c"}, got)
}

func TestSubscription_CancelIdempotent(t *testing.T) {
	bus := NewBus()
	var calls atomic.Int32
	sub := bus.Subscribe(func(model.DiagnosticEvent) { calls.Add(1) })
	require.Equal(t, 1, bus.Subscribers())

	sub.Cancel()
	sub.Cancel()
	require.Equal(t, 0, bus.Subscribers())

	bus.Publish(model.DiagnosticEvent{Message: "ignored"})
	require.Zero(t, calls.Load())
}

func TestSubscription_CancelWaitsForDelivery(t *testing.T) {
	bus := NewBus()
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	sub := bus.Subscribe(func(model.DiagnosticEvent) {
		close(started)
		<-release
		finished.Store(true)
	})

	go bus.Publish(model.DiagnosticEvent{Message: "slow"})
	<-started

	cancelled := make(chan struct{})
	go func() {
		sub.Cancel()
		close(cancelled)
	}()

	select {
	case <-cancelled:
		t.Fatal("Cancel returned while a callback was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-cancelled
	require.True(t, finished.Load())
}

func TestSubscription_NestedPublishWhileCancelPending(t *testing.T) {
	bus := NewBus()
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	sub := bus.Subscribe(func(ev model.DiagnosticEvent) {
		calls.Add(1)
		if ev.Message != "outer" {
			return
		}
		close(started)
		<-release
		bus.Publish(model.DiagnosticEvent{Message: "nested"})
	})

	published := make(chan struct{})
	go func() {
		bus.Publish(model.DiagnosticEvent{Message: "outer"})
		close(published)
	}()
	<-started

	cancelled := make(chan struct{})
	go func() {
		sub.Cancel()
		close(cancelled)
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)

	for _, done := range []chan struct{}{published, cancelled} {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("nested Publish deadlocked against a pending Cancel")
		}
	}
	require.Equal(t, 0, bus.Subscribers())

	bus.Publish(model.DiagnosticEvent{Message: "after"})
	require.LessOrEqual(t, calls.Load(), int32(2))
}

func TestHook_EnableDisableCycles(t *testing.T) {
	bus := NewBus()
	var calls atomic.Int32
	h := New(bus, func(model.DiagnosticEvent) { calls.Add(1) })

	h.Enable()
	h.Enable()
	require.Equal(t, 1, bus.Subscribers())
	require.True(t, h.Enabled())

	h.Disable()
	h.Disable()
	require.Equal(t, 0, bus.Subscribers())
	require.False(t, h.Enabled())

	h.Enable()
	require.Equal(t, 1, bus.Subscribers())

	bus.Publish(model.DiagnosticEvent{Message: "once"})
	require.EqualValues(t, 1, calls.Load())
}

func TestHook_EnableDisable_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("subscription count follows the last transition", prop.ForAll(
		func(ops []bool) bool {
			bus := NewBus()
			h := New(bus, func(model.DiagnosticEvent) {})
			want := 0
			for _, enable := range ops {
				if enable {
					h.Enable()
					want = 1
				} else {
					h.Disable()
					want = 0
				}
			}
			return bus.Subscribers() == want
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}

func TestHook_ConcurrentPublishAndDisable(t *testing.T) {
	bus := NewBus()
	var disabled atomic.Bool
	var late atomic.Int32
	h := New(bus, func(model.DiagnosticEvent) {
		if disabled.Load() {
			late.Add(1)
		}
	})
	h.Enable()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				bus.Publish(model.DiagnosticEvent{Severity: model.SeverityLog})
			}
		}()
	}

	h.Disable()
	disabled.Store(true)
	wg.Wait()

	require.Zero(t, late.Load(), "no callback may run after Disable returns")
}
