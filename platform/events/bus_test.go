package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"crm_backend/platform/logger"
)

type pingEvent struct {
	BaseEvent
}

func (pingEvent) EventName() string { return "test.ping" }

func TestPublishDeliversToNamedAndWildcardHandlers(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())

	var named, all atomic.Int32
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		named.Add(1)
		return nil
	}))
	bus.SubscribeAll(HandlerFunc(func(context.Context, Event) error {
		all.Add(1)
		return nil
	}))

	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()

	if named.Load() != 1 || all.Load() != 1 {
		t.Fatalf("expected both handlers once, got named=%d all=%d", named.Load(), all.Load())
	}
}

func TestPublishSwallowsHandlerFailures(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())

	var delivered atomic.Int32
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		return errors.New("notification store down")
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		panic("boom")
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		delivered.Add(1)
		return nil
	}))

	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()

	if delivered.Load() != 1 {
		t.Fatalf("expected healthy handler to run, got %d", delivered.Load())
	}
}

func TestPublishSyncJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		return errors.New("first")
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		return errors.New("second")
	}))

	err := bus.PublishSync(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	if err == nil {
		t.Fatal("expected joined error")
	}
	if got := err.Error(); got != "first\nsecond" {
		t.Fatalf("unexpected error text %q", got)
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewInMemoryBus(nil)
	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()
}
