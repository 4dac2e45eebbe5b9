package events

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	bus := New()

	received := make(chan BrightnessChangedEvent, 1)
	unsub := bus.Subscribe(func(e BrightnessChangedEvent) {
		select {
		case received <- e:
		default:
		}
	})
	defer unsub()

	bus.Publish(BrightnessChangedEvent{Percent: 60, Raw: 60, Backend: "ddc", Origin: OriginWrite})

	select {
	case e := <-received:
		if e.Percent != 60 || e.Origin != OriginWrite {
			t.Errorf("event = %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestSubscribeTypeIsolation(t *testing.T) {
	bus := New()

	wrong := make(chan struct{}, 1)
	unsub := bus.Subscribe(func(WriteFailedEvent) {
		select {
		case wrong <- struct{}{}:
		default:
		}
	})
	defer unsub()

	bus.Publish(BackendSelectedEvent{Backend: "sysfs"})

	select {
	case <-wrong:
		t.Error("WriteFailedEvent handler received a BackendSelectedEvent")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSubscribeUnknownHandlerIsNoop(t *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(int) {})
	unsub() // must not panic
}

func TestSubscribeToChannel(t *testing.T) {
	bus := New()
	ch := make(chan any, 4)
	unsub := SubscribeToChannel[LogEntryEvent](bus, ch)
	defer unsub()

	bus.Publish(LogEntryEvent{Level: "info", Module: "test", Message: "hello"})

	select {
	case got := <-ch:
		e, ok := got.(LogEntryEvent)
		if !ok || e.Message != "hello" {
			t.Errorf("got %#v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel bridge delivered nothing")
	}
}
