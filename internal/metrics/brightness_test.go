package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/lumend/lumend/internal/events"
)

func TestBridgeRecordsChanges(t *testing.T) {
	bus := events.New()
	bridge := NewBridge(bus)
	defer bridge.Close()

	bus.Publish(events.BackendSelectedEvent{Backend: "sysfs", MaxRaw: 96000})
	bus.Publish(events.BrightnessChangedEvent{
		Percent: 75,
		Raw:     72000,
		Backend: "sysfs",
		Origin:  events.OriginWrite,
	})
	bus.Publish(events.WriteFailedEvent{Backend: "sysfs", Raw: 72000})

	// kelindar/event delivers asynchronously.
	deadline := time.After(2 * time.Second)
	for testutil.ToFloat64(brightnessPercent.WithLabelValues("sysfs")) != 75 {
		select {
		case <-deadline:
			t.Fatal("brightness gauge never updated")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if got := testutil.ToFloat64(brightnessRaw.WithLabelValues("sysfs")); got != 72000 {
		t.Errorf("raw gauge = %v, want 72000", got)
	}
	if got := testutil.ToFloat64(backendInfo.WithLabelValues("sysfs")); got != 1 {
		t.Errorf("backend info = %v, want 1", got)
	}
	if got := testutil.ToFloat64(changesTotal.WithLabelValues("sysfs", events.OriginWrite)); got < 1 {
		t.Errorf("changes counter = %v, want >= 1", got)
	}

	deadline = time.After(2 * time.Second)
	for testutil.ToFloat64(writeFailuresTotal.WithLabelValues("sysfs")) < 1 {
		select {
		case <-deadline:
			t.Fatal("write failure counter never incremented")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
