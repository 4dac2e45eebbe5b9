// Package metrics exposes Prometheus metrics for the brightness controller.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lumend/lumend/internal/events"
)

var (
	brightnessPercent = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "lumend",
		Subsystem: "brightness",
		Name:      "percent",
		Help:      "Current brightness percentage (0-100)",
	}, []string{"backend"})

	brightnessRaw = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "lumend",
		Subsystem: "brightness",
		Name:      "raw_value",
		Help:      "Current brightness in backend-native raw units",
	}, []string{"backend"})

	changesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lumend",
		Subsystem: "brightness",
		Name:      "changes_total",
		Help:      "Accepted brightness changes by origin",
	}, []string{"backend", "origin"})

	writeFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lumend",
		Subsystem: "brightness",
		Name:      "write_failures_total",
		Help:      "Asynchronous brightness writes that exited non-zero",
	}, []string{"backend"})

	backendInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "lumend",
		Subsystem: "brightness",
		Name:      "backend_info",
		Help:      "Selected backend (1 for the active one)",
	}, []string{"backend"})
)

// Bridge records controller events as Prometheus metrics. It is purely
// event-driven, so the controller has no metrics dependency.
type Bridge struct {
	unsubs []func()
}

// NewBridge subscribes to the bus and returns the bridge. Close detaches it.
func NewBridge(bus *events.Bus) *Bridge {
	b := &Bridge{}
	b.unsubs = append(b.unsubs,
		bus.Subscribe(func(e events.BackendSelectedEvent) {
			backendInfo.WithLabelValues(e.Backend).Set(1)
		}),
		bus.Subscribe(func(e events.BrightnessChangedEvent) {
			brightnessPercent.WithLabelValues(e.Backend).Set(float64(e.Percent))
			brightnessRaw.WithLabelValues(e.Backend).Set(float64(e.Raw))
			changesTotal.WithLabelValues(e.Backend, e.Origin).Inc()
		}),
		bus.Subscribe(func(e events.WriteFailedEvent) {
			writeFailuresTotal.WithLabelValues(e.Backend).Inc()
		}),
	)
	return b
}

// Close unsubscribes the bridge from the event bus.
func (b *Bridge) Close() {
	for _, unsub := range b.unsubs {
		unsub()
	}
	b.unsubs = nil
}
