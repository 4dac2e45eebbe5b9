package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/lumend/lumend/internal/events"
)

// registerSSERoutes registers the native Huma SSE endpoint.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time event stream for brightness changes, backend selection, and write failures",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"brightness-changed": events.BrightnessChangedEvent{},
		"backend-selected":   events.BackendSelectedEvent{},
		"write-failed":       events.WriteFailedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 10)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.BrightnessChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.BackendSelectedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.WriteFailedEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		// Send the current state so clients render without waiting for
		// the next change.
		backend := s.controller.Backend()
		if err := send.Data(events.BackendSelectedEvent{
			Backend:   backend.Kind.String(),
			Device:    backend.Device,
			Bus:       backend.Bus,
			MaxRaw:    s.controller.MaxRaw(),
			Timestamp: time.Now().Format(time.RFC3339),
		}); err != nil {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					return
				}
			}
		}
	})
}
