package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lumend/lumend/internal/backlight"
)

// registerBrightnessRoutes sets up the brightness and backend endpoints.
func (s *Server) registerBrightnessRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-brightness",
		Method:      http.MethodGet,
		Path:        "/api/brightness",
		Summary:     "Get brightness",
		Description: "Get the current brightness level",
		Tags:        []string{"brightness"},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*BrightnessResponse, error) {
		return &BrightnessResponse{
			Body: BrightnessData{
				Percent: s.controller.GetPercent(),
				Raw:     s.controller.Get(),
				MaxRaw:  s.controller.MaxRaw(),
				Backend: s.controller.Backend().Kind.String(),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-brightness",
		Method:      http.MethodPut,
		Path:        "/api/brightness",
		Summary:     "Set brightness",
		Description: "Request a brightness change as a raw value or a percentage",
		Tags:        []string{"brightness"},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct {
		Body SetBrightnessBody
	}) (*BrightnessResponse, error) {
		if s.controller.Backend().Kind == backlight.KindDisabled {
			return nil, huma.Error409Conflict("no brightness backend available")
		}

		var raw int
		switch {
		case input.Body.Raw != nil && input.Body.Percent != nil:
			return nil, huma.Error422UnprocessableEntity("set either raw or percent, not both")
		case input.Body.Raw != nil:
			raw = *input.Body.Raw
		case input.Body.Percent != nil:
			raw = s.controller.MaxRaw() * *input.Body.Percent / 100
		default:
			return nil, huma.Error422UnprocessableEntity("either raw or percent is required")
		}

		s.controller.Set(raw)

		// The write is debounced, so report the requested target rather
		// than waiting for hardware confirmation.
		maxRaw := s.controller.MaxRaw()
		clamped := backlight.ClampRaw(raw, maxRaw)
		return &BrightnessResponse{
			Body: BrightnessData{
				Percent: backlight.ToPercent(clamped, maxRaw),
				Raw:     clamped,
				MaxRaw:  maxRaw,
				Backend: s.controller.Backend().Kind.String(),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-backend",
		Method:      http.MethodGet,
		Path:        "/api/backend",
		Summary:     "Get backend",
		Description: "Describe the brightness backend selected at startup",
		Tags:        []string{"brightness"},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*BackendResponse, error) {
		backend := s.controller.Backend()
		return &BackendResponse{
			Body: BackendData{
				Backend: backend.Kind.String(),
				Device:  backend.Device,
				Bus:     backend.Bus,
				MaxRaw:  s.controller.MaxRaw(),
			},
		}, nil
	})
}
