package api

import "github.com/lumend/lumend/internal/logging"

// BrightnessData is the current brightness state.
type BrightnessData struct {
	Percent int    `json:"percent" example:"75" doc:"Brightness percentage, -1 when unknown"`
	Raw     int    `json:"raw" example:"72000" doc:"Backend-native raw value, -1 when unknown"`
	MaxRaw  int    `json:"max_raw" example:"96000" doc:"Raw brightness ceiling"`
	Backend string `json:"backend" example:"sysfs" doc:"Active backend: sysfs, ddc, disabled"`
}

// BrightnessResponse wraps BrightnessData for huma.
type BrightnessResponse struct {
	Body BrightnessData
}

// SetBrightnessBody is the PUT /api/brightness request body. Exactly one
// of the two fields must be set.
type SetBrightnessBody struct {
	Raw     *int `json:"raw,omitempty" minimum:"0" doc:"Target raw value"`
	Percent *int `json:"percent,omitempty" minimum:"0" maximum:"100" doc:"Target percentage"`
}

// BackendData describes the backend selected at startup.
type BackendData struct {
	Backend string `json:"backend" example:"ddc" doc:"Selected backend: sysfs, ddc, disabled"`
	Device  string `json:"device,omitempty" example:"intel_backlight" doc:"Backlight device name (sysfs only)"`
	Bus     int    `json:"bus,omitempty" example:"4" doc:"I2C bus number (ddc only)"`
	MaxRaw  int    `json:"max_raw" example:"96000" doc:"Raw brightness ceiling"`
}

// BackendResponse wraps BackendData for huma.
type BackendResponse struct {
	Body BackendData
}

// HealthData is the health check payload.
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Health status"`
	Message string `json:"message" example:"API is healthy" doc:"Status detail"`
}

// HealthResponse wraps HealthData for huma.
type HealthResponse struct {
	Body HealthData
}

// VersionData is the build metadata payload.
type VersionData struct {
	Version   string `json:"version" example:"1.2.0" doc:"Application version"`
	GitCommit string `json:"git_commit" doc:"Git commit hash"`
	BuildDate string `json:"build_date" doc:"Build timestamp"`
	GoVersion string `json:"go_version" doc:"Go toolchain version"`
	Platform  string `json:"platform" example:"linux/amd64" doc:"OS and architecture"`
}

// VersionResponse wraps VersionData for huma.
type VersionResponse struct {
	Body VersionData
}

// LogsData is the log history payload.
type LogsData struct {
	Entries []logging.Entry `json:"entries" doc:"Retained log entries, oldest first"`
	Count   int             `json:"count" example:"120" doc:"Number of entries"`
}

// LogsResponse wraps LogsData for huma.
type LogsResponse struct {
	Body LogsData
}
