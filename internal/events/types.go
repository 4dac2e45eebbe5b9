package events

// Event type constants for kelindar/event.
const (
	TypeBrightnessChanged uint32 = iota + 1
	TypeBackendSelected
	TypeWriteFailed
	TypeLogEntry
)

// Change origins carried by BrightnessChangedEvent.
const (
	OriginWrite    = "write"    // applied by this process
	OriginExternal = "external" // detected by the file watcher (e.g. hotkeys)
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// BrightnessChangedEvent is published for every accepted brightness change,
// whether self-applied or externally detected. Insignificant changes never
// publish.
type BrightnessChangedEvent struct {
	Percent   int    `json:"percent" example:"75" doc:"Brightness percentage (0-100)"`
	Raw       int    `json:"raw" example:"72000" doc:"Backend-native raw value"`
	Backend   string `json:"backend" example:"sysfs" doc:"Active backend: sysfs, ddc, disabled"`
	Origin    string `json:"origin" example:"write" doc:"Change origin: write or external"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for BrightnessChangedEvent.
func (e BrightnessChangedEvent) Type() uint32 { return TypeBrightnessChanged }

// BackendSelectedEvent is published once at startup after detection.
type BackendSelectedEvent struct {
	Backend   string `json:"backend" example:"ddc" doc:"Selected backend: sysfs, ddc, disabled"`
	Device    string `json:"device,omitempty" example:"intel_backlight" doc:"Backlight device name (sysfs only)"`
	Bus       int    `json:"bus,omitempty" example:"4" doc:"I2C bus number (ddc only)"`
	MaxRaw    int    `json:"max_raw" example:"96000" doc:"Raw brightness ceiling"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for BackendSelectedEvent.
func (e BackendSelectedEvent) Type() uint32 { return TypeBackendSelected }

// WriteFailedEvent is published when an asynchronous brightness write exits
// non-zero. The optimistic cache update is not rolled back.
type WriteFailedEvent struct {
	Backend   string `json:"backend" example:"ddc" doc:"Backend that failed"`
	Raw       int    `json:"raw" example:"50" doc:"Raw value that failed to apply"`
	Error     string `json:"error" example:"exit status 1" doc:"Error description"`
	Output    string `json:"output,omitempty" doc:"Captured tool output"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for WriteFailedEvent.
func (e WriteFailedEvent) Type() uint32 { return TypeWriteFailed }

// LogEntryEvent carries a structured log line to SSE subscribers.
type LogEntryEvent struct {
	Timestamp  string         `json:"timestamp" doc:"Log timestamp (RFC3339Nano)"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"brightness" doc:"Originating module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
