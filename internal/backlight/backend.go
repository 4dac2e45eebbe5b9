package backlight

import "fmt"

// Kind identifies the mechanism used to control brightness.
type Kind int

const (
	// KindDisabled means no usable control mechanism was found.
	// Reads return Sentinel and writes are no-ops.
	KindDisabled Kind = iota
	// KindSysfs controls an internal panel through the kernel backlight
	// class, writing via brightnessctl. Raw values are device units.
	KindSysfs
	// KindDDC controls an external monitor over DDC/CI through the
	// ddcutil CLI. Raw values are already percentages.
	KindDDC
)

// String returns the config/CLI name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSysfs:
		return "sysfs"
	case KindDDC:
		return "ddc"
	default:
		return "disabled"
	}
}

// ParseKind converts a config string to a Kind. An empty string is not a
// valid kind; callers use it to mean "auto-detect".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "sysfs", "brightnessctl":
		return KindSysfs, nil
	case "ddc", "ddcutil":
		return KindDDC, nil
	case "disabled", "none":
		return KindDisabled, nil
	default:
		return KindDisabled, fmt.Errorf("unknown backend %q", s)
	}
}

// Backend is the control mechanism selected at startup. It is chosen once
// and never re-detected for the lifetime of the process.
type Backend struct {
	Kind   Kind
	Device string // backlight device name, sysfs only
	Bus    int    // I2C bus number, DDC only
}
