package backlight

import "log/slog"

// Detector probes the host for a usable brightness control mechanism.
// Preference order: sysfs backlight (internal panels), then DDC/CI
// (external monitors), then disabled.
type Detector struct {
	runner    Runner
	sysfsRoot string
	logger    *slog.Logger
}

// NewDetector creates a detector using the real sysfs root and PATH.
func NewDetector(runner Runner, logger *slog.Logger) *Detector {
	return &Detector{runner: runner, sysfsRoot: defaultSysfsRoot, logger: logger}
}

// Detect selects a backend. When forced is non-empty the named backend is
// used without any capability probe; device identity is still resolved on
// a best-effort basis so reads and writes have a target.
func (d *Detector) Detect(forced string) Backend {
	if forced != "" {
		kind, err := ParseKind(forced)
		if err != nil {
			d.logger.Warn("Ignoring invalid forced backend", "backend", forced, "error", err)
		} else {
			d.logger.Info("Using forced backend", "backend", kind.String())
			return d.resolve(kind)
		}
	}

	if _, err := d.runner.LookPath("brightnessctl"); err == nil {
		device, err := firstBacklightDevice(d.sysfsRoot)
		if err == nil {
			d.logger.Info("Using sysfs backlight backend", "device", device)
			return Backend{Kind: KindSysfs, Device: device}
		}
		d.logger.Debug("brightnessctl available but no backlight devices", "root", d.sysfsRoot, "error", err)
	} else {
		d.logger.Debug("brightnessctl not on PATH")
	}

	if _, err := d.runner.LookPath("ddcutil"); err == nil {
		bus, err := detectDDCBus(d.runner)
		if err == nil {
			d.logger.Info("Using DDC/CI backend", "bus", bus)
			return Backend{Kind: KindDDC, Bus: bus}
		}
		d.logger.Debug("ddcutil available but no DDC/CI capable monitors", "error", err)
	} else {
		d.logger.Debug("ddcutil not on PATH")
	}

	d.logger.Warn("No brightness backend available, running disabled")
	return Backend{Kind: KindDisabled}
}

// resolve fills in device identity for a forced backend without gating on
// tool availability.
func (d *Detector) resolve(kind Kind) Backend {
	switch kind {
	case KindSysfs:
		device, err := firstBacklightDevice(d.sysfsRoot)
		if err != nil {
			d.logger.Warn("Forced sysfs backend but no device found", "error", err)
		}
		return Backend{Kind: KindSysfs, Device: device}
	case KindDDC:
		bus, err := detectDDCBus(d.runner)
		if err != nil {
			d.logger.Warn("Forced DDC backend but bus detection failed", "error", err)
		}
		return Backend{Kind: KindDDC, Bus: bus}
	default:
		return Backend{Kind: KindDisabled}
	}
}
