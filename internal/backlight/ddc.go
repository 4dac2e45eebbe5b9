package backlight

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// Fixed ddcutil tuning: skip the dynamic sleep calibration and shrink the
// per-call protocol waits so slider-driven writes stay responsive.
var ddcutilParams = []string{"--disable-dynamic-sleep", "--sleep-multiplier=0.05"}

// vcpBrightness is the VCP feature code for monitor luminance.
const vcpBrightness = "10"

var (
	i2cBusPattern   = regexp.MustCompile(`I2C bus:\s*/dev/i2c-(\d+)`)
	vcpValuePattern = regexp.MustCompile(`current value\s*=\s*(\d+)\s*,\s*max value\s*=\s*(\d+)`)
)

// detectDDCBus runs `ddcutil detect` and extracts the I2C bus number of the
// first DDC/CI capable monitor.
func detectDDCBus(r Runner) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	out, err := r.Output(ctx, "ddcutil", "detect")
	if err != nil {
		return 0, fmt.Errorf("ddcutil detect: %w", err)
	}
	m := i2cBusPattern.FindSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("no I2C bus in ddcutil detect output")
	}
	return strconv.Atoi(string(m[1]))
}

// queryVCP reads the current and max luminance from the monitor on the
// given bus.
func queryVCP(r Runner, bus int) (current, maxValue int, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	args := append([]string{"--bus", strconv.Itoa(bus)}, ddcutilParams...)
	args = append(args, "getvcp", vcpBrightness)
	out, err := r.Output(ctx, "ddcutil", args...)
	if err != nil {
		return 0, 0, fmt.Errorf("ddcutil getvcp: %w", err)
	}
	m := vcpValuePattern.FindSubmatch(out)
	if m == nil {
		return 0, 0, fmt.Errorf("unparsable getvcp output: %q", out)
	}
	current, _ = strconv.Atoi(string(m[1]))
	maxValue, _ = strconv.Atoi(string(m[2]))
	return current, maxValue, nil
}

// setVCPArgs builds the argument list for an asynchronous luminance write.
func setVCPArgs(bus, raw int) []string {
	args := append([]string{"--bus", strconv.Itoa(bus)}, ddcutilParams...)
	return append(args, "--terse", "setvcp", vcpBrightness, strconv.Itoa(raw))
}
