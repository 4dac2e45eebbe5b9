package backlight

// Sentinel is the value reported when no brightness reading is available:
// before the first successful read, or permanently in disabled mode.
const Sentinel = -1

// minChangeThreshold is the smallest percent delta worth acting on.
// Smaller deltas are dropped to suppress redundant hardware calls from
// UI sliders emitting near-duplicate values.
const minChangeThreshold = 2

// ToPercent converts a raw backend value to a 0-100 display percentage.
// Truncates rather than rounds; callers rely on the floor semantics.
func ToPercent(raw, maxRaw int) int {
	if maxRaw <= 0 {
		return 0
	}
	return raw * 100 / maxRaw
}

// ClampRaw limits a raw value to [0, maxRaw].
func ClampRaw(value, maxRaw int) int {
	if value < 0 {
		return 0
	}
	if value > maxRaw {
		return maxRaw
	}
	return value
}

// Significant reports whether moving from prev to next percent is a change
// worth applying or publishing. The first observation (prev == Sentinel)
// is always significant.
func Significant(next, prev int) bool {
	if prev == Sentinel {
		return true
	}
	delta := next - prev
	if delta < 0 {
		delta = -delta
	}
	return delta >= minChangeThreshold
}
