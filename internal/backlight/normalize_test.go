package backlight

import "testing"

func TestToPercent(t *testing.T) {
	tests := []struct {
		name   string
		raw    int
		maxRaw int
		want   int
	}{
		{"zero", 0, 96000, 0},
		{"full", 96000, 96000, 100},
		{"half", 48000, 96000, 50},
		{"truncates down", 101, 200, 50},
		{"ddc identity", 40, 100, 40},
		{"invalid ceiling", 50, 0, 0},
		{"negative ceiling", 50, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToPercent(tt.raw, tt.maxRaw); got != tt.want {
				t.Errorf("ToPercent(%d, %d) = %d, want %d", tt.raw, tt.maxRaw, got, tt.want)
			}
		})
	}
}

func TestToPercentMonotonic(t *testing.T) {
	const maxRaw = 777
	prev := ToPercent(0, maxRaw)
	for raw := 1; raw <= maxRaw; raw++ {
		p := ToPercent(raw, maxRaw)
		if p < prev {
			t.Fatalf("ToPercent not monotonic: raw=%d gave %d after %d", raw, p, prev)
		}
		prev = p
	}
	if prev != 100 {
		t.Errorf("ToPercent(max, max) = %d, want 100", prev)
	}
}

func TestClampRaw(t *testing.T) {
	tests := []struct {
		value  int
		maxRaw int
		want   int
	}{
		{-10, 100, 0},
		{0, 100, 0},
		{55, 100, 55},
		{100, 100, 100},
		{150, 100, 100},
		{96001, 96000, 96000},
	}
	for _, tt := range tests {
		got := ClampRaw(tt.value, tt.maxRaw)
		if got != tt.want {
			t.Errorf("ClampRaw(%d, %d) = %d, want %d", tt.value, tt.maxRaw, got, tt.want)
		}
		if got < 0 || got > tt.maxRaw {
			t.Errorf("ClampRaw(%d, %d) = %d out of [0, %d]", tt.value, tt.maxRaw, got, tt.maxRaw)
		}
		// Idempotence.
		if again := ClampRaw(got, tt.maxRaw); again != got {
			t.Errorf("ClampRaw not idempotent: %d -> %d", got, again)
		}
	}
}

func TestSignificant(t *testing.T) {
	tests := []struct {
		name string
		next int
		prev int
		want bool
	}{
		{"first observation", 50, Sentinel, true},
		{"below threshold up", 51, 50, false},
		{"below threshold down", 49, 50, false},
		{"at threshold", 52, 50, true},
		{"above threshold", 53, 50, true},
		{"no change", 50, 50, false},
		{"large drop", 10, 90, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Significant(tt.next, tt.prev); got != tt.want {
				t.Errorf("Significant(%d, %d) = %v, want %v", tt.next, tt.prev, got, tt.want)
			}
		})
	}
}
