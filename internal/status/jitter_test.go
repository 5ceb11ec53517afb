package status

import (
	"testing"

	"oledstat/internal/config"
)

func fixedIntn(values ...int) func(int) int {
	i := 0
	return func(n int) int {
		v := values[i%len(values)]
		i++
		if v >= n {
			panic("fixed value out of range")
		}
		return v
	}
}

func TestAnchoredJitterStaysNearOrigin(t *testing.T) {
	j := NewJitter(config.Jitter{Mode: config.JitterAnchored, Max: 4}, fixedIntn(4, 3, 1, 0))
	if got := j.Next(); got != (Position{X: 4, Y: 1}) {
		t.Fatalf("first position = %+v", got)
	}
	if got := j.Next(); got != (Position{X: 1, Y: -2}) {
		t.Fatalf("second position = %+v", got)
	}
}

func TestAnchoredJitterWithRealRandomIsBounded(t *testing.T) {
	j := NewJitter(config.Jitter{Mode: config.JitterAnchored, Max: 4}, nil)
	for i := 0; i < 500; i++ {
		p := j.Next()
		if p.X < 0 || p.X > 4 || p.Y < -2 || p.Y > 2 {
			t.Fatalf("position %+v out of range", p)
		}
	}
}

func TestDriftJitterAccumulatesAndResets(t *testing.T) {
	j := NewJitter(config.Jitter{Mode: config.JitterDrift, Max: 4, DriftMaxX: 6, DriftMaxY: 3}, fixedIntn(3, 2))
	want := []Position{
		{X: 3, Y: 0},  // offset (3,2)
		{X: 6, Y: -2}, // offset (6,4) -> y resets
		{X: 0, Y: 0},  // offset (9,2) -> x resets
	}
	for i, w := range want {
		if got := j.Next(); got != w {
			t.Fatalf("step %d: got %+v, want %+v", i, got, w)
		}
	}
}

func TestZeroMaxDisablesJitter(t *testing.T) {
	j := NewJitter(config.Jitter{Mode: config.JitterDrift, Max: 0}, fixedIntn(9))
	if got := j.Next(); got != Origin {
		t.Fatalf("expected origin, got %+v", got)
	}
}
