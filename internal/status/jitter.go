package status

import (
	"math/rand/v2"

	"oledstat/internal/config"
)

// Position is the top-left origin of the status text for one tick.
type Position struct {
	X int
	Y int
}

// Origin is where the text sits with no jitter applied.
var Origin = Position{X: 0, Y: -2}

// Jitter moves the text a few pixels each tick so the OLED does not burn in.
type Jitter struct {
	mode      string
	max       int
	driftMaxX int
	driftMaxY int
	intn      func(n int) int
	offset    Position
}

// NewJitter builds a Jitter from the [jitter] section. intn draws a value in
// [0, n); nil uses math/rand/v2.
func NewJitter(cfg config.Jitter, intn func(n int) int) *Jitter {
	if intn == nil {
		intn = rand.IntN
	}
	return &Jitter{
		mode:      cfg.Mode,
		max:       cfg.Max,
		driftMaxX: cfg.DriftMaxX,
		driftMaxY: cfg.DriftMaxY,
		intn:      intn,
	}
}

// Next returns the origin for the coming tick.
//
// Anchored mode adds a fresh offset in [0, max] on each axis to Origin.
// Drift mode accumulates those offsets and snaps an axis back to Origin once
// it passes drift_max_x or drift_max_y.
func (j *Jitter) Next() Position {
	if j.max <= 0 {
		return Origin
	}
	dx, dy := j.intn(j.max+1), j.intn(j.max+1)
	if j.mode != config.JitterDrift {
		return Position{X: Origin.X + dx, Y: Origin.Y + dy}
	}

	j.offset.X += dx
	j.offset.Y += dy
	if j.offset.X > j.driftMaxX {
		j.offset.X = 0
	}
	if j.offset.Y > j.driftMaxY {
		j.offset.Y = 0
	}
	return Position{X: Origin.X + j.offset.X, Y: Origin.Y + j.offset.Y}
}
