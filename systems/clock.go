package systems

import "math"

// Clock is the simulation time shared by the systems of one simulation.
// The simulation root advances it once before each frame.
type Clock struct {
	Elapsed float64 // Seconds simulated so far
	Frame   uint64
	// MaxStep caps the real time one frame may cover; 0 leaves frames uncapped
	MaxStep float64

	scale  float64 // 0 means real time
	paused bool
}

// Advance moves the clock forward by one frame of dt seconds
func (c *Clock) Advance(dt float64) {
	c.Elapsed += dt
	c.Frame++
}

// Step converts a real frame duration into simulated seconds: capped at MaxStep, then
// scaled. A paused clock yields 0.
func (c *Clock) Step(raw float64) float64 {
	if c.paused {
		return 0
	}
	if c.MaxStep > 0 {
		raw = math.Min(raw, c.MaxStep)
	}
	return raw * c.Scale()
}

// Scale returns the time scale; 1 is real time
func (c *Clock) Scale() float64 {
	if c.scale == 0 {
		return 1
	}
	return c.scale
}

// SetScale sets the time scale. Pause is separate, so the scale must be positive.
func (c *Clock) SetScale(scale float64) bool {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return false
	}
	c.scale = scale
	return true
}

func (c *Clock) Pause()  { c.paused = true }
func (c *Clock) Resume() { c.paused = false }

// Paused reports whether the clock is paused
func (c *Clock) Paused() bool { return c.paused }
