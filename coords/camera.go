package coords

import (
	"fmt"

	"ebiten-survivor/ecs"
)

// Camera holds the view state that every transformation is derived from.
// screen = world - offset, world = screen + offset.
//
// The follow target is a weak reference: it is resolved against the world every frame
// and never cached as a pointer. Every mutation bumps Version so cached transforms go stale.
type Camera struct {
	offset   Vec2
	bounds   Bounds
	viewport Vec2
	deadZone float64
	target   ecs.EntityID
	version  uint64
}

// NewCamera creates a camera with its offset clamped into bounds.
// Inverted bounds or a negative dead zone are configuration errors.
func NewCamera(bounds Bounds, viewport Vec2, deadZone float64) (*Camera, error) {
	if err := bounds.Validate(); err != nil {
		return nil, fmt.Errorf("new camera: %w", err)
	}
	if deadZone < 0 {
		return nil, fmt.Errorf("new camera: negative dead zone %g", deadZone)
	}
	if viewport.X < 0 || viewport.Y < 0 {
		return nil, fmt.Errorf("new camera: negative viewport %v", viewport)
	}
	return &Camera{
		offset:   bounds.Clamp(Vec2{}),
		bounds:   bounds,
		viewport: viewport,
		deadZone: deadZone,
		version:  1,
	}, nil
}

// Offset returns the current world offset
func (c *Camera) Offset() Vec2 {
	return c.offset
}

// SetOffset places the camera, clamped into its bounds
func (c *Camera) SetOffset(offset Vec2) {
	c.offset = c.bounds.Clamp(offset)
	c.version++
}

// Move shifts the offset by delta and clamps it.
// It reports whether the offset actually changed.
func (c *Camera) Move(delta Vec2) bool {
	before := c.offset
	c.SetOffset(c.offset.Add(delta))
	return c.offset != before
}

// Follow applies one frame of the follow target's movement.
// Movement shorter than the dead zone is ignored; otherwise the offset shifts with the
// subject so it stays at the same screen position until a bound is reached.
func (c *Camera) Follow(movement Vec2) bool {
	if movement.Len() < c.deadZone || movement.IsZero() {
		return false
	}
	return c.Move(movement)
}

// Bounds returns the bounds the offset is clamped into
func (c *Camera) Bounds() Bounds {
	return c.bounds
}

// SetBounds replaces the bounds and re-clamps the offset
func (c *Camera) SetBounds(bounds Bounds) error {
	if err := bounds.Validate(); err != nil {
		return fmt.Errorf("set camera bounds: %w", err)
	}
	c.bounds = bounds
	c.SetOffset(c.offset)
	return nil
}

// Viewport returns the screen size in screen units
func (c *Camera) Viewport() Vec2 {
	return c.viewport
}

// SetViewport changes the screen size
func (c *Camera) SetViewport(viewport Vec2) {
	c.viewport = viewport
	c.version++
}

// DeadZone returns the movement length below which Follow does nothing
func (c *Camera) DeadZone() float64 {
	return c.deadZone
}

// Target returns the followed entity, or 0 when there is none
func (c *Camera) Target() ecs.EntityID {
	return c.target
}

// SetTarget changes the followed entity; 0 clears it
func (c *Camera) SetTarget(id ecs.EntityID) {
	c.target = id
	c.version++
}

// Version increases on every mutation
func (c *Camera) Version() uint64 {
	return c.version
}
