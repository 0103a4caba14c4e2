package systems

import (
	"ebiten-survivor/components"
	"ebiten-survivor/coords"
	"ebiten-survivor/ecs"
)

// CameraSystem moves the camera with its follow target once per frame
type CameraSystem struct {
	coords   *coords.Manager
	clock    *Clock
	producer *ecs.Producer
}

// NewCameraSystem creates a new camera system
func NewCameraSystem(manager *coords.Manager, tunnel *ecs.TunnelManager, clock *Clock) *CameraSystem {
	return &CameraSystem{
		coords:   manager,
		clock:    clock,
		producer: tunnel.Producer(EventCameraOffsetChanged),
	}
}

// Update shifts the camera by the target's movement from this frame.
// No target, a dead target or a target that did not move leaves the offset unchanged.
func (s *CameraSystem) Update(world *ecs.World, dt float64) error {
	camera := s.coords.Camera()

	target := camera.Target()
	if target == 0 || !world.IsAlive(target) {
		return nil
	}

	motion, ok := component[*components.MotionComponent](world, target, components.Motion)
	if !ok {
		return nil
	}

	previous := camera.Offset()
	if !camera.Follow(motion.Vec()) {
		return nil
	}

	s.producer.Produce(CameraOffsetChangedEvent{
		TargetID: target,
		Previous: previous,
		Offset:   camera.Offset(),
		At:       s.clock.Elapsed,
	})
	return nil
}

// CenterOn places the camera so the world point p is in the middle of the viewport
func (s *CameraSystem) CenterOn(p coords.Vec2) {
	camera := s.coords.Camera()
	camera.SetOffset(p.Sub(camera.Viewport().Scale(0.5)))
}
