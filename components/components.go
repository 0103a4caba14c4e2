package components

import (
	"image/color"

	"ebiten-survivor/coords"
	"ebiten-survivor/ecs"
)

// PositionComponent stores entity position in world units
type PositionComponent struct {
	X, Y float64
}

// Vec returns the position as a vector
func (p *PositionComponent) Vec() coords.Vec2 {
	return coords.V(p.X, p.Y)
}

// Set moves the position to v
func (p *PositionComponent) Set(v coords.Vec2) {
	p.X, p.Y = v.X, v.Y
}

// VelocityComponent stores world units per second
type VelocityComponent struct {
	X, Y float64
}

// Vec returns the velocity as a vector
func (v *VelocityComponent) Vec() coords.Vec2 {
	return coords.V(v.X, v.Y)
}

// Set replaces the velocity with w
func (v *VelocityComponent) Set(w coords.Vec2) {
	v.X, v.Y = w.X, w.Y
}

// MotionComponent is the displacement applied to the entity in the most recent frame.
// The camera follows this rather than velocity so clamped or blocked moves don't drift it.
type MotionComponent struct {
	DX, DY float64
}

// Vec returns the displacement as a vector
func (m *MotionComponent) Vec() coords.Vec2 {
	return coords.V(m.DX, m.DY)
}

// RenderableComponent stores what the render collaborator needs to draw an entity
type RenderableComponent struct {
	Glyph  rune       // Character used by the terminal renderer
	Color  color.RGBA // Fill colour
	Radius float64    // Drawn size in world units
}

// NewRenderableComponent creates a renderable component
func NewRenderableComponent(glyph rune, c color.RGBA, radius float64) *RenderableComponent {
	return &RenderableComponent{
		Glyph:  glyph,
		Color:  c,
		Radius: radius,
	}
}

// PlayerComponent indicates that an entity is controlled by the player
type PlayerComponent struct {
	Speed float64
}

// PlayerInputComponent is written by the input collaborator and read by PlayerControlSystem
type PlayerInputComponent struct {
	X, Y   float64 // Desired direction, any length
	Facing float64 // Facing angle in radians, updated when the player moves
}

// HealthComponent tracks hit points
type HealthComponent struct {
	Current      int
	Max          int
	Invulnerable float64 // Seconds of damage immunity left
	Dead         bool    // Set once when Current first reaches zero
}

// NewHealthComponent creates a component at full health
func NewHealthComponent(max int) *HealthComponent {
	return &HealthComponent{Current: max, Max: max}
}

// Damage subtracts amount and reports whether this hit was the killing blow
func (h *HealthComponent) Damage(amount int) bool {
	if h.Dead || amount <= 0 {
		return false
	}
	h.Current -= amount
	if h.Current <= 0 {
		h.Current = 0
		h.Dead = true
		return true
	}
	return false
}

// Heal restores up to amount without exceeding Max
func (h *HealthComponent) Heal(amount int) {
	if h.Dead {
		return
	}
	h.Current += amount
	if h.Current > h.Max {
		h.Current = h.Max
	}
}

// CollisionLayer groups collision shapes by role
type CollisionLayer int

const (
	LayerPlayer CollisionLayer = iota
	LayerEnemy
	LayerProjectile
	LayerPickup
)

// CollisionComponent is a circle collision shape
type CollisionComponent struct {
	Radius float64
	Layer  CollisionLayer
}

// EnemyComponent marks a hostile entity and what killing it is worth
type EnemyComponent struct {
	Kind          string
	XPReward      int
	ContactDamage int
	LootTable     string
}

// NameComponent stores the display name for entities
type NameComponent struct {
	Name string
}

// ProjectileComponent describes a live projectile
type ProjectileComponent struct {
	Owner    ecs.EntityID
	Damage   int
	Lifetime float64        // Seconds left before expiry
	Pierce   int            // Additional enemies it can pass through
	HitIDs   []ecs.EntityID // Enemies already damaged, never hit twice
}

// PickupComponent is an item collected on contact with the player
type PickupComponent struct {
	XP int
}

// StatusEffectComponent is one timed modifier. Effects of the same kind stack.
type StatusEffectComponent struct {
	Kind      string
	Magnitude float64
	Remaining float64 // Seconds left; negative means permanent
}

// Status effect kinds
const (
	EffectHaste = "haste" // Reduces weapon cooldown by Magnitude (fraction)
	EffectSlow  = "slow"  // Reduces movement speed by Magnitude (fraction)
)
