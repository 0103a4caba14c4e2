package components

import (
	"fmt"

	"ebiten-survivor/ecs"
)

// MovementKind selects how an AI entity moves. The set is closed; the kind is fixed when
// the entity is created from its template.
type MovementKind int

const (
	MoveStatic MovementKind = iota // Does not move
	MoveLinear                     // Keeps its current velocity
	MoveChase                      // Steers towards its target every frame
)

var movementNames = map[MovementKind]string{
	MoveStatic: "static",
	MoveLinear: "linear",
	MoveChase:  "chase",
}

func (k MovementKind) String() string {
	if name, ok := movementNames[k]; ok {
		return name
	}
	return fmt.Sprintf("MovementKind(%d)", int(k))
}

// ParseMovementKind maps a template name to a MovementKind
func ParseMovementKind(name string) (MovementKind, error) {
	for k, n := range movementNames {
		if n == name {
			return k, nil
		}
	}
	return MoveStatic, fmt.Errorf("unknown movement kind %q", name)
}

// AIComponent stores AI behavior information
type AIComponent struct {
	Movement MovementKind
	Speed    float64
	Target   ecs.EntityID // Weak reference, resolved every frame
}

// AttackKind selects how a weapon picks its firing direction
type AttackKind int

const (
	AttackDirection AttackKind = iota // Fire where the owner is facing
	AttackNearest                     // Fire at the nearest enemy in range
	AttackTarget                      // Fire at a specific entity
)

var attackNames = map[AttackKind]string{
	AttackDirection: "direction",
	AttackNearest:   "nearest",
	AttackTarget:    "target",
}

func (k AttackKind) String() string {
	if name, ok := attackNames[k]; ok {
		return name
	}
	return fmt.Sprintf("AttackKind(%d)", int(k))
}

// ParseAttackKind maps a template name to an AttackKind
func ParseAttackKind(name string) (AttackKind, error) {
	for k, n := range attackNames {
		if n == name {
			return k, nil
		}
	}
	return AttackDirection, fmt.Errorf("unknown attack kind %q", name)
}

// WeaponComponent is an automatically firing weapon. An entity may carry several.
type WeaponComponent struct {
	Name               string
	Attack             AttackKind
	Damage             int
	Cooldown           float64 // Seconds between shots before haste
	Timer              float64 // Seconds until the next shot
	Range              float64
	ProjectileSpeed    float64
	ProjectileLifetime float64
	ProjectileRadius   float64
	Pierce             int
	Target             ecs.EntityID // Used by AttackTarget only
}

// ExperienceComponent tracks player progression
type ExperienceComponent struct {
	Level  int
	XP     int
	ToNext int
}

// NewExperienceComponent starts at level 1
func NewExperienceComponent() *ExperienceComponent {
	return &ExperienceComponent{Level: 1, ToNext: XPForLevel(1)}
}

// XPForLevel is the experience needed to go from level to level+1
func XPForLevel(level int) int {
	return 5 + (level-1)*5 + (level-1)*(level-1)
}

// Add grants xp and returns how many levels were gained
func (e *ExperienceComponent) Add(xp int) int {
	if xp <= 0 {
		return 0
	}
	e.XP += xp
	gained := 0
	for e.XP >= e.ToNext {
		e.XP -= e.ToNext
		e.Level++
		e.ToNext = XPForLevel(e.Level)
		gained++
	}
	return gained
}
