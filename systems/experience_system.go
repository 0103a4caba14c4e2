package systems

import (
	"errors"
	"fmt"

	"ebiten-survivor/components"
	"ebiten-survivor/ecs"
)

// Level up rewards
const (
	LevelUpHaste    = 0.1 // Permanent cooldown reduction per level
	LevelUpHealFrac = 0.2 // Fraction of max health restored per level
)

// ExperienceSystem grants XP for kills and collected pickups and handles level ups
type ExperienceSystem struct {
	clock    *Clock
	messages *MessageLog
	deaths   *ecs.Subscriber
	pickups  *ecs.Consumer
	gains    *ecs.Producer
	levelUps *ecs.Producer
}

// NewExperienceSystem creates a new experience system
func NewExperienceSystem(tunnel *ecs.TunnelManager, clock *Clock, messages *MessageLog) *ExperienceSystem {
	return &ExperienceSystem{
		clock:    clock,
		messages: messages,
		deaths:   tunnel.Subscriber(EventEnemyDeath),
		pickups:  tunnel.Consumer(EventPickupCollected),
		gains:    tunnel.Producer(EventExperienceGain),
		levelUps: tunnel.Producer(EventLevelUp),
	}
}

// Update reads new deaths without consuming them, and consumes collected pickups
func (s *ExperienceSystem) Update(world *ecs.World, dt float64) error {
	// Both queues are already drained for this handle, so every event is processed before reporting
	var errs []error
	for _, event := range s.deaths.PeekNew() {
		death, ok := event.(EnemyDeathEvent)
		if !ok {
			continue
		}
		enemy, ok := component[*components.EnemyComponent](world, death.EntityID, components.Enemy)
		if !ok {
			continue
		}
		if err := s.grant(world, death.KillerID, enemy.XPReward, death.EntityID); err != nil {
			errs = append(errs, err)
		}
	}

	for _, event := range s.pickups.ConsumeAll() {
		pickup, ok := event.(PickupCollectedEvent)
		if !ok {
			continue
		}
		if err := s.grant(world, pickup.CollectorID, pickup.XP, pickup.PickupID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// grant adds XP to an entity that tracks experience and applies any level ups
func (s *ExperienceSystem) grant(world *ecs.World, recipient ecs.EntityID, amount int, source ecs.EntityID) error {
	if amount <= 0 || recipient == 0 {
		return nil
	}
	exp, ok := component[*components.ExperienceComponent](world, recipient, components.Experience)
	if !ok {
		return nil
	}

	gained := exp.Add(amount)
	s.gains.Produce(ExperienceGainEvent{EntityID: recipient, Amount: amount, SourceID: source, At: s.clock.Elapsed})

	for level := exp.Level - gained + 1; level <= exp.Level; level++ {
		if err := s.levelUp(world, recipient, level); err != nil {
			return fmt.Errorf("level up %d to %d: %w", recipient, level, err)
		}
	}
	return nil
}

func (s *ExperienceSystem) levelUp(world *ecs.World, id ecs.EntityID, level int) error {
	// Haste records stack; AttackSystem caps the total
	if err := world.AddComponent(id, components.StatusEffect, &components.StatusEffectComponent{
		Kind:      components.EffectHaste,
		Magnitude: LevelUpHaste,
		Remaining: -1,
	}); err != nil {
		return err
	}
	if health, ok := component[*components.HealthComponent](world, id, components.Health); ok {
		health.Heal(int(float64(health.Max) * LevelUpHealFrac))
	}

	s.levelUps.Produce(LevelUpEvent{EntityID: id, Level: level, At: s.clock.Elapsed})
	if isPlayer(world, id) {
		s.messages.AddProgress("Level up! You reached level %d", level)
	}
	return nil
}
