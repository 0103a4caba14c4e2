package systems

import (
	"ebiten-survivor/ecs"
)

// Tally is the running score of one simulation
type Tally struct {
	Kills        int
	Spawned      int
	Shots        int
	Hits         int
	DamageTaken  int
	XPGained     int
	Level        int
	CameraMoves  int
	GameOver     bool
	SurvivedTime float64 // Elapsed time when the player died, or so far
}

// TallySystem drains the informational event queues into the running score
type TallySystem struct {
	clock    *Clock
	messages *MessageLog
	tally    Tally

	deaths   *ecs.Subscriber
	spawned  *ecs.Consumer
	fired    *ecs.Consumer
	hits     *ecs.Consumer
	damaged  *ecs.Consumer
	died     *ecs.Consumer
	gains    *ecs.Consumer
	levelUps *ecs.Consumer
	camera   *ecs.Consumer
}

// NewTallySystem creates a new tally system
func NewTallySystem(tunnel *ecs.TunnelManager, clock *Clock, messages *MessageLog) *TallySystem {
	return &TallySystem{
		clock:    clock,
		messages: messages,
		tally:    Tally{Level: 1},
		deaths:   tunnel.Subscriber(EventEnemyDeath),
		spawned:  tunnel.Consumer(EventEnemySpawned),
		fired:    tunnel.Consumer(EventWeaponFired),
		hits:     tunnel.Consumer(EventProjectileHit),
		damaged:  tunnel.Consumer(EventPlayerDamaged),
		died:     tunnel.Consumer(EventPlayerDied),
		gains:    tunnel.Consumer(EventExperienceGain),
		levelUps: tunnel.Consumer(EventLevelUp),
		camera:   tunnel.Consumer(EventCameraOffsetChanged),
	}
}

// Tally returns a copy of the current score
func (s *TallySystem) Tally() Tally {
	return s.tally
}

// GameOver reports whether the player has died
func (s *TallySystem) GameOver() bool {
	return s.tally.GameOver
}

// Update counts every event produced since the last frame
func (s *TallySystem) Update(world *ecs.World, dt float64) error {
	s.tally.Kills += len(s.deaths.PeekNew())
	s.tally.Spawned += len(s.spawned.ConsumeAll())
	s.tally.Shots += len(s.fired.ConsumeAll())
	s.tally.Hits += len(s.hits.ConsumeAll())
	s.tally.CameraMoves += len(s.camera.ConsumeAll())

	for _, event := range s.damaged.ConsumeAll() {
		if damaged, ok := event.(PlayerDamagedEvent); ok {
			s.tally.DamageTaken += damaged.Damage
		}
	}
	for _, event := range s.gains.ConsumeAll() {
		if gain, ok := event.(ExperienceGainEvent); ok && isPlayer(world, gain.EntityID) {
			s.tally.XPGained += gain.Amount
		}
	}
	for _, event := range s.levelUps.ConsumeAll() {
		if levelUp, ok := event.(LevelUpEvent); ok && isPlayer(world, levelUp.EntityID) && levelUp.Level > s.tally.Level {
			s.tally.Level = levelUp.Level
		}
	}

	if !s.tally.GameOver {
		s.tally.SurvivedTime = s.clock.Elapsed
	}
	for _, event := range s.died.ConsumeAll() {
		died, ok := event.(PlayerDiedEvent)
		if !ok || s.tally.GameOver {
			continue
		}
		s.tally.GameOver = true
		s.messages.AddCombat("%s was killed by %s!", getEntityName(world, died.PlayerID), getEntityName(world, died.KillerID))
		s.messages.AddAlert("Game Over! You were defeated.")
	}
	return nil
}
