package components

import "testing"

func TestHealthDamageKillsOnce(t *testing.T) {
	h := NewHealthComponent(10)

	if h.Damage(4) {
		t.Fatal("4 damage should not kill")
	}
	if !h.Damage(10) {
		t.Fatal("overkill should report the killing blow")
	}
	if h.Current != 0 || !h.Dead {
		t.Errorf("expected dead at 0 hp, got %+v", h)
	}
	if h.Damage(5) {
		t.Error("a dead entity cannot be killed twice")
	}
	h.Heal(5)
	if h.Current != 0 {
		t.Error("dead entities are not healed")
	}
}

func TestExperienceLevels(t *testing.T) {
	e := NewExperienceComponent()
	if e.ToNext != 5 {
		t.Fatalf("level 1 threshold should be 5, got %d", e.ToNext)
	}

	if gained := e.Add(4); gained != 0 {
		t.Errorf("4 xp should not level up, gained %d", gained)
	}
	// 4 + 5 = 9: level 2 at 5, remainder 4 towards the level 2 threshold of 11
	if gained := e.Add(5); gained != 1 || e.Level != 2 || e.XP != 4 || e.ToNext != 11 {
		t.Errorf("unexpected state after level up: gained %d %+v", gained, e)
	}
	if gained := e.Add(100); gained < 2 {
		t.Errorf("100 xp should gain several levels, gained %d", gained)
	}
	if e.Add(-3) != 0 {
		t.Error("negative xp is ignored")
	}
}

func TestParseKinds(t *testing.T) {
	for _, k := range []MovementKind{MoveStatic, MoveLinear, MoveChase} {
		got, err := ParseMovementKind(k.String())
		if err != nil || got != k {
			t.Errorf("movement %v did not round trip: %v %v", k, got, err)
		}
	}
	for _, k := range []AttackKind{AttackDirection, AttackNearest, AttackTarget} {
		got, err := ParseAttackKind(k.String())
		if err != nil || got != k {
			t.Errorf("attack %v did not round trip: %v %v", k, got, err)
		}
	}
	if _, err := ParseAttackKind("laser"); err == nil {
		t.Error("unknown attack kind should fail")
	}
}

func TestSetComponentProperty(t *testing.T) {
	w := &WeaponComponent{}
	tests := []struct {
		field string
		value interface{}
		ok    bool
	}{
		{"Damage", float64(7), true},
		{"Cooldown", 0.5, true},
		{"Name", "wand", true},
		{"Damage", "seven", false},
		{"Missing", 1, false},
	}
	for _, tt := range tests {
		err := SetComponentProperty(w, tt.field, tt.value)
		if (err == nil) != tt.ok {
			t.Errorf("SetComponentProperty(%s, %v): err %v, want ok=%v", tt.field, tt.value, err, tt.ok)
		}
	}
	if w.Damage != 7 || w.Cooldown != 0.5 || w.Name != "wand" {
		t.Errorf("fields not applied: %+v", w)
	}
	if err := SetComponentProperty(*w, "Damage", 1); err == nil {
		t.Error("non-pointer component should be rejected")
	}

	if id, ok := GetComponentIDByName("weapon"); !ok || id != Weapon {
		t.Errorf("case-insensitive lookup failed: %v %v", id, ok)
	}
}
