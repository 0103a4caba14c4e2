package ecs

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"
)

// recorder builds systems that append their name to a shared call log
type recorder struct {
	calls []string
}

func (r *recorder) system(name string) System {
	return SystemFunc(func(world *World, dt float64) error {
		r.calls = append(r.calls, name)
		return nil
	})
}

func equalOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mustRegister(t *testing.T, s *Scheduler, sys System, name string, priority int, preds ...string) {
	t.Helper()
	if err := s.Register(sys, name, priority, preds...); err != nil {
		t.Fatalf("Register(%s): %v", name, err)
	}
}

func TestCameraRunsBeforeMovement(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler(nil)
	mustRegister(t, s, rec.system("Movement"), "Movement", 2, "Camera")
	mustRegister(t, s, rec.system("Camera"), "Camera", 1)

	if err := s.Update(NewWorld(), 1.0/60); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !equalOrder(rec.calls, []string{"Camera", "Movement"}) {
		t.Errorf("Expected Camera then Movement, got %v", rec.calls)
	}
}

func TestChainOrderIndependentOfRegistration(t *testing.T) {
	registrations := [][]string{
		{"A", "B", "C"},
		{"C", "B", "A"},
		{"B", "C", "A"},
		{"C", "A", "B"},
	}
	preds := map[string][]string{"A": nil, "B": {"A"}, "C": {"B"}}
	// Priorities deliberately disagree with the dependency chain
	priorities := map[string]int{"A": 9, "B": 5, "C": 1}

	for _, regOrder := range registrations {
		t.Run(strings.Join(regOrder, ""), func(t *testing.T) {
			s := NewScheduler(nil)
			rec := &recorder{}
			for _, name := range regOrder {
				mustRegister(t, s, rec.system(name), name, priorities[name], preds[name]...)
			}
			if got := s.Order(); !equalOrder(got, []string{"A", "B", "C"}) {
				t.Errorf("Expected A,B,C, got %v", got)
			}
		})
	}
}

func TestPriorityBreaksTies(t *testing.T) {
	s := NewScheduler(nil)
	rec := &recorder{}
	mustRegister(t, s, rec.system("render"), "render", 30)
	mustRegister(t, s, rec.system("input"), "input", 0)
	mustRegister(t, s, rec.system("physics"), "physics", 10)
	mustRegister(t, s, rec.system("audio"), "audio", 30)

	want := []string{"input", "physics", "render", "audio"}
	if got := s.Order(); !equalOrder(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestCycleRejectedAtRegistration(t *testing.T) {
	s := NewScheduler(nil)
	rec := &recorder{}
	mustRegister(t, s, rec.system("A"), "A", 0, "B")

	err := s.Register(rec.system("B"), "B", 0, "A")
	if !errors.Is(err, ErrCyclicDependency) {
		t.Fatalf("Expected ErrCyclicDependency, got %v", err)
	}
	if got := s.Order(); !equalOrder(got, []string{"A"}) {
		t.Errorf("rejected registration must be rolled back, order %v", got)
	}

	if err := s.Register(rec.system("self"), "self", 0, "self"); !errors.Is(err, ErrCyclicDependency) {
		t.Errorf("self dependency: expected ErrCyclicDependency, got %v", err)
	}

	if err := s.Update(NewWorld(), 0.016); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !equalOrder(rec.calls, []string{"A"}) {
		t.Errorf("only A should run, got %v", rec.calls)
	}
}

func TestLongCycleRejected(t *testing.T) {
	s := NewScheduler(nil)
	noop := SystemFunc(func(*World, float64) error { return nil })
	mustRegister(t, s, noop, "A", 0, "C")
	mustRegister(t, s, noop, "B", 0, "A")
	if err := s.Register(noop, "C", 0, "B"); !errors.Is(err, ErrCyclicDependency) {
		t.Errorf("Expected ErrCyclicDependency for A->B->C->A, got %v", err)
	}
}

func TestDuplicateAndInvalidRegistration(t *testing.T) {
	s := NewScheduler(nil)
	noop := SystemFunc(func(*World, float64) error { return nil })
	mustRegister(t, s, noop, "A", 0)

	if err := s.Register(noop, "A", 1); !errors.Is(err, ErrDuplicateSystem) {
		t.Errorf("Expected ErrDuplicateSystem, got %v", err)
	}
	if err := s.Register(nil, "B", 0); !errors.Is(err, ErrInvalidSystem) {
		t.Errorf("Expected ErrInvalidSystem for nil system, got %v", err)
	}
	if err := s.Register(noop, "", 0); !errors.Is(err, ErrInvalidSystem) {
		t.Errorf("Expected ErrInvalidSystem for empty name, got %v", err)
	}
}

func TestSetActiveSkipsSystem(t *testing.T) {
	s := NewScheduler(nil)
	rec := &recorder{}
	mustRegister(t, s, rec.system("A"), "A", 0)
	mustRegister(t, s, rec.system("B"), "B", 1)

	if err := s.SetActive("A", false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	s.Update(NewWorld(), 0.016)
	if !equalOrder(rec.calls, []string{"B"}) {
		t.Errorf("inactive A should be skipped, got %v", rec.calls)
	}
	if s.IsActive("A") {
		t.Error("IsActive should report false")
	}

	if err := s.SetActive("missing", true); !errors.Is(err, ErrUnknownSystem) {
		t.Errorf("Expected ErrUnknownSystem, got %v", err)
	}
}

func TestUnregisterReresolves(t *testing.T) {
	s := NewScheduler(nil)
	noop := SystemFunc(func(*World, float64) error { return nil })
	mustRegister(t, s, noop, "A", 5)
	mustRegister(t, s, noop, "B", 1, "A")
	mustRegister(t, s, noop, "C", 3)

	if got := s.Order(); !equalOrder(got, []string{"C", "A", "B"}) {
		t.Fatalf("Expected C,A,B, got %v", got)
	}
	if !s.Unregister("A") {
		t.Fatal("Unregister should report true")
	}
	if got := s.Order(); !equalOrder(got, []string{"B", "C"}) {
		t.Errorf("after unregister expected B,C, got %v", got)
	}
	if s.Unregister("A") {
		t.Error("second Unregister should report false")
	}
}

func TestFailingSystemIsolated(t *testing.T) {
	var logs bytes.Buffer
	s := NewScheduler(log.New(&logs, "", 0))
	rec := &recorder{}
	boom := errors.New("boom")

	mustRegister(t, s, SystemFunc(func(*World, float64) error { return boom }), "broken", 0)
	mustRegister(t, s, SystemFunc(func(*World, float64) error { panic("kaput") }), "panicky", 1)
	mustRegister(t, s, rec.system("healthy"), "healthy", 2)

	err := s.Update(NewWorld(), 0.016)
	if err == nil {
		t.Fatal("Update should surface system failures")
	}
	if !equalOrder(rec.calls, []string{"healthy"}) {
		t.Errorf("healthy system should still run, got %v", rec.calls)
	}

	var frameErr *FrameError
	if !errors.As(err, &frameErr) || len(frameErr.Errors) != 2 {
		t.Fatalf("Expected FrameError with 2 failures, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Error("FrameError should wrap the original error")
	}
	if !errors.Is(err, ErrSystemPanic) {
		t.Error("FrameError should include the recovered panic")
	}
	var sysErr *SystemError
	if !errors.As(err, &sysErr) || sysErr.System != "broken" {
		t.Errorf("first failure should name the system, got %v", sysErr)
	}
	if !strings.Contains(logs.String(), "broken") || !strings.Contains(logs.String(), "panicky") {
		t.Errorf("failures should be logged with system names, got %q", logs.String())
	}

	stats := s.TimingStats()
	if stats["broken"].Failures != 1 || stats["healthy"].Calls != 1 {
		t.Errorf("unexpected timing stats %+v", stats)
	}

	// A failed system is retried next frame under the same schedule
	s.Update(NewWorld(), 0.016)
	if s.TimingStats()["broken"].Calls != 2 {
		t.Error("failed system should run again next frame")
	}
}

func TestSlowSystemLogged(t *testing.T) {
	var logs bytes.Buffer
	s := NewScheduler(log.New(&logs, "", 0))
	s.SetSlowThreshold(time.Nanosecond)
	mustRegister(t, s, SystemFunc(func(*World, float64) error {
		time.Sleep(time.Millisecond)
		return nil
	}), "sluggish", 0)

	s.Update(NewWorld(), 0.016)
	if !strings.Contains(logs.String(), "sluggish slow") {
		t.Errorf("slow system should be logged, got %q", logs.String())
	}
	timing := s.TimingStats()["sluggish"]
	if timing.Max < time.Millisecond || timing.Average() < time.Millisecond {
		t.Errorf("timing should reflect the sleep, got %+v", timing)
	}
}
