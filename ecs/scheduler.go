package ecs

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"
)

var (
	// ErrCyclicDependency is returned when predecessor declarations form a cycle
	ErrCyclicDependency = errors.New("cyclic system dependency")
	// ErrDuplicateSystem is returned when a name is registered twice
	ErrDuplicateSystem = errors.New("system already registered")
	// ErrUnknownSystem is returned for names that were never registered
	ErrUnknownSystem = errors.New("unknown system")
	// ErrInvalidSystem is returned for a nil system or an empty name
	ErrInvalidSystem = errors.New("invalid system registration")
	// ErrSystemPanic marks a system update that panicked
	ErrSystemPanic = errors.New("system panicked")
)

// SystemError is a failure of one system during one frame
type SystemError struct {
	System string
	Err    error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("system %s: %v", e.System, e.Err)
}

func (e *SystemError) Unwrap() error {
	return e.Err
}

// FrameError aggregates every system failure of a single frame
type FrameError struct {
	Errors []*SystemError
}

func (e *FrameError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d system(s) failed: %s", len(e.Errors), strings.Join(msgs, "; "))
}

func (e *FrameError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// SystemTiming holds execution statistics for one system
type SystemTiming struct {
	Calls    int
	Failures int
	Total    time.Duration
	Max      time.Duration
	Last     time.Duration
}

// Average returns the mean duration of one update
func (t SystemTiming) Average() time.Duration {
	if t.Calls == 0 {
		return 0
	}
	return t.Total / time.Duration(t.Calls)
}

type registration struct {
	name         string
	system       System
	priority     int
	predecessors []string
	active       bool
	seq          int
	timing       SystemTiming
}

// Scheduler owns the registered systems and runs them once per frame in a resolved order.
// Order respects declared predecessors first and priority (lower runs first) second.
type Scheduler struct {
	logger        *log.Logger
	systems       map[string]*registration
	nextSeq       int
	order         []*registration
	dirty         bool
	slowThreshold time.Duration
}

// NewScheduler creates an empty scheduler. A nil logger discards output.
func NewScheduler(logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Scheduler{
		logger:  logger,
		systems: make(map[string]*registration),
	}
}

// SetSlowThreshold sets the update duration above which a system is logged as slow.
// Zero disables the warning.
func (s *Scheduler) SetSlowThreshold(d time.Duration) {
	s.slowThreshold = d
}

// Register adds a system under name. Predecessors may name systems registered later.
// A registration that would create a cycle is rejected and leaves the scheduler unchanged.
func (s *Scheduler) Register(system System, name string, priority int, predecessors ...string) error {
	if system == nil || name == "" {
		return fmt.Errorf("register %q: %w", name, ErrInvalidSystem)
	}
	if _, exists := s.systems[name]; exists {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateSystem)
	}

	preds := make([]string, 0, len(predecessors))
	for _, p := range predecessors {
		if p == name {
			return fmt.Errorf("register %q: depends on itself: %w", name, ErrCyclicDependency)
		}
		preds = append(preds, p)
	}

	s.systems[name] = &registration{
		name:         name,
		system:       system,
		priority:     priority,
		predecessors: preds,
		active:       true,
		seq:          s.nextSeq,
	}
	s.nextSeq++

	order, err := s.resolve()
	if err != nil {
		delete(s.systems, name)
		return fmt.Errorf("register %q: %w", name, err)
	}
	s.order = order
	s.dirty = false
	return nil
}

// Unregister removes a system. It reports whether the name was registered.
func (s *Scheduler) Unregister(name string) bool {
	if _, exists := s.systems[name]; !exists {
		return false
	}
	delete(s.systems, name)
	s.dirty = true
	return true
}

// SetActive toggles whether a system runs. Inactive systems keep their place in the order.
func (s *Scheduler) SetActive(name string, active bool) error {
	r, exists := s.systems[name]
	if !exists {
		return fmt.Errorf("set active %q: %w", name, ErrUnknownSystem)
	}
	r.active = active
	return nil
}

// IsActive reports whether a registered system is active
func (s *Scheduler) IsActive(name string) bool {
	r, exists := s.systems[name]
	return exists && r.active
}

// Order returns the resolved execution order, including inactive systems
func (s *Scheduler) Order() []string {
	order := s.resolved()
	names := make([]string, len(order))
	for i, r := range order {
		names[i] = r.name
	}
	return names
}

// TimingStats returns a copy of the per-system timing statistics
func (s *Scheduler) TimingStats() map[string]SystemTiming {
	stats := make(map[string]SystemTiming, len(s.systems))
	for name, r := range s.systems {
		stats[name] = r.timing
	}
	return stats
}

// Update runs every active system once, in order.
// A failing system does not stop the others; all failures are returned as a *FrameError.
func (s *Scheduler) Update(world *World, dt float64) error {
	order := s.resolved()

	var failures []*SystemError
	for _, r := range order {
		if !r.active {
			continue
		}

		start := time.Now()
		err := runSystem(r.system, world, dt)
		elapsed := time.Since(start)

		r.timing.Calls++
		r.timing.Total += elapsed
		r.timing.Last = elapsed
		if elapsed > r.timing.Max {
			r.timing.Max = elapsed
		}
		if s.slowThreshold > 0 && elapsed > s.slowThreshold {
			s.logger.Printf("system %s slow: %v (threshold %v)", r.name, elapsed, s.slowThreshold)
		}

		if err != nil {
			r.timing.Failures++
			s.logger.Printf("system %s failed: %v", r.name, err)
			failures = append(failures, &SystemError{System: r.name, Err: err})
		}
	}

	if len(failures) > 0 {
		return &FrameError{Errors: failures}
	}
	return nil
}

// runSystem converts a panic inside Update into an error
func runSystem(system System, world *World, dt float64) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrSystemPanic, rec)
		}
	}()
	return system.Update(world, dt)
}

// resolved returns the cached order, recomputing it after registration changes
func (s *Scheduler) resolved() []*registration {
	if s.dirty || s.order == nil {
		order, err := s.resolve()
		if err != nil {
			// Only Register can introduce a cycle and it rolls back, so this stays unreachable
			s.logger.Printf("scheduler order resolution failed: %v", err)
			return s.order
		}
		s.order = order
		s.dirty = false
	}
	out := make([]*registration, len(s.order))
	copy(out, s.order)
	return out
}

// resolve computes the execution order.
// A depth-first pass detects cycles and yields a topological order; a second pass then
// places, at each step, the lowest priority system whose predecessors are already placed,
// breaking ties by topological position.
func (s *Scheduler) resolve() ([]*registration, error) {
	all := make([]*registration, 0, len(s.systems))
	for _, r := range s.systems {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return before(all[i], all[j]) })

	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[string]int, len(all))
	topo := make([]*registration, 0, len(all))
	var path []string

	var visit func(r *registration) error
	visit = func(r *registration) error {
		switch state[r.name] {
		case done:
			return nil
		case inProgress:
			cycle := append(pathFrom(path, r.name), r.name)
			return fmt.Errorf("%w: %s", ErrCyclicDependency, strings.Join(cycle, " -> "))
		}
		state[r.name] = inProgress
		path = append(path, r.name)

		for _, pred := range s.knownPredecessors(r) {
			if err := visit(pred); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		state[r.name] = done
		topo = append(topo, r)
		return nil
	}

	for _, r := range all {
		if err := visit(r); err != nil {
			return nil, err
		}
	}

	position := make(map[string]int, len(topo))
	for i, r := range topo {
		position[r.name] = i
	}

	placed := make(map[string]bool, len(topo))
	order := make([]*registration, 0, len(topo))
	for len(order) < len(topo) {
		var next *registration
		for _, r := range topo {
			if placed[r.name] || !s.ready(r, placed) {
				continue
			}
			if next == nil || r.priority < next.priority ||
				(r.priority == next.priority && position[r.name] < position[next.name]) {
				next = r
			}
		}
		placed[next.name] = true
		order = append(order, next)
	}
	return order, nil
}

// knownPredecessors returns the registered predecessors of r in priority order
func (s *Scheduler) knownPredecessors(r *registration) []*registration {
	preds := make([]*registration, 0, len(r.predecessors))
	for _, name := range r.predecessors {
		if p, exists := s.systems[name]; exists {
			preds = append(preds, p)
		}
	}
	sort.Slice(preds, func(i, j int) bool { return before(preds[i], preds[j]) })
	return preds
}

func (s *Scheduler) ready(r *registration, placed map[string]bool) bool {
	for _, name := range r.predecessors {
		if _, exists := s.systems[name]; exists && !placed[name] {
			return false
		}
	}
	return true
}

func before(a, b *registration) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.seq < b.seq
}

func pathFrom(path []string, name string) []string {
	for i, n := range path {
		if n == name {
			return append([]string(nil), path[i:]...)
		}
	}
	return append([]string(nil), path...)
}
