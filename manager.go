package motion

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"
)

// Hooks are optional observers of scheduler activity. Nil fields are skipped.
type Hooks struct {
	OnTick              func(stats TickStats)
	OnInstanceStarted   func(inst *StoryboardInstance)
	OnInstanceCompleted func(inst *StoryboardInstance)
	OnLaneReverted      func(key LaneKey)
	OnError             func(err error)
}

// MergeHooks returns Hooks that call every non-nil field of hs in order.
func MergeHooks(hs ...Hooks) Hooks {
	var out Hooks
	for _, h := range hs {
		out.OnTick = chain(out.OnTick, h.OnTick)
		out.OnInstanceStarted = chain(out.OnInstanceStarted, h.OnInstanceStarted)
		out.OnInstanceCompleted = chain(out.OnInstanceCompleted, h.OnInstanceCompleted)
		out.OnLaneReverted = chain(out.OnLaneReverted, h.OnLaneReverted)
		out.OnError = chain(out.OnError, h.OnError)
	}
	return out
}

func chain[T any](a, b func(T)) func(T) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(v T) {
		a(v)
		b(v)
	}
}

// appliedLane records a lane's value from before any animation touched it.
type appliedLane struct {
	sink Sink
	base Value
}

type controlKey struct {
	scope any
	name  string
}

// Manager owns every running StoryboardInstance, advances them once per
// tick, composes their contributions per lane and writes the results.
//
// A Manager is not safe for concurrent use; drive it from one update loop
// with a non-decreasing clock.
type Manager struct {
	instances    []*StoryboardInstance
	lanes        map[LaneKey]*appliedLane
	laneOrder    []LaneKey
	controllable map[controlKey]*StoryboardInstance

	sequence uint64
	now      time.Duration

	resolver PathResolver
	logger   *slog.Logger
	hooks    Hooks
	debug    bool
	minSpeed float64

	// Per-tick scratch space.
	pending   map[LaneKey][]LaneContribution
	seenOrder []LaneKey
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithDebug logs per-tick stats at debug level.
func WithDebug(enabled bool) Option {
	return func(m *Manager) { m.debug = enabled }
}

// WithPathResolver replaces DefaultPathResolver.
func WithPathResolver(r PathResolver) Option {
	return func(m *Manager) {
		if r != nil {
			m.resolver = r
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(h Hooks) Option {
	return func(m *Manager) { m.hooks = h }
}

// WithMinSpeedRatio changes the floor applied to speed ratios (default 0.01).
func WithMinSpeedRatio(floor float64) Option {
	return func(m *Manager) {
		if floor > 0 {
			m.minSpeed = floor
		}
	}
}

// NewManager creates an idle scheduler at time zero.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		lanes:        make(map[LaneKey]*appliedLane),
		controllable: make(map[controlKey]*StoryboardInstance),
		pending:      make(map[LaneKey][]LaneContribution),
		resolver:     DefaultPathResolver,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		minSpeed:     minSpeedRatio,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CurrentTime returns the time passed to the last Update.
func (m *Manager) CurrentTime() time.Duration { return m.now }

// HasRunningAnimations reports whether any instance is still alive or any
// lane still awaits reversion.
func (m *Manager) HasRunningAnimations() bool {
	return len(m.instances) > 0 || len(m.lanes) > 0
}

// Instances returns the live instances. The returned slice MUST NOT be mutated.
func (m *Manager) Instances() []*StoryboardInstance { return m.instances }

// ActiveLanes returns the number of lanes currently driven by animations.
func (m *Manager) ActiveLanes() int { return len(m.lanes) }

// BaseValue returns the value captured for key before animations touched it.
func (m *Manager) BaseValue(key LaneKey) (Value, bool) {
	if l, ok := m.lanes[key]; ok {
		return l.base, true
	}
	return Value{}, false
}

// ReserveSequence allocates the next composition order number. Not safe for
// concurrent callers, like the rest of the manager.
func (m *Manager) ReserveSequence() uint64 {
	m.sequence++
	return m.sequence
}

// BeginOptions controls how Begin starts a storyboard.
type BeginOptions struct {
	// ControlName registers the instance for TryResolveControllable when
	// Controllable is set.
	ControlName  string
	Controllable bool
	// ResolveName is consulted before the scope when resolving target names.
	ResolveName ResolveNameFunc
	Handoff     HandoffBehavior
}

// Begin starts a new playback of sb against scope at the current time.
func (m *Manager) Begin(sb *Storyboard, scope any, opts BeginOptions) *StoryboardInstance {
	inst := &StoryboardInstance{
		manager:     m,
		storyboard:  sb,
		scope:       scope,
		resolve:     opts.ResolveName,
		controlName: opts.ControlName,
		startedAt:   m.now,
		speedRatio:  1,
	}
	inst.Start(opts.Handoff)
	m.instances = append(m.instances, inst)
	if opts.Controllable && opts.ControlName != "" {
		m.controllable[controlKey{scope, opts.ControlName}] = inst
	}
	m.logger.Debug("storyboard started",
		"entries", len(inst.entries), "control", opts.ControlName, "handoff", opts.Handoff)
	if m.hooks.OnInstanceStarted != nil {
		m.hooks.OnInstanceStarted(inst)
	}
	return inst
}

// BeginStoryboard starts sb with the given handoff and no registration.
func (m *Manager) BeginStoryboard(sb *Storyboard, scope any, handoff HandoffBehavior) *StoryboardInstance {
	return m.Begin(sb, scope, BeginOptions{Handoff: handoff})
}

// TryResolveControllable returns the instance registered under scope and name.
func (m *Manager) TryResolveControllable(scope any, name string) (*StoryboardInstance, bool) {
	inst, ok := m.controllable[controlKey{scope, name}]
	return inst, ok
}

// RemoveFromLane stops the entry on key in every instance except keep. An
// instance left with no running entries completes, even while paused.
func (m *Manager) RemoveFromLane(key LaneKey, keep *StoryboardInstance) {
	for _, inst := range m.instances {
		if inst == keep || inst.completed {
			continue
		}
		running := 0
		for _, e := range inst.entries {
			if !e.stopped && e.key == key {
				e.stop()
			}
			if !e.stopped {
				running++
			}
		}
		if running == 0 {
			inst.completed = true
		}
	}
}

// matching yields the live instances playing sb against scope.
func (m *Manager) matching(sb *Storyboard, scope any, fn func(*StoryboardInstance)) {
	for _, inst := range m.instances {
		if inst.storyboard == sb && inst.scope == scope {
			fn(inst)
		}
	}
}

// Pause pauses every instance of sb on scope.
func (m *Manager) Pause(sb *Storyboard, scope any) {
	m.matching(sb, scope, func(i *StoryboardInstance) { i.Pause(m.now) })
}

// Resume resumes every instance of sb on scope.
func (m *Manager) Resume(sb *Storyboard, scope any) {
	m.matching(sb, scope, func(i *StoryboardInstance) { i.Resume(m.now) })
}

// Stop stops every instance of sb on scope.
func (m *Manager) Stop(sb *Storyboard, scope any) {
	m.matching(sb, scope, (*StoryboardInstance).Stop)
}

// Remove removes every instance of sb on scope; their lanes revert on the
// next tick.
func (m *Manager) Remove(sb *Storyboard, scope any) {
	m.matching(sb, scope, (*StoryboardInstance).Remove)
}

// Seek seeks every instance of sb on scope.
func (m *Manager) Seek(sb *Storyboard, scope any, offset time.Duration, origin SeekOrigin) error {
	var errs []error
	m.matching(sb, scope, func(i *StoryboardInstance) {
		if err := i.Seek(offset, origin, m.now); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

// SetSpeedRatio changes the speed of every instance of sb on scope.
func (m *Manager) SetSpeedRatio(sb *Storyboard, scope any, ratio float64) {
	m.matching(sb, scope, func(i *StoryboardInstance) { i.SetSpeedRatio(ratio) })
}

// Update advances the scheduler to now: every instance is advanced, then
// every lane is composed and written, then completed instances are swept.
func (m *Manager) Update(now time.Duration) {
	m.now = now
	stats := TickStats{Now: now, Instances: len(m.instances)}

	t0 := time.Now()
	for _, inst := range m.instances {
		stats.Entries += len(inst.entries)
		if err := inst.Update(now); err != nil {
			stats.Failures++
			m.fail(err)
		}
	}
	stats.AdvanceTime = time.Since(t0)
	t0 = time.Now()

	m.collect(&stats)
	m.revertIdle(&stats)
	m.compose(&stats)
	stats.ActiveLanes = len(m.lanes)
	stats.ComposeTime = time.Since(t0)

	stats.Completed = m.sweep()

	m.debugLog(stats)
	if m.hooks.OnTick != nil {
		m.hooks.OnTick(stats)
	}
}

// collect groups this tick's contributions by lane, keeping first-seen order.
func (m *Manager) collect(stats *TickStats) {
	clear(m.pending)
	m.seenOrder = m.seenOrder[:0]
	for _, inst := range m.instances {
		for _, e := range inst.entries {
			c, ok := e.TryGetContribution()
			if !ok {
				continue
			}
			stats.Contributions++
			list, seen := m.pending[c.Key]
			if !seen {
				m.seenOrder = append(m.seenOrder, c.Key)
			}
			m.pending[c.Key] = append(list, c)
		}
	}
}

// revertIdle restores the base value of every lane without contributions.
func (m *Manager) revertIdle(stats *TickStats) {
	kept := m.laneOrder[:0]
	for _, k := range m.laneOrder {
		if len(m.pending[k]) > 0 {
			kept = append(kept, k)
			continue
		}
		lane := m.lanes[k]
		delete(m.lanes, k)
		lane.sink.Clear(lane.base)
		stats.RevertedLanes++
		if m.hooks.OnLaneReverted != nil {
			m.hooks.OnLaneReverted(k)
		}
	}
	m.laneOrder = kept
}

// compose writes the composed value of every active lane. A failing lane is
// reported and skipped; the other lanes are still written.
func (m *Manager) compose(stats *TickStats) {
	for _, k := range m.seenOrder {
		list := m.pending[k]
		lane, ok := m.lanes[k]
		if !ok {
			lane = &appliedLane{sink: list[0].Sink, base: list[0].Sink.Get()}
			m.lanes[k] = lane
			m.laneOrder = append(m.laneOrder, k)
		}
		slices.SortStableFunc(list, func(a, b LaneContribution) int {
			switch {
			case a.Sequence < b.Sequence:
				return -1
			case a.Sequence > b.Sequence:
				return 1
			}
			return 0
		})
		v, err := Convert(ComposeValue(lane.base, list), lane.sink.Type())
		if err != nil {
			stats.Failures++
			m.fail(fmt.Errorf("compose lane %s: %w", k, err))
			continue
		}
		lane.sink.Set(v)
	}
}

// sweep drops completed instances and their registrations. Completion hooks
// run after the instance list is compacted, so a hook may Begin again.
func (m *Manager) sweep() int {
	var done []*StoryboardInstance
	kept := m.instances[:0]
	for _, inst := range m.instances {
		if !inst.completed {
			kept = append(kept, inst)
			continue
		}
		done = append(done, inst)
		if inst.controlName != "" {
			key := controlKey{inst.scope, inst.controlName}
			if m.controllable[key] == inst {
				delete(m.controllable, key)
			}
		}
	}
	clear(m.instances[len(kept):])
	m.instances = kept

	if m.hooks.OnInstanceCompleted != nil {
		for _, inst := range done {
			m.hooks.OnInstanceCompleted(inst)
		}
	}
	return len(done)
}

func (m *Manager) fail(err error) {
	m.logger.Warn("animation tick failed", "err", err)
	if m.hooks.OnError != nil {
		m.hooks.OnError(err)
	}
}
