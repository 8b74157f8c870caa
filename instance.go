package motion

import (
	"errors"
	"time"
)

// StoryboardInstance is one playback session started by Manager.Begin. It
// owns one entry per resolved leaf and the clock they share.
type StoryboardInstance struct {
	manager    *Manager
	storyboard *Storyboard
	scope      any
	resolve    ResolveNameFunc

	controlName string
	entries     []*AnimationLaneEntry

	startedAt      time.Duration
	pausedDuration time.Duration
	pauseStartedAt time.Duration
	speedRatio     float64
	paused         bool
	completed      bool
}

// Storyboard returns the definition being played.
func (s *StoryboardInstance) Storyboard() *Storyboard { return s.storyboard }

// Scope returns the object names were resolved against.
func (s *StoryboardInstance) Scope() any { return s.scope }

// ControlName returns the name the instance is registered under, if any.
func (s *StoryboardInstance) ControlName() string { return s.controlName }

// StartedAt returns the manager time the instance clock counts from.
func (s *StoryboardInstance) StartedAt() time.Duration { return s.startedAt }

// PausedDuration returns the pause time accumulated since the last seek.
func (s *StoryboardInstance) PausedDuration() time.Duration { return s.pausedDuration }

// SpeedRatio returns the instance-level speed multiplier.
func (s *StoryboardInstance) SpeedRatio() float64 { return s.speedRatio }

// IsPaused reports whether the instance clock is frozen.
func (s *StoryboardInstance) IsPaused() bool { return s.paused }

// IsCompleted reports whether every entry has stopped.
func (s *StoryboardInstance) IsCompleted() bool { return s.completed }

// Entries returns the instance's entries. The returned slice MUST NOT be mutated.
func (s *StoryboardInstance) Entries() []*AnimationLaneEntry { return s.entries }

// Start resolves every leaf and creates its entry. With
// HandoffSnapshotAndReplace, each lane is taken away from every other
// instance before the entry joins it.
func (s *StoryboardInstance) Start(handoff HandoffBehavior) {
	m := s.manager
	for _, leaf := range s.storyboard.flatten(m.minSpeed) {
		var target any
		if b, ok := leaf.timeline.(interface{ boundTarget() any }); ok {
			target = b.boundTarget()
		} else {
			target = resolveTarget(s.scope, leaf.targetName, s.resolve)
		}
		if target == nil {
			m.logger.Debug("skipping leaf with unresolved target",
				"target", leaf.targetName, "property", leaf.targetProperty)
			continue
		}
		sink, ok := m.resolver.ResolveSink(target, leaf.targetProperty)
		if !ok || sink == nil {
			m.logger.Debug("skipping leaf with unresolved property",
				"target", leaf.targetName, "property", leaf.targetProperty)
			continue
		}
		e := &AnimationLaneEntry{
			instance:          s,
			timeline:          leaf.timeline,
			sink:              sink,
			key:               sink.Key(),
			sequence:          m.ReserveSequence(),
			origin:            sink.Get(),
			parentBeginOffset: leaf.parentBeginOffset,
			parentSpeedRatio:  leaf.parentSpeedRatio,
		}
		e.speedRatio = s.entrySpeed(e)
		if handoff == HandoffSnapshotAndReplace {
			m.RemoveFromLane(e.key, s)
		}
		s.entries = append(s.entries, e)
	}
	if len(s.entries) == 0 {
		s.completed = true
	}
}

// entrySpeed combines the instance speed with the leaf's own ratio.
func (s *StoryboardInstance) entrySpeed(e *AnimationLaneEntry) float64 {
	r := s.speedRatio * clampSpeed(e.timeline.Timing().SpeedRatio, s.manager.minSpeed)
	if r < s.manager.minSpeed {
		r = s.manager.minSpeed
	}
	return r
}

// Update advances every entry to now. Paused and completed instances keep
// their last contributions.
func (s *StoryboardInstance) Update(now time.Duration) error {
	if s.completed || s.paused {
		return nil
	}
	return s.advance(now)
}

func (s *StoryboardInstance) advance(now time.Duration) error {
	var errs []error
	running := 0
	for _, e := range s.entries {
		e.speedRatio = s.entrySpeed(e)
		if err := e.Advance(now, s.pausedDuration); err != nil {
			errs = append(errs, err)
		}
		if !e.stopped {
			running++
		}
	}
	if running == 0 {
		s.completed = true
	}
	return errors.Join(errs...)
}

// Pause freezes the instance clock at now.
func (s *StoryboardInstance) Pause(now time.Duration) {
	if s.paused || s.completed {
		return
	}
	s.paused = true
	s.pauseStartedAt = now
}

// Resume restarts the clock. Time spent paused is excluded from every
// entry's elapsed time.
func (s *StoryboardInstance) Resume(now time.Duration) {
	if !s.paused {
		return
	}
	s.paused = false
	if now > s.pauseStartedAt {
		s.pausedDuration += now - s.pauseStartedAt
	}
}

// Stop stops every entry. The sinks keep their values until the manager
// notices the lanes went idle on its next tick.
func (s *StoryboardInstance) Stop() {
	s.stopAll()
}

// Remove stops every entry so the manager reverts each lane to its base
// value on the next tick.
func (s *StoryboardInstance) Remove() {
	s.stopAll()
}

func (s *StoryboardInstance) stopAll() {
	for _, e := range s.entries {
		e.stop()
	}
	s.completed = true
}

// SetSpeedRatio changes the instance-level speed multiplier.
func (s *StoryboardInstance) SetSpeedRatio(ratio float64) {
	s.speedRatio = clampSpeed(ratio, s.manager.minSpeed)
}

// TotalDuration is the latest end of any entry's active period on the
// instance clock.
func (s *StoryboardInstance) TotalDuration() time.Duration {
	var total time.Duration
	for _, e := range s.entries {
		if end := e.endTime(); end > total {
			total = end
		}
	}
	return total
}

// Seek moves the instance clock so that offset has elapsed at now, and
// re-advances every entry immediately. Pause time accumulated so far is
// discarded.
func (s *StoryboardInstance) Seek(offset time.Duration, origin SeekOrigin, now time.Duration) error {
	if origin == SeekFromEnd {
		offset = s.TotalDuration() - offset
	}
	if offset < 0 {
		offset = 0
	}
	s.startedAt = now - offset
	s.pausedDuration = 0
	if s.paused {
		s.pauseStartedAt = now
	}
	if s.completed {
		return nil
	}
	return s.advance(now)
}
