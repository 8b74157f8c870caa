package motion

import (
	"fmt"
	"math"
	"time"
)

// AnimationLaneEntry is the runtime state of one leaf timeline bound to one
// sink inside a StoryboardInstance. Entries go from running to stopped and
// never back.
type AnimationLaneEntry struct {
	instance *StoryboardInstance
	timeline AnimationTimeline
	sink     Sink
	key      LaneKey

	sequence          uint64
	origin            Value
	parentBeginOffset time.Duration
	parentSpeedRatio  float64
	speedRatio        float64

	stopped    bool
	hasValue   bool
	current    Value
	holding    bool
	heldValue  Value
	lastPhase  float64
	lastActive bool
}

// Sequence returns the entry's global composition order.
func (e *AnimationLaneEntry) Sequence() uint64 { return e.sequence }

// Key returns the lane the entry contributes to.
func (e *AnimationLaneEntry) Key() LaneKey { return e.key }

// Timeline returns the leaf timeline the entry plays.
func (e *AnimationLaneEntry) Timeline() AnimationTimeline { return e.timeline }

// Origin returns the sink value sampled when the entry was created.
func (e *AnimationLaneEntry) Origin() Value { return e.origin }

// IsStopped reports whether the entry reached its terminal state.
func (e *AnimationLaneEntry) IsStopped() bool { return e.stopped }

// Progress returns the phase computed on the last advance, after the
// autoreverse mapping and before any easing, and whether the entry was inside
// its active period.
func (e *AnimationLaneEntry) Progress() (float64, bool) { return e.lastPhase, e.lastActive }

// stop makes the entry terminal. Its lane reverts once nothing else
// contributes.
func (e *AnimationLaneEntry) stop() {
	e.stopped = true
	e.hasValue = false
	e.current = Value{}
}

// TryGetContribution returns the value produced by the last advance.
func (e *AnimationLaneEntry) TryGetContribution() (LaneContribution, bool) {
	if e.stopped || !e.hasValue {
		return LaneContribution{}, false
	}
	return LaneContribution{
		Key:      e.key,
		Sink:     e.sink,
		Sequence: e.sequence,
		Origin:   e.origin,
		Value:    e.current,
	}, true
}

// cycleTicks is the length of one full cycle, forward and back, in the
// timeline's own time.
func (e *AnimationLaneEntry) cycleTicks() float64 {
	d := float64(e.timeline.NaturalDuration())
	if e.timeline.Timing().AutoReverse {
		d *= 2
	}
	return d
}

// activeDuration returns how long the entry stays active on the instance
// clock, and false when it repeats forever.
func (e *AnimationLaneEntry) activeDuration() (time.Duration, bool) {
	cycle := e.cycleTicks()
	if cycle <= 0 {
		return 0, true
	}
	t := e.timeline.Timing()
	if t.Repeat.IsForever() {
		return 0, false
	}
	active := t.Repeat.activeTicks(cycle)
	speed := e.speedRatio * e.parentSpeedRatio
	return time.Duration(active / speed), true
}

// endTime is the instance-relative time at which the entry stops being
// active. Forever entries report one cycle.
func (e *AnimationLaneEntry) endTime() time.Duration {
	start := e.parentBeginOffset + e.timeline.Timing().BeginTime
	d, finite := e.activeDuration()
	if !finite {
		d = time.Duration(e.cycleTicks() / (e.speedRatio * e.parentSpeedRatio))
	}
	return start + d
}

// phase maps linear progress through the autoreverse triangle wave and
// clamps the result into [0, 1].
func phase(p float64, autoReverse bool) float64 {
	if autoReverse {
		if p <= 0.5 {
			p *= 2
		} else {
			p = 2 * (1 - p)
		}
	}
	return clamp01(p)
}

// Advance recomputes the entry's contribution for now. pausedDuration is the
// instance's accumulated pause time.
func (e *AnimationLaneEntry) Advance(now, pausedDuration time.Duration) error {
	if e.stopped {
		return nil
	}
	t := e.timeline.Timing()
	startAt := e.instance.startedAt + e.parentBeginOffset + t.BeginTime + pausedDuration
	elapsed := now - startAt
	if elapsed < 0 {
		e.hasValue = false
		e.lastActive = false
		return nil
	}

	cycle := e.cycleTicks()
	if cycle <= 0 {
		e.lastActive = false
		if t.Fill == FillStop {
			e.stop()
			return nil
		}
		return e.hold(1)
	}

	scaled := float64(elapsed) * e.speedRatio * e.parentSpeedRatio
	total := t.Repeat.activeTicks(cycle)
	if !math.IsInf(total, 1) && scaled >= total {
		e.lastActive = false
		if t.Fill == FillHoldEnd && total > 0 {
			return e.hold(phase(cycleProgress(total, cycle), t.AutoReverse))
		}
		e.stop()
		return nil
	}

	e.holding = false
	p := phase(cycleProgress(scaled, cycle), t.AutoReverse)
	e.lastPhase, e.lastActive = p, true
	return e.emit(p)
}

// cycleProgress is position within the current cycle. An exact, non-zero
// multiple of the cycle reports 1 so a finished cycle does not snap back.
func cycleProgress(ticks, cycle float64) float64 {
	r := math.Mod(ticks, cycle)
	if r == 0 && ticks > 0 {
		return 1
	}
	return r / cycle
}

// hold freezes the entry at progress p. The value is computed once and
// reused on later ticks.
func (e *AnimationLaneEntry) hold(p float64) error {
	e.lastPhase = p
	if e.holding {
		e.current, e.hasValue = e.heldValue, true
		return nil
	}
	if err := e.emit(p); err != nil {
		return err
	}
	e.holding = true
	e.heldValue = e.current
	return nil
}

func (e *AnimationLaneEntry) emit(p float64) error {
	v := e.timeline.CurrentValue(e.origin, e.origin, p)
	converted, err := Convert(v, e.sink.Type())
	if err != nil {
		e.hasValue = false
		return fmt.Errorf("lane %s: %w", e.key, err)
	}
	e.current, e.hasValue = converted, true
	return nil
}
