package motion

import (
	"fmt"
	"math"
	"time"
)

// Duration is a timeline's simple duration. The zero value is Automatic:
// the timeline picks its own natural duration.
type Duration struct {
	d        time.Duration
	explicit bool
}

// Automatic lets the timeline choose its natural duration.
var Automatic = Duration{}

// DurationOf returns an explicit duration. Zero is valid and means the
// timeline completes instantly.
func DurationOf(d time.Duration) Duration {
	if d < 0 {
		d = 0
	}
	return Duration{d: d, explicit: true}
}

// IsAutomatic reports whether no explicit duration was set.
func (d Duration) IsAutomatic() bool { return !d.explicit }

// Value returns the explicit duration, or 0 when automatic.
func (d Duration) Value() time.Duration { return d.d }

func (d Duration) String() string {
	if !d.explicit {
		return "Automatic"
	}
	return d.d.String()
}

// defaultDuration is the natural duration of an automatic from/to animation.
const defaultDuration = time.Second

// RepeatBehavior describes how long a timeline's cycles repeat. The zero
// value plays one cycle.
type RepeatBehavior struct {
	count    float64
	duration time.Duration
	kind     repeatKind
}

type repeatKind uint8

const (
	repeatDefault repeatKind = iota
	repeatCount
	repeatDuration
	repeatForever
)

// RepeatCount repeats for n cycles, which may be fractional. Values <= 0
// play nothing.
func RepeatCount(n float64) RepeatBehavior {
	if n < 0 {
		n = 0
	}
	return RepeatBehavior{count: n, kind: repeatCount}
}

// RepeatFor repeats cycles until the given active duration elapses.
func RepeatFor(d time.Duration) RepeatBehavior {
	if d < 0 {
		d = 0
	}
	return RepeatBehavior{duration: d, kind: repeatDuration}
}

// Forever repeats indefinitely.
var Forever = RepeatBehavior{kind: repeatForever}

// IsForever reports whether the behavior never ends.
func (r RepeatBehavior) IsForever() bool { return r.kind == repeatForever }

// Count returns the repeat count; 1 for the zero value.
func (r RepeatBehavior) Count() float64 {
	switch r.kind {
	case repeatDefault:
		return 1
	case repeatCount:
		return r.count
	}
	return 0
}

// Duration returns the explicit repeat duration and whether one is set.
func (r RepeatBehavior) Duration() (time.Duration, bool) {
	return r.duration, r.kind == repeatDuration
}

func (r RepeatBehavior) String() string {
	switch r.kind {
	case repeatForever:
		return "Forever"
	case repeatDuration:
		return r.duration.String()
	}
	return fmt.Sprintf("%gx", r.Count())
}

// activeTicks returns the total active time of a timeline whose cycle is
// cycle long, in the timeline's own (scaled) nanoseconds.
func (r RepeatBehavior) activeTicks(cycle float64) float64 {
	switch r.kind {
	case repeatForever:
		return math.Inf(1)
	case repeatDuration:
		return float64(r.duration)
	}
	return cycle * r.Count()
}

// minSpeedRatio is the floor applied to every speed ratio in a tree.
const minSpeedRatio = 0.01

// clampSpeed maps an unset (zero) ratio to 1 and floors the rest.
func clampSpeed(r, floor float64) float64 {
	if r == 0 {
		return 1
	}
	if r < floor || math.IsNaN(r) {
		return floor
	}
	return r
}

// Timeline holds the timing attributes shared by leaf animations and
// storyboards.
type Timeline struct {
	// BeginTime offsets the start relative to the parent.
	BeginTime time.Duration
	// Duration of one forward pass. Ignored on storyboards.
	Duration Duration
	// SpeedRatio scales the passage of time. Zero means 1; anything below
	// 0.01 is clamped to 0.01.
	SpeedRatio  float64
	AutoReverse bool
	Repeat      RepeatBehavior
	Fill        FillBehavior

	// TargetName names the object to animate; empty inherits from the
	// enclosing storyboard, and empty all the way up targets the scope.
	TargetName string
	// TargetProperty is the property path resolved against the target.
	TargetProperty string
}

// Timing returns t, letting embedders satisfy Child.
func (t *Timeline) Timing() *Timeline { return t }

// Child is an element of a storyboard tree: an AnimationTimeline or a
// nested *Storyboard.
type Child interface {
	Timing() *Timeline
}

// AnimationTimeline is a leaf timeline that produces values.
type AnimationTimeline interface {
	Child
	// NaturalDuration is the length of one forward pass.
	NaturalDuration() time.Duration
	// CurrentValue evaluates the animation at progress in [0, 1]. origin is
	// the value the property had when the animation started; destination is
	// the value an open-ended animation runs toward.
	CurrentValue(origin, destination Value, progress float64) Value
}

// naturalDuration resolves an explicit or automatic duration.
func naturalDuration(t *Timeline, automatic time.Duration) time.Duration {
	if t.Duration.IsAutomatic() {
		return automatic
	}
	return t.Duration.Value()
}

// Storyboard groups timelines. Its BeginTime offsets every child and its
// SpeedRatio multiplies into every child's effective ratio. A storyboard is
// never mutated by playback and may run in many instances at once.
type Storyboard struct {
	Timeline
	Children []Child
}

// NewStoryboard returns a storyboard with the given children.
func NewStoryboard(children ...Child) *Storyboard {
	return &Storyboard{Children: children}
}

// Add appends children and returns the storyboard for chaining.
func (s *Storyboard) Add(children ...Child) *Storyboard {
	s.Children = append(s.Children, children...)
	return s
}

// leafDescriptor is one flattened leaf with its inherited timing.
type leafDescriptor struct {
	timeline          AnimationTimeline
	parentBeginOffset time.Duration
	parentSpeedRatio  float64
	targetName        string
	targetProperty    string
}

// flatten walks the tree depth-first with an explicit stack and returns
// leaves in document order. A storyboard nested inside itself is skipped.
func (s *Storyboard) flatten(floor float64) []leafDescriptor {
	type frame struct {
		sb       *Storyboard
		next     int
		offset   time.Duration
		speed    float64
		name     string
		property string
	}
	var out []leafDescriptor
	stack := []frame{{
		sb:       s,
		offset:   s.BeginTime,
		speed:    clampSpeed(s.SpeedRatio, floor),
		name:     s.TargetName,
		property: s.TargetProperty,
	}}
	onStack := func(sb *Storyboard) bool {
		for i := range stack {
			if stack[i].sb == sb {
				return true
			}
		}
		return false
	}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.sb.Children) {
			stack = stack[:len(stack)-1]
			continue
		}
		c := top.sb.Children[top.next]
		top.next++
		if c == nil {
			continue
		}
		f := *top
		t := c.Timing()
		name, property := f.name, f.property
		if t.TargetName != "" {
			name = t.TargetName
		}
		if t.TargetProperty != "" {
			property = t.TargetProperty
		}
		switch c := c.(type) {
		case *Storyboard:
			if onStack(c) {
				continue
			}
			stack = append(stack, frame{
				sb:       c,
				offset:   f.offset + c.BeginTime,
				speed:    f.speed * clampSpeed(c.SpeedRatio, floor),
				name:     name,
				property: property,
			})
		case AnimationTimeline:
			out = append(out, leafDescriptor{
				timeline:          c,
				parentBeginOffset: f.offset,
				parentSpeedRatio:  f.speed,
				targetName:        name,
				targetProperty:    property,
			})
		}
	}
	return out
}

// Leaf is a flattened animation with what it inherits from its ancestors.
type Leaf struct {
	Animation AnimationTimeline
	// BeginOffset is the sum of the ancestors' begin times.
	BeginOffset time.Duration
	// SpeedRatio is the product of the ancestors' speed ratios.
	SpeedRatio     float64
	TargetName     string
	TargetProperty string
}

// Leaves returns the storyboard's animations in document order.
func (s *Storyboard) Leaves() []Leaf {
	flat := s.flatten(minSpeedRatio)
	out := make([]Leaf, len(flat))
	for i, l := range flat {
		out[i] = Leaf{
			Animation:      l.timeline,
			BeginOffset:    l.parentBeginOffset,
			SpeedRatio:     l.parentSpeedRatio,
			TargetName:     l.targetName,
			TargetProperty: l.targetProperty,
		}
	}
	return out
}
