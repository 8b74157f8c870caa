package motion

import (
	"bytes"
	"errors"
	"log/slog"
	"slices"
	"testing"
	"time"
	"weak"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ms = time.Millisecond

// fixture is a root node with one named child for storyboards to target.
type fixture struct {
	m    *Manager
	root *Node
	box  *Node
}

func weakNode(n *Node) weak.Pointer[Node] { return weak.Make(n) }

func newFixture(opts ...Option) *fixture {
	root := NewNode("root")
	box := NewNode("box")
	root.AddChild(box)
	return &fixture{m: NewManager(opts...), root: root, box: box}
}

func linearX(from, to float64, d time.Duration) *DoubleAnimation {
	return &DoubleAnimation{
		Timeline: Timeline{Duration: DurationOf(d), TargetName: "box", TargetProperty: "X"},
		From:     Ptr(from),
		To:       Ptr(to),
	}
}

func TestLinearAnimationMidpoint(t *testing.T) {
	f := newFixture()
	f.m.BeginStoryboard(NewStoryboard(linearX(0, 100, time.Second)), f.root, HandoffCompose)

	f.m.Update(500 * ms)
	assert.InDelta(t, 50, f.box.X, 1e-9)
	assert.True(t, f.box.Dirty())
}

func TestRepeatAutoReverse(t *testing.T) {
	f := newFixture()
	a := linearX(0, 100, time.Second)
	a.AutoReverse = true
	a.Repeat = RepeatCount(2)
	inst := f.m.BeginStoryboard(NewStoryboard(a), f.root, HandoffCompose)

	f.m.Update(500 * ms)
	assert.InDelta(t, 50, f.box.X, 1e-9)
	f.m.Update(time.Second)
	assert.InDelta(t, 100, f.box.X, 1e-9)
	f.m.Update(3500 * ms)
	assert.InDelta(t, 50, f.box.X, 1e-9)

	f.m.Update(5 * time.Second)
	assert.InDelta(t, 0, f.box.X, 1e-9, "autoreversed animation holds its start value")
	assert.False(t, inst.IsCompleted(), "HoldEnd keeps the instance alive")
}

func TestFractionalRepeatHoldsPartialValue(t *testing.T) {
	f := newFixture()
	a := linearX(0, 100, time.Second)
	a.Repeat = RepeatCount(1.5)
	f.m.BeginStoryboard(NewStoryboard(a), f.root, HandoffCompose)

	f.m.Update(1200 * ms)
	assert.InDelta(t, 20, f.box.X, 1e-9)
	f.m.Update(3 * time.Second)
	assert.InDelta(t, 50, f.box.X, 1e-9)
}

func TestRepeatForDuration(t *testing.T) {
	f := newFixture()
	a := linearX(0, 100, time.Second)
	a.Repeat = RepeatFor(2500 * ms)
	a.Fill = FillStop
	inst := f.m.BeginStoryboard(NewStoryboard(a), f.root, HandoffCompose)

	f.m.Update(2250 * ms)
	assert.InDelta(t, 25, f.box.X, 1e-9)
	f.m.Update(2600 * ms)
	assert.True(t, inst.IsCompleted())
	assert.Equal(t, 0.0, f.box.X)
}

func TestForeverNeverCompletes(t *testing.T) {
	f := newFixture()
	a := linearX(0, 100, time.Second)
	a.Repeat = Forever
	inst := f.m.BeginStoryboard(NewStoryboard(a), f.root, HandoffCompose)

	f.m.Update(100*time.Second + 250*ms)
	assert.InDelta(t, 25, f.box.X, 1e-6)
	assert.False(t, inst.IsCompleted())
	assert.Equal(t, time.Second, inst.TotalDuration())
}

func TestHoldEndKeepsFinalValue(t *testing.T) {
	f := newFixture()
	inst := f.m.BeginStoryboard(NewStoryboard(linearX(0, 100, time.Second)), f.root, HandoffCompose)

	f.m.Update(2 * time.Second)
	assert.Equal(t, 100.0, f.box.X)
	p, active := inst.Entries()[0].Progress()
	assert.Equal(t, 1.0, p)
	assert.False(t, active)
	assert.Equal(t, 1, f.m.ActiveLanes())
}

func TestLaneRevertsToBaseAfterStop(t *testing.T) {
	var reverted []LaneKey
	f := newFixture(WithHooks(Hooks{OnLaneReverted: func(k LaneKey) { reverted = append(reverted, k) }}))
	f.box.X = 7
	a := linearX(0, 100, time.Second)
	a.Fill = FillStop
	f.m.BeginStoryboard(NewStoryboard(a), f.root, HandoffCompose)

	f.m.Update(500 * ms)
	assert.Equal(t, 50.0, f.box.X)
	base, ok := f.m.BaseValue(LaneKey{Target: weakNode(f.box), Property: "X"})
	require.True(t, ok)
	assert.Equal(t, Number(7), base)

	f.m.Update(1500 * ms)
	assert.Equal(t, 7.0, f.box.X)
	assert.Len(t, reverted, 1)
	assert.Equal(t, 0, f.m.ActiveLanes())
	assert.False(t, f.m.HasRunningAnimations())
}

func TestRemoveRevertsOnNextTick(t *testing.T) {
	f := newFixture()
	f.box.X = 3
	sb := NewStoryboard(linearX(0, 100, time.Second))
	f.m.BeginStoryboard(sb, f.root, HandoffCompose)
	f.m.Update(500 * ms)
	assert.Equal(t, 50.0, f.box.X)

	f.m.Remove(sb, f.root)
	assert.Equal(t, 50.0, f.box.X, "sinks are untouched until the next tick")
	f.m.Update(600 * ms)
	assert.Equal(t, 3.0, f.box.X)
	assert.Empty(t, f.m.Instances())
}

func TestComposeHandoffLayersDeltas(t *testing.T) {
	f := newFixture()
	f.m.BeginStoryboard(NewStoryboard(linearX(0, 100, time.Second)), f.root, HandoffCompose)
	f.m.BeginStoryboard(NewStoryboard(linearX(0, 10, time.Second)), f.root, HandoffCompose)

	f.m.Update(500 * ms)
	assert.InDelta(t, 55, f.box.X, 1e-9)
}

func TestSnapshotAndReplaceStopsOtherEntries(t *testing.T) {
	f := newFixture()
	first := f.m.BeginStoryboard(NewStoryboard(linearX(0, 100, time.Second)), f.root, HandoffCompose)
	f.m.Update(500 * ms)
	require.Equal(t, 50.0, f.box.X)

	next := &DoubleAnimation{
		Timeline: Timeline{Duration: DurationOf(time.Second), TargetName: "box", TargetProperty: "X"},
		To:       Ptr(200.0),
	}
	second := f.m.BeginStoryboard(NewStoryboard(next), f.root, HandoffSnapshotAndReplace)
	assert.True(t, first.Entries()[0].IsStopped())
	assert.Equal(t, Number(50), second.Entries()[0].Origin())

	f.m.Update(time.Second)
	assert.InDelta(t, 125, f.box.X, 1e-9)
	assert.True(t, first.IsCompleted())
	assert.Len(t, f.m.Instances(), 1)

	base, _ := f.m.BaseValue(LaneKey{Target: weakNode(f.box), Property: "X"})
	assert.Equal(t, Number(0), base, "handoff keeps the lane's original base")
}

func TestSnapshotAndReplaceLeavesOtherLanes(t *testing.T) {
	f := newFixture()
	y := &DoubleAnimation{
		Timeline: Timeline{Duration: DurationOf(time.Second), TargetName: "box", TargetProperty: "Y"},
		To:       Ptr(10.0),
	}
	first := f.m.BeginStoryboard(NewStoryboard(linearX(0, 100, time.Second), y), f.root, HandoffCompose)
	f.m.BeginStoryboard(NewStoryboard(linearX(0, 1, time.Second)), f.root, HandoffSnapshotAndReplace)

	assert.False(t, first.IsCompleted())
	assert.True(t, first.Entries()[0].IsStopped())
	assert.False(t, first.Entries()[1].IsStopped())
}

func TestPauseResumePreservesPhase(t *testing.T) {
	f := newFixture()
	sb := NewStoryboard(linearX(0, 100, time.Second))
	inst := f.m.BeginStoryboard(sb, f.root, HandoffCompose)

	f.m.Update(250 * ms)
	f.m.Pause(sb, f.root)
	require.True(t, inst.IsPaused())
	f.m.Update(time.Second)
	assert.InDelta(t, 25, f.box.X, 1e-9, "paused instance keeps contributing")

	f.m.Resume(sb, f.root)
	assert.Equal(t, 750*ms, inst.PausedDuration())
	f.m.Update(1250 * ms)
	assert.InDelta(t, 50, f.box.X, 1e-9)
}

func TestSeek(t *testing.T) {
	f := newFixture()
	sb := NewStoryboard(linearX(0, 100, time.Second))
	f.m.BeginStoryboard(sb, f.root, HandoffCompose)

	require.NoError(t, f.m.Seek(sb, f.root, 750*ms, SeekFromBeginning))
	f.m.Update(0)
	assert.InDelta(t, 75, f.box.X, 1e-9)

	f.m.Update(100 * ms)
	require.NoError(t, f.m.Seek(sb, f.root, 900*ms, SeekFromEnd))
	f.m.Update(100 * ms)
	assert.InDelta(t, 10, f.box.X, 1e-9)
}

func TestSeekWhilePausedStaysPaused(t *testing.T) {
	f := newFixture()
	sb := NewStoryboard(linearX(0, 100, time.Second))
	inst := f.m.BeginStoryboard(sb, f.root, HandoffCompose)
	f.m.Update(100 * ms)
	f.m.Pause(sb, f.root)
	f.m.Update(400 * ms)

	require.NoError(t, f.m.Seek(sb, f.root, 600*ms, SeekFromBeginning))
	f.m.Update(900 * ms)
	assert.InDelta(t, 60, f.box.X, 1e-9)

	f.m.Resume(sb, f.root)
	assert.Equal(t, 500*ms, inst.PausedDuration())
	f.m.Update(time.Second)
	assert.InDelta(t, 70, f.box.X, 1e-9)
}

func TestSpeedRatio(t *testing.T) {
	f := newFixture()
	sb := NewStoryboard(linearX(0, 100, time.Second))
	f.m.BeginStoryboard(sb, f.root, HandoffCompose)
	f.m.SetSpeedRatio(sb, f.root, 2)

	f.m.Update(250 * ms)
	assert.InDelta(t, 50, f.box.X, 1e-9)
}

func TestNestedOffsetAndSpeed(t *testing.T) {
	f := newFixture()
	f.box.X = -1
	sb := &Storyboard{
		Timeline: Timeline{BeginTime: time.Second, SpeedRatio: 2},
		Children: []Child{linearX(0, 100, time.Second)},
	}
	f.m.BeginStoryboard(sb, f.root, HandoffCompose)

	f.m.Update(900 * ms)
	assert.Equal(t, -1.0, f.box.X, "nothing contributes before the begin time")
	assert.Equal(t, 0, f.m.ActiveLanes())

	f.m.Update(1250 * ms)
	assert.InDelta(t, 50, f.box.X, 1e-9)
}

func TestLeafSpeedRatioAndBeginTime(t *testing.T) {
	f := newFixture()
	a := linearX(0, 100, time.Second)
	a.BeginTime = 500 * ms
	a.SpeedRatio = 0.5
	f.m.BeginStoryboard(NewStoryboard(a), f.root, HandoffCompose)

	f.m.Update(1500 * ms)
	assert.InDelta(t, 50, f.box.X, 1e-9)
}

func TestUnresolvedLeafIsSkipped(t *testing.T) {
	f := newFixture()
	missing := linearX(0, 1, time.Second)
	missing.TargetName = "nope"
	badProp := linearX(0, 1, time.Second)
	badProp.TargetProperty = "Nope"
	inst := f.m.BeginStoryboard(NewStoryboard(missing, badProp, linearX(0, 100, time.Second)), f.root, HandoffCompose)

	require.Len(t, inst.Entries(), 1)
	f.m.Update(500 * ms)
	assert.Equal(t, 50.0, f.box.X)
}

func TestFullyUnresolvedStoryboardCompletes(t *testing.T) {
	f := newFixture()
	a := linearX(0, 1, time.Second)
	a.TargetName = "nope"
	inst := f.m.BeginStoryboard(NewStoryboard(a), f.root, HandoffCompose)
	assert.True(t, inst.IsCompleted())
	f.m.Update(0)
	assert.Empty(t, f.m.Instances())
}

func TestZeroDuration(t *testing.T) {
	f := newFixture()
	hold := linearX(0, 100, 0)
	f.m.BeginStoryboard(NewStoryboard(hold), f.root, HandoffCompose)
	f.m.Update(0)
	assert.Equal(t, 100.0, f.box.X)

	g := newFixture()
	stop := linearX(0, 100, 0)
	stop.Fill = FillStop
	inst := g.m.BeginStoryboard(NewStoryboard(stop), g.root, HandoffCompose)
	g.m.Update(0)
	assert.Equal(t, 0.0, g.box.X)
	assert.True(t, inst.IsCompleted())
}

func TestControllableRegistration(t *testing.T) {
	f := newFixture()
	a := linearX(0, 100, time.Second)
	a.Fill = FillStop
	inst := f.m.Begin(NewStoryboard(a), f.root, BeginOptions{ControlName: "slide", Controllable: true})

	got, ok := f.m.TryResolveControllable(f.root, "slide")
	require.True(t, ok)
	assert.Same(t, inst, got)
	_, ok = f.m.TryResolveControllable(f.box, "slide")
	assert.False(t, ok)

	f.m.Update(2 * time.Second)
	_, ok = f.m.TryResolveControllable(f.root, "slide")
	assert.False(t, ok, "completed instances are unregistered")
}

func TestNotControllableIsNotRegistered(t *testing.T) {
	f := newFixture()
	f.m.Begin(NewStoryboard(linearX(0, 1, time.Second)), f.root, BeginOptions{ControlName: "slide"})
	_, ok := f.m.TryResolveControllable(f.root, "slide")
	assert.False(t, ok)
}

func TestResolveNameTakesPrecedence(t *testing.T) {
	f := newFixture()
	other := NewNode("elsewhere")
	f.m.Begin(NewStoryboard(linearX(0, 100, time.Second)), f.root, BeginOptions{
		ResolveName: func(name string) any {
			if name == "box" {
				return other
			}
			return nil
		},
	})
	f.m.Update(500 * ms)
	assert.Equal(t, 50.0, other.X)
	assert.Equal(t, 0.0, f.box.X)
}

func TestStructTargetThroughNameScope(t *testing.T) {
	type panel struct {
		Width  float64
		Margin Thickness
	}
	p := &panel{Width: 10}
	scope := NewNameScope(nil)
	scope.Register("panel", p)
	f := newFixture()
	f.root.SetNameScope(scope)

	w := &DoubleAnimation{
		Timeline: Timeline{Duration: DurationOf(time.Second), TargetName: "panel", TargetProperty: "Width"},
		To:       Ptr(20.0),
	}
	m := &ThicknessAnimation{
		Timeline: Timeline{Duration: DurationOf(time.Second), TargetName: "panel", TargetProperty: "Margin"},
		To:       Ptr(UniformThickness(8)),
	}
	f.m.BeginStoryboard(NewStoryboard(w, m), f.root, HandoffCompose)
	f.m.Update(500 * ms)
	assert.Equal(t, 15.0, p.Width)
	assert.Equal(t, UniformThickness(4), p.Margin)
}

func TestConversionFailureIsIsolated(t *testing.T) {
	var errs []error
	f := newFixture(WithHooks(Hooks{OnError: func(err error) { errs = append(errs, err) }}))
	bad := &ColorAnimation{
		Timeline: Timeline{Duration: DurationOf(time.Second), TargetName: "box", TargetProperty: "X"},
		To:       &Color{255, 0, 0, 255},
	}
	f.m.BeginStoryboard(NewStoryboard(bad, linearX(0, 100, time.Second)), f.root, HandoffCompose)
	y := &DoubleAnimation{
		Timeline: Timeline{Duration: DurationOf(time.Second), TargetName: "box", TargetProperty: "Y"},
		To:       Ptr(10.0),
	}
	f.m.BeginStoryboard(NewStoryboard(y), f.root, HandoffCompose)

	f.m.Update(500 * ms)
	require.NotEmpty(t, errs)
	assert.True(t, errors.Is(errs[0], ErrConversion))
	assert.Equal(t, 50.0, f.box.X)
	assert.Equal(t, 5.0, f.box.Y)
}

func TestHooksAndTickStats(t *testing.T) {
	var started, completed int
	var last TickStats
	f := newFixture(WithHooks(Hooks{
		OnInstanceStarted:   func(*StoryboardInstance) { started++ },
		OnInstanceCompleted: func(*StoryboardInstance) { completed++ },
		OnTick:              func(s TickStats) { last = s },
	}))
	a := linearX(0, 100, time.Second)
	a.Fill = FillStop
	f.m.BeginStoryboard(NewStoryboard(a), f.root, HandoffCompose)
	assert.Equal(t, 1, started)

	f.m.Update(500 * ms)
	assert.Equal(t, 500*ms, last.Now)
	assert.Equal(t, 1, last.Instances)
	assert.Equal(t, 1, last.Entries)
	assert.Equal(t, 1, last.Contributions)
	assert.Equal(t, 1, last.ActiveLanes)

	f.m.Update(2 * time.Second)
	assert.Equal(t, 1, completed)
	assert.Equal(t, 1, last.Completed)
	assert.Equal(t, 1, last.RevertedLanes)
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f := newFixture(WithLogger(logger), WithDebug(true))
	f.m.BeginStoryboard(NewStoryboard(linearX(0, 1, time.Second)), f.root, HandoffCompose)
	f.m.Update(10 * ms)
	assert.Contains(t, buf.String(), "msg=tick")
	assert.Contains(t, buf.String(), "lanes=1")
}

func TestMinSpeedRatioOption(t *testing.T) {
	f := newFixture(WithMinSpeedRatio(0.5))
	a := linearX(0, 100, time.Second)
	a.SpeedRatio = 0.1
	f.m.BeginStoryboard(NewStoryboard(a), f.root, HandoffCompose)
	f.m.Update(time.Second)
	assert.InDelta(t, 50, f.box.X, 1e-9)
}

func TestWithPathResolver(t *testing.T) {
	p := &struct{ Value float64 }{}
	f := newFixture(WithPathResolver(PathResolverFunc(func(target any, path string) (Sink, bool) {
		s, ok := NewStructSink(p, "Value")
		return s, ok
	})))
	f.m.BeginStoryboard(NewStoryboard(linearX(0, 100, time.Second)), f.root, HandoffCompose)
	f.m.Update(500 * ms)
	assert.Equal(t, 50.0, p.Value)
	assert.Equal(t, 0.0, f.box.X)
}

func TestInstancesRunIndependently(t *testing.T) {
	f := newFixture()
	sb := NewStoryboard(linearX(0, 100, time.Second))
	other := NewNode("holder")
	otherBox := NewNode("box")
	other.AddChild(otherBox)

	f.m.BeginStoryboard(sb, f.root, HandoffCompose)
	f.m.Update(500 * ms)
	f.m.BeginStoryboard(sb, other, HandoffCompose)
	f.m.Update(750 * ms)

	assert.InDelta(t, 75, f.box.X, 1e-9)
	assert.InDelta(t, 25, otherBox.X, 1e-9)

	f.m.Pause(sb, other)
	f.m.Update(time.Second)
	assert.InDelta(t, 100, f.box.X, 1e-9)
	assert.InDelta(t, 25, otherBox.X, 1e-9)
}

func TestMergeHooks(t *testing.T) {
	var order []string
	errA := errors.New("a")
	merged := MergeHooks(
		Hooks{OnError: func(err error) { order = append(order, "first:"+err.Error()) }},
		Hooks{},
		Hooks{
			OnError: func(err error) { order = append(order, "second:"+err.Error()) },
			OnTick:  func(TickStats) { order = append(order, "tick") },
		},
	)
	require.NotNil(t, merged.OnError)
	assert.Nil(t, merged.OnInstanceStarted)

	merged.OnError(errA)
	merged.OnTick(TickStats{})
	assert.Equal(t, []string{"first:a", "second:a", "tick"}, order)
}

func TestBeginFromCompletionHook(t *testing.T) {
	var f *fixture
	var chained *StoryboardInstance
	f = newFixture(WithHooks(Hooks{OnInstanceCompleted: func(*StoryboardInstance) {
		if chained == nil {
			chained = f.m.Begin(NewStoryboard(linearX(500, 600, time.Second)), f.root,
				BeginOptions{ControlName: "next", Controllable: true})
		}
	}}))
	short := linearX(0, 100, 100*ms)
	short.Fill = FillStop
	f.m.BeginStoryboard(NewStoryboard(short), f.root, HandoffCompose)

	f.m.Update(150 * ms)
	require.NotNil(t, chained)
	assert.Equal(t, []*StoryboardInstance{chained}, f.m.Instances())
	got, ok := f.m.TryResolveControllable(f.root, "next")
	require.True(t, ok)
	assert.Same(t, chained, got)

	f.m.Update(650 * ms)
	assert.InDelta(t, 550, f.box.X, 1e-9)
}

func TestReplacingPausedInstanceCompletesIt(t *testing.T) {
	f := newFixture()
	first := f.m.BeginStoryboard(NewStoryboard(linearX(0, 100, time.Second)), f.root, HandoffCompose)
	f.m.Update(200 * ms)
	first.Pause(f.m.CurrentTime())

	next := linearX(0, 10, 100*ms)
	next.Fill = FillStop
	f.m.BeginStoryboard(NewStoryboard(next), f.root, HandoffSnapshotAndReplace)
	assert.True(t, first.IsCompleted(), "no running entries left")
	assert.True(t, first.IsPaused())

	f.m.Update(250 * ms)
	assert.Len(t, f.m.Instances(), 1)
	f.m.Update(400 * ms)
	f.m.Update(450 * ms)
	assert.Empty(t, f.m.Instances())
	assert.False(t, f.m.HasRunningAnimations())
}

func TestReserveSequenceIsStrictlyIncreasing(t *testing.T) {
	f := newFixture()
	prev := f.m.ReserveSequence()
	for range 10 {
		next := f.m.ReserveSequence()
		assert.Greater(t, next, prev)
		prev = next
	}

	a := f.m.BeginStoryboard(NewStoryboard(linearX(0, 1, time.Second), linearX(0, 2, time.Second)), f.root, HandoffCompose)
	b := f.m.BeginStoryboard(NewStoryboard(linearX(0, 3, time.Second)), f.root, HandoffCompose)
	assert.Greater(t, a.Entries()[0].Sequence(), prev)
	assert.Greater(t, a.Entries()[1].Sequence(), a.Entries()[0].Sequence())
	assert.Greater(t, b.Entries()[0].Sequence(), a.Entries()[1].Sequence())
}

func TestComposeFollowsSequenceNotCollectionOrder(t *testing.T) {
	f := newFixture()
	base := f.m.BeginStoryboard(NewStoryboard(linearX(0, 100, time.Second)), f.root, HandoffCompose)
	f.m.Update(500 * ms)
	layer := f.m.BeginStoryboard(NewStoryboard(&DoubleAnimation{
		Timeline: Timeline{Duration: DurationOf(time.Second), TargetName: "box", TargetProperty: "X"},
		By:       Ptr(10.0),
	}), f.root, HandoffCompose)
	require.Less(t, base.Entries()[0].Sequence(), layer.Entries()[0].Sequence())

	// Collect the later layer first.
	slices.Reverse(f.m.instances)
	f.m.Update(time.Second)
	assert.InDelta(t, 105, f.box.X, 1e-9, "base replaces, layer adds its delta")

	// Folded in collection order the layer would replace instead: 55 + 100.
	sorted := []LaneContribution{
		{Value: Number(100), Origin: Number(0), Sequence: 1},
		{Value: Number(55), Origin: Number(50), Sequence: 2},
	}
	assert.Equal(t, Number(105), ComposeValue(Number(0), sorted))
}
