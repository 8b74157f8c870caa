package motion

import (
	"time"

	"github.com/tanema/gween/ease"
)

// The Tween helpers build one-off storyboards that move a node's properties
// from wherever they are to a target. The node is bound by pointer, so any
// scope works when beginning them.

// TweenPosition animates node.X and node.Y to (toX, toY).
func TweenPosition(node *Node, toX, toY float64, duration time.Duration, fn ease.TweenFunc) *Storyboard {
	return TweenOf(node, &PointAnimation{
		Timeline: Timeline{Duration: DurationOf(duration), TargetProperty: "Position"},
		To:       &Point{toX, toY},
		Easing:   TweenEasing(fn),
	})
}

// TweenScale animates node.ScaleX and node.ScaleY to (toSX, toSY).
func TweenScale(node *Node, toSX, toSY float64, duration time.Duration, fn ease.TweenFunc) *Storyboard {
	return TweenOf(node, &PointAnimation{
		Timeline: Timeline{Duration: DurationOf(duration), TargetProperty: "Scale"},
		To:       &Point{toSX, toSY},
		Easing:   TweenEasing(fn),
	})
}

// TweenColor animates all four channels of node.Color to the target color.
func TweenColor(node *Node, to Color, duration time.Duration, fn ease.TweenFunc) *Storyboard {
	return TweenOf(node, &ColorAnimation{
		Timeline: Timeline{Duration: DurationOf(duration), TargetProperty: "Color"},
		To:       &to,
		Easing:   TweenEasing(fn),
	})
}

// TweenAlpha animates node.Alpha to the target value.
func TweenAlpha(node *Node, to float64, duration time.Duration, fn ease.TweenFunc) *Storyboard {
	return TweenOf(node, &DoubleAnimation{
		Timeline: Timeline{Duration: DurationOf(duration), TargetProperty: "Alpha"},
		To:       &to,
		Easing:   TweenEasing(fn),
	})
}

// TweenRotation animates node.Rotation to the target value.
func TweenRotation(node *Node, to float64, duration time.Duration, fn ease.TweenFunc) *Storyboard {
	return TweenOf(node, &DoubleAnimation{
		Timeline: Timeline{Duration: DurationOf(duration), TargetProperty: "Rotation"},
		To:       &to,
		Easing:   TweenEasing(fn),
	})
}

// TweenOf wraps a single leaf in a storyboard bound to node. Like any
// HoldEnd timeline, a finished tween keeps the node at its final value until
// the instance is stopped or removed.
func TweenOf(node *Node, leaf AnimationTimeline) *Storyboard {
	return &Storyboard{Children: []Child{Bind(node, leaf)}}
}

// Bind makes leaf animate target directly, bypassing name resolution.
func Bind(target any, leaf AnimationTimeline) AnimationTimeline {
	return &boundTimeline{AnimationTimeline: leaf, target: target}
}

type boundTimeline struct {
	AnimationTimeline
	target any
}

func (b *boundTimeline) boundTarget() any { return b.target }
