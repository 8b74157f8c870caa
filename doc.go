// Package motion is a storyboard animation engine for retained object trees.
//
// A [Storyboard] is a tree of timelines. Its leaves are animations
// ([DoubleAnimation], [ColorAnimation], [PointKeyFrameAnimation], ...) that
// name a target object and a property path. A [Manager] plays storyboards:
// each playback is a [StoryboardInstance] with its own clock, and every tick
// the manager composes the values of all instances writing the same
// property before setting it once.
//
// # Quick start
//
// The simplest host is a [Scene], which owns a node tree, a name scope and
// a manager:
//
//	scene := motion.NewScene()
//	box := motion.NewNode("box")
//	scene.Root().AddChild(box)
//
//	sb := motion.NewStoryboard(&motion.DoubleAnimation{
//		Timeline: motion.Timeline{
//			Duration:       motion.DurationOf(time.Second),
//			TargetName:     "box",
//			TargetProperty: "X",
//		},
//		To: motion.Ptr(100.0),
//	})
//	scene.Begin(sb, motion.BeginOptions{})
//
//	// once per frame
//	scene.Update(dt)
//
// The driver sub-package runs a scene inside an Ebitengine game loop.
//
// # Targets and properties
//
// Names resolve through the [BeginOptions.ResolveName] callback, then the
// scope's [NameScope], then the scope's own FindName. A [Node] resolves the
// properties listed by [NodeProperties]; other targets can implement
// [SinkProvider] or expose exported struct fields, which are reached through
// dotted paths ("Frame.Margin").
//
// # Composition
//
// Contributions to one property are ordered by the sequence number their
// entry was created with. The first replaces the property's base value; each
// later one adds its delta from the value it started from, so a shake
// animation layers over a slide. Kinds with no arithmetic override instead.
// When no animation drives a property any more, the base value captured
// before the first animation touched it is written back.
//
// Starting a storyboard with [HandoffSnapshotAndReplace] stops every other
// entry on the lanes it touches; the new animation begins from wherever the
// property currently is.
//
// # Tweens
//
// [TweenPosition], [TweenScale], [TweenColor], [TweenAlpha] and
// [TweenRotation] build single-leaf storyboards bound to a node, with
// easing functions from github.com/tanema/gween/ease.
//
// # Debug mode
//
// [Scene.SetDebugMode] turns on disposed-node panics, tree depth warnings
// and per-tick [TickStats] logging through the manager's slog logger.
package motion
