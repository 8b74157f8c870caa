package ecs

import (
	"time"

	"github.com/phanxgames/motion"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InstanceEvent describes a storyboard instance at a lifecycle edge.
type InstanceEvent struct {
	Instance    *motion.StoryboardInstance
	Storyboard  *motion.Storyboard
	ControlName string
	// At is the scheduler time the instance started.
	At time.Duration
}

// InstanceStartedEvent fires when Begin starts an instance.
var InstanceStartedEvent = events.NewEventType[InstanceEvent]()

// InstanceCompletedEvent fires when a completed instance is swept.
var InstanceCompletedEvent = events.NewEventType[InstanceEvent]()

// LaneRevertedEvent fires when a lane is restored to its base value.
var LaneRevertedEvent = events.NewEventType[motion.LaneKey]()

// ErrorEvent carries evaluation and conversion failures.
var ErrorEvent = events.NewEventType[error]()

// Hooks returns manager hooks that publish into world. Combine them with
// other observers through motion.MergeHooks.
func Hooks(world donburi.World) motion.Hooks {
	return motion.Hooks{
		OnInstanceStarted: func(inst *motion.StoryboardInstance) {
			InstanceStartedEvent.Publish(world, instanceEvent(inst))
		},
		OnInstanceCompleted: func(inst *motion.StoryboardInstance) {
			InstanceCompletedEvent.Publish(world, instanceEvent(inst))
		},
		OnLaneReverted: func(key motion.LaneKey) {
			LaneRevertedEvent.Publish(world, key)
		},
		OnError: func(err error) {
			ErrorEvent.Publish(world, err)
		},
	}
}

func instanceEvent(inst *motion.StoryboardInstance) InstanceEvent {
	return InstanceEvent{
		Instance:    inst,
		Storyboard:  inst.Storyboard(),
		ControlName: inst.ControlName(),
		At:          inst.StartedAt(),
	}
}
