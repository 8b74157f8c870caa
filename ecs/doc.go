// Package ecs publishes motion scheduler activity into a [Donburi] world.
//
// [Hooks] returns manager hooks that queue typed events for every started
// or completed storyboard instance and every reverted lane. Subscribe in
// your ECS systems and drain the queues once per frame:
//
//	scene := motion.NewScene(motion.WithHooks(ecs.Hooks(world)))
//	ecs.InstanceCompletedEvent.Subscribe(world, onDone)
//	...
//	scene.Update(dt)
//	events.ProcessAllEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
