package motion

import "time"

// Scene is the top-level object that owns the node tree, its root name
// scope and the one Manager that animates it. Whatever drives frames calls
// Update once per frame.
type Scene struct {
	root       *Node
	names      *NameScope
	animations *Manager
	clock      time.Duration
	debug      bool
}

// NewScene creates a scene with a root container named "root". opts
// configure the scene's Manager.
func NewScene(opts ...Option) *Scene {
	root := NewNode("root")
	names := NewNameScope(nil)
	root.SetNameScope(names)
	return &Scene{
		root:       root,
		names:      names,
		animations: NewManager(opts...),
	}
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node { return s.root }

// Names returns the root name scope. Objects registered here resolve even
// when they are not part of the node tree.
func (s *Scene) Names() *NameScope { return s.names }

// Animations returns the scene's scheduler.
func (s *Scene) Animations() *Manager { return s.animations }

// Now returns the scene clock.
func (s *Scene) Now() time.Duration { return s.clock }

// Update advances the scene clock by dt and ticks the scheduler. Negative
// steps are ignored so the clock never runs backwards.
func (s *Scene) Update(dt time.Duration) {
	if dt > 0 {
		s.clock += dt
	}
	s.animations.Update(s.clock)
}

// Begin starts sb with the scene root as scope.
func (s *Scene) Begin(sb *Storyboard, opts BeginOptions) *StoryboardInstance {
	return s.animations.Begin(sb, s.root, opts)
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// tree operations panic, deep trees are reported, and per-tick stats are
// logged at debug level. Debug reports go to the logger set with WithLogger.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	s.animations.debug = enabled
	globalDebug = enabled
	if enabled {
		debugLogger = s.animations.logger
	}
}
