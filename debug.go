package motion

import (
	"fmt"
	"log/slog"
	"time"
)

// TickStats holds per-tick counters. Passed to Hooks.OnTick and logged at
// debug level when the manager runs in debug mode.
type TickStats struct {
	Now           time.Duration
	Instances     int
	Entries       int
	Contributions int
	ActiveLanes   int
	RevertedLanes int
	Completed     int
	Failures      int
	AdvanceTime   time.Duration
	ComposeTime   time.Duration
}

// debugLog prints timing and lane stats through the manager's logger.
func (m *Manager) debugLog(stats TickStats) {
	if !m.debug {
		return
	}
	m.logger.Debug("tick",
		slog.Duration("now", stats.Now),
		slog.Int("instances", stats.Instances),
		slog.Int("entries", stats.Entries),
		slog.Int("contributions", stats.Contributions),
		slog.Int("lanes", stats.ActiveLanes),
		slog.Int("reverted", stats.RevertedLanes),
		slog.Int("completed", stats.Completed),
		slog.Duration("advance", stats.AdvanceTime),
		slog.Duration("compose", stats.ComposeTime),
	)
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. debugLogger is
// that scene's logger.
var (
	globalDebug bool
	debugLogger = slog.New(slog.DiscardHandler)
)

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("motion debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogger.Warn("motion: tree depth exceeds threshold",
			"depth", depth, "threshold", debugMaxTreeDepth, "node", n.Name)
	}
}
