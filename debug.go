package corona

import (
	"time"
)

// debugStats holds per-frame timing and command metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	traverseTime time.Duration
	submitTime   time.Duration
	commandCount int
}

// debugLog reports frame stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	Logger().Debug("frame rendered",
		"traverse", stats.traverseTime,
		"submit", stats.submitTime,
		"total", stats.traverseTime+stats.submitTime,
		"commands", stats.commandCount,
		"objects", countObjects(s.currentStage),
		"orphans", s.orphanage.NumChildren(),
	)
}

// debugMaxTreeDepth is the depth beyond which Insert warns in debug mode.
const debugMaxTreeDepth = 32

// debugCheckTreeDepth warns if o sits deeper than debugMaxTreeDepth.
func debugCheckTreeDepth(o *Object) {
	depth := 0
	for p := o; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		Logger().Warn("display object tree is deep",
			"object", o.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

// countObjects returns the number of objects in the subtree rooted at o,
// including o.
func countObjects(o *Object) int {
	n := 1
	for _, c := range o.children {
		n += countObjects(c)
	}
	return n
}
