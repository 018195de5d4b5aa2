package flappy

import "github.com/vovakirdan/tui-flappy/internal/core"

// ColliderKind identifies what the bird touched.
type ColliderKind int

const (
	ColliderGround ColliderKind = iota
	ColliderCeiling
	ColliderPipe
	ColliderGap // Trigger volume between two pipe halves
)

// String returns a human-readable name for the collider.
func (k ColliderKind) String() string {
	switch k {
	case ColliderGround:
		return "ground"
	case ColliderCeiling:
		return "ceiling"
	case ColliderPipe:
		return "pipe"
	case ColliderGap:
		return "gap"
	default:
		return "unknown"
	}
}

// Collider is a solid body or trigger volume in the playfield.
type Collider struct {
	Kind ColliderKind
	Rect core.Rect
}

// Behaviour is a piece of game logic driven by the game loop.
// Init runs on every reset, Tick once per simulation step, and the
// collision hooks whenever the bird hits a solid or enters a trigger.
type Behaviour interface {
	Init(s *Session)
	Tick(s *Session, dt float64, in core.InputFrame)
	OnCollision(s *Session, other Collider)
	OnTrigger(s *Session, other Collider)
}
