package flappy

import (
	"math"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// hoverAmplitude and hoverFrequency shape the idle bob before the first flap.
const (
	hoverAmplitude = 0.5 // cells
	hoverFrequency = 1.5 // Hz
)

// BirdController moves the bird: a flap replaces the vertical velocity with
// the jump impulse, gravity pulls it down, and any solid ends the round.
type BirdController struct {
	physics config.FlappyPhysics
	player  config.FlappyPlayer

	y      float64 // Top of hitbox, in cells
	vel    float64 // cells/s, positive is down
	spawnY float64
	idle   float64 // seconds spent hovering
}

// NewBirdController creates a bird using the given physics and hitbox.
func NewBirdController(physics config.FlappyPhysics, player config.FlappyPlayer) *BirdController {
	return &BirdController{physics: physics, player: player}
}

// SetSpawn sets the height the bird hovers at before the first flap.
func (b *BirdController) SetSpawn(y float64) {
	b.spawnY = y
}

// Init places the bird at its spawn point at rest.
func (b *BirdController) Init(_ *Session) {
	b.y = b.spawnY
	b.vel = 0
	b.idle = 0
}

// Tick applies input and physics for one step.
func (b *BirdController) Tick(s *Session, dt float64, in core.InputFrame) {
	if in.Has(core.ActionJump) {
		s.Started = true
		b.vel = b.physics.JumpImpulse
	}

	if !s.Started {
		b.idle += dt
		b.y = b.spawnY + hoverAmplitude*math.Sin(2*math.Pi*hoverFrequency*b.idle)
		return
	}

	b.vel += b.physics.Gravity * dt
	if b.vel > b.physics.MaxFallSpeed {
		b.vel = b.physics.MaxFallSpeed
	}
	b.y += b.vel * dt
}

// OnCollision ends the round on any solid.
func (b *BirdController) OnCollision(s *Session, other Collider) {
	switch other.Kind {
	case ColliderCeiling:
		b.y = 0
		b.vel = 0
	case ColliderGround:
		b.y = float64(other.Rect.Y - b.player.Height)
		b.vel = 0
	}
	s.GameOver = true
}

// OnTrigger scores a point for each gap flown through.
func (b *BirdController) OnTrigger(s *Session, other Collider) {
	if other.Kind == ColliderGap {
		s.Points++
	}
}

// Rect returns the bird's hitbox on the cell grid.
func (b *BirdController) Rect() core.Rect {
	return core.NewRect(b.player.X, int(math.Floor(b.y)), b.player.Width, b.player.Height)
}

// Y returns the bird's vertical position in cells.
func (b *BirdController) Y() float64 {
	return b.y
}

// Velocity returns the bird's vertical velocity in cells per second.
func (b *BirdController) Velocity() float64 {
	return b.vel
}
