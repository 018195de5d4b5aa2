package flappy

import (
	"strconv"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// PointsDisplay is the score HUD. In high-score mode it shows the best of
// the stored score and the running points instead of the running points.
type PointsDisplay struct {
	highScore bool
	text      string
}

// NewPointsDisplay creates a HUD label.
func NewPointsDisplay(highScore bool) *PointsDisplay {
	return &PointsDisplay{highScore: highScore, text: "0"}
}

func (p *PointsDisplay) Init(s *Session) {
	p.text = "0"
	if p.highScore {
		p.text = strconv.Itoa(s.Best())
	}
}

func (p *PointsDisplay) Tick(s *Session, _ float64, _ core.InputFrame) {
	p.refresh(s)
}

func (p *PointsDisplay) OnCollision(s *Session, _ Collider) {
	p.refresh(s)
}

func (p *PointsDisplay) OnTrigger(s *Session, _ Collider) {
	p.refresh(s)
}

func (p *PointsDisplay) refresh(s *Session) {
	if p.highScore {
		p.text = strconv.Itoa(s.Best())
		return
	}
	p.text = strconv.Itoa(s.Points)
}

// Text returns the current label.
func (p *PointsDisplay) Text() string {
	return p.text
}
