package flappy

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Pipe is a vertical obstacle with a gap for the bird to pass through.
type Pipe struct {
	X         float64 // Left edge, in cells
	GapY      int     // Top row of the gap
	GapHeight int
	Passed    bool // Gap trigger already fired
}

// Col returns the pipe's left edge on the cell grid.
func (p Pipe) Col() int {
	return int(math.Floor(p.X))
}

// TopRect returns the collision rectangle for the upper pipe half.
func (p Pipe) TopRect(pipeWidth int) core.Rect {
	return core.NewRect(p.Col(), 0, pipeWidth, p.GapY)
}

// BottomRect returns the collision rectangle for the lower pipe half,
// which reaches down to the ground row.
func (p Pipe) BottomRect(pipeWidth, groundY int) core.Rect {
	bottomY := p.GapY + p.GapHeight
	return core.NewRect(p.Col(), bottomY, pipeWidth, groundY-bottomY)
}

// GapRect returns the trigger volume between the two halves.
func (p Pipe) GapRect(pipeWidth int) core.Rect {
	return core.NewRect(p.Col(), p.GapY, pipeWidth, p.GapHeight)
}

// PipeManager handles spawning, movement, and removal of pipes.
type PipeManager struct {
	pipes      []Pipe
	rng        *rand.Rand
	screenW    int
	groundY    int // Row of the ground line; pipes end above it
	cfg        config.FlappyObstacles
	baseSpeed  float64
	difficulty *config.DifficultyManager
}

// NewPipeManager creates a pipe manager for a playfield of the given size.
func NewPipeManager(seed int64, screenW, screenH int, cfg config.FlappyConfig, diff *config.DifficultyManager) *PipeManager {
	pm := &PipeManager{
		pipes:      make([]Pipe, 0, 8),
		cfg:        cfg.Obstacles,
		baseSpeed:  cfg.Physics.BaseSpeed,
		difficulty: diff,
	}
	pm.UpdateScreenSize(screenW, screenH)
	pm.Reset(seed)
	return pm
}

// Reset clears all pipes and reseeds the RNG.
func (pm *PipeManager) Reset(seed int64) {
	pm.pipes = pm.pipes[:0]
	pm.rng = rand.New(rand.NewSource(seed))
}

// UpdateScreenSize updates the playfield dimensions. Existing pipes keep
// their columns and are clipped against the new ground.
func (pm *PipeManager) UpdateScreenSize(screenW, screenH int) {
	pm.screenW = screenW
	pm.groundY = max(screenH-1, 0)
}

// Update scrolls pipes left by one step and spawns new ones as needed.
// It returns the gap triggers the bird cleared this step.
func (pm *PipeManager) Update(dt float64, bird core.Rect, score, ticks int) []Collider {
	speed := pm.difficulty.Speed(pm.baseSpeed, score, ticks)
	for i := range pm.pipes {
		pm.pipes[i].X -= speed * dt
	}

	width := pm.cfg.PipeWidth

	var cleared []Collider
	for i := range pm.pipes {
		p := &pm.pipes[i]
		if !p.Passed && p.Col()+width <= bird.X {
			p.Passed = true
			cleared = append(cleared, Collider{Kind: ColliderGap, Rect: p.GapRect(width)})
		}
	}

	// Drop pipes that have scrolled off the left edge
	kept := pm.pipes[:0]
	for _, p := range pm.pipes {
		if p.Col()+width > 0 {
			kept = append(kept, p)
		}
	}
	pm.pipes = kept

	spacing := pm.difficulty.Spacing(pm.cfg.PipeSpacing, score, ticks)
	if len(pm.pipes) == 0 || pm.pipes[len(pm.pipes)-1].X < float64(pm.screenW-spacing) {
		pm.spawnPipe(score, ticks)
	}

	return cleared
}

// spawnPipe creates a new pipe just past the right edge.
func (pm *PipeManager) spawnPipe(score, ticks int) {
	minGap := pm.cfg.MinGapSize
	currentGap := max(pm.difficulty.GapSize(pm.cfg.MaxGapSize, score, ticks), minGap)

	gapHeight := minGap
	if gapRange := currentGap - minGap; gapRange > 0 {
		gapHeight = minGap + pm.rng.Intn(gapRange+1)
	}

	minGapY := pm.cfg.TopMargin
	maxGapY := pm.groundY - pm.cfg.BottomMargin - gapHeight
	if maxGapY < minGapY {
		maxGapY = minGapY // Very small playfields
	}

	gapY := minGapY
	if maxGapY > minGapY {
		gapY = minGapY + pm.rng.Intn(maxGapY-minGapY+1)
	}

	pm.pipes = append(pm.pipes, Pipe{
		X:         float64(pm.screenW),
		GapY:      gapY,
		GapHeight: gapHeight,
	})
}

// Pipes returns the current pipes, oldest first.
func (pm *PipeManager) Pipes() []Pipe {
	return pm.pipes
}

// Collisions returns every pipe half the bird overlaps.
func (pm *PipeManager) Collisions(bird core.Rect) []Collider {
	width := pm.cfg.PipeWidth
	var hits []Collider
	for _, p := range pm.pipes {
		if top := p.TopRect(width); bird.Intersects(top) {
			hits = append(hits, Collider{Kind: ColliderPipe, Rect: top})
		}
		if bottom := p.BottomRect(width, pm.groundY); bird.Intersects(bottom) {
			hits = append(hits, Collider{Kind: ColliderPipe, Rect: bottom})
		}
	}
	return hits
}
