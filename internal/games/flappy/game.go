// Package flappy implements a Flappy Bird-style game.
// The player flaps a bird through gaps in scrolling pipes; each gap is a point
// and touching a pipe, the ground or the ceiling ends the round.
package flappy

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// GameID is the identifier used for score storage.
const GameID = "flappy"

// Visual characters for rendering
const (
	BirdBody      = '●'
	BirdBeak      = '▶'
	PipeChar      = '█'
	PipeCapTop    = '▄'
	PipeCapBottom = '▀'
	GroundChar    = '═'
)

// Game wires the behaviours to a playfield and implements core.Game.
type Game struct {
	cfg        config.FlappyConfig
	difficulty *config.DifficultyManager
	runtime    core.RuntimeConfig

	session    Session
	bird       *BirdController
	pipes      *PipeManager
	points     *PointsDisplay
	best       *PointsDisplay
	behaviours []Behaviour
}

var _ core.Game = (*Game)(nil)

// New creates a game with the given configuration.
func New(cfg config.FlappyConfig) *Game {
	g := &Game{
		cfg:        cfg,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		bird:       NewBirdController(cfg.Physics, cfg.Player),
		points:     NewPointsDisplay(false),
		best:       NewPointsDisplay(true),
	}
	g.behaviours = []Behaviour{g.bird, g.points, g.best}
	return g
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Flappy Bird"
}

// SetHighScore tells the game the best stored score for the HUD.
func (g *Game) SetHighScore(score int) {
	g.session.HighScore = score
	g.best.refresh(&g.session)
}

// Reset starts a new round on a playfield of cfg.ScreenW x cfg.ScreenH.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.runtime = cfg
	g.session.reset()

	if g.pipes == nil {
		g.pipes = NewPipeManager(cfg.Seed, cfg.ScreenW, cfg.ScreenH, g.cfg, g.difficulty)
	} else {
		g.pipes.UpdateScreenSize(cfg.ScreenW, cfg.ScreenH)
		g.pipes.Reset(cfg.Seed)
	}

	g.bird.SetSpawn(g.spawnY())
	for _, b := range g.behaviours {
		b.Init(&g.session)
	}
}

// Resize adapts to a new playfield size. Before the first flap the round is
// simply re-laid out; afterwards pipes keep scrolling on the new field.
func (g *Game) Resize(w, h int) {
	if w == g.runtime.ScreenW && h == g.runtime.ScreenH {
		return
	}
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
	g.pipes.UpdateScreenSize(w, h)
	g.bird.SetSpawn(g.spawnY())
	if !g.session.Started {
		g.bird.Init(&g.session)
	}
}

func (g *Game) spawnY() float64 {
	return float64(g.groundY()-g.cfg.Player.Height) / 2.0
}

func (g *Game) groundY() int {
	return max(g.runtime.ScreenH-1, 0)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.session.GameOver {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && g.session.Started {
		g.session.Paused = !g.session.Paused
	}
	if g.session.Paused {
		return core.StepResult{State: g.State()}
	}

	dt := g.runtime.Dt()
	for _, b := range g.behaviours {
		b.Tick(&g.session, dt, in)
	}
	if !g.session.Started {
		return core.StepResult{State: g.State()}
	}
	g.session.Ticks++

	for _, gap := range g.pipes.Update(dt, g.bird.Rect(), g.session.Points, g.session.Ticks) {
		g.trigger(gap)
	}

	g.resolveCollisions()
	return core.StepResult{State: g.State()}
}

// resolveCollisions reports the first solid the bird touches this tick.
func (g *Game) resolveCollisions() {
	bird := g.bird.Rect()

	if g.bird.Y() < 0 {
		g.collide(Collider{Kind: ColliderCeiling, Rect: core.NewRect(0, -1, g.runtime.ScreenW, 1)})
		return
	}

	groundY := g.groundY()
	if bird.Bottom() > groundY {
		g.collide(Collider{Kind: ColliderGround, Rect: core.NewRect(0, groundY, g.runtime.ScreenW, 1)})
		return
	}

	if hits := g.pipes.Collisions(bird); len(hits) > 0 {
		g.collide(hits[0])
	}
}

func (g *Game) collide(c Collider) {
	for _, b := range g.behaviours {
		b.OnCollision(&g.session, c)
	}
}

func (g *Game) trigger(c Collider) {
	for _, b := range g.behaviours {
		b.OnTrigger(&g.session, c)
	}
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if dst.Width() == 0 || dst.Height() == 0 {
		return
	}

	groundY := dst.Height() - 1
	dst.DrawHLine(0, groundY, dst.Width(), GroundChar, core.ColorGreen)

	for _, p := range g.pipes.Pipes() {
		g.drawPipe(dst, p, groundY)
	}

	bird := g.bird.Rect()
	for dy := 0; dy < bird.H; dy++ {
		for dx := 0; dx < bird.W; dx++ {
			r := BirdBody
			if dx == bird.W-1 && dy == 0 {
				r = BirdBeak
			}
			dst.SetColor(bird.X+dx, bird.Y+dy, r, core.ColorBrightYellow)
		}
	}

	// HUD
	dst.DrawTextCentered(0, g.points.Text(), core.ColorBrightWhite)
	if g.cfg.Display.ShowHighScore {
		hi := "HI " + g.best.Text()
		dst.DrawTextColor(dst.Width()-utf8.RuneCountInString(hi), 0, hi, core.ColorGray)
	}

	switch {
	case g.session.GameOver:
		g.drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Score %d", g.session.Points), "R restart")
	case g.session.Paused:
		g.drawCenteredMessage(dst, "PAUSED", "P resume")
	case !g.session.Started:
		dst.DrawTextCentered(dst.Height()/3, "SPACE to flap", core.ColorCyan)
	}
}

// drawPipe renders a single pipe with caps facing the gap.
func (g *Game) drawPipe(dst *core.Screen, p Pipe, groundY int) {
	width := g.cfg.Obstacles.PipeWidth
	x0 := p.Col()

	for y := 0; y < p.GapY; y++ {
		dst.DrawHLine(x0, y, width, PipeChar, core.ColorGreen)
	}
	if p.GapY > 0 {
		dst.DrawHLine(x0, p.GapY-1, width, PipeCapTop, core.ColorBrightGreen)
	}

	bottomY := p.GapY + p.GapHeight
	for y := bottomY; y < groundY; y++ {
		dst.DrawHLine(x0, y, width, PipeChar, core.ColorGreen)
	}
	if bottomY < groundY {
		dst.DrawHLine(x0, bottomY, width, PipeCapBottom, core.ColorBrightGreen)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, lines ...string) {
	boxW := 0
	for _, l := range lines {
		boxW = max(boxW, utf8.RuneCountInString(l))
	}
	boxW = min(boxW+4, dst.Width())
	boxH := min(len(lines)+2, dst.Height())
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorWhite)
	for i, l := range lines {
		x := box.X + (boxW-utf8.RuneCountInString(l))/2
		dst.DrawTextColor(x, box.Y+1+i, l, core.ColorBrightWhite)
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.session.Points,
		Started:  g.session.Started,
		GameOver: g.session.GameOver,
		Paused:   g.session.Paused,
	}
}

// Session returns a copy of the round state.
func (g *Game) Session() Session {
	return g.session
}
