// Package gfx runs the game in a desktop window through Ebitengine. The
// cell playfield is rasterized offscreen at its design aspect ratio and
// scaled into the fitted part of the window; the rest is painted as bars.
package gfx

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/storage"
	"github.com/vovakirdan/tui-flappy/internal/viewport"
)

// Glyph size of the ebitenutil debug font.
const (
	glyphW = 6
	glyphH = 16
)

// DefaultRows is the playfield height in cells.
const DefaultRows = 24

var (
	barColor = color.RGBA{0x12, 0x12, 0x16, 0xff}
	bgColor  = color.RGBA{0x4e, 0xc0, 0xca, 0xff}
)

var cellColors = map[core.Color]color.RGBA{
	core.ColorDefault:      {0xdd, 0xdd, 0xdd, 0xff},
	core.ColorGreen:        {0x3c, 0x9a, 0x2e, 0xff},
	core.ColorYellow:       {0xd8, 0xa8, 0x1c, 0xff},
	core.ColorCyan:         {0x3a, 0xb8, 0xc8, 0xff},
	core.ColorWhite:        {0xe0, 0xe0, 0xe0, 0xff},
	core.ColorBrightGreen:  {0x73, 0xbf, 0x2e, 0xff},
	core.ColorBrightYellow: {0xf8, 0xd8, 0x48, 0xff},
	core.ColorBrightWhite:  {0xff, 0xff, 0xff, 0xff},
	core.ColorOrange:       {0xe8, 0x6a, 0x17, 0xff},
	core.ColorGray:         {0x8a, 0x7a, 0x5a, 0xff},
}

// Options configures a Window.
type Options struct {
	Display  config.DisplayConfig
	Rows     int // Playfield height in cells; 0 means DefaultRows
	TickRate int
	Seed     int64
	Width    int // Initial window size in pixels
	Height   int
	Store    *storage.Store // nil disables score persistence
	Logger   *log.Logger
	Player   string
}

// Window hosts a game as an ebiten.Game.
type Window struct {
	game   core.Game
	screen *core.Screen
	store  *storage.Store
	logger *log.Logger
	player string

	runtime   core.RuntimeConfig
	cellW     int
	cellH     int
	surface   viewport.Size
	dest      viewport.Rect // fitted rect in window pixels
	fitter    *viewport.Fitter
	offscreen *ebiten.Image

	input      func() core.InputFrame
	state      core.GameState
	scoreSaved bool
}

// GridSize returns the playfield size in cells for the given height, such
// that cols*1 : rows*cellAspect matches the target aspect ratio.
func GridSize(d config.DisplayConfig, rows int) (cols int) {
	if rows <= 0 || !d.AspectRatio.Valid() || d.CellAspect <= 0 {
		return 0
	}
	return max(1, int(math.Round(float64(rows)*d.CellAspect*d.AspectRatio.Ratio())))
}

// CellSize returns the pixel size of one offscreen cell. Cells are at least
// one debug glyph in size and keep the configured cell aspect, so the
// rasterized grid has the same shape as the target ratio.
func CellSize(d config.DisplayConfig) (w, h int) {
	w = max(d.CellPixels, glyphW)
	if d.CellAspect <= 0 {
		return w, max(w, glyphH)
	}
	if float64(w)*d.CellAspect < glyphH {
		w = int(math.Ceil(glyphH / d.CellAspect))
	}
	return w, int(math.Round(float64(w) * d.CellAspect))
}

// NewWindow creates a window host and fits it to the initial window size.
func NewWindow(game core.Game, opts Options) (*Window, error) {
	rows := opts.Rows
	if rows <= 0 {
		rows = DefaultRows
	}
	cols := GridSize(opts.Display, rows)
	if cols == 0 {
		return nil, fmt.Errorf("gfx: %w", viewport.ErrInvalidAspectRatio)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cellW, cellH := CellSize(opts.Display)

	w := &Window{
		game:   game,
		screen: core.NewScreen(cols, rows),
		store:  opts.Store,
		logger: logger,
		player: opts.Player,
		runtime: core.RuntimeConfig{
			ScreenW:  cols,
			ScreenH:  rows,
			TickRate: opts.TickRate,
			Seed:     seed,
		},
		cellW:   cellW,
		cellH:   cellH,
		surface: viewport.Size{W: float64(opts.Width), H: float64(opts.Height)},
		input:   pressedActions,
	}

	fitter, err := viewport.New(opts.Display.AspectRatio,
		viewport.SurfaceFunc(func() viewport.Size { return w.surface }),
		viewport.SinkFunc(w.setViewport),
		viewport.WithEpsilon(opts.Display.Epsilon),
		viewport.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("gfx: %w", err)
	}
	w.fitter = fitter
	w.fitter.Init()

	game.Reset(w.runtime)
	w.loadHighScore()
	w.state = game.State()
	return w, nil
}

// setViewport stores the fitted rect scaled to the window.
func (w *Window) setViewport(r viewport.Rect) {
	x, y, dw, dh := r.Pixels(w.surface)
	w.dest = viewport.Rect{X: x, Y: y, W: dw, H: dh}
	w.logger.Debug("window viewport",
		"surface", fmt.Sprintf("%.0fx%.0f", w.surface.W, w.surface.H),
		"dest", fmt.Sprintf("%.1fx%.1f+%.1f+%.1f", dw, dh, x, y),
	)
}

// Layout records the window size as the fitter's surface and draws at
// native resolution.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	w.surface = viewport.Size{W: float64(outsideWidth), H: float64(outsideHeight)}
	return outsideWidth, outsideHeight
}

// Update runs one frame: refit, read input, step the game.
func (w *Window) Update() error {
	w.fitter.Tick()

	in := w.input()
	if in.Has(core.ActionQuit) {
		return ebiten.Termination
	}

	if in.Has(core.ActionRestart) && w.state.GameOver {
		w.runtime.Seed = time.Now().UnixNano()
		w.game.Reset(w.runtime)
		w.loadHighScore()
		w.state = w.game.State()
		w.scoreSaved = false
		return nil
	}

	w.state = w.game.Step(in).State
	if w.state.GameOver && !w.scoreSaved {
		w.saveScore()
		w.scoreSaved = true
	}
	return nil
}

// Draw paints bars over the whole window and the playfield into the
// fitted rect.
func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(barColor)

	w.game.Render(w.screen)
	field := w.rasterize()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w.dest.W/float64(field.Bounds().Dx()), w.dest.H/float64(field.Bounds().Dy()))
	op.GeoM.Translate(w.dest.X, w.dest.Y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(field, op)
}

// rasterize draws the cell grid into the offscreen image. Printable ASCII
// is drawn as text; any other rune is a solid block in its cell color.
func (w *Window) rasterize() *ebiten.Image {
	fw, fh := w.screen.Width()*w.cellW, w.screen.Height()*w.cellH
	if w.offscreen == nil || w.offscreen.Bounds().Dx() != fw || w.offscreen.Bounds().Dy() != fh {
		w.offscreen = ebiten.NewImage(fw, fh)
	}
	img := w.offscreen
	img.Fill(bgColor)

	for y := range w.screen.Height() {
		for x := range w.screen.Width() {
			cell := w.screen.GetCell(x, y)
			if cell.Rune == ' ' || cell.Rune == 0 {
				continue
			}
			px, py := x*w.cellW, y*w.cellH
			if cell.Rune < 0x80 {
				ebitenutil.DebugPrintAt(img, string(cell.Rune),
					px+(w.cellW-glyphW)/2, py+(w.cellH-glyphH)/2)
				continue
			}
			clr, ok := cellColors[cell.Color]
			if !ok {
				clr = cellColors[core.ColorDefault]
			}
			vector.DrawFilledRect(img, float32(px), float32(py),
				float32(w.cellW), float32(w.cellH), clr, false)
		}
	}
	return img
}

func (w *Window) loadHighScore() {
	hs, ok := w.game.(interface{ SetHighScore(int) })
	if !ok || w.store == nil {
		return
	}
	high, err := w.store.HighScore(w.game.ID())
	if err != nil {
		w.logger.Warn("could not load high score", "error", err)
		return
	}
	hs.SetHighScore(high)
}

func (w *Window) saveScore() {
	score := w.state.Score
	w.logger.Info("game over", "player", w.player, "score", score)
	if w.store == nil || score <= 0 {
		return
	}
	if _, err := w.store.SaveScore(w.game.ID(), w.player, score); err != nil {
		w.logger.Warn("could not save score", "error", err)
	}
}

// Dest returns the playfield rectangle in window pixels.
func (w *Window) Dest() viewport.Rect {
	return w.dest
}

// Viewport returns the normalized fitted rect.
func (w *Window) Viewport() viewport.Rect {
	return w.fitter.Rect()
}

// pressedActions reads the keys pressed since the last frame.
func pressedActions() core.InputFrame {
	in := core.NewInputFrame()
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) ||
		inpututil.IsKeyJustPressed(ebiten.KeyW) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		in.Set(core.ActionJump)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		in.Set(core.ActionPause)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		in.Set(core.ActionRestart)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		in.Set(core.ActionQuit)
	}
	return in
}

// Run opens a resizable window and blocks until it is closed.
func Run(game core.Game, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 540, 960
	}
	w, err := NewWindow(game, opts)
	if err != nil {
		return err
	}

	ebiten.SetWindowTitle(game.Title())
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if opts.TickRate > 0 {
		ebiten.SetTPS(opts.TickRate)
	}

	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("gfx: %w", err)
	}
	return nil
}
