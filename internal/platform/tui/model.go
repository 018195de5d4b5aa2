package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/storage"
	"github.com/vovakirdan/tui-flappy/internal/viewport"
)

// HighScorer is implemented by games that show the stored best score.
type HighScorer interface {
	SetHighScore(score int)
}

// terminal is the fitter's surface and sink for a character grid.
// It is shared by pointer between copies of the Model.
type terminal struct {
	cols, rows int
	cellAspect float64
	rect       viewport.Rect
	field      core.Rect
}

// Size reports the terminal in pixel equivalents: a cell is cellAspect
// times taller than it is wide.
func (t *terminal) Size() viewport.Size {
	return viewport.Size{W: float64(t.cols), H: float64(t.rows) * t.cellAspect}
}

// SetViewport stores the fitted rect and its cell area.
func (t *terminal) SetViewport(r viewport.Rect) {
	t.rect = r
	t.field = r.Cells(t.cols, t.rows)
}

// Options configures a Model.
type Options struct {
	Display config.DisplayConfig
	Runtime core.RuntimeConfig // ScreenW/ScreenH hold the terminal size
	Store   *storage.Store     // nil disables score persistence
	Logger  *log.Logger        // nil discards logs
	Player  string             // Recorded with saved scores
}

// Model is the Bubble Tea model for running the game.
type Model struct {
	game       core.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	player     string
	config     core.RuntimeConfig
	bar        rune
	keys       GameKeyMap
	term       *terminal
	fitter     *viewport.Fitter
	inputFrame core.InputFrame
	gameState  core.GameState
	quitting   bool
	scoreSaved bool // Whether score has been saved for current game over
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game core.Game, opts Options) (Model, error) {
	cfg := opts.Runtime
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	term := &terminal{
		cols:       cfg.ScreenW,
		rows:       cfg.ScreenH,
		cellAspect: opts.Display.CellAspect,
	}
	fitter, err := viewport.New(opts.Display.AspectRatio, term, term,
		viewport.WithEpsilon(opts.Display.Epsilon),
		viewport.WithLogger(logger),
	)
	if err != nil {
		return Model{}, fmt.Errorf("tui: %w", err)
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(0, 0),
		store:      opts.Store,
		logger:     logger,
		player:     opts.Player,
		config:     cfg,
		bar:        opts.Display.Bar(),
		keys:       DefaultGameKeyMap(),
		term:       term,
		fitter:     fitter,
		inputFrame: core.NewInputFrame(),
	}, nil
}

// Init fits the playfield for the first time and starts the game.
func (m Model) Init() tea.Cmd {
	m.fitter.Init()
	m.syncField()

	field := m.config
	field.ScreenW, field.ScreenH = m.term.field.W, m.term.field.H
	m.game.Reset(field)
	m.loadHighScore()

	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// Picked up by the fitter on the next frame
		m.term.cols = msg.Width
		m.term.rows = msg.Height
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		if path, err := m.saveScreenshot(); err != nil {
			m.logger.Warn("screenshot failed", "error", err)
		} else {
			m.logger.Info("screenshot saved", "path", path)
		}
		return m, nil
	}

	switch action := m.keys.Action(msg); action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionRestart:
		if m.gameState.GameOver {
			m.inputFrame.Set(action)
		}
	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleTick runs one frame: refit the playfield, then simulate.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.fitter.Tick() {
		m.syncField()
	}

	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		field := m.config
		field.ScreenW, field.ScreenH = m.screen.Width(), m.screen.Height()
		m.game.Reset(field)
		m.loadHighScore()
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver && !m.scoreSaved {
		m.saveScore()
		m.scoreSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// syncField resizes the playfield to the fitted cell area.
func (m Model) syncField() {
	f := m.term.field
	if f.W == m.screen.Width() && f.H == m.screen.Height() {
		return
	}
	m.screen.Resize(f.W, f.H)
	m.game.Resize(f.W, f.H)
	m.logger.Debug("playfield resized",
		"cols", m.term.cols, "rows", m.term.rows,
		"field", fmt.Sprintf("%dx%d+%d+%d", f.W, f.H, f.X, f.Y),
	)
}

func (m Model) loadHighScore() {
	hs, ok := m.game.(HighScorer)
	if !ok || m.store == nil {
		return
	}
	high, err := m.store.HighScore(m.game.ID())
	if err != nil {
		m.logger.Warn("could not load high score", "error", err)
		return
	}
	hs.SetHighScore(high)
}

func (m Model) saveScore() {
	score := m.gameState.Score
	m.logger.Info("game over", "player", m.player, "score", score)
	if m.store == nil || score <= 0 {
		return
	}
	if _, err := m.store.SaveScore(m.game.ID(), m.player, score); err != nil {
		m.logger.Warn("could not save score", "error", err)
	}
}

// saveScreenshot writes the current playfield to ~/.flappy/screenshots.
func (m Model) saveScreenshot() (string, error) {
	m.game.Render(m.screen)

	dir, err := storage.ExpandPath(filepath.Join("~", ".flappy", "screenshots"))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("tui: cannot create screenshot directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", fmt.Errorf("tui: cannot write screenshot: %w", err)
	}
	return path, nil
}

// View renders the letterboxed playfield.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderFitted(m.screen, m.term.field, m.term.cols, m.term.rows, m.bar)
}

// Viewport returns the last fitted normalized rect.
func (m Model) Viewport() viewport.Rect {
	return m.fitter.Rect()
}

// Field returns the playfield area in terminal cells.
func (m Model) Field() core.Rect {
	return m.term.field
}

// Run starts the Bubble Tea program with the given game.
func Run(game core.Game, opts Options) error {
	model, err := NewModel(game, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
