package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/storage"
	"github.com/vovakirdan/tui-flappy/internal/viewport"
)

// stubGame records what the host asks of it.
type stubGame struct {
	w, h     int
	resets   int
	steps    int
	high     int
	over     bool
	score    int
	jumped   bool // whether the last step saw a jump
	overAt   int // step on which the round ends; 0 never
	finalPts int
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(cfg core.RuntimeConfig) {
	g.resets++
	g.w, g.h = cfg.ScreenW, cfg.ScreenH
	g.steps, g.over, g.score = 0, false, 0
}

func (g *stubGame) Resize(w, h int) { g.w, g.h = w, h }

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	g.steps++
	g.jumped = in.Has(core.ActionJump)
	if g.overAt > 0 && g.steps >= g.overAt {
		g.over = true
		g.score = g.finalPts
	}
	return core.StepResult{State: g.State()}
}

func (g *stubGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "X")
}

func (g *stubGame) State() core.GameState {
	return core.GameState{Score: g.score, GameOver: g.over, Started: true}
}

func (g *stubGame) SetHighScore(score int) { g.high = score }

func newTestModel(t *testing.T, game core.Game, cols, rows int, store *storage.Store) Model {
	t.Helper()
	m, err := NewModel(game, Options{
		Display: config.DefaultFlappyConfig().Display,
		Runtime: core.RuntimeConfig{ScreenW: cols, ScreenH: rows, TickRate: 60, Seed: 1},
		Store:   store,
		Player:  "tester",
	})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, want Model", next)
	}
	return nm, cmd
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelRejectsInvalidAspect(t *testing.T) {
	display := config.DefaultFlappyConfig().Display
	display.AspectRatio = viewport.AspectRatio{W: 0, H: 16}

	_, err := NewModel(&stubGame{}, Options{Display: display})
	if err == nil {
		t.Fatal("NewModel() with zero aspect width should fail")
	}
}

func TestModelInitFitsPlayfield(t *testing.T) {
	game := &stubGame{}
	m := newTestModel(t, game, 100, 30, nil)

	if cmd := m.Init(); cmd == nil {
		t.Error("Init() should schedule the first tick")
	}

	// 100x30 cells at 2:1 is 100x60 pixels, wider than 9:16.
	want := core.NewRect(33, 0, 34, 30)
	if got := m.Field(); got != want {
		t.Errorf("Field() = %+v, want %+v", got, want)
	}
	if !m.Viewport().Pillarboxed() {
		t.Errorf("Viewport() = %+v, want pillarbox", m.Viewport())
	}
	if game.resets != 1 || game.w != 34 || game.h != 30 {
		t.Errorf("game reset %d times at %dx%d, want once at 34x30", game.resets, game.w, game.h)
	}

	lines := strings.Split(m.View(), "\n")
	if len(lines) != 30 {
		t.Fatalf("View() has %d lines, want 30", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 100 {
			t.Fatalf("line %d width = %d, want 100", i, w)
		}
	}
	if !strings.HasPrefix(lines[0], strings.Repeat("░", 33)+"X") {
		t.Errorf("first line = %q, want 33 bar cells then the playfield", lines[0])
	}
}

func TestModelRefitsOnTickAfterResize(t *testing.T) {
	game := &stubGame{}
	m := newTestModel(t, game, 100, 30, nil)
	m.Init()

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 40})
	if got := m.Field(); got != core.NewRect(33, 0, 34, 30) {
		t.Errorf("Field() before tick = %+v, want unchanged", got)
	}

	m, cmd := update(t, m, TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}

	// 20x40 cells is 20x80 pixels, taller than 9:16.
	want := core.NewRect(0, 11, 20, 18)
	if got := m.Field(); got != want {
		t.Errorf("Field() after tick = %+v, want %+v", got, want)
	}
	if !m.Viewport().Letterboxed() {
		t.Errorf("Viewport() = %+v, want letterbox", m.Viewport())
	}
	if game.w != 20 || game.h != 18 {
		t.Errorf("game size = %dx%d, want 20x18", game.w, game.h)
	}
	if game.resets != 1 {
		t.Errorf("resize should not reset the game, resets = %d", game.resets)
	}

	lines := strings.Split(m.View(), "\n")
	if len(lines) != 40 {
		t.Fatalf("View() has %d lines, want 40", len(lines))
	}
	if lines[0] != strings.Repeat("░", 20) {
		t.Errorf("top line = %q, want a full bar", lines[0])
	}
	if !strings.HasPrefix(lines[11], "X") {
		t.Errorf("line 11 = %q, want playfield start", lines[11])
	}
}

func TestModelTickWithoutResizeKeepsField(t *testing.T) {
	game := &stubGame{}
	m := newTestModel(t, game, 100, 30, nil)
	m.Init()

	for range 5 {
		m, _ = update(t, m, TickMsg{})
	}
	if game.steps != 5 {
		t.Errorf("steps = %d, want 5", game.steps)
	}
	if got := m.Field(); got != core.NewRect(33, 0, 34, 30) {
		t.Errorf("Field() = %+v, want unchanged", got)
	}
}

func TestModelForwardsFlap(t *testing.T) {
	game := &stubGame{}
	m := newTestModel(t, game, 100, 30, nil)
	m.Init()

	m, _ = update(t, m, keyMsg(" "))
	m, _ = update(t, m, TickMsg{})
	if !game.jumped {
		t.Error("space should reach the game as a jump")
	}

	_, _ = update(t, m, TickMsg{})
	if game.jumped {
		t.Error("input should be cleared after one tick")
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, &stubGame{}, 100, 30, nil)
	m.Init()

	m, cmd := update(t, m, keyMsg("q"))
	if cmd == nil {
		t.Error("quit should return a command")
	}
	if m.View() != "" {
		t.Error("View() after quit should be empty")
	}
}

func TestModelSavesScoreOnceAndRestarts(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := store.SaveScore("stub", "earlier", 3); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	game := &stubGame{overAt: 2, finalPts: 7}
	m := newTestModel(t, game, 100, 30, store)
	m.Init()
	if game.high != 3 {
		t.Errorf("high score on start = %d, want 3", game.high)
	}

	for range 4 {
		m, _ = update(t, m, TickMsg{})
	}

	scores, err := store.TopScores("stub", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("got %d scores, want 2", len(scores))
	}
	if scores[0].Score != 7 || scores[0].Player != "tester" {
		t.Errorf("best score = %+v, want 7 by tester", scores[0])
	}

	m, _ = update(t, m, keyMsg("r"))
	m, _ = update(t, m, TickMsg{})
	if game.resets != 2 {
		t.Errorf("resets = %d, want 2 after restart", game.resets)
	}
	if game.w != 34 || game.h != 30 {
		t.Errorf("restart size = %dx%d, want 34x30", game.w, game.h)
	}
	if game.high != 7 {
		t.Errorf("high score after restart = %d, want 7", game.high)
	}
	if m.gameState.GameOver {
		t.Error("game should be running after restart")
	}
}

func TestModelRestartIgnoredWhilePlaying(t *testing.T) {
	game := &stubGame{}
	m := newTestModel(t, game, 100, 30, nil)
	m.Init()

	m, _ = update(t, m, keyMsg("r"))
	_, _ = update(t, m, TickMsg{})
	if game.resets != 1 {
		t.Errorf("resets = %d, restart should need game over", game.resets)
	}
}

func TestModelViewFitsTerminalBeforeRefit(t *testing.T) {
	m := newTestModel(t, &stubGame{}, 100, 30, nil)
	m.Init()

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})

	lines := strings.Split(m.View(), "\n")
	if len(lines) != 10 {
		t.Fatalf("View() has %d lines, want 10", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 40 {
			t.Errorf("line %d width = %d, want 40", i, w)
		}
	}
}
