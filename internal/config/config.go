// Package config provides YAML-based game configuration loading and
// difficulty management.
package config

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/tui-flappy/internal/viewport"
)

// FlappyConfig contains all configuration for the game and its display.
type FlappyConfig struct {
	Physics    FlappyPhysics    `yaml:"physics"`
	Obstacles  FlappyObstacles  `yaml:"obstacles"`
	Player     FlappyPlayer     `yaml:"player"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Display    DisplayConfig    `yaml:"display"`
}

// FlappyPhysics defines bird and scroll physics. Units are cells and seconds.
type FlappyPhysics struct {
	Gravity      float64 `yaml:"gravity"`        // cells/s^2, downward
	JumpImpulse  float64 `yaml:"jump_impulse"`   // cells/s, negative is up
	MaxFallSpeed float64 `yaml:"max_fall_speed"` // cells/s
	BaseSpeed    float64 `yaml:"base_speed"`     // pipe scroll, cells/s
}

// FlappyObstacles defines pipe layout.
type FlappyObstacles struct {
	PipeWidth    int `yaml:"pipe_width"`
	PipeSpacing  int `yaml:"pipe_spacing"`
	MinGapSize   int `yaml:"min_gap_size"`
	MaxGapSize   int `yaml:"max_gap_size"`
	TopMargin    int `yaml:"top_margin"`
	BottomMargin int `yaml:"bottom_margin"`
}

// FlappyPlayer defines the bird's hitbox and column.
type FlappyPlayer struct {
	X      int `yaml:"x"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DisplayConfig controls how the playfield is fitted to the surface.
type DisplayConfig struct {
	// AspectRatio is the designed playfield shape, e.g. 9:16.
	AspectRatio viewport.AspectRatio `yaml:"aspect_ratio"`

	// CellAspect is the height of a terminal cell divided by its width.
	CellAspect float64 `yaml:"cell_aspect"`

	// Epsilon is the tolerance for ratio and resize comparisons.
	Epsilon float64 `yaml:"epsilon"`

	// BarRune fills letterbox and pillarbox bars in the terminal.
	BarRune string `yaml:"bar_rune"`

	// CellPixels is the size of one cell in the window host.
	CellPixels int `yaml:"cell_pixels"`

	// ShowHighScore adds the stored best score to the HUD.
	ShowHighScore bool `yaml:"show_high_score"`
}

// Bar returns the first rune of BarRune, or a space.
func (d DisplayConfig) Bar() rune {
	r, _ := utf8.DecodeRuneInString(d.BarRune)
	if r == utf8.RuneError {
		return ' '
	}
	return r
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier  float64 `yaml:"speed_multiplier"`  // Added to speed at max difficulty
	GapReduction     int     `yaml:"gap_reduction"`     // Gap size reduction at max difficulty
	SpacingReduction int     `yaml:"spacing_reduction"` // Spacing reduction at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. The empty string means no preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Validate checks the values the game cannot run without.
func (c FlappyConfig) Validate() error {
	if !c.Display.AspectRatio.Valid() {
		return fmt.Errorf("%w: display.aspect_ratio must be positive, got %vx%v",
			ErrInvalidConfig, c.Display.AspectRatio.W, c.Display.AspectRatio.H)
	}
	if c.Display.CellAspect <= 0 {
		return fmt.Errorf("%w: display.cell_aspect must be positive, got %v", ErrInvalidConfig, c.Display.CellAspect)
	}
	if c.Obstacles.PipeWidth <= 0 || c.Obstacles.PipeSpacing <= c.Obstacles.PipeWidth {
		return fmt.Errorf("%w: obstacles.pipe_spacing must exceed pipe_width", ErrInvalidConfig)
	}
	if c.Obstacles.MinGapSize <= 0 || c.Obstacles.MaxGapSize < c.Obstacles.MinGapSize {
		return fmt.Errorf("%w: obstacles gap sizes must satisfy 0 < min <= max", ErrInvalidConfig)
	}
	if c.Player.Width <= 0 || c.Player.Height <= 0 {
		return fmt.Errorf("%w: player hitbox must be positive", ErrInvalidConfig)
	}
	if c.Physics.Gravity <= 0 || c.Physics.JumpImpulse >= 0 {
		return fmt.Errorf("%w: physics needs positive gravity and a negative jump impulse", ErrInvalidConfig)
	}
	return nil
}
