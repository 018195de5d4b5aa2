package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-flappy/internal/viewport"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the hardcoded configuration. It mirrors the
// embedded YAML and is the last fallback when nothing else parses.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		Physics: FlappyPhysics{
			Gravity:      60.0,
			JumpImpulse:  -22.0,
			MaxFallSpeed: 30.0,
			BaseSpeed:    12.0,
		},
		Obstacles: FlappyObstacles{
			PipeWidth:    3,
			PipeSpacing:  16,
			MinGapSize:   7,
			MaxGapSize:   9,
			TopMargin:    2,
			BottomMargin: 2,
		},
		Player: FlappyPlayer{
			X:      5,
			Width:  2,
			Height: 1,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 40,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:  0.75,
				GapReduction:     2,
				SpacingReduction: 4,
			},
		},
		Display: DisplayConfig{
			AspectRatio:   viewport.AspectRatio{W: 9, H: 16},
			CellAspect:    2.0,
			Epsilon:       viewport.Epsilon,
			BarRune:       "░",
			CellPixels:    12,
			ShowHighScore: true,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}
