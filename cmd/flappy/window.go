package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/platform/gfx"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagWidth  int
	flagHeight int
	flagRows   int
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Play in a desktop window",
	Long: `Open a resizable window and play there.

The playfield is drawn at the configured aspect ratio and scaled into
the window; the remaining space is filled with bars.

Controls:
  Space/Up/W/Click - Flap
  P/Esc            - Pause
  R                - Restart (after game over)
  Q                - Quit

Examples:
  flappy window
  flappy window --width 1280 --height 720
  flappy window --rows 32`,
	Args: cobra.NoArgs,
	Run:  runWindow,
}

func init() {
	windowCmd.Flags().IntVar(&flagWidth, "width", 540, "Initial window width in pixels")
	windowCmd.Flags().IntVar(&flagHeight, "height", 960, "Initial window height in pixels")
	windowCmd.Flags().IntVar(&flagRows, "rows", gfx.DefaultRows, "Playfield height in cells")
}

func runWindow(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(os.Stderr, "flappy-window")

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		store = nil
	}

	runErr := gfx.Run(flappy.New(cfg), gfx.Options{
		Display:  cfg.Display,
		Rows:     flagRows,
		TickRate: flagFPS,
		Seed:     flagSeed,
		Width:    flagWidth,
		Height:   flagHeight,
		Store:    store,
		Logger:   logger,
		Player:   playerName(),
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
