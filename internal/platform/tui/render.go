package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightWhite:  lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// barStyle paints letterbox and pillarbox bars.
var barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

// RenderScreen converts a Screen buffer to a styled string for display.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}
		writeRow(&sb, s, y, s.Width())
	}
	return sb.String()
}

// RenderFitted draws the playfield into area of a cols x rows terminal and
// fills everything outside the area with bar runes. Every line is exactly
// cols wide, even when area was fitted to a larger terminal.
func RenderFitted(field *core.Screen, area core.Rect, cols, rows int, bar rune) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(cols*rows*2 + rows)

	left := core.Clamp(area.X, 0, cols)
	shown := core.Clamp(min(area.W, field.Width()), 0, cols-left)
	right := cols - left - shown
	fullBar := barStyle.Render(strings.Repeat(string(bar), cols))

	for y := 0; y < rows; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		fy := y - area.Y
		if fy < 0 || fy >= field.Height() || area.Empty() || shown == 0 {
			sb.WriteString(fullBar)
			continue
		}
		if left > 0 {
			sb.WriteString(barStyle.Render(strings.Repeat(string(bar), left)))
		}
		writeRow(&sb, field, fy, shown)
		if right > 0 {
			sb.WriteString(barStyle.Render(strings.Repeat(string(bar), right)))
		}
	}
	return sb.String()
}

// writeRow writes the first width cells of a screen row, grouping adjacent
// cells with the same color to minimize ANSI escape sequences.
func writeRow(sb *strings.Builder, s *core.Screen, y, width int) {
	width = min(width, s.Width())
	x := 0
	for x < width {
		startColor := s.GetCell(x, y).Color

		var run strings.Builder
		for x < width {
			cell := s.GetCell(x, y)
			if cell.Color != startColor {
				break
			}
			run.WriteRune(cell.Rune)
			x++
		}

		style, ok := colorStyles[startColor]
		if !ok {
			style = colorStyles[core.ColorDefault]
		}
		sb.WriteString(style.Render(run.String()))
	}
}
