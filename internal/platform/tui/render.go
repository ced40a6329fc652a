package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tile2048/internal/core"
)

const (
	tileDarkText  = lipgloss.Color("#1C1B2D")
	tileLightText = lipgloss.Color("#FFDCD8")
)

// tileBackgrounds is the tile palette, indexed by power - 1.
var tileBackgrounds = []lipgloss.Color{
	"#FFC8C2", "#FFB6AD", "#FFA399", "#FF9185", "#FF7E70", "#FF6250",
	"#FF4733", "#FF3345", "#E3254A", "#D21C4A", "#BC1755",
}

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = buildColorStyles()

func buildColorStyles() map[core.Color]lipgloss.Style {
	styles := map[core.Color]lipgloss.Style{
		core.ColorDefault: lipgloss.NewStyle(),
		core.ColorGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		core.ColorWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
		core.ColorYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		core.ColorRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		core.ColorGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}

	// Light text from the 128 tile up.
	for i, bg := range tileBackgrounds {
		fg := tileDarkText
		if i+1 > 6 {
			fg = tileLightText
		}
		styles[core.ColorTile1+core.Color(i)] = lipgloss.NewStyle().Background(bg).Foreground(fg).Bold(true)
	}
	styles[core.ColorTileHigh] = lipgloss.NewStyle().Background(tileDarkText).Foreground(tileLightText).Bold(true)

	return styles
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
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
	return sb.String()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
