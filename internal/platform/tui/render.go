package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mirrorhouse/internal/mirror"
)

// cellStyles maps rendered cell kinds to lipgloss styles.
var cellStyles = map[mirror.CellKind]lipgloss.Style{
	mirror.CellEmpty:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	mirror.CellTrail:       lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	mirror.CellMirror:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	mirror.CellMirrorSided: lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	mirror.CellEntry:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	mirror.CellBeam:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

// RenderBoard draws the board with styled cells, one space between
// columns. Adjacent cells of the same kind share one style run to keep
// the ANSI output short.
func RenderBoard(b *mirror.Board, v mirror.View) string {
	grid := mirror.RenderGrid(b, v)

	var sb strings.Builder
	sb.Grow(len(grid) * (len(grid[0])*2 + 1) * 2)

	for y, row := range grid {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < len(row) {
			kind := row[x].Kind

			var run strings.Builder
			for x < len(row) && row[x].Kind == kind {
				if run.Len() > 0 {
					run.WriteRune(' ')
				}
				run.WriteRune(row[x].Rune)
				x++
			}

			style, ok := cellStyles[kind]
			if !ok {
				style = lipgloss.NewStyle()
			}
			sb.WriteString(style.Render(run.String()))
			if x < len(row) {
				sb.WriteRune(' ')
			}
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
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
