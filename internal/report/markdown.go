package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/vovakirdan/mirrorhouse/internal/boardfile"
	"github.com/vovakirdan/mirrorhouse/internal/mirror"
)

// Markdown builds a markdown summary of a finished run.
func Markdown(def boardfile.Definition, b *mirror.Board, start mirror.Beam, res mirror.Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", def.Title())

	sb.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Board | %d by %d |\n", b.W, b.H)
	fmt.Fprintf(&sb, "| Mirrors | %d |\n", b.MirrorCount())
	fmt.Fprintf(&sb, "| Laser | %v heading %v |\n", start.Pos, start.Dir)
	fmt.Fprintf(&sb, "| Steps | %d |\n", res.Outcome.Steps)
	fmt.Fprintf(&sb, "| Reflections | %d |\n", res.Reflections())
	sb.WriteString("\n")

	out := res.Outcome
	if out.Solved() {
		sb.WriteString("## Puzzle solved\n\n")
		fmt.Fprintf(&sb, "The beam leaves the board from room `%v` on the **%v** axis, heading %v.\n\n",
			out.Pos, out.Axis, out.Dir)
	} else {
		sb.WriteString("## Step limit reached\n\n")
		fmt.Fprintf(&sb, "The beam was still inside after %d steps, at room `%v` heading %v.\n\n",
			out.Steps, out.Pos, out.Dir)
	}

	if mirrors := b.Mirrors(); len(mirrors) > 0 {
		sb.WriteString("## Mirrors\n\n")
		for _, m := range mirrors {
			fmt.Fprintf(&sb, "- `%s` at %v, %s\n", m.Code(), m.Pos, m.Mode)
		}
		sb.WriteString("\n")
	}

	entry := start.Pos
	head := mirror.Beam{Pos: out.Pos, Dir: out.Dir}
	sb.WriteString("## Board\n\n```\n")
	sb.WriteString(mirror.RenderASCII(b, mirror.View{Entry: &entry, Trail: res.Trace, Beam: &head}))
	sb.WriteString("\n```\n")

	return sb.String()
}

// Render formats markdown for the terminal at the given wrap width.
func Render(md string, width int) (string, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("report: creating renderer: %w", err)
	}
	return r.Render(md)
}
