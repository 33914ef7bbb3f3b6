package tui

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/mirrorhouse/internal/mirror"
)

func TestRenderBoardSpacing(t *testing.T) {
	b, err := mirror.NewBoard(2, 1, []mirror.MirrorSpec{{Pos: mirror.C(1, 0), Code: "L"}})
	require.NoError(t, err)

	got := ansi.Strip(RenderBoard(b, mirror.View{}))
	assert.Equal(t, ". . .\n. \\ .", got)
}

func TestRenderBoardBeamAndTrail(t *testing.T) {
	def := turnDef()
	b, beam, err := def.Build()
	require.NoError(t, err)

	res := mirror.Run(b, beam, 0)
	entry := beam.Pos
	head := mirror.Beam{Pos: res.Outcome.Pos, Dir: res.Outcome.Dir}
	got := ansi.Strip(RenderBoard(b, mirror.View{Entry: &entry, Trail: res.Trace, Beam: &head}))

	want := ansi.Strip(mirror.RenderASCII(b, mirror.View{Entry: &entry, Trail: res.Trace, Beam: &head}))
	assert.Equal(t, spaced(want), got)
}

func TestCenterText(t *testing.T) {
	assert.Equal(t, "   ab", centerText("ab", 8))
	assert.Equal(t, "abcdef", centerText("abcdef", 4))
}

// spaced inserts one space between the characters of every line.
func spaced(s string) string {
	out := make([]rune, 0, len(s)*2)
	prev := '\n'
	for _, r := range s {
		if r != '\n' && prev != '\n' {
			out = append(out, ' ')
		}
		out = append(out, r)
		prev = r
	}
	return string(out)
}
