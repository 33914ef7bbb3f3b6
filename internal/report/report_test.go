package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/mirrorhouse/internal/boardfile"
	"github.com/vovakirdan/mirrorhouse/internal/mirror"
)

func loadTurn(t *testing.T) (boardfile.Definition, *mirror.Board, mirror.Beam) {
	t.Helper()
	def, err := boardfile.ParseText([]byte("5,5\n-1\n2,2,L\n-1\n0,2,H\n-1\n"))
	require.NoError(t, err)
	def.ID = "turn"
	b, beam, err := def.Build()
	require.NoError(t, err)
	return def, b, beam
}

func TestPrinterRun(t *testing.T) {
	_, b, beam := loadTurn(t)

	var buf bytes.Buffer
	res := NewPrinter(&buf, false).Run(b, beam, 0)
	require.True(t, res.Outcome.Solved())

	want := strings.Join([]string{
		":: Board dimensions: 5 by 5, ",
		":: Mirror count: 1, ",
		":: Laser start pos : [0, 2], direction: H, ",
		" ---- STARTING GAME ----",
		"-- Step 1 ::: Position [1, 2], Direction RIGHT",
		"-- Step 2 ::: Position [2, 2], Direction RIGHT",
		"-- Step 3 ::: Position [2, 1], Direction DOWN",
		"-- Step 4 ::: Position [2, 0], Direction DOWN",
		"--------- PUZZLE SOLVED ---------",
		"-- Exit Room : [2, 0]",
		"-- Exit Direction : V",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestPrinterQuiet(t *testing.T) {
	_, b, beam := loadTurn(t)

	var buf bytes.Buffer
	NewPrinter(&buf, true).Run(b, beam, 0)

	assert.NotContains(t, buf.String(), "-- Step")
	assert.Contains(t, buf.String(), "PUZZLE SOLVED")
}

func TestPrintOutcomeStepCap(t *testing.T) {
	var buf bytes.Buffer
	PrintOutcome(&buf, mirror.Outcome{
		Kind:  mirror.OutcomeStepCap,
		Pos:   mirror.C(1, 3),
		Dir:   mirror.DirLeft,
		Axis:  mirror.AxisHorizontal,
		Steps: 50,
	})

	out := buf.String()
	assert.Contains(t, out, "STEP LIMIT REACHED")
	assert.Contains(t, out, "-- Last Room : [1, 3]")
	assert.Contains(t, out, "-- Steps : 50")
	assert.NotContains(t, out, "PUZZLE SOLVED")
}

func TestMarkdown(t *testing.T) {
	def, b, beam := loadTurn(t)
	res := mirror.Run(b, beam, 0)

	md := Markdown(def, b, beam, res)

	assert.True(t, strings.HasPrefix(md, "# turn\n"))
	assert.Contains(t, md, "| Board | 5 by 5 |")
	assert.Contains(t, md, "| Reflections | 1 |")
	assert.Contains(t, md, "## Puzzle solved")
	assert.Contains(t, md, "room `[2, 0]` on the **V** axis")
	assert.Contains(t, md, "- `L` at [2, 2], Dual")
	assert.True(t, strings.HasSuffix(md, "\n```\n"))
}

func TestMarkdownStepCap(t *testing.T) {
	def, b, beam := loadTurn(t)
	res := mirror.Run(b, beam, 2)

	md := Markdown(def, b, beam, res)
	assert.Contains(t, md, "## Step limit reached")
	assert.NotContains(t, md, "## Puzzle solved")
}

func TestRender(t *testing.T) {
	def, b, beam := loadTurn(t)
	md := Markdown(def, b, beam, mirror.Run(b, beam, 0))

	out, err := Render(md, 80)
	require.NoError(t, err)
	assert.Contains(t, out, "turn")
	assert.Contains(t, out, "Puzzle solved")
}
