package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/mirrorhouse/internal/boardfile"
	"github.com/vovakirdan/mirrorhouse/internal/mirror"
)

// turnDef is a 5x5 board with one L mirror in the middle. The beam
// enters on the left edge, turns down and leaves through the bottom
// after four in-bounds steps.
func turnDef() boardfile.Definition {
	return boardfile.Definition{
		ID:      "turn",
		Name:    "Turn",
		Width:   5,
		Height:  5,
		Mirrors: []mirror.MirrorSpec{{Pos: mirror.C(2, 2), Code: "L"}},
		Entry:   boardfile.EntrySpec{Pos: mirror.C(0, 2), Code: "H"},
	}
}

func newTestWatch(t *testing.T, opts WatchOptions) WatchModel {
	t.Helper()
	def := turnDef()
	b, beam, err := def.Build()
	require.NoError(t, err)
	return NewWatchModel(def, b, beam, opts)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m WatchModel, msg tea.Msg) (WatchModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	wm, ok := next.(WatchModel)
	require.True(t, ok, "Update returned %T", next)
	return wm, cmd
}

func tick(m WatchModel) TickMsg {
	return TickMsg{gen: m.gen}
}

func TestWatchTicksUntilExit(t *testing.T) {
	var recorded []mirror.Outcome
	m := newTestWatch(t, WatchOptions{
		Recorder: func(def boardfile.Definition, b *mirror.Board, out mirror.Outcome, maxSteps int) {
			assert.Equal(t, "turn", def.ID)
			assert.Equal(t, mirror.DefaultMaxSteps, maxSteps)
			recorded = append(recorded, out)
		},
	})
	require.NotNil(t, m.Init())

	var cmd tea.Cmd
	for i := 0; i < 4; i++ {
		m, cmd = update(t, m, tick(m))
		require.NotNil(t, cmd, "tick %d should schedule another tick", i+1)
	}
	assert.Len(t, m.Trail(), 4)
	_, done := m.Outcome()
	assert.False(t, done)

	m, cmd = update(t, m, tick(m))
	assert.Nil(t, cmd)
	out, done := m.Outcome()
	require.True(t, done)
	assert.Equal(t, mirror.OutcomeExited, out.Kind)
	assert.Equal(t, mirror.C(2, 0), out.Pos)
	assert.Equal(t, mirror.DirDown, out.Dir)

	// Further ticks are ignored and the run is recorded once.
	m, cmd = update(t, m, tick(m))
	assert.Nil(t, cmd)
	assert.Len(t, recorded, 1)
	assert.Contains(t, m.View(), "PUZZLE SOLVED")
}

func TestWatchStaleTickIgnored(t *testing.T) {
	m := newTestWatch(t, WatchOptions{})
	stale := tick(m)

	m, _ = update(t, m, runes("p")) // pause
	m, _ = update(t, m, runes("p")) // resume bumps the generation

	m, cmd := update(t, m, stale)
	assert.Nil(t, cmd)
	assert.Empty(t, m.Trail())

	m, cmd = update(t, m, tick(m))
	assert.NotNil(t, cmd)
	assert.Len(t, m.Trail(), 1)
}

func TestWatchPauseAndStep(t *testing.T) {
	m := newTestWatch(t, WatchOptions{StartPaused: true})
	assert.Nil(t, m.Init())
	assert.True(t, m.Paused())

	m, cmd := update(t, m, tick(m))
	assert.Nil(t, cmd)
	assert.Empty(t, m.Trail())

	m, _ = update(t, m, runes("n"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	require.Len(t, m.Trail(), 2)
	assert.Equal(t, mirror.C(2, 2), m.Trail()[1].Pos)
	assert.True(t, m.Paused())

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.Paused())
	assert.NotNil(t, cmd)
}

func TestWatchRestart(t *testing.T) {
	calls := 0
	m := newTestWatch(t, WatchOptions{
		StartPaused: true,
		Recorder: func(boardfile.Definition, *mirror.Board, mirror.Outcome, int) {
			calls++
		},
	})

	for i := 0; i < 5; i++ {
		m, _ = update(t, m, runes("n"))
	}
	_, done := m.Outcome()
	require.True(t, done)
	assert.Equal(t, 1, calls)

	m, cmd := update(t, m, runes("r"))
	assert.NotNil(t, cmd)
	assert.Empty(t, m.Trail())
	assert.False(t, m.Paused())
	_, done = m.Outcome()
	assert.False(t, done)

	for i := 0; i < 5; i++ {
		m, _ = update(t, m, runes("n"))
	}
	assert.Equal(t, 2, calls)
}

func TestWatchStepCap(t *testing.T) {
	var got mirror.Outcome
	m := newTestWatch(t, WatchOptions{
		MaxSteps:    2,
		StartPaused: true,
		Recorder: func(_ boardfile.Definition, _ *mirror.Board, out mirror.Outcome, maxSteps int) {
			got = out
			assert.Equal(t, 2, maxSteps)
		},
	})

	m, _ = update(t, m, runes("n"))
	m, _ = update(t, m, runes("n"))

	assert.Equal(t, mirror.OutcomeStepCap, got.Kind)
	assert.Equal(t, 2, got.Steps)
	assert.Contains(t, m.View(), "STEP LIMIT REACHED")
}

func TestWatchSpeedKeys(t *testing.T) {
	m := newTestWatch(t, WatchOptions{StepsPerSecond: 8})

	m, _ = update(t, m, runes("+"))
	assert.Equal(t, 16, m.StepsPerSecond())

	m, _ = update(t, m, runes("-"))
	m, _ = update(t, m, runes("-"))
	assert.Equal(t, 4, m.StepsPerSecond())
}

func TestWatchBackAndQuit(t *testing.T) {
	m := newTestWatch(t, WatchOptions{})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.BackToMenu())
	assert.False(t, m.IsQuitting())
	assert.Nil(t, cmd)

	standalone := newTestWatch(t, WatchOptions{Standalone: true})
	standalone, cmd = update(t, standalone, runes("b"))
	assert.True(t, standalone.IsQuitting())
	assert.NotNil(t, cmd)

	quit := newTestWatch(t, WatchOptions{})
	quit, _ = update(t, quit, runes("q"))
	assert.True(t, quit.IsQuitting())
	assert.Empty(t, quit.View())
}

func TestWatchViewShowsBoard(t *testing.T) {
	m := newTestWatch(t, WatchOptions{StartPaused: true})
	view := m.View()

	assert.Contains(t, view, "MIRROR HOUSE - Turn")
	assert.Contains(t, view, "Step 0/2000")
	assert.Contains(t, view, "Paused")
}
