package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/mirrorhouse/internal/boardfile"
)

func menuItems() []boardfile.Definition {
	second := turnDef()
	second.ID = "second"
	second.Name = ""
	return []boardfile.Definition{turnDef(), second}
}

func updateMenu(t *testing.T, m MenuModel, msg tea.Msg) MenuModel {
	t.Helper()
	next, _ := m.Update(msg)
	mm, ok := next.(MenuModel)
	require.True(t, ok)
	return mm
}

func TestMenuNavigateAndSelect(t *testing.T) {
	m := NewMenuModel(menuItems(), 0, 80, 24)

	m = updateMenu(t, m, tea.KeyMsg{Type: tea.KeyUp}) // clamped at top
	m = updateMenu(t, m, runes("j"))
	m = updateMenu(t, m, tea.KeyMsg{Type: tea.KeyDown}) // clamped at bottom
	m = updateMenu(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, m.Selected())
	assert.Equal(t, "second", m.Selected().ID)
	assert.False(t, m.IsQuitting())
}

func TestMenuHistoryAndQuit(t *testing.T) {
	m := updateMenu(t, NewMenuModel(menuItems(), 0, 80, 24), tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.WantsHistory())
	assert.Nil(t, m.Selected())

	m = updateMenu(t, NewMenuModel(menuItems(), 0, 80, 24), runes("q"))
	assert.True(t, m.IsQuitting())
	assert.Empty(t, m.View())
}

func TestMenuEmptySelectIgnored(t *testing.T) {
	m := updateMenu(t, NewMenuModel(nil, 0, 80, 24), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.Selected())
	assert.Contains(t, m.View(), "No puzzles found.")
}

func TestMenuView(t *testing.T) {
	view := NewMenuModel(menuItems(), 2, 100, 24).View()

	assert.Contains(t, view, "Turn")
	assert.Contains(t, view, "second")
	assert.Contains(t, view, "1 mirrors")
	assert.Contains(t, view, "2 file(s) could not be loaded")
}

func TestMapKeyToMenuAction(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runes("k"), MenuActionUp},
		{runes("s"), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeySpace}, MenuActionSelect},
		{runes("h"), MenuActionHistory},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, MenuActionQuit},
		{runes("x"), MenuActionNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapKeyToMenuAction(tt.msg), "key %q", tt.msg.String())
	}
}
