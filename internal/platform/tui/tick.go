// Package tui provides the Bubble Tea front-ends for mirrorhouse: the
// animated watch view, the puzzle menu, the run history table and the
// SSH server that serves them.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to advance the watched beam by one step.
type TickMsg struct {
	Time time.Time
	gen  int // ticks from an older generation are dropped
}

// tickCmd returns a Bubble Tea command that sends one tick after 1/rate seconds.
func tickCmd(rate, gen int) tea.Cmd {
	if rate < 1 {
		rate = 1
	}
	interval := time.Second / time.Duration(rate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, gen: gen}
	})
}
