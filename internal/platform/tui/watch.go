package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mirrorhouse/internal/boardfile"
	"github.com/vovakirdan/mirrorhouse/internal/config"
	"github.com/vovakirdan/mirrorhouse/internal/mirror"
)

// RunRecorder is called once per finished run.
type RunRecorder func(def boardfile.Definition, b *mirror.Board, out mirror.Outcome, maxSteps int)

// WatchOptions configures a watch session.
type WatchOptions struct {
	MaxSteps       int
	StepsPerSecond int
	StartPaused    bool
	Recorder       RunRecorder // optional

	// Standalone makes Back quit the program instead of returning to a menu.
	Standalone bool
}

// WatchModel animates one run step by step.
type WatchModel struct {
	def      boardfile.Definition
	start    mirror.Beam
	runner   *mirror.Runner
	trail    []mirror.StepRecord
	opts     WatchOptions
	pacer    *config.Pacer
	keys     WatchKeyMap
	help     help.Model
	paused   bool
	gen      int
	recorded bool
	width    int
	height   int

	quitting   bool
	backToMenu bool
}

// NewWatchModel creates a watch model for a built board.
func NewWatchModel(def boardfile.Definition, b *mirror.Board, start mirror.Beam, opts WatchOptions) WatchModel {
	if opts.StepsPerSecond <= 0 {
		opts.StepsPerSecond = 8
	}
	h := help.New()
	h.ShowAll = false

	return WatchModel{
		def:    def,
		start:  start,
		runner: mirror.NewRunner(b, start, opts.MaxSteps),
		opts:   opts,
		pacer:  config.NewPacer(opts.StepsPerSecond),
		keys:   DefaultWatchKeyMap(),
		help:   h,
		paused: opts.StartPaused,
	}
}

// Init starts the tick loop unless the model starts paused.
func (m WatchModel) Init() tea.Cmd {
	if m.paused {
		return nil
	}
	return tickCmd(m.pacer.StepsPerSecond(), m.gen)
}

// Update handles messages and updates the model state.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.backToMenu = true
		if m.opts.Standalone {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		if m.runner.Done() {
			return m, nil
		}
		m.paused = !m.paused
		if m.paused {
			return m, nil
		}
		m.gen++
		return m, tickCmd(m.pacer.StepsPerSecond(), m.gen)

	case key.Matches(msg, m.keys.Step):
		m.paused = true
		m.gen++ // drop the in-flight tick
		m.advance()
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		m.runner = mirror.NewRunner(m.runner.Board(), m.start, m.opts.MaxSteps)
		m.trail = nil
		m.recorded = false
		m.paused = false
		m.gen++
		return m, tickCmd(m.pacer.StepsPerSecond(), m.gen)

	case key.Matches(msg, m.keys.Faster):
		m.pacer.Faster()
		return m, nil

	case key.Matches(msg, m.keys.Slower):
		m.pacer.Slower()
		return m, nil
	}

	return m, nil
}

// handleTick advances the beam and schedules the next tick.
func (m WatchModel) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen || m.paused || m.runner.Done() {
		return m, nil
	}

	m.advance()
	if m.runner.Done() {
		return m, nil
	}
	return m, tickCmd(m.pacer.StepsPerSecond(), m.gen)
}

// advance takes one step and records the run once it ends.
func (m *WatchModel) advance() {
	if m.runner.Done() {
		return
	}
	if rec, ok := m.runner.Advance(); ok {
		m.trail = append(m.trail, rec)
	}
	if out, done := m.runner.Outcome(); done && !m.recorded {
		if m.opts.Recorder != nil {
			m.opts.Recorder(m.def, m.runner.Board(), out, m.runner.MaxSteps())
		}
		m.recorded = true
	}
}

// View renders the current state.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(fmt.Sprintf("MIRROR HOUSE - %s", m.def.Title())))
	b.WriteString("\n\n")

	beam := m.runner.Beam()
	entry := m.start.Pos
	view := mirror.View{Entry: &entry, Trail: m.trail}
	if !m.runner.Done() || m.runner.State() == mirror.StateStepCapReached {
		view.Beam = &beam
	}

	boardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(boardStyle.Render(RenderBoard(m.runner.Board(), view)))
	b.WriteString("\n")

	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	state := m.runner.State().String()
	if m.paused && !m.runner.Done() {
		state = "Paused"
	}
	b.WriteString(statusStyle.Render(fmt.Sprintf(
		"Step %d/%d  |  Beam %v %v  |  %s  |  %d steps/s",
		m.runner.Steps(), m.runner.MaxSteps(), beam.Pos, beam.Dir, state, m.pacer.StepsPerSecond(),
	)))
	b.WriteString("\n")

	if out, done := m.runner.Outcome(); done {
		b.WriteString("\n")
		b.WriteString(renderOutcome(out))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func renderOutcome(out mirror.Outcome) string {
	if out.Solved() {
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
		return style.Render(fmt.Sprintf("PUZZLE SOLVED  exit room %v, axis %v", out.Pos, out.Axis))
	}
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	return style.Render(fmt.Sprintf("STEP LIMIT REACHED after %d steps at %v", out.Steps, out.Pos))
}

// Outcome returns the run outcome once the beam has stopped.
func (m WatchModel) Outcome() (mirror.Outcome, bool) {
	return m.runner.Outcome()
}

// Paused reports whether the animation is paused.
func (m WatchModel) Paused() bool {
	return m.paused
}

// Trail returns the steps taken so far.
func (m WatchModel) Trail() []mirror.StepRecord {
	return m.trail
}

// StepsPerSecond returns the current animation rate.
func (m WatchModel) StepsPerSecond() int {
	return m.pacer.StepsPerSecond()
}

// IsQuitting returns true if user requested to quit entirely.
func (m WatchModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m WatchModel) BackToMenu() bool {
	return m.backToMenu
}

// RunWatch starts a standalone watch program. It returns true when the
// user left with Back rather than Quit.
func RunWatch(def boardfile.Definition, b *mirror.Board, start mirror.Beam, opts WatchOptions) (back bool, err error) {
	opts.Standalone = true
	model := NewWatchModel(def, b, start, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(WatchModel)
	if !ok {
		return false, nil
	}
	return m.BackToMenu(), nil
}
