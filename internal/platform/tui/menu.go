package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mirrorhouse/internal/boardfile"
)

// MenuModel is the Bubble Tea model for the puzzle picker.
type MenuModel struct {
	items       []boardfile.Definition
	skipped     int // files that failed to load
	cursor      int
	width       int
	height      int
	quitting    bool
	selected    *boardfile.Definition // Set when user selects a puzzle
	openHistory bool                  // True if user pressed Tab for history
}

// NewMenuModel creates a menu over a loaded puzzle pack.
func NewMenuModel(items []boardfile.Definition, skipped, width, height int) MenuModel {
	return MenuModel{
		items:   items,
		skipped: skipped,
		width:   width,
		height:  height,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit menu to start watching
		}

	case MenuActionHistory:
		m.openHistory = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  M I R R O R   H O U S E  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a puzzle", m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText("No puzzles found.", m.width))
		b.WriteString("\n")
	}

	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%-20s %3dx%-3d %2d mirrors", cursor, item.Title(), item.Width, item.Height, len(item.Mirrors))
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.skipped > 0 {
		b.WriteString("\n")
		warn := lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
		b.WriteString(centerText(warn.Render(fmt.Sprintf("%d file(s) could not be loaded", m.skipped)), m.width))
		b.WriteString("\n")
	}

	// Footer with controls
	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Watch  |  Tab: History  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected puzzle, or nil if none selected.
func (m MenuModel) Selected() *boardfile.Definition {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if user requested the run history.
func (m MenuModel) WantsHistory() bool {
	return m.openHistory
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Selected     *boardfile.Definition
	WantsHistory bool
	Quit         bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(items []boardfile.Definition, skipped, width, height int) (MenuResult, error) {
	model := NewMenuModel(items, skipped, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Quit: true}, nil
	}

	switch {
	case m.WantsHistory():
		return MenuResult{WantsHistory: true}, nil
	case m.IsQuitting(), m.Selected() == nil:
		return MenuResult{Quit: true}, nil
	}
	return MenuResult{Selected: m.Selected()}, nil
}
