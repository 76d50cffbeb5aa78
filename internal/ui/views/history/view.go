// Package history is the scrollable pager used by `oryx log`.
package history

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"oryx/internal/ui/theme"
)

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Scroll key.Binding
	Page   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Scroll: key.NewBinding(key.WithKeys("up", "down", "j", "k"), key.WithHelp("↑/↓", "scroll")),
		Page:   key.NewBinding(key.WithKeys("pgup", "pgdown", "b", "f", " "), key.WithHelp("pgup/pgdn", "page")),
		Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Scroll, k.Page},
		{k.Top, k.Bottom},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	title    string
	content  string
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	ready    bool
}

func New(title, content string) Model {
	return Model{
		title:   title,
		content: content,
		help:    help.New(),
		keys:    defaultKeys(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		height := max(msg.Height-m.chromeHeight(), 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return theme.Muted.Render("Loading history…")
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), m.viewport.View(), m.help.View(m.keys))
}

// AtBottom reports whether the last line of the content is visible.
func (m Model) AtBottom() bool {
	return m.ready && m.viewport.AtBottom()
}

func (m Model) header() string {
	return theme.Title.Render(m.title) + theme.Muted.Render(fmt.Sprintf("  %3.0f%%", m.viewport.ScrollPercent()*100))
}

func (m Model) chromeHeight() int {
	return lipgloss.Height(m.header()) + lipgloss.Height(m.help.View(m.keys))
}

// Run shows content full screen until the user quits.
func Run(title, content string, in io.Reader, out io.Writer) error {
	program := tea.NewProgram(New(title, content), tea.WithAltScreen(), tea.WithInput(in), tea.WithOutput(out))
	_, err := program.Run()
	return err
}
