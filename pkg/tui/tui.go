// Package tui provides an interactive terminal browser over the prompt
// store: a filterable list of all prompts with a read-only detail view and
// clipboard copy. Like the other front-ends it only consumes the store's
// operations.
package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/butler/pkg/logging"
	"github.com/entrhq/butler/pkg/prompt"
	"github.com/entrhq/butler/pkg/store"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

type item struct {
	p *prompt.Prompt
}

func (i item) Title() string {
	if i.p.Group == "" {
		return i.p.Name
	}
	return fmt.Sprintf("%s/%s", i.p.Group, i.p.Name)
}

func (i item) Description() string {
	desc := i.p.Description
	if len(i.p.Tags) > 0 {
		desc = strings.TrimSpace(desc + " [" + strings.Join(i.p.Tags, ", ") + "]")
	}
	return desc
}

func (i item) FilterValue() string {
	return i.p.Searchable()
}

type keyMap struct {
	open key.Binding
	copy key.Binding
	back key.Binding
}

var keys = keyMap{
	open: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	copy: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy system prompt")),
	back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
}

type model struct {
	store      *store.Store
	log        *logging.Logger
	list       list.Model
	viewport   viewport.Model
	selected   *prompt.Prompt
	showDetail bool
	status     string
	width      int
	height     int
}

func newModel(st *store.Store, logger *logging.Logger) (*model, error) {
	prompts, err := st.List(store.ListOptions{})
	if err != nil {
		return nil, err
	}
	items := make([]list.Item, len(prompts))
	for i, p := range prompts {
		items[i] = item{p: p}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Prompts"
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.open, keys.copy}
	}

	return &model{store: st, log: logger, list: l}, nil
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height-1)
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 2
		return m, nil

	case tea.KeyMsg:
		if m.showDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Let the list's filter input swallow keys while active.
	if m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, keys.open):
			if it, ok := m.list.SelectedItem().(item); ok {
				m.selected = it.p
				m.viewport.SetContent(renderDetail(it.p))
				m.viewport.GotoTop()
				m.showDetail = true
				m.status = ""
			}
			return m, nil
		case key.Matches(msg, keys.copy):
			m.copySelected()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.back):
		m.showDetail = false
		return m, nil
	case key.Matches(msg, keys.copy):
		m.copySelected()
		return m, nil
	case msg.String() == "q" || msg.String() == "ctrl+c":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) copySelected() {
	var p *prompt.Prompt
	if m.showDetail {
		p = m.selected
	} else if it, ok := m.list.SelectedItem().(item); ok {
		p = it.p
	}
	if p == nil {
		return
	}
	if err := clipboard.WriteAll(p.SystemPrompt); err != nil {
		m.log.Warnf("clipboard copy failed: %v", err)
		m.status = "clipboard unavailable"
		return
	}
	m.status = fmt.Sprintf("copied system prompt of %s", p.Name)
}

func (m *model) View() string {
	if m.showDetail {
		help := helpStyle.Render("esc back • c copy • q quit")
		return m.viewport.View() + "\n" + m.statusLine(help)
	}
	return m.list.View() + "\n" + m.statusLine("")
}

func (m *model) statusLine(fallback string) string {
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return fallback
}

func renderDetail(p *prompt.Prompt) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(p.Name) + "\n\n")
	if p.Group != "" {
		sb.WriteString(labelStyle.Render("Group: ") + p.Group + "\n")
	}
	if p.Description != "" {
		sb.WriteString(labelStyle.Render("Description: ") + p.Description + "\n")
	}
	if len(p.Tags) > 0 {
		sb.WriteString(labelStyle.Render("Tags: ") + strings.Join(p.Tags, ", ") + "\n")
	}
	sb.WriteString("\n" + labelStyle.Render("System prompt") + "\n" + p.SystemPrompt + "\n")
	if p.UserPrompt != "" {
		sb.WriteString("\n" + labelStyle.Render("User prompt") + "\n" + p.UserPrompt + "\n")
	}
	return sb.String()
}

// Run starts the interactive browser and blocks until the user quits.
func Run(st *store.Store, logger *logging.Logger) error {
	m, err := newModel(st, logger)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
