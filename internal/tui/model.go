// Package tui is a bubbletea front end for the autocomplete state machine.
// Resolutions run as tea.Cmds, so bubbletea's event loop is the owner of the
// state and the messages carrying results are its dispatch boundary.
package tui

import (
	"fmt"
	"strings"

	"github.com/bastiangx/typeahead/pkg/autocomplete"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// resolvedMsg carries a finished resolution back into Update.
type resolvedMsg struct {
	apply func()
}

// cmdDispatcher turns dispatched work into tea.Cmds collected until the
// current Update returns.
type cmdDispatcher struct {
	pending []tea.Cmd
}

func (d *cmdDispatcher) Dispatch(work func() func()) {
	d.pending = append(d.pending, func() tea.Msg {
		return resolvedMsg{apply: work()}
	})
}

func (d *cmdDispatcher) take() []tea.Cmd {
	cmds := d.pending
	d.pending = nil
	return cmds
}

// Model is the tea.Model of the typeahead prompt.
type Model struct {
	state      *autocomplete.State[string]
	dispatcher *cmdDispatcher
	input      textinput.Model
	lastErr    string
	width      int
}

// New creates a focused prompt resolving through resolver.
func New(resolver autocomplete.Resolver[string], cfg autocomplete.Config) *Model {
	ti := textinput.New()
	ti.Placeholder = "Type to search..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	m := &Model{
		dispatcher: &cmdDispatcher{},
		input:      ti,
	}
	m.state = autocomplete.New[string](cfg, resolver, nil,
		autocomplete.WithDispatcher(m.dispatcher),
		autocomplete.WithErrorHandler(func(query string, err error) {
			m.lastErr = fmt.Sprintf("%q: %v", query, err)
		}),
	)
	return m
}

// Selected returns the committed selection.
func (m *Model) Selected() []string {
	return m.state.Selected()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resolvedMsg:
		m.lastErr = ""
		msg.apply()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		cmd, quit := m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
		return m, tea.Batch(append(m.dispatcher.take(), cmd)...)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey applies a key press and returns the text field's command.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return nil, true
	case "tab":
		m.state.Resolve()
		return nil, false
	}

	if key := autocomplete.ParseKey(msg.String()); key != autocomplete.KeyNone {
		if m.state.HandleKey(key) {
			m.syncInput()
		}
		return nil, false
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.state.OnInput(value)
	}
	return cmd, false
}

// syncInput mirrors the state's text, which a selection clears.
func (m *Model) syncInput() {
	if m.input.Value() != m.state.Input() {
		m.input.SetValue(m.state.Input())
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	view := m.state.Snapshot()
	var b strings.Builder

	b.WriteString(titleStyle.Render("typeahead"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if view.Pending > 0 {
		b.WriteString(subtleStyle.Render("resolving..."))
		b.WriteString("\n")
	}
	for i, word := range view.Candidates {
		if i == view.Highlighted {
			b.WriteString(highlightStyle.Render("> " + word))
		} else {
			b.WriteString(itemStyle.Render("  " + word))
		}
		b.WriteString("\n")
	}
	if m.lastErr != "" {
		b.WriteString(errorStyle.Render(m.lastErr))
		b.WriteString("\n")
	}
	if view.ShowSelected && len(view.Selected) > 0 {
		b.WriteString("\n")
		b.WriteString(selectedStyle.Render("selected: " + strings.Join(view.Selected, ", ")))
		b.WriteString("\n")
	}

	hint := "↑/↓ move • enter select • esc quit"
	if !view.AutoResolve {
		hint = "tab search • " + hint
	}
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(hint))
	return b.String()
}
