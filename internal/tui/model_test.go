package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/bastiangx/typeahead/pkg/autocomplete"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var table = map[string][]string{
	"unit":  {"United Arab Emirates", "United Kingdom", "United States"},
	"unite": {"United Arab Emirates", "United Kingdom", "United States", "Unite"},
}

func resolver(_ context.Context, query string) ([]string, error) {
	if query == "fail" {
		return nil, errors.New("offline")
	}
	return table[query], nil
}

func newModel(cfg autocomplete.Config) *Model {
	return New(autocomplete.ResolverFunc[string](resolver), cfg)
}

// typeText sends one key press per rune and returns the resolution commands
// the presses produced, oldest first.
func typeText(m *Model, text string) []tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range text {
		m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		cmds = append(cmds, m.dispatcher.take()...)
	}
	return cmds
}

func press(m *Model, keyType tea.KeyType) []tea.Cmd {
	m.handleKey(tea.KeyMsg{Type: keyType})
	return m.dispatcher.take()
}

// deliver runs a resolution command and feeds its message back into Update.
func deliver(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	msg, ok := cmd().(resolvedMsg)
	require.True(t, ok, "expected a resolution message")
	m.Update(msg)
}

func TestTypingResolvesPastTriggerLength(t *testing.T) {
	m := newModel(autocomplete.DefaultConfig())

	cmds := typeText(m, "uni")
	assert.Empty(t, cmds)

	cmds = typeText(m, "t")
	require.Len(t, cmds, 1)
	assert.Contains(t, m.View(), "resolving...")

	deliver(t, m, cmds[0])
	assert.Equal(t, table["unit"], m.state.Candidates())
	assert.Contains(t, m.View(), "United Kingdom")
	assert.NotContains(t, m.View(), "resolving...")
}

func TestNavigateAndSelect(t *testing.T) {
	m := newModel(autocomplete.DefaultConfig())
	for _, cmd := range typeText(m, "unit") {
		deliver(t, m, cmd)
	}

	press(m, tea.KeyDown)
	press(m, tea.KeyDown)
	press(m, tea.KeyUp)
	press(m, tea.KeyDown)
	idx, ok := m.state.Highlighted()
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	press(m, tea.KeyEnter)
	assert.Equal(t, []string{"United Kingdom"}, m.Selected())
	assert.Empty(t, m.input.Value(), "selection clears the text field")
	assert.Empty(t, m.state.Candidates())
}

func TestStaleResultWins(t *testing.T) {
	m := newModel(autocomplete.DefaultConfig())

	cmds := typeText(m, "unite")
	require.Len(t, cmds, 2)

	// the newer query lands first, the older one last
	deliver(t, m, cmds[1])
	deliver(t, m, cmds[0])

	assert.Equal(t, table["unit"], m.state.Candidates())
	assert.Equal(t, "unite", m.state.Input())
}

func TestManualModeResolvesOnTab(t *testing.T) {
	cfg := autocomplete.DefaultConfig()
	cfg.AutoResolve = false
	m := newModel(cfg)

	assert.Empty(t, typeText(m, "unit"))
	assert.Contains(t, m.View(), "tab search")

	cmds := press(m, tea.KeyTab)
	require.Len(t, cmds, 1)
	deliver(t, m, cmds[0])
	assert.Len(t, m.state.Candidates(), 3)
}

func TestResolverErrorIsShown(t *testing.T) {
	m := newModel(autocomplete.DefaultConfig())

	cmds := typeText(m, "fail")
	require.Len(t, cmds, 1)
	deliver(t, m, cmds[0])

	assert.Contains(t, m.View(), "offline")
}

func TestQuitKeys(t *testing.T) {
	for _, keyType := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := newModel(autocomplete.DefaultConfig())
		_, cmd := m.Update(tea.KeyMsg{Type: keyType})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}

func TestShowSelected(t *testing.T) {
	cfg := autocomplete.DefaultConfig()
	cfg.ShowSelected = true
	cfg.MultiSelect = true
	m := newModel(cfg)

	for _, cmd := range typeText(m, "unit") {
		deliver(t, m, cmd)
	}
	press(m, tea.KeyDown)
	press(m, tea.KeyEnter)

	assert.Contains(t, m.View(), "selected: United Arab Emirates")
}
