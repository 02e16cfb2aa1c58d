// Package cli is a line-mode front end for driving an autocomplete state by hand.
package cli

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/bastiangx/typeahead/internal/logger"
	"github.com/bastiangx/typeahead/pkg/autocomplete"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const help = "type text to search; :r resolve, :n next, :p prev, :s select highlighted, :s N select N, :q quit"

var (
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
)

// InputHandler reads one command per line and prints the state after each.
// Resolutions run inline, so every line sees its own results.
type InputHandler struct {
	state        *autocomplete.State[string]
	in           io.Reader
	log          *log.Logger
	requestCount int
}

// NewInputHandler creates a handler reading from in and printing to out.
func NewInputHandler(resolver autocomplete.Resolver[string], cfg autocomplete.Config, in io.Reader, out io.Writer) *InputHandler {
	h := &InputHandler{
		in:  in,
		log: logger.New(out, "typeahead"),
	}
	h.state = autocomplete.New[string](cfg, resolver,
		func(selected []string) {
			h.log.Print("selected", "items", strings.Join(selected, ", "))
		},
		autocomplete.WithErrorHandler(func(query string, err error) {
			h.log.Warn("lookup failed", "query", query, "err", err)
		}),
	)
	return h
}

// State exposes the underlying state machine.
func (h *InputHandler) State() *autocomplete.State[string] {
	return h.state
}

// Start runs until :q or the end of input.
func (h *InputHandler) Start() error {
	h.log.Print("typeahead CLI")
	h.log.Print(help)

	scanner := bufio.NewScanner(h.in)
	for scanner.Scan() {
		if quit := h.handleLine(scanner.Text()); quit {
			return nil
		}
	}
	return scanner.Err()
}

// handleLine applies one line and reports whether the user asked to quit.
func (h *InputHandler) handleLine(line string) bool {
	h.requestCount++
	line = strings.TrimRight(line, "\r\n")

	if !strings.HasPrefix(line, ":") {
		h.state.OnInput(line)
		h.render()
		return false
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case ":q":
		return true
	case ":r":
		h.state.Resolve()
	case ":n":
		h.state.HighlightNext()
	case ":p":
		h.state.HighlightPrevious()
	case ":s":
		if len(fields) == 1 {
			if _, ok := h.state.Highlighted(); !ok {
				h.log.Warn("nothing highlighted")
			}
			h.state.SelectCurrent()
			break
		}
		index, err := strconv.Atoi(fields[1])
		if err != nil {
			h.log.Error("invalid index", "value", fields[1])
			return false
		}
		if n := len(h.state.Candidates()); index < 0 || index >= n {
			h.log.Error("index out of range", "index", index, "candidates", n)
			return false
		}
		h.state.SelectItem(index)
	case ":h":
		h.log.Print(help)
		return false
	default:
		h.log.Error("unknown command", "command", fields[0])
		return false
	}
	h.render()
	return false
}

func (h *InputHandler) render() {
	view := h.state.Snapshot()
	log.Debugf("request %d: pending=%d", h.requestCount, view.Pending)

	if len(view.Candidates) == 0 {
		h.log.Printf("%q: no candidates", view.Input)
	} else {
		h.log.Printf("%q: %d candidates", view.Input, len(view.Candidates))
	}
	for i, word := range view.Candidates {
		if i == view.Highlighted {
			h.log.Printf("> %2d. %s", i, highlightStyle.Render(word))
			continue
		}
		h.log.Printf("  %2d. %s", i, word)
	}
	if view.ShowSelected && len(view.Selected) > 0 {
		h.log.Printf("selected: %s", selectedStyle.Render(strings.Join(view.Selected, ", ")))
	}
}
