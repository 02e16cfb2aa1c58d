package autocomplete

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"
)

const noHighlight = -1

// ErrNilResolver is the panic value of New when it is given no resolver.
var ErrNilResolver = errors.New("autocomplete: nil resolver")

// IndexError is the panic value of SelectItem when the index is outside the
// candidate list. Selecting a missing candidate is a bug in the caller.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("autocomplete: candidate index %d out of range [0,%d)", e.Index, e.Len)
}

// Option tunes a State at construction time.
type Option func(*settings)

type settings struct {
	ctx        context.Context
	dispatcher Dispatcher
	onError    ErrorFunc
}

// WithDispatcher sets the dispatch boundary. The default is Inline.
func WithDispatcher(d Dispatcher) Option {
	return func(s *settings) {
		s.dispatcher = d
	}
}

// WithContext sets the context handed to every Resolve call. It should live
// as long as the widget does.
func WithContext(ctx context.Context) Option {
	return func(s *settings) {
		s.ctx = ctx
	}
}

// WithErrorHandler reports resolver failures. Without it failures are dropped.
func WithErrorHandler(fn ErrorFunc) Option {
	return func(s *settings) {
		s.onError = fn
	}
}

// State is the interaction state of one autocomplete widget.
type State[T comparable] struct {
	input       string
	candidates  []T
	highlighted int
	selected    []T
	pending     int

	cfg        Config
	ctx        context.Context
	resolver   Resolver[T]
	dispatcher Dispatcher
	onSelect   SelectionFunc[T]
	onError    ErrorFunc
}

// New creates an empty State. onSelect may be nil; resolver may not.
func New[T comparable](cfg Config, resolver Resolver[T], onSelect SelectionFunc[T], opts ...Option) *State[T] {
	if resolver == nil {
		panic(ErrNilResolver)
	}
	set := settings{
		ctx:        context.Background(),
		dispatcher: Inline{},
	}
	for _, opt := range opts {
		opt(&set)
	}
	if onSelect == nil {
		onSelect = func([]T) {}
	}
	return &State[T]{
		highlighted: noHighlight,
		cfg:         cfg.normalized(),
		ctx:         set.ctx,
		resolver:    resolver,
		dispatcher:  set.dispatcher,
		onSelect:    onSelect,
		onError:     set.onError,
	}
}

// OnInput records the text typed by the user and, in auto mode, either starts
// a resolution or clears the candidates when the text is too short.
func (s *State[T]) OnInput(text string) {
	s.input = text
	if !s.cfg.AutoResolve {
		return
	}
	if utf8.RuneCountInString(text) > s.cfg.MinTriggerLength {
		s.Resolve()
		return
	}
	s.candidates = nil
	s.highlighted = noHighlight
}

// Resolve asks the resolver for candidates matching the current input. The
// query is captured now; the result lands whenever the dispatcher applies it.
func (s *State[T]) Resolve() {
	query := s.input
	ctx, resolver := s.ctx, s.resolver
	s.pending++
	s.dispatcher.Dispatch(func() func() {
		items, err := resolver.Resolve(ctx, query)
		return func() {
			s.pending--
			if err != nil {
				if s.onError != nil {
					s.onError(query, err)
				}
				return
			}
			s.setCandidates(items)
		}
	})
}

func (s *State[T]) setCandidates(items []T) {
	s.candidates = slices.Clone(items)
	s.highlighted = noHighlight
}

// HighlightNext moves the highlight down one candidate, stopping at the last.
func (s *State[T]) HighlightNext() {
	next := 0
	if s.highlighted != noHighlight {
		next = s.highlighted + 1
	}
	if next < len(s.candidates) {
		s.highlighted = next
	}
}

// HighlightPrevious moves the highlight up one candidate, stopping at the first.
func (s *State[T]) HighlightPrevious() {
	if s.highlighted > 0 {
		s.highlighted--
	}
}

// SelectCurrent commits the highlighted candidate, if any.
func (s *State[T]) SelectCurrent() {
	if s.highlighted == noHighlight {
		return
	}
	s.SelectItem(s.highlighted)
}

// SelectItem commits candidates[index]. It panics with *IndexError when index
// is out of range.
func (s *State[T]) SelectItem(index int) {
	if index < 0 || index >= len(s.candidates) {
		panic(&IndexError{Index: index, Len: len(s.candidates)})
	}
	value := s.candidates[index]

	if s.cfg.MultiSelect {
		if !slices.Contains(s.selected, value) {
			s.selected = append(s.selected, value)
		}
	} else {
		s.selected = []T{value}
	}

	s.input = ""
	s.candidates = nil
	s.highlighted = noHighlight

	s.onSelect(slices.Clone(s.selected))
}

// Input returns the current text.
func (s *State[T]) Input() string {
	return s.input
}

// Candidates returns a copy of the current candidate list.
func (s *State[T]) Candidates() []T {
	return slices.Clone(s.candidates)
}

// Highlighted returns the highlighted index and whether there is one.
func (s *State[T]) Highlighted() (int, bool) {
	if s.highlighted == noHighlight {
		return 0, false
	}
	return s.highlighted, true
}

// Selected returns a copy of the committed selection in insertion order.
func (s *State[T]) Selected() []T {
	return slices.Clone(s.selected)
}

// Config returns the configuration the State was built with.
func (s *State[T]) Config() Config {
	return s.cfg
}

// Pending returns the number of resolutions dispatched but not yet applied.
func (s *State[T]) Pending() int {
	return s.pending
}

// View is a point-in-time copy of everything a renderer needs.
type View[T comparable] struct {
	Input        string
	Candidates   []T
	Highlighted  int // -1 when nothing is highlighted
	Selected     []T
	Pending      int
	AutoResolve  bool
	ShowSelected bool
}

// Snapshot copies the current state into a View.
func (s *State[T]) Snapshot() View[T] {
	return View[T]{
		Input:        s.input,
		Candidates:   s.Candidates(),
		Highlighted:  s.highlighted,
		Selected:     s.Selected(),
		Pending:      s.pending,
		AutoResolve:  s.cfg.AutoResolve,
		ShowSelected: s.cfg.ShowSelected,
	}
}
