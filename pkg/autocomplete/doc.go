/*
Package autocomplete implements the typeahead interaction state machine.

A State buffers the text typed by the user, decides when to ask a Resolver for
candidates, tracks the highlighted candidate while the user moves with the
arrow keys and accumulates the committed selection.

	st := autocomplete.New(autocomplete.DefaultConfig(), resolver, func(sel []string) {
		fmt.Println("selected:", sel)
	})
	st.OnInput("unit")   // len > MinTriggerLength, resolves "unit"
	st.HighlightNext()   // index 0
	st.SelectCurrent()   // commits candidates[0], clears input and candidates

# Trigger gate

With AutoResolve on, every OnInput whose text is longer than MinTriggerLength
runes starts a resolution. Shorter text clears the candidates and the highlight
synchronously without calling the resolver. With AutoResolve off, OnInput only
stores the text and the caller must call Resolve explicitly (a "search" action).

# Dispatch boundary

Resolutions never touch the state from the resolver's goroutine. Resolve hands a
unit of work to a Dispatcher; the work runs the resolver and returns an apply
closure, and the dispatcher runs that closure on the goroutine that owns the
State. Three dispatchers are provided:

	Inline  runs work and apply on the caller, useful for synchronous harnesses
	Queue   holds work until Tick or Complete, so tests pick the delivery order
	Loop    a serial event loop; work runs on its own goroutine, apply on the loop

Front ends with their own event loop (bubbletea, for instance) implement
Dispatcher by turning the work into a message for that loop.

# Stale responses

In-flight resolutions are never canceled. Whichever response is applied last
replaces the candidates, even when it answers an older query. Callers that
need "last request wins" must filter in their Resolver.

# Concurrency

State does no locking. Every method call and every apply must happen on one
logical thread of control. Separate State values share nothing.
*/
package autocomplete
