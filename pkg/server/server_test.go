package server

import (
	"context"
	"errors"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/bastiangx/typeahead/pkg/autocomplete"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

var countries = map[string][]string{
	"unit": {"United Arab Emirates", "United Kingdom", "United States"},
	"foo":  {"foo", "foobar"},
	"bar":  {"bar", "barbaz"},
}

func tableResolver(_ context.Context, query string) ([]string, error) {
	if query == "boom" {
		return nil, errors.New("dictionary unavailable")
	}
	return countries[query], nil
}

// harness plays the client side of the pipe.
type harness struct {
	t       *testing.T
	in      *io.PipeWriter
	enc     *msgpack.Encoder
	out     chan any
	done    chan error
	backlog []any
	nextID  int
}

func startServer(t *testing.T, resolver autocomplete.Resolver[string], cfg autocomplete.Config, opts ...func(*Server)) *harness {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	h := &harness{
		t:    t,
		in:   inW,
		enc:  msgpack.NewEncoder(inW),
		out:  make(chan any, 64),
		done: make(chan error, 1),
	}

	srv := NewServerWithIO(resolver, cfg, inR, outW)
	for _, opt := range opts {
		opt(srv)
	}
	go func() {
		err := srv.Start(context.Background())
		outW.Close()
		h.done <- err
	}()
	go func() {
		dec := msgpack.NewDecoder(outR)
		for {
			msg, err := DecodeResponse(dec)
			if err != nil {
				close(h.out)
				return
			}
			h.out <- msg
		}
	}()
	t.Cleanup(func() { inW.Close() })

	ready := h.next()
	require.Equal(t, HealthResponse{Event: EventReady, Status: "ready"}, ready)
	return h
}

func (h *harness) next() any {
	h.t.Helper()
	select {
	case msg, ok := <-h.out:
		require.True(h.t, ok, "server closed its output")
		return msg
	case <-time.After(2 * time.Second):
		h.t.Fatal("timed out waiting for the server")
		return nil
	}
}

func responseID(msg any) string {
	switch m := msg.(type) {
	case StateResponse:
		return m.ID
	case HealthResponse:
		return m.ID
	case ErrorResponse:
		return m.ID
	}
	return ""
}

// call sends req and returns the reply carrying its id. Other messages are
// kept for waitEvent.
func (h *harness) call(req Request) any {
	h.t.Helper()
	h.nextID++
	req.ID = strconv.Itoa(h.nextID)
	require.NoError(h.t, h.enc.Encode(req))

	for {
		msg := h.next()
		if responseID(msg) == req.ID {
			return msg
		}
		h.backlog = append(h.backlog, msg)
	}
}

func (h *harness) state(req Request) StateResponse {
	h.t.Helper()
	msg := h.call(req)
	resp, ok := msg.(StateResponse)
	require.True(h.t, ok, "expected a state reply, got %#v", msg)
	return resp
}

func (h *harness) fail(req Request) ErrorResponse {
	h.t.Helper()
	msg := h.call(req)
	resp, ok := msg.(ErrorResponse)
	require.True(h.t, ok, "expected an error reply, got %#v", msg)
	return resp
}

func (h *harness) waitEvent(event string) any {
	h.t.Helper()
	for i, msg := range h.backlog {
		if eventOf(msg) == event {
			h.backlog = append(h.backlog[:i], h.backlog[i+1:]...)
			return msg
		}
	}
	for {
		msg := h.next()
		if eventOf(msg) == event {
			return msg
		}
		h.backlog = append(h.backlog, msg)
	}
}

func eventOf(msg any) string {
	switch m := msg.(type) {
	case StateResponse:
		return m.Event
	case HealthResponse:
		return m.Event
	case ErrorResponse:
		return m.Event
	}
	return ""
}

func words(candidates []Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Word
	}
	return out
}

func intPtr(i int) *int    { return &i }
func boolPtr(b bool) *bool { return &b }

func TestHealth(t *testing.T) {
	h := startServer(t, autocomplete.ResolverFunc[string](tableResolver), autocomplete.DefaultConfig())

	h.state(Request{Op: OpOpen, Session: "a"})
	resp := h.call(Request{Op: OpHealth})

	health, ok := resp.(HealthResponse)
	require.True(t, ok)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 1, health.Sessions)
}

func TestSessionFlow(t *testing.T) {
	h := startServer(t, autocomplete.ResolverFunc[string](tableResolver), autocomplete.DefaultConfig())

	opened := h.state(Request{Op: OpOpen, Session: "search"})
	assert.Equal(t, "search", opened.Session)
	assert.Equal(t, -1, opened.Highlighted)

	typed := h.state(Request{Op: OpInput, Session: "search", Text: "unit"})
	assert.Equal(t, "unit", typed.Text)
	assert.Equal(t, 1, typed.Pending)
	assert.Empty(t, typed.Candidates)

	update := h.waitEvent(EventUpdate).(StateResponse)
	assert.Equal(t, 0, update.Pending)
	assert.Equal(t, countries["unit"], words(update.Candidates))
	assert.Equal(t, []uint16{1, 2, 3}, []uint16{update.Candidates[0].Rank, update.Candidates[1].Rank, update.Candidates[2].Rank})
	assert.Equal(t, -1, update.Highlighted)

	for _, key := range []string{"ArrowDown", "ArrowDown", "ArrowUp", "ArrowDown"} {
		h.state(Request{Op: OpKey, Session: "search", Key: key})
	}
	assert.Equal(t, 1, h.state(Request{Op: OpState, Session: "search"}).Highlighted)

	done := h.state(Request{Op: OpKey, Session: "search", Key: "Enter"})
	assert.Equal(t, []string{"United Kingdom"}, done.Selected)
	assert.Empty(t, done.Text)
	assert.Empty(t, done.Candidates)
	assert.Equal(t, -1, done.Highlighted)

	selected := h.waitEvent(EventSelect).(StateResponse)
	assert.Equal(t, []string{"United Kingdom"}, selected.Selected)
}

func TestShortInputDoesNotResolve(t *testing.T) {
	h := startServer(t, autocomplete.ResolverFunc[string](tableResolver), autocomplete.DefaultConfig())

	h.state(Request{Op: OpOpen, Session: "s"})
	resp := h.state(Request{Op: OpInput, Session: "s", Text: "uni"})

	assert.Equal(t, 0, resp.Pending)
	assert.Empty(t, resp.Candidates)
}

func TestManualMultiSelect(t *testing.T) {
	h := startServer(t, autocomplete.ResolverFunc[string](tableResolver), autocomplete.DefaultConfig())

	h.state(Request{Op: OpOpen, Session: "tags", Config: &SessionConfig{
		AutoResolve: boolPtr(false),
		MultiSelect: boolPtr(true),
	}})

	for _, query := range []string{"foo", "bar"} {
		typed := h.state(Request{Op: OpInput, Session: "tags", Text: query})
		assert.Equal(t, 0, typed.Pending, "manual mode never resolves on input")

		h.state(Request{Op: OpResolve, Session: "tags"})
		update := h.waitEvent(EventUpdate).(StateResponse)
		require.Equal(t, countries[query], words(update.Candidates))

		h.state(Request{Op: OpSelect, Session: "tags", Index: intPtr(1)})
	}

	final := h.state(Request{Op: OpState, Session: "tags"})
	assert.Equal(t, []string{"foobar", "barbaz"}, final.Selected)
}

func TestGeneratedSessionIDs(t *testing.T) {
	h := startServer(t, autocomplete.ResolverFunc[string](tableResolver), autocomplete.DefaultConfig())

	first := h.state(Request{Op: OpOpen})
	second := h.state(Request{Op: OpOpen})

	assert.NotEmpty(t, first.Session)
	assert.NotEqual(t, first.Session, second.Session)
}

func TestRequestErrors(t *testing.T) {
	h := startServer(t, autocomplete.ResolverFunc[string](tableResolver), autocomplete.DefaultConfig())
	h.state(Request{Op: OpOpen, Session: "s"})

	tests := []struct {
		name string
		req  Request
		code int
	}{
		{"unknown session", Request{Op: OpInput, Session: "nope", Text: "x"}, 404},
		{"unknown op", Request{Op: "explode", Session: "s"}, 400},
		{"duplicate session", Request{Op: OpOpen, Session: "s"}, 400},
		{"missing index", Request{Op: OpSelect, Session: "s"}, 400},
		{"index out of range", Request{Op: OpSelect, Session: "s", Index: intPtr(0)}, 400},
		{"negative index", Request{Op: OpSelect, Session: "s", Index: intPtr(-1)}, 400},
		{"unknown key", Request{Op: OpKey, Session: "s", Key: "Escape"}, 400},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := h.fail(tc.req)
			assert.Equal(t, tc.code, resp.Code)
			assert.Equal(t, EventError, resp.Event)
			assert.NotEmpty(t, resp.Error)
		})
	}

	// the session survives bad requests
	assert.Equal(t, "s", h.state(Request{Op: OpState, Session: "s"}).Session)
}

func TestResolverFailure(t *testing.T) {
	h := startServer(t, autocomplete.ResolverFunc[string](tableResolver), autocomplete.DefaultConfig())

	h.state(Request{Op: OpOpen, Session: "s"})
	h.state(Request{Op: OpInput, Session: "s", Text: "unit"})
	h.waitEvent(EventUpdate)

	h.state(Request{Op: OpInput, Session: "s", Text: "boom"})
	failure := h.waitEvent(EventError).(ErrorResponse)
	assert.Equal(t, 500, failure.Code)
	assert.Equal(t, "s", failure.Session)

	// candidates from the earlier resolution are kept
	resp := h.state(Request{Op: OpState, Session: "s"})
	assert.Equal(t, countries["unit"], words(resp.Candidates))
	assert.Equal(t, 0, resp.Pending)
}

func TestCloseSession(t *testing.T) {
	h := startServer(t, autocomplete.ResolverFunc[string](tableResolver), autocomplete.DefaultConfig())

	h.state(Request{Op: OpOpen, Session: "s"})
	h.state(Request{Op: OpClose, Session: "s"})

	assert.Equal(t, 404, h.fail(Request{Op: OpState, Session: "s"}).Code)
}

func TestEOFFlushesPendingUpdates(t *testing.T) {
	release := make(chan struct{})
	slow := autocomplete.ResolverFunc[string](func(ctx context.Context, query string) ([]string, error) {
		<-release
		return tableResolver(ctx, query)
	})
	h := startServer(t, slow, autocomplete.DefaultConfig())

	h.state(Request{Op: OpOpen, Session: "s"})
	h.state(Request{Op: OpInput, Session: "s", Text: "unit"})
	h.in.Close()
	close(release)

	var update *StateResponse
	for msg := range h.out {
		if resp, ok := msg.(StateResponse); ok && resp.Event == EventUpdate {
			update = &resp
		}
	}
	require.NotNil(t, update, "the pending resolution was not flushed")
	assert.Equal(t, countries["unit"], words(update.Candidates))

	select {
	case err := <-h.done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestStartReturnsOnCancelWhileIdle(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	defer inW.Close()
	defer outR.Close()

	srv := NewServerWithIO(autocomplete.ResolverFunc[string](tableResolver), autocomplete.DefaultConfig(), inR, outW)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	ready, err := DecodeResponse(msgpack.NewDecoder(outR))
	require.NoError(t, err)
	require.Equal(t, HealthResponse{Event: EventReady, Status: "ready"}, ready)

	// nothing is written to stdin; the server sits in its read
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Start still blocked on its input after cancel")
	}
}

func TestEOFCancelsStuckResolutions(t *testing.T) {
	cancelled := make(chan struct{})
	stuck := autocomplete.ResolverFunc[string](func(ctx context.Context, query string) ([]string, error) {
		<-ctx.Done()
		close(cancelled)
		return nil, ctx.Err()
	})
	h := startServer(t, stuck, autocomplete.DefaultConfig(), func(s *Server) {
		s.SetDrainTimeout(50 * time.Millisecond)
	})

	h.state(Request{Op: OpOpen, Session: "s"})
	assert.Equal(t, 1, h.state(Request{Op: OpInput, Session: "s", Text: "unit"}).Pending)
	h.in.Close()

	select {
	case err := <-h.done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after the end of input")
	}
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("the stuck resolution was not cancelled")
	}
}
