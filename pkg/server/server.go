package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/autocomplete"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	// ErrUnknownSession is reported for ops on a session that is not open.
	ErrUnknownSession = errors.New("unknown session")
	// ErrBadRequest is reported for malformed requests.
	ErrBadRequest = errors.New("bad request")
)

const (
	loopBuffer = 64

	// DefaultDrainTimeout bounds how long Start waits for in-flight
	// resolutions once the client has gone.
	DefaultDrainTimeout = 2 * time.Second
)

type session struct {
	id    string
	state *autocomplete.State[string]
}

// Server handles the IPC for autocomplete sessions. All sessions live on a
// single event loop; resolutions run on their own goroutines.
type Server struct {
	resolver autocomplete.Resolver[string]
	defaults autocomplete.Config
	reader   io.Reader
	writer   *bufio.Writer
	enc      *msgpack.Encoder

	drainTimeout time.Duration

	// owned by the loop goroutine
	loop     *autocomplete.Loop
	ctx      context.Context
	sessions map[string]*session
	nextID   int
}

// NewServer creates a server on stdin/stdout.
func NewServer(resolver autocomplete.Resolver[string], defaults autocomplete.Config) *Server {
	return NewServerWithIO(resolver, defaults, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing
// responses to w.
func NewServerWithIO(resolver autocomplete.Resolver[string], defaults autocomplete.Config, r io.Reader, w io.Writer) *Server {
	writer := bufio.NewWriter(w)
	return &Server{
		resolver: resolver,
		defaults: defaults,
		reader:   r,
		writer:   writer,
		enc:      msgpack.NewEncoder(writer),
		loop:     autocomplete.NewLoop(loopBuffer),
		sessions: make(map[string]*session),

		drainTimeout: DefaultDrainTimeout,
	}
}

// SetDrainTimeout changes how long Start waits for in-flight resolutions
// after the end of input.
func (s *Server) SetDrainTimeout(d time.Duration) {
	s.drainTimeout = d
}

// Start serves requests until the input ends or ctx is done. On end of input
// it waits up to the drain timeout for in-flight resolutions and flushes their
// updates; resolutions still running after that are cancelled.
func (s *Server) Start(ctx context.Context) error {
	log.Debug("Starting server.")

	resolveCtx, cancelResolves := context.WithCancel(ctx)
	defer cancelResolves()
	s.ctx = resolveCtx
	go s.loop.Run(ctx)
	defer s.loop.Close()

	s.loop.Do(func() {
		s.send(HealthResponse{Event: EventReady, Status: "ready"})
	})

	requests := make(chan Request)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)
	go s.readRequests(requests, readErr, stop)

	for {
		select {
		case <-ctx.Done():
			log.Debug("Context done, stopping server.")
			return ctx.Err()
		case err := <-readErr:
			if err != nil {
				log.Errorf("Decoding request: %v", err)
				s.loop.Do(func() {
					s.sendError("", "", fmt.Errorf("%w: %v", ErrBadRequest, err), 400)
				})
				return err
			}
			log.Debug("Client disconnected (EOF), waiting for pending resolutions.")
			if !s.drain(ctx, cancelResolves) {
				return ctx.Err()
			}
			return nil
		case req := <-requests:
			if !s.loop.Do(func() { s.handleRequest(req) }) {
				return ctx.Err()
			}
		}
	}
}

// readRequests decodes the input stream until it fails or stop is closed. EOF
// is reported as a nil error. It may stay blocked on the reader after Start
// returned.
func (s *Server) readRequests(requests chan<- Request, readErr chan<- error, stop <-chan struct{}) {
	dec := msgpack.NewDecoder(bufio.NewReader(s.reader))
	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				err = nil
			}
			readErr <- err
			return
		}
		select {
		case requests <- req:
		case <-stop:
			return
		}
	}
}

// drain waits for in-flight resolutions and flushes their updates. After the
// drain timeout it cancels them and gives up on their results. It returns
// false when ctx ended first.
func (s *Server) drain(ctx context.Context, cancelResolves context.CancelFunc) bool {
	landed := make(chan struct{})
	go func() {
		s.loop.Wait()
		close(landed)
	}()

	select {
	case <-landed:
	case <-ctx.Done():
		return false
	case <-time.After(s.drainTimeout):
		log.Warnf("Pending resolutions still running after %s, cancelling them.", s.drainTimeout)
		cancelResolves()
		return true
	}
	// applies posted by the last resolutions run before this barrier
	return s.loop.Do(func() {})
}

// handleRequest runs on the loop.
func (s *Server) handleRequest(req Request) {
	log.Debugf("Request %s: op=%s session=%s", req.ID, req.Op, req.Session)

	switch req.Op {
	case OpHealth:
		s.send(HealthResponse{ID: req.ID, Event: EventHealth, Status: "ok", Sessions: len(s.sessions)})
		return
	case OpOpen:
		s.handleOpen(req)
		return
	}

	sess, ok := s.sessions[req.Session]
	if !ok {
		s.sendError(req.ID, req.Session, fmt.Errorf("%w: %q", ErrUnknownSession, req.Session), 404)
		return
	}
	st := sess.state

	switch req.Op {
	case OpInput:
		st.OnInput(req.Text)
	case OpResolve:
		st.Resolve()
	case OpNext:
		st.HighlightNext()
	case OpPrev:
		st.HighlightPrevious()
	case OpSelect:
		if err := validateIndex(req.Index, len(st.Candidates())); err != nil {
			s.sendError(req.ID, sess.id, err, 400)
			return
		}
		st.SelectItem(*req.Index)
	case OpSelectCurrent:
		st.SelectCurrent()
	case OpKey:
		key := autocomplete.ParseKey(req.Key)
		if key == autocomplete.KeyNone {
			s.sendError(req.ID, sess.id, fmt.Errorf("%w: unknown key %q", ErrBadRequest, req.Key), 400)
			return
		}
		st.HandleKey(key)
	case OpState:
	case OpClose:
		delete(s.sessions, sess.id)
		log.Debugf("Closed session %s", sess.id)
	default:
		s.sendError(req.ID, sess.id, fmt.Errorf("%w: unknown op %q", ErrBadRequest, req.Op), 400)
		return
	}

	s.sendState(sess, req.ID, EventState)
}

func (s *Server) handleOpen(req Request) {
	id := req.Session
	if id == "" {
		s.nextID++
		id = "s" + strconv.Itoa(s.nextID)
	}
	if _, exists := s.sessions[id]; exists {
		s.sendError(req.ID, id, fmt.Errorf("%w: session %q already open", ErrBadRequest, id), 400)
		return
	}

	sess := &session{id: id}
	sess.state = autocomplete.New[string](
		applyOverrides(s.defaults, req.Config),
		s.resolver,
		func([]string) { s.sendState(sess, "", EventSelect) },
		autocomplete.WithDispatcher(notifyDispatcher{loop: s.loop, after: func() {
			// a closed session still receives its late results, silently
			if s.sessions[sess.id] == sess {
				s.sendState(sess, "", EventUpdate)
			}
		}}),
		autocomplete.WithContext(s.ctx),
		autocomplete.WithErrorHandler(func(query string, err error) {
			code := 500
			if errors.Is(err, suggest.ErrPrefixTooLong) {
				code = 400
			}
			log.Warnf("Resolving %q for session %s: %v", query, sess.id, err)
			s.sendError("", sess.id, err, code)
		}),
	)
	s.sessions[id] = sess
	log.Debugf("Opened session %s", id)

	s.sendState(sess, req.ID, EventState)
}

func applyOverrides(cfg autocomplete.Config, o *SessionConfig) autocomplete.Config {
	if o == nil {
		return cfg
	}
	if o.AutoResolve != nil {
		cfg.AutoResolve = *o.AutoResolve
	}
	if o.MultiSelect != nil {
		cfg.MultiSelect = *o.MultiSelect
	}
	if o.ShowSelected != nil {
		cfg.ShowSelected = *o.ShowSelected
	}
	if o.MinTriggerLength != nil {
		cfg.MinTriggerLength = *o.MinTriggerLength
	}
	return cfg
}

func validateIndex(index *int, n int) error {
	if index == nil {
		return fmt.Errorf("%w: missing index", ErrBadRequest)
	}
	if *index < 0 || *index >= n {
		return fmt.Errorf("%w: candidate index %d out of range [0,%d)", ErrBadRequest, *index, n)
	}
	return nil
}

func (s *Server) sendState(sess *session, id, event string) {
	view := sess.state.Snapshot()
	ranks := utils.CreateRankList(len(view.Candidates))
	candidates := make([]Candidate, len(view.Candidates))
	for i, word := range view.Candidates {
		candidates[i] = Candidate{Word: word, Rank: ranks[i]}
	}
	s.send(StateResponse{
		ID:           id,
		Event:        event,
		Session:      sess.id,
		Text:         view.Input,
		Candidates:   candidates,
		Highlighted:  view.Highlighted,
		Selected:     view.Selected,
		Pending:      view.Pending,
		ShowSelected: view.ShowSelected,
	})
}

func (s *Server) sendError(id, sessionID string, err error, code int) {
	s.send(ErrorResponse{
		ID:      id,
		Event:   EventError,
		Session: sessionID,
		Error:   err.Error(),
		Code:    code,
	})
}

// send must only be called from the loop.
func (s *Server) send(v any) {
	if err := s.enc.Encode(v); err != nil {
		log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		log.Errorf("Writing response: %v", err)
	}
}

// notifyDispatcher runs resolutions through the loop and reports every
// applied result.
type notifyDispatcher struct {
	loop  *autocomplete.Loop
	after func()
}

func (d notifyDispatcher) Dispatch(work func() func()) {
	d.loop.Dispatch(func() func() {
		apply := work()
		return func() {
			apply()
			d.after()
		}
	})
}
