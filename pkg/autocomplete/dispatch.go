package autocomplete

import (
	"context"
	"sync"
)

// Dispatcher runs a resolution and delivers its result to the owning goroutine.
// work may block; the closure it returns must be executed exactly once, on
// the goroutine that owns the State, with no other State call in between.
type Dispatcher interface {
	Dispatch(work func() (apply func()))
}

// Inline runs work and apply on the calling goroutine before Dispatch returns.
type Inline struct{}

// Dispatch implements Dispatcher.
func (Inline) Dispatch(work func() func()) {
	work()()
}

// Queue defers work until the owner asks for it. It is not safe for
// concurrent use and is meant to be driven from the State's goroutine.
type Queue struct {
	items []func() func()
}

// Dispatch implements Dispatcher.
func (q *Queue) Dispatch(work func() func()) {
	q.items = append(q.items, work)
}

// Len reports how many dispatched items have not run yet.
func (q *Queue) Len() int {
	return len(q.items)
}

// Tick runs every item pending at the time of the call, oldest first, and
// returns how many ran. Items dispatched while ticking wait for the next Tick.
func (q *Queue) Tick() int {
	items := q.items
	q.items = nil
	for _, work := range items {
		work()()
	}
	return len(items)
}

// Complete runs the i-th pending item (0 is the oldest) out of order.
// It returns false when there is no such item.
func (q *Queue) Complete(i int) bool {
	if i < 0 || i >= len(q.items) {
		return false
	}
	work := q.items[i]
	q.items = append(q.items[:i:i], q.items[i+1:]...)
	work()()
	return true
}

// Loop is a serial event loop. Tasks posted to it run one at a time on the
// goroutine executing Run, which makes that goroutine the owner of any State
// driven through it.
type Loop struct {
	tasks    chan func()
	stop     chan struct{}
	stopOnce sync.Once
	inflight sync.WaitGroup
}

// NewLoop creates a loop whose task queue holds up to buffer entries.
func NewLoop(buffer int) *Loop {
	if buffer < 0 {
		buffer = 0
	}
	return &Loop{
		tasks: make(chan func(), buffer),
		stop:  make(chan struct{}),
	}
}

// Run executes tasks until ctx is done or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.stop:
			return nil
		case fn := <-l.tasks:
			select {
			case <-ctx.Done():
				l.Close()
				return ctx.Err()
			case <-l.stop:
				return nil
			default:
			}
			fn()
		}
	}
}

// Post enqueues fn without waiting for it to run. It returns false once the
// loop has stopped. Tasks still queued when the loop stops never run.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stop:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
	case <-l.stop:
		return false
	}
	select {
	case <-l.stop:
		return false
	default:
		return true
	}
}

// Do runs fn on the loop and waits for it to finish. It must not be called
// from a task already running on the loop.
func (l *Loop) Do(fn func()) bool {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return false
	}
	select {
	case <-done:
		return true
	case <-l.stop:
		return false
	}
}

// Dispatch implements Dispatcher. work runs on its own goroutine and the
// returned apply is posted back to the loop.
func (l *Loop) Dispatch(work func() func()) {
	l.inflight.Add(1)
	go func() {
		defer l.inflight.Done()
		apply := work()
		l.Post(apply)
	}()
}

// Wait blocks until every dispatched work item has returned and its apply
// has been handed to the loop (or dropped because the loop stopped).
func (l *Loop) Wait() {
	l.inflight.Wait()
}

// Close stops the loop. Tasks still queued are discarded.
func (l *Loop) Close() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
}
