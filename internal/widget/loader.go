// Package widget tracks the request state of a self-loading page panel.
package widget

import "sync"

// State is where a Loader is in its request cycle.
type State int

const (
	Idle State = iota
	Loading
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Ticket identifies one request started on a Loader.
type Ticket uint64

// Snapshot is a consistent view of a Loader.
type Snapshot[T any] struct {
	State State
	Value T
	Err   error
}

// Loader moves idle → loading → success|error. Only the most recently
// started request may complete it; results carrying an older ticket are
// dropped. A Loader is safe for concurrent use.
type Loader[T any] struct {
	mu    sync.Mutex
	seq   Ticket
	state State
	value T
	err   error
}

// Start begins a request and returns its ticket. The previous value stays
// readable while loading.
func (l *Loader[T]) Start() Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.state = Loading
	l.err = nil
	return l.seq
}

// Finish records the outcome of the request identified by t. It reports
// false, and changes nothing, when t has been superseded or the loader was
// reset.
func (l *Loader[T]) Finish(t Ticket, value T, err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t != l.seq || l.state != Loading {
		return false
	}
	if err != nil {
		var zero T
		l.state, l.value, l.err = Error, zero, err
		return true
	}
	l.state, l.value, l.err = Success, value, nil
	return true
}

// Reset returns to Idle and invalidates every outstanding ticket.
func (l *Loader[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	var zero T
	l.seq++
	l.state, l.value, l.err = Idle, zero, nil
}

// Snapshot returns the current state, value and error together.
func (l *Loader[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot[T]{State: l.state, Value: l.value, Err: l.err}
}

// State returns the current state.
func (l *Loader[T]) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}
