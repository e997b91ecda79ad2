package board

import (
	"context"
	"fmt"
	"sync"

	"github.com/thenoetrevino/tablero/internal/types"
)

// Outcome is how an optimistic mutation settled
type Outcome int

const (
	Pending Outcome = iota
	// Persisted means the backend acknowledged the mutation
	Persisted
	// Reverted means persistence failed and local state was rolled back
	Reverted
	// Superseded means persistence failed after newer state replaced the
	// mutation, so nothing was rolled back
	Superseded
)

func (o Outcome) String() string {
	switch o {
	case Persisted:
		return "persisted"
	case Reverted:
		return "reverted"
	case Superseded:
		return "superseded"
	}
	return "pending"
}

// Op tracks one optimistic mutation until the backend answers
type Op struct {
	kind string
	seq  uint64
	done chan struct{}

	mu      sync.Mutex
	outcome Outcome
	err     error
}

func newOp(kind string, seq uint64) *Op {
	return &Op{kind: kind, seq: seq, done: make(chan struct{})}
}

// Kind returns the mutation kind (KindReorderColumns or KindMoveCard)
func (o *Op) Kind() string { return o.kind }

// Done is closed once the mutation settles
func (o *Op) Done() <-chan struct{} { return o.done }

// Wait blocks until the mutation settles and returns the persistence error
func (o *Op) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the persistence error, nil while pending or on success
func (o *Op) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Outcome returns how the mutation settled
func (o *Op) Outcome() Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcome
}

func (o *Op) finish(outcome Outcome, err error) {
	o.mu.Lock()
	o.outcome = outcome
	o.err = err
	o.mu.Unlock()
	close(o.done)
}

// User-facing action names carried by notices
const (
	ActionReorderColumns = "reorder columns"
	ActionMoveCard       = "move card"
	ActionRefresh        = "refresh board"
)

// Notice reports a failed background action to the user
type Notice struct {
	Action    string
	Err       error
	ProjectID types.ProjectID
}

// Message is the text shown in the board's notification area
func (n Notice) Message() string {
	return fmt.Sprintf("Could not %s: %v", n.Action, n.Err)
}

// Notifier receives notices for failed persistence. Notify is called from
// the persistence goroutine and must not block.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(Notice)

// Notify calls f(n)
func (f NotifierFunc) Notify(n Notice) { f(n) }
