// internal/queue/queue.go

// Package queue holds envelopes that could not be transmitted yet. The
// queue is FIFO and unbounded: silently dropping a user's actions is worse
// for this domain than letting the buffer grow while offline.
package queue

import (
	"sync"

	"github.com/impostorgame/client-go/internal/protocol"
)

// Queue is a thread-safe FIFO buffer of outbound envelopes.
type Queue struct {
	mu      sync.Mutex
	pending []protocol.Envelope
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Enqueue appends an envelope to the back of the queue.
func (q *Queue) Enqueue(env protocol.Envelope) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, env)
}

// Requeue puts envelopes back at the front, before anything enqueued since
// they were drained. Used when a flush fails partway through so the
// original request order is preserved.
func (q *Queue) Requeue(envs []protocol.Envelope) {
	if len(envs) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(append([]protocol.Envelope{}, envs...), q.pending...)
}

// Drain removes and returns all queued envelopes in FIFO order.
func (q *Queue) Drain() []protocol.Envelope {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// Clear discards everything. Called on manual disconnect, where the
// snapshot is discarded too and replaying stale actions would be wrong.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = nil
}

// Len returns the number of queued envelopes.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
