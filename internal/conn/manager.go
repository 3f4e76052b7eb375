// internal/conn/manager.go

// Package conn owns the realtime connection to a room session: the
// connection state machine, reconnection with capped backoff, and the
// outbound queue that buffers actions issued while offline.
package conn

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/impostorgame/client-go/internal/backoff"
	"github.com/impostorgame/client-go/internal/protocol"
	"github.com/impostorgame/client-go/internal/queue"
)

const (
	dialTimeout  = 10 * time.Second
	writeTimeout = 5 * time.Second
)

// Status is the externally visible connection state.
type Status int

const (
	// StatusIdle means no connection is wanted.
	StatusIdle Status = iota
	// StatusConnecting means a dial is in flight.
	StatusConnecting
	// StatusOpen means the connection is live.
	StatusOpen
	// StatusDisconnected means the connection dropped and a retry is
	// scheduled or pending.
	StatusDisconnected
	// StatusErrored means the reconnection budget is spent. Terminal until
	// the caller asks for a manual reconnect.
	StatusErrored
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusConnecting:
		return "connecting"
	case StatusOpen:
		return "open"
	case StatusDisconnected:
		return "disconnected"
	case StatusErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// retryTimer is the slice of time.Timer the manager needs; tests substitute
// a manual implementation to drive the retry schedule deterministically.
type retryTimer interface {
	Stop() bool
}

// Config wires a Manager. OnEnvelope and OnStatus must be set before the
// first Connect and are never called with the manager's lock held, so they
// may call back into the manager.
type Config struct {
	// Transport defaults to the coder/websocket implementation.
	Transport Transport
	// URL maps a room code to a connection target. Defaults to
	// RoomURL("ws://localhost:8000").
	URL func(roomCode string) string
	// Policy defaults to backoff.Default().
	Policy backoff.Policy
	Logger *logrus.Logger

	// OnEnvelope receives every decoded inbound envelope.
	OnEnvelope func(protocol.Envelope)
	// OnStatus receives every status transition.
	OnStatus func(Status)
}

// Manager drives one realtime connection per active room code. All state
// transitions happen under a single mutex; the mutex is released around
// transport writes and callbacks.
type Manager struct {
	mu       sync.Mutex
	status   Status
	roomCode string
	attempts int
	conn     Conn
	retry    retryTimer

	// gen identifies the current connection attempt. Callbacks from a
	// previous transport or timer carry a stale gen and are ignored, which
	// keeps exactly one live transport per room code.
	gen int

	queue     *queue.Queue
	transport Transport
	urlFn     func(string) string
	policy    backoff.Policy
	log       *logrus.Logger

	onEnvelope func(protocol.Envelope)
	onStatus   func(Status)

	// Status notifications are queued at the transition point under mu and
	// drained by a single goroutine at a time, so a fast dial cannot surface
	// open before the connecting it followed.
	statusQ   []Status
	notifying bool

	// newTimer wraps time.AfterFunc so tests can fake the clock.
	newTimer func(time.Duration, func()) retryTimer
}

// NewManager builds an idle Manager from cfg.
func NewManager(cfg Config) *Manager {
	if cfg.Transport == nil {
		cfg.Transport = NewWebSocketTransport()
	}
	if cfg.URL == nil {
		cfg.URL = RoomURL("ws://localhost:8000")
	}
	if cfg.Policy == (backoff.Policy{}) {
		cfg.Policy = backoff.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Manager{
		status:     StatusIdle,
		queue:      queue.New(),
		transport:  cfg.Transport,
		urlFn:      cfg.URL,
		policy:     cfg.Policy,
		log:        cfg.Logger,
		onEnvelope: cfg.OnEnvelope,
		onStatus:   cfg.OnStatus,
		newTimer: func(d time.Duration, f func()) retryTimer {
			return time.AfterFunc(d, f)
		},
	}
}

// Status returns the current connection status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// RoomCode returns the room code of the active session, if any.
func (m *Manager) RoomCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roomCode
}

// QueueLen returns the number of envelopes waiting for a connection.
func (m *Manager) QueueLen() int {
	return m.queue.Len()
}

// Connect requests a connection for roomCode. It is idempotent: if a
// connection for that room is already connecting or open, nothing happens.
// Connecting to a different room tears the previous room's connection and
// retry timer down first.
func (m *Manager) Connect(roomCode string) {
	if roomCode == "" {
		m.log.Warn("connect requested with empty room code")
		return
	}

	m.mu.Lock()
	if m.roomCode == roomCode && (m.status == StatusConnecting || m.status == StatusOpen) {
		m.log.Debugf("already %s to room %s, ignoring connect", m.status, roomCode)
		m.mu.Unlock()
		return
	}

	var stale Conn
	if m.roomCode != "" && m.roomCode != roomCode {
		stale = m.teardownLocked()
		m.attempts = 0
	}
	m.roomCode = roomCode
	m.startConnectLocked()
	m.mu.Unlock()

	if stale != nil {
		_ = stale.Close(true, "switching rooms")
	}
	m.notify()
}

// Disconnect deliberately closes the session: the retry timer is cancelled,
// the transport is closed with a normal closure, the attempt counter resets,
// and the outbound queue is cleared (the snapshot is discarded on a manual
// leave, so queued actions for it must not outlive it). Safe from any
// state, including idle.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	c := m.teardownLocked()
	m.attempts = 0
	m.roomCode = ""
	m.queue.Clear()
	prev := m.status
	m.status = StatusIdle
	if prev != StatusIdle {
		m.queueStatusLocked(StatusIdle)
	}
	m.mu.Unlock()

	if c != nil {
		_ = c.Close(true, "client disconnect")
	}
	if prev != StatusIdle {
		m.log.Info("disconnected")
	}
	m.notify()
}

// Reconnect drops the current connection, keeps the room code and any
// queued envelopes, and dials again from a fresh attempt budget.
func (m *Manager) Reconnect() {
	m.mu.Lock()
	room := m.roomCode
	if room == "" {
		m.mu.Unlock()
		return
	}
	c := m.teardownLocked()
	m.attempts = 0
	m.status = StatusIdle
	m.mu.Unlock()

	if c != nil {
		_ = c.Close(true, "manual reconnect")
	}
	m.log.Infof("manual reconnect to room %s", room)
	m.Connect(room)
}

// Send transmits env immediately when the connection is open, otherwise
// queues it and, unless a dial is already in flight, triggers a connect. It
// returns true only for an immediate transmit; false means the intent was
// queued (or, with no active room code, dropped). True signals
// intent-accepted, not delivery-confirmed.
func (m *Manager) Send(env protocol.Envelope) bool {
	m.mu.Lock()
	room := env.RoomCode
	if room == "" {
		room = m.roomCode
	}
	if room == "" {
		m.mu.Unlock()
		m.log.Warnf("send of %q with no active room, dropping", env.Type)
		return false
	}

	if m.status == StatusOpen && m.conn != nil {
		c := m.conn
		gen := m.gen
		m.mu.Unlock()
		return m.transmit(c, gen, env)
	}

	m.queue.Enqueue(env)
	trigger := m.status != StatusConnecting
	m.mu.Unlock()

	m.log.Debugf("queued %q for room %s (%d pending)", env.Type, room, m.QueueLen())
	if trigger {
		m.Connect(room)
	}
	return false
}

// transmit encodes and writes env on c, falling back to the queue when the
// write fails. Called without the lock held. gen guards the fallback: a
// write that fails concurrently with Disconnect must not re-enqueue after
// the queue was cleared.
func (m *Manager) transmit(c Conn, gen int, env protocol.Envelope) bool {
	data, err := protocol.Encode(env)
	if err != nil {
		m.log.Errorf("dropping unencodable envelope %q: %v", env.Type, err)
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	err = c.Write(ctx, data)
	cancel()
	if err != nil {
		m.mu.Lock()
		if gen != m.gen {
			m.mu.Unlock()
			m.log.Warnf("write of %q failed after teardown, dropping: %v", env.Type, err)
			return false
		}
		m.queue.Enqueue(env)
		m.mu.Unlock()
		m.log.Warnf("write of %q failed, queueing: %v", env.Type, err)
		return false
	}
	return true
}

// teardownLocked stops the retry timer, bumps the generation so in-flight
// transport callbacks become stale, and detaches the current connection.
// The caller closes the returned Conn after releasing the lock.
func (m *Manager) teardownLocked() Conn {
	if m.retry != nil {
		m.retry.Stop()
		m.retry = nil
	}
	m.gen++
	c := m.conn
	m.conn = nil
	return c
}

// startConnectLocked transitions to connecting and launches the dial.
func (m *Manager) startConnectLocked() {
	if m.retry != nil {
		m.retry.Stop()
		m.retry = nil
	}
	m.gen++
	m.status = StatusConnecting
	m.queueStatusLocked(StatusConnecting)
	gen := m.gen
	target := m.urlFn(m.roomCode)
	m.log.Infof("connecting to room %s at %s (attempt %d)", m.roomCode, target, m.attempts)
	go m.dial(gen, target)
}

// dial performs one connection attempt. gen guards against the manager
// having moved on while the dial was in flight.
func (m *Manager) dial(gen int, target string) {
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	c, err := m.transport.Dial(ctx, target)
	cancel()

	m.mu.Lock()
	if gen != m.gen || m.status != StatusConnecting {
		m.mu.Unlock()
		if err == nil {
			_ = c.Close(true, "stale dial")
		}
		return
	}

	if err != nil {
		m.log.Warnf("dial failed for room %s: %v", m.roomCode, err)
		m.failLocked()
		m.mu.Unlock()
		m.notify()
		return
	}

	m.conn = c
	m.status = StatusOpen
	m.attempts = 0
	m.queueStatusLocked(StatusOpen)
	pending := m.queue.Drain()
	room := m.roomCode
	m.mu.Unlock()

	m.log.Infof("connected to room %s", room)
	m.notify()
	m.flush(c, gen, pending)
	go m.readLoop(gen, c)
}

// flush re-submits queued envelopes in FIFO order. If a write fails
// mid-flush, the failed envelope and the remainder go back to the front of
// the queue, ahead of anything enqueued while the flush was in progress, so
// the original request order is preserved. The requeue is skipped when the
// connection was torn down in the meantime and the queue already cleared.
func (m *Manager) flush(c Conn, gen int, pending []protocol.Envelope) {
	if len(pending) == 0 {
		return
	}
	m.log.Infof("flushing %d queued envelopes", len(pending))
	for i, env := range pending {
		data, err := protocol.Encode(env)
		if err != nil {
			m.log.Errorf("dropping unencodable envelope %q: %v", env.Type, err)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err = c.Write(ctx, data)
		cancel()
		if err != nil {
			m.mu.Lock()
			if gen == m.gen {
				m.queue.Requeue(pending[i:])
			}
			m.mu.Unlock()
			m.log.Warnf("flush of %q failed, requeueing %d envelopes: %v", env.Type, len(pending)-i, err)
			return
		}
	}
}

// readLoop pumps inbound frames until the connection dies. Malformed frames
// are logged and dropped without touching any state; the connection stays
// open.
func (m *Manager) readLoop(gen int, c Conn) {
	for {
		data, err := c.Read(context.Background())
		if err != nil {
			m.handleClose(gen, err)
			return
		}

		env, derr := protocol.Decode(data)
		if derr != nil {
			m.log.Warnf("dropping malformed frame: %v", derr)
			continue
		}
		if m.onEnvelope != nil {
			m.onEnvelope(env)
		}
	}
}

// handleClose reacts to the transport dying underneath the read loop. A
// stale generation means the closure was deliberate (manual disconnect or
// room switch) and already handled. A normal closure from the peer is the
// server ending the session on purpose; retrying into a room the server
// just closed is wrong, so no reconnect is scheduled and the manager waits
// for a manual one.
func (m *Manager) handleClose(gen int, err error) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.conn = nil

	if errors.Is(err, ErrNormalClosure) {
		m.log.Infof("room %s closed by server", m.roomCode)
		m.status = StatusDisconnected
		m.queueStatusLocked(StatusDisconnected)
		m.mu.Unlock()
		m.notify()
		return
	}

	m.log.Warnf("connection to room %s lost: %v", m.roomCode, err)
	m.failLocked()
	m.mu.Unlock()
	m.notify()
}

// failLocked applies one connection failure: either schedule a retry per
// the backoff policy, or give up once the attempt budget is spent.
func (m *Manager) failLocked() {
	if m.policy.Exhausted(m.attempts) {
		m.status = StatusErrored
		m.queueStatusLocked(StatusErrored)
		m.log.Errorf("giving up on room %s after %d attempts", m.roomCode, m.attempts)
		return
	}

	delay := m.policy.Delay(m.attempts)
	m.attempts++
	m.status = StatusDisconnected
	m.queueStatusLocked(StatusDisconnected)
	gen := m.gen
	if m.retry != nil {
		m.retry.Stop()
	}
	m.retry = m.newTimer(delay, func() { m.retryFire(gen) })
	m.log.Infof("retrying room %s in %s (attempt %d/%d)",
		m.roomCode, delay, m.attempts, m.policy.MaxAttempts)
}

// retryFire is the retry timer callback.
func (m *Manager) retryFire(gen int) {
	m.mu.Lock()
	if gen != m.gen || m.status != StatusDisconnected {
		m.mu.Unlock()
		return
	}
	m.retry = nil
	m.startConnectLocked()
	m.mu.Unlock()
	m.notify()
}

// queueStatusLocked records a status transition for delivery. Must be
// called at the transition point, with the lock held, so delivery order
// matches transition order.
func (m *Manager) queueStatusLocked(s Status) {
	m.statusQ = append(m.statusQ, s)
}

// notify drains queued status notifications. Exactly one goroutine drains
// at a time and the callback runs without the lock held, so OnStatus may
// call back into the manager.
func (m *Manager) notify() {
	m.mu.Lock()
	if m.notifying {
		m.mu.Unlock()
		return
	}
	m.notifying = true
	for len(m.statusQ) > 0 {
		s := m.statusQ[0]
		m.statusQ = m.statusQ[1:]
		m.mu.Unlock()
		if m.onStatus != nil {
			m.onStatus(s)
		}
		m.mu.Lock()
	}
	m.notifying = false
	m.mu.Unlock()
}
