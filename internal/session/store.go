// internal/session/store.go

// Package session holds the client's view of one room: the session store
// (snapshot, chat log, connection status), the reducer that merges inbound
// envelopes into it, and the action dispatcher the presentation layer uses
// to request outbound actions.
package session

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/impostorgame/client-go/internal/conn"
	"github.com/impostorgame/client-go/internal/models"
	"github.com/impostorgame/client-go/internal/protocol"
)

// Store is the externally observed session state. It is mutated only by the
// reducer in response to inbound envelopes (plus status updates from the
// connection manager); user actions never write to it directly.
type Store struct {
	mu       sync.Mutex
	log      *logrus.Logger
	snap     models.RoomSnapshot
	active   bool
	chat     []models.ChatEntry
	status   conn.Status
	onChange func()
}

// NewStore returns an empty store with no active room.
func NewStore(logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{log: logger}
}

// SetOnChange registers a hook fired (without the store lock held) after
// every snapshot, chat, or status mutation. Set it before the first
// connect.
func (s *Store) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Bootstrap seeds the snapshot from a room obtained out of band (the
// lifecycle API response, or a locally synthesized room) before the
// realtime connection opens.
func (s *Store) Bootstrap(room models.RoomSnapshot) {
	s.mu.Lock()
	s.snap = room.Clone()
	s.active = true
	s.chat = nil
	fn := s.onChange
	s.mu.Unlock()

	s.log.Infof("session bootstrapped for room %s", room.RoomCode)
	if fn != nil {
		fn()
	}
}

// Discard drops the snapshot and chat log. Called when the client abandons
// the room.
func (s *Store) Discard() {
	s.mu.Lock()
	s.snap = models.RoomSnapshot{}
	s.active = false
	s.chat = nil
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Snapshot returns a copy of the current room snapshot and whether a
// session is active.
func (s *Store) Snapshot() (models.RoomSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone(), s.active
}

// RoomCode returns the active room code, or "" when no session exists.
func (s *Store) RoomCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return ""
	}
	return s.snap.RoomCode
}

// Messages returns a copy of the chat log in arrival order.
func (s *Store) Messages() []models.ChatEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatEntry, len(s.chat))
	copy(out, s.chat)
	return out
}

// Status returns the last connection status reported by the manager.
func (s *Store) Status() conn.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetStatus records a connection status transition. Wired as the manager's
// OnStatus callback.
func (s *Store) SetStatus(st conn.Status) {
	s.mu.Lock()
	s.status = st
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Apply merges one inbound envelope into the store. Wired as the manager's
// OnEnvelope callback.
func (s *Store) Apply(env protocol.Envelope) {
	s.mu.Lock()
	changed, entry := merge(&s.snap, env, s.log)
	if entry != nil {
		s.chat = append(s.chat, *entry)
		changed = true
	}
	fn := s.onChange
	s.mu.Unlock()

	if changed && fn != nil {
		fn()
	}
}
