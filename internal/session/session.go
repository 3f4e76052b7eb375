// internal/session/session.go
package session

import (
	"github.com/sirupsen/logrus"

	"github.com/impostorgame/client-go/internal/backoff"
	"github.com/impostorgame/client-go/internal/conn"
	"github.com/impostorgame/client-go/internal/models"
)

// Options configures a Session.
type Options struct {
	// WSBase is the websocket base URL, e.g. "wss://example.com".
	WSBase string
	// Transport overrides the websocket transport (tests).
	Transport conn.Transport
	// Policy overrides the reconnection policy; zero means defaults.
	Policy backoff.Policy
	Logger *logrus.Logger
}

// Session owns the realtime layer for one client: the connection manager,
// the store, and the dispatcher. It is constructed explicitly and torn down
// with Close, decoupled from any UI lifecycle.
type Session struct {
	Manager    *conn.Manager
	Store      *Store
	Dispatcher *Dispatcher
	log        *logrus.Logger
}

// New wires a session: inbound envelopes flow from the manager into the
// store's reducer, and status transitions are mirrored into the store.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	if opts.WSBase == "" {
		opts.WSBase = "ws://localhost:8000"
	}

	store := NewStore(logger)
	mgr := conn.NewManager(conn.Config{
		Transport:  opts.Transport,
		URL:        conn.RoomURL(opts.WSBase),
		Policy:     opts.Policy,
		Logger:     logger,
		OnEnvelope: store.Apply,
		OnStatus:   store.SetStatus,
	})

	return &Session{
		Manager:    mgr,
		Store:      store,
		Dispatcher: NewDispatcher(mgr, store, logger),
		log:        logger,
	}
}

// Open seeds the store from a bootstrap room, records the local player's
// identity, opens the realtime connection, and announces the join.
func (s *Session) Open(room models.RoomSnapshot, playerID, playerName string) {
	s.Store.Bootstrap(room)
	s.Dispatcher.SetIdentity(playerID, playerName)
	s.Manager.Connect(room.RoomCode)
	s.Dispatcher.Join()
}

// Close leaves the room: announces the departure, closes the connection
// (clearing any still-queued actions), and discards the snapshot.
func (s *Session) Close() {
	s.Dispatcher.Leave()
	s.Manager.Disconnect()
	s.Store.Discard()
}
