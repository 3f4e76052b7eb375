// internal/session/dispatcher.go
package session

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/impostorgame/client-go/internal/conn"
	"github.com/impostorgame/client-go/internal/protocol"
)

// Dispatcher is the façade the presentation layer uses to request outbound
// actions. Every action builds an envelope for the active room and hands it
// to the connection manager; there is exactly one transmission path, so no
// action bypasses queueing or backoff. Each method returns true only when
// the envelope was transmitted immediately.
type Dispatcher struct {
	mgr   *conn.Manager
	store *Store
	log   *logrus.Logger

	mu         sync.Mutex
	playerID   string
	playerName string
}

// NewDispatcher wires a dispatcher to a manager and store.
func NewDispatcher(mgr *conn.Manager, store *Store, logger *logrus.Logger) *Dispatcher {
	if logger == nil {
		logger = logrus.New()
	}
	return &Dispatcher{mgr: mgr, store: store, log: logger}
}

// SetIdentity records the local player's id and display name, stamped onto
// every action that names its author.
func (d *Dispatcher) SetIdentity(playerID, playerName string) {
	d.mu.Lock()
	d.playerID = playerID
	d.playerName = playerName
	d.mu.Unlock()
}

func (d *Dispatcher) identity() (string, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playerID, d.playerName
}

// dispatch builds the envelope and sends it. With no active session this is
// a logged no-op returning "not sent".
func (d *Dispatcher) dispatch(p protocol.Payload) bool {
	room := d.store.RoomCode()
	if room == "" {
		d.log.Warnf("action %q requested with no active session", p.MessageType())
		return false
	}
	return d.mgr.Send(protocol.New(room, p))
}

// Join announces the local player to the room.
func (d *Dispatcher) Join() bool {
	id, name := d.identity()
	return d.dispatch(&protocol.Join{PlayerID: id, PlayerName: name})
}

// Leave announces the local player's departure. The caller is expected to
// follow up with Manager.Disconnect and Store.Discard.
func (d *Dispatcher) Leave() bool {
	id, _ := d.identity()
	return d.dispatch(&protocol.Leave{PlayerID: id})
}

// Ready sets the local player's ready flag.
func (d *Dispatcher) Ready(isReady bool) bool {
	id, name := d.identity()
	return d.dispatch(&protocol.Ready{PlayerID: id, PlayerName: name, IsReady: isReady})
}

// StartGame asks the server to begin. Host only; the server enforces it.
func (d *Dispatcher) StartGame() bool {
	return d.dispatch(&protocol.StartGame{})
}

// AddBot asks the server to seat a bot.
func (d *Dispatcher) AddBot(difficulty string) bool {
	return d.dispatch(&protocol.AddBot{Difficulty: difficulty})
}

// SubmitAnswer submits the local player's answer for the current question.
func (d *Dispatcher) SubmitAnswer(answer string) bool {
	id, _ := d.identity()
	return d.dispatch(&protocol.Answer{PlayerID: id, Answer: answer})
}

// SubmitVote votes against the suspected impostor.
func (d *Dispatcher) SubmitVote(targetID string) bool {
	id, _ := d.identity()
	return d.dispatch(&protocol.Vote{VoterID: id, TargetID: targetID})
}

// SendChat sends a chat message.
func (d *Dispatcher) SendChat(message string) bool {
	_, name := d.identity()
	return d.dispatch(&protocol.Chat{PlayerName: name, Message: message})
}
