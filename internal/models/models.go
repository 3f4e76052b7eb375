// internal/models/models.go
package models

import "encoding/json"

// Phase represents the current phase of a room's game.
type Phase string

const (
	PhaseWaiting        Phase = "waiting"
	PhaseRoleAssignment Phase = "role_assignment"
	PhaseQuestion       Phase = "question"
	PhaseDebate         Phase = "debate"
	PhaseVoting         Phase = "voting"
	PhaseResults        Phase = "results"
	PhaseFinished       Phase = "finished"
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// Winner identifies which side won a finished game.
type Winner string

const (
	WinnerImpostor Winner = "impostor"
	WinnerPlayers  Winner = "players"
)

// Player is one participant in a room. AssignedPlayer is the football player
// handed out at game start; it is opaque to the sync layer and only decoded
// by the presentation layer.
type Player struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	IsHost         bool            `json:"is_host"`
	IsAlive        bool            `json:"is_alive"`
	IsImpostor     bool            `json:"is_impostor"`
	IsReady        bool            `json:"is_ready"`
	AssignedPlayer json.RawMessage `json:"assigned_player,omitempty"`
}

// VoteCount is one entry of a voting tally.
type VoteCount struct {
	PlayerID string `json:"player_id"`
	Votes    int    `json:"votes"`
}

// RoomSnapshot is the client's current belief about shared room state,
// rebuilt only from inbound envelopes. Player order is join order.
type RoomSnapshot struct {
	RoomCode      string      `json:"code"`
	Players       []Player    `json:"players"`
	Phase         Phase       `json:"phase"`
	MaxPlayers    int         `json:"max_players"`
	CurrentRound  int         `json:"current_round"`
	TotalRounds   int         `json:"total_rounds"`
	DebateEnabled bool        `json:"debate_mode"`
	DebateMinutes int         `json:"debate_time"`
	VotingResults []VoteCount `json:"voting_results,omitempty"`
	Winner        Winner      `json:"winner,omitempty"`
}

// Host returns the current host player, if any.
func (r *RoomSnapshot) Host() (Player, bool) {
	for _, p := range r.Players {
		if p.IsHost {
			return p, true
		}
	}
	return Player{}, false
}

// FindPlayer looks a player up by id, preserving nothing about order.
func (r *RoomSnapshot) FindPlayer(id string) (Player, bool) {
	for _, p := range r.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Clone returns a deep copy so callers can hand snapshots out without
// sharing the underlying slices.
func (r *RoomSnapshot) Clone() RoomSnapshot {
	out := *r
	if r.Players != nil {
		out.Players = make([]Player, len(r.Players))
		copy(out.Players, r.Players)
	}
	if r.VotingResults != nil {
		out.VotingResults = make([]VoteCount, len(r.VotingResults))
		copy(out.VotingResults, r.VotingResults)
	}
	return out
}

// ChatEntry is one received chat message. Chat history lives outside the
// room snapshot and is append-only.
type ChatEntry struct {
	ID         string `json:"id"`
	PlayerName string `json:"player_name"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
}

// FootballPlayer is an entry from the football lookup collaborator.
type FootballPlayer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Team        string `json:"team"`
	Position    string `json:"position"`
	Nationality string `json:"nationality"`
	Thumb       string `json:"thumb,omitempty"`
}
