// internal/protocol/payloads.go
package protocol

import (
	"encoding/json"

	"github.com/impostorgame/client-go/internal/models"
)

// Outbound action types (client -> server).
const (
	TypePlayerJoin   = "player_join"
	TypePlayerLeave  = "player_leave"
	TypePlayerReady  = "player_ready"
	TypeStartGame    = "start_game"
	TypeAddBot       = "add_bot"
	TypePlayerAnswer = "player_answer"
	TypePlayerVote   = "player_vote"
	TypeChatMessage  = "chat_message"
)

// Inbound push types (server -> client). chat_message and player_ready flow
// in both directions with the same body.
const (
	TypeRoomState       = "room_state"
	TypePlayerJoined    = "player_joined"
	TypePlayerLeft      = "player_left"
	TypeGameStarted     = "game_started"
	TypeGameUpdated     = "game_updated"
	TypePhaseChanged    = "phase_changed"
	TypeAnswerSubmitted = "answer_submitted"
	TypeVoteSubmitted   = "vote_submitted"
	TypeVotingComplete  = "voting_complete"
	TypeError           = "error"
)

// Payload is implemented by every concrete message body. MessageType
// returns the wire discriminant the body belongs to.
type Payload interface {
	MessageType() string
}

// RoomPatch is the partial room object carried by state-bearing pushes.
// Every field is optional on the wire; nil means absent, and the reducer
// overlays only present fields. A present-but-empty players or
// voting_results array is a deliberate clear, not an absence.
type RoomPatch struct {
	Code          *string            `json:"code,omitempty"`
	Players       []models.Player    `json:"players"`
	Phase         *models.Phase      `json:"phase,omitempty"`
	MaxPlayers    *int               `json:"max_players,omitempty"`
	CurrentRound  *int               `json:"current_round,omitempty"`
	TotalRounds   *int               `json:"total_rounds,omitempty"`
	DebateEnabled *bool              `json:"debate_mode,omitempty"`
	DebateMinutes *int               `json:"debate_time,omitempty"`
	VotingResults []models.VoteCount `json:"voting_results"`
	Winner        *models.Winner     `json:"winner,omitempty"`
}

// Join announces a player entering the room.
type Join struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

func (*Join) MessageType() string { return TypePlayerJoin }

// Leave announces a player abandoning the room.
type Leave struct {
	PlayerID string `json:"player_id"`
}

func (*Leave) MessageType() string { return TypePlayerLeave }

// Ready toggles a player's ready flag. Inbound frames of this type may also
// carry the updated room.
type Ready struct {
	PlayerID   string     `json:"player_id"`
	PlayerName string     `json:"player_name,omitempty"`
	IsReady    bool       `json:"is_ready"`
	Room       *RoomPatch `json:"room,omitempty"`
}

func (*Ready) MessageType() string { return TypePlayerReady }

// StartGame asks the server to begin the game. Host only.
type StartGame struct{}

func (*StartGame) MessageType() string { return TypeStartGame }

// AddBot asks the server to seat a bot player.
type AddBot struct {
	Difficulty string `json:"difficulty,omitempty"`
}

func (*AddBot) MessageType() string { return TypeAddBot }

// Answer submits a player's answer for the current question.
type Answer struct {
	PlayerID string `json:"player_id"`
	Answer   string `json:"answer"`
}

func (*Answer) MessageType() string { return TypePlayerAnswer }

// Vote submits a vote against a suspected impostor.
type Vote struct {
	VoterID  string `json:"voter_id"`
	TargetID string `json:"target_id"`
}

func (*Vote) MessageType() string { return TypePlayerVote }

// Chat carries a chat message. Inbound frames reuse the same shape with
// the server-side timestamp in the envelope header.
type Chat struct {
	PlayerName string `json:"player_name"`
	Message    string `json:"message"`
}

func (*Chat) MessageType() string { return TypeChatMessage }

// RoomState is the server's authoritative room push.
type RoomState struct {
	Room    *RoomPatch `json:"room"`
	Message string     `json:"message,omitempty"`
}

func (*RoomState) MessageType() string { return TypeRoomState }

// PlayerJoined notifies that a player entered, carrying the updated room.
type PlayerJoined struct {
	Room    *RoomPatch     `json:"room"`
	Player  *models.Player `json:"player,omitempty"`
	Message string         `json:"message,omitempty"`
}

func (*PlayerJoined) MessageType() string { return TypePlayerJoined }

// PlayerLeft notifies that a player left, carrying the updated room.
type PlayerLeft struct {
	Room     *RoomPatch `json:"room"`
	PlayerID string     `json:"player_id,omitempty"`
	Message  string     `json:"message,omitempty"`
}

func (*PlayerLeft) MessageType() string { return TypePlayerLeft }

// GameStarted notifies that the game began.
type GameStarted struct {
	Room       *RoomPatch `json:"room"`
	ImpostorID string     `json:"impostor_id,omitempty"`
	Message    string     `json:"message,omitempty"`
}

func (*GameStarted) MessageType() string { return TypeGameStarted }

// GameUpdated carries a general mid-game room update.
type GameUpdated struct {
	Room    *RoomPatch `json:"room"`
	Message string     `json:"message,omitempty"`
}

func (*GameUpdated) MessageType() string { return TypeGameUpdated }

// PhaseChanged is the phase-only delta: it carries the new phase and
// optionally the round number, never players or voting results.
type PhaseChanged struct {
	Phase        models.Phase `json:"phase"`
	CurrentRound *int         `json:"current_round,omitempty"`
}

func (*PhaseChanged) MessageType() string { return TypePhaseChanged }

// AnswerSubmitted notifies that a player answered.
type AnswerSubmitted struct {
	Room     *RoomPatch `json:"room"`
	PlayerID string     `json:"player_id,omitempty"`
}

func (*AnswerSubmitted) MessageType() string { return TypeAnswerSubmitted }

// VoteSubmitted notifies that a player voted.
type VoteSubmitted struct {
	Room     *RoomPatch `json:"room"`
	PlayerID string     `json:"player_id,omitempty"`
}

func (*VoteSubmitted) MessageType() string { return TypeVoteSubmitted }

// VotingComplete carries the tally once every vote is in.
type VotingComplete struct {
	Room    *RoomPatch         `json:"room"`
	Results []models.VoteCount `json:"results,omitempty"`
}

func (*VotingComplete) MessageType() string { return TypeVotingComplete }

// ServerError is an application-level error reported by the server. It does
// not alter the snapshot or the connection state.
type ServerError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (*ServerError) MessageType() string { return TypeError }

// Unknown holds a frame whose type the client does not recognize. The raw
// frame is kept so it can be logged.
type Unknown struct {
	TypeName string
	Raw      json.RawMessage
}

func (u *Unknown) MessageType() string { return u.TypeName }

// newPayload returns an empty body for a known wire type, or nil for an
// unrecognized one.
func newPayload(msgType string) Payload {
	switch msgType {
	case TypePlayerJoin:
		return &Join{}
	case TypePlayerLeave:
		return &Leave{}
	case TypePlayerReady:
		return &Ready{}
	case TypeStartGame:
		return &StartGame{}
	case TypeAddBot:
		return &AddBot{}
	case TypePlayerAnswer:
		return &Answer{}
	case TypePlayerVote:
		return &Vote{}
	case TypeChatMessage:
		return &Chat{}
	case TypeRoomState:
		return &RoomState{}
	case TypePlayerJoined:
		return &PlayerJoined{}
	case TypePlayerLeft:
		return &PlayerLeft{}
	case TypeGameStarted:
		return &GameStarted{}
	case TypeGameUpdated:
		return &GameUpdated{}
	case TypePhaseChanged:
		return &PhaseChanged{}
	case TypeAnswerSubmitted:
		return &AnswerSubmitted{}
	case TypeVoteSubmitted:
		return &VoteSubmitted{}
	case TypeVotingComplete:
		return &VotingComplete{}
	case TypeError:
		return &ServerError{}
	default:
		return nil
	}
}
