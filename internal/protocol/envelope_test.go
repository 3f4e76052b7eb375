// internal/protocol/envelope_test.go
package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impostorgame/client-go/internal/models"
)

func TestEncodeFlatFrame(t *testing.T) {
	env := Envelope{
		Type:      TypeChatMessage,
		Timestamp: 1700000000000,
		RoomCode:  "ABC123",
		Payload:   &Chat{PlayerName: "ana", Message: "hola"},
	}

	data, err := Encode(env)
	require.NoError(t, err)

	var frame map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Equal(t, "chat_message", frame["type"])
	assert.Equal(t, "ABC123", frame["room_code"])
	assert.Equal(t, float64(1700000000000), frame["timestamp"])
	assert.Equal(t, "ana", frame["player_name"])
	assert.Equal(t, "hola", frame["message"])
}

func TestEncodeNilPayload(t *testing.T) {
	_, err := Encode(Envelope{Type: TypeChatMessage})
	assert.Error(t, err)
}

func TestNewStampsTypeAndTimestamp(t *testing.T) {
	env := New("ABC123", &Vote{VoterID: "p1", TargetID: "p2"})
	assert.Equal(t, TypePlayerVote, env.Type)
	assert.Equal(t, "ABC123", env.RoomCode)
	assert.NotZero(t, env.Timestamp)
}

func TestDecodeKnownType(t *testing.T) {
	env, err := Decode([]byte(`{"type":"player_ready","timestamp":123,"room_code":"ABC123","player_id":"p1","is_ready":true}`))
	require.NoError(t, err)

	assert.Equal(t, TypePlayerReady, env.Type)
	assert.Equal(t, int64(123), env.Timestamp)
	assert.Equal(t, "ABC123", env.RoomCode)

	ready, ok := env.Payload.(*Ready)
	require.True(t, ok)
	assert.Equal(t, "p1", ready.PlayerID)
	assert.True(t, ready.IsReady)
}

func TestDecodeRoomState(t *testing.T) {
	raw := `{
		"type": "room_state",
		"timestamp": 5,
		"room_code": "ABC123",
		"room": {
			"code": "ABC123",
			"players": [
				{"id": "p1", "name": "ana", "is_host": true, "is_alive": true},
				{"id": "p2", "name": "luis", "is_alive": true}
			],
			"phase": "waiting",
			"max_players": 8
		}
	}`
	env, err := Decode([]byte(raw))
	require.NoError(t, err)

	state, ok := env.Payload.(*RoomState)
	require.True(t, ok)
	require.NotNil(t, state.Room)
	require.Len(t, state.Room.Players, 2)
	assert.Equal(t, "ana", state.Room.Players[0].Name)
	require.NotNil(t, state.Room.Phase)
	assert.Equal(t, models.PhaseWaiting, *state.Room.Phase)
	require.NotNil(t, state.Room.MaxPlayers)
	assert.Equal(t, 8, *state.Room.MaxPlayers)
	// Fields absent from the frame stay nil so the reducer knows not to
	// touch them.
	assert.Nil(t, state.Room.CurrentRound)
	assert.Nil(t, state.Room.VotingResults)
	assert.Nil(t, state.Room.Winner)
}

func TestDecodeDistinguishesAbsentFromEmpty(t *testing.T) {
	env, err := Decode([]byte(`{"type":"room_state","room":{"voting_results":[]}}`))
	require.NoError(t, err)

	state := env.Payload.(*RoomState)
	require.NotNil(t, state.Room.VotingResults)
	assert.Empty(t, state.Room.VotingResults)
	assert.Nil(t, state.Room.Players)
}

func TestDecodePhaseChanged(t *testing.T) {
	env, err := Decode([]byte(`{"type":"phase_changed","timestamp":9,"room_code":"ABC123","phase":"question","current_round":2}`))
	require.NoError(t, err)

	pc, ok := env.Payload.(*PhaseChanged)
	require.True(t, ok)
	assert.Equal(t, models.PhaseQuestion, pc.Phase)
	require.NotNil(t, pc.CurrentRound)
	assert.Equal(t, 2, *pc.CurrentRound)
}

func TestDecodeUnknownType(t *testing.T) {
	raw := []byte(`{"type":"server_gossip","timestamp":1,"room_code":"ABC123","whatever":true}`)
	env, err := Decode(raw)
	require.NoError(t, err)

	u, ok := env.Payload.(*Unknown)
	require.True(t, ok)
	assert.Equal(t, "server_gossip", u.TypeName)
	assert.JSONEq(t, string(raw), string(u.Raw))
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte(`{not json`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"timestamp":1}`))
	assert.Error(t, err, "a frame without a type field is malformed")
}

func TestRoundTrip(t *testing.T) {
	out := New("XYZ789", &Answer{PlayerID: "p7", Answer: "Plays for Liverpool"})
	data, err := Encode(out)
	require.NoError(t, err)

	in, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, out.Type, in.Type)
	assert.Equal(t, out.RoomCode, in.RoomCode)
	assert.Equal(t, out.Timestamp, in.Timestamp)
	assert.Equal(t, out.Payload, in.Payload)
}
