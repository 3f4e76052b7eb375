// internal/protocol/envelope.go
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope is a single typed, timestamped, room-scoped message exchanged
// over the realtime connection. Envelopes are immutable once constructed;
// the outbound queue stores them by value.
type Envelope struct {
	Type      string
	Timestamp int64 // ms since epoch
	RoomCode  string
	Payload   Payload
}

// header mirrors the fields every wire frame carries at the top level.
type header struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	RoomCode  string `json:"room_code,omitempty"`
}

// New builds an envelope for the given room with the timestamp set to now.
// The envelope type is taken from the payload.
func New(roomCode string, p Payload) Envelope {
	return Envelope{
		Type:      p.MessageType(),
		Timestamp: time.Now().UnixMilli(),
		RoomCode:  roomCode,
		Payload:   p,
	}
}

// Encode serializes an envelope into a single flat JSON frame: the header
// fields plus the payload's own fields at the top level.
func Encode(env Envelope) ([]byte, error) {
	if env.Payload == nil {
		return nil, fmt.Errorf("encode envelope: nil payload for type %q", env.Type)
	}

	body, err := json.Marshal(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode envelope %q: %w", env.Type, err)
	}

	frame := map[string]interface{}{}
	if err := json.Unmarshal(body, &frame); err != nil {
		return nil, fmt.Errorf("encode envelope %q: %w", env.Type, err)
	}

	frame["type"] = env.Type
	frame["timestamp"] = env.Timestamp
	if env.RoomCode != "" {
		frame["room_code"] = env.RoomCode
	}

	return json.Marshal(frame)
}

// Decode parses a wire frame into an Envelope. Undecodable JSON or a frame
// with no type field is an error; a frame whose type is not recognized
// decodes successfully into an Unknown payload so the caller can log and
// ignore it without treating it as a protocol failure.
func Decode(data []byte) (Envelope, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if h.Type == "" {
		return Envelope{}, fmt.Errorf("decode envelope: missing type field")
	}

	env := Envelope{
		Type:      h.Type,
		Timestamp: h.Timestamp,
		RoomCode:  h.RoomCode,
	}

	p := newPayload(h.Type)
	if p == nil {
		env.Payload = &Unknown{TypeName: h.Type, Raw: append(json.RawMessage(nil), data...)}
		return env, nil
	}

	if err := json.Unmarshal(data, p); err != nil {
		return Envelope{}, fmt.Errorf("decode %q payload: %w", h.Type, err)
	}
	env.Payload = p
	return env, nil
}
