// internal/api/rooms.go

// Package api implements the out-of-scope collaborators at their boundary:
// the HTTP room-lifecycle API and the football-player lookup service. Both
// are plain request/response wrappers; failures are non-fatal and callers
// may fall back to locally synthesized data so the UI flow is not blocked.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/impostorgame/client-go/internal/models"
)

const requestTimeout = 10 * time.Second

// Client talks to the room-lifecycle HTTP API.
type Client struct {
	base string
	http *http.Client
	log  *logrus.Logger
}

// NewClient returns a lifecycle client for the given base URL, e.g.
// "https://example.com".
func NewClient(base string, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: requestTimeout},
		log:  logger,
	}
}

type createRoomRequest struct {
	PlayerName  string `json:"player_name"`
	MaxPlayers  int    `json:"max_players"`
	TotalRounds int    `json:"total_rounds"`
	DebateMode  bool   `json:"debate_mode"`
}

type joinRoomRequest struct {
	PlayerName string `json:"player_name"`
	RoomCode   string `json:"room_code"`
}

type roomResponse struct {
	Success  bool                 `json:"success"`
	Message  string               `json:"message,omitempty"`
	RoomCode string               `json:"room_code,omitempty"`
	Room     *models.RoomSnapshot `json:"room,omitempty"`
}

// CreateRoom creates a room hosted by playerName and returns the bootstrap
// snapshot plus the host's player id.
func (c *Client) CreateRoom(ctx context.Context, playerName string, maxPlayers, totalRounds int, debateMode bool) (models.RoomSnapshot, string, error) {
	var resp roomResponse
	err := c.postJSON(ctx, "/api/rooms/create", createRoomRequest{
		PlayerName:  playerName,
		MaxPlayers:  maxPlayers,
		TotalRounds: totalRounds,
		DebateMode:  debateMode,
	}, &resp)
	if err != nil {
		return models.RoomSnapshot{}, "", err
	}
	if resp.Room == nil {
		return models.RoomSnapshot{}, "", fmt.Errorf("create room: response carried no room")
	}

	room := resp.Room.Clone()
	host, ok := room.Host()
	if !ok {
		return models.RoomSnapshot{}, "", fmt.Errorf("create room: response room has no host")
	}
	c.log.Infof("created room %s as %s", room.RoomCode, playerName)
	return room, host.ID, nil
}

// JoinRoom joins an existing room and returns the bootstrap snapshot plus
// the joining player's id, resolved by display name from the returned
// player list.
func (c *Client) JoinRoom(ctx context.Context, playerName, roomCode string) (models.RoomSnapshot, string, error) {
	var resp roomResponse
	err := c.postJSON(ctx, "/api/rooms/join", joinRoomRequest{
		PlayerName: playerName,
		RoomCode:   roomCode,
	}, &resp)
	if err != nil {
		return models.RoomSnapshot{}, "", err
	}
	if resp.Room == nil {
		return models.RoomSnapshot{}, "", fmt.Errorf("join room %s: response carried no room", roomCode)
	}

	room := resp.Room.Clone()
	for _, p := range room.Players {
		if p.Name == playerName {
			c.log.Infof("joined room %s as %s", room.RoomCode, playerName)
			return room, p.ID, nil
		}
	}
	return models.RoomSnapshot{}, "", fmt.Errorf("join room %s: player %q missing from response", roomCode, playerName)
}

// GetRoom fetches the current snapshot of a room.
func (c *Client) GetRoom(ctx context.Context, roomCode string) (models.RoomSnapshot, error) {
	var room models.RoomSnapshot
	if err := c.getJSON(ctx, "/api/rooms/"+roomCode, &room); err != nil {
		return models.RoomSnapshot{}, err
	}
	return room, nil
}

// StartGame asks the server to start the game. This is the HTTP fallback
// path; the realtime start_game action is preferred when connected.
func (c *Client) StartGame(ctx context.Context, roomCode string) (models.RoomSnapshot, error) {
	var resp roomResponse
	if err := c.postJSON(ctx, "/api/game/"+roomCode+"/start", struct{}{}, &resp); err != nil {
		return models.RoomSnapshot{}, err
	}
	if resp.Room == nil {
		return models.RoomSnapshot{}, fmt.Errorf("start game %s: response carried no room", roomCode)
	}
	return resp.Room.Clone(), nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	return doJSON(c.http, req, out)
}

func doJSON(hc *http.Client, req *http.Request, out interface{}) error {
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

const roomCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SynthesizeRoom fabricates a local single-player room with the caller as
// host. Used when the lifecycle API is unreachable so the UI flow can
// proceed; the server's first room_state push overwrites it.
func SynthesizeRoom(playerName string, maxPlayers, totalRounds int, debateMode bool) (models.RoomSnapshot, string) {
	code := make([]byte, 6)
	for i := range code {
		code[i] = roomCodeChars[rand.Intn(len(roomCodeChars))]
	}

	hostID := uuid.NewString()
	return models.RoomSnapshot{
		RoomCode: string(code),
		Players: []models.Player{{
			ID:      hostID,
			Name:    playerName,
			IsHost:  true,
			IsAlive: true,
		}},
		Phase:         models.PhaseWaiting,
		MaxPlayers:    maxPlayers,
		CurrentRound:  1,
		TotalRounds:   totalRounds,
		DebateEnabled: debateMode,
		DebateMinutes: 3,
	}, hostID
}
