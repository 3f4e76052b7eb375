// internal/session/reducer.go
package session

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/impostorgame/client-go/internal/models"
	"github.com/impostorgame/client-go/internal/protocol"
)

// merge folds one inbound envelope into the snapshot, keyed on its type.
// Room-bearing pushes overlay only the fields present in the payload;
// absent fields keep their previous value, never an implicit reset. It
// returns whether the snapshot changed and, for chat frames, the entry to
// append to the message log.
func merge(snap *models.RoomSnapshot, env protocol.Envelope, log *logrus.Logger) (bool, *models.ChatEntry) {
	switch p := env.Payload.(type) {
	case *protocol.RoomState:
		return applyPatch(snap, p.Room), nil
	case *protocol.PlayerJoined:
		return applyPatch(snap, p.Room), nil
	case *protocol.PlayerLeft:
		return applyPatch(snap, p.Room), nil
	case *protocol.GameStarted:
		return applyPatch(snap, p.Room), nil
	case *protocol.GameUpdated:
		return applyPatch(snap, p.Room), nil
	case *protocol.AnswerSubmitted:
		return applyPatch(snap, p.Room), nil
	case *protocol.VoteSubmitted:
		return applyPatch(snap, p.Room), nil

	case *protocol.VotingComplete:
		changed := applyPatch(snap, p.Room)
		if p.Results != nil {
			snap.VotingResults = append([]models.VoteCount(nil), p.Results...)
			changed = true
		}
		return changed, nil

	case *protocol.Ready:
		if p.Room != nil {
			return applyPatch(snap, p.Room), nil
		}
		// Room-less ready frames only flip the named player's flag.
		for i := range snap.Players {
			if snap.Players[i].ID == p.PlayerID {
				snap.Players[i].IsReady = p.IsReady
				return true, nil
			}
		}
		return false, nil

	case *protocol.PhaseChanged:
		// Phase-only delta: never clobbers players or voting results.
		snap.Phase = p.Phase
		if p.CurrentRound != nil {
			snap.CurrentRound = *p.CurrentRound
		}
		return true, nil

	case *protocol.Chat:
		return false, &models.ChatEntry{
			ID:         uuid.NewString(),
			PlayerName: p.PlayerName,
			Message:    p.Message,
			Timestamp:  env.Timestamp,
		}

	case *protocol.ServerError:
		log.Warnf("server error in room %s: %s", env.RoomCode, p.Message)
		return false, nil

	case *protocol.Unknown:
		log.Warnf("ignoring unrecognized envelope type %q", p.TypeName)
		return false, nil

	default:
		// Outbound-only types echoed back by the server carry nothing to
		// merge.
		log.Debugf("no reduction for envelope type %q", env.Type)
		return false, nil
	}
}

// applyPatch overlays every present field of patch onto snap. A nil patch
// is a no-op; a present-but-empty players or voting_results slice is a
// deliberate clear.
func applyPatch(snap *models.RoomSnapshot, patch *protocol.RoomPatch) bool {
	if patch == nil {
		return false
	}

	changed := false
	if patch.Code != nil {
		snap.RoomCode = *patch.Code
		changed = true
	}
	if patch.Players != nil {
		snap.Players = append([]models.Player(nil), patch.Players...)
		changed = true
	}
	if patch.Phase != nil {
		snap.Phase = *patch.Phase
		changed = true
	}
	if patch.MaxPlayers != nil {
		snap.MaxPlayers = *patch.MaxPlayers
		changed = true
	}
	if patch.CurrentRound != nil {
		snap.CurrentRound = *patch.CurrentRound
		changed = true
	}
	if patch.TotalRounds != nil {
		snap.TotalRounds = *patch.TotalRounds
		changed = true
	}
	if patch.DebateEnabled != nil {
		snap.DebateEnabled = *patch.DebateEnabled
		changed = true
	}
	if patch.DebateMinutes != nil {
		snap.DebateMinutes = *patch.DebateMinutes
		changed = true
	}
	if patch.VotingResults != nil {
		snap.VotingResults = append([]models.VoteCount(nil), patch.VotingResults...)
		changed = true
	}
	if patch.Winner != nil {
		snap.Winner = *patch.Winner
		changed = true
	}
	return changed
}
