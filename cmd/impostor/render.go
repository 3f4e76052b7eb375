// cmd/impostor/render.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"

	"github.com/impostorgame/client-go/internal/api"
	"github.com/impostorgame/client-go/internal/conn"
	"github.com/impostorgame/client-go/internal/models"
	"github.com/impostorgame/client-go/internal/session"
)

// renderer prints session changes to the terminal. It re-reads the store on
// every change notification and prints only the transitions it has not
// shown yet.
type renderer struct {
	mu         sync.Mutex
	sess       *session.Session
	playerID   string
	lookup     *api.FootballClient
	roster     []models.FootballPlayer
	lastStatus conn.Status
	lastPhase  models.Phase
	chatSeen   int
}

func newRenderer(sess *session.Session, playerID string, lookup *api.FootballClient) *renderer {
	return &renderer{sess: sess, playerID: playerID, lookup: lookup}
}

func (r *renderer) onChange() {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := r.sess.Store.Status()
	if status != r.lastStatus {
		fmt.Printf("* connection: %s\n", status)
		if status == conn.StatusErrored {
			fmt.Println("* reconnect attempts exhausted, type 'reconnect' to retry")
		}
		r.lastStatus = status
	}

	snap, ok := r.sess.Store.Snapshot()
	if ok && snap.Phase != "" && snap.Phase != r.lastPhase {
		r.lastPhase = snap.Phase
		switch snap.Phase {
		case models.PhaseFinished:
			fmt.Printf("* game over: %s win\n", snap.Winner)
		case models.PhaseRoleAssignment:
			fmt.Printf("* phase: %s (round %d/%d)\n", snap.Phase, snap.CurrentRound, snap.TotalRounds)
			if me, ok := snap.FindPlayer(r.playerID); ok {
				fmt.Println(roleReveal(me, r.fallbackAssignment))
			}
		default:
			fmt.Printf("* phase: %s (round %d/%d)\n", snap.Phase, snap.CurrentRound, snap.TotalRounds)
		}
	}

	msgs := r.sess.Store.Messages()
	for ; r.chatSeen < len(msgs); r.chatSeen++ {
		m := msgs[r.chatSeen]
		fmt.Printf("[%s] %s\n", m.PlayerName, m.Message)
	}
}

// roleReveal is the line shown when roles are handed out. Impostors get no
// assignment; everyone else sees their football player, falling back to a
// roster pick when the server sent none.
func roleReveal(me models.Player, fallback func() models.FootballPlayer) string {
	if me.IsImpostor {
		return "* you are the IMPOSTOR: you got no player, blend in"
	}

	var fp models.FootballPlayer
	if len(me.AssignedPlayer) == 0 || json.Unmarshal(me.AssignedPlayer, &fp) != nil || fp.Name == "" {
		fp = fallback()
	}
	return fmt.Sprintf("* your player: %s (%s, %s)", fp.Name, fp.Team, fp.Position)
}

// fallbackAssignment picks a player from the lookup roster, fetching it on
// first use. PopularPlayers never returns an empty roster.
func (r *renderer) fallbackAssignment() models.FootballPlayer {
	if len(r.roster) == 0 {
		r.roster = r.lookup.PopularPlayers(context.Background())
	}
	return r.roster[rand.Intn(len(r.roster))]
}

func (r *renderer) printPlayers() {
	snap, ok := r.sess.Store.Snapshot()
	if !ok {
		fmt.Println("no active session")
		return
	}
	for _, p := range snap.Players {
		marks := ""
		if p.IsHost {
			marks += " host"
		}
		if p.IsReady {
			marks += " ready"
		}
		if !p.IsAlive {
			marks += " eliminated"
		}
		fmt.Printf("  %s%s\n", p.Name, marks)
	}
}

func (r *renderer) printState() {
	snap, ok := r.sess.Store.Snapshot()
	if !ok {
		fmt.Println("no active session")
		return
	}
	fmt.Printf("room %s | phase %s | round %d/%d | %d/%d players | connection %s\n",
		snap.RoomCode, snap.Phase, snap.CurrentRound, snap.TotalRounds,
		len(snap.Players), snap.MaxPlayers, r.sess.Store.Status())
	if len(snap.VotingResults) > 0 {
		fmt.Println("votes:")
		for _, v := range snap.VotingResults {
			name := v.PlayerID
			if p, ok := snap.FindPlayer(v.PlayerID); ok {
				name = p.Name
			}
			fmt.Printf("  %s: %d\n", name, v.Votes)
		}
	}
}

func (r *renderer) printChat() {
	for _, m := range r.sess.Store.Messages() {
		fmt.Printf("[%s] %s\n", m.PlayerName, m.Message)
	}
}
