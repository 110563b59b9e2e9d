// Package gateway turns inbound client events into registry operations and
// reports user-facing failures back to the originating session.
package gateway

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Doodle/internal/app"
	"github.com/dkeye/Doodle/internal/core"
	"github.com/dkeye/Doodle/internal/domain"
)

var (
	ErrBadPayload   = errors.New("bad payload")
	ErrUnknownEvent = errors.New("unknown event")
)

type Gateway struct {
	Rooms    *app.Registry
	Notifier core.Notifier
}

func New(rooms *app.Registry, n core.Notifier) *Gateway {
	return &Gateway{Rooms: rooms, Notifier: n}
}

type createRoomPayload struct {
	PlayerName string `json:"playerName"`
}

type joinRoomPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type startGamePayload struct {
	RoomCode string `json:"roomCode"`
}

type drawingPayload struct {
	Drawing json.RawMessage `json:"drawing"`
}

type sloganPayload struct {
	Slogan json.RawMessage `json:"slogan"`
}

type chatPayload struct {
	Message string `json:"message"`
}

// Handle dispatches one inbound event from id.
func (g *Gateway) Handle(id domain.PlayerID, event string, data json.RawMessage) {
	var err error
	switch event {
	case core.InCreateRoom:
		var p createRoomPayload
		if err = decode(data, &p); err == nil {
			_, err = g.Rooms.CreateRoom(id, p.PlayerName)
		}
	case core.InJoinRoom:
		var p joinRoomPayload
		if err = decode(data, &p); err == nil {
			_, err = g.Rooms.JoinRoom(id, domain.ParseRoomCode(p.RoomCode), p.PlayerName)
		}
	case core.InStartGame:
		var p startGamePayload
		if err = decode(data, &p); err == nil {
			err = g.startGame(id, domain.ParseRoomCode(p.RoomCode))
		}
	case core.InSubmitDrawing:
		var p drawingPayload
		if err = decode(data, &p); err == nil {
			err = g.Rooms.RecordDrawing(id, p.Drawing)
		}
	case core.InSubmitSlogan:
		var p sloganPayload
		if err = decode(data, &p); err == nil {
			err = g.Rooms.RecordSlogan(id, p.Slogan)
		}
	case core.InChatMessage:
		var p chatPayload
		if err = decode(data, &p); err == nil {
			err = g.Rooms.RelayChat(id, p.Message)
		}
	default:
		err = ErrUnknownEvent
	}
	g.report(id, event, err)
}

// startGame only reports a too small roster. Unknown rooms, non-host
// requesters and double starts are dropped.
func (g *Gateway) startGame(id domain.PlayerID, code domain.RoomCode) error {
	err := g.Rooms.StartGame(id, code)
	if err == nil || errors.Is(err, domain.ErrNotEnoughPlayers) {
		return err
	}
	log.Debug().Err(err).Str("module", "gateway").Str("player", string(id)).Str("room", string(code)).Msg("start ignored")
	return nil
}

// Disconnect removes the session's player; the room reacts as if it left.
func (g *Gateway) Disconnect(id domain.PlayerID) {
	log.Info().Str("module", "gateway").Str("player", string(id)).Msg("disconnect")
	g.Rooms.RemovePlayer(id)
}

func (g *Gateway) report(id domain.PlayerID, event string, err error) {
	if err == nil {
		return
	}
	msg, ok := userMessage(err)
	if !ok {
		log.Debug().Err(err).Str("module", "gateway").Str("player", string(id)).Str("event", event).Msg("request ignored")
		return
	}
	log.Info().Err(err).Str("module", "gateway").Str("player", string(id)).Str("event", event).Msg("request rejected")
	if err := g.Notifier.Send(id, core.ErrorEvent(msg)); err != nil {
		log.Warn().Err(err).Str("module", "gateway").Str("player", string(id)).Msg("error reply dropped")
	}
}

// userMessage maps err to the text shown to the player. Stale and
// unauthorized requests return ok=false and stay silent.
func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return "Room not found", true
	case errors.Is(err, domain.ErrRoomFull):
		return "Room is full", true
	case errors.Is(err, domain.ErrNotEnoughPlayers):
		return "Need at least 2 players to start", true
	case errors.Is(err, domain.ErrNameEmpty):
		return "Please enter a name", true
	case errors.Is(err, domain.ErrNameTooLong):
		return "Name is too long", true
	case errors.Is(err, domain.ErrCodeSpaceExhausted):
		return "Could not create a room, please try again", true
	case errors.Is(err, ErrBadPayload):
		return "Malformed request", true
	case errors.Is(err, ErrUnknownEvent):
		return "Unknown request", true
	}
	return "", false
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Join(ErrBadPayload, err)
	}
	return nil
}
