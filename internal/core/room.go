package core

import (
	"encoding/json"
	"time"

	"github.com/dkeye/Doodle/internal/domain"
)

// Room is the in-memory aggregate for one game session.
// It is not safe for concurrent use; the registry serializes access.
type Room struct {
	code     domain.RoomCode
	host     domain.PlayerID
	players  []*domain.Player
	state    domain.GameState
	drawings []domain.Submission
	slogans  []domain.Submission
}

// NewRoom creates a room whose only member is the host.
func NewRoom(code domain.RoomCode, host *domain.Player) *Room {
	host.IsHost = true
	return &Room{
		code:    code,
		host:    host.ID,
		players: []*domain.Player{host},
		state:   domain.StateWaiting,
	}
}

func (r *Room) Code() domain.RoomCode       { return r.code }
func (r *Room) Host() domain.PlayerID       { return r.host }
func (r *Room) State() domain.GameState     { return r.state }
func (r *Room) SetState(s domain.GameState) { r.state = s }
func (r *Room) Len() int                    { return len(r.players) }
func (r *Room) Empty() bool                 { return len(r.players) == 0 }

func (r *Room) IsHost(id domain.PlayerID) bool {
	return len(r.players) > 0 && r.host == id
}

// Player returns the roster entry for id.
func (r *Room) Player(id domain.PlayerID) (*domain.Player, bool) {
	for _, p := range r.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Players returns a copy of the roster in join order.
func (r *Room) Players() []domain.Player {
	out := make([]domain.Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, *p)
	}
	return out
}

// IDs returns member ids in join order.
func (r *Room) IDs() []domain.PlayerID {
	out := make([]domain.PlayerID, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p.ID)
	}
	return out
}

func (r *Room) AddPlayer(p *domain.Player) {
	p.IsHost = false
	r.players = append(r.players, p)
}

// RemovePlayer drops id from the roster. When the host leaves and others
// remain, the earliest joined remaining player becomes host and is returned
// as promoted.
func (r *Room) RemovePlayer(id domain.PlayerID) (removed, promoted *domain.Player) {
	idx := -1
	for i, p := range r.players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil
	}
	removed = r.players[idx]
	r.players = append(r.players[:idx], r.players[idx+1:]...)

	if removed.ID != r.host {
		return removed, nil
	}
	if len(r.players) == 0 {
		r.host = ""
		return removed, nil
	}
	promoted = r.players[0]
	promoted.IsHost = true
	r.host = promoted.ID
	return removed, promoted
}

func (r *Room) AddDrawing(id domain.PlayerID, payload json.RawMessage, at time.Time) int {
	r.drawings = append(r.drawings, domain.Submission{PlayerID: id, Payload: payload, Timestamp: at})
	return len(r.drawings)
}

func (r *Room) AddSlogan(id domain.PlayerID, payload json.RawMessage, at time.Time) int {
	r.slogans = append(r.slogans, domain.Submission{PlayerID: id, Payload: payload, Timestamp: at})
	return len(r.slogans)
}

func (r *Room) Drawings() []domain.Submission { return append([]domain.Submission(nil), r.drawings...) }
func (r *Room) Slogans() []domain.Submission  { return append([]domain.Submission(nil), r.slogans...) }

// ResetRound clears submissions from a previous round.
func (r *Room) ResetRound() {
	r.drawings = nil
	r.slogans = nil
}

type RoomInfo struct {
	Code    domain.RoomCode  `json:"code"`
	Players int              `json:"players"`
	State   domain.GameState `json:"state"`
}

func (r *Room) Info() RoomInfo {
	return RoomInfo{Code: r.code, Players: len(r.players), State: r.state}
}
