package domain

import (
	"encoding/json"
	"strings"
	"time"
)

const RoomCodeLen = 6

type RoomCode string

// ParseRoomCode accepts user input such as " abcdef" and returns the canonical code.
func ParseRoomCode(raw string) RoomCode {
	return RoomCode(strings.ToUpper(strings.TrimSpace(raw)))
}

type GameState string

const (
	StateWaiting    GameState = "waiting"
	StateStarting   GameState = "starting"
	StateDrawing    GameState = "drawing"
	StateCaptioning GameState = "captioning"
	StateResults    GameState = "results"
)

// Running reports whether a countdown or a timed phase is in progress.
func (s GameState) Running() bool {
	switch s {
	case StateStarting, StateDrawing, StateCaptioning:
		return true
	}
	return false
}

// Submission is a drawing or a slogan. Payload is stored as sent by the client.
type Submission struct {
	PlayerID  PlayerID        `json:"playerId"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}
