package core

import "github.com/dkeye/Doodle/internal/domain"

// Inbound event names.
const (
	InCreateRoom    = "createRoom"
	InJoinRoom      = "joinRoom"
	InStartGame     = "startGame"
	InSubmitDrawing = "submitDrawing"
	InSubmitSlogan  = "submitSlogan"
	InChatMessage   = "chatMessage"
)

// Outbound event names.
const (
	OutRoomCreated     = "roomCreated"
	OutRoomJoined      = "roomJoined"
	OutPlayerJoined    = "playerJoined"
	OutError           = "error"
	OutGameStarting    = "gameStarting"
	OutCountdownUpdate = "countdownUpdate"
	OutPhaseUpdate     = "phaseUpdate"
	OutDrawingReceived = "drawingReceived"
	OutSloganReceived  = "sloganReceived"
	OutChatMessage     = "chatMessage"
	OutNewHost         = "newHost"
	OutPlayerLeft      = "playerLeft"
)

// Event is a named outbound message. Data is marshalled to JSON by the transport.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type RoomCreated struct {
	RoomCode domain.RoomCode `json:"roomCode"`
	PlayerID domain.PlayerID `json:"playerId"`
}

type RoomJoined struct {
	RoomCode domain.RoomCode `json:"roomCode"`
	Players  []domain.Player `json:"players"`
	PlayerID domain.PlayerID `json:"playerId"`
}

type PlayerJoined struct {
	Player domain.Player `json:"player"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

type Countdown struct {
	Countdown int `json:"countdown"`
}

type PhaseUpdate struct {
	Phase domain.GameState `json:"phase"`
	Timer int              `json:"timer"`
}

type SubmissionReceived struct {
	Player string `json:"player"`
	Total  int    `json:"total"`
}

type ChatMessage struct {
	Player  string `json:"player"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

type NewHost struct {
	Player domain.Player `json:"player"`
}

type PlayerLeft struct {
	PlayerID domain.PlayerID `json:"playerId"`
}

func NewEvent(name string, data any) Event { return Event{Type: name, Data: data} }

func ErrorEvent(msg string) Event { return NewEvent(OutError, ErrorMessage{Message: msg}) }
