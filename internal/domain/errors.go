package domain

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrNotEnoughPlayers   = errors.New("not enough players")
	ErrUnauthorized       = errors.New("only the host can do that")
	ErrGameInProgress     = errors.New("game already in progress")
	ErrUnknownPlayer      = errors.New("unknown player")
	ErrNameEmpty          = errors.New("player name empty")
	ErrNameTooLong        = errors.New("player name too long")
	ErrCodeSpaceExhausted = errors.New("could not allocate room code")
)
