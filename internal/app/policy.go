package app

import "github.com/dkeye/Doodle/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a session whose outbound buffer is full.
type Policy interface {
	OnBackPressure(room domain.RoomCode, player domain.PlayerID) BackpressureAction
}

type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(domain.RoomCode, domain.PlayerID) BackpressureAction {
	return KickMember
}
