package core

import (
	"errors"

	"github.com/dkeye/Doodle/internal/domain"
)

//go:generate mockgen -destination=mocks/mock_notifier.go -package=mocks github.com/dkeye/Doodle/internal/core Notifier

var (
	ErrBackpressure = errors.New("backpressure")
	ErrNoSession    = errors.New("no session")
)

// Notifier is the outbound side of the transport.
// Send must not block; a full outbound buffer is reported as ErrBackpressure.
type Notifier interface {
	Send(to domain.PlayerID, ev Event) error
	// Disconnect asks the transport to close the session. The transport
	// reports the close back through the gateway's Disconnect.
	Disconnect(id domain.PlayerID)
}

// Frame is a raw encoded payload.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
