package signal

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Doodle/internal/core"
	"github.com/dkeye/Doodle/internal/domain"
)

// Hub maps sessions to their live connection and implements core.Notifier.
type Hub struct {
	mu    sync.RWMutex
	conns map[domain.PlayerID]core.SignalConnection
}

func NewHub() *Hub {
	return &Hub{conns: make(map[domain.PlayerID]core.SignalConnection)}
}

func (h *Hub) Bind(id domain.PlayerID, c core.SignalConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[id] = c
	log.Debug().Str("module", "signal").Str("sid", string(id)).Msg("bound signal")
}

// Unbind forgets id only if it is still bound to c.
func (h *Hub) Unbind(id domain.PlayerID, c core.SignalConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.conns[id]; ok && cur == c {
		delete(h.conns, id)
		log.Debug().Str("module", "signal").Str("sid", string(id)).Msg("unbind signal")
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) Send(to domain.PlayerID, ev core.Event) error {
	h.mu.RLock()
	c, ok := h.conns[to]
	h.mu.RUnlock()
	if !ok {
		return core.ErrNoSession
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.TrySend(b)
}

// Disconnect closes the connection; the read pump then reports the disconnect.
func (h *Hub) Disconnect(id domain.PlayerID) {
	h.mu.RLock()
	c, ok := h.conns[id]
	h.mu.RUnlock()
	if !ok {
		return
	}
	log.Warn().Str("module", "signal").Str("sid", string(id)).Msg("closing slow connection")
	c.Close()
}
