package signal

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/dkeye/Doodle/internal/app/gateway"
	"github.com/dkeye/Doodle/internal/core"
	"github.com/dkeye/Doodle/internal/domain"
)

var ErrConnClosed = errors.New("connection closed")

type Options struct {
	ReadLimit      int64
	PingPeriod     time.Duration
	SendBuffer     int
	AllowedOrigins []string
	// MessageRate and MessageBurst bound inbound frames per connection.
	MessageRate  float64
	MessageBurst int
	// JoinLimit createRoom/joinRoom attempts are allowed per JoinWindow.
	JoinLimit  int
	JoinWindow time.Duration
}

func (o Options) withDefaults() Options {
	if o.ReadLimit <= 0 {
		o.ReadLimit = 1 << 20
	}
	if o.PingPeriod <= 0 {
		o.PingPeriod = 54 * time.Second
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 64
	}
	if o.MessageRate <= 0 {
		o.MessageRate = 20
	}
	if o.MessageBurst <= 0 {
		o.MessageBurst = 40
	}
	if o.JoinLimit <= 0 {
		o.JoinLimit = 10
	}
	if o.JoinWindow <= 0 {
		o.JoinWindow = time.Minute
	}
	return o
}

type SignalWSController struct {
	Gateway *gateway.Gateway
	Hub     *Hub

	opts     Options
	joins    *RoomRateLimiter
	upgrader websocket.Upgrader
}

func NewSignalWSController(gw *gateway.Gateway, hub *Hub, opts Options) *SignalWSController {
	opts = opts.withDefaults()
	ctl := &SignalWSController{
		Gateway: gw,
		Hub:     hub,
		opts:    opts,
		joins:   NewRoomRateLimiter(opts.JoinLimit, opts.JoinWindow),
	}
	ctl.upgrader = websocket.Upgrader{CheckOrigin: ctl.checkOrigin}
	return ctl
}

func (ctl *SignalWSController) checkOrigin(r *http.Request) bool {
	if len(ctl.opts.AllowedOrigins) == 0 || slices.Contains(ctl.opts.AllowedOrigins, "*") {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || slices.Contains(ctl.opts.AllowedOrigins, origin)
}

type WsSignalConn struct {
	conn    *websocket.Conn
	send    chan core.Frame
	limiter *rate.Limiter

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleSignal upgrades the request and gives the connection a fresh session id.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := domain.PlayerID(uuid.NewString())

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("remote", c.ClientIP()).Msg("new WS connection")

	conn := &WsSignalConn{
		conn:    ws,
		send:    make(chan core.Frame, ctl.opts.SendBuffer),
		limiter: rate.NewLimiter(rate.Limit(ctl.opts.MessageRate), ctl.opts.MessageBurst),
	}
	ctl.Hub.Bind(sid, conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, sid, conn)
	go func() {
		defer cancel()
		ctl.readPump(ctx, sid, conn)
	}()
}
