package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkeye/Doodle/internal/core"
)

// StatsSource is the read-only view of the registry the HTTP surface needs.
type StatsSource interface {
	Counts() (rooms, players int)
	List() []core.RoomInfo
}

type HealthResponse struct {
	Status  string  `json:"status"`
	Rooms   int     `json:"rooms"`
	Players int     `json:"players"`
	Uptime  float64 `json:"uptime"`
}

type RoomStats struct {
	Code    string `json:"code"`
	Players int    `json:"players"`
	State   string `json:"state"`
}

type StatsResponse struct {
	TotalRooms   int         `json:"totalRooms"`
	TotalPlayers int         `json:"totalPlayers"`
	ActiveRooms  []RoomStats `json:"activeRooms"`
}

type StatsHandler struct {
	src     StatsSource
	started time.Time
	now     func() time.Time
}

func NewStatsHandler(src StatsSource) *StatsHandler {
	return &StatsHandler{src: src, started: time.Now(), now: time.Now}
}

// Health reports uptime in seconds.
func (h *StatsHandler) Health(c *gin.Context) {
	rooms, players := h.src.Counts()
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Rooms:   rooms,
		Players: players,
		Uptime:  h.now().Sub(h.started).Seconds(),
	})
}

func (h *StatsHandler) Stats(c *gin.Context) {
	infos := h.src.List()
	resp := StatsResponse{ActiveRooms: make([]RoomStats, 0, len(infos))}
	for _, info := range infos {
		resp.ActiveRooms = append(resp.ActiveRooms, RoomStats{
			Code:    string(info.Code),
			Players: info.Players,
			State:   string(info.State),
		})
		resp.TotalPlayers += info.Players
	}
	resp.TotalRooms = len(infos)
	c.JSON(http.StatusOK, resp)
}
