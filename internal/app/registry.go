package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Doodle/internal/core"
	"github.com/dkeye/Doodle/internal/domain"
)

type Limits struct {
	MaxPlayers    int
	CodeAttempts  int
	MaxChatLength int
}

func DefaultLimits() Limits {
	return Limits{MaxPlayers: 8, CodeAttempts: 16, MaxChatLength: 500}
}

// RegistryConfig wires the registry. Zero fields fall back to defaults.
type RegistryConfig struct {
	Limits Limits
	Plan   PhasePlan
	Clock  Clock
	Codes  core.CodeGenerator
	Policy Policy
}

func (c RegistryConfig) withDefaults() RegistryConfig {
	def := DefaultLimits()
	if c.Limits.MaxPlayers <= 0 {
		c.Limits.MaxPlayers = def.MaxPlayers
	}
	if c.Limits.CodeAttempts <= 0 {
		c.Limits.CodeAttempts = def.CodeAttempts
	}
	if c.Limits.MaxChatLength <= 0 {
		c.Limits.MaxChatLength = def.MaxChatLength
	}
	if c.Plan.Tick <= 0 {
		c.Plan = DefaultPlan()
	}
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	if c.Codes == nil {
		c.Codes = core.RandomCodes{}
	}
	if c.Policy == nil {
		c.Policy = SimplePolicy{}
	}
	return c
}

// Registry owns every room and the player directory. One mutex guards both
// maps and the scheduler, and outbound sends happen while it is held so
// a room's members observe events in the order they were produced.
type Registry struct {
	mu       sync.Mutex
	rooms    map[domain.RoomCode]*core.Room
	players  *Directory
	sched    *Scheduler
	notifier core.Notifier
	cfg      RegistryConfig
}

func NewRegistry(cfg RegistryConfig, n core.Notifier) *Registry {
	cfg = cfg.withDefaults()
	r := &Registry{
		rooms:    make(map[domain.RoomCode]*core.Room),
		players:  NewDirectory(),
		notifier: n,
		cfg:      cfg,
	}
	r.sched = NewScheduler(cfg.Clock, cfg.Plan, r.onTimer)
	return r
}

type JoinResult struct {
	RoomCode domain.RoomCode
	Players  []domain.Player
	PlayerID domain.PlayerID
}

// CreateRoom makes id the host of a new room. A session already seated
// somewhere leaves that room first.
func (r *Registry) CreateRoom(id domain.PlayerID, hostName string) (domain.RoomCode, error) {
	host, err := domain.NewPlayer(id, hostName, true)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	code, err := r.allocateCode()
	if err != nil {
		return "", err
	}
	r.removeLocked(id)

	room := core.NewRoom(code, host)
	r.rooms[code] = room
	r.players.Put(id, DirectoryEntry{Name: host.Name, IsHost: true, RoomCode: code})
	log.Info().Str("module", "app.registry").Str("room", string(code)).Str("player", string(id)).Msg("room created")

	r.send(code, id, core.NewEvent(core.OutRoomCreated, core.RoomCreated{RoomCode: code, PlayerID: id}))
	return code, nil
}

func (r *Registry) JoinRoom(id domain.PlayerID, code domain.RoomCode, name string) (JoinResult, error) {
	p, err := domain.NewPlayer(id, name, false)
	if err != nil {
		return JoinResult{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[code]
	if !ok {
		return JoinResult{}, domain.ErrRoomNotFound
	}

	if e, ok := r.players.Get(id); ok && e.RoomCode == code {
		res := JoinResult{RoomCode: code, Players: room.Players(), PlayerID: id}
		r.send(code, id, core.NewEvent(core.OutRoomJoined, core.RoomJoined(res)))
		return res, nil
	}

	if room.Len() >= r.cfg.Limits.MaxPlayers {
		return JoinResult{}, domain.ErrRoomFull
	}
	r.removeLocked(id)

	room.AddPlayer(p)
	r.players.Put(id, DirectoryEntry{Name: p.Name, RoomCode: code})
	log.Info().Str("module", "app.registry").Str("room", string(code)).Str("player", string(id)).Int("count", room.Len()).Msg("player joined")

	r.broadcast(room, core.NewEvent(core.OutPlayerJoined, core.PlayerJoined{Player: *p}), id)

	res := JoinResult{RoomCode: code, Players: room.Players(), PlayerID: id}
	r.send(code, id, core.NewEvent(core.OutRoomJoined, core.RoomJoined(res)))
	return res, nil
}

// RemovePlayer is idempotent.
func (r *Registry) RemovePlayer(id domain.PlayerID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(id)
}

func (r *Registry) removeLocked(id domain.PlayerID) {
	e, ok := r.players.Get(id)
	if !ok {
		return
	}
	r.players.Remove(id)

	room, ok := r.rooms[e.RoomCode]
	if !ok {
		return
	}
	removed, promoted := room.RemovePlayer(id)
	if removed == nil {
		return
	}
	log.Info().Str("module", "app.registry").Str("room", string(e.RoomCode)).Str("player", string(id)).Msg("player removed")

	if room.Empty() {
		r.sched.Cancel(e.RoomCode)
		delete(r.rooms, e.RoomCode)
		log.Info().Str("module", "app.registry").Str("room", string(e.RoomCode)).Msg("room destroyed")
		return
	}

	if promoted != nil {
		r.players.SetHost(promoted.ID, true)
		log.Info().Str("module", "app.registry").Str("room", string(e.RoomCode)).Str("host", string(promoted.ID)).Msg("host migrated")
		r.broadcast(room, core.NewEvent(core.OutNewHost, core.NewHost{Player: *promoted}), "")
	}
	r.broadcast(room, core.NewEvent(core.OutPlayerLeft, core.PlayerLeft{PlayerID: id}), "")
}

// StartGame begins the countdown. Every error except ErrNotEnoughPlayers
// describes a request the caller is expected to ignore.
func (r *Registry) StartGame(id domain.PlayerID, code domain.RoomCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[code]
	if !ok {
		return domain.ErrRoomNotFound
	}
	if !room.IsHost(id) {
		return domain.ErrUnauthorized
	}
	if room.State().Running() || r.sched.Active(code) {
		return domain.ErrGameInProgress
	}
	if room.Len() < 2 {
		return domain.ErrNotEnoughPlayers
	}

	if room.State() == domain.StateResults {
		room.ResetRound()
	}
	room.SetState(domain.StateStarting)
	log.Info().Str("module", "app.registry").Str("room", string(code)).Msg("game starting")

	r.broadcast(room, core.NewEvent(core.OutGameStarting, core.Countdown{Countdown: r.cfg.Plan.Countdown}), "")
	r.sched.Arm(code)
	return nil
}

func (r *Registry) onTimer(code domain.RoomCode, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[code]
	if !ok {
		return
	}
	step, ok := r.sched.Step(code, gen)
	if !ok {
		return
	}
	if step.State != "" {
		room.SetState(step.State)
	}
	r.broadcast(room, step.Event, "")
}

func (r *Registry) RecordDrawing(id domain.PlayerID, payload json.RawMessage) error {
	return r.record(id, payload, core.OutDrawingReceived, (*core.Room).AddDrawing)
}

func (r *Registry) RecordSlogan(id domain.PlayerID, payload json.RawMessage) error {
	return r.record(id, payload, core.OutSloganReceived, (*core.Room).AddSlogan)
}

func (r *Registry) record(
	id domain.PlayerID,
	payload json.RawMessage,
	event string,
	add func(*core.Room, domain.PlayerID, json.RawMessage, time.Time) int,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, room, err := r.seatOf(id)
	if err != nil {
		return err
	}
	total := add(room, id, payload, r.cfg.Clock.Now())
	r.broadcast(room, core.NewEvent(event, core.SubmissionReceived{Player: e.Name, Total: total}), "")
	return nil
}

// RelayChat broadcasts msg to the sender's room, sender included.
func (r *Registry) RelayChat(id domain.PlayerID, msg string) error {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return nil
	}
	if utf8.RuneCountInString(msg) > r.cfg.Limits.MaxChatLength {
		msg = string([]rune(msg)[:r.cfg.Limits.MaxChatLength])
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, room, err := r.seatOf(id)
	if err != nil {
		return err
	}
	r.broadcast(room, core.NewEvent(core.OutChatMessage, core.ChatMessage{
		Player:  e.Name,
		Message: msg,
		Time:    r.cfg.Clock.Now().Format("15:04:05"),
	}), "")
	return nil
}

// RoomView is a read-only copy of a room.
type RoomView struct {
	Code     domain.RoomCode
	Host     domain.PlayerID
	State    domain.GameState
	Players  []domain.Player
	Drawings []domain.Submission
	Slogans  []domain.Submission
}

func (r *Registry) Lookup(code domain.RoomCode) (RoomView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[code]
	if !ok {
		return RoomView{}, false
	}
	return RoomView{
		Code:     room.Code(),
		Host:     room.Host(),
		State:    room.State(),
		Players:  room.Players(),
		Drawings: room.Drawings(),
		Slogans:  room.Slogans(),
	}, true
}

func (r *Registry) Player(id domain.PlayerID) (DirectoryEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.players.Get(id)
}

// Counts returns the number of live rooms and seated players.
func (r *Registry) Counts() (rooms, players int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms), r.players.Len()
}

// List returns room summaries ordered by code.
func (r *Registry) List() []core.RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.RoomInfo, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room.Info())
	}
	slices.SortFunc(out, func(a, b core.RoomInfo) int { return strings.Compare(string(a.Code), string(b.Code)) })
	return out
}

// Close stops every pending phase timer.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sched.CancelAll()
}

func (r *Registry) seatOf(id domain.PlayerID) (DirectoryEntry, *core.Room, error) {
	e, ok := r.players.Get(id)
	if !ok {
		return DirectoryEntry{}, nil, domain.ErrUnknownPlayer
	}
	room, ok := r.rooms[e.RoomCode]
	if !ok {
		return DirectoryEntry{}, nil, domain.ErrUnknownPlayer
	}
	return e, room, nil
}

func (r *Registry) allocateCode() (domain.RoomCode, error) {
	for range r.cfg.Limits.CodeAttempts {
		code, err := r.cfg.Codes.Generate()
		if err != nil {
			return "", fmt.Errorf("generate room code: %w", err)
		}
		if _, taken := r.rooms[code]; !taken {
			return code, nil
		}
		log.Warn().Str("module", "app.registry").Str("room", string(code)).Msg("room code collision, regenerating")
	}
	return "", domain.ErrCodeSpaceExhausted
}

func (r *Registry) broadcast(room *core.Room, ev core.Event, except domain.PlayerID) {
	sent, dropped := 0, 0
	for _, id := range room.IDs() {
		if id == except {
			continue
		}
		if r.send(room.Code(), id, ev) {
			sent++
		} else {
			dropped++
		}
	}
	log.Debug().Str("module", "app.registry").Str("room", string(room.Code())).Str("event", ev.Type).Int("sent_to", sent).Int("dropped", dropped).Msg("broadcast result")
}

func (r *Registry) send(code domain.RoomCode, id domain.PlayerID, ev core.Event) bool {
	err := r.notifier.Send(id, ev)
	if err == nil {
		return true
	}
	log.Warn().Err(err).Str("module", "app.registry").Str("room", string(code)).Str("player", string(id)).Str("event", ev.Type).Msg("send failed")
	if errors.Is(err, core.ErrBackpressure) && r.cfg.Policy.OnBackPressure(code, id) == KickMember {
		r.notifier.Disconnect(id)
	}
	return false
}
