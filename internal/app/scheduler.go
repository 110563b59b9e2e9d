package app

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Doodle/internal/core"
	"github.com/dkeye/Doodle/internal/domain"
)

// PhaseSpec is one timed stage after the countdown. Duration is in ticks.
type PhaseSpec struct {
	State    domain.GameState
	Duration int
}

type PhasePlan struct {
	Tick      time.Duration
	Countdown int
	Phases    []PhaseSpec
}

func DefaultPlan() PhasePlan {
	return PhasePlan{
		Tick:      time.Second,
		Countdown: 3,
		Phases: []PhaseSpec{
			{State: domain.StateDrawing, Duration: 90},
			{State: domain.StateCaptioning, Duration: 60},
		},
	}
}

// Step is what a timer fire produces for the room.
type Step struct {
	Event core.Event
	// State is the new game state, empty when unchanged.
	State domain.GameState
}

type schedule struct {
	gen       uint64
	timer     Timer
	countdown int
	phase     int
}

// Scheduler drives the countdown and phase timers of every room.
// All methods must be called with the registry lock held; fire is invoked
// from the timer goroutine and is expected to take that lock itself.
type Scheduler struct {
	clock Clock
	plan  PhasePlan
	fire  func(code domain.RoomCode, gen uint64)
	rooms map[domain.RoomCode]*schedule
	gen   uint64
}

func NewScheduler(clock Clock, plan PhasePlan, fire func(code domain.RoomCode, gen uint64)) *Scheduler {
	return &Scheduler{
		clock: clock,
		plan:  plan,
		fire:  fire,
		rooms: make(map[domain.RoomCode]*schedule),
	}
}

func (s *Scheduler) Plan() PhasePlan { return s.plan }

func (s *Scheduler) Active(code domain.RoomCode) bool {
	_, ok := s.rooms[code]
	return ok
}

// Arm starts the countdown for code. An armed room keeps its schedule.
func (s *Scheduler) Arm(code domain.RoomCode) bool {
	if s.Active(code) {
		return false
	}
	s.gen++
	sc := &schedule{gen: s.gen, countdown: s.plan.Countdown, phase: -1}
	s.rooms[code] = sc
	s.after(code, sc, s.plan.Tick)
	log.Debug().Str("module", "app.scheduler").Str("room", string(code)).Uint64("gen", sc.gen).Msg("countdown armed")
	return true
}

// Step advances the schedule of code if gen is still current.
func (s *Scheduler) Step(code domain.RoomCode, gen uint64) (Step, bool) {
	sc, ok := s.rooms[code]
	if !ok || sc.gen != gen {
		log.Debug().Str("module", "app.scheduler").Str("room", string(code)).Uint64("gen", gen).Msg("stale timer dropped")
		return Step{}, false
	}

	if sc.countdown > 0 {
		ev := core.NewEvent(core.OutCountdownUpdate, core.Countdown{Countdown: sc.countdown})
		sc.countdown--
		s.after(code, sc, s.plan.Tick)
		return Step{Event: ev}, true
	}

	sc.phase++
	if sc.phase < len(s.plan.Phases) {
		p := s.plan.Phases[sc.phase]
		s.after(code, sc, time.Duration(p.Duration)*s.plan.Tick)
		log.Info().Str("module", "app.scheduler").Str("room", string(code)).Str("phase", string(p.State)).Msg("phase started")
		return Step{
			Event: core.NewEvent(core.OutPhaseUpdate, core.PhaseUpdate{Phase: p.State, Timer: p.Duration}),
			State: p.State,
		}, true
	}

	delete(s.rooms, code)
	log.Info().Str("module", "app.scheduler").Str("room", string(code)).Msg("round finished")
	return Step{
		Event: core.NewEvent(core.OutPhaseUpdate, core.PhaseUpdate{Phase: domain.StateResults}),
		State: domain.StateResults,
	}, true
}

// Cancel stops the pending timer of code, if any.
func (s *Scheduler) Cancel(code domain.RoomCode) {
	sc, ok := s.rooms[code]
	if !ok {
		return
	}
	if sc.timer != nil {
		sc.timer.Stop()
	}
	delete(s.rooms, code)
	log.Debug().Str("module", "app.scheduler").Str("room", string(code)).Msg("timer cancelled")
}

func (s *Scheduler) CancelAll() {
	for code := range s.rooms {
		s.Cancel(code)
	}
}

func (s *Scheduler) after(code domain.RoomCode, sc *schedule, d time.Duration) {
	gen := sc.gen
	sc.timer = s.clock.AfterFunc(d, func() { s.fire(code, gen) })
}
