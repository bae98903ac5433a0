package loop

import (
	"math"
	"time"

	"github.com/tomz197/aviator/internal/config"
	"github.com/tomz197/aviator/internal/object"
)

// Status is the phase of a run.
type Status int

const (
	StatusPlaying       Status = iota // Flying
	StatusGameOver                    // Out of energy, plane falling
	StatusWaitingReplay               // Plane gone, waiting for a tap
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusGameOver:
		return "gameover"
	case StatusWaitingReplay:
		return "waitingReplay"
	default:
		return "unknown"
	}
}

// GameState is the mutable record advanced once per tick.
type GameState struct {
	Speed           float64
	BaseSpeed       float64
	TargetBaseSpeed float64
	Distance        float64
	Energy          float64
	Level           int
	Status          Status

	// Distance marks at which each periodic check last fired.
	CoinLastSpawn   float64
	EnemyLastSpawn  float64
	SpeedLastUpdate float64
	LevelLastUpdate float64

	Collision      object.Impulse
	PlaneSpeed     float64
	PlaneFallSpeed float64

	// Elapsed is the time spent playing in the current run.
	Elapsed time.Duration
}

// NewGameState returns the state of a fresh run.
func NewGameState(t config.Tuning) GameState {
	return GameState{
		BaseSpeed:       t.InitSpeed,
		TargetBaseSpeed: t.InitSpeed,
		Energy:          100,
		Level:           1,
		Status:          StatusPlaying,
		PlaneFallSpeed:  t.PlaneFallSpeed,
	}
}

// Reset reinitializes every field for a new run.
func (s *GameState) Reset(t config.Tuning) {
	*s = NewGameState(t)
}

// LevelProgress returns how far the current level interval is completed,
// in [0,1).
func (s *GameState) LevelProgress(t config.Tuning) float64 {
	return math.Mod(s.Distance, t.DistanceForLevelUpdate) / t.DistanceForLevelUpdate
}

// crossed reports whether distance reached a multiple of interval that is
// newer than *last, and records it. It fires at most once per call no
// matter how many multiples were skipped.
func crossed(distance, interval float64, last *float64) bool {
	mark := math.Floor(distance/interval) * interval
	if mark > 0 && mark > *last {
		*last = mark
		return true
	}
	return false
}

// addEnergy changes energy by delta, keeping it within [0,100].
func (s *GameState) addEnergy(delta float64) {
	s.Energy = math.Min(100, math.Max(0, s.Energy+delta))
}
