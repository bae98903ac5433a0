package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTuning is returned by Tuning.Validate for unusable parameters.
var ErrInvalidTuning = errors.New("invalid tuning")

// Tuning holds every game ratio. Times are in milliseconds and speeds in
// world units per millisecond, so a tick of dt ms advances distance by
// speed*dt*RatioSpeedDistance.
type Tuning struct {
	// Speed
	InitSpeed              float64
	IncrementSpeedByTime   float64
	IncrementSpeedByLevel  float64
	DistanceForSpeedUpdate float64
	BaseSpeedSmoothing     float64

	// Progress
	RatioSpeedDistance     float64
	RatioSpeedEnergy       float64
	DistanceForLevelUpdate float64

	// Plane
	PlaneDefaultHeight       float64
	PlaneAmpHeight           float64
	PlaneAmpWidth            float64
	PlaneMoveSensitivity     float64
	PlaneRotXSensitivity     float64
	PlaneRotZSensitivity     float64
	PlaneFallSpeed           float64
	PlaneFallAcceleration    float64
	PlaneFallThreshold       float64
	PlaneMinSpeed            float64
	PlaneMaxSpeed            float64
	ImpulseSpeedDecay        float64
	ImpulseDisplacementDecay float64
	Knockback                float64

	// World
	SeaRadius float64
	SeaLength float64

	// Camera
	CameraFarPos      float64
	CameraNearPos     float64
	CameraSensitivity float64
	CameraMinFOV      float64
	CameraMaxFOV      float64

	// Lights
	AmbientRest  float64
	AmbientFlash float64
	AmbientDecay float64

	// Game over
	GameOverSpeedDecay float64

	// Coins
	CoinDistanceTolerance float64
	CoinValue             float64
	CoinsSpeed            float64
	DistanceForCoinsSpawn float64

	// Enemies
	EnemyDistanceTolerance  float64
	EnemyValue              float64
	EnemiesSpeed            float64
	DistanceForEnemiesSpawn float64

	// Pools (pre-warm sizes)
	CoinsPool     int
	EnemiesPool   int
	ParticlesPool int
}

// DefaultTuning returns the stock game balance.
func DefaultTuning() Tuning {
	return Tuning{
		InitSpeed:              0.00035,
		IncrementSpeedByTime:   0.0000025,
		IncrementSpeedByLevel:  0.000005,
		DistanceForSpeedUpdate: 100,
		BaseSpeedSmoothing:     0.02,

		RatioSpeedDistance:     50,
		RatioSpeedEnergy:       3,
		DistanceForLevelUpdate: 1000,

		PlaneDefaultHeight:       100,
		PlaneAmpHeight:           80,
		PlaneAmpWidth:            75,
		PlaneMoveSensitivity:     0.005,
		PlaneRotXSensitivity:     0.0008,
		PlaneRotZSensitivity:     0.0004,
		PlaneFallSpeed:           0.001,
		PlaneFallAcceleration:    1.05,
		PlaneFallThreshold:       -200,
		PlaneMinSpeed:            1.2,
		PlaneMaxSpeed:            1.6,
		ImpulseSpeedDecay:        0.03,
		ImpulseDisplacementDecay: 0.01,
		Knockback:                100,

		SeaRadius: 600,
		SeaLength: 800,

		CameraFarPos:      500,
		CameraNearPos:     150,
		CameraSensitivity: 0.002,
		CameraMinFOV:      40,
		CameraMaxFOV:      80,

		AmbientRest:  0.5,
		AmbientFlash: 2,
		AmbientDecay: 0.005,

		GameOverSpeedDecay: 0.99,

		CoinDistanceTolerance: 15,
		CoinValue:             3,
		CoinsSpeed:            0.5,
		DistanceForCoinsSpawn: 100,

		EnemyDistanceTolerance:  10,
		EnemyValue:              10,
		EnemiesSpeed:            0.6,
		DistanceForEnemiesSpawn: 50,

		CoinsPool:     20,
		EnemiesPool:   10,
		ParticlesPool: 10,
	}
}

// Validate reports the first unusable parameter. Bad tuning is a programming
// error; callers are expected to fail fast.
func (t Tuning) Validate() error {
	for _, p := range t.params() {
		if math.IsNaN(p.value) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidTuning, p.name, p.value)
		}
	}

	positive := []tuningParam{
		{"DistanceForSpeedUpdate", t.DistanceForSpeedUpdate},
		{"DistanceForLevelUpdate", t.DistanceForLevelUpdate},
		{"DistanceForCoinsSpawn", t.DistanceForCoinsSpawn},
		{"DistanceForEnemiesSpawn", t.DistanceForEnemiesSpawn},
		{"RatioSpeedDistance", t.RatioSpeedDistance},
		{"SeaRadius", t.SeaRadius},
		{"PlaneMoveSensitivity", t.PlaneMoveSensitivity},
		{"PlaneFallAcceleration", t.PlaneFallAcceleration},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be > 0, got %v", ErrInvalidTuning, p.name, p.value)
		}
	}

	nonNegative := []tuningParam{
		{"InitSpeed", t.InitSpeed},
		{"IncrementSpeedByTime", t.IncrementSpeedByTime},
		{"IncrementSpeedByLevel", t.IncrementSpeedByLevel},
		{"RatioSpeedEnergy", t.RatioSpeedEnergy},
		{"CoinDistanceTolerance", t.CoinDistanceTolerance},
		{"EnemyDistanceTolerance", t.EnemyDistanceTolerance},
		{"CoinValue", t.CoinValue},
		{"EnemyValue", t.EnemyValue},
		{"CoinsSpeed", t.CoinsSpeed},
		{"EnemiesSpeed", t.EnemiesSpeed},
		{"PlaneFallSpeed", t.PlaneFallSpeed},
		{"Knockback", t.Knockback},
		{"BaseSpeedSmoothing", t.BaseSpeedSmoothing},
		{"ImpulseSpeedDecay", t.ImpulseSpeedDecay},
		{"ImpulseDisplacementDecay", t.ImpulseDisplacementDecay},
		{"CameraSensitivity", t.CameraSensitivity},
		{"AmbientDecay", t.AmbientDecay},
	}
	for _, p := range nonNegative {
		if p.value < 0 {
			return fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalidTuning, p.name, p.value)
		}
	}

	if t.PlaneMinSpeed >= t.PlaneMaxSpeed {
		return fmt.Errorf("%w: PlaneMinSpeed (%v) must be below PlaneMaxSpeed (%v)", ErrInvalidTuning, t.PlaneMinSpeed, t.PlaneMaxSpeed)
	}
	if t.PlaneAmpHeight < 20 {
		return fmt.Errorf("%w: PlaneAmpHeight must be >= 20, got %v", ErrInvalidTuning, t.PlaneAmpHeight)
	}
	if t.CameraMinFOV >= t.CameraMaxFOV {
		return fmt.Errorf("%w: CameraMinFOV (%v) must be below CameraMaxFOV (%v)", ErrInvalidTuning, t.CameraMinFOV, t.CameraMaxFOV)
	}
	if t.GameOverSpeedDecay < 0 || t.GameOverSpeedDecay > 1 {
		return fmt.Errorf("%w: GameOverSpeedDecay must be in [0,1], got %v", ErrInvalidTuning, t.GameOverSpeedDecay)
	}
	if t.CoinsPool < 0 || t.EnemiesPool < 0 || t.ParticlesPool < 0 {
		return fmt.Errorf("%w: pool sizes must be >= 0", ErrInvalidTuning)
	}
	return nil
}

type tuningParam struct {
	name  string
	value float64
}

// params lists every float parameter by name.
func (t Tuning) params() []tuningParam {
	return []tuningParam{
		{"InitSpeed", t.InitSpeed},
		{"IncrementSpeedByTime", t.IncrementSpeedByTime},
		{"IncrementSpeedByLevel", t.IncrementSpeedByLevel},
		{"DistanceForSpeedUpdate", t.DistanceForSpeedUpdate},
		{"BaseSpeedSmoothing", t.BaseSpeedSmoothing},
		{"RatioSpeedDistance", t.RatioSpeedDistance},
		{"RatioSpeedEnergy", t.RatioSpeedEnergy},
		{"DistanceForLevelUpdate", t.DistanceForLevelUpdate},
		{"PlaneDefaultHeight", t.PlaneDefaultHeight},
		{"PlaneAmpHeight", t.PlaneAmpHeight},
		{"PlaneAmpWidth", t.PlaneAmpWidth},
		{"PlaneMoveSensitivity", t.PlaneMoveSensitivity},
		{"PlaneRotXSensitivity", t.PlaneRotXSensitivity},
		{"PlaneRotZSensitivity", t.PlaneRotZSensitivity},
		{"PlaneFallSpeed", t.PlaneFallSpeed},
		{"PlaneFallAcceleration", t.PlaneFallAcceleration},
		{"PlaneFallThreshold", t.PlaneFallThreshold},
		{"PlaneMinSpeed", t.PlaneMinSpeed},
		{"PlaneMaxSpeed", t.PlaneMaxSpeed},
		{"ImpulseSpeedDecay", t.ImpulseSpeedDecay},
		{"ImpulseDisplacementDecay", t.ImpulseDisplacementDecay},
		{"Knockback", t.Knockback},
		{"SeaRadius", t.SeaRadius},
		{"SeaLength", t.SeaLength},
		{"CameraFarPos", t.CameraFarPos},
		{"CameraNearPos", t.CameraNearPos},
		{"CameraSensitivity", t.CameraSensitivity},
		{"CameraMinFOV", t.CameraMinFOV},
		{"CameraMaxFOV", t.CameraMaxFOV},
		{"AmbientRest", t.AmbientRest},
		{"AmbientFlash", t.AmbientFlash},
		{"AmbientDecay", t.AmbientDecay},
		{"GameOverSpeedDecay", t.GameOverSpeedDecay},
		{"CoinDistanceTolerance", t.CoinDistanceTolerance},
		{"CoinValue", t.CoinValue},
		{"CoinsSpeed", t.CoinsSpeed},
		{"DistanceForCoinsSpawn", t.DistanceForCoinsSpawn},
		{"EnemyDistanceTolerance", t.EnemyDistanceTolerance},
		{"EnemyValue", t.EnemyValue},
		{"EnemiesSpeed", t.EnemiesSpeed},
		{"DistanceForEnemiesSpawn", t.DistanceForEnemiesSpawn},
	}
}

// TuningFromEnv applies AVIATOR_* overrides on top of base.
func TuningFromEnv(base Tuning) (Tuning, error) {
	t := base
	floats := []struct {
		key string
		dst *float64
	}{
		{"AVIATOR_INIT_SPEED", &t.InitSpeed},
		{"AVIATOR_INCREMENT_SPEED_BY_LEVEL", &t.IncrementSpeedByLevel},
		{"AVIATOR_DISTANCE_FOR_LEVEL", &t.DistanceForLevelUpdate},
		{"AVIATOR_RATIO_SPEED_ENERGY", &t.RatioSpeedEnergy},
		{"AVIATOR_COIN_VALUE", &t.CoinValue},
		{"AVIATOR_COIN_TOLERANCE", &t.CoinDistanceTolerance},
		{"AVIATOR_DISTANCE_FOR_COINS", &t.DistanceForCoinsSpawn},
		{"AVIATOR_ENEMY_VALUE", &t.EnemyValue},
		{"AVIATOR_ENEMY_TOLERANCE", &t.EnemyDistanceTolerance},
		{"AVIATOR_DISTANCE_FOR_ENEMIES", &t.DistanceForEnemiesSpawn},
	}
	for _, f := range floats {
		v, err := GetEnvFloat(f.key, *f.dst)
		if err != nil {
			return base, err
		}
		*f.dst = v
	}
	if err := t.Validate(); err != nil {
		return base, err
	}
	return t, nil
}
