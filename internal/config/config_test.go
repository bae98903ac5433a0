package config

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestDefaultTuningIsValid(t *testing.T) {
	if err := DefaultTuning().Validate(); err != nil {
		t.Fatalf("default tuning should validate: %v", err)
	}
}

func TestValidateRejectsBadTuning(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tuning)
	}{
		{"zero level interval", func(t *Tuning) { t.DistanceForLevelUpdate = 0 }},
		{"zero coin interval", func(t *Tuning) { t.DistanceForCoinsSpawn = 0 }},
		{"negative enemy interval", func(t *Tuning) { t.DistanceForEnemiesSpawn = -50 }},
		{"negative coin tolerance", func(t *Tuning) { t.CoinDistanceTolerance = -1 }},
		{"negative enemy tolerance", func(t *Tuning) { t.EnemyDistanceTolerance = -1 }},
		{"zero sea radius", func(t *Tuning) { t.SeaRadius = 0 }},
		{"inverted plane speed range", func(t *Tuning) { t.PlaneMinSpeed = 2 }},
		{"plane amp height too small", func(t *Tuning) { t.PlaneAmpHeight = 10 }},
		{"inverted fov", func(t *Tuning) { t.CameraMinFOV = 90 }},
		{"speed decay above one", func(t *Tuning) { t.GameOverSpeedDecay = 1.5 }},
		{"negative pool", func(t *Tuning) { t.ParticlesPool = -1 }},
		{"NaN level interval", func(t *Tuning) { t.DistanceForLevelUpdate = math.NaN() }},
		{"infinite coin interval", func(t *Tuning) { t.DistanceForCoinsSpawn = math.Inf(1) }},
		{"NaN coin value", func(t *Tuning) { t.CoinValue = math.NaN() }},
		{"negative infinite fall threshold", func(t *Tuning) { t.PlaneFallThreshold = math.Inf(-1) }},
		{"NaN plane height", func(t *Tuning) { t.PlaneDefaultHeight = math.NaN() }},
		{"negative base speed smoothing", func(t *Tuning) { t.BaseSpeedSmoothing = -0.02 }},
		{"negative impulse speed decay", func(t *Tuning) { t.ImpulseSpeedDecay = -0.03 }},
		{"negative impulse displacement decay", func(t *Tuning) { t.ImpulseDisplacementDecay = -0.01 }},
		{"negative camera sensitivity", func(t *Tuning) { t.CameraSensitivity = -1 }},
		{"negative ambient decay", func(t *Tuning) { t.AmbientDecay = -0.005 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tun := DefaultTuning()
			tt.mutate(&tun)
			err := tun.Validate()
			if !errors.Is(err, ErrInvalidTuning) {
				t.Fatalf("Validate() = %v, want ErrInvalidTuning", err)
			}
		})
	}
}

func TestTuningFromEnv(t *testing.T) {
	t.Setenv("AVIATOR_COIN_VALUE", "7")
	t.Setenv("AVIATOR_ENEMY_TOLERANCE", "12.5")

	tun, err := TuningFromEnv(DefaultTuning())
	if err != nil {
		t.Fatalf("TuningFromEnv: %v", err)
	}
	if tun.CoinValue != 7 {
		t.Errorf("CoinValue = %v, want 7", tun.CoinValue)
	}
	if tun.EnemyDistanceTolerance != 12.5 {
		t.Errorf("EnemyDistanceTolerance = %v, want 12.5", tun.EnemyDistanceTolerance)
	}
	if tun.EnemyValue != DefaultTuning().EnemyValue {
		t.Errorf("EnemyValue should keep its default, got %v", tun.EnemyValue)
	}
}

func TestTuningFromEnvRejects(t *testing.T) {
	t.Run("unparsable", func(t *testing.T) {
		t.Setenv("AVIATOR_COIN_VALUE", "lots")
		if _, err := TuningFromEnv(DefaultTuning()); err == nil {
			t.Fatal("expected parse error")
		}
	})
	t.Run("non-finite", func(t *testing.T) {
		t.Setenv("AVIATOR_DISTANCE_FOR_LEVEL", "NaN")
		t.Setenv("AVIATOR_DISTANCE_FOR_COINS", "+Inf")
		_, err := TuningFromEnv(DefaultTuning())
		if !errors.Is(err, ErrInvalidTuning) {
			t.Fatalf("err = %v, want ErrInvalidTuning", err)
		}
	})
	t.Run("invalid", func(t *testing.T) {
		t.Setenv("AVIATOR_DISTANCE_FOR_LEVEL", "0")
		_, err := TuningFromEnv(DefaultTuning())
		if !errors.Is(err, ErrInvalidTuning) {
			t.Fatalf("err = %v, want ErrInvalidTuning", err)
		}
	})
}

func TestGetEnvTyped(t *testing.T) {
	t.Setenv("AVIATOR_TEST_INT", "42")
	t.Setenv("AVIATOR_TEST_DUR", "250ms")

	if got := GetEnv("AVIATOR_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetEnv fallback = %q", got)
	}
	n, err := GetEnvInt("AVIATOR_TEST_INT", 1)
	if err != nil || n != 42 {
		t.Errorf("GetEnvInt = %d, %v", n, err)
	}
	d, err := GetEnvDuration("AVIATOR_TEST_DUR", time.Second)
	if err != nil || d != 250*time.Millisecond {
		t.Errorf("GetEnvDuration = %v, %v", d, err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("AVIATOR_DOTENV_PROBE=hello\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("AVIATOR_DOTENV_PROBE") })

	if err := Load(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := os.Getenv("AVIATOR_DOTENV_PROBE"); got != "hello" {
		t.Errorf("AVIATOR_DOTENV_PROBE = %q, want hello", got)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "test", "debug")
	if l.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", l.GetLevel())
	}
	l.Debug("probe", "k", 1)
	if !bytes.Contains(buf.Bytes(), []byte("probe")) {
		t.Errorf("debug line missing: %q", buf.String())
	}

	if got := NewLogger(&buf, "", "loud").GetLevel(); got != log.InfoLevel {
		t.Errorf("unknown level = %v, want info", got)
	}
}
