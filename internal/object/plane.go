package object

import (
	"math"

	"github.com/tomz197/aviator/internal/config"
	"github.com/tomz197/aviator/internal/physics"
)

// PlaneState tracks whether the plane model is available to the simulation.
type PlaneState int

const (
	// PlaneLoading means the render collaborator has not finished building
	// the plane; the controller and proximity checks are skipped.
	PlaneLoading PlaneState = iota
	PlaneReady
)

// Impulse is the knockback left by an enemy hit. Speed feeds displacement,
// and both decay toward zero every frame.
type Impulse struct {
	SpeedX, SpeedY               float64
	DisplacementX, DisplacementY float64
}

// Camera is the view state derived from the plane.
type Camera struct {
	FOV     float64
	Y       float64
	TargetZ float64
}

// Plane is the player-controlled aircraft.
type Plane struct {
	State     PlaneState
	Pos       physics.Vec2
	Rot       Rotation
	Propeller float64 // propeller angle in radians
	Camera    Camera
}

// propellerStep is the propeller spin per frame.
const propellerStep = 0.3

// NewPlane creates a plane at the default height, still loading.
func NewPlane(t config.Tuning) *Plane {
	return &Plane{
		State: PlaneLoading,
		Pos:   physics.Vec2{X: 0, Y: t.PlaneDefaultHeight},
		Camera: Camera{
			FOV:     (t.CameraMinFOV + t.CameraMaxFOV) / 2,
			Y:       t.PlaneDefaultHeight,
			TargetZ: t.CameraNearPos,
		},
	}
}

// MarkReady switches the plane into the ready state.
func (p *Plane) MarkReady() {
	p.State = PlaneReady
}

// Ready reports whether the controller and collisions are active.
func (p *Plane) Ready() bool {
	return p.State == PlaneReady
}

// Update steers the plane toward the pointer. dt is in milliseconds and
// pointer is normalized to [-1,1] on both axes. It returns the pointer
// derived speed factor, and false while the plane is still loading.
func (p *Plane) Update(dt float64, pointer physics.Vec2, t *config.Tuning, imp *Impulse) (float64, bool) {
	if !p.Ready() {
		return 0, false
	}

	speed := physics.Normalize(pointer.X, -0.5, 0.5, t.PlaneMinSpeed, t.PlaneMaxSpeed)
	targetX := physics.Normalize(pointer.X, -1, 1, -t.PlaneAmpWidth*0.7, t.PlaneAmpWidth)
	targetY := physics.Normalize(pointer.Y, -0.75, 0.75,
		t.PlaneDefaultHeight-t.PlaneAmpHeight, t.PlaneDefaultHeight+t.PlaneAmpHeight)

	imp.DisplacementX += imp.SpeedX
	targetX += imp.DisplacementX
	imp.DisplacementY += imp.SpeedY
	targetY += imp.DisplacementY

	p.Pos.X = physics.Approach(p.Pos.X, targetX, dt, t.PlaneMoveSensitivity)
	p.Pos.Y = physics.Approach(p.Pos.Y, targetY, dt, t.PlaneMoveSensitivity)

	// Bank by the remaining vertical gap.
	p.Rot.Z = (targetY - p.Pos.Y) * dt * t.PlaneRotXSensitivity
	p.Rot.X = (p.Pos.Y - targetY) * dt * t.PlaneRotZSensitivity

	p.Camera.TargetZ = physics.Normalize(speed, t.PlaneMinSpeed, t.PlaneMaxSpeed, t.CameraNearPos, t.CameraFarPos)
	p.Camera.FOV = physics.Normalize(pointer.X, -1, 1, t.CameraMinFOV, t.CameraMaxFOV)
	p.Camera.Y = physics.Approach(p.Camera.Y, p.Pos.Y, dt, t.CameraSensitivity)

	imp.SpeedX = physics.Approach(imp.SpeedX, 0, dt, t.ImpulseSpeedDecay)
	imp.DisplacementX = physics.Approach(imp.DisplacementX, 0, dt, t.ImpulseDisplacementDecay)
	imp.SpeedY = physics.Approach(imp.SpeedY, 0, dt, t.ImpulseSpeedDecay)
	imp.DisplacementY = physics.Approach(imp.DisplacementY, 0, dt, t.ImpulseDisplacementDecay)

	return speed, true
}

// Spin turns the propeller by one frame step.
func (p *Plane) Spin() {
	p.Propeller = physics.WrapAngle(p.Propeller + propellerStep)
}

// Fall animates the game-over dive. fallSpeed is accelerated in place.
// It reports true once the plane has dropped below the fall threshold.
func (p *Plane) Fall(dt float64, fallSpeed *float64, t *config.Tuning) bool {
	p.Rot.Z = physics.Approach(p.Rot.Z, -math.Pi/2, dt, 0.0002)
	p.Rot.X += 0.0003 * dt
	*fallSpeed *= t.PlaneFallAcceleration
	p.Pos.Y -= *fallSpeed * dt
	return p.Pos.Y < t.PlaneFallThreshold
}

// Knock applies an enemy hit coming from diff (plane minus enemy) of
// length d to the impulse state.
func Knock(imp *Impulse, diff physics.Vec2, d, knockback float64) {
	if d == 0 {
		return
	}
	imp.SpeedX = knockback * diff.X / d
	imp.SpeedY = knockback * diff.Y / d
}
