package loop

import (
	"time"

	"github.com/tomz197/aviator/internal/object"
	"github.com/tomz197/aviator/internal/physics"
)

// Readout is what the HUD shows each tick.
type Readout struct {
	Distance int     // whole distance units
	Level    int     // current level
	Energy   float64 // percentage in [0,100]
	Progress float64 // fraction of the current level, [0,1)
	Low      bool    // energy under 50
	Critical bool    // energy under 30, shown blinking
	Status   Status
}

// HUD receives readouts and replay prompt toggles.
type HUD interface {
	Update(r Readout)
	ShowReplay()
	HideReplay()
}

// NopHUD ignores everything.
type NopHUD struct{}

func (NopHUD) Update(Readout) {}
func (NopHUD) ShowReplay()    {}
func (NopHUD) HideReplay()    {}

// MultiHUD fans readouts out to several HUDs.
type MultiHUD []HUD

func (m MultiHUD) Update(r Readout) {
	for _, h := range m {
		h.Update(r)
	}
}

func (m MultiHUD) ShowReplay() {
	for _, h := range m {
		h.ShowReplay()
	}
}

func (m MultiHUD) HideReplay() {
	for _, h := range m {
		h.HideReplay()
	}
}

// Frame is an immutable view of the world handed to the renderer.
type Frame struct {
	Plane       object.Plane
	Coins       []FrameEntity
	Enemies     []FrameEntity
	Particles   []FrameEntity
	SeaRotation float64
	SkyRotation float64
	Ambient     float64
	SeaRadius   float64
	Readout     Readout
	Notice      string // overlay message from the session (inactivity, shutdown)
	Players     int
}

// FrameEntity is the render-relevant part of an entity.
type FrameEntity struct {
	Kind   object.Kind
	Pos    physics.Vec2
	Rot    object.Rotation
	Scale  float64
	Color  uint32
	Handle any
}

func frameEntity(e *object.Entity) FrameEntity {
	return FrameEntity{
		Kind:   e.Kind,
		Pos:    e.Pos,
		Rot:    e.Rot,
		Scale:  e.Scale,
		Color:  e.Color,
		Handle: e.Handle,
	}
}

// Renderer draws one frame.
type Renderer interface {
	Render(f Frame) error
}

// Summary describes a finished run.
type Summary struct {
	Distance float64
	Level    int
	Duration time.Duration
	EndedAt  time.Time
}
