// Package object holds the transient game entities (coins, enemies,
// particles), their pools and holders, and the player plane.
package object

import (
	"math/rand"

	"github.com/tomz197/aviator/internal/config"
	"github.com/tomz197/aviator/internal/physics"
)

// Kind identifies an entity variant.
type Kind int

const (
	KindCoin Kind = iota
	KindEnemy
	KindParticle
)

func (k Kind) String() string {
	switch k {
	case KindCoin:
		return "coin"
	case KindEnemy:
		return "enemy"
	case KindParticle:
		return "particle"
	default:
		return "unknown"
	}
}

// Palette colors (0xRRGGBB).
const (
	ColorRed      uint32 = 0xf25346
	ColorWhite    uint32 = 0xd8d0d1
	ColorBrown    uint32 = 0x59332e
	ColorPink     uint32 = 0xf5986e
	ColorYellow   uint32 = 0xf4ce93
	ColorBlue     uint32 = 0x68c3c0
	ColorCoin     uint32 = 0x009999
	ColorParticle uint32 = 0x009999
)

// Rotation is an Euler rotation in radians.
type Rotation struct {
	X, Y, Z float64
}

// Entity is the state shared by every transient object. Handle belongs to
// the scene collaborator; the simulation never looks inside it.
type Entity struct {
	Member

	Kind     Kind
	Angle    float64 // ring angle (coins, enemies)
	Distance float64 // ring radius (coins, enemies)
	Pos      physics.Vec2
	Rot      Rotation
	Scale    float64
	Color    uint32
	Visible  bool
	Handle   any
}

// Body returns the entity itself; holders use it to reach the shared state
// of any variant.
func (e *Entity) Body() *Entity {
	return e
}

// place recomputes the Cartesian position from the ring placement.
func (e *Entity) place(seaRadius float64) {
	e.Pos = physics.RingPosition(e.Angle, e.Distance, seaRadius)
}

// Scene is the render collaborator's view of the entity set. Attach is
// called on spawn and Detach on retirement.
type Scene interface {
	Attach(e *Entity)
	Detach(e *Entity)
}

// NopScene discards attach/detach calls (headless simulation, tests).
type NopScene struct{}

func (NopScene) Attach(*Entity) {}
func (NopScene) Detach(*Entity) {}

// Impact receives the gameplay effects of collisions.
type Impact interface {
	// CoinCollected is called once per coin that touched the plane.
	CoinCollected(c *Coin)
	// EnemyHit is called once per enemy that touched the plane. diff is
	// plane minus enemy position and d its length.
	EnemyHit(e *Enemy, diff physics.Vec2, d float64)
}

// UpdateContext provides everything holders need for one frame.
type UpdateContext struct {
	Delta     float64 // frame time in milliseconds
	Speed     float64 // effective world speed
	Tuning    *config.Tuning
	Plane     *Plane
	Rand      *rand.Rand
	Particles *ParticlesHolder
	Impact    Impact
}
