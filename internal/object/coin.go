package object

import (
	"math"

	"github.com/tomz197/aviator/internal/physics"
)

// Coin restores energy when collected.
type Coin struct {
	Entity
}

// NewCoin builds a detached coin.
func NewCoin() *Coin {
	return &Coin{Entity: Entity{Kind: KindCoin, Scale: 1, Color: ColorCoin}}
}

// Coin burst parameters.
const (
	coinBurstDensity = 5
	coinBurstScale   = 0.8
)

// CoinsHolder owns the active coins and their pool.
type CoinsHolder struct {
	ring[*Coin]
}

// NewCoinsHolder pre-warms a pool of n coins.
func NewCoinsHolder(n int, scene Scene) *CoinsHolder {
	if scene == nil {
		scene = NopScene{}
	}
	return &CoinsHolder{ring[*Coin]{
		pool:  NewPool(n, NewCoin),
		scene: scene,
	}}
}

// Spawn places a trail of 1 to 10 coins on a sinusoidal path and returns
// how many were spawned.
func (h *CoinsHolder) Spawn(ctx UpdateContext) int {
	n := 1 + int(math.Floor(ctx.Rand.Float64()*10))
	d := baseDistance(ctx)
	amplitude := 10 + math.Round(ctx.Rand.Float64()*10)

	for i := 0; i < n; i++ {
		h.acquire(-float64(i)*0.02, d+math.Cos(float64(i)*0.5)*amplitude, ctx.Tuning.SeaRadius)
	}
	return n
}

// Update rotates the coins and collects those touching the plane.
func (h *CoinsHolder) Update(ctx UpdateContext) {
	t := ctx.Tuning
	h.advance(ctx, t.CoinsSpeed, t.CoinDistanceTolerance, func(c *Coin, _ physics.Vec2, _ float64) {
		if ctx.Particles != nil {
			ctx.Particles.Spawn(ctx, c.Pos, coinBurstDensity, ColorParticle, coinBurstScale)
		}
		if ctx.Impact != nil {
			ctx.Impact.CoinCollected(c)
		}
	})
}

// Reset returns every active coin to the pool.
func (h *CoinsHolder) Reset() {
	h.reset()
}

// InUse returns the active coins in spawn order.
func (h *CoinsHolder) InUse() []*Coin {
	return h.snapshot()
}

// Pool returns the coin pool.
func (h *CoinsHolder) Pool() *Pool[*Coin] {
	return h.pool
}
