package object

import "github.com/tomz197/aviator/internal/physics"

// Enemy drains energy and knocks the plane back on contact.
type Enemy struct {
	Entity
}

// NewEnemy builds a detached enemy.
func NewEnemy() *Enemy {
	return &Enemy{Entity: Entity{Kind: KindEnemy, Scale: 1, Color: ColorRed}}
}

const (
	enemyBurstDensity = 15
	enemyBurstScale   = 3
)

// EnemiesHolder owns the active enemies and their pool.
type EnemiesHolder struct {
	ring[*Enemy]
}

// NewEnemiesHolder pre-warms a pool of n enemies.
func NewEnemiesHolder(n int, scene Scene) *EnemiesHolder {
	if scene == nil {
		scene = NopScene{}
	}
	return &EnemiesHolder{ring[*Enemy]{
		pool:  NewPool(n, NewEnemy),
		scene: scene,
	}}
}

// Spawn places exactly level enemies, each at its own jittered distance.
func (h *EnemiesHolder) Spawn(ctx UpdateContext, level int) int {
	for i := 0; i < level; i++ {
		h.acquire(-float64(i)*0.1, baseDistance(ctx), ctx.Tuning.SeaRadius)
	}
	return level
}

// SpawnAt places a single enemy at an explicit ring position.
func (h *EnemiesHolder) SpawnAt(angle, distance, seaRadius float64) *Enemy {
	return h.acquire(angle, distance, seaRadius)
}

// Update rotates the enemies and resolves hits on the plane.
func (h *EnemiesHolder) Update(ctx UpdateContext) {
	t := ctx.Tuning
	h.advance(ctx, t.EnemiesSpeed, t.EnemyDistanceTolerance, func(e *Enemy, diff physics.Vec2, d float64) {
		if ctx.Particles != nil {
			ctx.Particles.Spawn(ctx, e.Pos, enemyBurstDensity, ColorRed, enemyBurstScale)
		}
		if ctx.Impact != nil {
			ctx.Impact.EnemyHit(e, diff, d)
		}
	})
}

// Reset returns every active enemy to the pool.
func (h *EnemiesHolder) Reset() {
	h.reset()
}

// InUse returns the active enemies in spawn order.
func (h *EnemiesHolder) InUse() []*Enemy {
	return h.snapshot()
}

// Pool returns the enemy pool.
func (h *EnemiesHolder) Pool() *Pool[*Enemy] {
	return h.pool
}
