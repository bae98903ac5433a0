package loop

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/aviator/internal/config"
	"github.com/tomz197/aviator/internal/input"
	"github.com/tomz197/aviator/internal/object"
	"github.com/tomz197/aviator/internal/physics"
)

// GameOptions configures a Game.
type GameOptions struct {
	Tuning config.Tuning
	Scene  object.Scene // receives entity attach/detach; NopScene when nil
	HUD    HUD          // receives readouts; NopHUD when nil
	Rand   *rand.Rand   // seeded from the clock when nil
	Logger *log.Logger  // discards when nil
	Now    func() time.Time
}

// Game is one simulation: the game state, the plane, the entity holders
// and the collaborators they report to. It is not safe for concurrent use.
type Game struct {
	State GameState

	tuning    config.Tuning
	plane     *object.Plane
	coins     *object.CoinsHolder
	enemies   *object.EnemiesHolder
	particles *object.ParticlesHolder

	hud    HUD
	rng    *rand.Rand
	logger *log.Logger
	now    func() time.Time

	ambient     float64
	seaRotation float64
	skyRotation float64

	onGameOver []func(Summary)
}

// NewGame validates the tuning and builds a game with pre-warmed pools.
func NewGame(opts GameOptions) (*Game, error) {
	if err := opts.Tuning.Validate(); err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	scene := opts.Scene
	if scene == nil {
		scene = object.NopScene{}
	}
	hud := opts.HUD
	if hud == nil {
		hud = NopHUD{}
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	t := opts.Tuning
	return &Game{
		State:     NewGameState(t),
		tuning:    t,
		plane:     object.NewPlane(t),
		coins:     object.NewCoinsHolder(t.CoinsPool, scene),
		enemies:   object.NewEnemiesHolder(t.EnemiesPool, scene),
		particles: object.NewParticlesHolder(t.ParticlesPool, scene),
		hud:       hud,
		rng:       rng,
		logger:    logger,
		now:       now,
		ambient:   t.AmbientRest,
	}, nil
}

// Tuning returns the game's tuning.
func (g *Game) Tuning() config.Tuning { return g.tuning }

// Plane returns the player plane.
func (g *Game) Plane() *object.Plane { return g.plane }

// Coins returns the coin holder.
func (g *Game) Coins() *object.CoinsHolder { return g.coins }

// Enemies returns the enemy holder.
func (g *Game) Enemies() *object.EnemiesHolder { return g.enemies }

// Particles returns the particle holder.
func (g *Game) Particles() *object.ParticlesHolder { return g.particles }

// Ambient returns the ambient light intensity.
func (g *Game) Ambient() float64 { return g.ambient }

// SetHUD replaces the HUD collaborator.
func (g *Game) SetHUD(h HUD) {
	if h == nil {
		h = NopHUD{}
	}
	g.hud = h
}

// OnGameOver registers fn to be called once per run, when the plane has
// finished falling.
func (g *Game) OnGameOver(fn func(Summary)) {
	g.onGameOver = append(g.onGameOver, fn)
}

// PlaneReady marks the plane as loaded; until then the controller and
// proximity checks are skipped.
func (g *Game) PlaneReady() {
	if !g.plane.Ready() {
		g.plane.MarkReady()
		g.logger.Debug("plane ready")
	}
}

// PointerRelease restarts the game when it is waiting for a replay. In any
// other status it does nothing and reports false.
func (g *Game) PointerRelease() bool {
	if g.State.Status != StatusWaitingReplay {
		return false
	}
	g.reset()
	g.hud.HideReplay()
	g.logger.Debug("replay")
	return true
}

// reset starts a new run. Active entities, including particles still
// exploding, go back to their pools.
func (g *Game) reset() {
	g.State.Reset(g.tuning)
	g.coins.Reset()
	g.enemies.Reset()
	g.particles.Reset()
}

func (g *Game) updateContext(dt float64) object.UpdateContext {
	return object.UpdateContext{
		Delta:     dt,
		Speed:     g.State.Speed,
		Tuning:    &g.tuning,
		Plane:     g.plane,
		Rand:      g.rng,
		Particles: g.particles,
		Impact:    impact{g},
	}
}

const (
	// maxFrameDelta caps the simulated time of one Tick after a stall.
	maxFrameDelta = 100 * time.Millisecond
	// maxStep bounds one integration step. The smoothing filters move by
	// (target-x)*dt*k and only converge while dt*k stays below 1.
	maxStep = 16 * time.Millisecond
)

// Tick advances the simulation by delta with the pointer at p. Long deltas
// are capped at maxFrameDelta and simulated in steps of at most maxStep;
// the HUD gets one readout per Tick.
func (g *Game) Tick(delta time.Duration, p input.Pointer) {
	delta = min(delta, maxFrameDelta)
	pointer := physics.Vec2{X: p.X, Y: p.Y}
	for delta > maxStep {
		g.step(maxStep, pointer)
		delta -= maxStep
	}
	g.step(delta, pointer)

	g.plane.Spin()
	g.hud.Update(g.Readout())
}

// step integrates one bounded slice of time.
func (g *Game) step(delta time.Duration, pointer physics.Vec2) {
	dt := float64(delta) / float64(time.Millisecond)
	s := &g.State
	t := &g.tuning

	switch s.Status {
	case StatusPlaying:
		s.Elapsed += delta
		g.periodic(dt)

		if speed, ok := g.plane.Update(dt, pointer, t, &s.Collision); ok {
			s.PlaneSpeed = speed
		}
		s.Distance += s.Speed * dt * t.RatioSpeedDistance
		g.updateEnergy(dt)
		s.BaseSpeed = physics.Approach(s.BaseSpeed, s.TargetBaseSpeed, dt, t.BaseSpeedSmoothing)
		s.Speed = s.BaseSpeed * s.PlaneSpeed

	case StatusGameOver:
		s.Speed *= t.GameOverSpeedDecay
		if g.plane.Fall(dt, &s.PlaneFallSpeed, t) {
			s.Status = StatusWaitingReplay
			g.hud.ShowReplay()
			g.logger.Debug("waiting for replay", "distance", math.Floor(s.Distance), "level", s.Level)
			g.finishRun()
		}

	case StatusWaitingReplay:
	}

	g.seaRotation = physics.WrapAngle(g.seaRotation + s.Speed*dt)
	g.skyRotation += s.Speed * dt
	g.ambient = physics.Approach(g.ambient, t.AmbientRest, dt, t.AmbientDecay)

	ctx := g.updateContext(dt)
	g.coins.Update(ctx)
	g.enemies.Update(ctx)
	g.particles.Update(ctx)
}

// periodic runs the distance-triggered checks in their fixed order.
func (g *Game) periodic(dt float64) {
	s := &g.State
	t := &g.tuning

	if crossed(s.Distance, t.DistanceForCoinsSpawn, &s.CoinLastSpawn) {
		g.coins.Spawn(g.updateContext(dt))
	}
	if crossed(s.Distance, t.DistanceForSpeedUpdate, &s.SpeedLastUpdate) {
		s.TargetBaseSpeed += t.IncrementSpeedByTime * dt
	}
	if crossed(s.Distance, t.DistanceForEnemiesSpawn, &s.EnemyLastSpawn) {
		g.enemies.Spawn(g.updateContext(dt), s.Level)
	}
	if crossed(s.Distance, t.DistanceForLevelUpdate, &s.LevelLastUpdate) {
		s.Level++
		// Recomputed from the base speed, not added to the current target.
		s.TargetBaseSpeed = t.InitSpeed + t.IncrementSpeedByLevel*float64(s.Level)
		g.logger.Debug("level up", "level", s.Level, "distance", math.Floor(s.Distance))
	}
}

func (g *Game) updateEnergy(dt float64) {
	s := &g.State
	s.addEnergy(-s.Speed * dt * g.tuning.RatioSpeedEnergy)
	if s.Energy <= 0 && s.Status == StatusPlaying {
		s.Status = StatusGameOver
		g.logger.Debug("game over", "distance", math.Floor(s.Distance), "level", s.Level)
	}
}

func (g *Game) finishRun() {
	sum := Summary{
		Distance: g.State.Distance,
		Level:    g.State.Level,
		Duration: g.State.Elapsed,
		EndedAt:  g.now(),
	}
	for _, fn := range g.onGameOver {
		fn(sum)
	}
}

// Readout returns the HUD values for the current state.
func (g *Game) Readout() Readout {
	s := &g.State
	return Readout{
		Distance: int(math.Floor(s.Distance)),
		Level:    s.Level,
		Energy:   s.Energy,
		Progress: s.LevelProgress(g.tuning),
		Low:      s.Energy < 50,
		Critical: s.Energy < 30,
		Status:   s.Status,
	}
}

// Frame returns a snapshot of everything the renderer needs.
func (g *Game) Frame() Frame {
	f := Frame{
		Plane:       *g.plane,
		SeaRotation: g.seaRotation,
		SkyRotation: g.skyRotation,
		Ambient:     g.ambient,
		SeaRadius:   g.tuning.SeaRadius,
		Readout:     g.Readout(),
	}
	for _, c := range g.coins.InUse() {
		f.Coins = append(f.Coins, frameEntity(&c.Entity))
	}
	for _, e := range g.enemies.InUse() {
		f.Enemies = append(f.Enemies, frameEntity(&e.Entity))
	}
	for _, p := range g.particles.InUse() {
		f.Particles = append(f.Particles, frameEntity(&p.Entity))
	}
	return f
}

// impact applies collision effects to the game state. A falling plane still
// bursts what it touches but its energy no longer changes.
type impact struct {
	g *Game
}

func (im impact) CoinCollected(*object.Coin) {
	if im.g.State.Status != StatusPlaying {
		return
	}
	im.g.State.addEnergy(im.g.tuning.CoinValue)
}

func (im impact) EnemyHit(_ *object.Enemy, diff physics.Vec2, d float64) {
	g := im.g
	if g.State.Status != StatusPlaying {
		return
	}
	g.State.addEnergy(-g.tuning.EnemyValue)
	object.Knock(&g.State.Collision, diff, d, g.tuning.Knockback)
	g.ambient = g.tuning.AmbientFlash
}
