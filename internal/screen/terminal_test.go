package screen

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/aviator/internal/config"
	"github.com/tomz197/aviator/internal/input"
	"github.com/tomz197/aviator/internal/loop"
	"github.com/tomz197/aviator/internal/object"
)

const frame = 16 * time.Millisecond

type fixture struct {
	out    *bytes.Buffer
	width  int
	height int
	term   *Terminal
	game   *loop.Game
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{out: &bytes.Buffer{}, width: 80, height: 24}
	f.term = New(Options{
		Writer: f.out,
		Size:   func() (int, int, error) { return f.width, f.height, nil },
		Now:    func() time.Time { return time.UnixMilli(0) },
	})

	tuning := config.DefaultTuning()
	tuning.DistanceForCoinsSpawn = 5
	g, err := loop.NewGame(loop.GameOptions{
		Tuning: tuning,
		Scene:  f.term,
		HUD:    f.term,
		Rand:   rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatal(err)
	}
	f.term.OnReady(g.PlaneReady)
	f.game = g
	return f
}

func (f *fixture) step(t *testing.T) string {
	t.Helper()
	f.out.Reset()
	f.game.Tick(frame, input.Pointer{})
	if err := f.term.Render(f.game.Frame()); err != nil {
		t.Fatal(err)
	}
	return f.out.String()
}

func TestFirstRenderMarksPlaneReady(t *testing.T) {
	f := newFixture(t)
	if f.game.Plane().Ready() {
		t.Fatal("plane ready before anything was drawn")
	}
	out := f.step(t)
	if !f.game.Plane().Ready() {
		t.Error("plane not ready after the first frame")
	}
	if !strings.Contains(out, "LEVEL 1") || !strings.Contains(out, "ENERGY") {
		t.Errorf("HUD missing from first frame")
	}
	if !strings.Contains(out, "38;2;") {
		t.Error("no colored cells drawn")
	}
}

func TestSceneTracksEntities(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 200; i++ {
		f.step(t)
	}
	g := f.game
	inScene := len(g.Coins().InUse()) + len(g.Enemies().InUse()) + len(g.Particles().InUse())
	if inScene == 0 {
		t.Fatal("nothing spawned")
	}
	if f.term.Attached() != inScene {
		t.Errorf("attached = %d, in use = %d", f.term.Attached(), inScene)
	}
	for _, c := range g.Coins().InUse() {
		if _, ok := c.Handle.(*sprite); !ok {
			t.Fatalf("coin without sprite: %#v", c.Handle)
		}
	}
}

func TestReplayPrompt(t *testing.T) {
	f := newFixture(t)
	f.step(t)

	f.term.ShowReplay()
	out := f.step(t)
	if !strings.Contains(out, "GAME OVER") || !strings.Contains(out, "replay") {
		t.Error("replay prompt not drawn")
	}

	f.term.HideReplay()
	if out := f.step(t); strings.Contains(out, "GAME OVER") {
		t.Error("replay prompt still drawn after hide")
	}
}

func TestNoticeAndPlayers(t *testing.T) {
	f := newFixture(t)
	frm := f.game.Frame()
	frm.Notice = "Server shutting down"
	frm.Players = 3
	if err := f.term.Render(frm); err != nil {
		t.Fatal(err)
	}
	out := f.out.String()
	if !strings.Contains(out, "Server shutting down") {
		t.Error("notice not drawn")
	}
	if !strings.Contains(out, "3 pilots") {
		t.Error("player count not drawn")
	}
}

func TestResizeClearsScreen(t *testing.T) {
	f := newFixture(t)
	f.step(t)
	if out := f.step(t); strings.Contains(out, "\033[2J") {
		t.Error("unchanged size cleared the screen")
	}
	f.width, f.height = 120, 40
	if out := f.step(t); !strings.Contains(out, "\033[2J") {
		t.Error("resize did not clear the screen")
	}
	if f.term.canvas.TerminalWidth() != 120 || f.term.canvas.TerminalHeight() != 40 {
		t.Errorf("canvas %dx%d", f.term.canvas.TerminalWidth(), f.term.canvas.TerminalHeight())
	}
}

func TestLargeTerminalIsCentered(t *testing.T) {
	f := newFixture(t)
	f.width, f.height = config.MaxTermWidth+40, config.MaxTermHeight+10
	out := f.step(t)
	if f.term.canvas.OffsetCol() != 20 || f.term.canvas.OffsetRow() != 5 {
		t.Errorf("offset %d,%d", f.term.canvas.OffsetCol(), f.term.canvas.OffsetRow())
	}
	if !strings.Contains(out, "┌") {
		t.Error("border not drawn")
	}
}

func TestBars(t *testing.T) {
	if got := energyBar(50, 10); got != "█████·····" {
		t.Errorf("energy bar = %q", got)
	}
	if got := energyBar(150, 4); got != "████" {
		t.Errorf("clamped bar = %q", got)
	}
	if got := progressBar(0, 4); got != "[    ]" {
		t.Errorf("empty progress = %q", got)
	}
	if got := progressBar(1, 2); got != "[██]" {
		t.Errorf("full progress = %q", got)
	}
}

func TestProjection(t *testing.T) {
	p := project(object.NewPlane(config.DefaultTuning()).Pos)
	if p.X != 300 || p.Y != 160 {
		t.Errorf("plane projects to %v", p)
	}
}
