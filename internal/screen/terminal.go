// Package screen renders the game into a terminal with colored half-block
// characters. Terminal is the scene, renderer and HUD collaborator of a
// loop.Game.
package screen

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomz197/aviator/internal/config"
	"github.com/tomz197/aviator/internal/draw"
	"github.com/tomz197/aviator/internal/loop"
	"github.com/tomz197/aviator/internal/object"
)

// sprite is the per-entity render state stored in Entity.Handle.
type sprite struct {
	sides int
}

var spriteSides = map[object.Kind]int{
	object.KindCoin:     4,
	object.KindEnemy:    6,
	object.KindParticle: 3,
}

var (
	colorText     = draw.RGB(object.ColorBrown)
	colorEnergyOK = draw.RGB(object.ColorBlue)
	colorEnergyLo = draw.RGB(object.ColorRed)
	colorNotice   = draw.RGB(object.ColorRed)
)

// Options configures a Terminal.
type Options struct {
	Writer io.Writer
	Size   draw.TermSizeFunc // DefaultTermSizeFunc when nil
	Now    func() time.Time  // drives blinking; time.Now when nil
}

// Terminal draws frames to a terminal writer.
type Terminal struct {
	writer  io.Writer
	size    draw.TermSizeFunc
	now     func() time.Time
	canvas  *draw.Canvas
	cw      *draw.ChunkWriter
	onReady func()

	started  bool
	attached int
	readout  loop.Readout
	replay   bool
}

var (
	_ object.Scene  = (*Terminal)(nil)
	_ loop.Renderer = (*Terminal)(nil)
	_ loop.HUD      = (*Terminal)(nil)
)

// New creates a terminal renderer.
func New(opts Options) *Terminal {
	size := opts.Size
	if size == nil {
		size = draw.DefaultTermSizeFunc
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	width, height, offsetCol, offsetRow := fit(size)
	canvas := draw.NewScaledCanvas(width, height, viewWidth, viewHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Terminal{
		writer: opts.Writer,
		size:   size,
		now:    now,
		canvas: canvas,
		cw:     draw.NewChunkWriter(opts.Writer, offsetCol, offsetRow),
	}
}

func fit(size draw.TermSizeFunc) (width, height, offsetCol, offsetRow int) {
	tw, th, err := size()
	if err != nil || tw <= 0 || th <= 0 {
		tw, th = 80, 24
	}
	return draw.FitArea(tw, th, config.MaxTermWidth, config.MaxTermHeight)
}

// OnReady registers fn to run once the first frame has been drawn. The
// game uses it to mark the plane as loaded.
func (t *Terminal) OnReady(fn func()) {
	t.onReady = fn
}

// Attach gives a spawned entity its sprite.
func (t *Terminal) Attach(e *object.Entity) {
	if _, ok := e.Handle.(*sprite); !ok {
		e.Handle = &sprite{sides: spriteSides[e.Kind]}
	}
	t.attached++
}

// Detach is called when an entity returns to its pool. The sprite stays on
// the entity so a reused instance keeps its shape.
func (t *Terminal) Detach(*object.Entity) {
	t.attached--
}

// Attached returns the number of entities currently in the scene.
func (t *Terminal) Attached() int {
	return t.attached
}

// Update stores the latest readout for the HUD line.
func (t *Terminal) Update(r loop.Readout) {
	t.readout = r
}

// ShowReplay shows the replay prompt.
func (t *Terminal) ShowReplay() {
	t.replay = true
}

// HideReplay hides the replay prompt.
func (t *Terminal) HideReplay() {
	t.replay = false
}

// Start prepares the terminal for drawing.
func (t *Terminal) Start() {
	draw.EnterAltScreen(t.writer)
	draw.HideCursor(t.writer)
	draw.ClearScreen(t.writer)
	t.canvas.ForceRedraw()
}

// Close restores the terminal.
func (t *Terminal) Close() {
	io.WriteString(t.writer, "\033[0m")
	draw.ClearScreen(t.writer)
	draw.ShowCursor(t.writer)
	draw.ExitAltScreen(t.writer)
}

// Render draws one frame.
func (t *Terminal) Render(f loop.Frame) error {
	t.updateScreen()

	drawWorld(t.canvas, &f)
	if err := t.canvas.Render(t.cw); err != nil {
		return err
	}
	if err := t.canvas.RenderBorder(t.cw); err != nil {
		return err
	}
	t.drawHUD(&f)

	if err := t.cw.Flush(); err != nil {
		return err
	}

	if !t.started {
		t.started = true
		if t.onReady != nil {
			t.onReady()
		}
	}
	return nil
}

// updateScreen follows terminal resizes. On a size change the terminal is
// cleared so no pixels from the old layout remain.
func (t *Terminal) updateScreen() {
	width, height, offsetCol, offsetRow := fit(t.size)
	c := t.canvas
	if width != c.TerminalWidth() || height != c.TerminalHeight() ||
		offsetCol != c.OffsetCol() || offsetRow != c.OffsetRow() {
		t.cw.WriteString("\033[0m\033[H\033[2J")
		c.ForceRedraw()
	}
	c.Resize(width, height)
	c.SetOffset(offsetCol, offsetRow)
	t.cw.SetOffset(offsetCol, offsetRow)
}

// text writes s at a 1-based canvas position and marks the cells under it
// so the canvas repaints them next frame.
func (t *Terminal) text(col, row int, s string, fg draw.Color, bold bool) {
	if row < 1 || row > t.canvas.TerminalHeight() {
		return
	}
	col = max(col, 1)
	t.cw.WriteStyled(col, row, s, fg, bold)
	t.canvas.MarkDirty(col, row, utf8.RuneCountInString(s))
}

func (t *Terminal) centered(row int, s string, fg draw.Color, bold bool) {
	w := t.canvas.TerminalWidth()
	t.text((w-utf8.RuneCountInString(s))/2+1, row, s, fg, bold)
}

func (t *Terminal) blinkOn(period time.Duration) bool {
	return t.now().UnixMilli()/period.Milliseconds()%2 == 0
}

func (t *Terminal) drawHUD(f *loop.Frame) {
	r := t.readout
	width := t.canvas.TerminalWidth()
	height := t.canvas.TerminalHeight()

	level := fmt.Sprintf(" LEVEL %d %s ", r.Level, progressBar(r.Progress, 8))
	distance := fmt.Sprintf(" DISTANCE %-7d", r.Distance)
	t.text(2, 1, level, colorText, true)
	t.text(2+utf8.RuneCountInString(level), 1, distance, colorText, true)

	energyCol := colorEnergyOK
	if r.Low {
		energyCol = colorEnergyLo
	}
	bar := energyBar(r.Energy, 20)
	if r.Critical && !t.blinkOn(250*time.Millisecond) {
		bar = strings.Repeat(" ", utf8.RuneCountInString(bar))
	}
	t.text(width-len(" ENERGY ")-utf8.RuneCountInString(bar), 1, " ENERGY ", colorText, true)
	t.text(width-utf8.RuneCountInString(bar), 1, bar, energyCol, false)

	if f.Players > 1 {
		t.text(2, 2, fmt.Sprintf(" %d pilots flying ", f.Players), colorText, false)
	}

	if t.replay {
		t.centered(height/2-1, " GAME OVER ", colorNotice, true)
		if t.blinkOn(600 * time.Millisecond) {
			t.centered(height/2+1, " >> Click or press SPACE to replay << ", colorText, true)
		}
	}

	if f.Notice != "" {
		t.centered(height-1, " "+f.Notice+" ", colorNotice, true)
	}
}

func progressBar(p float64, cells int) string {
	var b strings.Builder
	b.WriteByte('[')
	filled := max(0, min(1, p)) * float64(cells)
	for i := 0; i < cells; i++ {
		b.WriteRune(draw.ShadeLevel(filled - float64(i)))
	}
	b.WriteByte(']')
	return b.String()
}

func energyBar(energy float64, cells int) string {
	n := int(max(0, min(100, energy)) / 100 * float64(cells))
	return strings.Repeat(string(draw.BlockFull), n) + strings.Repeat("·", cells-n)
}
