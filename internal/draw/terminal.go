package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ChunkWriter accumulates text for terminal output and writes in chunks for
// optimal network flow (e.g. over SSH). Canvas.Render and the text helpers
// write into it, then Flush sends everything to the underlying writer.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer
	numBuf [20]byte
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w. offsetCol and offsetRow
// are added to all MoveCursor coordinates (for canvas centering).
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		bufw:   bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the cursor offset (e.g. after terminal resize).
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// MoveCursor appends an ANSI cursor position sequence. col and row are 1-based
// canvas coordinates; offset is applied automatically.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
}

// Write implements io.Writer for use with Canvas.Render.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends a string to the buffer.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt writes a string at a 1-based canvas position.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(s)
}

// WriteStyled writes s at a 1-based canvas position in the given
// foreground color, optionally bold, and resets the style afterwards.
func (cw *ChunkWriter) WriteStyled(col, row int, s string, fg Color, bold bool) {
	cw.MoveCursor(col, row)
	if bold {
		cw.buf.WriteString("\033[1m")
	}
	if fg.Opaque() {
		r, g, b := fg.rgb()
		cw.buf.WriteString("\033[38;2;")
		cw.buf.Write(strconv.AppendUint(cw.numBuf[:0], uint64(r), 10))
		cw.buf.WriteByte(';')
		cw.buf.Write(strconv.AppendUint(cw.numBuf[:0], uint64(g), 10))
		cw.buf.WriteByte(';')
		cw.buf.Write(strconv.AppendUint(cw.numBuf[:0], uint64(b), 10))
		cw.buf.WriteByte('m')
	}
	cw.buf.WriteString(s)
	cw.buf.WriteString("\033[0m")
}

// Len returns the number of buffered bytes.
func (cw *ChunkWriter) Len() int {
	return cw.buf.Len()
}

var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the accumulated buffer to the underlying writer in chunks,
// then resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	if err := writeChunked(cw.bufw, data); err != nil {
		return err
	}
	return cw.bufw.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// FitArea clamps terminal dimensions to a maximum render resolution and
// computes the offset that centers the render area.
func FitArea(termWidth, termHeight, maxWidth, maxHeight int) (width, height, offsetCol, offsetRow int) {
	width = min(termWidth, maxWidth)
	height = min(termHeight, maxHeight)
	offsetCol = (termWidth - width) / 2
	offsetRow = (termHeight - height) / 2
	return width, height, offsetCol, offsetRow
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	io.WriteString(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	io.WriteString(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	io.WriteString(w, "\033[?25h")
}

// EnterAltScreen switches to the alternate screen buffer.
func EnterAltScreen(w io.Writer) {
	io.WriteString(w, "\033[?1049h")
}

// ExitAltScreen restores the main screen buffer.
func ExitAltScreen(w io.Writer) {
	io.WriteString(w, "\033[?1049l")
}
