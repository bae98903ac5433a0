// Package input turns a raw terminal byte stream into a normalized pointer
// and discrete release/quit events.
package input

import (
	"bufio"
	"io"
	"strconv"
)

// nudgeStep is how far one arrow or WASD key press moves the pointer.
const nudgeStep = 0.1

// maxPending bounds the bytes kept for an unfinished escape sequence.
const maxPending = 32

// Pointer is a position normalized to [-1,1] on both axes, y pointing up.
type Pointer struct {
	X, Y float64
}

// Input is the result of draining the stream once per frame.
type Input struct {
	Pointer  Pointer
	Moved    bool // pointer changed this frame
	Releases int  // button releases and taps this frame
	Quit     bool
	Active   bool // any byte arrived this frame
}

// Release reports whether at least one release event arrived.
func (in Input) Release() bool {
	return in.Releases > 0
}

// Stream delivers input bytes via a channel and tracks the pointer.
type Stream struct {
	ch      chan byte
	pending []byte
	pointer Pointer
	width   int
	height  int
	closed  bool
}

func newStream() *Stream {
	return &Stream{
		ch:     make(chan byte, 256),
		width:  80,
		height: 24,
	}
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r io.Reader) *Stream {
	s := newStream()
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	go func() {
		for {
			b, err := br.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// SetSize sets the terminal size in cells used to normalize mouse reports.
func (s *Stream) SetSize(width, height int) {
	if width > 0 {
		s.width = width
	}
	if height > 0 {
		s.height = height
	}
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// Pointer returns the last known pointer position.
func (s *Stream) Pointer() Pointer {
	return s.pointer
}

// ReadInput drains all available bytes from the stream (non-blocking).
// A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	buf := s.pending
	carried := len(buf)
	s.pending = nil

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := s.parse(buf)
	in.Active = len(buf) > carried
	if s.closed {
		in.Quit = true
	}
	return in
}

// Read is ReadInput as a method.
func (s *Stream) Read() Input {
	return ReadInput(s)
}

// parse consumes buf, keeping an unfinished escape sequence for the next
// frame.
func (s *Stream) parse(buf []byte) Input {
	var in Input
	start := s.pointer

scan:
	for i := 0; i < len(buf); {
		b := buf[i]
		if b != '\x1b' {
			s.applyByte(&in, b)
			i++
			continue
		}

		// ESC [ ...
		if i+1 >= len(buf) {
			s.keep(buf[i:])
			break scan
		}
		if buf[i+1] != '[' {
			i++
			continue
		}
		if i+2 >= len(buf) {
			s.keep(buf[i:])
			break scan
		}

		switch buf[i+2] {
		case 'A':
			s.nudge(0, nudgeStep)
		case 'B':
			s.nudge(0, -nudgeStep)
		case 'C':
			s.nudge(nudgeStep, 0)
		case 'D':
			s.nudge(-nudgeStep, 0)
		case '<':
			n, complete := s.parseMouse(buf[i+3:], &in)
			if !complete {
				s.keep(buf[i:])
				break scan
			}
			i += 3 + n
			continue
		}
		i += 3
	}

	in.Pointer = s.pointer
	in.Moved = s.pointer != start
	return in
}

func (s *Stream) keep(rest []byte) {
	if len(rest) > maxPending {
		return
	}
	s.pending = append([]byte(nil), rest...)
}

// parseMouse reads an SGR mouse report body "b;x;y" terminated by M
// (press/motion) or m (release). It returns the bytes consumed and false
// when the report is not complete yet.
func (s *Stream) parseMouse(buf []byte, in *Input) (int, bool) {
	var fields [3]int
	field := 0
	numStart := 0
	for i, c := range buf {
		switch {
		case c >= '0' && c <= '9':
			continue
		case c == ';':
			if field < 2 {
				fields[field], _ = strconv.Atoi(string(buf[numStart:i]))
			}
			field++
			numStart = i + 1
		case c == 'M' || c == 'm':
			if field != 2 {
				return i + 1, true
			}
			fields[2], _ = strconv.Atoi(string(buf[numStart:i]))
			s.applyMouse(fields[0], fields[1], fields[2], c == 'm', in)
			return i + 1, true
		default:
			// Malformed report; drop what was read.
			return i, true
		}
	}
	return len(buf), false
}

func (s *Stream) applyMouse(button, x, y int, release bool, in *Input) {
	s.pointer = Normalize(x, y, s.width, s.height)
	if release && button&64 == 0 {
		in.Releases++
	}
}

// applyByte handles a single plain byte.
func (s *Stream) applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', 0x03:
		in.Quit = true
	case ' ', '\n', '\r':
		in.Releases++
	case 'w', 'W', 'k', 'K':
		s.nudge(0, nudgeStep)
	case 's', 'S', 'j', 'J':
		s.nudge(0, -nudgeStep)
	case 'a', 'A', 'h', 'H':
		s.nudge(-nudgeStep, 0)
	case 'd', 'D', 'l', 'L':
		s.nudge(nudgeStep, 0)
	}
}

func (s *Stream) nudge(dx, dy float64) {
	s.pointer.X = clamp(s.pointer.X + dx)
	s.pointer.Y = clamp(s.pointer.Y + dy)
}

// Normalize maps a 1-based terminal cell to a pointer in [-1,1]², measured
// at the cell center, with y pointing up.
func Normalize(x, y, width, height int) Pointer {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return Pointer{
		X: clamp(-1 + 2*(float64(x)-0.5)/float64(width)),
		Y: clamp(1 - 2*(float64(y)-0.5)/float64(height)),
	}
}

func clamp(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// EnableMouse switches on any-motion tracking with SGR encoded reports.
func EnableMouse(w io.Writer) {
	io.WriteString(w, "\x1b[?1003h\x1b[?1006h")
}

// DisableMouse restores the default mouse mode.
func DisableMouse(w io.Writer) {
	io.WriteString(w, "\x1b[?1003l\x1b[?1006l")
}
