// Package loop runs the flight simulation: the per-tick game update, the
// status state machine and the frame loop that drives it.
package loop

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tomz197/aviator/internal/config"
	"github.com/tomz197/aviator/internal/input"
)

var (
	// ErrInactive is returned by Run when the player stopped sending input.
	ErrInactive = errors.New("session inactive")
	// ErrShutdown is returned by Run after the shutdown notice expired.
	ErrShutdown = errors.New("server shutting down")
)

// Source yields the input collected since the previous frame.
type Source interface {
	Read() input.Input
}

// Options configures Run.
type Options struct {
	Game     *Game
	Input    Source
	Renderer Renderer
	Clock    *Clock

	// FrameTime is the target duration of one frame; zero disables pacing.
	FrameTime time.Duration

	// Session, when set, delivers lobby events and the player count.
	Session *Session

	// Inactivity limits; zero disables them.
	InactivityWarn       time.Duration
	InactivityDisconnect time.Duration
}

// Run drives the Input → Tick → Render cycle until the player quits, the
// context is cancelled, the session times out or the server shuts down.
func Run(ctx context.Context, opts Options) error {
	if opts.Game == nil || opts.Input == nil || opts.Renderer == nil {
		return errors.New("loop: game, input and renderer are required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = NewClock(nil)
	}

	var events <-chan Event
	if opts.Session != nil {
		events = opts.Session.Events
	}

	lastInput := clock.Now()
	var shutdownAt time.Time

	for {
		frameStart := clock.Now()
		delta := clock.Tick()

		// ===== INPUT PHASE =====
		in := opts.Input.Read()
		if in.Quit {
			return nil
		}
		if in.Active {
			lastInput = frameStart
		}
		if in.Release() {
			opts.Game.PointerRelease()
		}

		// ===== EVENTS =====
		select {
		case ev, ok := <-events:
			if !ok {
				return ErrShutdown
			}
			if ev.Type == EventShutdown && shutdownAt.IsZero() {
				shutdownAt = frameStart.Add(time.Duration(config.ShutdownDisplaySeconds * float64(time.Second)))
			}
		default:
		}

		// ===== UPDATE PHASE =====
		opts.Game.Tick(delta, in.Pointer)

		frame := opts.Game.Frame()
		frame.Players = opts.Session.Players()

		idle := frameStart.Sub(lastInput)
		switch {
		case !shutdownAt.IsZero():
			left := shutdownAt.Sub(frameStart)
			if left <= 0 {
				return ErrShutdown
			}
			frame.Notice = fmt.Sprintf("Server shutting down. Disconnecting in %d s", int(math.Ceil(left.Seconds())))
		case opts.InactivityDisconnect > 0 && idle > opts.InactivityDisconnect:
			return ErrInactive
		case opts.InactivityWarn > 0 && idle > opts.InactivityWarn:
			frame.Notice = "Still there?"
			if opts.InactivityDisconnect > 0 {
				left := opts.InactivityDisconnect - idle
				frame.Notice = fmt.Sprintf("Still there? Disconnecting in %d s", int(math.Ceil(left.Seconds())))
			}
		}

		// ===== DRAW PHASE =====
		if err := opts.Renderer.Render(frame); err != nil {
			return fmt.Errorf("render: %w", err)
		}

		// ===== FRAME TIMING =====
		if opts.FrameTime > 0 {
			elapsed := clock.Now().Sub(frameStart)
			if elapsed < opts.FrameTime {
				timer := time.NewTimer(opts.FrameTime - elapsed)
				select {
				case <-ctx.Done():
					timer.Stop()
					return nil
				case <-timer.C:
				}
			}
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
