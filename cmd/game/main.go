package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomz197/aviator/internal/config"
	"github.com/tomz197/aviator/internal/draw"
	"github.com/tomz197/aviator/internal/input"
	"github.com/tomz197/aviator/internal/loop"
	"github.com/tomz197/aviator/internal/records"
	"github.com/tomz197/aviator/internal/screen"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.Load(); err != nil {
		return err
	}
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	tuning, err := config.TuningFromEnv(config.DefaultTuning())
	if err != nil {
		return err
	}

	// Stderr shares the screen with the game; logs go to a file when asked.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("AVIATOR_LOG", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, "aviator", settings.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	view := screen.New(screen.Options{Writer: os.Stdout})
	game, err := loop.NewGame(loop.GameOptions{
		Tuning: tuning,
		Scene:  view,
		HUD:    view,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	view.OnReady(game.PlaneReady)

	if settings.DBPath != "" {
		store, err := records.Open(settings.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		game.OnGameOver(store.Recorder(ctx, config.GetEnv("USER", "pilot"), logger))
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	view.Start()
	defer view.Close()
	input.EnableMouse(os.Stdout)
	defer input.DisableMouse(os.Stdout)

	src := &terminalSource{
		stream: input.StartStream(os.Stdin),
		size:   draw.DefaultTermSizeFunc,
	}

	logger.Info("game started")
	err = loop.Run(ctx, loop.Options{
		Game:      game,
		Input:     src,
		Renderer:  view,
		FrameTime: config.TargetFrameTime,
	})
	logger.Info("game ended", "distance", int(game.State.Distance), "level", game.State.Level)
	return err
}

// terminalSource keeps the input stream's size in step with the terminal so
// mouse positions normalize against the current window.
type terminalSource struct {
	stream *input.Stream
	size   draw.TermSizeFunc
}

func (s *terminalSource) Read() input.Input {
	if w, h, err := s.size(); err == nil {
		s.stream.SetSize(w, h)
	}
	return s.stream.Read()
}
