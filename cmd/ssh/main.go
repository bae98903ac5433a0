package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/tomz197/aviator/internal/config"
	"github.com/tomz197/aviator/internal/draw"
	"github.com/tomz197/aviator/internal/input"
	"github.com/tomz197/aviator/internal/loop"
	"github.com/tomz197/aviator/internal/records"
	"github.com/tomz197/aviator/internal/screen"
	"github.com/tomz197/aviator/internal/telemetry"
)

// server holds what every SSH session shares.
type server struct {
	tuning config.Tuning
	lobby  *loop.Lobby
	hub    *telemetry.Hub
	store  *records.Store // nil without AVIATOR_DB
	logger *log.Logger
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal("load .env", "err", err)
	}
	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatal("settings", "err", err)
	}
	logger := config.NewLogger(os.Stderr, "ssh", settings.LogLevel)

	tuning, err := config.TuningFromEnv(config.DefaultTuning())
	if err != nil {
		logger.Fatal("tuning", "err", err)
	}

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("SSH config", "host", settings.SSHHost, "port", settings.SSHPort,
		"hostKeyPath", settings.HostKeyPath, "workingDir", workingDir)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()

	srv := &server{
		tuning: tuning,
		lobby:  loop.NewLobby(),
		hub:    telemetry.NewHub(telemetry.Options{Logger: logger.WithPrefix("telemetry")}),
		logger: logger,
	}
	go srv.hub.Run(hubCtx)

	if settings.DBPath != "" {
		store, err := records.Open(settings.DBPath)
		if err != nil {
			logger.Fatal("run history", "err", err)
		}
		defer store.Close()
		srv.store = store
		logger.Info("run history enabled", "path", settings.DBPath)
	}

	mux := http.NewServeMux()
	mux.Handle("/feed", srv.hub)
	feedServer := &http.Server{Addr: settings.TelemetryAddr, Handler: mux}
	go func() {
		logger.Info("Starting telemetry feed", "addr", settings.TelemetryAddr)
		if err := feedServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("telemetry server", "err", err)
		}
	}()

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(settings.SSHHost, settings.SSHPort)),
		wish.WithMiddleware(
			srv.gameMiddleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if settings.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(settings.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "host", settings.SSHHost, "port", settings.SSHPort)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Notify pilots and wait for them to disconnect
	logger.Info("Notifying connected players about shutdown...", "players", srv.lobby.Count())
	srv.lobby.Shutdown(settings.ShutdownWait)
	stopHub()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := feedServer.Shutdown(ctx); err != nil {
		logger.Error("telemetry shutdown", "err", err)
	}
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware runs one independent game per SSH session.
func (srv *server) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		user := sess.User()
		logger := srv.logger.With("user", user)
		logger.Info("New game session", "terminal", pty.Term,
			"size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		err := srv.play(sess, user, sizeTracker, logger)
		switch {
		case errors.Is(err, loop.ErrInactive):
			fmt.Fprintln(sess, "Disconnected due to inactivity.")
		case errors.Is(err, loop.ErrShutdown):
			fmt.Fprintln(sess, "Server is restarting. Please reconnect in a moment.")
		case err != nil:
			logger.Error("Game error", "err", err)
		}

		logger.Info("Session ended")
		next(sess)
	}
}

func (srv *server) play(sess ssh.Session, user string, size *sizeTracker, logger *log.Logger) error {
	member := srv.lobby.Join(user)
	defer srv.lobby.Leave(member.ID)

	view := screen.New(screen.Options{Writer: sess, Size: size.getSize})
	game, err := loop.NewGame(loop.GameOptions{
		Tuning: srv.tuning,
		Scene:  view,
		HUD:    loop.MultiHUD{view, srv.hub.Session(member.ID, user)},
		Logger: logger,
	})
	if err != nil {
		return err
	}
	view.OnReady(game.PlaneReady)
	if srv.store != nil {
		game.OnGameOver(srv.store.Recorder(context.Background(), user, logger))
	}

	view.Start()
	defer view.Close()
	input.EnableMouse(sess)
	defer input.DisableMouse(sess)

	src := &sessionSource{stream: input.StartStream(sess), size: size}
	return loop.Run(sess.Context(), loop.Options{
		Game:                 game,
		Input:                src,
		Renderer:             view,
		FrameTime:            config.TargetFrameTime,
		Session:              member,
		InactivityWarn:       config.InactivityWarnUser * time.Second,
		InactivityDisconnect: config.InactivityDisconnectUser * time.Second,
	})
}

// sessionSource feeds window changes into the input stream before each read.
type sessionSource struct {
	stream *input.Stream
	size   *sizeTracker
}

func (s *sessionSource) Read() input.Input {
	w, h, _ := s.size.getSize()
	s.stream.SetSize(w, h)
	return s.stream.Read()
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
