package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"html/template"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/skip2/go-qrcode"
	"github.com/tomz197/aviator/internal/config"
	"github.com/tomz197/aviator/internal/records"
)

const leaderboardSize = 10

//go:embed index.html
var htmlPage string

var page = template.Must(template.New("index").Parse(htmlPage))

// leaderboard is the part of the run history the site reads.
type leaderboard interface {
	Best(ctx context.Context, limit int) ([]records.Entry, error)
}

type site struct {
	sshHost string
	sshPort string
	board   leaderboard // nil without AVIATOR_DB
	logger  *log.Logger
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal("load .env", "err", err)
	}
	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatal("settings", "err", err)
	}
	logger := config.NewLogger(os.Stderr, "web", settings.LogLevel)

	s := &site{
		sshHost: settings.SSHDisplayHost,
		sshPort: settings.SSHPort,
		logger:  logger,
	}
	if settings.DBPath != "" {
		store, err := records.Open(settings.DBPath)
		if err != nil {
			logger.Fatal("run history", "err", err)
		}
		defer store.Close()
		s.board = store
	}

	addr := net.JoinHostPort(settings.WebHost, settings.WebPort)
	logger.Info("Starting web server", "url", "http://"+addr)
	srv := &http.Server{Addr: addr, Handler: s.routes(), ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

func (s *site) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.index)
	mux.HandleFunc("/qr.png", s.qr)
	mux.HandleFunc("/leaderboard", s.leaderboardJSON)
	return mux
}

// sshCommand is what a visitor types to play.
func (s *site) sshCommand() string {
	if s.sshPort == "" || s.sshPort == "22" {
		return "ssh " + s.sshHost
	}
	return "ssh -p " + s.sshPort + " " + s.sshHost
}

func (s *site) best(ctx context.Context) []records.Entry {
	if s.board == nil {
		return nil
	}
	entries, err := s.board.Best(ctx, leaderboardSize)
	if err != nil {
		s.logger.Error("leaderboard", "err", err)
		return nil
	}
	return entries
}

func (s *site) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		SSHCommand  string
		Leaderboard []records.Entry
	}{
		SSHCommand:  s.sshCommand(),
		Leaderboard: s.best(r.Context()),
	}
	if err := page.Execute(w, data); err != nil {
		s.logger.Error("render page", "err", err)
	}
}

func (s *site) qr(w http.ResponseWriter, r *http.Request) {
	size := 256
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 64 || n > 1024 {
			http.Error(w, "size must be between 64 and 1024", http.StatusBadRequest)
			return
		}
		size = n
	}
	png, err := qrcode.Encode(s.sshCommand(), qrcode.Medium, size)
	if err != nil {
		s.logger.Error("qr code", "err", err)
		http.Error(w, "qr code unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}

func (s *site) leaderboardJSON(w http.ResponseWriter, r *http.Request) {
	entries := s.best(r.Context())
	if entries == nil {
		entries = []records.Entry{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		s.logger.Error("encode leaderboard", "err", err)
	}
}
