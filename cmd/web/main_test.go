package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tomz197/aviator/internal/records"
)

type fakeBoard struct {
	entries []records.Entry
	err     error
}

func (f fakeBoard) Best(_ context.Context, limit int) ([]records.Entry, error) {
	return f.entries[:min(limit, len(f.entries))], f.err
}

func newSite(board leaderboard) *site {
	return &site{sshHost: "play.example", sshPort: "2222", board: board, logger: log.New(io.Discard)}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndexShowsCommandAndLeaderboard(t *testing.T) {
	s := newSite(fakeBoard{entries: []records.Entry{{Rank: 1, Player: "ana", Distance: 1500, Level: 2, Runs: 3}}})
	rec := get(t, s.routes(), "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"ssh -p 2222 play.example", "ana", "1500"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestIndexWithoutHistory(t *testing.T) {
	s := newSite(nil)
	body := get(t, s.routes(), "/").Body.String()
	if !strings.Contains(body, "No flights recorded yet") {
		t.Error("empty leaderboard message missing")
	}
	if rec := get(t, s.routes(), "/missing"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d", rec.Code)
	}
}

func TestQRCode(t *testing.T) {
	s := newSite(nil)
	rec := get(t, s.routes(), "/qr.png?size=128")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("status = %d, type = %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if w := img.Bounds().Dx(); w != 128 {
		t.Errorf("width = %d, want 128", w)
	}

	if rec := get(t, s.routes(), "/qr.png?size=5"); rec.Code != http.StatusBadRequest {
		t.Errorf("tiny size status = %d", rec.Code)
	}
}

func TestLeaderboardJSON(t *testing.T) {
	s := newSite(fakeBoard{err: errors.New("db down")})
	rec := get(t, s.routes(), "/leaderboard")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("body on error = %q, want []", rec.Body.String())
	}

	s = newSite(fakeBoard{entries: []records.Entry{{Rank: 1, Player: "bo", Distance: 7}}})
	var got []records.Entry
	if err := json.NewDecoder(get(t, s.routes(), "/leaderboard").Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Player != "bo" {
		t.Errorf("leaderboard = %+v", got)
	}
}

func TestSSHCommand(t *testing.T) {
	s := &site{sshHost: "h", sshPort: "22"}
	if got := s.sshCommand(); got != "ssh h" {
		t.Errorf("command = %q", got)
	}
}
