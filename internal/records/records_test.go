package records

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/aviator/internal/loop"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndBest(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)

	runs := []Run{
		{Player: "ana", Distance: 120, Level: 1, EndedAt: base},
		{Player: "ana", Distance: 900, Level: 1, EndedAt: base.Add(time.Minute)},
		{Player: "bo", Distance: 1500, Level: 2, EndedAt: base.Add(2 * time.Minute)},
		{Player: "cy", Distance: 900, Level: 1, EndedAt: base.Add(3 * time.Minute)},
		{Player: "  ", Distance: 10, Level: 1, EndedAt: base},
	}
	for _, r := range runs {
		if _, err := s.Save(ctx, r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	best, err := s.Best(ctx, 3)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	want := []Entry{
		{Rank: 1, Player: "bo", Distance: 1500, Level: 2, Runs: 1},
		{Rank: 2, Player: "ana", Distance: 900, Level: 1, Runs: 2},
		{Rank: 3, Player: "cy", Distance: 900, Level: 1, Runs: 1},
	}
	if len(best) != len(want) {
		t.Fatalf("best = %+v", best)
	}
	for i := range want {
		if best[i] != want[i] {
			t.Errorf("best[%d] = %+v, want %+v", i, best[i], want[i])
		}
	}
}

func TestRecent(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)

	for i := 0; i < 4; i++ {
		_, err := s.Save(ctx, Run{
			Player:   "ana",
			Distance: i * 100,
			Level:    1,
			Duration: time.Duration(i) * time.Second,
			EndedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	recent, err := s.Recent(ctx, "ana", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].Distance != 300 || recent[1].Distance != 200 {
		t.Fatalf("recent = %+v", recent)
	}
	if recent[0].Duration != 3*time.Second || !recent[0].EndedAt.Equal(base.Add(3*time.Minute)) {
		t.Errorf("round trip lost data: %+v", recent[0])
	}
}

func TestAnonymousPlayer(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	if _, err := s.Save(ctx, Run{Distance: 5, Level: 1, EndedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	recent, err := s.Recent(ctx, "anonymous", 10)
	if err != nil || len(recent) != 1 {
		t.Fatalf("recent = %v, %v", recent, err)
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(context.Background(), Run{Player: "ana", Distance: 42, Level: 1, EndedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	best, err := s.Best(context.Background(), 10)
	if err != nil || len(best) != 1 || best[0].Distance != 42 {
		t.Fatalf("best after reopen = %v, %v", best, err)
	}
}

func TestClosed(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(context.Background(), Run{Player: "ana"}); !errors.Is(err, ErrClosed) {
		t.Errorf("save after close = %v", err)
	}
	if _, err := s.Best(context.Background(), 1); !errors.Is(err, ErrClosed) {
		t.Errorf("best after close = %v", err)
	}
	if err := s.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("double close = %v", err)
	}
}

func TestRecorder(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	var logs bytes.Buffer
	record := s.Recorder(ctx, "ana", log.New(&logs))

	ended := time.UnixMilli(1_700_000_000_000)
	record(loop.Summary{Distance: 1234.9, Level: 2, Duration: 90 * time.Second, EndedAt: ended})

	recent, err := s.Recent(ctx, "ana", 1)
	if err != nil || len(recent) != 1 {
		t.Fatalf("recent = %v, %v", recent, err)
	}
	if r := recent[0]; r.Distance != 1234 || r.Level != 2 || r.Duration != 90*time.Second || !r.EndedAt.Equal(ended) {
		t.Errorf("saved run = %+v", r)
	}

	s.Close()
	record(loop.Summary{Distance: 1})
	if !bytes.Contains(logs.Bytes(), []byte("save run")) {
		t.Errorf("save failure not logged: %q", logs.String())
	}
}
