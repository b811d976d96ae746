package game

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"wizard-server/internal/store"
)

func newTestStore() *store.Store {
	return store.New(store.NewMemory())
}

func TestCreateAndJoinGame(t *testing.T) {
	e := NewEngine(newTestStore())
	ctx := context.Background()

	id, err := e.CreateGame(ctx)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	for i, p := range []string{"alice", "bob", "carol"} {
		seat, err := e.AddPlayer(ctx, id, p)
		if err != nil {
			t.Fatalf("add %s: %v", p, err)
		}
		if seat != i {
			t.Fatalf("%s seat = %d, want %d", p, seat, i)
		}
	}
	players, err := e.Players(ctx, id)
	if err != nil {
		t.Fatalf("players: %v", err)
	}
	if len(players) != 3 || players[0] != "alice" || players[2] != "carol" {
		t.Fatalf("players = %v", players)
	}
}

func TestAddPlayerRejectsDuplicate(t *testing.T) {
	e := NewEngine(newTestStore())
	ctx := context.Background()
	id, _ := e.CreateGame(ctx)
	if _, err := e.AddPlayer(ctx, id, "alice"); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := e.AddPlayer(ctx, id, "alice"); !errors.Is(err, ErrDuplicatePlayer) {
		t.Fatalf("expected ErrDuplicatePlayer, got %v", err)
	}
}

func TestAddPlayerRejectsSeventhSeat(t *testing.T) {
	e := NewEngine(newTestStore())
	ctx := context.Background()
	id, _ := e.CreateGame(ctx)
	for i := 0; i < MaxPlayers; i++ {
		if _, err := e.AddPlayer(ctx, id, fmt.Sprintf("p%d", i)); err != nil {
			t.Fatalf("join p%d: %v", i, err)
		}
	}
	if _, err := e.AddPlayer(ctx, id, "p6"); !errors.Is(err, ErrGameFull) {
		t.Fatalf("expected ErrGameFull, got %v", err)
	}
}

func TestUnknownGame(t *testing.T) {
	e := NewEngine(newTestStore())
	ctx := context.Background()
	if _, err := e.AddPlayer(ctx, "missing", "alice"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("add player: expected ErrGameNotFound, got %v", err)
	}
	if _, err := e.Players(ctx, "missing"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("players: expected ErrGameNotFound, got %v", err)
	}
	if _, err := e.StartGame(ctx, "missing"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("start: expected ErrGameNotFound, got %v", err)
	}
}

func TestPlayerExists(t *testing.T) {
	e := NewEngine(newTestStore())
	ctx := context.Background()
	id, _ := e.CreateGame(ctx)
	_, _ = e.AddPlayer(ctx, id, "alice")
	if err := e.PlayerExists(ctx, id, "alice"); err != nil {
		t.Fatalf("alice should exist: %v", err)
	}
	if err := e.PlayerExists(ctx, id, "mallory"); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}
}

func TestDeleteGameLeavesNoState(t *testing.T) {
	e := NewEngine(newTestStore())
	ctx := context.Background()
	id, _ := e.CreateGame(ctx)
	for _, p := range []string{"alice", "bob", "carol"} {
		_, _ = e.AddPlayer(ctx, id, p)
	}
	if _, err := e.StartGame(ctx, id); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := e.DeleteGame(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := e.Players(ctx, id); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound after delete, got %v", err)
	}
	// Idempotent.
	if err := e.DeleteGame(ctx, id); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
