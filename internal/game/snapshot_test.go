package game

import (
	"context"
	"errors"
	"testing"
)

func TestAssembleBeforeStart(t *testing.T) {
	e, _, id := threePlayerGame(t)
	ctx := context.Background()
	snap, err := e.Assemble(ctx, id, "alice")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if snap.Started || snap.Complete {
		t.Fatalf("fresh game marked started=%v complete=%v", snap.Started, snap.Complete)
	}
	if len(snap.Players) != 3 || len(snap.Hand) != 0 || len(snap.Rounds) != 0 {
		t.Fatalf("unexpected fresh snapshot: %+v", snap)
	}
}

func TestAssembleRejectsStranger(t *testing.T) {
	e, _, id := threePlayerGame(t)
	ctx := context.Background()
	if _, err := e.Assemble(ctx, id, "mallory"); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}
	if _, err := e.Assemble(ctx, "missing", "alice"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestAssembleMidTrick(t *testing.T) {
	e, st, id := threePlayerGame(t)
	ctx := context.Background()
	if _, err := e.StartGame(ctx, id); err != nil {
		t.Fatalf("start: %v", err)
	}
	rigTrick(t, e, st, id, "d", map[int][]string{
		0: {"s7"},
		1: {"c3"},
		2: {"s5"},
	})
	betAllZero(t, e, id, []string{"alice", "bob", "carol"})
	if _, err := e.PlayCard(ctx, id, "carol", Card{Suit: Spades, Number: 5}); err != nil {
		t.Fatalf("carol lead: %v", err)
	}

	snap, err := e.Assemble(ctx, id, "alice")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if !snap.Started || !snap.BettingClosed {
		t.Fatalf("expected started game with closed betting: %+v", snap)
	}
	if snap.TrickLeader != "carol" || snap.Turn != "alice" {
		t.Fatalf("leader=%s turn=%s, want carol/alice", snap.TrickLeader, snap.Turn)
	}
	if len(snap.Played) != 1 || snap.Played[0].Card != "s5" || snap.Played[0].PlayerID != "carol" {
		t.Fatalf("played = %+v", snap.Played)
	}
	if len(snap.Hand) != 1 || snap.Hand[0] != "s7" {
		t.Fatalf("alice's hand = %v, want [s7]", snap.Hand)
	}

	// A spectator sees the table but no hand.
	spec, err := e.Assemble(ctx, id, "")
	if err != nil {
		t.Fatalf("spectator assemble: %v", err)
	}
	if len(spec.Hand) != 0 {
		t.Fatalf("spectator snapshot leaked a hand: %v", spec.Hand)
	}
	if len(spec.Played) != 1 {
		t.Fatalf("spectator played = %+v", spec.Played)
	}
}

func TestAssembleBettingOpen(t *testing.T) {
	e, _, id := threePlayerGame(t)
	ctx := context.Background()
	if _, err := e.StartGame(ctx, id); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := e.PlaceBet(ctx, id, "alice", 1); err != nil {
		t.Fatalf("bet: %v", err)
	}

	snap, err := e.Assemble(ctx, id, "bob")
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if snap.BettingClosed {
		t.Fatalf("betting reported closed with two bets outstanding")
	}
	bets := snap.Rounds[0].Bets
	if bets[0] == nil || *bets[0] != 1 {
		t.Fatalf("alice's bet missing from view: %v", bets)
	}
	if bets[1] != nil || bets[2] != nil {
		t.Fatalf("unset bets should be null: %v", bets)
	}
}
