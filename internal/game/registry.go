package game

import (
	"context"
	"errors"

	"wizard-server/internal/store"
)

const (
	MinPlayers = 3
	MaxPlayers = 6
)

// CreateGame allocates a fresh game id and registers the empty game.
func (e *Engine) CreateGame(ctx context.Context) (string, error) {
	id := store.NewID()
	if err := e.store.CreateGame(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// AddPlayer appends playerID to the seat order and returns its seat index.
func (e *Engine) AddPlayer(ctx context.Context, gameID, playerID string) (int, error) {
	unlock := e.locks.lock(gameID)
	defer unlock()

	players, err := e.requireGame(ctx, gameID)
	if err != nil {
		return 0, err
	}
	for _, p := range players {
		if p == playerID {
			return 0, ErrDuplicatePlayer
		}
	}
	if len(players) >= MaxPlayers {
		return 0, ErrGameFull
	}
	if err := e.store.AppendPlayer(ctx, gameID, playerID); err != nil {
		return 0, err
	}
	return len(players), nil
}

// PlayerExists is the precondition guard every per-player operation runs.
func (e *Engine) PlayerExists(ctx context.Context, gameID, playerID string) error {
	players, err := e.requireGame(ctx, gameID)
	if err != nil {
		return err
	}
	for _, p := range players {
		if p == playerID {
			return nil
		}
	}
	return ErrUnknownPlayer
}

// DeleteGame removes every key under the game's prefix. Idempotent.
func (e *Engine) DeleteGame(ctx context.Context, gameID string) error {
	unlock := e.locks.lock(gameID)
	defer unlock()
	return e.store.DeleteGame(ctx, gameID)
}

func (e *Engine) Players(ctx context.Context, gameID string) ([]string, error) {
	return e.requireGame(ctx, gameID)
}

func (e *Engine) PlayerIndex(ctx context.Context, gameID, playerID string) (int, error) {
	players, err := e.requireGame(ctx, gameID)
	if err != nil {
		return 0, err
	}
	for i, p := range players {
		if p == playerID {
			return i, nil
		}
	}
	return 0, ErrUnknownPlayer
}

func (e *Engine) PlayerID(ctx context.Context, gameID string, seat int) (string, error) {
	players, err := e.requireGame(ctx, gameID)
	if err != nil {
		return "", err
	}
	if seat < 0 || seat >= len(players) {
		return "", ErrUnknownPlayer
	}
	return players[seat], nil
}

// requireGame resolves the participant list, mapping a missing game to
// ErrGameNotFound so deleted and never-created games are indistinguishable.
func (e *Engine) requireGame(ctx context.Context, gameID string) ([]string, error) {
	ok, err := e.store.GameExists(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrGameNotFound
	}
	players, err := e.store.Players(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}
	return players, nil
}
