package game

import (
	"errors"
	"fmt"
)

// Rule violations are terminal for the triggering command: the engine
// never retries, and a failed call leaves no partial state behind.
var (
	ErrGameNotFound     = errors.New("game_not_found")
	ErrDuplicatePlayer  = errors.New("duplicate_player")
	ErrGameFull         = errors.New("game_full")
	ErrUnknownPlayer    = errors.New("unknown_player")
	ErrTooFewPlayers    = errors.New("too_few_players")
	ErrAlreadyStarted   = errors.New("already_started")
	ErrNotStarted       = errors.New("not_started")
	ErrTrickComplete    = errors.New("trick_complete")
	ErrTrickNotComplete = errors.New("trick_not_complete")
	ErrInvalidBet       = errors.New("invalid_bet")
	ErrBetAlreadySet    = errors.New("bet_already_set")
	ErrBetsPending      = errors.New("bets_pending")
	ErrOutOfTurn        = errors.New("out_of_turn")
	ErrMustFollowSuit   = errors.New("must_follow_suit")
	ErrCardNotHeld      = errors.New("card_not_held")
)

type InvalidBetError struct {
	Bet int
	Max int
}

func (e *InvalidBetError) Error() string {
	return fmt.Sprintf("invalid_bet: %d outside [0, %d]", e.Bet, e.Max)
}

func (e *InvalidBetError) Unwrap() error {
	return ErrInvalidBet
}

type OutOfTurnError struct {
	PlayerID string
	TurnOf   string
}

func (e *OutOfTurnError) Error() string {
	return fmt.Sprintf("out_of_turn: %s played, turn belongs to %s", e.PlayerID, e.TurnOf)
}

func (e *OutOfTurnError) Unwrap() error {
	return ErrOutOfTurn
}

type MustFollowSuitError struct {
	Played   Card
	LeadSuit Suit
}

func (e *MustFollowSuitError) Error() string {
	return fmt.Sprintf("must_follow_suit: played %s with %s still in hand", e.Played, e.LeadSuit)
}

func (e *MustFollowSuitError) Unwrap() error {
	return ErrMustFollowSuit
}

type BetsPendingError struct {
	Waiting []string
}

func (e *BetsPendingError) Error() string {
	return fmt.Sprintf("bets_pending: waiting on %v", e.Waiting)
}

func (e *BetsPendingError) Unwrap() error {
	return ErrBetsPending
}
