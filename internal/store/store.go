package store

import (
	"context"
	"strconv"
)

// Store is the typed adapter over the KV capability. It owns key
// composition and the sentinel encodings the underlying store needs
// (unset bets and unresolved tricks are empty strings); the game package
// only ever sees domain values.
type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

func (s *Store) CreateGame(ctx context.Context, gameID string) error {
	return s.kv.Set(ctx, startedKey(gameID), "0")
}

func (s *Store) GameExists(ctx context.Context, gameID string) (bool, error) {
	return s.kv.Exists(ctx, startedKey(gameID))
}

func (s *Store) DeleteGame(ctx context.Context, gameID string) error {
	return s.kv.DeletePrefix(ctx, gamePrefix(gameID))
}

func (s *Store) Players(ctx context.Context, gameID string) ([]string, error) {
	return s.kv.LRange(ctx, playersKey(gameID))
}

func (s *Store) AppendPlayer(ctx context.Context, gameID, playerID string) error {
	return s.kv.RPush(ctx, playersKey(gameID), playerID)
}

func (s *Store) Started(ctx context.Context, gameID string) (bool, error) {
	v, err := s.kv.Get(ctx, startedKey(gameID))
	if err != nil {
		return false, err
	}
	return v == "1", nil
}

func (s *Store) MarkStarted(ctx context.Context, gameID string) error {
	return s.kv.Set(ctx, startedKey(gameID), "1")
}

func (s *Store) Complete(ctx context.Context, gameID string) (bool, error) {
	ok, err := s.kv.Exists(ctx, completeKey(gameID))
	return ok, err
}

func (s *Store) MarkComplete(ctx context.Context, gameID string) error {
	return s.kv.Set(ctx, completeKey(gameID), "1")
}

func (s *Store) CurrentRound(ctx context.Context, gameID string) (int, error) {
	return s.getInt(ctx, currentRoundKey(gameID))
}

func (s *Store) SetCurrentRound(ctx context.Context, gameID string, round int) error {
	return s.kv.Set(ctx, currentRoundKey(gameID), strconv.Itoa(round))
}

func (s *Store) CurrentTrick(ctx context.Context, gameID string) (int, error) {
	return s.getInt(ctx, currentTrickKey(gameID))
}

func (s *Store) SetCurrentTrick(ctx context.Context, gameID string, trick int) error {
	return s.kv.Set(ctx, currentTrickKey(gameID), strconv.Itoa(trick))
}

func (s *Store) Dealer(ctx context.Context, gameID string, round int) (int, error) {
	return s.getInt(ctx, dealerKey(gameID, round))
}

func (s *Store) SetDealer(ctx context.Context, gameID string, round, seat int) error {
	return s.kv.Set(ctx, dealerKey(gameID, round), strconv.Itoa(seat))
}

func (s *Store) Trump(ctx context.Context, gameID string, round int) (string, error) {
	return s.kv.Get(ctx, trumpKey(gameID, round))
}

func (s *Store) SetTrump(ctx context.Context, gameID string, round int, suit string) error {
	return s.kv.Set(ctx, trumpKey(gameID, round), suit)
}

// InitBets resets the bets record to one unset slot per seat.
func (s *Store) InitBets(ctx context.Context, gameID string, round, seats int) error {
	key := betsKey(gameID, round)
	if err := s.kv.Delete(ctx, key); err != nil {
		return err
	}
	return s.kv.RPush(ctx, key, make([]string, seats)...)
}

func (s *Store) SetBet(ctx context.Context, gameID string, round, seat, bet int) error {
	return s.kv.LSet(ctx, betsKey(gameID, round), seat, strconv.Itoa(bet))
}

// Bets returns one entry per seat, nil where the seat has not bet yet.
func (s *Store) Bets(ctx context.Context, gameID string, round int) ([]*int, error) {
	raw, err := s.kv.LRange(ctx, betsKey(gameID, round))
	if err != nil {
		return nil, err
	}
	out := make([]*int, len(raw))
	for i, v := range raw {
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		out[i] = &n
	}
	return out, nil
}

// InitTaken resets the trick-winner record to one empty slot per trick.
func (s *Store) InitTaken(ctx context.Context, gameID string, round, tricks int) error {
	key := takenKey(gameID, round)
	if err := s.kv.Delete(ctx, key); err != nil {
		return err
	}
	return s.kv.RPush(ctx, key, make([]string, tricks)...)
}

func (s *Store) SetTaken(ctx context.Context, gameID string, round, trick int, playerID string) error {
	return s.kv.LSet(ctx, takenKey(gameID, round), trick, playerID)
}

// Taken returns the winner per trick slot, empty string where unresolved.
func (s *Store) Taken(ctx context.Context, gameID string, round int) ([]string, error) {
	return s.kv.LRange(ctx, takenKey(gameID, round))
}

func (s *Store) Hand(ctx context.Context, gameID string, round, seat int) ([]string, error) {
	return s.kv.LRange(ctx, handKey(gameID, round, seat))
}

func (s *Store) SetHand(ctx context.Context, gameID string, round, seat int, cards []string) error {
	key := handKey(gameID, round, seat)
	if err := s.kv.Delete(ctx, key); err != nil {
		return err
	}
	if len(cards) == 0 {
		return nil
	}
	return s.kv.RPush(ctx, key, cards...)
}

func (s *Store) TrickCards(ctx context.Context, gameID string, round, trick int) ([]string, error) {
	return s.kv.LRange(ctx, trickCardsKey(gameID, round, trick))
}

func (s *Store) AppendTrickCard(ctx context.Context, gameID string, round, trick int, card string) error {
	return s.kv.RPush(ctx, trickCardsKey(gameID, round, trick), card)
}

func (s *Store) LeadSuit(ctx context.Context, gameID string, round, trick int) (string, error) {
	return s.kv.Get(ctx, leadSuitKey(gameID, round, trick))
}

func (s *Store) SetLeadSuit(ctx context.Context, gameID string, round, trick int, suit string) error {
	return s.kv.Set(ctx, leadSuitKey(gameID, round, trick), suit)
}

func (s *Store) TrickLeader(ctx context.Context, gameID string, round, trick int) (int, error) {
	return s.getInt(ctx, trickLeaderKey(gameID, round, trick))
}

func (s *Store) SetTrickLeader(ctx context.Context, gameID string, round, trick, seat int) error {
	return s.kv.Set(ctx, trickLeaderKey(gameID, round, trick), strconv.Itoa(seat))
}

func (s *Store) AddReady(ctx context.Context, gameID string, round, trick int, playerID string) error {
	return s.kv.SAdd(ctx, readyKey(gameID, round, trick), playerID)
}

func (s *Store) ReadyCount(ctx context.Context, gameID string, round, trick int) (int, error) {
	return s.kv.SCard(ctx, readyKey(gameID, round, trick))
}

func (s *Store) getInt(ctx context.Context, key string) (int, error) {
	v, err := s.kv.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}
