package game

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"wizard-server/internal/store"
)

// Engine applies the game's rules against the external store. It keeps no
// game state between calls; the keyed mutex makes each mutating call an
// atomic check-and-set against that game's keys.
type Engine struct {
	store *store.Store
	locks *keyedMutex

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewEngine(st *store.Store) *Engine {
	return &Engine{
		store: st,
		locks: newKeyedMutex(),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRand replaces the shuffle/trump randomness source. Tests use this to
// make deals deterministic.
func (e *Engine) SetRand(rnd *rand.Rand) {
	e.rngMu.Lock()
	e.rng = rnd
	e.rngMu.Unlock()
}

// RoundStart carries what the caller relays after a deal: the trump for
// everyone and each player's new hand, to be delivered privately.
type RoundStart struct {
	Round int
	Trump Suit
	Hands map[string][]Card
}

// PlayResult reports the outcome of a card play.
type PlayResult struct {
	TrickComplete bool
	Winner        string
	LeadSuit      Suit
	LeadChanged   bool
}

// Advance reports what ReadyForNextTrick did once the last acknowledgment
// arrived.
type Advance struct {
	AllReady     bool
	Trick        int
	NewRound     *RoundStart
	GameComplete bool
}

// StartGame fixes each future round's dealer and opening leader, marks the
// game started and deals round 0.
func (e *Engine) StartGame(ctx context.Context, gameID string) (*RoundStart, error) {
	unlock := e.locks.lock(gameID)
	defer unlock()

	players, err := e.requireGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if len(players) < MinPlayers {
		return nil, ErrTooFewPlayers
	}
	started, err := e.store.Started(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if started {
		return nil, ErrAlreadyStarted
	}

	n := len(players)
	rounds := DeckSize / n
	for r := 0; r < rounds; r++ {
		dealer := r % n
		if err := e.store.SetDealer(ctx, gameID, r, dealer); err != nil {
			return nil, err
		}
		// Seat to the dealer's left opens trick 0 of the round.
		leader := (dealer - 1 + n) % n
		if err := e.store.SetTrickLeader(ctx, gameID, r, 0, leader); err != nil {
			return nil, err
		}
	}
	if err := e.store.MarkStarted(ctx, gameID); err != nil {
		return nil, err
	}
	return e.startRound(ctx, gameID, 0, players)
}

// startRound shuffles a fresh deck, deals round+1 cards per seat, flips
// trump and resets the round's bet and trick records. Callers hold the
// game lock.
func (e *Engine) startRound(ctx context.Context, gameID string, round int, players []string) (*RoundStart, error) {
	n := len(players)
	deck := NewDeck()
	e.rngMu.Lock()
	deck.Shuffle(e.rng)
	e.rngMu.Unlock()

	hands := make(map[string][]Card, n)
	for seat, playerID := range players {
		hand := make([]Card, 0, round+1)
		for i := 0; i <= round; i++ {
			hand = append(hand, deck.Deal())
		}
		hands[playerID] = hand
		if err := e.store.SetHand(ctx, gameID, round, seat, encodeCards(hand)); err != nil {
			return nil, err
		}
	}

	trump := e.flipTrump(deck)
	if err := e.store.SetTrump(ctx, gameID, round, trump.String()); err != nil {
		return nil, err
	}
	if err := e.store.InitBets(ctx, gameID, round, n); err != nil {
		return nil, err
	}
	if err := e.store.InitTaken(ctx, gameID, round, round+1); err != nil {
		return nil, err
	}
	if err := e.store.SetCurrentRound(ctx, gameID, round); err != nil {
		return nil, err
	}
	if err := e.store.SetCurrentTrick(ctx, gameID, 0); err != nil {
		return nil, err
	}
	return &RoundStart{Round: round, Trump: trump, Hands: hands}, nil
}

// flipTrump draws the trump indicator. A wizard flip re-picks uniformly
// among the four ranked suits, never "no trump"; an exhausted deck means
// no trump at all, recorded as the jester suit.
func (e *Engine) flipTrump(deck *Deck) Suit {
	if deck.Len() == 0 {
		return Jester
	}
	c := deck.Deal()
	if c.Suit == Wizard {
		e.rngMu.Lock()
		s := RankedSuits[e.rng.Intn(len(RankedSuits))]
		e.rngMu.Unlock()
		return s
	}
	return c.Suit
}

// PlaceBet records one seat's bet for the current round and reports
// whether every seat has now bet.
func (e *Engine) PlaceBet(ctx context.Context, gameID, playerID string, bet int) (bool, error) {
	unlock := e.locks.lock(gameID)
	defer unlock()

	seat, err := e.PlayerIndex(ctx, gameID, playerID)
	if err != nil {
		return false, err
	}
	round, err := e.currentRound(ctx, gameID)
	if err != nil {
		return false, err
	}
	if bet < 0 || bet > round+1 {
		return false, &InvalidBetError{Bet: bet, Max: round + 1}
	}
	bets, err := e.store.Bets(ctx, gameID, round)
	if err != nil {
		return false, err
	}
	if bets[seat] != nil {
		return false, ErrBetAlreadySet
	}
	if err := e.store.SetBet(ctx, gameID, round, seat, bet); err != nil {
		return false, err
	}
	for i := range bets {
		if i != seat && bets[i] == nil {
			return false, nil
		}
	}
	return true, nil
}

// WhoseTurn computes the player to act in the current trick. Turn order is
// never stored: it is the trick leader plus the number of cards played,
// wrapping through the seats.
func (e *Engine) WhoseTurn(ctx context.Context, gameID string) (string, error) {
	players, err := e.requireGame(ctx, gameID)
	if err != nil {
		return "", err
	}
	round, err := e.currentRound(ctx, gameID)
	if err != nil {
		return "", err
	}
	trick, err := e.store.CurrentTrick(ctx, gameID)
	if err != nil {
		return "", err
	}
	seat, err := e.turnSeat(ctx, gameID, round, trick, len(players))
	if err != nil {
		return "", err
	}
	return players[seat], nil
}

// currentRound resolves the round pointer; a game that has not started
// has none, which surfaces as ErrNotStarted rather than a storage error.
func (e *Engine) currentRound(ctx context.Context, gameID string) (int, error) {
	round, err := e.store.CurrentRound(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrNotStarted
		}
		return 0, err
	}
	return round, nil
}

func (e *Engine) turnSeat(ctx context.Context, gameID string, round, trick, n int) (int, error) {
	leader, err := e.store.TrickLeader(ctx, gameID, round, trick)
	if err != nil {
		return 0, err
	}
	played, err := e.store.TrickCards(ctx, gameID, round, trick)
	if err != nil {
		return 0, err
	}
	return (leader + len(played)) % n, nil
}

// PlayCard validates and applies one card play; on the trick's last card
// it resolves the winner and records it.
func (e *Engine) PlayCard(ctx context.Context, gameID, playerID string, card Card) (*PlayResult, error) {
	unlock := e.locks.lock(gameID)
	defer unlock()

	players, err := e.requireGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	seat := -1
	for i, p := range players {
		if p == playerID {
			seat = i
			break
		}
	}
	if seat < 0 {
		return nil, ErrUnknownPlayer
	}
	n := len(players)

	round, err := e.currentRound(ctx, gameID)
	if err != nil {
		return nil, err
	}
	trick, err := e.store.CurrentTrick(ctx, gameID)
	if err != nil {
		return nil, err
	}

	bets, err := e.store.Bets(ctx, gameID, round)
	if err != nil {
		return nil, err
	}
	waiting := []string{}
	for i, b := range bets {
		if b == nil {
			waiting = append(waiting, players[i])
		}
	}
	if len(waiting) > 0 {
		return nil, &BetsPendingError{Waiting: waiting}
	}

	leader, err := e.store.TrickLeader(ctx, gameID, round, trick)
	if err != nil {
		return nil, err
	}
	playedRaw, err := e.store.TrickCards(ctx, gameID, round, trick)
	if err != nil {
		return nil, err
	}
	// A full trick stays closed until the acknowledgments advance past it;
	// without this the turn computation wraps back to the leader.
	if len(playedRaw) >= n {
		return nil, ErrTrickComplete
	}
	turn := (leader + len(playedRaw)) % n
	if seat != turn {
		return nil, &OutOfTurnError{PlayerID: playerID, TurnOf: players[turn]}
	}

	rawHand, err := e.store.Hand(ctx, gameID, round, seat)
	if err != nil {
		return nil, err
	}
	hand, err := parseCards(rawHand)
	if err != nil {
		return nil, err
	}
	idx, held := cardsContain(hand, card)
	if !held {
		return nil, ErrCardNotHeld
	}

	played, err := parseCards(playedRaw)
	if err != nil {
		return nil, err
	}

	lead, haveLead := Suit(0), false
	if v, err := e.store.LeadSuit(ctx, gameID, round, trick); err == nil {
		if s, perr := ParseSuit(v); perr == nil {
			lead, haveLead = s, true
		}
	}

	// The first card of a trick sets the lead suit; a jester lead is
	// overridden by the first non-jester card.
	leadChanged := false
	if len(played) == 0 || (haveLead && lead == Jester && card.Suit != Jester) {
		lead, haveLead, leadChanged = card.Suit, true, true
	}
	if err := checkFollowsSuit(card, hand, lead, haveLead && !leadChanged); err != nil {
		return nil, err
	}

	rest := append(append([]Card{}, hand[:idx]...), hand[idx+1:]...)
	if err := e.store.SetHand(ctx, gameID, round, seat, encodeCards(rest)); err != nil {
		return nil, err
	}
	if err := e.store.AppendTrickCard(ctx, gameID, round, trick, card.String()); err != nil {
		return nil, err
	}
	if leadChanged {
		if err := e.store.SetLeadSuit(ctx, gameID, round, trick, lead.String()); err != nil {
			return nil, err
		}
	}

	res := &PlayResult{LeadSuit: lead, LeadChanged: leadChanged}
	played = append(played, card)
	if len(played) < n {
		return res, nil
	}

	trumpRaw, err := e.store.Trump(ctx, gameID, round)
	if err != nil {
		return nil, err
	}
	trump, err := ParseSuit(trumpRaw)
	if err != nil {
		return nil, err
	}
	winIdx := evaluateTrick(played, trump, lead)
	winnerSeat := (leader + winIdx) % n
	winnerID := players[winnerSeat]
	if err := e.store.SetTaken(ctx, gameID, round, trick, winnerID); err != nil {
		return nil, err
	}
	if trick < round {
		// Winner opens the next trick of this round.
		if err := e.store.SetTrickLeader(ctx, gameID, round, trick+1, winnerSeat); err != nil {
			return nil, err
		}
	}
	res.TrickComplete = true
	res.Winner = winnerID
	return res, nil
}

// ReadyForNextTrick records one player's acknowledgment of the completed
// trick; the last acknowledgment advances the trick, the round, or ends
// the game.
func (e *Engine) ReadyForNextTrick(ctx context.Context, gameID, playerID string) (*Advance, error) {
	unlock := e.locks.lock(gameID)
	defer unlock()

	players, err := e.requireGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if err := e.PlayerExists(ctx, gameID, playerID); err != nil {
		return nil, err
	}
	round, err := e.currentRound(ctx, gameID)
	if err != nil {
		return nil, err
	}
	trick, err := e.store.CurrentTrick(ctx, gameID)
	if err != nil {
		return nil, err
	}
	// Acknowledgments apply to a finished trick only; accepting them
	// earlier would abandon the trick's remaining plays.
	played, err := e.store.TrickCards(ctx, gameID, round, trick)
	if err != nil {
		return nil, err
	}
	if len(played) < len(players) {
		return nil, ErrTrickNotComplete
	}
	if err := e.store.AddReady(ctx, gameID, round, trick, playerID); err != nil {
		return nil, err
	}
	count, err := e.store.ReadyCount(ctx, gameID, round, trick)
	if err != nil {
		return nil, err
	}
	n := len(players)
	if count < n {
		return &Advance{}, nil
	}

	if trick < round {
		if err := e.store.SetCurrentTrick(ctx, gameID, trick+1); err != nil {
			return nil, err
		}
		return &Advance{AllReady: true, Trick: trick + 1}, nil
	}
	if round+1 >= DeckSize/n {
		if err := e.store.MarkComplete(ctx, gameID); err != nil {
			return nil, err
		}
		return &Advance{AllReady: true, GameComplete: true}, nil
	}
	rs, err := e.startRound(ctx, gameID, round+1, players)
	if err != nil {
		return nil, err
	}
	return &Advance{AllReady: true, NewRound: rs}, nil
}
