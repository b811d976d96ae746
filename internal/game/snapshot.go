package game

import "context"

// PlayedCard is one card of the current trick with the seat that played it.
type PlayedCard struct {
	Seat     int    `json:"seat"`
	PlayerID string `json:"player_id"`
	Card     string `json:"card"`
}

// RoundView is the public betting record of one round: bets by seat (null
// until placed) and tricks taken by seat so far.
type RoundView struct {
	Round       int    `json:"round"`
	Trump       string `json:"trump"`
	Bets        []*int `json:"bets"`
	TricksTaken []int  `json:"tricks_taken"`
}

// Snapshot is the consistent read model one player receives on join or
// reconnect. Hand holds only the requesting player's cards.
type Snapshot struct {
	GameID        string       `json:"game_id"`
	Players       []string     `json:"players"`
	Started       bool         `json:"started"`
	Complete      bool         `json:"complete"`
	Round         int          `json:"round"`
	Trick         int          `json:"trick"`
	Trump         string       `json:"trump,omitempty"`
	Hand          []string     `json:"hand"`
	TrickLeader   string       `json:"trick_leader,omitempty"`
	Turn          string       `json:"turn,omitempty"`
	Played        []PlayedCard `json:"played"`
	Rounds        []RoundView  `json:"rounds"`
	BettingClosed bool         `json:"betting_closed"`
}

// Assemble builds the state snapshot for one requesting player. Read-only:
// it runs lock-free against the store.
func (e *Engine) Assemble(ctx context.Context, gameID, playerID string) (*Snapshot, error) {
	players, err := e.requireGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	// An empty playerID yields a spectator snapshot with no hand.
	seat := -1
	for i, p := range players {
		if p == playerID {
			seat = i
			break
		}
	}
	if seat < 0 && playerID != "" {
		return nil, ErrUnknownPlayer
	}

	snap := &Snapshot{
		GameID:  gameID,
		Players: players,
		Hand:    []string{},
		Played:  []PlayedCard{},
		Rounds:  []RoundView{},
	}
	snap.Started, err = e.store.Started(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !snap.Started {
		return snap, nil
	}
	snap.Complete, err = e.store.Complete(ctx, gameID)
	if err != nil {
		return nil, err
	}

	n := len(players)
	round, err := e.store.CurrentRound(ctx, gameID)
	if err != nil {
		return nil, err
	}
	trick, err := e.store.CurrentTrick(ctx, gameID)
	if err != nil {
		return nil, err
	}
	snap.Round = round
	snap.Trick = trick

	if snap.Trump, err = e.store.Trump(ctx, gameID, round); err != nil {
		return nil, err
	}
	if seat >= 0 {
		if snap.Hand, err = e.store.Hand(ctx, gameID, round, seat); err != nil {
			return nil, err
		}
	}

	leader, err := e.store.TrickLeader(ctx, gameID, round, trick)
	if err != nil {
		return nil, err
	}
	snap.TrickLeader = players[leader]
	played, err := e.store.TrickCards(ctx, gameID, round, trick)
	if err != nil {
		return nil, err
	}
	for i, card := range played {
		s := (leader + i) % n
		snap.Played = append(snap.Played, PlayedCard{Seat: s, PlayerID: players[s], Card: card})
	}
	if len(played) < n {
		turn := (leader + len(played)) % n
		snap.Turn = players[turn]
	}

	for r := 0; r <= round; r++ {
		view := RoundView{Round: r, TricksTaken: make([]int, n)}
		if view.Trump, err = e.store.Trump(ctx, gameID, r); err != nil {
			return nil, err
		}
		if view.Bets, err = e.store.Bets(ctx, gameID, r); err != nil {
			return nil, err
		}
		taken, err := e.store.Taken(ctx, gameID, r)
		if err != nil {
			return nil, err
		}
		for _, winner := range taken {
			for s, p := range players {
				if p == winner {
					view.TricksTaken[s]++
					break
				}
			}
		}
		snap.Rounds = append(snap.Rounds, view)
	}

	snap.BettingClosed = true
	for _, b := range snap.Rounds[round].Bets {
		if b == nil {
			snap.BettingClosed = false
			break
		}
	}
	return snap, nil
}
