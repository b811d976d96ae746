package game

import (
	"context"
	"sort"
)

// RoundScore is the Wizard scoring formula: an exact bet pays 20 plus 10
// per trick bet; a miss costs 10 per trick of error.
func RoundScore(bet, taken int) int {
	if bet == taken {
		return bet*10 + 20
	}
	diff := bet - taken
	if diff < 0 {
		diff = -diff
	}
	return -10 * diff
}

// Standing is one row of the final ranking.
type Standing struct {
	Position int    `json:"position"`
	PlayerID string `json:"player_id"`
	Score    int    `json:"score"`
}

// PlayerRoundScore derives one player's score for a single round from the
// stored bet and trick winners. Rounds without a recorded bet or with
// unresolved tricks score zero.
func (e *Engine) PlayerRoundScore(ctx context.Context, gameID, playerID string, round int) (int, error) {
	seat, err := e.PlayerIndex(ctx, gameID, playerID)
	if err != nil {
		return 0, err
	}
	bets, err := e.store.Bets(ctx, gameID, round)
	if err != nil {
		return 0, err
	}
	if seat >= len(bets) || bets[seat] == nil {
		return 0, nil
	}
	taken, err := e.store.Taken(ctx, gameID, round)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, winner := range taken {
		if winner == "" {
			// Round still in progress.
			return 0, nil
		}
		if winner == playerID {
			count++
		}
	}
	return RoundScore(*bets[seat], count), nil
}

// CumulativeScore sums the player's scores over rounds 0..uptoRound.
func (e *Engine) CumulativeScore(ctx context.Context, gameID, playerID string, uptoRound int) (int, error) {
	total := 0
	for r := 0; r <= uptoRound; r++ {
		s, err := e.PlayerRoundScore(ctx, gameID, playerID, r)
		if err != nil {
			return 0, err
		}
		total += s
	}
	return total, nil
}

// GameWinners ranks every participant by cumulative score through the
// game's final round and returns the top three standings. Ties keep join
// order: the earliest-joined player wins the tie.
func (e *Engine) GameWinners(ctx context.Context, gameID string) ([]Standing, error) {
	players, err := e.requireGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	lastRound := DeckSize/len(players) - 1
	standings := make([]Standing, 0, len(players))
	for _, p := range players {
		score, err := e.CumulativeScore(ctx, gameID, p, lastRound)
		if err != nil {
			return nil, err
		}
		standings = append(standings, Standing{PlayerID: p, Score: score})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})
	if len(standings) > 3 {
		standings = standings[:3]
	}
	for i := range standings {
		standings[i].Position = i + 1
	}
	return standings, nil
}
