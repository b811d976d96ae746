package store

import "fmt"

// Key composition substitutes for relational joins: every record of a game
// lives under the game:{id}: prefix, which also makes deletion a prefix scan.

func gamePrefix(gameID string) string {
	return "game:" + gameID + ":"
}

func playersKey(gameID string) string {
	return gamePrefix(gameID) + "players"
}

func startedKey(gameID string) string {
	return gamePrefix(gameID) + "started"
}

func completeKey(gameID string) string {
	return gamePrefix(gameID) + "complete"
}

func currentRoundKey(gameID string) string {
	return gamePrefix(gameID) + "current-round"
}

func currentTrickKey(gameID string) string {
	return gamePrefix(gameID) + "current-trick"
}

func roundPrefix(gameID string, round int) string {
	return fmt.Sprintf("%sr%d:", gamePrefix(gameID), round)
}

func dealerKey(gameID string, round int) string {
	return roundPrefix(gameID, round) + "dealer"
}

func trumpKey(gameID string, round int) string {
	return roundPrefix(gameID, round) + "trump"
}

func betsKey(gameID string, round int) string {
	return roundPrefix(gameID, round) + "bets"
}

func takenKey(gameID string, round int) string {
	return roundPrefix(gameID, round) + "taken"
}

func handKey(gameID string, round, seat int) string {
	return fmt.Sprintf("%sp%d:cards", roundPrefix(gameID, round), seat)
}

func trickPrefix(gameID string, round, trick int) string {
	return fmt.Sprintf("%st%d:", roundPrefix(gameID, round), trick)
}

func trickCardsKey(gameID string, round, trick int) string {
	return trickPrefix(gameID, round, trick) + "cards"
}

func leadSuitKey(gameID string, round, trick int) string {
	return trickPrefix(gameID, round, trick) + "leadsuit"
}

func trickLeaderKey(gameID string, round, trick int) string {
	return trickPrefix(gameID, round, trick) + "leader"
}

func readyKey(gameID string, round, trick int) string {
	return trickPrefix(gameID, round, trick) + "ready"
}
