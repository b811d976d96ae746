package ws

import "wizard-server/internal/game"

const ProtocolVersion = "1.0"

// Command is the single inbound message shape; Type selects the
// operation and unused fields stay zero.
type Command struct {
	Type     string `json:"type"`
	GameID   string `json:"game_id,omitempty"`
	PlayerID string `json:"player_id,omitempty"`
	Bet      int    `json:"bet,omitempty"`
	Card     string `json:"card,omitempty"`
}

type ErrorMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}

type GameCreated struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	GameID          string `json:"game_id"`
}

type JoinResult struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	GameID          string `json:"game_id"`
	Seat            int    `json:"seat"`
}

type PlayersChanged struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	GameID          string   `json:"game_id"`
	Players         []string `json:"players"`
}

type StateMessage struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	State           *game.Snapshot `json:"state"`
}

// RoundStarted is personalized: Hand carries only the recipient's cards.
type RoundStarted struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	GameID          string   `json:"game_id"`
	Round           int      `json:"round"`
	Trump           string   `json:"trump"`
	Hand            []string `json:"hand"`
}

type TrumpChanged struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	GameID          string `json:"game_id"`
	Round           int    `json:"round"`
	Trump           string `json:"trump"`
}

type BetPlaced struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	GameID          string `json:"game_id"`
	PlayerID        string `json:"player_id"`
	Bet             int    `json:"bet"`
	AllBetsIn       bool   `json:"all_bets_in"`
}

type ActivePlayerChanged struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	GameID          string `json:"game_id"`
	PlayerID        string `json:"player_id"`
}

type CardPlayed struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	GameID          string `json:"game_id"`
	PlayerID        string `json:"player_id"`
	Card            string `json:"card"`
	LeadSuit        string `json:"lead_suit,omitempty"`
}

type TrickWon struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	GameID          string `json:"game_id"`
	Round           int    `json:"round"`
	Trick           int    `json:"trick"`
	Winner          string `json:"winner"`
}

type PlayerReady struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	GameID          string `json:"game_id"`
	PlayerID        string `json:"player_id"`
}

type TrickStarted struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	GameID          string `json:"game_id"`
	Round           int    `json:"round"`
	Trick           int    `json:"trick"`
	ActivePlayer    string `json:"active_player"`
}

type GameComplete struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	GameID          string          `json:"game_id"`
	Standings       []game.Standing `json:"standings"`
}

type PlayerList struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	GameID          string   `json:"game_id"`
	Players         []string `json:"players"`
}
