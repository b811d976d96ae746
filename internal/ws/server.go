package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"wizard-server/internal/game"
)

type Client struct {
	conn     *websocket.Conn
	send     chan []byte
	gameID   string
	playerID string
}

// Server relays player commands into the engine and fans the resulting
// notifications back out to everyone at the same game. It owns no game
// state: any server process can pick up any client.
type Server struct {
	engine   *game.Engine
	upgrader websocket.Upgrader
	mu       sync.Mutex
	rooms    map[string]map[*Client]bool
}

func NewServer(engine *game.Engine) *Server {
	return &Server{
		engine:   engine,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		rooms:    map[string]map[*Client]bool{},
	}
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{conn: conn, send: make(chan []byte, 16)}
	go s.writeLoop(client)
	s.readLoop(client)
}

func (s *Server) readLoop(c *Client) {
	defer func() {
		s.unregister(c)
		_ = c.conn.Close()
	}()
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd Command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			s.sendError(c, "invalid_json", "message is not valid JSON")
			continue
		}
		s.handle(c, cmd)
	}
}

func (s *Server) writeLoop(c *Client) {
	for msg := range c.send {
		_ = c.conn.WriteMessage(websocket.TextMessage, msg)
	}
}

func (s *Server) handle(c *Client, cmd Command) {
	ctx := context.Background()
	switch cmd.Type {
	case "create":
		id, err := s.engine.CreateGame(ctx)
		if err != nil {
			s.fail(c, err)
			return
		}
		log.Info().Str("game_id", id).Msg("game_created")
		s.sendTo(c, GameCreated{Type: "game_created", ProtocolVersion: ProtocolVersion, GameID: id})
	case "join":
		seat, err := s.engine.AddPlayer(ctx, cmd.GameID, cmd.PlayerID)
		if err != nil {
			s.fail(c, err)
			return
		}
		s.register(c, cmd.GameID, cmd.PlayerID)
		s.sendTo(c, JoinResult{Type: "join_result", ProtocolVersion: ProtocolVersion, GameID: cmd.GameID, Seat: seat})
		s.broadcastPlayers(ctx, cmd.GameID)
	case "rejoin":
		snap, err := s.engine.Assemble(ctx, cmd.GameID, cmd.PlayerID)
		if err != nil {
			s.fail(c, err)
			return
		}
		s.register(c, cmd.GameID, cmd.PlayerID)
		s.sendTo(c, StateMessage{Type: "state", ProtocolVersion: ProtocolVersion, State: snap})
	case "start":
		rs, err := s.engine.StartGame(ctx, cmd.GameID)
		if err != nil {
			s.fail(c, err)
			return
		}
		log.Info().Str("game_id", cmd.GameID).Msg("game_started")
		s.broadcastRoundStart(cmd.GameID, rs)
	case "bet":
		allIn, err := s.engine.PlaceBet(ctx, cmd.GameID, cmd.PlayerID, cmd.Bet)
		if err != nil {
			s.fail(c, err)
			return
		}
		s.broadcast(cmd.GameID, BetPlaced{
			Type: "bet_placed", ProtocolVersion: ProtocolVersion,
			GameID: cmd.GameID, PlayerID: cmd.PlayerID, Bet: cmd.Bet, AllBetsIn: allIn,
		})
		if allIn {
			s.broadcastTrickStart(ctx, cmd.GameID)
		}
	case "play":
		card, err := game.ParseCard(cmd.Card)
		if err != nil {
			s.sendError(c, "invalid_card", err.Error())
			return
		}
		res, err := s.engine.PlayCard(ctx, cmd.GameID, cmd.PlayerID, card)
		if err != nil {
			s.fail(c, err)
			return
		}
		played := CardPlayed{
			Type: "card_played", ProtocolVersion: ProtocolVersion,
			GameID: cmd.GameID, PlayerID: cmd.PlayerID, Card: cmd.Card,
		}
		if res.LeadChanged {
			played.LeadSuit = res.LeadSuit.String()
		}
		s.broadcast(cmd.GameID, played)
		if res.TrickComplete {
			round, trick := s.currentPosition(ctx, cmd.GameID)
			s.broadcast(cmd.GameID, TrickWon{
				Type: "trick_won", ProtocolVersion: ProtocolVersion,
				GameID: cmd.GameID, Round: round, Trick: trick, Winner: res.Winner,
			})
			return
		}
		if turn, err := s.engine.WhoseTurn(ctx, cmd.GameID); err == nil {
			s.broadcast(cmd.GameID, ActivePlayerChanged{
				Type: "active_player_changed", ProtocolVersion: ProtocolVersion,
				GameID: cmd.GameID, PlayerID: turn,
			})
		}
	case "ready":
		adv, err := s.engine.ReadyForNextTrick(ctx, cmd.GameID, cmd.PlayerID)
		if err != nil {
			s.fail(c, err)
			return
		}
		s.broadcast(cmd.GameID, PlayerReady{
			Type: "player_ready", ProtocolVersion: ProtocolVersion,
			GameID: cmd.GameID, PlayerID: cmd.PlayerID,
		})
		if !adv.AllReady {
			return
		}
		switch {
		case adv.GameComplete:
			standings, err := s.engine.GameWinners(ctx, cmd.GameID)
			if err != nil {
				s.fail(c, err)
				return
			}
			log.Info().Str("game_id", cmd.GameID).Msg("game_complete")
			s.broadcast(cmd.GameID, GameComplete{
				Type: "game_complete", ProtocolVersion: ProtocolVersion,
				GameID: cmd.GameID, Standings: standings,
			})
		case adv.NewRound != nil:
			s.broadcastRoundStart(cmd.GameID, adv.NewRound)
		default:
			s.broadcastTrickStart(ctx, cmd.GameID)
		}
	case "list_players":
		players, err := s.engine.Players(ctx, cmd.GameID)
		if err != nil {
			s.fail(c, err)
			return
		}
		s.sendTo(c, PlayerList{Type: "player_list", ProtocolVersion: ProtocolVersion, GameID: cmd.GameID, Players: players})
	default:
		s.sendError(c, "unknown_command", "unsupported command type: "+cmd.Type)
	}
}

func (s *Server) register(c *Client, gameID, playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.gameID != "" {
		if room := s.rooms[c.gameID]; room != nil {
			delete(room, c)
		}
	}
	c.gameID = gameID
	c.playerID = playerID
	room := s.rooms[gameID]
	if room == nil {
		room = map[*Client]bool{}
		s.rooms[gameID] = room
	}
	room[c] = true
}

func (s *Server) unregister(c *Client) {
	s.mu.Lock()
	if room := s.rooms[c.gameID]; room != nil {
		delete(room, c)
		if len(room) == 0 {
			delete(s.rooms, c.gameID)
		}
	}
	s.mu.Unlock()
	safeClose(c.send)
}

func (s *Server) broadcastPlayers(ctx context.Context, gameID string) {
	players, err := s.engine.Players(ctx, gameID)
	if err != nil {
		return
	}
	s.broadcast(gameID, PlayersChanged{
		Type: "players_changed", ProtocolVersion: ProtocolVersion,
		GameID: gameID, Players: players,
	})
}

// broadcastRoundStart delivers each participant their private hand and
// announces the round's trump to the whole room.
func (s *Server) broadcastRoundStart(gameID string, rs *game.RoundStart) {
	s.mu.Lock()
	clients := make([]*Client, 0, len(s.rooms[gameID]))
	for c := range s.rooms[gameID] {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		hand := make([]string, 0)
		for _, card := range rs.Hands[c.playerID] {
			hand = append(hand, card.String())
		}
		s.sendTo(c, RoundStarted{
			Type: "round_started", ProtocolVersion: ProtocolVersion,
			GameID: gameID, Round: rs.Round, Trump: rs.Trump.String(), Hand: hand,
		})
	}
	s.broadcast(gameID, TrumpChanged{
		Type: "trump_changed", ProtocolVersion: ProtocolVersion,
		GameID: gameID, Round: rs.Round, Trump: rs.Trump.String(),
	})
}

func (s *Server) broadcastTrickStart(ctx context.Context, gameID string) {
	round, trick := s.currentPosition(ctx, gameID)
	turn, err := s.engine.WhoseTurn(ctx, gameID)
	if err != nil {
		return
	}
	s.broadcast(gameID, TrickStarted{
		Type: "trick_started", ProtocolVersion: ProtocolVersion,
		GameID: gameID, Round: round, Trick: trick, ActivePlayer: turn,
	})
	s.broadcast(gameID, ActivePlayerChanged{
		Type: "active_player_changed", ProtocolVersion: ProtocolVersion,
		GameID: gameID, PlayerID: turn,
	})
}

func (s *Server) currentPosition(ctx context.Context, gameID string) (int, int) {
	snap, err := s.engine.Assemble(ctx, gameID, "")
	if err != nil {
		return 0, 0
	}
	return snap.Round, snap.Trick
}

func (s *Server) broadcast(gameID string, msg any) {
	blob, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.mu.Lock()
	for c := range s.rooms[gameID] {
		safeSend(c.send, blob)
	}
	s.mu.Unlock()
}

func (s *Server) sendTo(c *Client, msg any) {
	blob, err := json.Marshal(msg)
	if err != nil {
		return
	}
	safeSend(c.send, blob)
}

// fail reports an engine rejection to the offending client only; rule
// violations are never broadcast.
func (s *Server) fail(c *Client, err error) {
	s.sendError(c, mapError(err), err.Error())
}

func (s *Server) sendError(c *Client, code, message string) {
	s.sendTo(c, ErrorMessage{Type: "error", ProtocolVersion: ProtocolVersion, Code: code, Message: message})
}

func safeClose(ch chan []byte) {
	defer func() {
		_ = recover()
	}()
	close(ch)
}

func safeSend(ch chan []byte, msg []byte) {
	defer func() {
		_ = recover()
	}()
	select {
	case ch <- msg:
	default:
	}
}

func mapError(err error) string {
	for _, sentinel := range []error{
		game.ErrGameNotFound,
		game.ErrDuplicatePlayer,
		game.ErrGameFull,
		game.ErrUnknownPlayer,
		game.ErrTooFewPlayers,
		game.ErrAlreadyStarted,
		game.ErrNotStarted,
		game.ErrTrickComplete,
		game.ErrTrickNotComplete,
		game.ErrInvalidBet,
		game.ErrBetAlreadySet,
		game.ErrBetsPending,
		game.ErrOutOfTurn,
		game.ErrMustFollowSuit,
		game.ErrCardNotHeld,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal_error"
}
