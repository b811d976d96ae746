package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/rs/zerolog/log"

	"wizard-server/internal/game"
	"wizard-server/internal/logging"
	"wizard-server/internal/ws"
)

func newRouter(engine *game.Engine, wsServer *ws.Server) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(apiLogMiddleware()).Get("/healthz", healthHandler())

	r.Route("/api", func(r chi.Router) {
		r.Use(apiLogMiddleware())
		r.Post("/games", createGameHandler(engine))
		r.Route("/games/{game_id}", func(r chi.Router) {
			r.Delete("/", deleteGameHandler(engine))
			r.Post("/players", joinGameHandler(engine))
			r.Get("/players", playersHandler(engine))
			r.Get("/state", stateHandler(engine))
			r.Get("/scores", scoresHandler(engine))
		})
	})

	r.Get("/ws", wsServer.HandleWS)
	return r
}

func apiLogMiddleware() func(http.Handler) http.Handler {
	return httplog.RequestLogger(
		slog.New(slog.NewJSONHandler(logging.Writer(), &slog.HandlerOptions{})),
		&httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.Schema{ResponseStatus: "status", ResponseDuration: "duration_ms"},
			LogExtraAttrs: func(req *http.Request, _ string, _ int) []slog.Attr {
				rc := chi.RouteContext(req.Context())
				route := req.URL.Path
				if rc != nil && rc.RoutePattern() != "" {
					route = rc.RoutePattern()
				}
				return []slog.Attr{
					slog.String("request_id", chimw.GetReqID(req.Context())),
					slog.String("method", req.Method),
					slog.String("route", route),
					slog.String("path", req.URL.Path),
				}
			},
		},
	)
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func createGameHandler(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := engine.CreateGame(r.Context())
		if err != nil {
			writeEngineError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"game_id": id})
	}
}

func deleteGameHandler(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "game_id")
		if err := engine.DeleteGame(r.Context(), gameID); err != nil {
			writeEngineError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func joinGameHandler(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "game_id")
		var body struct {
			PlayerID string `json:"player_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if body.PlayerID == "" {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		seat, err := engine.AddPlayer(r.Context(), gameID, body.PlayerID)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"game_id": gameID, "seat": seat})
	}
}

func playersHandler(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "game_id")
		players, err := engine.Players(r.Context(), gameID)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"game_id": gameID, "players": players})
	}
}

// stateHandler returns the full read model; pass player_id to include
// that player's hand.
func stateHandler(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "game_id")
		playerID := r.URL.Query().Get("player_id")
		snap, err := engine.Assemble(r.Context(), gameID, playerID)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(snap)
	}
}

func scoresHandler(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "game_id")
		snap, err := engine.Assemble(r.Context(), gameID, "")
		if err != nil {
			writeEngineError(w, err)
			return
		}
		scores := make([]map[string]any, 0, len(snap.Players))
		for _, playerID := range snap.Players {
			total, err := engine.CumulativeScore(r.Context(), gameID, playerID, snap.Round)
			if err != nil {
				writeEngineError(w, err)
				return
			}
			scores = append(scores, map[string]any{"player_id": playerID, "score": total})
		}
		out := map[string]any{
			"game_id":  gameID,
			"round":    snap.Round,
			"complete": snap.Complete,
			"scores":   scores,
		}
		if snap.Complete {
			standings, err := engine.GameWinners(r.Context(), gameID)
			if err != nil {
				writeEngineError(w, err)
				return
			}
			out["standings"] = standings
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusConflict
	switch {
	case errors.Is(err, game.ErrGameNotFound), errors.Is(err, game.ErrUnknownPlayer):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrInvalidBet), errors.Is(err, game.ErrCardNotHeld):
		status = http.StatusBadRequest
	}
	code := "internal_error"
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
			code = sentinel.Error()
			break
		}
	}
	if code == "internal_error" {
		status = http.StatusInternalServerError
	}
	writeHTTPError(w, status, code)
}

func writeHTTPError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": code})
}

func logRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
