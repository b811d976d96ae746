package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wizard-server/internal/game"
	"wizard-server/internal/store"
	"wizard-server/internal/ws"
)

func newTestRouter() http.Handler {
	engine := game.NewEngine(store.New(store.NewMemory()))
	return newRouter(engine, ws.NewServer(engine))
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reqBody *strings.Reader
	if body == "" {
		reqBody = strings.NewReader("")
	} else {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reqBody)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode %s %s response: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec.Code, out
}

func TestHealthz(t *testing.T) {
	r := newTestRouter()
	code, body := doJSON(t, r, http.MethodGet, "/healthz", "")
	if code != http.StatusOK || body["ok"] != true {
		t.Fatalf("healthz = %d %v", code, body)
	}
}

func TestCreateJoinAndListPlayers(t *testing.T) {
	r := newTestRouter()

	code, created := doJSON(t, r, http.MethodPost, "/api/games", "")
	if code != http.StatusOK {
		t.Fatalf("create game = %d %v", code, created)
	}
	gameID, _ := created["game_id"].(string)
	if gameID == "" {
		t.Fatalf("missing game_id in %v", created)
	}

	for i, id := range []string{"alice", "bob"} {
		code, joined := doJSON(t, r, http.MethodPost, "/api/games/"+gameID+"/players", `{"player_id":"`+id+`"}`)
		if code != http.StatusOK {
			t.Fatalf("join %s = %d %v", id, code, joined)
		}
		if int(joined["seat"].(float64)) != i {
			t.Fatalf("join %s seat = %v, want %d", id, joined["seat"], i)
		}
	}

	code, players := doJSON(t, r, http.MethodGet, "/api/games/"+gameID+"/players", "")
	if code != http.StatusOK {
		t.Fatalf("list players = %d %v", code, players)
	}
	got := players["players"].([]any)
	if len(got) != 2 || got[0] != "alice" || got[1] != "bob" {
		t.Fatalf("players = %v, want [alice bob]", got)
	}
}

func TestJoinMissingGameIs404(t *testing.T) {
	r := newTestRouter()
	code, body := doJSON(t, r, http.MethodPost, "/api/games/nope/players", `{"player_id":"alice"}`)
	if code != http.StatusNotFound || body["error"] != "game_not_found" {
		t.Fatalf("join missing game = %d %v", code, body)
	}
}

func TestDuplicateJoinIs409(t *testing.T) {
	r := newTestRouter()
	_, created := doJSON(t, r, http.MethodPost, "/api/games", "")
	gameID := created["game_id"].(string)

	doJSON(t, r, http.MethodPost, "/api/games/"+gameID+"/players", `{"player_id":"alice"}`)
	code, body := doJSON(t, r, http.MethodPost, "/api/games/"+gameID+"/players", `{"player_id":"alice"}`)
	if code != http.StatusConflict || body["error"] != "duplicate_player" {
		t.Fatalf("duplicate join = %d %v", code, body)
	}
}

func TestStateForFreshGame(t *testing.T) {
	r := newTestRouter()
	_, created := doJSON(t, r, http.MethodPost, "/api/games", "")
	gameID := created["game_id"].(string)
	doJSON(t, r, http.MethodPost, "/api/games/"+gameID+"/players", `{"player_id":"alice"}`)

	code, state := doJSON(t, r, http.MethodGet, "/api/games/"+gameID+"/state?player_id=alice", "")
	if code != http.StatusOK {
		t.Fatalf("state = %d %v", code, state)
	}
	if state["started"] != false {
		t.Fatalf("expected started=false, got %v", state["started"])
	}
}

func TestScoresForFreshGame(t *testing.T) {
	r := newTestRouter()
	_, created := doJSON(t, r, http.MethodPost, "/api/games", "")
	gameID := created["game_id"].(string)
	for _, id := range []string{"alice", "bob", "carol"} {
		doJSON(t, r, http.MethodPost, "/api/games/"+gameID+"/players", `{"player_id":"`+id+`"}`)
	}

	code, scores := doJSON(t, r, http.MethodGet, "/api/games/"+gameID+"/scores", "")
	if code != http.StatusOK {
		t.Fatalf("scores = %d %v", code, scores)
	}
	items := scores["scores"].([]any)
	if len(items) != 3 {
		t.Fatalf("expected 3 score rows, got %v", items)
	}
	for _, it := range items {
		row := it.(map[string]any)
		if row["score"].(float64) != 0 {
			t.Fatalf("expected zero score before play, got %v", row)
		}
	}
	if _, present := scores["standings"]; present {
		t.Fatalf("standings should be absent before completion: %v", scores)
	}
}

func TestDeleteGameRemovesState(t *testing.T) {
	r := newTestRouter()
	_, created := doJSON(t, r, http.MethodPost, "/api/games", "")
	gameID := created["game_id"].(string)

	code, body := doJSON(t, r, http.MethodDelete, "/api/games/"+gameID, "")
	if code != http.StatusOK || body["ok"] != true {
		t.Fatalf("delete = %d %v", code, body)
	}
	code, _ = doJSON(t, r, http.MethodGet, "/api/games/"+gameID+"/players", "")
	if code != http.StatusNotFound {
		t.Fatalf("players after delete = %d, want 404", code)
	}
}
