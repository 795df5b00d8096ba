package game_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/whoami-game/backend/internal/handler/game"
	"github.com/whoami-game/backend/internal/model/words"
	gameservice "github.com/whoami-game/backend/internal/service/game"
	"github.com/whoami-game/backend/internal/storage"
)

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore err: %v", err)
	}
	svc := gameservice.NewService(store, words.Defaults(), gameservice.NewAssigner(1), 0)

	r := chi.NewRouter()
	game.New(svc).RegisterRoutes(r)
	return r
}

func createGame(t *testing.T, r *chi.Mux) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/games", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.Code)
	}
	var body struct {
		GameID string `json:"gameId"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if body.GameID == "" {
		t.Fatal("create response missing gameId")
	}
	return body.GameID
}

func joinGame(t *testing.T, r *chi.Mux, gameID, playerName string) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"playerName": playerName})
	req := httptest.NewRequest(http.MethodPost, "/games/"+gameID+"/join", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestCreateAndJoin(t *testing.T) {
	r := setupRouter(t)
	gameID := createGame(t, r)

	resp := joinGame(t, r, gameID, "ana")
	if resp.Code != http.StatusOK {
		t.Fatalf("join: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		PlayerName    string `json:"playerName"`
		AlreadyMember bool   `json:"alreadyMember"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode join response: %v", err)
	}
	if body.PlayerName != "ANA" || body.AlreadyMember {
		t.Fatalf("unexpected join response: %+v", body)
	}

	cookies := resp.Result().Cookies()
	var sawPlayer, sawGame bool
	for _, c := range cookies {
		switch c.Name {
		case "playerName":
			sawPlayer = c.Value == "ANA"
		case "gameId":
			sawGame = c.Value == gameID
		}
	}
	if !sawPlayer || !sawGame {
		t.Fatalf("join must set the current-game cookies, got %v", cookies)
	}
}

func TestJoinRejoinReportsMembership(t *testing.T) {
	r := setupRouter(t)
	gameID := createGame(t, r)

	joinGame(t, r, gameID, "ana")
	resp := joinGame(t, r, gameID, "ANA")
	if resp.Code != http.StatusOK {
		t.Fatalf("rejoin: expected 200, got %d", resp.Code)
	}
	var body struct {
		AlreadyMember bool `json:"alreadyMember"`
	}
	json.Unmarshal(resp.Body.Bytes(), &body)
	if !body.AlreadyMember {
		t.Fatal("rejoin must report alreadyMember")
	}
}

func TestJoinUnknownGame(t *testing.T) {
	r := setupRouter(t)

	resp := joinGame(t, r, "NOPE99", "ana")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestJoinBlankName(t *testing.T) {
	r := setupRouter(t)
	gameID := createGame(t, r)

	resp := joinGame(t, r, gameID, "   ")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestStartNeedsTwoPlayers(t *testing.T) {
	r := setupRouter(t)
	gameID := createGame(t, r)
	joinGame(t, r, gameID, "ana")

	req := httptest.NewRequest(http.MethodPost, "/games/"+gameID+"/start", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestStatusFlow(t *testing.T) {
	r := setupRouter(t)
	gameID := createGame(t, r)
	joinGame(t, r, gameID, "ana")
	joinGame(t, r, gameID, "bruno")

	req := httptest.NewRequest(http.MethodPost, "/games/"+gameID+"/start", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/games/"+gameID+"/status?playerName=ana", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("status: expected 200, got %d", resp.Code)
	}

	var status struct {
		GameID         string `json:"gameId"`
		Active         bool   `json:"active"`
		Players        []string
		VisibleRows    []map[string]string `json:"visibleRows"`
		Assignment     *map[string]string  `json:"assignment"`
		IsPlayerInGame bool                `json:"isPlayerInGame"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.GameID != gameID || !status.Active || !status.IsPlayerInGame {
		t.Fatalf("unexpected status: %+v", status)
	}
	if len(status.Players) != 2 {
		t.Fatalf("expected 2 players, got %v", status.Players)
	}
	if len(status.VisibleRows) != 1 || status.VisibleRows[0]["player"] != "BRUNO" {
		t.Fatalf("ana must see only bruno's row: %v", status.VisibleRows)
	}
	if status.Assignment == nil {
		t.Fatal("own assignment must be present in the status payload")
	}
}

func TestStatusFallsBackToCookie(t *testing.T) {
	r := setupRouter(t)
	gameID := createGame(t, r)
	joinGame(t, r, gameID, "ana")

	req := httptest.NewRequest(http.MethodGet, "/games/"+gameID+"/status", nil)
	req.AddCookie(&http.Cookie{Name: "playerName", Value: "ANA"})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 via cookie fallback, got %d", resp.Code)
	}
}

func TestStatusWithoutPlayerName(t *testing.T) {
	r := setupRouter(t)
	gameID := createGame(t, r)

	req := httptest.NewRequest(http.MethodGet, "/games/"+gameID+"/status", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestStatusUnknownGame(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/games/NOPE99/status?playerName=ana", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestLeaveGame(t *testing.T) {
	r := setupRouter(t)
	gameID := createGame(t, r)
	joinGame(t, r, gameID, "ana")

	payload, _ := json.Marshal(map[string]string{"playerName": "ana"})
	req := httptest.NewRequest(http.MethodPost, "/games/"+gameID+"/leave", bytes.NewReader(payload))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("leave: expected 200, got %d", resp.Code)
	}

	// Leaving again reports the player as unknown.
	req = httptest.NewRequest(http.MethodPost, "/games/"+gameID+"/leave", bytes.NewReader(payload))
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("second leave: expected 404, got %d", resp.Code)
	}
}

func TestResetEmptiesGame(t *testing.T) {
	r := setupRouter(t)
	gameID := createGame(t, r)
	joinGame(t, r, gameID, "ana")
	joinGame(t, r, gameID, "bruno")

	req := httptest.NewRequest(http.MethodPost, "/games/"+gameID+"/reset", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/games/"+gameID+"/status?playerName=ana", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var status struct {
		Active  bool     `json:"active"`
		Players []string `json:"players"`
	}
	json.Unmarshal(resp.Body.Bytes(), &status)
	if status.Active || len(status.Players) != 0 {
		t.Fatalf("reset game must be empty: %+v", status)
	}
}

func TestReloadWithoutStoredCopy(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/games/NOPE99/reload", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestReloadExistingGame(t *testing.T) {
	r := setupRouter(t)
	gameID := createGame(t, r)

	req := httptest.NewRequest(http.MethodPost, "/games/"+gameID+"/reload", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}
