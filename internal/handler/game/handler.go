package game

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	game "github.com/whoami-game/backend/internal/model/game"
	gameService "github.com/whoami-game/backend/internal/service/game"
	"github.com/whoami-game/backend/internal/storage"
	"github.com/whoami-game/backend/pkg/utils"
)

// Cookie names for the caller-side "current game" default. They are a
// convenience for front ends, never authoritative state: every route
// still takes an explicit game ID.
const (
	cookiePlayerName = "playerName"
	cookieGameID     = "gameId"
)

// Handler exposes the game engine over JSON REST.
type Handler struct {
	gameSvc *gameService.Service
}

// New creates the game handler.
func New(gameSvc *gameService.Service) *Handler {
	return &Handler{gameSvc: gameSvc}
}

// RegisterRoutes mounts the game routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/games", h.handleCreateGame)
	r.Route("/games/{gameID}", func(r chi.Router) {
		r.Post("/join", h.handleJoin)
		r.Post("/leave", h.handleLeave)
		r.Post("/start", h.handleStart)
		r.Post("/reset", h.handleReset)
		r.Post("/reload", h.handleReload)
		r.Get("/status", h.handleStatus)
	})
}

func (h *Handler) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	sess, err := h.gameSvc.Create(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "could not create game")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]string{
		"gameId":  sess.ID,
		"message": "game created successfully",
	})
}

func (h *Handler) handleJoin(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	var payload struct {
		PlayerName string `json:"playerName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, joined, err := h.gameSvc.Join(r.Context(), gameID, payload.PlayerName)
	if err != nil {
		switch {
		case errors.Is(err, gameService.ErrSessionNotFound):
			utils.RespondError(w, http.StatusNotFound, "game not found")
		case errors.Is(err, game.ErrInvalidPlayer):
			utils.RespondError(w, http.StatusBadRequest, "player name is required")
		default:
			utils.RespondError(w, http.StatusInternalServerError, "could not join game")
		}
		return
	}

	playerName := game.NormalizeName(payload.PlayerName)
	setGameCookies(w, sess.ID, playerName)

	message := "joined game " + sess.ID
	if !joined {
		message = "welcome back to game " + sess.ID
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"message":       message,
		"playerName":    playerName,
		"alreadyMember": !joined,
	})
}

func (h *Handler) handleLeave(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	// The player name may come from the body or fall back to the join
	// cookie, so an empty body is fine here.
	var payload struct {
		PlayerName string `json:"playerName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	playerName := payload.PlayerName
	if playerName == "" {
		playerName = cookieValue(r, cookiePlayerName)
	}

	_, removed, err := h.gameSvc.Leave(r.Context(), gameID, playerName)
	if err != nil {
		if errors.Is(err, gameService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "game not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "could not leave game")
		return
	}
	if !removed {
		utils.RespondError(w, http.StatusNotFound, "player is not in this game")
		return
	}

	clearGameCookies(w)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "left the game"})
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	sess, err := h.gameSvc.Start(r.Context(), gameID)
	if err != nil {
		switch {
		case errors.Is(err, gameService.ErrSessionNotFound):
			utils.RespondError(w, http.StatusNotFound, "game not found")
		case errors.Is(err, game.ErrInsufficientPlayers):
			utils.RespondError(w, http.StatusConflict, "could not start game (need 2+ players)")
		default:
			utils.RespondError(w, http.StatusInternalServerError, "could not start game")
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"message": "game started",
		"players": sess.Players,
	})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	if _, err := h.gameSvc.Reset(r.Context(), gameID); err != nil {
		if errors.Is(err, gameService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "game not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "could not reset game")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "game reset, all players removed",
	})
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	if _, err := h.gameSvc.Reload(r.Context(), gameID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "no stored copy of this game")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "could not reload game")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "game reloaded from storage",
	})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	playerName := r.URL.Query().Get("playerName")
	if playerName == "" {
		playerName = cookieValue(r, cookiePlayerName)
	}
	if playerName == "" {
		utils.RespondError(w, http.StatusBadRequest, "playerName is required")
		return
	}

	status, err := h.gameSvc.Status(r.Context(), gameID, playerName)
	if err != nil {
		if errors.Is(err, gameService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "game not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "could not read game status")
		return
	}

	utils.RespondJSON(w, http.StatusOK, status)
}

func setGameCookies(w http.ResponseWriter, gameID, playerName string) {
	http.SetCookie(w, &http.Cookie{Name: cookieGameID, Value: gameID, Path: "/"})
	http.SetCookie(w, &http.Cookie{Name: cookiePlayerName, Value: playerName, Path: "/"})
}

func clearGameCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: cookieGameID, Value: "", Path: "/", MaxAge: -1})
	http.SetCookie(w, &http.Cookie{Name: cookiePlayerName, Value: "", Path: "/", MaxAge: -1})
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
