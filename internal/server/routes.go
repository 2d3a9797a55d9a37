package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"skullking-game/internal/game"
	"skullking-game/internal/protocol"
	"skullking-game/internal/shared"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler exposes the game session over HTTP.
type Handler struct {
	game *game.Game
	hub  *Hub
}

func NewHandler(g *game.Game, hub *Hub) *Handler {
	return &Handler{game: g, hub: hub}
}

// Register mounts the routes on e.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.GET("/ws", h.Ws)
	e.GET("/api/table", h.Table)
	e.POST("/api/players/:name", h.AddPlayer)
	e.GET("/api/hands/:id", h.Hand)
	e.POST("/api/hands/:id/play", h.Play)
	e.POST("/api/start", h.Start)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Ws(c echo.Context) error {
	ServeWs(h.hub, c.Response(), c.Request())
	return nil
}

func (h *Handler) Table(c echo.Context) error {
	return c.JSON(http.StatusOK, h.game.Status())
}

func (h *Handler) AddPlayer(c echo.Context) error {
	p, err := h.game.AddPlayer(c.Param("name"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Hand(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "player id must be an integer"})
	}
	hand, err := h.game.Hand(id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, hand)
}

// Play plays a card from the hand of a seated player. It lets seats added
// through the API take part without a websocket connection.
func (h *Handler) Play(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "player id must be an integer"})
	}
	var payload protocol.PlayCardPayload
	if err := json.NewDecoder(c.Request().Body).Decode(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid card: " + err.Error()})
	}
	if err := h.game.Play(id, payload.Card); err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, h.game.Status())
}

func (h *Handler) Start(c echo.Context) error {
	if err := h.game.Start(); err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, h.game.Status())
}

func mapError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shared.ErrSeatNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrEmptyName),
		errors.Is(err, shared.ErrCardNotInHand),
		errors.Is(err, shared.ErrInvalidOperation):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrTableFull),
		errors.Is(err, game.ErrGameStarted),
		errors.Is(err, game.ErrNotEnoughPlayers),
		errors.Is(err, game.ErrNotPlaying),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrNotYourTurn):
		status = http.StatusConflict
	}
	return c.JSON(status, ErrorResponse{Error: err.Error()})
}
