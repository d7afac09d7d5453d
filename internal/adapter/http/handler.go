package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"forager/internal/adapter/snapshotcodec"
	"forager/internal/app/auth"
	"forager/internal/app/ports"
	"forager/internal/app/replay"
	"forager/internal/app/session"
	"forager/internal/domain/game"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const playerIDHeader = "X-Player-ID"
const playerKeyHeader = "X-Player-Key"

type Handler struct {
	RegisterUC auth.RegisterUseCase
	AuthUC     auth.VerifyUseCase
	NewGameUC  session.NewGameUseCase
	StepUC     session.StepUseCase
	CommandUC  session.CommandUseCase
	SaveUC     session.SaveUseCase
	LoadUC     session.LoadUseCase
	StatusUC   session.StatusUseCase
	SavesUC    session.ListSavesUseCase
	ReplayUC   replay.UseCase
	KPI        kpiSnapshotProvider
	CORSOrigin string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.CORSOrigin))

	s.POST("/api/player/register", h.register)

	g := s.Group("/api/game")
	g.POST("/new", h.newGame)
	g.POST("/step", h.step)
	g.POST("/command", h.command)
	g.POST("/save", h.save)
	g.POST("/load", h.load)
	g.POST("/status", h.status)
	g.GET("/saves", h.saves)
	g.GET("/events", h.events)

	s.GET("/ops/kpi", h.kpi)
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

type stepRequest struct {
	SessionID string          `json:"session_id"`
	Frames    []session.Frame `json:"frames"`
}

type commandRequest struct {
	SessionID string  `json:"session_id"`
	Type      string  `json:"type"`
	Name      string  `json:"name,omitempty"`
	Index     *int    `json:"index,omitempty"`
	Slot      int     `json:"slot,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
}

func (h Handler) register(c context.Context, ctx *app.RequestContext) {
	resp, err := h.RegisterUC.Execute(c, auth.RegisterRequest{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) newGame(c context.Context, ctx *app.RequestContext) {
	playerID, err := h.requireAuthenticatedPlayer(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.NewGameUC.Execute(c, session.NewGameRequest{PlayerID: playerID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) step(c context.Context, ctx *app.RequestContext) {
	playerID, err := h.requireAuthenticatedPlayer(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body stepRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.StepUC.Execute(c, session.StepRequest{
		SessionID: body.SessionID,
		PlayerID:  playerID,
		Frames:    body.Frames,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) command(c context.Context, ctx *app.RequestContext) {
	playerID, err := h.requireAuthenticatedPlayer(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body commandRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.CommandUC.Execute(c, session.CommandRequest{
		SessionID: body.SessionID,
		PlayerID:  playerID,
		Type:      body.Type,
		Name:      body.Name,
		Index:     body.Index,
		Slot:      body.Slot,
		X:         body.X,
		Y:         body.Y,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) save(c context.Context, ctx *app.RequestContext) {
	playerID, body, ok := h.sessionBody(c, ctx)
	if !ok {
		return
	}
	resp, err := h.SaveUC.Execute(c, session.SaveRequest{SessionID: body.SessionID, PlayerID: playerID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) load(c context.Context, ctx *app.RequestContext) {
	playerID, body, ok := h.sessionBody(c, ctx)
	if !ok {
		return
	}
	resp, err := h.LoadUC.Execute(c, session.LoadRequest{SessionID: body.SessionID, PlayerID: playerID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	playerID, body, ok := h.sessionBody(c, ctx)
	if !ok {
		return
	}
	resp, err := h.StatusUC.Execute(c, session.StatusRequest{SessionID: body.SessionID, PlayerID: playerID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) saves(c context.Context, ctx *app.RequestContext) {
	playerID, err := h.requireAuthenticatedPlayer(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	resp, err := h.SavesUC.Execute(c, session.ListSavesRequest{PlayerID: playerID, Limit: limit})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"saves": resp})
}

func (h Handler) events(c context.Context, ctx *app.RequestContext) {
	playerID, err := h.requireAuthenticatedPlayer(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	occurredFrom, _ := strconv.ParseInt(string(ctx.Query("occurred_from")), 10, 64)
	occurredTo, _ := strconv.ParseInt(string(ctx.Query("occurred_to")), 10, 64)
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		SessionID:    string(ctx.Query("session_id")),
		PlayerID:     playerID,
		Limit:        limit,
		Type:         string(ctx.Query("type")),
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

// sessionBody authenticates and decodes the {session_id} body shared by save, load and status.
// It writes the error response itself.
func (h Handler) sessionBody(c context.Context, ctx *app.RequestContext) (string, sessionRequest, bool) {
	playerID, err := h.requireAuthenticatedPlayer(c, ctx)
	if err != nil {
		writeError(ctx, err)
		return "", sessionRequest{}, false
	}
	var body sessionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return "", sessionRequest{}, false
	}
	return playerID, body, true
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var ErrMissingPlayerIDHeader = errors.New("missing x-player-id header")
var ErrMissingPlayerKeyHeader = errors.New("missing x-player-key header")
var ErrMissingPlayerCredentials = errors.New("missing player credentials")

func (h Handler) requireAuthenticatedPlayer(c context.Context, ctx *app.RequestContext) (string, error) {
	playerID := strings.TrimSpace(string(ctx.GetHeader(playerIDHeader)))
	playerKey := strings.TrimSpace(string(ctx.GetHeader(playerKeyHeader)))
	if playerID == "" && playerKey == "" {
		return "", ErrMissingPlayerCredentials
	}
	if playerID == "" {
		return "", ErrMissingPlayerIDHeader
	}
	if playerKey == "" {
		return "", ErrMissingPlayerKeyHeader
	}
	if err := h.AuthUC.Execute(c, auth.VerifyRequest{
		PlayerID:  playerID,
		PlayerKey: playerKey,
	}); err != nil {
		return "", err
	}
	return playerID, nil
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingPlayerCredentials):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_player_credentials", err.Error())
	case errors.Is(err, ErrMissingPlayerIDHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_player_id", err.Error())
	case errors.Is(err, ErrMissingPlayerKeyHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_player_key", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeErrorBody(ctx, consts.StatusUnauthorized, "invalid_player_credentials", err.Error())
	case errors.Is(err, session.ErrUnknownName):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_name", err.Error())
	case errors.Is(err, session.ErrInvalidRequest),
		errors.Is(err, auth.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, session.ErrSessionNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, game.ErrNoSave):
		writeErrorBody(ctx, consts.StatusNotFound, "no_save", err.Error())
	case errors.Is(err, session.ErrGameOver):
		writeErrorBody(ctx, consts.StatusConflict, "game_over", err.Error())
	case errors.Is(err, snapshotcodec.ErrInvalidSnapshot),
		errors.Is(err, game.ErrUnsupportedSnapshot),
		errors.Is(err, game.ErrCorruptSnapshot):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "invalid_snapshot", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
