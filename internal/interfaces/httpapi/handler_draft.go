package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gridironpi/gridiron/internal/domain/team"
	"github.com/gridironpi/gridiron/internal/usecase"
)

type draftConfigureRequest struct {
	Username string   `json:"username" validate:"required,max=60"`
	Order    []string `json:"order" validate:"required,min=2,dive,required"`
}

type draftScheduleRequest struct {
	Username    string `json:"username" validate:"required,max=60"`
	ScheduledAt string `json:"scheduledAt" validate:"required"`
}

type draftPickRequest struct {
	Username string `json:"username" validate:"required,max=60"`
	PlayerID string `json:"playerId" validate:"required"`
	Slot     string `json:"slot"`
}

func (h *Handler) ConfigureDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConfigureDraft")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	var req draftConfigureRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.draftService.Configure(ctx, leagueID, req.Username, req.Order)
	if err != nil {
		h.logger.WarnContext(ctx, "configure draft failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, state)
}

func (h *Handler) ScheduleDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScheduleDraft")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	var req draftScheduleRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	startAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: scheduledAt must be RFC3339", usecase.ErrInvalidInput))
		return
	}

	state, err := h.draftService.SetSchedule(ctx, leagueID, req.Username, startAt)
	if err != nil {
		h.logger.WarnContext(ctx, "schedule draft failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, state)
}

func (h *Handler) StartDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartDraft")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	var req actorRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.draftService.Start(ctx, leagueID, req.Username)
	if err != nil {
		h.logger.WarnContext(ctx, "start draft failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, state)
}

func (h *Handler) PickPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PickPlayer")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	var req draftPickRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.draftService.Pick(ctx, usecase.PickInput{
		LeagueID: leagueID,
		Username: req.Username,
		PlayerID: req.PlayerID,
		Slot:     team.Slot(strings.TrimSpace(req.Slot)),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "draft pick failed", "league_id", leagueID, "username", req.Username, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) AutoPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AutoPick")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	result, err := h.draftService.AutoPick(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "auto pick failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) TickDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TickDraft")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	state, err := h.draftService.Tick(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "draft tick failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, state)
}

func (h *Handler) EndDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EndDraft")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	var req actorRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.draftService.End(ctx, leagueID, req.Username)
	if err != nil {
		h.logger.WarnContext(ctx, "end draft failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, state)
}
