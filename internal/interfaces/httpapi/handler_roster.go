package httpapi

import (
	"net/http"
	"strings"

	"github.com/gridironpi/gridiron/internal/domain/team"
	"github.com/gridironpi/gridiron/internal/usecase"
)

type rosterClaimRequest struct {
	Username string `json:"username" validate:"required,max=60"`
	PlayerID string `json:"playerId" validate:"required"`
}

type rosterMoveRequest struct {
	Username string `json:"username" validate:"required,max=60"`
	PlayerID string `json:"playerId" validate:"required"`
	Slot     string `json:"slot"`
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	username := strings.TrimSpace(r.PathValue("username"))
	t, err := h.rosterService.GetTeam(ctx, leagueID, username)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "league_id", leagueID, "username", username, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, t)
}

func (h *Handler) ListClaims(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListClaims")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	claims, err := h.rosterService.ListClaims(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list claims failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, claims)
}

func (h *Handler) ClaimPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClaimPlayer")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	var req rosterClaimRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	t, err := h.rosterService.ClaimPlayer(ctx, leagueID, req.Username, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "claim player failed", "league_id", leagueID, "username", req.Username, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, t)
}

func (h *Handler) ReleasePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReleasePlayer")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	var req rosterClaimRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	t, err := h.rosterService.ReleasePlayer(ctx, leagueID, req.Username, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "release player failed", "league_id", leagueID, "username", req.Username, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, t)
}

func (h *Handler) MovePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MovePlayer")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	var req rosterMoveRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	t, err := h.rosterService.MovePlayer(ctx, usecase.RosterMoveInput{
		LeagueID: leagueID,
		Username: req.Username,
		PlayerID: req.PlayerID,
		Slot:     team.Slot(strings.TrimSpace(req.Slot)),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "move player failed", "league_id", leagueID, "username", req.Username, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, t)
}
