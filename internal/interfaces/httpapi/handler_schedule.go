package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) EnsureSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EnsureSchedule")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	recreate := parseQueryBool(r, "recreate")
	weeks, err := h.scheduleService.EnsureSeasonSchedule(ctx, leagueID, recreate)
	if err != nil {
		h.logger.WarnContext(ctx, "ensure schedule failed", "league_id", leagueID, "recreate", recreate, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weeks)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSchedule")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	week, err := parseQueryInt(r, "week", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if week > 0 {
		item, err := h.scheduleService.GetWeek(ctx, leagueID, week)
		if err != nil {
			h.logger.WarnContext(ctx, "get schedule week failed", "league_id", leagueID, "week", week, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, item)
		return
	}

	weeks, err := h.scheduleService.ListWeeks(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list schedule failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weeks)
}

func (h *Handler) GetScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScores")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	week, err := parseQueryInt(r, "week", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if week <= 0 {
		l, err := h.leagueService.GetLeague(ctx, leagueID)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		week = l.Settings.CurrentWeek
	}

	scores, err := h.scoringService.WeekScores(ctx, leagueID, week)
	if err != nil {
		h.logger.WarnContext(ctx, "week scores failed", "league_id", leagueID, "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scores)
}
