package httpapi

import (
	"net/http"
	"strings"

	"github.com/gridironpi/gridiron/internal/usecase"
)

type markPayoutSentRequest struct {
	TxID string `json:"txId" validate:"required"`
}

func (h *Handler) GetTreasury(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTreasury")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	summary, err := h.treasuryService.Summary(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "treasury summary failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) SettleLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SettleLeague")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	payouts, err := h.treasuryService.Settle(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "settle league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, payouts)
}

func (h *Handler) SendPayout(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SendPayout")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	payoutID := strings.TrimSpace(r.PathValue("payoutID"))
	payout, err := h.treasuryService.SendPayout(ctx, leagueID, payoutID)
	if err != nil {
		h.logger.WarnContext(ctx, "send payout failed", "league_id", leagueID, "payout_id", payoutID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, payout)
}

func (h *Handler) MarkPayoutSent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkPayoutSent")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	payoutID := strings.TrimSpace(r.PathValue("payoutID"))
	var req markPayoutSentRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	payout, err := h.treasuryService.MarkSent(ctx, leagueID, payoutID, req.TxID)
	if err != nil {
		h.logger.WarnContext(ctx, "mark payout sent failed", "league_id", leagueID, "payout_id", payoutID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, payout)
}

func (h *Handler) CancelPayout(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelPayout")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	payoutID := strings.TrimSpace(r.PathValue("payoutID"))
	if err := h.treasuryService.CancelPayout(ctx, leagueID, payoutID); err != nil {
		h.logger.WarnContext(ctx, "cancel payout failed", "league_id", leagueID, "payout_id", payoutID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"payoutId": payoutID, "status": "cancelled"})
}

func (h *Handler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PaymentWebhook")
	defer span.End()

	var req usecase.PaymentWebhookInput
	if err := h.decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	recorded, err := h.treasuryService.HandlePaymentWebhook(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "payment webhook failed", "league_id", req.LeagueID, "tx_id", req.TxID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"recorded": recorded})
}
