package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/leagues", handler.CreateLeague)
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}", handler.GetLeague)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/join", handler.JoinLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/teams/{username}", handler.GetTeam)
}

func registerDraftRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/leagues/{leagueID}/draft/configure", handler.ConfigureDraft)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/draft/schedule", handler.ScheduleDraft)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/draft/start", handler.StartDraft)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/draft/pick", handler.PickPlayer)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/draft/autopick", handler.AutoPick)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/draft/tick", handler.TickDraft)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/draft/end", handler.EndDraft)
}

func registerRosterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues/{leagueID}/claims", handler.ListClaims)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/roster/claim", handler.ClaimPlayer)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/roster/release", handler.ReleasePlayer)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/roster/move", handler.MovePlayer)
}

func registerSeasonRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/leagues/{leagueID}/schedule/ensure", handler.EnsureSchedule)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/schedule", handler.GetSchedule)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/scores", handler.GetScores)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/week/advance", handler.AdvanceWeek)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/season/end", handler.EndSeason)
}

func registerTreasuryRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues/{leagueID}/treasury", handler.GetTreasury)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/treasury/settle", handler.SettleLeague)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/treasury/payouts/{payoutID}/send", handler.SendPayout)
	mux.HandleFunc("POST /v1/leagues/{leagueID}/treasury/payouts/{payoutID}/sent", handler.MarkPayoutSent)
	mux.HandleFunc("DELETE /v1/leagues/{leagueID}/treasury/payouts/{payoutID}", handler.CancelPayout)
	mux.HandleFunc("POST /v1/payments/pi/webhook", handler.PaymentWebhook)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/players/{playerID}/news", handler.GetPlayerNews)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/tasks", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunIngestionTask)))
	mux.Handle("POST /v1/internal/jobs/bootstrap", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunBootstrapJob)))
}
