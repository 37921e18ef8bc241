package httpapi_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/gridironpi/gridiron/internal/domain/player"
	"github.com/gridironpi/gridiron/internal/infrastructure/repository/memory"
	"github.com/gridironpi/gridiron/internal/interfaces/httpapi"
	"github.com/gridironpi/gridiron/internal/platform/cache"
	"github.com/gridironpi/gridiron/internal/platform/id"
	"github.com/gridironpi/gridiron/internal/platform/logging"
	"github.com/gridironpi/gridiron/internal/usecase"
)

const testInternalJobToken = "job-token"

// newTestRouter wires the full middleware chain against in-memory storage,
// the same shape the app package assembles in production.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	leagues := memory.NewLeagueRepository(nil)
	teams := memory.NewTeamRepository()
	claims := memory.NewClaimRepository()
	players := memory.NewPlayerRepository([]player.Player{
		{ID: "espn-1", Name: "Josh Allen", Position: player.PositionQB, Team: "BUF", ESPNID: "1", Projections: map[string]float64{"1": 24.0}},
		{ID: "espn-3", Name: "CeeDee Lamb", Position: player.PositionWR, Team: "DAL", ESPNID: "3", Projections: map[string]float64{"1": 17.2}},
	})
	schedules := memory.NewScheduleRepository()
	tx := memory.NewTxRunner(leagues, teams, claims)
	idGen := id.NewRandomGenerator()

	scoringSvc := usecase.NewScoringService(leagues, teams, players, nil, 2025, logger)
	treasurySvc := usecase.NewTreasuryService(tx, leagues, nil, idGen, logger)

	handler := httpapi.NewHandler(
		usecase.NewLeagueService(leagues, teams, schedules, scoringSvc, idGen, logger),
		usecase.NewDraftService(tx, players, logger),
		usecase.NewRosterService(tx, players, teams, claims, logger),
		usecase.NewScheduleService(leagues, schedules, logger),
		scoringSvc,
		treasurySvc,
		usecase.NewPlayerService(players),
		usecase.NewNewsService(nil, cache.NewStore(time.Minute), logger),
		usecase.NewIngestionService(players, nil, nil, treasurySvc, 2025, 2, logging.NewNop()),
		nil,
		logger,
	)

	return httpapi.NewRouter(handler, logger, []string{"*"}, testInternalJobToken)
}

type testEnvelope struct {
	OK    bool           `json:"ok"`
	Data  map[string]any `json:"data"`
	Error *struct {
		Code    int    `json:"code"`
		Reason  string `json:"reason"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (int, testEnvelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope testEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal %s %s response: %v (body %q)", method, path, err, rec.Body.String())
	}

	return rec.Code, envelope
}

func TestRouterHealthz(t *testing.T) {
	router := newTestRouter(t)

	status, envelope := doJSON(t, router, http.MethodGet, "/healthz", "")
	if status != http.StatusOK || !envelope.OK {
		t.Fatalf("healthz: status=%d ok=%v", status, envelope.OK)
	}
	if envelope.Data["status"] != "ok" {
		t.Fatalf("healthz data = %v", envelope.Data)
	}
}

func TestRouterLeagueLifecycle(t *testing.T) {
	router := newTestRouter(t)

	status, envelope := doJSON(t, router, http.MethodPost, "/v1/leagues",
		`{"name":"Sunday Showdown","owner":"alice"}`)
	if status != http.StatusCreated || !envelope.OK {
		t.Fatalf("create: status=%d envelope=%+v", status, envelope)
	}
	leagueID, _ := envelope.Data["id"].(string)
	if leagueID == "" {
		t.Fatalf("create returned no league id: %v", envelope.Data)
	}

	status, envelope = doJSON(t, router, http.MethodGet, "/v1/leagues/"+leagueID, "")
	if status != http.StatusOK || envelope.Data["name"] != "Sunday Showdown" {
		t.Fatalf("get: status=%d data=%v", status, envelope.Data)
	}

	status, envelope = doJSON(t, router, http.MethodPost, "/v1/leagues/"+leagueID+"/join",
		`{"username":"bob"}`)
	if status != http.StatusOK {
		t.Fatalf("join: status=%d envelope=%+v", status, envelope)
	}

	status, envelope = doJSON(t, router, http.MethodGet, "/v1/leagues/missing-league", "")
	if status != http.StatusNotFound {
		t.Fatalf("missing league: status=%d", status)
	}
	if envelope.Error == nil || envelope.Error.Reason != "notFound" {
		t.Fatalf("missing league error = %+v", envelope.Error)
	}
}

func TestRouterRejectsMalformedBodies(t *testing.T) {
	router := newTestRouter(t)

	// Unknown fields are rejected, not silently dropped.
	status, envelope := doJSON(t, router, http.MethodPost, "/v1/leagues",
		`{"name":"X","owner":"alice","commissioner":"alice"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("unknown field: status=%d", status)
	}
	if envelope.Error == nil || envelope.Error.Reason != "invalidInput" {
		t.Fatalf("unknown field error = %+v", envelope.Error)
	}

	status, envelope = doJSON(t, router, http.MethodPost, "/v1/leagues", `{"owner":"alice"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("missing name: status=%d envelope=%+v", status, envelope)
	}
}

func TestRouterInternalRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/tasks", strings.NewReader(`{"task":"refresh"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status=%d, want 401", rec.Code)
	}
}

func TestRouterPlayerLookup(t *testing.T) {
	router := newTestRouter(t)

	status, envelope := doJSON(t, router, http.MethodGet, "/v1/players/espn-1", "")
	if status != http.StatusOK {
		t.Fatalf("get player: status=%d envelope=%+v", status, envelope)
	}
	if envelope.Data["name"] != "Josh Allen" {
		t.Fatalf("player data = %v", envelope.Data)
	}

	status, _ = doJSON(t, router, http.MethodGet, "/v1/players/espn-404", "")
	if status != http.StatusNotFound {
		t.Fatalf("missing player: status=%d", status)
	}
}
