package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/gridironpi/gridiron/internal/usecase"
)

type Handler struct {
	leagueService    *usecase.LeagueService
	draftService     *usecase.DraftService
	rosterService    *usecase.RosterService
	scheduleService  *usecase.ScheduleService
	scoringService   *usecase.ScoringService
	treasuryService  *usecase.TreasuryService
	playerService    *usecase.PlayerService
	newsService      *usecase.NewsService
	ingestionService *usecase.IngestionService
	jobPublisher     JobPublisher
	logger           *slog.Logger
	validator        *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	draftService *usecase.DraftService,
	rosterService *usecase.RosterService,
	scheduleService *usecase.ScheduleService,
	scoringService *usecase.ScoringService,
	treasuryService *usecase.TreasuryService,
	playerService *usecase.PlayerService,
	newsService *usecase.NewsService,
	ingestionService *usecase.IngestionService,
	jobPublisher JobPublisher,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		leagueService:    leagueService,
		draftService:     draftService,
		rosterService:    rosterService,
		scheduleService:  scheduleService,
		scoringService:   scoringService,
		treasuryService:  treasuryService,
		playerService:    playerService,
		newsService:      newsService,
		ingestionService: ingestionService,
		jobPublisher:     jobPublisher,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeBody(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func parseQueryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: query parameter %q must be an integer", usecase.ErrInvalidInput, key)
	}

	return value, nil
}

func parseQueryBool(r *http.Request, key string) bool {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
