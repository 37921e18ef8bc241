package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gridironpi/gridiron/internal/domain/league"
	"github.com/gridironpi/gridiron/internal/domain/player"
	"github.com/gridironpi/gridiron/internal/domain/scoring"
	"github.com/gridironpi/gridiron/internal/domain/team"
)

// StatProvider supplies actual stat lines for one week, keyed by canonical
// player id. Providers are best-effort; a missing player means no actuals.
type StatProvider interface {
	WeekStats(ctx context.Context, week, season int) (map[string]scoring.StatLine, error)
}

// SlotScore is one starter's resolved contribution.
type SlotScore struct {
	Slot      team.Slot `json:"slot"`
	PlayerID  string    `json:"playerId"`
	Points    float64   `json:"points"`
	Projected bool      `json:"projected"`
}

// TeamScore is one member's weekly total with its per-slot breakdown.
type TeamScore struct {
	Username string      `json:"username"`
	Week     int         `json:"week"`
	Total    float64     `json:"total"`
	Slots    []SlotScore `json:"slots"`
}

type ScoringService struct {
	leagueRepo league.Repository
	teamRepo   team.Repository
	playerRepo player.Repository
	stats      StatProvider
	season     int
	logger     *slog.Logger
}

func NewScoringService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	stats StatProvider,
	season int,
	logger *slog.Logger,
) *ScoringService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ScoringService{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		stats:      stats,
		season:     season,
		logger:     logger,
	}
}

// WeekScores resolves every team's total for one league week. Starters score
// actual stats when the provider has them, otherwise their stored projection,
// otherwise zero. Bench players never contribute.
func (s *ScoringService) WeekScores(ctx context.Context, leagueID string, week int) ([]TeamScore, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.WeekScores")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if week < 1 {
		return nil, fmt.Errorf("%w: week must be positive", ErrInvalidInput)
	}

	_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	teams, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	actuals := s.weekActuals(ctx, week)

	scores := make([]TeamScore, 0, len(teams))
	for _, t := range teams {
		score, err := s.scoreTeam(ctx, t, week, actuals)
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}

	return scores, nil
}

// WeekTotals is the standings-facing view of WeekScores.
func (s *ScoringService) WeekTotals(ctx context.Context, leagueID string, week int) (map[string]float64, error) {
	scores, err := s.WeekScores(ctx, leagueID, week)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64, len(scores))
	for _, score := range scores {
		totals[score.Username] = score.Total
	}

	return totals, nil
}

func (s *ScoringService) scoreTeam(ctx context.Context, t team.Team, week int, actuals map[string]scoring.StatLine) (TeamScore, error) {
	weekKey := player.WeekKey(week)

	out := TeamScore{Username: t.Owner, Week: week}
	for _, slot := range team.RosterSlots() {
		playerID := t.Roster[slot]
		if playerID == "" {
			continue
		}

		points, projected, err := s.resolvePoints(ctx, playerID, weekKey, actuals)
		if err != nil {
			return TeamScore{}, err
		}
		out.Slots = append(out.Slots, SlotScore{
			Slot:      slot,
			PlayerID:  playerID,
			Points:    points,
			Projected: projected,
		})
		out.Total += points
	}

	return out, nil
}

func (s *ScoringService) resolvePoints(ctx context.Context, playerID, weekKey string, actuals map[string]scoring.StatLine) (float64, bool, error) {
	// Presence in the provider map is authoritative: a player the provider
	// vouches for scores their actual line even when it is all zeros.
	// Players with no real result for the week are simply absent.
	if line, ok := actuals[playerID]; ok {
		return scoring.Points(line), false, nil
	}

	p, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return 0, false, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return 0, true, nil
	}

	return p.Projections[weekKey], true, nil
}

// weekActuals fetches actual stat lines, degrading to projections on provider
// failure.
func (s *ScoringService) weekActuals(ctx context.Context, week int) map[string]scoring.StatLine {
	if s.stats == nil {
		return nil
	}

	actuals, err := s.stats.WeekStats(ctx, week, s.season)
	if err != nil {
		s.logger.WarnContext(ctx, "stat provider unavailable, scoring from projections",
			"week", week,
			"error", err,
		)
		return nil
	}

	return actuals
}
