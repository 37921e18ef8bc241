package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gridironpi/gridiron/internal/domain/league"
	"github.com/gridironpi/gridiron/internal/domain/schedule"
)

type ScheduleService struct {
	leagueRepo   league.Repository
	scheduleRepo schedule.Repository
	logger       *slog.Logger
}

func NewScheduleService(leagueRepo league.Repository, scheduleRepo schedule.Repository, logger *slog.Logger) *ScheduleService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ScheduleService{
		leagueRepo:   leagueRepo,
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// EnsureSeasonSchedule generates the round-robin season once. With recreate
// set, any existing schedule is dropped and regenerated from the current
// member list.
func (s *ScheduleService) EnsureSeasonSchedule(ctx context.Context, leagueID string, recreate bool) ([]schedule.Week, error) {
	ctx, span := startUsecaseSpan(ctx, "ScheduleService.EnsureSeasonSchedule")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	if len(l.Members) < 2 {
		return nil, fmt.Errorf("%w: at least two members are required for a schedule", ErrStateConflict)
	}

	existing, err := s.scheduleRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	if len(existing) > 0 && !recreate {
		return existing, nil
	}
	if len(existing) > 0 {
		if err := s.scheduleRepo.DeleteByLeague(ctx, leagueID); err != nil {
			return nil, fmt.Errorf("delete schedule: %w", err)
		}
	}

	weeks := schedule.Generate(leagueID, l.Members, l.Rules.SeasonWeeks)
	if err := s.scheduleRepo.SaveAll(ctx, weeks); err != nil {
		return nil, fmt.Errorf("save schedule: %w", err)
	}

	s.logger.InfoContext(ctx, "season schedule generated",
		"league_id", leagueID,
		"weeks", len(weeks),
		"members", len(l.Members),
		"recreate", recreate,
	)

	return weeks, nil
}

func (s *ScheduleService) GetWeek(ctx context.Context, leagueID string, week int) (schedule.Week, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return schedule.Week{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if week < 1 {
		return schedule.Week{}, fmt.Errorf("%w: week must be positive", ErrInvalidInput)
	}

	w, exists, err := s.scheduleRepo.GetWeek(ctx, leagueID, week)
	if err != nil {
		return schedule.Week{}, fmt.Errorf("get schedule week: %w", err)
	}
	if !exists {
		return schedule.Week{}, fmt.Errorf("%w: schedule week=%d league=%s", ErrNotFound, week, leagueID)
	}

	return w, nil
}

func (s *ScheduleService) ListWeeks(ctx context.Context, leagueID string) ([]schedule.Week, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	weeks, err := s.scheduleRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}

	return weeks, nil
}
