package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gridironpi/gridiron/internal/domain/league"
	"github.com/gridironpi/gridiron/internal/domain/schedule"
	"github.com/gridironpi/gridiron/internal/domain/team"
	idgen "github.com/gridironpi/gridiron/internal/platform/id"
)

// CreateLeagueInput is the incoming payload for league creation.
type CreateLeagueInput struct {
	Name         string
	Owner        string
	EntryEnabled bool
	EntryAmount  float64
}

// WeekScorer resolves every member's fantasy total for one league week.
type WeekScorer interface {
	WeekTotals(ctx context.Context, leagueID string, week int) (map[string]float64, error)
}

type LeagueService struct {
	leagueRepo   league.Repository
	teamRepo     team.Repository
	scheduleRepo schedule.Repository
	scorer       WeekScorer
	idGen        idgen.Generator
	logger       *slog.Logger
	now          func() time.Time
}

func NewLeagueService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	scheduleRepo schedule.Repository,
	scorer WeekScorer,
	idGen idgen.Generator,
	logger *slog.Logger,
) *LeagueService {
	if logger == nil {
		logger = slog.Default()
	}

	return &LeagueService{
		leagueRepo:   leagueRepo,
		teamRepo:     teamRepo,
		scheduleRepo: scheduleRepo,
		scorer:       scorer,
		idGen:        idGen,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateLeague creates a league with default rules, auto-joins the owner and
// seeds their team.
func (s *LeagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.CreateLeague")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.Owner = strings.TrimSpace(input.Owner)
	if input.Name == "" {
		return league.League{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}
	if input.Owner == "" {
		return league.League{}, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	if input.EntryEnabled && input.EntryAmount <= 0 {
		return league.League{}, fmt.Errorf("%w: entry amount must be greater than zero", ErrInvalidInput)
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}

	now := s.now().UTC()
	rules := league.DefaultRules()
	l := league.League{
		ID:        leagueID,
		Name:      input.Name,
		Owner:     input.Owner,
		Rules:     rules,
		Draft:     league.NewDraftState(rules),
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.Entry = league.Entry{
		Enabled:  input.EntryEnabled,
		AmountPi: input.EntryAmount,
		RakeBps:  rules.RakeBps,
	}
	l.AddMember(input.Owner)

	if err := l.ValidateBasic(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.leagueRepo.Save(ctx, l); err != nil {
		return league.League{}, fmt.Errorf("save league: %w", err)
	}
	if err := s.ensureTeam(ctx, leagueID, input.Owner); err != nil {
		return league.League{}, err
	}

	s.logger.InfoContext(ctx, "league created",
		"league_id", l.ID,
		"owner", l.Owner,
		"entry_enabled", l.Entry.Enabled,
	)

	return l, nil
}

// JoinLeague adds a member and lazily creates their team. Joining twice is
// harmless.
func (s *LeagueService) JoinLeague(ctx context.Context, leagueID, username string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.JoinLeague")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	username = strings.TrimSpace(username)
	if leagueID == "" || username == "" {
		return league.League{}, fmt.Errorf("%w: league id and username are required", ErrInvalidInput)
	}

	l, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return league.League{}, err
	}
	if l.Draft.Status != league.DraftScheduled || l.Draft.PicksTaken > 0 {
		return league.League{}, fmt.Errorf("%w: league cannot be joined once the draft has begun", ErrStateConflict)
	}

	if l.AddMember(username) {
		l.UpdatedAt = s.now().UTC()
		if err := s.leagueRepo.Save(ctx, l); err != nil {
			return league.League{}, fmt.Errorf("save league: %w", err)
		}
		s.logger.InfoContext(ctx, "member joined league", "league_id", leagueID, "username", username)
	}
	if err := s.ensureTeam(ctx, leagueID, username); err != nil {
		return league.League{}, err
	}

	return l, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID string) (league.League, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	return s.getLeague(ctx, leagueID)
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return leagues, nil
}

func (s *LeagueService) ListTeams(ctx context.Context, leagueID string) ([]team.Team, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if _, err := s.getLeague(ctx, leagueID); err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams by league: %w", err)
	}

	return teams, nil
}

// AdvanceWeek scores the current week's matchups into standings and moves the
// league to the next week. The season-ended flag trips after the final week.
func (s *LeagueService) AdvanceWeek(ctx context.Context, leagueID, actor string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.AdvanceWeek")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	actor = strings.TrimSpace(actor)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	l, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return league.League{}, err
	}
	if actor != l.Owner {
		return league.League{}, fmt.Errorf("%w: only the owner may advance the week", ErrUnauthorized)
	}
	if l.Settings.SeasonEnded {
		return league.League{}, fmt.Errorf("%w: season has ended", ErrStateConflict)
	}
	if l.Draft.Status != league.DraftDone {
		return league.League{}, fmt.Errorf("%w: draft must finish before scoring weeks", ErrStateConflict)
	}

	week := l.Settings.CurrentWeek
	if week < 1 {
		week = 1
	}

	matchweek, found, err := s.scheduleRepo.GetWeek(ctx, leagueID, week)
	if err != nil {
		return league.League{}, fmt.Errorf("get schedule week: %w", err)
	}
	if found && len(matchweek.Matchups) > 0 {
		totals, err := s.scorer.WeekTotals(ctx, leagueID, week)
		if err != nil {
			return league.League{}, fmt.Errorf("score week %d: %w", week, err)
		}
		applyWeekResults(&l, matchweek, totals)
	}

	l.Settings.CurrentWeek = week + 1
	if l.Settings.CurrentWeek > l.Rules.SeasonWeeks {
		l.Settings.SeasonEnded = true
	}
	l.UpdatedAt = s.now().UTC()

	if err := s.leagueRepo.Save(ctx, l); err != nil {
		return league.League{}, fmt.Errorf("save league: %w", err)
	}

	s.logger.InfoContext(ctx, "league week advanced",
		"league_id", leagueID,
		"scored_week", week,
		"current_week", l.Settings.CurrentWeek,
		"season_ended", l.Settings.SeasonEnded,
	)

	return l, nil
}

// EndSeason marks the season over without scoring further weeks.
func (s *LeagueService) EndSeason(ctx context.Context, leagueID, actor string) (league.League, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	l, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return league.League{}, err
	}
	if strings.TrimSpace(actor) != l.Owner {
		return league.League{}, fmt.Errorf("%w: only the owner may end the season", ErrUnauthorized)
	}

	if !l.Settings.SeasonEnded {
		l.Settings.SeasonEnded = true
		l.UpdatedAt = s.now().UTC()
		if err := s.leagueRepo.Save(ctx, l); err != nil {
			return league.League{}, fmt.Errorf("save league: %w", err)
		}
	}

	return l, nil
}

func (s *LeagueService) getLeague(ctx context.Context, leagueID string) (league.League, error) {
	l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	return l, nil
}

func (s *LeagueService) ensureTeam(ctx context.Context, leagueID, username string) error {
	_, exists, err := s.teamRepo.Get(ctx, leagueID, username)
	if err != nil {
		return fmt.Errorf("get team: %w", err)
	}
	if exists {
		return nil
	}

	t := team.New(leagueID, username)
	t.UpdatedAt = s.now().UTC()
	if err := s.teamRepo.Save(ctx, t); err != nil {
		return fmt.Errorf("save team: %w", err)
	}

	return nil
}

func applyWeekResults(l *league.League, week schedule.Week, totals map[string]float64) {
	if l.Standings == nil {
		l.Standings = make(map[string]league.Standing)
	}

	for _, m := range week.Matchups {
		home, away := totals[m.Home], totals[m.Away]

		hs, as := l.Standings[m.Home], l.Standings[m.Away]
		hs.PointsFor += home
		hs.PointsAgainst += away
		as.PointsFor += away
		as.PointsAgainst += home

		switch {
		case home > away:
			hs.Wins++
			as.Losses++
		case away > home:
			as.Wins++
			hs.Losses++
		default:
			hs.Ties++
			as.Ties++
		}

		l.Standings[m.Home] = hs
		l.Standings[m.Away] = as
	}
}
