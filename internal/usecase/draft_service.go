package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/gridironpi/gridiron/internal/domain/claim"
	"github.com/gridironpi/gridiron/internal/domain/league"
	"github.com/gridironpi/gridiron/internal/domain/player"
	"github.com/gridironpi/gridiron/internal/domain/team"
)

// PickInput is one draft pick submission. Slot is optional; empty means
// auto-assign.
type PickInput struct {
	LeagueID string
	Username string
	PlayerID string
	Slot     team.Slot
}

// PickResult reports where a successful pick landed and the draft state after
// it.
type PickResult struct {
	PlayerID string            `json:"playerId"`
	Slot     team.Slot         `json:"slot,omitempty"`
	Benched  bool              `json:"benched"`
	Draft    league.DraftState `json:"draft"`
}

type DraftService struct {
	tx         TxRunner
	playerRepo player.Repository
	logger     *slog.Logger
	now        func() time.Time
}

func NewDraftService(tx TxRunner, playerRepo player.Repository, logger *slog.Logger) *DraftService {
	if logger == nil {
		logger = slog.Default()
	}

	return &DraftService{
		tx:         tx,
		playerRepo: playerRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// Configure resets the draft to round one with the given pick order and locks
// roster add/drop until the draft finishes. Owner only.
func (s *DraftService) Configure(ctx context.Context, leagueID, actor string, order []string) (league.DraftState, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftService.Configure")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.DraftState{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	var out league.DraftState
	err := s.tx.InLeague(ctx, leagueID, func(tx LeagueTx) error {
		l, exists, err := tx.League(ctx)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
		}
		if strings.TrimSpace(actor) != l.Owner {
			return fmt.Errorf("%w: only the owner may configure the draft", ErrUnauthorized)
		}
		for _, username := range order {
			if !l.IsMember(username) {
				return fmt.Errorf("%w: %s is not a league member", ErrInvalidInput, username)
			}
		}

		if err := l.Draft.Configure(order, l.Rules); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		l.Settings.LockAddDuringDraft = true
		l.UpdatedAt = s.now().UTC()

		out = l.Draft
		return tx.SaveLeague(ctx, l)
	})
	if err != nil {
		return league.DraftState{}, err
	}

	s.logger.InfoContext(ctx, "draft configured", "league_id", leagueID, "teams", len(out.Order))

	return out, nil
}

// SetSchedule stores a start time for the draft, resetting it to round one.
func (s *DraftService) SetSchedule(ctx context.Context, leagueID, actor string, startAt time.Time) (league.DraftState, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftService.SetSchedule")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.DraftState{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if startAt.IsZero() {
		return league.DraftState{}, fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}

	var out league.DraftState
	err := s.tx.InLeague(ctx, leagueID, func(tx LeagueTx) error {
		l, exists, err := tx.League(ctx)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
		}
		if strings.TrimSpace(actor) != l.Owner {
			return fmt.Errorf("%w: only the owner may schedule the draft", ErrUnauthorized)
		}
		if len(l.Draft.Order) == 0 {
			return fmt.Errorf("%w: configure the draft order first", ErrStateConflict)
		}

		if err := l.Draft.Configure(l.Draft.Order, l.Rules); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		at := startAt.UnixMilli()
		l.Draft.ScheduledAt = &at
		l.Settings.LockAddDuringDraft = true
		l.UpdatedAt = s.now().UTC()

		out = l.Draft
		return tx.SaveLeague(ctx, l)
	})
	if err != nil {
		return league.DraftState{}, err
	}

	return out, nil
}

// Start moves the draft live immediately. Owner only.
func (s *DraftService) Start(ctx context.Context, leagueID, actor string) (league.DraftState, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftService.Start")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.DraftState{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	var out league.DraftState
	err := s.tx.InLeague(ctx, leagueID, func(tx LeagueTx) error {
		l, exists, err := tx.League(ctx)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
		}
		if strings.TrimSpace(actor) != l.Owner {
			return fmt.Errorf("%w: only the owner may start the draft", ErrUnauthorized)
		}

		if err := l.Draft.Start(s.now()); err != nil {
			return fmt.Errorf("%w: %v", ErrStateConflict, err)
		}
		l.UpdatedAt = s.now().UTC()

		out = l.Draft
		return tx.SaveLeague(ctx, l)
	})
	if err != nil {
		return league.DraftState{}, err
	}

	s.logger.InfoContext(ctx, "draft started", "league_id", leagueID)

	return out, nil
}

// Pick submits one draft pick. The turn check, claim check and state update
// commit atomically.
func (s *DraftService) Pick(ctx context.Context, input PickInput) (PickResult, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftService.Pick")
	defer span.End()

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.Username = strings.TrimSpace(input.Username)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.LeagueID == "" || input.Username == "" || input.PlayerID == "" {
		return PickResult{}, fmt.Errorf("%w: league id, username and player id are required", ErrInvalidInput)
	}

	p, exists, err := s.playerRepo.GetByID(ctx, input.PlayerID)
	if err != nil {
		return PickResult{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return PickResult{}, fmt.Errorf("%w: player=%s", ErrNotFound, input.PlayerID)
	}

	var out PickResult
	err = s.tx.InLeague(ctx, input.LeagueID, func(tx LeagueTx) error {
		l, exists, err := tx.League(ctx)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
		}

		result, err := s.applyPick(ctx, tx, &l, input.Username, p, input.Slot)
		if err != nil {
			return err
		}
		out = result

		return nil
	})
	if err != nil {
		return PickResult{}, err
	}

	s.logger.InfoContext(ctx, "draft pick committed",
		"league_id", input.LeagueID,
		"username", input.Username,
		"player_id", input.PlayerID,
		"slot", string(out.Slot),
		"benched", out.Benched,
	)

	return out, nil
}

// AutoPick drafts the best available player for whoever is on the clock,
// ranked by current-week projection.
func (s *DraftService) AutoPick(ctx context.Context, leagueID string) (PickResult, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftService.AutoPick")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return PickResult{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	pool, err := s.playerRepo.List(ctx)
	if err != nil {
		return PickResult{}, fmt.Errorf("list players: %w", err)
	}

	var out PickResult
	err = s.tx.InLeague(ctx, leagueID, func(tx LeagueTx) error {
		l, exists, err := tx.League(ctx)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
		}

		onClock, ok := l.Draft.OnClock()
		if !ok {
			return fmt.Errorf("%w: %v", ErrStateConflict, league.ErrDraftNotLive)
		}

		best, found, err := s.bestAvailable(ctx, tx, pool, l.Settings.CurrentWeek)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: no draftable players remain", ErrStateConflict)
		}

		result, err := s.applyPick(ctx, tx, &l, onClock, best, "")
		if err != nil {
			return err
		}
		out = result

		return nil
	})
	if err != nil {
		return PickResult{}, err
	}

	s.logger.InfoContext(ctx, "auto pick committed",
		"league_id", leagueID,
		"player_id", out.PlayerID,
		"slot", string(out.Slot),
	)

	return out, nil
}

// Tick is the external poll that drives time-based transitions: it starts a
// scheduled draft whose start time has passed and auto-picks for an expired
// clock. Callers invoke it on page loads or a cron tick.
func (s *DraftService) Tick(ctx context.Context, leagueID string) (league.DraftState, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftService.Tick")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.DraftState{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	now := s.now()
	expired := false

	var out league.DraftState
	err := s.tx.InLeague(ctx, leagueID, func(tx LeagueTx) error {
		l, exists, err := tx.League(ctx)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
		}

		switch l.Draft.Status {
		case league.DraftScheduled:
			if l.Draft.ScheduledAt == nil || now.UnixMilli() < *l.Draft.ScheduledAt || len(l.Draft.Order) == 0 {
				out = l.Draft
				return nil
			}
			if err := l.Draft.Start(now); err != nil {
				return fmt.Errorf("%w: %v", ErrStateConflict, err)
			}
			l.UpdatedAt = now.UTC()
			out = l.Draft
			return tx.SaveLeague(ctx, l)

		case league.DraftLive:
			if l.Draft.Deadline == nil {
				// Missing clock: arm it and wait for the next tick.
				l.Draft.Deadline = deadlineFrom(now, l.Draft.ClockMs)
				l.UpdatedAt = now.UTC()
				out = l.Draft
				return tx.SaveLeague(ctx, l)
			}
			expired = l.Draft.Expired(now)
			out = l.Draft
			return nil

		default:
			out = l.Draft
			return nil
		}
	})
	if err != nil {
		return league.DraftState{}, err
	}

	if expired {
		result, err := s.AutoPick(ctx, leagueID)
		if err != nil {
			return league.DraftState{}, err
		}
		out = result.Draft
	}

	return out, nil
}

// End forces the draft done and unlocks add/drop. Owner only.
func (s *DraftService) End(ctx context.Context, leagueID, actor string) (league.DraftState, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftService.End")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.DraftState{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	var out league.DraftState
	err := s.tx.InLeague(ctx, leagueID, func(tx LeagueTx) error {
		l, exists, err := tx.League(ctx)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
		}
		if strings.TrimSpace(actor) != l.Owner {
			return fmt.Errorf("%w: only the owner may end the draft", ErrUnauthorized)
		}

		l.Draft.End()
		l.Settings.LockAddDuringDraft = false
		l.UpdatedAt = s.now().UTC()

		out = l.Draft
		return tx.SaveLeague(ctx, l)
	})
	if err != nil {
		return league.DraftState{}, err
	}

	s.logger.InfoContext(ctx, "draft ended", "league_id", leagueID)

	return out, nil
}

// applyPick runs the full pick protocol against an open transaction: turn
// check, claim check, roster placement, claim creation and snake advance.
func (s *DraftService) applyPick(ctx context.Context, tx LeagueTx, l *league.League, username string, p player.Player, slot team.Slot) (PickResult, error) {
	if l.Draft.Status != league.DraftLive {
		return PickResult{}, fmt.Errorf("%w: %v", ErrStateConflict, league.ErrDraftNotLive)
	}
	onClock, ok := l.Draft.OnClock()
	if !ok || onClock != username {
		return PickResult{}, fmt.Errorf("%w: %v", ErrStateConflict, league.ErrNotYourTurn)
	}

	if _, claimed, err := tx.Claim(ctx, p.ID); err != nil {
		return PickResult{}, fmt.Errorf("get claim: %w", err)
	} else if claimed {
		return PickResult{}, fmt.Errorf("%w: %v", ErrStateConflict, league.ErrPlayerAlreadyOwned)
	}

	t, exists, err := tx.Team(ctx, username)
	if err != nil {
		return PickResult{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		t = team.New(l.ID, username)
	}

	now := s.now()
	assigned, err := t.Assign(p.ID, p.Position, slot)
	if err != nil {
		return PickResult{}, fmt.Errorf("%w: %v", ErrStateConflict, err)
	}
	t.UpdatedAt = now.UTC()

	if err := tx.PutClaim(ctx, claim.Claim{
		LeagueID:  l.ID,
		PlayerID:  p.ID,
		ClaimedBy: username,
		At:        now.UTC(),
	}); err != nil {
		return PickResult{}, fmt.Errorf("put claim: %w", err)
	}
	if err := tx.SaveTeam(ctx, t); err != nil {
		return PickResult{}, fmt.Errorf("save team: %w", err)
	}

	l.Draft.Advance(now)
	if l.Draft.Status == league.DraftDone {
		l.Settings.LockAddDuringDraft = false
	}
	l.UpdatedAt = now.UTC()
	if err := tx.SaveLeague(ctx, *l); err != nil {
		return PickResult{}, fmt.Errorf("save league: %w", err)
	}

	return PickResult{
		PlayerID: p.ID,
		Slot:     assigned,
		Benched:  assigned == "",
		Draft:    l.Draft,
	}, nil
}

// bestAvailable ranks the unclaimed pool by the given week's projection,
// breaking ties by name then id so auto-drafts are deterministic.
func (s *DraftService) bestAvailable(ctx context.Context, tx LeagueTx, pool []player.Player, week int) (player.Player, bool, error) {
	if week < 1 {
		week = 1
	}
	weekKey := player.WeekKey(week)

	candidates := make([]player.Player, 0, len(pool))
	for _, p := range pool {
		_, claimed, err := tx.Claim(ctx, p.ID)
		if err != nil {
			return player.Player{}, false, fmt.Errorf("get claim: %w", err)
		}
		if !claimed {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return player.Player{}, false, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		pi, pj := candidates[i].Projections[weekKey], candidates[j].Projections[weekKey]
		if pi != pj {
			return pi > pj
		}
		if candidates[i].Name != candidates[j].Name {
			return candidates[i].Name < candidates[j].Name
		}
		return candidates[i].ID < candidates[j].ID
	})

	return candidates[0], true, nil
}

func deadlineFrom(now time.Time, clockMs int64) *int64 {
	deadline := now.UnixMilli() + clockMs
	return &deadline
}
