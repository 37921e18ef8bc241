package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gridironpi/gridiron/internal/domain/claim"
	"github.com/gridironpi/gridiron/internal/domain/league"
	"github.com/gridironpi/gridiron/internal/domain/player"
	"github.com/gridironpi/gridiron/internal/domain/team"
)

// RosterMoveInput repositions an owned player. An empty Slot sends the player
// to the bench.
type RosterMoveInput struct {
	LeagueID string
	Username string
	PlayerID string
	Slot     team.Slot
}

type RosterService struct {
	tx         TxRunner
	playerRepo player.Repository
	teamRepo   team.Repository
	claimRepo  claim.Repository
	logger     *slog.Logger
	now        func() time.Time
}

func NewRosterService(
	tx TxRunner,
	playerRepo player.Repository,
	teamRepo team.Repository,
	claimRepo claim.Repository,
	logger *slog.Logger,
) *RosterService {
	if logger == nil {
		logger = slog.Default()
	}

	return &RosterService{
		tx:         tx,
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		claimRepo:  claimRepo,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *RosterService) GetTeam(ctx context.Context, leagueID, username string) (team.Team, error) {
	leagueID = strings.TrimSpace(leagueID)
	username = strings.TrimSpace(username)
	if leagueID == "" || username == "" {
		return team.Team{}, fmt.Errorf("%w: league id and username are required", ErrInvalidInput)
	}

	t, exists, err := s.teamRepo.Get(ctx, leagueID, username)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team league=%s owner=%s", ErrNotFound, leagueID, username)
	}

	return t, nil
}

func (s *RosterService) ListClaims(ctx context.Context, leagueID string) ([]claim.Claim, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	claims, err := s.claimRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}

	return claims, nil
}

// ClaimPlayer adds a free agent to a member's team. Blocked while the draft
// holds the add/drop lock.
func (s *RosterService) ClaimPlayer(ctx context.Context, leagueID, username, playerID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.ClaimPlayer")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	username = strings.TrimSpace(username)
	playerID = strings.TrimSpace(playerID)
	if leagueID == "" || username == "" || playerID == "" {
		return team.Team{}, fmt.Errorf("%w: league id, username and player id are required", ErrInvalidInput)
	}

	p, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	var out team.Team
	err = s.tx.InLeague(ctx, leagueID, func(tx LeagueTx) error {
		l, exists, err := tx.League(ctx)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
		}
		if !l.IsMember(username) {
			return fmt.Errorf("%w: %s is not a league member", ErrUnauthorized, username)
		}
		if l.Settings.LockAddDuringDraft && l.Draft.Status != league.DraftDone {
			return fmt.Errorf("%w: roster moves are locked during the draft", ErrStateConflict)
		}

		if _, claimed, err := tx.Claim(ctx, playerID); err != nil {
			return fmt.Errorf("get claim: %w", err)
		} else if claimed {
			return fmt.Errorf("%w: %v", ErrStateConflict, league.ErrPlayerAlreadyOwned)
		}

		t, exists, err := tx.Team(ctx, username)
		if err != nil {
			return fmt.Errorf("get team: %w", err)
		}
		if !exists {
			t = team.New(leagueID, username)
		}

		now := s.now().UTC()
		if _, err := t.Assign(playerID, p.Position, ""); err != nil {
			return fmt.Errorf("%w: %v", ErrStateConflict, err)
		}
		t.UpdatedAt = now

		if err := tx.PutClaim(ctx, claim.Claim{
			LeagueID:  leagueID,
			PlayerID:  playerID,
			ClaimedBy: username,
			At:        now,
		}); err != nil {
			return fmt.Errorf("put claim: %w", err)
		}
		if err := tx.SaveTeam(ctx, t); err != nil {
			return fmt.Errorf("save team: %w", err)
		}

		out = t
		return nil
	})
	if err != nil {
		return team.Team{}, err
	}

	s.logger.InfoContext(ctx, "player claimed",
		"league_id", leagueID,
		"username", username,
		"player_id", playerID,
	)

	return out, nil
}

// ReleasePlayer drops an owned player back into the free-agent pool.
func (s *RosterService) ReleasePlayer(ctx context.Context, leagueID, username, playerID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.ReleasePlayer")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	username = strings.TrimSpace(username)
	playerID = strings.TrimSpace(playerID)
	if leagueID == "" || username == "" || playerID == "" {
		return team.Team{}, fmt.Errorf("%w: league id, username and player id are required", ErrInvalidInput)
	}

	var out team.Team
	err := s.tx.InLeague(ctx, leagueID, func(tx LeagueTx) error {
		l, exists, err := tx.League(ctx)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
		}
		if l.Settings.LockAddDuringDraft && l.Draft.Status != league.DraftDone {
			return fmt.Errorf("%w: roster moves are locked during the draft", ErrStateConflict)
		}

		c, claimed, err := tx.Claim(ctx, playerID)
		if err != nil {
			return fmt.Errorf("get claim: %w", err)
		}
		if !claimed || c.ClaimedBy != username {
			return fmt.Errorf("%w: player=%s is not owned by %s", ErrNotFound, playerID, username)
		}

		t, exists, err := tx.Team(ctx, username)
		if err != nil {
			return fmt.Errorf("get team: %w", err)
		}
		if !exists || !t.Remove(playerID) {
			return fmt.Errorf("%w: player=%s is not on the roster", ErrNotFound, playerID)
		}
		t.UpdatedAt = s.now().UTC()

		if err := tx.DeleteClaim(ctx, playerID); err != nil {
			return fmt.Errorf("delete claim: %w", err)
		}
		if err := tx.SaveTeam(ctx, t); err != nil {
			return fmt.Errorf("save team: %w", err)
		}

		out = t
		return nil
	})
	if err != nil {
		return team.Team{}, err
	}

	s.logger.InfoContext(ctx, "player released",
		"league_id", leagueID,
		"username", username,
		"player_id", playerID,
	)

	return out, nil
}

// MovePlayer repositions an owned player between slots and the bench.
func (s *RosterService) MovePlayer(ctx context.Context, input RosterMoveInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.MovePlayer")
	defer span.End()

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.Username = strings.TrimSpace(input.Username)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.LeagueID == "" || input.Username == "" || input.PlayerID == "" {
		return team.Team{}, fmt.Errorf("%w: league id, username and player id are required", ErrInvalidInput)
	}

	p, exists, err := s.playerRepo.GetByID(ctx, input.PlayerID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: player=%s", ErrNotFound, input.PlayerID)
	}

	var out team.Team
	err = s.tx.InLeague(ctx, input.LeagueID, func(tx LeagueTx) error {
		t, exists, err := tx.Team(ctx, input.Username)
		if err != nil {
			return fmt.Errorf("get team: %w", err)
		}
		if !exists || !t.HasPlayer(input.PlayerID) {
			return fmt.Errorf("%w: player=%s is not on the roster", ErrNotFound, input.PlayerID)
		}

		if input.Slot != "" && !team.AllowedInSlot(input.Slot, p.Position) {
			return fmt.Errorf("%w: %s cannot start at %s", ErrStateConflict, p.Position, input.Slot)
		}

		t.Remove(input.PlayerID)
		if input.Slot == "" {
			t.Bench = append(t.Bench, input.PlayerID)
		} else {
			if existing := t.Roster[input.Slot]; existing != "" {
				// Swap: the displaced starter heads to the bench.
				t.Remove(existing)
				t.Bench = append(t.Bench, existing)
			}
			if _, err := t.Assign(input.PlayerID, p.Position, input.Slot); err != nil {
				return fmt.Errorf("%w: %v", ErrStateConflict, err)
			}
		}
		t.UpdatedAt = s.now().UTC()

		if err := tx.SaveTeam(ctx, t); err != nil {
			return fmt.Errorf("save team: %w", err)
		}

		out = t
		return nil
	})
	if err != nil {
		return team.Team{}, err
	}

	return out, nil
}
