package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gridironpi/gridiron/internal/domain/scoring"
	"github.com/gridironpi/gridiron/internal/domain/team"
	"github.com/gridironpi/gridiron/internal/usecase"
)

type fakeStats struct {
	lines map[string]scoring.StatLine
	err   error
}

func (f fakeStats) WeekStats(context.Context, int, int) (map[string]scoring.StatLine, error) {
	return f.lines, f.err
}

func TestWeekScoresActualsOverProjections(t *testing.T) {
	ctx := context.Background()
	stats := fakeStats{lines: map[string]scoring.StatLine{
		// 300 pass yds + 2 pass TD = 12.0 + 8.0.
		"espn-1": {PassYds: 300, PassTD: 2},
	}}
	f := newFixture(testPlayers(), nil, stats)
	l := createTwoTeamLeague(t, f)

	if _, err := f.rosterSvc.ClaimPlayer(ctx, l.ID, "alice", "espn-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.rosterSvc.ClaimPlayer(ctx, l.ID, "alice", "espn-3"); err != nil {
		t.Fatal(err)
	}
	// Benched players never score.
	if _, err := f.rosterSvc.ClaimPlayer(ctx, l.ID, "alice", "espn-2"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.rosterSvc.MovePlayer(ctx, usecase.RosterMoveInput{
		LeagueID: l.ID, Username: "alice", PlayerID: "espn-2",
	}); err != nil {
		t.Fatal(err)
	}

	scores, err := f.scoringSvc.WeekScores(ctx, l.ID, 1)
	if err != nil {
		t.Fatalf("week scores: %v", err)
	}

	var alice usecase.TeamScore
	for _, s := range scores {
		if s.Username == "alice" {
			alice = s
		}
	}
	if alice.Username == "" {
		t.Fatal("no score for alice")
	}

	// QB scores actuals, WR falls back to the stored projection.
	if alice.Total != 20.0+17.2 {
		t.Fatalf("total = %v, want 37.2", alice.Total)
	}
	for _, slot := range alice.Slots {
		switch slot.Slot {
		case team.SlotQB:
			if slot.Projected || slot.Points != 20.0 {
				t.Fatalf("QB slot: %+v, want 20.0 actual", slot)
			}
		case team.SlotWR1:
			if !slot.Projected || slot.Points != 17.2 {
				t.Fatalf("WR1 slot: %+v, want 17.2 projected", slot)
			}
		default:
			t.Fatalf("unexpected scored slot %s (benched players must not score)", slot.Slot)
		}
	}
}

func TestWeekScoresZeroActualBeatsProjection(t *testing.T) {
	ctx := context.Background()
	// A scoreless game the provider vouches for is a real 0.0, not a miss.
	stats := fakeStats{lines: map[string]scoring.StatLine{"espn-3": {}}}
	f := newFixture(testPlayers(), nil, stats)
	l := createTwoTeamLeague(t, f)

	if _, err := f.rosterSvc.ClaimPlayer(ctx, l.ID, "alice", "espn-3"); err != nil {
		t.Fatal(err)
	}

	scores, err := f.scoringSvc.WeekScores(ctx, l.ID, 1)
	if err != nil {
		t.Fatalf("week scores: %v", err)
	}
	for _, s := range scores {
		if s.Username != "alice" {
			continue
		}
		if len(s.Slots) != 1 {
			t.Fatalf("slots = %+v, want just WR1", s.Slots)
		}
		slot := s.Slots[0]
		if slot.Projected || slot.Points != 0 {
			t.Fatalf("slot = %+v, want a 0.0 actual instead of the 17.2 projection", slot)
		}
		return
	}
	t.Fatal("no score for alice")
}

func TestWeekScoresDegradeOnProviderFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(testPlayers(), nil, fakeStats{err: errors.New("feed down")})
	l := createTwoTeamLeague(t, f)

	if _, err := f.rosterSvc.ClaimPlayer(ctx, l.ID, "alice", "espn-1"); err != nil {
		t.Fatal(err)
	}

	totals, err := f.scoringSvc.WeekTotals(ctx, l.ID, 1)
	if err != nil {
		t.Fatalf("week totals: %v", err)
	}
	if totals["alice"] != 24.0 {
		t.Fatalf("alice total = %v, want the 24.0 projection fallback", totals["alice"])
	}
}

func TestWeekScoresValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(testPlayers(), nil, nil)

	if _, err := f.scoringSvc.WeekScores(ctx, "nope", 1); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("missing league: got %v, want ErrNotFound", err)
	}
	if _, err := f.scoringSvc.WeekScores(ctx, "x", 0); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("week 0: got %v, want ErrInvalidInput", err)
	}
}
