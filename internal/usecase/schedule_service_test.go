package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gridironpi/gridiron/internal/usecase"
)

func TestEnsureSeasonSchedule(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil, nil, nil)

	l, err := f.leagueSvc.CreateLeague(ctx, usecase.CreateLeagueInput{Name: "Solo", Owner: "alice"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.scheduleSvc.EnsureSeasonSchedule(ctx, l.ID, false); !errors.Is(err, usecase.ErrStateConflict) {
		t.Fatalf("single member: got %v, want ErrStateConflict", err)
	}

	if _, err := f.leagueSvc.JoinLeague(ctx, l.ID, "bob"); err != nil {
		t.Fatal(err)
	}

	weeks, err := f.scheduleSvc.EnsureSeasonSchedule(ctx, l.ID, false)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if len(weeks) != l.Rules.SeasonWeeks {
		t.Fatalf("weeks = %d, want %d", len(weeks), l.Rules.SeasonWeeks)
	}
	for _, w := range weeks {
		if len(w.Matchups) != 1 {
			t.Fatalf("week %d has %d matchups, want 1", w.Week, len(w.Matchups))
		}
	}

	// A second ensure returns the stored schedule untouched.
	again, err := f.scheduleSvc.EnsureSeasonSchedule(ctx, l.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(weeks) {
		t.Fatalf("re-ensure changed the schedule: %d vs %d weeks", len(again), len(weeks))
	}

	// Recreate picks up members who joined after generation.
	if _, err := f.leagueSvc.JoinLeague(ctx, l.ID, "carol"); err != nil {
		t.Fatal(err)
	}
	recreated, err := f.scheduleSvc.EnsureSeasonSchedule(ctx, l.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[string]bool)
	for _, m := range recreated[0].Matchups {
		seen[m.Home] = true
		seen[m.Away] = true
	}
	for _, m := range recreated[1].Matchups {
		seen[m.Home] = true
		seen[m.Away] = true
	}
	if !seen["carol"] {
		t.Fatal("recreated schedule should include carol")
	}
}

func TestGetWeek(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil, nil, nil)
	l := createTwoTeamLeague(t, f)

	if _, err := f.scheduleSvc.GetWeek(ctx, l.ID, 1); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("no schedule yet: got %v, want ErrNotFound", err)
	}

	if _, err := f.scheduleSvc.EnsureSeasonSchedule(ctx, l.ID, false); err != nil {
		t.Fatal(err)
	}

	w, err := f.scheduleSvc.GetWeek(ctx, l.ID, 3)
	if err != nil {
		t.Fatalf("get week: %v", err)
	}
	if w.Week != 3 || len(w.Matchups) != 1 {
		t.Fatalf("unexpected week: %+v", w)
	}

	if _, err := f.scheduleSvc.GetWeek(ctx, l.ID, 0); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("week 0: got %v, want ErrInvalidInput", err)
	}
}
