package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gridironpi/gridiron/internal/domain/team"
	"github.com/gridironpi/gridiron/internal/usecase"
)

func TestClaimAndReleasePlayer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(testPlayers(), nil, nil)
	l := createTwoTeamLeague(t, f)

	if _, err := f.rosterSvc.ClaimPlayer(ctx, l.ID, "mallory", "espn-1"); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("non-member claim: got %v, want ErrUnauthorized", err)
	}
	if _, err := f.rosterSvc.ClaimPlayer(ctx, l.ID, "alice", "nope"); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("unknown player: got %v, want ErrNotFound", err)
	}

	got, err := f.rosterSvc.ClaimPlayer(ctx, l.ID, "alice", "espn-1")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if got.Roster[team.SlotQB] != "espn-1" {
		t.Fatalf("QB should land in the QB slot, roster: %+v", got.Roster)
	}

	if _, err := f.rosterSvc.ClaimPlayer(ctx, l.ID, "bob", "espn-1"); !errors.Is(err, usecase.ErrStateConflict) {
		t.Fatalf("claiming an owned player: got %v, want ErrStateConflict", err)
	}
	if _, err := f.rosterSvc.ReleasePlayer(ctx, l.ID, "bob", "espn-1"); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("releasing someone else's player: got %v, want ErrNotFound", err)
	}

	got, err = f.rosterSvc.ReleasePlayer(ctx, l.ID, "alice", "espn-1")
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if got.HasPlayer("espn-1") {
		t.Fatal("released player still on the roster")
	}

	// Back in the pool: bob may claim him now.
	if _, err := f.rosterSvc.ClaimPlayer(ctx, l.ID, "bob", "espn-1"); err != nil {
		t.Fatalf("claim after release: %v", err)
	}
}

func TestMovePlayerBetweenSlots(t *testing.T) {
	ctx := context.Background()
	f := newFixture(testPlayers(), nil, nil)
	l := createTwoTeamLeague(t, f)

	if _, err := f.rosterSvc.ClaimPlayer(ctx, l.ID, "alice", "espn-2"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.rosterSvc.ClaimPlayer(ctx, l.ID, "alice", "espn-5"); err != nil {
		t.Fatal(err)
	}

	// RBs fill RB1 then RB2 in lineup order.
	got, err := f.rosterSvc.GetTeam(ctx, l.ID, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if got.Roster[team.SlotRB1] != "espn-2" || got.Roster[team.SlotRB2] != "espn-5" {
		t.Fatalf("unexpected roster: %+v", got.Roster)
	}

	// An RB cannot start at QB.
	if _, err := f.rosterSvc.MovePlayer(ctx, usecase.RosterMoveInput{
		LeagueID: l.ID, Username: "alice", PlayerID: "espn-2", Slot: team.SlotQB,
	}); !errors.Is(err, usecase.ErrStateConflict) {
		t.Fatalf("illegal slot move: got %v, want ErrStateConflict", err)
	}

	// Moving into an occupied slot swaps the displaced starter to the bench.
	got, err = f.rosterSvc.MovePlayer(ctx, usecase.RosterMoveInput{
		LeagueID: l.ID, Username: "alice", PlayerID: "espn-2", Slot: team.SlotRB2,
	})
	if err != nil {
		t.Fatalf("swap move: %v", err)
	}
	if got.Roster[team.SlotRB2] != "espn-2" {
		t.Fatalf("espn-2 should occupy RB2, roster: %+v", got.Roster)
	}
	if len(got.Bench) != 1 || got.Bench[0] != "espn-5" {
		t.Fatalf("displaced starter should be benched, bench: %v", got.Bench)
	}

	// Empty slot benches the player.
	got, err = f.rosterSvc.MovePlayer(ctx, usecase.RosterMoveInput{
		LeagueID: l.ID, Username: "alice", PlayerID: "espn-2",
	})
	if err != nil {
		t.Fatalf("bench move: %v", err)
	}
	if got.Roster[team.SlotRB2] != "" {
		t.Fatal("RB2 should be open after benching")
	}
	if len(got.Bench) != 2 {
		t.Fatalf("bench = %v, want both RBs", got.Bench)
	}

	if _, err := f.rosterSvc.MovePlayer(ctx, usecase.RosterMoveInput{
		LeagueID: l.ID, Username: "alice", PlayerID: "espn-1", Slot: team.SlotQB,
	}); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("moving an unowned player: got %v, want ErrNotFound", err)
	}
}
