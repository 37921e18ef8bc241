package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gridironpi/gridiron/internal/domain/league"
	"github.com/gridironpi/gridiron/internal/domain/team"
	"github.com/gridironpi/gridiron/internal/usecase"
)

func createTwoTeamLeague(t *testing.T, f *fixture) league.League {
	t.Helper()
	ctx := context.Background()

	l, err := f.leagueSvc.CreateLeague(ctx, usecase.CreateLeagueInput{Name: "Test League", Owner: "alice"})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	if _, err := f.leagueSvc.JoinLeague(ctx, l.ID, "bob"); err != nil {
		t.Fatalf("join league: %v", err)
	}

	return l
}

func TestDraftConfigureAuthorization(t *testing.T) {
	ctx := context.Background()
	f := newFixture(testPlayers(), nil, nil)
	l := createTwoTeamLeague(t, f)

	if _, err := f.draftSvc.Configure(ctx, l.ID, "bob", []string{"alice", "bob"}); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("non-owner configure: got %v, want ErrUnauthorized", err)
	}
	if _, err := f.draftSvc.Configure(ctx, l.ID, "alice", []string{"alice", "mallory"}); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("non-member in order: got %v, want ErrInvalidInput", err)
	}
	if _, err := f.draftSvc.Configure(ctx, "nope", "alice", []string{"alice"}); !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("missing league: got %v, want ErrNotFound", err)
	}

	d, err := f.draftSvc.Configure(ctx, l.ID, "alice", []string{"alice", "bob"})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if d.Status != league.DraftScheduled || d.Round != 1 || d.Pointer != 0 {
		t.Fatalf("configure should reset to round one, got %+v", d)
	}

	got, err := f.leagueSvc.GetLeague(ctx, l.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Settings.LockAddDuringDraft {
		t.Fatal("configuring the draft should lock add/drop")
	}
}

// TestDraftPickSequence runs the opening picks of a two-team draft and checks
// the snake turn order, claim uniqueness and that rejected picks leave no
// trace.
func TestDraftPickSequence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(testPlayers(), nil, nil)
	l := createTwoTeamLeague(t, f)

	if _, err := f.draftSvc.Configure(ctx, l.ID, "alice", []string{"alice", "bob"}); err != nil {
		t.Fatal(err)
	}

	// Not live yet.
	if _, err := f.draftSvc.Pick(ctx, usecase.PickInput{LeagueID: l.ID, Username: "alice", PlayerID: "espn-1"}); !errors.Is(err, usecase.ErrStateConflict) {
		t.Fatalf("pick before start: got %v, want ErrStateConflict", err)
	}

	if _, err := f.draftSvc.Start(ctx, l.ID, "alice"); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Out of turn: nothing may change.
	if _, err := f.draftSvc.Pick(ctx, usecase.PickInput{LeagueID: l.ID, Username: "bob", PlayerID: "espn-1"}); !errors.Is(err, usecase.ErrStateConflict) {
		t.Fatalf("out-of-turn pick: got %v, want ErrStateConflict", err)
	}
	if _, claimed, _ := f.claims.Get(ctx, l.ID, "espn-1"); claimed {
		t.Fatal("rejected pick must not create a claim")
	}

	res, err := f.draftSvc.Pick(ctx, usecase.PickInput{LeagueID: l.ID, Username: "alice", PlayerID: "espn-1"})
	if err != nil {
		t.Fatalf("alice pick: %v", err)
	}
	if res.Slot != team.SlotQB || res.Benched {
		t.Fatalf("QB should auto-assign to the QB slot, got %+v", res)
	}
	if res.Draft.Pointer != 1 {
		t.Fatalf("pointer after pick 1 = %d, want 1 (bob)", res.Draft.Pointer)
	}

	res, err = f.draftSvc.Pick(ctx, usecase.PickInput{LeagueID: l.ID, Username: "bob", PlayerID: "espn-2"})
	if err != nil {
		t.Fatalf("bob pick: %v", err)
	}
	// Round two reverses: bob picks back to back.
	if res.Draft.Round != 2 || res.Draft.Pointer != 1 {
		t.Fatalf("after pick 2: round=%d pointer=%d, want round 2 pointer 1", res.Draft.Round, res.Draft.Pointer)
	}

	if _, err := f.draftSvc.Pick(ctx, usecase.PickInput{LeagueID: l.ID, Username: "bob", PlayerID: "espn-1"}); !errors.Is(err, usecase.ErrStateConflict) {
		t.Fatalf("picking an owned player: got %v, want ErrStateConflict", err)
	}

	res, err = f.draftSvc.Pick(ctx, usecase.PickInput{LeagueID: l.ID, Username: "bob", PlayerID: "espn-3"})
	if err != nil {
		t.Fatalf("bob second pick: %v", err)
	}
	if res.Draft.Round != 2 || res.Draft.Pointer != 0 {
		t.Fatalf("after pick 3: round=%d pointer=%d, want round 2 pointer 0 (alice)", res.Draft.Round, res.Draft.Pointer)
	}

	// Add/drop stays locked while the draft runs.
	if _, err := f.rosterSvc.ClaimPlayer(ctx, l.ID, "alice", "espn-4"); !errors.Is(err, usecase.ErrStateConflict) {
		t.Fatalf("claim during draft: got %v, want ErrStateConflict", err)
	}
}

func TestDraftAutoPickRanksByProjection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(testPlayers(), nil, nil)
	l := createTwoTeamLeague(t, f)

	if _, err := f.draftSvc.Configure(ctx, l.ID, "alice", []string{"alice", "bob"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.draftSvc.Start(ctx, l.ID, "alice"); err != nil {
		t.Fatal(err)
	}

	res, err := f.draftSvc.AutoPick(ctx, l.ID)
	if err != nil {
		t.Fatalf("auto pick: %v", err)
	}
	if res.PlayerID != "espn-1" {
		t.Fatalf("auto pick chose %s, want espn-1 (highest projection)", res.PlayerID)
	}

	res, err = f.draftSvc.AutoPick(ctx, l.ID)
	if err != nil {
		t.Fatalf("second auto pick: %v", err)
	}
	if res.PlayerID != "espn-2" {
		t.Fatalf("second auto pick chose %s, want espn-2 (next best unclaimed)", res.PlayerID)
	}
}

func TestDraftTickStartsScheduledDraft(t *testing.T) {
	ctx := context.Background()
	f := newFixture(testPlayers(), nil, nil)
	l := createTwoTeamLeague(t, f)

	if _, err := f.draftSvc.Configure(ctx, l.ID, "alice", []string{"alice", "bob"}); err != nil {
		t.Fatal(err)
	}

	// Future start time: tick is a no-op.
	if _, err := f.draftSvc.SetSchedule(ctx, l.ID, "alice", time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	d, err := f.draftSvc.Tick(ctx, l.ID)
	if err != nil {
		t.Fatal(err)
	}
	if d.Status != league.DraftScheduled {
		t.Fatalf("tick before start time flipped status to %s", d.Status)
	}

	if _, err := f.draftSvc.SetSchedule(ctx, l.ID, "alice", time.Now().Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}
	d, err = f.draftSvc.Tick(ctx, l.ID)
	if err != nil {
		t.Fatal(err)
	}
	if d.Status != league.DraftLive {
		t.Fatalf("tick past start time: status = %s, want live", d.Status)
	}
	if d.Deadline == nil {
		t.Fatal("going live must arm the pick clock")
	}
}

func TestDraftEndUnlocksRosterMoves(t *testing.T) {
	ctx := context.Background()
	f := newFixture(testPlayers(), nil, nil)
	l := createTwoTeamLeague(t, f)

	if _, err := f.draftSvc.Configure(ctx, l.ID, "alice", []string{"alice", "bob"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.draftSvc.Start(ctx, l.ID, "alice"); err != nil {
		t.Fatal(err)
	}

	if _, err := f.draftSvc.End(ctx, l.ID, "bob"); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("non-owner end: got %v, want ErrUnauthorized", err)
	}

	d, err := f.draftSvc.End(ctx, l.ID, "alice")
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if d.Status != league.DraftDone {
		t.Fatalf("status = %s, want done", d.Status)
	}

	if _, err := f.rosterSvc.ClaimPlayer(ctx, l.ID, "alice", "espn-4"); err != nil {
		t.Fatalf("claim after draft end: %v", err)
	}
}
