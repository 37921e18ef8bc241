package league

import (
	"errors"
	"testing"
	"time"
)

func testRules(slots, bench int) Rules {
	r := DefaultRules()
	r.StartingSlots = slots
	r.BenchSize = bench

	return r
}

func TestDraftConfigure(t *testing.T) {
	d := NewDraftState(DefaultRules())

	if err := d.Configure(nil, DefaultRules()); !errors.Is(err, ErrDraftOrderInvalid) {
		t.Fatalf("empty order: got %v, want ErrDraftOrderInvalid", err)
	}
	if err := d.Configure([]string{"alice", "bob", "alice"}, DefaultRules()); !errors.Is(err, ErrDraftOrderInvalid) {
		t.Fatalf("duplicate member: got %v, want ErrDraftOrderInvalid", err)
	}
	if err := d.Configure([]string{"alice", ""}, DefaultRules()); !errors.Is(err, ErrDraftOrderInvalid) {
		t.Fatalf("empty username: got %v, want ErrDraftOrderInvalid", err)
	}

	if err := d.Configure([]string{"alice", "bob"}, DefaultRules()); err != nil {
		t.Fatalf("valid order: %v", err)
	}
	if d.Round != 1 || d.Pointer != 0 || d.Direction != 1 || d.PicksTaken != 0 {
		t.Fatalf("configure should reset to round one, got %+v", d)
	}
	if d.RoundsTotal != DefaultRules().RoundsTotal() {
		t.Fatalf("RoundsTotal = %d, want %d", d.RoundsTotal, DefaultRules().RoundsTotal())
	}
}

func TestDraftStart(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	d := NewDraftState(DefaultRules())
	if err := d.Start(now); !errors.Is(err, ErrDraftOrderInvalid) {
		t.Fatalf("start without order: got %v, want ErrDraftOrderInvalid", err)
	}

	if err := d.Configure([]string{"alice", "bob"}, DefaultRules()); err != nil {
		t.Fatal(err)
	}
	if err := d.Start(now); err != nil {
		t.Fatalf("start: %v", err)
	}
	if d.Status != DraftLive {
		t.Fatalf("status = %s, want live", d.Status)
	}
	if d.Deadline == nil || *d.Deadline != now.UnixMilli()+d.ClockMs {
		t.Fatal("start should arm the pick clock")
	}

	// Starting a live draft is a no-op, not an error.
	if err := d.Start(now); err != nil {
		t.Fatalf("double start: %v", err)
	}

	d.End()
	if err := d.Start(now); !errors.Is(err, ErrDraftDone) {
		t.Fatalf("start after end: got %v, want ErrDraftDone", err)
	}
}

// TestDraftSnakeOrder walks a full four-team, three-round draft and checks
// the on-clock sequence reverses each round.
func TestDraftSnakeOrder(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	order := []string{"alice", "bob", "carol", "dave"}

	d := NewDraftState(testRules(2, 1))
	if err := d.Configure(order, testRules(2, 1)); err != nil {
		t.Fatal(err)
	}
	if err := d.Start(now); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"alice", "bob", "carol", "dave", // round 1
		"dave", "carol", "bob", "alice", // round 2
		"alice", "bob", "carol", "dave", // round 3
	}

	for i, expected := range want {
		onClock, ok := d.OnClock()
		if !ok {
			t.Fatalf("pick %d: draft not live", i+1)
		}
		if onClock != expected {
			t.Fatalf("pick %d: on clock %s, want %s (round %d pointer %d)", i+1, onClock, expected, d.Round, d.Pointer)
		}
		d.Advance(now)
	}

	if d.Status != DraftDone {
		t.Fatalf("status after final pick = %s, want done", d.Status)
	}
	if d.Deadline != nil {
		t.Fatal("final pick should clear the clock")
	}
	if _, ok := d.OnClock(); ok {
		t.Fatal("no one should be on the clock after the draft")
	}
}

func TestDraftAdvanceRearmsClock(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	later := start.Add(45 * time.Second)

	d := NewDraftState(testRules(2, 0))
	if err := d.Configure([]string{"alice", "bob"}, testRules(2, 0)); err != nil {
		t.Fatal(err)
	}
	if err := d.Start(start); err != nil {
		t.Fatal(err)
	}

	d.Advance(later)
	if d.Deadline == nil || *d.Deadline != later.UnixMilli()+d.ClockMs {
		t.Fatal("advance should re-arm the clock from the pick time")
	}
}

func TestDraftExpired(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)

	d := NewDraftState(DefaultRules())
	if err := d.Configure([]string{"alice", "bob"}, DefaultRules()); err != nil {
		t.Fatal(err)
	}
	if err := d.Start(start); err != nil {
		t.Fatal(err)
	}

	if d.Expired(start) {
		t.Fatal("clock should not expire immediately")
	}
	if !d.Expired(start.Add(61 * time.Second)) {
		t.Fatal("clock should expire after the pick window")
	}

	d.End()
	if d.Expired(start.Add(time.Hour)) {
		t.Fatal("finished draft has no clock to expire")
	}
}
