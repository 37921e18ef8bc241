package league

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func settledLeague() *League {
	l := &League{
		ID:    "lg-1",
		Name:  "Test League",
		Owner: "alice",
		Rules: DefaultRules(),
		Entry: Entry{Enabled: true, AmountPi: 10, RakeBps: 200},
	}
	l.AddMember("alice")
	l.AddMember("bob")
	l.Draft = NewDraftState(l.Rules)
	l.Draft.Status = DraftDone
	l.Settings.SeasonEnded = true

	return l
}

func sequentialIDs() func() string {
	n := 0

	return func() string {
		n++
		return fmt.Sprintf("po-%d", n)
	}
}

func TestComputeRake(t *testing.T) {
	cases := []struct {
		amount float64
		bps    int
		want   float64
	}{
		{100, 200, 2},
		{10, 200, 0.2},
		{0.05, 200, 0.001},
		{33.3333, 200, 0.6667},
		{100, 0, 0},
	}

	for _, tc := range cases {
		if got := ComputeRake(tc.amount, tc.bps); got != tc.want {
			t.Fatalf("ComputeRake(%v, %d) = %v, want %v", tc.amount, tc.bps, got, tc.want)
		}
	}
}

func TestEffectiveRakeBps(t *testing.T) {
	l := settledLeague()
	if got := l.EffectiveRakeBps(); got != 200 {
		t.Fatalf("enabled entry: rake = %d, want 200", got)
	}

	l.Entry.Enabled = false
	if got := l.EffectiveRakeBps(); got != 0 {
		t.Fatalf("disabled entry: rake = %d, want 0", got)
	}

	l.Entry.Enabled = true
	l.Entry.AmountPi = 0
	if got := l.EffectiveRakeBps(); got != 0 {
		t.Fatalf("zero amount: rake = %d, want 0", got)
	}
}

func TestRecordEntryPayment(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := settledLeague()

	if err := l.RecordEntryPayment("bob", "tx-1", 10, now); err != nil {
		t.Fatal(err)
	}

	if l.Treasury.PoolPi != 9.8 {
		t.Fatalf("pool = %v, want 9.8", l.Treasury.PoolPi)
	}
	if l.Treasury.RakePi != 0.2 {
		t.Fatalf("rake = %v, want 0.2", l.Treasury.RakePi)
	}
	receipt, ok := l.Entry.Paid["bob"]
	if !ok || receipt.TxID != "tx-1" {
		t.Fatalf("paid receipt = %+v, want tx-1", receipt)
	}
	if len(l.Treasury.Txs) != 1 || l.Treasury.Txs[0].Kind != TxKindEntry {
		t.Fatalf("ledger = %+v, want one entry tx", l.Treasury.Txs)
	}

	// Replaying the same transaction must not double-credit.
	if err := l.RecordEntryPayment("bob", "tx-1", 10, now); err != nil {
		t.Fatal(err)
	}
	if l.Treasury.PoolPi != 9.8 || len(l.Treasury.Txs) != 1 {
		t.Fatalf("replay mutated treasury: pool=%v txs=%d", l.Treasury.PoolPi, len(l.Treasury.Txs))
	}

	if err := l.RecordEntryPayment("", "tx-2", 10, now); err == nil {
		t.Fatal("expected error for missing username")
	}
	if err := l.RecordEntryPayment("carol", "tx-3", 0, now); err == nil {
		t.Fatal("expected error for non-positive amount")
	}
}

func TestSeasonWinnersRanking(t *testing.T) {
	standings := map[string]Standing{
		"dave":  {Wins: 8, Losses: 6, PointsFor: 1400},
		"alice": {Wins: 10, Losses: 4, PointsFor: 1500},
		"bob":   {Wins: 10, Losses: 4, PointsFor: 1550},
		"carol": {Wins: 10, Losses: 4, PointsFor: 1500},
	}

	got := SeasonWinners(standings, 4)
	want := []string{"bob", "alice", "carol", "dave"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rank %d = %s, want %s (full order %v)", i, got[i], want[i], got)
		}
	}

	if top := SeasonWinners(standings, 1); len(top) != 1 || top[0] != "bob" {
		t.Fatalf("top-1 = %v, want [bob]", top)
	}
	if got := SeasonWinners(standings, 10); len(got) != 4 {
		t.Fatalf("k beyond size should clamp, got %d", len(got))
	}
	if got := SeasonWinners(nil, 1); len(got) != 0 {
		t.Fatalf("empty standings should produce no winners, got %v", got)
	}
}

func TestSplitPool(t *testing.T) {
	shares := SplitPool(100, 3)
	if len(shares) != 3 {
		t.Fatalf("expected 3 shares, got %d", len(shares))
	}

	total := 0.0
	for _, share := range shares {
		total = round4(total + share)
	}
	if total != 100 {
		t.Fatalf("shares sum to %v, want exactly 100", total)
	}
	if shares[1] != shares[2] {
		t.Fatalf("trailing shares should be equal, got %v", shares)
	}
	if shares[0] < shares[1] {
		t.Fatalf("remainder should land on the first share, got %v", shares)
	}

	if got := SplitPool(9.8, 1); len(got) != 1 || got[0] != 9.8 {
		t.Fatalf("single winner takes the pool, got %v", got)
	}
	if got := SplitPool(10, 0); got != nil {
		t.Fatalf("zero winners should produce nothing, got %v", got)
	}
}

func TestEnqueueSeasonPayouts(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	idGen := sequentialIDs()

	l := settledLeague()
	l.Standings["alice"] = Standing{Wins: 9, PointsFor: 1200}
	l.Standings["bob"] = Standing{Wins: 5, PointsFor: 1000}
	l.Treasury.PoolPi = 19.6

	queued, err := l.EnqueueSeasonPayouts(idGen, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(queued) != 1 {
		t.Fatalf("queued %d payouts, want 1", len(queued))
	}
	if queued[0].Username != "alice" || queued[0].AmountPi != 19.6 {
		t.Fatalf("payout = %+v, want alice/19.6", queued[0])
	}
	if queued[0].Status != PayoutPending {
		t.Fatalf("status = %s, want pending", queued[0].Status)
	}

	// Settling twice must not duplicate the queue entry.
	again, err := l.EnqueueSeasonPayouts(idGen, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 0 || len(l.Treasury.Payouts.Pending) != 1 {
		t.Fatalf("second settle queued %d, pending=%d", len(again), len(l.Treasury.Payouts.Pending))
	}
}

func TestEnqueueSeasonPayoutsNotReady(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	l := settledLeague()
	l.Draft.Status = DraftLive
	if _, err := l.EnqueueSeasonPayouts(sequentialIDs(), now); !errors.Is(err, ErrLeagueNotSettled) {
		t.Fatalf("live draft: got %v, want ErrLeagueNotSettled", err)
	}

	l = settledLeague()
	l.Settings.SeasonEnded = false
	l.Settings.CurrentWeek = 3
	if _, err := l.EnqueueSeasonPayouts(sequentialIDs(), now); !errors.Is(err, ErrLeagueNotSettled) {
		t.Fatalf("mid-season: got %v, want ErrLeagueNotSettled", err)
	}

	// Reaching the final week is as good as the season-ended flag.
	l.Settings.CurrentWeek = l.Rules.SeasonWeeks
	l.Treasury.PoolPi = 5
	l.Standings["alice"] = Standing{Wins: 1}
	if _, err := l.EnqueueSeasonPayouts(sequentialIDs(), now); err != nil {
		t.Fatalf("final week should settle: %v", err)
	}
}

func TestMarkPayoutSent(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	l := settledLeague()
	l.Standings["alice"] = Standing{Wins: 9}
	l.Treasury.PoolPi = 19.6

	queued, err := l.EnqueueSeasonPayouts(sequentialIDs(), now)
	if err != nil {
		t.Fatal(err)
	}

	sent, err := l.MarkPayoutSent(queued[0].ID, "chain-tx-9", now.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if sent.Status != PayoutSent || sent.TxID != "chain-tx-9" || sent.SentAt == nil {
		t.Fatalf("sent payout = %+v", sent)
	}
	if len(l.Treasury.Payouts.Pending) != 0 || len(l.Treasury.Payouts.Sent) != 1 {
		t.Fatalf("queue state pending=%d sent=%d", len(l.Treasury.Payouts.Pending), len(l.Treasury.Payouts.Sent))
	}
	if l.Treasury.PoolPi != 0 {
		t.Fatalf("pool = %v, want 0 after full payout", l.Treasury.PoolPi)
	}

	if _, err := l.MarkPayoutSent(queued[0].ID, "chain-tx-9", now); !errors.Is(err, ErrPayoutNotFound) {
		t.Fatalf("resend: got %v, want ErrPayoutNotFound", err)
	}
}

func TestMarkPayoutSentFloorsPool(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	l := settledLeague()
	l.Treasury.PoolPi = 5
	l.Treasury.Payouts.Pending = []Payout{{ID: "po-1", Username: "alice", AmountPi: 7, Status: PayoutPending}}

	if _, err := l.MarkPayoutSent("po-1", "chain-tx-1", now); err != nil {
		t.Fatal(err)
	}
	if l.Treasury.PoolPi != 0 {
		t.Fatalf("pool = %v, want floor at 0", l.Treasury.PoolPi)
	}
}

func TestCancelPendingPayout(t *testing.T) {
	l := settledLeague()
	l.Treasury.PoolPi = 10
	l.Treasury.Payouts.Pending = []Payout{{ID: "po-1", Username: "alice", AmountPi: 10, Status: PayoutPending}}

	if err := l.CancelPendingPayout("po-1"); err != nil {
		t.Fatal(err)
	}
	if len(l.Treasury.Payouts.Pending) != 0 {
		t.Fatal("cancel should drop the pending payout")
	}
	if l.Treasury.PoolPi != 10 {
		t.Fatalf("cancel must not touch the pool, got %v", l.Treasury.PoolPi)
	}

	if err := l.CancelPendingPayout("po-404"); !errors.Is(err, ErrPayoutNotFound) {
		t.Fatalf("got %v, want ErrPayoutNotFound", err)
	}
}
