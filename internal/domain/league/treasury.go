package league

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

type PayoutStatus string

const (
	PayoutPending PayoutStatus = "pending"
	PayoutSent    PayoutStatus = "sent"
)

const (
	TxKindEntry  = "entry"
	TxKindSeason = "season"
	TxKindPayout = "payout"
)

var (
	ErrPayoutNotFound   = errors.New("payout not found")
	ErrLeagueNotSettled = errors.New("league is not ready for settlement")
)

// TreasuryTx is one append-only treasury ledger entry.
type TreasuryTx struct {
	Kind     string    `json:"kind"`
	Username string    `json:"username"`
	AmountPi float64   `json:"amountPi"`
	TxID     string    `json:"txId,omitempty"`
	At       time.Time `json:"at"`
}

// Payout is a queued or completed disbursement.
type Payout struct {
	ID        string       `json:"id"`
	Kind      string       `json:"kind"`
	Username  string       `json:"username"`
	AmountPi  float64      `json:"amountPi"`
	Status    PayoutStatus `json:"status"`
	TxID      string       `json:"txId,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	SentAt    *time.Time   `json:"sentAt,omitempty"`
}

// PayoutQueue splits disbursements by lifecycle stage.
type PayoutQueue struct {
	Pending []Payout `json:"pending,omitempty"`
	Sent    []Payout `json:"sent,omitempty"`
}

// Treasury tracks collected entry fees and season payouts for one league.
type Treasury struct {
	PoolPi  float64      `json:"poolPi"`
	RakePi  float64      `json:"rakePi"`
	Txs     []TreasuryTx `json:"txs,omitempty"`
	Payouts PayoutQueue  `json:"payouts"`
}

// EffectiveRakeBps returns the rake applied to entry payments: the fixed
// configured rate when entry fees are enabled with a positive amount, else 0.
func (l League) EffectiveRakeBps() int {
	if l.Entry.Enabled && l.Entry.AmountPi > 0 {
		return l.Rules.RakeBps
	}

	return 0
}

// ComputeRake returns the operator cut of an entry payment at 4dp.
func ComputeRake(amountPi float64, rakeBps int) float64 {
	return round4(amountPi * float64(rakeBps) / 10_000)
}

// RecordEntryPayment applies a completed payment: splits the rake, credits
// the pool, marks the member paid and appends a ledger entry. Replaying the
// same transaction id is a no-op.
func (l *League) RecordEntryPayment(username, txID string, amountPi float64, now time.Time) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if amountPi <= 0 {
		return fmt.Errorf("payment amount must be greater than zero")
	}
	if receipt, ok := l.Entry.Paid[username]; ok && receipt.TxID == txID {
		return nil
	}

	rake := ComputeRake(amountPi, l.EffectiveRakeBps())
	net := round4(amountPi - rake)

	if l.Entry.Paid == nil {
		l.Entry.Paid = make(map[string]EntryReceipt)
	}
	l.Entry.Paid[username] = EntryReceipt{PaidAt: now, TxID: txID}
	l.Treasury.PoolPi = round4(l.Treasury.PoolPi + net)
	l.Treasury.RakePi = round4(l.Treasury.RakePi + rake)
	l.Treasury.Txs = append(l.Treasury.Txs, TreasuryTx{
		Kind:     TxKindEntry,
		Username: username,
		AmountPi: amountPi,
		TxID:     txID,
		At:       now,
	})

	return nil
}

// SettlementReady reports whether season payouts may be computed.
func (l League) SettlementReady() bool {
	return l.Draft.Status == DraftDone &&
		(l.Settings.SeasonEnded || l.Settings.CurrentWeek >= l.Rules.SeasonWeeks)
}

// SeasonWinners ranks standings by wins desc, pointsFor desc, losses asc and
// username asc as the final tie-break, returning the top k usernames.
func SeasonWinners(standings map[string]Standing, k int) []string {
	ranked := make([]string, 0, len(standings))
	for username := range standings {
		ranked = append(ranked, username)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := standings[ranked[i]], standings[ranked[j]]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.PointsFor != b.PointsFor {
			return a.PointsFor > b.PointsFor
		}
		if a.Losses != b.Losses {
			return a.Losses < b.Losses
		}
		return ranked[i] < ranked[j]
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	if k < 0 {
		k = 0
	}

	return ranked[:k]
}

// SplitPool divides the pool evenly to 4dp, assigning the rounding remainder
// to the first share so the shares always sum exactly to the pool.
func SplitPool(poolPi float64, winners int) []float64 {
	if winners <= 0 {
		return nil
	}

	share := round4(poolPi / float64(winners))
	shares := make([]float64, winners)
	total := 0.0
	for i := range shares {
		shares[i] = share
		total = round4(total + share)
	}
	shares[0] = round4(shares[0] + poolPi - total)

	return shares
}

// EnqueueSeasonPayouts queues one pending payout per winner. It is
// idempotent: a (username, amount) pair already pending or sent is skipped.
func (l *League) EnqueueSeasonPayouts(idGen func() string, now time.Time) ([]Payout, error) {
	if !l.SettlementReady() {
		return nil, ErrLeagueNotSettled
	}

	winners := SeasonWinners(l.Standings, l.Rules.WinnersCount)
	if len(winners) == 0 || l.Treasury.PoolPi <= 0 {
		return nil, nil
	}
	shares := SplitPool(l.Treasury.PoolPi, len(winners))

	queued := make([]Payout, 0, len(winners))
	for i, username := range winners {
		if l.hasPayout(username, shares[i]) {
			continue
		}
		payout := Payout{
			ID:        idGen(),
			Kind:      TxKindSeason,
			Username:  username,
			AmountPi:  shares[i],
			Status:    PayoutPending,
			CreatedAt: now,
		}
		l.Treasury.Payouts.Pending = append(l.Treasury.Payouts.Pending, payout)
		queued = append(queued, payout)
	}

	return queued, nil
}

// MarkPayoutSent completes a pending payout: records the external tx id,
// deducts the amount from the pool (floored at zero) and logs a ledger entry.
func (l *League) MarkPayoutSent(payoutID, txID string, now time.Time) (Payout, error) {
	for i, payout := range l.Treasury.Payouts.Pending {
		if payout.ID != payoutID {
			continue
		}

		payout.Status = PayoutSent
		payout.TxID = txID
		payout.SentAt = &now

		l.Treasury.Payouts.Pending = append(l.Treasury.Payouts.Pending[:i], l.Treasury.Payouts.Pending[i+1:]...)
		l.Treasury.Payouts.Sent = append(l.Treasury.Payouts.Sent, payout)
		l.Treasury.PoolPi = round4(math.Max(0, l.Treasury.PoolPi-payout.AmountPi))
		l.Treasury.Txs = append(l.Treasury.Txs, TreasuryTx{
			Kind:     TxKindPayout,
			Username: payout.Username,
			AmountPi: payout.AmountPi,
			TxID:     txID,
			At:       now,
		})

		return payout, nil
	}

	return Payout{}, fmt.Errorf("%w: %s", ErrPayoutNotFound, payoutID)
}

// CancelPendingPayout removes a queued payout with no financial effect.
func (l *League) CancelPendingPayout(payoutID string) error {
	for i, payout := range l.Treasury.Payouts.Pending {
		if payout.ID == payoutID {
			l.Treasury.Payouts.Pending = append(l.Treasury.Payouts.Pending[:i], l.Treasury.Payouts.Pending[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrPayoutNotFound, payoutID)
}

func (l League) hasPayout(username string, amountPi float64) bool {
	for _, payout := range l.Treasury.Payouts.Pending {
		if payout.Username == username && payout.AmountPi == amountPi {
			return true
		}
	}
	for _, payout := range l.Treasury.Payouts.Sent {
		if payout.Username == username && payout.AmountPi == amountPi {
			return true
		}
	}

	return false
}

func round4(v float64) float64 {
	return math.Round(v*10_000) / 10_000
}
