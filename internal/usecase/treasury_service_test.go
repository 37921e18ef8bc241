package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridironpi/gridiron/internal/domain/league"
	"github.com/gridironpi/gridiron/internal/usecase"
)

type fakeSender struct {
	calls []string
	err   error
}

func (s *fakeSender) SendPayment(_ context.Context, username string, amountPi float64, memo string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.calls = append(s.calls, username)

	return fmt.Sprintf("chain-tx-%d", len(s.calls)), nil
}

func createPaidLeague(t *testing.T, f *fixture) league.League {
	t.Helper()
	ctx := context.Background()

	l, err := f.leagueSvc.CreateLeague(ctx, usecase.CreateLeagueInput{
		Name:         "Money League",
		Owner:        "alice",
		EntryEnabled: true,
		EntryAmount:  10,
	})
	require.NoError(t, err)
	_, err = f.leagueSvc.JoinLeague(ctx, l.ID, "bob")
	require.NoError(t, err)

	return l
}

func TestPaymentWebhookOnlyCompletedMovesMoney(t *testing.T) {
	ctx := context.Background()
	f := newFixture(testPlayers(), nil, nil)
	l := createPaidLeague(t, f)

	applied, err := f.treasurySvc.HandlePaymentWebhook(ctx, usecase.PaymentWebhookInput{
		LeagueID: l.ID, Username: "bob", TxID: "tx-1", AmountPi: 10, Status: "PENDING",
	})
	require.NoError(t, err)
	require.False(t, applied)

	treasury, err := f.treasurySvc.Summary(ctx, l.ID)
	require.NoError(t, err)
	require.Zero(t, treasury.PoolPi)

	applied, err = f.treasurySvc.HandlePaymentWebhook(ctx, usecase.PaymentWebhookInput{
		LeagueID: l.ID, Username: "bob", TxID: "tx-1", AmountPi: 10, Status: usecase.PaymentStatusCompleted,
	})
	require.NoError(t, err)
	require.True(t, applied)

	// 200 bps rake on 10 Pi.
	treasury, err = f.treasurySvc.Summary(ctx, l.ID)
	require.NoError(t, err)
	require.InDelta(t, 9.8, treasury.PoolPi, 1e-4)
	require.InDelta(t, 0.2, treasury.RakePi, 1e-4)

	// Replaying the same chain transaction must not double-credit.
	_, err = f.treasurySvc.HandlePaymentWebhook(ctx, usecase.PaymentWebhookInput{
		LeagueID: l.ID, Username: "bob", TxID: "tx-1", AmountPi: 10, Status: usecase.PaymentStatusCompleted,
	})
	require.NoError(t, err)
	treasury, err = f.treasurySvc.Summary(ctx, l.ID)
	require.NoError(t, err)
	require.InDelta(t, 9.8, treasury.PoolPi, 1e-4)

	_, err = f.treasurySvc.HandlePaymentWebhook(ctx, usecase.PaymentWebhookInput{
		LeagueID: l.ID, Username: "mallory", TxID: "tx-2", AmountPi: 10, Status: usecase.PaymentStatusCompleted,
	})
	require.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestSettleQueuesAndSendsPayout(t *testing.T) {
	ctx := context.Background()
	sender := &fakeSender{}
	f := newFixture(testPlayers(), sender, nil)
	l := createPaidLeague(t, f)

	_, err := f.treasurySvc.HandlePaymentWebhook(ctx, usecase.PaymentWebhookInput{
		LeagueID: l.ID, Username: "alice", TxID: "tx-a", AmountPi: 10, Status: usecase.PaymentStatusCompleted,
	})
	require.NoError(t, err)
	_, err = f.treasurySvc.HandlePaymentWebhook(ctx, usecase.PaymentWebhookInput{
		LeagueID: l.ID, Username: "bob", TxID: "tx-b", AmountPi: 10, Status: usecase.PaymentStatusCompleted,
	})
	require.NoError(t, err)

	// Season still running: settlement refuses.
	_, err = f.treasurySvc.Settle(ctx, l.ID)
	require.ErrorIs(t, err, usecase.ErrStateConflict)

	// Finish the season with bob on top.
	stored, exists, err := f.leagues.GetByID(ctx, l.ID)
	require.NoError(t, err)
	require.True(t, exists)
	stored.Draft.Status = league.DraftDone
	stored.Settings.SeasonEnded = true
	stored.Standings["bob"] = league.Standing{Wins: 3, PointsFor: 300}
	stored.Standings["alice"] = league.Standing{Wins: 1, PointsFor: 250}
	require.NoError(t, f.leagues.Save(ctx, stored))

	queued, err := f.treasurySvc.Settle(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	require.Equal(t, "bob", queued[0].Username)
	require.InDelta(t, 19.6, queued[0].AmountPi, 1e-4)

	// Settling again queues nothing.
	again, err := f.treasurySvc.Settle(ctx, l.ID)
	require.NoError(t, err)
	require.Empty(t, again)

	sent, err := f.treasurySvc.SendPayout(ctx, l.ID, queued[0].ID)
	require.NoError(t, err)
	require.Equal(t, league.PayoutSent, sent.Status)
	require.Equal(t, []string{"bob"}, sender.calls)

	// The pool drains exactly by the payout.
	treasury, err := f.treasurySvc.Summary(ctx, l.ID)
	require.NoError(t, err)
	require.InDelta(t, 0, treasury.PoolPi, 1e-4)
	require.Len(t, treasury.Payouts.Sent, 1)
	require.Empty(t, treasury.Payouts.Pending)

	_, err = f.treasurySvc.SendPayout(ctx, l.ID, queued[0].ID)
	require.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestSendPayoutWithoutProvider(t *testing.T) {
	ctx := context.Background()
	f := newFixture(testPlayers(), nil, nil)
	l := createPaidLeague(t, f)

	_, err := f.treasurySvc.SendPayout(ctx, l.ID, "payout-1")
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
}

func TestCancelPayout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(testPlayers(), nil, nil)
	l := createPaidLeague(t, f)

	err := f.treasurySvc.CancelPayout(ctx, l.ID, "missing")
	require.ErrorIs(t, err, usecase.ErrNotFound)

	_, err = f.treasurySvc.HandlePaymentWebhook(ctx, usecase.PaymentWebhookInput{
		LeagueID: l.ID, Username: "bob", TxID: "tx-1", AmountPi: 10, Status: usecase.PaymentStatusCompleted,
	})
	require.NoError(t, err)

	stored, _, err := f.leagues.GetByID(ctx, l.ID)
	require.NoError(t, err)
	stored.Draft.Status = league.DraftDone
	stored.Settings.SeasonEnded = true
	stored.Standings["bob"] = league.Standing{Wins: 1}
	require.NoError(t, f.leagues.Save(ctx, stored))

	queued, err := f.treasurySvc.Settle(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, queued, 1)

	require.NoError(t, f.treasurySvc.CancelPayout(ctx, l.ID, queued[0].ID))

	// Cancellation leaves the pool untouched.
	treasury, err := f.treasurySvc.Summary(ctx, l.ID)
	require.NoError(t, err)
	require.InDelta(t, 9.8, treasury.PoolPi, 1e-4)
	require.Empty(t, treasury.Payouts.Pending)
}
