package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gridironpi/gridiron/internal/domain/league"
	idgen "github.com/gridironpi/gridiron/internal/platform/id"
)

// PaymentStatusCompleted is the only webhook status that moves money.
const PaymentStatusCompleted = "COMPLETED"

// PaymentWebhookInput is the payment provider's completed-payment
// notification payload.
type PaymentWebhookInput struct {
	LeagueID string  `json:"leagueId" validate:"required"`
	Username string  `json:"username" validate:"required"`
	TxID     string  `json:"txId" validate:"required"`
	AmountPi float64 `json:"amountPi" validate:"gt=0"`
	Status   string  `json:"status" validate:"required"`
}

// PayoutSender disburses Pi to a user and returns the chain transaction id.
type PayoutSender interface {
	SendPayment(ctx context.Context, username string, amountPi float64, memo string) (string, error)
}

type TreasuryService struct {
	tx         TxRunner
	leagueRepo league.Repository
	sender     PayoutSender
	idGen      idgen.Generator
	logger     *slog.Logger
	now        func() time.Time
}

func NewTreasuryService(
	tx TxRunner,
	leagueRepo league.Repository,
	sender PayoutSender,
	idGen idgen.Generator,
	logger *slog.Logger,
) *TreasuryService {
	if logger == nil {
		logger = slog.Default()
	}

	return &TreasuryService{
		tx:         tx,
		leagueRepo: leagueRepo,
		sender:     sender,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// HandlePaymentWebhook records a completed entry payment. Every other status
// is acknowledged and ignored. Returns whether the payment was applied.
func (s *TreasuryService) HandlePaymentWebhook(ctx context.Context, input PaymentWebhookInput) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "TreasuryService.HandlePaymentWebhook")
	defer span.End()

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.Username = strings.TrimSpace(input.Username)
	input.TxID = strings.TrimSpace(input.TxID)
	if input.LeagueID == "" || input.Username == "" || input.TxID == "" {
		return false, fmt.Errorf("%w: league id, username and tx id are required", ErrInvalidInput)
	}
	if input.Status != PaymentStatusCompleted {
		s.logger.InfoContext(ctx, "payment webhook ignored",
			"league_id", input.LeagueID,
			"status", input.Status,
		)
		return false, nil
	}
	if input.AmountPi <= 0 {
		return false, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	}

	err := s.tx.InLeague(ctx, input.LeagueID, func(tx LeagueTx) error {
		l, exists, err := tx.League(ctx)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
		}
		if !l.IsMember(input.Username) {
			return fmt.Errorf("%w: %s is not a league member", ErrInvalidInput, input.Username)
		}

		if err := l.RecordEntryPayment(input.Username, input.TxID, input.AmountPi, s.now().UTC()); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		l.UpdatedAt = s.now().UTC()

		return tx.SaveLeague(ctx, l)
	})
	if err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "entry payment recorded",
		"league_id", input.LeagueID,
		"username", input.Username,
		"amount_pi", input.AmountPi,
	)

	return true, nil
}

// Settle computes season winners and queues their payouts. Idempotent.
func (s *TreasuryService) Settle(ctx context.Context, leagueID string) ([]league.Payout, error) {
	ctx, span := startUsecaseSpan(ctx, "TreasuryService.Settle")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	var queued []league.Payout
	err := s.tx.InLeague(ctx, leagueID, func(tx LeagueTx) error {
		l, exists, err := tx.League(ctx)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
		}

		queued, err = l.EnqueueSeasonPayouts(s.newPayoutID, s.now().UTC())
		if err != nil {
			if errors.Is(err, league.ErrLeagueNotSettled) {
				return fmt.Errorf("%w: %v", ErrStateConflict, err)
			}
			return err
		}
		if len(queued) == 0 {
			return nil
		}
		l.UpdatedAt = s.now().UTC()

		return tx.SaveLeague(ctx, l)
	})
	if err != nil {
		return nil, err
	}

	if len(queued) > 0 {
		s.logger.InfoContext(ctx, "season payouts queued", "league_id", leagueID, "count", len(queued))
	}

	return queued, nil
}

// SettleReadyLeagues settles every league eligible for season payouts,
// returning how many leagues queued at least one payout.
func (s *TreasuryService) SettleReadyLeagues(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "TreasuryService.SettleReadyLeagues")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list leagues: %w", err)
	}

	settled := 0
	for _, l := range leagues {
		if !l.SettlementReady() {
			continue
		}
		queued, err := s.Settle(ctx, l.ID)
		if err != nil {
			s.logger.WarnContext(ctx, "league settlement failed", "league_id", l.ID, "error", err)
			continue
		}
		if len(queued) > 0 {
			settled++
		}
	}

	return settled, nil
}

// SendPayout disburses one pending payout through the payment provider and
// marks it sent with the returned chain transaction id.
func (s *TreasuryService) SendPayout(ctx context.Context, leagueID, payoutID string) (league.Payout, error) {
	ctx, span := startUsecaseSpan(ctx, "TreasuryService.SendPayout")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	payoutID = strings.TrimSpace(payoutID)
	if leagueID == "" || payoutID == "" {
		return league.Payout{}, fmt.Errorf("%w: league id and payout id are required", ErrInvalidInput)
	}
	if s.sender == nil {
		return league.Payout{}, fmt.Errorf("%w: payment provider is not configured", ErrDependencyUnavailable)
	}

	l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.Payout{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.Payout{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	pending, found := findPending(l, payoutID)
	if !found {
		return league.Payout{}, fmt.Errorf("%w: payout=%s", ErrNotFound, payoutID)
	}

	memo := fmt.Sprintf("%s season payout %s", l.Name, payoutID)
	txID, err := s.sender.SendPayment(ctx, pending.Username, pending.AmountPi, memo)
	if err != nil {
		return league.Payout{}, fmt.Errorf("%w: send payment: %v", ErrDependencyUnavailable, err)
	}

	return s.MarkSent(ctx, leagueID, payoutID, txID)
}

// MarkSent records a payout as disbursed with an externally obtained
// transaction id.
func (s *TreasuryService) MarkSent(ctx context.Context, leagueID, payoutID, txID string) (league.Payout, error) {
	ctx, span := startUsecaseSpan(ctx, "TreasuryService.MarkSent")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	payoutID = strings.TrimSpace(payoutID)
	txID = strings.TrimSpace(txID)
	if leagueID == "" || payoutID == "" || txID == "" {
		return league.Payout{}, fmt.Errorf("%w: league id, payout id and tx id are required", ErrInvalidInput)
	}

	var out league.Payout
	err := s.tx.InLeague(ctx, leagueID, func(tx LeagueTx) error {
		l, exists, err := tx.League(ctx)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
		}

		out, err = l.MarkPayoutSent(payoutID, txID, s.now().UTC())
		if err != nil {
			if errors.Is(err, league.ErrPayoutNotFound) {
				return fmt.Errorf("%w: %v", ErrNotFound, err)
			}
			return err
		}
		l.UpdatedAt = s.now().UTC()

		return tx.SaveLeague(ctx, l)
	})
	if err != nil {
		return league.Payout{}, err
	}

	s.logger.InfoContext(ctx, "payout sent",
		"league_id", leagueID,
		"payout_id", payoutID,
		"username", out.Username,
		"amount_pi", out.AmountPi,
	)

	return out, nil
}

// CancelPayout removes a pending payout with no financial effect.
func (s *TreasuryService) CancelPayout(ctx context.Context, leagueID, payoutID string) error {
	ctx, span := startUsecaseSpan(ctx, "TreasuryService.CancelPayout")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	payoutID = strings.TrimSpace(payoutID)
	if leagueID == "" || payoutID == "" {
		return fmt.Errorf("%w: league id and payout id are required", ErrInvalidInput)
	}

	return s.tx.InLeague(ctx, leagueID, func(tx LeagueTx) error {
		l, exists, err := tx.League(ctx)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
		}

		if err := l.CancelPendingPayout(payoutID); err != nil {
			if errors.Is(err, league.ErrPayoutNotFound) {
				return fmt.Errorf("%w: %v", ErrNotFound, err)
			}
			return err
		}
		l.UpdatedAt = s.now().UTC()

		return tx.SaveLeague(ctx, l)
	})
}

// Summary returns the league's treasury snapshot.
func (s *TreasuryService) Summary(ctx context.Context, leagueID string) (league.Treasury, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.Treasury{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.Treasury{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.Treasury{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	return l.Treasury, nil
}

func (s *TreasuryService) newPayoutID() string {
	id, err := s.idGen.NewID()
	if err != nil {
		// crypto/rand failing is unrecoverable; fall back to a timestamp id.
		return fmt.Sprintf("payout-%d", s.now().UnixNano())
	}

	return id
}

func findPending(l league.League, payoutID string) (league.Payout, bool) {
	for _, payout := range l.Treasury.Payouts.Pending {
		if payout.ID == payoutID {
			return payout, true
		}
	}

	return league.Payout{}, false
}
