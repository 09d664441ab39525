package payoutservice

//go:generate mockgen -source=payoutservice.go -destination=mock_payoutservice.go -package=payoutservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/events"
	"github.com/GlebRadaev/affiliator/internal/metrics"
	"github.com/GlebRadaev/affiliator/internal/pg"
)

type Repo interface {
	Create(ctx context.Context, payout *domain.Payout) (*domain.Payout, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payout, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Payout, error)
	Update(ctx context.Context, payout *domain.Payout) error
	ListByAffiliate(ctx context.Context, affiliateID uuid.UUID) ([]domain.Payout, error)
	ListByStatus(ctx context.Context, status domain.PayoutStatus) ([]domain.Payout, error)
}

type AffiliateRepo interface {
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Affiliate, error)
}

type Ledger interface {
	AppendEntry(ctx context.Context, req domain.EntryRequest) (*domain.LedgerEntry, error)
	GetAvailableBalance(ctx context.Context, affiliateID uuid.UUID) (decimal.Decimal, error)
	SettleDebit(ctx context.Context, payoutID uuid.UUID) (*domain.LedgerEntry, error)
}

type Service struct {
	repo       Repo
	affiliates AffiliateRepo
	ledger     Ledger
	txManager  pg.TXManager
	publisher  events.Publisher
	metrics    *metrics.Metrics
	minPayout  decimal.Decimal
	now        func() time.Time
}

func New(
	repo Repo,
	affiliates AffiliateRepo,
	ledger Ledger,
	txManager pg.TXManager,
	publisher events.Publisher,
	m *metrics.Metrics,
	minPayout decimal.Decimal,
) *Service {
	return &Service{
		repo:       repo,
		affiliates: affiliates,
		ledger:     ledger,
		txManager:  txManager,
		publisher:  publisher,
		metrics:    m,
		minPayout:  minPayout,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// RequestPayout reserves amount against the available balance. The balance
// read, the payout row and its pending debit all happen under the affiliate lock.
func (s *Service) RequestPayout(ctx context.Context, affiliateID uuid.UUID, amount decimal.Decimal, method string) (*domain.Payout, error) {
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return nil, domain.ErrInvalidAmount
	}
	if amount.LessThan(s.minPayout) {
		return nil, fmt.Errorf("%w: minimum is %s", domain.ErrBelowMinimum, s.minPayout.StringFixed(2))
	}

	var payout *domain.Payout
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		affiliate, err := s.affiliates.GetByIDForUpdate(ctx, affiliateID)
		if err != nil {
			return err
		}
		if affiliate == nil {
			return domain.ErrNotFound
		}
		if !affiliate.CanEarn() {
			return fmt.Errorf("%w: affiliate is %s, active=%t", domain.ErrInvalidState, affiliate.Status, affiliate.IsActive)
		}
		paymentMethod := strings.TrimSpace(method)
		if paymentMethod == "" {
			paymentMethod = affiliate.PaymentMethod
		}
		if paymentMethod == "" {
			return fmt.Errorf("%w: payment method is required", domain.ErrInvalidInput)
		}

		available, err := s.ledger.GetAvailableBalance(ctx, affiliateID)
		if err != nil {
			return err
		}
		if amount.GreaterThan(available) {
			return domain.ErrInsufficientBalance
		}

		payout, err = s.repo.Create(ctx, &domain.Payout{
			ID:            uuid.New(),
			AffiliateID:   affiliateID,
			Amount:        amount,
			Status:        domain.PayoutPending,
			PaymentMethod: paymentMethod,
		})
		if err != nil {
			return err
		}
		_, err = s.ledger.AppendEntry(ctx, domain.EntryRequest{
			AffiliateID: affiliateID,
			PayoutID:    &payout.ID,
			Type:        domain.EntryPayoutDebit,
			Amount:      amount.Neg(),
			Status:      domain.EntryPending,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("payout requested", zap.String("payout_id", payout.ID.String()), zap.String("amount", amount.StringFixed(2)))
	s.record(ctx, events.PayoutRequested, payout)
	return payout, nil
}

func (s *Service) ApprovePayout(ctx context.Context, id, adminID uuid.UUID) (*domain.Payout, error) {
	payout, err := s.transition(ctx, id, domain.PayoutPending, domain.PayoutApproved, adminID, func(ctx context.Context, p *domain.Payout) error {
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, events.PayoutApproved, payout)
	return payout, nil
}

// SettlePayout marks an approved payout paid together with its debit entry.
func (s *Service) SettlePayout(ctx context.Context, id, adminID uuid.UUID, transactionID string) (*domain.Payout, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transaction id is required", domain.ErrInvalidInput)
	}
	payout, err := s.transition(ctx, id, domain.PayoutApproved, domain.PayoutPaid, adminID, func(ctx context.Context, p *domain.Payout) error {
		if _, err := s.ledger.SettleDebit(ctx, p.ID); err != nil {
			return err
		}
		p.TransactionID = &transactionID
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, events.PayoutPaid, payout)
	return payout, nil
}

// RejectPayout releases the reservation with a confirmed compensating
// credit. The original debit entry is left as it was.
func (s *Service) RejectPayout(ctx context.Context, id, adminID uuid.UUID) (*domain.Payout, error) {
	payout, err := s.transition(ctx, id, domain.PayoutPending, domain.PayoutRejected, adminID, func(ctx context.Context, p *domain.Payout) error {
		_, err := s.ledger.AppendEntry(ctx, domain.EntryRequest{
			AffiliateID: p.AffiliateID,
			PayoutID:    &p.ID,
			Type:        domain.EntryPayoutReversal,
			Amount:      p.Amount,
			Status:      domain.EntryConfirmed,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, events.PayoutRejected, payout)
	return payout, nil
}

func (s *Service) transition(
	ctx context.Context,
	id uuid.UUID,
	from, to domain.PayoutStatus,
	adminID uuid.UUID,
	apply func(ctx context.Context, p *domain.Payout) error,
) (*domain.Payout, error) {
	var payout *domain.Payout
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.Status != from {
			return fmt.Errorf("%w: payout is %s, want %s", domain.ErrInvalidState, p.Status, from)
		}
		if err := apply(ctx, p); err != nil {
			return err
		}
		now := s.now()
		p.Status = to
		p.ProcessedBy = &adminID
		p.ProcessedAt = &now
		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		payout = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("payout status changed",
		zap.String("payout_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)))
	return payout, nil
}

func (s *Service) record(ctx context.Context, typ events.Type, p *domain.Payout) {
	s.metrics.PayoutTransition(p.Status, p.Amount)
	events.Emit(ctx, s.publisher, events.Event{
		Type:        typ,
		AffiliateID: p.AffiliateID,
		PayoutID:    &p.ID,
		Amount:      p.Amount,
		OccurredAt:  s.now(),
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Payout, error) {
	payout, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payout == nil {
		return nil, domain.ErrNotFound
	}
	return payout, nil
}

func (s *Service) ListByAffiliate(ctx context.Context, affiliateID uuid.UUID) ([]domain.Payout, error) {
	return s.repo.ListByAffiliate(ctx, affiliateID)
}

// List returns payouts in the given status, or all of them for an empty status.
func (s *Service) List(ctx context.Context, status domain.PayoutStatus) ([]domain.Payout, error) {
	switch status {
	case "", domain.PayoutPending, domain.PayoutApproved, domain.PayoutPaid, domain.PayoutRejected:
	default:
		return nil, fmt.Errorf("%w: unknown payout status %q", domain.ErrInvalidInput, status)
	}
	return s.repo.ListByStatus(ctx, status)
}
