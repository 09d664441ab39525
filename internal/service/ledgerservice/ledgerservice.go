package ledgerservice

//go:generate mockgen -source=ledgerservice.go -destination=mock_ledgerservice.go -package=ledgerservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/pg"
)

const defaultListLimit = 100

type Repo interface {
	LastBalance(ctx context.Context, affiliateID uuid.UUID) (decimal.Decimal, error)
	Insert(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from []domain.EntryStatus, to domain.EntryStatus, at time.Time) (bool, error)
	AvailableBalance(ctx context.Context, affiliateID uuid.UUID) (decimal.Decimal, error)
	ListByAffiliate(ctx context.Context, affiliateID uuid.UUID, limit int) ([]domain.LedgerEntry, error)
	FindByPayout(ctx context.Context, payoutID uuid.UUID, typ domain.EntryType) (*domain.LedgerEntry, error)
	FindByOrder(ctx context.Context, orderNumber string) ([]domain.LedgerEntry, error)
	FindMaturedPending(ctx context.Context, before time.Time, limit int) ([]domain.LedgerEntry, error)
	Totals(ctx context.Context, affiliateID uuid.UUID) (domain.LedgerTotals, error)
}

type AffiliateRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Affiliate, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Affiliate, error)
	ApplyEarnings(ctx context.Context, id uuid.UUID, total, pending, paid decimal.Decimal) error
}

type Service struct {
	repo       Repo
	affiliates AffiliateRepo
	txManager  pg.TXManager
	now        func() time.Time
}

func New(repo Repo, affiliates AffiliateRepo, txManager pg.TXManager) *Service {
	return &Service{
		repo:       repo,
		affiliates: affiliates,
		txManager:  txManager,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func checkEntry(req domain.EntryRequest) error {
	if !req.Type.Valid() {
		return fmt.Errorf("%w: unknown entry type %q", domain.ErrInvalidInput, req.Type)
	}
	if req.Status != domain.EntryPending && req.Status != domain.EntryConfirmed {
		return fmt.Errorf("%w: entries start pending or confirmed", domain.ErrInvalidInput)
	}
	if !req.Amount.Equal(req.Amount.Round(2)) {
		return fmt.Errorf("%w: more than two decimal places", domain.ErrInvalidAmount)
	}
	switch req.Type {
	case domain.EntrySaleCommission, domain.EntryBonus, domain.EntryPayoutReversal:
		if !req.Amount.IsPositive() {
			return fmt.Errorf("%w: %s must be positive", domain.ErrInvalidAmount, req.Type)
		}
	case domain.EntryPayoutDebit:
		if !req.Amount.IsNegative() {
			return fmt.Errorf("%w: payout debit must be negative", domain.ErrInvalidAmount)
		}
	case domain.EntryAdjustment:
		if req.Amount.IsZero() {
			return fmt.Errorf("%w: adjustment must not be zero", domain.ErrInvalidAmount)
		}
	}
	return nil
}

// AppendEntry appends one entry under the affiliate row lock, so the running
// balance is always the previous tail plus this amount.
func (s *Service) AppendEntry(ctx context.Context, req domain.EntryRequest) (*domain.LedgerEntry, error) {
	if req.Status == "" {
		req.Status = domain.EntryPending
	}
	if err := checkEntry(req); err != nil {
		return nil, err
	}

	var created *domain.LedgerEntry
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		affiliate, err := s.affiliates.GetByIDForUpdate(ctx, req.AffiliateID)
		if err != nil {
			return err
		}
		if affiliate == nil {
			return domain.ErrNotFound
		}

		tail, err := s.repo.LastBalance(ctx, affiliate.ID)
		if err != nil {
			return err
		}

		entry := &domain.LedgerEntry{
			ID:          uuid.New(),
			AffiliateID: affiliate.ID,
			OrderNumber: req.OrderNumber,
			PayoutID:    req.PayoutID,
			Type:        req.Type,
			Amount:      req.Amount,
			Balance:     tail.Add(req.Amount),
			Status:      req.Status,
		}
		if req.Status == domain.EntryConfirmed {
			now := s.now()
			entry.ConfirmedAt = &now
		}
		if created, err = s.repo.Insert(ctx, entry); err != nil {
			return err
		}

		if req.Type.IsEarning() {
			return s.affiliates.ApplyEarnings(ctx, affiliate.ID, req.Amount, req.Amount, decimal.Zero)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) GetAvailableBalance(ctx context.Context, affiliateID uuid.UUID) (decimal.Decimal, error) {
	return s.repo.AvailableBalance(ctx, affiliateID)
}

// ConfirmEntry moves a pending entry to confirmed. Confirmed and paid entries are returned unchanged.
func (s *Service) ConfirmEntry(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	if entry.Status != domain.EntryPending {
		return entry, nil
	}

	now := s.now()
	changed, err := s.repo.UpdateStatus(ctx, id, []domain.EntryStatus{domain.EntryPending}, domain.EntryConfirmed, now)
	if err != nil {
		return nil, err
	}
	if !changed {
		return s.repo.GetByID(ctx, id)
	}
	entry.Status = domain.EntryConfirmed
	entry.ConfirmedAt = &now
	return entry, nil
}

// MarkPaid moves a pending or confirmed credit to paid. Payout debits are
// refused here; they are paid only through SettleDebit when the payout settles.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error) {
	return s.markPaid(ctx, id, false)
}

// SettleDebit marks the debit reserved for payoutID paid and moves its amount
// from pending to paid earnings. Only the payout settlement calls it.
func (s *Service) SettleDebit(ctx context.Context, payoutID uuid.UUID) (*domain.LedgerEntry, error) {
	var result *domain.LedgerEntry
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		debit, err := s.PayoutDebit(ctx, payoutID)
		if err != nil {
			return err
		}
		result, err = s.markPaid(ctx, debit.ID, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) markPaid(ctx context.Context, id uuid.UUID, settling bool) (*domain.LedgerEntry, error) {
	var result *domain.LedgerEntry
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		entry, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if entry == nil {
			return domain.ErrNotFound
		}
		isDebit := entry.Type == domain.EntryPayoutDebit
		if isDebit && !settling {
			return fmt.Errorf("%w: payout debits are paid by settling the payout", domain.ErrInvalidState)
		}
		result = entry
		if entry.Status == domain.EntryPaid {
			return nil
		}

		if isDebit {
			if _, err := s.affiliates.GetByIDForUpdate(ctx, entry.AffiliateID); err != nil {
				return err
			}
		}

		now := s.now()
		changed, err := s.repo.UpdateStatus(ctx, id,
			[]domain.EntryStatus{domain.EntryPending, domain.EntryConfirmed}, domain.EntryPaid, now)
		if err != nil {
			return err
		}
		if !changed {
			result, err = s.repo.GetByID(ctx, id)
			return err
		}
		entry.Status = domain.EntryPaid
		entry.PaidAt = &now

		if isDebit {
			return s.affiliates.ApplyEarnings(ctx, entry.AffiliateID, decimal.Zero, entry.Amount, entry.Amount.Neg())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) ListEntries(ctx context.Context, affiliateID uuid.UUID, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.repo.ListByAffiliate(ctx, affiliateID, limit)
}

func (s *Service) PayoutDebit(ctx context.Context, payoutID uuid.UUID) (*domain.LedgerEntry, error) {
	entry, err := s.repo.FindByPayout(ctx, payoutID, domain.EntryPayoutDebit)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

func (s *Service) EntriesForOrder(ctx context.Context, orderNumber string) ([]domain.LedgerEntry, error) {
	return s.repo.FindByOrder(ctx, orderNumber)
}

func (s *Service) FindMatured(ctx context.Context, before time.Time, limit int) ([]domain.LedgerEntry, error) {
	return s.repo.FindMaturedPending(ctx, before, limit)
}

// Reconcile recomputes the affiliate's counters from its ledger and reports drift.
func (s *Service) Reconcile(ctx context.Context, affiliateID uuid.UUID) (*domain.Reconciliation, error) {
	affiliate, err := s.affiliates.GetByID(ctx, affiliateID)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, domain.ErrNotFound
	}
	totals, err := s.repo.Totals(ctx, affiliateID)
	if err != nil {
		return nil, err
	}
	tail, err := s.repo.LastBalance(ctx, affiliateID)
	if err != nil {
		return nil, err
	}

	rec := &domain.Reconciliation{
		AffiliateID:     affiliateID,
		TotalEarnings:   affiliate.TotalEarnings,
		PendingEarnings: affiliate.PendingEarnings,
		PaidEarnings:    affiliate.PaidEarnings,
		LedgerEarned:    totals.Earned,
		LedgerPaid:      totals.Paid,
		LedgerBalance:   totals.Balance,
		TailBalance:     tail,
	}
	rec.Consistent = affiliate.TotalEarnings.Equal(totals.Earned) &&
		affiliate.PaidEarnings.Equal(totals.Paid) &&
		affiliate.PendingEarnings.Equal(totals.Earned.Sub(totals.Paid)) &&
		tail.Equal(totals.Balance)
	if !rec.Consistent {
		zap.L().Warn("ledger drift detected",
			zap.String("affiliate_id", affiliateID.String()),
			zap.String("total_earnings", affiliate.TotalEarnings.String()),
			zap.String("ledger_earned", totals.Earned.String()),
			zap.String("tail_balance", tail.String()),
			zap.String("ledger_balance", totals.Balance.String()))
	}
	return rec, nil
}
