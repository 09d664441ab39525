package affiliateservice

//go:generate mockgen -source=affiliateservice.go -destination=mock_affiliateservice.go -package=affiliateservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/pg"
)

const (
	codeAlphabet   = "abcdefghijkmnpqrstuvwxyz23456789"
	codeLength     = 10
	codeAttempts   = 3
	maxCommission  = 100
	percentagePrec = 2
)

type Repo interface {
	Create(ctx context.Context, affiliate *domain.Affiliate) (*domain.Affiliate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Affiliate, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Affiliate, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Affiliate, error)
	List(ctx context.Context, status domain.AffiliateStatus) ([]domain.Affiliate, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AffiliateStatus) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetCommission(ctx context.Context, id uuid.UUID, commission decimal.NullDecimal) error
}

type UserRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error
}

type Ledger interface {
	GetAvailableBalance(ctx context.Context, affiliateID uuid.UUID) (decimal.Decimal, error)
	Reconcile(ctx context.Context, affiliateID uuid.UUID) (*domain.Reconciliation, error)
}

type Tiers interface {
	ResolveRate(ctx context.Context, affiliate *domain.Affiliate) (domain.Rate, error)
}

type Service struct {
	repo      Repo
	users     UserRepo
	ledger    Ledger
	tiers     Tiers
	txManager pg.TXManager
	newCode   func() string
}

func New(repo Repo, users UserRepo, ledger Ledger, tiers Tiers, txManager pg.TXManager) (*Service, error) {
	newCode, err := nanoid.CustomASCII(codeAlphabet, codeLength)
	if err != nil {
		return nil, fmt.Errorf("referral code generator: %w", err)
	}
	return &Service{
		repo:      repo,
		users:     users,
		ledger:    ledger,
		tiers:     tiers,
		txManager: txManager,
		newCode:   newCode,
	}, nil
}

// Apply registers the user as a pending affiliate with a fresh referral code.
func (s *Service) Apply(ctx context.Context, userID uuid.UUID, paymentMethod string) (*domain.Affiliate, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyExists
	}

	for attempt := 0; attempt < codeAttempts; attempt++ {
		created, err := s.repo.Create(ctx, &domain.Affiliate{
			ID:            uuid.New(),
			UserID:        userID,
			Code:          s.newCode(),
			Status:        domain.AffiliatePending,
			IsActive:      true,
			PaymentMethod: strings.TrimSpace(paymentMethod),
		})
		if err == nil {
			zap.L().Info("affiliate applied", zap.String("affiliate_id", created.ID.String()), zap.String("code", created.Code))
			return created, nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return nil, err
		}
		// either the user applied concurrently or the code collided
		if existing, err = s.repo.GetByUserID(ctx, userID); err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrAlreadyExists
		}
	}
	return nil, fmt.Errorf("%w: could not allocate a referral code", domain.ErrConcurrencyConflict)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Affiliate, error) {
	affiliate, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, domain.ErrNotFound
	}
	return affiliate, nil
}

func (s *Service) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Affiliate, error) {
	affiliate, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if affiliate == nil {
		return nil, domain.ErrNotFound
	}
	return affiliate, nil
}

func (s *Service) Stats(ctx context.Context, id uuid.UUID) (*domain.AffiliateStats, error) {
	affiliate, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	available, err := s.ledger.GetAvailableBalance(ctx, id)
	if err != nil {
		return nil, err
	}
	rate, err := s.tiers.ResolveRate(ctx, affiliate)
	if err != nil {
		return nil, err
	}

	conversionRate := decimal.Zero
	if affiliate.TotalClicks > 0 {
		conversionRate = decimal.NewFromInt(affiliate.TotalConversions).
			Div(decimal.NewFromInt(affiliate.TotalClicks)).
			Mul(decimal.NewFromInt(100)).
			Round(percentagePrec)
	}
	return &domain.AffiliateStats{
		Affiliate:        affiliate,
		AvailableBalance: available,
		Rate:             rate,
		ConversionRate:   conversionRate,
	}, nil
}

func (s *Service) List(ctx context.Context, status domain.AffiliateStatus) ([]domain.Affiliate, error) {
	switch status {
	case "", domain.AffiliatePending, domain.AffiliateApproved, domain.AffiliateRejected:
	default:
		return nil, fmt.Errorf("%w: unknown affiliate status %q", domain.ErrInvalidInput, status)
	}
	return s.repo.List(ctx, status)
}

// Approve accepts a pending or previously rejected affiliate and grants
// the affiliate role to customers and vendors.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*domain.Affiliate, error) {
	return s.changeStatus(ctx, id, domain.AffiliateApproved, func(ctx context.Context, a *domain.Affiliate) error {
		user, err := s.users.FindByID(ctx, a.UserID)
		if err != nil {
			return err
		}
		if user == nil || user.Role == domain.RoleAdmin || user.Role == domain.RoleAffiliate {
			return nil
		}
		return s.users.UpdateRole(ctx, user.ID, domain.RoleAffiliate)
	}, domain.AffiliatePending, domain.AffiliateRejected)
}

func (s *Service) Reject(ctx context.Context, id uuid.UUID) (*domain.Affiliate, error) {
	return s.changeStatus(ctx, id, domain.AffiliateRejected, nil, domain.AffiliatePending)
}

func (s *Service) changeStatus(
	ctx context.Context,
	id uuid.UUID,
	to domain.AffiliateStatus,
	after func(ctx context.Context, a *domain.Affiliate) error,
	from ...domain.AffiliateStatus,
) (*domain.Affiliate, error) {
	var affiliate *domain.Affiliate
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		allowed := false
		for _, f := range from {
			allowed = allowed || a.Status == f
		}
		if !allowed {
			return fmt.Errorf("%w: affiliate is %s", domain.ErrInvalidState, a.Status)
		}
		if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
			return err
		}
		a.Status = to
		affiliate = a
		if after != nil {
			return after(ctx, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("affiliate status changed", zap.String("affiliate_id", id.String()), zap.String("status", string(to)))
	return affiliate, nil
}

func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}

// SetCommission sets or clears the affiliate's own rate used when no tier applies.
func (s *Service) SetCommission(ctx context.Context, id uuid.UUID, commission decimal.NullDecimal) error {
	if commission.Valid && (commission.Decimal.IsNegative() || commission.Decimal.GreaterThan(decimal.NewFromInt(maxCommission))) {
		return fmt.Errorf("%w: commission must be between 0 and 100", domain.ErrInvalidInput)
	}
	return s.repo.SetCommission(ctx, id, commission)
}

func (s *Service) Reconcile(ctx context.Context, id uuid.UUID) (*domain.Reconciliation, error) {
	return s.ledger.Reconcile(ctx, id)
}
