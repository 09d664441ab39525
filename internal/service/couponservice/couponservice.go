package couponservice

//go:generate mockgen -source=couponservice.go -destination=mock_couponservice.go -package=couponservice

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/pg"
)

const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 8
)

var (
	hundred   = decimal.NewFromInt(100)
	validCode = regexp.MustCompile(`^[A-Z0-9_-]{3,64}$`)
)

type Repo interface {
	Create(ctx context.Context, coupon *domain.Coupon) (*domain.Coupon, error)
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Coupon, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error)
	CreateRedemption(ctx context.Context, couponID uuid.UUID, orderNumber string) error
	List(ctx context.Context) ([]domain.Coupon, error)
	ListByAffiliate(ctx context.Context, affiliateID uuid.UUID) ([]domain.Coupon, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type AffiliateRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Affiliate, error)
}

type Service struct {
	repo       Repo
	affiliates AffiliateRepo
	txManager  pg.TXManager
	newCode    func() string
	now        func() time.Time
}

func New(repo Repo, affiliates AffiliateRepo, txManager pg.TXManager) (*Service, error) {
	newCode, err := nanoid.CustomASCII(codeAlphabet, codeLength)
	if err != nil {
		return nil, fmt.Errorf("coupon code generator: %w", err)
	}
	return &Service{
		repo:       repo,
		affiliates: affiliates,
		txManager:  txManager,
		newCode:    newCode,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

// NormalizeCode makes coupon codes case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Check applies the coupon rules in order: expiry, start date, usage cap, minimum purchase.
func Check(c *domain.Coupon, total decimal.Decimal, now time.Time) error {
	switch {
	case c.ExpiresAt != nil && !now.Before(*c.ExpiresAt):
		return domain.ErrExpired
	case c.StartsAt != nil && now.Before(*c.StartsAt):
		return domain.ErrNotStarted
	case c.MaxUses != nil && c.UsedCount >= *c.MaxUses:
		return domain.ErrLimitReached
	case total.LessThan(c.MinPurchase):
		return fmt.Errorf("%w: minimum purchase is %s", domain.ErrMinimumNotMet, c.MinPurchase.StringFixed(2))
	}
	return nil
}

// ComputeDiscount never returns more than total or less than zero.
func ComputeDiscount(c *domain.Coupon, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	var amount decimal.Decimal
	switch c.DiscountType {
	case domain.DiscountPercentage:
		amount = total.Mul(c.DiscountValue).Div(hundred)
	case domain.DiscountFixed:
		amount = c.DiscountValue
	default:
		return decimal.Zero
	}
	amount = decimal.Min(amount, total).Round(2)
	if amount.GreaterThan(total) {
		return total
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

func (s *Service) lookup(ctx context.Context, code string) (*domain.Coupon, error) {
	c, err := s.repo.GetByCode(ctx, NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if c == nil || !c.IsActive {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *Service) Validate(ctx context.Context, code string, total decimal.Decimal) (*domain.Discount, error) {
	if total.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	c, err := s.lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := Check(c, total, s.now()); err != nil {
		return nil, err
	}
	return &domain.Discount{Amount: ComputeDiscount(c, total), Coupon: c}, nil
}

// Redeem takes one use of the coupon for the order. The increment is
// conditional on the cap, so concurrent redemptions never exceed max_uses.
func (s *Service) Redeem(ctx context.Context, code, orderNumber string) (*domain.Coupon, error) {
	var coupon *domain.Coupon
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		c, err := s.lookup(ctx, code)
		if err != nil {
			return err
		}
		ok, err := s.repo.IncrementUsage(ctx, c.ID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrLimitReached
		}
		if err := s.repo.CreateRedemption(ctx, c.ID, orderNumber); err != nil {
			return err
		}
		c.UsedCount++
		coupon = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("coupon redeemed", zap.String("code", coupon.Code), zap.String("order", orderNumber))
	return coupon, nil
}

func (s *Service) Create(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error) {
	c.Code = NormalizeCode(c.Code)
	if c.Code == "" {
		c.Code = s.newCode()
	}
	if err := validate(c); err != nil {
		return nil, err
	}
	if c.AffiliateID != nil {
		affiliate, err := s.affiliates.GetByID(ctx, *c.AffiliateID)
		if err != nil {
			return nil, err
		}
		if affiliate == nil {
			return nil, fmt.Errorf("%w: affiliate %s", domain.ErrNotFound, c.AffiliateID)
		}
	}

	c.ID = uuid.New()
	c.UsedCount = 0
	c.IsActive = true
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	zap.L().Info("coupon created", zap.String("code", created.Code))
	return created, nil
}

func validate(c *domain.Coupon) error {
	switch {
	case !validCode.MatchString(c.Code):
		return fmt.Errorf("%w: code must be 3-64 characters of A-Z, 0-9, '-' or '_'", domain.ErrInvalidInput)
	case c.DiscountType != domain.DiscountPercentage && c.DiscountType != domain.DiscountFixed:
		return fmt.Errorf("%w: unknown discount type %q", domain.ErrInvalidInput, c.DiscountType)
	case !c.DiscountValue.IsPositive():
		return fmt.Errorf("%w: discount value must be positive", domain.ErrInvalidInput)
	case c.DiscountType == domain.DiscountPercentage && c.DiscountValue.GreaterThan(hundred):
		return fmt.Errorf("%w: percentage above 100", domain.ErrInvalidInput)
	case c.MinPurchase.IsNegative():
		return fmt.Errorf("%w: minimum purchase must not be negative", domain.ErrInvalidInput)
	case c.MaxUses != nil && *c.MaxUses <= 0:
		return fmt.Errorf("%w: max uses must be positive", domain.ErrInvalidInput)
	case c.StartsAt != nil && c.ExpiresAt != nil && !c.StartsAt.Before(*c.ExpiresAt):
		return fmt.Errorf("%w: coupon must start before it expires", domain.ErrInvalidInput)
	}
	return nil
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActive(ctx, id, false)
}

func (s *Service) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListForAffiliate(ctx context.Context, affiliateID uuid.UUID) ([]domain.Coupon, error) {
	return s.repo.ListByAffiliate(ctx, affiliateID)
}
