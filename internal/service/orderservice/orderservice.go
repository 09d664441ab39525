package orderservice

//go:generate mockgen -source=orderservice.go -destination=mock_orderservice.go -package=orderservice

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
	Claim(ctx context.Context, orderNumber string) (bool, error)
	Complete(ctx context.Context, c *domain.OrderCompletion) error
	Get(ctx context.Context, orderNumber string) (*domain.OrderCompletion, error)
	ClaimRefund(ctx context.Context, orderNumber string) (bool, error)
}

type AffiliateRepo interface {
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Affiliate, error)
	SetTier(ctx context.Context, id uuid.UUID, tierID *uuid.UUID) error
}

type Tracker interface {
	Attribute(ctx context.Context, customerID *uuid.UUID, clickID *uuid.UUID, referralCode string, couponOwner *uuid.UUID) (*domain.Affiliate, domain.AttributionSource, error)
	ResolveConversion(ctx context.Context, affiliateID uuid.UUID, clickID *uuid.UUID, orderNumber string) (*domain.Conversion, error)
}

type Tiers interface {
	ResolveRate(ctx context.Context, affiliate *domain.Affiliate) (domain.Rate, error)
}

type Ledger interface {
	AppendEntry(ctx context.Context, req domain.EntryRequest) (*domain.LedgerEntry, error)
	EntriesForOrder(ctx context.Context, orderNumber string) ([]domain.LedgerEntry, error)
	ConfirmEntry(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error)
}

type Coupons interface {
	Validate(ctx context.Context, code string, total decimal.Decimal) (*domain.Discount, error)
	Redeem(ctx context.Context, code, orderNumber string) (*domain.Coupon, error)
}

type Service struct {
	repo       Repo
	affiliates AffiliateRepo
	tracker    Tracker
	tiers      Tiers
	ledger     Ledger
	coupons    Coupons
	txManager  pg.TXManager
	publisher  events.Publisher
	metrics    *metrics.Metrics
	now        func() time.Time
}

func New(
	repo Repo,
	affiliates AffiliateRepo,
	tracker Tracker,
	tiers Tiers,
	ledger Ledger,
	coupons Coupons,
	txManager pg.TXManager,
	publisher events.Publisher,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:       repo,
		affiliates: affiliates,
		tracker:    tracker,
		tiers:      tiers,
		ledger:     ledger,
		coupons:    coupons,
		txManager:  txManager,
		publisher:  publisher,
		metrics:    m,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

var hundred = decimal.NewFromInt(100)

func percentOf(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Div(hundred).Round(2)
}

// OnOrderCompleted attributes a finalized order, credits the affiliate and
// redeems the applied coupon in one transaction. A redelivered order number
// returns the stored outcome with Duplicate set and changes nothing.
func (s *Service) OnOrderCompleted(ctx context.Context, order domain.CompletedOrder) (*domain.OrderCompletion, error) {
	order.OrderNumber = strings.TrimSpace(order.OrderNumber)
	if order.OrderNumber == "" {
		return nil, fmt.Errorf("%w: order number is required", domain.ErrInvalidInput)
	}
	if order.Total.IsNegative() || !order.Total.Equal(order.Total.Round(2)) {
		return nil, fmt.Errorf("%w: order total %s", domain.ErrInvalidAmount, order.Total)
	}

	var (
		result    *domain.OrderCompletion
		affiliate *domain.Affiliate
		entries   []*domain.LedgerEntry
	)
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		result, affiliate, entries = nil, nil, nil

		claimed, err := s.repo.Claim(ctx, order.OrderNumber)
		if err != nil {
			return err
		}
		if !claimed {
			stored, err := s.repo.Get(ctx, order.OrderNumber)
			if err != nil {
				return err
			}
			if stored == nil {
				return fmt.Errorf("%w: order %s claimed but not stored", domain.ErrConcurrencyConflict, order.OrderNumber)
			}
			stored.Duplicate = true
			result = stored
			return nil
		}

		completion := &domain.OrderCompletion{
			OrderNumber: order.OrderNumber,
			Source:      domain.AttributionNone,
			Commission:  decimal.Zero,
			Bonus:       decimal.Zero,
			Discount:    decimal.Zero,
			CreatedAt:   s.now(),
		}

		var couponOwner *uuid.UUID
		if strings.TrimSpace(order.CouponCode) != "" {
			discount, err := s.coupons.Validate(ctx, order.CouponCode, order.Total)
			if err != nil {
				return fmt.Errorf("coupon %s: %w", order.CouponCode, err)
			}
			completion.CouponID = &discount.Coupon.ID
			completion.Discount = discount.Amount
			couponOwner = discount.Coupon.AffiliateID
		}

		candidate, source, err := s.tracker.Attribute(ctx, order.CustomerID, order.ClickID, order.ReferralCode, couponOwner)
		if err != nil {
			return err
		}

		if candidate != nil {
			if affiliate, entries, err = s.credit(ctx, order, candidate.ID, completion); err != nil {
				return err
			}
			if affiliate != nil {
				completion.Source = source
			}
		}

		if completion.CouponID != nil {
			if _, err := s.coupons.Redeem(ctx, order.CouponCode, order.OrderNumber); err != nil {
				return fmt.Errorf("coupon %s: %w", order.CouponCode, err)
			}
		}

		if err := s.repo.Complete(ctx, completion); err != nil {
			return err
		}
		result = completion
		return nil
	})
	if err != nil {
		zap.L().Error("can't complete order", zap.String("order", order.OrderNumber), zap.Error(err))
		return nil, err
	}

	if result.Duplicate {
		zap.L().Info("order already processed", zap.String("order", order.OrderNumber))
		return result, nil
	}
	s.recordCompletion(ctx, result, entries)
	return result, nil
}

// credit locks the attributed affiliate, converts its click and appends the
// commission entries at the rate in effect before this sale.
func (s *Service) credit(
	ctx context.Context,
	order domain.CompletedOrder,
	affiliateID uuid.UUID,
	completion *domain.OrderCompletion,
) (*domain.Affiliate, []*domain.LedgerEntry, error) {
	affiliate, err := s.affiliates.GetByIDForUpdate(ctx, affiliateID)
	if err != nil {
		return nil, nil, err
	}
	if affiliate == nil || !affiliate.CanEarn() {
		return nil, nil, nil
	}

	conversion, err := s.tracker.ResolveConversion(ctx, affiliate.ID, order.ClickID, order.OrderNumber)
	if err != nil {
		return nil, nil, err
	}
	completion.AffiliateID = &affiliate.ID
	completion.ClickID = conversion.ClickID
	completion.WithoutClick = conversion.WithoutClick

	rate, err := s.tiers.ResolveRate(ctx, affiliate)
	if err != nil {
		return nil, nil, err
	}
	base := order.Total.Sub(completion.Discount)
	completion.Commission = percentOf(base, rate.Rate)
	completion.Bonus = percentOf(base, rate.Bonus)

	var entries []*domain.LedgerEntry
	for _, e := range []struct {
		typ    domain.EntryType
		amount decimal.Decimal
	}{
		{domain.EntrySaleCommission, completion.Commission},
		{domain.EntryBonus, completion.Bonus},
	} {
		if !e.amount.IsPositive() {
			continue
		}
		entry, err := s.ledger.AppendEntry(ctx, domain.EntryRequest{
			AffiliateID: affiliate.ID,
			OrderNumber: &order.OrderNumber,
			Type:        e.typ,
			Amount:      e.amount,
			Status:      domain.EntryPending,
		})
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, entry)
	}

	if len(entries) > 0 {
		if err := s.refreshTier(ctx, affiliate.ID); err != nil {
			return nil, nil, err
		}
	}
	return affiliate, entries, nil
}

func (s *Service) refreshTier(ctx context.Context, affiliateID uuid.UUID) error {
	updated, err := s.affiliates.GetByIDForUpdate(ctx, affiliateID)
	if err != nil {
		return err
	}
	if updated == nil {
		return fmt.Errorf("%w: affiliate %s", domain.ErrNotFound, affiliateID)
	}
	rate, err := s.tiers.ResolveRate(ctx, updated)
	if err != nil {
		return err
	}
	if sameTier(updated.TierID, rate.TierID) {
		return nil
	}
	zap.L().Info("affiliate tier changed",
		zap.String("affiliate_id", affiliateID.String()), zap.String("tier", rate.TierName))
	return s.affiliates.SetTier(ctx, affiliateID, rate.TierID)
}

func sameTier(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *Service) recordCompletion(ctx context.Context, c *domain.OrderCompletion, entries []*domain.LedgerEntry) {
	s.metrics.OrderCompleted(c.Source)
	if c.CouponID != nil {
		s.metrics.CouponRedeemed()
	}
	if c.AffiliateID == nil {
		zap.L().Info("order completed without attribution", zap.String("order", c.OrderNumber))
		return
	}

	s.metrics.Conversion(!c.WithoutClick)
	evs := []events.Event{{
		Type:        events.OrderAttributed,
		AffiliateID: *c.AffiliateID,
		OrderNumber: c.OrderNumber,
		ClickID:     c.ClickID,
		Amount:      c.Commission.Add(c.Bonus),
		OccurredAt:  c.CreatedAt,
	}}
	for _, e := range entries {
		s.metrics.CommissionCredited(e.Type, e.Amount)
		evs = append(evs, events.Event{
			Type:        events.CommissionCredited,
			AffiliateID: e.AffiliateID,
			OrderNumber: c.OrderNumber,
			Amount:      e.Amount,
			OccurredAt:  c.CreatedAt,
		})
	}
	events.Emit(ctx, s.publisher, evs...)

	zap.L().Info("order attributed",
		zap.String("order", c.OrderNumber),
		zap.String("affiliate_id", c.AffiliateID.String()),
		zap.String("source", string(c.Source)),
		zap.String("commission", c.Commission.String()),
		zap.String("bonus", c.Bonus.String()),
	)
}

// OnOrderRefunded reverses the commission and bonus credited for a completed
// order with a single negative adjustment. Pending credits are confirmed
// first so the reversal nets to zero against the available balance.
// Refunding the same order twice is a no-op.
func (s *Service) OnOrderRefunded(ctx context.Context, orderNumber string) (decimal.Decimal, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return decimal.Zero, fmt.Errorf("%w: order number is required", domain.ErrInvalidInput)
	}

	var (
		reversed    decimal.Decimal
		affiliateID uuid.UUID
	)
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		reversed = decimal.Zero

		completion, err := s.repo.Get(ctx, orderNumber)
		if err != nil {
			return err
		}
		if completion == nil {
			return fmt.Errorf("%w: order %s", domain.ErrNotFound, orderNumber)
		}
		claimed, err := s.repo.ClaimRefund(ctx, orderNumber)
		if err != nil {
			return err
		}
		if !claimed || completion.AffiliateID == nil {
			return nil
		}
		affiliateID = *completion.AffiliateID

		entries, err := s.ledger.EntriesForOrder(ctx, orderNumber)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.Type != domain.EntrySaleCommission && e.Type != domain.EntryBonus {
				continue
			}
			if e.Status == domain.EntryPending {
				if _, err := s.ledger.ConfirmEntry(ctx, e.ID); err != nil {
					return err
				}
			}
			reversed = reversed.Add(e.Amount)
		}
		if !reversed.IsPositive() {
			return nil
		}

		_, err = s.ledger.AppendEntry(ctx, domain.EntryRequest{
			AffiliateID: affiliateID,
			OrderNumber: &orderNumber,
			Type:        domain.EntryAdjustment,
			Amount:      reversed.Neg(),
			Status:      domain.EntryConfirmed,
		})
		return err
	})
	if err != nil {
		zap.L().Error("can't refund order", zap.String("order", orderNumber), zap.Error(err))
		return decimal.Zero, err
	}

	if reversed.IsPositive() {
		s.metrics.CommissionReversed(reversed)
		events.Emit(ctx, s.publisher, events.Event{
			Type:        events.CommissionReversed,
			AffiliateID: affiliateID,
			OrderNumber: orderNumber,
			Amount:      reversed,
			OccurredAt:  s.now(),
		})
		zap.L().Info("order commission reversed", zap.String("order", orderNumber), zap.String("amount", reversed.String()))
	}
	return reversed, nil
}

func (s *Service) Get(ctx context.Context, orderNumber string) (*domain.OrderCompletion, error) {
	c, err := s.repo.Get(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: order %s", domain.ErrNotFound, orderNumber)
	}
	return c, nil
}
