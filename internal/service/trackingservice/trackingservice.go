package trackingservice

//go:generate mockgen -source=trackingservice.go -destination=mock_trackingservice.go -package=trackingservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/events"
	"github.com/GlebRadaev/affiliator/internal/metrics"
	"github.com/GlebRadaev/affiliator/internal/pg"
)

const defaultListLimit = 100

type ClickRepo interface {
	Create(ctx context.Context, click *domain.Click) (*domain.Click, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Click, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Click, error)
	FindLatestUnconverted(ctx context.Context, affiliateID uuid.UUID, since time.Time) (*domain.Click, error)
	MarkConverted(ctx context.Context, id uuid.UUID, orderNumber string, at time.Time) (bool, error)
	ListByAffiliate(ctx context.Context, affiliateID uuid.UUID, limit int) ([]domain.Click, error)
}

type AffiliateRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Affiliate, error)
	GetByCode(ctx context.Context, code string) (*domain.Affiliate, error)
	IncrementClicks(ctx context.Context, id uuid.UUID) error
	IncrementConversions(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	clicks     ClickRepo
	affiliates AffiliateRepo
	txManager  pg.TXManager
	publisher  events.Publisher
	metrics    *metrics.Metrics
	window     time.Duration
	now        func() time.Time
}

func New(
	clicks ClickRepo,
	affiliates AffiliateRepo,
	txManager pg.TXManager,
	publisher events.Publisher,
	m *metrics.Metrics,
	window time.Duration,
) *Service {
	return &Service{
		clicks:     clicks,
		affiliates: affiliates,
		txManager:  txManager,
		publisher:  publisher,
		metrics:    m,
		window:     window,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func eligible(a *domain.Affiliate) bool {
	return a != nil && a.CanEarn()
}

func (s *Service) inWindow(c *domain.Click) bool {
	return !c.CreatedAt.Before(s.now().Add(-s.window))
}

// RecordClick stores a click for an approved, active affiliate's referral code.
func (s *Service) RecordClick(ctx context.Context, code, ip string) (*domain.Click, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrNotFound
	}

	var click *domain.Click
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		affiliate, err := s.affiliates.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if !eligible(affiliate) {
			return domain.ErrNotFound
		}
		click, err = s.clicks.Create(ctx, &domain.Click{
			ID:          uuid.New(),
			AffiliateID: affiliate.ID,
			IPAddress:   ip,
		})
		if err != nil {
			return err
		}
		return s.affiliates.IncrementClicks(ctx, affiliate.ID)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ClickRecorded()
	events.Emit(ctx, s.publisher, events.Event{
		Type:        events.ClickRecorded,
		AffiliateID: click.AffiliateID,
		ClickID:     &click.ID,
		OccurredAt:  s.now(),
	})
	return click, nil
}

// Attribute picks the single affiliate credited for an order: an unconverted
// click inside the window first, then the referral code, then the coupon owner.
// Ineligible candidates are skipped, and so is the customer's own affiliate
// account, letting the next source win.
func (s *Service) Attribute(
	ctx context.Context,
	customerID *uuid.UUID,
	clickID *uuid.UUID,
	referralCode string,
	couponOwner *uuid.UUID,
) (*domain.Affiliate, domain.AttributionSource, error) {
	creditable := func(a *domain.Affiliate, source domain.AttributionSource) bool {
		if !eligible(a) {
			return false
		}
		if customerID != nil && a.UserID == *customerID {
			zap.L().Info("self-referral skipped",
				zap.String("affiliate_id", a.ID.String()), zap.String("source", string(source)))
			return false
		}
		return true
	}

	if clickID != nil {
		click, err := s.clicks.GetByID(ctx, *clickID)
		if err != nil {
			return nil, domain.AttributionNone, err
		}
		if click != nil && !click.Converted && s.inWindow(click) {
			affiliate, err := s.affiliates.GetByID(ctx, click.AffiliateID)
			if err != nil {
				return nil, domain.AttributionNone, err
			}
			if creditable(affiliate, domain.AttributionClick) {
				return affiliate, domain.AttributionClick, nil
			}
		}
	}

	if code := strings.TrimSpace(referralCode); code != "" {
		affiliate, err := s.affiliates.GetByCode(ctx, code)
		if err != nil {
			return nil, domain.AttributionNone, err
		}
		if creditable(affiliate, domain.AttributionReferralCode) {
			return affiliate, domain.AttributionReferralCode, nil
		}
	}

	if couponOwner != nil {
		affiliate, err := s.affiliates.GetByID(ctx, *couponOwner)
		if err != nil {
			return nil, domain.AttributionNone, err
		}
		if creditable(affiliate, domain.AttributionCoupon) {
			return affiliate, domain.AttributionCoupon, nil
		}
	}

	return nil, domain.AttributionNone, nil
}

// ResolveConversion converts at most one click of the affiliate for the order.
// Without an eligible click the conversion is recorded as without-click and
// the conversions counter is left alone.
func (s *Service) ResolveConversion(ctx context.Context, affiliateID uuid.UUID, clickID *uuid.UUID, orderNumber string) (*domain.Conversion, error) {
	var conversion *domain.Conversion
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var click *domain.Click
		if clickID != nil {
			c, err := s.clicks.GetByIDForUpdate(ctx, *clickID)
			if err != nil {
				return err
			}
			if c != nil && c.AffiliateID == affiliateID && !c.Converted && s.inWindow(c) {
				click = c
			}
		}
		if click == nil {
			c, err := s.clicks.FindLatestUnconverted(ctx, affiliateID, s.now().Add(-s.window))
			if err != nil {
				return err
			}
			click = c
		}

		conversion = &domain.Conversion{AffiliateID: affiliateID, WithoutClick: true}
		if click == nil {
			return nil
		}
		ok, err := s.clicks.MarkConverted(ctx, click.ID, orderNumber, s.now())
		if err != nil {
			return err
		}
		if !ok {
			zap.L().Warn("click converted concurrently", zap.String("click_id", click.ID.String()))
			return nil
		}
		conversion.ClickID = &click.ID
		conversion.WithoutClick = false
		return s.affiliates.IncrementConversions(ctx, affiliateID)
	})
	if err != nil {
		return nil, err
	}
	return conversion, nil
}

func (s *Service) ListClicks(ctx context.Context, affiliateID uuid.UUID, limit int) ([]domain.Click, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.clicks.ListByAffiliate(ctx, affiliateID, limit)
}
