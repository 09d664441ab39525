package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/GlebRadaev/affiliator/internal/config"
	"github.com/GlebRadaev/affiliator/internal/confirm"
	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/events"
	"github.com/GlebRadaev/affiliator/internal/handlers/affiliates"
	"github.com/GlebRadaev/affiliator/internal/handlers/auth"
	"github.com/GlebRadaev/affiliator/internal/handlers/coupons"
	"github.com/GlebRadaev/affiliator/internal/handlers/ledger"
	"github.com/GlebRadaev/affiliator/internal/handlers/orders"
	"github.com/GlebRadaev/affiliator/internal/handlers/payouts"
	"github.com/GlebRadaev/affiliator/internal/handlers/tiers"
	"github.com/GlebRadaev/affiliator/internal/handlers/tracking"
	"github.com/GlebRadaev/affiliator/internal/metrics"
	"github.com/GlebRadaev/affiliator/internal/pg"
	"github.com/GlebRadaev/affiliator/internal/repo"
	"github.com/GlebRadaev/affiliator/internal/service/affiliateservice"
	"github.com/GlebRadaev/affiliator/internal/service/authservice"
	"github.com/GlebRadaev/affiliator/internal/service/couponservice"
	"github.com/GlebRadaev/affiliator/internal/service/ledgerservice"
	"github.com/GlebRadaev/affiliator/internal/service/orderservice"
	"github.com/GlebRadaev/affiliator/internal/service/payoutservice"
	"github.com/GlebRadaev/affiliator/internal/service/tierservice"
	"github.com/GlebRadaev/affiliator/internal/service/trackingservice"
	pkgauth "github.com/GlebRadaev/affiliator/pkg/auth"
)

type UserProvisioner interface {
	EnsureUser(ctx context.Context, login, password string, role domain.Role) (*domain.User, error)
}

type Services struct {
	AuthService      auth.Service
	UserProvisioner  UserProvisioner
	AffiliateService affiliates.Service
	TrackingService  tracking.Service
	ClickListing     affiliates.Clicks
	LedgerService    ledger.Service
	LedgerListing    affiliates.Ledger
	ConfirmLedger    confirm.Ledger
	PayoutService    payouts.Service
	PayoutListing    affiliates.Payouts
	CouponService    coupons.Service
	CouponListing    affiliates.Coupons
	TierService      tiers.Service
	OrderService     orders.Service
	TokenValidator   pkgauth.TokenValidator
}

func New(
	repos *repo.Repositories,
	txManager pg.TXManager,
	publisher events.Publisher,
	m *metrics.Metrics,
	cfg *config.Config,
) (*Services, error) {
	jwtService := pkgauth.NewJWTService(cfg.JWTSecret)
	authService := authservice.New(repos.UserRepo, pkgauth.NewHashService(bcrypt.DefaultCost), jwtService, cfg.TokenTTL)

	tierService := tierservice.New(repos.TierRepo, txManager, cfg.DefaultCommissionRate)
	ledgerService := ledgerservice.New(repos.LedgerRepo, repos.AffiliateRepo, txManager)
	affiliateService, err := affiliateservice.New(repos.AffiliateRepo, repos.UserRepo, ledgerService, tierService, txManager)
	if err != nil {
		return nil, err
	}
	trackingService := trackingservice.New(repos.ClickRepo, repos.AffiliateRepo, txManager, publisher, m, cfg.AttributionWindow)
	couponService, err := couponservice.New(repos.CouponRepo, repos.AffiliateRepo, txManager)
	if err != nil {
		return nil, err
	}
	payoutService := payoutservice.New(repos.PayoutRepo, repos.AffiliateRepo, ledgerService, txManager, publisher, m, cfg.MinPayout)
	orderService := orderservice.New(
		repos.OrderRepo,
		repos.AffiliateRepo,
		trackingService,
		tierService,
		ledgerService,
		couponService,
		txManager,
		publisher,
		m,
	)

	return &Services{
		AuthService:      authService,
		UserProvisioner:  authService,
		AffiliateService: affiliateService,
		TrackingService:  trackingService,
		ClickListing:     trackingService,
		LedgerService:    ledgerService,
		LedgerListing:    ledgerService,
		ConfirmLedger:    ledgerService,
		PayoutService:    payoutService,
		PayoutListing:    payoutService,
		CouponService:    couponService,
		CouponListing:    couponService,
		TierService:      tierService,
		OrderService:     orderService,
		TokenValidator:   jwtService,
	}, nil
}
