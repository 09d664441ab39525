package handlers

//go:generate mockgen -source=handlers.go -destination=mock_handlers.go -package=handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/GlebRadaev/affiliator/docs"
	"github.com/GlebRadaev/affiliator/internal/config"
	"github.com/GlebRadaev/affiliator/internal/domain"
	affiliatehandlers "github.com/GlebRadaev/affiliator/internal/handlers/affiliates"
	authhandlers "github.com/GlebRadaev/affiliator/internal/handlers/auth"
	couponhandlers "github.com/GlebRadaev/affiliator/internal/handlers/coupons"
	ledgerhandlers "github.com/GlebRadaev/affiliator/internal/handlers/ledger"
	orderhandlers "github.com/GlebRadaev/affiliator/internal/handlers/orders"
	payouthandlers "github.com/GlebRadaev/affiliator/internal/handlers/payouts"
	tierhandlers "github.com/GlebRadaev/affiliator/internal/handlers/tiers"
	trackinghandlers "github.com/GlebRadaev/affiliator/internal/handlers/tracking"
	"github.com/GlebRadaev/affiliator/internal/service"
	"github.com/GlebRadaev/affiliator/pkg/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type TrackingHandler interface {
	Click(w http.ResponseWriter, r *http.Request)
	Redirect(w http.ResponseWriter, r *http.Request)
}

type AffiliateHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Ledger(w http.ResponseWriter, r *http.Request)
	Clicks(w http.ResponseWriter, r *http.Request)
	Payouts(w http.ResponseWriter, r *http.Request)
	Coupons(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
	Activate(w http.ResponseWriter, r *http.Request)
	SetCommission(w http.ResponseWriter, r *http.Request)
	Reconcile(w http.ResponseWriter, r *http.Request)
}

type PayoutHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Settle(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type CouponHandler interface {
	Validate(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
}

type TierHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type LedgerHandler interface {
	Confirm(w http.ResponseWriter, r *http.Request)
	Paid(w http.ResponseWriter, r *http.Request)
	Adjust(w http.ResponseWriter, r *http.Request)
}

type OrderHandler interface {
	Completed(w http.ResponseWriter, r *http.Request)
	Refunded(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler      AuthHandler
	TrackingHandler  TrackingHandler
	AffiliateHandler AffiliateHandler
	PayoutHandler    PayoutHandler
	CouponHandler    CouponHandler
	TierHandler      TierHandler
	LedgerHandler    LedgerHandler
	OrderHandler     OrderHandler

	Validator    auth.TokenValidator
	ClickLimiter *trackinghandlers.IPLimiter
	Metrics      http.Handler
}

func New(s *service.Services, cfg *config.Config, metrics http.Handler) *Handlers {
	return &Handlers{
		AuthHandler:     authhandlers.New(s.AuthService),
		TrackingHandler: trackinghandlers.New(s.TrackingService, cfg.StorefrontURL),
		AffiliateHandler: affiliatehandlers.New(
			s.AffiliateService,
			s.LedgerListing,
			s.ClickListing,
			s.PayoutListing,
			s.CouponListing,
		),
		PayoutHandler: payouthandlers.New(s.PayoutService, s.AffiliateService),
		CouponHandler: couponhandlers.New(s.CouponService),
		TierHandler:   tierhandlers.New(s.TierService),
		LedgerHandler: ledgerhandlers.New(s.LedgerService),
		OrderHandler:  orderhandlers.New(s.OrderService),

		Validator:    s.TokenValidator,
		ClickLimiter: trackinghandlers.NewIPLimiter(cfg.ClickRateLimit, cfg.ClickRateBurst),
		Metrics:      metrics,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics)
	}
	r.With(h.ClickLimiter.Middleware).Get("/r/{code}", h.TrackingHandler.Redirect)

	r.Route("/api", func(r chi.Router) {
		r.Post("/user/register", h.AuthHandler.Register)
		r.Post("/user/login", h.AuthHandler.Login)
		r.With(h.ClickLimiter.Middleware).Post("/clicks", h.TrackingHandler.Click)
		r.Get("/coupons/validate/{code}", h.CouponHandler.Validate)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware(h.Validator))

			r.With(auth.RequireCapability(domain.CapApplyAffiliate)).Post("/affiliates", h.AffiliateHandler.Apply)
			r.With(auth.RequireCapability(domain.CapViewOwnAffiliate)).Get("/affiliates/me", h.AffiliateHandler.Me)
			r.Route("/affiliates/{id}", func(r chi.Router) {
				r.Get("/stats", h.AffiliateHandler.Stats)
				r.Get("/ledger", h.AffiliateHandler.Ledger)
				r.Get("/clicks", h.AffiliateHandler.Clicks)
				r.Get("/payouts", h.AffiliateHandler.Payouts)
				r.Get("/coupons", h.AffiliateHandler.Coupons)
			})
			r.With(auth.RequireCapability(domain.CapRequestPayout)).Post("/payouts", h.PayoutHandler.Request)

			r.Route("/orders", func(r chi.Router) {
				r.Use(auth.RequireCapability(domain.CapCompleteOrders))
				r.Post("/completed", h.OrderHandler.Completed)
				r.Post("/refunded", h.OrderHandler.Refunded)
				r.Get("/{number}", h.OrderHandler.Get)
			})

			r.Route("/admin", h.adminRoutes)
		})
	})

	return r
}

func (h *Handlers) adminRoutes(r chi.Router) {
	r.Route("/affiliates", func(r chi.Router) {
		r.Use(auth.RequireCapability(domain.CapManageAffiliates))
		r.Get("/", h.AffiliateHandler.List)
		r.Patch("/{id}/approve", h.AffiliateHandler.Approve)
		r.Patch("/{id}/reject", h.AffiliateHandler.Reject)
		r.Patch("/{id}/deactivate", h.AffiliateHandler.Deactivate)
		r.Patch("/{id}/activate", h.AffiliateHandler.Activate)
		r.Patch("/{id}/commission", h.AffiliateHandler.SetCommission)
		r.Get("/{id}/reconcile", h.AffiliateHandler.Reconcile)
	})
	r.Route("/ledger", func(r chi.Router) {
		r.Use(auth.RequireCapability(domain.CapManageLedger))
		r.Post("/adjustments", h.LedgerHandler.Adjust)
		r.Patch("/{id}/confirm", h.LedgerHandler.Confirm)
		r.Patch("/{id}/paid", h.LedgerHandler.Paid)
	})
	r.Route("/payouts", func(r chi.Router) {
		r.Use(auth.RequireCapability(domain.CapManagePayouts))
		r.Get("/", h.PayoutHandler.List)
		r.Patch("/{id}/approve", h.PayoutHandler.Approve)
		r.Patch("/{id}/settle", h.PayoutHandler.Settle)
		r.Patch("/{id}/reject", h.PayoutHandler.Reject)
	})
	r.Route("/tiers", func(r chi.Router) {
		r.Use(auth.RequireCapability(domain.CapManageTiers))
		r.Get("/", h.TierHandler.List)
		r.Post("/", h.TierHandler.Create)
		r.Put("/{id}", h.TierHandler.Update)
		r.Delete("/{id}", h.TierHandler.Delete)
	})
	r.Route("/coupons", func(r chi.Router) {
		r.Use(auth.RequireCapability(domain.CapManageCoupons))
		r.Get("/", h.CouponHandler.List)
		r.Post("/", h.CouponHandler.Create)
		r.Patch("/{id}/deactivate", h.CouponHandler.Deactivate)
	})
}
