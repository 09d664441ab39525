package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/affiliator/internal/config"
	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/handlers/affiliates"
	authhandlers "github.com/GlebRadaev/affiliator/internal/handlers/auth"
	"github.com/GlebRadaev/affiliator/internal/handlers/coupons"
	"github.com/GlebRadaev/affiliator/internal/handlers/ledger"
	"github.com/GlebRadaev/affiliator/internal/handlers/orders"
	"github.com/GlebRadaev/affiliator/internal/handlers/payouts"
	"github.com/GlebRadaev/affiliator/internal/handlers/tiers"
	"github.com/GlebRadaev/affiliator/internal/handlers/tracking"
	"github.com/GlebRadaev/affiliator/internal/service"
	"github.com/GlebRadaev/affiliator/pkg/auth"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)

	services := &service.Services{
		AuthService:      authhandlers.NewMockService(ctrl),
		AffiliateService: affiliates.NewMockService(ctrl),
		TrackingService:  tracking.NewMockService(ctrl),
		ClickListing:     affiliates.NewMockClicks(ctrl),
		LedgerService:    ledger.NewMockService(ctrl),
		LedgerListing:    affiliates.NewMockLedger(ctrl),
		PayoutService:    payouts.NewMockService(ctrl),
		PayoutListing:    affiliates.NewMockPayouts(ctrl),
		CouponService:    coupons.NewMockService(ctrl),
		CouponListing:    affiliates.NewMockCoupons(ctrl),
		TierService:      tiers.NewMockService(ctrl),
		OrderService:     orders.NewMockService(ctrl),
		TokenValidator:   auth.NewJWTService("secret"),
	}

	h := New(services, &config.Config{StorefrontURL: "http://shop", ClickRateLimit: 5, ClickRateBurst: 10}, nil)

	assert.NotNil(t, h, "Handlers should not be nil")
	assert.NotNil(t, h.ClickLimiter)
}

func TestInitRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockAuth := NewMockAuthHandler(ctrl)
	mockTracking := NewMockTrackingHandler(ctrl)
	mockAffiliates := NewMockAffiliateHandler(ctrl)
	mockPayouts := NewMockPayoutHandler(ctrl)
	mockCoupons := NewMockCouponHandler(ctrl)
	mockTiers := NewMockTierHandler(ctrl)
	mockLedger := NewMockLedgerHandler(ctrl)
	mockOrders := NewMockOrderHandler(ctrl)

	mockAuth.EXPECT().Register(gomock.Any(), gomock.Any()).AnyTimes()
	mockAuth.EXPECT().Login(gomock.Any(), gomock.Any()).AnyTimes()
	mockTracking.EXPECT().Click(gomock.Any(), gomock.Any()).AnyTimes()
	mockTracking.EXPECT().Redirect(gomock.Any(), gomock.Any()).AnyTimes()
	mockCoupons.EXPECT().Validate(gomock.Any(), gomock.Any()).AnyTimes()
	mockCoupons.EXPECT().List(gomock.Any(), gomock.Any()).AnyTimes()
	mockAffiliates.EXPECT().Apply(gomock.Any(), gomock.Any()).AnyTimes()
	mockAffiliates.EXPECT().Stats(gomock.Any(), gomock.Any()).AnyTimes()
	mockAffiliates.EXPECT().Approve(gomock.Any(), gomock.Any()).AnyTimes()
	mockPayouts.EXPECT().Request(gomock.Any(), gomock.Any()).AnyTimes()
	mockPayouts.EXPECT().Settle(gomock.Any(), gomock.Any()).AnyTimes()
	mockTiers.EXPECT().List(gomock.Any(), gomock.Any()).AnyTimes()
	mockTiers.EXPECT().Update(gomock.Any(), gomock.Any()).AnyTimes()
	mockLedger.EXPECT().Adjust(gomock.Any(), gomock.Any()).AnyTimes()
	mockOrders.EXPECT().Completed(gomock.Any(), gomock.Any()).AnyTimes()
	mockOrders.EXPECT().Get(gomock.Any(), gomock.Any()).AnyTimes()

	jwtService := auth.NewJWTService("secret")
	h := &Handlers{
		AuthHandler:      mockAuth,
		TrackingHandler:  mockTracking,
		AffiliateHandler: mockAffiliates,
		PayoutHandler:    mockPayouts,
		CouponHandler:    mockCoupons,
		TierHandler:      mockTiers,
		LedgerHandler:    mockLedger,
		OrderHandler:     mockOrders,
		Validator:        jwtService,
		ClickLimiter:     tracking.NewIPLimiter(100, 100),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	}

	router := chi.NewRouter()
	h.InitRoutes(router)

	token := func(role domain.Role) string {
		tok, err := jwtService.GenerateJWT(uuid.New(), role, time.Now().Add(time.Hour))
		require.NoError(t, err)
		return tok
	}
	tokens := map[domain.Role]string{
		domain.RoleCustomer:  token(domain.RoleCustomer),
		domain.RoleAffiliate: token(domain.RoleAffiliate),
		domain.RoleAdmin:     token(domain.RoleAdmin),
		domain.RoleSystem:    token(domain.RoleSystem),
	}
	id := uuid.NewString()

	tests := []struct {
		method string
		url    string
		role   domain.Role
		status int
	}{
		{"POST", "/api/user/register", "", http.StatusOK},
		{"POST", "/api/user/login", "", http.StatusOK},
		{"POST", "/api/clicks", "", http.StatusOK},
		{"GET", "/r/jane42xyzk", "", http.StatusOK},
		{"GET", "/api/coupons/validate/JANE10", "", http.StatusOK},
		{"GET", "/metrics", "", http.StatusOK},

		{"POST", "/api/affiliates", "", http.StatusUnauthorized},
		{"POST", "/api/affiliates", domain.RoleCustomer, http.StatusOK},
		{"GET", "/api/affiliates/" + id + "/stats", domain.RoleAffiliate, http.StatusOK},
		{"POST", "/api/payouts", domain.RoleCustomer, http.StatusForbidden},
		{"POST", "/api/payouts", domain.RoleAffiliate, http.StatusOK},

		{"POST", "/api/orders/completed", domain.RoleCustomer, http.StatusForbidden},
		{"POST", "/api/orders/completed", domain.RoleSystem, http.StatusOK},
		{"GET", "/api/orders/79927398713", domain.RoleAdmin, http.StatusOK},

		{"PATCH", "/api/admin/affiliates/" + id + "/approve", domain.RoleAffiliate, http.StatusForbidden},
		{"PATCH", "/api/admin/affiliates/" + id + "/approve", domain.RoleAdmin, http.StatusOK},
		{"POST", "/api/admin/ledger/adjustments", domain.RoleAdmin, http.StatusOK},
		{"PATCH", "/api/admin/payouts/" + id + "/settle", domain.RoleSystem, http.StatusForbidden},
		{"PATCH", "/api/admin/payouts/" + id + "/settle", domain.RoleAdmin, http.StatusOK},
		{"GET", "/api/admin/tiers", domain.RoleCustomer, http.StatusForbidden},
		{"GET", "/api/admin/tiers", domain.RoleAdmin, http.StatusOK},
		{"PUT", "/api/admin/tiers/" + id, domain.RoleAdmin, http.StatusOK},
		{"GET", "/api/admin/coupons", domain.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url+" as "+string(tt.role), func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			if tt.role != "" {
				req.Header.Set("Authorization", "Bearer "+tokens[tt.role])
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
