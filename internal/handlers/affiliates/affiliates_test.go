package affiliates

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/dto"
	"github.com/GlebRadaev/affiliator/pkg/auth"
	"github.com/GlebRadaev/affiliator/pkg/utils"
)

type mocks struct {
	service *MockService
	ledger  *MockLedger
	clicks  *MockClicks
	payouts *MockPayouts
	coupons *MockCoupons
}

func NewMock(t *testing.T) (*AffiliateHandler, mocks) {
	ctrl := gomock.NewController(t)
	m := mocks{
		service: NewMockService(ctrl),
		ledger:  NewMockLedger(ctrl),
		clicks:  NewMockClicks(ctrl),
		payouts: NewMockPayouts(ctrl),
		coupons: NewMockCoupons(ctrl),
	}
	return New(m.service, m.ledger, m.clicks, m.payouts, m.coupons), m
}

type caller struct {
	id   uuid.UUID
	role domain.Role
}

func newRequest(method, target, body string, params map[string]string, c *caller) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if c != nil {
		ctx = auth.WithUser(ctx, c.id, c.role)
	}
	return req.WithContext(ctx)
}

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	var resp utils.Response
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp.Message
}

func TestApply(t *testing.T) {
	userID := uuid.New()
	affiliate := &domain.Affiliate{ID: uuid.New(), UserID: userID, Code: "jane42xyzk", Status: domain.AffiliatePending, IsActive: true}

	tests := []struct {
		name          string
		body          string
		caller        *caller
		prepareMock   func(m mocks)
		expectedCode  int
		expectedError string
	}{
		{
			name:   "Application created",
			body:   `{"payment_method":"paypal:jane@example.com"}`,
			caller: &caller{userID, domain.RoleCustomer},
			prepareMock: func(m mocks) {
				m.service.EXPECT().Apply(gomock.Any(), userID, "paypal:jane@example.com").Return(affiliate, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:   "Already an affiliate",
			body:   `{}`,
			caller: &caller{userID, domain.RoleCustomer},
			prepareMock: func(m mocks) {
				m.service.EXPECT().Apply(gomock.Any(), userID, "").Return(nil, domain.ErrAlreadyExists)
			},
			expectedCode:  http.StatusConflict,
			expectedError: "already exists",
		},
		{
			name:          "Invalid body",
			body:          `{`,
			caller:        &caller{userID, domain.RoleCustomer},
			prepareMock:   func(m mocks) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name:          "Anonymous",
			body:          `{}`,
			prepareMock:   func(m mocks) {},
			expectedCode:  http.StatusUnauthorized,
			expectedError: "Unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, m := NewMock(t)
			tt.prepareMock(m)

			rr := httptest.NewRecorder()
			handler.Apply(rr, newRequest(http.MethodPost, "/api/affiliates", tt.body, nil, tt.caller))

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeMessage(t, rr))
				return
			}
			var resp dto.AffiliateResponseDTO
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, affiliate.Code, resp.Code)
			assert.Equal(t, "pending", resp.Status)
		})
	}
}

func TestMe(t *testing.T) {
	handler, m := NewMock(t)
	userID := uuid.New()

	m.service.EXPECT().GetByUser(gomock.Any(), userID).Return(nil, domain.ErrNotFound)

	rr := httptest.NewRecorder()
	handler.Me(rr, newRequest(http.MethodGet, "/api/affiliates/me", "", nil, &caller{userID, domain.RoleCustomer}))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStats_Authorization(t *testing.T) {
	owner := uuid.New()
	affiliateID := uuid.New()
	affiliate := &domain.Affiliate{ID: affiliateID, UserID: owner, Status: domain.AffiliateApproved, IsActive: true}
	stats := &domain.AffiliateStats{
		Affiliate:        affiliate,
		AvailableBalance: decimal.RequireFromString("42.50"),
		Rate:             domain.Rate{Rate: decimal.NewFromInt(10), TierName: "bronze"},
		ConversionRate:   decimal.RequireFromString("12.5"),
	}

	tests := []struct {
		name         string
		id           string
		caller       *caller
		prepareMock  func(m mocks)
		expectedCode int
	}{
		{
			name:   "Owner sees own stats",
			id:     affiliateID.String(),
			caller: &caller{owner, domain.RoleAffiliate},
			prepareMock: func(m mocks) {
				m.service.EXPECT().Get(gomock.Any(), affiliateID).Return(affiliate, nil)
				m.service.EXPECT().Stats(gomock.Any(), affiliateID).Return(stats, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "Admin sees any stats",
			id:     affiliateID.String(),
			caller: &caller{uuid.New(), domain.RoleAdmin},
			prepareMock: func(m mocks) {
				m.service.EXPECT().Stats(gomock.Any(), affiliateID).Return(stats, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "Other affiliate is forbidden",
			id:     affiliateID.String(),
			caller: &caller{uuid.New(), domain.RoleAffiliate},
			prepareMock: func(m mocks) {
				m.service.EXPECT().Get(gomock.Any(), affiliateID).Return(affiliate, nil)
			},
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "System role cannot view affiliates",
			id:           affiliateID.String(),
			caller:       &caller{uuid.New(), domain.RoleSystem},
			prepareMock:  func(m mocks) {},
			expectedCode: http.StatusForbidden,
		},
		{
			name:   "Unknown affiliate",
			id:     affiliateID.String(),
			caller: &caller{owner, domain.RoleAffiliate},
			prepareMock: func(m mocks) {
				m.service.EXPECT().Get(gomock.Any(), affiliateID).Return(nil, domain.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Malformed id",
			id:           "42",
			caller:       &caller{owner, domain.RoleAffiliate},
			prepareMock:  func(m mocks) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, m := NewMock(t)
			tt.prepareMock(m)

			rr := httptest.NewRecorder()
			handler.Stats(rr, newRequest(http.MethodGet, "/api/affiliates/"+tt.id+"/stats", "", map[string]string{"id": tt.id}, tt.caller))

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedCode == http.StatusOK {
				var resp dto.StatsResponseDTO
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.True(t, decimal.RequireFromString("42.5").Equal(resp.AvailableBalance))
				assert.Equal(t, "bronze", resp.TierName)
			}
		})
	}
}

func TestListings(t *testing.T) {
	affiliateID := uuid.New()
	admin := &caller{uuid.New(), domain.RoleAdmin}
	params := map[string]string{"id": affiliateID.String()}

	t.Run("Ledger passes the limit", func(t *testing.T) {
		handler, m := NewMock(t)
		m.ledger.EXPECT().ListEntries(gomock.Any(), affiliateID, 5).Return([]domain.LedgerEntry{
			{ID: uuid.New(), AffiliateID: affiliateID, Type: domain.EntrySaleCommission, Amount: decimal.NewFromInt(20), Balance: decimal.NewFromInt(20), Status: domain.EntryPending},
		}, nil)

		rr := httptest.NewRecorder()
		handler.Ledger(rr, newRequest(http.MethodGet, "/api/affiliates/x/ledger?limit=5", "", params, admin))

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp []dto.LedgerEntryResponseDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "sale_commission", resp[0].Type)
	})

	t.Run("Clicks", func(t *testing.T) {
		handler, m := NewMock(t)
		m.clicks.EXPECT().ListClicks(gomock.Any(), affiliateID, 0).Return(nil, nil)

		rr := httptest.NewRecorder()
		handler.Clicks(rr, newRequest(http.MethodGet, "/api/affiliates/x/clicks", "", params, admin))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("Payouts error", func(t *testing.T) {
		handler, m := NewMock(t)
		m.payouts.EXPECT().ListByAffiliate(gomock.Any(), affiliateID).Return(nil, errors.New("db down"))

		rr := httptest.NewRecorder()
		handler.Payouts(rr, newRequest(http.MethodGet, "/api/affiliates/x/payouts", "", params, admin))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("Coupons", func(t *testing.T) {
		handler, m := NewMock(t)
		m.coupons.EXPECT().ListForAffiliate(gomock.Any(), affiliateID).Return([]domain.Coupon{{ID: uuid.New(), Code: "JANE10"}}, nil)

		rr := httptest.NewRecorder()
		handler.Coupons(rr, newRequest(http.MethodGet, "/api/affiliates/x/coupons", "", params, admin))

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp []dto.CouponResponseDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "JANE10", resp[0].Code)
	})
}

func TestAdminLifecycle(t *testing.T) {
	id := uuid.New()
	params := map[string]string{"id": id.String()}
	admin := &caller{uuid.New(), domain.RoleAdmin}

	tests := []struct {
		name         string
		body         string
		call         func(h *AffiliateHandler, w http.ResponseWriter, r *http.Request)
		prepareMock  func(m mocks)
		expectedCode int
	}{
		{
			name: "List by status",
			call: func(h *AffiliateHandler, w http.ResponseWriter, r *http.Request) {
				r.URL.RawQuery = "status=pending"
				h.List(w, r)
			},
			prepareMock: func(m mocks) {
				m.service.EXPECT().List(gomock.Any(), domain.AffiliatePending).Return([]domain.Affiliate{{ID: id}}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "List with unknown status",
			call: func(h *AffiliateHandler, w http.ResponseWriter, r *http.Request) {
				r.URL.RawQuery = "status=banned"
				h.List(w, r)
			},
			prepareMock: func(m mocks) {
				m.service.EXPECT().List(gomock.Any(), domain.AffiliateStatus("banned")).Return(nil, domain.ErrInvalidInput)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Approve",
			call: (*AffiliateHandler).Approve,
			prepareMock: func(m mocks) {
				m.service.EXPECT().Approve(gomock.Any(), id).Return(&domain.Affiliate{ID: id, Status: domain.AffiliateApproved}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Reject an approved affiliate",
			call: (*AffiliateHandler).Reject,
			prepareMock: func(m mocks) {
				m.service.EXPECT().Reject(gomock.Any(), id).Return(nil, domain.ErrInvalidState)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name: "Deactivate",
			call: (*AffiliateHandler).Deactivate,
			prepareMock: func(m mocks) {
				m.service.EXPECT().SetActive(gomock.Any(), id, false).Return(nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name: "Activate missing affiliate",
			call: (*AffiliateHandler).Activate,
			prepareMock: func(m mocks) {
				m.service.EXPECT().SetActive(gomock.Any(), id, true).Return(domain.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Set commission",
			body: `{"commission":"12.5"}`,
			call: (*AffiliateHandler).SetCommission,
			prepareMock: func(m mocks) {
				m.service.EXPECT().SetCommission(gomock.Any(), id, decimal.NewNullDecimal(decimal.RequireFromString("12.5"))).Return(nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name: "Clear commission",
			body: `{"commission":null}`,
			call: (*AffiliateHandler).SetCommission,
			prepareMock: func(m mocks) {
				m.service.EXPECT().SetCommission(gomock.Any(), id, decimal.NullDecimal{}).Return(nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name: "Reconcile",
			call: (*AffiliateHandler).Reconcile,
			prepareMock: func(m mocks) {
				m.service.EXPECT().Reconcile(gomock.Any(), id).Return(&domain.Reconciliation{AffiliateID: id, Consistent: true}, nil)
			},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, m := NewMock(t)
			tt.prepareMock(m)

			rr := httptest.NewRecorder()
			tt.call(handler, rr, newRequest(http.MethodPatch, "/api/admin/affiliates/"+id.String(), tt.body, params, admin))

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}
