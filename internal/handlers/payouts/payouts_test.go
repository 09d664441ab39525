package payouts

import (
	"context"
	"encoding/json"
	"fmt"
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
)

type decimalEq struct{ want decimal.Decimal }

func (m decimalEq) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalEq) String() string { return fmt.Sprintf("equals %s", m.want) }

func NewMock(t *testing.T) (*PayoutHandler, *MockService, *MockAffiliates) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	affiliates := NewMockAffiliates(ctrl)
	return New(service, affiliates), service, affiliates
}

func newRequest(method, target, body string, id string, userID uuid.UUID, role domain.Role) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rctx := chi.NewRouteContext()
	if id != "" {
		rctx.URLParams.Add("id", id)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userID != uuid.Nil {
		ctx = auth.WithUser(ctx, userID, role)
	}
	return req.WithContext(ctx)
}

func TestRequest(t *testing.T) {
	userID := uuid.New()
	affiliateID := uuid.New()
	affiliate := &domain.Affiliate{ID: affiliateID, UserID: userID}

	tests := []struct {
		name         string
		body         string
		userID       uuid.UUID
		prepareMock  func(service *MockService, affiliates *MockAffiliates)
		expectedCode int
	}{
		{
			name:   "Payout reserved",
			body:   `{"amount":"75.00","payment_method":"paypal:jane@example.com"}`,
			userID: userID,
			prepareMock: func(service *MockService, affiliates *MockAffiliates) {
				affiliates.EXPECT().GetByUser(gomock.Any(), userID).Return(affiliate, nil)
				service.EXPECT().RequestPayout(gomock.Any(), affiliateID, decimalEq{decimal.NewFromInt(75)}, "paypal:jane@example.com").
					Return(&domain.Payout{ID: uuid.New(), AffiliateID: affiliateID, Amount: decimal.NewFromInt(75), Status: domain.PayoutPending}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:   "Insufficient balance",
			body:   `{"amount":"500"}`,
			userID: userID,
			prepareMock: func(service *MockService, affiliates *MockAffiliates) {
				affiliates.EXPECT().GetByUser(gomock.Any(), userID).Return(affiliate, nil)
				service.EXPECT().RequestPayout(gomock.Any(), affiliateID, gomock.Any(), "").Return(nil, domain.ErrInsufficientBalance)
			},
			expectedCode: http.StatusPaymentRequired,
		},
		{
			name:   "Below minimum",
			body:   `{"amount":"10"}`,
			userID: userID,
			prepareMock: func(service *MockService, affiliates *MockAffiliates) {
				affiliates.EXPECT().GetByUser(gomock.Any(), userID).Return(affiliate, nil)
				service.EXPECT().RequestPayout(gomock.Any(), affiliateID, gomock.Any(), "").Return(nil, domain.ErrBelowMinimum)
			},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name:   "Lock contention",
			body:   `{"amount":"60"}`,
			userID: userID,
			prepareMock: func(service *MockService, affiliates *MockAffiliates) {
				affiliates.EXPECT().GetByUser(gomock.Any(), userID).Return(affiliate, nil)
				service.EXPECT().RequestPayout(gomock.Any(), affiliateID, gomock.Any(), "").Return(nil, domain.ErrConcurrencyConflict)
			},
			expectedCode: http.StatusServiceUnavailable,
		},
		{
			name:   "Caller is not an affiliate",
			body:   `{"amount":"60"}`,
			userID: userID,
			prepareMock: func(service *MockService, affiliates *MockAffiliates) {
				affiliates.EXPECT().GetByUser(gomock.Any(), userID).Return(nil, domain.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Malformed amount",
			body:         `{"amount":"lots"}`,
			userID:       userID,
			prepareMock:  func(service *MockService, affiliates *MockAffiliates) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Anonymous",
			body:         `{"amount":"60"}`,
			prepareMock:  func(service *MockService, affiliates *MockAffiliates) {},
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service, affiliates := NewMock(t)
			tt.prepareMock(service, affiliates)

			rr := httptest.NewRecorder()
			handler.Request(rr, newRequest(http.MethodPost, "/api/payouts", tt.body, "", tt.userID, domain.RoleAffiliate))

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedCode == http.StatusCreated {
				var resp dto.PayoutResponseDTO
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, "pending", resp.Status)
				assert.True(t, decimal.NewFromInt(75).Equal(resp.Amount))
			}
		})
	}
}

func TestAdminTransitions(t *testing.T) {
	adminID := uuid.New()
	payoutID := uuid.New()
	txID := "txn_123"

	tests := []struct {
		name         string
		body         string
		id           string
		call         func(h *PayoutHandler, w http.ResponseWriter, r *http.Request)
		prepareMock  func(service *MockService)
		expectedCode int
	}{
		{
			name: "Approve",
			id:   payoutID.String(),
			call: (*PayoutHandler).Approve,
			prepareMock: func(service *MockService) {
				service.EXPECT().ApprovePayout(gomock.Any(), payoutID, adminID).
					Return(&domain.Payout{ID: payoutID, Status: domain.PayoutApproved}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Approve twice",
			id:   payoutID.String(),
			call: (*PayoutHandler).Approve,
			prepareMock: func(service *MockService) {
				service.EXPECT().ApprovePayout(gomock.Any(), payoutID, adminID).Return(nil, domain.ErrInvalidState)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name: "Settle",
			body: `{"transaction_id":"txn_123"}`,
			id:   payoutID.String(),
			call: (*PayoutHandler).Settle,
			prepareMock: func(service *MockService) {
				service.EXPECT().SettlePayout(gomock.Any(), payoutID, adminID, "txn_123").
					Return(&domain.Payout{ID: payoutID, Status: domain.PayoutPaid, TransactionID: &txID}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Settle without transaction id",
			body:         `{}`,
			id:           payoutID.String(),
			call:         (*PayoutHandler).Settle,
			prepareMock:  func(service *MockService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Reject unknown payout",
			id:   payoutID.String(),
			call: (*PayoutHandler).Reject,
			prepareMock: func(service *MockService) {
				service.EXPECT().RejectPayout(gomock.Any(), payoutID, adminID).Return(nil, domain.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Malformed id",
			id:           "7",
			call:         (*PayoutHandler).Reject,
			prepareMock:  func(service *MockService) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service, _ := NewMock(t)
			tt.prepareMock(service)

			rr := httptest.NewRecorder()
			tt.call(handler, rr, newRequest(http.MethodPatch, "/api/admin/payouts/"+tt.id, tt.body, tt.id, adminID, domain.RoleAdmin))

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}

func TestList(t *testing.T) {
	handler, service, _ := NewMock(t)
	service.EXPECT().List(gomock.Any(), domain.PayoutPending).Return([]domain.Payout{
		{ID: uuid.New(), Amount: decimal.NewFromInt(60), Status: domain.PayoutPending},
	}, nil)

	rr := httptest.NewRecorder()
	handler.List(rr, newRequest(http.MethodGet, "/api/admin/payouts?status=pending", "", "", uuid.New(), domain.RoleAdmin))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp []dto.PayoutResponseDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Len(t, resp, 1)
}
