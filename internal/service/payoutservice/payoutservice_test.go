package payoutservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/events"
	"github.com/GlebRadaev/affiliator/internal/pg"
)

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type mocks struct {
	repo       *MockRepo
	affiliates *MockAffiliateRepo
	ledger     *MockLedger
	publisher  *events.MockPublisher
}

func NewMock(t *testing.T) (*Service, mocks) {
	ctrl := gomock.NewController(t)
	m := mocks{
		repo:       NewMockRepo(ctrl),
		affiliates: NewMockAffiliateRepo(ctrl),
		ledger:     NewMockLedger(ctrl),
		publisher:  events.NewMockPublisher(ctrl),
	}
	txManager := pg.NewMockTXManager(ctrl)
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error { return fn(ctx) }).
		AnyTimes()
	service := New(m.repo, m.affiliates, m.ledger, txManager, m.publisher, nil, decimal.NewFromInt(50))
	service.now = func() time.Time { return fixedNow }
	return service, m
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRequestPayout(t *testing.T) {
	service, m := NewMock(t)
	affiliate := &domain.Affiliate{
		ID: uuid.New(), Status: domain.AffiliateApproved, IsActive: true, PaymentMethod: "paypal:me@example.com",
	}
	inactive := &domain.Affiliate{ID: affiliate.ID, Status: domain.AffiliateApproved, IsActive: false}
	pending := &domain.Affiliate{ID: affiliate.ID, Status: domain.AffiliatePending, IsActive: true}

	tests := []struct {
		name          string
		amount        decimal.Decimal
		method        string
		prepareMock   func()
		expectedError error
		check         func(t *testing.T, p *domain.Payout)
	}{
		{name: "zero amount", amount: decimal.Zero, expectedError: domain.ErrInvalidAmount},
		{name: "negative amount", amount: d("-10"), expectedError: domain.ErrInvalidAmount},
		{name: "fractional cents", amount: d("60.001"), expectedError: domain.ErrInvalidAmount},
		{name: "below minimum", amount: d("49.99"), expectedError: domain.ErrBelowMinimum},
		{
			name:   "unknown affiliate",
			amount: d("60"),
			prepareMock: func() {
				m.affiliates.EXPECT().GetByIDForUpdate(gomock.Any(), affiliate.ID).Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name:   "deactivated affiliate",
			amount: d("60"),
			prepareMock: func() {
				m.affiliates.EXPECT().GetByIDForUpdate(gomock.Any(), affiliate.ID).Return(inactive, nil)
			},
			expectedError: domain.ErrInvalidState,
		},
		{
			name:   "affiliate awaiting approval",
			amount: d("60"),
			prepareMock: func() {
				m.affiliates.EXPECT().GetByIDForUpdate(gomock.Any(), affiliate.ID).Return(pending, nil)
			},
			expectedError: domain.ErrInvalidState,
		},
		{
			name:   "more than available",
			amount: d("80"),
			prepareMock: func() {
				m.affiliates.EXPECT().GetByIDForUpdate(gomock.Any(), affiliate.ID).Return(affiliate, nil)
				m.ledger.EXPECT().GetAvailableBalance(gomock.Any(), affiliate.ID).Return(d("79.99"), nil)
			},
			expectedError: domain.ErrInsufficientBalance,
		},
		{
			name:   "reserves the whole balance",
			amount: d("80"),
			prepareMock: func() {
				m.affiliates.EXPECT().GetByIDForUpdate(gomock.Any(), affiliate.ID).Return(affiliate, nil)
				m.ledger.EXPECT().GetAvailableBalance(gomock.Any(), affiliate.ID).Return(d("80.00"), nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *domain.Payout) (*domain.Payout, error) { return p, nil })
				m.ledger.EXPECT().AppendEntry(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req domain.EntryRequest) (*domain.LedgerEntry, error) {
						assert.Equal(t, domain.EntryPayoutDebit, req.Type)
						assert.True(t, req.Amount.Equal(d("-80")))
						assert.Equal(t, domain.EntryPending, req.Status)
						assert.NotNil(t, req.PayoutID)
						return &domain.LedgerEntry{ID: uuid.New()}, nil
					})
				m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, p *domain.Payout) {
				assert.Equal(t, domain.PayoutPending, p.Status)
				assert.Equal(t, "paypal:me@example.com", p.PaymentMethod)
			},
		},
		{
			name:   "explicit method and publish failure",
			amount: d("50"),
			method: " wire ",
			prepareMock: func() {
				m.affiliates.EXPECT().GetByIDForUpdate(gomock.Any(), affiliate.ID).Return(affiliate, nil)
				m.ledger.EXPECT().GetAvailableBalance(gomock.Any(), affiliate.ID).Return(d("100"), nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *domain.Payout) (*domain.Payout, error) { return p, nil })
				m.ledger.EXPECT().AppendEntry(gomock.Any(), gomock.Any()).Return(&domain.LedgerEntry{}, nil)
				m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
			},
			check: func(t *testing.T, p *domain.Payout) {
				assert.Equal(t, "wire", p.PaymentMethod)
			},
		},
		{
			name:   "debit append fails",
			amount: d("50"),
			prepareMock: func() {
				m.affiliates.EXPECT().GetByIDForUpdate(gomock.Any(), affiliate.ID).Return(affiliate, nil)
				m.ledger.EXPECT().GetAvailableBalance(gomock.Any(), affiliate.ID).Return(d("100"), nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *domain.Payout) (*domain.Payout, error) { return p, nil })
				m.ledger.EXPECT().AppendEntry(gomock.Any(), gomock.Any()).Return(nil, errors.New("some error"))
			},
			expectedError: errors.New("some error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}
			payout, err := service.RequestPayout(context.Background(), affiliate.ID, tt.amount, tt.method)
			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					assert.EqualError(t, err, tt.expectedError.Error())
				}
				assert.Nil(t, payout)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.amount.Equal(payout.Amount))
			tt.check(t, payout)
		})
	}
}

func TestTransitions(t *testing.T) {
	service, m := NewMock(t)
	adminID := uuid.New()
	payoutID := uuid.New()
	affiliateID := uuid.New()

	payout := func(status domain.PayoutStatus) *domain.Payout {
		return &domain.Payout{ID: payoutID, AffiliateID: affiliateID, Amount: d("75"), Status: status, PaymentMethod: "wire"}
	}

	tests := []struct {
		name          string
		run           func() (*domain.Payout, error)
		prepareMock   func()
		expectedError error
		expected      domain.PayoutStatus
	}{
		{
			name: "approve pending",
			run:  func() (*domain.Payout, error) { return service.ApprovePayout(context.Background(), payoutID, adminID) },
			prepareMock: func() {
				m.repo.EXPECT().GetByIDForUpdate(gomock.Any(), payoutID).Return(payout(domain.PayoutPending), nil)
				m.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
				m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
			expected: domain.PayoutApproved,
		},
		{
			name: "approve twice",
			run:  func() (*domain.Payout, error) { return service.ApprovePayout(context.Background(), payoutID, adminID) },
			prepareMock: func() {
				m.repo.EXPECT().GetByIDForUpdate(gomock.Any(), payoutID).Return(payout(domain.PayoutApproved), nil)
			},
			expectedError: domain.ErrInvalidState,
		},
		{
			name: "approve unknown",
			run:  func() (*domain.Payout, error) { return service.ApprovePayout(context.Background(), payoutID, adminID) },
			prepareMock: func() {
				m.repo.EXPECT().GetByIDForUpdate(gomock.Any(), payoutID).Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name:          "settle without transaction id",
			run:           func() (*domain.Payout, error) { return service.SettlePayout(context.Background(), payoutID, adminID, "  ") },
			expectedError: domain.ErrInvalidInput,
		},
		{
			name: "settle pending payout",
			run:  func() (*domain.Payout, error) { return service.SettlePayout(context.Background(), payoutID, adminID, "tx-1") },
			prepareMock: func() {
				m.repo.EXPECT().GetByIDForUpdate(gomock.Any(), payoutID).Return(payout(domain.PayoutPending), nil)
			},
			expectedError: domain.ErrInvalidState,
		},
		{
			name: "settle approved payout marks the debit paid",
			run:  func() (*domain.Payout, error) { return service.SettlePayout(context.Background(), payoutID, adminID, "tx-1") },
			prepareMock: func() {
				m.repo.EXPECT().GetByIDForUpdate(gomock.Any(), payoutID).Return(payout(domain.PayoutApproved), nil)
				m.ledger.EXPECT().SettleDebit(gomock.Any(), payoutID).Return(&domain.LedgerEntry{Status: domain.EntryPaid}, nil)
				m.repo.EXPECT().Update(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *domain.Payout) error {
						require.NotNil(t, p.TransactionID)
						assert.Equal(t, "tx-1", *p.TransactionID)
						assert.Equal(t, &adminID, p.ProcessedBy)
						assert.Equal(t, &fixedNow, p.ProcessedAt)
						return nil
					})
				m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
			expected: domain.PayoutPaid,
		},
		{
			name: "reject pending payout appends a confirmed reversal",
			run:  func() (*domain.Payout, error) { return service.RejectPayout(context.Background(), payoutID, adminID) },
			prepareMock: func() {
				m.repo.EXPECT().GetByIDForUpdate(gomock.Any(), payoutID).Return(payout(domain.PayoutPending), nil)
				m.ledger.EXPECT().AppendEntry(gomock.Any(), domain.EntryRequest{
					AffiliateID: affiliateID,
					PayoutID:    &payoutID,
					Type:        domain.EntryPayoutReversal,
					Amount:      d("75"),
					Status:      domain.EntryConfirmed,
				}).Return(&domain.LedgerEntry{}, nil)
				m.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
				m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
			expected: domain.PayoutRejected,
		},
		{
			name: "reject paid payout",
			run:  func() (*domain.Payout, error) { return service.RejectPayout(context.Background(), payoutID, adminID) },
			prepareMock: func() {
				m.repo.EXPECT().GetByIDForUpdate(gomock.Any(), payoutID).Return(payout(domain.PayoutPaid), nil)
			},
			expectedError: domain.ErrInvalidState,
		},
		{
			name: "reject approved payout",
			run:  func() (*domain.Payout, error) { return service.RejectPayout(context.Background(), payoutID, adminID) },
			prepareMock: func() {
				m.repo.EXPECT().GetByIDForUpdate(gomock.Any(), payoutID).Return(payout(domain.PayoutApproved), nil)
			},
			expectedError: domain.ErrInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}
			p, err := tt.run()
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.Status)
		})
	}
}

func TestList(t *testing.T) {
	service, m := NewMock(t)

	m.repo.EXPECT().ListByStatus(gomock.Any(), domain.PayoutPending).Return([]domain.Payout{{}, {}}, nil)
	payouts, err := service.List(context.Background(), domain.PayoutPending)
	require.NoError(t, err)
	assert.Len(t, payouts, 2)

	_, err = service.List(context.Background(), "lost")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	id := uuid.New()
	m.repo.EXPECT().GetByID(gomock.Any(), id).Return(nil, nil)
	_, err = service.Get(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
