package trackingservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/events"
	"github.com/GlebRadaev/affiliator/internal/pg"
)

const window = 30 * 24 * time.Hour

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type mocks struct {
	clicks     *MockClickRepo
	affiliates *MockAffiliateRepo
	publisher  *events.MockPublisher
}

func NewMock(t *testing.T) (*Service, mocks) {
	ctrl := gomock.NewController(t)
	m := mocks{
		clicks:     NewMockClickRepo(ctrl),
		affiliates: NewMockAffiliateRepo(ctrl),
		publisher:  events.NewMockPublisher(ctrl),
	}
	txManager := pg.NewMockTXManager(ctrl)
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error { return fn(ctx) }).
		AnyTimes()
	service := New(m.clicks, m.affiliates, txManager, m.publisher, nil, window)
	service.now = func() time.Time { return fixedNow }
	return service, m
}

func approved() *domain.Affiliate {
	return &domain.Affiliate{ID: uuid.New(), UserID: uuid.New(), Code: "jane42", Status: domain.AffiliateApproved, IsActive: true}
}

func TestRecordClick(t *testing.T) {
	service, m := NewMock(t)
	affiliate := approved()

	tests := []struct {
		name          string
		code          string
		prepareMock   func()
		expectedError error
	}{
		{name: "empty code", code: "  ", expectedError: domain.ErrNotFound},
		{
			name: "unknown code",
			code: "nobody",
			prepareMock: func() {
				m.affiliates.EXPECT().GetByCode(gomock.Any(), "nobody").Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name: "pending affiliate",
			code: "jane42",
			prepareMock: func() {
				m.affiliates.EXPECT().GetByCode(gomock.Any(), "jane42").
					Return(&domain.Affiliate{ID: affiliate.ID, Status: domain.AffiliatePending, IsActive: true}, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name: "recorded",
			code: "jane42",
			prepareMock: func() {
				m.affiliates.EXPECT().GetByCode(gomock.Any(), "jane42").Return(affiliate, nil)
				m.clicks.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *domain.Click) (*domain.Click, error) {
						assert.Equal(t, "203.0.113.9", c.IPAddress)
						assert.False(t, c.Converted)
						c.CreatedAt = fixedNow
						return c, nil
					})
				m.affiliates.EXPECT().IncrementClicks(gomock.Any(), affiliate.ID).Return(nil)
				m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "counter update fails",
			code: "jane42",
			prepareMock: func() {
				m.affiliates.EXPECT().GetByCode(gomock.Any(), "jane42").Return(affiliate, nil)
				m.clicks.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *domain.Click) (*domain.Click, error) { return c, nil })
				m.affiliates.EXPECT().IncrementClicks(gomock.Any(), affiliate.ID).Return(errors.New("some error"))
			},
			expectedError: errors.New("some error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}
			click, err := service.RecordClick(context.Background(), tt.code, "203.0.113.9")
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, click)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, affiliate.ID, click.AffiliateID)
		})
	}
}

func TestAttribute(t *testing.T) {
	service, m := NewMock(t)
	byClick := approved()
	byCode := approved()
	byCoupon := approved()
	clickID := uuid.New()
	freshClick := &domain.Click{ID: clickID, AffiliateID: byClick.ID, CreatedAt: fixedNow.Add(-window)}
	staleClick := &domain.Click{ID: clickID, AffiliateID: byClick.ID, CreatedAt: fixedNow.Add(-window - time.Second)}

	tests := []struct {
		name        string
		customerID  *uuid.UUID
		clickID     *uuid.UUID
		code        string
		couponOwner *uuid.UUID
		prepareMock func()
		expected    *domain.Affiliate
		source      domain.AttributionSource
	}{
		{
			name:        "click beats code and coupon",
			clickID:     &clickID,
			code:        "code",
			couponOwner: &byCoupon.ID,
			prepareMock: func() {
				m.clicks.EXPECT().GetByID(gomock.Any(), clickID).Return(freshClick, nil)
				m.affiliates.EXPECT().GetByID(gomock.Any(), byClick.ID).Return(byClick, nil)
			},
			expected: byClick,
			source:   domain.AttributionClick,
		},
		{
			name:    "click outside the window falls back to the code",
			clickID: &clickID,
			code:    "code",
			prepareMock: func() {
				m.clicks.EXPECT().GetByID(gomock.Any(), clickID).Return(staleClick, nil)
				m.affiliates.EXPECT().GetByCode(gomock.Any(), "code").Return(byCode, nil)
			},
			expected: byCode,
			source:   domain.AttributionReferralCode,
		},
		{
			name:        "converted click and deactivated code fall back to the coupon owner",
			clickID:     &clickID,
			code:        "code",
			couponOwner: &byCoupon.ID,
			prepareMock: func() {
				m.clicks.EXPECT().GetByID(gomock.Any(), clickID).
					Return(&domain.Click{ID: clickID, AffiliateID: byClick.ID, Converted: true, CreatedAt: fixedNow}, nil)
				m.affiliates.EXPECT().GetByCode(gomock.Any(), "code").
					Return(&domain.Affiliate{ID: byCode.ID, Status: domain.AffiliateApproved, IsActive: false}, nil)
				m.affiliates.EXPECT().GetByID(gomock.Any(), byCoupon.ID).Return(byCoupon, nil)
			},
			expected: byCoupon,
			source:   domain.AttributionCoupon,
		},
		{
			name:    "click of a rejected affiliate",
			clickID: &clickID,
			prepareMock: func() {
				m.clicks.EXPECT().GetByID(gomock.Any(), clickID).Return(freshClick, nil)
				m.affiliates.EXPECT().GetByID(gomock.Any(), byClick.ID).
					Return(&domain.Affiliate{ID: byClick.ID, Status: domain.AffiliateRejected, IsActive: true}, nil)
			},
			source: domain.AttributionNone,
		},
		{
			name:        "own referral code falls through to another affiliate's coupon",
			customerID:  &byCode.UserID,
			code:        "code",
			couponOwner: &byCoupon.ID,
			prepareMock: func() {
				m.affiliates.EXPECT().GetByCode(gomock.Any(), "code").Return(byCode, nil)
				m.affiliates.EXPECT().GetByID(gomock.Any(), byCoupon.ID).Return(byCoupon, nil)
			},
			expected: byCoupon,
			source:   domain.AttributionCoupon,
		},
		{
			name:        "own click and own coupon credit nobody",
			customerID:  &byClick.UserID,
			clickID:     &clickID,
			couponOwner: &byClick.ID,
			prepareMock: func() {
				m.clicks.EXPECT().GetByID(gomock.Any(), clickID).Return(freshClick, nil)
				m.affiliates.EXPECT().GetByID(gomock.Any(), byClick.ID).Return(byClick, nil).Times(2)
			},
			source: domain.AttributionNone,
		},
		{
			name:   "nothing to go on",
			source: domain.AttributionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}
			affiliate, source, err := service.Attribute(context.Background(), tt.customerID, tt.clickID, tt.code, tt.couponOwner)
			require.NoError(t, err)
			assert.Equal(t, tt.source, source)
			assert.Equal(t, tt.expected, affiliate)
		})
	}
}

func TestResolveConversion(t *testing.T) {
	service, m := NewMock(t)
	affiliateID := uuid.New()
	clickID := uuid.New()
	latestID := uuid.New()
	order := "79927398713"
	since := fixedNow.Add(-window)

	tests := []struct {
		name          string
		clickID       *uuid.UUID
		prepareMock   func()
		expected      *domain.Conversion
		expectedError error
	}{
		{
			name:    "explicit click is converted",
			clickID: &clickID,
			prepareMock: func() {
				m.clicks.EXPECT().GetByIDForUpdate(gomock.Any(), clickID).
					Return(&domain.Click{ID: clickID, AffiliateID: affiliateID, CreatedAt: fixedNow.Add(-time.Hour)}, nil)
				m.clicks.EXPECT().MarkConverted(gomock.Any(), clickID, order, fixedNow).Return(true, nil)
				m.affiliates.EXPECT().IncrementConversions(gomock.Any(), affiliateID).Return(nil)
			},
			expected: &domain.Conversion{AffiliateID: affiliateID, ClickID: &clickID},
		},
		{
			name:    "click of another affiliate falls back to the latest own click",
			clickID: &clickID,
			prepareMock: func() {
				m.clicks.EXPECT().GetByIDForUpdate(gomock.Any(), clickID).
					Return(&domain.Click{ID: clickID, AffiliateID: uuid.New(), CreatedAt: fixedNow}, nil)
				m.clicks.EXPECT().FindLatestUnconverted(gomock.Any(), affiliateID, since).
					Return(&domain.Click{ID: latestID, AffiliateID: affiliateID, CreatedAt: fixedNow}, nil)
				m.clicks.EXPECT().MarkConverted(gomock.Any(), latestID, order, fixedNow).Return(true, nil)
				m.affiliates.EXPECT().IncrementConversions(gomock.Any(), affiliateID).Return(nil)
			},
			expected: &domain.Conversion{AffiliateID: affiliateID, ClickID: &latestID},
		},
		{
			name: "no click in the window",
			prepareMock: func() {
				m.clicks.EXPECT().FindLatestUnconverted(gomock.Any(), affiliateID, since).Return(nil, nil)
			},
			expected: &domain.Conversion{AffiliateID: affiliateID, WithoutClick: true},
		},
		{
			name: "click converted by someone else in the meantime",
			prepareMock: func() {
				m.clicks.EXPECT().FindLatestUnconverted(gomock.Any(), affiliateID, since).
					Return(&domain.Click{ID: latestID, AffiliateID: affiliateID}, nil)
				m.clicks.EXPECT().MarkConverted(gomock.Any(), latestID, order, fixedNow).Return(false, nil)
			},
			expected: &domain.Conversion{AffiliateID: affiliateID, WithoutClick: true},
		},
		{
			name: "lookup fails",
			prepareMock: func() {
				m.clicks.EXPECT().FindLatestUnconverted(gomock.Any(), affiliateID, since).Return(nil, errors.New("some error"))
			},
			expectedError: errors.New("some error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			conversion, err := service.ResolveConversion(context.Background(), affiliateID, tt.clickID, order)
			if tt.expectedError != nil {
				assert.EqualError(t, err, tt.expectedError.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, conversion)
		})
	}
}

func TestListClicks(t *testing.T) {
	service, m := NewMock(t)
	affiliateID := uuid.New()

	m.clicks.EXPECT().ListByAffiliate(gomock.Any(), affiliateID, defaultListLimit).Return([]domain.Click{{}}, nil)
	clicks, err := service.ListClicks(context.Background(), affiliateID, -1)
	require.NoError(t, err)
	assert.Len(t, clicks, 1)
}
