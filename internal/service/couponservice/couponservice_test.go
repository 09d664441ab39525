package couponservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/pg"
)

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func NewMock(t *testing.T) (*Service, *MockRepo, *MockAffiliateRepo) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	affiliates := NewMockAffiliateRepo(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error { return fn(ctx) }).
		AnyTimes()
	service, err := New(repo, affiliates, txManager)
	require.NoError(t, err)
	service.now = func() time.Time { return fixedNow }
	return service, repo, affiliates
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func TestCheck(t *testing.T) {
	past := fixedNow.Add(-time.Hour)
	future := fixedNow.Add(time.Hour)

	tests := []struct {
		name     string
		coupon   domain.Coupon
		total    string
		expected error
	}{
		{name: "usable", coupon: domain.Coupon{MinPurchase: d("10")}, total: "10"},
		{name: "expired", coupon: domain.Coupon{ExpiresAt: &past}, total: "10", expected: domain.ErrExpired},
		{name: "expires exactly now", coupon: domain.Coupon{ExpiresAt: &fixedNow}, total: "10", expected: domain.ErrExpired},
		{name: "not started", coupon: domain.Coupon{StartsAt: &future}, total: "10", expected: domain.ErrNotStarted},
		{name: "starts exactly now", coupon: domain.Coupon{StartsAt: &fixedNow}, total: "10"},
		{name: "limit reached", coupon: domain.Coupon{MaxUses: ptr(2), UsedCount: 2}, total: "10", expected: domain.ErrLimitReached},
		{name: "minimum not met", coupon: domain.Coupon{MinPurchase: d("50")}, total: "49.99", expected: domain.ErrMinimumNotMet},
		{
			name:     "expiry is reported before the usage cap",
			coupon:   domain.Coupon{ExpiresAt: &past, MaxUses: ptr(1), UsedCount: 1, MinPurchase: d("100")},
			total:    "10",
			expected: domain.ErrExpired,
		},
		{
			name:     "usage cap is reported before the minimum",
			coupon:   domain.Coupon{MaxUses: ptr(1), UsedCount: 1, MinPurchase: d("100")},
			total:    "10",
			expected: domain.ErrLimitReached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(&tt.coupon, d(tt.total), fixedNow)
			if tt.expected != nil {
				assert.ErrorIs(t, err, tt.expected)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestComputeDiscount(t *testing.T) {
	tests := []struct {
		name     string
		coupon   domain.Coupon
		total    string
		expected string
	}{
		{name: "ten percent", coupon: domain.Coupon{DiscountType: domain.DiscountPercentage, DiscountValue: d("10")}, total: "200", expected: "20"},
		{name: "percentage rounds to cents", coupon: domain.Coupon{DiscountType: domain.DiscountPercentage, DiscountValue: d("15")}, total: "33.33", expected: "5"},
		{name: "fixed", coupon: domain.Coupon{DiscountType: domain.DiscountFixed, DiscountValue: d("25")}, total: "200", expected: "25"},
		{name: "fixed capped at total", coupon: domain.Coupon{DiscountType: domain.DiscountFixed, DiscountValue: d("25")}, total: "19.99", expected: "19.99"},
		{name: "full percentage", coupon: domain.Coupon{DiscountType: domain.DiscountPercentage, DiscountValue: d("100")}, total: "12.34", expected: "12.34"},
		{name: "zero total", coupon: domain.Coupon{DiscountType: domain.DiscountFixed, DiscountValue: d("5")}, total: "0", expected: "0"},
		{name: "unknown type", coupon: domain.Coupon{DiscountType: "bogo", DiscountValue: d("5")}, total: "10", expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDiscount(&tt.coupon, d(tt.total))
			assert.True(t, d(tt.expected).Equal(got), "got %s", got)
		})
	}
}

func TestComputeDiscount_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("discount stays within [0, total]", prop.ForAll(
		func(percentage bool, value int64, totalCents int64) bool {
			c := &domain.Coupon{DiscountType: domain.DiscountFixed, DiscountValue: decimal.New(value, -2)}
			if percentage {
				c.DiscountType = domain.DiscountPercentage
				c.DiscountValue = decimal.New(value%10000+1, -2)
			}
			total := decimal.New(totalCents, -2)
			got := ComputeDiscount(c, total)
			return !got.IsNegative() && got.LessThanOrEqual(total) && got.Equal(got.Round(2))
		},
		gen.Bool(),
		gen.Int64Range(1, 1_000_000),
		gen.Int64Range(0, 10_000_000),
	))

	properties.TestingRun(t)
}

func TestValidate(t *testing.T) {
	service, repo, _ := NewMock(t)
	coupon := &domain.Coupon{
		ID: uuid.New(), Code: "SPRING10", DiscountType: domain.DiscountPercentage, DiscountValue: d("10"), IsActive: true,
	}

	tests := []struct {
		name          string
		code          string
		total         string
		prepareMock   func()
		expected      string
		expectedError error
	}{
		{
			name:  "normalizes the code",
			code:  " spring10 ",
			total: "200",
			prepareMock: func() {
				repo.EXPECT().GetByCode(gomock.Any(), "SPRING10").Return(coupon, nil)
			},
			expected: "20",
		},
		{
			name:  "missing coupon",
			code:  "NOPE",
			total: "200",
			prepareMock: func() {
				repo.EXPECT().GetByCode(gomock.Any(), "NOPE").Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name:  "inactive coupon looks missing",
			code:  "OLD",
			total: "200",
			prepareMock: func() {
				repo.EXPECT().GetByCode(gomock.Any(), "OLD").Return(&domain.Coupon{Code: "OLD", IsActive: false}, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name:          "negative total",
			code:          "SPRING10",
			total:         "-1",
			expectedError: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}
			discount, err := service.Validate(context.Background(), tt.code, d(tt.total))
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.True(t, d(tt.expected).Equal(discount.Amount))
			assert.Equal(t, coupon, discount.Coupon)
		})
	}
}

func TestRedeem(t *testing.T) {
	service, repo, _ := NewMock(t)
	coupon := func() *domain.Coupon {
		return &domain.Coupon{ID: uuid.MustParse("5f0c7f1e-0a4b-4a57-9a43-8b7bb7c8a001"), Code: "ONCE", IsActive: true, MaxUses: ptr(1)}
	}
	order := "79927398713"

	tests := []struct {
		name          string
		prepareMock   func()
		expectedError error
	}{
		{
			name: "redeemed",
			prepareMock: func() {
				repo.EXPECT().GetByCode(gomock.Any(), "ONCE").Return(coupon(), nil)
				repo.EXPECT().IncrementUsage(gomock.Any(), coupon().ID).Return(true, nil)
				repo.EXPECT().CreateRedemption(gomock.Any(), coupon().ID, order).Return(nil)
			},
		},
		{
			name: "cap already taken",
			prepareMock: func() {
				repo.EXPECT().GetByCode(gomock.Any(), "ONCE").Return(coupon(), nil)
				repo.EXPECT().IncrementUsage(gomock.Any(), coupon().ID).Return(false, nil)
			},
			expectedError: domain.ErrLimitReached,
		},
		{
			name: "order already redeemed a coupon",
			prepareMock: func() {
				repo.EXPECT().GetByCode(gomock.Any(), "ONCE").Return(coupon(), nil)
				repo.EXPECT().IncrementUsage(gomock.Any(), coupon().ID).Return(true, nil)
				repo.EXPECT().CreateRedemption(gomock.Any(), coupon().ID, order).Return(domain.ErrAlreadyExists)
			},
			expectedError: domain.ErrAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			c, err := service.Redeem(context.Background(), "once", order)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, c.UsedCount)
		})
	}
}

func TestCreate(t *testing.T) {
	service, repo, affiliates := NewMock(t)
	affiliateID := uuid.New()
	echo := func(_ context.Context, c *domain.Coupon) (*domain.Coupon, error) { return c, nil }

	tests := []struct {
		name          string
		input         domain.Coupon
		prepareMock   func()
		expectedError error
		check         func(t *testing.T, c *domain.Coupon)
	}{
		{
			name:  "generated code",
			input: domain.Coupon{DiscountType: domain.DiscountFixed, DiscountValue: d("5")},
			prepareMock: func() {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(echo)
			},
			check: func(t *testing.T, c *domain.Coupon) {
				assert.Len(t, c.Code, codeLength)
				assert.Regexp(t, `^[A-Z2-9]+$`, c.Code)
				assert.True(t, c.IsActive)
			},
		},
		{
			name:  "affiliate owned",
			input: domain.Coupon{Code: "jane-15", DiscountType: domain.DiscountPercentage, DiscountValue: d("15"), AffiliateID: &affiliateID},
			prepareMock: func() {
				affiliates.EXPECT().GetByID(gomock.Any(), affiliateID).Return(&domain.Affiliate{ID: affiliateID}, nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(echo)
			},
			check: func(t *testing.T, c *domain.Coupon) {
				assert.Equal(t, "JANE-15", c.Code)
			},
		},
		{
			name:  "unknown owner",
			input: domain.Coupon{Code: "X15", DiscountType: domain.DiscountFixed, DiscountValue: d("15"), AffiliateID: &affiliateID},
			prepareMock: func() {
				affiliates.EXPECT().GetByID(gomock.Any(), affiliateID).Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name:          "percentage above 100",
			input:         domain.Coupon{Code: "BIG", DiscountType: domain.DiscountPercentage, DiscountValue: d("101")},
			expectedError: domain.ErrInvalidInput,
		},
		{
			name:          "zero max uses",
			input:         domain.Coupon{Code: "NONE", DiscountType: domain.DiscountFixed, DiscountValue: d("1"), MaxUses: ptr(0)},
			expectedError: domain.ErrInvalidInput,
		},
		{
			name:          "bad characters",
			input:         domain.Coupon{Code: "NO SPACES", DiscountType: domain.DiscountFixed, DiscountValue: d("1")},
			expectedError: domain.ErrInvalidInput,
		},
		{
			name: "window ends before it starts",
			input: domain.Coupon{
				Code: "WINDOW", DiscountType: domain.DiscountFixed, DiscountValue: d("1"),
				StartsAt: ptr(fixedNow), ExpiresAt: ptr(fixedNow.Add(-time.Minute)),
			},
			expectedError: domain.ErrInvalidInput,
		},
		{
			name:  "duplicate code",
			input: domain.Coupon{Code: "DUP", DiscountType: domain.DiscountFixed, DiscountValue: d("1")},
			prepareMock: func() {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, domain.ErrAlreadyExists)
			},
			expectedError: domain.ErrAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}
			input := tt.input
			c, err := service.Create(context.Background(), &input)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, c.ID)
			tt.check(t, c)
		})
	}
}

func TestDeactivate(t *testing.T) {
	service, repo, _ := NewMock(t)
	id := uuid.New()

	repo.EXPECT().SetActive(gomock.Any(), id, false).Return(nil)
	assert.NoError(t, service.Deactivate(context.Background(), id))

	repo.EXPECT().SetActive(gomock.Any(), id, false).Return(domain.ErrNotFound)
	assert.True(t, errors.Is(service.Deactivate(context.Background(), id), domain.ErrNotFound))
}
