package orderrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/GlebRadaev/affiliator/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	t.Cleanup(mockDB.Close)

	return repo, mockDB
}

func TestRepository_Claim(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta("INSERT INTO order_completions (order_number) VALUES ($1) ON CONFLICT (order_number) DO NOTHING")

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		result    bool
	}{
		{
			name: "First delivery",
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs("79927398713").WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
			result: true,
		},
		{
			name: "Redelivery",
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs("79927398713").WillReturnResult(pgxmock.NewResult("INSERT", 0))
			},
			result: false,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(query).WithArgs("79927398713").WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			ok, err := repo.Claim(context.Background(), "79927398713")
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_CompleteAndGet(t *testing.T) {
	repo, mock := NewMock(t)
	affiliateID := uuid.New()
	clickID := uuid.New()
	c := domain.OrderCompletion{
		OrderNumber:  "79927398713",
		AffiliateID:  &affiliateID,
		ClickID:      &clickID,
		Source:       domain.AttributionClick,
		WithoutClick: false,
		Commission:   decimal.NewFromInt(20),
		Bonus:        decimal.Zero,
		CouponID:     nil,
		Discount:     decimal.Zero,
		CreatedAt:    time.Now(),
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE order_completions SET affiliate_id = $1, click_id = $2, source = $3, without_click = $4, commission = $5, bonus = $6, coupon_id = $7, discount = $8 WHERE order_number = $9")).
		WithArgs(c.AffiliateID, c.ClickID, c.Source, c.WithoutClick, c.Commission, c.Bonus, c.CouponID, c.Discount, c.OrderNumber).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM order_completions WHERE order_number = $1")).
		WithArgs("79927398713").
		WillReturnRows(pgxmock.NewRows([]string{
			"order_number", "affiliate_id", "click_id", "source", "without_click",
			"commission", "bonus", "coupon_id", "discount", "created_at",
		}).AddRow(c.OrderNumber, c.AffiliateID, c.ClickID, c.Source, c.WithoutClick,
			c.Commission, c.Bonus, c.CouponID, c.Discount, c.CreatedAt))
	mock.ExpectQuery(regexp.QuoteMeta("FROM order_completions WHERE order_number = $1")).
		WithArgs("1").
		WillReturnError(pgx.ErrNoRows)

	assert.NoError(t, repo.Complete(context.Background(), &c))

	stored, err := repo.Get(context.Background(), "79927398713")
	assert.NoError(t, err)
	assert.Equal(t, &c, stored)

	stored, err = repo.Get(context.Background(), "1")
	assert.NoError(t, err)
	assert.Nil(t, stored)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ClaimRefund(t *testing.T) {
	repo, mock := NewMock(t)
	query := regexp.QuoteMeta("INSERT INTO order_refunds (order_number) VALUES ($1) ON CONFLICT (order_number) DO NOTHING")

	mock.ExpectExec(query).WithArgs("79927398713").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(query).WithArgs("79927398713").WillReturnResult(pgxmock.NewResult("INSERT", 0))

	ok, err := repo.ClaimRefund(context.Background(), "79927398713")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ClaimRefund(context.Background(), "79927398713")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
