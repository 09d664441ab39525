package payoutrepo

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

var columnNames = []string{
	"id", "affiliate_id", "amount", "status", "payment_method", "transaction_id", "processed_by", "processed_at", "created_at",
}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	t.Cleanup(mockDB.Close)

	return repo, mockDB
}

func addRow(rows *pgxmock.Rows, p domain.Payout) *pgxmock.Rows {
	return rows.AddRow(
		p.ID, p.AffiliateID, p.Amount, p.Status, p.PaymentMethod,
		p.TransactionID, p.ProcessedBy, p.ProcessedAt, p.CreatedAt,
	)
}

func pending(affiliateID uuid.UUID) domain.Payout {
	return domain.Payout{
		ID:            uuid.New(),
		AffiliateID:   affiliateID,
		Amount:        decimal.NewFromInt(300),
		Status:        domain.PayoutPending,
		PaymentMethod: "paypal",
		CreatedAt:     time.Now(),
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()
	p := pending(uuid.New())

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Payout saved",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
					INSERT INTO affiliate_payouts (id, affiliate_id, amount, status, payment_method)
					VALUES ($1, $2, $3, $4, $5)
					RETURNING created_at
				`)).
					WithArgs(p.ID, p.AffiliateID, p.Amount, p.Status, p.PaymentMethod).
					WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO affiliate_payouts")).
					WithArgs(p.ID, p.AffiliateID, p.Amount, p.Status, p.PaymentMethod).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			in := p
			result, err := repo.Create(context.Background(), &in)
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, now, result.CreatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := NewMock(t)
	p := pending(uuid.New())

	tests := []struct {
		name      string
		forUpdate bool
		mockSetup func()
		expectErr bool
		result    *domain.Payout
	}{
		{
			name: "Payout found",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("FROM affiliate_payouts WHERE id = $1")).
					WithArgs(p.ID).
					WillReturnRows(addRow(pgxmock.NewRows(columnNames), p))
			},
			result: &p,
		},
		{
			name:      "Locked payout found",
			forUpdate: true,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("FROM affiliate_payouts WHERE id = $1 FOR UPDATE")).
					WithArgs(p.ID).
					WillReturnRows(addRow(pgxmock.NewRows(columnNames), p))
			},
			result: &p,
		},
		{
			name: "Payout missing",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("FROM affiliate_payouts WHERE id = $1")).
					WithArgs(p.ID).
					WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta("FROM affiliate_payouts WHERE id = $1")).
					WithArgs(p.ID).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			var (
				result *domain.Payout
				err    error
			)
			if tt.forUpdate {
				result, err = repo.GetByIDForUpdate(context.Background(), p.ID)
			} else {
				result, err = repo.GetByID(context.Background(), p.ID)
			}
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Update(t *testing.T) {
	repo, mock := NewMock(t)
	admin := uuid.New()
	now := time.Now()
	txn := "txn-42"
	p := pending(uuid.New())
	p.Status = domain.PayoutPaid
	p.TransactionID = &txn
	p.ProcessedBy = &admin
	p.ProcessedAt = &now

	mock.ExpectExec(regexp.QuoteMeta("UPDATE affiliate_payouts SET status = $1, transaction_id = $2, processed_by = $3, processed_at = $4 WHERE id = $5")).
		WithArgs(p.Status, p.TransactionID, p.ProcessedBy, p.ProcessedAt, p.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE affiliate_payouts")).
		WithArgs(p.Status, p.TransactionID, p.ProcessedBy, p.ProcessedAt, p.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE affiliate_payouts")).
		WithArgs(p.Status, p.TransactionID, p.ProcessedBy, p.ProcessedAt, p.ID).
		WillReturnError(errors.New("database error"))

	assert.NoError(t, repo.Update(context.Background(), &p))
	assert.ErrorIs(t, repo.Update(context.Background(), &p), domain.ErrNotFound)
	assert.EqualError(t, repo.Update(context.Background(), &p), "database error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Listings(t *testing.T) {
	repo, mock := NewMock(t)
	affiliateID := uuid.New()
	first, second := pending(affiliateID), pending(affiliateID)

	mock.ExpectQuery(regexp.QuoteMeta("FROM affiliate_payouts WHERE affiliate_id = $1 ORDER BY created_at DESC")).
		WithArgs(affiliateID).
		WillReturnRows(addRow(addRow(pgxmock.NewRows(columnNames), first), second))
	mock.ExpectQuery(regexp.QuoteMeta("FROM affiliate_payouts WHERE ($1 = '' OR status = $1) ORDER BY created_at ASC")).
		WithArgs("pending").
		WillReturnRows(addRow(pgxmock.NewRows(columnNames), first))
	mock.ExpectQuery(regexp.QuoteMeta("FROM affiliate_payouts WHERE ($1 = '' OR status = $1)")).
		WithArgs("").
		WillReturnRows(pgxmock.NewRows(columnNames).AddRow(
			first.ID, first.AffiliateID, "bad", first.Status, first.PaymentMethod,
			first.TransactionID, first.ProcessedBy, first.ProcessedAt, first.CreatedAt,
		))

	mine, err := repo.ListByAffiliate(context.Background(), affiliateID)
	assert.NoError(t, err)
	assert.Equal(t, []domain.Payout{first, second}, mine)

	queue, err := repo.ListByStatus(context.Background(), domain.PayoutPending)
	assert.NoError(t, err)
	assert.Equal(t, []domain.Payout{first}, queue)

	_, err = repo.ListByStatus(context.Background(), "")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
