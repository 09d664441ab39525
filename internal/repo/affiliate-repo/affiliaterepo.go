package affiliaterepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/pg"
)

const columns = `id, user_id, code, tier_id, commission, total_earnings, pending_earnings, paid_earnings,
	total_clicks, total_conversions, status, is_active, payment_method, created_at, updated_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scan(row pgx.Row) (*domain.Affiliate, error) {
	var a domain.Affiliate
	err := row.Scan(
		&a.ID, &a.UserID, &a.Code, &a.TierID, &a.Commission,
		&a.TotalEarnings, &a.PendingEarnings, &a.PaidEarnings,
		&a.TotalClicks, &a.TotalConversions, &a.Status, &a.IsActive,
		&a.PaymentMethod, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) findOne(ctx context.Context, query string, arg any) (*domain.Affiliate, error) {
	a, err := scan(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find affiliate", zap.Error(err))
		return nil, err
	}
	return a, nil
}

func (r *Repository) Create(ctx context.Context, a *domain.Affiliate) (*domain.Affiliate, error) {
	query := `
		INSERT INTO affiliates (id, user_id, code, commission, status, is_active, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, a.ID, a.UserID, a.Code, a.Commission, a.Status, a.IsActive, a.PaymentMethod).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if pg.IsUniqueViolation(err, "") {
			return nil, domain.ErrAlreadyExists
		}
		zap.L().Error("can't save affiliate", zap.Error(err))
		return nil, err
	}
	return a, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Affiliate, error) {
	return r.findOne(ctx, `SELECT `+columns+` FROM affiliates WHERE id = $1`, id)
}

// GetByIDForUpdate locks the affiliate row until the surrounding transaction
// ends. Ledger appends and payout reservations serialize on this lock.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Affiliate, error) {
	return r.findOne(ctx, `SELECT `+columns+` FROM affiliates WHERE id = $1 FOR UPDATE`, id)
}

func (r *Repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Affiliate, error) {
	return r.findOne(ctx, `SELECT `+columns+` FROM affiliates WHERE user_id = $1`, userID)
}

func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Affiliate, error) {
	return r.findOne(ctx, `SELECT `+columns+` FROM affiliates WHERE code = $1`, code)
}

// List returns affiliates in the given status, or all of them for an empty status.
func (r *Repository) List(ctx context.Context, status domain.AffiliateStatus) ([]domain.Affiliate, error) {
	query := `SELECT ` + columns + ` FROM affiliates WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, string(status))
	if err != nil {
		zap.L().Error("can't list affiliates", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var affiliates []domain.Affiliate
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			zap.L().Error("can't scan affiliate row", zap.Error(err))
			return nil, err
		}
		affiliates = append(affiliates, *a)
	}
	return affiliates, rows.Err()
}

func (r *Repository) exec(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't "+op, zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AffiliateStatus) error {
	return r.exec(ctx, "update affiliate status",
		`UPDATE affiliates SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
}

func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.exec(ctx, "update affiliate activity",
		`UPDATE affiliates SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
}

func (r *Repository) SetCommission(ctx context.Context, id uuid.UUID, commission decimal.NullDecimal) error {
	return r.exec(ctx, "update affiliate commission",
		`UPDATE affiliates SET commission = $1, updated_at = NOW() WHERE id = $2`, commission, id)
}

func (r *Repository) SetTier(ctx context.Context, id uuid.UUID, tierID *uuid.UUID) error {
	return r.exec(ctx, "update affiliate tier",
		`UPDATE affiliates SET tier_id = $1, updated_at = NOW() WHERE id = $2`, tierID, id)
}

func (r *Repository) IncrementClicks(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, "increment affiliate clicks",
		`UPDATE affiliates SET total_clicks = total_clicks + 1 WHERE id = $1`, id)
}

func (r *Repository) IncrementConversions(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, "increment affiliate conversions",
		`UPDATE affiliates SET total_conversions = total_conversions + 1 WHERE id = $1`, id)
}

// ApplyEarnings moves the three earnings counters by the given deltas in one statement.
func (r *Repository) ApplyEarnings(ctx context.Context, id uuid.UUID, total, pending, paid decimal.Decimal) error {
	return r.exec(ctx, "apply affiliate earnings", `
		UPDATE affiliates
		SET total_earnings = total_earnings + $1,
			pending_earnings = pending_earnings + $2,
			paid_earnings = paid_earnings + $3,
			updated_at = NOW()
		WHERE id = $4
	`, total, pending, paid, id)
}
