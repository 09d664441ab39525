package couponrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/pg"
)

const columns = `id, code, discount_type, discount_value, min_purchase, max_uses, used_count,
	starts_at, expires_at, is_active, affiliate_id, created_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scan(row pgx.Row) (*domain.Coupon, error) {
	var c domain.Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.DiscountType, &c.DiscountValue, &c.MinPurchase, &c.MaxUses, &c.UsedCount,
		&c.StartsAt, &c.ExpiresAt, &c.IsActive, &c.AffiliateID, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) findOne(ctx context.Context, query string, arg any) (*domain.Coupon, error) {
	c, err := scan(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find coupon", zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (r *Repository) findMany(ctx context.Context, query string, args ...any) ([]domain.Coupon, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get coupons", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var coupons []domain.Coupon
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			zap.L().Error("can't scan coupon row", zap.Error(err))
			return nil, err
		}
		coupons = append(coupons, *c)
	}
	return coupons, rows.Err()
}

func (r *Repository) Create(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error) {
	query := `
		INSERT INTO coupons (id, code, discount_type, discount_value, min_purchase, max_uses,
			starts_at, expires_at, is_active, affiliate_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		c.ID, c.Code, c.DiscountType, c.DiscountValue, c.MinPurchase, c.MaxUses,
		c.StartsAt, c.ExpiresAt, c.IsActive, c.AffiliateID,
	).Scan(&c.CreatedAt)
	if err != nil {
		if pg.IsUniqueViolation(err, "coupons_code_key") {
			return nil, domain.ErrAlreadyExists
		}
		zap.L().Error("can't save coupon", zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	return r.findOne(ctx, `SELECT `+columns+` FROM coupons WHERE code = $1`, code)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Coupon, error) {
	return r.findOne(ctx, `SELECT `+columns+` FROM coupons WHERE id = $1`, id)
}

// IncrementUsage takes one use of the coupon if it is active and under its cap.
// It reports false when the increment was refused.
func (r *Repository) IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE coupons
		SET used_count = used_count + 1
		WHERE id = $1 AND is_active AND (max_uses IS NULL OR used_count < max_uses)
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		zap.L().Error("can't increment coupon usage", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) CreateRedemption(ctx context.Context, couponID uuid.UUID, orderNumber string) error {
	query := `
		INSERT INTO coupon_redemptions (id, coupon_id, order_number)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(ctx, query, uuid.New(), couponID, orderNumber)
	if err != nil {
		if pg.IsUniqueViolation(err, "coupon_redemptions_order_number_key") {
			return domain.ErrAlreadyExists
		}
		zap.L().Error("can't save coupon redemption", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Coupon, error) {
	return r.findMany(ctx, `SELECT `+columns+` FROM coupons ORDER BY created_at DESC`)
}

func (r *Repository) ListByAffiliate(ctx context.Context, affiliateID uuid.UUID) ([]domain.Coupon, error) {
	return r.findMany(ctx, `SELECT `+columns+` FROM coupons WHERE affiliate_id = $1 ORDER BY created_at DESC`, affiliateID)
}

func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE coupons SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		zap.L().Error("can't update coupon", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
