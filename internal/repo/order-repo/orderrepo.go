package orderrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

// Claim reserves the order number for processing. It reports false when the
// order was already claimed, which makes redelivered completions no-ops.
func (r *Repository) Claim(ctx context.Context, orderNumber string) (bool, error) {
	query := `
		INSERT INTO order_completions (order_number)
		VALUES ($1)
		ON CONFLICT (order_number) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, orderNumber)
	if err != nil {
		zap.L().Error("can't claim order", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) Complete(ctx context.Context, c *domain.OrderCompletion) error {
	query := `
		UPDATE order_completions
		SET affiliate_id = $1, click_id = $2, source = $3, without_click = $4,
			commission = $5, bonus = $6, coupon_id = $7, discount = $8
		WHERE order_number = $9
	`
	tag, err := r.db.Exec(ctx, query,
		c.AffiliateID, c.ClickID, c.Source, c.WithoutClick,
		c.Commission, c.Bonus, c.CouponID, c.Discount, c.OrderNumber,
	)
	if err != nil {
		zap.L().Error("failed to save order completion", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, orderNumber string) (*domain.OrderCompletion, error) {
	query := `
		SELECT order_number, affiliate_id, click_id, source, without_click,
			commission, bonus, coupon_id, discount, created_at
		FROM order_completions
		WHERE order_number = $1
	`
	var c domain.OrderCompletion
	err := r.db.QueryRow(ctx, query, orderNumber).Scan(
		&c.OrderNumber, &c.AffiliateID, &c.ClickID, &c.Source, &c.WithoutClick,
		&c.Commission, &c.Bonus, &c.CouponID, &c.Discount, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find order completion", zap.Error(err))
		return nil, err
	}
	return &c, nil
}

// ClaimRefund reserves the refund of a completed order; false means it was already refunded.
func (r *Repository) ClaimRefund(ctx context.Context, orderNumber string) (bool, error) {
	query := `
		INSERT INTO order_refunds (order_number)
		VALUES ($1)
		ON CONFLICT (order_number) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, orderNumber)
	if err != nil {
		zap.L().Error("can't claim order refund", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
