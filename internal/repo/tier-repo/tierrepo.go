package tierrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
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

func (r *Repository) List(ctx context.Context) ([]domain.Tier, error) {
	query := `
		SELECT id, name, min_earnings, commission_rate, bonus_percentage, sort_order, created_at
		FROM affiliate_tiers
		ORDER BY min_earnings ASC, sort_order ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("can't list tiers", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var tiers []domain.Tier
	for rows.Next() {
		var t domain.Tier
		err := rows.Scan(&t.ID, &t.Name, &t.MinEarnings, &t.CommissionRate, &t.BonusPercentage, &t.SortOrder, &t.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan tier row", zap.Error(err))
			return nil, err
		}
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tier, error) {
	query := `
		SELECT id, name, min_earnings, commission_rate, bonus_percentage, sort_order, created_at
		FROM affiliate_tiers
		WHERE id = $1
	`
	var t domain.Tier
	err := r.db.QueryRow(ctx, query, id).
		Scan(&t.ID, &t.Name, &t.MinEarnings, &t.CommissionRate, &t.BonusPercentage, &t.SortOrder, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find tier", zap.Error(err))
		return nil, err
	}
	return &t, nil
}

// Lock blocks concurrent tier writers until the surrounding transaction ends,
// so the monotonicity check sees a stable table.
func (r *Repository) Lock(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `LOCK TABLE affiliate_tiers IN SHARE ROW EXCLUSIVE MODE`)
	if err != nil {
		zap.L().Error("can't lock tiers", zap.Error(err))
	}
	return err
}

func (r *Repository) Create(ctx context.Context, t *domain.Tier) (*domain.Tier, error) {
	query := `
		INSERT INTO affiliate_tiers (id, name, min_earnings, commission_rate, bonus_percentage, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, t.ID, t.Name, t.MinEarnings, t.CommissionRate, t.BonusPercentage, t.SortOrder).
		Scan(&t.CreatedAt)
	if err != nil {
		zap.L().Error("can't save tier", zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (r *Repository) Update(ctx context.Context, t *domain.Tier) error {
	query := `
		UPDATE affiliate_tiers
		SET name = $1, min_earnings = $2, commission_rate = $3, bonus_percentage = $4, sort_order = $5
		WHERE id = $6
	`
	tag, err := r.db.Exec(ctx, query, t.Name, t.MinEarnings, t.CommissionRate, t.BonusPercentage, t.SortOrder, t.ID)
	if err != nil {
		zap.L().Error("can't update tier", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the tier; affiliates pointing at it get a NULL tier_id via the foreign key.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM affiliate_tiers WHERE id = $1`, id)
	if err != nil {
		zap.L().Error("can't delete tier", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
