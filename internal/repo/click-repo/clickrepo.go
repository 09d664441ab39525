package clickrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/pg"
)

const columns = `id, affiliate_id, ip_address, converted, order_number, created_at, converted_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scan(row pgx.Row) (*domain.Click, error) {
	var c domain.Click
	err := row.Scan(&c.ID, &c.AffiliateID, &c.IPAddress, &c.Converted, &c.OrderNumber, &c.CreatedAt, &c.ConvertedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) findOne(ctx context.Context, query string, args ...any) (*domain.Click, error) {
	c, err := scan(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find click", zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (r *Repository) Create(ctx context.Context, c *domain.Click) (*domain.Click, error) {
	query := `
		INSERT INTO affiliate_clicks (id, affiliate_id, ip_address)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	if err := r.db.QueryRow(ctx, query, c.ID, c.AffiliateID, c.IPAddress).Scan(&c.CreatedAt); err != nil {
		zap.L().Error("can't save click", zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Click, error) {
	return r.findOne(ctx, `SELECT `+columns+` FROM affiliate_clicks WHERE id = $1`, id)
}

func (r *Repository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Click, error) {
	return r.findOne(ctx, `SELECT `+columns+` FROM affiliate_clicks WHERE id = $1 FOR UPDATE`, id)
}

// FindLatestUnconverted picks the newest unconverted click of the affiliate
// created at or after since. Rows locked by a concurrent conversion are skipped.
func (r *Repository) FindLatestUnconverted(ctx context.Context, affiliateID uuid.UUID, since time.Time) (*domain.Click, error) {
	query := `
		SELECT ` + columns + `
		FROM affiliate_clicks
		WHERE affiliate_id = $1 AND converted = FALSE AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`
	return r.findOne(ctx, query, affiliateID, since)
}

// MarkConverted flips the click to converted once. It reports false when the
// click was already converted.
func (r *Repository) MarkConverted(ctx context.Context, id uuid.UUID, orderNumber string, at time.Time) (bool, error) {
	query := `
		UPDATE affiliate_clicks
		SET converted = TRUE, order_number = $1, converted_at = $2
		WHERE id = $3 AND converted = FALSE
	`
	tag, err := r.db.Exec(ctx, query, orderNumber, at, id)
	if err != nil {
		zap.L().Error("can't mark click converted", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) ListByAffiliate(ctx context.Context, affiliateID uuid.UUID, limit int) ([]domain.Click, error) {
	query := `
		SELECT ` + columns + `
		FROM affiliate_clicks
		WHERE affiliate_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, affiliateID, limit)
	if err != nil {
		zap.L().Error("can't list clicks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var clicks []domain.Click
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			zap.L().Error("can't scan click row", zap.Error(err))
			return nil, err
		}
		clicks = append(clicks, *c)
	}
	return clicks, rows.Err()
}
