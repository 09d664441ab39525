package payoutrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/pg"
)

const columns = `id, affiliate_id, amount, status, payment_method, transaction_id, processed_by, processed_at, created_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scan(row pgx.Row) (*domain.Payout, error) {
	var p domain.Payout
	err := row.Scan(
		&p.ID, &p.AffiliateID, &p.Amount, &p.Status, &p.PaymentMethod,
		&p.TransactionID, &p.ProcessedBy, &p.ProcessedAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) findOne(ctx context.Context, query string, id uuid.UUID) (*domain.Payout, error) {
	p, err := scan(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find payout", zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *Repository) findMany(ctx context.Context, query string, args ...any) ([]domain.Payout, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get payouts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payouts []domain.Payout
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			zap.L().Error("can't scan payout row", zap.Error(err))
			return nil, err
		}
		payouts = append(payouts, *p)
	}
	return payouts, rows.Err()
}

func (r *Repository) Create(ctx context.Context, p *domain.Payout) (*domain.Payout, error) {
	query := `
		INSERT INTO affiliate_payouts (id, affiliate_id, amount, status, payment_method)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, p.ID, p.AffiliateID, p.Amount, p.Status, p.PaymentMethod).Scan(&p.CreatedAt)
	if err != nil {
		zap.L().Error("can't save payout", zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payout, error) {
	return r.findOne(ctx, `SELECT `+columns+` FROM affiliate_payouts WHERE id = $1`, id)
}

func (r *Repository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Payout, error) {
	return r.findOne(ctx, `SELECT `+columns+` FROM affiliate_payouts WHERE id = $1 FOR UPDATE`, id)
}

// Update persists the workflow fields; amount and owner are fixed at creation.
func (r *Repository) Update(ctx context.Context, p *domain.Payout) error {
	query := `
		UPDATE affiliate_payouts
		SET status = $1, transaction_id = $2, processed_by = $3, processed_at = $4
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query, p.Status, p.TransactionID, p.ProcessedBy, p.ProcessedAt, p.ID)
	if err != nil {
		zap.L().Error("failed to update payout", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) ListByAffiliate(ctx context.Context, affiliateID uuid.UUID) ([]domain.Payout, error) {
	return r.findMany(ctx,
		`SELECT `+columns+` FROM affiliate_payouts WHERE affiliate_id = $1 ORDER BY created_at DESC`,
		affiliateID)
}

// ListByStatus returns payouts oldest first so admins work the queue in order.
// An empty status lists everything.
func (r *Repository) ListByStatus(ctx context.Context, status domain.PayoutStatus) ([]domain.Payout, error) {
	return r.findMany(ctx,
		`SELECT `+columns+` FROM affiliate_payouts WHERE ($1 = '' OR status = $1) ORDER BY created_at ASC`,
		string(status))
}
