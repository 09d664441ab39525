package ledgerrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/pg"
)

const columns = `id, seq, affiliate_id, order_number, payout_id, type, amount, balance, status, created_at, confirmed_at, paid_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scan(row pgx.Row) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := row.Scan(
		&e.ID, &e.Seq, &e.AffiliateID, &e.OrderNumber, &e.PayoutID, &e.Type,
		&e.Amount, &e.Balance, &e.Status, &e.CreatedAt, &e.ConfirmedAt, &e.PaidAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) findOne(ctx context.Context, query string, args ...any) (*domain.LedgerEntry, error) {
	e, err := scan(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find ledger entry", zap.Error(err))
		return nil, err
	}
	return e, nil
}

func (r *Repository) findMany(ctx context.Context, query string, args ...any) ([]domain.LedgerEntry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't get ledger entries", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			zap.L().Error("can't scan ledger entry row", zap.Error(err))
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// LastBalance returns the running balance of the affiliate's newest entry,
// zero for an empty ledger. Callers must hold the affiliate lock.
func (r *Repository) LastBalance(ctx context.Context, affiliateID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT balance
		FROM ledger_entries
		WHERE affiliate_id = $1
		ORDER BY seq DESC
		LIMIT 1
	`
	var balance decimal.Decimal
	err := r.db.QueryRow(ctx, query, affiliateID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		zap.L().Error("can't get last ledger balance", zap.Error(err))
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *Repository) Insert(ctx context.Context, e *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	query := `
		INSERT INTO ledger_entries (id, affiliate_id, order_number, payout_id, type, amount, balance, status, confirmed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING seq, created_at
	`
	err := r.db.QueryRow(ctx, query,
		e.ID, e.AffiliateID, e.OrderNumber, e.PayoutID, e.Type, e.Amount, e.Balance, e.Status, e.ConfirmedAt,
	).Scan(&e.Seq, &e.CreatedAt)
	if err != nil {
		if pg.IsUniqueViolation(err, "") {
			return nil, domain.ErrAlreadyExists
		}
		zap.L().Error("can't save ledger entry", zap.Error(err))
		return nil, err
	}
	return e, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error) {
	return r.findOne(ctx, `SELECT `+columns+` FROM ledger_entries WHERE id = $1`, id)
}

// UpdateStatus moves the entry to status only while it is still in one of
// from. It reports whether a row changed; amount and balance are never touched.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from []domain.EntryStatus, to domain.EntryStatus, at time.Time) (bool, error) {
	query := `
		UPDATE ledger_entries
		SET status = $1,
			confirmed_at = CASE WHEN $1 = 'confirmed' THEN $2 ELSE confirmed_at END,
			paid_at = CASE WHEN $1 = 'paid' THEN $2 ELSE paid_at END
		WHERE id = $3 AND status = ANY($4)
	`
	statuses := make([]string, len(from))
	for i, s := range from {
		statuses[i] = string(s)
	}
	tag, err := r.db.Exec(ctx, query, string(to), at, id, statuses)
	if err != nil {
		zap.L().Error("can't update ledger entry status", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// AvailableBalance sums what a payout may draw against: every debit, and
// credits once they left pending.
func (r *Repository) AvailableBalance(ctx context.Context, affiliateID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_entries
		WHERE affiliate_id = $1 AND (amount < 0 OR status <> 'pending')
	`
	var balance decimal.Decimal
	if err := r.db.QueryRow(ctx, query, affiliateID).Scan(&balance); err != nil {
		zap.L().Error("can't get available balance", zap.Error(err))
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *Repository) ListByAffiliate(ctx context.Context, affiliateID uuid.UUID, limit int) ([]domain.LedgerEntry, error) {
	return r.findMany(ctx,
		`SELECT `+columns+` FROM ledger_entries WHERE affiliate_id = $1 ORDER BY seq DESC LIMIT $2`,
		affiliateID, limit)
}

func (r *Repository) FindByPayout(ctx context.Context, payoutID uuid.UUID, typ domain.EntryType) (*domain.LedgerEntry, error) {
	return r.findOne(ctx,
		`SELECT `+columns+` FROM ledger_entries WHERE payout_id = $1 AND type = $2`,
		payoutID, typ)
}

func (r *Repository) FindByOrder(ctx context.Context, orderNumber string) ([]domain.LedgerEntry, error) {
	return r.findMany(ctx,
		`SELECT `+columns+` FROM ledger_entries WHERE order_number = $1 ORDER BY seq ASC`,
		orderNumber)
}

// FindMaturedPending returns pending credits created before the cutoff, oldest first.
func (r *Repository) FindMaturedPending(ctx context.Context, before time.Time, limit int) ([]domain.LedgerEntry, error) {
	return r.findMany(ctx,
		`SELECT `+columns+` FROM ledger_entries WHERE status = 'pending' AND amount > 0 AND created_at < $1 ORDER BY created_at ASC LIMIT $2`,
		before, limit)
}

// Totals aggregates the affiliate's ledger into the figures the earnings counters must match.
func (r *Repository) Totals(ctx context.Context, affiliateID uuid.UUID) (domain.LedgerTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type IN ('sale_commission', 'bonus', 'adjustment')), 0),
			COALESCE(SUM(-amount) FILTER (WHERE type = 'payout_debit' AND status = 'paid'), 0),
			COALESCE(SUM(amount), 0),
			COUNT(*)
		FROM ledger_entries
		WHERE affiliate_id = $1
	`
	var t domain.LedgerTotals
	if err := r.db.QueryRow(ctx, query, affiliateID).Scan(&t.Earned, &t.Paid, &t.Balance, &t.Entries); err != nil {
		zap.L().Error("can't get ledger totals", zap.Error(err))
		return domain.LedgerTotals{}, err
	}
	return t, nil
}
