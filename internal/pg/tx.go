package pg

//go:generate mockgen -source=tx.go -destination=mock_tx.go -package=pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/GlebRadaev/affiliator/internal/domain"
)

const (
	maxAttempts  = 3
	retryBackoff = 25 * time.Millisecond
)

// SQLSTATE codes that mean "someone else holds what you need, try again".
var conflictCodes = map[string]struct{}{
	"40001": {}, // serialization_failure
	"40P01": {}, // deadlock_detected
	"55P03": {}, // lock_not_available
}

type TransactionalFn func(ctx context.Context) error

type TXManager interface {
	Begin(ctx context.Context, fn TransactionalFn) error
}

type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type txManager struct {
	pool    Beginner
	backoff func() retry.Backoff
}

func NewTXManager(pool Beginner) *txManager {
	return &txManager{
		pool: pool,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(maxAttempts-1, retry.NewExponential(retryBackoff))
		},
	}
}

// Begin runs fn inside a transaction. A call made while a transaction is
// already in ctx joins it; only the outermost call commits and retries.
func (m *txManager) Begin(ctx context.Context, fn TransactionalFn) error {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	attempt := 0
	err := retry.Do(ctx, m.backoff(), func(ctx context.Context) error {
		attempt++
		err := m.run(ctx, fn)
		if IsConflict(err) {
			zap.L().Warn("transaction conflict, retrying", zap.Int("attempt", attempt), zap.Error(err))
			return retry.RetryableError(err)
		}
		return err
	})
	if IsConflict(err) && !errors.Is(err, domain.ErrConcurrencyConflict) {
		return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
	}
	return err
}

func (m *txManager) run(ctx context.Context, fn TransactionalFn) (err error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				zap.L().Error("rollback failed", zap.Error(rbErr))
			}
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrConcurrencyConflict) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := conflictCodes[pgErr.Code]
		return ok
	}
	return false
}

// IsUniqueViolation reports a 23505 error, optionally for a given constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
