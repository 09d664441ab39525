package confirm

//go:generate mockgen -source=confirm.go -destination=mock_confirm.go -package=confirm

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/metrics"
)

const (
	defaultBatch   = 500
	defaultWorkers = 10
)

type Ledger interface {
	FindMatured(ctx context.Context, before time.Time, limit int) ([]domain.LedgerEntry, error)
	ConfirmEntry(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error)
}

// Service promotes pending credits to confirmed once they outlive the hold
// period, which is the window in which an order can still be refunded.
type Service struct {
	ledger         Ledger
	metrics        *metrics.Metrics
	workerPool     WorkerPoolI
	holdPeriod     time.Duration
	updateInterval time.Duration
	limit          int
	inFlight       sync.Map
	now            func() time.Time
}

func New(ledger Ledger, m *metrics.Metrics, holdPeriod, updateInterval time.Duration) *Service {
	return &Service{
		ledger:         ledger,
		metrics:        m,
		workerPool:     NewWorkerPool(defaultWorkers),
		holdPeriod:     holdPeriod,
		updateInterval: updateInterval,
		limit:          defaultBatch,
		now:            time.Now,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Confirmation worker started",
		zap.Duration("hold_period", s.holdPeriod), zap.Duration("interval", s.updateInterval))
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()
	defer s.workerPool.Close()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping confirmation worker")
			return
		case <-ticker.C:
			s.ConfirmMatured(ctx)
		}
	}
}

// ConfirmMatured runs one pass and reports how many entries it confirmed.
func (s *Service) ConfirmMatured(ctx context.Context) int {
	entries, err := s.ledger.FindMatured(ctx, s.now().Add(-s.holdPeriod), s.limit)
	if err != nil {
		zap.L().Error("Failed to fetch matured ledger entries", zap.Error(err))
		return 0
	}

	var (
		confirmed atomic.Int64
		done      sync.WaitGroup
		g         errgroup.Group
	)
	for _, entry := range entries {
		entry := entry

		if _, loaded := s.inFlight.LoadOrStore(entry.ID, struct{}{}); loaded {
			continue
		}

		done.Add(1)
		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer done.Done()
				defer s.inFlight.Delete(entry.ID)
				return s.confirm(ctx, entry, &confirmed)
			})
			if err != nil {
				done.Done()
				s.inFlight.Delete(entry.ID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error scheduling ledger confirmations", zap.Error(err))
	}
	done.Wait()

	n := int(confirmed.Load())
	s.metrics.EntriesConfirmed(n)
	if n > 0 {
		zap.L().Info("Ledger entries confirmed", zap.Int("count", n))
	}
	return n
}

func (s *Service) confirm(ctx context.Context, entry domain.LedgerEntry, confirmed *atomic.Int64) error {
	updated, err := s.ledger.ConfirmEntry(ctx, entry.ID)
	if err != nil {
		return err
	}
	if updated != nil && updated.Status == domain.EntryConfirmed {
		confirmed.Add(1)
	}
	return nil
}
