package confirm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/GlebRadaev/affiliator/internal/domain"
)

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

const holdPeriod = 14 * 24 * time.Hour

func NewMock(t *testing.T) (*Service, *MockLedger) {
	ctrl := gomock.NewController(t)
	ledger := NewMockLedger(ctrl)
	service := New(ledger, nil, holdPeriod, time.Hour)
	service.now = func() time.Time { return fixedNow }
	t.Cleanup(service.workerPool.Close)
	return service, ledger
}

func TestService_Start(t *testing.T) {
	service, _ := NewMock(t)

	ctx, cancel := context.WithCancel(context.Background())
	service.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()
}

func TestService_ConfirmMatured(t *testing.T) {
	first, second, third := uuid.New(), uuid.New(), uuid.New()
	cutoff := fixedNow.Add(-holdPeriod)

	tests := []struct {
		name        string
		prepareMock func(ledger *MockLedger)
		expected    int
	}{
		{
			name: "confirms every matured entry",
			prepareMock: func(ledger *MockLedger) {
				ledger.EXPECT().FindMatured(gomock.Any(), cutoff, defaultBatch).Return([]domain.LedgerEntry{
					{ID: first, Status: domain.EntryPending},
					{ID: second, Status: domain.EntryPending},
				}, nil)
				ledger.EXPECT().ConfirmEntry(gomock.Any(), first).Return(&domain.LedgerEntry{ID: first, Status: domain.EntryConfirmed}, nil)
				ledger.EXPECT().ConfirmEntry(gomock.Any(), second).Return(&domain.LedgerEntry{ID: second, Status: domain.EntryConfirmed}, nil)
			},
			expected: 2,
		},
		{
			name: "skips entries paid in the meantime and survives failures",
			prepareMock: func(ledger *MockLedger) {
				ledger.EXPECT().FindMatured(gomock.Any(), cutoff, defaultBatch).Return([]domain.LedgerEntry{
					{ID: first, Status: domain.EntryPending},
					{ID: second, Status: domain.EntryPending},
					{ID: third, Status: domain.EntryPending},
				}, nil)
				ledger.EXPECT().ConfirmEntry(gomock.Any(), first).Return(&domain.LedgerEntry{ID: first, Status: domain.EntryPaid}, nil)
				ledger.EXPECT().ConfirmEntry(gomock.Any(), second).Return(nil, errors.New("db down"))
				ledger.EXPECT().ConfirmEntry(gomock.Any(), third).Return(&domain.LedgerEntry{ID: third, Status: domain.EntryConfirmed}, nil)
			},
			expected: 1,
		},
		{
			name: "fetch error",
			prepareMock: func(ledger *MockLedger) {
				ledger.EXPECT().FindMatured(gomock.Any(), cutoff, defaultBatch).Return(nil, errors.New("db down"))
			},
			expected: 0,
		},
		{
			name: "nothing matured",
			prepareMock: func(ledger *MockLedger) {
				ledger.EXPECT().FindMatured(gomock.Any(), cutoff, defaultBatch).Return(nil, nil)
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, ledger := NewMock(t)
			tt.prepareMock(ledger)

			assert.Equal(t, tt.expected, service.ConfirmMatured(context.Background()))
		})
	}
}

func TestService_ConfirmMatured_PoolRejectsTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := NewMockLedger(ctrl)
	workerPool := NewMockWorkerPoolI(ctrl)
	id := uuid.New()

	ledger.EXPECT().FindMatured(gomock.Any(), gomock.Any(), gomock.Any()).Return([]domain.LedgerEntry{{ID: id}}, nil)
	workerPool.EXPECT().AddTask(gomock.Any(), gomock.Any()).Return(context.Canceled)

	service := &Service{
		ledger:     ledger,
		workerPool: workerPool,
		holdPeriod: holdPeriod,
		limit:      1,
		now:        func() time.Time { return fixedNow },
	}

	assert.Equal(t, 0, service.ConfirmMatured(context.Background()))
	_, inFlight := service.inFlight.Load(id)
	assert.False(t, inFlight)
}

func TestService_ConfirmMatured_SkipsInFlight(t *testing.T) {
	service, ledger := NewMock(t)
	id := uuid.New()
	service.inFlight.Store(id, struct{}{})

	ledger.EXPECT().FindMatured(gomock.Any(), gomock.Any(), gomock.Any()).Return([]domain.LedgerEntry{{ID: id}}, nil)

	assert.Equal(t, 0, service.ConfirmMatured(context.Background()))
}
