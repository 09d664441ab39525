package events

//go:generate mockgen -source=events.go -destination=mock_events.go -package=events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Type string

const (
	ClickRecorded      Type = "click.recorded"
	OrderAttributed    Type = "order.attributed"
	CommissionCredited Type = "commission.credited"
	CommissionReversed Type = "commission.reversed"
	PayoutRequested    Type = "payout.requested"
	PayoutApproved     Type = "payout.approved"
	PayoutPaid         Type = "payout.paid"
	PayoutRejected     Type = "payout.rejected"
)

type Event struct {
	Type        Type            `json:"type"`
	AffiliateID uuid.UUID       `json:"affiliate_id"`
	OrderNumber string          `json:"order_number,omitempty"`
	ClickID     *uuid.UUID      `json:"click_id,omitempty"`
	PayoutID    *uuid.UUID      `json:"payout_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, evs ...Event) error
}

// Emit publishes evs after the state they describe has been committed.
// Delivery is best effort: failures are logged, never returned.
func Emit(ctx context.Context, p Publisher, evs ...Event) {
	if p == nil || len(evs) == 0 {
		return
	}
	if err := p.Publish(ctx, evs...); err != nil {
		zap.L().Warn("can't publish events", zap.Int("count", len(evs)), zap.String("type", string(evs[0].Type)), zap.Error(err))
	}
}

type Noop struct{}

func (Noop) Publish(context.Context, ...Event) error { return nil }
