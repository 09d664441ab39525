package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/affiliator/internal/domain"
)

type AdjustmentRequestDTO struct {
	AffiliateID uuid.UUID       `json:"affiliate_id"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
	OrderNumber *string         `json:"order_number,omitempty"`
}

type LedgerEntryResponseDTO struct {
	ID          uuid.UUID       `json:"id"`
	AffiliateID uuid.UUID       `json:"affiliate_id"`
	OrderNumber *string         `json:"order_number,omitempty"`
	PayoutID    *uuid.UUID      `json:"payout_id,omitempty"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string"`
	Balance     decimal.Decimal `json:"balance" swaggertype:"string"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	ConfirmedAt *time.Time      `json:"confirmed_at,omitempty"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
}

func NewLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponseDTO {
	return LedgerEntryResponseDTO{
		ID:          e.ID,
		AffiliateID: e.AffiliateID,
		OrderNumber: e.OrderNumber,
		PayoutID:    e.PayoutID,
		Type:        string(e.Type),
		Amount:      e.Amount,
		Balance:     e.Balance,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		ConfirmedAt: e.ConfirmedAt,
		PaidAt:      e.PaidAt,
	}
}

func NewLedgerList(entries []domain.LedgerEntry) []LedgerEntryResponseDTO {
	resp := make([]LedgerEntryResponseDTO, 0, len(entries))
	for i := range entries {
		resp = append(resp, NewLedgerEntryResponse(&entries[i]))
	}
	return resp
}
