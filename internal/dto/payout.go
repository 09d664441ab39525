package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/affiliator/internal/domain"
)

type PayoutRequestDTO struct {
	Amount        decimal.Decimal `json:"amount" swaggertype:"string"`
	PaymentMethod string          `json:"payment_method,omitempty"`
}

type SettleRequestDTO struct {
	TransactionID string `json:"transaction_id"`
}

type PayoutResponseDTO struct {
	ID            uuid.UUID       `json:"id"`
	AffiliateID   uuid.UUID       `json:"affiliate_id"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"string"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	ProcessedBy   *uuid.UUID      `json:"processed_by,omitempty"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewPayoutResponse(p *domain.Payout) PayoutResponseDTO {
	return PayoutResponseDTO{
		ID:            p.ID,
		AffiliateID:   p.AffiliateID,
		Amount:        p.Amount,
		Status:        string(p.Status),
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
		ProcessedBy:   p.ProcessedBy,
		ProcessedAt:   p.ProcessedAt,
		CreatedAt:     p.CreatedAt,
	}
}

func NewPayoutList(payouts []domain.Payout) []PayoutResponseDTO {
	resp := make([]PayoutResponseDTO, 0, len(payouts))
	for i := range payouts {
		resp = append(resp, NewPayoutResponse(&payouts[i]))
	}
	return resp
}
