package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/GlebRadaev/affiliator/internal/domain"
)

type ClickRequestDTO struct {
	Code string `json:"code"`
}

type ClickResponseDTO struct {
	ID          uuid.UUID  `json:"id"`
	AffiliateID uuid.UUID  `json:"affiliate_id"`
	Converted   bool       `json:"converted"`
	OrderNumber *string    `json:"order_number,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ConvertedAt *time.Time `json:"converted_at,omitempty"`
}

func NewClickResponse(c *domain.Click) ClickResponseDTO {
	return ClickResponseDTO{
		ID:          c.ID,
		AffiliateID: c.AffiliateID,
		Converted:   c.Converted,
		OrderNumber: c.OrderNumber,
		CreatedAt:   c.CreatedAt,
		ConvertedAt: c.ConvertedAt,
	}
}

func NewClickList(clicks []domain.Click) []ClickResponseDTO {
	resp := make([]ClickResponseDTO, 0, len(clicks))
	for i := range clicks {
		resp = append(resp, NewClickResponse(&clicks[i]))
	}
	return resp
}
