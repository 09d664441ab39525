package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/affiliator/internal/domain"
)

type TierRequestDTO struct {
	Name            string          `json:"name"`
	MinEarnings     decimal.Decimal `json:"min_earnings" swaggertype:"string"`
	CommissionRate  decimal.Decimal `json:"commission_rate" swaggertype:"string"`
	BonusPercentage decimal.Decimal `json:"bonus_percentage" swaggertype:"string"`
	SortOrder       int             `json:"sort_order"`
}

func (r TierRequestDTO) ToDomain() *domain.Tier {
	return &domain.Tier{
		Name:            r.Name,
		MinEarnings:     r.MinEarnings,
		CommissionRate:  r.CommissionRate,
		BonusPercentage: r.BonusPercentage,
		SortOrder:       r.SortOrder,
	}
}

type TierResponseDTO struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	MinEarnings     decimal.Decimal `json:"min_earnings" swaggertype:"string"`
	CommissionRate  decimal.Decimal `json:"commission_rate" swaggertype:"string"`
	BonusPercentage decimal.Decimal `json:"bonus_percentage" swaggertype:"string"`
	SortOrder       int             `json:"sort_order"`
	CreatedAt       time.Time       `json:"created_at"`
}

func NewTierResponse(t *domain.Tier) TierResponseDTO {
	return TierResponseDTO{
		ID:              t.ID,
		Name:            t.Name,
		MinEarnings:     t.MinEarnings,
		CommissionRate:  t.CommissionRate,
		BonusPercentage: t.BonusPercentage,
		SortOrder:       t.SortOrder,
		CreatedAt:       t.CreatedAt,
	}
}

func NewTierList(tiers []domain.Tier) []TierResponseDTO {
	resp := make([]TierResponseDTO, 0, len(tiers))
	for i := range tiers {
		resp = append(resp, NewTierResponse(&tiers[i]))
	}
	return resp
}
