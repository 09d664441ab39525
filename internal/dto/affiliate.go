package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/affiliator/internal/domain"
)

type ApplyRequestDTO struct {
	PaymentMethod string `json:"payment_method"`
}

type CommissionRequestDTO struct {
	// Commission is a percentage; null clears the override.
	Commission decimal.NullDecimal `json:"commission" swaggertype:"string"`
}

type AffiliateResponseDTO struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"user_id"`
	Code             string          `json:"code"`
	TierID           *uuid.UUID      `json:"tier_id,omitempty"`
	Commission       *string         `json:"commission,omitempty"`
	TotalEarnings    decimal.Decimal `json:"total_earnings" swaggertype:"string"`
	PendingEarnings  decimal.Decimal `json:"pending_earnings" swaggertype:"string"`
	PaidEarnings     decimal.Decimal `json:"paid_earnings" swaggertype:"string"`
	TotalClicks      int64           `json:"total_clicks"`
	TotalConversions int64           `json:"total_conversions"`
	Status           string          `json:"status"`
	IsActive         bool            `json:"is_active"`
	PaymentMethod    string          `json:"payment_method"`
	CreatedAt        time.Time       `json:"created_at"`
}

func NewAffiliateResponse(a *domain.Affiliate) AffiliateResponseDTO {
	resp := AffiliateResponseDTO{
		ID:               a.ID,
		UserID:           a.UserID,
		Code:             a.Code,
		TierID:           a.TierID,
		TotalEarnings:    a.TotalEarnings,
		PendingEarnings:  a.PendingEarnings,
		PaidEarnings:     a.PaidEarnings,
		TotalClicks:      a.TotalClicks,
		TotalConversions: a.TotalConversions,
		Status:           string(a.Status),
		IsActive:         a.IsActive,
		PaymentMethod:    a.PaymentMethod,
		CreatedAt:        a.CreatedAt,
	}
	if a.Commission.Valid {
		c := a.Commission.Decimal.String()
		resp.Commission = &c
	}
	return resp
}

func NewAffiliateList(affiliates []domain.Affiliate) []AffiliateResponseDTO {
	resp := make([]AffiliateResponseDTO, 0, len(affiliates))
	for i := range affiliates {
		resp = append(resp, NewAffiliateResponse(&affiliates[i]))
	}
	return resp
}

type StatsResponseDTO struct {
	Affiliate        AffiliateResponseDTO `json:"affiliate"`
	AvailableBalance decimal.Decimal      `json:"available_balance" swaggertype:"string"`
	CommissionRate   decimal.Decimal      `json:"commission_rate" swaggertype:"string"`
	BonusPercentage  decimal.Decimal      `json:"bonus_percentage" swaggertype:"string"`
	TierName         string               `json:"tier_name,omitempty"`
	ConversionRate   decimal.Decimal      `json:"conversion_rate" swaggertype:"string"`
}

func NewStatsResponse(s *domain.AffiliateStats) StatsResponseDTO {
	return StatsResponseDTO{
		Affiliate:        NewAffiliateResponse(s.Affiliate),
		AvailableBalance: s.AvailableBalance,
		CommissionRate:   s.Rate.Rate,
		BonusPercentage:  s.Rate.Bonus,
		TierName:         s.Rate.TierName,
		ConversionRate:   s.ConversionRate,
	}
}
