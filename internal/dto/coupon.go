package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/affiliator/internal/domain"
)

type CouponRequestDTO struct {
	Code          string          `json:"code,omitempty"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value" swaggertype:"string"`
	MinPurchase   decimal.Decimal `json:"min_purchase" swaggertype:"string"`
	MaxUses       *int            `json:"max_uses,omitempty"`
	StartsAt      *time.Time      `json:"starts_at,omitempty"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	AffiliateID   *uuid.UUID      `json:"affiliate_id,omitempty"`
}

func (r CouponRequestDTO) ToDomain() *domain.Coupon {
	return &domain.Coupon{
		Code:          r.Code,
		DiscountType:  domain.DiscountType(r.DiscountType),
		DiscountValue: r.DiscountValue,
		MinPurchase:   r.MinPurchase,
		MaxUses:       r.MaxUses,
		StartsAt:      r.StartsAt,
		ExpiresAt:     r.ExpiresAt,
		AffiliateID:   r.AffiliateID,
	}
}

type CouponResponseDTO struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value" swaggertype:"string"`
	MinPurchase   decimal.Decimal `json:"min_purchase" swaggertype:"string"`
	MaxUses       *int            `json:"max_uses,omitempty"`
	UsedCount     int             `json:"used_count"`
	StartsAt      *time.Time      `json:"starts_at,omitempty"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	IsActive      bool            `json:"is_active"`
	AffiliateID   *uuid.UUID      `json:"affiliate_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewCouponResponse(c *domain.Coupon) CouponResponseDTO {
	return CouponResponseDTO{
		ID:            c.ID,
		Code:          c.Code,
		DiscountType:  string(c.DiscountType),
		DiscountValue: c.DiscountValue,
		MinPurchase:   c.MinPurchase,
		MaxUses:       c.MaxUses,
		UsedCount:     c.UsedCount,
		StartsAt:      c.StartsAt,
		ExpiresAt:     c.ExpiresAt,
		IsActive:      c.IsActive,
		AffiliateID:   c.AffiliateID,
		CreatedAt:     c.CreatedAt,
	}
}

func NewCouponList(coupons []domain.Coupon) []CouponResponseDTO {
	resp := make([]CouponResponseDTO, 0, len(coupons))
	for i := range coupons {
		resp = append(resp, NewCouponResponse(&coupons[i]))
	}
	return resp
}

type DiscountResponseDTO struct {
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discount_amount" swaggertype:"string"`
	DiscountType   string          `json:"discount_type"`
	AffiliateID    *uuid.UUID      `json:"affiliate_id,omitempty"`
}
