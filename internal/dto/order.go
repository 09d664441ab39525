package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/affiliator/internal/domain"
)

type OrderCompletedRequestDTO struct {
	OrderNumber  string          `json:"order_number"`
	CustomerID   *uuid.UUID      `json:"customer_id,omitempty"`
	Total        decimal.Decimal `json:"total" swaggertype:"string"`
	CouponCode   string          `json:"coupon_code,omitempty"`
	ClickID      *uuid.UUID      `json:"click_id,omitempty"`
	ReferralCode string          `json:"referral_code,omitempty"`
}

func (r OrderCompletedRequestDTO) ToDomain(completedAt time.Time) domain.CompletedOrder {
	return domain.CompletedOrder{
		OrderNumber:  r.OrderNumber,
		CustomerID:   r.CustomerID,
		Total:        r.Total,
		CouponCode:   r.CouponCode,
		ClickID:      r.ClickID,
		ReferralCode: r.ReferralCode,
		CompletedAt:  completedAt,
	}
}

type OrderRefundedRequestDTO struct {
	OrderNumber string `json:"order_number"`
}

type RefundResponseDTO struct {
	OrderNumber string          `json:"order_number"`
	Reversed    decimal.Decimal `json:"reversed" swaggertype:"string"`
}

type OrderCompletionResponseDTO struct {
	OrderNumber  string          `json:"order_number"`
	AffiliateID  *uuid.UUID      `json:"affiliate_id,omitempty"`
	ClickID      *uuid.UUID      `json:"click_id,omitempty"`
	Source       string          `json:"source"`
	WithoutClick bool            `json:"without_click"`
	Commission   decimal.Decimal `json:"commission" swaggertype:"string"`
	Bonus        decimal.Decimal `json:"bonus" swaggertype:"string"`
	CouponID     *uuid.UUID      `json:"coupon_id,omitempty"`
	Discount     decimal.Decimal `json:"discount" swaggertype:"string"`
	Duplicate    bool            `json:"duplicate"`
	CreatedAt    time.Time       `json:"created_at"`
}

func NewOrderCompletionResponse(c *domain.OrderCompletion) OrderCompletionResponseDTO {
	return OrderCompletionResponseDTO{
		OrderNumber:  c.OrderNumber,
		AffiliateID:  c.AffiliateID,
		ClickID:      c.ClickID,
		Source:       string(c.Source),
		WithoutClick: c.WithoutClick,
		Commission:   c.Commission,
		Bonus:        c.Bonus,
		CouponID:     c.CouponID,
		Discount:     c.Discount,
		Duplicate:    c.Duplicate,
		CreatedAt:    c.CreatedAt,
	}
}
