package coupons

//go:generate mockgen -source=coupons.go -destination=mock_coupons.go -package=coupons

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/dto"
	"github.com/GlebRadaev/affiliator/internal/handlers/apierr"
	"github.com/GlebRadaev/affiliator/pkg/utils"
)

type Service interface {
	Validate(ctx context.Context, code string, total decimal.Decimal) (*domain.Discount, error)
	Create(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]domain.Coupon, error)
}

type CouponHandler struct {
	service Service
}

func New(service Service) *CouponHandler {
	return &CouponHandler{service: service}
}

// Validate godoc
//
//	@Summary		Check a coupon against a cart total
//	@Tags			Coupons
//	@Produce		json
//	@Param			code	path		string	true	"Coupon code"
//	@Param			total	query		string	true	"Purchase total"
//	@Success		200		{object}	dto.DiscountResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid total"
//	@Failure		404		{object}	utils.Response	"Unknown or inactive coupon"
//	@Failure		422		{object}	utils.Response	"Expired, not started, used up or minimum not met"
//	@Router			/api/coupons/validate/{code} [get]
func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	total, err := decimal.NewFromString(r.URL.Query().Get("total"))
	if err != nil || total.IsNegative() {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid total")
		return
	}
	discount, err := h.service.Validate(r.Context(), chi.URLParam(r, "code"), total)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.DiscountResponseDTO{
		Code:           discount.Coupon.Code,
		DiscountAmount: discount.Amount,
		DiscountType:   string(discount.Coupon.DiscountType),
		AffiliateID:    discount.Coupon.AffiliateID,
	})
}

// List godoc
//
//	@Summary		List coupons
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}	dto.CouponResponseDTO
//	@Router			/api/admin/coupons [get]
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.service.List(r.Context())
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewCouponList(coupons))
}

// Create godoc
//
//	@Summary		Create a coupon
//	@Description	An empty code is replaced by a generated one; affiliate_id links the coupon to an affiliate
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.CouponRequestDTO	true	"Coupon"
//	@Success		201		{object}	dto.CouponResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid coupon"
//	@Failure		409		{object}	utils.Response	"Code already taken"
//	@Router			/api/admin/coupons [post]
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CouponRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	coupon, err := h.service.Create(r.Context(), req.ToDomain())
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewCouponResponse(coupon))
}

// Deactivate godoc
//
//	@Summary		Deactivate a coupon
//	@Tags			Admin
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Coupon ID"
//	@Success		204
//	@Failure		404	{object}	utils.Response	"Not found"
//	@Router			/api/admin/coupons/{id}/deactivate [patch]
func (h *CouponHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.URLParamUUID(r, "id")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid coupon id")
		return
	}
	if err := h.service.Deactivate(r.Context(), id); err != nil {
		apierr.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
