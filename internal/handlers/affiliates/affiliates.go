package affiliates

//go:generate mockgen -source=affiliates.go -destination=mock_affiliates.go -package=affiliates

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/dto"
	"github.com/GlebRadaev/affiliator/internal/handlers/apierr"
	"github.com/GlebRadaev/affiliator/pkg/auth"
	"github.com/GlebRadaev/affiliator/pkg/utils"
)

type Service interface {
	Apply(ctx context.Context, userID uuid.UUID, paymentMethod string) (*domain.Affiliate, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Affiliate, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Affiliate, error)
	Stats(ctx context.Context, id uuid.UUID) (*domain.AffiliateStats, error)
	List(ctx context.Context, status domain.AffiliateStatus) ([]domain.Affiliate, error)
	Approve(ctx context.Context, id uuid.UUID) (*domain.Affiliate, error)
	Reject(ctx context.Context, id uuid.UUID) (*domain.Affiliate, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetCommission(ctx context.Context, id uuid.UUID, commission decimal.NullDecimal) error
	Reconcile(ctx context.Context, id uuid.UUID) (*domain.Reconciliation, error)
}

type Ledger interface {
	ListEntries(ctx context.Context, affiliateID uuid.UUID, limit int) ([]domain.LedgerEntry, error)
}

type Clicks interface {
	ListClicks(ctx context.Context, affiliateID uuid.UUID, limit int) ([]domain.Click, error)
}

type Payouts interface {
	ListByAffiliate(ctx context.Context, affiliateID uuid.UUID) ([]domain.Payout, error)
}

type Coupons interface {
	ListForAffiliate(ctx context.Context, affiliateID uuid.UUID) ([]domain.Coupon, error)
}

type AffiliateHandler struct {
	service Service
	ledger  Ledger
	clicks  Clicks
	payouts Payouts
	coupons Coupons
}

func New(service Service, ledger Ledger, clicks Clicks, payouts Payouts, coupons Coupons) *AffiliateHandler {
	return &AffiliateHandler{
		service: service,
		ledger:  ledger,
		clicks:  clicks,
		payouts: payouts,
		coupons: coupons,
	}
}

// Apply godoc
//
//	@Summary		Apply to become an affiliate
//	@Description	Creates a pending affiliate profile with a generated referral code
//	@Tags			Affiliates
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.ApplyRequestDTO	true	"Application"
//	@Success		201		{object}	dto.AffiliateResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Unauthorized"
//	@Failure		409		{object}	utils.Response	"Already an affiliate"
//	@Router			/api/affiliates [post]
func (h *AffiliateHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req dto.ApplyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	affiliate, err := h.service.Apply(r.Context(), userID, req.PaymentMethod)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewAffiliateResponse(affiliate))
}

// Me godoc
//
//	@Summary		Current user's affiliate profile
//	@Tags			Affiliates
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	dto.AffiliateResponseDTO
//	@Failure		401	{object}	utils.Response	"Unauthorized"
//	@Failure		404	{object}	utils.Response	"Not an affiliate"
//	@Router			/api/affiliates/me [get]
func (h *AffiliateHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	affiliate, err := h.service.GetByUser(r.Context(), userID)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewAffiliateResponse(affiliate))
}

// authorize resolves the {id} parameter and lets the request through for the
// affiliate's own user or for roles that may view any affiliate.
func (h *AffiliateHandler) authorize(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := utils.URLParamUUID(r, "id")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid affiliate id")
		return uuid.Nil, false
	}
	userID, role, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	if domain.HasCapability(role, domain.CapViewAnyAffiliate) {
		return id, true
	}
	if !domain.HasCapability(role, domain.CapViewOwnAffiliate) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return uuid.Nil, false
	}
	affiliate, err := h.service.Get(r.Context(), id)
	if err != nil {
		apierr.Write(w, err)
		return uuid.Nil, false
	}
	if affiliate.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return uuid.Nil, false
	}
	return id, true
}

// Stats godoc
//
//	@Summary		Affiliate dashboard numbers
//	@Description	Earnings counters, available balance, current rate and conversion rate
//	@Tags			Affiliates
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Affiliate ID"
//	@Success		200	{object}	dto.StatsResponseDTO
//	@Failure		403	{object}	utils.Response	"Forbidden"
//	@Failure		404	{object}	utils.Response	"Not found"
//	@Router			/api/affiliates/{id}/stats [get]
func (h *AffiliateHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorize(w, r)
	if !ok {
		return
	}
	stats, err := h.service.Stats(r.Context(), id)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewStatsResponse(stats))
}

// Ledger godoc
//
//	@Summary		Affiliate ledger entries, newest first
//	@Tags			Affiliates
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Affiliate ID"
//	@Param			limit	query		int		false	"Maximum entries"
//	@Success		200		{array}		dto.LedgerEntryResponseDTO
//	@Failure		403		{object}	utils.Response	"Forbidden"
//	@Router			/api/affiliates/{id}/ledger [get]
func (h *AffiliateHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorize(w, r)
	if !ok {
		return
	}
	entries, err := h.ledger.ListEntries(r.Context(), id, utils.QueryLimit(r))
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewLedgerList(entries))
}

// Clicks godoc
//
//	@Summary		Affiliate clicks, newest first
//	@Tags			Affiliates
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Affiliate ID"
//	@Param			limit	query		int		false	"Maximum clicks"
//	@Success		200		{array}		dto.ClickResponseDTO
//	@Failure		403		{object}	utils.Response	"Forbidden"
//	@Router			/api/affiliates/{id}/clicks [get]
func (h *AffiliateHandler) Clicks(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorize(w, r)
	if !ok {
		return
	}
	clicks, err := h.clicks.ListClicks(r.Context(), id, utils.QueryLimit(r))
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewClickList(clicks))
}

// Payouts godoc
//
//	@Summary		Affiliate payout requests
//	@Tags			Affiliates
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Affiliate ID"
//	@Success		200	{array}		dto.PayoutResponseDTO
//	@Failure		403	{object}	utils.Response	"Forbidden"
//	@Router			/api/affiliates/{id}/payouts [get]
func (h *AffiliateHandler) Payouts(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorize(w, r)
	if !ok {
		return
	}
	payouts, err := h.payouts.ListByAffiliate(r.Context(), id)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewPayoutList(payouts))
}

// Coupons godoc
//
//	@Summary		Coupons owned by the affiliate
//	@Tags			Affiliates
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Affiliate ID"
//	@Success		200	{array}		dto.CouponResponseDTO
//	@Failure		403	{object}	utils.Response	"Forbidden"
//	@Router			/api/affiliates/{id}/coupons [get]
func (h *AffiliateHandler) Coupons(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorize(w, r)
	if !ok {
		return
	}
	coupons, err := h.coupons.ListForAffiliate(r.Context(), id)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewCouponList(coupons))
}

// List godoc
//
//	@Summary		List affiliates
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			status	query		string	false	"pending, approved or rejected"
//	@Success		200		{array}		dto.AffiliateResponseDTO
//	@Failure		400		{object}	utils.Response	"Unknown status"
//	@Router			/api/admin/affiliates [get]
func (h *AffiliateHandler) List(w http.ResponseWriter, r *http.Request) {
	affiliates, err := h.service.List(r.Context(), domain.AffiliateStatus(r.URL.Query().Get("status")))
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewAffiliateList(affiliates))
}

// Approve godoc
//
//	@Summary		Approve an affiliate application
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Affiliate ID"
//	@Success		200	{object}	dto.AffiliateResponseDTO
//	@Failure		404	{object}	utils.Response	"Not found"
//	@Failure		409	{object}	utils.Response	"Invalid state"
//	@Router			/api/admin/affiliates/{id}/approve [patch]
func (h *AffiliateHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.service.Approve)
}

// Reject godoc
//
//	@Summary		Reject an affiliate application
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Affiliate ID"
//	@Success		200	{object}	dto.AffiliateResponseDTO
//	@Failure		404	{object}	utils.Response	"Not found"
//	@Failure		409	{object}	utils.Response	"Invalid state"
//	@Router			/api/admin/affiliates/{id}/reject [patch]
func (h *AffiliateHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.service.Reject)
}

func (h *AffiliateHandler) changeStatus(
	w http.ResponseWriter,
	r *http.Request,
	change func(ctx context.Context, id uuid.UUID) (*domain.Affiliate, error),
) {
	id, ok := utils.URLParamUUID(r, "id")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid affiliate id")
		return
	}
	affiliate, err := change(r.Context(), id)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewAffiliateResponse(affiliate))
}

// Deactivate godoc
//
//	@Summary		Deactivate an affiliate
//	@Description	Affiliates are deactivated, never deleted; a deactivated affiliate stops earning
//	@Tags			Admin
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Affiliate ID"
//	@Success		204
//	@Failure		404	{object}	utils.Response	"Not found"
//	@Router			/api/admin/affiliates/{id}/deactivate [patch]
func (h *AffiliateHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

// Activate godoc
//
//	@Summary		Reactivate an affiliate
//	@Tags			Admin
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Affiliate ID"
//	@Success		204
//	@Failure		404	{object}	utils.Response	"Not found"
//	@Router			/api/admin/affiliates/{id}/activate [patch]
func (h *AffiliateHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *AffiliateHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := utils.URLParamUUID(r, "id")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid affiliate id")
		return
	}
	if err := h.service.SetActive(r.Context(), id, active); err != nil {
		apierr.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetCommission godoc
//
//	@Summary		Set the affiliate's own commission rate
//	@Description	Used when no tier applies; null clears the override
//	@Tags			Admin
//	@Accept			json
//	@Security		BearerAuth
//	@Param			id		path	string						true	"Affiliate ID"
//	@Param			request	body	dto.CommissionRequestDTO	true	"Commission percentage"
//	@Success		204
//	@Failure		400	{object}	utils.Response	"Invalid commission"
//	@Router			/api/admin/affiliates/{id}/commission [patch]
func (h *AffiliateHandler) SetCommission(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.URLParamUUID(r, "id")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid affiliate id")
		return
	}
	var req dto.CommissionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.service.SetCommission(r.Context(), id, req.Commission); err != nil {
		apierr.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reconcile godoc
//
//	@Summary		Check earnings counters against the ledger
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Affiliate ID"
//	@Success		200	{object}	domain.Reconciliation
//	@Failure		404	{object}	utils.Response	"Not found"
//	@Router			/api/admin/affiliates/{id}/reconcile [get]
func (h *AffiliateHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.URLParamUUID(r, "id")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid affiliate id")
		return
	}
	rec, err := h.service.Reconcile(r.Context(), id)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rec)
}
