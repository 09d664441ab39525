package payouts

//go:generate mockgen -source=payouts.go -destination=mock_payouts.go -package=payouts

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
	RequestPayout(ctx context.Context, affiliateID uuid.UUID, amount decimal.Decimal, method string) (*domain.Payout, error)
	ApprovePayout(ctx context.Context, id, adminID uuid.UUID) (*domain.Payout, error)
	SettlePayout(ctx context.Context, id, adminID uuid.UUID, transactionID string) (*domain.Payout, error)
	RejectPayout(ctx context.Context, id, adminID uuid.UUID) (*domain.Payout, error)
	List(ctx context.Context, status domain.PayoutStatus) ([]domain.Payout, error)
}

type Affiliates interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Affiliate, error)
}

type PayoutHandler struct {
	service    Service
	affiliates Affiliates
}

func New(service Service, affiliates Affiliates) *PayoutHandler {
	return &PayoutHandler{service: service, affiliates: affiliates}
}

// Request godoc
//
//	@Summary		Request a payout
//	@Description	Reserves the amount from the caller's available balance
//	@Tags			Payouts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.PayoutRequestDTO	true	"Payout request"
//	@Success		201		{object}	dto.PayoutResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		402		{object}	utils.Response	"Insufficient balance"
//	@Failure		404		{object}	utils.Response	"Not an affiliate"
//	@Failure		409		{object}	utils.Response	"Affiliate not approved or inactive"
//	@Failure		422		{object}	utils.Response	"Below minimum or invalid amount"
//	@Failure		503		{object}	utils.Response	"Concurrent update, retry"
//	@Router			/api/payouts [post]
func (h *PayoutHandler) Request(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req dto.PayoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	affiliate, err := h.affiliates.GetByUser(r.Context(), userID)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	payout, err := h.service.RequestPayout(r.Context(), affiliate.ID, req.Amount, req.PaymentMethod)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewPayoutResponse(payout))
}

// List godoc
//
//	@Summary		List payouts
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			status	query		string	false	"pending, approved, paid or rejected"
//	@Success		200		{array}		dto.PayoutResponseDTO
//	@Failure		400		{object}	utils.Response	"Unknown status"
//	@Router			/api/admin/payouts [get]
func (h *PayoutHandler) List(w http.ResponseWriter, r *http.Request) {
	payouts, err := h.service.List(r.Context(), domain.PayoutStatus(r.URL.Query().Get("status")))
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewPayoutList(payouts))
}

// Approve godoc
//
//	@Summary		Approve a pending payout
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Payout ID"
//	@Success		200	{object}	dto.PayoutResponseDTO
//	@Failure		404	{object}	utils.Response	"Not found"
//	@Failure		409	{object}	utils.Response	"Invalid state"
//	@Router			/api/admin/payouts/{id}/approve [patch]
func (h *PayoutHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ApprovePayout)
}

// Reject godoc
//
//	@Summary		Reject a pending payout
//	@Description	Returns the reserved amount through a compensating ledger entry
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Payout ID"
//	@Success		200	{object}	dto.PayoutResponseDTO
//	@Failure		404	{object}	utils.Response	"Not found"
//	@Failure		409	{object}	utils.Response	"Invalid state"
//	@Router			/api/admin/payouts/{id}/reject [patch]
func (h *PayoutHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.RejectPayout)
}

// Settle godoc
//
//	@Summary		Mark an approved payout as paid
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Payout ID"
//	@Param			request	body		dto.SettleRequestDTO	true	"Gateway transaction"
//	@Success		200		{object}	dto.PayoutResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		404		{object}	utils.Response	"Not found"
//	@Failure		409		{object}	utils.Response	"Invalid state"
//	@Router			/api/admin/payouts/{id}/settle [patch]
func (h *PayoutHandler) Settle(w http.ResponseWriter, r *http.Request) {
	var req dto.SettleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TransactionID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.transition(w, r, func(ctx context.Context, id, adminID uuid.UUID) (*domain.Payout, error) {
		return h.service.SettlePayout(ctx, id, adminID, req.TransactionID)
	})
}

func (h *PayoutHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, id, adminID uuid.UUID) (*domain.Payout, error),
) {
	adminID, _, ok := auth.UserFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := utils.URLParamUUID(r, "id")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payout id")
		return
	}
	payout, err := apply(r.Context(), id, adminID)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewPayoutResponse(payout))
}
