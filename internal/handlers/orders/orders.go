package orders

//go:generate mockgen -source=orders.go -destination=mock_orders.go -package=orders

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/dto"
	"github.com/GlebRadaev/affiliator/internal/handlers/apierr"
	"github.com/GlebRadaev/affiliator/pkg/utils"
	"github.com/GlebRadaev/affiliator/pkg/validate"
)

type Service interface {
	OnOrderCompleted(ctx context.Context, order domain.CompletedOrder) (*domain.OrderCompletion, error)
	OnOrderRefunded(ctx context.Context, orderNumber string) (decimal.Decimal, error)
	Get(ctx context.Context, orderNumber string) (*domain.OrderCompletion, error)
}

type OrderHandler struct {
	orderService Service
	now          func() time.Time
}

func New(orderService Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		now:          time.Now,
	}
}

// Completed godoc
//
//	@Summary		Report a completed order
//	@Description	Attributes the order, credits commission and redeems the coupon. Redelivery of the same order number returns the stored outcome.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.OrderCompletedRequestDTO	true	"Completed order"
//	@Success		201		{object}	dto.OrderCompletionResponseDTO	"Order processed"
//	@Success		200		{object}	dto.OrderCompletionResponseDTO	"Order already processed"
//	@Failure		400		{object}	utils.Response					"Invalid request body"
//	@Failure		422		{object}	utils.Response					"Invalid order number, amount or coupon"
//	@Failure		503		{object}	utils.Response					"Concurrent update, retry"
//	@Router			/api/orders/completed [post]
func (h *OrderHandler) Completed(w http.ResponseWriter, r *http.Request) {
	var req dto.OrderCompletedRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OrderNumber == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Order number is required")
		return
	}
	if !validate.IsOrderNumber(req.OrderNumber) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid order number")
		return
	}

	completion, err := h.orderService.OnOrderCompleted(r.Context(), req.ToDomain(h.now()))
	if err != nil {
		apierr.Write(w, err)
		return
	}
	status := http.StatusCreated
	if completion.Duplicate {
		status = http.StatusOK
	}
	utils.RespondWithJSON(w, status, dto.NewOrderCompletionResponse(completion))
}

// Refunded godoc
//
//	@Summary		Report a refunded order
//	@Description	Reverses the commission and bonus credited for the order
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.OrderRefundedRequestDTO	true	"Refunded order"
//	@Success		200		{object}	dto.RefundResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		404		{object}	utils.Response	"Order was never completed"
//	@Failure		422		{object}	utils.Response	"Invalid order number"
//	@Router			/api/orders/refunded [post]
func (h *OrderHandler) Refunded(w http.ResponseWriter, r *http.Request) {
	var req dto.OrderRefundedRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderNumber == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validate.IsOrderNumber(req.OrderNumber) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid order number")
		return
	}

	reversed, err := h.orderService.OnOrderRefunded(r.Context(), req.OrderNumber)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.RefundResponseDTO{
		OrderNumber: req.OrderNumber,
		Reversed:    reversed,
	})
}

// Get godoc
//
//	@Summary		Stored outcome of a completed order
//	@Tags			Orders
//	@Produce		json
//	@Security		BearerAuth
//	@Param			number	path		string	true	"Order number"
//	@Success		200		{object}	dto.OrderCompletionResponseDTO
//	@Failure		404		{object}	utils.Response	"Not found"
//	@Router			/api/orders/{number} [get]
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	completion, err := h.orderService.Get(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewOrderCompletionResponse(completion))
}
