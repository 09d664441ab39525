package ledger

//go:generate mockgen -source=ledger.go -destination=mock_ledger.go -package=ledger

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/dto"
	"github.com/GlebRadaev/affiliator/internal/handlers/apierr"
	"github.com/GlebRadaev/affiliator/pkg/utils"
)

type Service interface {
	AppendEntry(ctx context.Context, req domain.EntryRequest) (*domain.LedgerEntry, error)
	ConfirmEntry(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error)
}

type LedgerHandler struct {
	service Service
}

func New(service Service) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// Confirm godoc
//
//	@Summary		Confirm a pending ledger entry
//	@Description	No-op for entries that are already confirmed or paid
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Entry ID"
//	@Success		200	{object}	dto.LedgerEntryResponseDTO
//	@Failure		404	{object}	utils.Response	"Not found"
//	@Router			/api/admin/ledger/{id}/confirm [patch]
func (h *LedgerHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.service.ConfirmEntry)
}

// Paid godoc
//
//	@Summary		Mark a ledger entry as paid
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Entry ID"
//	@Success		200	{object}	dto.LedgerEntryResponseDTO
//	@Failure		404	{object}	utils.Response	"Not found"
//	@Failure		409	{object}	utils.Response	"Payout debits are paid by settling the payout"
//	@Router			/api/admin/ledger/{id}/paid [patch]
func (h *LedgerHandler) Paid(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.service.MarkPaid)
}

func (h *LedgerHandler) update(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error),
) {
	id, ok := utils.URLParamUUID(r, "id")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid entry id")
		return
	}
	entry, err := apply(r.Context(), id)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewLedgerEntryResponse(entry))
}

// Adjust godoc
//
//	@Summary		Append a manual adjustment
//	@Description	Positive or negative correction, recorded as confirmed
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.AdjustmentRequestDTO	true	"Adjustment"
//	@Success		201		{object}	dto.LedgerEntryResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		404		{object}	utils.Response	"Unknown affiliate"
//	@Failure		422		{object}	utils.Response	"Invalid amount"
//	@Router			/api/admin/ledger/adjustments [post]
func (h *LedgerHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req dto.AdjustmentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AffiliateID == uuid.Nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	entry, err := h.service.AppendEntry(r.Context(), domain.EntryRequest{
		AffiliateID: req.AffiliateID,
		OrderNumber: req.OrderNumber,
		Type:        domain.EntryAdjustment,
		Amount:      req.Amount,
		Status:      domain.EntryConfirmed,
	})
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewLedgerEntryResponse(entry))
}
