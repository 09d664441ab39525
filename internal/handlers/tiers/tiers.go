package tiers

//go:generate mockgen -source=tiers.go -destination=mock_tiers.go -package=tiers

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
	List(ctx context.Context) ([]domain.Tier, error)
	Create(ctx context.Context, tier *domain.Tier) (*domain.Tier, error)
	Update(ctx context.Context, tier *domain.Tier) (*domain.Tier, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TierHandler struct {
	service Service
}

func New(service Service) *TierHandler {
	return &TierHandler{service: service}
}

// List godoc
//
//	@Summary		List commission tiers
//	@Tags			Admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}	dto.TierResponseDTO
//	@Router			/api/admin/tiers [get]
func (h *TierHandler) List(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.service.List(r.Context())
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewTierList(tiers))
}

// Create godoc
//
//	@Summary		Create a commission tier
//	@Description	Rejected when the effective rate would drop as earnings thresholds rise
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.TierRequestDTO	true	"Tier"
//	@Success		201		{object}	dto.TierResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid tier"
//	@Failure		422		{object}	utils.Response	"Tier order would not be monotonic"
//	@Router			/api/admin/tiers [post]
func (h *TierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TierRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	tier, err := h.service.Create(r.Context(), req.ToDomain())
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewTierResponse(tier))
}

// Update godoc
//
//	@Summary		Replace a commission tier
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string				true	"Tier ID"
//	@Param			request	body		dto.TierRequestDTO	true	"Tier"
//	@Success		200		{object}	dto.TierResponseDTO
//	@Failure		404		{object}	utils.Response	"Not found"
//	@Failure		422		{object}	utils.Response	"Tier order would not be monotonic"
//	@Router			/api/admin/tiers/{id} [put]
func (h *TierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.URLParamUUID(r, "id")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid tier id")
		return
	}
	var req dto.TierRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	tier := req.ToDomain()
	tier.ID = id
	updated, err := h.service.Update(r.Context(), tier)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewTierResponse(updated))
}

// Delete godoc
//
//	@Summary		Delete a commission tier
//	@Description	Affiliates on the tier fall back to the next qualifying tier
//	@Tags			Admin
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Tier ID"
//	@Success		204
//	@Failure		404	{object}	utils.Response	"Not found"
//	@Failure		422	{object}	utils.Response	"Remaining tiers would not be monotonic"
//	@Router			/api/admin/tiers/{id} [delete]
func (h *TierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.URLParamUUID(r, "id")
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid tier id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		apierr.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
