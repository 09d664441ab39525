package tracking

//go:generate mockgen -source=tracking.go -destination=mock_tracking.go -package=tracking

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/dto"
	"github.com/GlebRadaev/affiliator/internal/handlers/apierr"
	"github.com/GlebRadaev/affiliator/pkg/utils"
)

const (
	ClickCookie    = "aff_click"
	ReferralCookie = "aff_ref"
	cookieMaxAge   = 30 * 24 * time.Hour
)

type Service interface {
	RecordClick(ctx context.Context, code, ip string) (*domain.Click, error)
}

type TrackingHandler struct {
	service       Service
	storefrontURL string
}

func New(service Service, storefrontURL string) *TrackingHandler {
	return &TrackingHandler{service: service, storefrontURL: storefrontURL}
}

// Click godoc
//
//	@Summary		Record a referral click
//	@Description	Stores a click for an approved, active affiliate's referral code
//	@Tags			Tracking
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.ClickRequestDTO	true	"Referral code"
//	@Success		201		{object}	dto.ClickResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		404		{object}	utils.Response	"Unknown referral code"
//	@Failure		429		{object}	utils.Response	"Too many requests"
//	@Router			/api/clicks [post]
func (h *TrackingHandler) Click(w http.ResponseWriter, r *http.Request) {
	var req dto.ClickRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	click, err := h.service.RecordClick(r.Context(), req.Code, clientIP(r))
	if err != nil {
		apierr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewClickResponse(click))
}

// Redirect godoc
//
//	@Summary		Follow a referral link
//	@Description	Records the click, remembers it in cookies and redirects to the storefront
//	@Tags			Tracking
//	@Param			code	path	string	true	"Referral code"
//	@Success		302
//	@Failure		429	{object}	utils.Response	"Too many requests"
//	@Router			/r/{code} [get]
func (h *TrackingHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	click, err := h.service.RecordClick(r.Context(), code, clientIP(r))
	switch {
	case err == nil:
		setCookie(w, ClickCookie, click.ID.String())
		setCookie(w, ReferralCookie, code)
	case errors.Is(err, domain.ErrNotFound):
	default:
		zap.L().Error("can't record click", zap.String("code", code), zap.Error(err))
	}
	http.Redirect(w, r, h.storefrontURL, http.StatusFound)
}

func setCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clientIP expects middleware.RealIP to have rewritten RemoteAddr already.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
