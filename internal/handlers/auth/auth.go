package auth

//go:generate mockgen -source=auth.go -destination=mock_auth.go -package=auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/dto"
	"github.com/GlebRadaev/affiliator/internal/handlers/apierr"
	"github.com/GlebRadaev/affiliator/pkg/utils"
)

type Service interface {
	Register(ctx context.Context, login, password string) (*domain.User, error)
	Authenticate(ctx context.Context, login, password string) (*domain.User, error)
	GenerateToken(user *domain.User) (string, error)
}

type AuthHandler struct {
	authService Service
}

func New(authService Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
//
//	@Summary		Register a customer account
//	@Description	New accounts get the customer role; applying as an affiliate is a separate step
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CredentialsDTO	true	"Credentials"
//	@Success		201		{object}	dto.SessionResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		409		{object}	utils.Response	"Login already taken"
//	@Router			/api/user/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	user, err := h.authService.Register(r.Context(), creds.Login, creds.Password)
	if err != nil {
		apierr.Write(w, err)
		return
	}
	h.startSession(w, http.StatusCreated, user)
}

// Login godoc
//
//	@Summary		Log in
//	@Description	The issued JWT carries the role the account has at login time
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CredentialsDTO	true	"Credentials"
//	@Success		200		{object}	dto.SessionResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Invalid credentials"
//	@Router			/api/user/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	user, err := h.authService.Authenticate(r.Context(), creds.Login, creds.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	case err != nil:
		apierr.Write(w, err)
		return
	}
	h.startSession(w, http.StatusOK, user)
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (dto.CredentialsDTO, bool) {
	var creds dto.CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return creds, false
	}
	creds.Login = strings.TrimSpace(creds.Login)
	if creds.Login == "" || creds.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Login and password are required")
		return creds, false
	}
	return creds, true
}

// startSession writes the token both as a bearer header and in the body.
func (h *AuthHandler) startSession(w http.ResponseWriter, status int, user *domain.User) {
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	utils.RespondWithJSON(w, status, dto.SessionResponseDTO{
		UserID: user.ID,
		Role:   string(user.Role),
		Token:  token,
	})
}
