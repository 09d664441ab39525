// Package apierr maps domain errors to HTTP responses.
package apierr

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/pkg/utils"
)

var statuses = []struct {
	err  error
	code int
}{
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrInvalidState, http.StatusConflict},
	{domain.ErrAlreadyExists, http.StatusConflict},
	{domain.ErrInsufficientBalance, http.StatusPaymentRequired},
	{domain.ErrBelowMinimum, http.StatusUnprocessableEntity},
	{domain.ErrLimitReached, http.StatusUnprocessableEntity},
	{domain.ErrExpired, http.StatusUnprocessableEntity},
	{domain.ErrNotStarted, http.StatusUnprocessableEntity},
	{domain.ErrMinimumNotMet, http.StatusUnprocessableEntity},
	{domain.ErrInvalidAmount, http.StatusUnprocessableEntity},
	{domain.ErrInvalidTier, http.StatusUnprocessableEntity},
	{domain.ErrInvalidInput, http.StatusBadRequest},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrConcurrencyConflict, http.StatusServiceUnavailable},
}

func Status(err error) int {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.code
		}
	}
	return http.StatusInternalServerError
}

// Write responds with the status mapped from err. Unmapped errors are logged
// and reported as a generic internal error.
func Write(w http.ResponseWriter, err error) {
	code := Status(err)
	switch code {
	case http.StatusInternalServerError:
		zap.L().Error("request failed", zap.Error(err))
		utils.RespondWithError(w, code, "Internal server error")
		return
	case http.StatusServiceUnavailable:
		w.Header().Set("Retry-After", "1")
	}
	utils.RespondWithError(w, code, err.Error())
}
