package handler

import (
	"errors"
	"net/http"

	"github.com/GoArmGo/ProfileApp/internal/domain"
)

// statusFor сопоставляет доменную ошибку с HTTP-статусом.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, domain.ErrMissingFile),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
