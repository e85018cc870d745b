package utils

import (
	"errors"
	"net/http"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-dtos"
	shared "github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
)

// ToAppError maps a manager error onto the HTTP error shape. Errors that are
// not CoreErrors become 500s.
func ToAppError(err error) *shared.AppError {
	ce, ok := AsCoreError(err)
	if !ok {
		return &shared.AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       shared.ErrCodeInternal,
			Message:    "An unexpected error occurred",
			Err:        err,
		}
	}

	appErr := &shared.AppError{Message: ce.Error(), Err: err}
	switch {
	case errors.Is(ce, ErrNotFound):
		appErr.StatusCode, appErr.Code = http.StatusNotFound, shared.ErrCodeNotFound
	case errors.Is(ce, ErrConflict):
		appErr.StatusCode, appErr.Code = http.StatusConflict, shared.ErrCodeConflict
		if len(ce.Rules) > 0 {
			appErr.Details = dtos.RuleViolationDetail{Rules: ce.Rules}
		} else if ce.Err != nil {
			appErr.Code = shared.ErrCodeRowVersionConflict
		}
	case errors.Is(ce, ErrInvalidTransition):
		appErr.StatusCode, appErr.Code = http.StatusUnprocessableEntity, shared.ErrCodeInvalidTransition
	case errors.Is(ce, ErrImmutable):
		appErr.StatusCode, appErr.Code = http.StatusConflict, shared.ErrCodeImmutable
	case errors.Is(ce, ErrValidation):
		appErr.StatusCode, appErr.Code = http.StatusBadRequest, shared.ErrCodeValidation
	case errors.Is(ce, ErrAuthorization):
		appErr.StatusCode, appErr.Code = http.StatusForbidden, shared.ErrCodeForbidden
	default:
		appErr.StatusCode, appErr.Code = http.StatusInternalServerError, shared.ErrCodeInternal
	}
	return appErr
}
