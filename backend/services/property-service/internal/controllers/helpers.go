package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/services"
	internal_utils "github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/utils"
	shared_dtos "github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-dtos"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-middleware"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

var validate = validator.New()

// actorFromRequest builds the manager Actor from the authenticated context.
func actorFromRequest(r *http.Request) (services.Actor, error) {
	sub, role, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return services.Actor{}, &utils.AppError{
			StatusCode: http.StatusUnauthorized,
			Code:       utils.ErrCodeUnauthorized,
			Message:    "Missing user in context",
		}
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return services.Actor{}, &utils.AppError{
			StatusCode: http.StatusUnauthorized,
			Code:       utils.ErrCodeUnauthorized,
			Message:    "Invalid subject in token",
			Err:        err,
		}
	}
	return services.Actor{UserID: id, Role: role}, nil
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the error response itself and reports whether to continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", formatValidationErrors(err), err)
		return false
	}
	return true
}

func formatValidationErrors(err error) []shared_dtos.ValidationErrorDetail {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return []shared_dtos.ValidationErrorDetail{{Field: "body", Message: err.Error(), Code: "invalid"}}
	}
	out := make([]shared_dtos.ValidationErrorDetail, 0, len(vErrs))
	for _, fe := range vErrs {
		msg := fmt.Sprintf("failed on '%s'", fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("failed on '%s=%s'", fe.Tag(), fe.Param())
		}
		out = append(out, shared_dtos.ValidationErrorDetail{
			Field:   toSnake(fe.Field()),
			Message: msg,
			Code:    fe.Tag(),
		})
	}
	return out
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &utils.AppError{
			StatusCode: http.StatusBadRequest,
			Code:       utils.ErrCodeInvalidPayload,
			Message:    fmt.Sprintf("invalid %s %q", name, raw),
			Err:        err,
		}
	}
	return id, nil
}

func parseDate(s string) time.Time {
	t, _ := time.ParseInLocation("2006-01-02", s, time.UTC)
	return t
}

// respondServiceError maps a manager error onto the HTTP error shape.
func respondServiceError(w http.ResponseWriter, err error) {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		utils.HandleAppError(w, err)
		return
	}
	utils.HandleAppError(w, internal_utils.ToAppError(err))
}
