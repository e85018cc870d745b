package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-dtos"
	shared "github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoreErrorMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("payment %s not found", "p1"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Equal(t, "wrapped: not_found: payment p1 not found", err.Error())

	rv := RuleViolation([]string{"a", "b"})
	assert.ErrorIs(t, rv, ErrConflict)
	assert.Contains(t, rv.Error(), "[a, b]")

	cause := errors.New("row_version_conflict")
	cw := ConcurrentWrite(cause)
	assert.ErrorIs(t, cw, ErrConflict)
	assert.ErrorIs(t, cw, cause)
}

func TestToAppError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"NotFound", NotFound("x"), http.StatusNotFound, shared.ErrCodeNotFound},
		{"Conflict", Conflict("x"), http.StatusConflict, shared.ErrCodeConflict},
		{"ConcurrentWrite", ConcurrentWrite(errors.New("stale")), http.StatusConflict, shared.ErrCodeRowVersionConflict},
		{"InvalidTransition", InvalidTransition("x"), http.StatusUnprocessableEntity, shared.ErrCodeInvalidTransition},
		{"Immutable", Immutable("x"), http.StatusConflict, shared.ErrCodeImmutable},
		{"Validation", Validation("x"), http.StatusBadRequest, shared.ErrCodeValidation},
		{"Unauthorized", Unauthorized("x"), http.StatusForbidden, shared.ErrCodeForbidden},
		{"Plain", errors.New("db down"), http.StatusInternalServerError, shared.ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := ToAppError(tc.err)
			assert.Equal(t, tc.status, appErr.StatusCode)
			assert.Equal(t, tc.code, appErr.Code)
		})
	}
}

func TestToAppErrorCarriesRules(t *testing.T) {
	appErr := ToAppError(RuleViolation([]string{"department_occupied_single_contract"}))
	require.Equal(t, http.StatusConflict, appErr.StatusCode)
	detail, ok := appErr.Details.(dtos.RuleViolationDetail)
	require.True(t, ok)
	assert.Equal(t, []string{"department_occupied_single_contract"}, detail.Rules)
}
