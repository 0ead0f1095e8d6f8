package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{E(CodeInvalidArgument, "op", "bad", nil), http.StatusBadRequest},
		{E(CodeUnauthorized, "op", "no", nil), http.StatusUnauthorized},
		{E(CodeNotFound, "op", "gone", nil), http.StatusNotFound},
		{E(CodeConflict, "op", "again", nil), http.StatusConflict},
		{E(CodeUnavailable, "op", "down", nil), http.StatusServiceUnavailable},
		{E(CodeInternal, "op", "oops", nil), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", E(CodeNotFound, "op", "gone", nil)), http.StatusNotFound},
		{fmt.Errorf("repo: %w", ErrNotFound), http.StatusNotFound},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestAppError_Message(t *testing.T) {
	err := E(CodeInternal, "ProfileService.Upsert", "failed to save profile", ErrConflict)
	assert.Equal(t, "ProfileService.Upsert: failed to save profile: write conflict", err.Error())
	assert.ErrorIs(t, err, ErrConflict)

	inv := Invalid("ProfileService.Upsert", []FieldError{{Field: "status"}, {Field: "skills"}})
	assert.Equal(t, "ProfileService.Upsert: validation failed [status, skills]", inv.Error())
	assert.True(t, IsCode(inv, CodeInvalidArgument))
	assert.False(t, IsCode(errors.New("x"), CodeInvalidArgument))
}
