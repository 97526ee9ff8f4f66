package models

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildApiErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", NewValidationError("Required fields were not provided!", "Name required!"), http.StatusBadRequest},
		{"conflict", NewConflictError("Already exists!"), http.StatusConflict},
		{"repository", NewRepositoryError("Database down!", "Please try again later..."), http.StatusInternalServerError},
		{"plain error", errors.New("something unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := BuildApiError(tt.err)
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestBuildApiErrorKeepsMessageAndDescription(t *testing.T) {
	apiErr := BuildApiError(NewValidationError("Invalid email address!", "The given email has an invalid format."))

	assert.Equal(t, "Invalid email address!", apiErr.Message)
	assert.Equal(t, "The given email has an invalid format.", apiErr.Description)
}

func TestBuildApiErrorUnwrapsTaxonomy(t *testing.T) {
	wrapped := fmt.Errorf("saving user: %w", NewConflictError("User already has an account!"))

	apiErr := BuildApiError(wrapped)
	assert.Equal(t, http.StatusConflict, apiErr.Code)
	assert.Equal(t, "User already has an account!", apiErr.Message)
}

func TestBuildApiErrorPlainErrorMessage(t *testing.T) {
	apiErr := BuildApiError(errors.New("boom"))

	assert.Equal(t, "boom", apiErr.Message)
	assert.Empty(t, apiErr.Description)
}

func TestNotFoundBody(t *testing.T) {
	apiErr := NotFound("User not found!", "User not found or already removed.")

	assert.Equal(t, http.StatusNotFound, apiErr.Code)
	assert.Equal(t, "User not found!", apiErr.Message)
	assert.Equal(t, "User not found or already removed.", apiErr.Description)
}
