package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"mercado/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusByKind(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(apperrors.NewNotFound("missing")))
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(apperrors.NewValidation("bad")))
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(apperrors.NewNoResults("empty")))
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(errors.New("boom")))
}

func TestIsKind(t *testing.T) {
	err := apperrors.NewNotFound("product with ID 9 not found")

	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	assert.False(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.False(t, apperrors.IsKind(errors.New("boom"), apperrors.KindNotFound))
}

func TestIsKindThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("failed to credit store: %w", apperrors.NewNotFound("store with ID 3 not found"))

	assert.True(t, apperrors.IsKind(wrapped, apperrors.KindNotFound))
	assert.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(wrapped))
}

func TestErrorMessage(t *testing.T) {
	err := apperrors.NewNoResults("0 results found for the search")

	assert.Equal(t, "0 results found for the search", err.Error())
}
