package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{CodeInvalidRequest, http.StatusBadRequest},
		{CodeInsufficientInventory, http.StatusBadRequest},
		{CodeInvalidAdjustment, http.StatusBadRequest},
		{CodeHoldNotActive, http.StatusBadRequest},
		{CodeUnresolvedCaseSku, http.StatusBadRequest},
		{CodeInactiveCatalogEntry, http.StatusBadRequest},
		{CodeInvalidCasePackSize, http.StatusBadRequest},
		// An adjustment against an unstocked sku is a caller mistake, not a
		// missing resource.
		{CodeInventoryRecordNotFound, http.StatusBadRequest},
		{CodeHoldNotFound, http.StatusNotFound},
		{CodeOrderNotFound, http.StatusNotFound},
		{CodeAlreadyVerified, http.StatusNotFound},
		{CodeSearchUnavailable, http.StatusServiceUnavailable},
		{CodeInvariantViolation, http.StatusInternalServerError},
		{CodeDatabaseError, http.StatusInternalServerError},
		{CodeInternalError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		se := New(tt.code, "msg", "")
		assert.Equal(t, tt.want, se.HTTPStatus(), tt.code)
	}
}

func TestAs_UnwrapsStandardError(t *testing.T) {
	orig := NewInsufficientInventory(2, 5)
	wrapped := fmt.Errorf("creating hold: %w", orig)

	se := As(wrapped)
	assert.Equal(t, CodeInsufficientInventory, se.Code)
	assert.Equal(t, "available: 2, requested: 5", se.Details)
}

func TestAs_WrapsPlainError(t *testing.T) {
	se := As(errors.New("boom"))
	assert.Equal(t, CodeInternalError, se.Code)
	assert.Equal(t, "boom", se.Details)
}
