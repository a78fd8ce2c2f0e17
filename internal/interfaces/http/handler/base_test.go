package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

func performDomainError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var h BaseHandler

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.HandleDomainError(c, err)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestHandleDomainError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.NewDomainError("NOT_FOUND", "Product not found"), http.StatusNotFound, dto.ErrCodeNotFound},
		{"insufficient stock", shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough stock"), http.StatusConflict, dto.ErrCodeInsufficientStock},
		{"product unavailable", shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product vanished"), http.StatusConflict, dto.ErrCodeProductUnavailable},
		{"empty cart", shared.NewDomainError("EMPTY_CART", "Cart is empty"), http.StatusUnprocessableEntity, dto.ErrCodeEmptyCart},
		{"invalid address", shared.NewDomainError("INVALID_ADDRESS", "Street cannot be empty"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidAddress},
		{"invalid credentials", shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password"), http.StatusUnauthorized, dto.ErrCodeInvalidCredentials},
		{"email taken", shared.NewDomainError("EMAIL_TAKEN", "Email already registered"), http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"account disabled", shared.NewDomainError("ACCOUNT_DISABLED", "Account is disabled"), http.StatusForbidden, dto.ErrCodeForbidden},
		{"invalid quantity", shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive"), http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"checkout failed", shared.NewDomainError("CHECKOUT_FAILED", "Checkout could not be completed"), http.StatusInternalServerError, dto.ErrCodeCheckoutFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := performDomainError(t, tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestHandleDomainError_UnknownError(t *testing.T) {
	w, resp := performDomainError(t, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
}
