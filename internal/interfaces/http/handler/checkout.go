package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// CheckoutHandler handles the cart-to-order transition
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.Service
	metrics         *telemetry.StoreMetrics
}

// NewCheckoutHandler creates a new CheckoutHandler. metrics may be nil
// when telemetry is disabled.
func NewCheckoutHandler(checkoutService *checkoutapp.Service, metrics *telemetry.StoreMetrics) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, metrics: metrics}
}

// stockConflictData is the response payload for a checkout that lost to
// concurrent stock movement. The cart is untouched so the shopper can
// adjust quantities and retry.
type stockConflictData struct {
	Shortfalls []order.Shortfall `json:"shortfalls"`
}

// Checkout godoc
// @Summary      Place an order
// @Description  Convert the session cart into an order in one atomic transaction. On stock conflict the response names each shortfall and nothing is charged or reserved.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body checkout.Request true "Shipping destination"
// @Success      201 {object} dto.Response{data=checkout.Response}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Sign in to place an order")
		return
	}

	sessionID, err := getSessionID(c)
	if err != nil {
		h.InternalError(c, "Session not established")
		return
	}

	var req checkoutapp.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ctx := c.Request.Context()
	resp, err := h.checkoutService.Checkout(ctx, sessionID, userID, req)
	if err != nil {
		var conflict *order.StockConflictError
		if errors.As(err, &conflict) {
			h.recordCheckout(c, telemetry.CheckoutOutcomeStockConflict)
			response := dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInsufficientStock,
				conflict.Error(),
				getRequestID(c),
			)
			response.Data = stockConflictData{Shortfalls: conflict.Shortfalls}
			c.JSON(http.StatusConflict, response)
			return
		}

		h.recordCheckoutFailure(c, err)
		h.HandleDomainError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCheckout(ctx, telemetry.CheckoutOutcomeCompleted)
		h.metrics.RecordOrderAmount(ctx, resp.Total)
	}

	h.Created(c, resp)
}

func (h *CheckoutHandler) recordCheckout(c *gin.Context, outcome string) {
	if h.metrics != nil {
		h.metrics.RecordCheckout(c.Request.Context(), outcome)
	}
}

func (h *CheckoutHandler) recordCheckoutFailure(c *gin.Context, err error) {
	if h.metrics == nil {
		return
	}
	outcome := telemetry.CheckoutOutcomeFailed
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && domainErr.Code == "EMPTY_CART" {
		outcome = telemetry.CheckoutOutcomeEmptyCart
	}
	h.recordCheckout(c, outcome)
}
