package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// CartHandler handles the session cart endpoints. The cart is keyed by
// the visitor session, so no authentication is required.
type CartHandler struct {
	BaseHandler
	cartService *cartapp.Service
	metrics     *telemetry.StoreMetrics
}

// NewCartHandler creates a new CartHandler. metrics may be nil when
// telemetry is disabled.
func NewCartHandler(cartService *cartapp.Service, metrics *telemetry.StoreMetrics) *CartHandler {
	return &CartHandler{cartService: cartService, metrics: metrics}
}

// View godoc
// @Summary      View cart
// @Description  Return the cart reconciled against the live catalog: current prices, availability, and short-stock flags.
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=cart.CartResponse}
// @Router       /cart [get]
func (h *CartHandler) View(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.InternalError(c, "Session not established")
		return
	}

	resp, err := h.cartService.View(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Count godoc
// @Summary      Cart item count
// @Description  Return the raw item count for the cart badge, without touching the catalog.
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=cart.ItemCountResponse}
// @Router       /cart/count [get]
func (h *CartHandler) Count(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.InternalError(c, "Session not established")
		return
	}

	resp, err := h.cartService.ItemCount(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Add godoc
// @Summary      Add to cart
// @Description  Add a quantity of a product to the cart. Quantity defaults to 1.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cart.AddItemRequest true "Item to add"
// @Success      200 {object} dto.Response{data=cart.ItemCountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/items [post]
func (h *CartHandler) Add(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.InternalError(c, "Session not established")
		return
	}

	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.cartService.Add(c.Request.Context(), sessionID, req); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if h.metrics != nil {
		qty := req.Quantity
		if qty <= 0 {
			qty = 1
		}
		h.metrics.RecordCartAdd(c.Request.Context(), qty)
	}

	h.itemCount(c, sessionID)
}

// UpdateItem godoc
// @Summary      Set cart quantity
// @Description  Overwrite the quantity for one product. Zero or less removes the entry.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        product_id path string true "Product ID"
// @Param        request body cart.UpdateItemRequest true "New quantity"
// @Success      200 {object} dto.Response{data=cart.ItemCountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/items/{product_id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.InternalError(c, "Session not established")
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req cartapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.cartService.SetQuantity(c.Request.Context(), sessionID, productID, req.Quantity); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.itemCount(c, sessionID)
}

// RemoveItem godoc
// @Summary      Remove from cart
// @Tags         cart
// @Produce      json
// @Param        product_id path string true "Product ID"
// @Success      200 {object} dto.Response{data=cart.ItemCountResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/items/{product_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.InternalError(c, "Session not established")
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.cartService.Remove(c.Request.Context(), sessionID, productID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCartRemoval(c.Request.Context(), 1)
	}

	h.itemCount(c, sessionID)
}

// Prune godoc
// @Summary      Prune unresolved entries
// @Description  Reconcile the cart and remove entries whose products no longer exist in the catalog, then return the pruned view.
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=cart.CartResponse}
// @Router       /cart/prune [post]
func (h *CartHandler) Prune(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.InternalError(c, "Session not established")
		return
	}

	view, err := h.cartService.View(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if len(view.Unresolved) > 0 {
		if err := h.cartService.Prune(c.Request.Context(), sessionID, view.Unresolved); err != nil {
			h.HandleDomainError(c, err)
			return
		}
		if h.metrics != nil {
			h.metrics.RecordCartRemoval(c.Request.Context(), int64(len(view.Unresolved)))
		}
		view, err = h.cartService.View(c.Request.Context(), sessionID)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
	}

	h.Success(c, view)
}

// Clear godoc
// @Summary      Empty the cart
// @Tags         cart
// @Success      204 "No Content"
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.InternalError(c, "Session not established")
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), sessionID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// itemCount responds with the fresh badge count after a mutation
func (h *CartHandler) itemCount(c *gin.Context, sessionID string) {
	resp, err := h.cartService.ItemCount(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
