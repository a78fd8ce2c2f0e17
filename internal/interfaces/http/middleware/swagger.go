package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// SwaggerGate hides the API documentation when it is disabled in
// configuration, so production deployments can keep the routes
// registered but unreachable
func SwaggerGate(cfg config.SwaggerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeNotFound,
				"Not found",
				GetRequestID(c),
			))
			return
		}
		c.Next()
	}
}
