package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	catalog := NewDomainGroup("catalog", "/catalog")
	catalog.GET("/products", func(c *gin.Context) {
		c.String(http.StatusOK, "products")
	})

	r.Register(catalog)
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "products", w.Body.String())
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("cart", "/cart")
	assert.Equal(t, "cart", g.Name())

	g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "view") })
	g.POST("/items", func(c *gin.Context) { c.String(http.StatusOK, "added") })
	g.PUT("/items/:id", func(c *gin.Context) { c.String(http.StatusOK, "updated") })
	g.DELETE("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	g.RegisterRoutes(engine.Group("/api/v1"))

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/cart", http.StatusOK},
		{http.MethodPost, "/api/v1/cart/items", http.StatusOK},
		{http.MethodPut, "/api/v1/cart/items/1", http.StatusOK},
		{http.MethodDelete, "/api/v1/cart/items/1", http.StatusNoContent},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.want, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestDomainGroup_Middleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("admin", "/admin")
	g.Use(func(c *gin.Context) {
		c.Header("X-Admin-Guard", "hit")
		c.Next()
	})
	g.GET("/orders", func(c *gin.Context) { c.String(http.StatusOK, "orders") })

	g.RegisterRoutes(engine.Group("/api/v1"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil))

	assert.Equal(t, "hit", w.Header().Get("X-Admin-Guard"))
	assert.Equal(t, "orders", w.Body.String())
}

func TestDomainGroup_Subgroups(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("admin", "/admin")

	products := g.Group("products", "/products")
	products.GET("", func(c *gin.Context) { c.String(http.StatusOK, "product list") })

	orders := g.Group("orders", "/orders")
	orders.GET("", func(c *gin.Context) { c.String(http.StatusOK, "order list") })

	g.RegisterRoutes(engine.Group("/api/v1"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil))
	assert.Equal(t, "product list", w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil))
	assert.Equal(t, "order list", w.Body.String())
}
