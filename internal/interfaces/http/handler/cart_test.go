package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

type cartTestEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

func newCartTestEnv(t *testing.T) *cartTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ProductModel{}))

	products := persistence.NewGormProductRepository(db)
	cartService := cartapp.NewService(cache.NewInMemoryCartStore(), cartapp.NewReconciler(products))
	h := NewCartHandler(cartService, nil)

	r := gin.New()
	r.Use(middleware.Session(config.SessionConfig{
		CookieName: "store_session",
		CookiePath: "/",
		SameSite:   "lax",
		CartTTL:    time.Hour,
	}))
	r.GET("/cart", h.View)
	r.GET("/cart/count", h.Count)
	r.POST("/cart/items", h.Add)
	r.PUT("/cart/items/:product_id", h.UpdateItem)
	r.DELETE("/cart/items/:product_id", h.RemoveItem)
	r.POST("/cart/prune", h.Prune)
	r.DELETE("/cart", h.Clear)

	return &cartTestEnv{router: r, db: db}
}

func (e *cartTestEnv) seedProduct(t *testing.T, name, price string, stock int64) *catalog.Product {
	t.Helper()
	money, err := valueobject.NewMoneyUSDFromString(price)
	require.NoError(t, err)
	product, err := catalog.NewProduct(name, money, stock)
	require.NoError(t, err)
	product.ClearDomainEvents()
	require.NoError(t, persistence.NewGormProductRepository(e.db).Save(context.Background(), product))
	return product
}

func (e *cartTestEnv) do(t *testing.T, sessionID, method, path, body string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeaderKey, sessionID)
	}
	e.router.ServeHTTP(w, req)
	return w, w.Header().Get(middleware.SessionHeaderKey)
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	var data T
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data
}

func TestCartHandler_AddAndCount(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.seedProduct(t, "Coffee Mug", "19.99", 10)

	w, session := env.do(t, "", http.MethodPost, "/cart/items",
		fmt.Sprintf(`{"product_id":%q,"quantity":2}`, product.ID))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, session)

	count := decodeData[cartapp.ItemCountResponse](t, w)
	assert.Equal(t, int64(2), count.ItemCount)

	// Same session accumulates
	w, _ = env.do(t, session, http.MethodPost, "/cart/items",
		fmt.Sprintf(`{"product_id":%q,"quantity":1}`, product.ID))
	count = decodeData[cartapp.ItemCountResponse](t, w)
	assert.Equal(t, int64(3), count.ItemCount)

	// A different session starts empty
	w, _ = env.do(t, "", http.MethodGet, "/cart/count", "")
	count = decodeData[cartapp.ItemCountResponse](t, w)
	assert.Equal(t, int64(0), count.ItemCount)
}

func TestCartHandler_ViewReconciles(t *testing.T) {
	env := newCartTestEnv(t)
	mug := env.seedProduct(t, "Coffee Mug", "19.99", 2)

	_, session := env.do(t, "", http.MethodPost, "/cart/items",
		fmt.Sprintf(`{"product_id":%q,"quantity":5}`, mug.ID))

	w, _ := env.do(t, session, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)

	view := decodeData[cartapp.CartResponse](t, w)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(5), view.Items[0].Quantity)
	assert.Equal(t, int64(2), view.Items[0].DisplayQuantity)
	assert.True(t, view.Items[0].ShortStock)
	assert.Equal(t, "99.95", view.Items[0].LineTotal.StringFixed(2))
}

func TestCartHandler_UpdateAndRemove(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.seedProduct(t, "Poster", "9.50", 10)

	_, session := env.do(t, "", http.MethodPost, "/cart/items",
		fmt.Sprintf(`{"product_id":%q,"quantity":4}`, product.ID))

	w, _ := env.do(t, session, http.MethodPut, "/cart/items/"+product.ID.String(), `{"quantity":1}`)
	count := decodeData[cartapp.ItemCountResponse](t, w)
	assert.Equal(t, int64(1), count.ItemCount)

	// Zero removes the entry entirely
	w, _ = env.do(t, session, http.MethodPut, "/cart/items/"+product.ID.String(), `{"quantity":0}`)
	count = decodeData[cartapp.ItemCountResponse](t, w)
	assert.Equal(t, int64(0), count.ItemCount)

	_, _ = env.do(t, session, http.MethodPost, "/cart/items",
		fmt.Sprintf(`{"product_id":%q,"quantity":2}`, product.ID))
	w, _ = env.do(t, session, http.MethodDelete, "/cart/items/"+product.ID.String(), "")
	count = decodeData[cartapp.ItemCountResponse](t, w)
	assert.Equal(t, int64(0), count.ItemCount)
}

func TestCartHandler_PruneDropsVanishedProducts(t *testing.T) {
	env := newCartTestEnv(t)
	mug := env.seedProduct(t, "Coffee Mug", "19.99", 10)
	vanished := uuid.New()

	_, session := env.do(t, "", http.MethodPost, "/cart/items",
		fmt.Sprintf(`{"product_id":%q,"quantity":2}`, mug.ID))
	_, _ = env.do(t, session, http.MethodPost, "/cart/items",
		fmt.Sprintf(`{"product_id":%q,"quantity":1}`, vanished))

	w, _ := env.do(t, session, http.MethodGet, "/cart", "")
	view := decodeData[cartapp.CartResponse](t, w)
	require.Len(t, view.Unresolved, 1)

	w, _ = env.do(t, session, http.MethodPost, "/cart/prune", "")
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeData[cartapp.CartResponse](t, w)
	assert.Empty(t, view.Unresolved)
	require.Len(t, view.Items, 1)
	assert.Equal(t, mug.ID, view.Items[0].ProductID)

	w, _ = env.do(t, session, http.MethodGet, "/cart/count", "")
	count := decodeData[cartapp.ItemCountResponse](t, w)
	assert.Equal(t, int64(2), count.ItemCount)
}

func TestCartHandler_Clear(t *testing.T) {
	env := newCartTestEnv(t)
	product := env.seedProduct(t, "Sticker Pack", "4.25", 100)

	_, session := env.do(t, "", http.MethodPost, "/cart/items",
		fmt.Sprintf(`{"product_id":%q,"quantity":7}`, product.ID))

	w, _ := env.do(t, session, http.MethodDelete, "/cart", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = env.do(t, session, http.MethodGet, "/cart/count", "")
	count := decodeData[cartapp.ItemCountResponse](t, w)
	assert.Equal(t, int64(0), count.ItemCount)
}

func TestCartHandler_BadInput(t *testing.T) {
	env := newCartTestEnv(t)

	w, _ := env.do(t, "", http.MethodPost, "/cart/items", `{"quantity":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, "", http.MethodPut, "/cart/items/not-a-uuid", `{"quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeBadRequest)
}
