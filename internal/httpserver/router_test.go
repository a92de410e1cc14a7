package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cart-pricing/internal/obs"
	"cart-pricing/internal/pricing"
	cartrepo "cart-pricing/internal/repository/cart"
	customerrepo "cart-pricing/internal/repository/customer"
	productrepo "cart-pricing/internal/repository/product"
	cartsvc "cart-pricing/internal/service/cart"
	"cart-pricing/internal/service/catalog"
	pricingsvc "cart-pricing/internal/service/pricing"
)

func newTestRouter(t *testing.T, mutate ...func(*Deps)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	products := productrepo.NewSeededMemory()
	customers := customerrepo.NewSeededMemory()
	carts := cartrepo.NewMemory()
	reg := prometheus.NewRegistry()
	pm := obs.NewPricingMetrics("test", reg)

	deps := Deps{
		Carts:    cartsvc.New(carts, products, nil, nil),
		Pricing:  pricingsvc.New(carts, customers, pricing.NewEngine(pricing.WithObserver(pm.Observe)), nil),
		Catalog:  catalog.New(products, customers),
		Metrics:  obs.NewHTTPMetrics("test", reg),
		Gatherer: reg,
	}
	for _, fn := range mutate {
		fn(&deps)
	}
	return buildRouter(zerolog.Nop(), deps)
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func addItem(t *testing.T, r http.Handler, cartID, productID string, qty int, customerID string) map[string]any {
	t.Helper()
	rec, out := do(t, r, http.MethodPost, "/api/cart/add", gin.H{
		"cartId": cartID, "productId": productID, "quantity": qty, "customerId": customerID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return out
}

func TestHealthAndReady(t *testing.T) {
	r := newTestRouter(t)
	rec, out := do(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", out["status"])

	rec, out = do(t, r, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", out["status"])

	r = newTestRouter(t, func(d *Deps) {
		d.Checks = []ReadinessCheck{{Name: "redis", Ping: func(context.Context) error { return errors.New("down") }}}
	})
	rec, out = do(t, r, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "redis not reachable", out["reason"])
}

func TestListProductsAndCustomers(t *testing.T) {
	r := newTestRouter(t)

	rec, out := do(t, r, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products := out["products"].([]any)
	require.Len(t, products, 3)
	first := products[0].(map[string]any)
	assert.Equal(t, "tshirt", first["id"])
	assert.Equal(t, 35.99, first["price"])

	_, out = do(t, r, http.MethodGet, "/api/products?category=jean", nil)
	assert.Len(t, out["products"].([]any), 1)

	rec, out = do(t, r, http.MethodGet, "/api/products/hat", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", out["error"])

	_, out = do(t, r, http.MethodGet, "/api/customers", nil)
	customers := out["customers"].([]any)
	require.Len(t, customers, 2)
	assert.Equal(t, "vip", customers[1].(map[string]any)["type"])

	rec, out = do(t, r, http.MethodGet, "/api/customers/vip-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Larissa Costa", out["customer"].(map[string]any)["name"])
}

func TestAddItem(t *testing.T) {
	r := newTestRouter(t)

	out := addItem(t, r, "cart-1", "tshirt", 2, "vip-1")
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Added 2 T-shirt(s) to cart", out["message"])
	cart := out["cart"].(map[string]any)
	assert.Equal(t, "vip-1", cart["customerId"])
	assert.EqualValues(t, 2, cart["totalItems"])
	assert.Equal(t, 71.98, cart["totalPrice"])

	tests := []struct {
		name string
		body gin.H
		want string
	}{
		{"missing quantity", gin.H{"cartId": "c", "productId": "tshirt", "customerId": "u"}, "Missing required fields: cartId, productId, quantity, customerId"},
		{"missing cart", gin.H{"productId": "tshirt", "quantity": 1, "customerId": "u"}, "Missing required fields: cartId, productId, quantity, customerId"},
		{"zero quantity", gin.H{"cartId": "c", "productId": "tshirt", "quantity": 0, "customerId": "u"}, "Quantity must be greater than 0"},
		{"unknown product", gin.H{"cartId": "c", "productId": "hat", "quantity": 1, "customerId": "u"}, "Product not found"},
		{"non-numeric quantity", gin.H{"cartId": "c", "productId": "tshirt", "quantity": "two", "customerId": "u"}, "Quantity must be greater than 0"},
		{"null quantity", gin.H{"cartId": "c", "productId": "tshirt", "quantity": nil, "customerId": "u"}, "Missing required fields: cartId, productId, quantity, customerId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := do(t, r, http.MethodPost, "/api/cart/add", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, out["error"])
		})
	}
}

func TestAddItemAcceptsNumericStringQuantity(t *testing.T) {
	r := newTestRouter(t)

	rec, out := do(t, r, http.MethodPost, "/api/cart/add", gin.H{
		"cartId": "cart-1", "productId": "jeans", "quantity": " 3 ", "customerId": "customer-1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Added 3 Jeans(s) to cart", out["message"])

	rec, out = do(t, r, http.MethodPost, "/api/cart/update", gin.H{"cartId": "cart-1", "productId": "jeans", "quantity": "1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, out["cart"].(map[string]any)["totalItems"])

	// a malformed quantity never reaches the cart, so the line survives
	rec, out = do(t, r, http.MethodPost, "/api/cart/update", gin.H{"cartId": "cart-1", "productId": "jeans", "quantity": "1.5"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Quantity must be greater than 0", out["error"])
	_, out = do(t, r, http.MethodGet, "/api/cart/load?cartId=cart-1", nil)
	assert.EqualValues(t, 1, out["cart"].(map[string]any)["totalItems"])
}

func TestCalculate(t *testing.T) {
	r := newTestRouter(t)
	addItem(t, r, "cart-1", "tshirt", 1, "vip-1")
	addItem(t, r, "cart-1", "jeans", 1, "vip-1")
	addItem(t, r, "cart-1", "dress", 1, "vip-1")

	rec, out := do(t, r, http.MethodPost, "/api/cart/calculate", gin.H{"cartId": "cart-1", "customerId": "vip-1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Price calculated successfully", out["message"])

	p := out["pricing"].(map[string]any)
	best := p["bestOption"].(map[string]any)
	assert.Equal(t, "three_for_two", best["promotionType"])
	assert.Equal(t, 182.24, best["originalPrice"])
	assert.Equal(t, 146.25, best["finalPrice"])
	assert.Equal(t, 35.99, best["discount"])
	assert.Len(t, p["allOptions"].([]any), 3)
	assert.Equal(t,
		"Best deal: Get 3 for 2: 1 group(s) of 3 items, cheapest item free in each group. You save $35.99 (19.7% off)",
		p["recommendation"])

	rec, out = do(t, r, http.MethodPost, "/api/cart/calculate", gin.H{"cartId": "cart-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields: cartId, customerId", out["error"])

	_, out = do(t, r, http.MethodPost, "/api/cart/calculate", gin.H{"cartId": "nope", "customerId": "vip-1"})
	assert.Equal(t, "Cart not found", out["error"])

	_, out = do(t, r, http.MethodPost, "/api/cart/calculate", gin.H{"cartId": "cart-1", "customerId": "ghost"})
	assert.Equal(t, "Customer not found", out["error"])
}

func TestRemoveUpdateClear(t *testing.T) {
	r := newTestRouter(t)
	addItem(t, r, "cart-1", "tshirt", 1, "customer-1")
	addItem(t, r, "cart-1", "jeans", 1, "customer-1")

	rec, out := do(t, r, http.MethodPost, "/api/cart/remove", gin.H{"cartId": "cart-1", "productId": "dress"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found in cart", out["error"])

	rec, out = do(t, r, http.MethodPost, "/api/cart/remove", gin.H{"cartId": "nope", "productId": "dress"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Cart not found", out["error"])

	rec, out = do(t, r, http.MethodPost, "/api/cart/remove", gin.H{"cartId": "cart-1", "productId": "tshirt"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, out["cart"].(map[string]any)["totalItems"])

	rec, out = do(t, r, http.MethodPost, "/api/cart/update", gin.H{"cartId": "cart-1", "productId": "jeans", "quantity": 4})
	require.Equal(t, http.StatusOK, rec.Code)
	cart := out["cart"].(map[string]any)
	assert.EqualValues(t, 4, cart["totalItems"])
	assert.Equal(t, 262.0, cart["totalPrice"])

	rec, out = do(t, r, http.MethodPost, "/api/cart/clear", gin.H{"cartId": "cart-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, out["cart"].(map[string]any)["items"])

	rec, _ = do(t, r, http.MethodPost, "/api/cart/clear", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoadCart(t *testing.T) {
	r := newTestRouter(t)

	rec, out := do(t, r, http.MethodGet, "/api/cart/load?cartId=cart-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, out["cart"])
	assert.Equal(t, "Cart not found", out["message"])

	addItem(t, r, "cart-1", "dress", 1, "vip-1")

	_, out = do(t, r, http.MethodGet, "/api/cart/load?cartId=cart-1", nil)
	assert.Equal(t, "Cart loaded successfully", out["message"])
	assert.Equal(t, "cart-1", out["cart"].(map[string]any)["id"])

	_, out = do(t, r, http.MethodPost, "/api/cart/load", gin.H{"customerId": "vip-1"})
	assert.Equal(t, "cart-1", out["cart"].(map[string]any)["id"])

	rec, out = do(t, r, http.MethodGet, "/api/cart/load", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required field: cartId", out["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	addItem(t, r, "cart-1", "dress", 1, "vip-1")
	do(t, r, http.MethodPost, "/api/cart/calculate", gin.H{"cartId": "cart-1", "customerId": "vip-1"})

	rec, _ := do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `test_pricing_evaluations_total{promotion_type="vip_discount"} 1`)
	assert.Contains(t, body, "test_http_requests_total")
}

func TestCORS(t *testing.T) {
	r := newTestRouter(t, func(d *Deps) { d.CORSAllowedOrigins = []string{"http://shop.test"} })

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "http://shop.test")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "http://shop.test", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
