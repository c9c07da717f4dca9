//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/venky2821/finalproject/internal/config"
	"github.com/venky2821/finalproject/internal/infra"
	"github.com/venky2821/finalproject/internal/metrics"
	"github.com/venky2821/finalproject/internal/model"
	"github.com/venky2821/finalproject/internal/router"
	"github.com/venky2821/finalproject/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
	admin  string
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	resp, err := e.server.Client().Post(e.server.URL+"/token", "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, resp, &tok)
	return tok.AccessToken
}

func (e *testEnv) product(t *testing.T, name string) model.Product {
	t.Helper()
	var p model.Product
	require.NoError(t, e.db.Where("name = ?", name).First(&p).Error)
	return p
}

func (e *testEnv) addProduct(t *testing.T, name string, stock int, price string) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/products/add", map[string]any{
		"name": name, "category": "apparel", "stock_level": stock,
		"reorder_threshold": 1, "cost_price": "1.00", "price": price,
	}, e.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

// ── Suite setup ──────────────────────────────────────────────────────────────

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	gin.SetMode(gin.TestMode)

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("merch_test"),
		tcPostgres.WithUsername("merch"),
		tcPostgres.WithPassword("merch"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(pgC) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(rdC) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                     "test",
		JWTSecret:               "test-secret-key",
		JWTExpirationMinutes:    30,
		ResetTokenSecret:        "test-reset-secret",
		ResetTokenMinutes:       60,
		DatabaseURL:             pgURL,
		RedisURL:                rdURL,
		ProductCacheTTL:         time.Second,
		MediaRoot:               t.TempDir(),
		PublicBaseURL:           "http://localhost:8000",
		RateLimitPerMinute:      1000,
		LoginRateLimitPerMinute: 20,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.User{
		Email: "admin@e2e.test", Username: "admin", PasswordHash: string(hash),
		PasswordHistory: []string{string(hash)}, IsActive: true, RoleID: model.RoleAdmin,
	}).Error)

	engine := router.New(cfg, db, rdb, infra.NewCircuitBreaker(infra.DefaultCBConfig()),
		metrics.NewNoop(), worker.NewDispatcher(rdb))
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	env := &testEnv{server: srv, db: db}
	env.admin = env.login(t, "admin@e2e.test", "admin-pass")
	return env
}

func (e *testEnv) registerCustomer(t *testing.T, email, username string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/register", map[string]string{
		"email": email, "username": username, "password": "customer-pass",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	return e.login(t, email, "customer-pass")
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_ReserveRejectRestoresStock(t *testing.T) {
	env := setupTestEnv(t)
	customer := env.registerCustomer(t, "cust@e2e.test", "cust")
	env.addProduct(t, "Hoodie", 10, "40.00")

	resp := env.do(t, http.MethodPost, "/reserve", []map[string]any{{"product_id": "Hoodie", "quantity": 3}}, customer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reserved struct {
		OrderID string `json:"order_id"`
	}
	decodeJSON(t, resp, &reserved)

	p := env.product(t, "Hoodie")
	assert.Equal(t, 7, p.StockLevel)
	assert.Equal(t, 3, p.ReservedStock)

	var order model.Order
	require.NoError(t, env.db.Preload("Items").First(&order, "id = ?", reserved.OrderID).Error)
	assert.Equal(t, model.OrderReserved, order.Status)
	assert.Equal(t, "120", order.TotalPrice.String())

	// Customers cannot moderate
	resp = env.do(t, http.MethodPost, "/approve-purchase/"+reserved.OrderID, nil, customer)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/reject-purchase/"+reserved.OrderID, map[string]string{"reason": "sold elsewhere"}, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	p = env.product(t, "Hoodie")
	assert.Equal(t, 10, p.StockLevel)
	assert.Equal(t, 0, p.ReservedStock)

	// Rejected orders are no longer reserved
	resp = env.do(t, http.MethodPost, "/approve-purchase/"+reserved.OrderID, nil, env.admin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_ReservationIsAllOrNothing(t *testing.T) {
	env := setupTestEnv(t)
	customer := env.registerCustomer(t, "atomic@e2e.test", "atomic")
	env.addProduct(t, "Mug", 10, "8.00")
	env.addProduct(t, "Pin", 2, "3.00")

	resp := env.do(t, http.MethodPost, "/reserve", []map[string]any{
		{"product_id": "Mug", "quantity": 4},
		{"product_id": "Pin", "quantity": 5},
	}, customer)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(t, 10, env.product(t, "Mug").StockLevel, "earlier line must be rolled back")
	assert.Equal(t, 0, env.product(t, "Mug").ReservedStock)
	assert.Equal(t, 2, env.product(t, "Pin").StockLevel)

	var orders, items, reserves int64
	require.NoError(t, env.db.Model(&model.Order{}).Count(&orders).Error)
	require.NoError(t, env.db.Model(&model.OrderItem{}).Count(&items).Error)
	require.NoError(t, env.db.Model(&model.StockMovement{}).Where("movement_type = ?", "reserve").Count(&reserves).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Zero(t, reserves)
}

func TestE2E_ApproveReorderCancel(t *testing.T) {
	env := setupTestEnv(t)
	customer := env.registerCustomer(t, "loop@e2e.test", "loop")
	env.addProduct(t, "Cap", 5, "15.00")

	resp := env.do(t, http.MethodPost, "/reserve", []map[string]any{{"product_id": "Cap", "quantity": 2}}, customer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first struct {
		OrderID string `json:"order_id"`
	}
	decodeJSON(t, resp, &first)

	resp = env.do(t, http.MethodPost, "/approve-purchase/"+first.OrderID, nil, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	p := env.product(t, "Cap")
	assert.Equal(t, 3, p.StockLevel)
	assert.Equal(t, 0, p.ReservedStock)

	// Completed orders cannot be cancelled, only reordered.
	resp = env.do(t, http.MethodPut, "/orders/"+first.OrderID+"/cancel", nil, customer)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/orders/"+first.OrderID+"/reorder", nil, customer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reorder struct {
		NewOrderID string `json:"new_order_id"`
	}
	decodeJSON(t, resp, &reorder)
	assert.Equal(t, 3, env.product(t, "Cap").StockLevel, "reorder touches no stock")

	// Cancelling a fresh reservation gives the units back.
	resp = env.do(t, http.MethodPost, "/reserve", []map[string]any{{"product_id": "Cap", "quantity": 1}}, customer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var second struct {
		OrderID string `json:"order_id"`
	}
	decodeJSON(t, resp, &second)

	resp = env.do(t, http.MethodPut, "/orders/"+second.OrderID+"/cancel", nil, customer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	p = env.product(t, "Cap")
	assert.Equal(t, 3, p.StockLevel)
	assert.Equal(t, 0, p.ReservedStock)

	// Someone else's order
	other := env.registerCustomer(t, "other@e2e.test", "other")
	resp = env.do(t, http.MethodPut, "/orders/"+reorder.NewOrderID+"/cancel", nil, other)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/orders/customer", nil, customer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine []map[string]any
	decodeJSON(t, resp, &mine)
	assert.Len(t, mine, 3)
}

func TestE2E_ReportsAndHealth(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/reports/stock-turnover/export/csv", nil, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "attachment; filename=stock_turnover_all_all.csv", resp.Header.Get("Content-Disposition"))
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/reports/batch-aging?start_date=2024/01/01", nil, env.admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_ReportsCountCompletedSalesOnly(t *testing.T) {
	env := setupTestEnv(t)
	customer := env.registerCustomer(t, "reports@e2e.test", "reports")
	env.addProduct(t, "Tee", 10, "20.00")
	env.addProduct(t, "Sticker", 5, "2.00")

	reserve := func(qty int) string {
		resp := env.do(t, http.MethodPost, "/reserve", []map[string]any{{"product_id": "Tee", "quantity": qty}}, customer)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out struct {
			OrderID string `json:"order_id"`
		}
		decodeJSON(t, resp, &out)
		return out.OrderID
	}
	approved, rejected := reserve(3), reserve(2)

	resp := env.do(t, http.MethodPost, "/approve-purchase/"+approved, nil, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = env.do(t, http.MethodPost, "/reject-purchase/"+rejected, map[string]string{"reason": "out of season"}, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/reports/top-selling-products", nil, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var top struct {
		TopSellingProducts []struct {
			Name      string `json:"name"`
			TotalSold int64  `json:"total_sold"`
		} `json:"top_selling_products"`
	}
	decodeJSON(t, resp, &top)
	require.Len(t, top.TopSellingProducts, 1, "rejected reservations are not sales")
	assert.Equal(t, "Tee", top.TopSellingProducts[0].Name)
	assert.EqualValues(t, 3, top.TopSellingProducts[0].TotalSold)

	// No movement falls inside this window; in-stock products are still listed.
	resp = env.do(t, http.MethodGet, "/reports/stock-turnover?start_date=2000-01-01&end_date=2000-01-31", nil, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var turnover struct {
		StockTurnover []struct {
			Name         string  `json:"name"`
			TurnoverRate float64 `json:"turnover_rate"`
		} `json:"stock_turnover"`
	}
	decodeJSON(t, resp, &turnover)
	require.Len(t, turnover.StockTurnover, 2)
	assert.Equal(t, "Sticker", turnover.StockTurnover[0].Name)
	assert.Equal(t, "Tee", turnover.StockTurnover[1].Name)
	for _, row := range turnover.StockTurnover {
		assert.Zero(t, row.TurnoverRate, row.Name)
	}
}
