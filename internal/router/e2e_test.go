//go:build integration

package router

// End-to-end tests over real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"korecatalog/internal/config"
	"korecatalog/internal/dto"
	"korecatalog/internal/infra"
	"korecatalog/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

type testEnv struct {
	server *httptest.Server
}

func (e *testEnv) do(t *testing.T, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, e.server.URL+path, body)
	} else {
		req, err = http.NewRequest(method, e.server.URL+path, nil)
	}
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

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16",
		tcPostgres.WithDatabase("korecatalog_test"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(context.Background()) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                     8000,
		Env:                      "test",
		JWTSecret:                "test-secret-key",
		JWTExpirationHours:       1,
		JWTRefreshHours:          24,
		DatabaseURL:              pgURL,
		RedisURL:                 rdURL,
		WorkerPoolSize:           1,
		DashboardCacheTTLSeconds: 60,
		CatalogCacheTTLSeconds:   60,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	dispatcher := worker.NewDispatcher(rdb)
	r := New(cfg, db, rdb, dispatcher)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv}
}

func registerAndLogin(t *testing.T, env *testEnv, username string) string {
	t.Helper()
	resp := env.do(t, "POST", "/v1/auth/register",
		jsonBody(t, map[string]string{"username": username, "password": "hunter2hunter2"}), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": username, "password": "hunter2hunter2"}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	decodeJSON(t, resp, &login)
	require.NotEmpty(t, login.AccessToken)
	return login.AccessToken
}

func TestE2E_ProductLedgerCycle(t *testing.T) {
	env := setupTestEnv(t)
	token := registerAndLogin(t, env, "merchant")

	// Create a product with opening stock — expect an opening ledger row.
	resp := env.do(t, "POST", "/v1/products", jsonBody(t, map[string]any{
		"name": "Espresso Beans", "price": "12.50", "stock": 10, "min_stock": 3, "public": true,
	}), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product dto.ProductResponse
	decodeJSON(t, resp, &product)
	require.NotEmpty(t, product.ID)
	assert.Equal(t, 10, product.Stock)

	// Outbound movement within balance.
	resp = env.do(t, "POST", "/v1/products/"+product.ID+"/movements", jsonBody(t, map[string]any{
		"direction": "OUT", "quantity": 4, "reason": "weekend sales",
	}), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var mv dto.MovementResponse
	decodeJSON(t, resp, &mv)
	assert.Equal(t, 10, mv.StockBefore)
	assert.Equal(t, 6, mv.StockAfter)

	// Overdraw is rejected with 409 and leaves the balance untouched.
	resp = env.do(t, "POST", "/v1/products/"+product.ID+"/movements", jsonBody(t, map[string]any{
		"direction": "OUT", "quantity": 100,
	}), token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Ledger has the opening row plus one OUT.
	resp = env.do(t, "GET", "/v1/movements", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.MovementListResponse
	decodeJSON(t, resp, &list)
	assert.Equal(t, int64(2), list.Total)

	resp = env.do(t, "GET", "/v1/movements/summary", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary dto.MovementSummaryResponse
	decodeJSON(t, resp, &summary)
	assert.Equal(t, int64(10), summary.TotalIn)
	assert.Equal(t, int64(4), summary.TotalOut)
	assert.Equal(t, int64(6), summary.Net)

	// PDF export responds with an actual document.
	resp = env.do(t, "GET", "/v1/movements/export.pdf", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdfBytes, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
}

func TestE2E_DirectStockEditBecomesAdjustment(t *testing.T) {
	env := setupTestEnv(t)
	token := registerAndLogin(t, env, "adjuster")

	resp := env.do(t, "POST", "/v1/products", jsonBody(t, map[string]any{
		"name": "Notebooks", "price": "3.00", "stock": 7,
	}), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product dto.ProductResponse
	decodeJSON(t, resp, &product)

	stock := 4
	resp = env.do(t, "PUT", "/v1/products/"+product.ID, jsonBody(t, map[string]any{
		"stock": stock,
	}), token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated dto.ProductResponse
	decodeJSON(t, resp, &updated)
	assert.Equal(t, 4, updated.Stock)

	resp = env.do(t, "GET", "/v1/movements?product="+product.ID+"&direction=OUT", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.MovementListResponse
	decodeJSON(t, resp, &list)
	require.Equal(t, int64(1), list.Total)
	assert.Equal(t, "manual adjustment", list.Data[0].Reason)
	assert.Equal(t, 3, list.Data[0].Quantity)
}

func TestE2E_PriceHistoryAndDashboard(t *testing.T) {
	env := setupTestEnv(t)
	token := registerAndLogin(t, env, "pricer")

	resp := env.do(t, "POST", "/v1/products", jsonBody(t, map[string]any{
		"name": "Grinder", "price": "100.00", "stock": 1,
	}), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product dto.ProductResponse
	decodeJSON(t, resp, &product)

	for _, price := range []string{"120.00", "120.00", "90.00"} {
		resp = env.do(t, "PUT", "/v1/products/"+product.ID, jsonBody(t, map[string]any{
			"price": price,
		}), token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	// The repeated 120.00 save must not have produced a duplicate entry.
	resp = env.do(t, "GET", "/v1/products/"+product.ID+"/price-history", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history dto.PriceHistoryListResponse
	decodeJSON(t, resp, &history)
	assert.Equal(t, int64(3), history.Total, "100 → 120 → 90; duplicate 120 skipped")
	assert.True(t, decimal.RequireFromString("90").Equal(history.Data[0].Price))

	resp = env.do(t, "GET", "/v1/price-history/dashboard", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dash dto.PriceDashboardResponse
	decodeJSON(t, resp, &dash)
	assert.Equal(t, int64(3), dash.TotalEntries)
	assert.Equal(t, 1, dash.ProductCount)
	require.Len(t, dash.Products, 1)
	assert.Equal(t, "down", dash.Products[0].Trend)
	require.NotNil(t, dash.TopDecrease)
	assert.True(t, decimal.RequireFromString("25").Equal(dash.TopDecrease.Percent),
		"120 → 90 is a 25%% drop")
}

func TestE2E_PublicCatalog(t *testing.T) {
	env := setupTestEnv(t)
	token := registerAndLogin(t, env, "storefront")

	for i, pub := range []bool{true, false} {
		resp := env.do(t, "POST", "/v1/products", jsonBody(t, map[string]any{
			"name": fmt.Sprintf("Item %d", i), "price": "5.00", "public": pub,
		}), token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// No auth header — the catalog is public and only lists public products.
	resp := env.do(t, "GET", "/v1/catalog?owner=storefront", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listing struct {
		Data  []map[string]any `json:"data"`
		Total int64            `json:"total"`
	}
	decodeJSON(t, resp, &listing)
	assert.Equal(t, int64(1), listing.Total)
	require.Len(t, listing.Data, 1)
	assert.Equal(t, "Item 0", listing.Data[0]["name"])
}
