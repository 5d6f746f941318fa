//go:build integration

package router_test

// End-to-end integration tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/synergymahi/mahi-agri-app-sub000/internal/config"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/infra"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/model"
	"github.com/synergymahi/mahi-agri-app-sub000/internal/router"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
	rdb    *redis.Client
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("farmgate_test"),
		tcPostgres.WithUsername("farmgate"),
		tcPostgres.WithPassword("farmgate"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		MarketFeedURL:      "http://localhost:9999", // unused here
		WorkerPoolSize:     1,
		ReceiptStoragePath: t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// NewDatabase has already migrated the throwaway schema.

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("farmgate2026"), 12)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.User{
		Username:     "admin.e2e",
		Name:         "Admin E2E",
		PasswordHash: string(hash),
		Role:         "admin",
		Active:       true,
	}).Error)

	marketCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	r := router.New(cfg, db, rdb, marketCB)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin.e2e", "password": "farmgate2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken, rdb: rdb}
}

func createItem(t *testing.T, env *testEnv, name string, threshold float64) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/items",
		jsonBody(t, map[string]any{
			"name":          name,
			"category":      "FEED",
			"unit":          "kg",
			"min_threshold": threshold,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &item)
	return item.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full ledger cycle: create item → stock in → stock out → verify on-hand.
func TestE2E_MovementLedgerCycle(t *testing.T) {
	env := setupTestEnv(t)
	itemID := createItem(t, env, "Starter feed", 10)

	inResp := do(t, env.server, "POST", "/v1/items/"+itemID+"/movements",
		jsonBody(t, map[string]any{
			"direction":   "IN",
			"quantity":    50,
			"occurred_at": "2026-03-10",
			"cost":        120.50,
		}), env.token)
	require.Equal(t, http.StatusCreated, inResp.StatusCode)

	outResp := do(t, env.server, "POST", "/v1/items/"+itemID+"/movements",
		jsonBody(t, map[string]any{
			"direction":   "OUT",
			"quantity":    20,
			"occurred_at": "2026-03-11",
		}), env.token)
	require.Equal(t, http.StatusCreated, outResp.StatusCode)

	itemResp := do(t, env.server, "GET", "/v1/items/"+itemID, nil, env.token)
	require.Equal(t, http.StatusOK, itemResp.StatusCode)
	var item struct {
		Quantity decimal.Decimal `json:"quantity"`
		LowStock bool            `json:"low_stock"`
	}
	decodeJSON(t, itemResp, &item)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(30)), "on hand = %s", item.Quantity)
	assert.False(t, item.LowStock)
}

// Stock may never go negative: the offending movement is rejected with 409
// and nothing is written.
func TestE2E_InsufficientStockRejected(t *testing.T) {
	env := setupTestEnv(t)
	itemID := createItem(t, env, "Vaccine doses", 5)

	inResp := do(t, env.server, "POST", "/v1/items/"+itemID+"/movements",
		jsonBody(t, map[string]any{
			"direction":   "IN",
			"quantity":    10,
			"occurred_at": "2026-03-10",
		}), env.token)
	require.Equal(t, http.StatusCreated, inResp.StatusCode)

	outResp := do(t, env.server, "POST", "/v1/items/"+itemID+"/movements",
		jsonBody(t, map[string]any{
			"direction":   "OUT",
			"quantity":    25,
			"occurred_at": "2026-03-11",
		}), env.token)
	assert.Equal(t, http.StatusConflict, outResp.StatusCode)
	outResp.Body.Close()

	itemResp := do(t, env.server, "GET", "/v1/items/"+itemID, nil, env.token)
	require.Equal(t, http.StatusOK, itemResp.StatusCode)
	var item struct {
		Quantity decimal.Decimal `json:"quantity"`
	}
	decodeJSON(t, itemResp, &item)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(10)), "on hand = %s", item.Quantity)
}

// Amending a movement reconciles on-hand by compensating delta, not replay.
func TestE2E_AmendMovementReconcilesQuantity(t *testing.T) {
	env := setupTestEnv(t)
	itemID := createItem(t, env, "Layer pellets", 10)

	inResp := do(t, env.server, "POST", "/v1/items/"+itemID+"/movements",
		jsonBody(t, map[string]any{
			"direction":   "IN",
			"quantity":    50,
			"occurred_at": "2026-03-10",
		}), env.token)
	require.Equal(t, http.StatusCreated, inResp.StatusCode)
	var mov struct {
		ID string `json:"id"`
	}
	decodeJSON(t, inResp, &mov)

	amendResp := do(t, env.server, "PUT", "/v1/movements/"+mov.ID,
		jsonBody(t, map[string]any{
			"direction":   "IN",
			"quantity":    70,
			"occurred_at": "2026-03-10",
		}), env.token)
	require.Equal(t, http.StatusOK, amendResp.StatusCode)

	itemResp := do(t, env.server, "GET", "/v1/items/"+itemID, nil, env.token)
	require.Equal(t, http.StatusOK, itemResp.StatusCode)
	var item struct {
		Quantity decimal.Decimal `json:"quantity"`
	}
	decodeJSON(t, itemResp, &item)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(70)), "on hand = %s", item.Quantity)
}

// Draft listings are invisible on the public market endpoint until published.
func TestE2E_ListingPublishFlow(t *testing.T) {
	env := setupTestEnv(t)

	createResp := do(t, env.server, "POST", "/v1/listings",
		jsonBody(t, map[string]any{
			"title":    "Maize, new harvest",
			"category": "maize",
			"price":    25,
			"unit":     "kg",
			"quantity": 800,
		}), env.token)
	require.Equal(t, http.StatusCreated, createResp.StatusCode)
	var listing struct {
		ID string `json:"id"`
	}
	decodeJSON(t, createResp, &listing)

	browse := func() int {
		resp := do(t, env.server, "GET", "/v1/market/listings", nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			Total int `json:"total"`
		}
		decodeJSON(t, resp, &body)
		return body.Total
	}
	assert.Equal(t, 0, browse())

	pubResp := do(t, env.server, "POST", "/v1/listings/"+listing.ID+"/publish", nil, env.token)
	require.Equal(t, http.StatusOK, pubResp.StatusCode)
	pubResp.Body.Close()

	assert.Equal(t, 1, browse())
}

// Two withdrawals racing for the same stock: the row lock serializes them, so
// exactly one commits and the other is rejected once the balance is gone.
func TestE2E_ConcurrentAppendsSerialized(t *testing.T) {
	env := setupTestEnv(t)
	itemID := createItem(t, env, "Diesel", 0)

	seedResp := do(t, env.server, "POST", "/v1/items/"+itemID+"/movements",
		jsonBody(t, map[string]any{
			"direction":   "IN",
			"quantity":    40,
			"occurred_at": "2026-03-10",
		}), env.token)
	require.Equal(t, http.StatusCreated, seedResp.StatusCode)
	seedResp.Body.Close()

	results := make(chan int, 2)
	for i := 0; i < 2; i++ {
		go func() {
			body, _ := json.Marshal(map[string]any{
				"direction":   "OUT",
				"quantity":    30,
				"occurred_at": "2026-03-11",
			})
			req, err := http.NewRequest("POST", env.server.URL+"/v1/items/"+itemID+"/movements", bytes.NewReader(body))
			if err != nil {
				results <- 0
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+env.token)
			resp, err := env.server.Client().Do(req)
			if err != nil {
				results <- 0
				return
			}
			resp.Body.Close()
			results <- resp.StatusCode
		}()
	}
	codes := []int{<-results, <-results}
	sort.Ints(codes)
	assert.Equal(t, []int{http.StatusCreated, http.StatusConflict}, codes)

	itemResp := do(t, env.server, "GET", "/v1/items/"+itemID, nil, env.token)
	require.Equal(t, http.StatusOK, itemResp.StatusCode)
	var item struct {
		Quantity decimal.Decimal `json:"quantity"`
	}
	decodeJSON(t, itemResp, &item)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(10)), "on hand = %s", item.Quantity)
}

// Crossing the threshold twice in one day produces a single queued alert: the
// second crossing hits the per-item daily dedup key.
func TestE2E_LowStockAlertDedupedPerDay(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	itemID := createItem(t, env, "Antibiotic", 10)

	move := func(direction string, qty int) {
		t.Helper()
		resp := do(t, env.server, "POST", "/v1/items/"+itemID+"/movements",
			jsonBody(t, map[string]any{
				"direction":   direction,
				"quantity":    qty,
				"occurred_at": "2026-03-10",
			}), env.token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// No worker pool runs in this harness, so queued jobs stay put.
	move("IN", 20)  // 20 on hand, above threshold
	move("OUT", 15) // 5 on hand — first crossing

	queued, err := env.rdb.LLen(ctx, "jobs:alerts").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, queued)

	move("IN", 10)  // back to 15, above threshold
	move("OUT", 10) // 5 on hand — second crossing, same day

	queued, err = env.rdb.LLen(ctx, "jobs:alerts").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, queued, "second crossing must be deduplicated")
}

func TestE2E_HealthEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/health", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		OK    bool   `json:"ok"`
		DB    string `json:"db"`
		Redis string `json:"redis"`
	}
	decodeJSON(t, resp, &body)
	assert.True(t, body.OK)
	assert.Equal(t, "connected", body.DB)
	assert.Equal(t, "connected", body.Redis)
}
