package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/deliverydesk-backend/pkg/config"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db"
	"github.com/angelmondragon/deliverydesk-backend/pkg/db/dbtest"
	"github.com/angelmondragon/deliverydesk-backend/pkg/logger"
	"github.com/angelmondragon/deliverydesk-backend/pkg/metrics"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type testServer struct {
	handler http.Handler
	client  *db.Client
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	client := dbtest.Open(t)
	cfg := &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev},
		DB:  config.DBConfig{Driver: config.DriverSQLite},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8 * 1024,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
		IDs:   config.IDConfig{SnowflakeNode: 7},
		Stats: config.StatsConfig{Weeks: 4, Months: 3},
	}
	logg := logger.New(logger.Options{ServiceName: "api-test", Output: io.Discard})

	reg := prometheus.NewRegistry()
	svc, err := BuildServices(cfg, logg, client, metrics.NewOperationMetrics(reg))
	require.NoError(t, err)

	return testServer{
		handler: NewRouter(cfg, logg, client, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), svc),
		client:  client,
	}
}

func (s testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader).WithContext(context.Background())
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := srv.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, config.AppEnvDev, rec.Header().Get("X-DeliveryDesk-Env"))

	rec, env := srv.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "ready")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestVendorOrderLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	fx := dbtest.StockedFixture(t, srv.client, 100, 20)

	place := func(qty int) (*httptest.ResponseRecorder, envelope) {
		return srv.do(t, http.MethodPost, "/api/v1/orders/vendor", map[string]any{
			"vendor_id":    fx.Vendor.ID,
			"warehouse_id": fx.Warehouse.ID,
			"product_id":   fx.Product.ID,
			"quantity":     qty,
			"cost":         "50.00",
			"destination":  "12 Harbour Road",
		})
	}

	rec, env := place(15)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order struct {
		ID          string `json:"id"`
		OrderNumber string `json:"order_number"`
		Kind        string `json:"kind"`
		Status      string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, "vendor", order.Kind)
	assert.Equal(t, "PENDING", order.Status)
	assert.Regexp(t, `^ORD-`, order.OrderNumber)

	rec, env = place(10)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Error.Code)
	assert.NotNil(t, env.Error.Details["lines"])
	assert.Equal(t, 5, dbtest.InventorySum(t, srv.client, fx.Warehouse.ID))

	rec, _ = srv.do(t, http.MethodGet, "/api/v1/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = srv.do(t, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", map[string]any{"status": "cancelled"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(env.Data), "CANCELLED")
	assert.Equal(t, 20, dbtest.InventorySum(t, srv.client, fx.Warehouse.ID))

	rec, env = srv.do(t, http.MethodPatch, "/api/v1/orders/"+order.ID+"/status", map[string]any{"status": "PENDING"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "STATE_CONFLICT", env.Error.Code)

	rec, _ = srv.do(t, http.MethodDelete, "/api/v1/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = srv.do(t, http.MethodGet, "/api/v1/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = srv.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "deliverydesk_operation_total")
}

func TestRejectsMalformedRequests(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodPost, "/api/v1/orders/client", map[string]any{"unknown": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	rec, _ = srv.do(t, http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = srv.do(t, http.MethodGet, "/api/v1/accounting/summary?period=yearly", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = srv.do(t, http.MethodGet, "/api/v1/inventory?cursor=not-a-cursor", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransferAndInventoryOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	fx := dbtest.StockedFixture(t, srv.client, 100, 8)
	dest := dbtest.Warehouse(t, srv.client, 100)
	dbtest.Link(t, srv.client, fx.Vendor.ID, dest.ID)

	rec, env := srv.do(t, http.MethodPost, "/api/v1/transfers", map[string]any{
		"vendor_id":         fx.Vendor.ID,
		"from_warehouse_id": fx.Warehouse.ID,
		"to_warehouse_id":   dest.ID,
		"items":             []map[string]any{{"product_id": fx.Product.ID, "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, string(env.Data), "TRF-")

	rec, env = srv.do(t, http.MethodGet, "/api/v1/inventory?vendor_id="+fx.Vendor.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items []struct {
			WarehouseID string `json:"warehouse_id"`
			Quantity    int    `json:"quantity"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 2)
	total := 0
	for _, item := range page.Items {
		total += item.Quantity
	}
	assert.Equal(t, 8, total)

	rec, _ = srv.do(t, http.MethodPost, "/api/v1/inventory/stock", map[string]any{
		"vendor_id":    fx.Vendor.ID,
		"warehouse_id": dest.ID,
		"product_id":   fx.Product.ID,
		"quantity":     2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	items, _ := dbtest.WarehouseItems(t, srv.client, dest.ID)
	assert.Equal(t, 5, items)

	rec, _ = srv.do(t, http.MethodPost, "/api/v1/warehouses/reconcile", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthVerifyOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := srv.do(t, http.MethodPost, "/api/v1/users", map[string]any{
		"full_name": "Desk Operator",
		"email":     "Desk@Example.com",
		"password":  "correct-horse",
		"role":      "staff",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := srv.do(t, http.MethodPost, "/api/v1/auth/verify", map[string]any{
		"email":    "desk@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(env.Data), "desk@example.com")

	rec, env = srv.do(t, http.MethodPost, "/api/v1/auth/verify", map[string]any{
		"email":    "desk@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}
