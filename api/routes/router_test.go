package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/rocketshoes-cart/internal/cart"
	"github.com/angelmondragon/rocketshoes-cart/internal/catalog"
	"github.com/angelmondragon/rocketshoes-cart/internal/notifications"
	"github.com/angelmondragon/rocketshoes-cart/internal/storage"
	"github.com/angelmondragon/rocketshoes-cart/pkg/config"
	"github.com/angelmondragon/rocketshoes-cart/pkg/metrics"
)

func newStorefront(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/stock/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch chi.URLParam(r, "id") {
		case "1":
			_, _ = io.WriteString(w, `{"id":1,"amount":2}`)
		case "2":
			_, _ = io.WriteString(w, `{"id":2,"amount":5}`)
		default:
			http.NotFound(w, r)
		}
	})
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch chi.URLParam(r, "id") {
		case "1":
			_, _ = io.WriteString(w, `{"id":1,"title":"Tenis de Caminhada","price":179.9,"image":"1.jpg"}`)
		case "2":
			_, _ = io.WriteString(w, `{"id":2,"title":"Bota","price":"100.00","image":"2.jpg"}`)
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

type apiFixture struct {
	handler http.Handler
	kv      *storage.Memory
	feed    *notifications.Feed
}

func newFixture(t *testing.T) apiFixture {
	t.Helper()

	client, err := catalog.NewClient(newStorefront(t).URL)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	kv := storage.NewMemory()
	feed := notifications.NewFeed(10, nil)
	store, err := cart.Open(context.Background(), cart.Params{
		Catalog:  client,
		Storage:  kv,
		Notifier: feed,
		Metrics:  metrics.NewCartMetrics(reg),
	})
	require.NoError(t, err)

	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	handler := NewRouter(cfg, nil, kv, store, feed, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return apiFixture{handler: handler, kv: kv, feed: feed}
}

func (f apiFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

type cartEnvelope struct {
	Data struct {
		Items []struct {
			ID     int `json:"id"`
			Amount int `json:"amount"`
		} `json:"items"`
		TotalItems int    `json:"total_items"`
		Subtotal   string `json:"subtotal"`
	} `json:"data"`
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartEnvelope {
	t.Helper()
	var env cartEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestHealthRoutes(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health/live", "").Code)
	rec := f.do(t, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"storage":"up"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestCartFlow(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeCart(t, rec).Data.TotalItems)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":1}`).Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":2}`).Code)
	rec = f.do(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeCart(t, rec)
	assert.Equal(t, 2, env.Data.TotalItems)
	assert.Equal(t, "459.8", env.Data.Subtotal)

	rec = f.do(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), cart.MessageOutOfStock)

	rec = f.do(t, http.MethodPatch, "/api/v1/cart/items/2", `{"amount":4}`)
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeCart(t, rec)
	assert.Equal(t, 4, env.Data.Items[1].Amount)

	rec = f.do(t, http.MethodPatch, "/api/v1/cart/items/2", `{"amount":6}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/cart/items/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeCart(t, rec)
	require.Len(t, env.Data.Items, 1)
	assert.Equal(t, 2, env.Data.Items[0].ID)

	rec = f.do(t, http.MethodDelete, "/api/v1/cart/items/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), cart.MessageRemoveFailed)

	raw, found, err := f.kv.Get(context.Background(), cart.DefaultStorageKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, raw, `"id":2`)
	assert.Contains(t, raw, `"amount":4`)
}

func TestUnknownProductIsDependencyError(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":99}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), cart.MessageAddFailed)

	rec = f.do(t, http.MethodGet, "/api/v1/notifications", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), cart.MessageAddFailed)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":1}`)

	rec := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `cart_operation_total{operation="add",outcome="ok"} 1`)
	assert.Contains(t, body, "cart_line_items 1")
}

func TestMetricsUnmountedWithoutHandler(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	handler := NewRouter(cfg, nil, nil, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
