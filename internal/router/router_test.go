package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"papalote/internal/checkout"
	"papalote/internal/coupon"
	"papalote/internal/handler"
	"papalote/internal/metrics"
	"papalote/internal/model"
	"papalote/internal/search"
	"papalote/internal/service"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

// fakeProductService serves a fixed catalogue.
type fakeProductService struct {
	products []model.Product
}

func (f *fakeProductService) GetAll(_ context.Context, limit, offset int) ([]model.Product, error) {
	if offset >= len(f.products) {
		return []model.Product{}, nil
	}
	end := min(offset+limit, len(f.products))
	return f.products[offset:end], nil
}

func (f *fakeProductService) GetByID(_ context.Context, id string) (*model.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, model.ErrProductNotFound
}

func (f *fakeProductService) GetByIDs(_ context.Context, ids []string) ([]model.Product, error) {
	var out []model.Product
	for _, id := range ids {
		for _, p := range f.products {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *fakeProductService) Search(_ context.Context, query string, opts search.Options) ([]search.Result, error) {
	return search.Products(f.products, query, opts), nil
}

func (f *fakeProductService) Suggestions(_ context.Context, query string, limit int) ([]string, error) {
	return search.Suggestions(f.products, query, limit), nil
}

// fakeOrderService remembers created orders in memory.
type fakeOrderService struct {
	orders map[uuid.UUID]*model.OrderResponse
}

func (f *fakeOrderService) CreateOrder(_ context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, model.ErrEmptyOrder
	}
	resp := &model.OrderResponse{ID: uuid.New()}
	for _, item := range req.Items {
		resp.Items = append(resp.Items, model.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	f.orders[resp.ID] = resp
	return resp, nil
}

func (f *fakeOrderService) GetByID(_ context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

type testServer struct {
	handler http.Handler
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := zerolog.Nop()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	catalog, err := coupon.DefaultCatalog()
	require.NoError(t, err)
	engine := coupon.NewEngine(catalog, logger, coupon.WithClock(func() time.Time {
		return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	}))

	products := &fakeProductService{products: []model.Product{
		{ID: "P001", Name: "Alebrije colibrí", Price: 850, Category: "Alebrijes", Maker: "Taller Jacobo", State: "Oaxaca", Materials: []string{"copal"}},
		{ID: "P002", Name: "Jarro de barro", Price: 180, Category: "Cerámica", Maker: "Familia Pedro", State: "Oaxaca", Materials: []string{"barro"}},
		{ID: "P003", Name: "Olla de barro negro", Price: 640, Category: "Cerámica", Maker: "Doña Rosa", State: "Oaxaca", Materials: []string{"barro negro"}},
	}}

	h := Handlers{
		Product:  handler.NewProductHandler(products, logger),
		Order:    handler.NewOrderHandler(&fakeOrderService{orders: map[uuid.UUID]*model.OrderResponse{}}, logger),
		Coupon:   handler.NewCouponHandler(service.NewCouponService(engine, m, logger), logger),
		Checkout: handler.NewCheckoutHandler(checkout.NewValidator(), logger),
		History:  handler.NewHistoryHandler(search.NewHistory(search.NewMemoryStore(), logger), logger),
	}

	return &testServer{
		handler: New(h, Options{APIKey: testAPIKey, Metrics: m, Gatherer: reg}, logger),
		metrics: m,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	for k, v := range headers {
		if v == "" {
			req.Header.Del(k)
			continue
		}
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil, map[string]string{"X-API-Key": ""})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestRouter_Authentication(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name           string
		key            string
		expectedStatus int
	}{
		{"Missing key", "", http.StatusUnauthorized},
		{"Wrong key", "nope", http.StatusUnauthorized},
		{"Valid key", testAPIKey, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/products", nil, map[string]string{"X-API-Key": tt.key})
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRouter_PreflightSkipsAuth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodOptions, "/api/orders", nil, map[string]string{"X-API-Key": ""})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Products(t *testing.T) {
	s := newTestServer(t)

	t.Run("List", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/products?limit=2", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]model.Product](t, w), 2)
	})

	t.Run("By ID", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/products/P002", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Jarro de barro", decode[model.Product](t, w).Name)
	})

	t.Run("Unknown ID", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/products/P999", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Search is not captured by the ID route", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/products/search?q=barro", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[handler.SearchResponse](t, w)
		require.Equal(t, 2, resp.Total)
		assert.Equal(t, "P002", resp.Results[0].Product.ID)
		assert.GreaterOrEqual(t, resp.Results[0].Score, resp.Results[1].Score)
	})

	t.Run("Suggestions", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/products/suggestions?q=ol", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, decode[handler.SuggestionsResponse](t, w).Suggestions, "Olla de barro negro")
	})
}

func TestRouter_Coupons(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/coupons", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[handler.CouponListResponse](t, w).Coupons, 6)

	w = s.do(t, http.MethodPost, "/api/coupons/validate", handler.ValidateCouponRequest{Code: " primera10 ", Subtotal: 1000}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[coupon.ValidationResult](t, w).Valid)

	w = s.do(t, http.MethodPost, "/api/coupons/apply", handler.ApplyCouponRequest{Code: "PRIMERA10", Subtotal: 1000, ShippingCost: 100}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	applied := decode[coupon.ApplyResult](t, w)
	require.True(t, applied.Success)
	assert.Equal(t, 100.0, applied.AppliedCoupon.DiscountAmount)

	w = s.do(t, http.MethodPost, "/api/coupons/apply", handler.ApplyCouponRequest{Code: "VERANO2024", Subtotal: 1000}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, coupon.MsgExpired, decode[coupon.ApplyResult](t, w).Error)
}

func TestRouter_CheckoutValidate(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/checkout/validate", checkout.Form{PaymentMethod: "bitcoin"}, nil)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode[model.ErrorResponse](t, w)
	assert.Equal(t, model.ErrCodeValidation, resp.Error)
	assert.NotEmpty(t, resp.CorrelationID)

	paths := make([]string, 0, len(resp.Fields))
	for _, fe := range resp.Fields {
		paths = append(paths, fe.Path)
	}
	assert.Contains(t, paths, "paymentMethod")
	assert.Contains(t, paths, "acceptTerms")
	assert.Contains(t, paths, "shipping.postalCode")
}

func TestRouter_Orders(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/orders", model.OrderRequest{
		Items: []model.OrderItemRequest{{ProductID: "P001", Quantity: 1}},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[model.OrderResponse](t, w)

	w = s.do(t, http.MethodGet, "/api/orders/"+created.ID.String(), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[model.OrderResponse](t, w).ID)

	w = s.do(t, http.MethodGet, "/api/orders/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/orders/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/orders", model.OrderRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, model.ErrCodeEmptyOrder, decode[model.ErrorResponse](t, w).Error)
}

func TestRouter_SearchHistory(t *testing.T) {
	s := newTestServer(t)
	session := map[string]string{handler.SessionHeader: "tab-1"}

	for _, q := range []string{"talavera", "barro", "Talavera"} {
		w := s.do(t, http.MethodPost, "/api/search/history", handler.AddHistoryRequest{Query: q}, session)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := s.do(t, http.MethodGet, "/api/search/history", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[handler.HistoryResponse](t, w).History
	require.Len(t, history, 2)
	assert.Equal(t, "Talavera", history[0].Query)
	assert.Equal(t, "barro", history[1].Query)

	// Other sessions are isolated.
	w = s.do(t, http.MethodGet, "/api/search/history", nil, map[string]string{handler.SessionHeader: "tab-2"})
	assert.Empty(t, decode[handler.HistoryResponse](t, w).History)

	w = s.do(t, http.MethodDelete, "/api/search/history?q=barro", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[handler.HistoryResponse](t, w).History, 1)

	w = s.do(t, http.MethodDelete, "/api/search/history", nil, session)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/search/history", nil, session)
	assert.Empty(t, decode[handler.HistoryResponse](t, w).History)
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/unknown", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, model.ErrCodeNotFound, decode[model.ErrorResponse](t, w).Error)

	w = s.do(t, http.MethodPut, "/api/coupons/apply", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodGet, "/api/products/P001", nil, nil)
	s.do(t, http.MethodPost, "/api/coupons/apply", handler.ApplyCouponRequest{Code: "PRIMERA10", Subtotal: 100}, nil)

	w := s.do(t, http.MethodGet, "/metrics", nil, map[string]string{"X-API-Key": ""})
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, strings.Contains(body, `papalote_http_requests_total{method="GET",route="/api/products/{id}",status="200"} 1`), body)
	assert.Contains(t, body, `papalote_coupon_applications_total{code="PRIMERA10",outcome="applied"} 1`)
}
