package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"papalote/internal/coupon"
	"papalote/internal/model"
	"papalote/internal/search"
	"papalote/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) Search(ctx context.Context, query string, opts search.Options) ([]search.Result, error) {
	args := m.Called(ctx, query, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]search.Result), args.Error(1)
}

func (m *MockProductService) Suggestions(ctx context.Context, query string, limit int) ([]string, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

// MockCouponService is a mock implementation of CouponService.
type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) List() []service.CouponView {
	args := m.Called()
	return args.Get(0).([]service.CouponView)
}

func (m *MockCouponService) Validate(code string, subtotal float64) coupon.ValidationResult {
	args := m.Called(code, subtotal)
	return args.Get(0).(coupon.ValidationResult)
}

func (m *MockCouponService) Apply(code string, subtotal, shippingCost float64) coupon.ApplyResult {
	args := m.Called(code, subtotal, shippingCost)
	return args.Get(0).(coupon.ApplyResult)
}

// MockSearchHistory is a mock implementation of SearchHistory.
type MockSearchHistory struct {
	mock.Mock
}

func (m *MockSearchHistory) Get(ctx context.Context, session string) []search.Entry {
	args := m.Called(ctx, session)
	return args.Get(0).([]search.Entry)
}

func (m *MockSearchHistory) Add(ctx context.Context, session, query string) []search.Entry {
	args := m.Called(ctx, session, query)
	return args.Get(0).([]search.Entry)
}

func (m *MockSearchHistory) Remove(ctx context.Context, session, query string) []search.Entry {
	args := m.Called(ctx, session, query)
	return args.Get(0).([]search.Entry)
}

func (m *MockSearchHistory) Clear(ctx context.Context, session string) {
	m.Called(ctx, session)
}

// withURLParam attaches a chi route parameter to r, as the router would.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
