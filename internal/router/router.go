package router

import (
	"net/http"

	"papalote/internal/handler"
	"papalote/internal/metrics"
	"papalote/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Product  *handler.ProductHandler
	Order    *handler.OrderHandler
	Coupon   *handler.CouponHandler
	Checkout *handler.CheckoutHandler
	History  *handler.HistoryHandler
}

// Options configures the cross-cutting parts of the router.
type Options struct {
	APIKey string
	// Metrics enables request instrumentation when set.
	Metrics *metrics.Metrics
	// Gatherer, when set, is exposed on /metrics.
	Gatherer prometheus.Gatherer
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware order: RequestID -> Recovery -> Logging -> Metrics -> CORS -> APIKeyAuth
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	r.Use(middleware.CORS)
	r.Use(middleware.APIKeyAuth(opts.APIKey, logger))

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	})

	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Product.GetAll)
			r.Get("/search", h.Product.Search)
			r.Get("/suggestions", h.Product.Suggestions)
			r.Get("/{id}", h.Product.GetByID)
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", h.Coupon.List)
			r.Post("/validate", h.Coupon.Validate)
			r.Post("/apply", h.Coupon.Apply)
		})

		r.Post("/checkout/validate", h.Checkout.Validate)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.Order.Create)
			r.Get("/{id}", h.Order.GetByID)
		})

		r.Route("/search/history", func(r chi.Router) {
			r.Get("/", h.History.Get)
			r.Post("/", h.History.Add)
			r.Delete("/", h.History.Delete)
		})
	})

	return r
}
