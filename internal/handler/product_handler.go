package handler

import (
	"errors"
	"net/http"
	"strings"

	"papalote/internal/model"
	"papalote/internal/search"
	"papalote/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// SearchResponse is the body of GET /api/products/search.
type SearchResponse struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
	Total   int             `json:"total"`
}

// SuggestionsResponse is the body of GET /api/products/suggestions.
type SuggestionsResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// GetAll handles GET /api/products requests with pagination.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, err.Error(), h.logger)
		return
	}

	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, err.Error(), h.logger)
		return
	}

	products, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve products", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimSpace(chi.URLParam(r, "id"))
	if productID == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "product ID is required", h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			writeError(w, r, http.StatusNotFound, model.ErrCodeProductNotFound, "product not found", h.logger)
			return
		}
		writeServiceError(w, r, err, "failed to retrieve product", h.logger)
		return
	}

	if product == nil {
		writeError(w, r, http.StatusNotFound, model.ErrCodeProductNotFound, "product not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Search handles GET /api/products/search?q=&limit=&minScore= requests.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, err.Error(), h.logger)
		return
	}

	minScore, err := queryFloat(r, "minScore", 0)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, err.Error(), h.logger)
		return
	}

	results, err := h.service.Search(r.Context(), query, search.Options{Limit: limit, MinScore: minScore})
	if err != nil {
		writeServiceError(w, r, err, "failed to search products", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Query:   query,
		Results: results,
		Total:   len(results),
	})
}

// Suggestions handles GET /api/products/suggestions?q=&limit= requests.
func (h *ProductHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit, err := queryInt(r, "limit", search.DefaultSuggestionLimit)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidParameter, err.Error(), h.logger)
		return
	}

	suggestions, err := h.service.Suggestions(r.Context(), query, limit)
	if err != nil {
		writeServiceError(w, r, err, "failed to suggest products", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, SuggestionsResponse{
		Query:       query,
		Suggestions: suggestions,
	})
}
