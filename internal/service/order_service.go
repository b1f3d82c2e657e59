package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"papalote/internal/checkout"
	"papalote/internal/coupon"
	"papalote/internal/model"
	"papalote/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	coupons     CouponService
	validator   *checkout.Validator
	shipping    ShippingPolicy
	now         func() time.Time
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	coupons CouponService,
	validator *checkout.Validator,
	shipping ShippingPolicy,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		coupons:     coupons,
		validator:   validator,
		shipping:    shipping,
		now:         time.Now,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder validates the checkout, prices the items, applies the coupon
// if any, and persists the order and its items in one transaction.
func (s *orderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	form, err := s.validator.ValidateForm(req.Checkout)
	if err != nil {
		s.logger.Warn().Err(err).Msg("checkout form rejected")
		return nil, err
	}

	productIDs := uniqueProductIDs(req.Items)

	if err := s.productRepo.ValidateProductsExist(ctx, productIDs); err != nil {
		s.logger.Warn().
			Int("product_count", len(productIDs)).
			Err(err).
			Msg("product validation failed")
		return nil, err
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	prices := make(map[string]float64, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}

	now := s.now()
	order := &model.Order{
		ID:              uuid.New(),
		PaymentMethod:   form.PaymentMethod,
		ShippingAddress: form.Shipping,
		GiftWrap:        form.GiftWrap,
		GiftMessage:     optional(form.GiftMessage),
		Notes:           optional(form.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	subtotal := decimal.Zero
	orderItems := make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		price, ok := prices[item.ProductID]
		if !ok {
			s.logger.Warn().Str("product_id", item.ProductID).Msg("product disappeared during checkout")
			return nil, model.ErrProductNotFound
		}
		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: price,
		}
		subtotal = subtotal.Add(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	order.Subtotal = subtotal.Round(2).InexactFloat64()
	order.ShippingCost = s.shipping.Cost(order.Subtotal)
	if order.Subtotal+order.ShippingCost > model.MaxOrderAmount {
		s.logger.Warn().
			Float64("subtotal", order.Subtotal).
			Msg("order amount exceeds storable maximum")
		return nil, model.ErrOrderTooLarge
	}

	if code := couponCode(req.CouponCode); code != "" {
		res := s.coupons.Apply(code, order.Subtotal, order.ShippingCost)
		if !res.Success {
			s.logger.Warn().
				Str("coupon_code", code).
				Str("reason", res.Error).
				Msg("coupon rejected")
			return nil, model.NewDomainError(model.ErrCodeInvalidCoupon, res.Error)
		}
		applied := res.AppliedCoupon.Code
		order.CouponCode = &applied
		order.Discount = res.AppliedCoupon.DiscountAmount
	}

	order.Total = orderTotal(order.Subtotal, order.ShippingCost, order.Discount)

	if err := s.persist(ctx, order, orderItems); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(orderItems)).
		Float64("total", order.Total).
		Msg("order created successfully")

	return newOrderResponse(order, orderItems, products), nil
}

// persist writes the order and its items in one transaction.
func (s *orderService) persist(ctx context.Context, order *model.Order, items []model.OrderItem) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID with all items and product details.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	products, err := s.productRepo.GetByIDs(ctx, uniqueItemProductIDs(items))
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	return newOrderResponse(order, items, products), nil
}

// validateOrderRequest checks the item list.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil || len(req.Items) == 0 {
		return model.ErrEmptyOrder
	}

	for i, item := range req.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			s.logger.Warn().Int("item_index", i).Msg("missing product ID")
			return model.ErrMissingProduct
		}

		if item.Quantity <= 0 || item.Quantity > model.MaxItemQuantity {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	return nil
}

// orderTotal is subtotal + shipping - discount, never negative, in cents.
func orderTotal(subtotal, shippingCost, discount float64) float64 {
	total := decimal.NewFromFloat(subtotal).
		Add(decimal.NewFromFloat(shippingCost)).
		Sub(decimal.NewFromFloat(discount))
	if total.IsNegative() {
		return 0
	}
	return total.Round(2).InexactFloat64()
}

func newOrderResponse(order *model.Order, items []model.OrderItem, products []model.Product) *model.OrderResponse {
	return &model.OrderResponse{
		ID:              order.ID,
		CouponCode:      order.CouponCode,
		PaymentMethod:   order.PaymentMethod,
		ShippingAddress: order.ShippingAddress,
		GiftWrap:        order.GiftWrap,
		GiftMessage:     order.GiftMessage,
		Notes:           order.Notes,
		Subtotal:        order.Subtotal,
		ShippingCost:    order.ShippingCost,
		Discount:        order.Discount,
		Total:           order.Total,
		Items:           items,
		Products:        products,
		CreatedAt:       order.CreatedAt,
	}
}

func uniqueProductIDs(items []model.OrderItemRequest) []string {
	seen := make(map[string]bool, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	return ids
}

func uniqueItemProductIDs(items []model.OrderItem) []string {
	reqs := make([]model.OrderItemRequest, len(items))
	for i, item := range items {
		reqs[i] = model.OrderItemRequest{ProductID: item.ProductID}
	}
	return uniqueProductIDs(reqs)
}

func couponCode(code *string) string {
	if code == nil {
		return ""
	}
	return coupon.NormalizeCode(*code)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
