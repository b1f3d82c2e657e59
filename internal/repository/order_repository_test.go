package repository

import (
	"context"
	"testing"
	"time"

	"papalote/internal/checkout"
	"papalote/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress() checkout.ShippingAddress {
	return checkout.ShippingAddress{
		FirstName:      "María",
		LastName:       "López",
		Email:          "maria@example.com",
		Phone:          "55 1234 5678",
		Street:         "Av. Juárez",
		ExteriorNumber: "10",
		Neighborhood:   "Centro",
		City:           "Oaxaca de Juárez",
		State:          "Oaxaca",
		PostalCode:     "68000",
	}
}

// newTestOrder builds an order that satisfies the table constraints.
func newTestOrder(id uuid.UUID, couponCode *string, now time.Time) *model.Order {
	return &model.Order{
		ID:              id,
		CouponCode:      couponCode,
		PaymentMethod:   checkout.PaymentCard,
		ShippingAddress: testAddress(),
		Subtotal:        1000,
		ShippingCost:    150,
		Discount:        100,
		Total:           1050,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestOrderRepository_BeginTx(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewOrderRepository(pool, logger)

	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)

	require.NoError(t, err)
	require.NotNil(t, tx)

	err = tx.Rollback(ctx)
	assert.NoError(t, err)
}

func TestOrderRepository_CreateOrder(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewOrderRepository(pool, logger)

	ctx := context.Background()
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	now := time.Now()
	couponCode := "PRIMERA10"
	giftMessage := "¡Feliz cumpleaños!"

	giftOrder := newTestOrder(uuid.New(), nil, now)
	giftOrder.GiftWrap = true
	giftOrder.GiftMessage = &giftMessage

	tests := []struct {
		name  string
		order *model.Order
	}{
		{
			name:  "Create order with coupon code",
			order: newTestOrder(uuid.New(), &couponCode, now),
		},
		{
			name:  "Create order without coupon code",
			order: newTestOrder(uuid.New(), nil, now),
		},
		{
			name:  "Create gift order",
			order: giftOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.CreateOrder(ctx, tx, tt.order)
			require.NoError(t, err)

			var count int
			err = tx.QueryRow(ctx, "SELECT COUNT(*) FROM orders WHERE id = $1", tt.order.ID).Scan(&count)
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestOrderRepository_CreateOrderItems(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewOrderRepository(pool, logger)

	ctx := context.Background()

	now := time.Now()
	seedProducts(t, pool, []model.Product{
		{ID: "P001", Name: "Alebrije", Price: 10.00, Category: "Alebrijes", CreatedAt: now},
		{ID: "P002", Name: "Talavera", Price: 20.00, Category: "Cerámica", CreatedAt: now},
	})

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	orderID := uuid.New()
	require.NoError(t, repo.CreateOrder(ctx, tx, newTestOrder(orderID, nil, now)))

	tests := []struct {
		name  string
		items []model.OrderItem
	}{
		{
			name: "Create multiple order items",
			items: []model.OrderItem{
				{ID: uuid.New(), OrderID: orderID, ProductID: "P001", Quantity: 2, UnitPrice: 10},
				{ID: uuid.New(), OrderID: orderID, ProductID: "P002", Quantity: 3, UnitPrice: 20},
			},
		},
		{
			name: "Create single order item",
			items: []model.OrderItem{
				{ID: uuid.New(), OrderID: orderID, ProductID: "P001", Quantity: 1, UnitPrice: 10},
			},
		},
		{
			name:  "Create empty order items",
			items: []model.OrderItem{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.CreateOrderItems(ctx, tx, tt.items)

			require.NoError(t, err)

			if len(tt.items) > 0 {
				var count int
				err = tx.QueryRow(ctx, "SELECT COUNT(*) FROM order_items WHERE id = $1", tt.items[0].ID).Scan(&count)
				require.NoError(t, err)
				assert.Equal(t, 1, count)
			}
		})
	}
}

func TestOrderRepository_CreateOrderItems_UnknownProduct(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	orderID := uuid.New()
	require.NoError(t, repo.CreateOrder(ctx, tx, newTestOrder(orderID, nil, time.Now())))

	err = repo.CreateOrderItems(ctx, tx, []model.OrderItem{
		{ID: uuid.New(), OrderID: orderID, ProductID: "missing", Quantity: 1, UnitPrice: 10},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create order item")
}

func TestOrderRepository_GetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	logger := zerolog.Nop()
	repo := NewOrderRepository(pool, logger)

	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	seedProducts(t, pool, []model.Product{
		{ID: "P001", Name: "Alebrije", Price: 10.00, Category: "Alebrijes", CreatedAt: now},
		{ID: "P002", Name: "Talavera", Price: 20.00, Category: "Cerámica", CreatedAt: now},
	})

	orderID := uuid.New()
	couponCode := "PRIMERA10"
	giftMessage := "Con cariño"
	notes := "Entregar por la tarde"
	order := newTestOrder(orderID, &couponCode, now)
	order.PaymentMethod = checkout.PaymentOXXO
	order.GiftWrap = true
	order.GiftMessage = &giftMessage
	order.Notes = &notes

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.CreateOrder(ctx, tx, order))

	items := []model.OrderItem{
		{ID: uuid.New(), OrderID: orderID, ProductID: "P001", Quantity: 2, UnitPrice: 10},
		{ID: uuid.New(), OrderID: orderID, ProductID: "P002", Quantity: 3, UnitPrice: 20},
	}
	require.NoError(t, repo.CreateOrderItems(ctx, tx, items))
	require.NoError(t, tx.Commit(ctx))

	tests := []struct {
		name          string
		orderID       uuid.UUID
		expectNil     bool
		expectedItems int
	}{
		{
			name:          "Order exists with items",
			orderID:       orderID,
			expectNil:     false,
			expectedItems: 2,
		},
		{
			name:          "Order does not exist",
			orderID:       uuid.New(),
			expectNil:     true,
			expectedItems: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retrievedOrder, retrievedItems, err := repo.GetByID(ctx, tt.orderID)

			require.NoError(t, err)

			if tt.expectNil {
				assert.Nil(t, retrievedOrder)
				assert.Nil(t, retrievedItems)
				return
			}

			require.NotNil(t, retrievedOrder)
			assert.Equal(t, order.ID, retrievedOrder.ID)
			assert.Equal(t, order.CouponCode, retrievedOrder.CouponCode)
			assert.Equal(t, checkout.PaymentOXXO, retrievedOrder.PaymentMethod)
			assert.Equal(t, testAddress(), retrievedOrder.ShippingAddress)
			assert.True(t, retrievedOrder.GiftWrap)
			assert.Equal(t, order.GiftMessage, retrievedOrder.GiftMessage)
			assert.Equal(t, order.Notes, retrievedOrder.Notes)
			assert.Equal(t, 1000.0, retrievedOrder.Subtotal)
			assert.Equal(t, 150.0, retrievedOrder.ShippingCost)
			assert.Equal(t, 100.0, retrievedOrder.Discount)
			assert.Equal(t, 1050.0, retrievedOrder.Total)

			require.Len(t, retrievedItems, tt.expectedItems)

			itemsByProductID := make(map[string]model.OrderItem)
			for _, item := range retrievedItems {
				itemsByProductID[item.ProductID] = item
			}

			for _, expectedItem := range items {
				actualItem, found := itemsByProductID[expectedItem.ProductID]
				require.True(t, found, "Product %s not found in retrieved items", expectedItem.ProductID)
				assert.Equal(t, expectedItem.OrderID, actualItem.OrderID)
				assert.Equal(t, expectedItem.Quantity, actualItem.Quantity)
				assert.Equal(t, expectedItem.UnitPrice, actualItem.UnitPrice)
			}
		})
	}
}

func TestOrderRepository_TransactionRollback(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	orderID := uuid.New()
	require.NoError(t, repo.CreateOrder(ctx, tx, newTestOrder(orderID, nil, time.Now())))
	require.NoError(t, tx.Rollback(ctx))

	retrievedOrder, _, err := repo.GetByID(ctx, orderID)
	require.NoError(t, err)
	assert.Nil(t, retrievedOrder)
}

func TestOrderRepository_TransactionCommit(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	orderID := uuid.New()
	require.NoError(t, repo.CreateOrder(ctx, tx, newTestOrder(orderID, nil, time.Now())))
	require.NoError(t, tx.Commit(ctx))

	retrievedOrder, items, err := repo.GetByID(ctx, orderID)
	require.NoError(t, err)
	require.NotNil(t, retrievedOrder)
	assert.Equal(t, orderID, retrievedOrder.ID)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestOrderRepository_ErrorPaths(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	orderID := uuid.New()
	require.NoError(t, repo.CreateOrder(ctx, tx, newTestOrder(orderID, nil, time.Now())))
	require.NoError(t, tx.Commit(ctx))

	// Close the pool to simulate database errors
	pool.Close()

	t.Run("BeginTx with closed pool", func(t *testing.T) {
		tx, err := repo.BeginTx(ctx)

		require.Error(t, err)
		assert.Nil(t, tx)
	})

	t.Run("GetByID with closed pool", func(t *testing.T) {
		retrievedOrder, items, err := repo.GetByID(ctx, orderID)

		require.Error(t, err)
		assert.Nil(t, retrievedOrder)
		assert.Nil(t, items)
	})
}
