package checkout_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/cart"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/checkout"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/payments"
)

func setupCheckoutDB(t *testing.T) *gorm.DB {
	testDB, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect test database: " + err.Error())
	}

	err = testDB.AutoMigrate(
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
		&models.PaymentSettings{},
	)
	if err != nil {
		panic("failed to auto-migrate models: " + err.Error())
	}

	return testDB
}

func seedCart(t *testing.T, testDB *gorm.DB, restaurantID uint, token string, lines ...cart.AddRequest) *cart.Store {
	store := cart.NewStore(testDB, restaurantID, token)
	for _, l := range lines {
		assert.NoError(t, store.Add(l))
	}
	return store
}

func TestPlaceOrderCash(t *testing.T) {
	testDB := setupCheckoutDB(t)
	registry := payments.NewRegistry()

	seedCart(t, testDB, 1, "co-cash",
		cart.AddRequest{MenuItemID: 1, Name: "Pilau", Price: 250, Quantity: 2},
		cart.AddRequest{MenuItemID: 2, Name: "Kachumbari", Price: 100, Quantity: 1, Customizations: "no onions"},
	)

	result, err := checkout.PlaceOrder(context.Background(), testDB, registry, checkout.Request{
		RestaurantID:  1,
		CartToken:     "co-cash",
		CustomerName:  "Wanjiku",
		CustomerPhone: "0712345678",
		PaymentMethod: "cash",
	})
	assert.NoError(t, err)

	order := result.Order
	assert.Greater(t, order.ID, uint(0))
	assert.NotEmpty(t, order.CustomerToken)
	assert.Equal(t, models.OrderStatusPending, order.OrderStatus)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 600.0, order.Total)
	assert.Equal(t, 600.0, order.AmountDue)
	assert.Len(t, order.Items, 2)

	// Cash has no online payment step, so no gateway result beyond "none".
	assert.Equal(t, payments.ResultNone, result.Payment.Kind)
	assert.Empty(t, result.Payment.RedirectURL)
	assert.Empty(t, result.PaymentError)

	// Verify database state: items snapshot the cart lines.
	var stored models.Order
	assert.NoError(t, testDB.Preload("Items").First(&stored, order.ID).Error)
	assert.Len(t, stored.Items, 2)
	assert.Equal(t, "Pilau", stored.Items[0].Name)
	assert.Equal(t, uint(2), stored.Items[0].Quantity)
	assert.Equal(t, "no onions", stored.Items[1].Customizations)

	// The cart is cleared once the order is committed.
	count, err := cart.NewStore(testDB, 1, "co-cash").Count()
	assert.NoError(t, err)
	assert.Equal(t, uint(0), count)
}

func TestPlaceOrderDeposit(t *testing.T) {
	testDB := setupCheckoutDB(t)
	registry := payments.NewRegistry()

	seedCart(t, testDB, 1, "co-deposit",
		cart.AddRequest{MenuItemID: 1, Name: "Goat Platter", Price: 500, Quantity: 2},
	)

	result, err := checkout.PlaceOrder(context.Background(), testDB, registry, checkout.Request{
		RestaurantID:  1,
		CartToken:     "co-deposit",
		CustomerName:  "Otieno",
		CustomerPhone: "0722000000",
		OrderType:     "later",
		PaymentMethod: "cash",
	})
	assert.NoError(t, err)

	// Scheduled orders charge a 40% deposit upfront.
	assert.Equal(t, 1000.0, result.Order.Total)
	assert.Equal(t, 400.0, result.Order.AmountDue)
}

func TestPlaceOrderManualInstructions(t *testing.T) {
	testDB := setupCheckoutDB(t)
	registry := payments.NewRegistry()

	assert.NoError(t, testDB.Create(&models.PaymentSettings{
		RestaurantID: 3,
		TillNumber:   "832909",
	}).Error)

	seedCart(t, testDB, 3, "co-manual",
		cart.AddRequest{MenuItemID: 9, Name: "Fish Fillet", Price: 450, Quantity: 1},
	)

	result, err := checkout.PlaceOrder(context.Background(), testDB, registry, checkout.Request{
		RestaurantID:  3,
		CartToken:     "co-manual",
		CustomerName:  "Amina",
		CustomerPhone: "0733111222",
		PaymentMethod: "mpesa_manual",
	})
	assert.NoError(t, err)

	assert.Equal(t, payments.ResultInstructions, result.Payment.Kind)
	assert.Contains(t, result.Payment.Instructions, "832909")
	assert.Contains(t, result.Payment.Instructions, "450.00")
	assert.NotEmpty(t, result.Payment.Ref)
	assert.Equal(t, models.PaymentStatusPending, result.Order.PaymentStatus)

	// The minted reference is recorded on the order for reconciliation.
	var stored models.Order
	assert.NoError(t, testDB.First(&stored, result.Order.ID).Error)
	assert.Equal(t, result.Payment.Ref, stored.PaymentRef)
}

func TestPlaceOrderValidation(t *testing.T) {
	testDB := setupCheckoutDB(t)
	registry := payments.NewRegistry()

	t.Run("empty cart is rejected", func(t *testing.T) {
		_, err := checkout.PlaceOrder(context.Background(), testDB, registry, checkout.Request{
			RestaurantID:  1,
			CartToken:     "co-empty",
			CustomerName:  "Njeri",
			CustomerPhone: "0700000001",
			PaymentMethod: "cash",
		})
		assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	})

	t.Run("unknown payment method is rejected", func(t *testing.T) {
		_, err := checkout.PlaceOrder(context.Background(), testDB, registry, checkout.Request{
			RestaurantID:  1,
			CartToken:     "co-bad-method",
			CustomerName:  "Njeri",
			CustomerPhone: "0700000001",
			PaymentMethod: "credit_card",
		})
		assert.Error(t, err)
	})

	t.Run("missing customer details are rejected", func(t *testing.T) {
		_, err := checkout.PlaceOrder(context.Background(), testDB, registry, checkout.Request{
			RestaurantID:  1,
			CartToken:     "co-no-name",
			PaymentMethod: "cash",
		})
		assert.Error(t, err)
	})

	t.Run("invalid order type is rejected", func(t *testing.T) {
		seedCart(t, testDB, 1, "co-bad-type",
			cart.AddRequest{MenuItemID: 1, Name: "Chai", Price: 50, Quantity: 1},
		)

		_, err := checkout.PlaceOrder(context.Background(), testDB, registry, checkout.Request{
			RestaurantID:  1,
			CartToken:     "co-bad-type",
			CustomerName:  "Njeri",
			CustomerPhone: "0700000001",
			OrderType:     "someday",
			PaymentMethod: "cash",
		})
		assert.Error(t, err)
	})
}

func TestPlaceOrderDuplicateSubmit(t *testing.T) {
	testDB := setupCheckoutDB(t)
	registry := payments.NewRegistry()

	seedCart(t, testDB, 5, "co-dup",
		cart.AddRequest{MenuItemID: 1, Name: "Biryani", Price: 350, Quantity: 1},
	)

	req := checkout.Request{
		RestaurantID:  5,
		CartToken:     "co-dup",
		CustomerName:  "Hassan",
		CustomerPhone: "0744555666",
		PaymentMethod: "cash",
	}

	_, err := checkout.PlaceOrder(context.Background(), testDB, registry, req)
	assert.NoError(t, err)

	// The cart was cleared, so a literal double-click hits the empty-cart
	// guard; a replay with the stale cart contents hits the idempotency
	// key instead.
	_, err = checkout.PlaceOrder(context.Background(), testDB, registry, req)
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)

	t.Run("concurrent submit of the same cart version is rejected", func(t *testing.T) {
		seedCart(t, testDB, 6, "co-race",
			cart.AddRequest{MenuItemID: 2, Name: "Chips", Price: 150, Quantity: 1},
		)

		// Simulate the first of two racing submits having already
		// committed with this cart's idempotency key.
		assert.NoError(t, testDB.Create(&models.Order{
			RestaurantID:   6,
			CustomerToken:  "tok-race-winner",
			IdempotencyKey: "6:co-race:1",
			OrderStatus:    models.OrderStatusPending,
			PaymentStatus:  models.PaymentStatusPending,
			Total:          150,
			AmountDue:      150,
		}).Error)

		_, err := checkout.PlaceOrder(context.Background(), testDB, registry, checkout.Request{
			RestaurantID:  6,
			CartToken:     "co-race",
			CustomerName:  "Hassan",
			CustomerPhone: "0744555666",
			PaymentMethod: "cash",
		})
		assert.ErrorIs(t, err, checkout.ErrDuplicateSubmit)
	})
}
