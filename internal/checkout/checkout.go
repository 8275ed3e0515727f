package checkout

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/cart"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/payments"
)

// DepositRate is the upfront share charged for scheduled ("later") orders;
// the remainder is collected at fulfilment.
const DepositRate = 0.40

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrDuplicateSubmit = errors.New("order already placed for this cart")
)

type Request struct {
	RestaurantID  uint
	CartToken     string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	TableNumber   string
	OrderType     string // "now" | "later"
	ScheduledFor  *time.Time
	PaymentMethod string
}

type Result struct {
	Order   models.Order
	Payment payments.InitResult
	// PaymentError is set when order creation succeeded but the gateway
	// dispatch failed; the order stays pending and the customer can retry
	// payment from the tracking page.
	PaymentError string
}

// PlaceOrder snapshots the cart into an order and dispatches payment. The
// order row and its items are written in one transaction, so a failed item
// insert can never leave a lineless order behind. The cart's version number
// keys an idempotency check that rejects a double-submit of the same cart
// contents.
func PlaceOrder(ctx context.Context, db *gorm.DB, registry *payments.Registry, req Request) (Result, error) {
	method, err := payments.ParseMethod(req.PaymentMethod)
	if err != nil {
		return Result{}, err
	}
	if req.CustomerName == "" || req.CustomerPhone == "" {
		return Result{}, errors.New("customer name and phone are required")
	}
	if req.OrderType == "" {
		req.OrderType = "now"
	}
	if req.OrderType != "now" && req.OrderType != "later" {
		return Result{}, fmt.Errorf("invalid order type: %q", req.OrderType)
	}

	store := cart.NewStore(db, req.RestaurantID, req.CartToken)

	lines, err := store.Snapshot()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(lines) == 0 {
		return Result{}, ErrEmptyCart
	}

	version, err := store.Version()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read cart version: %w", err)
	}

	var total float64
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
	}

	amountDue := total
	if req.OrderType == "later" {
		amountDue = depositAmount(total)
	}

	token, err := newCustomerToken()
	if err != nil {
		return Result{}, err
	}

	order := models.Order{
		RestaurantID:   req.RestaurantID,
		CustomerToken:  token,
		IdempotencyKey: fmt.Sprintf("%d:%s:%d", req.RestaurantID, req.CartToken, version),
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  req.CustomerEmail,
		TableNumber:    req.TableNumber,
		OrderType:      req.OrderType,
		ScheduledFor:   req.ScheduledFor,
		OrderStatus:    models.OrderStatusPending,
		PaymentMethod:  string(method),
		PaymentStatus:  models.PaymentStatusPending,
		Total:          total,
		AmountDue:      amountDue,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var existing models.Order
		err := tx.Where("idempotency_key = ?", order.IdempotencyKey).First(&existing).Error
		if err == nil {
			return ErrDuplicateSubmit
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for duplicate order: %w", err)
		}

		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, models.OrderItem{
				OrderID:             order.ID,
				MenuItemID:          l.MenuItemID,
				Name:                l.Name,
				Price:               l.Price,
				Quantity:            l.Quantity,
				Customizations:      l.Customizations,
				SpecialInstructions: l.SpecialInstructions,
			})
		}
		if err := tx.CreateInBatches(&items, len(items)).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	// The order is committed; the cart is done regardless of what the
	// payment dispatch does next.
	if err := store.Reset(); err != nil {
		return Result{}, fmt.Errorf("order %s created but cart reset failed: %w", order.CustomerToken, err)
	}

	result := Result{Order: order}

	// Cash needs no online payment step at all.
	if method == payments.MethodCash {
		result.Payment = payments.InitResult{Kind: payments.ResultNone, Status: "pending"}
		return result, nil
	}

	var settings models.PaymentSettings
	if err := db.Where("restaurant_id = ?", req.RestaurantID).First(&settings).Error; err != nil &&
		!errors.Is(err, gorm.ErrRecordNotFound) {
		return result, fmt.Errorf("failed to load payment settings: %w", err)
	}

	adapter, err := registry.Adapter(method)
	if err != nil {
		return Result{}, err
	}

	initResult, err := adapter.Initialize(ctx, payments.InitRequest{
		OrderToken:  order.CustomerToken,
		Amount:      amountDue,
		Currency:    "KES",
		Phone:       req.CustomerPhone,
		Email:       req.CustomerEmail,
		Description: fmt.Sprintf("Order %s", order.CustomerToken),
		Settings:    settings,
	})
	if err != nil {
		// The order stands; surface the gateway failure so the customer
		// can retry from the tracking page.
		result.PaymentError = err.Error()
		return result, nil
	}

	if initResult.Ref != "" {
		if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("payment_ref", initResult.Ref).Error; err != nil {
			return result, fmt.Errorf("failed to record payment ref: %w", err)
		}
		order.PaymentRef = initResult.Ref
		result.Order = order
	}

	result.Payment = initResult
	return result, nil
}

// depositAmount rounds the deposit up to the nearest cent so the house
// never undercollects.
func depositAmount(total float64) float64 {
	return math.Ceil(total*DepositRate*100) / 100
}

func newCustomerToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate customer token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
