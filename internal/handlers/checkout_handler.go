package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/checkout"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/db"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/events"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/notifier"
)

type CheckoutRequest struct {
	CustomerName  string     `json:"customer_name" binding:"required"`
	CustomerPhone string     `json:"customer_phone" binding:"required"`
	CustomerEmail string     `json:"customer_email"`
	TableNumber   string     `json:"table_number"`
	OrderType     string     `json:"order_type"`
	ScheduledFor  *time.Time `json:"scheduled_for"`
	PaymentMethod string     `json:"payment_method" binding:"required"`
}

func Checkout(c *gin.Context) {
	_, restaurantID, token, ok := cartStore(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := checkout.PlaceOrder(c.Request.Context(), db.DB, paymentRegistry, checkout.Request{
		RestaurantID:  restaurantID,
		CartToken:     token,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		TableNumber:   req.TableNumber,
		OrderType:     req.OrderType,
		ScheduledFor:  req.ScheduledFor,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		case errors.Is(err, checkout.ErrDuplicateSubmit):
			c.JSON(http.StatusConflict, gin.H{"error": "order already placed"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	order := result.Order

	go notifyStaffNewOrder(order)
	go notifyCustomerOrderPlaced(order)

	resp := gin.H{
		"message": "order created successfully",
		"order":   order,
		"payment": result.Payment,
	}
	if result.PaymentError != "" {
		resp["payment_error"] = result.PaymentError
	}

	c.JSON(http.StatusCreated, resp)
}

// ConfirmManualPayment is the customer's "I have paid" click for manual
// methods; staff still reconcile before marking the order paid.
func ConfirmManualPayment(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	var order models.Order
	if err := db.DB.Where("customer_token = ?", token).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	if err := db.DB.Model(&order).Update("order_status", models.OrderStatusConfirmed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "payment confirmation recorded", "order_status": models.OrderStatusConfirmed})
}

func notifyStaffNewOrder(order models.Order) {
	if eventPublisher == nil {
		return
	}

	evt := events.StaffEvent{
		EventType:    events.EventOrderCreated,
		OccurredAt:   time.Now(),
		RestaurantID: order.RestaurantID,
		OrderToken:   order.CustomerToken,
		TableNumber:  order.TableNumber,
		Total:        order.Total,
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		log.Printf("Failed to encode staff event for order %s: %v\n", order.CustomerToken, err)
		return
	}
	if err := eventPublisher.Publish(context.Background(), events.OrdersTopic(order.RestaurantID), payload); err != nil {
		log.Printf("Failed to publish staff event for order %s: %v\n", order.CustomerToken, err)
	}
}

func notifyCustomerOrderPlaced(order models.Order) {
	var settings models.NotificationSettings
	if err := db.DB.Where("restaurant_id = ?", order.RestaurantID).First(&settings).Error; err != nil {
		return
	}

	var restaurant models.Restaurant
	if err := db.DB.First(&restaurant, order.RestaurantID).Error; err != nil {
		return
	}

	if settings.SMSEnabled && order.CustomerPhone != "" {
		if err := notifier.SendOrderSMS(order.CustomerPhone, restaurant.Name, order.CustomerToken, "", order.Total); err != nil {
			fmt.Printf("Failed to send SMS for order %s to %s: %v\n", order.CustomerToken, order.CustomerPhone, err)
		}
	}

	if settings.EmailEnabled && order.CustomerEmail != "" {
		if err := notifier.SendOrderEmail(order.CustomerEmail, order.CustomerName, restaurant.Name, order.CustomerToken, order.Total); err != nil {
			fmt.Printf("Failed to send email for order %s to %s: %v\n", order.CustomerToken, order.CustomerEmail, err)
		}
	}
}
