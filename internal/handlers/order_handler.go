package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/db"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/notifier"
)

// TrackOrder is the customer's post-checkout lookup. Orders are addressed
// by the opaque token, never the primary key.
func TrackOrder(c *gin.Context) {
	token := c.Query("token")
	restaurantSlug := c.Query("restaurant")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	var order models.Order
	query := db.DB.Preload("Items").Where("customer_token = ?", token)
	if restaurantSlug != "" {
		var restaurant models.Restaurant
		if err := db.DB.Where("slug = ?", restaurantSlug).First(&restaurant).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
			return
		}
		query = query.Where("restaurant_id = ?", restaurant.ID)
	}
	if err := query.First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListOrders returns the dashboard's order feed, newest first, optionally
// filtered by order status.
func ListOrders(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	query := db.DB.Preload("Items").
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("order_status = ?", status)
	}

	var orders []models.Order
	if err := query.Limit(200).Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

type UpdateOrderStatusRequest struct {
	OrderStatus   string `json:"order_status"`
	PaymentStatus string `json:"payment_status"`
}

var validOrderStatuses = map[string]bool{
	models.OrderStatusPending:   true,
	models.OrderStatusConfirmed: true,
	models.OrderStatusPreparing: true,
	models.OrderStatusReady:     true,
	models.OrderStatusCompleted: true,
	models.OrderStatusCancelled: true,
}

var validPaymentStatuses = map[string]bool{
	models.PaymentStatusPending: true,
	models.PaymentStatusPaid:    true,
	models.PaymentStatusFailed:  true,
}

// UpdateOrderStatus is the staff action that moves an order through its
// lifecycle; it also covers manual payment reconciliation (marking paid).
func UpdateOrderStatus(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	var orderID uint
	if _, err := fmt.Sscan(c.Param("id"), &orderID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.OrderStatus == "" && req.PaymentStatus == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	updates := map[string]interface{}{}
	if req.OrderStatus != "" {
		if !validOrderStatuses[req.OrderStatus] {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid order status: %q", req.OrderStatus)})
			return
		}
		updates["order_status"] = req.OrderStatus
	}
	if req.PaymentStatus != "" {
		if !validPaymentStatuses[req.PaymentStatus] {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid payment status: %q", req.PaymentStatus)})
			return
		}
		updates["payment_status"] = req.PaymentStatus
	}

	var order models.Order
	if err := db.DB.Where("id = ? AND restaurant_id = ?", orderID, restaurantID).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	if err := db.DB.Model(&order).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		return
	}

	if req.OrderStatus != "" {
		go notifyCustomerStatusChange(order, req.OrderStatus)
	}

	c.JSON(http.StatusOK, order)
}

func notifyCustomerStatusChange(order models.Order, status string) {
	var settings models.NotificationSettings
	if err := db.DB.Where("restaurant_id = ?", order.RestaurantID).First(&settings).Error; err != nil {
		return
	}
	if !settings.SMSEnabled || order.CustomerPhone == "" {
		return
	}

	var restaurant models.Restaurant
	if err := db.DB.First(&restaurant, order.RestaurantID).Error; err != nil {
		return
	}

	if err := notifier.SendOrderSMS(order.CustomerPhone, restaurant.Name, order.CustomerToken, status, order.Total); err != nil {
		fmt.Printf("Failed to send status SMS for order %s to %s: %v\n", order.CustomerToken, order.CustomerPhone, err)
	}
}
