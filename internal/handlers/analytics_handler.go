package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/db"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
)

type topItem struct {
	Name     string  `json:"name"`
	Quantity uint    `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// GetAnalyticsSummary aggregates the dashboard's headline numbers for the
// requested window (default 30 days): order count, paid revenue, average
// order value, and the top-selling items.
func GetAnalyticsSummary(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	days := 30
	if d := c.Query("days"); d != "" {
		if _, err := fmt.Sscan(d, &days); err != nil || days <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
	}
	since := time.Now().AddDate(0, 0, -days)

	var orderCount int64
	if err := db.DB.Model(&models.Order{}).
		Where("restaurant_id = ? AND created_at >= ?", restaurantID, since).
		Count(&orderCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate orders"})
		return
	}

	var revenue float64
	err := db.DB.Model(&models.Order{}).
		Where("restaurant_id = ? AND created_at >= ? AND payment_status = ?", restaurantID, since, models.PaymentStatusPaid).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate revenue"})
		return
	}

	var avgOrder float64
	err = db.DB.Model(&models.Order{}).
		Where("restaurant_id = ? AND created_at >= ?", restaurantID, since).
		Select("COALESCE(AVG(total), 0)").
		Scan(&avgOrder).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate order value"})
		return
	}

	var top []topItem
	err = db.DB.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.restaurant_id = ? AND orders.created_at >= ?", restaurantID, since).
		Select("order_items.name AS name, SUM(order_items.quantity) AS quantity, SUM(order_items.price * order_items.quantity) AS revenue").
		Group("order_items.name").
		Order("quantity DESC").
		Limit(10).
		Scan(&top).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate top items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"window_days":         days,
		"order_count":         orderCount,
		"paid_revenue":        revenue,
		"average_order_value": avgOrder,
		"top_items":           top,
	})
}
