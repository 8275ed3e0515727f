package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/db"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
)

// ListSubscribers is the platform-admin overview of restaurant plans.
func ListSubscribers(c *gin.Context) {
	var subscribers []models.Subscriber
	if err := db.DB.Order("restaurant_id").Find(&subscribers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load subscribers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscribers": subscribers})
}

type UpdateSubscriberRequest struct {
	Plan        *string    `json:"plan"`
	Active      *bool      `json:"active"`
	MenuItemCap *int       `json:"menu_item_cap"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

func UpdateSubscriber(c *gin.Context) {
	var subscriberID uint
	if _, err := fmt.Sscan(c.Param("id"), &subscriberID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscriber id"})
		return
	}

	var req UpdateSubscriberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var subscriber models.Subscriber
	if err := db.DB.First(&subscriber, subscriberID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subscriber not found"})
		return
	}

	if req.Plan != nil {
		subscriber.Plan = *req.Plan
	}
	if req.Active != nil {
		subscriber.Active = *req.Active
	}
	if req.MenuItemCap != nil {
		subscriber.MenuItemCap = *req.MenuItemCap
	}
	if req.ExpiresAt != nil {
		subscriber.ExpiresAt = req.ExpiresAt
	}

	if err := db.DB.Save(&subscriber).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update subscriber"})
		return
	}

	c.JSON(http.StatusOK, subscriber)
}
