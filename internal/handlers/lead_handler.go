package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/db"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
)

type CreateLeadRequest struct {
	RestaurantID uint   `json:"restaurant_id" binding:"required"`
	Name         string `json:"name"`
	Phone        string `json:"phone" binding:"required"`
	Email        string `json:"email"`
	Preferences  string `json:"preferences"`
	OrderToken   string `json:"order_token"`
}

// CreateLead captures customer contact details from the public menu.
// Insert-only; leads are never mutated from the client.
func CreateLead(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead := models.CustomerLead{
		RestaurantID: req.RestaurantID,
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Preferences:  req.Preferences,
	}

	// Link to the first order when a tracking token is supplied.
	if req.OrderToken != "" {
		var order models.Order
		if err := db.DB.Where("customer_token = ? AND restaurant_id = ?", req.OrderToken, req.RestaurantID).
			First(&order).Error; err == nil {
			lead.FirstOrderID = &order.ID
		}
	}

	if err := db.DB.Create(&lead).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save lead"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "lead captured"})
}

// ListLeads is the dashboard's marketing export.
func ListLeads(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	var leads []models.CustomerLead
	if err := db.DB.Where("restaurant_id = ?", restaurantID).Order("created_at DESC").Find(&leads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leads": leads})
}
