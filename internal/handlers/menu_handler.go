package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/db"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
)

// GetPublicMenu serves the customer-facing digital menu: restaurant
// branding plus categories with their available items.
func GetPublicMenu(c *gin.Context) {
	slug := c.Param("slug")

	var restaurant models.Restaurant
	if err := db.DB.Where("slug = ?", slug).First(&restaurant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
		return
	}

	var categories []models.MenuCategory
	err := db.DB.
		Where("restaurant_id = ?", restaurant.ID).
		Order("sort_order, id").
		Preload("Items", "available = ?", true).
		Find(&categories).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load menu"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant,
		"categories": categories,
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Dashboard menu management
// ─────────────────────────────────────────────────────────────────────────────

type CreateCategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

func CreateCategory(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.MenuCategory{
		RestaurantID: restaurantID,
		Name:         req.Name,
		SortOrder:    req.SortOrder,
	}

	if err := db.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, category)
}

type UpdateCategoryRequest struct {
	Name      *string `json:"name"`
	SortOrder *int    `json:"sort_order"`
}

func UpdateCategory(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	category, ok := findCategory(c, restaurantID)
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}

	if err := db.DB.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, category)
}

func DeleteCategory(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	category, ok := findCategory(c, restaurantID)
	if !ok {
		return
	}

	if err := db.DB.Select("Items").Delete(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}

type CreateMenuItemRequest struct {
	CategoryID     uint    `json:"category_id" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	Price          float64 `json:"price" binding:"required,gt=0"`
	PersuasionCopy string  `json:"persuasion_copy"`
	Popular        bool    `json:"popular"`
	ImageURL       string  `json:"image_url"`
}

func CreateMenuItem(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category models.MenuCategory
	if err := db.DB.Where("id = ? AND restaurant_id = ?", req.CategoryID, restaurantID).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Category not found with ID: %d", req.CategoryID)})
		return
	}

	// Subscription plans cap how many items a menu can carry.
	var subscriber models.Subscriber
	if err := db.DB.Where("restaurant_id = ?", restaurantID).First(&subscriber).Error; err == nil {
		var itemCount int64
		db.DB.Model(&models.MenuItem{}).Where("restaurant_id = ?", restaurantID).Count(&itemCount)
		if subscriber.MenuItemCap > 0 && itemCount >= int64(subscriber.MenuItemCap) {
			c.JSON(http.StatusForbidden, gin.H{"error": "menu item limit reached for current plan"})
			return
		}
	}

	item := models.MenuItem{
		CategoryID:     req.CategoryID,
		RestaurantID:   restaurantID,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Available:      true,
		PersuasionCopy: req.PersuasionCopy,
		Popular:        req.Popular,
		ImageURL:       req.ImageURL,
	}

	if err := db.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, item)
}

type UpdateMenuItemRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	Price          *float64 `json:"price"`
	Available      *bool    `json:"available"`
	PersuasionCopy *string  `json:"persuasion_copy"`
	Popular        *bool    `json:"popular"`
	ImageURL       *string  `json:"image_url"`
}

func UpdateMenuItem(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	item, ok := findMenuItem(c, restaurantID)
	if !ok {
		return
	}

	var req UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be greater than zero"})
			return
		}
		item.Price = *req.Price
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if req.PersuasionCopy != nil {
		item.PersuasionCopy = *req.PersuasionCopy
	}
	if req.Popular != nil {
		item.Popular = *req.Popular
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}

	if err := db.DB.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func DeleteMenuItem(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	item, ok := findMenuItem(c, restaurantID)
	if !ok {
		return
	}

	if err := db.DB.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "menu item deleted"})
}

func findCategory(c *gin.Context, restaurantID uint) (models.MenuCategory, bool) {
	var id uint
	if _, err := fmt.Sscan(c.Param("id"), &id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return models.MenuCategory{}, false
	}

	var category models.MenuCategory
	if err := db.DB.Where("id = ? AND restaurant_id = ?", id, restaurantID).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Category not found with ID: %d", id)})
		return models.MenuCategory{}, false
	}
	return category, true
}

func findMenuItem(c *gin.Context, restaurantID uint) (models.MenuItem, bool) {
	var id uint
	if _, err := fmt.Sscan(c.Param("id"), &id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu item id"})
		return models.MenuItem{}, false
	}

	var item models.MenuItem
	if err := db.DB.Where("id = ? AND restaurant_id = ?", id, restaurantID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Menu item not found with ID: %d", id)})
		return models.MenuItem{}, false
	}
	return item, true
}
