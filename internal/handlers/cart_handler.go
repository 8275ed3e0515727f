package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/cart"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/db"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
)

const cartTokenCookie = "menuhub_cart"

// cartStore resolves the caller's cart for the restaurant in the path. The
// token rides in a cookie (or X-Cart-Token header for non-browser clients)
// and is minted on first use.
func cartStore(c *gin.Context) (*cart.Store, uint, string, bool) {
	restaurantID, ok := restaurantParam(c)
	if !ok {
		return nil, 0, "", false
	}

	token := c.GetHeader("X-Cart-Token")
	if token == "" {
		token, _ = c.Cookie(cartTokenCookie)
	}
	if token == "" {
		token = uuid.NewString()
		c.SetCookie(cartTokenCookie, token, 60*60*24*7, "/", "", false, true)
	}

	return cart.NewStore(db.DB, restaurantID, token), restaurantID, token, true
}

func restaurantParam(c *gin.Context) (uint, bool) {
	var restaurantID uint
	if _, err := fmt.Sscan(c.Param("restaurant_id"), &restaurantID); err != nil || restaurantID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid restaurant id"})
		return 0, false
	}
	return restaurantID, true
}

type AddCartItemRequest struct {
	MenuItemID          uint   `json:"menu_item_id" binding:"required"`
	Quantity            uint   `json:"quantity"`
	Customizations      string `json:"customizations"`
	SpecialInstructions string `json:"special_instructions"`
}

func AddCartItem(c *gin.Context) {
	store, restaurantID, _, ok := cartStore(c)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Snapshot name and price from the live menu; the cart keeps its own
	// copy so later menu edits do not reprice lines already added.
	var item models.MenuItem
	if err := db.DB.Where("id = ? AND restaurant_id = ?", req.MenuItemID, restaurantID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Menu item not found with ID: %d", req.MenuItemID)})
		return
	}
	if !item.Available {
		c.JSON(http.StatusConflict, gin.H{"error": "menu item is not available"})
		return
	}

	err := store.Add(cart.AddRequest{
		MenuItemID:          item.ID,
		Name:                item.Name,
		Price:               item.Price,
		Quantity:            req.Quantity,
		Customizations:      req.Customizations,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add to cart"})
		return
	}

	respondWithCart(c, store)
}

type UpdateCartItemRequest struct {
	Quantity       *uint  `json:"quantity" binding:"required"`
	Customizations string `json:"customizations"`
}

func UpdateCartItem(c *gin.Context) {
	store, _, _, ok := cartStore(c)
	if !ok {
		return
	}

	var menuItemID uint
	if _, err := fmt.Sscan(c.Param("item_id"), &menuItemID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := store.UpdateQuantity(menuItemID, *req.Quantity, req.Customizations); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cart line not found"})
		return
	}

	respondWithCart(c, store)
}

func RemoveCartItem(c *gin.Context) {
	store, _, _, ok := cartStore(c)
	if !ok {
		return
	}

	var menuItemID uint
	if _, err := fmt.Sscan(c.Param("item_id"), &menuItemID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	if err := store.Remove(menuItemID, c.Query("customizations")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cart line not found"})
		return
	}

	respondWithCart(c, store)
}

func GetCart(c *gin.Context) {
	store, _, _, ok := cartStore(c)
	if !ok {
		return
	}
	respondWithCart(c, store)
}

type ValidateCartRequest struct {
	Items []cart.ClientLine `json:"items"`
}

// ValidateCart lets a client check its cached view against the server-side
// cart; a divergent client re-fetches the snapshot.
func ValidateCart(c *gin.Context) {
	store, _, _, ok := cartStore(c)
	if !ok {
		return
	}

	var req ValidateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	divergence, err := store.Validate(req.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate cart"})
		return
	}

	c.JSON(http.StatusOK, divergence)
}

func ResetCart(c *gin.Context) {
	store, _, _, ok := cartStore(c)
	if !ok {
		return
	}

	if err := store.Reset(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset cart"})
		return
	}

	respondWithCart(c, store)
}

func respondWithCart(c *gin.Context, store *cart.Store) {
	items, err := store.Snapshot()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read cart"})
		return
	}

	var count uint
	var total float64
	for _, it := range items {
		count += it.Quantity
		total += it.Price * float64(it.Quantity)
	}

	if items == nil {
		items = []models.CartItem{}
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": count,
		"total": total,
	})
}
