package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/handlers"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
)

// authAs stands in for the session middleware on dashboard routes.
func authAs(restaurantID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("restaurant_id", restaurantID)
		c.Next()
	}
}

// setupMenuTestRouter seeds a restaurant and registers the public menu,
// waiter, and dashboard routes with the stub auth bound to it.
func setupMenuTestRouter(t *testing.T, slug string) (*gin.Engine, *gorm.DB, models.Restaurant) {
	router, testDB := setupCartTestRouter(t)

	if err := testDB.AutoMigrate(&models.Subscriber{}, &models.WaiterCall{}); err != nil {
		panic("failed to auto-migrate models: " + err.Error())
	}

	restaurant := models.Restaurant{Name: "Test " + slug, Slug: slug}
	if err := testDB.Create(&restaurant).Error; err != nil {
		panic("failed to seed restaurant: " + err.Error())
	}

	router.GET("/menu/:slug", handlers.GetPublicMenu)
	router.POST("/api/waiter-calls/:restaurant_id", handlers.CreateWaiterCall)

	dashboard := router.Group("/api/dashboard", authAs(restaurant.ID))
	{
		dashboard.POST("/categories", handlers.CreateCategory)
		dashboard.PATCH("/categories/:id", handlers.UpdateCategory)
		dashboard.DELETE("/categories/:id", handlers.DeleteCategory)
		dashboard.POST("/menu-items", handlers.CreateMenuItem)
		dashboard.PATCH("/menu-items/:id", handlers.UpdateMenuItem)
		dashboard.DELETE("/menu-items/:id", handlers.DeleteMenuItem)
		dashboard.GET("/waiter-calls", handlers.ListWaiterCalls)
		dashboard.PATCH("/waiter-calls/:id/ack", handlers.AckWaiterCall)
	}

	return router, testDB, restaurant
}

func TestMenuManagement(t *testing.T) {
	router, testDB, restaurant := setupMenuTestRouter(t, "dash-grill")

	var category models.MenuCategory

	t.Run("create category", func(t *testing.T) {
		recorder := performCartRequest(router, http.MethodPost, "/api/dashboard/categories", "",
			handlers.CreateCategoryRequest{Name: "Grills", SortOrder: 1})
		assert.Equal(t, http.StatusCreated, recorder.Code)

		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &category))
		assert.Equal(t, restaurant.ID, category.RestaurantID)
	})

	var item models.MenuItem

	t.Run("create menu item", func(t *testing.T) {
		recorder := performCartRequest(router, http.MethodPost, "/api/dashboard/menu-items",
			"", handlers.CreateMenuItemRequest{
				CategoryID:     category.ID,
				Name:           "Mbuzi Choma",
				Price:          900,
				PersuasionCopy: "Slow-roasted over open coals",
				Popular:        true,
			})
		assert.Equal(t, http.StatusCreated, recorder.Code)

		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &item))
		assert.True(t, item.Available)
		assert.True(t, item.Popular)
	})

	t.Run("zero price is rejected", func(t *testing.T) {
		recorder := performCartRequest(router, http.MethodPost, "/api/dashboard/menu-items",
			"", handlers.CreateMenuItemRequest{CategoryID: category.ID, Name: "Freebie", Price: 0})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("subscription plan caps menu size", func(t *testing.T) {
		assert.NoError(t, testDB.Create(&models.Subscriber{
			RestaurantID: restaurant.ID,
			Plan:         "starter",
			MenuItemCap:  1,
		}).Error)
		defer testDB.Where("restaurant_id = ?", restaurant.ID).Delete(&models.Subscriber{})

		recorder := performCartRequest(router, http.MethodPost, "/api/dashboard/menu-items",
			"", handlers.CreateMenuItemRequest{CategoryID: category.ID, Name: "One Too Many", Price: 100})
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("update menu item availability", func(t *testing.T) {
		available := false
		recorder := performCartRequest(router, http.MethodPatch, "/api/dashboard/menu-items/"+itoa(item.ID),
			"", handlers.UpdateMenuItemRequest{Available: &available})
		assert.Equal(t, http.StatusOK, recorder.Code)

		var updated models.MenuItem
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &updated))
		assert.False(t, updated.Available)
	})

	t.Run("public menu hides unavailable items", func(t *testing.T) {
		recorder := performCartRequest(router, http.MethodGet, "/menu/dash-grill", "", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp struct {
			Restaurant models.Restaurant     `json:"restaurant"`
			Categories []models.MenuCategory `json:"categories"`
		}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, restaurant.ID, resp.Restaurant.ID)
		for _, cat := range resp.Categories {
			for _, it := range cat.Items {
				assert.True(t, it.Available)
			}
		}
	})

	t.Run("unknown slug returns 404", func(t *testing.T) {
		recorder := performCartRequest(router, http.MethodGet, "/menu/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("other restaurant's item is not reachable", func(t *testing.T) {
		other := models.Restaurant{Name: "Other Place", Slug: "other-place"}
		assert.NoError(t, testDB.Create(&other).Error)
		otherCat := models.MenuCategory{RestaurantID: other.ID, Name: "Theirs"}
		assert.NoError(t, testDB.Create(&otherCat).Error)
		otherItem := models.MenuItem{CategoryID: otherCat.ID, RestaurantID: other.ID, Name: "Not Yours", Price: 50, Available: true}
		assert.NoError(t, testDB.Create(&otherItem).Error)

		recorder := performCartRequest(router, http.MethodDelete, "/api/dashboard/menu-items/"+itoa(otherItem.ID), "", nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("delete category removes its items", func(t *testing.T) {
		recorder := performCartRequest(router, http.MethodDelete, "/api/dashboard/categories/"+itoa(category.ID), "", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		var remaining int64
		testDB.Model(&models.MenuItem{}).Where("category_id = ?", category.ID).Count(&remaining)
		assert.Equal(t, int64(0), remaining)
	})
}

func TestWaiterCallFlow(t *testing.T) {
	router, _, restaurant := setupMenuTestRouter(t, "bell-bistro")

	var call models.WaiterCall

	t.Run("customer calls a waiter", func(t *testing.T) {
		recorder := performCartRequest(router, http.MethodPost, "/api/waiter-calls/"+itoa(restaurant.ID),
			"", handlers.CreateWaiterCallRequest{TableNumber: "T7"})
		assert.Equal(t, http.StatusCreated, recorder.Code)

		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &call))
		assert.Equal(t, models.WaiterCallOpen, call.Status)
	})

	t.Run("staff sees the open call", func(t *testing.T) {
		recorder := performCartRequest(router, http.MethodGet, "/api/dashboard/waiter-calls", "", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp struct {
			Calls []models.WaiterCall `json:"calls"`
		}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Len(t, resp.Calls, 1)
		assert.Equal(t, "T7", resp.Calls[0].TableNumber)
	})

	t.Run("ack closes the call", func(t *testing.T) {
		recorder := performCartRequest(router, http.MethodPatch, "/api/dashboard/waiter-calls/"+itoa(call.ID)+"/ack", "", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		recorder = performCartRequest(router, http.MethodGet, "/api/dashboard/waiter-calls", "", nil)
		var resp struct {
			Calls []models.WaiterCall `json:"calls"`
		}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Empty(t, resp.Calls)
	})
}
