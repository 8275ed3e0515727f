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

func setupSettingsTestRouter(t *testing.T, restaurantID uint) (*gin.Engine, *gorm.DB) {
	router, testDB := setupCartTestRouter(t)

	if err := testDB.AutoMigrate(&models.CustomerLead{}); err != nil {
		panic("failed to auto-migrate models: " + err.Error())
	}

	router.POST("/api/leads", handlers.CreateLead)

	dashboard := router.Group("/api/dashboard", authAs(restaurantID))
	{
		dashboard.GET("/payment-settings", handlers.GetPaymentSettings)
		dashboard.PATCH("/payment-settings", handlers.UpdatePaymentSettings)
		dashboard.GET("/notification-settings", handlers.GetNotificationSettings)
		dashboard.PATCH("/notification-settings", handlers.UpdateNotificationSettings)
		dashboard.PATCH("/branding", handlers.UpdateBranding)
		dashboard.GET("/leads", handlers.ListLeads)
		dashboard.GET("/analytics/summary", handlers.GetAnalyticsSummary)
	}

	return router, testDB
}

func TestPaymentSettings(t *testing.T) {
	router, _ := setupSettingsTestRouter(t, 60)

	t.Run("first read creates defaults", func(t *testing.T) {
		recorder := performCartRequest(router, http.MethodGet, "/api/dashboard/payment-settings", "", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		var settings models.PaymentSettings
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &settings))
		assert.Equal(t, uint(60), settings.RestaurantID)
	})

	t.Run("update persists enabled methods and till", func(t *testing.T) {
		enabled := "mpesa_manual,cash"
		till := "832909"
		recorder := performCartRequest(router, http.MethodPatch, "/api/dashboard/payment-settings",
			"", handlers.UpdatePaymentSettingsRequest{EnabledMethods: &enabled, TillNumber: &till})
		assert.Equal(t, http.StatusOK, recorder.Code)

		var settings models.PaymentSettings
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &settings))
		assert.Equal(t, "mpesa_manual,cash", settings.EnabledMethods)
		assert.Equal(t, "832909", settings.TillNumber)
	})

	t.Run("unknown method in the list is rejected", func(t *testing.T) {
		enabled := "cash,credit_card"
		recorder := performCartRequest(router, http.MethodPatch, "/api/dashboard/payment-settings",
			"", handlers.UpdatePaymentSettingsRequest{EnabledMethods: &enabled})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestNotificationSettings(t *testing.T) {
	router, _ := setupSettingsTestRouter(t, 61)

	t.Run("update ringtone and volume", func(t *testing.T) {
		ringtone := "chime"
		volume := 0.8
		sms := true
		recorder := performCartRequest(router, http.MethodPatch, "/api/dashboard/notification-settings",
			"", handlers.UpdateNotificationSettingsRequest{Ringtone: &ringtone, Volume: &volume, SMSEnabled: &sms})
		assert.Equal(t, http.StatusOK, recorder.Code)

		var settings models.NotificationSettings
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &settings))
		assert.Equal(t, "chime", settings.Ringtone)
		assert.Equal(t, 0.8, settings.Volume)
		assert.True(t, settings.SMSEnabled)
	})

	t.Run("volume outside range is rejected", func(t *testing.T) {
		volume := 1.5
		recorder := performCartRequest(router, http.MethodPatch, "/api/dashboard/notification-settings",
			"", handlers.UpdateNotificationSettingsRequest{Volume: &volume})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestBrandingAndLeads(t *testing.T) {
	_, testDB := setupSettingsTestRouter(t, 0)

	restaurant := models.Restaurant{Name: "Brand Base", Slug: "brand-base"}
	assert.NoError(t, testDB.Create(&restaurant).Error)

	router, _ := setupSettingsTestRouter(t, restaurant.ID)

	t.Run("branding update changes the public identity", func(t *testing.T) {
		tagline := "Nyama done right"
		primary := "#B5472A"
		recorder := performCartRequest(router, http.MethodPatch, "/api/dashboard/branding",
			"", handlers.UpdateBrandingRequest{Tagline: &tagline, PrimaryColor: &primary})
		assert.Equal(t, http.StatusOK, recorder.Code)

		var updated models.Restaurant
		assert.NoError(t, testDB.First(&updated, restaurant.ID).Error)
		assert.Equal(t, "Nyama done right", updated.Tagline)
		assert.Equal(t, "#B5472A", updated.PrimaryColor)
	})

	t.Run("lead capture links the first order", func(t *testing.T) {
		order := models.Order{
			RestaurantID:   restaurant.ID,
			CustomerToken:  "lead-order-1",
			IdempotencyKey: itoa(restaurant.ID) + ":lead-order-1:1",
			OrderStatus:    models.OrderStatusPending,
			PaymentStatus:  models.PaymentStatusPending,
			PaymentMethod:  "cash",
		}
		assert.NoError(t, testDB.Create(&order).Error)

		recorder := performCartRequest(router, http.MethodPost, "/api/leads",
			"", handlers.CreateLeadRequest{
				RestaurantID: restaurant.ID,
				Name:         "Wanjiku",
				Phone:        "0712345678",
				OrderToken:   "lead-order-1",
			})
		assert.Equal(t, http.StatusCreated, recorder.Code)

		var lead models.CustomerLead
		assert.NoError(t, testDB.Where("restaurant_id = ?", restaurant.ID).First(&lead).Error)
		assert.NotNil(t, lead.FirstOrderID)
		assert.Equal(t, order.ID, *lead.FirstOrderID)
	})

	t.Run("lead without phone is rejected", func(t *testing.T) {
		recorder := performCartRequest(router, http.MethodPost, "/api/leads",
			"", handlers.CreateLeadRequest{RestaurantID: restaurant.ID, Name: "No Phone"})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("dashboard lists captured leads", func(t *testing.T) {
		recorder := performCartRequest(router, http.MethodGet, "/api/dashboard/leads", "", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp struct {
			Leads []models.CustomerLead `json:"leads"`
		}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Len(t, resp.Leads, 1)
	})
}

func TestAnalyticsSummary(t *testing.T) {
	router, testDB := setupSettingsTestRouter(t, 70)

	paid := models.Order{
		RestaurantID:   70,
		CustomerToken:  "an-paid-1",
		IdempotencyKey: "70:an-paid-1:1",
		OrderStatus:    models.OrderStatusCompleted,
		PaymentStatus:  models.PaymentStatusPaid,
		PaymentMethod:  "cash",
		Total:          800,
		Items: []models.OrderItem{
			{MenuItemID: 1, Name: "Pilau", Price: 300, Quantity: 2},
			{MenuItemID: 2, Name: "Juice", Price: 200, Quantity: 1},
		},
	}
	assert.NoError(t, testDB.Create(&paid).Error)

	unpaid := models.Order{
		RestaurantID:   70,
		CustomerToken:  "an-unpaid-1",
		IdempotencyKey: "70:an-unpaid-1:1",
		OrderStatus:    models.OrderStatusPending,
		PaymentStatus:  models.PaymentStatusPending,
		PaymentMethod:  "cash",
		Total:          200,
		Items: []models.OrderItem{
			{MenuItemID: 1, Name: "Pilau", Price: 200, Quantity: 1},
		},
	}
	assert.NoError(t, testDB.Create(&unpaid).Error)

	recorder := performCartRequest(router, http.MethodGet, "/api/dashboard/analytics/summary", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		WindowDays        int     `json:"window_days"`
		OrderCount        int64   `json:"order_count"`
		PaidRevenue       float64 `json:"paid_revenue"`
		AverageOrderValue float64 `json:"average_order_value"`
		TopItems          []struct {
			Name     string `json:"name"`
			Quantity uint   `json:"quantity"`
		} `json:"top_items"`
	}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, 30, resp.WindowDays)
	assert.Equal(t, int64(2), resp.OrderCount)
	assert.Equal(t, 800.0, resp.PaidRevenue)
	assert.Equal(t, 500.0, resp.AverageOrderValue)
	assert.NotEmpty(t, resp.TopItems)
	assert.Equal(t, "Pilau", resp.TopItems[0].Name)
	assert.Equal(t, uint(3), resp.TopItems[0].Quantity)

	t.Run("invalid window is rejected", func(t *testing.T) {
		recorder := performCartRequest(router, http.MethodGet, "/api/dashboard/analytics/summary?days=-3", "", nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
