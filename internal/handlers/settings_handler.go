package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/db"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/payments"
)

func GetPaymentSettings(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	var settings models.PaymentSettings
	if err := db.DB.Where("restaurant_id = ?", restaurantID).FirstOrCreate(&settings,
		models.PaymentSettings{RestaurantID: restaurantID}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load payment settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

type UpdatePaymentSettingsRequest struct {
	EnabledMethods  *string `json:"enabled_methods"`
	TillNumber      *string `json:"till_number"`
	PaybillNumber   *string `json:"paybill_number"`
	PaybillAccount  *string `json:"paybill_account"`
	BankName        *string `json:"bank_name"`
	BankAccount     *string `json:"bank_account"`
	BankBranch      *string `json:"bank_branch"`
	PesapalKeyRef   *string `json:"pesapal_key_ref"`
	DarajaShortcode *string `json:"daraja_shortcode"`
}

func UpdatePaymentSettings(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	var req UpdatePaymentSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.EnabledMethods != nil {
		for _, m := range strings.Split(*req.EnabledMethods, ",") {
			if m == "" {
				continue
			}
			if _, err := payments.ParseMethod(strings.TrimSpace(m)); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
	}

	var settings models.PaymentSettings
	if err := db.DB.Where("restaurant_id = ?", restaurantID).FirstOrCreate(&settings,
		models.PaymentSettings{RestaurantID: restaurantID}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load payment settings"})
		return
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&settings.EnabledMethods, req.EnabledMethods)
	apply(&settings.TillNumber, req.TillNumber)
	apply(&settings.PaybillNumber, req.PaybillNumber)
	apply(&settings.PaybillAccount, req.PaybillAccount)
	apply(&settings.BankName, req.BankName)
	apply(&settings.BankAccount, req.BankAccount)
	apply(&settings.BankBranch, req.BankBranch)
	apply(&settings.PesapalKeyRef, req.PesapalKeyRef)
	apply(&settings.DarajaShortcode, req.DarajaShortcode)

	if err := db.DB.Save(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update payment settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func GetNotificationSettings(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	var settings models.NotificationSettings
	if err := db.DB.Where("restaurant_id = ?", restaurantID).FirstOrCreate(&settings,
		models.NotificationSettings{RestaurantID: restaurantID}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notification settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

type UpdateNotificationSettingsRequest struct {
	Ringtone     *string  `json:"ringtone"`
	Volume       *float64 `json:"volume"`
	NotifyOrders *bool    `json:"notify_orders"`
	NotifyWaiter *bool    `json:"notify_waiter"`
	SMSEnabled   *bool    `json:"sms_enabled"`
	EmailEnabled *bool    `json:"email_enabled"`
}

func UpdateNotificationSettings(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	var req UpdateNotificationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Volume != nil && (*req.Volume < 0 || *req.Volume > 1) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "volume must be between 0 and 1"})
		return
	}

	var settings models.NotificationSettings
	if err := db.DB.Where("restaurant_id = ?", restaurantID).FirstOrCreate(&settings,
		models.NotificationSettings{RestaurantID: restaurantID}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notification settings"})
		return
	}

	if req.Ringtone != nil {
		settings.Ringtone = *req.Ringtone
	}
	if req.Volume != nil {
		settings.Volume = *req.Volume
	}
	if req.NotifyOrders != nil {
		settings.NotifyOrders = *req.NotifyOrders
	}
	if req.NotifyWaiter != nil {
		settings.NotifyWaiter = *req.NotifyWaiter
	}
	if req.SMSEnabled != nil {
		settings.SMSEnabled = *req.SMSEnabled
	}
	if req.EmailEnabled != nil {
		settings.EmailEnabled = *req.EmailEnabled
	}

	if err := db.DB.Save(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update notification settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

type UpdateBrandingRequest struct {
	Name         *string `json:"name"`
	Tagline      *string `json:"tagline"`
	LogoURL      *string `json:"logo_url"`
	PrimaryColor *string `json:"primary_color"`
	AccentColor  *string `json:"accent_color"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
}

func UpdateBranding(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	var req UpdateBrandingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var restaurant models.Restaurant
	if err := db.DB.First(&restaurant, restaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
		return
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.Tagline != nil {
		restaurant.Tagline = *req.Tagline
	}
	if req.LogoURL != nil {
		restaurant.LogoURL = *req.LogoURL
	}
	if req.PrimaryColor != nil {
		restaurant.PrimaryColor = *req.PrimaryColor
	}
	if req.AccentColor != nil {
		restaurant.AccentColor = *req.AccentColor
	}
	if req.Phone != nil {
		restaurant.Phone = *req.Phone
	}
	if req.Email != nil {
		restaurant.Email = *req.Email
	}

	if err := db.DB.Save(&restaurant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update branding"})
		return
	}

	c.JSON(http.StatusOK, restaurant)
}
