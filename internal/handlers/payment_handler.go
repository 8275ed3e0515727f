package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/db"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/payments"
)

// PesapalCallback lands the customer back from the hosted payment page.
// The redirect alone proves nothing, so the tracking id is re-verified
// against Pesapal before the order is marked paid.
func PesapalCallback(c *gin.Context) {
	trackingID := c.Query("OrderTrackingId")
	merchantRef := c.Query("OrderMerchantReference")
	if trackingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "OrderTrackingId is required"})
		return
	}

	var order models.Order
	if err := db.DB.Where("payment_ref = ?", trackingID).First(&order).Error; err != nil {
		// Fall back to the merchant reference (the customer token).
		if merchantRef == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err := db.DB.Where("customer_token = ?", merchantRef).First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
	}

	adapter, err := paymentRegistry.Adapter(payments.MethodPesapal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment verification unavailable"})
		return
	}

	verify, err := adapter.Verify(c.Request.Context(), trackingID)
	if err != nil {
		log.Printf("Pesapal verification failed for order %s: %v\n", order.CustomerToken, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment verification failed"})
		return
	}

	applyVerifyResult(&order, verify)
	c.JSON(http.StatusOK, gin.H{"order_token": order.CustomerToken, "payment_status": order.PaymentStatus})
}

type darajaCallbackBody struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// DarajaCallback receives the asynchronous STK-push result from Safaricom.
func DarajaCallback(c *gin.Context) {
	var body darajaCallbackBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid callback payload"})
		return
	}

	cb := body.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CheckoutRequestID is required"})
		return
	}

	var order models.Order
	if err := db.DB.Where("payment_ref = ?", cb.CheckoutRequestID).First(&order).Error; err != nil {
		// Acknowledge anyway; Daraja retries unacknowledged callbacks.
		log.Printf("Daraja callback for unknown checkout request %s\n", cb.CheckoutRequestID)
		c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
		return
	}

	result := payments.VerifyResult{Status: "failed", Detail: cb.ResultDesc}
	if cb.ResultCode == 0 {
		result.Status = "paid"
	}
	applyVerifyResult(&order, result)

	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}

// PaymentMethodFields exposes the credential-form metadata for the
// dashboard's payment settings page.
func PaymentMethodFields(c *gin.Context) {
	method, err := payments.ParseMethod(c.Param("method"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adapter, err := paymentRegistry.Adapter(method)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"method": method,
		"fields": adapter.CredentialFields(),
		"manual": method.Manual(),
	})
}

func applyVerifyResult(order *models.Order, verify payments.VerifyResult) {
	var status string
	switch verify.Status {
	case "paid":
		status = models.PaymentStatusPaid
	case "failed":
		status = models.PaymentStatusFailed
	default:
		return // still pending, nothing to record
	}

	if err := db.DB.Model(order).Update("payment_status", status).Error; err != nil {
		log.Printf("Failed to update payment status for order %s: %v\n", order.CustomerToken, err)
		return
	}
	order.PaymentStatus = status
	log.Printf("Order %s payment status set to %s (%s)\n", order.CustomerToken, status, verify.Detail)
}
