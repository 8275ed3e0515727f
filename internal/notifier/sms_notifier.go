package notifier

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/configs"
)

type SMSResponse struct {
	SMSMessageData struct {
		Message    string `json:"Message"`
		Recipients []struct {
			StatusCode int    `json:"statusCode"`
			Number     string `json:"number"`
			Cost       string `json:"cost"`
			Status     string `json:"status"`
			MessageID  string `json:"messageId"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

// SendOrderSMS notifies a customer about their order via Africa's Talking.
// Status drives the wording: an empty status means order confirmation.
func SendOrderSMS(toPhoneNumber, restaurantName, orderToken, status string, totalAmount float64) error {

	cfg := config.LoadAfricaTalkingConfig()

	var message string
	if status == "" {
		message = fmt.Sprintf("Your order at %s has been placed! Total: KES %.2f. Track it with code %s.", restaurantName, totalAmount, orderToken)
	} else {
		message = fmt.Sprintf("Update from %s: your order %s is now %s.", restaurantName, orderToken, status)
	}

	data := url.Values{}
	data.Set("username", cfg.Username)
	data.Set("to", toPhoneNumber)
	data.Set("message", message)
	data.Set("from", cfg.SenderID)

	client := &http.Client{}
	req, err := http.NewRequest("POST", cfg.SMSURL, strings.NewReader(data.Encode()))

	if err != nil {
		return fmt.Errorf("failed to create SMS request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apikey", cfg.APIKey)

	resp, err := client.Do(req)

	if err != nil {
		log.Printf("SMS send failed to %s for order %s: %v\n", toPhoneNumber, orderToken, err)
		return fmt.Errorf("SMS send failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var smsResp SMSResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&smsResp); decodeErr == nil {
			log.Printf("SMS API returned error for %s (order %s): Status %d, Message: %s\n", toPhoneNumber, orderToken, resp.StatusCode, smsResp.SMSMessageData.Message)
		} else {
			log.Printf("SMS API returned non-success status %d for %s (order %s) and failed to decode response: %v\n", resp.StatusCode, toPhoneNumber, orderToken, decodeErr)
		}
		return fmt.Errorf("SMS API returned non-success status: %d", resp.StatusCode)
	}

	var smsResp SMSResponse
	if err := json.NewDecoder(resp.Body).Decode(&smsResp); err != nil {
		log.Printf("Failed to decode SMS response for %s (order %s): %v\n", toPhoneNumber, orderToken, err)
		return fmt.Errorf("failed to decode SMS response: %w", err)
	}

	log.Printf("SMS sent successfully to %s for order %s. Message: %s\n", toPhoneNumber, orderToken, smsResp.SMSMessageData.Message)
	return nil
}
