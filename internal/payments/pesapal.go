package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/configs"
)

// PesapalAdapter drives the Pesapal v3 hosted-payment-page flow: request a
// bearer token, submit the order, redirect the customer, and later query
// the transaction status by tracking id.
type PesapalAdapter struct {
	cfg    config.PesapalConfig
	client *http.Client
}

func NewPesapalAdapter(cfg config.PesapalConfig, client *http.Client) *PesapalAdapter {
	return &PesapalAdapter{cfg: cfg, client: client}
}

func (a *PesapalAdapter) Method() Method { return MethodPesapal }

func (a *PesapalAdapter) CredentialFields() []string {
	return []string{"consumer_key", "consumer_secret", "ipn_id"}
}

type pesapalTokenResponse struct {
	Token   string `json:"token"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type pesapalOrderResponse struct {
	OrderTrackingID string `json:"order_tracking_id"`
	RedirectURL     string `json:"redirect_url"`
	Status          string `json:"status"`
	Error           *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type pesapalStatusResponse struct {
	PaymentStatusDescription string `json:"payment_status_description"`
	ConfirmationCode         string `json:"confirmation_code"`
	StatusCode               int    `json:"status_code"`
}

func (a *PesapalAdapter) Initialize(ctx context.Context, req InitRequest) (InitResult, error) {
	token, err := a.requestToken(ctx)
	if err != nil {
		return InitResult{}, err
	}

	body := map[string]interface{}{
		"id":              req.OrderToken,
		"currency":        req.Currency,
		"amount":          req.Amount,
		"description":     req.Description,
		"callback_url":    a.cfg.CallbackURL,
		"notification_id": a.cfg.IPNID,
		"billing_address": map[string]string{
			"phone_number":  req.Phone,
			"email_address": req.Email,
		},
	}

	var orderResp pesapalOrderResponse
	err = a.postJSON(ctx, "/api/Transactions/SubmitOrderRequest", token, body, &orderResp)
	if err != nil {
		return InitResult{}, err
	}
	if orderResp.Error != nil {
		return InitResult{}, fmt.Errorf("pesapal order rejected: %s (%s)", orderResp.Error.Message, orderResp.Error.Code)
	}
	if orderResp.RedirectURL == "" {
		return InitResult{}, fmt.Errorf("pesapal returned no redirect URL for order %s", req.OrderToken)
	}

	log.Printf("Pesapal order submitted for %s, tracking id %s\n", req.OrderToken, orderResp.OrderTrackingID)

	return InitResult{
		Kind:        ResultRedirect,
		Ref:         orderResp.OrderTrackingID,
		RedirectURL: orderResp.RedirectURL,
		Status:      "pending",
	}, nil
}

func (a *PesapalAdapter) Verify(ctx context.Context, ref string) (VerifyResult, error) {
	token, err := a.requestToken(ctx)
	if err != nil {
		return VerifyResult{}, err
	}

	endpoint := fmt.Sprintf("%s/api/Transactions/GetTransactionStatus?orderTrackingId=%s",
		a.cfg.BaseURL, url.QueryEscape(ref))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("failed to create pesapal status request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("pesapal status request failed: %w", err)
	}
	defer resp.Body.Close()

	var statusResp pesapalStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&statusResp); err != nil {
		return VerifyResult{}, fmt.Errorf("failed to decode pesapal status response: %w", err)
	}

	switch strings.ToUpper(statusResp.PaymentStatusDescription) {
	case "COMPLETED":
		return VerifyResult{Status: "paid", Detail: statusResp.ConfirmationCode}, nil
	case "FAILED", "INVALID", "REVERSED":
		return VerifyResult{Status: "failed", Detail: statusResp.PaymentStatusDescription}, nil
	default:
		return VerifyResult{Status: "pending", Detail: statusResp.PaymentStatusDescription}, nil
	}
}

func (a *PesapalAdapter) requestToken(ctx context.Context) (string, error) {
	body := map[string]string{
		"consumer_key":    a.cfg.ConsumerKey,
		"consumer_secret": a.cfg.ConsumerSecret,
	}

	var tokenResp pesapalTokenResponse
	if err := a.postJSON(ctx, "/api/Auth/RequestToken", "", body, &tokenResp); err != nil {
		return "", err
	}
	if tokenResp.Token == "" {
		return "", fmt.Errorf("pesapal auth failed: %s", tokenResp.Message)
	}
	return tokenResp.Token, nil
}

func (a *PesapalAdapter) postJSON(ctx context.Context, path, bearer string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode pesapal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.BaseURL+path, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create pesapal request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("pesapal request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Pesapal API returned status %d for %s\n", resp.StatusCode, path)
		return fmt.Errorf("pesapal API returned non-success status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode pesapal response: %w", err)
	}
	return nil
}
