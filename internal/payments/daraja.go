package payments

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/configs"
)

// DarajaAdapter drives the M-Pesa Daraja STK-push flow: fetch an OAuth
// token, fire the push to the customer's phone, and later query the
// checkout request for a result code.
type DarajaAdapter struct {
	cfg    config.DarajaConfig
	client *http.Client
}

func NewDarajaAdapter(cfg config.DarajaConfig, client *http.Client) *DarajaAdapter {
	return &DarajaAdapter{cfg: cfg, client: client}
}

func (a *DarajaAdapter) Method() Method { return MethodMpesaDaraja }

func (a *DarajaAdapter) CredentialFields() []string {
	return []string{"consumer_key", "consumer_secret", "passkey", "shortcode"}
}

type darajaTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

type darajaSTKResponse struct {
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
	ErrorMessage        string `json:"errorMessage"`
}

type darajaQueryResponse struct {
	ResultCode   string `json:"ResultCode"`
	ResultDesc   string `json:"ResultDesc"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

func (a *DarajaAdapter) Initialize(ctx context.Context, req InitRequest) (InitResult, error) {
	token, err := a.accessToken(ctx)
	if err != nil {
		return InitResult{}, err
	}

	timestamp := time.Now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString(
		[]byte(a.cfg.Shortcode + a.cfg.Passkey + timestamp))

	// Daraja rejects fractional amounts; STK push charges whole shillings.
	amount := int(req.Amount + 0.5)
	phone := normalizePhone(req.Phone)

	body := map[string]interface{}{
		"BusinessShortCode": a.cfg.Shortcode,
		"Password":          password,
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            amount,
		"PartyA":            phone,
		"PartyB":            a.cfg.Shortcode,
		"PhoneNumber":       phone,
		"CallBackURL":       a.cfg.CallbackURL,
		"AccountReference":  req.OrderToken,
		"TransactionDesc":   req.Description,
	}

	var stkResp darajaSTKResponse
	if err := a.postJSON(ctx, "/mpesa/stkpush/v1/processrequest", token, body, &stkResp); err != nil {
		return InitResult{}, err
	}
	if stkResp.ResponseCode != "0" {
		msg := stkResp.ResponseDescription
		if msg == "" {
			msg = stkResp.ErrorMessage
		}
		return InitResult{}, fmt.Errorf("daraja STK push rejected: %s", msg)
	}

	log.Printf("Daraja STK push sent for %s, checkout request %s\n", req.OrderToken, stkResp.CheckoutRequestID)

	return InitResult{
		Kind:   ResultSTKPush,
		Ref:    stkResp.CheckoutRequestID,
		Status: "pending",
	}, nil
}

func (a *DarajaAdapter) Verify(ctx context.Context, ref string) (VerifyResult, error) {
	token, err := a.accessToken(ctx)
	if err != nil {
		return VerifyResult{}, err
	}

	timestamp := time.Now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString(
		[]byte(a.cfg.Shortcode + a.cfg.Passkey + timestamp))

	body := map[string]interface{}{
		"BusinessShortCode": a.cfg.Shortcode,
		"Password":          password,
		"Timestamp":         timestamp,
		"CheckoutRequestID": ref,
	}

	var queryResp darajaQueryResponse
	if err := a.postJSON(ctx, "/mpesa/stkpushquery/v1/query", token, body, &queryResp); err != nil {
		return VerifyResult{}, err
	}

	// Error code 500.001.1001 means the push is still being processed.
	if queryResp.ErrorCode != "" {
		if strings.Contains(queryResp.ErrorCode, "500.001.1001") {
			return VerifyResult{Status: "pending", Detail: queryResp.ErrorMessage}, nil
		}
		return VerifyResult{}, fmt.Errorf("daraja query failed: %s (%s)", queryResp.ErrorMessage, queryResp.ErrorCode)
	}

	switch queryResp.ResultCode {
	case "0":
		return VerifyResult{Status: "paid", Detail: queryResp.ResultDesc}, nil
	case "1032": // cancelled by user
		return VerifyResult{Status: "failed", Detail: queryResp.ResultDesc}, nil
	case "":
		return VerifyResult{Status: "pending"}, nil
	default:
		return VerifyResult{Status: "failed", Detail: queryResp.ResultDesc}, nil
	}
}

func (a *DarajaAdapter) accessToken(ctx context.Context) (string, error) {
	endpoint := a.cfg.BaseURL + "/oauth/v1/generate?grant_type=client_credentials"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create daraja token request: %w", err)
	}
	httpReq.SetBasicAuth(a.cfg.ConsumerKey, a.cfg.ConsumerSecret)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("daraja token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("daraja token endpoint returned status %d", resp.StatusCode)
	}

	var tokenResp darajaTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode daraja token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("daraja returned empty access token")
	}
	return tokenResp.AccessToken, nil
}

func (a *DarajaAdapter) postJSON(ctx context.Context, path, bearer string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode daraja request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.BaseURL+path, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create daraja request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("daraja request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode daraja response: %w", err)
	}
	return nil
}

// normalizePhone converts 07XX/+254 forms to the 2547XX form Daraja expects.
func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.TrimPrefix(phone, "+")
	if strings.HasPrefix(phone, "0") {
		phone = "254" + phone[1:]
	}
	return phone
}
