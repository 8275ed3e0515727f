package payments_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/configs"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/payments"
)

func TestParseMethod(t *testing.T) {
	for _, valid := range []string{"pesapal", "mpesa_daraja", "mpesa_manual", "bank_transfer", "cash"} {
		m, err := payments.ParseMethod(valid)
		assert.NoError(t, err)
		assert.Equal(t, valid, string(m))
	}

	_, err := payments.ParseMethod("credit_card")
	assert.Error(t, err)

	_, err = payments.ParseMethod("")
	assert.Error(t, err)
}

func TestMethodManual(t *testing.T) {
	assert.True(t, payments.MethodMpesaManual.Manual())
	assert.True(t, payments.MethodBankTransfer.Manual())
	assert.True(t, payments.MethodCash.Manual())
	assert.False(t, payments.MethodPesapal.Manual())
	assert.False(t, payments.MethodMpesaDaraja.Manual())
}

func TestRegistryCoversAllMethods(t *testing.T) {
	registry := payments.NewRegistry()

	for _, m := range []payments.Method{
		payments.MethodPesapal,
		payments.MethodMpesaDaraja,
		payments.MethodMpesaManual,
		payments.MethodBankTransfer,
		payments.MethodCash,
	} {
		adapter, err := registry.Adapter(m)
		assert.NoError(t, err)
		assert.Equal(t, m, adapter.Method())
	}
}

func TestManualAdapterInstructions(t *testing.T) {
	t.Run("till number instructions", func(t *testing.T) {
		adapter := payments.NewManualAdapter(payments.MethodMpesaManual)

		result, err := adapter.Initialize(context.Background(), payments.InitRequest{
			Amount:   750,
			Currency: "KES",
			Settings: models.PaymentSettings{TillNumber: "832909"},
		})
		assert.NoError(t, err)
		assert.Equal(t, payments.ResultInstructions, result.Kind)
		assert.Contains(t, result.Instructions, "Till 832909")
		assert.Contains(t, result.Instructions, "KES 750.00")
		assert.Equal(t, "pending", result.Status)
		assert.NotEmpty(t, result.Ref)
	})

	t.Run("paybill fallback when no till configured", func(t *testing.T) {
		adapter := payments.NewManualAdapter(payments.MethodMpesaManual)

		result, err := adapter.Initialize(context.Background(), payments.InitRequest{
			Amount:   200,
			Currency: "KES",
			Settings: models.PaymentSettings{PaybillNumber: "400200", PaybillAccount: "MENU01"},
		})
		assert.NoError(t, err)
		assert.Contains(t, result.Instructions, "400200")
		assert.Contains(t, result.Instructions, "MENU01")
	})

	t.Run("bank transfer instructions", func(t *testing.T) {
		adapter := payments.NewManualAdapter(payments.MethodBankTransfer)

		result, err := adapter.Initialize(context.Background(), payments.InitRequest{
			OrderToken: "abc123",
			Amount:     1500,
			Currency:   "KES",
			Settings: models.PaymentSettings{
				BankName:    "Equity",
				BankAccount: "0123456789",
				BankBranch:  "Westlands",
			},
		})
		assert.NoError(t, err)
		assert.Equal(t, payments.ResultInstructions, result.Kind)
		assert.Contains(t, result.Instructions, "Equity")
		assert.Contains(t, result.Instructions, "abc123")
	})

	t.Run("cash needs no instructions", func(t *testing.T) {
		adapter := payments.NewManualAdapter(payments.MethodCash)

		result, err := adapter.Initialize(context.Background(), payments.InitRequest{Amount: 100, Currency: "KES"})
		assert.NoError(t, err)
		assert.Equal(t, payments.ResultNone, result.Kind)
		assert.Empty(t, result.Instructions)
	})

	t.Run("verify always reports pending", func(t *testing.T) {
		adapter := payments.NewManualAdapter(payments.MethodMpesaManual)

		verify, err := adapter.Verify(context.Background(), "MAN-whatever")
		assert.NoError(t, err)
		assert.Equal(t, "pending", verify.Status)
	})
}

func TestPesapalAdapter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/Auth/RequestToken":
			json.NewEncoder(w).Encode(map[string]string{"token": "test-bearer"})
		case "/api/Transactions/SubmitOrderRequest":
			assert.Equal(t, "Bearer test-bearer", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]string{
				"order_tracking_id": "track-001",
				"redirect_url":      "https://pay.example/redirect/track-001",
				"status":            "200",
			})
		case "/api/Transactions/GetTransactionStatus":
			assert.Equal(t, "track-001", r.URL.Query().Get("orderTrackingId"))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"payment_status_description": "Completed",
				"confirmation_code":          "QGH7SK61",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	adapter := payments.NewPesapalAdapter(config.PesapalConfig{
		BaseURL:        server.URL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		CallbackURL:    "https://menuhub.example/api/payments/pesapal/callback",
	}, server.Client())

	result, err := adapter.Initialize(context.Background(), payments.InitRequest{
		OrderToken: "ordertoken1",
		Amount:     600,
		Currency:   "KES",
		Phone:      "0712345678",
	})
	assert.NoError(t, err)
	assert.Equal(t, payments.ResultRedirect, result.Kind)
	assert.Equal(t, "track-001", result.Ref)
	assert.Equal(t, "https://pay.example/redirect/track-001", result.RedirectURL)

	verify, err := adapter.Verify(context.Background(), "track-001")
	assert.NoError(t, err)
	assert.Equal(t, "paid", verify.Status)
	assert.Equal(t, "QGH7SK61", verify.Detail)
}

func TestDarajaAdapter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "ck", user)
			assert.Equal(t, "cs", pass)
			json.NewEncoder(w).Encode(map[string]string{"access_token": "daraja-token"})
		case "/mpesa/stkpush/v1/processrequest":
			assert.Equal(t, "Bearer daraja-token", r.Header.Get("Authorization"))
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "254712345678", body["PhoneNumber"])
			json.NewEncoder(w).Encode(map[string]string{
				"CheckoutRequestID": "ws_CO_12345",
				"ResponseCode":      "0",
			})
		case "/mpesa/stkpushquery/v1/query":
			json.NewEncoder(w).Encode(map[string]string{
				"ResultCode": "0",
				"ResultDesc": "The service request is processed successfully.",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	adapter := payments.NewDarajaAdapter(config.DarajaConfig{
		BaseURL:        server.URL,
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		Passkey:        "pk",
		Shortcode:      "174379",
	}, server.Client())

	result, err := adapter.Initialize(context.Background(), payments.InitRequest{
		OrderToken: "ordertoken2",
		Amount:     600,
		Currency:   "KES",
		Phone:      "0712345678",
	})
	assert.NoError(t, err)
	assert.Equal(t, payments.ResultSTKPush, result.Kind)
	assert.Equal(t, "ws_CO_12345", result.Ref)

	verify, err := adapter.Verify(context.Background(), "ws_CO_12345")
	assert.NoError(t, err)
	assert.Equal(t, "paid", verify.Status)
}
