package payments

import (
	"context"
	"fmt"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
)

// Method is the closed set of supported payment methods. Dispatch goes
// through the Registry, so an unknown string fails at parse time instead of
// falling through a chain of comparisons.
type Method string

const (
	MethodPesapal      Method = "pesapal"
	MethodMpesaDaraja  Method = "mpesa_daraja"
	MethodMpesaManual  Method = "mpesa_manual"
	MethodBankTransfer Method = "bank_transfer"
	MethodCash         Method = "cash"
)

func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodPesapal, MethodMpesaDaraja, MethodMpesaManual, MethodBankTransfer, MethodCash:
		return Method(s), nil
	}
	return "", fmt.Errorf("unknown payment method: %q", s)
}

// Manual reports whether completion of this method is asserted by a human
// (customer confirmation or staff reconciliation) rather than a gateway
// callback.
func (m Method) Manual() bool {
	switch m {
	case MethodMpesaManual, MethodBankTransfer, MethodCash:
		return true
	}
	return false
}

// ResultKind tells the caller what to do after Initialize.
type ResultKind string

const (
	ResultRedirect     ResultKind = "redirect"     // send customer to RedirectURL
	ResultSTKPush      ResultKind = "stk_push"     // prompt sent to phone; poll with Ref
	ResultInstructions ResultKind = "instructions" // show Instructions, wait for manual confirmation
	ResultNone         ResultKind = "none"         // nothing to do (cash)
)

type InitRequest struct {
	OrderToken  string
	Amount      float64
	Currency    string
	Phone       string
	Email       string
	Description string
	Settings    models.PaymentSettings
}

type InitResult struct {
	Kind         ResultKind `json:"kind"`
	Ref          string     `json:"ref"` // provider tracking id or minted reference
	RedirectURL  string     `json:"redirect_url,omitempty"`
	Instructions string     `json:"instructions,omitempty"`
	Status       string     `json:"status"` // always "pending" until verified
}

type VerifyResult struct {
	Status string `json:"status"` // pending | paid | failed
	Detail string `json:"detail,omitempty"`
}

// Adapter is one payment strategy. Gateway adapters call out to the
// provider; manual adapters format instructions and mint a pending ref.
type Adapter interface {
	Method() Method
	Initialize(ctx context.Context, req InitRequest) (InitResult, error)
	Verify(ctx context.Context, ref string) (VerifyResult, error)
	CredentialFields() []string
}
