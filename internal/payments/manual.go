package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ManualAdapter covers the methods with no programmatic confirmation:
// M-Pesa till/paybill, bank transfer, and cash. Initialize formats the
// payment instructions from the restaurant's settings and mints a pending
// reference; Verify always reports pending, since completion is asserted by
// the customer or reconciled by staff.
type ManualAdapter struct {
	method Method
}

func NewManualAdapter(m Method) *ManualAdapter {
	return &ManualAdapter{method: m}
}

func (a *ManualAdapter) Method() Method { return a.method }

func (a *ManualAdapter) CredentialFields() []string {
	switch a.method {
	case MethodMpesaManual:
		return []string{"till_number", "paybill_number", "paybill_account"}
	case MethodBankTransfer:
		return []string{"bank_name", "bank_account", "bank_branch"}
	default:
		return nil
	}
}

func (a *ManualAdapter) Initialize(_ context.Context, req InitRequest) (InitResult, error) {
	result := InitResult{
		Ref:    fmt.Sprintf("MAN-%s", uuid.NewString()),
		Status: "pending",
	}

	switch a.method {
	case MethodMpesaManual:
		result.Kind = ResultInstructions
		if req.Settings.TillNumber != "" {
			result.Instructions = fmt.Sprintf(
				"Pay %s %.2f via M-Pesa: Lipa na M-Pesa > Buy Goods > Till %s. Use your name as reference.",
				req.Currency, req.Amount, req.Settings.TillNumber)
		} else {
			result.Instructions = fmt.Sprintf(
				"Pay %s %.2f via M-Pesa: Lipa na M-Pesa > Pay Bill > Business %s, Account %s.",
				req.Currency, req.Amount, req.Settings.PaybillNumber, req.Settings.PaybillAccount)
		}
	case MethodBankTransfer:
		result.Kind = ResultInstructions
		result.Instructions = fmt.Sprintf(
			"Transfer %s %.2f to %s, account %s (%s). Quote order %s as reference.",
			req.Currency, req.Amount, req.Settings.BankName, req.Settings.BankAccount,
			req.Settings.BankBranch, req.OrderToken)
	case MethodCash:
		result.Kind = ResultNone
	default:
		return InitResult{}, fmt.Errorf("manual adapter misconfigured for method %q", a.method)
	}

	return result, nil
}

func (a *ManualAdapter) Verify(context.Context, string) (VerifyResult, error) {
	return VerifyResult{Status: "pending", Detail: "awaiting manual confirmation"}, nil
}
