package billing

import (
	"fmt"
	"time"

	"property-backoffice/internal/model"
)

// PaymentAction is the operator's request on a reading.
type PaymentAction string

const (
	ActionPay   PaymentAction = "PAY"
	ActionUnpay PaymentAction = "UNPAY"
)

// PaymentState is the paid/unpaid part of a reading.
type PaymentState struct {
	IsPaid        bool
	PaymentMethod *model.PaymentMethod
	PaymentDate   *time.Time
}

// Unpaid is the state of a reading that was never paid.
func Unpaid() PaymentState {
	return PaymentState{}
}

// ApplyPayment returns the state after action. PAY needs a valid method and
// stamps now; UNPAY always succeeds and clears method and date.
func ApplyPayment(action PaymentAction, method model.PaymentMethod, now time.Time) (PaymentState, error) {
	switch action {
	case ActionPay:
		if !method.Valid() {
			return PaymentState{}, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, method)
		}
		m := method
		ts := now.UTC()
		return PaymentState{IsPaid: true, PaymentMethod: &m, PaymentDate: &ts}, nil
	case ActionUnpay:
		return Unpaid(), nil
	default:
		return PaymentState{}, fmt.Errorf("%w: unknown payment action %q", ErrInvalidInput, action)
	}
}
