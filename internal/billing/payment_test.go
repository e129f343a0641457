package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-backoffice/internal/model"
)

func TestApplyPayment(t *testing.T) {
	now := time.Date(2024, 5, 20, 9, 30, 0, 0, time.FixedZone("ICT", 7*3600))

	paid, err := ApplyPayment(ActionPay, model.PaymentQR, now)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaymentMethod)
	assert.Equal(t, model.PaymentQR, *paid.PaymentMethod)
	require.NotNil(t, paid.PaymentDate)
	assert.True(t, paid.PaymentDate.Equal(now))
	assert.Equal(t, time.UTC, paid.PaymentDate.Location())

	unpaid, err := ApplyPayment(ActionUnpay, "", now)
	require.NoError(t, err)
	assert.Equal(t, Unpaid(), unpaid)
}

func TestApplyPayment_UnpayIgnoresMethod(t *testing.T) {
	state, err := ApplyPayment(ActionUnpay, "WHATEVER", time.Now())
	require.NoError(t, err)
	assert.False(t, state.IsPaid)
	assert.Nil(t, state.PaymentMethod)
	assert.Nil(t, state.PaymentDate)
}

func TestApplyPayment_Rejects(t *testing.T) {
	testCases := []struct {
		name   string
		action PaymentAction
		method model.PaymentMethod
	}{
		{"pay without method", ActionPay, ""},
		{"pay with unknown method", ActionPay, "CHEQUE"},
		{"unknown action", "REFUND", model.PaymentCash},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ApplyPayment(tc.action, tc.method, time.Now())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}
