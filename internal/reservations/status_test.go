package reservations

import (
	"errors"
	"testing"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reasonOf(t *testing.T, err error) lifecycle.Reason {
	t.Helper()
	if err == nil {
		return ""
	}
	var te *lifecycle.TransitionError
	require.True(t, errors.As(err, &te), "unexpected error %v", err)
	return te.Reason
}

func TestCheckStatusAllPairs(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:   {StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled},
		StatusConfirmed: {StatusConfirmed, StatusCompleted, StatusCancelled},
		StatusCompleted: {StatusCompleted},
		StatusCancelled: {StatusCancelled},
	}
	for _, from := range Statuses() {
		for _, to := range Statuses() {
			err := CheckStatus(from, to)
			if contains(allowed[from], to) {
				assert.NoError(t, err, "%s -> %s", from, to)
				continue
			}
			assert.Error(t, err, "%s -> %s", from, to)
		}
	}
	assert.Equal(t, lifecycle.ReasonTerminalState, reasonOf(t, CheckStatus(StatusCompleted, StatusPending)))
	assert.Equal(t, lifecycle.ReasonInvalidTransition, reasonOf(t, CheckStatus(StatusConfirmed, StatusPending)))
	assert.Equal(t, lifecycle.ReasonUnknownState, reasonOf(t, CheckStatus(StatusPending, "booked")))
}

func TestCheckPaymentAllPairs(t *testing.T) {
	allowed := map[PaymentStatus][]PaymentStatus{
		PaymentPending:  {PaymentPending, PaymentPartial, PaymentPaid, PaymentRefunded},
		PaymentPartial:  {PaymentPartial, PaymentPaid, PaymentRefunded},
		PaymentPaid:     {PaymentPaid, PaymentRefunded},
		PaymentRefunded: {PaymentRefunded},
	}
	for _, from := range PaymentStatuses() {
		for _, to := range PaymentStatuses() {
			err := CheckPayment(from, to)
			if contains(allowed[from], to) {
				assert.NoError(t, err, "%s -> %s", from, to)
				continue
			}
			assert.Error(t, err, "%s -> %s", from, to)
		}
	}
}

// A reservation is paid in two steps, refunded, and can then never go back.
func TestPaymentLifecycle(t *testing.T) {
	cur := PaymentPending
	for _, next := range []PaymentStatus{PaymentPartial, PaymentPaid, PaymentRefunded} {
		require.NoError(t, CheckPayment(cur, next), "%s -> %s", cur, next)
		cur = next
	}
	assert.Equal(t, lifecycle.ReasonTerminalState, reasonOf(t, CheckPayment(cur, PaymentPending)))
}

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
