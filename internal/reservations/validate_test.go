package reservations

import (
	"errors"
	"testing"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(t *testing.T, err error) []string {
	t.Helper()
	var ve validation.Errors
	require.True(t, errors.As(err, &ve), "got %v", err)
	out := make([]string, len(ve))
	for i, fe := range ve {
		out[i] = fe.Field
	}
	return out
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(activity("a1", "Amina", "amina@example.com", t0)))
	assert.NoError(t, Validate(travel("t1", "John", "Doe", "jd@example.com", t0)))

	bad := activity("a1", "", "not-an-email", t0)
	bad.Activity.NumberOfPersons = 0
	assert.ElementsMatch(t, []string{"customerInfo.name", "customerInfo.email", "numberOfPersons"}, fields(t, Validate(bad)))

	badTravel := travel("t1", "John", "", "jd@example.com", t0)
	badTravel.Status = "booked"
	assert.ElementsMatch(t, []string{"status", "lastName"}, fields(t, Validate(badTravel)))

	mixed := activity("a1", "Amina", "amina@example.com", t0)
	mixed.Variant = VariantOrganizedTravel
	assert.Equal(t, []string{"type"}, fields(t, Validate(mixed)))
}

func TestCheckImportHoldsReplacedRowsToLifecycle(t *testing.T) {
	refunded := activity("a1", "Amina", "amina@example.com", t0)
	refunded.PaymentStatus = PaymentRefunded
	completed := activity("a2", "Karim", "karim@example.com", t0)
	completed.Status = StatusCompleted
	existing := map[string]Reservation{"a1": refunded, "a2": completed}

	reopened := refunded
	reopened.PaymentStatus = PaymentPending
	unchanged := completed
	fresh := activity("a9", "Sara", "sara@example.com", t0)
	fresh.Status = StatusConfirmed

	err := CheckImport(existing, []Reservation{fresh, unchanged, reopened})
	assert.Equal(t, []string{"row 4.paymentStatus"}, fields(t, err))
	assert.Contains(t, err.Error(), "terminal_state")

	back := completed
	back.Status = StatusConfirmed
	assert.Equal(t, []string{"row 2.status"}, fields(t, CheckImport(existing, []Reservation{back})))

	assert.NoError(t, CheckImport(existing, []Reservation{fresh, unchanged}))
}
