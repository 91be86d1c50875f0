package reservations

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func activity(id, name, email string, created time.Time) Reservation {
	return Reservation{
		ID:            id,
		Variant:       VariantActivity,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		TotalPrice:    decimal.NewFromInt(50),
		CreatedAt:     created,
		Activity: &ActivityBooking{
			ActivityID:      "act-1",
			Customer:        CustomerInfo{Name: name, Email: email},
			ReservationDate: created.Add(72 * time.Hour),
			NumberOfPersons: 2,
		},
	}
}

func travel(id, first, last, email string, created time.Time) Reservation {
	return Reservation{
		ID:            id,
		Variant:       VariantOrganizedTravel,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		TotalPrice:    decimal.NewFromInt(900),
		CreatedAt:     created,
		Travel: &TravelBooking{
			ProgramID:         "prog-1",
			FirstName:         first,
			LastName:          last,
			Email:             email,
			PreferredDate:     created.Add(240 * time.Hour),
			NumberOfTravelers: 3,
		},
	}
}

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func TestFilterMatch(t *testing.T) {
	a := activity("a1", "Amina Idrissi", "amina@example.com", t0)
	tr := travel("t1", "John", "Doe", "jd@example.com", t0)

	tests := []struct {
		name string
		f    Filter
		r    Reservation
		want bool
	}{
		{"empty filter", Filter{}, a, true},
		{"activity name", Filter{Search: "amina"}, a, true},
		{"activity email", Filter{Search: "EXAMPLE.COM"}, a, true},
		{"travel last name", Filter{Search: "doe"}, tr, true},
		{"travel full name", Filter{Search: "john doe"}, tr, true},
		{"no match", Filter{Search: "zzz"}, tr, false},
		{"status", Filter{Status: StatusConfirmed}, a, false},
		{"payment", Filter{PaymentStatus: PaymentPending}, a, true},
		{"type excludes", Filter{Type: TypeOrganizedTravel}, a, false},
		{"type all", Filter{Type: TypeAll}, tr, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.Match(tt.r))
		})
	}
}

func TestCustomerAccessors(t *testing.T) {
	tr := travel("t1", "John", "Doe", "jd@example.com", t0)
	assert.Equal(t, "John Doe", tr.CustomerName())
	assert.Equal(t, "jd@example.com", tr.CustomerEmail())

	a := activity("a1", "Amina", "amina@example.com", t0)
	assert.Equal(t, "Amina", a.CustomerName())
	assert.Equal(t, "amina@example.com", a.CustomerEmail())
}

func TestCheckShape(t *testing.T) {
	a := activity("a1", "Amina", "amina@example.com", t0)
	assert.NoError(t, a.CheckShape())

	a.Variant = VariantOrganizedTravel
	assert.Error(t, a.CheckShape())

	a.Variant = "Cruise"
	assert.Error(t, a.CheckShape())
}

func TestPatchCheck(t *testing.T) {
	cur := activity("a1", "Amina", "amina@example.com", t0)
	cur.Status = StatusCompleted

	pending := StatusPending
	assert.Error(t, Patch{Status: &pending}.Check(cur))

	refunded := PaymentRefunded
	assert.NoError(t, Patch{PaymentStatus: &refunded}.Check(cur))

	notes := "called customer"
	p := Patch{Notes: &notes}
	assert.NoError(t, p.Check(cur))
	assert.False(t, p.Empty())
	assert.True(t, Patch{}.Empty())
}

func TestRef(t *testing.T) {
	r := travel("t9", "A", "B", "ab@example.com", t0).Ref()
	assert.Equal(t, "t9", r.ID())
	assert.Equal(t, VariantOrganizedTravel, r.Variant())
}
