package reservations

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Variant is the discriminant of the reservation sum type. It decides which
// backend collection owns a record.
type Variant string

const (
	VariantActivity        Variant = "Activity"
	VariantOrganizedTravel Variant = "OrganizedTravel"
)

func (v Variant) Valid() bool {
	return v == VariantActivity || v == VariantOrganizedTravel
}

// TypeFilter selects which sources a listing reads from.
type TypeFilter string

const (
	TypeAll             TypeFilter = "all"
	TypeActivity        TypeFilter = TypeFilter(VariantActivity)
	TypeOrganizedTravel TypeFilter = TypeFilter(VariantOrganizedTravel)
)

func (t TypeFilter) Includes(v Variant) bool {
	return t == "" || t == TypeAll || Variant(t) == v
}

type CustomerInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
}

// ActivityBooking holds the fields only an Activity reservation has.
type ActivityBooking struct {
	ActivityID      string       `json:"activity"`
	ActivityName    string       `json:"activityName,omitempty"`
	Customer        CustomerInfo `json:"customerInfo"`
	ReservationDate time.Time    `json:"reservationDate"`
	NumberOfPersons int          `json:"numberOfPersons"`
}

// TravelBooking holds the fields only an OrganizedTravel reservation has.
type TravelBooking struct {
	ProgramID         string    `json:"programId"`
	ProgramTitle      string    `json:"programTitle,omitempty"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	PreferredDate     time.Time `json:"preferredDate"`
	NumberOfTravelers int       `json:"numberOfTravelers"`
}

// Reservation is a tagged union: exactly one of Activity or Travel is set,
// matching Variant.
type Reservation struct {
	ID            string           `json:"_id"`
	Variant       Variant          `json:"type"`
	Status        Status           `json:"status"`
	PaymentStatus PaymentStatus    `json:"paymentStatus"`
	TotalPrice    decimal.Decimal  `json:"totalPrice"`
	Notes         string           `json:"notes,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	Activity      *ActivityBooking `json:"activityBooking,omitempty"`
	Travel        *TravelBooking   `json:"travelBooking,omitempty"`
}

// Ref identifies a record together with the collection that owns it. Its
// fields are unexported so a Ref can only come from a listed Reservation.
type Ref struct {
	id      string
	variant Variant
}

func (r Reservation) Ref() Ref { return Ref{id: r.ID, variant: r.Variant} }

func (r Ref) ID() string       { return r.id }
func (r Ref) Variant() Variant { return r.variant }

// CustomerName returns the display name regardless of variant.
func (r Reservation) CustomerName() string {
	switch {
	case r.Activity != nil:
		return r.Activity.Customer.Name
	case r.Travel != nil:
		return strings.TrimSpace(r.Travel.FirstName + " " + r.Travel.LastName)
	}
	return ""
}

func (r Reservation) CustomerEmail() string {
	switch {
	case r.Activity != nil:
		return r.Activity.Customer.Email
	case r.Travel != nil:
		return r.Travel.Email
	}
	return ""
}

// CheckShape verifies the tag matches the populated variant body.
func (r Reservation) CheckShape() error {
	switch r.Variant {
	case VariantActivity:
		if r.Activity == nil || r.Travel != nil {
			return fmt.Errorf("reservation %s: tag %s without matching body", r.ID, r.Variant)
		}
	case VariantOrganizedTravel:
		if r.Travel == nil || r.Activity != nil {
			return fmt.Errorf("reservation %s: tag %s without matching body", r.ID, r.Variant)
		}
	default:
		return fmt.Errorf("reservation %s: unknown variant %q", r.ID, r.Variant)
	}
	return nil
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Status        *Status        `json:"status,omitempty"`
	PaymentStatus *PaymentStatus `json:"paymentStatus,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
}

func (p Patch) Empty() bool {
	return p.Status == nil && p.PaymentStatus == nil && p.Notes == nil
}

// Check validates the patch against the current record's lifecycle state.
func (p Patch) Check(cur Reservation) error {
	if p.Status != nil {
		if err := CheckStatus(cur.Status, *p.Status); err != nil {
			return err
		}
	}
	if p.PaymentStatus != nil {
		if err := CheckPayment(cur.PaymentStatus, *p.PaymentStatus); err != nil {
			return err
		}
	}
	return nil
}

type Filter struct {
	Search        string
	Status        Status
	PaymentStatus PaymentStatus
	Type          TypeFilter
}

// Match applies the filter to a single record. Search covers the contact
// name and email field names of the record's own variant.
func (f Filter) Match(r Reservation) bool {
	if !f.Type.Includes(r.Variant) {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.PaymentStatus != "" && r.PaymentStatus != f.PaymentStatus {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	var fields []string
	switch {
	case r.Activity != nil:
		fields = []string{r.Activity.Customer.Name, r.Activity.Customer.Email}
	case r.Travel != nil:
		fields = []string{r.Travel.FirstName, r.Travel.LastName, r.Travel.Email, r.CustomerName()}
	}
	for _, s := range fields {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
