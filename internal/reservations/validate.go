package reservations

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/validation"
)

// Validate runs the pre-flight checks for a create or import row.
func Validate(r Reservation) error {
	var errs validation.Errors
	if !r.Status.Valid() {
		errs.Add("status", "unknown status "+string(r.Status))
	}
	if !r.PaymentStatus.Valid() {
		errs.Add("paymentStatus", "unknown payment status "+string(r.PaymentStatus))
	}
	if r.TotalPrice.IsNegative() {
		errs.Add("totalPrice", "must not be negative")
	}
	if err := r.CheckShape(); err != nil {
		errs.Add("type", err.Error())
		return errs
	}
	switch r.Variant {
	case VariantActivity:
		a := r.Activity
		required(&errs, "activity", a.ActivityID)
		required(&errs, "customerInfo.name", a.Customer.Name)
		email(&errs, "customerInfo.email", a.Customer.Email)
		if a.ReservationDate.IsZero() {
			errs.Add("reservationDate", "is required")
		}
		if a.NumberOfPersons <= 0 {
			errs.Add("numberOfPersons", "must be positive")
		}
	case VariantOrganizedTravel:
		t := r.Travel
		required(&errs, "programId", t.ProgramID)
		required(&errs, "firstName", t.FirstName)
		required(&errs, "lastName", t.LastName)
		email(&errs, "email", t.Email)
		if t.PreferredDate.IsZero() {
			errs.Add("preferredDate", "is required")
		}
		if t.NumberOfTravelers <= 0 {
			errs.Add("numberOfTravelers", "must be positive")
		}
	}
	return errs.Err()
}

func required(errs *validation.Errors, field, v string) {
	if strings.TrimSpace(v) == "" {
		errs.Add(field, "is required")
	}
}

func email(errs *validation.Errors, field, v string) {
	if strings.TrimSpace(v) == "" {
		errs.Add(field, "is required")
		return
	}
	if _, err := mail.ParseAddress(v); err != nil {
		errs.Add(field, "is not a valid email")
	}
}

// CheckImport holds import rows that overwrite a stored record to the same
// lifecycle as an update. existing maps id to the stored row; row i of batch
// is line i+2 of the file.
func CheckImport(existing map[string]Reservation, batch []Reservation) error {
	var errs validation.Errors
	for i, next := range batch {
		before, ok := existing[next.ID]
		if next.ID == "" || !ok {
			continue
		}
		var rowErrs validation.Errors
		if err := CheckStatus(before.Status, next.Status); err != nil {
			rowErrs.Add("status", err.Error())
		}
		if err := CheckPayment(before.PaymentStatus, next.PaymentStatus); err != nil {
			rowErrs.Add("paymentStatus", err.Error())
		}
		errs = append(errs, rowErrs.Prefix(fmt.Sprintf("row %d", i+2))...)
	}
	return errs.Err()
}
