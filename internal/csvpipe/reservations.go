package csvpipe

import (
	"fmt"
	"io"
	"strconv"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/reservations"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/validation"
)

var ActivityReservationHeader = []string{
	"ID", "Activity", "Activity Name", "Customer Name", "Email", "WhatsApp", "Reservation Date",
	"Persons", "Status", "Payment Status", "Total", "Notes", "Created At",
}

var TravelReservationHeader = []string{
	"ID", "Program", "Program Title", "First Name", "Last Name", "Email", "Phone", "Preferred Date",
	"Travelers", "Status", "Payment Status", "Total", "Notes", "Created At",
}

func WriteReservations(w io.Writer, v reservations.Variant, list []reservations.Reservation) error {
	header := ActivityReservationHeader
	if v == reservations.VariantOrganizedTravel {
		header = TravelReservationHeader
	}
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		if r.Variant != v {
			return fmt.Errorf("reservation %s is %s, not %s", r.ID, r.Variant, v)
		}
		common := []string{string(r.Status), string(r.PaymentStatus), r.TotalPrice.StringFixed(2), r.Notes, formatTime(r.CreatedAt)}
		switch v {
		case reservations.VariantActivity:
			a := r.Activity
			rows = append(rows, append([]string{
				r.ID, a.ActivityID, a.ActivityName, a.Customer.Name, a.Customer.Email, a.Customer.WhatsApp,
				formatTime(a.ReservationDate), strconv.Itoa(a.NumberOfPersons),
			}, common...))
		case reservations.VariantOrganizedTravel:
			t := r.Travel
			rows = append(rows, append([]string{
				r.ID, t.ProgramID, t.ProgramTitle, t.FirstName, t.LastName, t.Email, t.Phone,
				formatTime(t.PreferredDate), strconv.Itoa(t.NumberOfTravelers),
			}, common...))
		default:
			panic(fmt.Sprintf("csvpipe: unknown reservation variant %q", v))
		}
	}
	return writeAll(w, header, rows)
}

// ReadReservations parses an import file for one variant. Rows without an ID
// get one assigned by the store; rows with an ID overwrite that record.
func ReadReservations(r io.Reader, v reservations.Variant) ([]reservations.Reservation, error) {
	required := []string{"Activity", "Customer Name", "Email", "Reservation Date", "Persons"}
	if v == reservations.VariantOrganizedTravel {
		required = []string{"Program", "First Name", "Last Name", "Email", "Preferred Date", "Travelers"}
	}
	t, err := readTable(r, required...)
	if err != nil {
		return nil, err
	}
	var (
		out  = make([]reservations.Reservation, 0, len(t.rows))
		errs validation.Errors
	)
	for i := range t.rows {
		row := t.row(i)
		res := reservations.Reservation{
			ID:            row.str("ID"),
			Variant:       v,
			Status:        reservations.Status(orDefault(row.str("Status"), string(reservations.StatusPending))),
			PaymentStatus: reservations.PaymentStatus(orDefault(row.str("Payment Status"), string(reservations.PaymentPending))),
			TotalPrice:    row.number("Total"),
			Notes:         row.str("Notes"),
		}
		switch v {
		case reservations.VariantActivity:
			res.Activity = &reservations.ActivityBooking{
				ActivityID:   row.str("Activity"),
				ActivityName: row.str("Activity Name"),
				Customer: reservations.CustomerInfo{
					Name:     row.str("Customer Name"),
					Email:    row.str("Email"),
					WhatsApp: row.str("WhatsApp"),
				},
				ReservationDate: row.date("Reservation Date"),
				NumberOfPersons: row.integer("Persons"),
			}
		case reservations.VariantOrganizedTravel:
			res.Travel = &reservations.TravelBooking{
				ProgramID:         row.str("Program"),
				ProgramTitle:      row.str("Program Title"),
				FirstName:         row.str("First Name"),
				LastName:          row.str("Last Name"),
				Email:             row.str("Email"),
				Phone:             row.str("Phone"),
				PreferredDate:     row.date("Preferred Date"),
				NumberOfTravelers: row.integer("Travelers"),
			}
		default:
			panic(fmt.Sprintf("csvpipe: unknown reservation variant %q", v))
		}
		row.check(reservations.Validate(res))
		if len(row.errs) > 0 {
			errs = append(errs, row.errs.Prefix(fmt.Sprintf("row %d", i+2))...)
			continue
		}
		out = append(out, res)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
