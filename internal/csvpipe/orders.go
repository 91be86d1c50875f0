package csvpipe

import (
	"io"
	"time"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/orders"
)

// OrderHeader is an external contract; downstream tools read these columns
// by position.
var OrderHeader = []string{"Order ID", "Customer", "Email", "Total", "Status", "Payment", "Date"}

// DefaultDateLayout renders Date the way the en-US locale does.
const DefaultDateLayout = "1/2/2006"

type DateFormat struct {
	Layout   string
	Location *time.Location
}

func (f DateFormat) format(t time.Time) string {
	layout, loc := f.Layout, f.Location
	if layout == "" {
		layout = DefaultDateLayout
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(layout)
}

func WriteOrders(w io.Writer, list []orders.Order, df DateFormat) error {
	rows := make([][]string, 0, len(list))
	for _, o := range list {
		payment := "Unpaid"
		if o.IsPaid {
			payment = "Paid"
		}
		rows = append(rows, []string{
			o.ID,
			o.CustomerName,
			o.CustomerEmail,
			o.TotalPrice.StringFixed(2),
			string(o.Status),
			payment,
			df.format(o.CreatedAt),
		})
	}
	return writeAll(w, OrderHeader, rows)
}
