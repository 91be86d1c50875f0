package csvpipe

import "fmt"

type Resource string

const (
	ResourceOrders               Resource = "orders"
	ResourceProducts             Resource = "products"
	ResourceActivityReservations Resource = "activity-reservations"
	ResourceTravelReservations   Resource = "travel-reservations"
)

func (r Resource) Filename() string { return string(r) + ".csv" }

func ParseResource(s string) (Resource, error) {
	switch r := Resource(s); r {
	case ResourceOrders, ResourceProducts, ResourceActivityReservations, ResourceTravelReservations:
		return r, nil
	}
	return "", fmt.Errorf("unknown csv resource %q", s)
}

// Importable reports whether the backend accepts uploads for r. Orders are
// created by checkout only.
func (r Resource) Importable() bool { return r != ResourceOrders }

type ImportSummary struct {
	Resource Resource `json:"resource"`
	Imported int      `json:"imported"`
	Message  string   `json:"message,omitempty"`
}
