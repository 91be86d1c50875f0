// Package routes holds the REST paths shared by the API server and its client.
package routes

import (
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/csvpipe"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/reservations"
)

const (
	Orders          = "/api/orders"
	OrderStats      = "/api/orders/stats"
	OrdersExport    = "/api/orders/export"
	Products        = "/api/products"
	ProductsExport  = "/api/products/export"
	ProductsImport  = "/api/products/import"
	Generate        = "/api/products/generate"
	Activity        = "/api/reservations"
	ActivityExport  = "/api/reservations/export"
	ActivityImport  = "/api/reservations/import"
	Travel          = "/api/organized-travel/reservations"
	TravelExport    = "/api/organized-travel/reservations/export"
	TravelImport    = "/api/organized-travel/reservations/import"
	Healthz         = "/healthz"
	ExportIDsParam  = "ids"
	ImportFileField = "file"
)

func Reservations(v reservations.Variant) string {
	switch v {
	case reservations.VariantActivity:
		return Activity
	case reservations.VariantOrganizedTravel:
		return Travel
	}
	panic("routes: unknown reservation variant " + string(v))
}

func Export(r csvpipe.Resource) string {
	switch r {
	case csvpipe.ResourceOrders:
		return OrdersExport
	case csvpipe.ResourceProducts:
		return ProductsExport
	case csvpipe.ResourceActivityReservations:
		return ActivityExport
	case csvpipe.ResourceTravelReservations:
		return TravelExport
	}
	panic("routes: unknown csv resource " + string(r))
}

func Import(r csvpipe.Resource) string {
	switch r {
	case csvpipe.ResourceProducts:
		return ProductsImport
	case csvpipe.ResourceActivityReservations:
		return ActivityImport
	case csvpipe.ResourceTravelReservations:
		return TravelImport
	}
	panic("routes: no import for csv resource " + string(r))
}
