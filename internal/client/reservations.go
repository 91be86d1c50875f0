package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/reservations"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/routes"
)

// ReservationCollection is one variant's REST collection.
type ReservationCollection struct {
	c       *Client
	variant reservations.Variant
	path    string
}

var _ reservations.Collection = (*ReservationCollection)(nil)

func (c *Client) ActivityReservations() *ReservationCollection {
	return &ReservationCollection{c: c, variant: reservations.VariantActivity, path: routes.Activity}
}

func (c *Client) TravelReservations() *ReservationCollection {
	return &ReservationCollection{c: c, variant: reservations.VariantOrganizedTravel, path: routes.Travel}
}

// Reservations wires both collections into an Aggregator.
func (c *Client) Reservations() *reservations.Aggregator {
	return reservations.NewAggregator(c.ActivityReservations(), c.TravelReservations())
}

type reservationList struct {
	Reservations []reservations.Reservation `json:"reservations"`
	Total        int                        `json:"total"`
}

// ReservationQuery encodes f for a variant's list and export routes. The type
// is not sent; each variant has its own route.
func ReservationQuery(f reservations.Filter) url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.PaymentStatus != "" {
		q.Set("paymentStatus", string(f.PaymentStatus))
	}
	return q
}

func (rc *ReservationCollection) List(ctx context.Context, f reservations.Filter) ([]reservations.Reservation, error) {
	var out reservationList
	if err := rc.c.doJSON(ctx, http.MethodGet, rc.path, ReservationQuery(f), nil, &out); err != nil {
		return nil, err
	}
	return out.Reservations, nil
}

func (rc *ReservationCollection) Create(ctx context.Context, r reservations.Reservation) (reservations.Reservation, error) {
	r.Variant = rc.variant
	if r.Status == "" {
		r.Status = reservations.StatusPending
	}
	if r.PaymentStatus == "" {
		r.PaymentStatus = reservations.PaymentPending
	}
	if err := reservations.Validate(r); err != nil {
		return reservations.Reservation{}, err
	}
	var out reservations.Reservation
	err := rc.c.doJSON(ctx, http.MethodPost, rc.path, nil, r, &out)
	return out, err
}

func (rc *ReservationCollection) Update(ctx context.Context, id string, p reservations.Patch) (reservations.Reservation, error) {
	var out reservations.Reservation
	err := rc.c.doJSON(ctx, http.MethodPut, rc.path+"/"+url.PathEscape(id), nil, p, &out)
	return out, err
}

func (rc *ReservationCollection) Delete(ctx context.Context, id string) error {
	return rc.c.doJSON(ctx, http.MethodDelete, rc.path+"/"+url.PathEscape(id), nil, nil, nil)
}
