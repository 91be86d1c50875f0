package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/orders"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/routes"
)

// OrderQuery encodes f the way the orders list and export routes read it.
func OrderQuery(f orders.Filter) url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.IsPaid != nil {
		q.Set("isPaid", strconv.FormatBool(*f.IsPaid))
	}
	if f.Sort != "" {
		q.Set("sort", f.Sort)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// ListOrders fails when any returned order breaks the totals invariant.
func (c *Client) ListOrders(ctx context.Context, f orders.Filter) (orders.Page, error) {
	var p orders.Page
	if err := c.doJSON(ctx, http.MethodGet, routes.Orders, OrderQuery(f), nil, &p); err != nil {
		return orders.Page{}, err
	}
	for _, o := range p.Orders {
		if err := o.CheckTotals(); err != nil {
			return orders.Page{}, err
		}
	}
	return p, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (orders.Order, error) {
	var o orders.Order
	if err := c.doJSON(ctx, http.MethodGet, routes.Orders+"/"+url.PathEscape(id), nil, nil, &o); err != nil {
		return orders.Order{}, err
	}
	return o, o.CheckTotals()
}

type statusRequest struct {
	Status orders.Status `json:"status"`
}

// UpdateOrderStatus checks the transition against the current order before
// sending it. The returned order is the backend's view.
func (c *Client) UpdateOrderStatus(ctx context.Context, cur orders.Order, to orders.Status) (orders.Order, error) {
	if err := orders.CheckTransition(cur.Status, to); err != nil {
		return orders.Order{}, err
	}
	var o orders.Order
	err := c.doJSON(ctx, http.MethodPut, routes.Orders+"/"+url.PathEscape(cur.ID)+"/status", nil, statusRequest{Status: to}, &o)
	return o, err
}

func (c *Client) MarkDelivered(ctx context.Context, cur orders.Order) (orders.Order, error) {
	if err := orders.CheckTransition(cur.Status, orders.StatusDelivered); err != nil {
		return orders.Order{}, err
	}
	var o orders.Order
	err := c.doJSON(ctx, http.MethodPut, routes.Orders+"/"+url.PathEscape(cur.ID)+"/deliver", nil, nil, &o)
	return o, err
}

// ConfirmPayment forwards an external payment confirmation event.
func (c *Client) ConfirmPayment(ctx context.Context, id string, result *orders.PaymentResult) (orders.Order, error) {
	var o orders.Order
	err := c.doJSON(ctx, http.MethodPut, routes.Orders+"/"+url.PathEscape(id)+"/pay", nil, result, &o)
	return o, err
}

func (c *Client) SendPaymentReminder(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPost, routes.Orders+"/"+url.PathEscape(id)+"/payment-reminder", nil, nil, nil)
}

func (c *Client) OrderStats(ctx context.Context) (orders.Stats, error) {
	var s orders.Stats
	err := c.doJSON(ctx, http.MethodGet, routes.OrderStats, nil, nil, &s)
	return s, err
}
