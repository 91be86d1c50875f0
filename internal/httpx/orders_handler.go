package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/csvpipe"
	kafkax "github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/kafka"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/orders"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/redisx"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/routes"
	"github.com/redis/go-redis/v9"
)

// OrderStore is the subset of orders.Repo the handler uses.
type OrderStore interface {
	Get(ctx context.Context, id string) (orders.Order, error)
	List(ctx context.Context, f orders.Filter) (orders.Page, error)
	ListForExport(ctx context.Context, ids []string, f orders.Filter) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, id string, to orders.Status) (orders.Status, orders.Order, error)
	MarkPaid(ctx context.Context, id string, result *orders.PaymentResult) (orders.PaymentState, orders.Order, error)
	Stats(ctx context.Context) (orders.Stats, error)
}

var _ OrderStore = (*orders.Repo)(nil)

type OrdersHandler struct {
	Repo OrderStore
	// Cache is optional; when set GET /orders/{id} is served from Redis.
	Cache        redis.Cmdable
	StatusEvents kafkax.Publisher
	PaidEvents   kafkax.Publisher
	Reminders    kafkax.Publisher
	Service      string
	Dates        csvpipe.DateFormat
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Get(routes.Orders, h.listOrders)
	r.Get(routes.OrderStats, h.stats)
	r.Get(routes.OrdersExport, h.export)
	r.Get(routes.Orders+"/{id}", h.getOrder)
	r.Put(routes.Orders+"/{id}/status", h.updateStatus)
	r.Put(routes.Orders+"/{id}/deliver", h.deliver)
	r.Put(routes.Orders+"/{id}/pay", h.pay)
	r.Post(routes.Orders+"/{id}/payment-reminder", h.remind)
}

func orderFilter(r *http.Request) (orders.Filter, error) {
	q := r.URL.Query()
	f := orders.Filter{
		Search: q.Get("search"),
		Status: orders.Status(q.Get("status")),
		Sort:   q.Get("sort"),
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, badRequest{msg: fmt.Sprintf("unknown status %q", f.Status)}
	}
	if s := q.Get("isPaid"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return f, badRequest{msg: "isPaid must be true or false"}
		}
		f.IsPaid = &b
	}
	for name, dst := range map[string]*int{"page": &f.Page, "limit": &f.Limit} {
		if s := q.Get(name); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				return f, badRequest{msg: name + " must be a positive number"}
			}
			*dst = n
		}
	}
	return f, nil
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	f, err := orderFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Repo.List(ctx, f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) coba cache
	key := fmt.Sprintf(redisx.KeyOrder, id)
	if h.Cache != nil {
		var o orders.Order
		if ok, _ := redisx.GetJSON(ctx, h.Cache, key, &o); ok {
			writeJSON(w, http.StatusOK, o)
			return
		}
	}

	// 2) fallback DB
	o, err := h.Repo.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.Cache != nil {
		_ = redisx.SetJSON(ctx, h.Cache, key, o, redisx.TTLOrderCache)
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) forget(ctx context.Context, id string) {
	if h.Cache != nil {
		_ = h.Cache.Del(ctx, fmt.Sprintf(redisx.KeyOrder, id)).Err()
	}
}

type statusReq struct {
	Status orders.Status `json:"status"`
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	h.transition(w, r, req.Status)
}

func (h *OrdersHandler) deliver(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, orders.StatusDelivered)
}

func (h *OrdersHandler) transition(w http.ResponseWriter, r *http.Request, to orders.Status) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	from, o, err := h.Repo.UpdateStatus(ctx, id, to)
	if err != nil {
		writeError(w, err)
		return
	}
	h.forget(ctx, id)
	if from != o.Status {
		publish(h.StatusEvents, r, h.Service, orders.EventOrderStatusChanged, id,
			orders.StatusChangedPayload{OrderID: id, From: from, To: o.Status})
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) pay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var result *orders.PaymentResult
	if err := decodeJSON(r, &result, true); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	from, o, err := h.Repo.MarkPaid(ctx, id, result)
	if err != nil {
		writeError(w, err)
		return
	}
	if from != o.PaymentState() {
		h.forget(ctx, id)
		publish(h.PaidEvents, r, h.Service, orders.EventOrderPaid, id,
			orders.OrderPaidPayload{OrderID: id, PaymentResult: o.PaymentResult})
	}
	writeJSON(w, http.StatusOK, o)
}

// remind queues a payment reminder email; the mailer consumes the topic.
func (h *OrdersHandler) remind(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Repo.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if o.IsPaid {
		writeJSON(w, http.StatusConflict, errorBody{Error: "order is already paid"})
		return
	}
	publish(h.Reminders, r, h.Service, orders.EventPaymentReminder, id, orders.PaymentReminderPayload{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerEmail: o.CustomerEmail,
		TotalPrice:    o.TotalPrice.StringFixed(2),
	})
	writeJSON(w, http.StatusAccepted, map[string]string{"message": "payment reminder queued"})
}

func (h *OrdersHandler) stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	st, err := h.Repo.Stats(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *OrdersHandler) export(w http.ResponseWriter, r *http.Request) {
	f, err := orderFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, err := h.Repo.ListForExport(ctx, exportIDs(r), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCSV(w, csvpipe.ResourceOrders.Filename(), func(out io.Writer) error {
		return csvpipe.WriteOrders(out, list, h.Dates)
	})
}
