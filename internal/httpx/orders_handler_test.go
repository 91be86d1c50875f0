package httpx

import (
	"net/http"
	"strings"
	"testing"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/orders"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/routes"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ordersFixture struct {
	repo                   *fakeOrders
	status, paid, reminder *recorder
	router                 http.Handler
}

func newOrdersFixture() *ordersFixture {
	f := &ordersFixture{
		repo: &fakeOrders{byID: map[string]orders.Order{
			"o1": {ID: "o1", Status: orders.StatusProcessing},
			"o2": {ID: "o2", Status: orders.StatusDelivered, IsPaid: true},
			"o3": {ID: "o3", OrderNumber: "ORD-3", CustomerEmail: "amina@example.com", Status: orders.StatusPending,
				TotalPrice: decimal.RequireFromString("115")},
		}},
		status:   &recorder{},
		paid:     &recorder{},
		reminder: &recorder{},
	}
	f.router = newTestRouter(&OrdersHandler{
		Repo:         f.repo,
		StatusEvents: f.status,
		PaidEvents:   f.paid,
		Reminders:    f.reminder,
		Service:      "booking-api",
	})
	return f
}

func TestUpdateStatusPublishesChange(t *testing.T) {
	f := newOrdersFixture()
	rec := do(t, f.router, http.MethodPut, routes.Orders+"/o1/status", map[string]string{"status": "shipped"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, orders.StatusShipped, decodeBody[orders.Order](t, rec).Status)

	msgs := f.status.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, "o1", msgs[0].key)
	assert.Equal(t, orders.EventOrderStatusChanged, msgs[0].env.EventType)
	assert.Equal(t, "booking-api", msgs[0].env.Producer)
	assert.NotEmpty(t, msgs[0].env.TraceID)
	assert.Equal(t, orders.StatusChangedPayload{OrderID: "o1", From: orders.StatusProcessing, To: orders.StatusShipped},
		payloadOf[orders.StatusChangedPayload](t, msgs[0]))
	assert.Equal(t, "x-event-type", msgs[0].headers[0].Key)
}

func TestUpdateStatusRejected(t *testing.T) {
	f := newOrdersFixture()
	rec := do(t, f.router, http.MethodPut, routes.Orders+"/o2/status", map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, f.status.all())
	assert.Equal(t, orders.StatusDelivered, f.repo.byID["o2"].Status)
}

func TestUpdateStatusErrors(t *testing.T) {
	f := newOrdersFixture()

	rec := do(t, f.router, http.MethodPut, routes.Orders+"/missing/status", map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, f.router, http.MethodPut, routes.Orders+"/o1/status", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeliver(t *testing.T) {
	f := newOrdersFixture()
	rec := do(t, f.router, http.MethodPut, routes.Orders+"/o1/deliver", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, orders.StatusDelivered, f.repo.byID["o1"].Status)
	assert.Len(t, f.status.all(), 1)
}

func TestPayPublishesOrderPaid(t *testing.T) {
	f := newOrdersFixture()
	rec := do(t, f.router, http.MethodPut, routes.Orders+"/o3/pay", orders.PaymentResult{ID: "pay_1", Status: "COMPLETED"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.repo.byID["o3"].IsPaid)

	msgs := f.paid.all()
	require.Len(t, msgs, 1)
	p := payloadOf[orders.OrderPaidPayload](t, msgs[0])
	require.NotNil(t, p.PaymentResult)
	assert.Equal(t, "pay_1", p.PaymentResult.ID)
}

func TestRepeatedPaymentConfirmationIsNoop(t *testing.T) {
	f := newOrdersFixture()
	first := &orders.PaymentResult{ID: "pay_1", Status: "COMPLETED"}
	f.repo.byID["o2"] = orders.Order{ID: "o2", Status: orders.StatusDelivered, IsPaid: true, PaymentResult: first}

	rec := do(t, f.router, http.MethodPut, routes.Orders+"/o2/pay", orders.PaymentResult{ID: "pay_2", Status: "COMPLETED"})
	require.Equal(t, http.StatusOK, rec.Code)
	o := decodeBody[orders.Order](t, rec)
	require.NotNil(t, o.PaymentResult)
	assert.Equal(t, "pay_1", o.PaymentResult.ID)
	assert.Empty(t, f.paid.all())

	rec = do(t, f.router, http.MethodPut, routes.Orders+"/o3/pay", orders.PaymentResult{ID: "pay_3"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, f.router, http.MethodPut, routes.Orders+"/o3/pay", orders.PaymentResult{ID: "pay_4"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, f.paid.all(), 1)
	assert.Equal(t, "pay_3", f.repo.byID["o3"].PaymentResult.ID)
}

func TestPaymentReminder(t *testing.T) {
	f := newOrdersFixture()

	rec := do(t, f.router, http.MethodPost, routes.Orders+"/o2/payment-reminder", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, f.router, http.MethodPost, routes.Orders+"/o3/payment-reminder", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	msgs := f.reminder.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, orders.PaymentReminderPayload{
		OrderID: "o3", OrderNumber: "ORD-3", CustomerEmail: "amina@example.com", TotalPrice: "115.00",
	}, payloadOf[orders.PaymentReminderPayload](t, msgs[0]))
}

func TestListOrdersFilterValidation(t *testing.T) {
	f := newOrdersFixture()

	rec := do(t, f.router, http.MethodGet, routes.Orders+"?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, f.router, http.MethodGet, routes.Orders+"?isPaid=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, f.router, http.MethodGet, routes.Orders+"?status=pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeBody[orders.Page](t, rec).Total)
}

func TestExportOrders(t *testing.T) {
	f := newOrdersFixture()
	rec := do(t, f.router, http.MethodGet, routes.OrdersExport+"?ids=o3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="orders.csv"`, rec.Header().Get("Content-Disposition"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "o3,,amina@example.com,115.00,pending,Unpaid,"), lines[1])
}
