package httpx

import (
	"net/http"
	"testing"
	"time"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/csvpipe"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/orders"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/reservations"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/routes"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activityFixture() (*fakeReservations, *recorder, http.Handler) {
	repo := &fakeReservations{byID: map[string]reservations.Reservation{
		"a1": {
			ID: "a1", Variant: reservations.VariantActivity, Status: reservations.StatusPending,
			PaymentStatus: reservations.PaymentPending, TotalPrice: decimal.NewFromInt(80),
			Activity: &reservations.ActivityBooking{
				ActivityID: "quad", NumberOfPersons: 2, ReservationDate: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
				Customer: reservations.CustomerInfo{Name: "Amina", Email: "amina@example.com"},
			},
		},
	}}
	rec := &recorder{}
	h := &ReservationsHandler{Variant: reservations.VariantActivity, Repo: repo, Events: rec, Service: "booking-api"}
	return repo, rec, newTestRouter(h)
}

func TestListReservations(t *testing.T) {
	_, _, router := activityFixture()
	rec := do(t, router, http.MethodGet, routes.Activity+"?search=amina", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[reservationList](t, rec)
	assert.Equal(t, 1, body.Total)

	rec = do(t, router, http.MethodGet, routes.Activity+"?paymentStatus=owed", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateReservationPublishesOnStatusChange(t *testing.T) {
	repo, events, router := activityFixture()

	rec := do(t, router, http.MethodPut, routes.Activity+"/a1", map[string]string{"notes": "window seat"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, events.all())

	rec = do(t, router, http.MethodPut, routes.Activity+"/a1", map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, reservations.StatusConfirmed, repo.byID["a1"].Status)
	assert.Equal(t, "window seat", repo.byID["a1"].Notes)

	msgs := events.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, orders.EventReservationChanged, msgs[0].env.EventType)
	assert.Equal(t, orders.ReservationChangedPayload{
		ReservationID: "a1", Variant: "Activity", Status: "confirmed", PaymentStatus: "pending",
	}, payloadOf[orders.ReservationChangedPayload](t, msgs[0]))
}

func TestUpdateReservationRejectedTransition(t *testing.T) {
	repo, events, router := activityFixture()
	a := repo.byID["a1"]
	a.Status = reservations.StatusCompleted
	repo.byID["a1"] = a

	rec := do(t, router, http.MethodPut, routes.Activity+"/a1", map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, events.all())
}

func TestDeleteReservation(t *testing.T) {
	repo, events, router := activityFixture()

	rec := do(t, router, http.MethodDelete, routes.Activity+"/a1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, repo.byID)
	msgs := events.all()
	require.Len(t, msgs, 1)
	assert.True(t, payloadOf[orders.ReservationChangedPayload](t, msgs[0]).Deleted)

	rec = do(t, router, http.MethodDelete, routes.Activity+"/a1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReservationValidation(t *testing.T) {
	_, _, router := activityFixture()
	rec := do(t, router, http.MethodPost, routes.Activity, map[string]any{
		"status": "pending", "paymentStatus": "pending",
		"activityBooking": map[string]any{"activity": "quad"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody[errorBody](t, rec)
	assert.NotEmpty(t, body.Errors)
}

func TestImportReservations(t *testing.T) {
	repo, _, router := activityFixture()

	bad := "Activity,Customer Name,Email,Reservation Date,Persons\n" +
		"quad,Karim,karim@example.com,2024-10-02,2\n" +
		"quad,,not-an-email,2024-10-02,2\n"
	rec := upload(t, router, routes.ActivityImport, "res.csv", bad)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, repo.upserted)

	good := "Activity,Customer Name,Email,Reservation Date,Persons\n" +
		"quad,Karim,karim@example.com,2024-10-02,2\n"
	rec = upload(t, router, routes.ActivityImport, "res.csv", good)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sum := decodeBody[csvpipe.ImportSummary](t, rec)
	assert.Equal(t, csvpipe.ResourceActivityReservations, sum.Resource)
	assert.Equal(t, 1, sum.Imported)
	require.Len(t, repo.upserted, 1)
	assert.Equal(t, "Karim", repo.upserted[0].CustomerName())
}

func TestImportCannotReopenRefundedReservation(t *testing.T) {
	repo, _, router := activityFixture()
	a := repo.byID["a1"]
	a.PaymentStatus = reservations.PaymentRefunded
	repo.byID["a1"] = a

	file := "ID,Activity,Customer Name,Email,Reservation Date,Persons,Payment Status\n" +
		"a1,quad,Amina,amina@example.com,2024-10-01,2,pending\n"
	rec := upload(t, router, routes.ActivityImport, "res.csv", file)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	body := decodeBody[errorBody](t, rec)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "row 2.paymentStatus", body.Errors[0].Field)
	assert.Empty(t, repo.upserted)
	assert.Equal(t, reservations.PaymentRefunded, repo.byID["a1"].PaymentStatus)
}

func TestImportRequiresMultipart(t *testing.T) {
	_, _, router := activityFixture()
	rec := do(t, router, http.MethodPost, routes.ActivityImport, "Activity\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
