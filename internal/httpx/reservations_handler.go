package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/csvpipe"
	kafkax "github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/kafka"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/orders"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/reservations"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/routes"
)

// ReservationStore is one variant's reservations.Repo.
type ReservationStore interface {
	List(ctx context.Context, f reservations.Filter) ([]reservations.Reservation, error)
	ListForExport(ctx context.Context, ids []string, f reservations.Filter) ([]reservations.Reservation, error)
	Create(ctx context.Context, res reservations.Reservation) (reservations.Reservation, error)
	Update(ctx context.Context, id string, p reservations.Patch) (reservations.Reservation, reservations.Reservation, error)
	Delete(ctx context.Context, id string) error
	UpsertAll(ctx context.Context, batch []reservations.Reservation) (int, error)
}

var _ ReservationStore = (*reservations.Repo)(nil)

// ReservationsHandler serves one variant's collection under its own path.
type ReservationsHandler struct {
	Variant reservations.Variant
	Repo    ReservationStore
	Events  kafkax.Publisher
	Service string
}

func (h *ReservationsHandler) resource() csvpipe.Resource {
	if h.Variant == reservations.VariantOrganizedTravel {
		return csvpipe.ResourceTravelReservations
	}
	return csvpipe.ResourceActivityReservations
}

func (h *ReservationsHandler) Register(r chi.Router) {
	base := routes.Reservations(h.Variant)
	res := h.resource()
	r.Get(base, h.list)
	r.Post(base, h.create)
	r.Get(routes.Export(res), h.export)
	r.Post(routes.Import(res), h.importCSV)
	r.Put(base+"/{id}", h.update)
	r.Delete(base+"/{id}", h.delete)
}

func reservationFilter(r *http.Request) (reservations.Filter, error) {
	q := r.URL.Query()
	f := reservations.Filter{
		Search:        q.Get("search"),
		Status:        reservations.Status(q.Get("status")),
		PaymentStatus: reservations.PaymentStatus(q.Get("paymentStatus")),
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, badRequest{msg: fmt.Sprintf("unknown status %q", f.Status)}
	}
	if f.PaymentStatus != "" && !f.PaymentStatus.Valid() {
		return f, badRequest{msg: fmt.Sprintf("unknown paymentStatus %q", f.PaymentStatus)}
	}
	return f, nil
}

type reservationList struct {
	Reservations []reservations.Reservation `json:"reservations"`
	Total        int                        `json:"total"`
}

func (h *ReservationsHandler) list(w http.ResponseWriter, r *http.Request) {
	f, err := reservationFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := h.Repo.List(ctx, f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservationList{Reservations: list, Total: len(list)})
}

func (h *ReservationsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in reservations.Reservation
	if err := decodeJSON(r, &in, false); err != nil {
		writeError(w, err)
		return
	}
	in.Variant = h.Variant
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := h.Repo.Create(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *ReservationsHandler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var p reservations.Patch
	if err := decodeJSON(r, &p, false); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	before, after, err := h.Repo.Update(ctx, id, p)
	if err != nil {
		writeError(w, err)
		return
	}
	if before.Status != after.Status || before.PaymentStatus != after.PaymentStatus {
		publish(h.Events, r, h.Service, orders.EventReservationChanged, id, orders.ReservationChangedPayload{
			ReservationID: id,
			Variant:       string(h.Variant),
			Status:        string(after.Status),
			PaymentStatus: string(after.PaymentStatus),
		})
	}
	writeJSON(w, http.StatusOK, after)
}

func (h *ReservationsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.Delete(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	publish(h.Events, r, h.Service, orders.EventReservationChanged, id, orders.ReservationChangedPayload{
		ReservationID: id,
		Variant:       string(h.Variant),
		Deleted:       true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "reservation deleted"})
}

func (h *ReservationsHandler) export(w http.ResponseWriter, r *http.Request) {
	f, err := reservationFilter(r)
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
	writeCSV(w, h.resource().Filename(), func(out io.Writer) error {
		return csvpipe.WriteReservations(out, h.Variant, list)
	})
}

// importCSV validates the whole file before writing anything.
func (h *ReservationsHandler) importCSV(w http.ResponseWriter, r *http.Request) {
	f, err := uploadedFile(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()

	batch, err := csvpipe.ReadReservations(f, h.Variant)
	if err != nil {
		writeImportError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	n, err := h.Repo.UpsertAll(ctx, batch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, csvpipe.ImportSummary{
		Resource: h.resource(),
		Imported: n,
		Message:  fmt.Sprintf("%d reservations imported", n),
	})
}
