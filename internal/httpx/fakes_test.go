package httpx

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/catalog"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/generation"
	kafkax "github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/kafka"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/orders"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/reservations"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type published struct {
	key     string
	env     orders.Envelope
	headers []kafka.Header
}

// recorder is a kafkax.Publisher that keeps every message.
type recorder struct {
	mu   sync.Mutex
	msgs []published
}

var _ kafkax.Publisher = (*recorder)(nil)

func (r *recorder) Publish(key, value []byte, headers ...kafka.Header) {
	var env orders.Envelope
	_ = json.Unmarshal(value, &env)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, published{key: string(key), env: env, headers: headers})
}

func (r *recorder) all() []published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]published(nil), r.msgs...)
}

func payloadOf[T any](t *testing.T, p published) T {
	t.Helper()
	v, err := kafkax.UnwrapPayload[T](p.env.Payload)
	require.NoError(t, err)
	return v
}

type fakeOrders struct {
	byID map[string]orders.Order
}

func (f *fakeOrders) Get(_ context.Context, id string) (orders.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) List(_ context.Context, flt orders.Filter) (orders.Page, error) {
	var out []orders.Order
	for _, o := range f.byID {
		if flt.Status == "" || o.Status == flt.Status {
			out = append(out, o)
		}
	}
	return orders.Page{Orders: out, Page: 1, Pages: 1, Total: len(out)}, nil
}

func (f *fakeOrders) ListForExport(_ context.Context, ids []string, _ orders.Filter) ([]orders.Order, error) {
	var out []orders.Order
	for _, id := range ids {
		if o, ok := f.byID[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id string, to orders.Status) (orders.Status, orders.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return "", orders.Order{}, orders.ErrNotFound
	}
	if err := orders.CheckTransition(o.Status, to); err != nil {
		return "", orders.Order{}, err
	}
	from := o.Status
	o.Status = to
	f.byID[id] = o
	return from, o, nil
}

func (f *fakeOrders) MarkPaid(_ context.Context, id string, result *orders.PaymentResult) (orders.PaymentState, orders.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return "", orders.Order{}, orders.ErrNotFound
	}
	from := o.PaymentState()
	if from == orders.PaymentPaid {
		return from, o, nil
	}
	o.IsPaid, o.PaymentResult = true, result
	f.byID[id] = o
	return from, o, nil
}

func (f *fakeOrders) Stats(context.Context) (orders.Stats, error) {
	return orders.Stats{TotalOrders: len(f.byID)}, nil
}

type fakeReservations struct {
	byID     map[string]reservations.Reservation
	upserted []reservations.Reservation
}

func (f *fakeReservations) List(_ context.Context, flt reservations.Filter) ([]reservations.Reservation, error) {
	out := []reservations.Reservation{}
	for _, r := range f.byID {
		if flt.Match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservations) ListForExport(_ context.Context, ids []string, flt reservations.Filter) ([]reservations.Reservation, error) {
	if len(ids) == 0 {
		return f.List(context.Background(), flt)
	}
	var out []reservations.Reservation
	for _, id := range ids {
		if r, ok := f.byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservations) Create(_ context.Context, r reservations.Reservation) (reservations.Reservation, error) {
	if err := reservations.Validate(r); err != nil {
		return reservations.Reservation{}, err
	}
	r.ID = "new"
	f.byID[r.ID] = r
	return r, nil
}

func (f *fakeReservations) Update(_ context.Context, id string, p reservations.Patch) (reservations.Reservation, reservations.Reservation, error) {
	cur, ok := f.byID[id]
	if !ok {
		return reservations.Reservation{}, reservations.Reservation{}, reservations.ErrNotFound
	}
	if err := p.Check(cur); err != nil {
		return reservations.Reservation{}, reservations.Reservation{}, err
	}
	next := cur
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.PaymentStatus != nil {
		next.PaymentStatus = *p.PaymentStatus
	}
	if p.Notes != nil {
		next.Notes = *p.Notes
	}
	f.byID[id] = next
	return cur, next, nil
}

func (f *fakeReservations) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return reservations.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeReservations) UpsertAll(_ context.Context, batch []reservations.Reservation) (int, error) {
	if err := reservations.CheckImport(f.byID, batch); err != nil {
		return 0, err
	}
	f.upserted = append(f.upserted, batch...)
	return len(batch), nil
}

type fakeProducts struct {
	list     []catalog.Product
	upserted []catalog.Product
}

func (f *fakeProducts) ListProducts(context.Context) ([]catalog.Product, error) { return f.list, nil }

func (f *fakeProducts) ListForExport(_ context.Context, ids []string) ([]catalog.Product, error) {
	return f.list, nil
}

func (f *fakeProducts) Create(_ context.Context, p catalog.Product) (catalog.Product, error) {
	if err := catalog.Validate(p); err != nil {
		return catalog.Product{}, err
	}
	p.ID = "p-new"
	f.list = append(f.list, p)
	return p, nil
}

func (f *fakeProducts) Delete(_ context.Context, id string) error {
	for i, p := range f.list {
		if p.ID == id {
			f.list = append(f.list[:i], f.list[i+1:]...)
			return nil
		}
	}
	return catalog.ErrNotFound
}

func (f *fakeProducts) UpsertAll(_ context.Context, batch []catalog.Product) (int, error) {
	f.upserted = append(f.upserted, batch...)
	return len(batch), nil
}

type memTasks struct {
	mu    sync.Mutex
	tasks map[generation.TaskID]generation.Task
}

func (m *memTasks) Put(_ context.Context, t generation.Task) error {
	if err := t.Check(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tasks == nil {
		m.tasks = map[generation.TaskID]generation.Task{}
	}
	m.tasks[t.ID] = t
	return nil
}

func (m *memTasks) Get(_ context.Context, id generation.TaskID) (generation.Task, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	return t, ok, nil
}

func (m *memTasks) Claim(context.Context, generation.TaskID) (bool, error) { return true, nil }

func (m *memTasks) Release(context.Context, generation.TaskID) error { return nil }
