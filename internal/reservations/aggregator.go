package reservations

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/debounce"
	"golang.org/x/sync/errgroup"
)

// Collection is one backing REST collection of reservations.
type Collection interface {
	List(ctx context.Context, f Filter) ([]Reservation, error)
	Update(ctx context.Context, id string, p Patch) (Reservation, error)
	Delete(ctx context.Context, id string) error
}

const SearchDebounce = 300 * time.Millisecond

// Aggregator merges the Activity and OrganizedTravel collections into one
// time-sorted view and routes mutations back by variant tag.
type Aggregator struct {
	activity Collection
	travel   Collection
	search   *debounce.Debouncer
}

func NewAggregator(activity, travel Collection) *Aggregator {
	return &Aggregator{
		activity: activity,
		travel:   travel,
		search:   debounce.New(SearchDebounce),
	}
}

// collection panics on an unknown variant: a mis-routed mutation is a
// programming error, not a runtime state.
func (a *Aggregator) collection(v Variant) Collection {
	switch v {
	case VariantActivity:
		return a.activity
	case VariantOrganizedTravel:
		return a.travel
	default:
		panic(fmt.Sprintf("reservations: no collection for variant %q", v))
	}
}

// List fetches the selected sources concurrently and joins them. If any
// fetch fails the whole call fails; a partial list is never returned.
func (a *Aggregator) List(ctx context.Context, f Filter) ([]Reservation, error) {
	var act, trv []Reservation
	g, gctx := errgroup.WithContext(ctx)
	if f.Type.Includes(VariantActivity) {
		g.Go(func() error {
			var err error
			act, err = fetch(gctx, a.activity, VariantActivity, f)
			return err
		})
	}
	if f.Type.Includes(VariantOrganizedTravel) {
		g.Go(func() error {
			var err error
			trv, err = fetch(gctx, a.travel, VariantOrganizedTravel, f)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Merge(act, trv), nil
}

func fetch(ctx context.Context, c Collection, v Variant, f Filter) ([]Reservation, error) {
	list, err := c.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list %s reservations: %w", v, err)
	}
	out := make([]Reservation, 0, len(list))
	for _, r := range list {
		r.Variant = v
		if err := r.CheckShape(); err != nil {
			return nil, err
		}
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Merge concatenates tagged lists and sorts by CreatedAt descending. Equal
// timestamps keep their input order.
func Merge(lists ...[]Reservation) []Reservation {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	out := make([]Reservation, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Search is List behind a debounce. A newer Search supersedes any pending or
// in-flight one, which then returns debounce.ErrSuperseded.
func (a *Aggregator) Search(ctx context.Context, f Filter) ([]Reservation, error) {
	var out []Reservation
	err := a.search.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = a.List(ctx, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update validates the patch against cur before sending it to the collection
// that owns cur. The backend response is returned as the new truth.
func (a *Aggregator) Update(ctx context.Context, cur Reservation, p Patch) (Reservation, error) {
	if err := p.Check(cur); err != nil {
		return Reservation{}, err
	}
	ref := cur.Ref()
	r, err := a.collection(ref.variant).Update(ctx, ref.id, p)
	if err != nil {
		return Reservation{}, fmt.Errorf("update %s reservation %s: %w", ref.variant, ref.id, err)
	}
	r.Variant = ref.variant
	return r, nil
}

func (a *Aggregator) Delete(ctx context.Context, ref Ref) error {
	if err := a.collection(ref.variant).Delete(ctx, ref.id); err != nil {
		return fmt.Errorf("delete %s reservation %s: %w", ref.variant, ref.id, err)
	}
	return nil
}
