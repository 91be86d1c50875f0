package bulk

import (
	"context"
	"fmt"
	"log"
	"strings"
)

type DeleteFunc func(ctx context.Context, id string) error

// ExportFunc requests a backend CSV for ids (all filtered records when ids is
// empty) and saves it, returning where it was written.
type ExportFunc func(ctx context.Context, ids []string) (string, error)

type Failure struct {
	ID  string
	Err error
}

// Result of a best-effort batch. Already applied items stay applied; callers
// re-fetch the list instead of trusting local state.
type Result struct {
	Succeeded int
	Failed    []Failure
}

func (r Result) OK() bool { return len(r.Failed) == 0 }

func (r Result) FailedIDs() []string {
	out := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		out[i] = f.ID
	}
	return out
}

func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%d succeeded, %d failed: %s", r.Succeeded, len(r.Failed), strings.Join(r.FailedIDs(), ", "))
}

type Coordinator struct {
	name   string
	sel    *Selection
	delete DeleteFunc
	export ExportFunc
}

func NewCoordinator(name string, del DeleteFunc, exp ExportFunc) *Coordinator {
	return &Coordinator{name: name, sel: NewSelection(), delete: del, export: exp}
}

func (c *Coordinator) Selection() *Selection { return c.sel }

// Cancel abandons the bulk action and clears the selection.
func (c *Coordinator) Cancel() { c.sel.SelectNone() }

// BulkDelete issues one delete per selected ID, in order, and never stops on a
// single failure. Once ctx is done the remaining IDs are reported as failed.
// The selection is cleared afterwards regardless of outcome.
func (c *Coordinator) BulkDelete(ctx context.Context) Result {
	defer c.sel.SelectNone()
	var res Result
	for _, id := range c.sel.IDs() {
		if err := ctx.Err(); err != nil {
			res.Failed = append(res.Failed, Failure{ID: id, Err: err})
			continue
		}
		if err := c.delete(ctx, id); err != nil {
			res.Failed = append(res.Failed, Failure{ID: id, Err: err})
			continue
		}
		res.Succeeded++
	}
	if !res.OK() {
		log.Printf("bulk delete %s: %v", c.name, res.Err())
	}
	return res
}

// BulkExport exports the selection, or the whole filtered view when nothing
// is selected. The selection is cleared only when the export succeeded.
func (c *Coordinator) BulkExport(ctx context.Context) (string, error) {
	path, err := c.export(ctx, c.sel.IDs())
	if err != nil {
		return "", fmt.Errorf("export %s: %w", c.name, err)
	}
	c.sel.SelectNone()
	return path, nil
}
