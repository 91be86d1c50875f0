package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/catalog"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/csvpipe"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/routes"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/validation"
)

type ProductStore interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	ListForExport(ctx context.Context, ids []string) ([]catalog.Product, error)
	Create(ctx context.Context, p catalog.Product) (catalog.Product, error)
	Delete(ctx context.Context, id string) error
	UpsertAll(ctx context.Context, batch []catalog.Product) (int, error)
}

var _ ProductStore = (*catalog.Repo)(nil)

type ProductsHandler struct {
	Repo ProductStore
}

func (h *ProductsHandler) Register(r chi.Router) {
	r.Get(routes.Products, h.listProducts)
	r.Post(routes.Products, h.create)
	r.Get(routes.ProductsExport, h.export)
	r.Post(routes.ProductsImport, h.importCSV)
	r.Delete(routes.Products+"/{id}", h.delete)
}

func (h *ProductsHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Repo.ListProducts(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in catalog.Product
	if err := decodeJSON(r, &in, false); err != nil {
		writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Repo.Create(ctx, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *ProductsHandler) export(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, err := h.Repo.ListForExport(ctx, exportIDs(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCSV(w, csvpipe.ResourceProducts.Filename(), func(out io.Writer) error {
		return csvpipe.WriteProducts(out, list)
	})
}

func (h *ProductsHandler) importCSV(w http.ResponseWriter, r *http.Request) {
	f, err := uploadedFile(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()

	batch, err := csvpipe.ReadProducts(f)
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
		Resource: csvpipe.ResourceProducts,
		Imported: n,
		Message:  fmt.Sprintf("%d products imported", n),
	})
}

// writeImportError reports an unreadable or invalid file as 422 so the
// client shows it next to the upload.
func writeImportError(w http.ResponseWriter, err error) {
	var ve validation.Errors
	if errors.As(err, &ve) {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
}
