package httpx

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/catalog"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/lifecycle"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/orders"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/reservations"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/routes"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/validation"
)

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get(routes.Healthz, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// AdminOnly requires "Authorization: Bearer <token>". With bypass set every
// request passes; that switch exists for staging and tests only.
func AdminOnly(token string, bypass bool) func(http.Handler) http.Handler {
	if bypass {
		log.Printf("WARNING: admin auth bypass is enabled")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypass {
				next.ServeHTTP(w, r)
				return
			}
			h := r.Header.Get("Authorization")
			if h == "" {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing authorization header"})
				return
			}
			got := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeJSON(w, http.StatusForbidden, errorBody{Error: "admin privileges required"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type errorBody struct {
	Error  string            `json:"error"`
	Errors validation.Errors `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// badRequest marks client input that could not be decoded at all.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func writeError(w http.ResponseWriter, err error) {
	var (
		ve validation.Errors
		te *lifecycle.TransitionError
		br badRequest
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Errors: ve})
	case errors.As(err, &te):
		writeJSON(w, http.StatusConflict, errorBody{Error: te.Error()})
	case errors.As(err, &br):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: br.msg})
	case errors.Is(err, orders.ErrNotFound), errors.Is(err, reservations.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, orders.ErrTotalsMismatch):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	default:
		log.Printf("http: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// decodeJSON reads a JSON body into out. An empty body is allowed when
// optional is set.
func decodeJSON(r *http.Request, out any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(out)
	if errors.Is(err, io.EOF) && optional {
		return nil
	}
	if err != nil {
		return badRequest{msg: "invalid json"}
	}
	return nil
}

// exportIDs reads the comma separated ids scope of an export request.
func exportIDs(r *http.Request) []string {
	var ids []string
	for _, id := range strings.Split(r.URL.Query().Get(routes.ExportIDsParam), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

const maxUpload = 10 << 20

// uploadedFile returns the multipart CSV of an import request.
func uploadedFile(r *http.Request) (io.ReadCloser, error) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return nil, badRequest{msg: "expected multipart form"}
	}
	f, _, err := r.FormFile(routes.ImportFileField)
	if err != nil {
		return nil, badRequest{msg: "missing file field " + routes.ImportFileField}
	}
	return f, nil
}

// writeCSV sends a generated CSV as an attachment. The body is rendered to
// memory first so an encoding failure still yields a proper error response.
func writeCSV(w http.ResponseWriter, filename string, render func(io.Writer) error) {
	var sb strings.Builder
	if err := render(&sb); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, sb.String())
}
