package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registrar interface{ Register(r chi.Router) }

func newTestRouter(hs ...registrar) *chi.Mux {
	r := NewRouter()
	for _, h := range hs {
		h.Register(r)
	}
	return r
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func upload(t *testing.T, h http.Handler, target, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(routes.ImportFileField, name)
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	rec := do(t, NewRouter(), http.MethodGet, routes.Healthz, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAdminOnly(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name   string
		token  string
		bypass bool
		header string
		want   int
	}{
		{"missing header", "s3cret", false, "", http.StatusUnauthorized},
		{"wrong token", "s3cret", false, "Bearer nope", http.StatusForbidden},
		{"right token", "s3cret", false, "Bearer s3cret", http.StatusNoContent},
		{"no token configured", "", false, "Bearer ", http.StatusForbidden},
		{"bypass", "s3cret", true, "", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			AdminOnly(tt.token, tt.bypass)(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestExportIDs(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?ids=a,+b,,c", nil)
	assert.Equal(t, []string{"a", "b", "c"}, exportIDs(req))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	assert.Empty(t, exportIDs(req))
}
