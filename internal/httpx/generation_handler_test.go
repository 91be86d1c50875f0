package httpx

import (
	"net/http"
	"testing"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/generation"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/orders"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSubmitAndStatus(t *testing.T) {
	tasks := &memTasks{}
	jobs := &recorder{}
	router := newTestRouter(&GenerationHandler{Tasks: tasks, Jobs: jobs, Service: "booking-api"})

	rec := do(t, router, http.MethodPost, routes.Generate, map[string]string{"url": " https://shop.example.com/p/rug "})
	require.Equal(t, http.StatusAccepted, rec.Code)
	id := decodeBody[generateResp](t, rec).TaskID
	require.NotEmpty(t, id)

	msgs := jobs.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, string(id), msgs[0].key)
	assert.Equal(t, orders.GenerationRequestedPayload{TaskID: string(id), URL: "https://shop.example.com/p/rug"},
		payloadOf[orders.GenerationRequestedPayload](t, msgs[0]))

	rec = do(t, router, http.MethodGet, routes.Generate+"/"+string(id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, generation.StatusPending, decodeBody[generation.Task](t, rec).Status)
}

func TestGenerateRejectsBadURL(t *testing.T) {
	jobs := &recorder{}
	router := newTestRouter(&GenerationHandler{Tasks: &memTasks{}, Jobs: jobs})

	rec := do(t, router, http.MethodPost, routes.Generate, map[string]string{"url": "not a url"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "url", decodeBody[errorBody](t, rec).Errors[0].Field)
	assert.Empty(t, jobs.all())
}

func TestGenerateStatusUnknownTask(t *testing.T) {
	router := newTestRouter(&GenerationHandler{Tasks: &memTasks{}, Jobs: &recorder{}})
	rec := do(t, router, http.MethodGet, routes.Generate+"/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
