package httpx

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/enrich"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/generation"
	kafkax "github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/kafka"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/orders"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/redisx"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/routes"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/validation"
	"github.com/redis/go-redis/v9"
)

// GenerationHandler accepts "generate product from URL" jobs and reports
// their state. The work itself runs in the enricher.
type GenerationHandler struct {
	Tasks enrich.Store
	Jobs  kafkax.Publisher
	// Idem is optional; with it a repeated Idempotency-Key returns the first task.
	Idem    redis.Cmdable
	Service string
}

func (h *GenerationHandler) Register(r chi.Router) {
	r.Post(routes.Generate, h.submit)
	r.Get(routes.Generate+"/{taskID}", h.status)
}

type generateReq struct {
	URL string `json:"url"`
}

type generateResp struct {
	TaskID generation.TaskID `json:"task_id"`
}

func (h *GenerationHandler) submit(w http.ResponseWriter, r *http.Request) {
	var req generateReq
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if u, err := url.Parse(req.URL); err != nil || u.Host == "" {
		writeError(w, validation.Errors{{Field: "url", Message: "must be an absolute URL"}})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// Fast-path idempotency via Redis
	idemKey := ""
	if k := r.Header.Get("Idempotency-Key"); k != "" && h.Idem != nil {
		idemKey = fmt.Sprintf(redisx.KeyIdemGenerate, k)
		if id, err := h.Idem.Get(ctx, idemKey).Result(); err == nil && id != "" {
			writeJSON(w, http.StatusAccepted, generateResp{TaskID: generation.TaskID(id)})
			return
		}
	}

	id := generation.TaskID(uuid.NewString())
	if err := h.Tasks.Put(ctx, generation.Task{ID: id, Status: generation.StatusPending}); err != nil {
		writeError(w, err)
		return
	}
	if idemKey != "" {
		_ = h.Idem.Set(ctx, idemKey, string(id), redisx.TTLIdempotency).Err()
	}
	publish(h.Jobs, r, h.Service, orders.EventGenerationRequested, string(id),
		orders.GenerationRequestedPayload{TaskID: string(id), URL: req.URL})
	writeJSON(w, http.StatusAccepted, generateResp{TaskID: id})
}

func (h *GenerationHandler) status(w http.ResponseWriter, r *http.Request) {
	id := generation.TaskID(chi.URLParam(r, "taskID"))
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	t, ok, err := h.Tasks.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "task not found or expired"})
		return
	}
	writeJSON(w, http.StatusOK, t)
}
