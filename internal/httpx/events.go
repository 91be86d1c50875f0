package httpx

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	kafkax "github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/kafka"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/orders"
)

// publish wraps payload in an envelope v1 keyed by the record id.
func publish(p kafkax.Publisher, r *http.Request, producer, eventType, id string, payload any) {
	ev, err := orders.NewEnvelope(eventType, producer, id, middleware.GetReqID(r.Context()), payload)
	if err != nil {
		log.Printf("publish %s for %s: %v", eventType, id, err)
		return
	}
	p.Publish(orders.PartitionKey(id), kafkax.MustMarshal(ev), kafkax.EventHeaders(eventType, ev.EventVersion)...)
}
