package enrich

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/generation"
	kafkax "github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/kafka"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/orders"
	kafkago "github.com/segmentio/kafka-go"
)

// Service is the generation worker.
type Service struct {
	Tasks         Store
	Fetcher       Fetcher
	ScrapeTimeout time.Duration
}

// HandleGenerationRequested: dipasang sebagai handler consumer. A scrape
// failure is a task result, so the offset is still committed.
func (s *Service) HandleGenerationRequested(ctx context.Context, m kafkago.Message) error {
	// 1) decode envelope
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		log.Printf("enricher: drop undecodable message at offset %d: %v", m.Offset, err)
		return nil
	}
	if env.EventType != orders.EventGenerationRequested {
		return nil
	} // ignore

	// 2) decode payload
	p, err := kafkax.UnwrapPayload[orders.GenerationRequestedPayload](env.Payload)
	if err != nil {
		log.Printf("enricher: drop event %s: %v", env.EventID, err)
		return nil
	}
	id := generation.TaskID(p.TaskID)

	// 3) dedup via Redis (pakai task_id)
	ok, err := s.Tasks.Claim(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	// 4) proses; kalau state gagal disimpan, lepas claim supaya redelivery diproses ulang
	if err := s.process(ctx, id, p.URL); err != nil {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if rerr := s.Tasks.Release(rctx, id); rerr != nil {
			log.Printf("enricher: release task %s: %v", id, rerr)
		}
		return err
	}
	return nil
}

func (s *Service) process(ctx context.Context, id generation.TaskID, url string) error {
	if err := s.Tasks.Put(ctx, generation.Task{ID: id, Status: generation.StatusInProgress}); err != nil {
		return err
	}
	return s.Tasks.Put(ctx, s.run(ctx, id, url))
}

func (s *Service) run(ctx context.Context, id generation.TaskID, url string) generation.Task {
	if s.ScrapeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.ScrapeTimeout)
		defer cancel()
	}
	pd, err := s.Fetcher.Scrape(ctx, url)
	if err != nil {
		log.Printf("enricher: task %s failed: %v", id, err)
		return generation.Task{ID: id, Status: generation.StatusFailed, Error: err.Error()}
	}
	log.Printf("enricher: task %s completed: %q", id, pd.Name)
	return generation.Task{ID: id, Status: generation.StatusCompleted, ProductData: &pd}
}
