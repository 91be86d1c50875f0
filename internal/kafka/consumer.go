package kafka

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Handler harus return nil hanya jika proses sukses & boleh commit offset.
type Handler func(ctx context.Context, m kafka.Message) error

type Consumer struct {
	r       *kafka.Reader
	topic   string
	workers int
}

func NewConsumer(brokers []string, group, topic string, workers int) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{r: r, topic: topic, workers: workers}
}

// Start blocks until ctx is done or the reader fails. Workers are drained
// before it returns.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	jobs := make(chan kafka.Message, 1024)
	errs := make(chan error, c.workers)

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range jobs {
				if err := h(ctx, m); err != nil {
					report(errs, err)
					continue
				}
				// commit on success
				if err := c.r.CommitMessages(ctx, m); err != nil {
					report(errs, err)
				}
			}
		}()
	}
	stop := func() {
		close(jobs)
		wg.Wait()
	}

	// dispatcher loop
	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			stop()
			// kecilkan noise saat shutdown
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case jobs <- m:
		case <-ctx.Done():
			stop()
			return nil
		}

		// non-blocking drain error agar tidak deadlock
		select {
		case e := <-errs:
			log.Printf("consumer %s: worker error: %v", c.topic, e)
			time.Sleep(200 * time.Millisecond) // backoff ringan
		default:
		}
	}
}

func report(errs chan<- error, err error) {
	select {
	case errs <- err:
	default:
		log.Printf("consumer: worker error: %v", err)
	}
}
