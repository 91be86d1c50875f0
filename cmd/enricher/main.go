package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/config"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/enrich"
	kafkax "github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/kafka"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/orders"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Service
	svc := &enrich.Service{
		Tasks: &enrich.RedisStore{Redis: rdb, TTL: cfg.TaskTTL, Service: "enricher"},
		Fetcher: &enrich.Scraper{
			HTTP:      &http.Client{Timeout: cfg.ScrapeTimeout},
			UserAgent: "Mozilla/5.0 (compatible; " + cfg.ServiceName + "-enricher)",
		},
		ScrapeTimeout: cfg.ScrapeTimeout,
	}

	// Consumer
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.EnricherGroup, orders.TopicGenerationRequested, cfg.EnricherWorkers)
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Printf("enricher consumer started: group=%s topic=%s workers=%d",
			cfg.EnricherGroup, orders.TopicGenerationRequested, cfg.EnricherWorkers)
		if err := cons.Start(ctx, svc.HandleGenerationRequested); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down consumer...")
	cancel()
	<-done
}
