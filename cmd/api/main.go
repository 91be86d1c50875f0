package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/catalog"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/config"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/csvpipe"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/enrich"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/httpx"
	kafkax "github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/kafka"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/orders"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/postgres"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/redisx"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/reservations"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loc, err := time.LoadLocation(cfg.CSVDateLocation)
	if err != nil {
		log.Fatalf("csv date location: %v", err)
	}

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, satu per topic
	producers := map[string]*kafkax.Producer{}
	for _, topic := range []string{
		orders.TopicOrderStatusChanged,
		orders.TopicOrderPaid,
		orders.TopicPaymentReminder,
		orders.TopicReservationChanged,
		orders.TopicGenerationRequested,
	} {
		p := kafkax.NewProducer(cfg.KafkaBrokers, topic, 1024)
		p.Start(ctx)
		producers[topic] = p
	}

	// Repo & handler
	oh := &httpx.OrdersHandler{
		Repo:         &orders.Repo{DB: db},
		Cache:        rdb,
		StatusEvents: producers[orders.TopicOrderStatusChanged],
		PaidEvents:   producers[orders.TopicOrderPaid],
		Reminders:    producers[orders.TopicPaymentReminder],
		Service:      cfg.ServiceName,
		Dates:        csvpipe.DateFormat{Layout: cfg.CSVDateLayout, Location: loc},
	}
	activity := &httpx.ReservationsHandler{
		Variant: reservations.VariantActivity,
		Repo:    reservations.NewActivityRepo(db),
		Events:  producers[orders.TopicReservationChanged],
		Service: cfg.ServiceName,
	}
	travel := &httpx.ReservationsHandler{
		Variant: reservations.VariantOrganizedTravel,
		Repo:    reservations.NewTravelRepo(db),
		Events:  producers[orders.TopicReservationChanged],
		Service: cfg.ServiceName,
	}
	ph := &httpx.ProductsHandler{Repo: &catalog.Repo{DB: db}}
	gh := &httpx.GenerationHandler{
		Tasks:   &enrich.RedisStore{Redis: rdb, TTL: cfg.TaskTTL, Service: "enricher"},
		Jobs:    producers[orders.TopicGenerationRequested],
		Idem:    rdb,
		Service: cfg.ServiceName,
	}

	router := httpx.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(httpx.AdminOnly(cfg.AdminToken, cfg.StagingAuthBypass))
		oh.Register(r)
		activity.Register(r)
		travel.Register(r)
		ph.Register(r)
		gh.Register(r)
	})

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	for _, p := range producers {
		p.Close() // tutup inbox -> flush & close writer
	}
	for _, p := range producers {
		p.WaitClosed() // drain
	}
	cancel()
}
