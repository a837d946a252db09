package main

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"pos-order-core/config"
	httpapi "pos-order-core/internal/api/http"
	"pos-order-core/internal/service"
	"pos-order-core/internal/storage"
)

func main() {
	config.LoadEnv()

	var orders service.OrderStore
	var catalog service.CatalogStore
	switch config.Getenv("STORE_BACKEND", "resource") {
	case "postgres":
		db := config.MustInitPostgres()
		defer db.Close()
		store := storage.NewPostgresStore(db)
		orders, catalog = store, store
	default:
		client := storage.NewResourceClient(config.Getenv("RESOURCE_API_URL", "http://localhost:3000"))
		orders, catalog = client, client
	}

	rdb := config.MustInitRedis()
	defer rdb.Close()
	reservations := storage.NewRedisReservationStore(rdb)

	writer := config.NewKafkaWriter(config.Getenv("KAFKA_ORDER_TOPIC", "orders"))
	defer writer.Close()
	events := storage.NewKafkaPublisher(writer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := service.NewReservationRegistry(orders, reservations, events)
	if err := registry.Recover(ctx); err != nil {
		log.Printf("reservation recovery failed: %v", err)
	}

	qr := service.PaymentQR{RenderEndpoint: config.Getenv("QR_RENDER_ENDPOINT", "")}
	checkout := service.NewCheckoutService(orders, catalog, registry, events, qr)
	transitions := service.NewTransitionService(orders, events, registry)

	hub := service.NewPollerHub(ctx, 2*time.Minute)
	defer hub.StopAll()

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal("Failed to create scheduler:", err)
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(time.Minute),
		gocron.NewTask(func() {
			if err := registry.Reconcile(ctx); err != nil {
				log.Printf("reconciliation sweep failed: %v", err)
			}
		}),
	); err != nil {
		log.Fatal("Failed to schedule reconciliation:", err)
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(30*time.Second),
		gocron.NewTask(hub.Sweep),
	); err != nil {
		log.Fatal("Failed to schedule poller sweep:", err)
	}
	scheduler.Start()
	defer scheduler.Shutdown()

	handler := httpapi.NewHandler(checkout, transitions, registry, hub,
		orders, catalog, service.EventAlerter{Events: events}, qr)

	addr := ":" + config.Getenv("PORT", "8084")
	httpapi.StartServer(addr, httpapi.NewRouter(handler))
}
