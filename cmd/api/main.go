package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"orderledger/internal/catalog"
	"orderledger/internal/config"
	"orderledger/internal/engine"
	"orderledger/internal/httpx"
	"orderledger/internal/inventory"
	kafkax "orderledger/internal/kafka"
	"orderledger/internal/orders"
	"orderledger/internal/postgres"
	"orderledger/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// two ledgers, two pools
	ordersDB, err := postgres.Connect(ctx, cfg.OrdersDSN)
	if err != nil {
		log.Fatalf("orders db connect: %v", err)
	}
	defer ordersDB.Close()

	inventoryDB, err := postgres.Connect(ctx, cfg.InventoryDSN)
	if err != nil {
		log.Fatalf("inventory db connect: %v", err)
	}
	defer inventoryDB.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024)
	prod.Start(ctx)

	// stores, engine, handlers
	orderStore := &orders.Store{DB: ordersDB}
	invStore := &inventory.Store{DB: inventoryDB}
	cat := &catalog.Reader{DB: inventoryDB, Redis: rdb}

	eng := engine.New(orderStore, invStore, cat)

	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Engine:   eng,
		Orders:   orderStore,
		Catalog:  cat,
		Producer: prod,
		Redis:    rdb,
		Service:  cfg.ServiceName,
	}
	oh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // close inbox -> flush & close writer
	cancel()
	prod.WaitClosed()
}
