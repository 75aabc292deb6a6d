package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"orderledger/internal/config"
	"orderledger/internal/inventory"
	kafkax "orderledger/internal/kafka"
	"orderledger/internal/orders"
	"orderledger/internal/postgres"
	"orderledger/internal/reconcile"
	"orderledger/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ordersDB, err := postgres.Connect(ctx, cfg.OrdersDSN)
	if err != nil {
		log.Fatalf("orders db: %v", err)
	}
	defer ordersDB.Close()

	inventoryDB, err := postgres.Connect(ctx, cfg.InventoryDSN)
	if err != nil {
		log.Fatalf("inventory db: %v", err)
	}
	defer inventoryDB.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &reconcile.Service{
		Orders:      &orders.Store{DB: ordersDB},
		Inventory:   &inventory.Store{DB: inventoryDB},
		Tasks:       &reconcile.PGTaskStore{DB: ordersDB},
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-reconciler",
	}

	group := getenv("RECONCILER_GROUP", "reconciler-svc")
	workers := mustAtoi(os.Getenv("RECONCILER_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicReconcile, workers)

	go func() {
		log.Printf("reconciler started: group=%s topic=%s workers=%d", group, orders.TopicReconcile, workers)
		if err := cons.Start(ctx, svc.HandleLedgerDiverged); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down reconciler...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
