package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tiagobr21/ecommerce-orcou-back/internal/config"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/email"
	kafkax "github.com/tiagobr21/ecommerce-orcou-back/internal/kafka"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/notify"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/orders"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/postgres"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/redisx"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notify.Service{
		Users:  &users.Service{Repo: &users.Repo{DB: db}},
		Mailer: email.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom),
		Dedup:  &notify.RedisDedup{Redis: rdb},
	}

	group := getenv("NOTIFIER_GROUP", "order-notifier")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderCommitted, workers)

	log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, orders.TopicOrderCommitted, workers)
	if err := cons.Start(ctx, svc.HandleOrderCommitted); err != nil {
		log.Printf("consumer exit: %v", err)
	}
	log.Println("shutting down notifier...")
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
