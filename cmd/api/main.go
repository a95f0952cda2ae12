package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/tiagobr21/ecommerce-orcou-back/internal/auth"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/catalog"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/config"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/email"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/httpx"
	kafkax "github.com/tiagobr21/ecommerce-orcou-back/internal/kafka"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/orders"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/postgres"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/redisx"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/schedule"
	"github.com/tiagobr21/ecommerce-orcou-back/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Producers run on a background context: shutdown goes through Close so
	// buffered messages get flushed, not dropped.
	prodOK := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCommitted, 1024)
	prodOK.Start(context.Background())
	prodFail := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderFailed, 1024)
	prodFail.Start(context.Background())

	jwtSvc := auth.NewJWTService(cfg.JWTSecret, cfg.TokenLifetime)
	mailer := email.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)

	userSvc := &users.Service{
		Repo:   &users.Repo{DB: db},
		Tokens: &users.ResetTokens{Redis: rdb},
		Mailer: mailer,
		JWT:    jwtSvc,
		AppURL: cfg.AppURL,
	}

	headers := &orders.HeaderRepo{DB: db}
	coordinator := orders.NewCoordinator(&orders.Ledger{DB: db}, headers, &orders.LineRepo{DB: db})
	catalogRepo := &catalog.Repo{DB: db}

	authed := httpx.Authenticate(jwtSvc)
	admin := httpx.RequireRole(users.RoleAdmin)

	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Placer:       coordinator,
		Queries:      &orders.QueryRepo{DB: db},
		Headers:      headers,
		Redis:        rdb,
		ProducerOK:   prodOK,
		ProducerFail: prodFail,
		Service:      cfg.ServiceName,
	}
	oh.Register(router, authed, admin)
	(&httpx.ProductsHandler{
		Cache: &catalog.CachedRepo{Repo: catalogRepo, Redis: rdb},
		Repo:  catalogRepo,
	}).Register(router)
	(&httpx.UsersHandler{Service: userSvc}).Register(router, authed, admin)
	(&httpx.ScheduleHandler{Repo: &schedule.Repo{DB: db}}).Register(router, authed, admin)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("server: %v", err)
	}

	log.Println("shutting down...")
	prodOK.Close()
	prodFail.Close()
	prodOK.WaitClosed()
	prodFail.WaitClosed()
}
