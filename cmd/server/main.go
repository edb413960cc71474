package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/prashika-mel/storefront/internal/config"
	"github.com/prashika-mel/storefront/internal/db"
	"github.com/prashika-mel/storefront/internal/events"
	"github.com/prashika-mel/storefront/internal/httpserver"
	"github.com/prashika-mel/storefront/internal/logging"
	loggingmw "github.com/prashika-mel/storefront/internal/middleware/logging"
	"github.com/prashika-mel/storefront/internal/repo"
	"github.com/prashika-mel/storefront/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()

	logger := logging.New(os.Getenv("LOG_LEVEL")).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	if err := repo.Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	if producer == nil {
		logger.Warn("kafka brokers not configured, events disabled")
	}

	r := &repo.GormRepo{DB: gdb}

	authSvc := &service.AuthService{
		Repo:          r,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
	}
	catalogSvc := &service.CatalogService{Repo: r, Events: producer}
	cartSvc := &service.CartService{Repo: r}
	orderSvc := &service.OrderService{Repo: r, Events: producer}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalogSvc},
		CartHandler:    &httpserver.CartHTTP{Svc: cartSvc},
		OrderHandler:   &httpserver.OrderHTTP{Svc: orderSvc},
		JWTSecret:      cfg.JWTAccessSecret,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("storefront listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if producer != nil {
		_ = producer.Close()
	}

	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("storefront stopped")
}
