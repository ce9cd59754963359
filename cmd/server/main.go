package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/soratech/storefront/internal/auth"
	"github.com/soratech/storefront/internal/backend"
	"github.com/soratech/storefront/internal/checkout"
	"github.com/soratech/storefront/internal/config"
	"github.com/soratech/storefront/internal/email"
	"github.com/soratech/storefront/internal/handlers"
	"github.com/soratech/storefront/internal/logging"
	"github.com/soratech/storefront/internal/middleware"
	"github.com/soratech/storefront/internal/mykafka"
	"github.com/soratech/storefront/internal/search"
	"github.com/soratech/storefront/internal/store"
	httpserver "github.com/soratech/storefront/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	backendClient := backend.NewClient(configuration.BACKEND_URL, nil)

	// Snapshots go to redis when one is configured, otherwise to the local
	// gorm database.
	var persister store.Persister
	if configuration.REDIS_ADDRESS != "" {
		persister = store.NewRedisPersister(&redis.Options{Addr: configuration.REDIS_ADDRESS})
	} else {
		db, err := config.InitStoreDB(configuration)
		if err != nil {
			log.Fatalf("Ошибка инициализации БД: %v", err)
		}
		persister, err = store.NewGormPersister(db)
		if err != nil {
			log.Fatal(err)
		}
	}
	stores := store.NewManager(persister, logger)

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		brokers := []string{configuration.KAFKA_ADDRESS}
		topics := []string{"product_events", "cart_events", "order_events"}
		prod, err = mykafka.NewProducer(brokers, topics)
		if err != nil {
			log.Fatal(err)
		}
	}

	mailer := email.NewRelay(configuration, logger)

	var codes auth.CodeStore
	if configuration.REDIS_ADDRESS != "" {
		codes = auth.NewRedisCodeStore(&redis.Options{Addr: configuration.REDIS_ADDRESS})
	} else {
		codes = auth.NewMemoryCodeStore()
	}
	resetService := &auth.ResetService{
		Backend: backendClient,
		Mailer:  mailer,
		Codes:   codes,
		Logger:  logger,
	}

	checkoutService := &checkout.Service{
		Backend:  backendClient,
		Mailer:   mailer,
		Producer: prod,
		Logger:   logger,
	}

	adminHandler := &handlers.AdminHandler{Backend: backendClient, Producer: prod, Logger: logger}

	// Search goes through elasticsearch when configured and degrades to an
	// in-memory catalog scan otherwise.
	var searchFn search.SearchFunc
	if configuration.ES_URL != "" {
		es, err := search.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		adminHandler.ES = es
		searchFn = func(ctx context.Context, query string, from, size int) (search.Results, error) {
			return search.Query(ctx, es, search.ProductIndex, query, from, size)
		}
	} else {
		searchFn = search.CatalogScan(backendClient)
	}
	searchHandler := &handlers.SearchHandler{Do: searchFn}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logger)))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		Session:         &middleware.Session{JWTSecret: []byte(configuration.JWT_SECRET)},
		CatalogHandler:  &handlers.CatalogHandler{Backend: backendClient, Stores: stores, Producer: prod, Logger: logger},
		CartHandler:     &handlers.CartHandler{Backend: backendClient, Stores: stores, Producer: prod, Logger: logger},
		CheckoutHandler: &handlers.CheckoutHandler{Backend: backendClient, Stores: stores, Checkout: checkoutService, Validate: validator.New()},
		AccountHandler:  &handlers.AccountHandler{Backend: backendClient, Stores: stores},
		AuthHandler:     &handlers.AuthHandler{Backend: backendClient, Stores: stores, Reset: resetService, Logger: logger},
		AdminHandler:    adminHandler,
		SearchHandler:   searchHandler,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if prod != nil {
		if err := prod.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
