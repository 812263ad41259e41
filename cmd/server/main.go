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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/andriev/inventory-api/internal/config"
	"github.com/andriev/inventory-api/internal/es"
	"github.com/andriev/inventory-api/internal/handlers"
	"github.com/andriev/inventory-api/internal/logging"
	authmw "github.com/andriev/inventory-api/internal/middleware/auth"
	loggingmw "github.com/andriev/inventory-api/internal/middleware/logging"
	"github.com/andriev/inventory-api/internal/mykafka"
	"github.com/andriev/inventory-api/internal/session"
	httpserver "github.com/andriev/inventory-api/internal/transport/http"
)

const productIndex = "products"

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	sessions := session.NewStore(db, []byte(configuration.SESS_SECRET), configuration.SESSION_TTL)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	sessions.StartSweeper(sweepCtx, session.DefaultSweepInterval, logger)

	var producer *mykafka.Producer
	var publisher handlers.Publisher
	if configuration.KAFKA_ADDRESS != "" {
		producer, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Fatal(err)
		}
		publisher = producer
	}

	var searchHandler *handlers.SearchHandler
	var indexer handlers.Indexer
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		searchHandler = &handlers.SearchHandler{ES: esClient, Index: productIndex}
		indexer = &es.ProductIndexer{Client: esClient, Index: productIndex}
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:             db,
		AuthHandler:    &handlers.AuthHandler{DB: db, Sessions: sessions, Producer: publisher},
		UserHandler:    &handlers.UserHandler{DB: db, Producer: publisher},
		ProductHandler: &handlers.ProductHandler{DB: db, Producer: publisher, Indexer: indexer},
		SearchHandler:  searchHandler,
		AuthMW:         &authmw.Middleware{DB: db, Sessions: sessions},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.APP_PORT,
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

	logger.Info("server started", "port", configuration.APP_PORT)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	stopSweep()

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	logger.Info("shutdown complete")
}
