package main

import (
	"context"
	"log"
	"net/http"

	"github.com/Eursukkul/train-reservation/config"
	"github.com/Eursukkul/train-reservation/internal/consumer"
	"github.com/Eursukkul/train-reservation/internal/handler"
	"github.com/Eursukkul/train-reservation/internal/jobs"
	"github.com/Eursukkul/train-reservation/internal/middleware"
	"github.com/Eursukkul/train-reservation/internal/models"
	"github.com/Eursukkul/train-reservation/internal/repository"
	"github.com/Eursukkul/train-reservation/internal/service"
	"github.com/Eursukkul/train-reservation/pkg/database"
	"github.com/Eursukkul/train-reservation/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Ledger store
	var store repository.LedgerStore
	switch cfg.LedgerBackend {
	case config.BackendPostgres:
		db, err := database.NewPostgresDB(cfg.DSN())
		if err != nil {
			log.Fatalf("failed to open ledger database: %v", err)
		}
		store = repository.NewPostgresLedgerStore(db)
	case config.BackendCSV:
		store = repository.NewCSVLedgerStore(cfg.BookingFile)
	default:
		log.Fatalf("unknown LEDGER_BACKEND %q", cfg.LedgerBackend)
	}

	trainRepo := repository.NewTrainRepository()
	ledger := repository.NewBookingLedger(store)

	opts := []service.Option{service.WithCatalogPath(cfg.TrainFile)}

	// RabbitMQ publisher: booking events
	if cfg.RabbitURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
		opts = append(opts, service.WithPublisher(publisher))
	}

	reservationSvc := service.NewReservationService(trainRepo, ledger, models.DefaultFareTable(), opts...)

	report, err := reservationSvc.ReloadCatalog(ctx)
	if err != nil {
		log.Printf("[Startup] train catalog unavailable, starting with none: %v", err)
	} else {
		logReport("train catalog", cfg.TrainFile, report)
	}

	report, err = reservationSvc.LoadBookings(ctx)
	if err != nil {
		log.Fatalf("failed to load booking ledger: %v", err)
	}
	logReport("booking ledger", cfg.LedgerBackend, report)

	// RabbitMQ consumer: catalog reload requests
	if cfg.RabbitURL != "" {
		mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer mqConsumer.Close()

		msgs, err := mqConsumer.Consume()
		if err != nil {
			log.Fatalf("failed to start consuming: %v", err)
		}
		consumer.NewCatalogConsumer(reservationSvc).Start(msgs)
	}

	if cfg.CatalogReloadInterval > 0 {
		refresher, err := jobs.NewCatalogRefresher(reservationSvc, cfg.CatalogReloadInterval)
		if err != nil {
			log.Fatalf("failed to schedule catalog refresh: %v", err)
		}
		refresher.Start()
		defer refresher.Stop()
	}

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewRequestValidator()
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "reservation-service"})
	})

	handler.NewReservationHandler(reservationSvc).RegisterRoutes(e)

	log.Printf("Reservation Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}

func logReport(what, source string, r models.LoadReport) {
	log.Printf("[Startup] %s loaded from %s: %d rows, %d duplicates", what, source, r.Rows, r.Duplicates)
	if r.Skipped > 0 {
		log.Printf("[Startup] %s: skipped %d short rows, first at line %d: %q",
			what, r.Skipped, r.FirstSkippedLine, r.FirstSkipped)
	}
}
