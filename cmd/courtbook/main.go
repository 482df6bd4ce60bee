package main

import (
	"context"
	"time"

	"courtbook/internal/bookings/events"
	bookingshandler "courtbook/internal/bookings/handler"
	bookingsrepo "courtbook/internal/bookings/repository"
	bookingsservice "courtbook/internal/bookings/service"
	bookingsvalidator "courtbook/internal/bookings/validator"
	courtshandler "courtbook/internal/courts/handler"
	courtsrepo "courtbook/internal/courts/repository"
	courtsservice "courtbook/internal/courts/service"
	courtsvalidator "courtbook/internal/courts/validator"
	"courtbook/internal/pricing"
	queryhandler "courtbook/internal/query/handler"
	queryservice "courtbook/internal/query/service"
	reportshandler "courtbook/internal/reports/handler"
	reportsservice "courtbook/internal/reports/service"
	"courtbook/pkg/app"
	"courtbook/pkg/config"
	"courtbook/pkg/kafka"
	kafka_config "courtbook/pkg/kafka/config"
	kafkamiddleware "courtbook/pkg/kafka/middleware"
	"courtbook/pkg/model"
)

const (
	ServiceName     = "courtbook"
	snapshotTimeout = 30 * time.Second
)

type infrastructure struct {
	db               app.Pinger
	courtStore       courtsrepo.CourtRepository
	bookingStore     bookingsrepo.BookingRepository
	courtObservers   []courtsservice.Observer
	bookingObservers []bookingsservice.Observer
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting courtbook service",
		"storage_backend", cfg.StorageBackend,
		"kafka_enabled", cfg.KafkaEnabled,
	)

	serverApp := app.NewApplication(cfg)
	infra := initInfrastructure(cfg, serverApp)

	registry := courtsservice.NewRegistry(cfg, courtsvalidator.NewCourtValidator(cfg.Log), infra.courtObservers...)

	policy, err := pricing.NewPolicyFromConfig(cfg)
	if err != nil {
		cfg.Log.Fatal("Invalid fee policy", "error", err)
	}

	ledger := bookingsservice.NewLedger(cfg, registry, policy,
		bookingsservice.WithObservers(infra.bookingObservers...),
	)

	if err := restoreState(cfg, infra, registry, ledger); err != nil {
		cfg.Log.Fatal("Failed to restore persisted state", "error", err)
	}
	if err := registry.Seed(context.Background(), cfg.DefaultCourts); err != nil {
		cfg.Log.Fatal("Failed to seed default courts", "error", err)
	}

	facade := queryservice.NewFacade(ledger, registry, cfg.Log)
	reporter := reportsservice.NewReporter(facade, cfg.Log)

	serverApp.SetApp(infra.db,
		courtshandler.NewCourtHandler(registry, cfg.Log),
		bookingshandler.NewBookingHandler(ledger, bookingsvalidator.NewBookingValidator(cfg.Log), cfg.Log),
		queryhandler.NewQueryHandler(facade, cfg.Log),
		reportshandler.NewReportHandler(reporter, cfg.Log),
	)
	serverApp.Run()
}

func initInfrastructure(cfg *config.Config, serverApp *app.Application) *infrastructure {
	infra := &infrastructure{}

	if cfg.MongoEnabled() {
		cfg.SetMongo()
		courtStore := courtsrepo.NewMongoCourtRepository(cfg)
		bookingStore := bookingsrepo.NewMongoBookingRepository(cfg)

		infra.db = cfg.Client.Mongo
		infra.courtStore = courtStore
		infra.bookingStore = bookingStore
		infra.courtObservers = append(infra.courtObservers, courtStore)
		infra.bookingObservers = append(infra.bookingObservers, bookingStore)
		cfg.Log.Info("Mongo persistence enabled", "database", cfg.MongoDatabaseName)
	}

	if cfg.KafkaEnabled {
		kafkaCfg := kafka_config.Load()
		kafkaCfg.LogConfiguration(cfg.Log.Info)

		producer, err := kafka.NewProducer(kafkaCfg, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		if kafkaCfg.EnableMiddleware {
			producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
		}

		infra.bookingObservers = append(infra.bookingObservers, events.NewPublisher(producer))
		serverApp.OnShutdown("kafka-producer", producer.Close)
		cfg.Log.Info("Booking events enabled", "topic", producer.Topic())
	}

	if cfg.MongoEnabled() {
		serverApp.OnShutdown("mongo", func() error {
			cfg.GracefulShutdown()
			return nil
		})
	}

	return infra
}

// restoreState loads the persisted courts and bookings into memory. Both
// collections are read in one transaction when the deployment supports it.
func restoreState(cfg *config.Config, infra *infrastructure, registry courtsservice.Registry, ledger bookingsservice.Ledger) error {
	if infra.courtStore == nil || infra.bookingStore == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	var (
		courts   []model.Court
		bookings []*model.Booking
	)
	load := func(ctx context.Context) error {
		var err error
		if courts, err = infra.courtStore.LoadAll(ctx); err != nil {
			return err
		}
		bookings, err = infra.bookingStore.LoadAll(ctx)
		return err
	}

	if err := infra.bookingStore.ReadSnapshot(ctx, load); err != nil {
		return err
	}

	if err := registry.Restore(courts); err != nil {
		return err
	}
	if err := ledger.Restore(bookings); err != nil {
		return err
	}

	cfg.Log.Info("Restored persisted state",
		"courts", len(courts),
		"bookings", len(bookings),
	)
	return nil
}
