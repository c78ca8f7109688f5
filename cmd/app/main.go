package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightops/api"
	"github.com/Domenick1991/flightops/config"
	"github.com/Domenick1991/flightops/internal/bootstrap"
	"github.com/Domenick1991/flightops/internal/cache"
	"github.com/Domenick1991/flightops/internal/importer"
	"github.com/Domenick1991/flightops/internal/kafka"
	"github.com/Domenick1991/flightops/internal/reference"
	"github.com/Domenick1991/flightops/internal/repository"
	"github.com/Domenick1991/flightops/internal/service/itinerary"
	"github.com/Domenick1991/flightops/internal/service/routes"
	"github.com/Domenick1991/flightops/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog := logger.New()
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	refCache := cache.NewReferenceCache(cfg.Redis,
		time.Duration(cfg.Reference.AirportCacheTTLSeconds)*time.Second,
		time.Duration(cfg.Reference.RoutesCacheTTLSeconds)*time.Second,
	)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	referenceRepo := repository.NewReferenceRepository(pool)
	routeRepo := repository.NewRouteRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)

	lookup := reference.NewService(referenceRepo, routeRepo, zlog,
		reference.WithCache(refCache),
		reference.WithTimeout(time.Duration(cfg.Reference.LookupTimeoutSeconds)*time.Second),
	)

	matcher := routes.NewMatcher(lookup)
	synthesizer := routes.NewSynthesizer(lookup, routeRepo, zlog, routes.WithCacheInvalidator(lookup))
	resolver := routes.NewResolver(lookup, matcher, synthesizer, zlog,
		routes.WithRouteDeactivator(routeRepo, lookup),
	)

	assembler := itinerary.NewAssembler(flightRepo, resolver, lookup, zlog,
		itinerary.WithProducer(producer, cfg.Kafka.FlightEventsTopic),
	)
	csvImporter := importer.NewImporter(assembler, zlog)

	flightHandler := api.NewFlightHandler(assembler, csvImporter)
	routeHandler := api.NewRouteHandler(resolver)

	if err := bootstrap.Run(ctx, cfg, flightHandler, routeHandler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
