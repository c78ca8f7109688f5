package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightops/config"
	"github.com/Domenick1991/flightops/internal/archive"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	referenceRepo := repository.NewReferenceRepository(pool)
	routeRepo := repository.NewRouteRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)

	lookup := reference.NewService(referenceRepo, routeRepo, zlog,
		reference.WithTimeout(time.Duration(cfg.Reference.LookupTimeoutSeconds)*time.Second),
	)
	matcher := routes.NewMatcher(lookup)
	synthesizer := routes.NewSynthesizer(lookup, routeRepo, zlog)
	resolver := routes.NewResolver(lookup, matcher, synthesizer, zlog)
	assembler := itinerary.NewAssembler(flightRepo, resolver, lookup, zlog)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.FlightEventsTopic, zlog)
	defer consumer.Close()

	archiver := archive.NewArchiver(zlog)

	go func() {
		if err := consumer.Consume(ctx, archiver.Record); err != nil {
			zlog.Warn("consumer stopped", "error", err)
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.StatusSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			recomputed, err := assembler.SweepStatuses(ctx)
			if err != nil {
				zlog.Error("status sweep failed", "error", err)
				continue
			}
			if recomputed > 0 {
				zlog.Info("status sweep done", "itineraries", recomputed)
			}
		case s := <-sig:
			zlog.Info("shutting down", "signal", s.String())
			return
		}
	}
}
