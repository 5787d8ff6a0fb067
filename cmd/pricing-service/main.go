package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/papelio/papelio-pricing-service/internal/config"
	"github.com/papelio/papelio-pricing-service/internal/delivery/httpapi"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/competitor"
	publisher "github.com/papelio/papelio-pricing-service/internal/infrastructure/kafka"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/metrics"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/migrate"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres"
	"github.com/papelio/papelio-pricing-service/internal/infrastructure/postgres/repository"
	"github.com/papelio/papelio-pricing-service/internal/usecase/adjustment"
	"github.com/papelio/papelio-pricing-service/internal/usecase/alert"
	"github.com/papelio/papelio-pricing-service/internal/usecase/ingest"
	"github.com/papelio/papelio-pricing-service/internal/usecase/offer"
	"github.com/papelio/papelio-pricing-service/internal/usecase/pricing"
	"github.com/papelio/papelio-pricing-service/internal/usecase/rollup"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.PricingDB.MigrationsDir != "" {
		if err := migrate.RunMigrations(db, cfg.PricingDB.MigrationsDir); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers)

	pricingMetrics := metrics.NewPricingMetrics()

	// Init repositories
	offerRepo := repository.NewDefaultOfferRepository(db)
	productRepo := repository.NewDefaultProductRepository(db)
	coefficientRepo := repository.NewDefaultCoefficientRepository(db)
	competitorRepo := repository.NewDefaultCompetitorRepository(db)
	ruleRepo := repository.NewDefaultPricingRuleRepository(db)
	adjustmentRepo := repository.NewDefaultAdjustmentRepository(db)
	alertRepo := repository.NewDefaultAlertRepository(db)

	// Init usecases
	rollupUsecase := rollup.NewDefaultRollupUsecase(offerRepo, productRepo, coefficientRepo, cfg.RollupPolicy, pricingMetrics)
	adjustmentUsecase := adjustment.NewDefaultAdjustmentUsecase(adjustmentRepo, pub, cfg.KafkaService.PriceTopic, pricingMetrics)
	engine := pricing.NewEngine(productRepo, offerRepo, competitorRepo, ruleRepo, adjustmentRepo, adjustmentUsecase, cfg.EnginePolicy, pricingMetrics)
	alertUsecase := alert.NewDefaultAlertUsecase(productRepo, offerRepo, competitorRepo, alertRepo, cfg.AlertPolicy, pricingMetrics, pub, cfg.KafkaService.AlertTopic)

	competitorSource := competitor.NewHTTPSource(cfg.CompetitorAPI)
	ingestUsecase := ingest.NewDefaultIngestUsecase(competitorSource, productRepo, competitorRepo, pricingMetrics)
	offerUsecase := offer.NewDefaultOfferUsecase(offerRepo, rollupUsecase)

	// HTTP router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(api chi.Router) {
		httpapi.NewPricingHandler(rollupUsecase, engine, ingestUsecase).RegisterRoutes(api)
		httpapi.NewOfferHandler(offerUsecase).RegisterRoutes(api)
		httpapi.NewAdjustmentHandler(adjustmentUsecase).RegisterRoutes(api)
		httpapi.NewAlertHandler(alertUsecase).RegisterRoutes(api)
		httpapi.NewRuleHandler(ruleRepo).RegisterRoutes(api)
	})
	router.Handle("/metrics", promhttp.Handler())

	// Scheduled scans. Schedules come from config; nothing here keeps state
	// between runs.
	scheduler := cron.New()
	if cfg.Schedules.AlertScanCron != "" {
		if _, err := scheduler.AddFunc(cfg.Schedules.AlertScanCron, func() {
			if report, err := alertUsecase.Detect(context.Background()); err != nil {
				log.Printf("scheduled alert scan error: %v", err)
			} else if report.Created > 0 {
				log.Printf("scheduled alert scan created %d alerts", report.Created)
			}
		}); err != nil {
			log.Fatalf("invalid alert scan schedule: %v", err)
		}
	}
	if cfg.Schedules.EvaluationCron != "" {
		if _, err := scheduler.AddFunc(cfg.Schedules.EvaluationCron, func() {
			report, err := engine.Evaluate(context.Background(), pricing.EvaluateScope{})
			if err != nil {
				log.Printf("scheduled evaluation error: %v", err)
				return
			}
			log.Printf("scheduled evaluation: %d proposed, %d skipped, %d errors",
				report.Proposed, report.Skipped, len(report.Errors))
		}); err != nil {
			log.Fatalf("invalid evaluation schedule: %v", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("pricing service started on %s\n", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("failed to serve: %v\n", err)
	}
}
