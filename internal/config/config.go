package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type PricingConfig struct {
	Env           string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer    `yaml:"http_server"`
	PricingDB     `yaml:"pricing_db"`
	KafkaService  `yaml:"kafka-service"`
	CompetitorAPI `yaml:"competitor-api"`
	RollupPolicy  `yaml:"rollup"`
	AlertPolicy   `yaml:"alerts"`
	EnginePolicy  `yaml:"engine"`
	Schedules     `yaml:"schedules"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"8084"`
}

type PricingDB struct {
	Dsn           string `yaml:"dsn" env:"PRICING_DB_DSN"`
	MigrationsDir string `yaml:"migrations_dir"`
}

type KafkaService struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	PriceTopic string `yaml:"price_topic" env-default:"price-events"`
	AlertTopic string `yaml:"alert_topic" env-default:"alert-events"`
}

type CompetitorAPI struct {
	BaseURL        string  `yaml:"base_url"`
	APIKey         string  `yaml:"api_key" env:"COMPETITOR_API_KEY"`
	RequestsPerSec float64 `yaml:"requests_per_sec" env-default:"2"`
	TimeoutSec     int     `yaml:"timeout_sec" env-default:"10"`
}

type RollupPolicy struct {
	// SupplierPriority orders suppliers for resale-price selection,
	// highest priority first.
	SupplierPriority   []string `yaml:"supplier_priority" env-default:"alkor,majuscule,exacompta"`
	DefaultCoefficient float64  `yaml:"default_coefficient" env-default:"0"`
}

type AlertPolicy struct {
	MinMarginPercent float64 `yaml:"min_margin_percent" env-default:"15"`
	// Margin deficit (points below the floor) at which an alert escalates.
	CriticalMarginDeficit float64 `yaml:"critical_margin_deficit" env-default:"10"`
	HighMarginDeficit     float64 `yaml:"high_margin_deficit" env-default:"5"`
	// Competitor price below ours by more than this percent raises an alert.
	CompetitorGapPercent float64 `yaml:"competitor_gap_percent" env-default:"2"`
	// Our price below the competitor average by more than this percent is an
	// opportunity to raise.
	OpportunityGapPercent float64 `yaml:"opportunity_gap_percent" env-default:"10"`
}

type EnginePolicy struct {
	// Price changes at or below this amount (incl tax) are suppressed.
	NegligibleChange float64 `yaml:"negligible_change" env-default:"0.01"`
}

type Schedules struct {
	AlertScanCron  string `yaml:"alert_scan_cron"`
	EvaluationCron string `yaml:"evaluation_cron"`
}

func MustLoad() *PricingConfig {

	configPath := os.Getenv("PRICING_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("PRICING_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg PricingConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
