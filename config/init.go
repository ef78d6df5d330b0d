package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/gofleetadvisor/invoicestack/internal/logger"
	"github.com/gofleetadvisor/invoicestack/internal/tracing"
)

type Config struct {
	AppConfig        *AppConfig
	Logger           *logger.Config
	Tracing          *tracing.JaegerConfig
	DatabaseConfig   *DatabaseConfig
	GmailConfig      *GmailConfig
	StorageConfig    *StorageConfig
	ExtractionConfig *ExtractionConfig
	LedgerConfig     *LedgerConfig
	PipelineConfig   *PipelineConfig
}

func InitConfig() (*Config, error) {
	config := &Config{
		AppConfig:        &AppConfig{},
		Logger:           &logger.Config{},
		Tracing:          &tracing.JaegerConfig{},
		DatabaseConfig:   &DatabaseConfig{},
		GmailConfig:      &GmailConfig{},
		StorageConfig:    &StorageConfig{},
		ExtractionConfig: &ExtractionConfig{},
		LedgerConfig:     &LedgerConfig{},
		PipelineConfig:   &PipelineConfig{},
	}

	err := godotenv.Load()
	if err != nil {
		log.Print("Unable to load .env file")
	}

	err = env.Parse(config)
	if err != nil {
		log.Fatalf("Error loading invoicestack config: %v", err)
	}

	return config, nil
}
