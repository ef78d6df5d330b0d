package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/gofleetadvisor/invoicestack/config"
)

func InitReferenceDatabase(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := NewConnection(&DatabaseConfig{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		DBName:          cfg.DBName,
		Password:        cfg.Password,
		MaxConn:         cfg.MaxConn,
		MaxIdleConn:     cfg.MaxIdleConn,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		LogLevel:        cfg.LogLevel,
		SSLMode:         cfg.SSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	return db, nil
}
