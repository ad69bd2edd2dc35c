package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/imkonsowa/foodorder-chatbot/catalog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewCatalogPg(connStr string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  true,
		},
	)

	return gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger: newLogger,
	})
}

func PgCatalogLoader(db *gorm.DB) CatalogLoader {
	return func(ctx context.Context) (*catalog.Store, error) {
		return catalog.LoadDB(ctx, db)
	}
}

func FileCatalogLoader(path string) CatalogLoader {
	return func(context.Context) (*catalog.Store, error) {
		return catalog.LoadFile(path)
	}
}
