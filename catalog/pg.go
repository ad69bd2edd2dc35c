package catalog

import (
	"context"
	"fmt"

	"github.com/imkonsowa/foodorder-chatbot/models"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Location{}, &models.Food{})
}

// LoadDB reads the catalog tables in primary key order.
func LoadDB(ctx context.Context, db *gorm.DB) (*Store, error) {
	var (
		categories []models.Category
		locations  []models.Location
		foods      []models.Food
	)

	tx := db.WithContext(ctx)
	if err := tx.Order("id").Find(&categories).Error; err != nil {
		return nil, &DataLoadError{Source: "database", Err: fmt.Errorf("failed to query categories: %w", err)}
	}
	if err := tx.Order("id").Find(&locations).Error; err != nil {
		return nil, &DataLoadError{Source: "database", Err: fmt.Errorf("failed to query locations: %w", err)}
	}
	if err := tx.Order("id").Find(&foods).Error; err != nil {
		return nil, &DataLoadError{Source: "database", Err: fmt.Errorf("failed to query foods: %w", err)}
	}

	return build("database", categories, locations, foods)
}

// Save replaces the content of the catalog tables with the store in one transaction.
func Save(ctx context.Context, db *gorm.DB, s *Store) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, table := range []interface{}{&models.Food{}, &models.Location{}, &models.Category{}} {
			if err := wipe.Delete(table).Error; err != nil {
				return fmt.Errorf("failed to clear table: %w", err)
			}
		}

		if categories := s.Categories(); len(categories) > 0 {
			if err := tx.Create(&categories).Error; err != nil {
				return fmt.Errorf("failed to create categories: %w", err)
			}
		}
		if locations := s.Locations(); len(locations) > 0 {
			if err := tx.Create(&locations).Error; err != nil {
				return fmt.Errorf("failed to create locations: %w", err)
			}
		}
		if foods := s.Foods(); len(foods) > 0 {
			if err := tx.Create(&foods).Error; err != nil {
				return fmt.Errorf("failed to create foods: %w", err)
			}
		}

		return nil
	})
}
