package infra

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KelvinKitheka/stocker/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx. Callers run
// RunMigrations separately so tests and tools control schema setup.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}

// RunMigrations creates or updates all tables. Order matters: parents first
// so the ON DELETE CASCADE foreign keys resolve.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.StockBatch{},
		&model.PartialDepletion{},
		&model.LowStockAlert{},
	)
}
