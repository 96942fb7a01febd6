package infra

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gymops/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx. Schema
// migration is a separate step; callers run RunMigrations explicitly.
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

// RunMigrations applies the full schema. Also used by integration tests
// against a throwaway database.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Branch{},
		&model.Register{},
		&model.RegisterSnapshot{},
		&model.RegisterMovement{},
		&model.Employee{},
		&model.Member{},
		&model.Service{},
		&model.ServiceBranch{},
		&model.Product{},
		&model.StockMovement{},
		&model.Sale{},
		&model.SaleItem{},
		&model.SaleLine{},
		&model.Inscription{},
		&model.PendingPayment{},
	)
}
