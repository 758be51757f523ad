package database

import (
	"fmt"
	"strings"

	"baggr-backend/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const sqlitePrefix = "sqlite:"

// Connect opens PostgreSQL, or SQLite when dsn starts with "sqlite:"
// (local development and tests).
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=baggr port=5432 sslmode=disable"
	}

	cfg := &gorm.Config{
		Logger:         NewGormLogger(zap.L()),
		TranslateError: true,
	}

	if strings.HasPrefix(dsn, sqlitePrefix) {
		db, err := gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix)), cfg)
		if err != nil {
			return nil, err
		}
		// In-memory SQLite is per connection; one connection keeps every
		// goroutine on the same database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}

	return gorm.Open(postgres.Open(dsn), cfg)
}

func isSQLite(db *gorm.DB) bool {
	return db.Dialector.Name() == "sqlite"
}

// MigrateDirectory creates the provider directory schema.
func MigrateDirectory(db *gorm.DB) error {
	if isSQLite(db) {
		return execAll(db, directorySQLiteSchema)
	}
	if err := enablePgcrypto(db); err != nil {
		return err
	}
	return db.AutoMigrate(
		&models.Category{},
		&models.ServiceProviderType{},
		&models.Specification{},
		&models.Tag{},
		&models.ServiceProvider{},
		&models.SpecificationValue{},
		&models.ServiceProviderImage{},
		&models.Review{},
		&models.Product{},
		&models.SocialLink{},
	)
}

// MigrateAuth creates the authentication service schema.
func MigrateAuth(db *gorm.DB) error {
	if isSQLite(db) {
		return execAll(db, authSQLiteSchema)
	}
	if err := enablePgcrypto(db); err != nil {
		return err
	}
	return db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.RefreshToken{},
	)
}

func enablePgcrypto(db *gorm.DB) error {
	// gen_random_uuid() lives in pgcrypto before PostgreSQL 13.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}
	return nil
}

func execAll(db *gorm.DB, statements []string) error {
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Truncate empties the given tables in order. Tests use it to get a clean
// database between cases.
func Truncate(db *gorm.DB, tables ...string) error {
	for _, table := range tables {
		if err := db.Exec(`DELETE FROM "` + table + `"`).Error; err != nil {
			return err
		}
	}
	return nil
}
