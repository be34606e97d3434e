package db

import (
	"gift_registry/internal/domain" // Domain models

	"github.com/sirupsen/logrus" // Structured logging

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// Migrate performs automatic migration for the database schema
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	// AutoMigrate creates tables, foreign keys, constraints and indexes
	if err := db.AutoMigrate(&domain.User{}, &domain.Gift{}); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	logrus.Info("Migration completed.")
}

// Reset drops all tables, then recreates them via Migrate. Children first so
// foreign keys do not block the drop.
func Reset(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrator().DropTable(&domain.Gift{}, &domain.User{}); err != nil {
		logrus.Fatalf("reset failed: %v", err)
	}
	logrus.Info("All tables dropped.")
	Migrate(dsn)
}
