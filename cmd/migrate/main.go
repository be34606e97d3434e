package main

import (
	"flag"                          // Command-line flags
	"gift_registry/internal/config" // Configuration
	"gift_registry/internal/db"     // Database migration

	"github.com/sirupsen/logrus" // Structured logging
)

// Main entry point for migration
func main() {
	reset := flag.Bool("reset", false, "drop all tables before migrating")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	if *reset {
		db.Reset(cfg.DSN())
		return
	}
	db.Migrate(cfg.DSN())
}
