package main

import (
	"flag"
	"fmt"
	"log"

	"go.uber.org/zap"

	"speakscore/internal/config"
	"speakscore/internal/database"
	"speakscore/internal/logger"
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer func() { _ = logger.Sync() }()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return
	}

	db, err := database.NewSQLXDB(cfg)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	switch args[0] {
	case "up":
		if err := database.RunMigrations(db.DB, cfg.DB.Driver); err != nil {
			l.Fatal("Up failed", zap.Error(err))
		}
		fmt.Println("Migrated up successfully")
	case "down":
		if err := database.RollbackMigrations(db.DB, cfg.DB.Driver); err != nil {
			l.Fatal("Down failed", zap.Error(err))
		}
		fmt.Println("Migrated down successfully")
	case "version":
		version, dirty, err := database.MigrationVersion(db.DB, cfg.DB.Driver)
		if err != nil {
			l.Fatal("Version failed", zap.Error(err))
		}
		fmt.Printf("Version: %d, Dirty: %t\n", version, dirty)
	default:
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Usage: migrate <command>")
	fmt.Println("Commands: up, down, version")
	fmt.Println("The database is selected by DB_DRIVER and related settings in config.yaml or the environment.")
}
