package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"speakscore/internal/config"
	"speakscore/internal/database"
	"speakscore/internal/logger"
	"speakscore/internal/repository"
	"speakscore/internal/service"
)

// report prints a session report straight from the ledger database.
func main() {
	userID := flag.String("user", "", "user id")
	sessionID := flag.String("session", "", "session id")
	flag.Parse()

	if *userID == "" || *sessionID == "" {
		fmt.Println("Usage: report -user <user id> -session <session id>")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	db, err := database.NewSQLXDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	reports := service.NewReportService(repository.NewSQLXPerformanceRepository(db))
	report, err := reports.Report(context.Background(), *userID, *sessionID)
	if err != nil {
		log.Fatal("Failed to build report", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatal("Failed to write report", zap.Error(err))
	}
}
