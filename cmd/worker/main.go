package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"clientflow/internal/engine/reports"
	"clientflow/internal/pkg/logger"
	"clientflow/internal/platform/config"
	"clientflow/internal/platform/database"
	"clientflow/internal/platform/repositories"
	"clientflow/internal/workers"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	runner := workers.NewRunner(
		cfg.Workers,
		db,
		reports.NewRepository(db),
		repositories.NewNotificationRepository(db),
	)
	if err := runner.Start(); err != nil {
		log.Fatalf("Failed to start workers: %v", err)
	}
	log.Println("Background workers started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	runner.Stop()
	log.Println("Background workers stopped")
}
