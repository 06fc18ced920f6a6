package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"pmajay-api/config"
	"pmajay-api/services"

	"github.com/joho/godotenv"
)

// proposal-reminder nudges state admins about proposals that have sat in
// SUBMITTED for too long. Reminder counts survive restarts via a small
// state file so no proposal is nagged about more than five times.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	statePath := os.Getenv("REMINDER_STATE_FILE")
	if statePath == "" {
		statePath = "./reminder-state.json"
	}
	store, err := services.LoadReminderStore(statePath)
	if err != nil {
		log.Fatalf("Failed to load reminder state from %s: %v", statePath, err)
	}

	interval := 60 * time.Minute
	if raw := os.Getenv("REMINDER_INTERVAL_MINUTES"); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil && minutes > 0 {
			interval = time.Duration(minutes) * time.Minute
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Proposal reminder running every %s, state file %s", interval, statePath)
	services.NewReminderJob(nil, store).Run(ctx, interval)
	log.Println("Proposal reminder stopped")
}
