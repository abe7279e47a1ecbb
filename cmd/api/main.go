package main

import (
	"context"
	"log"
	"time"

	"github.com/andrifirman/camilanku-golang/internal/carrier"
	"github.com/andrifirman/camilanku-golang/internal/config"
	"github.com/andrifirman/camilanku-golang/internal/database"
	"github.com/andrifirman/camilanku-golang/internal/handlers"
	"github.com/andrifirman/camilanku-golang/internal/notify"
	"github.com/andrifirman/camilanku-golang/internal/orders"
	"github.com/andrifirman/camilanku-golang/internal/routes"
	"github.com/joho/godotenv"
)

func main() {
	// --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Database Connection ---
	db, err := database.OpenDB(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// --- Service Wiring ---
	// The carrier adapter is the mock until a real courier integration
	// lands; swapping it is a one-line change here.
	notifier := notify.NewService(
		notify.NewMySQLStore(db),
		notify.NewTelegramClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID),
	)
	store := orders.NewMySQLStore(db)
	orderService := &orders.Service{
		Orders:   store,
		Products: store,
		Notifier: notifier,
		Carrier:  carrier.NewMock(),
	}

	app := &handlers.Handlers{
		DB:     db,
		Orders: orderService,
	}

	// --- Background Worker (Tracking Sweep) ---
	// Re-polls the carrier for every in-flight tracked order on a
	// fixed interval, sequentially, with a delay between lookups.
	// Disabled unless TRACKING_SWEEP_INTERVAL is set.
	if cfg.Tracking.SweepInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Tracking.SweepInterval)
			defer ticker.Stop()

			log.Printf("Background worker started: refreshing tracked orders every %s", cfg.Tracking.SweepInterval)

			for range ticker.C {
				ctx, cancel := context.WithTimeout(context.Background(), cfg.Tracking.SweepInterval)
				updated, err := orderService.SweepTracking(ctx, cfg.Tracking.SweepDelay)
				cancel()
				if err != nil {
					log.Printf("Tracking sweep finished with error (updated %d): %v", updated, err)
				} else if updated > 0 {
					log.Printf("Tracking sweep updated %d orders", updated)
				}
			}
		}()
	}

	// --- Router Setup & Start Server ---
	router := routes.SetupRouter(app, cfg)

	log.Printf("Starting Camilanku API server on %s...", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
