package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/robfig/cron/v3"

	"parkpool/api"
	"parkpool/auth"
	"parkpool/config"
	"parkpool/db"
	"parkpool/notify"
	"parkpool/reservation"
	"parkpool/spot"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("bootstrap config: %v", err)
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("bootstrap database pool: %v", err)
	}
	defer pool.Close()

	authService := auth.NewService(auth.NewRepository(pool), cfg.JWTSecret)
	spotRepo := spot.NewRepository(pool)
	spotService := spot.NewService(spotRepo)
	reservationService := reservation.NewService(pool, reservation.NewRepository(pool), spotRepo, buildNotifier(cfg))

	if cfg.RetentionDays > 0 {
		c := cron.New()
		if _, err := c.AddFunc("@midnight", func() {
			removed, err := reservationService.PurgeOlderThan(context.Background(), cfg.RetentionDays)
			if err != nil {
				log.Printf("purge old reservations: %v", err)
				return
			}
			log.Printf("purge old reservations: removed %d rows", removed)
		}); err != nil {
			log.Fatalf("bootstrap purge job: %v", err)
		}
		c.Start()
		defer c.Stop()
	}

	server := api.NewServer(authService, spotService, reservationService)
	router := server.Router()

	handler := handlers.CombinedLoggingHandler(os.Stdout, router)
	handler = handlers.CORS(
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
	)(handler)

	log.Printf("listening on :%s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}

// buildNotifier assembles the configured notification transports. With none
// configured, notifications are silently skipped.
func buildNotifier(cfg config.Config) reservation.Notifier {
	var targets notify.Fanout
	if cfg.SlackWebhookURL != "" {
		targets = append(targets, notify.NewSlack(cfg.SlackWebhookURL))
	}
	if cfg.SendgridAPIKey != "" && cfg.NotifyToEmail != "" {
		targets = append(targets, notify.NewEmail(cfg.SendgridAPIKey, cfg.NotifyFromEmail, cfg.NotifyToEmail))
	}
	if len(targets) == 0 {
		return nil
	}
	return targets
}
