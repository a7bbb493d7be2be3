package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"association-treasury/internal/config"
	"association-treasury/internal/database"
	"association-treasury/internal/logger"
	"association-treasury/internal/notify"
	"association-treasury/internal/realtime"
	"association-treasury/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logg := logger.New()

	// Initialize database
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to initialize MongoDB:", err)
	}
	defer db.Close(context.Background())
	logg.Info().Msg("connected to remote store")

	// Build the local cache and hydrate it
	st := store.New(db, cfg, logg)
	if err := st.Refresh(ctx); err != nil {
		log.Fatal("Failed to hydrate cache:", err)
	}
	logg.Info().
		Int("members", len(st.Members())).
		Int("transactions", len(st.Transactions())).
		Msg("cache hydrated")

	// Optional Telegram announcements for board messages
	var announcer realtime.Announcer
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegramAnnouncer(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatal("Failed to create Telegram announcer:", err)
		}
		announcer = tg
		logg.Info().Msg("Telegram announcements enabled")
	}

	// Live message subscription
	sub := realtime.New(db, st, announcer, logg)
	go func() {
		if err := sub.Run(ctx); err != nil && ctx.Err() == nil {
			logg.Error().Err(err).Msg("message subscription ended")
		}
	}()

	// Set up cron job for periodic resync of the non-streamed collections
	c := cron.New()
	_, err = c.AddFunc(cfg.ResyncSchedule, func() {
		logg.Info().Msg("running periodic resync")
		if err := st.Refresh(ctx); err != nil {
			logg.Error().Err(err).Msg("periodic resync failed")
		}
	})
	if err != nil {
		log.Fatal("Failed to add cron job:", err)
	}
	c.Start()

	fmt.Println("Treasury sync engine is running...")

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop

	fmt.Println("Shutting down...")
	c.Stop()
	cancel()
}
