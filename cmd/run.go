package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"supportbot/api"
	"supportbot/bot"
	"supportbot/config"
	"supportbot/events"
	"supportbot/service"
	"supportbot/storage"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting support bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize progression persistence
	store := storage.NewProgressStore(cfg.ProgressFile)

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize progression engine
	progression := service.NewProgressionService(store, eventBus)

	// Initialize the bot controller. The connection itself is opened on
	// demand through the control surface.
	discordBot := bot.New(bot.NewDiscordSession, progression, eventBus)

	// Initialize the remote-control API
	server := api.NewServer(discordBot, progression, api.StartDefaults{
		Token:       cfg.DiscordToken,
		ChannelID:   cfg.DiscordChannelID,
		AdminRoleID: cfg.DiscordAdminRoleID,
	})
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Control API listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Printf("Running in %s mode...", cfg.Environment)
	select {
	case err := <-errCh:
		return fmt.Errorf("control API server failed: %w", err)
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down control API: %v", err)
	}

	if discordBot.Status().IsRunning {
		if err := discordBot.Stop(shutdownCtx); err != nil {
			log.Printf("Error stopping bot: %v", err)
		}
	}

	log.Println("Shutdown completed")
	return nil
}
