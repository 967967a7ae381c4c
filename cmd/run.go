package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cmertnic/EXPBOT/bot"
	"github.com/cmertnic/EXPBOT/config"
	"github.com/cmertnic/EXPBOT/database"
	"github.com/cmertnic/EXPBOT/events"
	"github.com/cmertnic/EXPBOT/repository"
	"github.com/cmertnic/EXPBOT/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting EXPBOT...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Println("Initializing services...")
	experienceService := service.NewExperienceService(uowFactory)
	settingsService := service.NewSettingsService(uowFactory, service.SettingsDefaults{
		LogChannelName:  cfg.DefaultLogChannelName,
		Language:        cfg.DefaultLanguage,
		GrantRoles:      cfg.DefaultGrantRoles,
		RevokeRoles:     cfg.DefaultRevokeRoles,
		VoiceGrantRoles: cfg.DefaultVoiceGrantRoles,
		QueryRoles:      cfg.DefaultQueryRoles,
	})
	log.Println("Services initialized successfully")

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.DiscordGuildID,
	}
	discordBot, err := bot.New(botConfig, experienceService, settingsService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
