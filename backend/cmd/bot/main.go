package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pung-bot/backend/internal/adapter"
	"pung-bot/backend/internal/agent"
	"pung-bot/backend/internal/api"
	"pung-bot/backend/internal/discord"
	"pung-bot/backend/internal/dispatch"
	"pung-bot/backend/internal/intent"
	"pung-bot/backend/internal/metrics"
	"pung-bot/backend/internal/store"
	"pung-bot/backend/pkg/config"
	"pung-bot/backend/pkg/logger"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// intents the bot needs: guild metadata, guild messages with their content,
// and the member list for name lookups and random picks
const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsMessageContent

func main() {
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting pung.io bot...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if err := run(cfg, log); err != nil {
		log.Fatal("Bot stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	docs, err := store.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	db := store.NewDatabase(ctx, docs)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			log.Error("Failed to close store", zap.Error(err))
		}
	}()

	backend, err := newBackend(ctx, cfg)
	if err != nil {
		return err
	}
	llm := adapter.NewClient(backend,
		adapter.WithRateLimit(cfg.CompletionRPS),
		adapter.WithObserver(metrics.ObserveCompletion),
	)
	log.Info("Completion backend ready", zap.String("backend", backend.Name()))

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	dg.Identify.Intents = intents

	dispatcher := dispatch.New(
		discord.NewSession(dg, logger.Named("discord")),
		db,
		intent.NewClassifier(llm),
		llm,
		dispatch.WithOwner(cfg.OwnerID),
		dispatch.WithModeratorRole(cfg.ModeratorRoleID),
		dispatch.WithPrefix(cfg.BotPrefix),
	)
	handler := discord.NewHandler(ctx, dispatcher, logger.Named("discord"))
	dg.AddHandler(handler.HandleMessage)
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info("Connected to Discord",
			zap.String("user", r.User.Username),
			zap.Int("guilds", len(r.Guilds)),
		)
	})

	housekeeper, err := agent.NewHousekeeper(db)
	if err != nil {
		return err
	}
	housekeeper.Start()

	var admin *api.Server
	if cfg.AdminAddr != "" {
		router := api.NewRouter(db, logger.Named("api"), cfg.IsProduction())
		admin = api.NewServer(cfg.AdminAddr, router, logger.Named("api"))
		if err := admin.Start(); err != nil {
			return fmt.Errorf("failed to start admin API: %w", err)
		}
	}

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	log.Info("Bot is running. Press CTRL-C to exit.")

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := dg.Close(); err != nil {
		log.Warn("Failed to close Discord session", zap.Error(err))
	}
	if admin != nil {
		if err := admin.Shutdown(shutdownCtx); err != nil {
			log.Warn("Admin API forced to shutdown", zap.Error(err))
		}
	}
	housekeeper.Stop(shutdownCtx)
	dispatcher.Wait()
	return nil
}

// newBackend builds the configured completion backend
func newBackend(ctx context.Context, cfg *config.Config) (adapter.Backend, error) {
	switch cfg.CompletionBackend {
	case config.BackendGemini:
		b, err := adapter.NewGeminiBackend(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini backend: %w", err)
		}
		return b, nil
	case config.BackendOpenAI:
		return adapter.NewOpenAIBackend(cfg.LiteLLMURL, cfg.OpenRouterAPIKey, cfg.ModelID), nil
	default:
		return nil, fmt.Errorf("unknown completion backend %q", cfg.CompletionBackend)
	}
}
