package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/meibo/internal/auth"
	"github.com/gdg-garage/meibo/internal/config"
	"github.com/gdg-garage/meibo/internal/database"
	"github.com/gdg-garage/meibo/internal/export"
	"github.com/gdg-garage/meibo/internal/handlers"
	"github.com/gdg-garage/meibo/internal/i18n"
	"github.com/gdg-garage/meibo/internal/metrics"
	"github.com/gdg-garage/meibo/internal/notifier"
	"github.com/gdg-garage/meibo/internal/postal"
	"github.com/gdg-garage/meibo/internal/registry"
	"github.com/gdg-garage/meibo/internal/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = lvl
	}
	return zcfg.Build()
}

// seedLang stores the configured language as the preference when none has
// been chosen yet.
func seedLang(store *registry.Store, lang string, logger *zap.Logger) {
	l, ok := i18n.Parse(lang)
	if !ok {
		return
	}
	ctx := context.Background()
	stored, err := store.LangPreference(ctx)
	if err != nil || stored != "" {
		return
	}
	if err := store.SetLangPreference(ctx, string(l)); err != nil {
		logger.Warn("default language not stored", zap.Error(err))
	}
}

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Open storage
	kvStore, closeStore, err := database.OpenStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer closeStore()

	store := registry.New(kvStore, logger)
	seedLang(store, cfg.DefaultLang, logger)
	validator := validation.New(nil)
	m := metrics.New(nil)

	authHandler := auth.NewAuthHandler(cfg)
	resolver := auth.NewResolver(store, cfg, logger)
	postalClient := postal.NewClient(cfg.PostalAPIURL, cfg.PostalTimeout, logger)
	pdfWriter := export.NewPDFWriter(cfg.PDFFontPath, logger)

	// Discord notifications are optional
	var n notifier.Notifier
	if cfg.DiscordBotToken != "" && cfg.DiscordNotificationsChannelID != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			logger.Warn("Discord notifier not initialized", zap.Error(err))
		} else {
			n = notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID, logger)
		}
	}

	h := handlers.Handlers{
		Auth:         authHandler,
		Registration: handlers.NewRegistrationHandler(store, validator, resolver, n, m, logger),
		Session:      handlers.NewSessionHandler(authHandler, resolver, store, m, logger),
		Me:           handlers.NewMeHandler(authHandler, resolver, store, validator, n, logger),
		Admin:        handlers.NewAdminHandler(authHandler, resolver, store, validator, pdfWriter, m, logger),
		Postal:       handlers.NewPostalHandler(postalClient, store, m, logger),
		Preferences:  handlers.NewPreferencesHandler(store, logger),
	}

	// Initialize Router
	r := chi.NewRouter()
	handlers.RegisterRoutes(r, h, handlers.RouteOptions{
		CORSOrigins:    cfg.CORSOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	// Start Server
	logger.Info("Starting server", zap.String("port", cfg.Port), zap.String("storage", cfg.StorageDriver))
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
