package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/probiller/purchase-gateway/internal/data/repos"
	"github.com/probiller/purchase-gateway/internal/db"
	"github.com/probiller/purchase-gateway/internal/domain/biller"
	"github.com/probiller/purchase-gateway/internal/domain/fraud"
	httpH "github.com/probiller/purchase-gateway/internal/http/handlers"
	httpMW "github.com/probiller/purchase-gateway/internal/http/middleware"
	"github.com/probiller/purchase-gateway/internal/platform/envutil"
	"github.com/probiller/purchase-gateway/internal/platform/logger"
	"github.com/probiller/purchase-gateway/internal/realtime/bus"
	"github.com/probiller/purchase-gateway/internal/server"
	"github.com/probiller/purchase-gateway/internal/services"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := envutil.Str("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	jwtSecret := envutil.Str("SESSION_JWT_SECRET", "")
	if jwtSecret == "" {
		log.Fatal("SESSION_JWT_SECRET is required")
	}
	sessionTTL := envutil.Duration("SESSION_TOKEN_TTL", services.DefaultSessionTokenTTL)
	defaultBillers := splitList(envutil.Str("DEFAULT_BILLER_CASCADE",
		biller.RocketgateName+","+biller.NetbillingName))
	nuData := fraud.NewNuDataSettings(
		envutil.Str("NUDATA_CLIENT_ID", ""),
		envutil.Str("NUDATA_URL", ""),
		envutil.Bool("NUDATA_ENABLED", false),
	)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("postgres migration failed", "error", err)
	}
	gdb := postgresService.DB()

	// Event bus
	eventBus, err := bus.NewRedisBus(log)
	if err != nil {
		log.Fatal("redis bus init failed", "error", err)
	}
	defer eventBus.Close()

	// Repos
	sessionRepo := repos.NewSessionRepo(gdb, log)
	purchaseRepo := repos.NewPurchaseRepo(gdb, log)
	templateEventRepo := repos.NewTemplateEventRepo(gdb, log)

	// Services
	store := services.NewSessionStore(log, sessionRepo)
	tokens := services.NewSessionTokenService(log, jwtSecret, sessionTTL)
	fraudScorer := services.NewNoopFraudScorer()
	executor := services.NewApprovingExecutor(log)
	templateService := services.NewLocalTemplateService()
	legacyImporter := services.NewNoopLegacyImporter()

	initService := services.NewPurchaseInitService(gdb, log, store, tokens, fraudScorer, eventBus, defaultBillers, nuData)
	processService := services.NewPurchaseProcessService(gdb, log, store, executor, fraudScorer, templateService, templateEventRepo, eventBus)
	completeService := services.NewPurchaseCompleteService(gdb, log, store, purchaseRepo, legacyImporter, eventBus)

	retryWorker := services.NewTemplateRetryWorker(gdb, log, templateEventRepo, templateService,
		eventBus, envutil.Duration("TEMPLATE_RETRY_INTERVAL", services.DefaultTemplateRetryInterval))
	retryWorker.Start(context.Background())

	// Handlers and middleware
	purchaseHandler := httpH.NewPurchaseHandler(initService, processService, completeService)
	healthHandler := httpH.NewHealthHandler()
	sessionAuth := httpMW.NewSessionAuthMiddleware(log, tokens)

	// Router
	router := server.NewRouter(server.RouterConfig{
		Log:              log,
		PurchaseHandler:  purchaseHandler,
		HealthHandler:    healthHandler,
		SessionAuth:      sessionAuth,
		ExtraCORSOrigins: splitList(envutil.Str("CORS_EXTRA_ORIGINS", "")),
	})

	port := envutil.Str("PORT", "8080")
	log.Info("purchase gateway listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("server failed", "error", err)
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
