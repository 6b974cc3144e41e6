package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/juju/clock"

	"github.com/juanDango/amaris-prueba-backend/internal/adapter/handler"
	"github.com/juanDango/amaris-prueba-backend/internal/adapter/middleware"
	"github.com/juanDango/amaris-prueba-backend/internal/adapter/storage"
	"github.com/juanDango/amaris-prueba-backend/internal/core/config"
	"github.com/juanDango/amaris-prueba-backend/internal/core/identity"
	"github.com/juanDango/amaris-prueba-backend/internal/core/notifications"
	"github.com/juanDango/amaris-prueba-backend/internal/core/secrets"
	"github.com/juanDango/amaris-prueba-backend/internal/core/service"
	"github.com/juanDango/amaris-prueba-backend/internal/core/worker"
)

func main() {
	// 1. Load Config
	cfg := config.LoadConfig()

	// 2. Setup Logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// 3. AWS clients (identity provider, notifications, secret store)
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		slog.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	// 4. Resolve the connection string, then connect
	databaseURL := cfg.DatabaseURL
	if cfg.DatabaseSecretName != "" {
		databaseURL, err = secrets.ConnectionString(ctx, secretsmanager.NewFromConfig(awsCfg), cfg.DatabaseSecretName)
		if err != nil {
			slog.Error("failed to fetch database secret", "error", err)
			os.Exit(1)
		}
	}

	dbPool, err := storage.ConnectDB(ctx, databaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	if err := storage.Migrate(ctx, dbPool); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if err := storage.SeedFunds(ctx, dbPool); err != nil {
		slog.Error("fund seeding failed", "error", err)
		os.Exit(1)
	}

	// 5. Identity provider and token verifier
	provider := identity.NewCognitoProvider(
		cip.NewFromConfig(awsCfg), cfg.CognitoClientID, cfg.CognitoClientSecret, clock.WallClock)

	verifier, err := identity.NewAccessTokenVerifier(ctx, cfg.AWSRegion, cfg.CognitoUserPoolID)
	if err != nil {
		slog.Error("failed to set up token verifier", "error", err)
		os.Exit(1)
	}

	// 6. Repos, notifications, workflow
	fundRepo := storage.NewFundRepository(dbPool)
	userRepo := storage.NewUserRepository(dbPool)
	ledgerRepo := storage.NewLedgerRepository(dbPool)
	outboxRepo := storage.NewOutboxRepository(dbPool)

	dispatcher := notifications.NewDispatcher(
		notifications.NewEmailNotifier(sesv2.NewFromConfig(awsCfg), cfg.SESSender),
		notifications.NewSMSNotifier(sns.NewFromConfig(awsCfg)),
		outboxRepo,
		cfg.NotifyOnCancel,
	)

	ledger := service.NewLedger(ledgerRepo, dispatcher, clock.WallClock)

	authHandler := &handler.AuthHandler{Provider: provider, Users: userRepo}
	fundHandler := &handler.FundHandler{Repo: fundRepo}
	transactionHandler := &handler.TransactionHandler{Ledger: ledger}

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowedOrigins}))

	// 8. Routes
	auth := app.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/confirm", authHandler.Confirm)
	auth.Post("/login", authHandler.Login)

	funds := app.Group("/funds")
	funds.Get("/", fundHandler.ListFunds)
	funds.Get("/category/:category", fundHandler.ListFundsByCategory)
	funds.Get("/get/transactions", middleware.Protected(verifier), transactionHandler.GetTransactions)
	funds.Post("/post/transactions", middleware.Protected(verifier), middleware.Idempotency(dbPool), transactionHandler.CreateTransaction)
	funds.Get("/:fund_id", fundHandler.GetFund)

	// 9. Start Worker
	worker.StartNotificationWorker(ctx, outboxRepo, dispatcher)

	// 10. Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "env", cfg.Env, "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	stopWorkers()

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	dbPool.Close()
	slog.Info("server exited")
}
