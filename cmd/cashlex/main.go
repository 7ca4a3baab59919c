package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sebuszqo/Cashlex/internal/auth"
	"github.com/sebuszqo/Cashlex/internal/config"
	database "github.com/sebuszqo/Cashlex/internal/db"
	emailService "github.com/sebuszqo/Cashlex/internal/email"
	"github.com/sebuszqo/Cashlex/internal/events"
	"github.com/sebuszqo/Cashlex/internal/finance/application"
	"github.com/sebuszqo/Cashlex/internal/finance/infrastructure"
	"github.com/sebuszqo/Cashlex/internal/finance/interfaces"
	"github.com/sebuszqo/Cashlex/internal/logger"
	"github.com/sebuszqo/Cashlex/internal/response"
	"github.com/sebuszqo/Cashlex/internal/user"
	"github.com/shopspring/decimal"
)

const (
	pendingLoginCleanupInterval = time.Minute
	shutdownTimeout             = 15 * time.Second
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Missing configuration, update to start server")
	}

	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbService, err := database.NewDBService(ctx, cfg.DBConnectionString, log)
	if err != nil {
		log.WithError(err).Fatal("Could not initialize database")
	}
	defer dbService.Close()

	authRepo := auth.NewAuthRepository(dbService.DB)
	userRepo := user.NewUserRepository(dbService.DB)
	budgetRepo := infrastructure.NewBudgetRepository(dbService.DB)
	transactionRepo := infrastructure.NewTransactionRepository(dbService.DB)
	categoryRepo := infrastructure.NewCategoryRepository(dbService.DB)
	summaryRepo := infrastructure.NewSummaryRepository(dbService.DB)

	pendingLogins := auth.NewPendingLoginStore()
	pendingLogins.StartCleanup(ctx, pendingLoginCleanupInterval)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	authenticator := auth.Authenticator{}

	userService := user.NewUserService(userRepo, log.WithField("component", "user"))
	userHandler := user.NewHandler(userService, response.RespondJSON, response.RespondError)
	authService := auth.NewAuthService(authRepo, userService, pendingLogins, jwtManager, authenticator, auth.Options{
		AccessTokenTTL:   cfg.AccessTokenTTL,
		SessionMaxAge:    cfg.SessionMaxAge,
		SessionUpdateAge: cfg.SessionUpdateAge,
	}, log.WithField("component", "auth"))
	authHandler := auth.NewHandler(authService, cfg.CookieSecure, response.RespondJSON, response.RespondError)

	hub := events.NewHub(log.WithField("component", "ws"))
	go hub.Run(ctx)
	publishers := events.Multi{hub}

	if cfg.EventsBrokerEnabled() {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, log.WithField("component", "amqp"))
		if err != nil {
			log.WithError(err).Fatal("Could not connect to the events broker")
		}
		defer amqpPublisher.Close()
		publishers = append(publishers, amqpPublisher)
	}

	if cfg.EmailEnabled() {
		transport := emailService.NewSMTPTransport(emailService.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		mailer, err := emailService.NewEmailService(cfg.SMTPFrom, transport, log.WithField("component", "email"))
		if err != nil {
			log.WithError(err).Fatal("Could not initialize email service")
		}
		defer mailer.Close()
		alerts := emailService.NewBudgetAlertSubscriber(userService, budgetRepo, mailer, log.WithField("component", "budget-alerts"))
		defer alerts.Close()
		publishers = append(publishers, alerts)
	}

	financeLog := log.WithField("component", "finance")
	budgetService := application.NewBudgetService(budgetRepo, financeLog)
	transactionService := application.NewTransactionService(database.SQLBeginner{DB: dbService.DB}, transactionRepo, budgetRepo, publishers, financeLog)
	categoryService := application.NewCategoryService(categoryRepo)
	summaryService := application.NewSummaryService(summaryRepo)

	server := &Server{
		authHandler:        authHandler,
		userHandler:        userHandler,
		authService:        authService,
		budgetHandler:      interfaces.NewBudgetHandler(budgetService, financeLog, response.RespondJSON, response.RespondError),
		transactionHandler: interfaces.NewTransactionHandler(transactionService, financeLog, response.RespondJSON, response.RespondError),
		categoryHandler:    interfaces.NewCategoryHandler(categoryService, financeLog, response.RespondJSON, response.RespondError),
		summaryHandler:     interfaces.NewSummaryHandler(summaryService, financeLog, response.RespondJSON, response.RespondError),
		hub:                hub,
		health:             dbService,
	}
	server.RegisterRoutes()

	scheduler, err := StartSessionCleanupScheduler(cfg.SessionCleanupSchedule, authService, log.WithField("component", "scheduler"))
	if err != nil {
		log.WithError(err).Fatal("Scheduler didn't start, stopping the app ...")
	}
	defer scheduler.Stop()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           logger.Middleware(log)(server.router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
