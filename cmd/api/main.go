package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/rs/cors"

	_ "payment-settlement/docs"
	"payment-settlement/internal/config"
	"payment-settlement/internal/handler"
	"payment-settlement/internal/matcher"
	"payment-settlement/internal/middleware"
	"payment-settlement/internal/repository"
	"payment-settlement/internal/repository/memory"
	"payment-settlement/internal/service"
	"payment-settlement/pkg/logger"
)

// @title Payment Settlement API
// @version 1.0
// @description Installment plan calculation and bank reconciliation of PIX and Boleto receivables

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

type repositories struct {
	conditions      repository.PaymentConditionRepository
	plans           repository.SalePlanRepository
	statements      repository.StatementRepository
	receivables     repository.ReceivableRepository
	reconciliations repository.ReconciliationRepository
	locker          service.AccountLocker
	close           func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.App.LogLevel)
	logger.GetLogger().Info("Starting Payment Settlement Service")

	repos, err := openRepositories(cfg)
	if err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to initialize storage")
	}
	defer repos.close()

	tolerance := matcher.Tolerance{
		Amount: cfg.Matching.AmountTolerance,
		Days:   cfg.Matching.DateToleranceDays,
	}
	engine := matcher.NewReconciliationEngine(tolerance)

	conditionService := service.NewPaymentConditionService(repos.conditions)
	planService := service.NewSalePlanService(repos.conditions, repos.plans)
	intakeService := service.NewIntakeService(repos.statements, repos.receivables)
	reconService := service.NewReconciliationService(repos.statements, repos.receivables, repos.reconciliations, engine, repos.locker)
	resolver := service.NewManualResolver(repos.statements, repos.receivables, repos.reconciliations)

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.Handlers{
		PaymentConditions: handler.NewPaymentConditionHandler(conditionService, planService),
		Sales:             handler.NewSalePlanHandler(planService),
		Intake:            handler.NewIntakeHandler(intakeService),
		Reconciliation:    handler.NewReconciliationHandler(reconService, resolver),
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.GetLogger().WithFields(map[string]interface{}{
			"address": addr,
			"store":   cfg.App.StoreDriver,
		}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.GetLogger().WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.GetLogger().Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.GetLogger().WithError(err).Error("Server forced to shutdown")
	}

	logger.GetLogger().Info("Server stopped")
}

func openRepositories(cfg *config.Config) (*repositories, error) {
	if cfg.App.StoreDriver == config.StoreMemory {
		store := memory.NewStore()
		logger.GetLogger().Warn("Using in-memory store, data is lost on restart")
		return &repositories{
			conditions:      store.PaymentConditions(),
			plans:           store.SalePlans(),
			statements:      store.Statements(),
			receivables:     store.Receivables(),
			reconciliations: store.Reconciliations(),
			locker:          service.NewLocalLocker(),
			close:           func() {},
		}, nil
	}

	db, err := connectDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.GetLogger().Info("Database connection established")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &repositories{
		conditions:      repository.NewPaymentConditionRepository(db),
		plans:           repository.NewSalePlanRepository(db),
		statements:      repository.NewStatementRepository(db),
		receivables:     repository.NewReceivableRepository(db),
		reconciliations: repository.NewReconciliationRepository(db),
		locker:          repository.NewAdvisoryLocker(db),
		close:           func() { db.Close() },
	}, nil
}

func connectDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}
