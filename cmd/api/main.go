package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sampleloop/inventory-service/config"
	"github.com/sampleloop/inventory-service/pkg/broker"
	"github.com/sampleloop/inventory-service/pkg/cache"
	"github.com/sampleloop/inventory-service/pkg/logger"
	"github.com/sampleloop/inventory-service/pkg/postgres"
	"github.com/sampleloop/inventory-service/pkg/search"

	adjH "github.com/sampleloop/inventory-service/internal/adjustment/handler"
	adjUCPkg "github.com/sampleloop/inventory-service/internal/adjustment/usecase"

	catalogRepoPkg "github.com/sampleloop/inventory-service/internal/catalog/repository"

	holdH "github.com/sampleloop/inventory-service/internal/hold/handler"
	holdRepoPkg "github.com/sampleloop/inventory-service/internal/hold/repository"
	holdSweeperPkg "github.com/sampleloop/inventory-service/internal/hold/sweeper"
	holdUCPkg "github.com/sampleloop/inventory-service/internal/hold/usecase"

	ledgerH "github.com/sampleloop/inventory-service/internal/ledger/handler"
	ledgerRepoPkg "github.com/sampleloop/inventory-service/internal/ledger/repository"
	ledgerSearchPkg "github.com/sampleloop/inventory-service/internal/ledger/search"
	ledgerUCPkg "github.com/sampleloop/inventory-service/internal/ledger/usecase"

	wholesaleH "github.com/sampleloop/inventory-service/internal/wholesale/handler"
	wholesaleListenerPkg "github.com/sampleloop/inventory-service/internal/wholesale/listener"
	wholesaleRepoPkg "github.com/sampleloop/inventory-service/internal/wholesale/repository"
	wholesaleUCPkg "github.com/sampleloop/inventory-service/internal/wholesale/usecase"

	"github.com/sampleloop/inventory-service/internal/server/router"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	appLogger := logger.Must(logger.New(cfg))
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.New(&cfg.Postgres)
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		appLogger.Fatal("could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Initialize Kafka Consumer
	kafkaConsumer := broker.NewConsumer(&cfg.Kafka)
	defer kafkaConsumer.Close()
	appLogger.Info("connected to Kafka consumer",
		zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 6. Initialize Elasticsearch (optional; audit search degrades without it)
	esClient, err := search.NewClient(&cfg.Elastic)
	if err != nil {
		appLogger.Warn("could not connect to Elasticsearch, transaction search disabled", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 7. Initialize Repositories
	ledgerRepo := ledgerRepoPkg.NewPGRepository(db)
	holdRepo := holdRepoPkg.NewPGRepository(db)
	catalogRepo := catalogRepoPkg.NewPGRepository(db)
	wholesaleRepo := wholesaleRepoPkg.NewPGRepository(db)

	// 8. Initialize UseCases
	txnIndexer := ledgerSearchPkg.NewIndexer(esClient, cfg.Elastic.TxnIndex, appLogger)
	ledgerUC := ledgerUCPkg.NewLedgerUseCase(ledgerRepo, redisClient, txnIndexer, appLogger)
	holdUC := holdUCPkg.NewHoldUseCase(holdRepo, ledgerUC, time.Duration(cfg.Hold.TTLHours)*time.Hour, appLogger)
	adjustmentUC := adjUCPkg.NewAdjustmentUseCase(ledgerUC, appLogger)
	wholesaleUC := wholesaleUCPkg.NewWholesaleUseCase(wholesaleRepo, catalogRepo, ledgerUC, appLogger)

	// 9. Start Listener and Sweeper
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wholesaleListener := wholesaleListenerPkg.NewWholesaleListener(kafkaConsumer, wholesaleUC, appLogger)
	go wholesaleListener.Start(ctx)

	holdSweeper := holdSweeperPkg.NewSweeper(cfg.Hold.SweepSpec, holdUC, appLogger)
	holdSweeper.Start()
	defer holdSweeper.Stop()

	// 10. Initialize Handlers and Router
	ledgerHandler := ledgerH.NewLedgerHandler(ledgerUC, appLogger)
	holdHandler := holdH.NewHoldHandler(holdUC, appLogger)
	adjustmentHandler := adjH.NewAdjustmentHandler(adjustmentUC, appLogger)
	wholesaleHandler := wholesaleH.NewWholesaleHandler(wholesaleUC, appLogger)

	engine := router.New(ledgerHandler, holdHandler, adjustmentHandler, wholesaleHandler, appLogger)

	// 11. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:    port,
		Handler: engine,
	}

	appLogger.Info("starting HTTP server", zap.String("port", port))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("server stopped")
}
