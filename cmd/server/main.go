package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pox-ledger.backend/internal/config"
	"pox-ledger.backend/internal/infrastructure/jobs"
	"pox-ledger.backend/internal/infrastructure/repositories"
	"pox-ledger.backend/internal/interfaces/http/handlers"
	"pox-ledger.backend/internal/interfaces/http/middleware"
	"pox-ledger.backend/internal/usecases"
	"pox-ledger.backend/pkg/logger"
	"pox-ledger.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize repositories
	walletRepo := repositories.NewWalletRepository(db)
	nonceRepo := repositories.NewNonceRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	receiptRepo := repositories.NewReceiptRepository(db)
	blockRepo := repositories.NewBlockRepository(db)
	escrowRepo := repositories.NewEscrowRepository(db)
	anchorRepo := repositories.NewAnchorRepository(db)
	contractRepo := repositories.NewContractRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize usecases
	walletUsecase := usecases.NewWalletUsecase(walletRepo, transactionRepo, uow)
	ledgerUsecase := usecases.NewLedgerUsecase(receiptRepo, blockRepo, uow)
	paymentUsecase := usecases.NewPaymentUsecase(paymentRepo, nonceRepo, walletUsecase, ledgerUsecase, uow)
	escrowUsecase := usecases.NewEscrowUsecase(escrowRepo, receiptRepo, walletUsecase, ledgerUsecase, uow)
	anchorUsecase := usecases.NewAnchorUsecase(anchorRepo, blockRepo, cfg.Ledger.AnchorChain)
	contractUsecase := usecases.NewContractUsecase(contractRepo, walletUsecase, ledgerUsecase, uow)

	// Initialize handlers
	walletHandler := handlers.NewWalletHandler(walletUsecase)
	paymentHandler := handlers.NewPaymentHandler(paymentUsecase)
	ledgerHandler := handlers.NewLedgerHandler(ledgerUsecase)
	escrowHandler := handlers.NewEscrowHandler(escrowUsecase)
	anchorHandler := handlers.NewAnchorHandler(anchorUsecase)
	contractHandler := handlers.NewContractHandler(contractUsecase)

	appAccess := middleware.AppAccessMiddleware(cfg.Security.AppSecretHash)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sealerJob := jobs.NewBlockSealerJob(ledgerUsecase, cfg.Ledger.SealInterval)
	anchorJob := jobs.NewAnchorJob(anchorUsecase, cfg.Ledger.AnchorInterval)
	sweepJob := jobs.NewContractSweepJob(contractUsecase, cfg.Ledger.ContractSweepInterval)
	go sealerJob.Start(ctx)
	go anchorJob.Start(ctx)
	go sweepJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		walletHandler:   walletHandler,
		paymentHandler:  paymentHandler,
		ledgerHandler:   ledgerHandler,
		escrowHandler:   escrowHandler,
		anchorHandler:   anchorHandler,
		contractHandler: contractHandler,
		appAccess:       appAccess,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		sealerJob.Stop()
		anchorJob.Stop()
		sweepJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 PoX Ledger Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
