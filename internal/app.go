// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"

	router "momo-ledger/internal/api"
	"momo-ledger/internal/api/handler"
	"momo-ledger/internal/config"
	"momo-ledger/internal/infrastructure/lock"
	"momo-ledger/internal/infrastructure/mq"
	"momo-ledger/internal/repository/postgres"
	"momo-ledger/internal/service"
	"momo-ledger/internal/util"
	"momo-ledger/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	Locker    lock.Locker
	Publisher mq.Publisher

	// Services
	IdentityService service.IdentityService
	LedgerService   service.LedgerService
	RequestService  service.RequestService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{Logger: util.GetLogger()}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.Log.Level)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, app.DB); err != nil {
			return fmt.Errorf("failed to migrate database schema: %w", err)
		}
		app.Logger.Info("Database schema is up to date.")
	}

	// 4. Decision lock and event publisher
	app.Locker = lock.NoopLocker{}
	if cfg.RedisEnabled() {
		client, err := lock.NewRedisClient(cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.Redis = client
		app.Locker = lock.NewRedisLocker(client, cfg.Lock)
		app.Logger.Info("Redis decision lock enabled.", "addr", cfg.Redis.Addr)
	}

	app.Publisher = mq.NoopPublisher{}
	if cfg.KafkaEnabled() {
		publisher, err := mq.NewKafkaPublisher(cfg.Kafka)
		if err != nil {
			return fmt.Errorf("failed to create event publisher: %w", err)
		}
		app.Publisher = publisher
		app.Logger.Info("Kafka event publisher enabled.", "topic", cfg.Kafka.Topic)
	}

	// 5. Initialize Services
	deps := service.Dependencies{
		TxManager:        db.NewDefaultTxManager(app.DB),
		Reader:           app.DB,
		Users:            postgres.NewUserRepository(),
		Transactions:     postgres.NewTransactionRepository(),
		PendingDeposits:  postgres.NewPendingDepositRepository(),
		DepositRequests:  postgres.NewDepositRequestRepository(),
		WithdrawRequests: postgres.NewWithdrawRequestRepository(),
		Locker:           app.Locker,
		Publisher:        app.Publisher,
		Logger:           app.Logger,
	}
	app.IdentityService = service.NewIdentityService(deps)
	app.LedgerService = service.NewLedgerService(deps)
	app.RequestService = service.NewRequestService(deps)
	app.Logger.Info("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	app.HTTPHandler = router.NewRouter(router.Handlers{
		Users:    handler.NewUserHandler(app.IdentityService, app.Logger),
		Ledger:   handler.NewLedgerHandler(app.LedgerService, app.Logger),
		Requests: handler.NewRequestHandler(app.IdentityService, app.RequestService, app.Logger),
		Admin:    handler.NewAdminHandler(app.RequestService, app.Logger),
	}, cfg.Server.RequestTimeout)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	var firstErr error

	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			app.Logger.Error("Failed to close event publisher", "error", err)
			firstErr = fmt.Errorf("failed to close event publisher: %w", err)
		}
	}
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Failed to close Redis client", "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to close Redis client: %w", err)
			}
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to close database connection: %w", err)
			}
		} else {
			app.Logger.Info("Database connection closed.")
		}
	}

	if firstErr != nil {
		return firstErr
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
