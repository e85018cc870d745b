package app

import (
	"context"
	"fmt"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/config"
	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/services"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-repositories"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-seeding"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

// App owns the store and every manager built on top of it.
type App struct {
	Config *config.Config
	DB     *pgxpool.Pool
	Store  repositories.Store

	Occupancy *services.OccupancyService
	Payments  *services.PaymentLifecycleService
	Incidents *services.IncidentWorkflowService
	Registry  *services.RegistryService
	Scan      *services.OverdueScanService
}

// NewApp connects the configured store backend and wires the managers.
func NewApp(cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}
	validator := services.NewInvariantValidator()

	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		utils.Logger.Warn("Using in-memory store; data is lost on restart.")
		a.Store = repositories.NewMemoryStore(validator)
	case config.StoreBackendPostgres:
		dbURL, err := utils.WithApplicationName(cfg.DBUrl, cfg.AppName)
		if err != nil {
			return nil, err
		}
		utils.Logger.Infof("Connecting to %s", utils.RedactDBURL(dbURL))
		pool, err := connectWithRetry(dbURL)
		if err != nil {
			return nil, err
		}
		a.DB = pool
		if cfg.ApplySchemaOnStart {
			ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
			defer cancel()
			if err := repositories.ApplySchema(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			utils.Logger.Info("Database schema applied.")
		}
		a.Store = repositories.NewPgStore(pool, validator)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	a.wire(nil)
	return a, nil
}

// NewWithStore wires the managers over an existing store, for tests.
func NewWithStore(cfg *config.Config, store repositories.Store, clock services.Clock) *App {
	a := &App{Config: cfg, Store: store}
	a.wire(clock)
	return a
}

func (a *App) wire(clock services.Clock) {
	a.Payments = services.NewPaymentLifecycleService(a.Config, a.Store, clock)
	a.Occupancy = services.NewOccupancyService(a.Store, a.Payments, clock)
	a.Incidents = services.NewIncidentWorkflowService(a.Store, clock)
	a.Registry = services.NewRegistryService(a.Store)
	a.Scan = services.NewOverdueScanService(a.Store, a.Payments, a.Occupancy, clock)
}

// Seed loads the demo data set when the seeding flag is on.
func (a *App) Seed(ctx context.Context) error {
	if !a.Config.LDFlag_SeedDbWithTestData {
		return nil
	}
	if err := seeding.SeedAll(ctx, a.Store); err != nil {
		return fmt.Errorf("seed test data: %w", err)
	}
	return nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("property-service DB connection closed.")
	}
}

func connectWithRetry(databaseURL string) (*pgxpool.Pool, error) {
	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		dbPool, err = newDBPool(ctx, databaseURL)
		cancel()
		if err == nil {
			utils.Logger.Infof("property-service connected to DB on attempt %d", i)
			return dbPool, nil
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)
		if i == maxRetries {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	return nil, fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
}

// newDBPool closes idle sockets before the platform proxy does and keeps
// the rest warm with a background health check.
func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	return pgxpool.ConnectConfig(ctx, cfg)
}
