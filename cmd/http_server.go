package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/tenant-crm/internal"
	"github.com/frahmantamala/tenant-crm/internal/access"
	accessPostgres "github.com/frahmantamala/tenant-crm/internal/access/postgres"
	"github.com/frahmantamala/tenant-crm/internal/account"
	accountPostgres "github.com/frahmantamala/tenant-crm/internal/account/postgres"
	"github.com/frahmantamala/tenant-crm/internal/auth"
	authPostgres "github.com/frahmantamala/tenant-crm/internal/auth/postgres"
	"github.com/frahmantamala/tenant-crm/internal/businessunit"
	businessunitPostgres "github.com/frahmantamala/tenant-crm/internal/businessunit/postgres"
	"github.com/frahmantamala/tenant-crm/internal/core/events"
	"github.com/frahmantamala/tenant-crm/internal/crm"
	crmPostgres "github.com/frahmantamala/tenant-crm/internal/crm/postgres"
	"github.com/frahmantamala/tenant-crm/internal/observability"
	"github.com/frahmantamala/tenant-crm/internal/permission"
	permissionPostgres "github.com/frahmantamala/tenant-crm/internal/permission/postgres"
	"github.com/frahmantamala/tenant-crm/internal/tenant"
	tenantPostgres "github.com/frahmantamala/tenant-crm/internal/tenant/postgres"
	"github.com/frahmantamala/tenant-crm/internal/transport"
	"github.com/frahmantamala/tenant-crm/internal/transport/middleware"
	"github.com/frahmantamala/tenant-crm/internal/transport/rest"
	"github.com/frahmantamala/tenant-crm/internal/transport/swagger"
	"github.com/frahmantamala/tenant-crm/internal/user"
	userPostgres "github.com/frahmantamala/tenant-crm/internal/user/postgres"
	"github.com/frahmantamala/tenant-crm/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Router   *chi.Mux
	Logger   *slog.Logger
	EventBus *events.EventBus
	// Registry is nil when metrics are disabled.
	Registry *prometheus.Registry
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if _, err := swagger.Load(context.Background()); err != nil {
		deps.Logger.Warn("openapi document failed validation", "error", err)
	}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	setupRoutes(bgCtx, deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

// setupRoutes mounts every handler; background work started here stops with ctx.
func setupRoutes(ctx context.Context, deps *Dependencies) {
	handlers, opts := buildHandlers(ctx, deps)
	rest.RegisterAllRoutes(deps.Router, handlers, opts)
}

// buildHandlers wires stores, services and the gate. The resolver is
// subscribed to grant changes before any handler can publish one.
func buildHandlers(ctx context.Context, deps *Dependencies) (rest.Handlers, rest.Options) {
	cfg := deps.Config
	lg := deps.Logger

	var metrics *observability.Metrics
	var recorder auth.DecisionRecorder
	opts := rest.Options{
		Origins: cfg.Server.Origins(),
		Logger:  lg,
	}
	if deps.Registry != nil {
		metrics = observability.NewMetrics(deps.Registry)
		recorder = metrics
		opts.Metrics = metrics
		opts.Gatherer = deps.Registry
		opts.MetricsPath = cfg.Observability.Metrics.Path
	}
	if cfg.RateLimit.LoginPerSecond > 0 {
		opts.AuthLimiter = middleware.NewRateLimiter(cfg.RateLimit.LoginPerSecond, cfg.RateLimit.LoginBurst)
		go opts.AuthLimiter.Run(ctx, time.Minute)
	}

	permissionRepo := permissionPostgres.NewPermissionRepository(deps.Gorm)
	resolver := permission.NewResolver(permissionRepo, cfg.Authz.PermissionCacheTTL, lg)
	resolver.Subscribe(deps.EventBus)
	permissionService := permission.NewService(permissionRepo, deps.EventBus, lg)

	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.JWTAccessSecret,
		cfg.Security.JWTRefreshSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(deps.DB), tokenGen, resolver, cfg.Security.BCryptCost)

	evaluator := access.NewEvaluator(accessPostgres.NewAccessRepository(deps.Gorm), lg)
	gate := auth.NewGate(
		auth.NewRBACAuthorization(lg, recorder),
		auth.NewABACPolicy(evaluator, cfg.Authz.ConcealCrossTenant, lg, recorder),
	)

	handlers := rest.Handlers{
		Health:       rest.NewHealthHandler(deps.DB, transport.NewBaseHandler(lg)),
		Auth:         auth.NewHandler(authService, lg, recorder),
		Gate:         gate,
		Permission:   permission.NewHandler(permissionService, lg, auth.GrantActor),
		User:         user.NewHandler(user.NewService(userPostgres.NewUserRepository(deps.Gorm), lg), lg),
		Account:      account.NewHandler(account.NewService(accountPostgres.NewAccountRepository(deps.Gorm), lg), lg),
		BusinessUnit: businessunit.NewHandler(businessunit.NewService(businessunitPostgres.NewBusinessUnitRepository(deps.Gorm), lg), lg),
		Tenant:       tenant.NewHandler(tenant.NewService(tenantPostgres.NewTenantRepository(deps.Gorm), lg), lg),
		CRM:          crm.NewHandler(crm.NewService(crmPostgres.NewCRMRepository(deps.Gorm), lg), lg),
	}
	return handlers, opts
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Configure(os.Stdout, config.Observability.Logging.Format, config.Observability.Logging.Level)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	var registry *prometheus.Registry
	if config.Observability.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return &Dependencies{
		Config:   config,
		DB:       db,
		Gorm:     gdb,
		Router:   chi.NewRouter(),
		Logger:   lg,
		EventBus: events.NewEventBus(lg),
		Registry: registry,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return dbConn, nil
}

// initGorm shares the sqlx pool with gorm so both see the same limits.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
}
