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

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dmarkovic/invoice-tracking/internal"
	"github.com/dmarkovic/invoice-tracking/internal/auth"
	authPostgres "github.com/dmarkovic/invoice-tracking/internal/auth/postgres"
	"github.com/dmarkovic/invoice-tracking/internal/invoice"
	invoicePostgres "github.com/dmarkovic/invoice-tracking/internal/invoice/postgres"
	"github.com/dmarkovic/invoice-tracking/internal/masterdata"
	masterdataPostgres "github.com/dmarkovic/invoice-tracking/internal/masterdata/postgres"
	"github.com/dmarkovic/invoice-tracking/internal/report"
	reportPostgres "github.com/dmarkovic/invoice-tracking/internal/report/postgres"
	"github.com/dmarkovic/invoice-tracking/internal/transport/rest"
	"github.com/dmarkovic/invoice-tracking/internal/user"
	userPostgres "github.com/dmarkovic/invoice-tracking/internal/user/postgres"
	"github.com/dmarkovic/invoice-tracking/pkg/cache"
	"github.com/dmarkovic/invoice-tracking/pkg/logger"
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
	Config *internal.Config
	DB     *sqlx.DB
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	validateOpenAPISpec(deps.Logger)
	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) {
	lg := deps.Logger
	cfg := deps.Config

	reportCache := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if reportCache == nil {
		lg.Info("report cache disabled, no redis address configured")
	}

	userRepo := userPostgres.NewUserRepository(deps.GormDB)
	userService := user.NewService(userRepo, cfg.Security.BCryptCost, lg)

	tokenGen := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	authRepo := authPostgres.NewRepository(deps.GormDB)
	authService := auth.NewService(authRepo, tokenGen)

	reportRepo := reportPostgres.NewReportRepository(deps.DB)
	reportService := report.NewService(reportRepo, reportCache, cfg.Redis.ReportTTL, lg)

	costTypeService := masterdata.NewService[masterdata.CostType](
		masterdataPostgres.NewCostTypeRepository(deps.GormDB), internal.ErrCostTypeNotFound, reportService, lg)
	costCenterService := masterdata.NewService[masterdata.CostCenter](
		masterdataPostgres.NewCostCenterRepository(deps.GormDB), internal.ErrCostCenterNotFound, reportService, lg)
	supplierService := masterdata.NewService[masterdata.Supplier](
		masterdataPostgres.NewSupplierRepository(deps.GormDB), internal.ErrSupplierNotFound, reportService, lg)

	invoiceRepo := invoicePostgres.NewInvoiceRepository(deps.GormDB)
	invoiceService := invoice.NewService(
		invoiceRepo, costTypeService, costCenterService, supplierService, reportService, lg)

	handlers := rest.Handlers{
		Auth:       auth.NewHandler(authService),
		User:       user.NewHandler(userService),
		Invoice:    invoice.NewHandler(invoiceService),
		CostType:   masterdata.NewHandler(costTypeService),
		CostCenter: masterdata.NewHandler(costCenterService),
		Supplier:   masterdata.NewHandler(supplierService),
		Report:     report.NewHandler(reportService),
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, handlers, cfg, lg)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))

	db, gormDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.Default(),
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB opens one pgx connection pool and hands the same pool to sqlx (for
// the report queries) and GORM (for the row-level repositories).
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	dbConn, err := sqlx.Connect("pgx", cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: dbConn.DB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to open gorm over db connection: %w", err)
	}

	return dbConn, gormDB, nil
}

// validateOpenAPISpec sanity-checks the served API document at startup so a
// broken spec shows up in the logs instead of in the swagger UI.
func validateOpenAPISpec(lg *slog.Logger) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile("api/openapi.yml")
	if err != nil {
		lg.Warn("could not load OpenAPI spec", "error", err)
		return
	}
	if err := doc.Validate(loader.Context); err != nil {
		lg.Warn("OpenAPI spec failed validation", "error", err)
	}
}
