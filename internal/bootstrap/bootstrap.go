package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	appControllers "github.com/campuskit/placement/internal/app/controllers"
	appMigrations "github.com/campuskit/placement/internal/app/migrations"
	appRepos "github.com/campuskit/placement/internal/app/repositories"
	appRoutes "github.com/campuskit/placement/internal/app/routes"
	appServices "github.com/campuskit/placement/internal/app/services"
	"github.com/campuskit/placement/internal/config"
	"github.com/campuskit/placement/internal/db"
	appMiddleware "github.com/campuskit/placement/internal/middleware"
	pkgAuth "github.com/campuskit/placement/internal/pkg/auth"
	"github.com/campuskit/placement/internal/pkg/email"
	"github.com/campuskit/placement/internal/pkg/filestorage"
	"github.com/campuskit/placement/internal/pkg/helpers"
	"github.com/campuskit/placement/internal/pkg/logger"
	"github.com/campuskit/placement/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	JWTService  *pkgAuth.JWTService
	FileStorage *filestorage.LocalStorage
	Mailer      *email.Mailer

	AuthService        *appServices.AuthService
	MetricsService     *appServices.MetricsService
	StudentService     *appServices.StudentService
	CompanyService     *appServices.CompanyService
	ApplicationService *appServices.ApplicationService
	ImportService      *appServices.ImportService
	ExportService      *appServices.ExportService
	UserService        *appServices.UserService

	AuthController        *appControllers.AuthController
	StudentController     *appControllers.StudentController
	CompanyController     *appControllers.CompanyController
	ApplicationController *appControllers.ApplicationController
	ImportController      *appControllers.ImportController
	ExportController      *appControllers.ExportController
	AdminController       *appControllers.AdminController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger // Get the configured global logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default admin account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultAdmin(context.Background(), dbPool, cfg.Admin.Email, cfg.Admin.Password, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to seed default admin, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// Startup sweep; tokens also expire naturally, this just keeps the table small.
	if removed, err := deps.Repos.TokenRepository.CleanupExpiredTokens(context.Background()); err != nil {
		lgr.Warn().Err(err).Msg("Token cleanup failed")
	} else if removed > 0 {
		lgr.Info().Int64("removed", removed).Msg("Expired tokens cleaned up")
	}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.Path)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	// Every outbound email is recorded in notification_logs, delivered or not.
	deps.Mailer = email.NewMailer(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, deps.Repos.NotificationRepository, lgr)

	deps.MetricsService = appServices.NewMetricsService(
		deps.Repos.SemesterRecordRepository,
		deps.Repos.StudentRepository,
		lgr,
	)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.Repos.StudentRepository,
		deps.JWTService,
		deps.Mailer,
		lgr,
	)

	deps.StudentService = appServices.NewStudentService(
		deps.Repos.StudentRepository,
		deps.Repos.SemesterRecordRepository,
		deps.Repos.BacklogHistoryRepository,
		deps.MetricsService,
		lgr,
	)

	deps.CompanyService = appServices.NewCompanyService(deps.Repos.CompanyRepository, lgr)

	deps.ApplicationService = appServices.NewApplicationService(
		deps.Repos.ApplicationRepository,
		deps.Repos.StudentRepository,
		deps.Repos.CompanyRepository,
		deps.Repos.UserRepository,
		deps.Mailer,
		lgr,
	)

	deps.ImportService = appServices.NewImportService(
		deps.Repos.StudentRepository,
		deps.Repos.SemesterRecordRepository,
		deps.Repos.BacklogHistoryRepository,
		deps.MetricsService,
		deps.FileStorage,
		lgr,
	)

	deps.ExportService = appServices.NewExportService(
		deps.Repos.ApplicationRepository,
		deps.Repos.CompanyRepository,
		lgr,
	)

	deps.UserService = appServices.NewUserService(
		deps.Repos.UserRepository,
		deps.Repos.StudentRepository,
		deps.Repos.CompanyRepository,
		deps.Repos.ApplicationRepository,
		deps.Repos.NotificationRepository,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.CompanyController = appControllers.NewCompanyController(deps.CompanyService)
	deps.ApplicationController = appControllers.NewApplicationController(deps.ApplicationService, deps.AuthService)
	deps.ImportController = appControllers.NewImportController(deps.ImportService)
	deps.ExportController = appControllers.NewExportController(deps.ExportService)
	deps.AdminController = appControllers.NewAdminController(deps.UserService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))

	// Setup Swagger
	appRoutes.SetupSwagger(router)

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.CompanyController,
		deps.ApplicationController,
		deps.ImportController,
		deps.ExportController,
		deps.AdminController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
