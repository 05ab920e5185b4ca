package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/esgchampions/internal/app/auth"
	appControllers "github.com/yigit/esgchampions/internal/app/controllers"
	appMigrations "github.com/yigit/esgchampions/internal/app/migrations"
	appRepos "github.com/yigit/esgchampions/internal/app/repositories"
	appRoutes "github.com/yigit/esgchampions/internal/app/routes"
	appServices "github.com/yigit/esgchampions/internal/app/services"
	"github.com/yigit/esgchampions/internal/config"
	"github.com/yigit/esgchampions/internal/db"
	appMiddleware "github.com/yigit/esgchampions/internal/middleware"
	pkgAuth "github.com/yigit/esgchampions/internal/pkg/auth"
	"github.com/yigit/esgchampions/internal/pkg/cache"
	"github.com/yigit/esgchampions/internal/pkg/email"
	"github.com/yigit/esgchampions/internal/pkg/helpers"
	"github.com/yigit/esgchampions/internal/pkg/logger"
	"github.com/yigit/esgchampions/internal/pkg/websocket"
	"github.com/yigit/esgchampions/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService       appServices.AuthService
	CatalogService    appServices.CatalogService
	SubmissionService appServices.SubmissionService
	ModerationService appServices.ModerationService
	RankingService    appServices.RankingService
	EngagementService appServices.EngagementService

	AuthController       *appControllers.AuthController
	CatalogController    *appControllers.CatalogController
	ReviewController     *appControllers.ReviewController
	AdminController      *appControllers.AdminController
	RankingController    *appControllers.RankingController
	EngagementController *appControllers.EngagementController
	AuthMiddleware       *appMiddleware.AuthMiddleware

	Repos        *appRepos.Repositories
	JWTService   *pkgAuth.JWTService
	Admins       *appAuth.AdminAuthorizer
	RankingCache cache.RankingCache
	Hub          *websocket.Hub
	LiveHandler  *websocket.Handler
	Mailer       email.EmailService
	Seeder       *seed.Seeder
	Logger       zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logFormat := logger.ParseFormat(cfg.Logging.Format)
	lgr := logger.Configure(logger.Config{
		Level:   logLevel,
		Format:  logFormat,
		Service: "esg-champions",
	})

	lgr.Info().
		Str("logLevel", string(logLevel)).
		Str("logFormat", string(logFormat)).
		Strs("envOverrides", cfg.EnvOverrides).
		Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens and pings the connection pool.
func ConnectDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database.Pool, nil
}

// RunMigrations applies pending SQL files from the configured directory.
func RunMigrations(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (int, error) {
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return 0, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(dbPool, lgr).MigrateFromDirectory(ctx, migrationsDir)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return applied, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	return applied, nil
}

// SetupDatabase connects and migrates.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	dbPool, err := ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if _, err := RunMigrations(ctx, cfg, dbPool, lgr); err != nil {
		dbPool.Close()
		return nil, err
	}
	return dbPool, nil
}

// SetupRankingCache connects to Redis when configured. A Redis outage at
// startup falls back to recomputing rankings on every read.
func SetupRankingCache(cfg *config.Config, lgr zerolog.Logger) cache.RankingCache {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("Redis not configured, ranking cache disabled")
		return cache.Noop{}
	}

	rc, err := cache.NewRedisRankingCache(cache.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      helpers.ParseDuration(cfg.Redis.RankingTTL, 5*time.Minute),
	}, lgr)
	if err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, ranking cache disabled")
		return cache.Noop{}
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Ranking cache connected")
	return rc
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.RankingCache = SetupRankingCache(cfg, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Mailer = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		BaseURL:   cfg.SMTP.BaseURL,
	}, lgr)

	deps.Admins = appAuth.NewAdminAuthorizer(deps.Repos.ChampionRepository)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.ChampionRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		deps.Mailer,
		lgr,
	)
	deps.CatalogService = appServices.NewCatalogService(
		deps.Repos.PanelRepository,
		deps.Repos.IndicatorRepository,
		deps.Admins,
		lgr,
	)
	deps.RankingService = appServices.NewRankingService(deps.Repos.ModerationRepository, deps.RankingCache, lgr)

	// Ranking changes are pushed to /rankings/live subscribers
	deps.Hub = websocket.NewHub(lgr)
	deps.LiveHandler = websocket.NewHandler(deps.Hub, cfg.Server.AllowedOrigins, lgr)
	rankingNotifier := websocket.NewRankingNotifier(deps.RankingService, deps.Hub)

	deps.SubmissionService = appServices.NewSubmissionService(deps.Repos.ReviewRepository, rankingNotifier, lgr)
	deps.ModerationService = appServices.NewModerationService(
		deps.Repos.ReviewRepository,
		deps.Repos.ModerationRepository,
		deps.Admins,
		rankingNotifier,
		lgr,
	)
	deps.EngagementService = appServices.NewEngagementService(appServices.EngagementDeps{
		Votes:       deps.Repos.VoteRepository,
		Comments:    deps.Repos.CommentRepository,
		Invitations: deps.Repos.InvitationRepository,
		Reviews:     deps.Repos.ReviewRepository,
		Panels:      deps.Repos.PanelRepository,
		Champions:   deps.Repos.ChampionRepository,
		Mailer:      deps.Mailer,
	}, lgr)

	deps.Seeder = seed.NewSeeder(deps.CatalogService, deps.Repos.ChampionRepository, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Admins)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.CatalogController = appControllers.NewCatalogController(deps.CatalogService)
	deps.ReviewController = appControllers.NewReviewController(deps.SubmissionService, lgr)
	deps.AdminController = appControllers.NewAdminController(deps.ModerationService, lgr)
	deps.RankingController = appControllers.NewRankingController(deps.RankingService)
	deps.EngagementController = appControllers.NewEngagementController(deps.EngagementService)

	return deps, nil
}

// SeedDefaultData loads the catalog and the configured admin. Failures are
// logged and do not stop the server.
func SeedDefaultData(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	err := deps.Seeder.CreateDefaultData(ctx, seed.AdminAccount{
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	})
	if err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.CORS(cfg.Server.AllowedOrigins))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CatalogController,
		deps.ReviewController,
		deps.AdminController,
		deps.RankingController,
		deps.EngagementController,
		deps.LiveHandler,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
