package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/inzone-go-api/internal/config"
	"github.com/noah-isme/inzone-go-api/internal/database"
	"github.com/noah-isme/inzone-go-api/internal/events"
	"github.com/noah-isme/inzone-go-api/internal/handler"
	"github.com/noah-isme/inzone-go-api/internal/middleware"
	"github.com/noah-isme/inzone-go-api/internal/models"
	"github.com/noah-isme/inzone-go-api/internal/repository"
	"github.com/noah-isme/inzone-go-api/internal/router"
	"github.com/noah-isme/inzone-go-api/internal/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	if cfg.SeedOnStart {
		seeder := service.NewSeedService(repository.New[models.RoleType](db), repository.New[models.SupportedLanguage](db), logger)
		if _, err := seeder.SeedReferenceData(context.Background()); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed reference data")
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, list cache disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.NATSURL != "" {
		var conn *nats.Conn
		conn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, change events disabled")
		} else {
			defer conn.Drain()
			publisher = events.NewNATSPublisher(conn, cfg.NATSSubjectPrefix)
		}
	}

	opts := service.QueryOptions{Cache: redisClient, CacheTTL: cfg.CacheTTL, Events: publisher}
	validate := validator.New(validator.WithRequiredStructEnabled())

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AccessLog: true})
	router.Register(app, cfg, buildDependencies(db, cfg, opts, validate, logger))

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func buildDependencies(db *gorm.DB, cfg config.Config, opts service.QueryOptions, validate *validator.Validate, logger zerolog.Logger) router.Dependencies {
	studentRepo := repository.New[models.Student](db)
	roleTypeRepo := repository.New[models.RoleType](db)

	return router.Dependencies{
		Students: handler.NewQueryHandler(
			service.NewQueryService[models.Student](studentRepo, opts, logger), logger),
		Courses: handler.NewQueryHandler(
			service.NewQueryService[models.Course](repository.New[models.Course](db), opts, logger), logger),
		CourseLocations: handler.NewQueryHandler(
			service.NewQueryService[models.CourseLocation](repository.New[models.CourseLocation](db), opts, logger), logger),
		RoleTypes: handler.NewQueryHandler(
			service.NewQueryService[models.RoleType](roleTypeRepo, opts, logger), logger),
		SupportedLanguages: handler.NewQueryHandler(
			service.NewQueryService[models.SupportedLanguage](repository.New[models.SupportedLanguage](db), opts, logger), logger),
		StudentAnswers: handler.NewStudentAnswerQueryHandler(
			service.NewStudentAnswerService(repository.New[models.StudentAnswer](db), opts, logger), logger),
		Auth: handler.NewAuthHandler(
			service.NewAuthService(studentRepo, roleTypeRepo, validate, cfg.JWTSecret, cfg.JWTTTL, logger), logger),
		JWTMiddleware: middleware.JWTProtected(cfg.JWTSecret),
		HealthPing:    func() error { return database.Ping(db) },
	}
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
