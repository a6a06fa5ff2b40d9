// @title SpeakScore API
// @version 1.0
// @description Speech scoring, grammar quizzes and session reports for language practice.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "speakscore/cmd/api/docs"
	"speakscore/internal/adapter"
	"speakscore/internal/adapter/audio"
	"speakscore/internal/adapter/evaluator"
	"speakscore/internal/adapter/transcription"
	"speakscore/internal/cache"
	"speakscore/internal/config"
	"speakscore/internal/content"
	"speakscore/internal/database"
	"speakscore/internal/domain"
	"speakscore/internal/handler"
	"speakscore/internal/logger"
	"speakscore/internal/metrics"
	"speakscore/internal/middleware"
	"speakscore/internal/repository"
	"speakscore/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer func() { _ = logger.Sync() }()

	metrics.Init()

	// Ledger database
	db, err := database.NewSQLXDB(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := database.RunMigrations(db.DB, cfg.DB.Driver); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}
	ledger := repository.NewSQLXPerformanceRepository(db)

	// Active quiz store: Redis when configured, in-process otherwise.
	var quizCache domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		quizCache = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Using Redis quiz store", zap.String("address", cfg.Redis.Address))
	} else {
		quizCache = adapter.NewMemoryCacheAdapter()
		appLogger.Warn("redis.address is empty, active quizzes are kept in process memory")
	}
	quizStore := service.NewQuizStore(quizCache, cfg.Quiz.TTL)

	// External providers
	if cfg.Transcription.APIKey == "" {
		appLogger.Warn("transcription.api_key is empty, speech scoring requests will fail")
	}
	transcriber := transcription.NewWhisperTranscriber(
		cfg.Transcription.BaseURL,
		cfg.Transcription.APIKey,
		cfg.Transcription.Model,
		cfg.Transcription.Timeout,
	)

	llm, err := evaluator.NewModel(context.Background(), cfg.Rubric)
	if err != nil {
		appLogger.Fatal("Failed to create rubric LLM client", zap.Error(err), zap.String("provider", cfg.Rubric.Provider))
	}
	rubricEvaluator := evaluator.NewRubricEvaluator(llm, cfg.Rubric.Temperature, cfg.Rubric.Timeout)

	var prober domain.AudioProber
	if _, err := exec.LookPath("ffprobe"); err == nil {
		prober = audio.NewFFProbeProber()
	} else {
		appLogger.Warn("ffprobe not found, module A relies on transcriber durations")
	}

	// Services
	bank := content.NewStaticBank()
	speechService := service.NewSpeechService(bank, transcriber, prober, rubricEvaluator, ledger)
	quizService := service.NewQuizService(bank, quizStore, ledger, cfg.Quiz.DefaultQuestions)
	reportService := service.NewReportService(ledger)

	authCfg := cfg.Auth
	if authCfg.JWTSecret == "" {
		authCfg.JWTSecret = randomSecret()
		appLogger.Warn("auth.jwt_secret is empty, using a random secret; tokens will not survive a restart")
	}
	authService, err := service.NewAuthService(authCfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    cfg.Server.BodyLimitMB * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	app.Get("/swagger/*", swagger.HandlerDefault)
	handler.Register(app, handler.Routes{
		Auth:     authService,
		Exercise: handler.NewExerciseHandler(speechService, cfg.Upload.TempDir),
		Quiz:     handler.NewQuizHandler(quizService),
		Session:  handler.NewSessionHandler(authService, reportService),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"ledger":     ledger,
			"quiz_store": quizCache,
		}),
		QuizMaxQuestions: cfg.Quiz.MaxQuestions,
		RequestTimeout:   cfg.Server.WriteTimeout,
	})

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("Failed to generate JWT secret: %v", err)
	}
	return hex.EncodeToString(buf)
}
