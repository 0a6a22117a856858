package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/meetscribe/meetscribe/internal/adapter/handler"
	"github.com/meetscribe/meetscribe/internal/adapter/repository"
	"github.com/meetscribe/meetscribe/internal/infrastructure/cache"
	"github.com/meetscribe/meetscribe/internal/infrastructure/database"
	"github.com/meetscribe/meetscribe/internal/infrastructure/external/oauth"
	"github.com/meetscribe/meetscribe/internal/infrastructure/http/middleware"
	"github.com/meetscribe/meetscribe/internal/infrastructure/realtime"
	"github.com/meetscribe/meetscribe/internal/infrastructure/storage"
	"github.com/meetscribe/meetscribe/internal/usecase/abtest"
	"github.com/meetscribe/meetscribe/internal/usecase/actionitem"
	"github.com/meetscribe/meetscribe/internal/usecase/auth"
	"github.com/meetscribe/meetscribe/internal/usecase/billing"
	"github.com/meetscribe/meetscribe/internal/usecase/export"
	"github.com/meetscribe/meetscribe/internal/usecase/meeting"
	"github.com/meetscribe/meetscribe/internal/usecase/pipeline"
	"github.com/meetscribe/meetscribe/internal/usecase/stats"
	"github.com/meetscribe/meetscribe/pkg/ai"
	"github.com/meetscribe/meetscribe/pkg/config"
	"github.com/meetscribe/meetscribe/pkg/gumroad"
	"github.com/meetscribe/meetscribe/pkg/jwt"
	"github.com/meetscribe/meetscribe/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer logger.Sync()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		logger.Fatal("❌ Failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("❌ Failed to run migrations", zap.Error(err))
	}

	// Redis backs the OAuth state store; fall back to in-process memory so a
	// single-node deployment works without Redis.
	var stateStore oauth.Store
	redisStore, err := cache.NewRedisStore(cfg)
	if err != nil {
		logger.Warn("⚠️ Redis unavailable, using in-memory state store", zap.Error(err))
		stateStore = cache.NewMemoryStore()
	} else {
		stateStore = redisStore
		defer redisStore.Close()
	}

	// Transcript archive is best-effort; the pipeline works without it.
	var archive pipeline.TranscriptArchiver
	if a, err := storage.NewTranscriptArchive(&cfg.Storage); err != nil {
		logger.Warn("⚠️ Object storage unavailable, transcripts will not be archived", zap.Error(err))
	} else {
		archive = a
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	itemRepo := repository.NewActionItemRepository(db)
	variantRepo := repository.NewVariantRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	// External clients
	transcriber := ai.NewAssemblyAIClient(cfg.Assembly.APIKey)
	extractor := ai.NewGroqClient(cfg.Groq.APIKey, cfg.Groq.BaseURL)
	gumroadClient := gumroad.NewClient("", cfg.Gumroad.SellerID)
	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
	google := oauth.NewGoogleProvider(cfg.OAuth.Google.ClientID, cfg.OAuth.Google.ClientSecret, cfg.OAuth.Google.RedirectURL)
	stateManager := oauth.NewStateManager(stateStore)

	// Pipeline
	hub := realtime.NewHub(logger)
	pipelineSvc := pipeline.NewService(meetingRepo, itemRepo, variantRepo, transcriber, extractor, hub, archive, logger)
	runner := pipeline.NewRunner(cfg.Pipeline.MaxConcurrent, logger)
	sweeper := pipeline.NewSweeper(meetingRepo, cfg.Pipeline.StuckAfter, cfg.Pipeline.SweepInterval, logger)
	sweeper.Start()

	// Services
	authSvc := auth.NewService(userRepo, sessionRepo, assetRepo, jwtManager, google, stateManager, logger)
	meetingSvc := meeting.NewService(meetingRepo, itemRepo, assetRepo, pipelineSvc, runner, cfg.Upload.Dir, cfg.Upload.MaxSizeBytes, logger)
	itemSvc := actionitem.NewService(itemRepo, assetRepo, extractor, logger)
	abtestSvc := abtest.NewService(variantRepo)
	statsSvc := stats.NewService(meetingRepo, itemRepo)
	exportSvc := export.NewService(meetingRepo, itemRepo)
	billingSvc := billing.NewService(userRepo, assetRepo, subRepo, cfg.Gumroad.ProductIDBasic, cfg.Gumroad.ProductIDPro, logger)

	// HTTP layer
	authMw := middleware.NewAuthMiddleware(authSvc, logger)
	router := handler.NewRouter(
		handler.NewAuthHandler(authSvc, logger),
		handler.NewMeetingHandler(meetingSvc, logger),
		handler.NewActionItemHandler(itemSvc, logger),
		handler.NewABTestHandler(abtestSvc, logger),
		handler.NewStatHandler(statsSvc, logger),
		handler.NewExportHandler(exportSvc, logger),
		handler.NewBillingHandler(billingSvc, gumroadClient, logger),
		handler.NewWSHandler(hub, authSvc, logger),
		authMw,
	)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	router.Setup(e)

	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		logger.Info("🚀 Server starting", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("❌ Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("❌ Server shutdown failed", zap.Error(err))
	}

	// Let in-flight pipeline runs finish, then stop the background workers.
	runner.Close()
	sweeper.Stop()
	hub.Close()

	logger.Info("✅ Server stopped")
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
