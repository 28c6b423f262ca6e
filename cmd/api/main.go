package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/skillcircle/skillcircle-api/api/swagger"
	"github.com/skillcircle/skillcircle-api/internal/handler"
	"github.com/skillcircle/skillcircle-api/internal/middleware"
	"github.com/skillcircle/skillcircle-api/internal/repository"
	"github.com/skillcircle/skillcircle-api/internal/service"
	"github.com/skillcircle/skillcircle-api/pkg/cache"
	"github.com/skillcircle/skillcircle-api/pkg/config"
	"github.com/skillcircle/skillcircle-api/pkg/database"
	"github.com/skillcircle/skillcircle-api/pkg/logger"
	corsmiddleware "github.com/skillcircle/skillcircle-api/pkg/middleware/cors"
	reqidmiddleware "github.com/skillcircle/skillcircle-api/pkg/middleware/requestid"
)

// @title SkillCircle API
// @version 1.0.0
// @description Skill bartering marketplace backend
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, search cache disabled", zap.Error(err))
	} else {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Search.CacheTTL, logr, cfg.Search.CacheEnabled)

	userRepo := repository.NewUserRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	exchangeRepo := repository.NewExchangeRepository(db)

	authSvc := service.NewAuthService(userRepo, logr, service.AuthConfig{
		TokenSecret:        cfg.JWT.Secret,
		TokenExpiry:        cfg.JWT.Expiration,
		Issuer:             cfg.JWT.Issuer,
		GoogleClientID:     cfg.Google.ClientID,
		GoogleClientSecret: cfg.Google.ClientSecret,
		GoogleRedirectURL:  cfg.Google.RedirectURL,
	})
	profileSvc := service.NewProfileService(db, userRepo, availabilityRepo, skillRepo, cacheSvc, nil, logr)
	searchSvc := service.NewSearchService(skillRepo, cacheSvc, logr)
	exchangeSvc := service.NewExchangeService(exchangeRepo, skillRepo, nil, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	searchHandler := handler.NewSearchHandler(searchSvc)
	exchangeHandler := handler.NewExchangeHandler(exchangeSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.GET("/google/login", authHandler.GoogleLogin)
	auth.GET("/google/callback", authHandler.GoogleCallback)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	protected.POST("/profile/setup", profileHandler.Setup)
	protected.GET("/skills/search", searchHandler.Search)

	exchange := protected.Group("/skill-exchange")
	exchange.POST("/create", exchangeHandler.Create)
	exchange.PATCH("/:id/respond", exchangeHandler.Respond)
	exchange.PATCH("/:id/start", exchangeHandler.Start)
	exchange.PATCH("/:id/complete", exchangeHandler.Complete)
	exchange.GET("/requests", exchangeHandler.List)
	exchange.GET("/requests/export", exchangeHandler.Export)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
