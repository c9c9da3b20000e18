package main

import (
	"fmt"
	"log"
	"net/http"

	"lifeline/internal/config"
	handlers "lifeline/internal/handlers/shared"
	"lifeline/internal/middleware"
	"lifeline/internal/repositories/mongodb"
	"lifeline/internal/services"
	"lifeline/pkg/cache"
	"lifeline/pkg/database"
	"lifeline/pkg/logger"
	"lifeline/pkg/maps"
	"lifeline/pkg/push"
	"lifeline/pkg/sms"
	"lifeline/pkg/websocket"
	"lifeline/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// MongoDB
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis is optional; the event cache degrades to straight DB reads.
	var redisCache *cache.RedisCache
	redisCache, err = cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Warn("Redis unavailable, continuing without event cache")
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	// Providers. Each is optional and nil simply disables the feature.
	var smsProvider sms.SMSProvider
	switch cfg.SMS.Provider {
	case "aws":
		if provider, err := sms.NewAWSSNSProvider(cfg.SMS.AWS.Region); err != nil {
			appLogger.WithError(err).Warn("AWS SNS unavailable, contact notifications disabled")
		} else {
			smsProvider = provider
		}
	default:
		if cfg.SMS.Twilio.AccountSID != "" {
			smsProvider = sms.NewTwilioProvider(cfg.SMS.Twilio.AccountSID, cfg.SMS.Twilio.AuthToken, cfg.SMS.Twilio.FromNumber)
		}
	}

	var pushProvider push.PushProvider
	switch cfg.Push.Provider {
	case "apns":
		if provider, err := push.NewAPNSProvider(cfg.Push.APNS.KeyFile, cfg.Push.APNS.KeyID, cfg.Push.APNS.TeamID, cfg.Push.APNS.BundleID, cfg.Push.APNS.Production); err != nil {
			appLogger.WithError(err).Warn("APNs unavailable, push notifications disabled")
		} else {
			pushProvider = provider
		}
	default:
		if cfg.Push.FCM.Credentials != "" {
			if provider, err := push.NewFCMProvider(cfg.Push.FCM.Credentials); err != nil {
				appLogger.WithError(err).Warn("FCM unavailable, push notifications disabled")
			} else {
				pushProvider = provider
			}
		}
	}

	var routeProvider maps.RouteProvider
	switch cfg.Maps.Provider {
	case "mapbox":
		if cfg.Maps.Mapbox.AccessToken != "" {
			routeProvider = maps.NewMapboxProvider(cfg.Maps.Mapbox.AccessToken)
		}
	default:
		if cfg.Maps.GoogleMaps.APIKey != "" {
			if provider, err := maps.NewGoogleMapsProvider(cfg.Maps.GoogleMaps.APIKey); err != nil {
				appLogger.WithError(err).Warn("Google Maps unavailable, dispatch requires explicit routes")
			} else {
				routeProvider = provider
			}
		}
	}

	// WebSocket hub
	wsHandler := websocket.NewHandler()

	// Repositories
	sosRepo := mongodb.NewSOSRepository(db.Database, redisCacheOrNil(redisCache))
	grantRepo := mongodb.NewGrantRepository(db.Database)
	profileRepo := mongodb.NewProfileRepository(db.Database)
	auditRepo := mongodb.NewAuditLogRepository(db.Database)
	hospitalRepo := mongodb.NewHospitalRepository(db.Database)

	// Services
	auditService := services.NewAuditService(auditRepo, appLogger)
	notificationService := services.NewNotificationService(smsProvider, pushProvider, profileRepo, appLogger)
	sosService := services.NewSOSService(sosRepo, grantRepo, profileRepo, auditService, notificationService, routeProvider, wsHandler, appLogger)
	trackingService := services.NewTrackingService(sosRepo, appLogger)
	disclosureService := services.NewDisclosureService(sosRepo, grantRepo, profileRepo, auditService, appLogger)
	profileService := services.NewProfileService(profileRepo, auditService, appLogger)
	hospitalService := services.NewHospitalService(hospitalRepo, appLogger)

	// Handlers
	sosHandler := handlers.NewSOSHandler(sosService, trackingService)
	disclosureHandler := handlers.NewDisclosureHandler(disclosureService, auditService)
	profileHandler := handlers.NewProfileHandler(profileService, auditService)
	hospitalHandler := handlers.NewHospitalHandler(hospitalService)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())

	jwtSecret := cfg.Security.JWTSecret
	v1 := router.Group("/api/v1")
	{
		routes.SetupSOSRoutes(v1, jwtSecret, sosHandler, disclosureHandler)
		routes.SetupProfileRoutes(v1, jwtSecret, profileHandler, hospitalHandler)
		routes.SetupWebSocketRoutes(v1, jwtSecret, wsHandler)
	}

	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		if err := db.Ping(); err != nil {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  status,
			"version": cfg.App.Version,
		})
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	appLogger.Infof("Starting %s on %s", cfg.App.Name, addr)
	log.Fatal(http.ListenAndServe(addr, router))
}

// redisCacheOrNil keeps the repository constructor's CacheService parameter
// nil-safe: a typed nil *RedisCache inside a non-nil interface would defeat
// the repo's nil checks.
func redisCacheOrNil(c *cache.RedisCache) mongodb.CacheService {
	if c == nil {
		return nil
	}
	return c
}
